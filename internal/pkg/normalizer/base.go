// Package normalizer implements the two format-agnostic cleanup passes
// the engine runs around every format's own pipeline: a Base pass that
// is always safe, and a Universal pass that classifies columns by name
// and applies semantic field normalizers.
package normalizer

import (
	"strings"

	"github.com/csvforge/csvforge/internal/pkg/format"
)

const (
	nbsp      = ' '
	zwspStart = '​'
	zwspEnd   = '‍'
	bom       = '\U0000FEFF'
)

// Base strips invisible characters and surrounding whitespace from
// every cell. It never changes the meaning of a cell's visible
// content, so it is always safe to run — on raw input and again after
// a format's own pipeline.
func Base(headers format.Headers, rows []format.Row) ([]format.Row, []string) {
	removedHidden := false
	trimmedAny := false

	out := make([]format.Row, len(rows))
	for i, row := range rows {
		updates := make(map[string]string, len(headers))
		for _, h := range headers {
			original := row.Get(h)
			cleaned, hadHidden := stripHidden(original)
			trimmed := strings.TrimSpace(cleaned)
			if hadHidden {
				removedHidden = true
			}
			if trimmed != cleaned {
				trimmedAny = true
			}
			updates[h] = trimmed
		}
		out[i] = row.WithMany(updates)
	}

	var fixes []string
	if removedHidden {
		fixes = append(fixes, "Removed hidden characters")
	}
	if trimmedAny {
		fixes = append(fixes, "Trimmed whitespace")
	}
	return out, fixes
}

// stripHidden replaces NBSP with a regular space and drops zero-width
// characters and the byte-order mark, reporting whether anything
// changed.
func stripHidden(s string) (cleaned string, changed bool) {
	if !strings.ContainsAny(s, string([]rune{nbsp, zwspStart, zwspEnd, bom})) {
		return s, false
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == nbsp:
			b.WriteRune(' ')
			changed = true
		case r >= zwspStart && r <= zwspEnd, r == bom:
			changed = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), changed
}
