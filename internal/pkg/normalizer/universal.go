package normalizer

import (
	"regexp"
	"strings"

	"github.com/csvforge/csvforge/internal/pkg/format"
)

// category is the semantic class a header is assigned to by name
// substring, classifying a column before deciding how to treat its
// values.
type category int

const (
	catOther category = iota
	catFreeText
	catEmail
	catPhone
	catTag
	catSKU
	catHandle
	catBoolean
	catNumeric
)

var freeTextMarkers = []string{"body", "description", "html", "notes", "message"}
var categoryMarkers = []struct {
	cat      category
	markers  []string
}{
	{catEmail, []string{"email"}},
	{catPhone, []string{"phone", "mobile", "tel"}},
	{catTag, []string{"tag"}},
	{catSKU, []string{"sku"}},
	{catHandle, []string{"handle", "slug"}},
	{catBoolean, []string{"published", "active", "enabled"}},
	{catNumeric, []string{"price", "amount", "qty", "quantity", "inventory", "weight"}},
}

func classifyHeader(name string) category {
	lower := strings.ToLower(name)
	for _, m := range freeTextMarkers {
		if strings.Contains(lower, m) {
			return catFreeText
		}
	}
	for _, entry := range categoryMarkers {
		for _, m := range entry.markers {
			if strings.Contains(lower, m) {
				return entry.cat
			}
		}
	}
	return catOther
}

var innerWhitespace = regexp.MustCompile(`\s+`)

var truthy = map[string]bool{"true": true, "t": true, "yes": true, "y": true, "1": true}
var falsy = map[string]bool{"false": true, "f": true, "no": true, "n": true, "0": true}

var numericShape = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
var currencyNoise = strings.NewReplacer("$", "", "£", "", "€", "", "¥", "", ",", "", " ", "")

var skuDrop = regexp.MustCompile(`[^A-Z0-9_-]`)
var handleDrop = regexp.MustCompile(`[^a-z0-9_-]`)

// Universal classifies every header by name substring and applies the
// matching semantic cleanup. Free-text headers (body/description/html/
// notes/message) are excluded from inner-whitespace collapsing so
// prose content is left intact.
func Universal(headers format.Headers, rows []format.Row) ([]format.Row, []string) {
	cats := make(map[string]category, len(headers))
	for _, h := range headers {
		cats[h] = classifyHeader(h)
	}

	changed := make(map[category]bool)
	collapsedOther := false

	out := make([]format.Row, len(rows))
	for i, row := range rows {
		updates := make(map[string]string, len(headers))
		for _, h := range headers {
			original := row.Get(h)
			cat := cats[h]
			var next string
			switch cat {
			case catFreeText:
				next = original
			case catEmail:
				next = normalizeEmail(original)
			case catPhone:
				next = normalizePhone(original)
			case catTag:
				next = normalizeTags(original)
			case catSKU:
				next = normalizeSKU(original)
			case catHandle:
				next = normalizeHandle(original)
			case catBoolean:
				next = normalizeBoolean(original)
			case catNumeric:
				next = normalizeNumeric(original)
			default:
				next = innerWhitespace.ReplaceAllString(original, " ")
				if next != original {
					collapsedOther = true
				}
			}
			if next != original && cat != catOther {
				changed[cat] = true
			}
			updates[h] = next
		}
		out[i] = row.WithMany(updates)
	}

	var fixes []string
	if changed[catEmail] {
		fixes = append(fixes, "Normalized email formatting")
	}
	if changed[catPhone] {
		fixes = append(fixes, "Normalized phone formatting")
	}
	if changed[catTag] {
		fixes = append(fixes, "Normalized tags formatting")
	}
	if changed[catBoolean] {
		fixes = append(fixes, "Normalized boolean values")
	}
	if changed[catNumeric] {
		fixes = append(fixes, "Normalized numeric formatting")
	}
	if changed[catSKU] {
		fixes = append(fixes, "Normalized SKU formatting")
	}
	if changed[catHandle] {
		fixes = append(fixes, "Normalized handle formatting")
	}
	if collapsedOther {
		fixes = append(fixes, "Collapsed extra whitespace")
	}
	return out, fixes
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}

func normalizePhone(s string) string {
	var b strings.Builder
	leadingPlus := strings.HasPrefix(strings.TrimSpace(s), "+")
	if leadingPlus {
		b.WriteByte('+')
	}
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeTags(s string) string {
	if s == "" {
		return s
	}
	parts := strings.Split(s, ",")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, ", ")
}

func normalizeBoolean(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	if truthy[lower] {
		return "TRUE"
	}
	if falsy[lower] {
		return "FALSE"
	}
	return s
}

func normalizeNumeric(s string) string {
	cleaned := strings.TrimSpace(currencyNoise.Replace(s))
	if cleaned == "" || !numericShape.MatchString(cleaned) {
		return s
	}
	return cleaned
}

func normalizeSKU(s string) string {
	upper := strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	return skuDrop.ReplaceAllString(upper, "")
}

func normalizeHandle(s string) string {
	lower := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	return handleDrop.ReplaceAllString(lower, "")
}
