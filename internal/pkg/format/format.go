// Package format defines the core tabular data model (Headers, Row,
// FixResult) and the Format interface every platform optimizer and the
// custom-format compiler implement.
package format

import (
	"context"
	"strings"

	"github.com/csvforge/csvforge/internal/pkg/issue"
)

// Cell is always a string; the engine never represents a cell as null.
type Cell = string

// Headers is an ordered sequence of column names. Distinctness is the
// caller's responsibility once past CsvCodec.Parse (which reports
// duplicates as parse-level issues rather than enforcing it).
type Headers []string

// Index returns the position of name in h, or -1 if absent.
func (h Headers) Index(name string) int {
	for i, v := range h {
		if v == name {
			return i
		}
	}
	return -1
}

// Contains reports whether name appears in h.
func (h Headers) Contains(name string) bool {
	return h.Index(name) >= 0
}

// Clone returns an independent copy of h.
func (h Headers) Clone() Headers {
	out := make(Headers, len(h))
	copy(out, h)
	return out
}

// Row maps header names to cell values; column order comes from the
// Headers passed to Cells. Missing keys read back as empty strings; Row is immutable to callers once
// returned from any pipeline stage — every mutation method returns a
// new Row (copy-on-write).
type Row struct {
	values map[string]Cell
}

// NewRow builds a Row from parallel headers/cells slices. Cells beyond
// len(headers) are ignored; missing cells become empty strings.
func NewRow(headers Headers, cells []Cell) Row {
	values := make(map[string]Cell, len(headers))
	for i, h := range headers {
		if i < len(cells) {
			values[h] = cells[i]
		} else {
			values[h] = ""
		}
	}
	return Row{values: values}
}

// NewRowFromMap builds a Row directly from a header->cell map. The map
// is copied so the caller's map can be mutated freely afterward.
func NewRowFromMap(values map[string]Cell) Row {
	copied := make(map[string]Cell, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Row{values: copied}
}

// Get returns the cell at key, or "" if key is unset.
func (r Row) Get(key string) Cell {
	return r.values[key]
}

// Has reports whether key has an explicit value in the row (as opposed
// to simply reading back as "").
func (r Row) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// With returns a copy of r with key set to value.
func (r Row) With(key string, value Cell) Row {
	out := r.clone()
	out.values[key] = value
	return out
}

// WithMany returns a copy of r with several keys set at once.
func (r Row) WithMany(updates map[string]Cell) Row {
	out := r.clone()
	for k, v := range updates {
		out.values[k] = v
	}
	return out
}

// Project returns a new Row containing only the given headers, filling
// any absent ones with "".
func (r Row) Project(headers Headers) Row {
	values := make(map[string]Cell, len(headers))
	for _, h := range headers {
		values[h] = r.values[h]
	}
	return Row{values: values}
}

func (r Row) clone() Row {
	out := make(map[string]Cell, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return Row{values: out}
}

// Cells renders r in the given header order.
func (r Row) Cells(headers Headers) []Cell {
	out := make([]Cell, len(headers))
	for i, h := range headers {
		out[i] = r.values[h]
	}
	return out
}

// FixResult is the output of CsvCodec.Parse followed by a Format.Apply
// run (or of Apply alone, on already-parsed input).
type FixResult struct {
	FixedHeaders Headers
	FixedRows    []Row
	Issues       []issue.Issue
	FixesApplied []string
}

// AppendFix appends name to FixesApplied, deduplicating by trimmed
// equality while preserving first-appearance order.
func (f *FixResult) AppendFix(name string) {
	f.FixesApplied = appendFixDeduped(f.FixesApplied, name)
}

func appendFixDeduped(existing []string, name string) []string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return existing
	}
	for _, e := range existing {
		if strings.TrimSpace(e) == trimmed {
			return existing
		}
	}
	return append(existing, name)
}

// Category classifies a Format for display/grouping purposes.
type Category string

const (
	CategoryGeneral   Category = "General"
	CategoryEcommerce Category = "Ecommerce"
	CategoryMarketing Category = "Marketing"
	CategoryCRM       Category = "CRM"
	CategoryAccounting Category = "Accounting"
	CategoryShipping  Category = "Shipping"
	CategorySupport   Category = "Support"
	CategoryCustom    Category = "Custom"
)

// Source distinguishes built-in platform formats from host-persisted
// user formats.
type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceUser    Source = "user"
)

// ApplyFunc is the pipeline a Format runs: canonicalize headers, apply
// per-row normalization/validation, then cross-row structural checks.
type ApplyFunc func(ctx context.Context, headers Headers, rows []Row) FixResult

// Format is a named, registered pipeline plus its display metadata.
type Format struct {
	ID             string
	Name           string
	Description    string
	Category       Category
	Source         Source
	Apply          ApplyFunc
	ExpectedHeaders Headers
	ExampleRow      map[string]Cell
}
