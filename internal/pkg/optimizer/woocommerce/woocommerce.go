// Package woocommerce implements the WooCommerce Products optimizer,
// covering both the mixed simple+variable "products" mode and the
// "variable" mode that can auto-create missing variation parents.
package woocommerce

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/csvforge/csvforge/internal/pkg/format"
	"github.com/csvforge/csvforge/internal/pkg/issue"
	"github.com/csvforge/csvforge/internal/pkg/money"
)

const ns = "woocommerce"

const (
	colType         = "Type"
	colSKU          = "SKU"
	colParent       = "Parent"
	colRegularPrice = "Regular price"
	colSalePrice    = "Sale price"
	colCategories   = "Categories"
)

var booleanFields = []string{"Published", "In stock?", "Backorders allowed?", "Sold individually?"}

var validTypes = map[string]bool{
	"simple": true, "variable": true, "variation": true, "grouped": true, "external": true,
}

// Mode selects between the mixed products import and the
// variable-products-with-parent-autocreation import.
type Mode int

const (
	ModeProducts Mode = iota
	ModeVariable
)

// Options configures the optimizer instance returned by New.
type Options struct {
	Mode                     Mode
	AutoCreateMissingParents bool
}

// New returns the WooCommerce Products format configured for opts.
func New(opts Options) format.Format {
	id := "woocommerce_products"
	name := "WooCommerce Products"
	if opts.Mode == ModeVariable {
		id = "woocommerce_variable_products"
		name = "WooCommerce Variable Products"
	}
	return format.Format{
		ID:          id,
		Name:        name,
		Description: "WooCommerce product export/import CSV, including variable product variations.",
		Category:    format.CategoryEcommerce,
		Source:      format.SourceBuiltin,
		Apply: func(ctx context.Context, headers format.Headers, rows []format.Row) format.FixResult {
			return apply(ctx, headers, rows, opts)
		},
		ExpectedHeaders: format.Headers{
			colType, colSKU, colParent, "Name", colRegularPrice, colSalePrice, colCategories,
			"Published", "In stock?", "Backorders allowed?", "Sold individually?",
			"Attribute 1 name", "Attribute 1 value(s)",
		},
		ExampleRow: map[string]format.Cell{
			colType: "variable", colSKU: "HOODIE-001", "Name": "Pullover Hoodie",
			colRegularPrice: "45.00", colSalePrice: "39.00", colCategories: "Apparel > Hoodies",
			"Published": "1", "In stock?": "1", "Backorders allowed?": "0", "Sold individually?": "0",
			"Attribute 1 name": "Size", "Attribute 1 value(s)": "S, M, L",
		},
	}
}

func apply(ctx context.Context, headers format.Headers, rows []format.Row, opts Options) format.FixResult {
	sink := issue.NewSink(issue.DefaultMaxPerFormat)
	var fixes []string

	fixedRows := make([]format.Row, len(rows))
	for i, row := range rows {
		if ctx.Err() != nil {
			copy(fixedRows[i:], rows[i:])
			sink.Add(issue.File(issue.SeverityInfo, issue.Code("engine", "cancelled"), "cancelled during per-row pass"))
			break
		}
		fixed, rf := validateRow(i, row, sink)
		fixedRows[i] = fixed
		fixes = appendAllUnique(fixes, rf)
	}

	finalHeaders := headers.Clone()
	if ctx.Err() == nil {
		checkDuplicateAttributeCombos(headers, fixedRows, sink)
		if opts.AutoCreateMissingParents {
			var parentFixes []string
			finalHeaders, fixedRows, parentFixes = autoCreateMissingParents(finalHeaders, fixedRows, sink)
			fixes = appendAllUnique(fixes, parentFixes)
		} else {
			checkOrphanVariations(fixedRows, sink)
		}
	}

	result := format.FixResult{FixedHeaders: finalHeaders, FixedRows: fixedRows, Issues: sink.Issues()}
	for _, f := range fixes {
		result.AppendFix(f)
	}
	return result
}

// ReapplyCriticalNormalization restores WooCommerce's "1"/"0" boolean
// convention on booleanFields. The engine runs universal cleanup after
// every format's own Apply, and universal cleanup classifies these same
// headers as booleans by substring match and remaps them to TRUE/FALSE,
// so this pass must run after universal cleanup to make the final
// output match WooCommerce's own convention again.
func ReapplyCriticalNormalization(rows []format.Row) []format.Row {
	out := make([]format.Row, len(rows))
	for i, row := range rows {
		for _, col := range booleanFields {
			v := row.Get(col)
			switch strings.ToUpper(strings.TrimSpace(v)) {
			case "TRUE":
				row = row.With(col, "1")
			case "FALSE":
				row = row.With(col, "0")
			}
		}
		out[i] = row
	}
	return out
}

func appendAllUnique(list []string, add []string) []string {
	for _, v := range add {
		found := false
		for _, e := range list {
			if e == v {
				found = true
				break
			}
		}
		if !found {
			list = append(list, v)
		}
	}
	return list
}

func validateRow(idx int, row format.Row, sink *issue.Sink) (format.Row, []string) {
	var fixes []string

	if v := row.Get(colType); v != "" {
		lower := strings.ToLower(strings.TrimSpace(v))
		if !validTypes[lower] {
			sink.Add(issue.Row(idx, colType, issue.SeverityError, issue.Code(ns, "invalid_type"),
				"'"+v+"' is not a recognized product type"))
		} else if lower != v {
			row = row.With(colType, lower)
			fixes = append(fixes, "Canonicalized product type")
		}
	}

	for _, col := range booleanFields {
		v := row.Get(col)
		if v == "" {
			continue
		}
		lower := strings.ToLower(strings.TrimSpace(v))
		switch lower {
		case "1", "yes", "y", "true", "t":
			if v != "1" {
				row = row.With(col, "1")
				fixes = append(fixes, "Normalized boolean values")
			}
		case "0", "no", "n", "false", "f":
			if v != "0" {
				row = row.With(col, "0")
				fixes = append(fixes, "Normalized boolean values")
			}
		default:
			sink.Add(issue.Row(idx, col, issue.SeverityWarning, issue.Code(ns, "unrecognized_boolean"),
				"value '"+v+"' is not a recognized boolean and was left unchanged"))
		}
	}

	regular, hasRegular := money.Parse(row.Get(colRegularPrice))
	sale, hasSale := money.Parse(row.Get(colSalePrice))
	if hasRegular && hasSale && (sale.GreaterThanOrEqual(regular)) {
		sink.Add(issue.Row(idx, colSalePrice, issue.SeverityWarning, issue.Code(ns, "sale_price_not_lower"),
			"sale price is not lower than regular price"))
	}

	if v := row.Get(colCategories); v != "" {
		normalized := normalizeCategories(v)
		if normalized != v {
			row = row.With(colCategories, normalized)
			fixes = append(fixes, "Normalized category hierarchy separators")
		}
	}

	return row, fixes
}

var categorySeparator = regexp.MustCompile(`\s*>\s*`)

func normalizeCategories(v string) string {
	parts := strings.Split(v, ",")
	for i, p := range parts {
		parts[i] = categorySeparator.ReplaceAllString(strings.TrimSpace(p), " > ")
	}
	return strings.Join(parts, ", ")
}

// attributeValueColumn matches WooCommerce's "Attribute N value(s)"
// column naming.
var attributeValueColumn = regexp.MustCompile(`(?i)^attribute \d+ value`)

func resolveAttributeColumns(headers format.Headers) []string {
	var cols []string
	for _, h := range headers {
		if attributeValueColumn.MatchString(h) {
			cols = append(cols, h)
		}
	}
	return cols
}

func attributeSignature(row format.Row, attrCols []string) string {
	parts := make([]string, len(attrCols))
	for i, c := range attrCols {
		parts[i] = strings.ToLower(strings.TrimSpace(row.Get(c)))
	}
	return strings.Join(parts, "|")
}

func checkDuplicateAttributeCombos(headers format.Headers, rows []format.Row, sink *issue.Sink) {
	if len(rows) == 0 {
		return
	}
	attrCols := resolveAttributeColumns(headers)
	if len(attrCols) == 0 {
		return
	}
	byParent := make(map[string]map[string][]int)
	for i, row := range rows {
		if strings.ToLower(row.Get(colType)) != "variation" {
			continue
		}
		parent := row.Get(colParent)
		sig := attributeSignature(row, attrCols)
		if byParent[parent] == nil {
			byParent[parent] = make(map[string][]int)
		}
		byParent[parent][sig] = append(byParent[parent][sig], i)
	}
	for _, parent := range sortedKeys(byParent) {
		sigs := byParent[parent]
		for _, sig := range sortedStringKeys(sigs) {
			idxs := sigs[sig]
			if len(idxs) < 2 {
				continue
			}
			for _, i := range idxs {
				sink.Add(issue.Row(i, colParent, issue.SeverityError, issue.Code(ns, "duplicate_attribute_combo"),
					"variation attribute combination is duplicated under parent '"+parent+"'").
					WithDetails(map[string]any{"parent": parent, "rows": idxs}))
			}
		}
	}
}

func checkOrphanVariations(rows []format.Row, sink *issue.Sink) {
	knownParents := make(map[string]bool)
	for _, row := range rows {
		if strings.ToLower(row.Get(colType)) == "variable" {
			if sku := row.Get(colSKU); sku != "" {
				knownParents[sku] = true
			}
		}
	}
	for i, row := range rows {
		if strings.ToLower(row.Get(colType)) != "variation" {
			continue
		}
		parent := row.Get(colParent)
		if parent == "" || !knownParents[parent] {
			sink.Add(issue.Row(i, colParent, issue.SeverityError, issue.Code(ns, "orphan_variation"),
				"variation row does not reference an existing variable parent"))
		}
	}
}

func autoCreateMissingParents(headers format.Headers, rows []format.Row, sink *issue.Sink) (format.Headers, []format.Row, []string) {
	knownParents := make(map[string]bool)
	for _, row := range rows {
		if strings.ToLower(row.Get(colType)) == "variable" {
			if sku := row.Get(colSKU); sku != "" {
				knownParents[sku] = true
			}
		}
	}

	var fixes []string
	var synthesized []format.Row
	created := make(map[string]bool)
	for i, row := range rows {
		if strings.ToLower(row.Get(colType)) != "variation" {
			continue
		}
		parent := row.Get(colParent)
		if parent == "" {
			sink.Add(issue.Row(i, colParent, issue.SeverityError, issue.Code(ns, "orphan_variation"),
				"variation row has no parent reference to auto-create from"))
			continue
		}
		if knownParents[parent] || created[parent] {
			continue
		}
		placeholder := format.NewRowFromMap(map[string]format.Cell{
			colType: "variable",
			colSKU:  parent,
		}).Project(headers)
		synthesized = append(synthesized, placeholder)
		created[parent] = true
		fixes = append(fixes, "WooCommerce: auto-created parent row for '"+parent+"'")
	}

	// Synthesized rows are appended after the original rows, not
	// prepended before them, so row indices already recorded in sink
	// (by checkDuplicateAttributeCombos and the orphan check above)
	// keep pointing at the same rows in the returned slice.
	out := append(append([]format.Row{}, rows...), synthesized...)
	return headers, out, fixes
}

func sortedKeys(m map[string]map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStringKeys(m map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
