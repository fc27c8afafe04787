// Package shopify implements the Shopify Products CSV optimizer:
// header canonicalization against the official template, per-row
// validation and safe fixes, and the cross-row structural checks that
// make Shopify the hardest of the platform optimizers (handle
// grouping, variant option-combo collisions, image position
// coherence).
package shopify

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/csvforge/csvforge/internal/pkg/format"
	"github.com/csvforge/csvforge/internal/pkg/issue"
	"github.com/csvforge/csvforge/internal/pkg/money"
	"github.com/csvforge/csvforge/internal/pkg/optimizer/variantkey"
)

const ns = "shopify"

const (
	colHandle      = "URL handle"
	colTitle       = "Title"
	colVendor      = "Vendor"
	colType        = "Type"
	colTags        = "Tags"
	colStatus      = "Status"
	colDescription = "Description"
	colSKU         = "SKU"
	colImagePos    = "Image position"
)

var booleanFields = []string{
	"Published on online store", "Requires shipping", "Continue selling when out of stock",
	"Charge tax", "Gift card",
}

var moneyFields = []string{"Price", "Compare-at price", "Cost per item"}

var imageURLFields = []string{"Product image URL", "Variant image URL"}

// productLevelFields must be identical across every row sharing a
// handle; a mismatch is flagged as shopify/inconsistent_product_field.
var productLevelFields = []string{colTitle, colVendor, colType, colTags, colStatus, colDescription}

// New returns the Shopify Products format.
func New() format.Format {
	return format.Format{
		ID:              "shopify_products",
		Name:            "Shopify Products",
		Description:     "Shopify Products CSV: official template header order, variant/handle structural checks.",
		Category:        format.CategoryEcommerce,
		Source:          format.SourceBuiltin,
		Apply:           Apply,
		ExpectedHeaders: OfficialTemplate,
		ExampleRow: map[string]format.Cell{
			"Title": "Classic Tee", "URL handle": "classic-tee", "Description": "A classic cotton tee.",
			"Vendor": "Acme Apparel", "Type": "Shirts", "Tags": "cotton, unisex",
			"Published on online store": "true", "Status": "active", "SKU": "TEE-BLK-M",
			"Option1 name": "Color", "Option1 value": "Black",
			"Option2 name": "Size", "Option2 value": "M",
			"Price": "19.99", "Compare-at price": "24.99", "Cost per item": "8.00",
			"Charge tax": "true", "Inventory quantity": "100",
			"Weight value (grams)": "200", "Weight unit for display": "g", "Requires shipping": "true",
			"Product image URL": "https://example.com/images/classic-tee.jpg", "Image position": "1",
		},
	}
}

// Apply runs the full Shopify pipeline: canonicalize headers onto the
// official template, validate and fix each row, then run the cross-row
// structural checks.
func Apply(ctx context.Context, headers format.Headers, rows []format.Row) format.FixResult {
	canonicalHeaders, canonicalRows, fixes := EnforceTemplate(headers, rows)

	sink := issue.NewSink(issue.DefaultMaxPerFormat)
	var rowFixes []string

	fixedRows := make([]format.Row, len(canonicalRows))
	for i, row := range canonicalRows {
		if ctx.Err() != nil {
			copy(fixedRows[i:], canonicalRows[i:])
			sink.Add(issue.File(issue.SeverityInfo, issue.Code("engine", "cancelled"), "cancelled during per-row pass"))
			break
		}
		fixed, rf := validateRow(i, row, sink)
		fixedRows[i] = fixed
		for _, f := range rf {
			rowFixes = appendUnique(rowFixes, f)
		}
	}

	if ctx.Err() == nil {
		checkDuplicateSKUs(fixedRows, sink)
		checkHandleGroups(fixedRows, sink)
		checkVariantCombos(fixedRows, sink)
		checkImagePositions(fixedRows, sink)
	}

	result := format.FixResult{
		FixedHeaders: canonicalHeaders,
		FixedRows:    fixedRows,
		Issues:       sink.Issues(),
	}
	for _, f := range fixes {
		result.AppendFix(f)
	}
	for _, f := range rowFixes {
		result.AppendFix(f)
	}
	return result
}

func appendUnique(list []string, v string) []string {
	for _, e := range list {
		if e == v {
			return list
		}
	}
	return append(list, v)
}

// EnforceTemplate projects headers/rows onto the official template:
// every recognized legacy/alias column is remapped to its canonical
// name (case-insensitively), unrecognized columns are preserved and
// appended after the template in stable input order, and the legacy
// Variant Weight + Variant Weight Unit pair is converted to grams. It
// is used both by Apply (to build its own output) and by the engine's
// Shopify post-enforcement step, so both paths agree on the exact same
// header shape.
func EnforceTemplate(headers format.Headers, rows []format.Row) (format.Headers, []format.Row, []string) {
	canonicalOf := make(map[string]string, len(headers)) // input header -> canonical name
	var unknown []string
	for _, h := range headers {
		if canon, ok := resolveCanonical(h); ok {
			canonicalOf[h] = canon
		} else {
			unknown = append(unknown, h)
		}
	}

	finalHeaders := append(format.Headers{}, OfficialTemplate...)
	finalHeaders = append(finalHeaders, unknown...)

	var fixes []string
	weightConverted := false

	outRows := make([]format.Row, len(rows))
	for i, row := range rows {
		values := make(map[string]format.Cell, len(finalHeaders))
		for _, h := range headers {
			canon, ok := canonicalOf[h]
			if !ok {
				canon = h
			}
			if v := row.Get(h); v != "" || !hasValue(values, canon) {
				values[canon] = row.Get(h)
			}
		}
		for _, h := range finalHeaders {
			if _, ok := values[h]; !ok {
				values[h] = ""
			}
		}

		newRow := format.NewRowFromMap(values)
		if v := newRow.Get("Weight value (grams)"); v != "" {
			if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				unit := newRow.Get("Weight unit for display")
				if unit != "" && strings.ToLower(strings.TrimSpace(unit)) != "g" {
					if grams, ok := money.GramsFromWeight(n, unit); ok {
						newRow = newRow.WithMany(map[string]string{
							"Weight value (grams)":    strconv.FormatFloat(grams, 'f', -1, 64),
							"Weight unit for display": "g",
						})
						weightConverted = true
					}
				}
			}
		}
		newRow = reapplyCriticalNormalization(newRow)
		outRows[i] = newRow
	}

	if weightConverted {
		fixes = append(fixes, "Converted legacy variant weight to grams")
	}
	return finalHeaders, outRows, fixes
}

// reapplyCriticalNormalization restores the canonical Shopify
// representation of fields the universal normalizer's boolean rule
// would otherwise have clobbered (it maps booleans to TRUE/FALSE,
// while Shopify's own convention is lowercase true/false), since the
// engine always runs Universal cleanup between a format's own Apply
// and this post-enforcement pass.
func reapplyCriticalNormalization(row format.Row) format.Row {
	for _, col := range booleanFields {
		v := row.Get(col)
		switch strings.ToUpper(strings.TrimSpace(v)) {
		case "TRUE":
			row = row.With(col, "true")
		case "FALSE":
			row = row.With(col, "false")
		}
	}
	for _, col := range moneyFields {
		if v := row.Get(col); v != "" {
			if formatted, ok := money.ParseAndFormat(v); ok {
				row = row.With(col, formatted)
			}
		}
	}
	if v := row.Get("Inventory quantity"); v != "" {
		if n, ok := money.ParseNonNegativeInt(v); ok {
			row = row.With("Inventory quantity", strconv.Itoa(n))
		}
	}
	return row
}

func hasValue(values map[string]format.Cell, key string) bool {
	v, ok := values[key]
	return ok && v != ""
}

func resolveCanonical(inputHeader string) (string, bool) {
	if templateSet[inputHeader] {
		return inputHeader, true
	}
	for _, official := range OfficialTemplate {
		if strings.EqualFold(official, inputHeader) {
			return official, true
		}
	}
	if canon, ok := legacySynonyms[inputHeader]; ok {
		return canon, true
	}
	for legacy, canon := range legacySynonyms {
		if strings.EqualFold(legacy, inputHeader) {
			return canon, true
		}
	}
	return "", false
}

func validateRow(idx int, row format.Row, sink *issue.Sink) (format.Row, []string) {
	var fixes []string

	for _, col := range booleanFields {
		v := row.Get(col)
		if v == "" {
			continue
		}
		lower := strings.ToLower(strings.TrimSpace(v))
		switch lower {
		case "true", "t", "yes", "y", "1":
			if v != "true" {
				row = row.With(col, "true")
				fixes = append(fixes, "Normalized boolean values")
			}
		case "false", "f", "no", "n", "0":
			if v != "false" {
				row = row.With(col, "false")
				fixes = append(fixes, "Normalized boolean values")
			}
		default:
			sink.Add(issue.Row(idx, col, issue.SeverityWarning, issue.Code(ns, "unrecognized_boolean"),
				"value '"+v+"' is not a recognized boolean and was left unchanged"))
		}
	}

	for _, col := range moneyFields {
		v := row.Get(col)
		if v == "" {
			continue
		}
		formatted, ok := money.ParseAndFormat(v)
		if !ok {
			sink.Add(issue.Row(idx, col, issue.SeverityError, issue.Code(ns, "invalid_money"),
				"'"+v+"' is not a parsable money value"))
			continue
		}
		if formatted != v {
			row = row.With(col, formatted)
			fixes = append(fixes, "Reformatted money values")
		}
	}

	if v := row.Get("Inventory quantity"); v != "" {
		if _, ok := money.ParseNonNegativeInt(v); !ok {
			sink.Add(issue.Row(idx, "Inventory quantity", issue.SeverityError, issue.Code(ns, "invalid_inventory_quantity"),
				"'"+v+"' is not a non-negative integer"))
		}
	}

	if v := row.Get(colHandle); v != "" {
		kebab := toKebab(v)
		if kebab != v {
			sink.Add(issue.Row(idx, colHandle, issue.SeverityWarning, issue.Code(ns, "handle_not_kebab_case"),
				"handle should be lowercase with hyphens only").
				WithSuggestion(kebab))
		}
	}

	for _, col := range imageURLFields {
		v := row.Get(col)
		if v != "" && !money.IsHTTPURL(v) {
			sink.Add(issue.Row(idx, col, issue.SeverityError, issue.Code(ns, "invalid_image_url"),
				"'"+v+"' is not a valid http(s) URL"))
		}
	}

	return row, fixes
}

func toKebab(s string) string {
	lower := strings.ToLower(s)
	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '_':
			b.WriteByte('-')
		}
	}
	return b.String()
}

func checkDuplicateSKUs(rows []format.Row, sink *issue.Sink) {
	bySKU := make(map[string][]int)
	handleBySKU := make(map[string]map[string]bool)
	for i, row := range rows {
		sku := row.Get(colSKU)
		if sku == "" {
			continue
		}
		bySKU[sku] = append(bySKU[sku], i)
		if handleBySKU[sku] == nil {
			handleBySKU[sku] = make(map[string]bool)
		}
		handleBySKU[sku][row.Get(colHandle)] = true
	}
	skus := make([]string, 0, len(bySKU))
	for sku := range bySKU {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	for _, sku := range skus {
		idxs := bySKU[sku]
		if len(idxs) < 2 {
			continue
		}
		code := issue.Code(ns, "duplicate_sku")
		msg := "SKU '" + sku + "' is used by multiple rows"
		if len(handleBySKU[sku]) > 1 {
			code = issue.Code(ns, "duplicate_sku_cross_handle")
			msg = "SKU '" + sku + "' is used by rows across different product handles"
		}
		for _, i := range idxs {
			sink.Add(issue.Row(i, colSKU, issue.SeverityWarning, code, msg).
				WithDetails(map[string]any{"rows": idxs, "sku": sku}))
		}
	}
}

func checkHandleGroups(rows []format.Row, sink *issue.Sink) {
	groups := groupByHandle(rows)
	for _, handle := range sortedHandles(groups) {
		idxs := groups[handle]
		if len(idxs) < 2 {
			continue
		}
		first := rows[idxs[0]]
		for _, field := range productLevelFields {
			want := first.Get(field)
			for _, i := range idxs[1:] {
				got := rows[i].Get(field)
				if got != want && got != "" {
					sink.Add(issue.Row(i, field, issue.SeverityWarning, issue.Code(ns, "inconsistent_product_field"),
						"field '"+field+"' differs from the first row in handle '"+handle+"'").
						WithDetails(map[string]any{"handle": handle, "rows": idxs, "expected": want, "got": got}))
				}
			}
		}
	}
}

func checkVariantCombos(rows []format.Row, sink *issue.Sink) {
	opt1, opt2, opt3 := variantkey.ResolveOptionColumns(OfficialTemplate)
	groups := groupByHandle(rows)
	for _, handle := range sortedHandles(groups) {
		idxs := groups[handle]
		seen := make(map[string][]int)
		for _, i := range idxs {
			row := rows[i]
			if !variantkey.HasVariantSignal(row, colSKU, "Price", opt1, opt2, opt3) {
				continue
			}
			sig := variantkey.Signature(row.Get(opt1), row.Get(opt2), row.Get(opt3))
			seen[sig] = append(seen[sig], i)
		}
		for sig, group := range seen {
			if sig == "||" || len(group) < 2 {
				continue
			}
			for _, i := range group {
				sink.Add(issue.Row(i, colSKU, issue.SeverityError, issue.Code(ns, "duplicate_variant_combo"),
					"variant option combination is duplicated within handle '"+handle+"'").
					WithDetails(map[string]any{"handle": handle, "rows": group}))
			}
		}
	}
}

func checkImagePositions(rows []format.Row, sink *issue.Sink) {
	groups := groupByHandle(rows)
	for _, handle := range sortedHandles(groups) {
		idxs := groups[handle]
		seen := make(map[int][]int)
		var order []int
		for _, i := range idxs {
			v := rows[i].Get(colImagePos)
			if v == "" {
				continue
			}
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n <= 0 {
				sink.Add(issue.Row(i, colImagePos, issue.SeverityInfo, issue.Code(ns, "invalid_image_position"),
					"image position must be a positive integer"))
				continue
			}
			if _, ok := seen[n]; !ok {
				order = append(order, n)
			}
			seen[n] = append(seen[n], i)
		}
		for n, group := range seen {
			if len(group) > 1 {
				sink.Add(issue.Row(group[0], colImagePos, issue.SeverityInfo, issue.Code(ns, "duplicate_image_position"),
					"image position "+strconv.Itoa(n)+" is used by multiple rows in handle '"+handle+"'").
					WithDetails(map[string]any{"handle": handle, "rows": group, "position": n}))
			}
		}
		sort.Ints(order)
		for i := 1; i < len(order); i++ {
			if order[i] != order[i-1]+1 {
				sink.Add(issue.Row(idxs[0], colImagePos, issue.SeverityInfo, issue.Code(ns, "image_position_gap"),
					"image positions in handle '"+handle+"' are not contiguous").
					WithDetails(map[string]any{"handle": handle}))
				break
			}
		}
	}
}

func groupByHandle(rows []format.Row) map[string][]int {
	groups := make(map[string][]int)
	for i, row := range rows {
		handle := row.Get(colHandle)
		if handle == "" {
			continue
		}
		groups[handle] = append(groups[handle], i)
	}
	return groups
}

func sortedHandles(groups map[string][]int) []string {
	handles := make([]string, 0, len(groups))
	for h := range groups {
		handles = append(handles, h)
	}
	sort.Strings(handles)
	return handles
}
