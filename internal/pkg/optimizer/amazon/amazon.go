// Package amazon implements the Amazon Inventory Loader optimizer:
// enum validation, length limits, and price/quantity checks for bulk
// listing feeds.
package amazon

import (
	"context"
	"strings"

	"github.com/csvforge/csvforge/internal/pkg/format"
	"github.com/csvforge/csvforge/internal/pkg/issue"
	"github.com/csvforge/csvforge/internal/pkg/money"
)

const ns = "amazon"

const (
	colSKU                 = "sku"
	colProductIDType       = "product-id-type"
	colItemCondition       = "item-condition"
	colAddDelete           = "add-delete"
	colFulfillmentChannel  = "fulfillment-channel"
	colItemName            = "item-name"
	colItemDescription     = "item-description"
	colBrandName           = "brand-name"
	colPrice               = "price"
	colQuantity            = "quantity"
	colWillShipIntl        = "will-ship-internationally"
	colExpeditedShipping   = "expedited-shipping"
)

var productIDTypes = map[string]bool{"ASIN": true, "UPC": true, "EAN": true, "ISBN": true, "JAN": true, "GCID": true}
var itemConditions = map[string]bool{"1": true, "2": true, "3": true, "4": true, "5": true, "6": true, "7": true, "8": true, "10": true, "11": true}
var addDeleteValues = map[string]bool{"a": true, "d": true}
var fulfillmentChannels = map[string]bool{"DEFAULT": true, "AMAZON_NA": true, "AMAZON_EU": true, "AMAZON_FE": true}

const (
	maxSKULen         = 40
	maxItemNameLen    = 500
	maxDescriptionLen = 2000
	maxBrandNameLen   = 50
)

// New returns the Amazon Inventory Loader format.
func New() format.Format {
	return format.Format{
		ID:          "amazon_inventory_loader",
		Name:        "Amazon Inventory Loader",
		Description: "Amazon Seller Central Inventory Loader feed.",
		Category:    format.CategoryEcommerce,
		Source:      format.SourceBuiltin,
		Apply:       Apply,
		ExpectedHeaders: format.Headers{
			colSKU, colProductIDType, "product-id", colItemName, colItemDescription, colBrandName,
			colItemCondition, colAddDelete, colFulfillmentChannel, colPrice, colQuantity,
			colWillShipIntl, colExpeditedShipping,
		},
		ExampleRow: map[string]format.Cell{
			colSKU: "ACME-MUG-001", colProductIDType: "UPC", "product-id": "012345678905",
			colItemName:        "Acme Ceramic Mug, 12oz",
			colItemDescription: "A sturdy ceramic mug for hot and cold beverages.",
			colBrandName:       "Acme", colItemCondition: "11", colAddDelete: "a",
			colFulfillmentChannel: "DEFAULT", colPrice: "12.99", colQuantity: "50",
			colWillShipIntl: "y", colExpeditedShipping: "n",
		},
	}
}

func Apply(ctx context.Context, headers format.Headers, rows []format.Row) format.FixResult {
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

	if ctx.Err() == nil {
		checkDuplicateSKUs(fixedRows, sink)
	}

	result := format.FixResult{FixedHeaders: headers.Clone(), FixedRows: fixedRows, Issues: sink.Issues()}
	for _, f := range fixes {
		result.AppendFix(f)
	}
	return result
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

	if v := row.Get(colSKU); v != "" && len(v) > maxSKULen {
		sink.Add(issue.Row(idx, colSKU, issue.SeverityError, issue.Code(ns, "sku_too_long"),
			"sku exceeds the maximum length").
			WithDetails(map[string]any{"length": len(v), "max": maxSKULen}))
	}
	if v := row.Get(colItemName); v != "" && len(v) > maxItemNameLen {
		sink.Add(issue.Row(idx, colItemName, issue.SeverityWarning, issue.Code(ns, "item_name_too_long"),
			"item-name exceeds the recommended maximum length").
			WithDetails(map[string]any{"length": len(v), "max": maxItemNameLen}))
	}
	if v := row.Get(colItemDescription); v != "" && len(v) > maxDescriptionLen {
		sink.Add(issue.Row(idx, colItemDescription, issue.SeverityWarning, issue.Code(ns, "item_description_too_long"),
			"item-description exceeds the recommended maximum length").
			WithDetails(map[string]any{"length": len(v), "max": maxDescriptionLen}))
	}
	if v := row.Get(colBrandName); v != "" && len(v) > maxBrandNameLen {
		sink.Add(issue.Row(idx, colBrandName, issue.SeverityWarning, issue.Code(ns, "brand_name_too_long"),
			"brand-name exceeds the recommended maximum length").
			WithDetails(map[string]any{"length": len(v), "max": maxBrandNameLen}))
	}

	if v := row.Get(colProductIDType); v != "" {
		upper := strings.ToUpper(v)
		if !productIDTypes[upper] {
			sink.Add(issue.Row(idx, colProductIDType, issue.SeverityError, issue.Code(ns, "invalid_product_id_type"),
				"'"+v+"' is not a recognized product-id-type"))
		} else if upper != v {
			row = row.With(colProductIDType, upper)
			fixes = append(fixes, "Normalized product-id-type casing")
		}
	}

	if v := row.Get(colItemCondition); v != "" && !itemConditions[strings.TrimSpace(v)] {
		sink.Add(issue.Row(idx, colItemCondition, issue.SeverityError, issue.Code(ns, "invalid_item_condition"),
			"'"+v+"' is not a recognized item-condition code"))
	}

	if v := row.Get(colAddDelete); v != "" {
		lower := strings.ToLower(v)
		if !addDeleteValues[lower] {
			sink.Add(issue.Row(idx, colAddDelete, issue.SeverityError, issue.Code(ns, "invalid_add_delete"),
				"'"+v+"' must be 'a' or 'd'"))
		} else if lower != v {
			row = row.With(colAddDelete, lower)
			fixes = append(fixes, "Normalized add-delete casing")
		}
	}

	if v := row.Get(colFulfillmentChannel); v != "" {
		upper := strings.ToUpper(v)
		if !fulfillmentChannels[upper] {
			sink.Add(issue.Row(idx, colFulfillmentChannel, issue.SeverityError, issue.Code(ns, "invalid_fulfillment_channel"),
				"'"+v+"' is not a recognized fulfillment-channel"))
		} else if upper != v {
			row = row.With(colFulfillmentChannel, upper)
			fixes = append(fixes, "Normalized fulfillment-channel casing")
		}
	}

	if v := row.Get(colPrice); v != "" {
		formatted, ok := money.ParseAndFormat(v)
		if !ok {
			sink.Add(issue.Row(idx, colPrice, issue.SeverityError, issue.Code(ns, "invalid_price"),
				"'"+v+"' is not a parsable money value"))
		} else if formatted != v {
			row = row.With(colPrice, formatted)
			fixes = append(fixes, "Reformatted money values")
		}
	}

	if v := row.Get(colQuantity); v != "" {
		if _, ok := money.ParseNonNegativeInt(v); !ok {
			sink.Add(issue.Row(idx, colQuantity, issue.SeverityError, issue.Code(ns, "invalid_quantity"),
				"'"+v+"' is not a non-negative integer"))
		}
	}

	for _, col := range []string{colWillShipIntl, colExpeditedShipping} {
		v := row.Get(col)
		if v == "" {
			continue
		}
		lower := strings.ToLower(strings.TrimSpace(v))
		if lower != "y" && lower != "n" {
			sink.Add(issue.Row(idx, col, issue.SeverityWarning, issue.Code(ns, "unrecognized_boolean"),
				"value '"+v+"' should be 'y', 'n', or empty"))
		} else if lower != v {
			row = row.With(col, lower)
			fixes = append(fixes, "Normalized boolean values")
		}
	}

	return row, fixes
}

func checkDuplicateSKUs(rows []format.Row, sink *issue.Sink) {
	bySKU := make(map[string][]int)
	for i, row := range rows {
		sku := row.Get(colSKU)
		if sku == "" {
			continue
		}
		bySKU[sku] = append(bySKU[sku], i)
	}
	for sku, idxs := range bySKU {
		if len(idxs) < 2 {
			continue
		}
		for _, i := range idxs {
			sink.Add(issue.Row(i, colSKU, issue.SeverityWarning, issue.Code(ns, "duplicate_sku"),
				"sku '"+sku+"' is used by multiple rows").
				WithDetails(map[string]any{"rows": idxs, "sku": sku}))
		}
	}
}
