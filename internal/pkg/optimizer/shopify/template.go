package shopify

import "github.com/csvforge/csvforge/internal/pkg/format"

// OfficialTemplate is Shopify's official product CSV template header
// order, enforced on export by the engine. "Product image URL" is the
// canonical name this package settles on for the "Product image" vs.
// "Product image URL" naming disagreement across Shopify export
// versions; "Product image" (and the older "Image Src") are kept as
// legacy synonyms below.
var OfficialTemplate = format.Headers{
	"Title", "URL handle", "Description", "Vendor", "Product category", "Type", "Tags",
	"Published on online store", "Status", "SKU", "Barcode",
	"Option1 name", "Option1 value", "Option1 Linked To",
	"Option2 name", "Option2 value", "Option2 Linked To",
	"Option3 name", "Option3 value", "Option3 Linked To",
	"Price", "Compare-at price", "Cost per item", "Charge tax", "Tax code",
	"Unit price total measure", "Unit price total measure unit",
	"Unit price base measure", "Unit price base measure unit",
	"Inventory tracker", "Inventory quantity", "Continue selling when out of stock",
	"Weight value (grams)", "Weight unit for display", "Requires shipping", "Fulfillment service",
	"Product image URL", "Image position", "Image alt text", "Variant image URL",
	"Gift card", "SEO title", "SEO description",
	"Google Shopping / Google Product Category", "Google Shopping / Gender",
	"Google Shopping / Age Group", "Google Shopping / MPN", "Google Shopping / AdWords Grouping",
	"Google Shopping / AdWords Labels", "Google Shopping / Condition", "Google Shopping / Custom Product",
	"Google Shopping / Custom Label 0", "Google Shopping / Custom Label 1",
	"Google Shopping / Custom Label 2", "Google Shopping / Custom Label 3", "Google Shopping / Custom Label 4",
}

// legacySynonyms maps an accepted legacy/alias input header to its
// canonical template name. resolveCanonical (shopify.go) consults it
// only after the template names themselves, trying an exact key match
// first and then a case-insensitive one.
var legacySynonyms = map[string]string{
	"Handle":                    "URL handle",
	"Body (HTML)":               "Description",
	"Variant SKU":               "SKU",
	"Option1 Name":              "Option1 name",
	"Option1 Value":             "Option1 value",
	"Option2 Name":              "Option2 name",
	"Option2 Value":             "Option2 value",
	"Option3 Name":              "Option3 name",
	"Option3 Value":             "Option3 value",
	"Variant Price":             "Price",
	"Variant Compare At Price":  "Compare-at price",
	"Cost Per Item":             "Cost per item",
	"Variant Inventory Qty":     "Inventory quantity",
	"Variant Requires Shipping": "Requires shipping",
	"Variant Taxable":           "Charge tax",
	"Image Src":                 "Product image URL",
	"Product image":             "Product image URL",
	"Image Position":            "Image position",
	"Image Alt Text":            "Image alt text",
	"Variant Image":             "Variant image URL",
	"Published":                 "Published on online store",
	"Gift Card":                 "Gift card",
	"SEO Title":                 "SEO title",
	"SEO Description":           "SEO description",
	"Variant Weight":            "Weight value (grams)",
	"Variant Weight Unit":       "Weight unit for display",
}

// templateSet is OfficialTemplate for O(1) membership checks.
var templateSet = func() map[string]bool {
	m := make(map[string]bool, len(OfficialTemplate))
	for _, h := range OfficialTemplate {
		m[h] = true
	}
	return m
}()
