// Package etsy implements the Etsy Listings optimizer: title length,
// money, quantity, currency code, tag list limits, and image URL lists.
package etsy

import (
	"context"
	"regexp"
	"strings"

	"github.com/csvforge/csvforge/internal/pkg/format"
	"github.com/csvforge/csvforge/internal/pkg/issue"
	"github.com/csvforge/csvforge/internal/pkg/money"
)

const ns = "etsy"

const (
	colTitle    = "TITLE"
	colPrice    = "PRICE"
	colQuantity = "QUANTITY"
	colCurrency = "CURRENCY_CODE"
	colTags     = "TAGS"
	colImages   = "IMAGE1"
)

const (
	maxTitleLen = 140
	maxTags     = 13
	maxTagLen   = 20
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

func New() format.Format {
	return format.Format{
		ID:          "etsy_listings",
		Name:        "Etsy Listings",
		Description: "Etsy bulk listing upload CSV.",
		Category:    format.CategoryEcommerce,
		Source:      format.SourceBuiltin,
		Apply:       Apply,
		ExpectedHeaders: format.Headers{
			colTitle, colPrice, colQuantity, colCurrency, colTags, colImages,
		},
		ExampleRow: map[string]format.Cell{
			colTitle: "Hand-thrown Stoneware Bowl", colPrice: "34.00", colQuantity: "5",
			colCurrency: "USD", colTags: "pottery, handmade, stoneware",
			colImages: "https://example.com/images/bowl-1.jpg,https://example.com/images/bowl-2.jpg",
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

	if v := row.Get(colTitle); v != "" && len(v) > maxTitleLen {
		sink.Add(issue.Row(idx, colTitle, issue.SeverityWarning, issue.Code(ns, "title_too_long"),
			"TITLE exceeds Etsy's recommended maximum length").
			WithDetails(map[string]any{"length": len(v), "max": maxTitleLen}))
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

	if v := row.Get(colCurrency); v != "" {
		upper := strings.ToUpper(strings.TrimSpace(v))
		if !currencyCodePattern.MatchString(upper) {
			sink.Add(issue.Row(idx, colCurrency, issue.SeverityError, issue.Code(ns, "invalid_currency_code"),
				"'"+v+"' is not a three-letter currency code"))
		} else if upper != v {
			row = row.With(colCurrency, upper)
			fixes = append(fixes, "Normalized currency code casing")
		}
	}

	if v := row.Get(colTags); v != "" {
		tags := strings.Split(v, ",")
		if len(tags) > maxTags {
			sink.Add(issue.Row(idx, colTags, issue.SeverityWarning, issue.Code(ns, "too_many_tags"),
				"TAGS lists more than Etsy's maximum number of tags").
				WithDetails(map[string]any{"count": len(tags), "max": maxTags}))
		}
		for _, t := range tags {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if len(t) > maxTagLen {
				sink.Add(issue.Row(idx, colTags, issue.SeverityWarning, issue.Code(ns, "tag_too_long"),
					"tag '"+t+"' exceeds Etsy's maximum tag length").
					WithDetails(map[string]any{"tag": t, "length": len(t), "max": maxTagLen}))
			}
		}
	}

	if v := row.Get(colImages); v != "" {
		for _, u := range strings.Split(v, ",") {
			u = strings.TrimSpace(u)
			if u == "" {
				continue
			}
			if !money.IsHTTPURL(u) {
				sink.Add(issue.Row(idx, colImages, issue.SeverityError, issue.Code(ns, "invalid_image_url"),
					"'"+u+"' is not a valid http(s) URL"))
			}
		}
	}

	return row, fixes
}
