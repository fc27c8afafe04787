// Package ebay implements the eBay Listings/Variations optimizer:
// Action enum, length limits, price/quantity checks, condition codes,
// duration patterns, picture URL lists, and variation specifics.
package ebay

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/csvforge/csvforge/internal/pkg/format"
	"github.com/csvforge/csvforge/internal/pkg/issue"
	"github.com/csvforge/csvforge/internal/pkg/money"
)

const ns = "ebay"

const (
	colAction                   = "Action"
	colCustomLabel               = "CustomLabel"
	colTitle                    = "Title"
	colStartPrice               = "StartPrice"
	colQuantity                 = "Quantity"
	colConditionID              = "ConditionID"
	colDuration                 = "Duration"
	colPictureURL               = "PicURL"
	colVariationSpecificsName   = "VariationSpecificsName"
	colVariationSpecificsValue  = "VariationSpecificsValue"
)

var validActions = map[string]bool{"Add": true, "Revise": true, "Relist": true, "End": true}

var validConditionIDs = map[string]bool{
	"1000": true, "1500": true, "1750": true, "2000": true, "2500": true,
	"2750": true, "3000": true, "4000": true, "5000": true, "6000": true, "7000": true,
}

const maxTitleLen = 80
const maxPictureURLs = 12

var durationPattern = regexp.MustCompile(`^(GTC|Days_\d+)$`)

func New() format.Format {
	return format.Format{
		ID:          "ebay_listings",
		Name:        "eBay Listings",
		Description: "eBay File Exchange listings and variations feed.",
		Category:    format.CategoryEcommerce,
		Source:      format.SourceBuiltin,
		Apply:       Apply,
		ExpectedHeaders: format.Headers{
			colAction, colCustomLabel, colTitle, colStartPrice, colQuantity, colConditionID,
			colDuration, colPictureURL, colVariationSpecificsName, colVariationSpecificsValue,
		},
		ExampleRow: map[string]format.Cell{
			colAction: "Add", colCustomLabel: "SKU-1001", colTitle: "Vintage Brass Compass",
			colStartPrice: "29.99", colQuantity: "3", colConditionID: "3000", colDuration: "GTC",
			colPictureURL:              "https://example.com/images/compass-1.jpg|https://example.com/images/compass-2.jpg",
			colVariationSpecificsName:  "Finish",
			colVariationSpecificsValue: "Brass",
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
		checkDuplicateVariationCombos(fixedRows, sink)
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

	if v := row.Get(colAction); v != "" && !validActions[v] {
		sink.Add(issue.Row(idx, colAction, issue.SeverityError, issue.Code(ns, "invalid_action"),
			"'"+v+"' is not a recognized Action value"))
	}

	if v := row.Get(colTitle); v != "" && len(v) > maxTitleLen {
		sink.Add(issue.Row(idx, colTitle, issue.SeverityError, issue.Code(ns, "title_too_long"),
			"Title exceeds eBay's maximum length").
			WithDetails(map[string]any{"length": len(v), "max": maxTitleLen}))
	}

	if v := row.Get(colStartPrice); v != "" {
		formatted, ok := money.ParseAndFormat(v)
		if !ok {
			sink.Add(issue.Row(idx, colStartPrice, issue.SeverityError, issue.Code(ns, "invalid_start_price"),
				"'"+v+"' is not a parsable money value"))
		} else if formatted != v {
			row = row.With(colStartPrice, formatted)
			fixes = append(fixes, "Reformatted money values")
		}
	}

	if v := row.Get(colQuantity); v != "" {
		if _, ok := money.ParseNonNegativeInt(v); !ok {
			sink.Add(issue.Row(idx, colQuantity, issue.SeverityError, issue.Code(ns, "invalid_quantity"),
				"'"+v+"' is not a non-negative integer"))
		}
	}

	if v := row.Get(colConditionID); v != "" && !validConditionIDs[strings.TrimSpace(v)] {
		sink.Add(issue.Row(idx, colConditionID, issue.SeverityError, issue.Code(ns, "invalid_condition_id"),
			"'"+v+"' is not a recognized ConditionID"))
	}

	if v := row.Get(colDuration); v != "" && !durationPattern.MatchString(v) {
		sink.Add(issue.Row(idx, colDuration, issue.SeverityError, issue.Code(ns, "invalid_duration"),
			"'"+v+"' must be 'GTC' or 'Days_N'"))
	}

	if v := row.Get(colPictureURL); v != "" {
		urls := strings.Split(v, "|")
		if len(urls) > maxPictureURLs {
			sink.Add(issue.Row(idx, colPictureURL, issue.SeverityWarning, issue.Code(ns, "too_many_picture_urls"),
				"PicURL lists more than the maximum number of pictures").
				WithDetails(map[string]any{"count": len(urls), "max": maxPictureURLs}))
		}
		for _, u := range urls {
			u = strings.TrimSpace(u)
			if u == "" {
				continue
			}
			if !money.IsHTTPURL(u) {
				sink.Add(issue.Row(idx, colPictureURL, issue.SeverityError, issue.Code(ns, "invalid_picture_url"),
					"'"+u+"' is not a valid http(s) URL"))
			}
		}
	}

	name := row.Get(colVariationSpecificsName)
	value := row.Get(colVariationSpecificsValue)
	if (name == "") != (value == "") {
		sink.Add(issue.Row(idx, colVariationSpecificsName, issue.SeverityError, issue.Code(ns, "unpaired_variation_specifics"),
			"VariationSpecificsName and VariationSpecificsValue must both be present or both be empty"))
	}

	return row, fixes
}

func checkDuplicateVariationCombos(rows []format.Row, sink *issue.Sink) {
	byLabel := make(map[string]map[string][]int)
	for i, row := range rows {
		name := row.Get(colVariationSpecificsName)
		value := row.Get(colVariationSpecificsValue)
		if name == "" || value == "" {
			continue
		}
		label := row.Get(colCustomLabel)
		sig := strings.ToLower(strings.TrimSpace(name)) + "=" + strings.ToLower(strings.TrimSpace(value))
		if byLabel[label] == nil {
			byLabel[label] = make(map[string][]int)
		}
		byLabel[label][sig] = append(byLabel[label][sig], i)
	}
	for _, label := range sortedKeys(byLabel) {
		sigs := byLabel[label]
		for _, sig := range sortedStringKeys(sigs) {
			idxs := sigs[sig]
			if len(idxs) < 2 {
				continue
			}
			for _, i := range idxs {
				sink.Add(issue.Row(i, colCustomLabel, issue.SeverityWarning, issue.Code(ns, "duplicate_variation_combo"),
					"variation specifics combination is duplicated under CustomLabel '"+label+"'").
					WithDetails(map[string]any{"customLabel": label, "rows": idxs}))
			}
		}
	}
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
