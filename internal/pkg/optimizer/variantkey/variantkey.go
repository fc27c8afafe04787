// Package variantkey is the single shared fuzzy-header resolver used
// by every optimizer that needs to find a product's Option1/2/3
// value columns regardless of how the input spells them
// ("Option1 Value", "Option 1 Value", "Option1Value", ...). Spec.md
// §4.5/§9 requires one resolver be shared between the validator and
// any import-simulation code so both sides agree on the same variant
// signature.
package variantkey

import (
	"regexp"
	"strings"

	"github.com/csvforge/csvforge/internal/pkg/format"
)

// optionSpace strips spaces/underscores so "Option 1 Value", "Option1
// Value" and "Option1_Value" all normalize to "option1value".
var optionSpace = regexp.MustCompile(`[\s_]+`)

func squash(s string) string {
	return optionSpace.ReplaceAllString(strings.ToLower(s), "")
}

// ResolveOptionColumns finds the actual header names for Option1,
// Option2, and Option3 value columns in headers, regardless of
// spacing/casing variants. An empty string in the result means that
// option slot has no matching column in this input.
func ResolveOptionColumns(headers format.Headers) (opt1, opt2, opt3 string) {
	want := map[int]string{}
	for _, h := range headers {
		squashed := squash(h)
		for n := 1; n <= 3; n++ {
			if _, already := want[n]; already {
				continue
			}
			candidate := "option" + string(rune('0'+n)) + "value"
			if squashed == candidate {
				want[n] = h
			}
		}
	}
	return want[1], want[2], want[3]
}

// Signature computes the lower-cased "opt1|opt2|opt3" key used to
// detect duplicate variant combinations within a product handle.
func Signature(opt1, opt2, opt3 string) string {
	return strings.ToLower(opt1) + "|" + strings.ToLower(opt2) + "|" + strings.ToLower(opt3)
}

// HasVariantSignal reports whether a row carries any of the signals
// that mark it as a real variant row (as opposed to an image-only
// row): a non-empty SKU, price, or any option value.
func HasVariantSignal(row format.Row, skuCol, priceCol, opt1, opt2, opt3 string) bool {
	get := func(col string) string {
		if col == "" {
			return ""
		}
		return row.Get(col)
	}
	return get(skuCol) != "" || get(priceCol) != "" ||
		get(opt1) != "" || get(opt2) != "" || get(opt3) != ""
}
