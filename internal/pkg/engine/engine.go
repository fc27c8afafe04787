// Package engine is the single orchestrator every CsvCodec.Parse
// result is run through: base cleanup, the format's own pipeline,
// universal cleanup, and — for formats whose own conventions universal
// cleanup would otherwise clobber — a final per-format re-enforcement
// pass. It never lets a format's implementation panic out to the host.
package engine

import (
	"context"
	"fmt"

	"github.com/csvforge/csvforge/internal/pkg/format"
	"github.com/csvforge/csvforge/internal/pkg/issue"
	"github.com/csvforge/csvforge/internal/pkg/normalizer"
	"github.com/csvforge/csvforge/internal/pkg/optimizer/shopify"
	"github.com/csvforge/csvforge/internal/pkg/optimizer/woocommerce"
)

// shopifyFormatID is the format the engine gives full template
// post-enforcement to. It is a plain string, not a dependency on the
// shopify package's Format struct.
const shopifyFormatID = "shopify_products"

// woocommerceFormatIDs are the format ids whose boolean convention
// ("1"/"0") universal cleanup's boolean reclassification would
// otherwise clobber back to TRUE/FALSE.
var woocommerceFormatIDs = map[string]bool{
	"woocommerce_products":          true,
	"woocommerce_variable_products": true,
}

// Apply runs the full engine pipeline over already-parsed headers/rows
// for the given format: base cleanup, the format's Apply, universal
// cleanup, fix-list merge, and Shopify/WooCommerce post-enforcement
// when applicable.
//
// ctx is consulted cooperatively between stages; on cancellation Apply
// returns a partial result carrying an engine/cancelled info issue
// rather than an error, since the engine never raises to its host.
func Apply(ctx context.Context, headers format.Headers, rows []format.Row, f format.Format) format.FixResult {
	baseRows, baseFixes := normalizer.Base(headers, rows)

	if ctx.Err() != nil {
		return cancelledResult(headers, baseRows, baseFixes)
	}

	intermediate := runFormat(ctx, headers, baseRows, f)

	if ctx.Err() != nil {
		return cancelledResult(intermediate.FixedHeaders, intermediate.FixedRows, mergeFixes(baseFixes, intermediate.FixesApplied))
	}

	universalRows, universalFixes := normalizer.Universal(intermediate.FixedHeaders, intermediate.FixedRows)

	result := format.FixResult{
		FixedHeaders: intermediate.FixedHeaders,
		FixedRows:    universalRows,
		Issues:       intermediate.Issues,
	}
	for _, stage := range [][]string{baseFixes, intermediate.FixesApplied, universalFixes} {
		for _, fx := range stage {
			result.AppendFix(fx)
		}
	}

	if f.ID == shopifyFormatID {
		// The shopify optimizer already canonicalizes its own headers
		// before raising any issue, so this is idempotent in practice;
		// it exists as a backstop guaranteeing the official template
		// shape even if a future format.Apply implementation skips it.
		finalHeaders, finalRows, shopifyFixes := shopify.EnforceTemplate(result.FixedHeaders, result.FixedRows)
		result.FixedHeaders = finalHeaders
		result.FixedRows = finalRows
		for _, fx := range shopifyFixes {
			result.AppendFix(fx)
		}
	} else if woocommerceFormatIDs[f.ID] {
		result.FixedRows = woocommerce.ReapplyCriticalNormalization(result.FixedRows)
	}

	return result
}

// runFormat invokes f.Apply, converting any panic into an
// engine/row_failed-style file issue instead of propagating it to the
// host.
func runFormat(ctx context.Context, headers format.Headers, rows []format.Row, f format.Format) (result format.FixResult) {
	defer func() {
		if r := recover(); r != nil {
			result = format.FixResult{
				FixedHeaders: headers,
				FixedRows:    rows,
				Issues: []issue.Issue{
					issue.File(issue.SeverityError, issue.Code("engine", "row_failed"),
						fmt.Sprintf("format %q panicked and its output was discarded: %v", f.ID, r)),
				},
			}
		}
	}()
	return f.Apply(ctx, headers, rows)
}

func cancelledResult(headers format.Headers, rows []format.Row, fixes []string) format.FixResult {
	result := format.FixResult{
		FixedHeaders: headers,
		FixedRows:    rows,
		Issues:       []issue.Issue{issue.File(issue.SeverityInfo, issue.Code("engine", "cancelled"), "run was cancelled before completion")},
	}
	for _, fx := range fixes {
		result.AppendFix(fx)
	}
	return result
}

func mergeFixes(stages ...[]string) []string {
	var out []string
	seen := map[string]bool{}
	for _, stage := range stages {
		for _, fx := range stage {
			if !seen[fx] {
				seen[fx] = true
				out = append(out, fx)
			}
		}
	}
	return out
}
