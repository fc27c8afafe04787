package woocommerce

import (
	"context"
	"testing"

	"github.com/csvforge/csvforge/internal/pkg/format"
)

func TestInvalidTypeEmitsError(t *testing.T) {
	headers := format.Headers{colType, colSKU}
	rows := []format.Row{format.NewRow(headers, []format.Cell{"bogus", "SKU-1"})}

	result := New(Options{Mode: ModeProducts}).Apply(context.Background(), headers, rows)

	found := false
	for _, iss := range result.Issues {
		if iss.Code == "woocommerce/invalid_type" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected woocommerce/invalid_type issue, got %v", result.Issues)
	}
}

func TestBooleanNormalizedToOneZero(t *testing.T) {
	headers := format.Headers{"Published", "In stock?"}
	rows := []format.Row{format.NewRow(headers, []format.Cell{"yes", "false"})}

	result := New(Options{Mode: ModeProducts}).Apply(context.Background(), headers, rows)

	if result.FixedRows[0].Get("Published") != "1" {
		t.Fatalf("Published = %q", result.FixedRows[0].Get("Published"))
	}
	if result.FixedRows[0].Get("In stock?") != "0" {
		t.Fatalf("In stock? = %q", result.FixedRows[0].Get("In stock?"))
	}
}

func TestSalePriceNotLowerWarns(t *testing.T) {
	headers := format.Headers{colRegularPrice, colSalePrice}
	rows := []format.Row{format.NewRow(headers, []format.Cell{"10.00", "12.00"})}

	result := New(Options{Mode: ModeProducts}).Apply(context.Background(), headers, rows)

	found := false
	for _, iss := range result.Issues {
		if iss.Code == "woocommerce/sale_price_not_lower" {
			found = true
			if iss.Severity != "warning" {
				t.Fatalf("expected warning severity")
			}
		}
	}
	if !found {
		t.Fatalf("expected sale_price_not_lower issue, got %v", result.Issues)
	}
}

func TestCategoryHierarchyNormalized(t *testing.T) {
	headers := format.Headers{colCategories}
	rows := []format.Row{format.NewRow(headers, []format.Cell{"Apparel>Hoodies, Sale   >   Winter"})}

	result := New(Options{Mode: ModeProducts}).Apply(context.Background(), headers, rows)

	want := "Apparel > Hoodies, Sale > Winter"
	if got := result.FixedRows[0].Get(colCategories); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDuplicateAttributeComboAcrossVariations(t *testing.T) {
	headers := format.Headers{colType, colSKU, colParent, "Attribute 1 value(s)"}
	rows := []format.Row{
		format.NewRow(headers, []format.Cell{"variation", "V-1", "HOODIE-001", "Red"}),
		format.NewRow(headers, []format.Cell{"variation", "V-2", "HOODIE-001", "Red"}),
	}

	result := New(Options{Mode: ModeProducts}).Apply(context.Background(), headers, rows)

	count := 0
	for _, iss := range result.Issues {
		if iss.Code == "woocommerce/duplicate_attribute_combo" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("got %d duplicate_attribute_combo issues, want 2", count)
	}
}

func TestOrphanVariationDetected(t *testing.T) {
	headers := format.Headers{colType, colSKU, colParent}
	rows := []format.Row{
		format.NewRow(headers, []format.Cell{"variation", "V-1", "MISSING-PARENT"}),
	}

	result := New(Options{Mode: ModeProducts}).Apply(context.Background(), headers, rows)

	found := false
	for _, iss := range result.Issues {
		if iss.Code == "woocommerce/orphan_variation" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected orphan_variation issue, got %v", result.Issues)
	}
}

func TestReapplyCriticalNormalizationRestoresOneZero(t *testing.T) {
	headers := format.Headers{"Published", "In stock?", "Backorders allowed?"}
	rows := []format.Row{format.NewRow(headers, []format.Cell{"TRUE", "FALSE", "0"})}

	out := ReapplyCriticalNormalization(rows)

	if out[0].Get("Published") != "1" {
		t.Fatalf("Published = %q, want 1", out[0].Get("Published"))
	}
	if out[0].Get("In stock?") != "0" {
		t.Fatalf("In stock? = %q, want 0", out[0].Get("In stock?"))
	}
	if out[0].Get("Backorders allowed?") != "0" {
		t.Fatalf("Backorders allowed? = %q, want 0 unchanged", out[0].Get("Backorders allowed?"))
	}
}

func TestAutoCreateMissingParentsKeepsPriorIssueRowIndicesValid(t *testing.T) {
	headers := format.Headers{colType, colSKU, colParent, "Attribute 1 value(s)"}
	rows := []format.Row{
		format.NewRow(headers, []format.Cell{"variation", "V-1", "NEW-PARENT", "Red"}),
		format.NewRow(headers, []format.Cell{"variation", "V-2", "NEW-PARENT", "Red"}),
	}

	result := New(Options{Mode: ModeVariable, AutoCreateMissingParents: true}).Apply(context.Background(), headers, rows)

	for _, iss := range result.Issues {
		if iss.Code != "woocommerce/duplicate_attribute_combo" {
			continue
		}
		if iss.RowIndex < 0 || iss.RowIndex >= len(result.FixedRows) {
			t.Fatalf("issue row index %d out of range of %d fixed rows", iss.RowIndex, len(result.FixedRows))
		}
		if result.FixedRows[iss.RowIndex].Get(colType) != "variation" {
			t.Fatalf("issue row index %d does not point at a variation row after auto-create shifted rows: %+v",
				iss.RowIndex, result.FixedRows[iss.RowIndex])
		}
	}
}

func TestAutoCreateMissingParents(t *testing.T) {
	headers := format.Headers{colType, colSKU, colParent}
	rows := []format.Row{
		format.NewRow(headers, []format.Cell{"variation", "V-1", "NEW-PARENT"}),
	}

	result := New(Options{Mode: ModeVariable, AutoCreateMissingParents: true}).Apply(context.Background(), headers, rows)

	if len(result.FixedRows) != 2 {
		t.Fatalf("expected a synthesized parent row, got %d rows", len(result.FixedRows))
	}
	if result.FixedRows[0].Get(colType) != "variation" || result.FixedRows[0].Get(colSKU) != "V-1" {
		t.Fatalf("original row must keep index 0 so prior issue row indices stay valid: %+v", result.FixedRows[0])
	}
	if result.FixedRows[1].Get(colType) != "variable" || result.FixedRows[1].Get(colSKU) != "NEW-PARENT" {
		t.Fatalf("synthesized parent row = %+v", result.FixedRows[1])
	}

	for _, iss := range result.Issues {
		if iss.Code == "woocommerce/orphan_variation" {
			t.Fatalf("auto-create mode should not also report orphan_variation: %+v", iss)
		}
	}
}
