package amazon

import (
	"context"
	"strings"
	"testing"

	"github.com/csvforge/csvforge/internal/pkg/format"
)

func TestSKUTooLongEmitsError(t *testing.T) {
	headers := format.Headers{colSKU}
	rows := []format.Row{format.NewRow(headers, []format.Cell{strings.Repeat("x", maxSKULen+1)})}

	result := Apply(context.Background(), headers, rows)

	found := false
	for _, iss := range result.Issues {
		if iss.Code == "amazon/sku_too_long" {
			found = true
			if iss.Severity != "error" {
				t.Fatalf("expected error severity")
			}
		}
	}
	if !found {
		t.Fatalf("expected sku_too_long issue, got %v", result.Issues)
	}
}

func TestProductIDTypeNormalizedAndValidated(t *testing.T) {
	headers := format.Headers{colProductIDType}
	rows := []format.Row{
		format.NewRow(headers, []format.Cell{"upc"}),
		format.NewRow(headers, []format.Cell{"bogus"}),
	}

	result := Apply(context.Background(), headers, rows)

	if result.FixedRows[0].Get(colProductIDType) != "UPC" {
		t.Fatalf("got %q", result.FixedRows[0].Get(colProductIDType))
	}
	found := false
	for _, iss := range result.Issues {
		if iss.Code == "amazon/invalid_product_id_type" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected invalid_product_id_type issue, got %v", result.Issues)
	}
}

func TestItemConditionValidation(t *testing.T) {
	headers := format.Headers{colItemCondition}
	rows := []format.Row{format.NewRow(headers, []format.Cell{"99"})}

	result := Apply(context.Background(), headers, rows)

	found := false
	for _, iss := range result.Issues {
		if iss.Code == "amazon/invalid_item_condition" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected invalid_item_condition issue, got %v", result.Issues)
	}
}

func TestWillShipBooleanNormalization(t *testing.T) {
	headers := format.Headers{colWillShipIntl}
	rows := []format.Row{format.NewRow(headers, []format.Cell{"Y"})}

	result := Apply(context.Background(), headers, rows)

	if result.FixedRows[0].Get(colWillShipIntl) != "y" {
		t.Fatalf("got %q", result.FixedRows[0].Get(colWillShipIntl))
	}
}

func TestDuplicateSKUsAcrossRows(t *testing.T) {
	headers := format.Headers{colSKU}
	rows := []format.Row{
		format.NewRow(headers, []format.Cell{"SKU-1"}),
		format.NewRow(headers, []format.Cell{"SKU-1"}),
	}

	result := Apply(context.Background(), headers, rows)

	count := 0
	for _, iss := range result.Issues {
		if iss.Code == "amazon/duplicate_sku" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("got %d duplicate_sku issues, want 2", count)
	}
}

func TestInvalidQuantityEmitsError(t *testing.T) {
	headers := format.Headers{colQuantity}
	rows := []format.Row{format.NewRow(headers, []format.Cell{"-5"})}

	result := Apply(context.Background(), headers, rows)

	found := false
	for _, iss := range result.Issues {
		if iss.Code == "amazon/invalid_quantity" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected invalid_quantity issue, got %v", result.Issues)
	}
}
