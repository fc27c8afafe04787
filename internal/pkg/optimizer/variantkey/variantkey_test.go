package variantkey

import (
	"testing"

	"github.com/csvforge/csvforge/internal/pkg/format"
)

func TestResolveOptionColumnsIgnoresSpacingAndCase(t *testing.T) {
	headers := format.Headers{"Option1 Value", "Option 2 value", "Option3_Value", "Other"}
	opt1, opt2, opt3 := ResolveOptionColumns(headers)
	if opt1 != "Option1 Value" || opt2 != "Option 2 value" || opt3 != "Option3_Value" {
		t.Fatalf("got %q, %q, %q", opt1, opt2, opt3)
	}
}

func TestResolveOptionColumnsMissingSlot(t *testing.T) {
	headers := format.Headers{"Option1 Value"}
	opt1, opt2, opt3 := ResolveOptionColumns(headers)
	if opt1 != "Option1 Value" || opt2 != "" || opt3 != "" {
		t.Fatalf("got %q, %q, %q", opt1, opt2, opt3)
	}
}

func TestSignatureIsCaseInsensitive(t *testing.T) {
	if Signature("Red", "M", "") != Signature("red", "m", "") {
		t.Fatalf("Signature should be case-insensitive")
	}
}

func TestHasVariantSignal(t *testing.T) {
	headers := format.Headers{"SKU", "Price", "Option1 value"}
	withSignal := format.NewRow(headers, []format.Cell{"SKU-1", "", ""})
	withoutSignal := format.NewRow(headers, []format.Cell{"", "", ""})

	if !HasVariantSignal(withSignal, "SKU", "Price", "Option1 value", "", "") {
		t.Fatalf("expected signal from SKU")
	}
	if HasVariantSignal(withoutSignal, "SKU", "Price", "Option1 value", "", "") {
		t.Fatalf("expected no signal")
	}
}
