package normalizer

import (
	"testing"

	"github.com/csvforge/csvforge/internal/pkg/format"
)

func TestUniversalEmailAndPhone(t *testing.T) {
	headers := format.Headers{"Email", "Phone"}
	rows := []format.Row{
		format.NewRow(headers, []format.Cell{" John.Doe@Example.com ", "+1 (555) 123-4567"}),
	}

	out, fixes := Universal(headers, rows)
	if out[0].Get("Email") != "john.doe@example.com" {
		t.Fatalf("Email = %q", out[0].Get("Email"))
	}
	if out[0].Get("Phone") != "+15551234567" {
		t.Fatalf("Phone = %q", out[0].Get("Phone"))
	}
	if len(fixes) != 2 {
		t.Fatalf("fixes = %v", fixes)
	}
}

func TestUniversalTagsSKUHandle(t *testing.T) {
	headers := format.Headers{"Tags", "SKU", "Handle"}
	rows := []format.Row{
		format.NewRow(headers, []format.Cell{" red , , blue ,green", "abc 123-x", "My Product Slug"}),
	}

	out, _ := Universal(headers, rows)
	if out[0].Get("Tags") != "red, blue, green" {
		t.Fatalf("Tags = %q", out[0].Get("Tags"))
	}
	if out[0].Get("SKU") != "ABC123-X" {
		t.Fatalf("SKU = %q", out[0].Get("SKU"))
	}
	if out[0].Get("Handle") != "myproductslug" {
		t.Fatalf("Handle = %q", out[0].Get("Handle"))
	}
}

func TestUniversalBooleanAndNumeric(t *testing.T) {
	headers := format.Headers{"Published", "Price"}
	rows := []format.Row{
		format.NewRow(headers, []format.Cell{"yes", "$1,234.50"}),
		format.NewRow(headers, []format.Cell{"maybe", "not money"}),
	}

	out, fixes := Universal(headers, rows)
	if out[0].Get("Published") != "TRUE" {
		t.Fatalf("Published = %q", out[0].Get("Published"))
	}
	if out[0].Get("Price") != "1234.50" {
		t.Fatalf("Price = %q", out[0].Get("Price"))
	}
	if out[1].Get("Published") != "maybe" {
		t.Fatalf("unrecognized boolean should be left untouched, got %q", out[1].Get("Published"))
	}
	if out[1].Get("Price") != "not money" {
		t.Fatalf("unparsable numeric should be left untouched, got %q", out[1].Get("Price"))
	}
	if len(fixes) != 2 {
		t.Fatalf("fixes = %v", fixes)
	}
}

func TestUniversalFreeTextWhitespaceNotCollapsed(t *testing.T) {
	headers := format.Headers{"Description"}
	rows := []format.Row{
		format.NewRow(headers, []format.Cell{"line one   line two"}),
	}

	out, fixes := Universal(headers, rows)
	if out[0].Get("Description") != "line one   line two" {
		t.Fatalf("Description = %q", out[0].Get("Description"))
	}
	if len(fixes) != 0 {
		t.Fatalf("fixes = %v, want none", fixes)
	}
}

func TestUniversalOtherCollapsesWhitespace(t *testing.T) {
	headers := format.Headers{"Vendor"}
	rows := []format.Row{
		format.NewRow(headers, []format.Cell{"Acme    Corp"}),
	}

	out, fixes := Universal(headers, rows)
	if out[0].Get("Vendor") != "Acme Corp" {
		t.Fatalf("Vendor = %q", out[0].Get("Vendor"))
	}
	if len(fixes) != 1 || fixes[0] != "Collapsed extra whitespace" {
		t.Fatalf("fixes = %v", fixes)
	}
}
