package presets

import (
	"strings"
	"testing"

	"github.com/csvforge/csvforge/internal/pkg/format"
)

func TestListIncludesAllBuiltins(t *testing.T) {
	reg := NewRegistry()
	list := reg.List()
	if len(list) != len(builtins) {
		t.Fatalf("got %d formats, want %d builtins", len(list), len(builtins))
	}

	ids := make(map[string]bool, len(list))
	for _, f := range list {
		ids[f.ID] = true
	}
	for _, want := range []string{
		"shopify_products", "woocommerce_products", "woocommerce_variable_products",
		"amazon_inventory_loader", "ebay_listings", "etsy_listings",
	} {
		if !ids[want] {
			t.Fatalf("expected builtin %q in list, got %v", want, ids)
		}
	}
}

func TestLookupBuiltin(t *testing.T) {
	reg := NewRegistry()
	f, ok := reg.Lookup("shopify_products")
	if !ok {
		t.Fatal("expected to find shopify_products")
	}
	if f.Name != "Shopify Products" {
		t.Fatalf("Name = %q", f.Name)
	}
}

func TestLookupUnknownReturnsFalse(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.Lookup("nonexistent"); ok {
		t.Fatal("expected lookup to fail for an unknown id")
	}
}

func TestRegisterOverlayTakesPriorityOverBuiltin(t *testing.T) {
	reg := NewRegistry()
	custom := format.Format{ID: "shopify_products", Name: "Overridden"}
	reg.Register(custom)

	f, ok := reg.Lookup("shopify_products")
	if !ok || f.Name != "Overridden" {
		t.Fatalf("expected overlay to shadow builtin, got %+v, ok=%v", f, ok)
	}

	if len(builtins) == 0 || builtins[0].Name == "Overridden" {
		t.Fatal("registering an overlay entry must not mutate the builtin table")
	}
}

func TestUnregisterRemovesOverlayEntry(t *testing.T) {
	reg := NewRegistry()
	reg.Register(format.Format{ID: "custom_1", Name: "Custom"})
	reg.Unregister("custom_1")

	if _, ok := reg.Lookup("custom_1"); ok {
		t.Fatal("expected custom_1 to be gone after Unregister")
	}
}

func TestListAppendsOverlayInSortedOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(format.Format{ID: "custom_zzz", Name: "Z"})
	reg.Register(format.Format{ID: "custom_aaa", Name: "A"})

	list := reg.List()
	last, secondLast := list[len(list)-1], list[len(list)-2]
	if secondLast.ID != "custom_aaa" || last.ID != "custom_zzz" {
		t.Fatalf("overlay not in sorted order: %q, %q", secondLast.ID, last.ID)
	}
}

func TestSampleRendersHeaderAndExampleRow(t *testing.T) {
	out, err := Sample("etsy_listings")
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected a header line and one data line, got %d lines: %q", len(lines), out)
	}
	if !strings.Contains(lines[0], "TITLE") {
		t.Fatalf("header line missing TITLE: %q", lines[0])
	}
}

func TestSampleUnknownFormat(t *testing.T) {
	if _, err := Sample("does-not-exist"); err == nil {
		t.Fatal("expected an error for an unknown format id")
	}
}
