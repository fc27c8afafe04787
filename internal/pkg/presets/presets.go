// Package presets is the FormatRegistry: a static table of built-in
// platform formats, an overlay table the host registers custom formats
// into, and sample CSV generation for each.
package presets

import (
	"fmt"
	"sync"

	"github.com/csvforge/csvforge/internal/pkg/csvcodec"
	"github.com/csvforge/csvforge/internal/pkg/format"
	"github.com/csvforge/csvforge/internal/pkg/optimizer/amazon"
	"github.com/csvforge/csvforge/internal/pkg/optimizer/ebay"
	"github.com/csvforge/csvforge/internal/pkg/optimizer/etsy"
	"github.com/csvforge/csvforge/internal/pkg/optimizer/shopify"
	"github.com/csvforge/csvforge/internal/pkg/optimizer/woocommerce"
)

// builtins is constructed once at package init as a static table.
// Custom formats never enter this table; they live in
// Registry.overlay.
var builtins = buildBuiltins()

func buildBuiltins() []format.Format {
	return []format.Format{
		shopify.New(),
		woocommerce.New(woocommerce.Options{Mode: woocommerce.ModeProducts}),
		woocommerce.New(woocommerce.Options{Mode: woocommerce.ModeVariable, AutoCreateMissingParents: true}),
		amazon.New(),
		ebay.New(),
		etsy.New(),
	}
}

// Registry resolves a format ID to its pipeline, checking the host's
// custom-format overlay before the built-in table.
type Registry struct {
	mu      sync.RWMutex
	overlay map[string]format.Format
}

// NewRegistry returns a Registry with an empty overlay.
func NewRegistry() *Registry {
	return &Registry{overlay: make(map[string]format.Format)}
}

// Register adds or replaces a custom format in the overlay. It never
// touches the built-in table.
func (r *Registry) Register(f format.Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overlay[f.ID] = f
}

// Unregister removes a custom format from the overlay, if present.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.overlay, id)
}

// Lookup resolves id against the overlay first, then the built-in
// table.
func (r *Registry) Lookup(id string) (format.Format, bool) {
	r.mu.RLock()
	f, ok := r.overlay[id]
	r.mu.RUnlock()
	if ok {
		return f, true
	}
	for _, b := range builtins {
		if b.ID == id {
			return b, true
		}
	}
	return format.Format{}, false
}

// List returns every built-in format followed by the current overlay,
// both in a stable order.
func (r *Registry) List() []format.Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]format.Format, 0, len(builtins)+len(r.overlay))
	out = append(out, builtins...)
	for _, id := range sortedOverlayIDs(r.overlay) {
		out = append(out, r.overlay[id])
	}
	return out
}

func sortedOverlayIDs(overlay map[string]format.Format) []string {
	ids := make([]string, 0, len(overlay))
	for id := range overlay {
		ids = append(ids, id)
	}
	// Small N; a stable, dependency-free sort keeps presets free of an
	// extra import for what is, at most, a handful of custom formats.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

// Sample renders an example CSV for the given format ID: its expected
// headers plus, when the format defines one, a single populated
// example row. Unknown IDs return an error.
func Sample(id string) (string, error) {
	reg := NewRegistry()
	f, ok := reg.Lookup(id)
	if !ok {
		return "", fmt.Errorf("presets: unknown format %q", id)
	}
	if len(f.ExpectedHeaders) == 0 {
		return "", fmt.Errorf("presets: format %q has no sample headers", id)
	}

	var rows []format.Row
	if len(f.ExampleRow) > 0 {
		rows = append(rows, format.NewRowFromMap(f.ExampleRow))
	}
	return csvcodec.Serialize(f.ExpectedHeaders, rows), nil
}
