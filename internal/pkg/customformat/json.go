package customformat

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// MarshalJSON serializes uf into raw, preserving any field already
// present in raw that this package does not itself model, so a host
// that round-trips a document through this package doesn't lose its
// own extension fields. Pass nil for raw to produce a fresh document.
func MarshalJSON(raw []byte, uf UserFormat) ([]byte, error) {
	doc := raw
	if doc == nil {
		doc = []byte("{}")
	}

	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.SetBytes(doc, path, value)
	}

	set("version", uf.Version)
	set("id", uf.ID)
	set("name", uf.Name)
	set("source", uf.Source)
	if uf.CreatedAt != "" {
		set("created_at", uf.CreatedAt)
	}
	if uf.UpdatedAt != "" {
		set("updated_at", uf.UpdatedAt)
	}

	columns := make([]map[string]any, len(uf.Columns))
	for i, c := range uf.Columns {
		columns[i] = map[string]any{
			"id":            c.ID,
			"key":           c.Key,
			"title":         c.Title,
			"required":      c.Required,
			"default_value": c.DefaultValue,
		}
	}
	set("columns", columns)
	set("rules", rulesToMaps(uf.Rules))
	set("global_rules", rulesToMaps(uf.GlobalRules))

	if err != nil {
		return nil, fmt.Errorf("customformat: marshal: %w", err)
	}
	return doc, nil
}

func rulesToMaps(rules []Rule) []map[string]any {
	out := make([]map[string]any, len(rules))
	for i, r := range rules {
		out[i] = map[string]any{
			"scope":     r.Scope,
			"column_id": r.ColumnID,
			"type":      r.Type,
			"value":     r.Value,
		}
	}
	return out
}

// UnmarshalJSON reads a UserFormat out of a v1 document. Fields this
// package does not model are simply not read back; the caller should
// retain the original raw bytes (see MarshalJSON) if it wants a
// faithful re-export.
func UnmarshalJSON(data []byte) (UserFormat, error) {
	if !gjson.ValidBytes(data) {
		return UserFormat{}, fmt.Errorf("customformat: invalid JSON document")
	}
	root := gjson.ParseBytes(data)

	uf := UserFormat{
		Version:   int(root.Get("version").Int()),
		ID:        root.Get("id").String(),
		Name:      root.Get("name").String(),
		Source:    root.Get("source").String(),
		CreatedAt: root.Get("created_at").String(),
		UpdatedAt: root.Get("updated_at").String(),
	}

	root.Get("columns").ForEach(func(_, v gjson.Result) bool {
		uf.Columns = append(uf.Columns, Column{
			ID:           v.Get("id").String(),
			Key:          v.Get("key").String(),
			Title:        v.Get("title").String(),
			Required:     v.Get("required").Bool(),
			DefaultValue: v.Get("default_value").String(),
		})
		return true
	})
	root.Get("rules").ForEach(func(_, v gjson.Result) bool {
		uf.Rules = append(uf.Rules, parseRule(v))
		return true
	})
	root.Get("global_rules").ForEach(func(_, v gjson.Result) bool {
		uf.GlobalRules = append(uf.GlobalRules, parseRule(v))
		return true
	})

	return uf, nil
}

func parseRule(v gjson.Result) Rule {
	return Rule{
		Scope:    RuleScope(v.Get("scope").String()),
		ColumnID: v.Get("column_id").String(),
		Type:     RuleType(v.Get("type").String()),
		Value:    v.Get("value").String(),
	}
}
