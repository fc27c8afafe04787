// Package customformat compiles a persisted UserFormat document into a
// format.Format pipeline, and round-trips that document to/from JSON
// without losing fields the host attached but this package does not
// itself model.
package customformat

import (
	"time"

	"github.com/google/uuid"
)

// RuleType is the closed set of transform/validation kinds a Rule can
// carry. The wire form is the lowercase string below; in memory it is
// a discriminated union (Rule.Type plus a type-specific Value).
type RuleType string

const (
	RuleTrim           RuleType = "trim"
	RuleUppercase      RuleType = "uppercase"
	RuleNoSpaces       RuleType = "no_spaces"
	RuleNoSpecialChars RuleType = "no_special_chars"
	RuleNumericOnly    RuleType = "numeric_only"
	RuleMaxLength      RuleType = "max_length"
	RuleRequired       RuleType = "required"
	RuleDefaultValue   RuleType = "default_value"
	RuleAllowedValues  RuleType = "allowed_values"
	RuleRegexAllow     RuleType = "regex_allow"
	RuleRegexBlock     RuleType = "regex_block"
)

// RuleScope says whether a Rule applies to every column (global) or is
// tied to one column.
type RuleScope string

const (
	ScopeGlobal RuleScope = "global"
	ScopeColumn RuleScope = "column"
)

// Rule is one transform or validation step, either global or bound to
// a single column by ColumnID.
type Rule struct {
	Scope    RuleScope `json:"scope"`
	ColumnID string    `json:"column_id,omitempty"`
	Type     RuleType  `json:"type"`
	Value    string    `json:"value,omitempty"`
}

// Column describes one output column: where its value comes from in
// the input (Title, then Key, then a positional "Column N" fallback)
// and what to do when it is absent.
type Column struct {
	ID           string `json:"id"`
	Key          string `json:"key,omitempty"`
	Title        string `json:"title,omitempty"`
	Required     bool   `json:"required,omitempty"`
	DefaultValue string `json:"default_value,omitempty"`
}

// UserFormat is the v1 persisted custom-format document.
type UserFormat struct {
	Version     int      `json:"version"`
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Source      string   `json:"source"`
	Columns     []Column `json:"columns"`
	Rules       []Rule   `json:"rules"`
	GlobalRules []Rule   `json:"global_rules"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// NewUserFormat builds an empty v1 UserFormat with a generated ID and
// timestamps. The host is expected to append Columns/Rules afterward.
func NewUserFormat(name string, now time.Time) UserFormat {
	stamp := now.UTC().Format(time.RFC3339)
	return UserFormat{
		Version:   1,
		ID:        uuid.NewString(),
		Name:      name,
		Source:    "user",
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}
}

// NewColumn builds a Column with a generated ID.
func NewColumn(title string) Column {
	return Column{ID: uuid.NewString(), Title: title}
}
