package customformat

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/csvforge/csvforge/internal/pkg/format"
	"github.com/csvforge/csvforge/internal/pkg/issue"
)

const ns = "custom"

// Compile turns a persisted UserFormat into an executable format.Format
// whose Apply resolves each column's input header, runs transforms in
// global-then-column order, then validates.
func Compile(uf UserFormat) format.Format {
	headers := make(format.Headers, len(uf.Columns))
	for i, c := range uf.Columns {
		headers[i] = displayTitle(c, i)
	}

	return format.Format{
		ID:              "custom_" + uf.ID,
		Name:            uf.Name,
		Description:     "User-defined custom format.",
		Category:        format.CategoryCustom,
		Source:          format.SourceUser,
		ExpectedHeaders: headers,
		Apply: func(ctx context.Context, inputHeaders format.Headers, rows []format.Row) format.FixResult {
			return apply(ctx, uf, headers, inputHeaders, rows)
		},
	}
}

func displayTitle(c Column, index int) string {
	if c.Title != "" {
		return c.Title
	}
	if c.Key != "" {
		return c.Key
	}
	return fmt.Sprintf("Column %d", index+1)
}

func apply(ctx context.Context, uf UserFormat, outHeaders, inputHeaders format.Headers, rows []format.Row) format.FixResult {
	sink := issue.NewSink(issue.DefaultMaxPerFormat)
	var fixes []string

	resolved := make([]string, len(uf.Columns))
	for i, c := range uf.Columns {
		resolved[i] = resolveInputColumn(c, i, inputHeaders)
	}

	compiledRegex := map[string]*regexp.Regexp{}

	fixedRows := make([]format.Row, len(rows))
	for rowIdx, row := range rows {
		if ctx.Err() != nil {
			copy(fixedRows[rowIdx:], rows[rowIdx:])
			sink.Add(issue.File(issue.SeverityInfo, issue.Code("engine", "cancelled"), "cancelled during per-row pass"))
			break
		}

		values := make(map[string]format.Cell, len(uf.Columns))
		for i, c := range uf.Columns {
			var v format.Cell
			if resolved[i] != "" {
				v = row.Get(resolved[i])
			}
			if v == "" && c.DefaultValue != "" {
				v = c.DefaultValue
				appendUnique(&fixes, "Filled missing value with default for '"+outHeaders[i]+"'")
			}

			cRules := columnRules(uf.Rules, c.ID)
			for _, r := range uf.GlobalRules {
				v = applyTransform(r, v, &fixes)
			}
			for _, r := range cRules {
				v = applyTransform(r, v, &fixes)
			}

			for _, r := range uf.GlobalRules {
				validateRule(r, c, outHeaders[i], rowIdx, v, compiledRegex, sink)
			}
			for _, r := range cRules {
				validateRule(r, c, outHeaders[i], rowIdx, v, compiledRegex, sink)
			}
			if c.Required && strings.TrimSpace(v) == "" && !hasRuleType(cRules, RuleRequired) {
				sink.Add(issue.Row(rowIdx, outHeaders[i], issue.SeverityError, issue.Code(ns, "required"),
					"'"+outHeaders[i]+"' is required but empty"))
			}

			values[outHeaders[i]] = v
		}
		fixedRows[rowIdx] = format.NewRowFromMap(values)
	}

	result := format.FixResult{FixedHeaders: outHeaders.Clone(), FixedRows: fixedRows, Issues: sink.Issues()}
	for _, f := range fixes {
		result.AppendFix(f)
	}
	return result
}

func appendUnique(list *[]string, v string) {
	for _, e := range *list {
		if e == v {
			return
		}
	}
	*list = append(*list, v)
}

func hasRuleType(rules []Rule, t RuleType) bool {
	for _, r := range rules {
		if r.Type == t {
			return true
		}
	}
	return false
}

func columnRules(rules []Rule, columnID string) []Rule {
	var out []Rule
	for _, r := range rules {
		if r.Scope == ScopeColumn && r.ColumnID == columnID {
			out = append(out, r)
		}
	}
	return out
}

// resolveInputColumn matches the column's title (case/space-insensitive),
// then its key, then the positional fallback "Column N".
func resolveInputColumn(c Column, index int, headers format.Headers) string {
	if c.Title != "" {
		if h := matchFold(c.Title, headers); h != "" {
			return h
		}
	}
	if c.Key != "" {
		if h := matchFold(c.Key, headers); h != "" {
			return h
		}
	}
	fallback := fmt.Sprintf("Column %d", index+1)
	if headers.Contains(fallback) {
		return fallback
	}
	return ""
}

func matchFold(name string, headers format.Headers) string {
	target := foldSpace(name)
	for _, h := range headers {
		if foldSpace(h) == target {
			return h
		}
	}
	return ""
}

func foldSpace(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

func applyTransform(r Rule, v format.Cell, fixes *[]string) format.Cell {
	switch r.Type {
	case RuleTrim:
		out := strings.TrimSpace(v)
		if out != v {
			appendUnique(fixes, "Trimmed whitespace")
		}
		return out
	case RuleUppercase:
		out := strings.ToUpper(v)
		if out != v {
			appendUnique(fixes, "Uppercased values")
		}
		return out
	case RuleNoSpaces:
		out := strings.ReplaceAll(v, " ", "")
		if out != v {
			appendUnique(fixes, "Removed spaces")
		}
		return out
	case RuleNoSpecialChars:
		allow := allowSet(r.Value)
		out := stripSpecialChars(v, allow)
		if out != v {
			appendUnique(fixes, "Removed special characters")
		}
		return out
	case RuleNumericOnly:
		out := keepDigits(v)
		if out != v {
			appendUnique(fixes, "Kept numeric characters only")
		}
		return out
	case RuleMaxLength:
		n, err := strconv.Atoi(r.Value)
		if err != nil || n < 0 || len(v) <= n {
			return v
		}
		appendUnique(fixes, "Truncated value to maximum length")
		return v[:n]
	case RuleDefaultValue:
		if v == "" && r.Value != "" {
			appendUnique(fixes, "Filled missing value with default")
			return r.Value
		}
		return v
	default:
		return v
	}
}

func allowSet(value string) map[rune]bool {
	allow := make(map[rune]bool, len(value))
	for _, r := range value {
		allow[r] = true
	}
	return allow
}

func stripSpecialChars(v string, allow map[rune]bool) string {
	var b strings.Builder
	for _, r := range v {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || allow[r] {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keepDigits(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validateRule(r Rule, c Column, displayName string, rowIdx int, v format.Cell, cache map[string]*regexp.Regexp, sink *issue.Sink) {
	switch r.Type {
	case RuleRequired:
		if strings.TrimSpace(v) == "" {
			sink.Add(issue.Row(rowIdx, displayName, issue.SeverityError, issue.Code(ns, "required"),
				"'"+displayName+"' is required but empty"))
		}
	case RuleAllowedValues:
		allowed := splitList(r.Value)
		if v != "" && !containsFold(allowed, v) {
			sink.Add(issue.Row(rowIdx, displayName, issue.SeverityError, issue.Code(ns, "not_allowed_value"),
				"'"+v+"' is not one of the allowed values for '"+displayName+"'").
				WithDetails(map[string]any{"allowed": allowed}))
		}
	case RuleRegexAllow:
		re, err := compileCached(r.Value, cache)
		if err != nil {
			sink.Add(issue.Row(rowIdx, displayName, issue.SeverityError, issue.Code(ns, "invalid_regex"),
				"regex_allow pattern for '"+displayName+"' is invalid: "+err.Error()))
			return
		}
		if v != "" && !re.MatchString(v) {
			sink.Add(issue.Row(rowIdx, displayName, issue.SeverityError, issue.Code(ns, "regex_not_matched"),
				"'"+v+"' does not match the required pattern for '"+displayName+"'"))
		}
	case RuleRegexBlock:
		re, err := compileCached(r.Value, cache)
		if err != nil {
			sink.Add(issue.Row(rowIdx, displayName, issue.SeverityError, issue.Code(ns, "invalid_regex"),
				"regex_block pattern for '"+displayName+"' is invalid: "+err.Error()))
			return
		}
		if v != "" && re.MatchString(v) {
			sink.Add(issue.Row(rowIdx, displayName, issue.SeverityError, issue.Code(ns, "regex_blocked"),
				"'"+v+"' matches a blocked pattern for '"+displayName+"'"))
		}
	}
}

func compileCached(pattern string, cache map[string]*regexp.Regexp) (*regexp.Regexp, error) {
	if re, ok := cache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	cache[pattern] = re
	return re, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsFold(list []string, v string) bool {
	for _, l := range list {
		if strings.EqualFold(l, v) {
			return true
		}
	}
	return false
}
