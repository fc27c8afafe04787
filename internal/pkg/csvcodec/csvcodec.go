// Package csvcodec parses and serializes CSV text with RFC-4180-style
// quoting, while tolerating the shapes of CSV real exports produce:
// short rows, ragged rows, and duplicate headers. It never raises to
// the caller — malformed input becomes a file-level issue.
//
// Go's encoding/csv.Reader is not used here: it either enforces a
// uniform field count per record (failing the whole parse on a single
// ragged row) or disables that check globally, with no way to report a
// per-row warning and keep going. See DESIGN.md for the full rationale.
package csvcodec

import (
	"strconv"
	"strings"

	"github.com/csvforge/csvforge/internal/pkg/format"
	"github.com/csvforge/csvforge/internal/pkg/issue"
)

// ParseResult holds the outcome of Parse.
type ParseResult struct {
	Headers format.Headers
	Rows    []format.Row
	Issues  []issue.Issue
}

// Parse splits text into a header row and data rows, honoring quoted
// fields that contain commas, embedded newlines, CR, and doubled
// quotes. The first logical record becomes the headers; an empty
// trailing record (from a trailing newline) is ignored.
//
// Short rows are padded with empty cells. Long rows emit a parse
// warning (not a failure) and their extra cells are dropped. An
// unterminated quote at EOF is a file-level error and Parse returns no
// rows at all.
func Parse(text string) ParseResult {
	records, unterminated := scanRecords(text)

	if unterminated {
		return ParseResult{
			Issues: []issue.Issue{
				issue.File(issue.SeverityError, issue.Code("csv", "parse_error"),
					"unterminated quoted field at end of file"),
			},
		}
	}

	if len(records) == 0 {
		return ParseResult{
			Issues: []issue.Issue{
				issue.File(issue.SeverityError, issue.Code("csv", "parse_error"),
					"input is empty"),
			},
		}
	}

	headerRecord := records[0]
	headers := make(format.Headers, len(headerRecord))
	copy(headers, headerRecord)

	var issues []issue.Issue
	seen := make(map[string]int, len(headers))
	for _, h := range headers {
		seen[h]++
	}
	for name, count := range seen {
		if count > 1 {
			issues = append(issues, issue.File(issue.SeverityWarning, issue.Code("csv", "duplicate_header"),
				"header '"+name+"' appears "+strconv.Itoa(count)+" times; later columns win on lookup"))
		}
	}

	dataRecords := records[1:]
	rows := make([]format.Row, 0, len(dataRecords))
	for i, rec := range dataRecords {
		if len(rec) > len(headers) {
			issues = append(issues, issue.Row(i, issue.FileColumn, issue.SeverityWarning,
				issue.Code("csv", "extra_columns"),
				"row has more columns than the header; extra cells were dropped").
				WithDetails(map[string]any{"extra": len(rec) - len(headers)}))
			rec = rec[:len(headers)]
		}
		rows = append(rows, format.NewRow(headers, rec))
	}

	return ParseResult{Headers: headers, Rows: rows, Issues: issues}
}

// Serialize renders headers and rows back to CSV text. Any cell
// containing a comma, quote, CR, or LF is quoted, with embedded quotes
// doubled. Lines are terminated with "\n" and a trailing newline is
// always emitted.
func Serialize(headers format.Headers, rows []format.Row) string {
	var b strings.Builder
	writeRecord(&b, headers)
	for _, r := range rows {
		writeRecord(&b, r.Cells(headers))
	}
	return b.String()
}

func writeRecord(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(encodeField(f))
	}
	b.WriteByte('\n')
}

func encodeField(f string) string {
	if !needsQuoting(f) {
		return f
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(f); i++ {
		c := f[i]
		if c == '"' {
			b.WriteByte('"')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

func needsQuoting(f string) bool {
	return strings.ContainsAny(f, ",\"\n\r")
}

// scanRecords tokenizes text into logical CSV records honoring quoted
// fields. CRLF and bare CR are both treated as record separators
// outside of quotes; CR and LF inside a quoted field are preserved
// verbatim.
func scanRecords(text string) (records [][]string, unterminatedQuote bool) {
	var fields []string
	var field strings.Builder
	inQuotes := false
	i := 0
	n := len(text)
	hasContent := false // whether the current record has seen any field content at all

	flushField := func() {
		fields = append(fields, field.String())
		field.Reset()
	}
	flushRecord := func() {
		flushField()
		records = append(records, fields)
		fields = nil
		hasContent = false
	}

	for i < n {
		c := text[i]
		if inQuotes {
			if c == '"' {
				if i+1 < n && text[i+1] == '"' {
					field.WriteByte('"')
					i += 2
					continue
				}
				inQuotes = false
				i++
				continue
			}
			field.WriteByte(c)
			i++
			continue
		}

		switch c {
		case '"':
			inQuotes = true
			hasContent = true
			i++
		case ',':
			hasContent = true
			flushField()
			i++
		case '\r':
			if i+1 < n && text[i+1] == '\n' {
				i++
			}
			flushRecord()
			i++
		case '\n':
			flushRecord()
			i++
		default:
			hasContent = true
			field.WriteByte(c)
			i++
		}
	}

	if inQuotes {
		return nil, true
	}

	// Flush a final record if the file didn't end with a newline, or
	// had trailing content after the last separator.
	if hasContent || field.Len() > 0 || len(fields) > 0 {
		flushRecord()
	}

	return records, false
}
