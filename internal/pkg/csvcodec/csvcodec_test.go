package csvcodec

import (
	"testing"

	"github.com/csvforge/csvforge/internal/pkg/format"
)

func TestParseSimple(t *testing.T) {
	result := Parse("a,b\n1,2\n3,4\n")
	if len(result.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", result.Issues)
	}
	if len(result.Headers) != 2 || result.Headers[0] != "a" || result.Headers[1] != "b" {
		t.Fatalf("headers = %v", result.Headers)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(result.Rows))
	}
	if result.Rows[0].Get("a") != "1" || result.Rows[0].Get("b") != "2" {
		t.Fatalf("row 0 = %v", result.Rows[0].Cells(result.Headers))
	}
}

func TestParseEmptyInput(t *testing.T) {
	result := Parse("")
	if len(result.Issues) != 1 || result.Issues[0].Code != "csv/parse_error" {
		t.Fatalf("issues = %v", result.Issues)
	}
	if result.Rows != nil {
		t.Fatalf("expected no rows for empty input")
	}
}

func TestParseUnterminatedQuote(t *testing.T) {
	result := Parse("a,b\n\"unterminated,2\n")
	if len(result.Issues) != 1 || result.Issues[0].Code != "csv/parse_error" {
		t.Fatalf("issues = %v", result.Issues)
	}
	if len(result.Rows) != 0 {
		t.Fatalf("expected zero rows on unterminated quote")
	}
}

func TestParseDuplicateHeader(t *testing.T) {
	result := Parse("a,a,b\n1,2,3\n")
	found := false
	for _, iss := range result.Issues {
		if iss.Code == "csv/duplicate_header" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected csv/duplicate_header issue, got %v", result.Issues)
	}
}

func TestParseShortRowIsPadded(t *testing.T) {
	result := Parse("a,b,c\n1,2\n")
	if len(result.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(result.Rows))
	}
	if result.Rows[0].Get("c") != "" {
		t.Fatalf("expected padded empty cell, got %q", result.Rows[0].Get("c"))
	}
}

func TestParseLongRowWarnsAndTruncates(t *testing.T) {
	result := Parse("a,b\n1,2,3,4\n")
	if len(result.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(result.Rows))
	}
	found := false
	for _, iss := range result.Issues {
		if iss.Code == "csv/extra_columns" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected csv/extra_columns issue, got %v", result.Issues)
	}
}

func TestParseQuotedFieldWithEmbeddedCommaNewlineQuote(t *testing.T) {
	text := "a,b\n\"x,y\",\"he said \"\"hi\"\"\nstill b\"\n"
	result := Parse(text)
	if len(result.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", result.Issues)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(result.Rows))
	}
	if result.Rows[0].Get("a") != "x,y" {
		t.Fatalf("a = %q", result.Rows[0].Get("a"))
	}
	if result.Rows[0].Get("b") != "he said \"hi\"\nstill b" {
		t.Fatalf("b = %q", result.Rows[0].Get("b"))
	}
}

func TestRoundTrip(t *testing.T) {
	headers := format.Headers{"a", "b"}
	rows := []format.Row{
		format.NewRow(headers, []format.Cell{"x,y", "he said \"hi\""}),
	}
	serialized := Serialize(headers, rows)
	reparsed := Parse(serialized)

	if len(reparsed.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", reparsed.Issues)
	}
	if len(reparsed.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(reparsed.Rows))
	}
	if reparsed.Rows[0].Get("a") != "x,y" || reparsed.Rows[0].Get("b") != "he said \"hi\"" {
		t.Fatalf("round trip mismatch: %v", reparsed.Rows[0].Cells(headers))
	}
}

func TestSerializeAlwaysTrailingNewline(t *testing.T) {
	out := Serialize(format.Headers{"a"}, nil)
	if out != "a\n" {
		t.Fatalf("out = %q", out)
	}
}
