package ebay

import (
	"context"
	"strings"
	"testing"

	"github.com/csvforge/csvforge/internal/pkg/format"
)

func TestInvalidActionEmitsError(t *testing.T) {
	headers := format.Headers{colAction}
	rows := []format.Row{format.NewRow(headers, []format.Cell{"Delete"})}

	result := Apply(context.Background(), headers, rows)

	found := false
	for _, iss := range result.Issues {
		if iss.Code == "ebay/invalid_action" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected invalid_action issue, got %v", result.Issues)
	}
}

func TestTitleTooLong(t *testing.T) {
	headers := format.Headers{colTitle}
	rows := []format.Row{format.NewRow(headers, []format.Cell{strings.Repeat("a", maxTitleLen+1)})}

	result := Apply(context.Background(), headers, rows)

	found := false
	for _, iss := range result.Issues {
		if iss.Code == "ebay/title_too_long" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected title_too_long issue, got %v", result.Issues)
	}
}

func TestDurationPattern(t *testing.T) {
	headers := format.Headers{colDuration}
	rows := []format.Row{
		format.NewRow(headers, []format.Cell{"GTC"}),
		format.NewRow(headers, []format.Cell{"Days_7"}),
		format.NewRow(headers, []format.Cell{"Forever"}),
	}

	result := Apply(context.Background(), headers, rows)

	count := 0
	for _, iss := range result.Issues {
		if iss.Code == "ebay/invalid_duration" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("got %d invalid_duration issues, want 1", count)
	}
}

func TestPictureURLListValidation(t *testing.T) {
	headers := format.Headers{colPictureURL}
	rows := []format.Row{
		format.NewRow(headers, []format.Cell{"https://example.com/a.jpg|not-a-url"}),
	}

	result := Apply(context.Background(), headers, rows)

	found := false
	for _, iss := range result.Issues {
		if iss.Code == "ebay/invalid_picture_url" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected invalid_picture_url issue, got %v", result.Issues)
	}
}

func TestUnpairedVariationSpecifics(t *testing.T) {
	headers := format.Headers{colVariationSpecificsName, colVariationSpecificsValue}
	rows := []format.Row{format.NewRow(headers, []format.Cell{"Color", ""})}

	result := Apply(context.Background(), headers, rows)

	found := false
	for _, iss := range result.Issues {
		if iss.Code == "ebay/unpaired_variation_specifics" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unpaired_variation_specifics issue, got %v", result.Issues)
	}
}

func TestDuplicateVariationComboUnderLabel(t *testing.T) {
	headers := format.Headers{colCustomLabel, colVariationSpecificsName, colVariationSpecificsValue}
	rows := []format.Row{
		format.NewRow(headers, []format.Cell{"SKU-1", "Color", "Red"}),
		format.NewRow(headers, []format.Cell{"SKU-1", "color", "red"}),
	}

	result := Apply(context.Background(), headers, rows)

	count := 0
	for _, iss := range result.Issues {
		if iss.Code == "ebay/duplicate_variation_combo" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("got %d duplicate_variation_combo issues, want 2", count)
	}
}
