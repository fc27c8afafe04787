package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "csvforge.yaml")
	content := `
plan: basic
engine:
  max_issues_per_format: 500
  custom_format_paths:
    - ./formats
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Plan != "basic" {
		t.Errorf("Plan got = %v, want %v", cfg.Plan, "basic")
	}
	if cfg.Engine.MaxIssuesPerFormat != 500 {
		t.Errorf("Engine.MaxIssuesPerFormat got = %v, want %v", cfg.Engine.MaxIssuesPerFormat, 500)
	}
	if len(cfg.Engine.CustomFormatPaths) != 1 || cfg.Engine.CustomFormatPaths[0] != "./formats" {
		t.Errorf("Engine.CustomFormatPaths got = %v", cfg.Engine.CustomFormatPaths)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/csvforge.yaml"); err == nil {
		t.Fatal("Load() expected an error for a missing file")
	}
}
