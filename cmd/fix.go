package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/csvforge/csvforge/internal/pkg/csvcodec"
	"github.com/csvforge/csvforge/internal/pkg/engine"
	"github.com/csvforge/csvforge/internal/pkg/presets"
)

var (
	fixFormatID string
	fixOutPath  string
)

var fixCmd = &cobra.Command{
	Use:   "fix [input.csv]",
	Short: "Normalize and fix a CSV file against a target format",
	Long: `fix runs the full engine pipeline over the input file — base
cleanup, the target format's own validation/normalization, universal
cleanup, and (for Shopify) template enforcement — and writes the
cleaned CSV plus a report of every fix applied and issue found.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().StringVarP(&fixFormatID, "format", "f", "", "target format id (see 'csvforge formats')")
	fixCmd.Flags().StringVarP(&fixOutPath, "out", "o", "", "output CSV path (default: stdout)")
	fixCmd.MarkFlagRequired("format")
	rootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	registry := presets.NewRegistry()
	f, ok := registry.Lookup(fixFormatID)
	if !ok {
		return fmt.Errorf("unknown format %q (run 'csvforge formats' to list available ids)", fixFormatID)
	}

	parsed := csvcodec.Parse(string(raw))
	if len(parsed.Issues) > 0 && len(parsed.Headers) == 0 {
		for _, iss := range parsed.Issues {
			log.Error().Str("code", iss.Code).Msg(iss.Message)
		}
		return fmt.Errorf("%s: failed to parse as CSV", inputPath)
	}

	result := engine.Apply(context.Background(), parsed.Headers, parsed.Rows, f)

	out := csvcodec.Serialize(result.FixedHeaders, result.FixedRows)
	if fixOutPath == "" {
		fmt.Print(out)
	} else if err := os.WriteFile(fixOutPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", fixOutPath, err)
	}

	printReport(result.FixesApplied, append(parsed.Issues, result.Issues...))
	return nil
}
