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

var validateFormatID string

var validateCmd = &cobra.Command{
	Use:   "validate [input.csv]",
	Short: "Run the engine pipeline and report issues without writing output",
	Long: `validate runs the same pipeline as 'fix' but only reports the
issues found; it never writes a cleaned CSV. Exit status is non-zero
when any error-severity issue is present, matching the host export
gate described in the engine's error handling design.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFormatID, "format", "f", "", "target format id (see 'csvforge formats')")
	validateCmd.MarkFlagRequired("format")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	registry := presets.NewRegistry()
	f, ok := registry.Lookup(validateFormatID)
	if !ok {
		return fmt.Errorf("unknown format %q (run 'csvforge formats' to list available ids)", validateFormatID)
	}

	parsed := csvcodec.Parse(string(raw))
	if len(parsed.Issues) > 0 && len(parsed.Headers) == 0 {
		for _, iss := range parsed.Issues {
			log.Error().Str("code", iss.Code).Msg(iss.Message)
		}
		return fmt.Errorf("%s: failed to parse as CSV", inputPath)
	}

	result := engine.Apply(context.Background(), parsed.Headers, parsed.Rows, f)
	allIssues := append(parsed.Issues, result.Issues...)
	printReport(result.FixesApplied, allIssues)

	if hasErrors(allIssues) {
		return fmt.Errorf("%d error-severity issue(s) found", countErrors(allIssues))
	}
	return nil
}
