package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/csvforge/csvforge/internal/pkg/presets"
)

var sampleOutPath string

var sampleCmd = &cobra.Command{
	Use:   "sample <format-id>",
	Short: "Print a sample CSV for a target format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := presets.Sample(args[0])
		if err != nil {
			return err
		}
		if sampleOutPath == "" {
			fmt.Print(out)
			return nil
		}
		return os.WriteFile(sampleOutPath, []byte(out), 0o644)
	},
}

func init() {
	sampleCmd.Flags().StringVarP(&sampleOutPath, "out", "o", "", "output CSV path (default: stdout)")
	rootCmd.AddCommand(sampleCmd)
}
