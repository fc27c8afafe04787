package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csvforge/csvforge/internal/pkg/presets"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List available target formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := presets.NewRegistry()
		for _, f := range registry.List() {
			fmt.Printf("%-28s %-10s %s\n", f.ID, f.Category, f.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
