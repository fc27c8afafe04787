// Command csvforge validates and normalizes e-commerce CSV exports.
package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/csvforge/csvforge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("csvforge failed")
		os.Exit(1)
	}
}
