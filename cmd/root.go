// Package cmd provides the html2img command-line interface: a one-shot
// template renderer and the HTTP rendering server, both funneling into the
// same processing core.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rowanvale/html2img/internal/render"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "html2img",
	Short: "Render HTML templates to PNG images",
	Long: `html2img renders HTML templates to PNG images without a browser:
layout, styling and painting run in-process on the CPU.

Templates use {{ var }} placeholders with HTML-safe escaping. The same
rendering core backs both entry points:

  html2img render                 Render a template file to a PNG file
  html2img serve                  Start the HTTP rendering server`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. Failures print the error message to standard error
// and exit non-zero, with the exit code keyed to the failure kind.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		var apiErr *render.Error
		if errors.As(err, &apiErr) {
			os.Exit(apiErr.ExitCode())
		}
		os.Exit(1)
	}
}
