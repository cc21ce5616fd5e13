package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rowanvale/html2img/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the html2img version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
