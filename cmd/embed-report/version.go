package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barrenmains/embed-report/pkg/version"
)

// versionCmd prints detailed version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Info()
		fmt.Fprintf(cmd.OutOrStdout(), "embed-report version: %s\n", info["version"])
		fmt.Fprintf(cmd.OutOrStdout(), "  build date: %s\n", info["buildDate"])
		fmt.Fprintf(cmd.OutOrStdout(), "  git commit: %s\n", info["gitCommit"])
		fmt.Fprintf(cmd.OutOrStdout(), "  go version: %s\n", info["goVersion"])
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
