// Package main provides the embed-report CLI application.
package main

import (
	"github.com/spf13/cobra"

	"github.com/barrenmains/embed-report/pkg/config"
	"github.com/barrenmains/embed-report/pkg/version"
)

// cfgFile is the --config flag value; empty means the default search.
var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "embed-report",
	Short: "Archive and embed CI report files",
	Long: `embed-report - a CI companion that publishes build reports.

Run 'embed-report perform' as a post-build step to copy configured
report files from the build workspace into the persistent data
directory, and 'embed-report serve' to expose them embedded on the
project's and each build's status page.`,
	Version:       version.FullString(),
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .embed-report.yaml)")
}

// loadConfig loads the configuration named by --config, falling back
// to the environment variable and the default search path.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadFromEnv()
}
