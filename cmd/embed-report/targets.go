package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/barrenmains/embed-report/pkg/buildcontext"
	"github.com/barrenmains/embed-report/pkg/report"
)

// targetsCmd lists the configured targets and their report state.
var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List configured report targets",
	Long: `Targets validates the configuration and lists every report
target with its association, files, and whether a project-level report
has been archived yet.`,
	RunE: runTargets,
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}

func runTargets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	targets, err := cfg.BuildTargets()
	if err != nil {
		return err
	}

	projectRoot := buildcontext.ProjectDir(cfg.DataDir, cfg.Project)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "project: %s\n", cfg.Project)
	for _, t := range targets {
		rep := report.Locate(projectRoot, t)
		state := "not generated"
		if rep.Ready {
			state = "ready"
		}
		fmt.Fprintf(out, "  %s\n", t.Name)
		fmt.Fprintf(out, "    association: %s\n", t.Association)
		fmt.Fprintf(out, "    files:       %s\n", strings.Join(t.FileList(), ", "))
		fmt.Fprintf(out, "    height:      %dpx\n", t.Height)
		fmt.Fprintf(out, "    url:         %s/\n", t.URLName())
		fmt.Fprintf(out, "    project dir: %s (%s)\n", rep.Directory, state)
	}
	return nil
}
