package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/barrenmains/embed-report/pkg/buildcontext"
	"github.com/barrenmains/embed-report/pkg/hooks"
	"github.com/barrenmains/embed-report/pkg/log"
	"github.com/barrenmains/embed-report/pkg/publish"
	"github.com/barrenmains/embed-report/pkg/registry"
)

var (
	performWorkspace string
	performBuildID   string
	performNoSummary bool
)

// performCmd runs the archive step after a build.
var performCmd = &cobra.Command{
	Use:   "perform",
	Short: "Archive the configured report files for one build",
	Long: `Perform runs the post-build archive step.

Every configured target's files are copied from the workspace into the
project and/or build tree of the data directory, the build outcome is
recorded in the registry, and a markdown archive summary is written
into the build directory.

A missing report file marks the build as failed but does not stop the
remaining files or targets; perform then exits non-zero.`,
	RunE: runPerform,
}

func init() {
	performCmd.Flags().StringVar(&performWorkspace, "workspace", ".", "build workspace the report files are resolved against")
	performCmd.Flags().StringVar(&performBuildID, "build-id", "", "build identifier (default: a generated UUID)")
	performCmd.Flags().BoolVar(&performNoSummary, "no-summary", false, "skip writing the markdown archive summary")
	rootCmd.AddCommand(performCmd)
}

func runPerform(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := log.New(cfg.Global.LogLevel)

	targets, err := cfg.BuildTargets()
	if err != nil {
		return err
	}

	build, err := buildcontext.New(cfg.DataDir, cfg.Project, performWorkspace, performBuildID)
	if err != nil {
		return err
	}

	reg, err := registry.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer reg.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	publisher := publish.New(targets,
		publish.WithLogger(logger),
		publish.WithRegistry(reg),
		publish.WithHooks(hooks.NewRunner(cfg.BuildHooks(), logger)),
		publish.WithSummary(!performNoSummary),
	)

	ok, err := publisher.Perform(ctx, build)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("build %s marked as failed: one or more report files were missing", build.ID)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "archived build %s of project %s\n", build.ID, build.Project)
	return nil
}
