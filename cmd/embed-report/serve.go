package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/barrenmains/embed-report/pkg/log"
	"github.com/barrenmains/embed-report/pkg/registry"
	"github.com/barrenmains/embed-report/pkg/server"
)

var serveListen string

// serveCmd runs the report server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the archived reports over HTTP",
	Long: `Serve exposes the project page, per-build pages, and every
target's report directory under its embed-<name> URL.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides the config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := log.New(cfg.Global.LogLevel)

	targets, err := cfg.BuildTargets()
	if err != nil {
		return err
	}

	addr := cfg.Server.Listen
	if serveListen != "" {
		addr = serveListen
	}

	reg, err := registry.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer reg.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(addr, cfg.DataDir, cfg.Project, targets,
		server.WithRegistry(reg),
		server.WithLogger(logger),
		server.WithBuildLimit(cfg.Server.BuildLimit),
	)
	return srv.Start(ctx)
}
