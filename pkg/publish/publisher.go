// Copyright 2026 Embed Report Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package publish implements the post-build step that archives every
// configured report target and records the build's outcome.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/barrenmains/embed-report/pkg/archive"
	"github.com/barrenmains/embed-report/pkg/buildcontext"
	"github.com/barrenmains/embed-report/pkg/errors"
	"github.com/barrenmains/embed-report/pkg/hooks"
	"github.com/barrenmains/embed-report/pkg/registry"
	"github.com/barrenmains/embed-report/pkg/report"
	"github.com/barrenmains/embed-report/pkg/target"
)

// Tag prefixes every build log line the publisher emits.
const Tag = "[embed_report]"

// Publisher runs the archive step for a list of targets.
type Publisher struct {
	targets  []target.Target
	registry *registry.Registry
	hooks    *hooks.Runner
	logger   *slog.Logger
	summary  bool
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithRegistry records each build in the registry after the archive
// step. A nil registry disables recording.
func WithRegistry(r *registry.Registry) Option {
	return func(p *Publisher) { p.registry = r }
}

// WithHooks fires post-publish hooks after the archive step.
func WithHooks(r *hooks.Runner) Option {
	return func(p *Publisher) { p.hooks = r }
}

// WithLogger sets the build log destination.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// WithSummary toggles writing the markdown archive summary into the
// build directory. Enabled by default.
func WithSummary(enabled bool) Option {
	return func(p *Publisher) { p.summary = enabled }
}

// New creates a publisher. An empty target list is valid: perform then
// archives nothing and succeeds.
func New(targets []target.Target, opts ...Option) *Publisher {
	p := &Publisher{
		targets: targets,
		logger:  slog.Default(),
		summary: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Perform runs the archive step for the given build. The returned bool
// is the build outcome: false when any configured report file was
// missing from the workspace. That is a soft failure; the remaining
// files and targets are still processed and no error is returned for
// it. I/O failures during copy, directory creation, or registry
// recording abort the step with an error.
func (p *Publisher) Perform(ctx context.Context, build buildcontext.Build) (bool, error) {
	p.logger.Info(Tag + " Running...")

	success := true
	summaries := make([]report.TargetSummary, 0, len(p.targets))

	for _, t := range p.targets {
		p.logger.Info(fmt.Sprintf("%s Processing target '%s'...", Tag, t.Name))

		var last archive.Result
		if t.Association.AppliesTo(target.ScopeProject) {
			res, err := p.archiveTo(build, t, build.ProjectDir())
			if err != nil {
				return false, err
			}
			if res.Failed() {
				success = false
			}
			last = res
		}
		if t.Association.AppliesTo(target.ScopeBuild) {
			res, err := p.archiveTo(build, t, build.BuildDir())
			if err != nil {
				return false, err
			}
			if res.Failed() {
				success = false
			}
			last = res
		}

		summaries = append(summaries, report.TargetSummary{
			Name:     t.Name,
			Archived: last.ArchivedFiles(),
			Missing:  last.MissingFiles(),
		})
	}

	now := time.Now().UTC()

	if p.registry != nil {
		rec := registry.BuildRecord{
			ID:        build.ID,
			Project:   build.Project,
			CreatedAt: now,
			Success:   success,
		}
		for _, s := range summaries {
			rec.Targets = append(rec.Targets, registry.TargetRecord{
				Name:     s.Name,
				Archived: len(s.Archived),
				Missing:  len(s.Missing),
			})
		}
		if err := p.registry.RecordBuild(ctx, rec); err != nil {
			return false, err
		}
	}

	if p.summary {
		if err := p.writeSummary(build, now, success, summaries); err != nil {
			return false, err
		}
	}

	p.fireHooks(ctx, build, success)

	p.logger.Info(Tag + " Complete.")
	return success, nil
}

// archiveTo archives one target's files under root, logging a build
// error line for every missing source file.
func (p *Publisher) archiveTo(build buildcontext.Build, t target.Target, root string) (archive.Result, error) {
	res, err := archive.Archive(build.WorkspaceDir, t.ReportDir(root), t.FileList())
	if err != nil {
		return res, err
	}
	for _, f := range res.MissingFiles() {
		p.logger.Error(fmt.Sprintf("%s Specified report file '%s' does not exist.", Tag, f))
	}
	return res, nil
}

func (p *Publisher) writeSummary(build buildcontext.Build, ranAt time.Time, success bool, summaries []report.TargetSummary) error {
	dir := build.BuildDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.IOError(fmt.Sprintf("failed to create build directory %s", dir), err)
	}

	path := filepath.Join(dir, report.SummaryFileName)
	f, err := os.Create(path)
	if err != nil {
		return errors.IOError(fmt.Sprintf("failed to create summary file %s", path), err)
	}
	defer f.Close()

	if err := report.WriteSummary(f, build.Project, build.ID, ranAt, success, summaries); err != nil {
		return errors.IOError("failed to write archive summary", err)
	}
	return nil
}

func (p *Publisher) fireHooks(ctx context.Context, build buildcontext.Build, success bool) {
	if p.hooks == nil {
		return
	}
	event := hooks.EventOnSuccess
	if !success {
		event = hooks.EventOnFailure
	}
	p.hooks.Fire(ctx, event, map[string]string{
		"EMBED_REPORT_PROJECT":  build.Project,
		"EMBED_REPORT_BUILD_ID": build.ID,
		"EMBED_REPORT_SUCCESS":  fmt.Sprintf("%t", success),
	})
}
