// Copyright 2026 Embed Report Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package server serves archived reports and the project and build
// pages that embed them.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/barrenmains/embed-report/pkg/buildcontext"
	"github.com/barrenmains/embed-report/pkg/registry"
	"github.com/barrenmains/embed-report/pkg/report"
	"github.com/barrenmains/embed-report/pkg/target"
)

// shutdownTimeout bounds graceful shutdown once the context is done.
const shutdownTimeout = 5 * time.Second

// Server exposes one project's archived reports over HTTP.
type Server struct {
	addr       string
	dataDir    string
	project    string
	targets    []target.Target
	registry   *registry.Registry
	buildLimit int
	logger     *slog.Logger
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithRegistry lets the project page list recent builds. A nil
// registry leaves the list empty.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Server) { s.registry = r }
}

// WithLogger sets the server log destination.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithBuildLimit caps how many builds the project page lists.
func WithBuildLimit(limit int) Option {
	return func(s *Server) { s.buildLimit = limit }
}

// New creates a report server for one project.
func New(addr, dataDir, project string, targets []target.Target, opts ...Option) *Server {
	s := &Server{
		addr:       addr,
		dataDir:    dataDir,
		project:    project,
		targets:    targets,
		buildLimit: 25,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the server's routing handler. Exposed separately
// from Start so tests can drive it with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleProjectPage)
	mux.HandleFunc("/builds/", s.handleBuilds)

	// Every target gets its URL subspace on the project page, matching
	// the original behavior: a build-only target's project URL simply
	// serves the not-generated page because its directory never exists.
	projectRoot := buildcontext.ProjectDir(s.dataDir, s.project)
	for _, t := range s.targets {
		t := t
		prefix := "/" + t.URLName() + "/"
		mux.HandleFunc(prefix, func(w http.ResponseWriter, r *http.Request) {
			s.serveReport(w, r, t, projectRoot, prefix)
		})
	}

	return mux
}

// Start runs the HTTP server until the context is cancelled, then
// shuts it down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("report server listening", "addr", s.addr, "project", s.project)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// handleProjectPage renders the project status page with every
// project-scoped report fragment and the recent build list.
func (s *Server) handleProjectPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	projectRoot := buildcontext.ProjectDir(s.dataDir, s.project)

	var builds []registry.BuildRecord
	if s.registry != nil {
		recs, err := s.registry.Builds(r.Context(), s.project, s.buildLimit)
		if err != nil {
			s.logger.Error("failed to list builds", "error", err)
		} else {
			builds = recs
		}
	}

	s.renderPage(w, projectPage{
		Project:  s.project,
		Sections: s.sections(projectRoot, target.ScopeProject),
		Builds:   builds,
	})
}

// handleBuilds routes /builds/<id>/ to the build page and
// /builds/<id>/embed-<name>/... to that build's report files.
func (s *Server) handleBuilds(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/builds/")
	buildID, sub, _ := strings.Cut(rest, "/")
	if buildID == "" || strings.Contains(buildID, "..") {
		http.NotFound(w, r)
		return
	}

	buildRoot := buildcontext.BuildDir(s.dataDir, s.project, buildID)

	if sub == "" {
		s.renderBuildPage(w, r, buildID, buildRoot)
		return
	}

	for _, t := range s.targets {
		prefix := "/builds/" + buildID + "/" + t.URLName() + "/"
		if strings.HasPrefix(r.URL.Path, prefix) {
			s.serveReport(w, r, t, buildRoot, prefix)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) renderBuildPage(w http.ResponseWriter, r *http.Request, buildID, buildRoot string) {
	page := buildPage{
		Project:  s.project,
		BuildID:  buildID,
		Sections: s.sections(buildRoot, target.ScopeBuild),
	}
	if s.registry != nil {
		if rec, err := s.registry.Build(r.Context(), buildID); err == nil {
			page.Record = &rec
		}
	}
	s.renderBuild(w, page)
}

// sections renders one embeddable fragment per target that applies to
// the scope. Report state is recomputed from the filesystem on every
// request.
func (s *Server) sections(root string, scope target.Scope) []section {
	var out []section
	for _, t := range s.targets {
		fragment := report.Render(root, t, scope)
		if fragment == "" {
			continue
		}
		out = append(out, section{Title: t.Name, Fragment: fragment})
	}
	return out
}

// serveReport streams a file from the target's report directory. The
// directory root serves the target's declared index file. Requests that
// escape the directory are rejected with 404. A report that was never
// generated serves a fixed explanation page with status 200, matching
// the original behavior.
func (s *Server) serveReport(w http.ResponseWriter, r *http.Request, t target.Target, root, prefix string) {
	rep := report.Locate(root, t)
	if !rep.Ready {
		s.serveNotGenerated(w)
		return
	}

	rel := strings.TrimPrefix(r.URL.Path, prefix)
	if containsDotDot(rel) {
		http.NotFound(w, r)
		return
	}

	rel = path.Clean("/" + rel)
	if rel == "/" || rel == "." {
		rel = "/" + rep.IndexFile
	}

	fp := filepath.Join(rep.Directory, filepath.FromSlash(rel))
	if fp != rep.Directory && !strings.HasPrefix(fp, rep.Directory+string(os.PathSeparator)) {
		http.NotFound(w, r)
		return
	}

	info, err := os.Stat(fp)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fp)
}

// containsDotDot reports whether any slash-separated segment is "..".
func containsDotDot(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

func (s *Server) serveNotGenerated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(notGeneratedPage))
}

const notGeneratedPage = `<html><head><title>Report Not Generated</title></head><body><h1>Report Not Generated</h1>
<p>The report has not been generated, either because the job has never been run, or because it failed to generate the report.</p>
</body></html>
`
