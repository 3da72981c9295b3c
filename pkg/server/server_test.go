// Copyright 2026 Embed Report Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/barrenmains/embed-report/pkg/buildcontext"
	"github.com/barrenmains/embed-report/pkg/registry"
	"github.com/barrenmains/embed-report/pkg/server"
	"github.com/barrenmains/embed-report/pkg/target"
)

func mustTarget(t *testing.T, name, file, association string) target.Target {
	t.Helper()
	tgt, err := target.New(name, file, "", 400, association)
	if err != nil {
		t.Fatalf("Failed to build target: %v", err)
	}
	return tgt
}

func writeReportFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// TestServeReadyReport tests static serving of an archived report,
// with the index file served at the directory root.
func TestServeReadyReport(t *testing.T) {
	dataDir := t.TempDir()
	tgt := mustTarget(t, "cov", "report/index.html", "both")

	dir := tgt.ReportDir(buildcontext.ProjectDir(dataDir, "demo"))
	writeReportFile(t, dir, "index.html", "<html>coverage</html>")
	writeReportFile(t, dir, "style.css", "body {}")

	h := server.New(":0", dataDir, "demo", []target.Target{tgt}).Handler()

	// Directory root serves the declared index file.
	rec := get(t, h, "/embed-cov/")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "<html>coverage</html>" {
		t.Errorf("Expected index file body, got %q", got)
	}

	// Sub-paths serve their file.
	rec = get(t, h, "/embed-cov/style.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "body {}" {
		t.Errorf("Expected style.css body, got %q", got)
	}
}

// TestServeNotGenerated tests the fixed 200 explanation page when the
// report directory does not exist.
func TestServeNotGenerated(t *testing.T) {
	tgt := mustTarget(t, "cov", "index.html", "both")
	h := server.New(":0", t.TempDir(), "demo", []target.Target{tgt}).Handler()

	rec := get(t, h, "/embed-cov/")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 for not-generated report, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Report Not Generated") {
		t.Errorf("Expected explanation page, got %q", rec.Body.String())
	}
}

// TestServeTraversalRejected tests that paths escaping the report
// directory return 404.
func TestServeTraversalRejected(t *testing.T) {
	dataDir := t.TempDir()
	tgt := mustTarget(t, "cov", "index.html", "both")

	projectRoot := buildcontext.ProjectDir(dataDir, "demo")
	writeReportFile(t, tgt.ReportDir(projectRoot), "index.html", "ok")

	// A sibling file outside the report directory.
	writeReportFile(t, projectRoot, "secret.txt", "do not serve")

	h := server.New(":0", dataDir, "demo", []target.Target{tgt}).Handler()

	for _, path := range []string{
		"/embed-cov/../secret.txt",
		"/embed-cov/..%2fsecret.txt",
		"/embed-cov/a/../../secret.txt",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.URL.Path = strings.ReplaceAll(path, "%2f", "/")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK && strings.Contains(rec.Body.String(), "do not serve") {
			t.Errorf("Traversal path %q served the escaped file", path)
		}
	}
}

// TestServeMissingFile tests 404 for an absent file inside a ready
// report.
func TestServeMissingFile(t *testing.T) {
	dataDir := t.TempDir()
	tgt := mustTarget(t, "cov", "index.html", "both")
	writeReportFile(t, tgt.ReportDir(buildcontext.ProjectDir(dataDir, "demo")), "index.html", "ok")

	h := server.New(":0", dataDir, "demo", []target.Target{tgt}).Handler()

	rec := get(t, h, "/embed-cov/absent.css")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing file, got %d", rec.Code)
	}
}

// TestProjectPage tests fragment composition on the project page.
func TestProjectPage(t *testing.T) {
	dataDir := t.TempDir()
	ready := mustTarget(t, "cov", "index.html", "both")
	pending := mustTarget(t, "lint", "lint.html", "project_only")
	buildOnly := mustTarget(t, "perf", "perf.html", "build_only")

	writeReportFile(t, ready.ReportDir(buildcontext.ProjectDir(dataDir, "demo")), "index.html", "ok")

	h := server.New(":0", dataDir, "demo", []target.Target{ready, pending, buildOnly}).Handler()

	rec := get(t, h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()

	if !strings.Contains(body, "src='embed-cov/'") {
		t.Errorf("Expected ready target iframe, got:\n%s", body)
	}
	if !strings.Contains(body, "Report not generated.") {
		t.Errorf("Expected placeholder for pending target, got:\n%s", body)
	}
	// Build-only targets contribute nothing to the project page.
	if strings.Contains(body, "embed-perf") {
		t.Errorf("Expected no build-only fragment on project page, got:\n%s", body)
	}
}

// TestBuildPage tests the per-build page and its report URLs.
func TestBuildPage(t *testing.T) {
	dataDir := t.TempDir()
	tgt := mustTarget(t, "cov", "index.html", "build_only")

	buildRoot := buildcontext.BuildDir(dataDir, "demo", "build-7")
	writeReportFile(t, tgt.ReportDir(buildRoot), "index.html", "<html>b7</html>")

	h := server.New(":0", dataDir, "demo", []target.Target{tgt}).Handler()

	rec := get(t, h, "/builds/build-7/")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "src='embed-cov/'") {
		t.Errorf("Expected build page iframe, got:\n%s", rec.Body.String())
	}

	rec = get(t, h, "/builds/build-7/embed-cov/")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "<html>b7</html>" {
		t.Errorf("Expected build report index, got %q", got)
	}
}

// TestProjectPageListsBuilds tests the registry-backed build list.
func TestProjectPageListsBuilds(t *testing.T) {
	dataDir := t.TempDir()
	tgt := mustTarget(t, "cov", "index.html", "both")

	reg, err := registry.Open(dataDir)
	if err != nil {
		t.Fatalf("Failed to open registry: %v", err)
	}
	defer reg.Close()

	err = reg.RecordBuild(context.Background(), registry.BuildRecord{
		ID:        "build-1",
		Project:   "demo",
		CreatedAt: time.Now(),
		Success:   true,
	})
	if err != nil {
		t.Fatalf("Failed to record build: %v", err)
	}

	h := server.New(":0", dataDir, "demo", []target.Target{tgt},
		server.WithRegistry(reg)).Handler()

	rec := get(t, h, "/")
	if !strings.Contains(rec.Body.String(), "/builds/build-1/") {
		t.Errorf("Expected build link on project page, got:\n%s", rec.Body.String())
	}
}

// TestUnknownPath tests 404 outside the registered URL surface.
func TestUnknownPath(t *testing.T) {
	tgt := mustTarget(t, "cov", "index.html", "both")
	h := server.New(":0", t.TempDir(), "demo", []target.Target{tgt}).Handler()

	rec := get(t, h, "/nonsense")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}
