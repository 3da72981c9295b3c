// Copyright 2026 Embed Report Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/barrenmains/embed-report/pkg/registry"
)

func openRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open registry: %v", err)
	}
	t.Cleanup(func() { reg.Close() })
	return reg
}

// TestOpenCreatesDatabase tests directory and file creation.
func TestOpenCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	reg, err := registry.Open(dir)
	if err != nil {
		t.Fatalf("Failed to open registry: %v", err)
	}
	defer reg.Close()

	if _, err := os.Stat(reg.Path()); err != nil {
		t.Errorf("Expected database file at %s: %v", reg.Path(), err)
	}
}

// TestRecordAndLoadBuild tests the roundtrip of one build record.
func TestRecordAndLoadBuild(t *testing.T) {
	reg := openRegistry(t)
	ctx := context.Background()

	rec := registry.BuildRecord{
		ID:        "build-1",
		Project:   "demo",
		CreatedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Success:   false,
		Targets: []registry.TargetRecord{
			{Name: "cov", Archived: 2, Missing: 0},
			{Name: "lint", Archived: 0, Missing: 1},
		},
	}
	if err := reg.RecordBuild(ctx, rec); err != nil {
		t.Fatalf("RecordBuild returned error: %v", err)
	}

	got, err := reg.Build(ctx, "build-1")
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if got.Project != "demo" {
		t.Errorf("Expected project 'demo', got '%s'", got.Project)
	}
	if got.Success {
		t.Error("Expected recorded failure")
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("Expected created at %v, got %v", rec.CreatedAt, got.CreatedAt)
	}
	if len(got.Targets) != 2 {
		t.Fatalf("Expected 2 target records, got %d", len(got.Targets))
	}
	if got.Targets[0].Name != "cov" || got.Targets[0].Archived != 2 {
		t.Errorf("Unexpected first target record: %+v", got.Targets[0])
	}
	if got.Targets[1].Name != "lint" || got.Targets[1].Missing != 1 {
		t.Errorf("Unexpected second target record: %+v", got.Targets[1])
	}
}

// TestBuildsNewestFirst tests ordering and the project filter.
func TestBuildsNewestFirst(t *testing.T) {
	reg := openRegistry(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		err := reg.RecordBuild(ctx, registry.BuildRecord{
			ID:        id,
			Project:   "demo",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Success:   true,
		})
		if err != nil {
			t.Fatalf("RecordBuild returned error: %v", err)
		}
	}
	err := reg.RecordBuild(ctx, registry.BuildRecord{
		ID:        "other",
		Project:   "unrelated",
		CreatedAt: base,
		Success:   true,
	})
	if err != nil {
		t.Fatalf("RecordBuild returned error: %v", err)
	}

	builds, err := reg.Builds(ctx, "demo", 10)
	if err != nil {
		t.Fatalf("Builds returned error: %v", err)
	}
	if len(builds) != 3 {
		t.Fatalf("Expected 3 builds, got %d", len(builds))
	}
	want := []string{"c", "b", "a"}
	for i, b := range builds {
		if b.ID != want[i] {
			t.Errorf("Expected builds[%d] = %s, got %s", i, want[i], b.ID)
		}
	}
}

// TestBuildsLimit tests the list cap.
func TestBuildsLimit(t *testing.T) {
	reg := openRegistry(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		err := reg.RecordBuild(ctx, registry.BuildRecord{
			ID:        string(rune('a' + i)),
			Project:   "demo",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
			Success:   true,
		})
		if err != nil {
			t.Fatalf("RecordBuild returned error: %v", err)
		}
	}

	builds, err := reg.Builds(ctx, "demo", 2)
	if err != nil {
		t.Fatalf("Builds returned error: %v", err)
	}
	if len(builds) != 2 {
		t.Errorf("Expected 2 builds, got %d", len(builds))
	}
}

// TestRecordBuildIdempotent tests that re-recording a build replaces
// the prior row instead of duplicating it.
func TestRecordBuildIdempotent(t *testing.T) {
	reg := openRegistry(t)
	ctx := context.Background()

	rec := registry.BuildRecord{
		ID:        "build-1",
		Project:   "demo",
		CreatedAt: time.Now().UTC(),
		Success:   false,
		Targets:   []registry.TargetRecord{{Name: "cov", Missing: 1}},
	}
	if err := reg.RecordBuild(ctx, rec); err != nil {
		t.Fatalf("RecordBuild returned error: %v", err)
	}

	rec.Success = true
	rec.Targets = []registry.TargetRecord{{Name: "cov", Archived: 1}}
	if err := reg.RecordBuild(ctx, rec); err != nil {
		t.Fatalf("RecordBuild returned error: %v", err)
	}

	builds, err := reg.Builds(ctx, "demo", 10)
	if err != nil {
		t.Fatalf("Builds returned error: %v", err)
	}
	if len(builds) != 1 {
		t.Fatalf("Expected 1 build after re-record, got %d", len(builds))
	}
	if !builds[0].Success {
		t.Error("Expected replaced record to report success")
	}
	if len(builds[0].Targets) != 1 || builds[0].Targets[0].Archived != 1 {
		t.Errorf("Expected replaced target records, got %+v", builds[0].Targets)
	}
}

// TestBuildUnknown tests the error for an unknown build ID.
func TestBuildUnknown(t *testing.T) {
	reg := openRegistry(t)
	if _, err := reg.Build(context.Background(), "nope"); err == nil {
		t.Error("Expected error for unknown build, got nil")
	}
}
