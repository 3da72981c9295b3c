// Copyright 2026 Embed Report Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package target defines the report targets the publisher archives and serves.
//
// A target is one configured report-embedding unit: a name, a primary
// report file, optional additional files, an iframe height, and an
// association that decides whether the report shows up on the project
// page, on a build's page, or on both.
package target

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/barrenmains/embed-report/pkg/errors"
)

// ReportDirName is the directory, under a project or build root, that
// holds one subdirectory per target.
const ReportDirName = "embed_report"

// validNamePattern matches names that are safe to use both as a
// directory name and as a URL path segment.
var validNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Association decides which pages a target's report is embedded on.
type Association int

const (
	// ProjectOnly archives into the project tree only.
	ProjectOnly Association = iota
	// BuildOnly archives into each build's tree only.
	BuildOnly
	// Both performs both archives independently.
	Both
)

// ParseAssociation parses the configuration form of an association.
// Malformed values are rejected at configuration time, before any
// build runs.
func ParseAssociation(s string) (Association, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "project_only", "project":
		return ProjectOnly, nil
	case "build_only", "build":
		return BuildOnly, nil
	case "both":
		return Both, nil
	default:
		return 0, errors.ConfigError(fmt.Sprintf("unknown association %q (want project_only, build_only, or both)", s), nil)
	}
}

// String returns the configuration form of the association.
func (a Association) String() string {
	switch a {
	case ProjectOnly:
		return "project_only"
	case BuildOnly:
		return "build_only"
	case Both:
		return "both"
	default:
		return fmt.Sprintf("association(%d)", int(a))
	}
}

// Scope identifies the page a report is rendered or served on.
type Scope int

const (
	// ScopeProject is the project's top-level page.
	ScopeProject Scope = iota
	// ScopeBuild is a single build's page.
	ScopeBuild
)

// String returns a human readable scope name.
func (s Scope) String() string {
	if s == ScopeBuild {
		return "build"
	}
	return "project"
}

// AppliesTo reports whether a target with this association participates
// in the given scope.
func (a Association) AppliesTo(scope Scope) bool {
	switch a {
	case ProjectOnly:
		return scope == ScopeProject
	case BuildOnly:
		return scope == ScopeBuild
	case Both:
		return true
	default:
		return false
	}
}

// Target is an immutable report-embedding unit. Construct it with New
// so that every instance has passed validation.
type Target struct {
	// Name is the unique identifier, used as both the directory name
	// and the URL suffix.
	Name string

	// File is the primary report file, relative to the workspace.
	// Its basename is the index file when the report is served.
	File string

	// AdditionalFiles is the raw comma-separated list of extra files
	// to archive next to the primary file.
	AdditionalFiles string

	// Height is the iframe height in pixels.
	Height int

	// Association decides which pages embed this report.
	Association Association
}

// New builds a validated Target. The association is given in its
// configuration string form.
func New(name, file, additionalFiles string, height int, association string) (Target, error) {
	assoc, err := ParseAssociation(association)
	if err != nil {
		return Target{}, err
	}

	t := Target{
		Name:            name,
		File:            file,
		AdditionalFiles: additionalFiles,
		Height:          height,
		Association:     assoc,
	}
	if err := t.validate(); err != nil {
		return Target{}, err
	}
	return t, nil
}

func (t Target) validate() error {
	if t.Name == "" {
		return errors.ValidationError("target name must not be empty", nil)
	}
	if !validNamePattern.MatchString(t.Name) {
		return errors.ValidationError(fmt.Sprintf("target name %q is not filesystem/URL safe", t.Name), nil)
	}
	if t.Height <= 0 {
		return errors.ValidationError(fmt.Sprintf("target %q: height must be positive, got %d", t.Name, t.Height), nil)
	}
	if t.File == "" {
		return errors.ValidationError(fmt.Sprintf("target %q: report file must not be empty", t.Name), nil)
	}
	for _, f := range t.FileList() {
		if err := checkWorkspaceRelative(f); err != nil {
			return errors.ValidationError(fmt.Sprintf("target %q: file %q", t.Name, f), err)
		}
	}
	return nil
}

// checkWorkspaceRelative rejects paths that could resolve outside the
// workspace root they are joined to.
func checkWorkspaceRelative(p string) error {
	if filepath.IsAbs(p) {
		return fmt.Errorf("absolute paths are not allowed")
	}
	if strings.Contains(p, "\\") {
		return fmt.Errorf("backslashes are not allowed")
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("path escapes the workspace")
	}
	return nil
}

// FileList returns the primary file followed by the additional files.
// Additional entries are comma-separated, surrounding whitespace is
// trimmed, and empty entries are dropped. Order is preserved and
// duplicates are not deduplicated.
func (t Target) FileList() []string {
	files := []string{t.File}
	for _, raw := range strings.Split(t.AdditionalFiles, ",") {
		raw = strings.TrimSpace(raw)
		if raw != "" {
			files = append(files, raw)
		}
	}
	return files
}

// IndexFile returns the basename of the primary file, served when the
// report URL root is requested.
func (t Target) IndexFile() string {
	return path.Base(t.File)
}

// URLName returns the URL path segment the report is served under.
func (t Target) URLName() string {
	return "embed-" + t.Name
}

// ReportDir returns the directory holding this target's archived files
// under the given project or build root.
func (t Target) ReportDir(root string) string {
	return filepath.Join(root, ReportDirName, t.Name)
}
