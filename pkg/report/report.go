// Copyright 2026 Embed Report Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package report locates archived reports and renders the HTML
// fragments that embed them on project and build pages.
package report

import (
	"fmt"
	"os"

	"github.com/barrenmains/embed-report/pkg/target"
)

// Placeholder is rendered in place of the iframe when a report has not
// been generated yet.
const Placeholder = "<p class='no-report'>Report not generated.</p>"

// PublishedReport describes the on-disk state of one target's report
// under a project or build root. It is recomputed from filesystem state
// on every call and never cached, so staleness is impossible.
type PublishedReport struct {
	TargetName string
	Directory  string
	IndexFile  string
	Ready      bool
}

// Locate checks whether the target's report directory exists under root.
func Locate(root string, t target.Target) PublishedReport {
	dir := t.ReportDir(root)
	info, err := os.Stat(dir)
	return PublishedReport{
		TargetName: t.Name,
		Directory:  dir,
		IndexFile:  t.IndexFile(),
		Ready:      err == nil && info.IsDir(),
	}
}

// Render locates the target's report under root and renders its
// embeddable fragment for the given scope.
func Render(root string, t target.Target, scope target.Scope) string {
	return RenderFragment(t, scope, Locate(root, t).Ready)
}

// RenderFragment returns the HTML fragment embedding the target's
// report. The fragment is empty when the association excludes the
// scope, the placeholder when the report is not ready, and an anchor
// link plus iframe otherwise. Pure function, no side effects.
func RenderFragment(t target.Target, scope target.Scope, ready bool) string {
	if !t.Association.AppliesTo(scope) {
		return ""
	}
	if !ready {
		return Placeholder
	}
	url := t.URLName() + "/"
	return fmt.Sprintf("<a href='%s' title='View report'>view</a><br />\n<iframe style='%s' src='%s'></iframe>",
		url, InlineStyle(t), url)
}

// InlineStyle returns the iframe style: fixed width and border, height
// from the target configuration.
func InlineStyle(t target.Target) string {
	return fmt.Sprintf("width: 95%%; border: 1px solid #666; height: %dpx;", t.Height)
}
