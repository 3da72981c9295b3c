// Copyright 2026 Embed Report Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package archive copies report files from a build workspace into a
// persistent destination directory.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/barrenmains/embed-report/pkg/errors"
)

// FileResult records the outcome of archiving a single file.
type FileResult struct {
	// Path is the source path relative to the workspace root.
	Path string

	// Archived is true when the file was copied to the destination.
	Archived bool

	// Missing is true when the source file did not exist. A missing
	// source is a reported, recoverable condition, never a hard error.
	Missing bool
}

// Result lists the per-file outcome of one archive invocation, in
// input order.
type Result struct {
	Files []FileResult
}

// Failed reports whether any source file was missing. The invoking
// build step is marked failed, but the step itself does not abort.
func (r Result) Failed() bool {
	for _, f := range r.Files {
		if f.Missing {
			return true
		}
	}
	return false
}

// ArchivedFiles returns the source paths that were copied.
func (r Result) ArchivedFiles() []string {
	var out []string
	for _, f := range r.Files {
		if f.Archived {
			out = append(out, f.Path)
		}
	}
	return out
}

// MissingFiles returns the source paths that did not exist.
func (r Result) MissingFiles() []string {
	var out []string
	for _, f := range r.Files {
		if f.Missing {
			out = append(out, f.Path)
		}
	}
	return out
}

// Archive copies each file, resolved against workspaceRoot, into
// destRoot under its basename. Order is preserved and duplicates are
// not deduplicated. destRoot is created with intermediate directories;
// files already present there are overwritten when they collide and
// otherwise left untouched.
//
// A missing source file produces a failure entry in the result and
// processing continues with the remaining files. An I/O failure during
// directory creation or copy is a hard error; the partial result up to
// that point is returned alongside it.
func Archive(workspaceRoot, destRoot string, files []string) (Result, error) {
	var result Result

	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return result, errors.IOError(fmt.Sprintf("failed to create destination directory %s", destRoot), err)
	}

	for _, f := range files {
		source := filepath.Join(workspaceRoot, f)

		info, err := os.Stat(source)
		if os.IsNotExist(err) {
			result.Files = append(result.Files, FileResult{Path: f, Missing: true})
			continue
		}
		if err != nil {
			return result, errors.IOError(fmt.Sprintf("failed to stat source file %s", source), err)
		}
		if info.IsDir() {
			result.Files = append(result.Files, FileResult{Path: f, Missing: true})
			continue
		}

		dest := filepath.Join(destRoot, filepath.Base(f))
		if err := copyFile(source, dest); err != nil {
			return result, err
		}
		result.Files = append(result.Files, FileResult{Path: f, Archived: true})
	}

	return result, nil
}

// copyFile copies the bytes of source to dest, truncating any prior
// file of the same name.
func copyFile(source, dest string) error {
	in, err := os.Open(source)
	if err != nil {
		return errors.IOError(fmt.Sprintf("failed to open source file %s", source), err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return errors.IOError(fmt.Sprintf("failed to create destination file %s", dest), err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.IOError(fmt.Sprintf("failed to copy %s to %s", source, dest), err)
	}
	if err := out.Close(); err != nil {
		return errors.IOError(fmt.Sprintf("failed to finish writing %s", dest), err)
	}
	return nil
}
