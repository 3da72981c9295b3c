// Package buildcontext describes the directories involved in a single
// build execution: the workspace the build ran in, the project's
// persistent directory, and the build's own persistent directory.
package buildcontext

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/barrenmains/embed-report/pkg/errors"
	"github.com/google/uuid"
)

// validIDPattern matches build IDs that are safe as directory names and
// URL path segments. CI-supplied build numbers and UUIDs both match.
var validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Build identifies one build execution of a project.
type Build struct {
	// Project is the project name, used as a directory under the data
	// directory.
	Project string

	// ID identifies this build. When the CI does not supply one, a
	// fresh UUID is generated.
	ID string

	// WorkspaceDir is the directory the build ran in; configured report
	// files are resolved against it.
	WorkspaceDir string

	dataDir string
}

// New builds a Build. buildID may be empty, in which case a UUID is
// generated so that every execution gets a disjoint build directory.
func New(dataDir, project, workspaceDir, buildID string) (Build, error) {
	if dataDir == "" {
		return Build{}, errors.ValidationError("data directory must not be empty", nil)
	}
	if project == "" || !validIDPattern.MatchString(project) {
		return Build{}, errors.ValidationError(fmt.Sprintf("project name %q is not filesystem/URL safe", project), nil)
	}
	if workspaceDir == "" {
		return Build{}, errors.ValidationError("workspace directory must not be empty", nil)
	}
	if buildID == "" {
		buildID = uuid.NewString()
	} else if !validIDPattern.MatchString(buildID) {
		return Build{}, errors.ValidationError(fmt.Sprintf("build ID %q is not filesystem/URL safe", buildID), nil)
	}

	return Build{
		Project:      project,
		ID:           buildID,
		WorkspaceDir: workspaceDir,
		dataDir:      dataDir,
	}, nil
}

// ProjectDir returns the project's persistent directory.
func (b Build) ProjectDir() string {
	return ProjectDir(b.dataDir, b.Project)
}

// BuildDir returns this build's persistent directory. Different builds
// always get disjoint directories, so no locking is needed between
// concurrent builds of different IDs.
func (b Build) BuildDir() string {
	return BuildDir(b.dataDir, b.Project, b.ID)
}

// ProjectDir returns the persistent directory of a project under the
// data directory.
func ProjectDir(dataDir, project string) string {
	return filepath.Join(dataDir, project)
}

// BuildDir returns the persistent directory of a single build.
func BuildDir(dataDir, project, buildID string) string {
	return filepath.Join(dataDir, project, "builds", buildID)
}
