package doxindex

import (
	"context"
	"time"
)

// Origin describes where a project's index comes from.
type Origin string

// Origin constants.
const (
	// OriginSource projects are built by scanning a source directory.
	OriginSource Origin = "source"

	// OriginXML projects are imported from a Doxygen XML index.
	OriginXML Origin = "xml"

	// OriginRemote projects are imported from a published documentation site.
	OriginRemote Origin = "remote"

	// OriginFile projects are imported from local search data files.
	OriginFile Origin = "file"
)

// Project represents a codebase whose documentation index is managed.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SourcePath string    `json:"sourcePath"`
	Origin     Origin    `json:"origin"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Validate returns an error if the project contains invalid fields.
func (p *Project) Validate() error {
	if p.Name == "" {
		return Errorf(EINVALID, "project name required")
	}
	if p.SourcePath == "" {
		return Errorf(EINVALID, "project source path required")
	}
	switch p.Origin {
	case OriginSource, OriginXML, OriginRemote, OriginFile:
	default:
		return Errorf(EINVALID, "unknown project origin %q", p.Origin)
	}
	return nil
}

// ProjectService represents a service for managing projects.
type ProjectService interface {
	// CreateProject creates a new project.
	// Returns ECONFLICT if a project with the same name exists.
	CreateProject(ctx context.Context, project *Project) error

	// FindProjectByID retrieves a project by ID.
	// Returns ENOTFOUND if project does not exist.
	FindProjectByID(ctx context.Context, id string) (*Project, error)

	// FindProjects retrieves projects matching the filter.
	FindProjects(ctx context.Context, filter ProjectFilter) ([]*Project, error)

	// UpdateProject updates an existing project.
	// Returns ENOTFOUND if project does not exist.
	UpdateProject(ctx context.Context, id string, upd ProjectUpdate) (*Project, error)

	// DeleteProject permanently removes a project with its files, symbols
	// and records.
	// Returns ENOTFOUND if project does not exist.
	DeleteProject(ctx context.Context, id string) error
}

// ProjectFilter represents a filter for FindProjects.
type ProjectFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ProjectUpdate represents fields that can be updated on a project.
type ProjectUpdate struct {
	Name       *string `json:"name"`
	SourcePath *string `json:"sourcePath"`
	Origin     *Origin `json:"origin"`
}
