package doxindex

import (
	"context"
	"time"
)

// SourceFile is a file of a project's source tree that has been scanned.
type SourceFile struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	Path        string    `json:"path"`
	ContentHash string    `json:"contentHash"`
	Position    int       `json:"position"`
	ScannedAt   time.Time `json:"scannedAt"`
}

// Validate returns an error if the source file contains invalid fields.
func (f *SourceFile) Validate() error {
	if f.ProjectID == "" {
		return Errorf(EINVALID, "source file project ID required")
	}
	if f.Path == "" {
		return Errorf(EINVALID, "source file path required")
	}
	return nil
}

// SourceFileService represents a service for tracking scanned files.
type SourceFileService interface {
	// CreateSourceFile records a scanned file. ContentHash is computed from
	// content when empty.
	CreateSourceFile(ctx context.Context, file *SourceFile, content []byte) error

	// FindSourceFiles retrieves files matching the filter, ordered by path.
	FindSourceFiles(ctx context.Context, filter SourceFileFilter) ([]*SourceFile, error)

	// UpdateSourceFile updates the hash and position of a file.
	// Returns ENOTFOUND if the file does not exist.
	UpdateSourceFile(ctx context.Context, id string, upd SourceFileUpdate) (*SourceFile, error)

	// DeleteSourceFile removes a file and its symbols.
	// Returns ENOTFOUND if the file does not exist.
	DeleteSourceFile(ctx context.Context, id string) error
}

// SourceFileFilter represents a filter for FindSourceFiles.
type SourceFileFilter struct {
	ProjectID *string `json:"projectId"`
	Path      *string `json:"path"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SourceFileUpdate represents fields that can be updated on a source file.
type SourceFileUpdate struct {
	ContentHash *string `json:"contentHash"`
	Position    *int    `json:"position"`
}

// SourceEntry is a file read from a source tree.
type SourceEntry struct {
	Path    string
	Content []byte
}

// SourceTree lists the files of a project source directory.
type SourceTree interface {
	Walk(ctx context.Context, root string) ([]*SourceEntry, error)
}
