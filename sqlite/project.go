package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/doxindex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ doxindex.ProjectService = (*ProjectService)(nil)

// ProjectService implements doxindex.ProjectService using SQLite.
type ProjectService struct {
	db *DB
}

// NewProjectService creates a new ProjectService.
func NewProjectService(db *DB) *ProjectService {
	return &ProjectService{db: db}
}

// CreateProject creates a new project.
func (s *ProjectService) CreateProject(ctx context.Context, project *doxindex.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}
	if err := s.checkNameAvailable(ctx, project.Name, ""); err != nil {
		return err
	}

	project.ID = uuid.New().String()
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, source_path, origin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, project.ID, project.Name, project.SourcePath, string(project.Origin),
		project.CreatedAt.Format(time.RFC3339), project.UpdatedAt.Format(time.RFC3339))

	return err
}

func (s *ProjectService) checkNameAvailable(ctx context.Context, name, exceptID string) error {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM projects WHERE name = ? AND id != ?", name, exceptID,
	).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return doxindex.Errorf(doxindex.ECONFLICT, "project %q already exists", name)
	}
	return nil
}

// FindProjectByID retrieves a project by ID.
func (s *ProjectService) FindProjectByID(ctx context.Context, id string) (*doxindex.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, source_path, origin, created_at, updated_at
		FROM projects
		WHERE id = ?
	`, id)

	project, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, doxindex.Errorf(doxindex.ENOTFOUND, "project not found")
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

// FindProjects retrieves projects matching the filter, ordered by name.
func (s *ProjectService) FindProjects(ctx context.Context, filter doxindex.ProjectFilter) ([]*doxindex.Project, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, source_path, origin, created_at, updated_at FROM projects WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY name ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*doxindex.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// UpdateProject updates an existing project.
func (s *ProjectService) UpdateProject(ctx context.Context, id string, upd doxindex.ProjectUpdate) (*doxindex.Project, error) {
	project, err := s.FindProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		project.Name = *upd.Name
	}
	if upd.SourcePath != nil {
		project.SourcePath = *upd.SourcePath
	}
	if upd.Origin != nil {
		project.Origin = *upd.Origin
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkNameAvailable(ctx, project.Name, id); err != nil {
		return nil, err
	}

	project.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE projects
		SET name = ?, source_path = ?, origin = ?, updated_at = ?
		WHERE id = ?
	`, project.Name, project.SourcePath, string(project.Origin),
		project.UpdatedAt.Format(time.RFC3339), id)

	if err != nil {
		return nil, err
	}

	return project, nil
}

// DeleteProject permanently removes a project. Source files, symbols and
// records go with it.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return doxindex.Errorf(doxindex.ENOTFOUND, "project not found")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*doxindex.Project, error) {
	var project doxindex.Project
	var origin, createdAt, updatedAt string

	if err := row.Scan(&project.ID, &project.Name, &project.SourcePath, &origin,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}
	project.Origin = doxindex.Origin(origin)

	var err error
	if project.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if project.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &project, nil
}
