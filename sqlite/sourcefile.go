package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/scan"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ doxindex.SourceFileService = (*SourceFileService)(nil)

// SourceFileService implements doxindex.SourceFileService using SQLite.
type SourceFileService struct {
	db *DB
}

// NewSourceFileService creates a new SourceFileService.
func NewSourceFileService(db *DB) *SourceFileService {
	return &SourceFileService{db: db}
}

// CreateSourceFile records a scanned file. The content hash is computed from
// content unless the caller already set one.
func (s *SourceFileService) CreateSourceFile(ctx context.Context, file *doxindex.SourceFile, content []byte) error {
	if err := file.Validate(); err != nil {
		return err
	}

	file.ID = uuid.New().String()
	file.ScannedAt = time.Now().UTC()
	if file.ContentHash == "" {
		file.ContentHash = scan.HashContent(content)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO source_files (id, project_id, path, content_hash, position, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, file.ID, file.ProjectID, file.Path, file.ContentHash, file.Position,
		file.ScannedAt.Format(time.RFC3339))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return doxindex.Errorf(doxindex.ECONFLICT, "source file %q already recorded", file.Path)
	}

	return err
}

// FindSourceFiles retrieves files matching the filter, ordered by path.
func (s *SourceFileService) FindSourceFiles(ctx context.Context, filter doxindex.SourceFileFilter) ([]*doxindex.SourceFile, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, project_id, path, content_hash, position, scanned_at FROM source_files WHERE 1=1")

	if filter.ProjectID != nil {
		query.WriteString(" AND project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.Path != nil {
		query.WriteString(" AND path = ?")
		args = append(args, *filter.Path)
	}

	query.WriteString(" ORDER BY path ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*doxindex.SourceFile
	for rows.Next() {
		file, err := scanSourceFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, rows.Err()
}

func (s *SourceFileService) findSourceFileByID(ctx context.Context, id string) (*doxindex.SourceFile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, path, content_hash, position, scanned_at
		FROM source_files
		WHERE id = ?
	`, id)

	file, err := scanSourceFile(row)
	if err == sql.ErrNoRows {
		return nil, doxindex.Errorf(doxindex.ENOTFOUND, "source file not found")
	}
	return file, err
}

// UpdateSourceFile updates the hash and position of a file and marks it as
// scanned now.
func (s *SourceFileService) UpdateSourceFile(ctx context.Context, id string, upd doxindex.SourceFileUpdate) (*doxindex.SourceFile, error) {
	file, err := s.findSourceFileByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.ContentHash != nil {
		file.ContentHash = *upd.ContentHash
	}
	if upd.Position != nil {
		file.Position = *upd.Position
	}
	file.ScannedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE source_files
		SET content_hash = ?, position = ?, scanned_at = ?
		WHERE id = ?
	`, file.ContentHash, file.Position, file.ScannedAt.Format(time.RFC3339), id)
	if err != nil {
		return nil, err
	}

	return file, nil
}

// DeleteSourceFile removes a file and its symbols.
func (s *SourceFileService) DeleteSourceFile(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM source_files WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return doxindex.Errorf(doxindex.ENOTFOUND, "source file not found")
	}

	return nil
}

func scanSourceFile(row rowScanner) (*doxindex.SourceFile, error) {
	var file doxindex.SourceFile
	var scannedAt string

	if err := row.Scan(&file.ID, &file.ProjectID, &file.Path, &file.ContentHash,
		&file.Position, &scannedAt); err != nil {
		return nil, err
	}

	var err error
	if file.ScannedAt, err = parseRFC3339(scannedAt, "scanned_at"); err != nil {
		return nil, err
	}
	return &file, nil
}
