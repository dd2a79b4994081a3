package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/doxindex"
)

// Compile-time interface verification.
var _ doxindex.RecordService = (*RecordService)(nil)

// RecordService implements doxindex.RecordService using SQLite. The refs of
// a record are stored as a JSON array alongside its key and name.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// ReplaceRecords atomically replaces the table of a project, keeping record
// order.
func (s *RecordService) ReplaceRecords(ctx context.Context, projectID string, table *doxindex.Table) error {
	if err := table.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM projects WHERE id = ?", projectID).Scan(&exists)
	if err == sql.ErrNoRows {
		return doxindex.Errorf(doxindex.ENOTFOUND, "project not found")
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE project_id = ?", projectID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (project_id, position, key, name, refs)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range table.Records {
		refs, err := json.Marshal(rec.Refs)
		if err != nil {
			return fmt.Errorf("encoding refs of %q: %w", rec.Key, err)
		}
		if _, err := stmt.ExecContext(ctx, projectID, i, rec.Key, rec.Name, string(refs)); err != nil {
			return fmt.Errorf("inserting record %q: %w", rec.Key, err)
		}
	}

	return tx.Commit()
}

// FindRecords retrieves records matching the filter in table order.
func (s *RecordService) FindRecords(ctx context.Context, filter doxindex.RecordFilter) ([]*doxindex.Record, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT key, name, refs FROM records WHERE 1=1")

	if filter.ProjectID != nil {
		query.WriteString(" AND project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.Key != nil {
		query.WriteString(" AND key = ?")
		args = append(args, *filter.Key)
	}
	if filter.KeyPrefix != nil {
		query.WriteString(` AND key LIKE ? ESCAPE '\'`)
		args = append(args, likePrefix(*filter.KeyPrefix))
	}

	query.WriteString(" ORDER BY project_id, position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*doxindex.Record
	for rows.Next() {
		var rec doxindex.Record
		var refs string
		if err := rows.Scan(&rec.Key, &rec.Name, &refs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(refs), &rec.Refs); err != nil {
			return nil, fmt.Errorf("decoding refs of %q: %w", rec.Key, err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// CountRecords returns the number of records stored for a project.
func (s *RecordService) CountRecords(ctx context.Context, projectID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records WHERE project_id = ?", projectID).Scan(&n)
	return n, err
}
