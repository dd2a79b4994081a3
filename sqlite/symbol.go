package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fwojciec/doxindex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ doxindex.SymbolService = (*SymbolService)(nil)

// SymbolService implements doxindex.SymbolService using SQLite.
type SymbolService struct {
	db *DB
}

// NewSymbolService creates a new SymbolService.
func NewSymbolService(db *DB) *SymbolService {
	return &SymbolService{db: db}
}

// CreateSymbols stores symbols in a single transaction, assigning IDs.
func (s *SymbolService) CreateSymbols(ctx context.Context, symbols []*doxindex.Symbol) error {
	for _, sym := range symbols {
		if err := sym.Validate(); err != nil {
			return err
		}
		if sym.ProjectID == "" {
			return doxindex.Errorf(doxindex.EINVALID, "symbol %q: project ID required", sym.Name)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO symbols (id, project_id, source_file_id, name, kind, parent, parent_kind, args, file, line, definition, href)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sym := range symbols {
		sym.ID = uuid.New().String()
		var sourceFileID sql.NullString
		if sym.SourceFileID != "" {
			sourceFileID = sql.NullString{String: sym.SourceFileID, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, sym.ID, sym.ProjectID, sourceFileID, sym.Name,
			string(sym.Kind), sym.Parent, string(sym.ParentKind), sym.Args, sym.File,
			sym.Line, sym.Definition, sym.Href); err != nil {
			return fmt.Errorf("inserting symbol %q: %w", sym.Name, err)
		}
	}

	return tx.Commit()
}

// FindSymbols retrieves symbols matching the filter, ordered by file and
// line.
func (s *SymbolService) FindSymbols(ctx context.Context, filter doxindex.SymbolFilter) ([]*doxindex.Symbol, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, project_id, COALESCE(source_file_id, ''), name, kind, parent, parent_kind,
		args, file, line, definition, href FROM symbols WHERE 1=1`)

	if filter.ProjectID != nil {
		query.WriteString(" AND project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.SourceFileID != nil {
		query.WriteString(" AND source_file_id = ?")
		args = append(args, *filter.SourceFileID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}
	if filter.Kind != nil {
		query.WriteString(" AND kind = ?")
		args = append(args, string(*filter.Kind))
	}

	query.WriteString(" ORDER BY file ASC, line ASC, rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []*doxindex.Symbol
	for rows.Next() {
		var sym doxindex.Symbol
		var kind, parentKind string
		if err := rows.Scan(&sym.ID, &sym.ProjectID, &sym.SourceFileID, &sym.Name, &kind,
			&sym.Parent, &parentKind, &sym.Args, &sym.File, &sym.Line, &sym.Definition,
			&sym.Href); err != nil {
			return nil, err
		}
		sym.Kind = doxindex.SymbolKind(kind)
		sym.ParentKind = doxindex.SymbolKind(parentKind)
		symbols = append(symbols, &sym)
	}

	return symbols, rows.Err()
}

// DeleteSymbolsBySourceFile removes all symbols found in a source file.
func (s *SymbolService) DeleteSymbolsBySourceFile(ctx context.Context, sourceFileID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM symbols WHERE source_file_id = ?", sourceFileID)
	return err
}

// DeleteSymbolsByProject removes all symbols of a project.
func (s *SymbolService) DeleteSymbolsByProject(ctx context.Context, projectID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM symbols WHERE project_id = ?", projectID)
	return err
}
