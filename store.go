package doxindex

import "context"

// TableStore persists split search files with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type TableStore interface {
	Save(ctx context.Context, name string, table *Table) error
	Commit() error
	Abort() error
}
