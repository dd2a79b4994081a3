package mock

import (
	"context"

	"github.com/fwojciec/doxindex"
)

var _ doxindex.TableStore = (*TableStore)(nil)

// TableStore is a mock implementation of doxindex.TableStore.
type TableStore struct {
	SaveFn   func(ctx context.Context, name string, table *doxindex.Table) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *TableStore) Save(ctx context.Context, name string, table *doxindex.Table) error {
	return s.SaveFn(ctx, name, table)
}

func (s *TableStore) Commit() error {
	return s.CommitFn()
}

func (s *TableStore) Abort() error {
	return s.AbortFn()
}
