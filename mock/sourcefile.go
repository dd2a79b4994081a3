package mock

import (
	"context"

	"github.com/fwojciec/doxindex"
)

var _ doxindex.SourceFileService = (*SourceFileService)(nil)

// SourceFileService is a mock implementation of doxindex.SourceFileService.
type SourceFileService struct {
	CreateSourceFileFn func(ctx context.Context, file *doxindex.SourceFile, content []byte) error
	FindSourceFilesFn  func(ctx context.Context, filter doxindex.SourceFileFilter) ([]*doxindex.SourceFile, error)
	UpdateSourceFileFn func(ctx context.Context, id string, upd doxindex.SourceFileUpdate) (*doxindex.SourceFile, error)
	DeleteSourceFileFn func(ctx context.Context, id string) error
}

func (s *SourceFileService) CreateSourceFile(ctx context.Context, file *doxindex.SourceFile, content []byte) error {
	return s.CreateSourceFileFn(ctx, file, content)
}

func (s *SourceFileService) FindSourceFiles(ctx context.Context, filter doxindex.SourceFileFilter) ([]*doxindex.SourceFile, error) {
	return s.FindSourceFilesFn(ctx, filter)
}

func (s *SourceFileService) UpdateSourceFile(ctx context.Context, id string, upd doxindex.SourceFileUpdate) (*doxindex.SourceFile, error) {
	return s.UpdateSourceFileFn(ctx, id, upd)
}

func (s *SourceFileService) DeleteSourceFile(ctx context.Context, id string) error {
	return s.DeleteSourceFileFn(ctx, id)
}

var _ doxindex.SourceTree = (*SourceTree)(nil)

// SourceTree is a mock implementation of doxindex.SourceTree.
type SourceTree struct {
	WalkFn func(ctx context.Context, root string) ([]*doxindex.SourceEntry, error)
}

func (t *SourceTree) Walk(ctx context.Context, root string) ([]*doxindex.SourceEntry, error) {
	return t.WalkFn(ctx, root)
}
