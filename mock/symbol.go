package mock

import (
	"context"

	"github.com/fwojciec/doxindex"
)

var _ doxindex.SymbolService = (*SymbolService)(nil)

// SymbolService is a mock implementation of doxindex.SymbolService.
type SymbolService struct {
	CreateSymbolsFn             func(ctx context.Context, symbols []*doxindex.Symbol) error
	FindSymbolsFn               func(ctx context.Context, filter doxindex.SymbolFilter) ([]*doxindex.Symbol, error)
	DeleteSymbolsBySourceFileFn func(ctx context.Context, sourceFileID string) error
	DeleteSymbolsByProjectFn    func(ctx context.Context, projectID string) error
}

func (s *SymbolService) CreateSymbols(ctx context.Context, symbols []*doxindex.Symbol) error {
	return s.CreateSymbolsFn(ctx, symbols)
}

func (s *SymbolService) FindSymbols(ctx context.Context, filter doxindex.SymbolFilter) ([]*doxindex.Symbol, error) {
	return s.FindSymbolsFn(ctx, filter)
}

func (s *SymbolService) DeleteSymbolsBySourceFile(ctx context.Context, sourceFileID string) error {
	return s.DeleteSymbolsBySourceFileFn(ctx, sourceFileID)
}

func (s *SymbolService) DeleteSymbolsByProject(ctx context.Context, projectID string) error {
	return s.DeleteSymbolsByProjectFn(ctx, projectID)
}

var _ doxindex.Scanner = (*Scanner)(nil)

// Scanner is a mock implementation of doxindex.Scanner.
type Scanner struct {
	ScanFn func(ctx context.Context, path string, content []byte) ([]*doxindex.Symbol, error)
}

func (s *Scanner) Scan(ctx context.Context, path string, content []byte) ([]*doxindex.Symbol, error) {
	return s.ScanFn(ctx, path, content)
}
