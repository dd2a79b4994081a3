package mock

import (
	"context"

	"github.com/fwojciec/doxindex"
)

var _ doxindex.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of doxindex.RecordService.
type RecordService struct {
	ReplaceRecordsFn func(ctx context.Context, projectID string, table *doxindex.Table) error
	FindRecordsFn    func(ctx context.Context, filter doxindex.RecordFilter) ([]*doxindex.Record, error)
	CountRecordsFn   func(ctx context.Context, projectID string) (int, error)
}

func (s *RecordService) ReplaceRecords(ctx context.Context, projectID string, table *doxindex.Table) error {
	return s.ReplaceRecordsFn(ctx, projectID, table)
}

func (s *RecordService) FindRecords(ctx context.Context, filter doxindex.RecordFilter) ([]*doxindex.Record, error) {
	return s.FindRecordsFn(ctx, filter)
}

func (s *RecordService) CountRecords(ctx context.Context, projectID string) (int, error) {
	return s.CountRecordsFn(ctx, projectID)
}
