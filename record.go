package doxindex

import "context"

// RecordService persists the search table of each project.
type RecordService interface {
	// ReplaceRecords atomically replaces the table of a project.
	ReplaceRecords(ctx context.Context, projectID string, table *Table) error

	// FindRecords retrieves records matching the filter in table order.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)

	// CountRecords returns the number of records stored for a project.
	CountRecords(ctx context.Context, projectID string) (int, error)
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	ProjectID *string `json:"projectId"`
	Key       *string `json:"key"`

	// KeyPrefix matches records whose key starts with the prefix. This is
	// how a documentation site's search box finds results as you type.
	KeyPrefix *string `json:"keyPrefix"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// LoadTable reads the full table of a project.
func LoadTable(ctx context.Context, records RecordService, projectID string) (*Table, error) {
	recs, err := records.FindRecords(ctx, RecordFilter{ProjectID: &projectID})
	if err != nil {
		return nil, err
	}
	return &Table{Records: recs}, nil
}
