package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableStore_Save(t *testing.T) {
	t.Parallel()

	t.Run("delegates to SaveFn", func(t *testing.T) {
		t.Parallel()

		var gotName string
		var gotTable *doxindex.Table
		s := &mock.TableStore{
			SaveFn: func(_ context.Context, name string, table *doxindex.Table) error {
				gotName = name
				gotTable = table
				return nil
			},
		}

		table := &doxindex.Table{}
		err := s.Save(context.Background(), "all_66.js", table)

		require.NoError(t, err)
		assert.Equal(t, "all_66.js", gotName)
		assert.Same(t, table, gotTable)
	})
}
