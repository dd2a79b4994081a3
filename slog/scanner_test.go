package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/mock"
	doxslog "github.com/fwojciec/doxindex/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingScanner_Scan(t *testing.T) {
	t.Parallel()

	t.Run("logs scan with symbol count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Scanner{
			ScanFn: func(ctx context.Context, path string, content []byte) ([]*doxindex.Symbol, error) {
				return []*doxindex.Symbol{
					{Name: "interaction.h", Kind: doxindex.KindFile, File: path},
					{Name: "fene", Kind: doxindex.KindFunction, File: path, Args: "(Atom *a1)"},
				}, nil
			},
		}

		scanner := doxslog.NewLoggingScanner(inner, logger)
		symbols, err := scanner.Scan(context.Background(), "src/interaction.h", []byte("double fene(Atom *a1);"))

		require.NoError(t, err)
		assert.Len(t, symbols, 2)
		output := buf.String()
		assert.Contains(t, output, "msg=scan")
		assert.Contains(t, output, "path=src/interaction.h")
		assert.Contains(t, output, "bytes=22")
		assert.Contains(t, output, "symbols=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Scanner{
			ScanFn: func(ctx context.Context, path string, content []byte) ([]*doxindex.Symbol, error) {
				return nil, errors.New("unbalanced braces")
			},
		}

		scanner := doxslog.NewLoggingScanner(inner, logger)
		_, err := scanner.Scan(context.Background(), "broken.cpp", nil)

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "symbols=0")
		assert.Contains(t, output, "err=\"unbalanced braces\"")
	})
}
