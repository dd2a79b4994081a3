package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/doxindex"
)

// Ensure LoggingScanner implements doxindex.Scanner.
var _ doxindex.Scanner = (*LoggingScanner)(nil)

// LoggingScanner wraps a Scanner with debug logging.
type LoggingScanner struct {
	next   doxindex.Scanner
	logger *slog.Logger
}

// NewLoggingScanner creates a new LoggingScanner.
func NewLoggingScanner(next doxindex.Scanner, logger *slog.Logger) *LoggingScanner {
	return &LoggingScanner{next: next, logger: logger}
}

// Scan delegates to the wrapped scanner and logs the operation.
func (s *LoggingScanner) Scan(ctx context.Context, path string, content []byte) (symbols []*doxindex.Symbol, err error) {
	defer func(begin time.Time) {
		s.logger.Info("scan",
			"path", path,
			"bytes", len(content),
			"symbols", len(symbols),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Scan(ctx, path, content)
}
