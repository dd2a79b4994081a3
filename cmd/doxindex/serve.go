package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/bleve"
	"github.com/fwojciec/doxindex/mcp"
	"github.com/fwojciec/doxindex/memory"
	doxslog "github.com/fwojciec/doxindex/slog"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	project, table, err := loadTable(deps, c.Name)
	if err != nil {
		return err
	}

	prefix := memory.NewIndex(table)
	fuzzy, err := bleve.NewIndex(table)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return err
	}
	defer fuzzy.Close()

	srv := &mcp.Server{
		Project:  project.Name,
		Version:  Version,
		Searcher: prefix,
		Fuzzy:    fuzzy,
		Records:  prefix,
	}
	if deps.Logger != nil {
		srv.Searcher = doxslog.NewLoggingSearcher(prefix, deps.Logger)
		srv.Fuzzy = doxslog.NewLoggingSearcher(fuzzy, deps.Logger)
	}

	serve := deps.Serve
	if serve == nil {
		serve = func(ctx context.Context, srv *mcp.Server) error {
			return srv.Run(ctx)
		}
	}

	// stdout carries the protocol, so status goes to stderr.
	fmt.Fprintf(deps.Stderr, "Serving %q (%d records) on stdio\n", project.Name, len(table.Records))
	if err := serve(deps.Ctx, srv); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return err
	}
	return nil
}
