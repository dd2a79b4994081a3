package main

import (
	"fmt"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/bleve"
	"github.com/fwojciec/doxindex/goquery"
	"github.com/fwojciec/doxindex/memory"
	doxslog "github.com/fwojciec/doxindex/slog"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	_, table, err := loadTable(deps, c.Name)
	if err != nil {
		return err
	}

	var searcher doxindex.Searcher = memory.NewIndex(table)
	if c.Fuzzy {
		index, err := bleve.NewIndex(table)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
			return err
		}
		defer index.Close()
		searcher = index
	}
	if deps.Logger != nil {
		searcher = doxslog.NewLoggingSearcher(searcher, deps.Logger)
	}

	matches, err := searcher.Search(deps.Ctx, c.Query, doxindex.SearchOptions{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return err
	}

	if c.HTML {
		out, err := goquery.RenderResults(matches)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
			return err
		}
		fmt.Fprintln(deps.Stdout, out)
		return nil
	}

	if len(matches) == 0 {
		fmt.Fprintln(deps.Stdout, "No matches.")
		return nil
	}
	fmt.Fprintln(deps.Stdout, doxindex.FormatMatches(matches))
	return nil
}
