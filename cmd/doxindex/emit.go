package main

import (
	"fmt"
	"slices"

	"github.com/fwojciec/doxindex"
)

// categories are the split file families written next to the "all" files.
var categories = []string{
	doxindex.CategoryClasses,
	doxindex.CategoryFiles,
	doxindex.CategoryFunctions,
	doxindex.CategoryVariables,
	doxindex.CategoryPages,
}

// Run executes the emit command.
func (c *EmitCmd) Run(deps *Dependencies) error {
	project, table, err := loadTable(deps, c.Name)
	if err != nil {
		return err
	}
	if len(table.Records) == 0 {
		fmt.Fprintf(deps.Stderr, "error: project %q has no records\n", c.Name)
		return doxindex.Errorf(doxindex.ENOTFOUND, "project %q has no records", c.Name)
	}

	files := table.Split(doxindex.CategoryAll)

	// Category files need symbol kinds, which only built and XML projects
	// keep.
	symbols, err := deps.Symbols.FindSymbols(deps.Ctx, doxindex.SymbolFilter{ProjectID: &project.ID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return err
	}
	if len(symbols) > 0 {
		for _, category := range categories {
			for name, part := range doxindex.BuildCategoryTable(symbols, category).Split(category) {
				files[name] = part
			}
		}
	}

	store := deps.NewStore(c.Dir, "search", c.Gzip)
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if err := store.Save(deps.Ctx, name, files[name]); err != nil {
			_ = store.Abort()
			fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
			return err
		}
	}
	if err := store.Commit(); err != nil {
		_ = store.Abort()
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %d search files for %q to %s\n", len(names), c.Name, c.Dir)
	return nil
}
