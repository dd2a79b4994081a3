package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/scan"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	dir, err := filepath.Abs(c.Dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	project, err := c.project(deps, dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return err
	}

	indexer := &scan.Indexer{
		Tree:        deps.Tree,
		Scanner:     deps.Scanner,
		SourceFiles: deps.SourceFiles,
		Symbols:     deps.Symbols,
		Records:     deps.Records,
		Concurrency: c.Concurrency,
	}

	progress := func(event scan.ProgressEvent) {
		switch event.Type {
		case scan.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d files\n", event.Total)
		case scan.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.Path, event.Error)
		}
	}

	result, err := indexer.IndexProject(deps.Ctx, project, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Scanned %d files (%d unchanged, %d removed, %d failed)\n",
		result.Scanned, result.Skipped, result.Removed, result.Failed)
	fmt.Fprintf(deps.Stdout, "  Indexed %d symbols into %d records\n", result.Symbols, result.Records)
	return nil
}

// project returns the source project named c.Name, creating it on first
// build and following the directory when it moved.
func (c *BuildCmd) project(deps *Dependencies, dir string) (*doxindex.Project, error) {
	projects, err := deps.Projects.FindProjects(deps.Ctx, doxindex.ProjectFilter{Name: &c.Name})
	if err != nil {
		return nil, err
	}

	if len(projects) == 0 {
		project := &doxindex.Project{
			Name:       c.Name,
			SourcePath: dir,
			Origin:     doxindex.OriginSource,
		}
		if err := deps.Projects.CreateProject(deps.Ctx, project); err != nil {
			return nil, err
		}
		fmt.Fprintf(deps.Stdout, "Added project %q (%s)\n", c.Name, project.ID)
		return project, nil
	}

	project := projects[0]
	if project.Origin != doxindex.OriginSource {
		return nil, doxindex.Errorf(doxindex.ECONFLICT, "project %q was imported from %s; delete it before building from source", c.Name, project.SourcePath)
	}
	if project.SourcePath != dir {
		return deps.Projects.UpdateProject(deps.Ctx, project.ID, doxindex.ProjectUpdate{SourcePath: &dir})
	}
	return project, nil
}
