package main

import (
	"fmt"

	"github.com/fwojciec/doxindex"
)

// findProject looks up a project by name, reporting failures on stderr.
func findProject(deps *Dependencies, name string) (*doxindex.Project, error) {
	projects, err := deps.Projects.FindProjects(deps.Ctx, doxindex.ProjectFilter{Name: &name})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return nil, err
	}

	if len(projects) == 0 {
		fmt.Fprintf(deps.Stderr, "error: project %q not found. Use 'doxindex list' to see available projects.\n", name)
		return nil, doxindex.Errorf(doxindex.ENOTFOUND, "project %q not found", name)
	}

	return projects[0], nil
}

// loadTable loads the stored search table of a project, reporting failures
// on stderr.
func loadTable(deps *Dependencies, name string) (*doxindex.Project, *doxindex.Table, error) {
	project, err := findProject(deps, name)
	if err != nil {
		return nil, nil, err
	}

	table, err := doxindex.LoadTable(deps.Ctx, deps.Records, project.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return nil, nil, err
	}

	return project, table, nil
}

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	projects, err := deps.Projects.FindProjects(deps.Ctx, doxindex.ProjectFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return err
	}

	if len(projects) == 0 {
		fmt.Fprintln(deps.Stdout, "No projects found. Use 'doxindex build' or 'doxindex import' to create one.")
		return nil
	}

	for _, p := range projects {
		n, err := deps.Records.CountRecords(deps.Ctx, p.ID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  %d records\n", p.ID, p.Name, p.Origin, p.SourcePath, n)
	}

	return nil
}

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return doxindex.Errorf(doxindex.EINVALID, "use --force to confirm deletion")
	}

	project, err := findProject(deps, c.Name)
	if err != nil {
		return err
	}

	if err := deps.Projects.DeleteProject(deps.Ctx, project.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted project %q\n", project.Name)
	return nil
}
