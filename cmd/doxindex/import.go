package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/crawl"
	"github.com/fwojciec/doxindex/etree"
	"github.com/fwojciec/doxindex/fs"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	origin, location, err := c.classify()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return err
	}

	existing, err := c.existing(deps)
	if err != nil {
		return err
	}

	var (
		table   *doxindex.Table
		symbols []*doxindex.Symbol
		summary string
	)
	switch origin {
	case doxindex.OriginRemote:
		table, summary, err = c.importRemote(deps, location)
	case doxindex.OriginXML:
		symbols, err = readXML(location)
		if err == nil {
			table = doxindex.BuildTable(symbols)
			summary = fmt.Sprintf("%d symbols", len(symbols))
		}
	default:
		table, err = readSearchData(location)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return err
	}

	if existing != nil {
		if err := deps.Projects.DeleteProject(deps.Ctx, existing.ID); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Replacing project %q\n", c.Name)
	}

	project := &doxindex.Project{
		Name:       c.Name,
		SourcePath: location,
		Origin:     origin,
	}
	if err := deps.Projects.CreateProject(deps.Ctx, project); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return err
	}

	for _, sym := range symbols {
		sym.ProjectID = project.ID
	}
	if len(symbols) > 0 {
		if err := deps.Symbols.CreateSymbols(deps.Ctx, symbols); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
			return err
		}
	}

	if err := deps.Records.ReplaceRecords(deps.Ctx, project.ID, table); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported project %q (%s) from %s\n", c.Name, project.ID, location)
	if summary != "" {
		fmt.Fprintf(deps.Stdout, "  %d records (%s)\n", len(table.Records), summary)
	} else {
		fmt.Fprintf(deps.Stdout, "  %d records\n", len(table.Records))
	}
	return nil
}

// classify decides how to read c.Source. Local paths are made absolute.
func (c *ImportCmd) classify() (doxindex.Origin, string, error) {
	if strings.HasPrefix(c.Source, "http://") || strings.HasPrefix(c.Source, "https://") {
		return doxindex.OriginRemote, c.Source, nil
	}

	path, err := filepath.Abs(c.Source)
	if err != nil {
		return "", "", err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", "", doxindex.Errorf(doxindex.ENOTFOUND, "source not found: %s", c.Source)
	} else if err != nil {
		return "", "", err
	}

	if info.IsDir() {
		index := filepath.Join(path, "index.xml")
		if _, err := os.Stat(index); err == nil {
			return doxindex.OriginXML, index, nil
		}
		return doxindex.OriginFile, path, nil
	}

	switch {
	case strings.HasSuffix(path, ".xml"):
		return doxindex.OriginXML, path, nil
	case strings.HasSuffix(path, ".js"), strings.HasSuffix(path, ".js.gz"):
		return doxindex.OriginFile, path, nil
	}
	return "", "", doxindex.Errorf(doxindex.EINVALID, "unsupported source %s: expected a URL, directory, .js, .js.gz or .xml file", c.Source)
}

// existing returns the project named c.Name when --force allows replacing
// it. Without --force an existing project is a conflict.
func (c *ImportCmd) existing(deps *Dependencies) (*doxindex.Project, error) {
	projects, err := deps.Projects.FindProjects(deps.Ctx, doxindex.ProjectFilter{Name: &c.Name})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return nil, err
	}
	if len(projects) == 0 {
		return nil, nil
	}

	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: project %q already exists; use --force to replace it\n", c.Name)
		return nil, doxindex.Errorf(doxindex.ECONFLICT, "project %q already exists", c.Name)
	}
	return projects[0], nil
}

func (c *ImportCmd) importRemote(deps *Dependencies, baseURL string) (*doxindex.Table, string, error) {
	if deps.Importer == nil {
		return nil, "", doxindex.Errorf(doxindex.EINTERNAL, "importer not configured")
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Fetching %d search files from %s\n", event.Total, crawl.TruncateURL(baseURL, 60))
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  failed %s: %v\n", event.URL, event.Error)
		}
	}

	table, result, err := deps.Importer.Import(deps.Ctx, baseURL, progress)
	if err != nil {
		return nil, "", err
	}
	summary := fmt.Sprintf("%d files, %s", result.Fetched, crawl.FormatBytes(result.Bytes))
	return table, summary, nil
}

func readXML(path string) ([]*doxindex.Symbol, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return etree.NewReader().ReadIndex(f)
}

func readSearchData(path string) (*doxindex.Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return fs.ReadSearchDir(path)
	}
	return fs.ReadTableFile(path)
}
