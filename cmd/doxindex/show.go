package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/doxindex"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	project, err := findProject(deps, c.Name)
	if err != nil {
		return err
	}

	key := doxindex.QueryKey(c.Query)
	records, err := deps.Records.FindRecords(deps.Ctx, doxindex.RecordFilter{ProjectID: &project.ID, Key: &key})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doxindex.ErrorMessage(err))
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(deps.Stderr, "error: symbol %q not found. Use 'doxindex search %s %s' to find similar names.\n", c.Query, c.Name, c.Query)
		return doxindex.Errorf(doxindex.ENOTFOUND, "symbol %q not found", c.Query)
	}
	rec := records[0]

	fmt.Fprintln(deps.Stdout, doxindex.FormatMatches([]*doxindex.Match{{Record: rec, Score: 1}}))
	if c.Docs == "" {
		return nil
	}

	for _, ref := range rec.Refs {
		doc, err := c.documentation(deps, ref)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "warning: %s: %s\n", ref.Href, doxindex.ErrorMessage(err))
			continue
		}
		fmt.Fprintf(deps.Stdout, "\n---\n\n%s\n", doc)
	}
	return nil
}

// documentation renders the documentation block ref points at as Markdown.
func (c *ShowCmd) documentation(deps *Dependencies, ref doxindex.Ref) (string, error) {
	page := strings.TrimPrefix(ref.Page(), "../")
	path := filepath.Join(c.Docs, filepath.FromSlash(page))

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", doxindex.Errorf(doxindex.ENOTFOUND, "page not found: %s", path)
	} else if err != nil {
		return "", err
	}

	result, err := deps.Extractor.Extract(string(content), ref.Anchor())
	if err != nil {
		return "", err
	}

	markdown, err := deps.Converter.Convert(result.ContentHTML)
	if err != nil {
		return "", err
	}
	if result.Title == "" {
		return markdown, nil
	}
	return "## " + result.Title + "\n\n" + markdown, nil
}
