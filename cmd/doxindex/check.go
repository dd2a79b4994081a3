package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/fs"
	"github.com/fwojciec/doxindex/js"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	var failed int
	for _, path := range c.Files {
		msg, err := c.check(path)
		switch {
		case err != nil:
			failed++
			fmt.Fprintf(deps.Stdout, "FAIL  %s: %s\n", path, doxindex.ErrorMessage(err))
		case msg != "" && c.Strict:
			failed++
			fmt.Fprintf(deps.Stdout, "FAIL  %s: %s\n", path, msg)
		case msg != "":
			fmt.Fprintf(deps.Stdout, "WARN  %s: %s\n", path, msg)
		default:
			fmt.Fprintf(deps.Stdout, "ok    %s\n", path)
		}
	}

	if failed > 0 {
		fmt.Fprintf(deps.Stderr, "error: %d of %d files failed\n", failed, len(c.Files))
		return doxindex.Errorf(doxindex.EINVALID, "%d of %d files failed", failed, len(c.Files))
	}
	return nil
}

// check validates the file at path. A valid file that would be written
// differently is reported through the returned message.
func (c *CheckCmd) check(path string) (string, error) {
	table, err := fs.ReadTableFile(path)
	if err != nil {
		return "", err
	}
	if err := table.Validate(); err != nil {
		return "", err
	}

	if strings.HasSuffix(path, ".gz") {
		return "", nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !bytes.Equal(src, js.Marshal(table)) {
		return fmt.Sprintf("not in canonical form (%d records); run 'doxindex fmt -w %s'", len(table.Records), path), nil
	}
	return "", nil
}
