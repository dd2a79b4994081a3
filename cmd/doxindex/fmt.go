package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/js"
)

// Run executes the fmt command.
func (c *FmtCmd) Run(deps *Dependencies) error {
	src, err := os.ReadFile(c.File)
	if os.IsNotExist(err) {
		fmt.Fprintf(deps.Stderr, "error: file not found: %s\n", c.File)
		return doxindex.Errorf(doxindex.ENOTFOUND, "file not found: %s", c.File)
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	out, err := js.Format(src)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s: %s\n", c.File, doxindex.ErrorMessage(err))
		return err
	}

	if !c.Write {
		_, err := deps.Stdout.Write(out)
		return err
	}
	if bytes.Equal(src, out) {
		return nil
	}

	info, err := os.Stat(c.File)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.File, out, info.Mode().Perm()); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Formatted %s\n", c.File)
	return nil
}
