package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/crawl"
	"github.com/fwojciec/doxindex/mcp"
	"github.com/fwojciec/doxindex/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	DB          *sqlite.DB
	Projects    doxindex.ProjectService
	SourceFiles doxindex.SourceFileService
	Symbols     doxindex.SymbolService
	Records     doxindex.RecordService
	Tree        doxindex.SourceTree
	Scanner     doxindex.Scanner
	Importer    *crawl.Importer
	Extractor   doxindex.Extractor
	Converter   doxindex.Converter

	// NewStore opens a table store writing to baseDir/name.
	NewStore func(baseDir, name string, gzip bool) doxindex.TableStore

	// Serve runs an MCP server. Defaults to serving on stdio.
	Serve func(ctx context.Context, srv *mcp.Server) error
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log operations to stderr"`

	Build  BuildCmd  `cmd:"" help:"Scan a C/C++ source directory into a project"`
	Import ImportCmd `cmd:"" help:"Import search data from a URL, search directory, .js file or Doxygen index.xml"`
	List   ListCmd   `cmd:"" help:"List all registered projects"`
	Delete DeleteCmd `cmd:"" help:"Delete a project and its search data"`
	Search SearchCmd `cmd:"" help:"Search a project's symbols"`
	Show   ShowCmd   `cmd:"" help:"Show where a symbol is documented"`
	Emit   EmitCmd   `cmd:"" help:"Write a project's search files to a directory"`
	Check  CheckCmd  `cmd:"" help:"Validate search data files"`
	Fmt    FmtCmd    `cmd:"" help:"Rewrite a search data file in canonical form"`
	Serve  ServeCmd  `cmd:"" help:"Serve a project's symbols to MCP clients on stdio"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Name        string `arg:"" help:"Project name"`
	Dir         string `arg:"" help:"Source directory"`
	Concurrency int    `short:"c" default:"8" help:"Concurrent scan limit"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	Name        string `arg:"" help:"Project name"`
	Source      string `arg:"" help:"Documentation URL, search directory, search .js file or Doxygen xml/index.xml"`
	Force       bool   `short:"f" help:"Replace an existing project"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent fetch limit"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Name  string `arg:"" help:"Project name"`
	Force bool   `help:"Confirm deletion"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Name  string `arg:"" help:"Project name"`
	Query string `arg:"" help:"Symbol name or prefix"`
	Fuzzy bool   `help:"Use full-text fuzzy matching"`
	Limit int    `short:"n" default:"20" help:"Maximum number of results"`
	HTML  bool   `name:"html" help:"Print results as search page HTML"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Name  string `arg:"" help:"Project name"`
	Query string `arg:"" help:"Exact symbol name"`
	Docs  string `help:"Generated HTML directory to read documentation from"`
}

// EmitCmd is the "emit" subcommand.
type EmitCmd struct {
	Name string `arg:"" help:"Project name"`
	Dir  string `arg:"" help:"Output HTML directory; files are written to its search subdirectory"`
	Gzip bool   `help:"Also write gzip-compressed copies"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	Files  []string `arg:"" help:"Search data files"`
	Strict bool     `help:"Fail files that are valid but not in canonical form"`
}

// FmtCmd is the "fmt" subcommand.
type FmtCmd struct {
	File  string `arg:"" help:"Search data file"`
	Write bool   `short:"w" help:"Write result to the file instead of stdout"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Name string `arg:"" help:"Project name"`
}
