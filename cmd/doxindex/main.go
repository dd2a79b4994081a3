package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/cpp"
	"github.com/fwojciec/doxindex/crawl"
	"github.com/fwojciec/doxindex/fs"
	"github.com/fwojciec/doxindex/goquery"
	"github.com/fwojciec/doxindex/htmltomarkdown"
	doxhttp "github.com/fwojciec/doxindex/http"
	doxslog "github.com/fwojciec/doxindex/slog"
	"github.com/fwojciec/doxindex/sqlite"
)

// Version is reported by the MCP server.
var Version = "dev"

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ProjectService doxindex.ProjectService
	RecordService  doxindex.RecordService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("doxindex"),
		kong.Description("Build, import, search and serve documentation search indexes"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'doxindex --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd = kongCtx.Command()

	if cli.Verbose {
		deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	// File commands work without a database.
	if !needsDB(cmd) {
		return kongCtx.Run(deps)
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOXINDEX_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.ProjectService = sqlite.NewProjectService(m.DB)
	m.RecordService = sqlite.NewRecordService(m.DB)
	deps.DB = m.DB
	deps.Projects = m.ProjectService
	deps.Records = m.RecordService
	deps.SourceFiles = sqlite.NewSourceFileService(m.DB)
	deps.Symbols = sqlite.NewSymbolService(m.DB)

	// Wire command-specific dependencies based on command
	switch {
	case hasPrefix(cmd, "build"):
		var scanner doxindex.Scanner = cpp.NewScanner()
		if deps.Logger != nil {
			scanner = doxslog.NewLoggingScanner(scanner, deps.Logger)
		}
		deps.Tree = fs.NewSourceTree(cpp.Supports)
		deps.Scanner = scanner

	case hasPrefix(cmd, "import"):
		var fetcher doxindex.Fetcher = doxhttp.NewFetcher()
		if deps.Logger != nil {
			fetcher = doxslog.NewLoggingFetcher(fetcher, deps.Logger)
		}
		defer fetcher.Close()

		deps.Importer = &crawl.Importer{
			Fetcher:     fetcher,
			RateLimiter: crawl.NewDomainLimiter(crawl.DefaultRate),
			Concurrency: cli.Import.Concurrency,
		}
		if deps.Logger != nil {
			logger := deps.Logger
			deps.Importer.Logger = func(format string, args ...any) {
				logger.Debug(fmt.Sprintf(format, args...))
			}
		}

	case hasPrefix(cmd, "show"):
		deps.Extractor = goquery.NewExtractor()
		deps.Converter = htmltomarkdown.NewConverter()

	case hasPrefix(cmd, "emit"):
		deps.NewStore = func(baseDir, name string, gzip bool) doxindex.TableStore {
			if gzip {
				return fs.NewTableStore(baseDir, name, fs.WithGzip())
			}
			return fs.NewTableStore(baseDir, name)
		}
	}

	return kongCtx.Run(deps)
}

func needsDB(cmd string) bool {
	return !hasPrefix(cmd, "check") && !hasPrefix(cmd, "fmt")
}

// hasPrefix reports whether the kong command path starts with name.
func hasPrefix(cmd, name string) bool {
	return cmd == name || strings.HasPrefix(cmd, name+" ")
}

func defaultDBPath() string {
	if path := os.Getenv("DOXINDEX_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "doxindex.db"
	}
	dir := filepath.Join(home, ".doxindex")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "doxindex.db")
}
