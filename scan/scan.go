// Package scan keeps a project's symbols and search table in step with its
// source tree. Files whose content is unchanged since the last run are not
// scanned again.
package scan

import (
	"context"
	"cmp"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/doxindex"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of files scanned in parallel.
const DefaultConcurrency = 8

// Indexer scans a project's source tree and stores what it finds.
type Indexer struct {
	Tree        doxindex.SourceTree
	Scanner     doxindex.Scanner
	SourceFiles doxindex.SourceFileService
	Symbols     doxindex.SymbolService
	Records     doxindex.RecordService
	Concurrency int
}

// Result holds the outcome of an indexing run.
type Result struct {
	Scanned int
	Skipped int
	Failed  int
	Removed int
	Symbols int
	Records int
}

// ProgressEvent reports progress during an indexing run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Path      string
	Symbols   int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressScanned
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting indexing progress.
type ProgressFunc func(event ProgressEvent)

// scanResult holds the outcome of scanning a single file.
type scanResult struct {
	position int
	entry    *doxindex.SourceEntry
	hash     string
	symbols  []*doxindex.Symbol
	err      error
}

// HashContent returns the hex xxHash of content, the form stored in
// SourceFile.ContentHash.
func HashContent(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}

// IndexProject brings the stored symbols and search table of project up to
// date with the files under project.SourcePath. The progress callback, if
// provided, receives events as files are processed.
func (ix *Indexer) IndexProject(ctx context.Context, project *doxindex.Project, progress ProgressFunc) (*Result, error) {
	entries, err := ix.Tree.Walk(ctx, project.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("walking source tree: %w", err)
	}

	files, err := ix.SourceFiles.FindSourceFiles(ctx, doxindex.SourceFileFilter{ProjectID: &project.ID})
	if err != nil {
		return nil, fmt.Errorf("loading source files: %w", err)
	}
	known := make(map[string]*doxindex.SourceFile, len(files))
	for _, f := range files {
		known[f.Path] = f
	}

	total := len(entries)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	var result Result
	var completed atomic.Int64
	var pending []scanResult
	seen := make(map[string]bool, len(entries))

	for i, entry := range entries {
		seen[entry.Path] = true
		hash := HashContent(entry.Content)
		if f, ok := known[entry.Path]; ok && f.ContentHash == hash {
			result.Skipped++
			completed.Add(1)
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressSkipped,
					Completed: int(completed.Load()),
					Total:     total,
					Path:      entry.Path,
				})
			}
			continue
		}
		pending = append(pending, scanResult{position: i, entry: entry, hash: hash})
	}

	concurrency := ix.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan scanResult, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, p := range pending {
			g.Go(func() error {
				p.symbols, p.err = ix.Scanner.Scan(gctx, p.entry.Path, p.entry.Content)
				resultCh <- p
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]scanResult, 0, len(pending))
	for r := range resultCh {
		n := int(completed.Add(1))
		if r.err != nil {
			result.Failed++
			if progress != nil {
				progress(ProgressEvent{Type: ProgressFailed, Completed: n, Total: total, Path: r.entry.Path, Error: r.err})
			}
			continue
		}
		if progress != nil {
			progress(ProgressEvent{Type: ProgressScanned, Completed: n, Total: total, Path: r.entry.Path, Symbols: len(r.symbols)})
		}
		results = append(results, r)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b scanResult) int { return cmp.Compare(a.position, b.position) })
	for _, r := range results {
		if err := ix.store(ctx, project, known[r.entry.Path], r); err != nil {
			return nil, fmt.Errorf("storing %s: %w", r.entry.Path, err)
		}
		result.Scanned++
	}

	for path, f := range known {
		if seen[path] {
			continue
		}
		if err := ix.SourceFiles.DeleteSourceFile(ctx, f.ID); err != nil {
			return nil, fmt.Errorf("removing %s: %w", path, err)
		}
		result.Removed++
	}

	symbols, err := ix.Symbols.FindSymbols(ctx, doxindex.SymbolFilter{ProjectID: &project.ID})
	if err != nil {
		return nil, fmt.Errorf("loading symbols: %w", err)
	}
	table := doxindex.BuildTable(symbols)
	if err := ix.Records.ReplaceRecords(ctx, project.ID, table); err != nil {
		return nil, fmt.Errorf("storing search table: %w", err)
	}
	result.Symbols = len(symbols)
	result.Records = len(table.Records)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return &result, nil
}

// store records a freshly scanned file and replaces its symbols.
func (ix *Indexer) store(ctx context.Context, project *doxindex.Project, existing *doxindex.SourceFile, r scanResult) error {
	var fileID string
	if existing != nil {
		if err := ix.Symbols.DeleteSymbolsBySourceFile(ctx, existing.ID); err != nil {
			return err
		}
		if _, err := ix.SourceFiles.UpdateSourceFile(ctx, existing.ID, doxindex.SourceFileUpdate{
			ContentHash: &r.hash,
			Position:    &r.position,
		}); err != nil {
			return err
		}
		fileID = existing.ID
	} else {
		file := &doxindex.SourceFile{
			ProjectID:   project.ID,
			Path:        r.entry.Path,
			ContentHash: r.hash,
			Position:    r.position,
		}
		if err := ix.SourceFiles.CreateSourceFile(ctx, file, r.entry.Content); err != nil {
			return err
		}
		fileID = file.ID
	}

	if len(r.symbols) == 0 {
		return nil
	}
	for _, sym := range r.symbols {
		sym.ProjectID = project.ID
		sym.SourceFileID = fileID
	}
	return ix.Symbols.CreateSymbols(ctx, r.symbols)
}
