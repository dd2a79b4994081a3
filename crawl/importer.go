// Package crawl imports search tables published by a Doxygen HTML site.
// Every split search file of the "all" category is fetched, decoded and
// merged into a single table.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/js"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of search files fetched in parallel.
const DefaultConcurrency = 4

// Importer downloads the search files of a published documentation site.
type Importer struct {
	Fetcher     doxindex.Fetcher
	RateLimiter doxindex.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration

	// Logger, if set, receives retry messages.
	Logger LogFunc
}

// Result holds the outcome of an import.
type Result struct {
	Fetched int
	Missing int
	Failed  int
	Records int
	Bytes   int
}

// ProgressEvent reports progress during an import.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Records   int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressFetched
	ProgressMissing
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting import progress.
type ProgressFunc func(event ProgressEvent)

// fetchResult holds the outcome of fetching a single search file.
type fetchResult struct {
	position int
	url      string
	table    *doxindex.Table
	bytes    int
	err      error
}

// SearchURL returns the URL of the split search file for keys starting with
// initial. baseURL may point at the documentation root, at one of its pages
// or at its search directory.
func SearchURL(baseURL string, initial byte) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", doxindex.Errorf(doxindex.EINVALID, "invalid URL %q: %v", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", doxindex.Errorf(doxindex.EINVALID, "URL must be absolute http(s): %q", baseURL)
	}

	dir := path.Clean("/" + u.Path)
	if path.Ext(dir) != "" {
		dir = path.Dir(dir)
	}
	if path.Base(dir) != "search" {
		dir = path.Join(dir, "search")
	}

	u.Path = path.Join(dir, fmt.Sprintf("%s_%02x.js", doxindex.CategoryAll, initial))
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// Import fetches every search file under baseURL and merges them into one
// table. Files the site does not have are counted as missing. Any other
// failure is reported through progress and fails the import once all
// fetches are done.
func (im *Importer) Import(ctx context.Context, baseURL string, progress ProgressFunc) (*doxindex.Table, *Result, error) {
	urls := make([]string, 0, len(doxindex.KeyInitials))
	for i := 0; i < len(doxindex.KeyInitials); i++ {
		u, err := SearchURL(baseURL, doxindex.KeyInitials[i])
		if err != nil {
			return nil, nil, err
		}
		urls = append(urls, u)
	}

	concurrency := im.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan fetchResult, len(urls))

	var completed atomic.Int64
	total := len(urls)

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			g.Go(func() error {
				resultCh <- im.fetchTable(gctx, i, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]*fetchResult, len(urls))
	result := &Result{}
	var failures []error
	for r := range resultCh {
		n := int(completed.Add(1))
		event := ProgressEvent{Completed: n, Total: total, URL: r.url}

		switch {
		case r.err == nil:
			result.Fetched++
			result.Bytes += r.bytes
			event.Type = ProgressFetched
			event.Records = len(r.table.Records)
			results[r.position] = &r
		case doxindex.ErrorCode(r.err) == doxindex.ENOTFOUND:
			result.Missing++
			event.Type = ProgressMissing
		default:
			result.Failed++
			event.Type = ProgressFailed
			event.Error = r.err
			failures = append(failures, fmt.Errorf("%s: %w", r.url, r.err))
		}

		if progress != nil {
			progress(event)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, result, err
	}
	if len(failures) > 0 {
		return nil, result, fmt.Errorf("import %s: %d of %d search files failed: %w", baseURL, len(failures), total, failures[0])
	}

	table := &doxindex.Table{}
	for _, r := range results {
		if r != nil {
			table.Merge(r.table)
		}
	}
	table.Sort()
	result.Records = len(table.Records)

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
			Records:   result.Records,
		})
	}

	if result.Records == 0 {
		return nil, result, doxindex.Errorf(doxindex.ENOTFOUND, "no search data found at %s", baseURL)
	}
	return table, result, nil
}

// fetchTable fetches and decodes a single search file.
func (im *Importer) fetchTable(ctx context.Context, position int, rawURL string) fetchResult {
	result := fetchResult{position: position, url: rawURL}

	if im.RateLimiter != nil {
		if u, err := url.Parse(rawURL); err == nil {
			if err := im.RateLimiter.Wait(ctx, u.Host); err != nil {
				result.err = err
				return result
			}
		}
	}

	delays := im.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	body, err := FetchWithRetryDelays(ctx, rawURL, im.Fetcher.Fetch, im.Logger, delays)
	if err != nil {
		result.err = err
		return result
	}

	table, err := js.DecodeString(strings.TrimPrefix(body, "\ufeff"))
	if err != nil {
		result.err = err
		return result
	}

	result.table = table
	result.bytes = len(body)
	return result
}
