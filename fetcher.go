package doxindex

import "context"

// Fetcher retrieves the text content of a URL.
type Fetcher interface {
	// Fetch returns the response body.
	// Returns ENOTFOUND when the server reports the resource missing.
	Fetch(ctx context.Context, url string) (string, error)

	// Close releases resources held by the fetcher.
	Close() error
}

// DomainLimiter rate-limits requests per host.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed.
	Wait(ctx context.Context, domain string) error
}
