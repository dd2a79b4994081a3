package crawl

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/fwojciec/doxindex"
	"golang.org/x/time/rate"
)

var _ doxindex.DomainLimiter = (*DomainLimiter)(nil)

// DefaultRate is the number of search files requested per second from one
// host.
const DefaultRate = 5.0

// DomainLimiter holds one token bucket per host. Hosts are compared without
// case or default port, so "Docs.example.com:443" and "docs.example.com"
// share a bucket.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// LimiterOption configures a DomainLimiter.
type LimiterOption func(*DomainLimiter)

// WithBurst lets up to n requests to a host through back to back before the
// rate applies. The default is 1.
func WithBurst(n int) LimiterOption {
	return func(d *DomainLimiter) {
		if n > 0 {
			d.burst = n
		}
	}
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// to each host. A non-positive rps uses DefaultRate.
func NewDomainLimiter(rps float64, opts ...LimiterOption) *DomainLimiter {
	if rps <= 0 {
		rps = DefaultRate
	}
	d := &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    1,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait blocks until a request to host is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	return d.limiter(host).Wait(ctx)
}

// Hosts returns the number of hosts seen so far.
func (d *DomainLimiter) Hosts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.limiters)
}

func (d *DomainLimiter) limiter(host string) *rate.Limiter {
	key := normalizeHost(host)

	d.mu.Lock()
	defer d.mu.Unlock()
	limiter, ok := d.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), d.burst)
		d.limiters[key] = limiter
	}
	return limiter
}

func normalizeHost(host string) string {
	host = strings.ToLower(host)
	if h, port, err := net.SplitHostPort(host); err == nil && (port == "80" || port == "443") {
		return h
	}
	return host
}
