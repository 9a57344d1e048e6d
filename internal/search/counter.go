package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/five82/lodestar/internal/state"
)

var errStale = errors.New("search: lines or pattern changed during count")

// Result is one completed count.
type Result struct {
	Pattern *state.Pattern
	Lines   []string
	Matches []int
}

func (r *Result) current(s state.State) bool {
	return r != nil && r.Pattern == s.Search.Pattern && sameLines(r.Lines, s.Lines)
}

// sameLines reports whether a and b are the same line sequence. Line slices
// are never modified after ingest, so identity is enough.
func sameLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// Counter keeps the match count in a store up to date. Whenever the lines or
// the pattern change it rescans the lines and dispatches SetMatchCount.
type Counter struct {
	store  *state.Store
	logger *slog.Logger
	last   atomic.Pointer[Result]
}

// NewCounter returns a Counter for store. A nil logger discards output.
func NewCounter(store *state.Store, logger *slog.Logger) *Counter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Counter{store: store, logger: logger}
}

// Run recounts after every store change until ctx is cancelled.
func (c *Counter) Run(ctx context.Context) {
	changes, unsubscribe := c.store.Subscribe()
	defer unsubscribe()

	c.Recount(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			c.Recount(ctx)
		}
	}
}

// Recount counts matches for the current snapshot if it differs from the
// last count. It reports whether a SetMatchCount action was dispatched.
func (c *Counter) Recount(ctx context.Context) bool {
	snap := c.store.Snapshot()
	if c.last.Load().current(snap) {
		return false
	}

	res := &Result{Pattern: snap.Search.Pattern, Lines: snap.Lines}
	if res.Pattern == nil {
		// Clearing the pattern already cleared the count.
		c.last.Store(res)
		return false
	}

	start := time.Now()
	stale := func() bool { return !res.current(c.store.Snapshot()) }
	matches, err := matchingLines(ctx, snap.Lines, res.Pattern, stale)
	if err != nil {
		c.logger.Debug("match count abandoned", "pattern", res.Pattern.Source(), "err", err)
		return false
	}
	res.Matches = matches
	c.last.Store(res)

	applied := c.store.DispatchIf(res.current, state.SetMatchCount{Count: len(matches)})
	c.logger.Debug("match count",
		"pattern", res.Pattern.Source(),
		"lines", len(res.Lines),
		"matches", len(matches),
		"applied", applied,
		"elapsed", time.Since(start),
	)
	return applied
}

// Matches returns the matching line indices for s, or nil when no count
// for its lines and pattern has completed yet.
func (c *Counter) Matches(s state.State) []int {
	res := c.last.Load()
	if !res.current(s) {
		return nil
	}
	return res.Matches
}

// CurrentLine returns the line index of the current match in s.
func (c *Counter) CurrentLine(s state.State) (int, bool) {
	idx := s.Search.CurrentIndex
	if idx == nil {
		return 0, false
	}
	matches := c.Matches(s)
	if *idx < 0 || *idx >= len(matches) {
		return 0, false
	}
	return matches[*idx], true
}
