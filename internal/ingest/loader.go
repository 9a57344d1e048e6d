package ingest

import (
	"context"
	"sync"
)

// Status is the tri-state view of the current ingest consumed by the UI.
type Status struct {
	URL      string
	Lines    []string
	Err      error
	Loading  bool
	Progress Progress
}

// Loader runs at most one ingest at a time. Starting a new ingest cancels
// the previous one; a cancelled or superseded ingest never updates the
// status or invokes its callback.
type Loader struct {
	fetcher Fetcher

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	status Status

	// deliver serializes completion callbacks so a superseded result can
	// never land after a newer one.
	deliver sync.Mutex
	wg      sync.WaitGroup
}

// Ticket identifies one ingest started by a Loader.
type Ticket struct {
	l   *Loader
	gen uint64
}

// Current reports whether the ingest is still the loader's latest and has
// not been cancelled. Callers commit a result only while it holds.
func (t Ticket) Current() bool {
	if t.l == nil {
		return false
	}
	t.l.mu.Lock()
	defer t.l.mu.Unlock()
	return t.gen == t.l.gen
}

// NewLoader returns a Loader backed by fetcher.
func NewLoader(fetcher Fetcher) *Loader {
	return &Loader{fetcher: fetcher}
}

// Start begins ingesting rawURL, cancelling any ingest still in flight.
// onDone, if non-nil, receives the result once the ingest completes and is
// still current. It runs on the loader's goroutine. Cancel may race with
// onDone, so state changes made from it should be guarded by the Ticket.
func (l *Loader) Start(ctx context.Context, rawURL string, onDone func(Result, Ticket)) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.status = Status{URL: rawURL, Loading: true}
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer cancel()

		res := l.fetcher.Download(ctx, rawURL, func(p Progress) {
			l.mu.Lock()
			if gen == l.gen {
				l.status.Progress = p
			}
			l.mu.Unlock()
		})

		l.deliver.Lock()
		defer l.deliver.Unlock()

		l.mu.Lock()
		if gen != l.gen {
			l.mu.Unlock()
			return
		}
		l.status.Loading = false
		l.cancel = nil
		if err := ctx.Err(); err != nil {
			// The parent context ended; nothing is delivered.
			l.status.Err = err
			l.mu.Unlock()
			return
		}
		l.status.Lines = res.Lines
		l.status.Err = res.Err
		l.mu.Unlock()

		if onDone != nil {
			onDone(res, Ticket{l: l, gen: gen})
		}
	}()
}

// Cancel aborts the in-flight ingest, if any, and clears the loading flag.
// Every Ticket issued so far stops being current, including one held by a
// callback that is already running.
func (l *Loader) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
	l.status.Loading = false
}

// Status returns the current ingest status.
func (l *Loader) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Loading reports whether an ingest is in flight.
func (l *Loader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status.Loading
}

// Wait blocks until every ingest goroutine has returned.
func (l *Loader) Wait() {
	l.wg.Wait()
}
