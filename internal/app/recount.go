package app

import (
	"context"

	"github.com/five82/lodestar/internal/search"
)

// StartCounter launches the match counter in a background goroutine. It
// returns immediately; the returned channel closes once the counter has
// stopped after ctx is cancelled.
func StartCounter(ctx context.Context, counter *search.Counter) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		counter.Run(ctx)
	}()
	return done
}
