package app

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/five82/lodestar/internal/ingest"
	"github.com/five82/lodestar/internal/logformat"
	"github.com/five82/lodestar/internal/search"
	"github.com/five82/lodestar/internal/state"
)

// Session ties one viewing session together: the store holding its state,
// the loader feeding it lines and the counter keeping match totals current.
type Session struct {
	Store   *state.Store
	Loader  *ingest.Loader
	Counter *search.Counter

	format logformat.Format
	logger *slog.Logger
}

// NewSession builds a session that downloads with fetcher. A format of
// FormatUnknown is detected from the content of each ingest.
func NewSession(fetcher ingest.Fetcher, format logformat.Format, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	store := state.NewStore(state.Reducer{Processors: logformat.DefaultProcessors})
	return &Session{
		Store:   store,
		Loader:  ingest.NewLoader(fetcher),
		Counter: search.NewCounter(store, logger.With("component", "counter")),
		format:  format,
		logger:  logger,
	}
}

// Load starts ingesting rawURL, cancelling any ingest in flight. Lines from
// a successful or partial download replace the session's lines.
func (s *Session) Load(ctx context.Context, rawURL string) {
	s.Store.Dispatch(state.SetFileName{Name: fileNameFromURL(rawURL)})
	s.logger.Info("ingest started", "url", rawURL)

	s.Loader.Start(ctx, rawURL, func(res ingest.Result, ticket ingest.Ticket) {
		switch {
		case res.Partial():
			s.logger.Warn("ingest partial", "url", rawURL, "lines", len(res.Lines), "err", res.Err)
		case res.Err != nil:
			s.logger.Warn("ingest failed", "url", rawURL, "err", res.Err)
		}
		if res.Lines == nil {
			return
		}
		format := s.format
		if format == logformat.FormatUnknown {
			format = logformat.Detect(res.Lines)
		}
		// A Cancel that lands after delivery began must still win, so the
		// ticket is checked under the store lock.
		current := func(state.State) bool { return ticket.Current() }
		if !s.Store.DispatchIf(current, state.Ingest{Lines: res.Lines, Format: format}) {
			s.logger.Info("ingest discarded", "url", rawURL, "lines", len(res.Lines))
			return
		}
		s.logger.Info("ingest finished", "url", rawURL, "lines", len(res.Lines), "format", format.String())
	})
}

// Close cancels any ingest in flight and waits for it to stop.
func (s *Session) Close() {
	s.Loader.Cancel()
	s.Loader.Wait()
}

// fileNameFromURL returns the last path element of rawURL.
func fileNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return rawURL
	}
	return path.Base(u.Path)
}

// NormalizeURL accepts http(s) and file URLs as given and turns a bare path
// into an absolute file URL.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if u, err := url.Parse(raw); err == nil {
		switch u.Scheme {
		case "http", "https", "file":
			return raw, nil
		}
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: abs}).String(), nil
}
