package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Fetcher downloads a log and splits it into lines. It is implemented by
// *Downloader and can be replaced in tests.
type Fetcher interface {
	Download(ctx context.Context, rawURL string, progress func(Progress)) Result
}

// Ensure Downloader implements Fetcher at compile time.
var _ Fetcher = (*Downloader)(nil)

// Result is the terminal outcome of one download.
//
//   - success: Lines set, Err nil
//   - partial: Lines non-empty and Err set
//   - failure: Lines nil and Err set
type Result struct {
	Lines []string
	Err   error
}

// Partial reports whether the result carries usable lines alongside an error.
func (r Result) Partial() bool {
	return r.Err != nil && len(r.Lines) > 0
}

// Progress is reported after every chunk.
type Progress struct {
	Bytes int64
	Lines int
}

const (
	// DefaultMaxLines is the line ceiling past which ingestion stops.
	DefaultMaxLines  = 2_000_000
	DefaultChunkSize = 64 * 1024
	defaultUserAgent = "lodestar/0.1"
)

// Options configure a Downloader.
type Options struct {
	MaxLines      int
	ChunkSize     int
	UserAgent     string
	HeaderTimeout time.Duration // zero waits indefinitely
	Cookie        string
	Authorization string
	Jar           http.CookieJar
	Breadcrumbs   Breadcrumbs
	Reporter      Reporter
}

// Downloader streams logs from HTTP(S) or file URLs.
type Downloader struct {
	http          *http.Client
	userAgent     string
	cookie        string
	authorization string
	maxLines      int
	chunkSize     int
	breadcrumbs   Breadcrumbs
	reporter      Reporter
}

// NewDownloader builds a Downloader, filling unset options with defaults.
func NewDownloader(opts Options) *Downloader {
	jar := opts.Jar
	if jar == nil {
		// cookiejar.New only fails on a bad PublicSuffixList.
		jar, _ = cookiejar.New(nil)
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = opts.HeaderTimeout

	d := &Downloader{
		http:          &http.Client{Transport: transport, Jar: jar},
		userAgent:     opts.UserAgent,
		cookie:        strings.TrimSpace(opts.Cookie),
		authorization: strings.TrimSpace(opts.Authorization),
		maxLines:      opts.MaxLines,
		chunkSize:     opts.ChunkSize,
		breadcrumbs:   opts.Breadcrumbs,
		reporter:      opts.Reporter,
	}
	if d.userAgent == "" {
		d.userAgent = defaultUserAgent
	}
	if d.maxLines <= 0 {
		d.maxLines = DefaultMaxLines
	}
	if d.chunkSize <= 0 {
		d.chunkSize = DefaultChunkSize
	}
	if d.breadcrumbs == nil {
		d.breadcrumbs = nopSink{}
	}
	if d.reporter == nil {
		d.reporter = nopSink{}
	}
	return d
}

// Download fetches rawURL and returns its lines. Errors are returned as
// data in the Result; Download never panics on transport or read failures.
func (d *Downloader) Download(ctx context.Context, rawURL string, progress func(Progress)) Result {
	requestID := uuid.NewString()
	d.leave("request", map[string]any{"url": rawURL, "request_id": requestID})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	body, err := d.open(ctx, rawURL)
	if err != nil {
		return d.fail(requestID, rawURL, nil, err)
	}
	defer func() { _ = body.Close() }()

	lines, err := d.stream(ctx, cancel, body, progress)
	if err != nil {
		return d.fail(requestID, rawURL, lines, err)
	}
	return Result{Lines: lines}
}

func (d *Downloader) open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: parse url %q: %w", ErrTransport, rawURL, err)
	}
	switch u.Scheme {
	case "http", "https":
		return d.openHTTP(ctx, u)
	case "file":
		file, err := os.Open(u.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: open log: %w", ErrTransport, err)
		}
		return file, nil
	default:
		return nil, fmt.Errorf("%w: unsupported url scheme %q", ErrTransport, u.Scheme)
	}
}

func (d *Downloader) openHTTP(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrTransport, err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	if d.cookie != "" {
		req.Header.Set("Cookie", d.cookie)
	}
	if d.authorization != "" {
		req.Header.Set("Authorization", d.authorization)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: execute request: %w", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: downloading log: status %d", ErrTransport, resp.StatusCode)
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, ErrNoBody
	}
	return resp.Body, nil
}

// stream reads body chunk by chunk. On error it still returns the lines
// accumulated so far.
func (d *Downloader) stream(ctx context.Context, cancel context.CancelFunc, body io.Reader, progress func(Progress)) ([]string, error) {
	splitter := NewLineSplitter()
	buf := make([]byte, d.chunkSize)
	var total int64

	for {
		if err := ctx.Err(); err != nil {
			return splitter.Lines(), fmt.Errorf("read log: %w", err)
		}
		n, err := body.Read(buf)
		if n > 0 {
			total += int64(n)
			splitter.Write(buf[:n])
			if splitter.Len() > d.maxLines {
				cancel()
				return splitter.Lines(), d.tooLarge(splitter.Len())
			}
			if progress != nil {
				progress(Progress{Bytes: total, Lines: splitter.Len()})
			}
		}
		if errors.Is(err, io.EOF) {
			lines := splitter.Close()
			if len(lines) > d.maxLines {
				return lines, d.tooLarge(len(lines))
			}
			return lines, nil
		}
		if err != nil {
			return splitter.Lines(), fmt.Errorf("read log: %w", err)
		}
	}
}

func (d *Downloader) tooLarge(lines int) error {
	return fmt.Errorf("%w: %s lines", ErrTooManyLines, humanize.Comma(int64(lines)))
}

func (d *Downloader) fail(requestID, rawURL string, lines []string, err error) Result {
	if !errors.Is(err, context.Canceled) {
		meta := map[string]any{"url": rawURL, "request_id": requestID, "lines": len(lines), "err": err.Error()}
		d.leave("error", meta)
		d.report(err, meta)
	}
	if len(lines) == 0 {
		return Result{Err: err}
	}
	return Result{Lines: lines, Err: err}
}

func (d *Downloader) leave(kind string, metadata map[string]any) {
	defer func() { _ = recover() }()
	d.breadcrumbs.Leave("downloader", kind, metadata)
}

func (d *Downloader) report(err error, metadata map[string]any) {
	defer func() { _ = recover() }()
	d.reporter.Report(err, SeveritySevere, metadata)
}
