package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingSink struct {
	mu          sync.Mutex
	breadcrumbs []string
	reports     []Severity
}

func (r *recordingSink) Leave(name, kind string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breadcrumbs = append(r.breadcrumbs, name+":"+kind)
}

func (r *recordingSink) Report(_ error, severity Severity, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, severity)
}

func fileURL(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return (&url.URL{Scheme: "file", Path: path}).String()
}

func TestDownloader_FetchesAndSplitsLines(t *testing.T) {
	t.Parallel()

	var gotUserAgent, gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotCookie = r.Header.Get("Cookie")
		_, _ = w.Write([]byte("one\ntwo\nthree\n"))
	}))
	t.Cleanup(server.Close)

	sink := &recordingSink{}
	d := NewDownloader(Options{Cookie: "session=abc", Breadcrumbs: sink, Reporter: sink})

	var last Progress
	res := d.Download(context.Background(), server.URL+"/log", func(p Progress) { last = p })
	if res.Err != nil {
		t.Fatalf("Download error = %v", res.Err)
	}
	if want := []string{"one", "two", "three"}; !slices.Equal(res.Lines, want) {
		t.Fatalf("Lines = %q, want %q", res.Lines, want)
	}
	if last.Bytes != int64(len("one\ntwo\nthree\n")) {
		t.Fatalf("Progress.Bytes = %d, want %d", last.Bytes, len("one\ntwo\nthree\n"))
	}
	if !strings.HasPrefix(gotUserAgent, "lodestar/") {
		t.Fatalf("User-Agent = %q, want lodestar/*", gotUserAgent)
	}
	if gotCookie != "session=abc" {
		t.Fatalf("Cookie = %q, want session=abc", gotCookie)
	}
	if len(sink.breadcrumbs) != 1 || sink.breadcrumbs[0] != "downloader:request" {
		t.Fatalf("breadcrumbs = %v, want [downloader:request]", sink.breadcrumbs)
	}
	if len(sink.reports) != 0 {
		t.Fatalf("reports = %v, want none", sink.reports)
	}
}

func TestDownloader_StreamedChunksSplitMidRune(t *testing.T) {
	t.Parallel()

	payload := []byte("α line\n日本\nend 🚀\n")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for i := 0; i < len(payload); i += 3 {
			end := min(i+3, len(payload))
			_, _ = w.Write(payload[i:end])
			flusher.Flush()
		}
	}))
	t.Cleanup(server.Close)

	res := NewDownloader(Options{ChunkSize: 5}).Download(context.Background(), server.URL, nil)
	if res.Err != nil {
		t.Fatalf("Download error = %v", res.Err)
	}
	if want := []string{"α line", "日本", "end 🚀"}; !slices.Equal(res.Lines, want) {
		t.Fatalf("Lines = %q, want %q", res.Lines, want)
	}
}

func TestDownloader_LineCeilingReturnsPartialResult(t *testing.T) {
	t.Parallel()

	// Each 4-byte chunk carries exactly two lines when read from a file.
	content := "a\nb\nc\nd\ne\nf\ng\nh\n"
	sink := &recordingSink{}
	d := NewDownloader(Options{MaxLines: 5, ChunkSize: 4, Reporter: sink})

	res := d.Download(context.Background(), fileURL(t, content), nil)
	if !errors.Is(res.Err, ErrTooManyLines) {
		t.Fatalf("Err = %v, want ErrTooManyLines", res.Err)
	}
	if !strings.Contains(res.Err.Error(), "6 lines") {
		t.Fatalf("Err = %q, want it to state the line count", res.Err)
	}
	if want := []string{"a", "b", "c", "d", "e", "f"}; !slices.Equal(res.Lines, want) {
		t.Fatalf("Lines = %q, want %q", res.Lines, want)
	}
	if !res.Partial() {
		t.Fatal("Partial() = false, want true")
	}
	if len(sink.reports) != 1 || sink.reports[0] != SeveritySevere {
		t.Fatalf("reports = %v, want one severe report", sink.reports)
	}
}

func TestDownloader_LineCeilingOverHTTP(t *testing.T) {
	t.Parallel()

	var body strings.Builder
	for i := 0; i < 1000; i++ {
		body.WriteString("line\n")
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body.String()))
	}))
	t.Cleanup(server.Close)

	res := NewDownloader(Options{MaxLines: 100, ChunkSize: 50}).Download(context.Background(), server.URL, nil)
	if !errors.Is(res.Err, ErrTooManyLines) {
		t.Fatalf("Err = %v, want ErrTooManyLines", res.Err)
	}
	// A 50-byte chunk holds at most 10 lines.
	if len(res.Lines) <= 100 || len(res.Lines) > 110 {
		t.Fatalf("len(Lines) = %d, want within one chunk past the ceiling", len(res.Lines))
	}
}

func TestDownloader_FileWithoutTrailingNewline(t *testing.T) {
	res := NewDownloader(Options{}).Download(context.Background(), fileURL(t, "x\ny"), nil)
	if res.Err != nil {
		t.Fatalf("Download error = %v", res.Err)
	}
	if want := []string{"x", "y"}; !slices.Equal(res.Lines, want) {
		t.Fatalf("Lines = %q, want %q", res.Lines, want)
	}
}

func TestDownloader_HTTPErrorIsErrorOnly(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	sink := &recordingSink{}
	res := NewDownloader(Options{Breadcrumbs: sink, Reporter: sink}).Download(context.Background(), server.URL, nil)
	if res.Lines != nil {
		t.Fatalf("Lines = %q, want nil", res.Lines)
	}
	if !errors.Is(res.Err, ErrTransport) || !strings.Contains(res.Err.Error(), "status 404") {
		t.Fatalf("Err = %v, want transport error with status 404", res.Err)
	}
	if want := []string{"downloader:request", "downloader:error"}; !slices.Equal(sink.breadcrumbs, want) {
		t.Fatalf("breadcrumbs = %v, want %v", sink.breadcrumbs, want)
	}
	if len(sink.reports) != 1 {
		t.Fatalf("reports = %v, want one", sink.reports)
	}
}

func TestDownloader_MidStreamFailureKeepsLines(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		_, _ = w.Write([]byte("a\nb\n"))
		w.(http.Flusher).Flush()
		panic(http.ErrAbortHandler)
	}))
	t.Cleanup(server.Close)

	res := NewDownloader(Options{}).Download(context.Background(), server.URL, nil)
	if res.Err == nil {
		t.Fatal("Err = nil, want read error")
	}
	if want := []string{"a", "b"}; !slices.Equal(res.Lines, want) {
		t.Fatalf("Lines = %q, want %q", res.Lines, want)
	}
}

func TestDownloader_CancelledContextDoesNotReport(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("never\n"))
	}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &recordingSink{}
	res := NewDownloader(Options{Reporter: sink}).Download(ctx, server.URL, nil)
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("Err = %v, want context.Canceled", res.Err)
	}
	if res.Lines != nil {
		t.Fatalf("Lines = %q, want nil", res.Lines)
	}
	if len(sink.reports) != 0 {
		t.Fatalf("reports = %v, want none for cancellation", sink.reports)
	}
}

func TestDownloader_UnsupportedScheme(t *testing.T) {
	res := NewDownloader(Options{}).Download(context.Background(), "ftp://example.com/log", nil)
	if !errors.Is(res.Err, ErrTransport) {
		t.Fatalf("Err = %v, want ErrTransport", res.Err)
	}
}

type panickingSink struct{}

func (panickingSink) Leave(string, string, map[string]any)    { panic("sink down") }
func (panickingSink) Report(error, Severity, map[string]any) { panic("sink down") }

func TestDownloader_SinkFailureDoesNotAffectResult(t *testing.T) {
	d := NewDownloader(Options{Breadcrumbs: panickingSink{}, Reporter: panickingSink{}})
	res := d.Download(context.Background(), fileURL(t, "ok\n"), nil)
	if res.Err != nil || !slices.Equal(res.Lines, []string{"ok"}) {
		t.Fatalf("Download = %+v, want [ok]", res)
	}

	res = d.Download(context.Background(), "file:///does/not/exist.log", nil)
	if res.Err == nil {
		t.Fatal("Err = nil, want open error")
	}
}

func TestDownloader_HeaderTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	res := NewDownloader(Options{HeaderTimeout: 50 * time.Millisecond}).Download(context.Background(), server.URL, nil)
	if !errors.Is(res.Err, ErrTransport) {
		t.Fatalf("Err = %v, want ErrTransport", res.Err)
	}
}
