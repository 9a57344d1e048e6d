package ingest

import (
	"context"
	"log/slog"
)

// Severity tags a reported error.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeveritySevere  Severity = "severe"
)

// Breadcrumbs records diagnostic breadcrumbs. Implementations must not
// block; the downloader does not wait on them.
type Breadcrumbs interface {
	Leave(name string, kind string, metadata map[string]any)
}

// Reporter forwards errors to an external error-reporting service.
type Reporter interface {
	Report(err error, severity Severity, metadata map[string]any)
}

// SlogSink writes breadcrumbs and error reports as structured log records.
type SlogSink struct {
	Logger *slog.Logger
}

// Leave implements Breadcrumbs.
func (s SlogSink) Leave(name, kind string, metadata map[string]any) {
	s.logger().Info("breadcrumb", append([]any{"name", name, "kind", kind}, flatten(metadata)...)...)
}

// Report implements Reporter.
func (s SlogSink) Report(err error, severity Severity, metadata map[string]any) {
	level := slog.LevelWarn
	if severity == SeveritySevere {
		level = slog.LevelError
	}
	s.logger().Log(context.Background(), level, "ingest error",
		append([]any{"err", err, "severity", string(severity)}, flatten(metadata)...)...)
}

func (s SlogSink) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func flatten(metadata map[string]any) []any {
	args := make([]any, 0, len(metadata)*2)
	for k, v := range metadata {
		args = append(args, k, v)
	}
	return args
}

type nopSink struct{}

func (nopSink) Leave(string, string, map[string]any)    {}
func (nopSink) Report(error, Severity, map[string]any) {}
