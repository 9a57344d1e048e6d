package ingest

import "errors"

var (
	// ErrTransport marks failures before any log data arrived: network
	// errors and non-2xx responses.
	ErrTransport = errors.New("transport failure")

	// ErrNoBody indicates the response carried no readable body.
	ErrNoBody = errors.New("response body unavailable")

	// ErrTooManyLines indicates ingestion stopped at the line ceiling.
	ErrTooManyLines = errors.New("log file too large")
)
