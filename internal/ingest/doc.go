// Package ingest streams a remote (or file://) log into memory as lines.
//
// A Downloader reads the body in fixed-size chunks, decodes UTF-8
// incrementally so multi-byte sequences split across chunks survive, and
// splits on '\n'. Ingestion stops once the line ceiling is exceeded and the
// lines read so far are returned together with ErrTooManyLines.
//
// Failures are returned as data in a Result:
//
//   - success: Lines set, Err nil
//   - partial: Lines non-empty, Err set
//   - failure: Lines nil, Err set
//
// A Loader runs at most one download at a time and exposes a loading flag.
// Starting a new download cancels the previous one, and a cancelled
// download never delivers its result.
package ingest
