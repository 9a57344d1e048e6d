// Package logformat names the log formats the viewer understands and holds
// the per-line processors for structured formats.
//
// Plain and ANSI-colored logs are displayed as fetched. Structured (resmoke)
// logs carry a JSON document per line; ProcessResmokeLine flattens it into a
// single readable line so search and display work on the same text.
package logformat
