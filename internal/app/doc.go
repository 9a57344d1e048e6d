// Package app is the composition root for lodestar.
//
// # Overview
//
// Run wires configuration, logging, the ingest pipeline, the session store,
// the match counter and the UI together, then blocks until the UI exits.
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read ~/.config/lodestar/config.toml
//	       ├─────> openLogger()         slog text log file
//	       ├─────> prefs.Load()         Theme, case sensitivity, line numbers
//	       ├─────> NewSession()         Store + Loader + Counter
//	       ├─────> StartCounter()       Background match counting
//	       ├─────> Session.Load()       First ingest
//	       └─────> ui.Run()             Start TUI (blocks)
//
// # Ingest Flow
//
// Session.Load records the file name, then starts the loader. When the
// download completes (fully or partially) its lines are dispatched as a
// single Ingest action. The log format comes from the -format flag, then
// the config default, then detection from the lines themselves. A failed
// download with no lines leaves the previous lines in place; the error is
// shown in the status bar from the loader status.
//
// # Match Counting
//
// StartCounter runs a search.Counter against the store. It reacts to every
// change in lines or pattern and feeds SetMatchCount back to the store.
//
// # Shutdown
//
// When the UI exits the in-flight ingest is cancelled, the counter is
// stopped, and Run waits for both goroutines before returning.
package app
