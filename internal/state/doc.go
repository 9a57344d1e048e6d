// Package state models a log viewing session as a pure state machine.
//
// # Overview
//
// A State holds the ingested lines, the file name and log format, the cursor
// line, and the search state. It is changed only by applying an Action:
//
//	next := state.Apply(prev, state.SetSearchTerm{Text: "err"})
//
// Apply never modifies its input. Line slices are replaced wholesale and
// never written after hand-off, so snapshots can be shared freely between
// goroutines.
//
// # Actions
//
//	Ingest{Lines, Format}   replace lines (structured formats are processed)
//	ClearLogs{}             back to Initial()
//	SetFileName{Name}       record the file name
//	SetSearchTerm{Text}     compile a new pattern, or clear it when empty
//	SetCaseSensitive{...}   rebuild the active pattern under new sensitivity
//	SetMatchCount{Count}    record the match total and select the first match
//	Paginate{Direction}     cycle through matches
//	ScrollToLine{Line}      move the cursor
//
// Any change to the pattern clears MatchCount and CurrentIndex. Only
// SetMatchCount sets them again, which keeps the invariant that
// CurrentIndex is defined exactly when MatchCount is defined and positive.
//
// Action is a closed interface. Passing anything else to Apply (including a
// nil Action) panics: it means the dispatcher and reducer disagree about the
// action set, which is a bug rather than a runtime condition.
//
// # Store
//
// Store wraps the reducer for concurrent use. Dispatch applies actions in
// call order under a write lock; Snapshot reads under a read lock.
//
//	Producer (loader, counter):    Consumer (UI):
//	┌──────────────────────┐       ┌──────────────────────┐
//	│ store.Dispatch(...)  │──────→│ <-changes            │
//	│                      │ (chan)│ store.Snapshot()     │
//	└──────────────────────┘       └──────────────────────┘
//
// Subscribers receive a coalescing notification rather than the state
// itself, so a slow reader never blocks Dispatch and always renders the
// latest snapshot when it catches up.
//
// DispatchIf lets an asynchronous producer apply its result only if the
// state it computed from is still current. The match counter uses it to
// drop counts for lines or patterns that have since been replaced.
package state
