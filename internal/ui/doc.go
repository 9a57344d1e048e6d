// Package ui provides the Bubble Tea terminal interface for lodestar.
//
// # Package Structure
//
//   - app.go: Model, Options, the Update loop and Run
//   - input_handlers.go: key handling, the search and goto prompts, scrolling
//   - render.go: log pane rendering and match highlighting
//   - status.go: status bar (file, load progress, errors, search position)
//   - help.go: help overlay built from the key map
//   - keys.go: key bindings
//   - theme.go: colour themes (Nightfox, Kanagawa, Slate)
//
// # Data Flow
//
// The model never changes the session directly. Keys become state actions
// dispatched to the store:
//
//	/ typing   → SetSearchTerm (applied as the user types)
//	n / N      → Paginate
//	c          → SetCaseSensitive
//	:<line>    → ScrollToLine
//	x          → ClearLogs
//
// The store subscription delivers a stateChangedMsg after every dispatch,
// including counts produced by the background match counter. The model then
// reads a fresh snapshot and scrolls to follow a new cursor line or a new
// current match. A periodic tick polls the loader for download progress.
//
// # Rendering
//
// Logs can hold millions of lines, so only the visible window is rendered
// and handed to the viewport. Lines containing a match are highlighted on
// their ANSI-stripped text; other lines keep their original colours. Every
// line is truncated to the terminal width.
//
// # Preferences
//
// Theme, case sensitivity and line-number visibility are saved to the
// prefs file whenever they are toggled.
package ui
