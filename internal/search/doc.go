// Package search counts the lines matching the session's search pattern and
// feeds the total back to the session as a SetMatchCount action.
//
// A Counter subscribes to a state.Store. Each time the line sequence or the
// pattern is replaced it rescans the lines (ANSI escapes stripped) and
// dispatches the new count, but only if the state it counted is still
// current. The matching line indices are kept so the UI can jump to the
// current match.
package search
