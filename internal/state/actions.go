package state

import "github.com/five82/lodestar/internal/logformat"

// Action is a request to change the session. The set of actions is closed:
// only types declared in this package implement it.
type Action interface {
	action()
}

// Direction selects which way Paginate moves through matches.
type Direction int

const (
	Next Direction = iota
	Prev
)

func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// Ingest replaces the line sequence. Ownership of Lines passes to the
// session; callers must not modify the slice afterwards.
type Ingest struct {
	Lines  []string
	Format logformat.Format
}

// ClearLogs resets the session to its initial state.
type ClearLogs struct{}

// SetFileName records the name of the log being viewed.
type SetFileName struct {
	Name string
}

// SetSearchTerm replaces the active search. An empty Text clears it.
type SetSearchTerm struct {
	Text string
}

// SetCaseSensitive changes case sensitivity, rebuilding any active pattern.
type SetCaseSensitive struct {
	Sensitive bool
}

// SetMatchCount is produced by the match counter once it has counted the
// lines matching the active pattern.
type SetMatchCount struct {
	Count int
}

// Paginate moves the current match cyclically.
type Paginate struct {
	Direction Direction
}

// ScrollToLine moves the cursor to a zero-based line index.
type ScrollToLine struct {
	Line int
}

func (Ingest) action()           {}
func (ClearLogs) action()        {}
func (SetFileName) action()      {}
func (SetSearchTerm) action()    {}
func (SetCaseSensitive) action() {}
func (SetMatchCount) action()    {}
func (Paginate) action()         {}
func (ScrollToLine) action()     {}
