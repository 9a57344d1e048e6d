package state

import (
	"fmt"

	"github.com/five82/lodestar/internal/logformat"
)

// SearchState tracks the active search and the position within its matches.
// CurrentIndex is non-nil exactly when MatchCount is non-nil and positive.
type SearchState struct {
	Pattern       *Pattern
	HasSearch     bool
	CaseSensitive bool
	MatchCount    *int
	CurrentIndex  *int
}

// State is one immutable snapshot of a viewing session.
type State struct {
	Lines      []string
	FileName   string
	Format     logformat.Format
	CursorLine *int
	Search     SearchState
}

// Initial returns the empty session.
func Initial() State {
	return State{}
}

// Reducer applies actions to a State. The zero value uses
// logformat.DefaultProcessors for structured formats.
type Reducer struct {
	Processors logformat.Processors
}

// Apply returns the state produced by applying a to s with the default
// processors.
func Apply(s State, a Action) State {
	return Reducer{}.Apply(s, a)
}

// Apply returns the state produced by applying a to s. The input is never
// modified. An action the reducer does not recognise is a programming error
// and panics.
func (r Reducer) Apply(s State, a Action) State {
	switch a := a.(type) {
	case Ingest:
		s.Lines = r.Processors.Process(a.Format, a.Lines)
		s.Format = a.Format
	case ClearLogs:
		return Initial()
	case SetFileName:
		s.FileName = a.Name
	case SetSearchTerm:
		if a.Text == "" {
			s.Search.Pattern = nil
			s.Search.HasSearch = false
		} else {
			s.Search.Pattern = NewPattern(a.Text, s.Search.CaseSensitive)
			s.Search.HasSearch = true
		}
		s.Search.MatchCount = nil
		s.Search.CurrentIndex = nil
	case SetCaseSensitive:
		s.Search.CaseSensitive = a.Sensitive
		if s.Search.Pattern != nil {
			s.Search.Pattern = NewPattern(s.Search.Pattern.Source(), a.Sensitive)
			s.Search.HasSearch = true
			s.Search.MatchCount = nil
			s.Search.CurrentIndex = nil
		}
	case SetMatchCount:
		if a.Count > 0 {
			s.Search.MatchCount = intPtr(a.Count)
			s.Search.CurrentIndex = intPtr(0)
		} else {
			s.Search.MatchCount = nil
			s.Search.CurrentIndex = nil
		}
	case Paginate:
		count, idx := s.Search.MatchCount, s.Search.CurrentIndex
		if count == nil || idx == nil {
			return s
		}
		next := *idx
		switch a.Direction {
		case Next:
			next++
			if next >= *count {
				next = 0
			}
		case Prev:
			next--
			if next < 0 {
				next = *count - 1
			}
		default:
			panic(fmt.Sprintf("state: unknown pagination direction %d", a.Direction))
		}
		s.Search.CurrentIndex = intPtr(next)
	case ScrollToLine:
		s.CursorLine = intPtr(a.Line)
	default:
		panic(fmt.Sprintf("state: unknown action %T", a))
	}
	return s
}

func intPtr(v int) *int { return &v }
