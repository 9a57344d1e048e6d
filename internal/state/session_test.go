package state

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/five82/lodestar/internal/logformat"
)

func applyAll(s State, actions ...Action) State {
	for _, a := range actions {
		s = Apply(s, a)
	}
	return s
}

func deref(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func TestApply_IngestDefaultPassesThrough(t *testing.T) {
	lines := []string{"a", "b", "c"}
	s := Apply(Initial(), Ingest{Lines: lines, Format: logformat.FormatDefault})
	if !slices.Equal(s.Lines, []string{"a", "b", "c"}) {
		t.Fatalf("Lines = %q, want [a b c]", s.Lines)
	}
	if s.Format != logformat.FormatDefault {
		t.Fatalf("Format = %v, want default", s.Format)
	}
}

func TestApply_IngestStructuredUsesProcessor(t *testing.T) {
	r := Reducer{Processors: logformat.Processors{logformat.FormatResmoke: strings.ToUpper}}
	lines := []string{"a", "b", "c"}
	s := r.Apply(Initial(), Ingest{Lines: lines, Format: logformat.FormatResmoke})
	if !slices.Equal(s.Lines, []string{"A", "B", "C"}) {
		t.Fatalf("Lines = %q, want [A B C]", s.Lines)
	}
	if !slices.Equal(lines, []string{"a", "b", "c"}) {
		t.Fatalf("input lines modified: %q", lines)
	}
}

func TestApply_IngestLeavesOtherFields(t *testing.T) {
	s := applyAll(Initial(),
		SetFileName{Name: "mongod.log"},
		ScrollToLine{Line: 7},
		SetSearchTerm{Text: "err"},
		SetMatchCount{Count: 3},
	)
	before := s
	s = Apply(s, Ingest{Lines: []string{"x"}, Format: logformat.FormatANSI})

	if s.FileName != "mongod.log" || deref(s.CursorLine) != 7 {
		t.Fatalf("Ingest changed file name or cursor: %+v", s)
	}
	if !reflect.DeepEqual(s.Search, before.Search) {
		t.Fatalf("Ingest changed search state: %+v, want %+v", s.Search, before.Search)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	s := applyAll(Initial(), SetSearchTerm{Text: "err"}, SetMatchCount{Count: 3})
	idx := s.Search.CurrentIndex

	next := Apply(s, Paginate{Direction: Next})
	if *idx != 0 || *s.Search.CurrentIndex != 0 {
		t.Fatalf("input CurrentIndex = %d, want 0", *s.Search.CurrentIndex)
	}
	if *next.Search.CurrentIndex != 1 {
		t.Fatalf("CurrentIndex = %d, want 1", *next.Search.CurrentIndex)
	}
}

func TestApply_SetSearchTerm(t *testing.T) {
	s := applyAll(Initial(), SetSearchTerm{Text: "err"}, SetMatchCount{Count: 4})

	s = Apply(s, SetSearchTerm{Text: "warn"})
	if !s.Search.HasSearch || s.Search.Pattern == nil || s.Search.Pattern.Source() != "warn" {
		t.Fatalf("Search = %+v, want active pattern warn", s.Search)
	}
	if s.Search.MatchCount != nil || s.Search.CurrentIndex != nil {
		t.Fatalf("counts = %v/%v, want cleared", deref(s.Search.MatchCount), deref(s.Search.CurrentIndex))
	}
	if !s.Search.Pattern.MatchString("WARNING") {
		t.Fatal("pattern should ignore case by default")
	}

	s = Apply(s, SetMatchCount{Count: 2})
	s = Apply(s, SetSearchTerm{Text: ""})
	if s.Search.HasSearch || s.Search.Pattern != nil {
		t.Fatalf("Search = %+v, want cleared", s.Search)
	}
	if s.Search.MatchCount != nil || s.Search.CurrentIndex != nil {
		t.Fatal("empty term should clear counts")
	}
}

func TestApply_EmptySearchThenPaginateIsNoop(t *testing.T) {
	base := applyAll(Initial(),
		Ingest{Lines: []string{"a", "b"}},
		ScrollToLine{Line: 1},
		SetSearchTerm{Text: ""},
	)
	for _, dir := range []Direction{Next, Prev} {
		got := Apply(base, Paginate{Direction: dir})
		if !reflect.DeepEqual(got, base) {
			t.Fatalf("Paginate(%v) = %+v, want unchanged %+v", dir, got, base)
		}
		if got.Search.HasSearch {
			t.Fatal("HasSearch = true, want false")
		}
	}
}

func TestApply_PaginateCycles(t *testing.T) {
	s := Apply(Initial(), SetMatchCount{Count: 5})
	if deref(s.Search.MatchCount) != 5 || deref(s.Search.CurrentIndex) != 0 {
		t.Fatalf("after SetMatchCount(5): count=%v idx=%v", deref(s.Search.MatchCount), deref(s.Search.CurrentIndex))
	}

	fwd := s
	want := []int{1, 2, 3, 4, 0}
	for i, w := range want {
		fwd = Apply(fwd, Paginate{Direction: Next})
		if got := deref(fwd.Search.CurrentIndex); got != w {
			t.Fatalf("Next #%d: CurrentIndex = %v, want %d", i+1, got, w)
		}
	}

	back := Apply(s, Paginate{Direction: Prev})
	if got := deref(back.Search.CurrentIndex); got != 4 {
		t.Fatalf("Prev from 0: CurrentIndex = %v, want 4", got)
	}
	if deref(back.Search.MatchCount) != 5 {
		t.Fatal("Paginate changed MatchCount")
	}
}

func TestApply_SetMatchCountZero(t *testing.T) {
	s := applyAll(Initial(), SetMatchCount{Count: 3}, Paginate{Direction: Next}, SetMatchCount{Count: 0})
	if s.Search.MatchCount != nil || s.Search.CurrentIndex != nil {
		t.Fatalf("counts = %v/%v, want absent", deref(s.Search.MatchCount), deref(s.Search.CurrentIndex))
	}
	for _, dir := range []Direction{Next, Prev} {
		if got := Apply(s, Paginate{Direction: dir}); !reflect.DeepEqual(got, s) {
			t.Fatalf("Paginate(%v) after zero count changed state", dir)
		}
	}
}

func TestApply_SetCaseSensitive(t *testing.T) {
	corpus := []string{"ERROR one", "error two", "Error three", "fine"}
	matches := func(p *Pattern) []int {
		var idx []int
		for i, line := range corpus {
			if p.MatchString(line) {
				idx = append(idx, i)
			}
		}
		return idx
	}

	s := applyAll(Initial(), SetSearchTerm{Text: "error"}, SetMatchCount{Count: 3})
	insensitive := matches(s.Search.Pattern)

	s = Apply(s, SetCaseSensitive{Sensitive: true})
	if !s.Search.CaseSensitive || !s.Search.HasSearch || s.Search.Pattern.Source() != "error" {
		t.Fatalf("Search = %+v, want case-sensitive error", s.Search)
	}
	if s.Search.MatchCount != nil || s.Search.CurrentIndex != nil {
		t.Fatal("toggle should clear counts")
	}
	if got := matches(s.Search.Pattern); !slices.Equal(got, []int{1}) {
		t.Fatalf("sensitive matches = %v, want [1]", got)
	}

	s = Apply(s, SetMatchCount{Count: 1})
	s = Apply(s, SetCaseSensitive{Sensitive: false})
	if s.Search.MatchCount != nil || s.Search.CurrentIndex != nil {
		t.Fatal("second toggle should clear counts")
	}
	if got := matches(s.Search.Pattern); !slices.Equal(got, insensitive) {
		t.Fatalf("matches after two toggles = %v, want %v", got, insensitive)
	}
}

func TestApply_SetCaseSensitiveWithoutPattern(t *testing.T) {
	s := applyAll(Initial(), SetMatchCount{Count: 2}, SetCaseSensitive{Sensitive: true})
	if !s.Search.CaseSensitive {
		t.Fatal("CaseSensitive = false, want true")
	}
	if s.Search.HasSearch || s.Search.Pattern != nil {
		t.Fatal("toggle without pattern should not start a search")
	}
	if deref(s.Search.MatchCount) != 2 {
		t.Fatal("toggle without pattern should only change the flag")
	}

	s = Apply(s, SetSearchTerm{Text: "Err"})
	if s.Search.Pattern.MatchString("err") {
		t.Fatal("new pattern should honour case sensitivity")
	}
}

func TestApply_ClearLogsEqualsEmptyIngest(t *testing.T) {
	populated := applyAll(Initial(),
		Ingest{Lines: []string{"a", "b"}, Format: logformat.FormatANSI},
		SetFileName{Name: "x.log"},
		SetCaseSensitive{Sensitive: true},
		SetSearchTerm{Text: "a"},
		SetMatchCount{Count: 1},
		ScrollToLine{Line: 1},
	)
	cleared := Apply(populated, ClearLogs{})
	fresh := Apply(Initial(), Ingest{})

	if !reflect.DeepEqual(cleared, fresh) {
		t.Fatalf("ClearLogs = %+v, want %+v", cleared, fresh)
	}
	if cleared.Search.CaseSensitive {
		t.Fatal("ClearLogs should reset case sensitivity")
	}
}

func TestApply_SearchScenario(t *testing.T) {
	s := applyAll(Initial(), SetSearchTerm{Text: "err"}, SetMatchCount{Count: 2}, Paginate{Direction: Next})
	if got := deref(s.Search.CurrentIndex); got != 1 {
		t.Fatalf("CurrentIndex = %v, want 1", got)
	}
	s = Apply(s, Paginate{Direction: Next})
	if got := deref(s.Search.CurrentIndex); got != 0 {
		t.Fatalf("CurrentIndex = %v, want 0", got)
	}
}

func TestApply_FileNameAndScroll(t *testing.T) {
	s := applyAll(Initial(), SetFileName{Name: "a.log"}, ScrollToLine{Line: 42})
	want := Initial()
	want.FileName = "a.log"
	want.CursorLine = intPtr(42)
	if !reflect.DeepEqual(s, want) {
		t.Fatalf("state = %+v, want %+v", s, want)
	}
}

func TestApply_UnknownActionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Apply(nil) did not panic")
		}
	}()
	Apply(Initial(), nil)
}

func TestNewPattern_InvalidRegexIsLiteral(t *testing.T) {
	p := NewPattern("a[b", false)
	if !p.Literal() {
		t.Fatal("Literal() = false, want true")
	}
	if !p.MatchString("xA[Bx") || p.MatchString("ab") {
		t.Fatal("invalid pattern should match its text literally, ignoring case")
	}

	p = NewPattern(`a+\d`, true)
	if p.Literal() || !p.MatchString("aaa7") || p.MatchString("A7") {
		t.Fatal("valid case-sensitive pattern compiled incorrectly")
	}
}
