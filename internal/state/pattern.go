package state

import "regexp"

// Pattern is a compiled search matcher together with the text it was built
// from. The source is kept so the matcher can be rebuilt when case
// sensitivity changes.
type Pattern struct {
	source  string
	re      *regexp.Regexp
	literal bool
}

// NewPattern compiles source. Unless caseSensitive is set the matcher ignores
// case. A source that is not a valid regular expression is matched
// literally.
func NewPattern(source string, caseSensitive bool) *Pattern {
	p := &Pattern{source: source}
	prefix := "(?i)"
	if caseSensitive {
		prefix = ""
	}
	re, err := regexp.Compile(prefix + source)
	if err != nil {
		re = regexp.MustCompile(prefix + regexp.QuoteMeta(source))
		p.literal = true
	}
	p.re = re
	return p
}

// Source returns the text the pattern was compiled from.
func (p *Pattern) Source() string { return p.source }

// Literal reports whether the source failed to compile as a regular
// expression and is being matched as plain text.
func (p *Pattern) Literal() bool { return p.literal }

// MatchString reports whether s contains a match.
func (p *Pattern) MatchString(s string) bool { return p.re.MatchString(s) }

// FindAllStringIndex returns the match ranges in s.
func (p *Pattern) FindAllStringIndex(s string) [][]int { return p.re.FindAllStringIndex(s, -1) }
