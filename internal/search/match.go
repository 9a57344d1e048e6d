package search

import (
	"context"

	"github.com/charmbracelet/x/ansi"

	"github.com/five82/lodestar/internal/state"
)

// checkEvery is how many lines are scanned between cancellation checks.
const checkEvery = 16 * 1024

// Plain returns line with ANSI escape sequences removed. Matching always runs
// against the plain text so colour codes neither hide nor fake a match.
func Plain(line string) string {
	if !containsEscape(line) {
		return line
	}
	return ansi.Strip(line)
}

func containsEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			return true
		}
	}
	return false
}

// matchingLines returns the indices of lines containing at least one match
// of p. It stops early when ctx is cancelled or stale reports true.
func matchingLines(ctx context.Context, lines []string, p *state.Pattern, stale func() bool) ([]int, error) {
	if p == nil {
		return nil, nil
	}
	var out []int
	for i, line := range lines {
		if i%checkEvery == 0 && i > 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if stale != nil && stale() {
				return nil, errStale
			}
		}
		if p.MatchString(Plain(line)) {
			out = append(out, i)
		}
	}
	return out, nil
}
