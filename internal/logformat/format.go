package logformat

import (
	"fmt"
	"strings"
)

// Format identifies how a log's raw lines should be interpreted.
type Format int

const (
	// FormatUnknown is the zero value: no format recorded yet.
	FormatUnknown Format = iota
	FormatDefault
	FormatANSI
	// FormatResmoke is the structured test-runner format whose lines carry
	// a JSON payload after a bracketed prefix.
	FormatResmoke
)

var formatNames = map[Format]string{
	FormatUnknown: "unknown",
	FormatDefault: "default",
	FormatANSI:    "ansi",
	FormatResmoke: "resmoke",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Structured reports whether raw lines need a per-line transformation
// before display.
func (f Format) Structured() bool {
	return f == FormatResmoke
}

// Parse maps a user-supplied format name to a Format. An empty name yields
// FormatUnknown so callers can fall back to Detect.
func Parse(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return FormatUnknown, nil
	case "default", "plain", "text":
		return FormatDefault, nil
	case "ansi", "ansii", "color":
		return FormatANSI, nil
	case "resmoke", "structured":
		return FormatResmoke, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown log format %q", name)
	}
}

const detectSampleLines = 20

// Detect guesses a format from the first non-empty lines of a log.
func Detect(lines []string) Format {
	sampled := 0
	sawANSI := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, ok := parseResmoke(line); ok {
			return FormatResmoke
		}
		if strings.Contains(line, "\x1b[") {
			sawANSI = true
		}
		sampled++
		if sampled >= detectSampleLines {
			break
		}
	}
	if sawANSI {
		return FormatANSI
	}
	return FormatDefault
}
