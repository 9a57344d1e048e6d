package logformat

// LineProcessor transforms one raw log line into its display form.
type LineProcessor func(raw string) string

// Processors maps structured formats to their line processors.
type Processors map[Format]LineProcessor

// DefaultProcessors holds the built-in processors.
var DefaultProcessors = Processors{
	FormatResmoke: ProcessResmokeLine,
}

// For returns the processor registered for f, consulting DefaultProcessors
// when p is nil.
func (p Processors) For(f Format) LineProcessor {
	if p == nil {
		p = DefaultProcessors
	}
	return p[f]
}

// Process returns the display view of lines for format f. Only structured
// formats are transformed; every other format returns lines as given.
// Structured output is a freshly allocated slice.
func (p Processors) Process(f Format, lines []string) []string {
	if !f.Structured() {
		return lines
	}
	process := p.For(f)
	if process == nil {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = process(line)
	}
	return out
}
