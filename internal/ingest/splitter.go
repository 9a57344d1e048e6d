package ingest

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LineSplitter incrementally decodes UTF-8 chunks and splits them into
// lines. Multi-byte sequences and lines may straddle chunk boundaries; the
// decoder's incomplete tail and the pending partial line are carried over
// between writes.
type LineSplitter struct {
	decoder transform.Transformer
	carry   []byte // undecoded bytes of a split rune
	partial []byte // decoded text after the last newline
	scratch []byte
	lines   []string
}

// NewLineSplitter returns an empty splitter.
func NewLineSplitter() *LineSplitter {
	return &LineSplitter{
		decoder: unicode.UTF8.NewDecoder(),
		scratch: make([]byte, 4096),
	}
}

// Write consumes one chunk and returns how many complete lines it produced.
func (s *LineSplitter) Write(chunk []byte) int {
	before := len(s.lines)
	s.partial = append(s.partial, s.decode(chunk, false)...)
	s.split()
	return len(s.lines) - before
}

// Len returns the number of complete lines so far.
func (s *LineSplitter) Len() int {
	return len(s.lines)
}

// Lines returns the complete lines so far. The pending partial line is not
// included.
func (s *LineSplitter) Lines() []string {
	return s.lines
}

// Close flushes the decoder and returns the final line sequence. The pending
// fragment becomes a last line only when the stream did not end with a
// newline.
func (s *LineSplitter) Close() []string {
	s.partial = append(s.partial, s.decode(nil, true)...)
	s.split()
	if len(s.partial) > 0 {
		s.lines = append(s.lines, string(s.partial))
		s.partial = nil
	}
	return s.lines
}

func (s *LineSplitter) split() {
	rest := s.partial
	for {
		idx := bytes.IndexByte(rest, '\n')
		if idx < 0 {
			break
		}
		s.lines = append(s.lines, string(rest[:idx]))
		rest = rest[idx+1:]
	}
	s.partial = append(s.partial[:0], rest...)
}

func (s *LineSplitter) decode(chunk []byte, atEOF bool) []byte {
	src := chunk
	if len(s.carry) > 0 {
		src = append(s.carry, chunk...)
		s.carry = nil
	}
	var out []byte
	for {
		nDst, nSrc, err := s.decoder.Transform(s.scratch, src, atEOF)
		out = append(out, s.scratch[:nDst]...)
		src = src[nSrc:]
		switch err {
		case transform.ErrShortDst:
			continue
		case transform.ErrShortSrc:
			s.carry = append([]byte(nil), src...)
			return out
		default:
			// The UTF-8 decoder substitutes invalid input and never
			// returns any other error.
			return out
		}
	}
}
