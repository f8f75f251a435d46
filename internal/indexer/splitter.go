package indexer

import (
	"strings"
)

const (
	// defaults follow the word-window splitting configuration: 500-word
	// windows, 50 words of overlap, and a 200-word minimum for a trailing
	// fragment to stand alone.
	defaultSplitLength    = 500
	defaultSplitOverlap   = 50
	defaultSplitThreshold = 200
)

// Splitter splits normalized text into overlapping word-window chunks.
// Splitting is deterministic: identical input and configuration always
// produce identical boundaries.
type Splitter struct {
	Length    int // window size in words
	Overlap   int // words shared with the previous chunk
	Threshold int // minimum words for a standalone trailing chunk
}

// NewSplitter creates a Splitter with the default window configuration.
func NewSplitter() *Splitter {
	return &Splitter{
		Length:    defaultSplitLength,
		Overlap:   defaultSplitOverlap,
		Threshold: defaultSplitThreshold,
	}
}

// Split returns the chunk contents in order. Each chunk except the first
// begins with the last Overlap words of its predecessor; a trailing fragment
// shorter than Threshold is merged into the previous chunk instead of being
// emitted standalone. Word separators are preserved so that concatenating
// the chunks (minus the overlap) reconstructs the input exactly.
func (s *Splitter) Split(text string) []string {
	units := splitUnits(text)
	if len(units) == 0 {
		return nil
	}
	if len(units) <= s.Length {
		return []string{strings.Join(units, "")}
	}

	step := s.Length - s.Overlap
	if step <= 0 {
		step = s.Length
	}

	type window struct{ start, end int }
	var windows []window
	for start := 0; start < len(units); start += step {
		end := start + s.Length
		if end > len(units) {
			end = len(units)
		}
		windows = append(windows, window{start, end})
		if end == len(units) {
			break
		}
	}

	// A short trailing window carries too little new content to stand alone:
	// fold it into the previous window.
	if len(windows) > 1 {
		last := windows[len(windows)-1]
		if last.end-last.start < s.Threshold {
			windows = windows[:len(windows)-1]
			windows[len(windows)-1].end = last.end
		}
	}

	chunks := make([]string, 0, len(windows))
	for _, w := range windows {
		chunks = append(chunks, strings.Join(units[w.start:w.end], ""))
	}
	return chunks
}

// splitUnits breaks text into words with their trailing whitespace attached,
// so that rejoining units yields the original text.
func splitUnits(text string) []string {
	var units []string
	start := 0
	inSpace := false
	for i, r := range text {
		isSpace := r == ' ' || r == '\t' || r == '\n' || r == '\r'
		if inSpace && !isSpace {
			units = append(units, text[start:i])
			start = i
		}
		inSpace = isSpace
	}
	if start < len(text) {
		units = append(units, text[start:])
	}
	// leading whitespace (no word yet) would form a bare-separator unit;
	// attach it to the first word instead
	if len(units) > 1 && strings.TrimSpace(units[0]) == "" {
		units[1] = units[0] + units[1]
		units = units[1:]
	}
	return units
}

// Clean normalizes whitespace before splitting: trailing spaces are removed
// from each line and runs of three or more newlines collapse to one blank
// line. Line-leading indentation is preserved for code regions.
func Clean(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	out := strings.Join(lines, "\n")
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(out)
}
