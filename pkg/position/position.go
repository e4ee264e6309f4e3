package position

import (
	"fmt"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
)

// Span represents a half-open [Start, End) byte range in a source document.
type Span struct {
	// Start is the byte offset of the first character of the span
	Start int
	// End is the byte offset just past the last character of the span
	End int
}

func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// Len returns the length of the span in bytes
func (s Span) Len() int {
	return s.End - s.Start
}

// Text returns the substring of doc that the span covers
func (s Span) Text(doc string) string {
	return doc[s.Start:s.End]
}

// StrictlyContains reports whether other lies fully inside s, touching
// neither boundary.
func (s Span) StrictlyContains(other Span) bool {
	return s.Start < other.Start && other.End < s.End
}

// GetLineAndColumn calculates the line and column number for the start of
// the span in doc. Returns zero-based line and byte-column numbers.
func (s Span) GetLineAndColumn(doc string) (line, col int) {
	if s.Start == 0 {
		return 0, 0
	}

	// Count newlines up to the start offset to get the line number
	line = 0
	lastNewline := -1
	for i := 0; i < s.Start && i < len(doc); i++ {
		if doc[i] == '\n' {
			line++
			lastNewline = i
		}
	}

	// Column is just the distance from the last newline
	col = s.Start - lastNewline - 1

	return line, col
}

// DisplayColumn returns the zero-based column of the start of the span
// counted in grapheme clusters rather than bytes, which is what editors
// show for multi-byte text.
func (s Span) DisplayColumn(doc string) int {
	if s.Start == 0 {
		return 0
	}
	lastNewline := strings.LastIndexByte(doc[:s.Start], '\n')
	n, err := textseg.TokenCount([]byte(doc[lastNewline+1:s.Start]), textseg.ScanGraphemeClusters)
	if err != nil {
		// TokenCount only fails on a broken split function; fall back to
		// the byte column
		return s.Start - lastNewline - 1
	}
	return n
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

type SpanArray []Span

func (me SpanArray) ToStrings() []string {
	var texts []string
	for _, s := range me {
		texts = append(texts, s.String())
	}
	return texts
}
