package position

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) in the original template
// source. A nil *Span on a synthesized node means the node is pure
// scaffolding with no originating source.
type Span struct {
	Start int
	End   int
}

func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// Ptr is a convenience for the many synthesized-node fields that take an
// optional span.
func Ptr(start, end int) *Span {
	s := NewSpan(start, end)
	return &s
}

func (s Span) Length() int {
	return s.End - s.Start
}

func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// ContainsSpan reports whether other lies fully inside s.
func (s Span) ContainsSpan(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

func (s Span) OverlapsWith(other Span) bool {
	// Zero-length spans count as overlapping when they fall inside (or on
	// the edge of) the other range.
	if s.Length() == 0 {
		return s.Start >= other.Start && s.Start <= other.End
	}
	if other.Length() == 0 {
		return other.Start >= s.Start && other.Start <= s.End
	}
	return other.Start < s.End && other.End > s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Place is a zero-based line/character pair, the coordinate system most
// editor hosts speak.
type Place struct {
	Line      int
	Character int
}

type Range struct {
	Start Place
	End   Place
}

// PlaceOf converts a byte offset into line/character coordinates against
// the given source text.
func PlaceOf(offset int, text string) Place {
	if offset > len(text) {
		offset = len(text)
	}
	line := 0
	lastNewline := -1
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lastNewline = i
		}
	}
	return Place{Line: line, Character: offset - lastNewline - 1}
}

// RangeIn converts the span into line/character coordinates against the
// given source text.
func (s Span) RangeIn(text string) Range {
	return Range{
		Start: PlaceOf(s.Start, text),
		End:   PlaceOf(s.End, text),
	}
}
