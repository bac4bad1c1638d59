package document

import "fmt"

// Point is a position inside a block.
type Point struct {
	Key    Key
	Offset Offset
}

// String returns a string representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("%s:%d", p.Key, p.Offset)
}

// Selection represents a range of selected text.
// Anchor is where the selection started; Focus is where typing occurs.
// When Anchor == Focus, this represents a cursor with no selection.
// Selection is an immutable value type.
type Selection struct {
	Anchor Point
	Focus  Point
}

// NewCursor creates a collapsed selection.
func NewCursor(key Key, offset Offset) Selection {
	p := Point{Key: key, Offset: offset}
	return Selection{Anchor: p, Focus: p}
}

// NewSelection creates a selection from anchor to focus.
func NewSelection(anchor, focus Point) Selection {
	return Selection{Anchor: anchor, Focus: focus}
}

// IsCollapsed returns true if the selection has no extent (just a cursor).
func (s Selection) IsCollapsed() bool {
	return s.Anchor == s.Focus
}

// SingleBlock returns true if anchor and focus are in the same block.
func (s Selection) SingleBlock() bool {
	return s.Anchor.Key == s.Focus.Key
}

// Range returns the selected offsets of a single-block selection
// (always Start <= End).
func (s Selection) Range() Range {
	if s.Anchor.Offset <= s.Focus.Offset {
		return Range{Start: s.Anchor.Offset, End: s.Focus.Offset}
	}
	return Range{Start: s.Focus.Offset, End: s.Anchor.Offset}
}

// Collapse collapses the selection to a cursor at the focus.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Focus, Focus: s.Focus}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsCollapsed() {
		return fmt.Sprintf("Cursor(%s)", s.Focus)
	}
	return fmt.Sprintf("Selection(%s→%s)", s.Anchor, s.Focus)
}
