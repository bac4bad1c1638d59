package document

import (
	"fmt"
	"unicode/utf8"
)

// Edit represents a text edit inside one block.
// It specifies a range to replace and the new text.
type Edit struct {
	Range   Range  // The range to replace
	NewText string // The replacement text
}

// NewInsert creates an Edit that inserts text at a position.
func NewInsert(offset Offset, text string) Edit {
	return Edit{
		Range:   Range{Start: offset, End: offset},
		NewText: text,
	}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end Offset) Edit {
	return Edit{
		Range: Range{Start: start, End: end},
	}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range.String())
	}
	return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.NewText)
}

// NewLen returns the length of the replacement text in runes.
func (e Edit) NewLen() Offset {
	return Offset(utf8.RuneCountInString(e.NewText))
}

// Delta returns the change in block length caused by this edit.
func (e Edit) Delta() Offset {
	return e.NewLen() - e.Range.Len()
}

// Apply applies the edit to text and returns the result.
func (e Edit) Apply(text []rune) ([]rune, error) {
	if !e.Range.Within(Offset(len(text))) {
		return nil, fmt.Errorf("%w: %s on length %d", ErrOffsetOutOfRange, e.Range, len(text))
	}
	out := make([]rune, 0, len(text)+int(e.Delta()))
	out = append(out, text[:e.Range.Start]...)
	out = append(out, []rune(e.NewText)...)
	out = append(out, text[e.Range.End:]...)
	return out, nil
}

// TransformOffset updates an offset after an edit.
//
// Transformation rules:
//   - If edit is entirely before offset: adjust offset by the edit's delta
//   - If edit starts at or after offset: offset unchanged
//   - If edit spans offset: move offset to end of new text
func TransformOffset(offset Offset, edit Edit) Offset {
	if edit.Range.End <= offset {
		return offset + edit.Delta()
	}
	if edit.Range.Start >= offset {
		return offset
	}
	return edit.Range.Start + edit.NewLen()
}

// TransformOffsetThrough applies TransformOffset for every edit in order.
// Each edit must be expressed in the coordinates produced by the previous one.
func TransformOffsetThrough(offset Offset, edits []Edit) Offset {
	for _, e := range edits {
		offset = TransformOffset(offset, e)
	}
	return offset
}
