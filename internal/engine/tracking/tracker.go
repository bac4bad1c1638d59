package tracking

import (
	"errors"
	"fmt"

	"github.com/dshills/markflow/internal/document"
)

// ErrStaleSelection indicates a tracked point no longer resolves. It is
// recoverable: Resolve still returns a usable fallback point.
var ErrStaleSelection = errors.New("stale selection")

// Tracked is a selection captured before a rewrite.
type Tracked struct {
	Anchor document.Point
	Focus  document.Point
}

// Capture records the selection of doc.
func Capture(doc document.Document) Tracked {
	sel := doc.Selection()
	return Tracked{Anchor: sel.Anchor, Focus: sel.Focus}
}

// Through remaps the points in block key through edits, applied in order.
// Points in other blocks are unchanged.
func (t Tracked) Through(key document.Key, edits []document.Edit) Tracked {
	if len(edits) == 0 {
		return t
	}
	if t.Anchor.Key == key {
		t.Anchor.Offset = document.TransformOffsetThrough(t.Anchor.Offset, edits)
	}
	if t.Focus.Key == key {
		t.Focus.Offset = document.TransformOffsetThrough(t.Focus.Offset, edits)
	}
	return t
}

// Selection returns the tracked points as a selection.
func (t Tracked) Selection() document.Selection {
	return document.NewSelection(t.Anchor, t.Focus)
}

// Resolve checks p against doc. A point in a missing block falls back to
// the end of the document; an offset past the end of its block is clamped.
// Both cases return the fallback together with ErrStaleSelection.
func Resolve(doc document.Document, p document.Point) (document.Point, error) {
	b, ok := doc.Block(p.Key)
	if !ok {
		return doc.EndPoint(), fmt.Errorf("%w: block %s not found", ErrStaleSelection, p.Key)
	}
	if p.Offset < 0 {
		return document.Point{Key: p.Key}, fmt.Errorf("%w: negative offset %d", ErrStaleSelection, p.Offset)
	}
	if n := b.Len(); p.Offset > n {
		return document.Point{Key: p.Key, Offset: n}, fmt.Errorf("%w: offset %d past end of block %s (%d)",
			ErrStaleSelection, p.Offset, p.Key, n)
	}
	return p, nil
}

// ResolveSelection resolves both points of sel. The returned error is the
// first staleness encountered, if any.
func ResolveSelection(doc document.Document, sel document.Selection) (document.Selection, error) {
	anchor, aerr := Resolve(doc, sel.Anchor)
	focus, ferr := Resolve(doc, sel.Focus)
	if aerr != nil {
		return document.NewSelection(anchor, focus), aerr
	}
	return document.NewSelection(anchor, focus), ferr
}

// SplitAt splits the block holding p at p.Offset. The second half gets
// newKey and type unstyled; the selection moves to its start. Splitting
// an atomic block inserts an empty block after it instead.
func SplitAt(doc document.Document, p document.Point, newKey document.Key) (document.Document, error) {
	b, ok := doc.Block(p.Key)
	if !ok {
		return doc, fmt.Errorf("split: %w: %s", document.ErrBlockNotFound, p.Key)
	}
	if doc.Has(newKey) {
		return doc, fmt.Errorf("split: %w: %s", document.ErrDuplicateKey, newKey)
	}

	var next document.Document
	var err error
	if b.IsAtomic() {
		next, err = doc.InsertAfter(b.Key, document.NewBlock(newKey, ""))
	} else {
		var left, right document.Block
		left, right, err = b.Split(p.Offset, newKey, document.Unstyled)
		if err != nil {
			return doc, fmt.Errorf("split: %w", err)
		}
		next, err = doc.ReplaceWith(b.Key, left, right)
	}
	if err != nil {
		return doc, fmt.Errorf("split: %w", err)
	}
	return next.WithSelection(document.NewCursor(newKey, 0)), nil
}
