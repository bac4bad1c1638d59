// Package tracking keeps the cursor attached to the same character while
// the engines rewrite block text.
//
// A trigger captures the selection before any rewrite, feeds every edit
// the engines report through the captured points, and finally resolves
// the result against the rewritten document:
//
//	tr := tracking.Capture(doc)
//	res, _ := inline.Apply(b, reg)
//	tr = tr.Through(b.Key, res.Edits)
//	p, err := tracking.Resolve(next, tr.Focus)
//	if errors.Is(err, tracking.ErrStaleSelection) {
//	    // p is still usable: it falls back to the end of the document
//	}
//
// SplitAt then divides the focused block at the resolved point.
package tracking
