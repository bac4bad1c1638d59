// Package inline converts delimiter pairs inside a block into styled ranges.
//
// Apply runs passes over the block until a pass changes nothing. Within a
// pass every style of the registry is tried once, in registry order, and
// only its first match is replaced. The scan of each style restarts at
// offset 0 of the current text, so nested delimiters of different kinds
// resolve over successive passes:
//
//	"a **bold** b"   -> "a bold b"  bold[2:6)
//	"**~~x~~**"      -> "x"         bold[0:1) strikethrough[0:1)
//
// Each replacement is recorded as two deletion edits, closing delimiter
// first, so callers can remap positions captured before the rewrite.
package inline

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dshills/markflow/internal/document"
	"github.com/dshills/markflow/internal/style"
)

var log = commonlog.GetLogger("markflow.engine.inline")

// Result is the outcome of Apply.
type Result struct {
	// Block is the rewritten block.
	Block document.Block

	// Edits are the deletions performed, in order. Each edit is expressed
	// in the coordinates produced by the previous one.
	Edits []document.Edit

	// Applied lists the styled ranges created, in final coordinates.
	Applied []document.StyledRange

	// Passes is the number of passes run.
	Passes int
}

// Changed reports whether the block text was rewritten.
func (r Result) Changed() bool {
	return len(r.Edits) > 0
}

// Apply replaces every recognised delimiter pair of b with its content and
// styles the content. Atomic blocks are returned unchanged.
func Apply(b document.Block, reg *style.Registry) (Result, error) {
	if b.IsAtomic() {
		return Result{Block: b}, nil
	}

	st := &state{
		text:   []rune(b.Text),
		ranges: append([]document.StyledRange(nil), b.Ranges...),
	}
	styles := reg.Inline()

	// Every replacement removes at least two runes.
	maxPasses := len(st.text)/2 + 1

	changed := true
	passes := 0
	for changed {
		if passes > maxPasses {
			return Result{}, fmt.Errorf("%w: block %s: no fixpoint after %d passes", document.ErrInvariant, b.Key, passes)
		}
		passes++
		changed = false
		st.pass = st.pass[:0]

		for _, s := range styles {
			m, ok, err := s.FindFirst(st.text, 0)
			if err != nil {
				return Result{}, fmt.Errorf("block %s: %w", b.Key, err)
			}
			if !ok {
				continue
			}
			if st.crossesPass(m) {
				log.Debugf("block %s: deferring %s match at [%d:%d)", b.Key, s.Name, m.Start, m.End)
				continue
			}
			if err := st.replace(s.Name, m); err != nil {
				return Result{}, fmt.Errorf("block %s: %w", b.Key, err)
			}
			changed = true
		}
	}

	res := Result{Block: b, Passes: passes}
	if len(st.edits) == 0 {
		return res, nil
	}
	res.Block = b.WithText(string(st.text), st.ranges)
	res.Edits = st.edits
	res.Applied = st.applied
	log.Debugf("block %s: %d styles applied in %d passes", b.Key, len(st.applied), passes)
	return res, nil
}

type state struct {
	text    []rune
	ranges  []document.StyledRange
	edits   []document.Edit
	applied []document.StyledRange
	pass    []document.Range // spans replaced during the current pass
}

// crossesPass reports whether m partially overlaps content replaced
// earlier in the current pass.
func (st *state) crossesPass(m style.Match) bool {
	span := document.NewRange(m.Start, m.End)
	for _, r := range st.pass {
		if span.Crosses(r) {
			return true
		}
	}
	return false
}

func (st *state) replace(name string, m style.Match) error {
	n := document.Offset(len(st.text))
	innerEnd := m.InnerEnd()
	switch {
	case m.DelimLen <= 0:
		return fmt.Errorf("%w: %s matched an empty delimiter at %d", document.ErrInvariant, name, m.Start)
	case m.Start < 0 || m.End > n || m.Start >= m.End:
		return fmt.Errorf("%w: %s match [%d:%d) outside text of length %d", document.ErrInvariant, name, m.Start, m.End, n)
	case m.InnerStart <= m.Start || innerEnd >= m.End || innerEnd < m.InnerStart:
		return fmt.Errorf("%w: %s content [%d:%d) not enclosed by delimiters [%d:%d)",
			document.ErrInvariant, name, m.InnerStart, innerEnd, m.Start, m.End)
	}

	closing := document.NewDelete(innerEnd, m.End)
	opening := document.NewDelete(m.Start, m.InnerStart)
	for _, e := range []document.Edit{closing, opening} {
		text, err := e.Apply(st.text)
		if err != nil {
			return fmt.Errorf("%w: %v", document.ErrInvariant, err)
		}
		st.text = text
		st.ranges = document.TransformRanges(st.ranges, e)
		st.applied = shift(st.applied, e)
		for i, r := range st.pass {
			st.pass[i] = document.NewRange(document.TransformOffset(r.Start, e), document.TransformOffset(r.End, e))
		}
		st.edits = append(st.edits, e)
	}

	added := document.NewStyledRange(name, m.Start, m.Start+document.Offset(len([]rune(m.Inner))))
	st.ranges = document.AddRange(st.ranges, added)
	st.applied = append(st.applied, added)
	st.pass = append(st.pass, added.Range())
	return nil
}

// shift remaps ranges through e without merging them.
func shift(ranges []document.StyledRange, e document.Edit) []document.StyledRange {
	for i, r := range ranges {
		ranges[i].Start = document.TransformOffset(r.Start, e)
		ranges[i].End = document.TransformOffset(r.End, e)
	}
	return ranges
}
