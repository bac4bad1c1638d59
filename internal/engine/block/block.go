// Package block reclassifies blocks from a leading marker such as "# ".
package block

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dshills/markflow/internal/document"
	"github.com/dshills/markflow/internal/style"
)

var log = commonlog.GetLogger("markflow.engine.block")

// Result is the outcome of Apply.
type Result struct {
	Block document.Block

	// Edits holds the prefix deletion, if any.
	Edits []document.Edit

	// Style is the name of the block style that matched, or empty.
	Style string
}

// Changed reports whether a block style matched.
func (r Result) Changed() bool {
	return r.Style != ""
}

// Apply tries the block styles of reg in order. The first whose pattern
// matches at offset 0 strips its marker, together with the blanks that
// follow it, and sets the block type. At most one style applies.
// Atomic blocks are returned unchanged.
func Apply(b document.Block, reg *style.Registry) (Result, error) {
	if b.IsAtomic() {
		return Result{Block: b}, nil
	}
	text := []rune(b.Text)
	for _, s := range reg.Block() {
		ok, err := s.MatchPrefix(text)
		if err != nil {
			return Result{}, fmt.Errorf("block %s: %w", b.Key, err)
		}
		if !ok {
			continue
		}

		n := s.ConsumedLength
		if n > len(text) {
			return Result{}, fmt.Errorf("%w: block %s: %s consumes %d runes of %d",
				document.ErrInvariant, b.Key, s.Name, n, len(text))
		}
		for n < len(text) && (text[n] == ' ' || text[n] == '\t') {
			n++
		}

		e := document.NewDelete(0, document.Offset(n))
		nb, err := b.ApplyEdit(e)
		if err != nil {
			return Result{}, err
		}
		log.Debugf("block %s: %s -> %s", b.Key, b.Type, s.Type())
		return Result{
			Block: nb.WithType(s.Type()),
			Edits: []document.Edit{e},
			Style: s.Name,
		}, nil
	}
	return Result{Block: b}, nil
}
