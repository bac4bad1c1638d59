package pipeline

import (
	"strings"

	"github.com/dshills/markflow/internal/document"
	"github.com/dshills/markflow/internal/engine/block"
	"github.com/dshills/markflow/internal/engine/inline"
	"github.com/dshills/markflow/internal/engine/tracking"
	"github.com/dshills/markflow/internal/input/key"
)

// OnKeyEvent applies one key event and returns the committed document.
// Unbound keys are ignored and return the current document.
func (p *Pipeline) OnKeyEvent(ev key.Event) (document.Document, error) {
	if p.reg.Load() == nil {
		return p.CurrentDocument(), ErrNotInitialized
	}
	if ev.IsModified() {
		if delim, ok := p.keymap.Load().Lookup(ev); ok {
			return p.SurroundSelection(delim)
		}
	}

	switch {
	case ev.Key == key.KeyEnter:
		return p.trigger("enter", (*txn).enter)
	case ev.IsSpace():
		return p.trigger("space", (*txn).space)
	case ev.IsChar():
		r := ev.Rune
		return p.trigger("type", func(tx *txn) error {
			if err := tx.normalizeSelection(); err != nil {
				return err
			}
			return tx.insert(string(r), tx.activeStyles())
		})
	case ev.Key == key.KeyTab && !ev.IsModified():
		return p.trigger("tab", func(tx *txn) error {
			return tx.insert(strings.Repeat(" ", tx.tabWidth), nil)
		})
	case ev.Key == key.KeyBackspace:
		return p.trigger("backspace", (*txn).backspace)
	case ev.Key == key.KeyDelete:
		return p.trigger("delete", (*txn).deleteForward)
	case ev.Key.IsNavigation():
		extend := ev.Modifiers.Has(key.ModShift)
		k := ev.Key
		return p.trigger("move", func(tx *txn) error {
			return tx.move(k, extend)
		})
	}
	return p.CurrentDocument(), nil
}

// enter converts markdown tags in every block, then splits the block at
// the cursor. The cursor is tracked through every rewrite so the split
// lands on the character the user pressed Enter at.
func (tx *txn) enter() error {
	if err := tx.normalizeSelection(); err != nil {
		return err
	}
	tr := tracking.Capture(tx.doc)

	doc, err := tx.doc.MapBlocks(func(b document.Block) (document.Block, error) {
		res, err := inline.Apply(b, tx.reg)
		if err != nil {
			return document.Block{}, err
		}
		tr = tr.Through(b.Key, res.Edits)
		return res.Block, nil
	})
	if err != nil {
		return err
	}
	doc, err = doc.MapBlocks(func(b document.Block) (document.Block, error) {
		res, err := block.Apply(b, tx.reg)
		if err != nil {
			return document.Block{}, err
		}
		tr = tr.Through(b.Key, res.Edits)
		return res.Block, nil
	})
	if err != nil {
		return err
	}

	at, err := tracking.Resolve(doc, tr.Focus)
	if err != nil {
		log.Warningf("enter: %s; splitting at %s", err, at)
	}
	doc, err = tracking.SplitAt(doc, at, tx.newKey())
	if err != nil {
		return err
	}
	tx.doc = doc
	tx.clearOverride()
	return tx.clearActiveStyles()
}

// space ends the active styles before inserting an unstyled space.
func (tx *txn) space() error {
	if err := tx.normalizeSelection(); err != nil {
		return err
	}
	if err := tx.clearActiveStyles(); err != nil {
		return err
	}
	return tx.insert(" ", tx.activeStyles())
}

func (tx *txn) backspace() error {
	sel := tx.selection()
	if !sel.IsCollapsed() {
		return tx.normalizeSelection()
	}
	p := sel.Focus
	b, err := tx.block(p.Key)
	if err != nil {
		return err
	}
	if p.Offset > 0 && !b.IsAtomic() {
		return tx.deleteRange(p.Key, document.NewRange(p.Offset-1, p.Offset))
	}
	if !b.IsAtomic() && b.Type != document.Unstyled {
		return tx.replace(b.WithType(document.Unstyled))
	}

	i := tx.doc.IndexOf(p.Key)
	if i == 0 {
		if b.IsAtomic() && tx.doc.Len() > 1 {
			next := tx.doc.BlockAt(1)
			return tx.removeBlock(b.Key, next.Key, 0)
		}
		return nil
	}
	prev := tx.doc.BlockAt(i - 1)
	switch {
	case b.IsAtomic():
		return tx.removeBlock(b.Key, prev.Key, prev.Len())
	case prev.IsAtomic():
		return tx.removeBlock(prev.Key, b.Key, 0)
	default:
		return tx.join(prev, b)
	}
}

func (tx *txn) deleteForward() error {
	sel := tx.selection()
	if !sel.IsCollapsed() {
		return tx.normalizeSelection()
	}
	p := sel.Focus
	b, err := tx.block(p.Key)
	if err != nil {
		return err
	}
	i := tx.doc.IndexOf(p.Key)
	if b.IsAtomic() {
		switch {
		case i+1 < tx.doc.Len():
			return tx.removeBlock(b.Key, tx.doc.BlockAt(i+1).Key, 0)
		case i > 0:
			prev := tx.doc.BlockAt(i - 1)
			return tx.removeBlock(b.Key, prev.Key, prev.Len())
		}
		return nil
	}
	if p.Offset < b.Len() {
		return tx.deleteRange(p.Key, document.NewRange(p.Offset, p.Offset+1))
	}
	if i+1 >= tx.doc.Len() {
		return nil
	}
	next := tx.doc.BlockAt(i + 1)
	if next.IsAtomic() {
		return tx.removeBlock(next.Key, b.Key, p.Offset)
	}
	return tx.join(b, next)
}

// join appends second to first and puts the cursor at the seam.
func (tx *txn) join(first, second document.Block) error {
	seam := first.Len()
	doc, err := tx.doc.ReplaceBlock(first.Join(second))
	if err != nil {
		return err
	}
	if doc, err = doc.Remove(second.Key); err != nil {
		return err
	}
	tx.doc = doc
	tx.setCursor(first.Key, seam)
	return nil
}

// removeBlock drops block k and moves the cursor to (to, off).
func (tx *txn) removeBlock(k, to document.Key, off document.Offset) error {
	doc, err := tx.doc.Remove(k)
	if err != nil {
		return err
	}
	tx.doc = doc
	tx.setCursor(to, off)
	return nil
}

// move handles cursor navigation. With extend the anchor stays put.
func (tx *txn) move(k key.Key, extend bool) error {
	sel := tx.selection()
	p := sel.Focus
	b, err := tx.block(p.Key)
	if err != nil {
		return err
	}
	i := tx.doc.IndexOf(p.Key)
	last := tx.doc.Len() - 1

	switch k {
	case key.KeyLeft:
		switch {
		case !extend && !sel.IsCollapsed() && sel.SingleBlock():
			p.Offset = sel.Range().Start
		case p.Offset > 0:
			p.Offset--
		case i > 0:
			prev := tx.doc.BlockAt(i - 1)
			p = document.Point{Key: prev.Key, Offset: prev.Len()}
		}
	case key.KeyRight:
		switch {
		case !extend && !sel.IsCollapsed() && sel.SingleBlock():
			p.Offset = sel.Range().End
		case p.Offset < b.Len():
			p.Offset++
		case i < last:
			p = document.Point{Key: tx.doc.BlockAt(i + 1).Key}
		}
	case key.KeyUp, key.KeyPageUp:
		if i > 0 {
			prev := tx.doc.BlockAt(i - 1)
			p = document.Point{Key: prev.Key, Offset: min(p.Offset, prev.Len())}
		} else {
			p.Offset = 0
		}
	case key.KeyDown, key.KeyPageDown:
		if i < last {
			next := tx.doc.BlockAt(i + 1)
			p = document.Point{Key: next.Key, Offset: min(p.Offset, next.Len())}
		} else {
			p.Offset = b.Len()
		}
	case key.KeyHome:
		p.Offset = 0
	case key.KeyEnd:
		p.Offset = b.Len()
	}

	if extend {
		tx.doc = tx.doc.WithSelection(document.NewSelection(sel.Anchor, p))
	} else {
		tx.setCursor(p.Key, p.Offset)
	}
	tx.clearOverride()
	return nil
}
