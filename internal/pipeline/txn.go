package pipeline

import (
	"fmt"
	"sort"

	"github.com/dshills/markflow/internal/document"
	"github.com/dshills/markflow/internal/engine/tracking"
	"github.com/dshills/markflow/internal/style"
)

// txn is the working state of one trigger.
type txn struct {
	doc         document.Document
	reg         *style.Registry
	newKey      document.KeyFunc
	tabWidth    int
	override    []string
	hasOverride bool
}

func newTxn(doc document.Document, reg *style.Registry, p *Pipeline) *txn {
	tx := &txn{
		doc:         doc,
		reg:         reg,
		newKey:      p.newKey,
		tabWidth:    p.tabWidth,
		hasOverride: p.hasOverride,
	}
	if p.hasOverride {
		tx.override = append([]string{}, p.override...)
	}
	tx.resolveSelection()
	return tx
}

// resolveSelection replaces a stale selection with its fallback.
func (tx *txn) resolveSelection() {
	sel, err := tracking.ResolveSelection(tx.doc, tx.doc.Selection())
	if err != nil {
		log.Debugf("selection %s: %s", tx.doc.Selection(), err)
		tx.doc = tx.doc.WithSelection(sel)
	}
}

func (tx *txn) selection() document.Selection {
	return tx.doc.Selection()
}

func (tx *txn) focus() document.Point {
	return tx.doc.Selection().Focus
}

func (tx *txn) block(k document.Key) (document.Block, error) {
	b, ok := tx.doc.Block(k)
	if !ok {
		return document.Block{}, fmt.Errorf("%w: %s", document.ErrBlockNotFound, k)
	}
	return b, nil
}

func (tx *txn) replace(b document.Block) error {
	doc, err := tx.doc.ReplaceBlock(b)
	if err != nil {
		return err
	}
	tx.doc = doc
	return nil
}

func (tx *txn) setCursor(k document.Key, off document.Offset) {
	tx.doc = tx.doc.WithSelection(document.NewCursor(k, off))
}

func (tx *txn) clearOverride() {
	tx.override, tx.hasOverride = nil, false
}

// normalizeSelection deletes a selection inside one block and collapses a
// selection that spans blocks to its focus.
func (tx *txn) normalizeSelection() error {
	sel := tx.selection()
	if sel.IsCollapsed() {
		return nil
	}
	if !sel.SingleBlock() {
		tx.doc = tx.doc.WithSelection(sel.Collapse())
		return nil
	}
	return tx.deleteRange(sel.Focus.Key, sel.Range())
}

// deleteRange removes r from block k and places the cursor at r.Start.
func (tx *txn) deleteRange(k document.Key, r document.Range) error {
	b, err := tx.block(k)
	if err != nil {
		return err
	}
	if b.IsAtomic() {
		return fmt.Errorf("delete: %w", ErrAtomicBlock)
	}
	if !r.IsEmpty() {
		nb, err := b.ApplyEdit(document.NewDelete(r.Start, r.End))
		if err != nil {
			return err
		}
		if err := tx.replace(nb); err != nil {
			return err
		}
	}
	tx.setCursor(k, r.Start)
	return nil
}

// insert types text at the cursor with the given styles.
func (tx *txn) insert(text string, styles []string) error {
	if err := tx.normalizeSelection(); err != nil {
		return err
	}
	p := tx.focus()
	b, err := tx.block(p.Key)
	if err != nil {
		return err
	}
	if b.IsAtomic() {
		return fmt.Errorf("insert: %w", ErrAtomicBlock)
	}
	nb, err := b.InsertText(p.Offset, text, styles)
	if err != nil {
		return err
	}
	if err := tx.replace(nb); err != nil {
		return err
	}
	tx.setCursor(p.Key, p.Offset+document.NewInsert(0, text).NewLen())
	tx.clearOverride()
	return nil
}

// activeStyles returns the styles applied to typed text: the override if
// one is set, otherwise the styles of the character before the cursor.
func (tx *txn) activeStyles() []string {
	if tx.hasOverride {
		return append([]string(nil), tx.override...)
	}
	p := tx.focus()
	b, ok := tx.doc.Block(p.Key)
	if !ok || b.IsAtomic() {
		return nil
	}
	return b.StylesAt(p.Offset)
}

// toggleInlineStyle flips one style. With a collapsed selection only the
// override changes; otherwise the selected text is restyled. Only
// registered styles can be switched on.
func (tx *txn) toggleInlineStyle(name string) error {
	sel := tx.selection()
	if sel.IsCollapsed() {
		active := tx.activeStyles()
		next := make([]string, 0, len(active)+1)
		found := false
		for _, s := range active {
			if s == name {
				found = true
				continue
			}
			next = append(next, s)
		}
		if !found {
			if err := tx.checkStyle(name); err != nil {
				return err
			}
			next = append(next, name)
			sort.Strings(next)
		}
		tx.override, tx.hasOverride = next, true
		return nil
	}
	if !sel.SingleBlock() {
		return ErrSelectionSpansBlocks
	}

	b, err := tx.block(sel.Focus.Key)
	if err != nil {
		return err
	}
	if b.IsAtomic() {
		return fmt.Errorf("toggle %s: %w", name, ErrAtomicBlock)
	}
	r := sel.Range()
	var ranges []document.StyledRange
	if document.Covers(b.Ranges, name, r) {
		ranges = document.RemoveStyle(b.Ranges, name, r)
	} else {
		if err := tx.checkStyle(name); err != nil {
			return err
		}
		ranges = document.AddRange(b.Ranges, document.NewStyledRange(name, r.Start, r.End))
	}
	return tx.replace(b.WithText(b.Text, ranges))
}

func (tx *txn) checkStyle(name string) error {
	if _, ok := tx.reg.Lookup(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}
	return nil
}

// clearActiveStyles deactivates every active style one at a time. The
// selection must be collapsed.
func (tx *txn) clearActiveStyles() error {
	for _, s := range tx.activeStyles() {
		if err := tx.toggleInlineStyle(s); err != nil {
			return err
		}
	}
	return nil
}
