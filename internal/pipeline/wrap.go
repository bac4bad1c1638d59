package pipeline

import (
	"fmt"

	"github.com/dshills/markflow/internal/document"
)

// SurroundSelection wraps the selected text in delimiter on both sides,
// leaving the text itself unstyled until the next Enter. The selection
// keeps covering the same characters. With a collapsed selection the
// delimiter pair is inserted and the cursor placed between the halves.
func (p *Pipeline) SurroundSelection(delimiter string) (document.Document, error) {
	if delimiter == "" {
		return p.CurrentDocument(), ErrEmptyDelimiter
	}
	return p.trigger("surround", func(tx *txn) error {
		return tx.surround(delimiter)
	})
}

func (tx *txn) surround(delimiter string) error {
	sel := tx.selection()
	if !sel.SingleBlock() {
		return ErrSelectionSpansBlocks
	}
	b, err := tx.block(sel.Focus.Key)
	if err != nil {
		return err
	}
	if b.IsAtomic() {
		return fmt.Errorf("surround: %w", ErrAtomicBlock)
	}

	r := sel.Range()
	n := document.NewInsert(0, delimiter).NewLen()
	if b, err = b.InsertText(r.End, delimiter, nil); err != nil {
		return err
	}
	if b, err = b.InsertText(r.Start, delimiter, nil); err != nil {
		return err
	}
	if err := tx.replace(b); err != nil {
		return err
	}

	anchor, focus := sel.Anchor, sel.Focus
	anchor.Offset += n
	focus.Offset += n
	tx.doc = tx.doc.WithSelection(document.NewSelection(anchor, focus))
	return nil
}
