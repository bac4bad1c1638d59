package pipeline

import (
	"fmt"
	"maps"

	"github.com/dshills/markflow/internal/document"
)

// CreateEntity registers an entity in the document and returns its
// reference.
func (p *Pipeline) CreateEntity(kind string, data map[string]any) (document.EntityRef, error) {
	if kind == "" {
		return "", fmt.Errorf("create entity: empty kind")
	}
	var ref document.EntityRef
	_, err := p.trigger("create-entity", func(tx *txn) error {
		var err error
		ref, err = tx.createEntity(kind, data)
		return err
	})
	if err != nil {
		return "", err
	}
	return ref, nil
}

// InsertAtomicBlock inserts an atomic block for ref after the cursor
// block, splitting that block at the cursor. The text after the cursor
// moves to a new unstyled block following the atomic one, which receives
// the cursor; that block is empty when the cursor was at the end.
func (p *Pipeline) InsertAtomicBlock(ref document.EntityRef, placeholder string) (document.Document, error) {
	return p.trigger("insert-atomic", func(tx *txn) error {
		return tx.insertAtomic(ref, placeholder)
	})
}

// InsertEntityBlock creates an entity and inserts its atomic block in a
// single commit. Nothing is committed when either step fails.
func (p *Pipeline) InsertEntityBlock(kind string, data map[string]any, placeholder string) (document.Document, error) {
	if kind == "" {
		return p.CurrentDocument(), fmt.Errorf("insert entity block: empty kind")
	}
	return p.trigger("insert-entity-block", func(tx *txn) error {
		ref, err := tx.createEntity(kind, data)
		if err != nil {
			return err
		}
		return tx.insertAtomic(ref, placeholder)
	})
}

func (tx *txn) createEntity(kind string, data map[string]any) (document.EntityRef, error) {
	ref := document.EntityRef(tx.newKey())
	if _, exists := tx.doc.Entity(ref); exists {
		return "", fmt.Errorf("entity %s already exists", ref)
	}
	tx.doc = tx.doc.WithEntity(ref, document.Entity{Kind: kind, Data: maps.Clone(data)})
	return ref, nil
}

func (tx *txn) insertAtomic(ref document.EntityRef, placeholder string) error {
	if _, ok := tx.doc.Entity(ref); !ok {
		return fmt.Errorf("%w: %s", document.ErrEntityNotFound, ref)
	}
	if err := tx.normalizeSelection(); err != nil {
		return err
	}
	p := tx.focus()
	b, err := tx.block(p.Key)
	if err != nil {
		return err
	}

	atomic := document.NewAtomicBlock(tx.newKey(), ref, placeholder)
	var after document.Block
	var blocks []document.Block
	if b.IsAtomic() {
		after = document.NewBlock(tx.newKey(), "")
		blocks = []document.Block{b, atomic, after}
	} else {
		var before document.Block
		before, after, err = b.Split(p.Offset, tx.newKey(), document.Unstyled)
		if err != nil {
			return err
		}
		blocks = []document.Block{before, atomic, after}
	}

	doc, err := tx.doc.ReplaceWith(b.Key, blocks...)
	if err != nil {
		return err
	}
	tx.doc = doc
	tx.setCursor(after.Key, 0)
	tx.clearOverride()
	return nil
}
