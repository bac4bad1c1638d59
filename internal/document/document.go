package document

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// Document is an immutable snapshot of the editor content.
//
// The zero value is not usable; create documents with Empty or FromBlocks.
type Document struct {
	blocks    []Block
	index     map[Key]int
	entities  map[EntityRef]Entity
	selection Selection
	revision  uint64
}

// Empty creates a document holding one empty unstyled block with the
// cursor at its start.
func Empty(key Key) Document {
	d, _ := FromBlocks([]Block{NewBlock(key, "")}, NewCursor(key, 0))
	return d
}

// FromBlocks creates a document from blocks and a selection.
// The blocks are copied.
func FromBlocks(blocks []Block, sel Selection) (Document, error) {
	if len(blocks) == 0 {
		return Document{}, ErrEmptyDocument
	}
	d := Document{
		entities:  map[EntityRef]Entity{},
		selection: sel,
	}
	d.setBlocks(cloneBlocks(blocks))
	for _, b := range d.blocks {
		if err := b.Validate(); err != nil {
			return Document{}, err
		}
	}
	if len(d.index) != len(d.blocks) {
		return Document{}, ErrDuplicateKey
	}
	return d, nil
}

func cloneBlocks(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = b.Clone()
	}
	return out
}

func (d *Document) setBlocks(blocks []Block) {
	d.blocks = blocks
	d.index = make(map[Key]int, len(blocks))
	for i, b := range blocks {
		d.index[b.Key] = i
	}
}

// copyOnWrite returns a shallow copy of d that may be modified freely:
// the block slice and entity map are fresh, blocks themselves are values.
func (d Document) copyOnWrite() Document {
	c := d
	c.blocks = make([]Block, len(d.blocks))
	copy(c.blocks, d.blocks)
	c.index = make(map[Key]int, len(d.index))
	for k, v := range d.index {
		c.index[k] = v
	}
	c.entities = make(map[EntityRef]Entity, len(d.entities))
	for k, v := range d.entities {
		c.entities[k] = v
	}
	return c
}

// Len returns the number of blocks.
func (d Document) Len() int {
	return len(d.blocks)
}

// Blocks returns a copy of the blocks in order.
func (d Document) Blocks() []Block {
	return cloneBlocks(d.blocks)
}

// BlockAt returns the block at index i.
func (d Document) BlockAt(i int) Block {
	return d.blocks[i].Clone()
}

// Block returns the block with the given key.
func (d Document) Block(key Key) (Block, bool) {
	i, ok := d.index[key]
	if !ok {
		return Block{}, false
	}
	return d.blocks[i].Clone(), true
}

// IndexOf returns the position of the block with the given key, or -1.
func (d Document) IndexOf(key Key) int {
	if i, ok := d.index[key]; ok {
		return i
	}
	return -1
}

// Has reports whether the document contains the key.
func (d Document) Has(key Key) bool {
	_, ok := d.index[key]
	return ok
}

// Selection returns the current selection.
func (d Document) Selection() Selection {
	return d.selection
}

// Revision returns the snapshot revision.
func (d Document) Revision() uint64 {
	return d.revision
}

// Entity returns the entity for ref.
func (d Document) Entity(ref EntityRef) (Entity, bool) {
	e, ok := d.entities[ref]
	e.Data = maps.Clone(e.Data)
	return e, ok
}

// EntityCount returns the number of entities in the entity map.
func (d Document) EntityCount() int {
	return len(d.entities)
}

// EndPoint returns the end-of-content position: the end of the last block.
func (d Document) EndPoint() Point {
	last := d.blocks[len(d.blocks)-1]
	return Point{Key: last.Key, Offset: last.Len()}
}

// Text returns the text of all blocks joined by newlines.
func (d Document) Text() string {
	var sb strings.Builder
	for i, b := range d.blocks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(b.Text)
	}
	return sb.String()
}

// WithSelection returns a copy with the given selection.
func (d Document) WithSelection(sel Selection) Document {
	c := d
	c.selection = sel
	return c
}

// WithRevision returns a copy with the given revision number.
func (d Document) WithRevision(rev uint64) Document {
	c := d
	c.revision = rev
	return c
}

// WithEntity returns a copy whose entity map contains ref.
func (d Document) WithEntity(ref EntityRef, e Entity) Document {
	c := d.copyOnWrite()
	c.entities[ref] = e
	return c
}

// ReplaceBlock returns a copy where the block with b.Key is replaced by b.
func (d Document) ReplaceBlock(b Block) (Document, error) {
	i, ok := d.index[b.Key]
	if !ok {
		return Document{}, fmt.Errorf("%w: %s", ErrBlockNotFound, b.Key)
	}
	c := d.copyOnWrite()
	c.blocks[i] = b.Clone()
	return c, nil
}

// ReplaceWith returns a copy where the block with key is replaced by
// the given blocks, in order.
func (d Document) ReplaceWith(key Key, blocks ...Block) (Document, error) {
	i, ok := d.index[key]
	if !ok {
		return Document{}, fmt.Errorf("%w: %s", ErrBlockNotFound, key)
	}
	next := make([]Block, 0, len(d.blocks)+len(blocks)-1)
	next = append(next, d.blocks[:i]...)
	next = append(next, cloneBlocks(blocks)...)
	next = append(next, d.blocks[i+1:]...)

	c := d.copyOnWrite()
	c.setBlocks(next)
	if len(c.index) != len(c.blocks) {
		return Document{}, ErrDuplicateKey
	}
	if len(c.blocks) == 0 {
		return Document{}, ErrEmptyDocument
	}
	return c, nil
}

// InsertAfter returns a copy with blocks inserted after the block with key.
func (d Document) InsertAfter(key Key, blocks ...Block) (Document, error) {
	b, ok := d.Block(key)
	if !ok {
		return Document{}, fmt.Errorf("%w: %s", ErrBlockNotFound, key)
	}
	return d.ReplaceWith(key, append([]Block{b}, blocks...)...)
}

// Remove returns a copy without the block with key.
func (d Document) Remove(key Key) (Document, error) {
	return d.ReplaceWith(key)
}

// MapBlocks returns a copy where every block is replaced by fn(block).
// fn must keep the block key.
func (d Document) MapBlocks(fn func(Block) (Block, error)) (Document, error) {
	c := d.copyOnWrite()
	for i, b := range d.blocks {
		nb, err := fn(b.Clone())
		if err != nil {
			return Document{}, err
		}
		if nb.Key != b.Key {
			return Document{}, fmt.Errorf("block key changed from %s to %s", b.Key, nb.Key)
		}
		c.blocks[i] = nb
	}
	return c, nil
}

// Validate checks all document invariants: unique keys, valid ranges,
// atomic blocks without text and resolvable entity references.
func (d Document) Validate() error {
	if len(d.blocks) == 0 {
		return ErrEmptyDocument
	}
	if len(d.index) != len(d.blocks) {
		return ErrDuplicateKey
	}
	var errs []error
	for _, b := range d.blocks {
		if err := b.Validate(); err != nil {
			errs = append(errs, err)
		}
		if b.IsAtomic() {
			if _, ok := d.entities[b.Entity]; !ok {
				errs = append(errs, fmt.Errorf("%w: %q in block %s", ErrEntityNotFound, b.Entity, b.Key))
			}
		}
	}
	for _, p := range []Point{d.selection.Anchor, d.selection.Focus} {
		if b, ok := d.Block(p.Key); ok && (p.Offset < 0 || p.Offset > b.Len()) {
			errs = append(errs, fmt.Errorf("%w: selection %s", ErrOffsetOutOfRange, p))
		}
	}
	return errors.Join(errs...)
}
