package document

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Key is an opaque, stable block identifier.
type Key string

// KeyFunc generates fresh block keys.
type KeyFunc func() Key

// NewKey returns a random block key.
func NewKey() Key {
	return Key(uuid.NewString())
}

// BlockType classifies a block.
type BlockType string

// Built-in block types. Block style descriptors may introduce further names.
const (
	Unstyled          BlockType = "unstyled"
	HeaderOne         BlockType = "header1"
	HeaderTwo         BlockType = "header2"
	HeaderThree       BlockType = "header3"
	Blockquote        BlockType = "blockquote"
	CodeBlock         BlockType = "code-block"
	UnorderedListItem BlockType = "unordered-list-item"
	Atomic            BlockType = "atomic"
)

// Block is a paragraph-like unit of text with its own type and styled ranges.
// Block is a value type; methods never modify the receiver.
type Block struct {
	Key    Key
	Type   BlockType
	Text   string
	Ranges []StyledRange

	// Entity and Placeholder are only set on atomic blocks.
	Entity      EntityRef
	Placeholder string
}

// NewBlock creates an unstyled block.
func NewBlock(key Key, text string) Block {
	return Block{Key: key, Type: Unstyled, Text: text}
}

// NewAtomicBlock creates an atomic block referencing an entity.
func NewAtomicBlock(key Key, ref EntityRef, placeholder string) Block {
	return Block{Key: key, Type: Atomic, Entity: ref, Placeholder: placeholder}
}

// Len returns the text length in runes.
func (b Block) Len() Offset {
	return Offset(utf8.RuneCountInString(b.Text))
}

// IsAtomic reports whether the block holds an entity instead of text.
func (b Block) IsAtomic() bool {
	return b.Type == Atomic
}

// Clone returns a copy that shares no slices with b.
func (b Block) Clone() Block {
	c := b
	if b.Ranges != nil {
		c.Ranges = make([]StyledRange, len(b.Ranges))
		copy(c.Ranges, b.Ranges)
	}
	return c
}

// WithText returns a copy with the given text and ranges.
func (b Block) WithText(text string, ranges []StyledRange) Block {
	c := b
	c.Text = text
	c.Ranges = NormalizeRanges(ranges)
	return c
}

// WithType returns a copy with the given type.
func (b Block) WithType(t BlockType) Block {
	c := b.Clone()
	c.Type = t
	return c
}

// StylesAt returns the inline styles in effect at offset.
func (b Block) StylesAt(offset Offset) []string {
	return StylesAt(b.Ranges, offset)
}

// ApplyEdit applies a text edit, remapping styled ranges through it.
func (b Block) ApplyEdit(e Edit) (Block, error) {
	text, err := e.Apply([]rune(b.Text))
	if err != nil {
		return Block{}, fmt.Errorf("block %s: %w", b.Key, err)
	}
	return b.WithText(string(text), TransformRanges(b.Ranges, e)), nil
}

// InsertText inserts text at offset, styling it with the active styles.
func (b Block) InsertText(at Offset, text string, active []string) (Block, error) {
	e := NewInsert(at, text)
	runes, err := e.Apply([]rune(b.Text))
	if err != nil {
		return Block{}, fmt.Errorf("block %s: %w", b.Key, err)
	}
	return b.WithText(string(runes), InsertRanges(b.Ranges, at, e.NewLen(), active)), nil
}

// Split divides the block at offset. The left part keeps key and type;
// the right part gets newKey and the given type.
func (b Block) Split(at Offset, newKey Key, rightType BlockType) (Block, Block, error) {
	if at < 0 || at > b.Len() {
		return Block{}, Block{}, fmt.Errorf("%w: split at %d in block %s of length %d",
			ErrOffsetOutOfRange, at, b.Key, b.Len())
	}
	runes := []rune(b.Text)
	leftRanges, rightRanges := SplitRanges(b.Ranges, at)

	left := b.Clone()
	left.Text = string(runes[:at])
	left.Ranges = leftRanges

	right := Block{
		Key:    newKey,
		Type:   rightType,
		Text:   string(runes[at:]),
		Ranges: rightRanges,
	}
	return left, right, nil
}

// Join appends the text and ranges of other to b.
func (b Block) Join(other Block) Block {
	shift := b.Len()
	ranges := make([]StyledRange, 0, len(b.Ranges)+len(other.Ranges))
	ranges = append(ranges, b.Ranges...)
	ranges = append(ranges, ShiftRanges(other.Ranges, shift)...)
	return b.WithText(b.Text+other.Text, ranges)
}

// Validate checks the block invariants.
func (b Block) Validate() error {
	if b.IsAtomic() {
		if b.Text != "" || len(b.Ranges) > 0 {
			return fmt.Errorf("%w: %s", ErrAtomicText, b.Key)
		}
		return nil
	}
	n := b.Len()
	for _, r := range b.Ranges {
		if !r.Range().Within(n) {
			return fmt.Errorf("%w: %s in block %s of length %d", ErrInvalidRange, r, b.Key, n)
		}
	}
	return nil
}
