package document

import "errors"

// Errors returned by document operations.
var (
	// ErrBlockNotFound indicates a block key is not part of the document.
	ErrBlockNotFound = errors.New("block not found")

	// ErrOffsetOutOfRange indicates an offset is outside the block text.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrInvalidRange indicates a styled range violates 0 <= start <= end <= len.
	ErrInvalidRange = errors.New("invalid range")

	// ErrDuplicateKey indicates two blocks share the same key.
	ErrDuplicateKey = errors.New("duplicate block key")

	// ErrAtomicText indicates an atomic block carries text or ranges.
	ErrAtomicText = errors.New("atomic block carries text")

	// ErrEntityNotFound indicates an entity reference is not in the entity map.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrEmptyDocument indicates a document without blocks.
	ErrEmptyDocument = errors.New("document has no blocks")

	// ErrInvariant indicates a transformation produced an impossible state.
	ErrInvariant = errors.New("invariant violation")
)
