package pipeline

import (
	"errors"

	"github.com/dshills/markflow/internal/document"
)

// Errors returned by pipeline operations.
var (
	// ErrNotInitialized indicates a trigger arrived before a style
	// registry was installed.
	ErrNotInitialized = errors.New("pipeline not initialized")

	// ErrInvariant indicates a trigger produced an invalid document. The
	// trigger is aborted and nothing is committed.
	ErrInvariant = document.ErrInvariant

	// ErrSelectionSpansBlocks indicates an operation that needs a
	// selection inside a single block.
	ErrSelectionSpansBlocks = errors.New("selection spans blocks")

	// ErrEmptyDelimiter indicates a wrap request without a delimiter.
	ErrEmptyDelimiter = errors.New("empty delimiter")

	// ErrUnknownStyle indicates a style name missing from the registry.
	ErrUnknownStyle = errors.New("unknown inline style")

	// ErrAtomicBlock indicates a text operation on an atomic block.
	ErrAtomicBlock = errors.New("operation not allowed on atomic block")
)
