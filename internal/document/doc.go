// Package document provides the block model of a markflow document.
//
// A Document is an immutable snapshot: an ordered list of blocks, the
// entity map referenced by atomic blocks, the current selection and a
// revision number. Every mutating method returns a new Document and leaves
// the receiver untouched, so a snapshot that has been handed out can be
// read while the next one is computed.
//
// # Offsets
//
// All offsets are rune indices into a block's text. Styled ranges are
// half-open [Start, End) intervals in the same coordinates.
//
// # Edits
//
// Text mutations are described by Edit values. The Transform and Adjust
// helpers remap offsets through an edit so that ranges and cursors can be
// carried across a chain of rewrites without recomputing them from scratch.
package document
