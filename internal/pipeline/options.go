package pipeline

import "github.com/dshills/markflow/internal/document"

// DefaultTabWidth is the number of spaces inserted for Tab.
const DefaultTabWidth = 4

// Option configures a Pipeline during creation.
type Option func(*Pipeline)

// WithKeyFunc sets the generator for new block keys and entity refs.
func WithKeyFunc(fn document.KeyFunc) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.newKey = fn
		}
	}
}

// WithDocument sets the initial document.
func WithDocument(doc document.Document) Option {
	return func(p *Pipeline) {
		p.initial = &doc
	}
}

// WithTabWidth sets the number of spaces inserted for Tab.
func WithTabWidth(width int) Option {
	return func(p *Pipeline) {
		if width > 0 {
			p.tabWidth = width
		}
	}
}
