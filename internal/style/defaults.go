package style

import "sync"

// Built-in inline style names.
const (
	Bold          = "bold"
	Italic        = "italic"
	Strikethrough = "strikethrough"
	Code          = "code"
)

// DefaultInline returns the built-in inline descriptors in priority order.
func DefaultInline() []Descriptor {
	return []Descriptor{
		{
			Name:         Bold,
			Pattern:      `((\*{2})|(_{2}))(?<text>.+?)\1`,
			Presentation: Presentation{Bold: true},
		},
		{
			// Single delimiters only; "**a** **b**" must not pair the inner stars.
			Name:         Italic,
			Pattern:      `(?<![*_])(\*|_)(?![*_\s])(?<text>.+?)(?<![*_\s])\1(?![*_])`,
			Presentation: Presentation{Italic: true},
		},
		{
			Name:         Strikethrough,
			Pattern:      `(~{2})(?<text>.+?)\1`,
			Presentation: Presentation{Strikethrough: true},
		},
		{
			Name:    Code,
			Pattern: "(`)(?<text>.+?)\\1",
			Presentation: Presentation{
				Monospace:  true,
				Background: "#eaeaea",
				Foreground: "#202020",
			},
		},
	}
}

// DefaultBlock returns the built-in block descriptors in priority order.
func DefaultBlock() []BlockDescriptor {
	return []BlockDescriptor{
		{Name: "header3", Pattern: `#{3}(?=\s)`, ConsumedLength: 3},
		{Name: "header2", Pattern: `#{2}(?=\s)`, ConsumedLength: 2},
		{Name: "header1", Pattern: `#(?=\s)`, ConsumedLength: 1},
		{Name: "blockquote", Pattern: `>(?=\s)`, ConsumedLength: 1},
		{Name: "code-block", Pattern: "```", ConsumedLength: 3},
		{Name: "unordered-list-item", Pattern: `-(?=\s)`, ConsumedLength: 1},
	}
}

// DefaultShortcuts returns the built-in manual wrap bindings.
func DefaultShortcuts() map[string]string {
	return map[string]string{
		"Ctrl+B": "**",
		"Ctrl+Y": "*",
		"Ctrl+X": "~~",
		"Ctrl+K": "`",
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the built-in registry. It panics if the built-in
// descriptors are malformed.
func Default() *Registry {
	defaultOnce.Do(func() {
		b := NewBuilder()
		for _, d := range DefaultInline() {
			_ = b.Register(d)
		}
		for _, d := range DefaultBlock() {
			_ = b.RegisterBlock(d)
		}
		for spec, delim := range DefaultShortcuts() {
			_ = b.Bind(spec, delim)
		}
		r, err := b.Build()
		if err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
