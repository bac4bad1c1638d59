package style

import (
	"time"

	"github.com/dshills/markflow/internal/document"
)

// DefaultMatchTimeout bounds a single pattern match.
const DefaultMatchTimeout = 250 * time.Millisecond

// Registry is an immutable, ordered set of compiled style descriptors.
type Registry struct {
	inline    []*Inline
	block     []*BlockStyle
	byName    map[string]*Inline
	shortcuts map[string]string
}

// Builder collects descriptors and validates each one as it is registered.
type Builder struct {
	timeout   time.Duration
	inline    []*Inline
	block     []*BlockStyle
	names     map[string]bool
	blocks    map[string]bool
	shortcuts map[string]string
	err       error
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithMatchTimeout sets the per-match timeout of compiled patterns.
func WithMatchTimeout(d time.Duration) BuilderOption {
	return func(b *Builder) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		timeout:   DefaultMatchTimeout,
		names:     make(map[string]bool),
		blocks:    make(map[string]bool),
		shortcuts: make(map[string]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register compiles and appends an inline descriptor.
// It fails with *ConfigError if the descriptor is malformed.
func (b *Builder) Register(d Descriptor) error {
	if b.names[d.Name] && d.Name != "" {
		return b.fail(configErr(d.Name, d.Pattern, "duplicate inline style", nil))
	}
	s, err := compileInline(d, b.timeout)
	if err != nil {
		return b.fail(err)
	}
	b.names[d.Name] = true
	b.inline = append(b.inline, s)
	return nil
}

// RegisterBlock compiles and appends a block descriptor.
// It fails with *ConfigError if the descriptor is malformed.
func (b *Builder) RegisterBlock(d BlockDescriptor) error {
	if b.blocks[d.Name] && d.Name != "" {
		return b.fail(configErr(d.Name, d.Pattern, "duplicate block style", nil))
	}
	s, err := compileBlock(d, b.timeout)
	if err != nil {
		return b.fail(err)
	}
	b.blocks[d.Name] = true
	b.block = append(b.block, s)
	return nil
}

// Bind maps a shortcut key specification (e.g. "Ctrl+B") to a delimiter
// used for manual wrapping.
func (b *Builder) Bind(spec, delimiter string) error {
	if spec == "" || delimiter == "" {
		return b.fail(configErr("keymap", "", "shortcut and delimiter must be non-empty", nil))
	}
	b.shortcuts[spec] = delimiter
	return nil
}

func (b *Builder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}
	return err
}

// Build returns the registry. It fails with the first registration error.
func (b *Builder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	r := &Registry{
		inline:    append([]*Inline(nil), b.inline...),
		block:     append([]*BlockStyle(nil), b.block...),
		byName:    make(map[string]*Inline, len(b.inline)),
		shortcuts: make(map[string]string, len(b.shortcuts)),
	}
	for _, s := range r.inline {
		r.byName[s.Name] = s
	}
	for k, v := range b.shortcuts {
		r.shortcuts[k] = v
	}
	log.Debugf("registry built: %d inline, %d block styles", len(r.inline), len(r.block))
	return r, nil
}

// NewRegistry builds a registry from descriptors in priority order.
func NewRegistry(inline []Descriptor, block []BlockDescriptor, opts ...BuilderOption) (*Registry, error) {
	b := NewBuilder(opts...)
	for _, d := range inline {
		if err := b.Register(d); err != nil {
			return nil, err
		}
	}
	for _, d := range block {
		if err := b.RegisterBlock(d); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// Inline returns the inline styles in priority order.
func (r *Registry) Inline() []*Inline {
	return append([]*Inline(nil), r.inline...)
}

// Block returns the block styles in priority order.
func (r *Registry) Block() []*BlockStyle {
	return append([]*BlockStyle(nil), r.block...)
}

// InlineNames returns the inline style names in priority order.
func (r *Registry) InlineNames() []string {
	names := make([]string, len(r.inline))
	for i, s := range r.inline {
		names[i] = s.Name
	}
	return names
}

// Lookup returns the inline style with the given name.
func (r *Registry) Lookup(name string) (*Inline, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// IsBlockType reports whether t is produced by one of the block styles.
func (r *Registry) IsBlockType(t document.BlockType) bool {
	for _, s := range r.block {
		if s.Type() == t {
			return true
		}
	}
	return false
}

// Shortcuts returns a copy of the shortcut-to-delimiter bindings.
func (r *Registry) Shortcuts() map[string]string {
	out := make(map[string]string, len(r.shortcuts))
	for k, v := range r.shortcuts {
		out[k] = v
	}
	return out
}
