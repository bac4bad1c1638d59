package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dshills/markflow/internal/document"
	"github.com/dshills/markflow/internal/input/key"
	"github.com/dshills/markflow/internal/style"
)

// Observer is notified with every committed document.
type Observer func(document.Document)

// Pipeline serializes editing triggers over an immutable Document.
// All methods are safe for concurrent use.
type Pipeline struct {
	// mu serializes triggers and registry swaps.
	mu sync.Mutex

	state  atomic.Int32
	doc    atomic.Pointer[document.Document]
	reg    atomic.Pointer[style.Registry]
	keymap atomic.Pointer[key.Keymap]

	// override replaces the position-derived active styles until the
	// cursor moves or text is inserted. Guarded by mu.
	override    []string
	hasOverride bool

	obsMu     sync.Mutex
	observers []observer
	nextObsID uint64

	newKey   document.KeyFunc
	tabWidth int
	initial  *document.Document
}

type observer struct {
	id uint64
	fn Observer
}

// New creates an uninitialized pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		newKey:   document.NewKey,
		tabWidth: DefaultTabWidth,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.initial == nil {
		doc := document.Empty(p.newKey())
		p.initial = &doc
	}
	p.doc.Store(p.initial)
	p.initial = nil
	return p
}

// Initialize fetches the style registry from provider and makes the
// pipeline ready for edits. A *style.ConfigError is returned and leaves
// the pipeline uninitialized. Any other provider failure falls back to
// the built-in registry. A nil provider installs the built-in registry.
func (p *Pipeline) Initialize(ctx context.Context, provider style.Provider) error {
	reg := style.Default()
	if provider != nil {
		fetched, err := provider.FetchStyleRegistry(ctx)
		switch {
		case errors.Is(err, style.ErrConfig):
			log.Errorf("style registry rejected: %s", err)
			return err
		case err != nil:
			log.Warningf("style registry unavailable, using defaults: %s", err)
		case fetched != nil:
			reg = fetched
		}
	}
	if err := p.SetRegistry(reg); err != nil {
		return err
	}
	log.Infof("pipeline initialized with %d inline and %d block styles", len(reg.Inline()), len(reg.Block()))
	return nil
}

// Reload fetches a new registry and swaps it in between triggers. On any
// failure the current registry is kept and the error returned.
func (p *Pipeline) Reload(ctx context.Context, provider style.Provider) error {
	reg, err := provider.FetchStyleRegistry(ctx)
	if err != nil {
		log.Warningf("reload failed, keeping current registry: %s", err)
		return err
	}
	if reg == nil {
		return fmt.Errorf("reload: provider returned no registry")
	}
	if err := p.SetRegistry(reg); err != nil {
		return err
	}
	log.Infof("style registry reloaded")
	return nil
}

// SetRegistry installs reg and its shortcut keymap. It waits for the
// running trigger, if any.
func (p *Pipeline) SetRegistry(reg *style.Registry) error {
	if reg == nil {
		return fmt.Errorf("set registry: nil registry")
	}
	km, err := key.NewKeymap(reg.Shortcuts())
	if err != nil {
		return &style.ConfigError{Descriptor: "keymap", Reason: "invalid shortcut", Err: err}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.reg.Store(reg)
	p.keymap.Store(km)
	p.state.CompareAndSwap(int32(StateUninitialized), int32(StateIdle))
	return nil
}

// Registry returns the installed registry, or nil before initialization.
func (p *Pipeline) Registry() *style.Registry {
	return p.reg.Load()
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// CurrentDocument returns the last committed document.
func (p *Pipeline) CurrentDocument() document.Document {
	return *p.doc.Load()
}

// Subscribe registers fn to be called after every commit, in
// subscription order. The returned function removes the subscription.
func (p *Pipeline) Subscribe(fn Observer) (unsubscribe func()) {
	p.obsMu.Lock()
	defer p.obsMu.Unlock()
	p.nextObsID++
	id := p.nextObsID
	p.observers = append(p.observers, observer{id: id, fn: fn})
	return func() {
		p.obsMu.Lock()
		defer p.obsMu.Unlock()
		for i, o := range p.observers {
			if o.id == id {
				p.observers = append(p.observers[:i:i], p.observers[i+1:]...)
				return
			}
		}
	}
}

// trigger runs fn against the committed document and commits the result.
// On error the committed document is returned unchanged.
func (p *Pipeline) trigger(name string, fn func(tx *txn) error) (document.Document, error) {
	p.mu.Lock()

	cur := *p.doc.Load()
	reg := p.reg.Load()
	if reg == nil {
		p.mu.Unlock()
		return cur, ErrNotInitialized
	}

	p.setState(StateScanning)
	tx := newTxn(cur, reg, p)
	if err := run(tx, fn); err != nil {
		p.setState(StateIdle)
		p.mu.Unlock()
		log.Errorf("%s aborted: %s", name, err)
		return cur, fmt.Errorf("%s: %w", name, err)
	}

	p.setState(StateCommitting)
	next := tx.doc.WithRevision(cur.Revision() + 1)
	if err := next.Validate(); err != nil {
		p.setState(StateIdle)
		p.mu.Unlock()
		log.Errorf("%s aborted: invalid document: %s", name, err)
		return cur, fmt.Errorf("%s: %w: %w", name, ErrInvariant, err)
	}
	p.doc.Store(&next)
	p.override, p.hasOverride = tx.override, tx.hasOverride
	p.setState(StateIdle)
	p.mu.Unlock()

	log.Debugf("commit %s: revision %d, %d blocks, selection %s", name, next.Revision(), next.Len(), next.Selection())
	p.notify(next)
	return next, nil
}

// run calls fn, converting a panic into an invariant error.
func run(tx *txn, fn func(tx *txn) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrInvariant, r)
		}
	}()
	return fn(tx)
}

func (p *Pipeline) setState(s State) {
	p.state.Store(int32(s))
}

func (p *Pipeline) notify(doc document.Document) {
	p.obsMu.Lock()
	observers := make([]observer, len(p.observers))
	copy(observers, p.observers)
	p.obsMu.Unlock()

	for _, o := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("observer panicked: %v", r)
				}
			}()
			o.fn(doc)
		}()
	}
}
