package pipeline

import "github.com/dshills/markflow/internal/document"

// ActiveStyles returns the inline styles that the next typed character
// will carry.
func (p *Pipeline) ActiveStyles() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	reg := p.reg.Load()
	if reg == nil {
		return nil
	}
	return newTxn(*p.doc.Load(), reg, p).activeStyles()
}

// ToggleInlineStyle switches one inline style. With a collapsed
// selection it changes the styles of the next typed text; otherwise it
// restyles the selected text.
func (p *Pipeline) ToggleInlineStyle(name string) (document.Document, error) {
	return p.trigger("toggle-style", func(tx *txn) error {
		return tx.toggleInlineStyle(name)
	})
}
