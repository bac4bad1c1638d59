// Package pipeline owns the committed document and turns user triggers
// into new snapshots.
//
// Every trigger (a key event, a manual wrap, a media insertion) runs
// against the last committed Document and produces exactly one commit.
// Triggers are serialized; readers load the committed snapshot without
// locking and never observe an intermediate state. A trigger that fails
// or panics leaves the committed Document untouched.
//
// The pipeline moves through these states:
//
//	Uninitialized -> Idle -> Scanning -> Committing -> Idle
//
// Edits are refused with ErrNotInitialized until Initialize installs a
// style registry.
//
// On Enter the pipeline scans every block for inline delimiters, then for
// block prefixes, keeps the cursor on the character it was on before the
// rewrite and splits the block there:
//
//	p := pipeline.New()
//	if err := p.Initialize(ctx, style.Static(style.Default())); err != nil {
//	    return err
//	}
//	for _, r := range "a **bold** b" {
//	    p.OnKeyEvent(key.NewRuneEvent(r, key.ModNone))
//	}
//	doc, err := p.OnKeyEvent(key.NewSpecialEvent(key.KeyEnter, key.ModNone))
package pipeline

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("markflow.pipeline")
