package pipeline

import (
	"errors"
	"testing"

	"github.com/dshills/markflow/internal/document"
)

func TestInsertAtomicBlock(t *testing.T) {
	p := newPipeline(t, withText(t, "before after", 7))
	ref, err := p.CreateEntity(document.EntityMedia, map[string]any{"mediaSrc": "cat.png"})
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}
	got, err := p.InsertAtomicBlock(ref, "cat.png")
	if err != nil {
		t.Fatalf("InsertAtomicBlock() error = %v", err)
	}
	diffRecords(t, []document.Record{
		{Key: "b0", Text: "before ", Type: document.Unstyled},
		{Key: "k2", Type: document.Atomic, Entity: &document.EntityRecord{
			Ref: ref, Kind: document.EntityMedia, Data: map[string]any{"mediaSrc": "cat.png"}, Placeholder: "cat.png",
		}},
		{Key: "k3", Text: "after", Type: document.Unstyled},
	}, got)
	if got.Selection() != document.NewCursor("k3", 0) {
		t.Errorf("selection = %s, want cursor at k3:0", got.Selection())
	}
}

func TestInsertAtomicBlockAtEnd(t *testing.T) {
	p := newPipeline(t, withText(t, "text", 4))
	ref, _ := p.CreateEntity(document.EntityMedia, nil)
	got, err := p.InsertAtomicBlock(ref, "")
	if err != nil {
		t.Fatalf("InsertAtomicBlock() error = %v", err)
	}
	if got.Len() != 3 || got.BlockAt(2).Text != "" || got.BlockAt(2).Type != document.Unstyled {
		t.Errorf("unexpected blocks: %v", got.Records())
	}
}

func TestInsertAtomicBlockUnknownEntity(t *testing.T) {
	p := newPipeline(t)
	before := p.CurrentDocument()
	if _, err := p.InsertAtomicBlock("missing", ""); !errors.Is(err, document.ErrEntityNotFound) {
		t.Fatalf("err = %v, want ErrEntityNotFound", err)
	}
	if p.CurrentDocument().Revision() != before.Revision() {
		t.Error("failed insertion committed a document")
	}
}

func TestCreateEntityCopiesData(t *testing.T) {
	p := newPipeline(t)
	data := map[string]any{"mediaSrc": "a.png"}
	ref, err := p.CreateEntity(document.EntityMedia, data)
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}
	data["mediaSrc"] = "changed.png"
	e, ok := p.CurrentDocument().Entity(ref)
	if !ok || e.Data["mediaSrc"] != "a.png" {
		t.Errorf("entity = %+v, %v", e, ok)
	}
	if _, err := p.CreateEntity("", nil); err == nil {
		t.Error("expected error for empty kind")
	}
}

func TestInsertEntityBlock(t *testing.T) {
	p := newPipeline(t, withText(t, "text", 4))
	got, err := p.InsertEntityBlock(document.EntityMedia, map[string]any{"mediaSrc": "cat.png"}, "cat.png")
	if err != nil {
		t.Fatalf("InsertEntityBlock() error = %v", err)
	}
	if got.Revision() != 1 {
		t.Errorf("Revision() = %d, want a single commit", got.Revision())
	}
	b := got.BlockAt(1)
	e, ok := got.Entity(b.Entity)
	if !b.IsAtomic() || !ok || e.Kind != document.EntityMedia {
		t.Errorf("block 1 = %+v, entity %+v", b, e)
	}

	before := p.CurrentDocument()
	if _, err := p.InsertEntityBlock("", nil, ""); err == nil {
		t.Error("expected error for empty kind")
	}
	if p.CurrentDocument().Revision() != before.Revision() {
		t.Error("rejected insertion committed a document")
	}
}

func TestEntityDataIsNotShared(t *testing.T) {
	p := newPipeline(t)
	doc, err := p.InsertEntityBlock(document.EntityMedia, map[string]any{"mediaSrc": "a.png"}, "a.png")
	if err != nil {
		t.Fatalf("InsertEntityBlock() error = %v", err)
	}

	rec := doc.Records()[1]
	rec.Entity.Data["mediaSrc"] = "changed.png"
	e, _ := doc.Entity(rec.Entity.Ref)
	e.Data["mediaSrc"] = "changed.png"

	if got := p.CurrentDocument().Records()[1].Entity.Data["mediaSrc"]; got != "a.png" {
		t.Errorf("committed entity data = %v, want a.png", got)
	}
}
