package pipeline

import (
	"errors"
	"testing"

	"github.com/dshills/markflow/internal/document"
	"github.com/dshills/markflow/internal/input/key"
)

func TestSurroundSelection(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		sel     document.Selection
		delim   string
		want    string
		wantSel document.Selection
	}{
		{
			name:    "forward selection",
			text:    "say hi now",
			sel:     document.NewSelection(document.Point{Key: "b0", Offset: 4}, document.Point{Key: "b0", Offset: 6}),
			delim:   "**",
			want:    "say **hi** now",
			wantSel: document.NewSelection(document.Point{Key: "b0", Offset: 6}, document.Point{Key: "b0", Offset: 8}),
		},
		{
			name:    "backward selection",
			text:    "say hi now",
			sel:     document.NewSelection(document.Point{Key: "b0", Offset: 6}, document.Point{Key: "b0", Offset: 4}),
			delim:   "~~",
			want:    "say ~~hi~~ now",
			wantSel: document.NewSelection(document.Point{Key: "b0", Offset: 8}, document.Point{Key: "b0", Offset: 6}),
		},
		{
			name:    "empty selection",
			text:    "ab",
			sel:     document.NewCursor("b0", 1),
			delim:   "`",
			want:    "a``b",
			wantSel: document.NewCursor("b0", 2),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _ := document.FromBlocks([]document.Block{document.NewBlock("b0", tt.text)}, tt.sel)
			p := newPipeline(t, WithDocument(doc))
			got, err := p.SurroundSelection(tt.delim)
			if err != nil {
				t.Fatalf("SurroundSelection() error = %v", err)
			}
			if got.BlockAt(0).Text != tt.want {
				t.Errorf("text = %q, want %q", got.BlockAt(0).Text, tt.want)
			}
			if len(got.BlockAt(0).Ranges) != 0 {
				t.Errorf("wrapped text should stay unstyled: %v", got.BlockAt(0).Ranges)
			}
			if got.Selection() != tt.wantSel {
				t.Errorf("selection = %s, want %s", got.Selection(), tt.wantSel)
			}
		})
	}
}

func TestSurroundSelectionThenEnter(t *testing.T) {
	doc, _ := document.FromBlocks([]document.Block{document.NewBlock("b0", "make it bold")},
		document.NewSelection(document.Point{Key: "b0", Offset: 8}, document.Point{Key: "b0", Offset: 12}))
	p := newPipeline(t, WithDocument(doc))
	if _, err := p.OnKeyEvent(key.NewRuneEvent('b', key.ModCtrl)); err != nil {
		t.Fatalf("Ctrl+B error = %v", err)
	}
	if _, err := p.OnKeyEvent(key.NewSpecialEvent(key.KeyEnd, key.ModNone)); err != nil {
		t.Fatalf("End error = %v", err)
	}
	got := enter(t, p)
	diffRecords(t, []document.Record{
		{Key: "b0", Text: "make it bold", Type: document.Unstyled,
			StyledRanges: []document.RangeRecord{{Style: "bold", Start: 8, End: 12}}},
		{Key: "k1", Text: "", Type: document.Unstyled},
	}, got)
}

func TestSurroundSelectionErrors(t *testing.T) {
	doc, _ := document.FromBlocks([]document.Block{
		document.NewBlock("b0", "ab"),
		document.NewBlock("b1", "cd"),
	}, document.NewSelection(document.Point{Key: "b0", Offset: 1}, document.Point{Key: "b1", Offset: 1}))
	p := newPipeline(t, WithDocument(doc))
	before := p.CurrentDocument()

	if _, err := p.SurroundSelection("**"); !errors.Is(err, ErrSelectionSpansBlocks) {
		t.Errorf("err = %v, want ErrSelectionSpansBlocks", err)
	}
	if _, err := p.SurroundSelection(""); !errors.Is(err, ErrEmptyDelimiter) {
		t.Errorf("err = %v, want ErrEmptyDelimiter", err)
	}
	after := p.CurrentDocument()
	if after.Revision() != before.Revision() {
		t.Error("rejected wrap committed a document")
	}
	diffRecords(t, before.Records(), after)
}
