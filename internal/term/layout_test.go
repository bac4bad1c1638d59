package term

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/dshills/markflow/internal/document"
	"github.com/dshills/markflow/internal/style"
)

func docOf(t *testing.T, blocks ...document.Block) document.Document {
	t.Helper()
	doc, err := document.FromBlocks(blocks, document.NewCursor(blocks[0].Key, 0))
	if err != nil {
		t.Fatalf("FromBlocks() error = %v", err)
	}
	return doc
}

func text(l Line) string {
	var sb strings.Builder
	for _, c := range l.Cells {
		sb.WriteString(c.Cluster)
	}
	return sb.String()
}

func hasAttr(s tcell.Style, attr tcell.AttrMask) bool {
	_, _, attrs := s.Decompose()
	return attrs&attr != 0
}

func TestLayoutInlineStyles(t *testing.T) {
	b := document.NewBlock("k1", "a bold b code")
	b.Ranges = []document.StyledRange{
		document.NewStyledRange(style.Bold, 2, 6),
		document.NewStyledRange(style.Code, 9, 13),
	}
	lines := Layout(docOf(t, b), style.Default(), 80)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	cells := lines[0].Cells

	for i, c := range cells {
		bold := i >= 2 && i < 6
		if got := hasAttr(c.Style, tcell.AttrBold); got != bold {
			t.Errorf("cell %d (%q) bold = %v, want %v", i, c.Cluster, got, bold)
		}
	}
	_, bg, _ := cells[10].Style.Decompose()
	if want := tcell.NewRGBColor(0xea, 0xea, 0xea); bg != want {
		t.Errorf("code background = %v, want %v", bg, want)
	}
	_, bg, _ = cells[7].Style.Decompose()
	if bg != tcell.ColorDefault {
		t.Errorf("plain background = %v, want default", bg)
	}
}

func TestLayoutBlockDispatch(t *testing.T) {
	blocks := []document.Block{
		document.NewBlock("h", "Title").WithType(document.HeaderOne),
		document.NewBlock("q", "quoted").WithType(document.Blockquote),
		document.NewBlock("l", "item").WithType(document.UnorderedListItem),
		document.NewBlock("c", "x := 1").WithType(document.CodeBlock),
		document.NewBlock("u", "custom").WithType("callout"),
		document.NewAtomicBlock("a", "e1", "cat.png"),
	}
	doc, err := document.FromBlocks(blocks, document.NewCursor("h", 0))
	if err != nil {
		t.Fatal(err)
	}
	lines := Layout(doc, style.Default(), 80)

	var got []string
	for _, l := range lines {
		got = append(got, text(l))
	}
	want := []string{"Title", "│ quoted", "• item", "  x := 1", "custom", "[image: cat.png]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Layout() mismatch (-want +got):\n%s", diff)
	}

	if !hasAttr(lines[0].Cells[0].Style, tcell.AttrBold) {
		t.Error("header not bold")
	}
	if !hasAttr(lines[1].Cells[2].Style, tcell.AttrItalic) {
		t.Error("quote not italic")
	}
	if lines[1].Cells[0].Offset != -1 {
		t.Error("quote bar should be decoration")
	}
	if !hasAttr(lines[5].Cells[0].Style, tcell.AttrReverse) {
		t.Error("atomic placeholder not reversed")
	}
}

func TestLayoutWraps(t *testing.T) {
	b := document.NewBlock("k1", "abcdefghij")
	lines := Layout(docOf(t, b), style.Default(), 4)

	var got []string
	for _, l := range lines {
		got = append(got, text(l))
	}
	if diff := cmp.Diff([]string{"abcd", "efgh", "ij"}, got); diff != "" {
		t.Errorf("wrap mismatch (-want +got):\n%s", diff)
	}
	if lines[1].Start != 4 || lines[1].End != 8 || lines[1].Last || !lines[2].Last {
		t.Errorf("line bounds = %+v", lines[1])
	}

	quote := document.NewBlock("k2", "abcdef").WithType(document.Blockquote)
	lines = Layout(docOf(t, quote), style.Default(), 6)
	got = got[:0]
	for _, l := range lines {
		got = append(got, text(l))
	}
	if diff := cmp.Diff([]string{"│ abcd", "│ ef"}, got); diff != "" {
		t.Errorf("quote wrap mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutWideClusters(t *testing.T) {
	b := document.NewBlock("k1", "日本語")
	lines := Layout(docOf(t, b), style.Default(), 4)
	if len(lines) != 2 || lines[0].Width() != 4 || text(lines[1]) != "語" {
		t.Fatalf("lines = %+v", lines)
	}

	row, col, ok := CursorPosition(lines, document.Point{Key: "k1", Offset: 1})
	if !ok || row != 0 || col != 2 {
		t.Errorf("CursorPosition(1) = %d,%d,%v, want 0,2,true", row, col, ok)
	}
}

func TestCursorPosition(t *testing.T) {
	blocks := []document.Block{
		document.NewBlock("k1", "abcdefgh"),
		document.NewBlock("k2", "").WithType(document.UnorderedListItem),
	}
	doc, err := document.FromBlocks(blocks, document.NewCursor("k1", 0))
	if err != nil {
		t.Fatal(err)
	}
	lines := Layout(doc, style.Default(), 4)

	tests := []struct {
		p        document.Point
		row, col int
	}{
		{document.Point{Key: "k1", Offset: 0}, 0, 0},
		{document.Point{Key: "k1", Offset: 3}, 0, 3},
		{document.Point{Key: "k1", Offset: 4}, 1, 0},
		{document.Point{Key: "k1", Offset: 8}, 1, 4},
		{document.Point{Key: "k2", Offset: 0}, 2, 2},
	}
	for _, tt := range tests {
		row, col, ok := CursorPosition(lines, tt.p)
		if !ok || row != tt.row || col != tt.col {
			t.Errorf("CursorPosition(%s) = %d,%d,%v, want %d,%d", tt.p, row, col, ok, tt.row, tt.col)
		}
	}
	if _, _, ok := CursorPosition(lines, document.Point{Key: "gone"}); ok {
		t.Error("unknown block should not resolve")
	}
}

func TestApplyPresentation(t *testing.T) {
	s := applyPresentation(tcell.StyleDefault, style.Presentation{Background: "#000000"})
	fg, bg, _ := s.Decompose()
	if bg != tcell.NewRGBColor(0, 0, 0) || fg != tcell.NewRGBColor(255, 255, 255) {
		t.Errorf("dark background: fg=%v bg=%v", fg, bg)
	}

	s = applyPresentation(tcell.StyleDefault, style.Presentation{Background: "#ffffcc"})
	fg, _, _ = s.Decompose()
	if fg != tcell.NewRGBColor(0, 0, 0) {
		t.Errorf("light background: fg=%v, want black", fg)
	}

	s = applyPresentation(tcell.StyleDefault, style.Presentation{Foreground: "not a colour", Italic: true})
	fg, _, attrs := s.Decompose()
	if fg != tcell.ColorDefault || attrs&tcell.AttrItalic == 0 {
		t.Errorf("bad colour should be ignored: fg=%v attrs=%v", fg, attrs)
	}
}
