package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/markflow/internal/document"
	"github.com/dshills/markflow/internal/style"
)

// Cell is one grapheme cluster on screen.
type Cell struct {
	Cluster string
	Width   int
	Style   tcell.Style
	// Offset is the rune offset of the cluster in its block; decoration
	// cells have -1.
	Offset document.Offset
}

// Line is one screen row of a laid out block.
type Line struct {
	Key   document.Key
	Cells []Cell
	// Start and End bound the block offsets shown on this row.
	Start, End document.Offset
	// Last is set on the final row of a block.
	Last bool
}

// Width returns the number of columns the line occupies.
func (l Line) Width() int {
	w := 0
	for _, c := range l.Cells {
		w += c.Width
	}
	return w
}

// blockRenderer draws one block type. prefix starts the first row,
// indent starts every following row.
type blockRenderer struct {
	prefix string
	indent string
	base   tcell.Style
}

var codeBackground = style.Presentation{Background: "#eaeaea", Foreground: "#202020"}

// blockRenderers is the dispatch table keyed by block type. Types
// without an entry render as unstyled text.
var blockRenderers = map[document.BlockType]blockRenderer{
	document.Unstyled:          {},
	document.HeaderOne:         {base: tcell.StyleDefault.Bold(true).Underline(true)},
	document.HeaderTwo:         {base: tcell.StyleDefault.Bold(true)},
	document.HeaderThree:       {base: tcell.StyleDefault.Bold(true).Italic(true)},
	document.Blockquote:        {prefix: "│ ", indent: "│ ", base: tcell.StyleDefault.Italic(true)},
	document.CodeBlock:         {prefix: "  ", indent: "  ", base: applyPresentation(tcell.StyleDefault, codeBackground)},
	document.UnorderedListItem: {prefix: "• ", indent: "  "},
}

func rendererFor(t document.BlockType) blockRenderer {
	if r, ok := blockRenderers[t]; ok {
		return r
	}
	return blockRenderers[document.Unstyled]
}

// Layout lays doc out in rows of at most width columns.
func Layout(doc document.Document, reg *style.Registry, width int) []Line {
	if width < 4 {
		width = 4
	}
	var lines []Line
	for _, b := range doc.Blocks() {
		lines = append(lines, layoutBlock(b, reg, width)...)
	}
	return lines
}

func layoutBlock(b document.Block, reg *style.Registry, width int) []Line {
	if b.IsAtomic() {
		label := "[image: " + b.Placeholder + "]"
		cells := decoration(label, tcell.StyleDefault.Reverse(true))
		if len(cells) > width {
			cells = cells[:width]
		}
		return []Line{{Key: b.Key, Cells: cells, Start: 0, End: 0, Last: true}}
	}

	r := rendererFor(b.Type)
	line := Line{Key: b.Key, Cells: decoration(r.prefix, r.base.Dim(r.prefix != ""))}
	var lines []Line

	offset := document.Offset(0)
	g := uniseg.NewGraphemes(b.Text)
	for g.Next() {
		cluster := g.Str()
		w := g.Width()
		if w == 0 {
			w = uniseg.StringWidth(cluster)
		}
		if line.Width()+w > width && line.End > line.Start {
			lines = append(lines, line)
			line = Line{Key: b.Key, Cells: decoration(r.indent, r.base.Dim(r.indent != "")), Start: offset, End: offset}
		}
		cell := Cell{
			Cluster: cluster,
			Width:   w,
			Style:   inlineStyle(r.base, reg, b.StylesAt(offset+1)),
			Offset:  offset,
		}
		line.Cells = append(line.Cells, cell)
		offset += document.Offset(len(g.Runes()))
		line.End = offset
	}
	line.Last = true
	return append(lines, line)
}

func decoration(s string, st tcell.Style) []Cell {
	var cells []Cell
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cells = append(cells, Cell{Cluster: g.Str(), Width: g.Width(), Style: st, Offset: -1})
	}
	return cells
}

// CursorPosition returns the row and column of p in lines, or false
// when p's block is not laid out.
func CursorPosition(lines []Line, p document.Point) (row, col int, ok bool) {
	for i, l := range lines {
		if l.Key != p.Key {
			continue
		}
		if p.Offset >= l.End && !l.Last {
			continue
		}
		col = 0
		for _, c := range l.Cells {
			if c.Offset >= p.Offset {
				break
			}
			col += c.Width
		}
		return i, col, true
	}
	return 0, 0, false
}
