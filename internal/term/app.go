package term

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/markflow/internal/document"
	"github.com/dshills/markflow/internal/input/key"
	"github.com/dshills/markflow/internal/media"
	"github.com/dshills/markflow/internal/pipeline"
)

// ErrQuit is returned by handlers when the user asks to leave.
var ErrQuit = errors.New("quit requested")

// App runs the interactive editor on a tcell screen.
type App struct {
	screen  tcell.Screen
	pipe    *pipeline.Pipeline
	dropper *media.Dropper

	top     int
	status  string
	pasting bool
	paste   strings.Builder
}

// NewApp creates an editor drawing to screen. The screen must already
// be initialized.
func NewApp(screen tcell.Screen, p *pipeline.Pipeline) *App {
	return &App{
		screen:  screen,
		pipe:    p,
		dropper: media.NewDropper(p),
	}
}

// Run processes events until Ctrl+Q or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.screen.EnablePaste()
	stop := context.AfterFunc(ctx, func() {
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		a.draw()
		ev := a.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		if err := a.handle(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
}

func (a *App) handle(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventPaste:
		if ev.Start() {
			a.pasting = true
			a.paste.Reset()
			return nil
		}
		a.pasting = false
		a.handlePaste(a.paste.String())
	case *tcell.EventKey:
		return a.handleKey(ev)
	}
	return nil
}

func (a *App) handleKey(ev *tcell.EventKey) error {
	if a.pasting {
		switch ev.Key() {
		case tcell.KeyRune:
			a.paste.WriteRune(ev.Rune())
		case tcell.KeyEnter:
			a.paste.WriteByte('\n')
		case tcell.KeyTab:
			a.paste.WriteByte('\t')
		}
		return nil
	}

	kev, ok := ConvertKey(ev)
	if !ok {
		return nil
	}
	if isQuit(kev) {
		return ErrQuit
	}
	a.apply(kev)
	return nil
}

func isQuit(ev key.Event) bool {
	c := ev.Chord()
	return c.Key == key.KeyRune && c.Rune == 'q' && c.Modifiers == key.ModCtrl
}

func (a *App) apply(ev key.Event) {
	if _, err := a.pipe.OnKeyEvent(ev); err != nil {
		a.status = err.Error()
		log.Warningf("%s: %s", ev, err)
		return
	}
	a.status = ""
}

// handlePaste treats text naming existing files as a drop and types
// anything else.
func (a *App) handlePaste(text string) {
	if files, ok := droppedFiles(text); ok {
		if _, err := a.dropper.Drop(files); err != nil {
			a.status = err.Error()
			return
		}
		a.status = fmt.Sprintf("inserted %s", files[0].Name)
		return
	}
	for _, r := range text {
		switch r {
		case '\n':
			a.apply(key.NewSpecialEvent(key.KeyEnter, key.ModNone))
		case '\r':
		case '\t':
			a.apply(key.NewSpecialEvent(key.KeyTab, key.ModNone))
		default:
			a.apply(key.NewRuneEvent(r, key.ModNone))
		}
	}
}

// droppedFiles reports whether every non-empty line of text names an
// existing regular file. Terminals paste dropped files as paths or
// file:// URLs.
func droppedFiles(text string) ([]media.File, bool) {
	var files []media.File
	for _, line := range strings.Split(text, "\n") {
		path := strings.TrimSpace(line)
		path = strings.Trim(path, `'"`)
		path = strings.TrimPrefix(path, "file://")
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return nil, false
		}
		files = append(files, media.File{Name: path})
	}
	return files, len(files) > 0
}

func (a *App) draw() {
	a.screen.Clear()
	width, height := a.screen.Size()
	if width <= 0 || height <= 1 {
		a.screen.Show()
		return
	}
	doc := a.pipe.CurrentDocument()
	reg := a.pipe.Registry()
	lines := Layout(doc, reg, width)
	rows := height - 1

	row, col, ok := CursorPosition(lines, doc.Selection().Focus)
	if ok {
		if row < a.top {
			a.top = row
		}
		if row >= a.top+rows {
			a.top = row - rows + 1
		}
	}
	if a.top > len(lines) {
		a.top = 0
	}

	for y := 0; y < rows && a.top+y < len(lines); y++ {
		drawLine(a.screen, y, lines[a.top+y], width)
	}
	a.drawStatus(doc, width, height-1)

	if ok {
		if col >= width {
			col = width - 1
		}
		a.screen.ShowCursor(col, row-a.top)
	} else {
		a.screen.HideCursor()
	}
	a.screen.Show()
}

func drawLine(s tcell.Screen, y int, l Line, width int) {
	x := 0
	for _, c := range l.Cells {
		if x+c.Width > width {
			return
		}
		runes := []rune(c.Cluster)
		s.SetContent(x, y, runes[0], runes[1:], c.Style)
		x += c.Width
	}
}

func (a *App) drawStatus(doc document.Document, width, y int) {
	st := tcell.StyleDefault.Reverse(true)
	text := fmt.Sprintf(" rev %d  %s", doc.Revision(), strings.Join(a.pipe.ActiveStyles(), ","))
	if a.status != "" {
		text += "  " + a.status
	}
	x := 0
	for _, c := range decoration(text, st) {
		if x+c.Width > width {
			break
		}
		runes := []rune(c.Cluster)
		a.screen.SetContent(x, y, runes[0], runes[1:], st)
		x += c.Width
	}
	for ; x < width; x++ {
		a.screen.SetContent(x, y, ' ', nil, st)
	}
}
