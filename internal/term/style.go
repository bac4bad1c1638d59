package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/markflow/internal/style"
)

// parseColor converts a "#rrggbb" hint. Empty or malformed hints yield
// false.
func parseColor(hex string) (colorful.Color, bool) {
	if hex == "" {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		log.Debugf("ignoring colour %q: %s", hex, err)
		return colorful.Color{}, false
	}
	return c, true
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// contrast returns black or white, whichever reads better on bg.
func contrast(bg colorful.Color) colorful.Color {
	l, _, _ := bg.Lab()
	if l > 0.6 {
		return colorful.Color{R: 0, G: 0, B: 0}
	}
	return colorful.Color{R: 1, G: 1, B: 1}
}

// applyPresentation layers p over base.
func applyPresentation(base tcell.Style, p style.Presentation) tcell.Style {
	s := base
	if p.Bold {
		s = s.Bold(true)
	}
	if p.Italic {
		s = s.Italic(true)
	}
	if p.Underline {
		s = s.Underline(true)
	}
	if p.Strikethrough {
		s = s.StrikeThrough(true)
	}
	fg, hasFg := parseColor(p.Foreground)
	bg, hasBg := parseColor(p.Background)
	if hasBg {
		s = s.Background(toTcell(bg))
		if !hasFg {
			fg, hasFg = contrast(bg), true
		}
	}
	if hasFg {
		s = s.Foreground(toTcell(fg))
	}
	return s
}

// inlineStyle returns the style for a character carrying the named
// inline styles. Names the registry does not know are skipped.
func inlineStyle(base tcell.Style, reg *style.Registry, names []string) tcell.Style {
	s := base
	for _, name := range names {
		if in, ok := reg.Lookup(name); ok {
			s = applyPresentation(s, in.Presentation)
		}
	}
	return s
}
