package key

import (
	"strings"
	"time"
	"unicode"
)

// Event is a single key press.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
	Timestamp time.Time
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods, Timestamp: time.Now()}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods, Timestamp: time.Now()}
}

// IsRune reports whether e is a character key.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsModified reports whether a modifier other than Shift is held.
// Shift is part of the character for rune events.
func (e Event) IsModified() bool {
	if e.IsRune() {
		return e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
	}
	return e.Modifiers != ModNone
}

// IsChar reports whether e types a printable character.
func (e Event) IsChar() bool {
	return e.IsRune() && !e.IsModified() && unicode.IsPrint(e.Rune)
}

// IsSpace reports whether e is an unmodified space.
func (e Event) IsSpace() bool {
	return e.IsChar() && e.Rune == ' '
}

// Chord is the comparable identity of an event, without its timestamp.
type Chord struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// Chord returns the identity of e. Letters held with Ctrl, Alt or Meta
// are folded to lower case.
func (e Event) Chord() Chord {
	c := Chord{Key: e.Key, Rune: e.Rune, Modifiers: e.Modifiers}
	if e.IsRune() && e.IsModified() {
		c.Rune = unicode.ToLower(c.Rune)
	}
	return c
}

// String returns the canonical specification, e.g. "Ctrl+B" or "Enter".
func (e Event) String() string {
	var name string
	switch {
	case e.Key == KeyRune && e.Rune == ' ':
		name = "Space"
	case e.Key == KeyRune:
		name = string(e.Rune)
		if e.IsModified() {
			name = strings.ToUpper(name)
		}
	default:
		name = e.Key.String()
	}
	mods := e.Modifiers
	if e.IsRune() && !e.IsModified() {
		mods = ModNone
	}
	if mods == ModNone {
		return name
	}
	return mods.String() + "+" + name
}
