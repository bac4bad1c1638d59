package key

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification into an event.
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}
	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") && len(spec) > 2 {
		return parseParts(strings.Split(spec[1:len(spec)-1], "-"))
	}
	// "Ctrl++" binds the plus key.
	if strings.HasSuffix(spec, "++") {
		parts := strings.Split(strings.TrimSuffix(spec, "++"), "+")
		return parseParts(append(parts, "+"))
	}
	return parseParts(strings.Split(spec, "+"))
}

func parseParts(parts []string) (Event, error) {
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	last := strings.TrimSpace(parts[len(parts)-1])
	if last == "" {
		return Event{}, fmt.Errorf("%w: missing key", ErrInvalidSpec)
	}
	if strings.EqualFold(last, "space") {
		return NewRuneEvent(' ', mods), nil
	}
	if k := FromName(last); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}
	runes := []rune(last)
	if len(runes) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, last)
	}
	ev := NewRuneEvent(runes[0], mods)
	ev.Rune = ev.Chord().Rune
	return ev, nil
}

// MustParse is like Parse but panics on error.
func MustParse(spec string) Event {
	ev, err := Parse(spec)
	if err != nil {
		panic("invalid key specification " + spec + ": " + err.Error())
	}
	return ev
}
