package key

import "fmt"

// Keymap binds shortcut chords to wrap delimiters.
type Keymap struct {
	bindings map[Chord]string
	specs    map[Chord]string
}

// NewKeymap parses spec -> delimiter bindings.
func NewKeymap(bindings map[string]string) (*Keymap, error) {
	km := &Keymap{
		bindings: make(map[Chord]string, len(bindings)),
		specs:    make(map[Chord]string, len(bindings)),
	}
	for spec, delim := range bindings {
		ev, err := Parse(spec)
		if err != nil {
			return nil, fmt.Errorf("keymap %q: %w", spec, err)
		}
		c := ev.Chord()
		if prev, ok := km.specs[c]; ok {
			return nil, fmt.Errorf("keymap: %q and %q bind the same key", prev, spec)
		}
		km.bindings[c] = delim
		km.specs[c] = spec
	}
	return km, nil
}

// Lookup returns the delimiter bound to ev.
func (km *Keymap) Lookup(ev Event) (string, bool) {
	if km == nil {
		return "", false
	}
	d, ok := km.bindings[ev.Chord()]
	return d, ok
}

// Len returns the number of bindings.
func (km *Keymap) Len() int {
	if km == nil {
		return 0
	}
	return len(km.bindings)
}
