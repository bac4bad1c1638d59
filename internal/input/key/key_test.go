package key

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want Chord
	}{
		{"a", Chord{Key: KeyRune, Rune: 'a'}},
		{"A", Chord{Key: KeyRune, Rune: 'A'}},
		{"Enter", Chord{Key: KeyEnter}},
		{"<CR>", Chord{Key: KeyEnter}},
		{"<BS>", Chord{Key: KeyBackspace}},
		{"tab", Chord{Key: KeyTab}},
		{"Space", Chord{Key: KeyRune, Rune: ' '}},
		{"Ctrl+B", Chord{Key: KeyRune, Rune: 'b', Modifiers: ModCtrl}},
		{"ctrl+b", Chord{Key: KeyRune, Rune: 'b', Modifiers: ModCtrl}},
		{"<C-b>", Chord{Key: KeyRune, Rune: 'b', Modifiers: ModCtrl}},
		{"Alt+Shift+K", Chord{Key: KeyRune, Rune: 'k', Modifiers: ModAlt | ModShift}},
		{"Ctrl+Left", Chord{Key: KeyLeft, Modifiers: ModCtrl}},
		{"Ctrl++", Chord{Key: KeyRune, Rune: '+', Modifiers: ModCtrl}},
		{"-", Chord{Key: KeyRune, Rune: '-'}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			ev, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.spec, err)
			}
			if got := ev.Chord(); got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		spec string
		want error
	}{
		{"", ErrEmptySpec},
		{"   ", ErrEmptySpec},
		{"Hyper+B", ErrInvalidSpec},
		{"Ctrl+", ErrInvalidSpec},
		{"Ctrl+Banana", ErrInvalidSpec},
		{"<X-b>", ErrInvalidSpec},
	}
	for _, tt := range tests {
		if _, err := Parse(tt.spec); !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.spec, err, tt.want)
		}
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{NewRuneEvent('x', ModNone), "x"},
		{NewRuneEvent('X', ModShift), "X"},
		{NewRuneEvent('b', ModCtrl), "Ctrl+B"},
		{NewRuneEvent(' ', ModNone), "Space"},
		{NewSpecialEvent(KeyEnter, ModNone), "Enter"},
		{NewSpecialEvent(KeyTab, ModShift), "Shift+Tab"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEventClassification(t *testing.T) {
	if !NewRuneEvent('a', ModShift).IsChar() {
		t.Error("shifted letter should be a char")
	}
	if NewRuneEvent('a', ModCtrl).IsChar() {
		t.Error("ctrl letter should not be a char")
	}
	if !NewRuneEvent(' ', ModNone).IsSpace() {
		t.Error("space should be a space")
	}
	if NewSpecialEvent(KeyEnter, ModNone).IsRune() {
		t.Error("enter should not be a rune")
	}
	if !KeyHome.IsNavigation() || KeyEnter.IsNavigation() {
		t.Error("IsNavigation misclassifies keys")
	}
}

func TestKeymap(t *testing.T) {
	km, err := NewKeymap(map[string]string{"Ctrl+B": "**", "<C-k>": "`"})
	if err != nil {
		t.Fatalf("NewKeymap() error = %v", err)
	}
	if d, ok := km.Lookup(NewRuneEvent('B', ModCtrl)); !ok || d != "**" {
		t.Errorf("Lookup(Ctrl+B) = %q, %v", d, ok)
	}
	if d, ok := km.Lookup(NewRuneEvent('k', ModCtrl)); !ok || d != "`" {
		t.Errorf("Lookup(Ctrl+K) = %q, %v", d, ok)
	}
	if _, ok := km.Lookup(NewRuneEvent('b', ModNone)); ok {
		t.Error("plain b should not be bound")
	}
	if km.Len() != 2 {
		t.Errorf("Len() = %d, want 2", km.Len())
	}

	var nilMap *Keymap
	if _, ok := nilMap.Lookup(NewRuneEvent('b', ModCtrl)); ok {
		t.Error("nil keymap should bind nothing")
	}
}

func TestKeymapConflicts(t *testing.T) {
	if _, err := NewKeymap(map[string]string{"Ctrl+B": "**", "<C-b>": "__"}); err == nil {
		t.Error("expected conflict error")
	}
	if _, err := NewKeymap(map[string]string{"Nope+B": "**"}); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("err = %v, want ErrInvalidSpec", err)
	}
}
