package inline

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/markflow/internal/document"
	"github.com/dshills/markflow/internal/style"
)

func mustRegistry(t *testing.T, inline ...style.Descriptor) *style.Registry {
	t.Helper()
	r, err := style.NewRegistry(inline, nil)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return r
}

func sr(name string, start, end document.Offset) document.StyledRange {
	return document.NewStyledRange(name, start, end)
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		ranges []document.StyledRange
		want   string
		styles []document.StyledRange
	}{
		{
			name:   "bold",
			text:   "a **bold** b",
			want:   "a bold b",
			styles: []document.StyledRange{sr("bold", 2, 6)},
		},
		{
			name:   "underscore bold",
			text:   "__x__ y",
			want:   "x y",
			styles: []document.StyledRange{sr("bold", 0, 1)},
		},
		{
			name:   "italic",
			text:   "an *it* word",
			want:   "an it word",
			styles: []document.StyledRange{sr("italic", 3, 5)},
		},
		{
			name: "every style once",
			text: "**b** *i* ~~s~~ `c`",
			want: "b i s c",
			styles: []document.StyledRange{
				sr("bold", 0, 1), sr("italic", 2, 3), sr("strikethrough", 4, 5), sr("code", 6, 7),
			},
		},
		{
			name:   "repeated style takes several passes",
			text:   "**a** **b** **c**",
			want:   "a b c",
			styles: []document.StyledRange{sr("bold", 0, 1), sr("bold", 2, 3), sr("bold", 4, 5)},
		},
		{
			name:   "nested different kinds",
			text:   "**~~x~~**",
			want:   "x",
			styles: []document.StyledRange{sr("bold", 0, 1), sr("strikethrough", 0, 1)},
		},
		{
			name:   "unmatched delimiter",
			text:   "a ** b",
			want:   "a ** b",
			styles: nil,
		},
		{
			name:   "existing ranges are remapped",
			text:   "xy **z**",
			ranges: []document.StyledRange{sr("italic", 0, 2)},
			want:   "xy z",
			styles: []document.StyledRange{sr("italic", 0, 2), sr("bold", 3, 4)},
		},
		{
			name:   "existing range spanning a match shrinks",
			text:   "a **b** c",
			ranges: []document.StyledRange{sr("code", 0, 9)},
			want:   "a b c",
			styles: []document.StyledRange{sr("code", 0, 5), sr("bold", 2, 3)},
		},
		{
			name:   "multibyte text",
			text:   "é **ü** ß",
			want:   "é ü ß",
			styles: []document.StyledRange{sr("bold", 2, 3)},
		},
	}
	reg := style.Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := document.NewBlock("k", tt.text)
			b.Ranges = tt.ranges
			res, err := Apply(b, reg)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if res.Block.Text != tt.want {
				t.Errorf("text = %q, want %q", res.Block.Text, tt.want)
			}
			if diff := cmp.Diff(tt.styles, res.Block.Ranges); diff != "" {
				t.Errorf("ranges mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyIdempotent(t *testing.T) {
	reg := style.Default()
	for _, text := range []string{
		"plain text",
		"a **bold** b",
		"**~~x~~** and *y*",
		"",
	} {
		first, err := Apply(document.NewBlock("k", text), reg)
		if err != nil {
			t.Fatalf("Apply(%q) error = %v", text, err)
		}
		second, err := Apply(first.Block, reg)
		if err != nil {
			t.Fatalf("second Apply(%q) error = %v", text, err)
		}
		if second.Changed() {
			t.Errorf("second Apply(%q) changed the block: %v", text, second.Edits)
		}
		if diff := cmp.Diff(first.Block, second.Block); diff != "" {
			t.Errorf("second Apply(%q) mismatch (-first +second):\n%s", text, diff)
		}
	}
}

func TestApplyNoMatchesKeepsBlock(t *testing.T) {
	b := document.NewBlock("k", "nothing here")
	b.Ranges = []document.StyledRange{sr("bold", 0, 7)}
	res, err := Apply(b, style.Default())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if res.Changed() || res.Passes != 1 {
		t.Errorf("Changed() = %v, Passes = %d", res.Changed(), res.Passes)
	}
	if diff := cmp.Diff(b, res.Block); diff != "" {
		t.Errorf("block mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyTerminates(t *testing.T) {
	text := strings.Repeat("**a** _b_ ~~c~~ `d` ", 50)
	res, err := Apply(document.NewBlock("k", text), style.Default())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if strings.ContainsAny(res.Block.Text, "*_~`") {
		t.Errorf("delimiters left: %q", res.Block.Text)
	}
	if got := len(res.Applied); got != 200 {
		t.Errorf("len(Applied) = %d, want 200", got)
	}
}

func TestApplyEdits(t *testing.T) {
	res, err := Apply(document.NewBlock("k", "**ab**cd"), style.Default())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := []document.Edit{
		document.NewDelete(4, 6),
		document.NewDelete(0, 2),
	}
	if diff := cmp.Diff(want, res.Edits); diff != "" {
		t.Errorf("edits mismatch (-want +got):\n%s", diff)
	}
	if got := document.TransformOffsetThrough(5, res.Edits); got != 2 {
		t.Errorf("cursor 5 maps to %d, want 2", got)
	}
}

func TestApplyOrderSensitivity(t *testing.T) {
	italic := style.Descriptor{Name: "italic", Pattern: `(\*)(?<text>.+?)\1`}
	underline := style.Descriptor{Name: "underline", Pattern: `(_)(?<text>.+?)\1`}

	t.Run("italic first", func(t *testing.T) {
		res, err := Apply(document.NewBlock("k", "*_x_*"), mustRegistry(t, italic, underline))
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if res.Block.Text != "x" {
			t.Errorf("text = %q, want %q", res.Block.Text, "x")
		}
		wantRanges := []document.StyledRange{sr("italic", 0, 1), sr("underline", 0, 1)}
		if diff := cmp.Diff(wantRanges, res.Block.Ranges); diff != "" {
			t.Errorf("ranges mismatch (-want +got):\n%s", diff)
		}
		wantEdits := []document.Edit{
			document.NewDelete(4, 5), document.NewDelete(0, 1),
			document.NewDelete(2, 3), document.NewDelete(0, 1),
		}
		if diff := cmp.Diff(wantEdits, res.Edits); diff != "" {
			t.Errorf("edits mismatch (-want +got):\n%s", diff)
		}
		if res.Passes != 2 {
			t.Errorf("Passes = %d, want 2", res.Passes)
		}
	})

	t.Run("underline first", func(t *testing.T) {
		res, err := Apply(document.NewBlock("k", "*_x_*"), mustRegistry(t, underline, italic))
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		wantEdits := []document.Edit{
			document.NewDelete(3, 4), document.NewDelete(1, 2),
			document.NewDelete(2, 3), document.NewDelete(0, 1),
		}
		if diff := cmp.Diff(wantEdits, res.Edits); diff != "" {
			t.Errorf("edits mismatch (-want +got):\n%s", diff)
		}
		wantApplied := []document.StyledRange{sr("underline", 0, 1), sr("italic", 0, 1)}
		if diff := cmp.Diff(wantApplied, res.Applied); diff != "" {
			t.Errorf("applied mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestApplyDefersCrossingMatch(t *testing.T) {
	// Bold resolves first; the strikethrough match then straddles the
	// bold content and waits for the next pass.
	res, err := Apply(document.NewBlock("k", "**a ~~b** c~~"), style.Default())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if res.Block.Text != "a b c" {
		t.Errorf("text = %q, want %q", res.Block.Text, "a b c")
	}
	want := []document.StyledRange{sr("bold", 0, 3), sr("strikethrough", 2, 5)}
	if diff := cmp.Diff(want, res.Block.Ranges); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
	if res.Passes != 3 {
		t.Errorf("Passes = %d, want 3", res.Passes)
	}
}

func TestApplyEmptyContent(t *testing.T) {
	reg := mustRegistry(t, style.Descriptor{Name: "mark", Pattern: `(==)(?<text>.*?)\1`})
	res, err := Apply(document.NewBlock("k", "a ==== b"), reg)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if res.Block.Text != "a  b" {
		t.Errorf("text = %q, want %q", res.Block.Text, "a  b")
	}
	want := []document.StyledRange{sr("mark", 2, 2)}
	if diff := cmp.Diff(want, res.Block.Ranges); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyAtomicBlock(t *testing.T) {
	b := document.NewAtomicBlock("k", "e1", "image")
	res, err := Apply(b, style.Default())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if res.Changed() {
		t.Error("atomic block reported a change")
	}
	if diff := cmp.Diff(b, res.Block); diff != "" {
		t.Errorf("atomic block mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceInvariants(t *testing.T) {
	tests := []struct {
		name string
		m    style.Match
	}{
		{"zero delimiter", style.Match{Start: 0, End: 3, DelimLen: 0, InnerStart: 0, Inner: "abc"}},
		{"past end", style.Match{Start: 2, End: 9, DelimLen: 1, InnerStart: 3, Inner: "x"}},
		{"no closing delimiter", style.Match{Start: 0, End: 3, DelimLen: 1, InnerStart: 1, Inner: "bc"}},
		{"no opening delimiter", style.Match{Start: 0, End: 3, DelimLen: 1, InnerStart: 0, Inner: "ab"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &state{text: []rune("abcde")}
			err := st.replace("x", tt.m)
			if !errors.Is(err, document.ErrInvariant) {
				t.Fatalf("err = %v, want ErrInvariant", err)
			}
			if string(st.text) != "abcde" || len(st.edits) != 0 {
				t.Error("state mutated by a rejected match")
			}
		})
	}
}
