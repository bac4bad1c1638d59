package document

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTransformOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset Offset
		edit   Edit
		want   Offset
	}{
		{"delete before", 5, NewDelete(0, 2), 3},
		{"delete after", 1, NewDelete(2, 4), 1},
		{"delete spanning", 5, NewDelete(4, 6), 4},
		{"delete ending at offset", 6, NewDelete(4, 6), 4},
		{"insert at offset", 2, NewInsert(2, "ab"), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransformOffset(tt.offset, tt.edit); got != tt.want {
				t.Errorf("TransformOffset(%d, %s) = %d, want %d", tt.offset, tt.edit, got, tt.want)
			}
		})
	}
}

func TestTransformOffsetThroughDelimiterRemoval(t *testing.T) {
	// "**ab**cd" with the cursor after 'c': closing then opening delimiter.
	edits := []Edit{NewDelete(4, 6), NewDelete(0, 2)}
	if got := TransformOffsetThrough(5, edits); got != 2 {
		t.Errorf("expected offset 2, got %d", got)
	}
}

func TestEditApplyRunes(t *testing.T) {
	got, err := NewDelete(1, 2).Apply([]rune("héllo"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hllo" {
		t.Errorf("expected %q, got %q", "hllo", string(got))
	}
	if _, err := NewDelete(3, 9).Apply([]rune("abc")); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestBlockSplit(t *testing.T) {
	b := NewBlock("a", "abcd").WithType(HeaderOne)
	b = b.WithText(b.Text, []StyledRange{{Style: "bold", Start: 1, End: 3}})

	left, right, err := b.Split(2, "b", Unstyled)
	if err != nil {
		t.Fatal(err)
	}
	if left.Text != "ab" || right.Text != "cd" {
		t.Errorf("split texts = %q / %q", left.Text, right.Text)
	}
	if left.Type != HeaderOne || right.Type != Unstyled {
		t.Errorf("split types = %s / %s", left.Type, right.Type)
	}
	if right.Key != "b" {
		t.Errorf("expected right key b, got %s", right.Key)
	}
	if diff := cmp.Diff([]StyledRange{{Style: "bold", Start: 0, End: 1}}, right.Ranges); diff != "" {
		t.Errorf("right ranges (-want +got):\n%s", diff)
	}
	if _, _, err := b.Split(9, "c", Unstyled); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestBlockJoin(t *testing.T) {
	a := NewBlock("a", "ab").WithText("ab", []StyledRange{{Style: "bold", Start: 0, End: 2}})
	b := NewBlock("b", "cd").WithText("cd", []StyledRange{{Style: "bold", Start: 0, End: 1}})
	j := a.Join(b)
	if j.Text != "abcd" {
		t.Errorf("expected abcd, got %q", j.Text)
	}
	if diff := cmp.Diff([]StyledRange{{Style: "bold", Start: 0, End: 3}}, j.Ranges); diff != "" {
		t.Errorf("joined ranges (-want +got):\n%s", diff)
	}
}

func TestDocumentCopyOnWrite(t *testing.T) {
	d, err := FromBlocks([]Block{NewBlock("a", "one"), NewBlock("b", "two")}, NewCursor("a", 0))
	if err != nil {
		t.Fatal(err)
	}
	nb, _ := d.Block("a")
	nb.Text = "changed"
	d2, err := d.ReplaceBlock(nb)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := d.Block("a"); got.Text != "one" {
		t.Errorf("original document modified: %q", got.Text)
	}
	if got, _ := d2.Block("a"); got.Text != "changed" {
		t.Errorf("replacement missing: %q", got.Text)
	}
}

func TestDocumentInsertAfterAndRemove(t *testing.T) {
	d := Empty("a")
	d, err := d.InsertAfter("a", NewBlock("b", "x"), NewBlock("c", "y"))
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 3 || d.IndexOf("c") != 2 {
		t.Fatalf("unexpected layout: len=%d index(c)=%d", d.Len(), d.IndexOf("c"))
	}
	d, err = d.Remove("b")
	if err != nil {
		t.Fatal(err)
	}
	if d.Has("b") || d.IndexOf("c") != 1 {
		t.Errorf("remove failed: %v", d.Records())
	}
	if _, err := d.InsertAfter("a", NewBlock("c", "dup")); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
	if _, err := d.Remove("zzz"); !errors.Is(err, ErrBlockNotFound) {
		t.Errorf("expected ErrBlockNotFound, got %v", err)
	}
}

func TestDocumentValidate(t *testing.T) {
	d := Empty("a")
	bad := NewBlock("a", "ab")
	bad.Ranges = []StyledRange{{Style: "bold", Start: 1, End: 5}}
	d2, err := d.ReplaceBlock(bad)
	if err != nil {
		t.Fatal(err)
	}
	if err := d2.Validate(); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}

	atomic, err := d.InsertAfter("a", NewAtomicBlock("m", "missing", " "))
	if err != nil {
		t.Fatal(err)
	}
	if err := atomic.Validate(); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("expected ErrEntityNotFound, got %v", err)
	}
	if err := atomic.WithEntity("missing", Entity{Kind: EntityMedia}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDocumentRecordsJSON(t *testing.T) {
	b := NewBlock("k1", "a bold b").WithText("a bold b", []StyledRange{{Style: "bold", Start: 2, End: 6}})
	d, err := FromBlocks([]Block{b}, NewCursor("k1", 0))
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"key":"k1","text":"a bold b","type":"unstyled","styledRanges":[{"style":"bold","start":2,"end":6}]}]`
	if string(data) != want {
		t.Errorf("json = %s\nwant  %s", data, want)
	}
	if dump := d.Dump(); !strings.Contains(dump, "a bold b") {
		t.Errorf("dump missing block text: %s", dump)
	}
}

func TestNewKeyUnique(t *testing.T) {
	if NewKey() == NewKey() {
		t.Error("expected distinct keys")
	}
}
