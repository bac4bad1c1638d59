package document

import (
	"encoding/json"
	"maps"

	"github.com/sanity-io/litter"
)

// Record is the exported form of a block: the serialization contract
// consumed by renderers and test harnesses.
type Record struct {
	Key          Key           `json:"key"`
	Text         string        `json:"text"`
	Type         BlockType     `json:"type"`
	StyledRanges []RangeRecord `json:"styledRanges"`
	Entity       *EntityRecord `json:"entity,omitempty"`
}

// RangeRecord is the exported form of a styled range.
type RangeRecord struct {
	Style string `json:"style"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// EntityRecord is the exported form of an atomic block's entity.
type EntityRecord struct {
	Ref         EntityRef      `json:"ref"`
	Kind        string         `json:"kind"`
	Data        map[string]any `json:"data,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
}

// Records exports the blocks in document order.
func (d Document) Records() []Record {
	out := make([]Record, 0, len(d.blocks))
	for _, b := range d.blocks {
		r := Record{
			Key:          b.Key,
			Text:         b.Text,
			Type:         b.Type,
			StyledRanges: make([]RangeRecord, 0, len(b.Ranges)),
		}
		for _, sr := range b.Ranges {
			r.StyledRanges = append(r.StyledRanges, RangeRecord{
				Style: sr.Style,
				Start: int(sr.Start),
				End:   int(sr.End),
			})
		}
		if b.IsAtomic() {
			e := d.entities[b.Entity]
			r.Entity = &EntityRecord{
				Ref:         b.Entity,
				Kind:        e.Kind,
				Data:        maps.Clone(e.Data),
				Placeholder: b.Placeholder,
			}
		}
		out = append(out, r)
	}
	return out
}

// MarshalJSON encodes the document as its ordered record list.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Records())
}

// Dump returns a compact, human-readable dump of the document for debug logs.
func (d Document) Dump() string {
	return litter.Options{
		Compact:           true,
		StripPackageNames: true,
	}.Sdump(struct {
		Revision  uint64
		Selection string
		Blocks    []Record
	}{d.revision, d.selection.String(), d.Records()})
}
