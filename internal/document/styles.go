package document

import (
	"fmt"
	"sort"
)

// StyledRange is a half-open interval of a block's text annotated with an
// inline style name.
type StyledRange struct {
	Style string
	Start Offset
	End   Offset
}

// NewStyledRange creates a styled range.
func NewStyledRange(style string, start, end Offset) StyledRange {
	return StyledRange{Style: style, Start: start, End: end}
}

// Range returns the offsets of the styled range.
func (s StyledRange) Range() Range {
	return Range{Start: s.Start, End: s.End}
}

// IsEmpty returns true for a zero-length styled run.
func (s StyledRange) IsEmpty() bool {
	return s.Start == s.End
}

// String returns a string representation of the styled range.
func (s StyledRange) String() string {
	return fmt.Sprintf("%s[%d:%d)", s.Style, s.Start, s.End)
}

// NormalizeRanges returns a sorted copy of ranges where same-style
// non-empty ranges that overlap or touch are merged and exact duplicates
// are removed. Zero-length ranges are kept.
func NormalizeRanges(ranges []StyledRange) []StyledRange {
	if len(ranges) == 0 {
		return nil
	}
	sorted := make([]StyledRange, len(ranges))
	copy(sorted, ranges)
	sortRanges(sorted)

	out := make([]StyledRange, 0, len(sorted))
	open := make(map[string]int) // style -> index in out of last non-empty range
	for _, r := range sorted {
		if r.IsEmpty() {
			if n := len(out); n > 0 && out[n-1] == r {
				continue
			}
			out = append(out, r)
			continue
		}
		if i, ok := open[r.Style]; ok && out[i].End >= r.Start {
			if r.End > out[i].End {
				out[i].End = r.End
			}
			continue
		}
		open[r.Style] = len(out)
		out = append(out, r)
	}
	sortRanges(out)
	return out
}

func sortRanges(rs []StyledRange) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Start != rs[j].Start {
			return rs[i].Start < rs[j].Start
		}
		if rs[i].End != rs[j].End {
			return rs[i].End < rs[j].End
		}
		return rs[i].Style < rs[j].Style
	})
}

// AddRange returns ranges plus r, normalized.
func AddRange(ranges []StyledRange, r StyledRange) []StyledRange {
	out := make([]StyledRange, 0, len(ranges)+1)
	out = append(out, ranges...)
	out = append(out, r)
	return NormalizeRanges(out)
}

// TransformRanges remaps every range through a deletion or replacement
// edit. A non-empty range whose text was removed entirely is dropped.
func TransformRanges(ranges []StyledRange, edit Edit) []StyledRange {
	if len(ranges) == 0 {
		return nil
	}
	out := make([]StyledRange, 0, len(ranges))
	for _, r := range ranges {
		start := TransformOffset(r.Start, edit)
		end := TransformOffset(r.End, edit)
		if start > end {
			start, end = end, start
		}
		if start == end && !r.IsEmpty() {
			continue
		}
		out = append(out, StyledRange{Style: r.Style, Start: start, End: end})
	}
	return NormalizeRanges(out)
}

// InsertRanges adjusts ranges for text of length n inserted at offset and
// styles the inserted text with the active styles.
//
// A range strictly containing the insertion point grows when its style is
// active and is split around the inserted text otherwise. Ranges starting
// at or after the insertion point shift right.
func InsertRanges(ranges []StyledRange, at, n Offset, active []string) []StyledRange {
	if n <= 0 {
		return NormalizeRanges(ranges)
	}
	isActive := make(map[string]bool, len(active))
	for _, s := range active {
		isActive[s] = true
	}

	out := make([]StyledRange, 0, len(ranges)+len(active)+1)
	for _, r := range ranges {
		switch {
		case at <= r.Start:
			out = append(out, StyledRange{Style: r.Style, Start: r.Start + n, End: r.End + n})
		case at >= r.End:
			out = append(out, r)
		case isActive[r.Style]:
			out = append(out, StyledRange{Style: r.Style, Start: r.Start, End: r.End + n})
		default:
			out = append(out,
				StyledRange{Style: r.Style, Start: r.Start, End: at},
				StyledRange{Style: r.Style, Start: at + n, End: r.End + n},
			)
		}
	}
	for _, s := range active {
		out = append(out, StyledRange{Style: s, Start: at, End: at + n})
	}
	return NormalizeRanges(out)
}

// SplitRanges divides ranges at offset. The right half is rebased so that
// offset becomes 0. Zero-length ranges at the split point stay left.
func SplitRanges(ranges []StyledRange, at Offset) (left, right []StyledRange) {
	for _, r := range ranges {
		if r.Start < at || (r.IsEmpty() && r.Start == at) {
			end := r.End
			if end > at {
				end = at
			}
			left = append(left, StyledRange{Style: r.Style, Start: r.Start, End: end})
		}
		if r.End > at {
			start := r.Start
			if start < at {
				start = at
			}
			right = append(right, StyledRange{Style: r.Style, Start: start - at, End: r.End - at})
		}
	}
	return NormalizeRanges(left), NormalizeRanges(right)
}

// ShiftRanges returns a copy of ranges moved right by delta.
func ShiftRanges(ranges []StyledRange, delta Offset) []StyledRange {
	if len(ranges) == 0 {
		return nil
	}
	out := make([]StyledRange, len(ranges))
	for i, r := range ranges {
		out[i] = StyledRange{Style: r.Style, Start: r.Start + delta, End: r.End + delta}
	}
	return out
}

// StylesAt returns the styles that apply to the character before offset,
// or to the first character when offset is 0. Zero-length ranges do not
// contribute.
func StylesAt(ranges []StyledRange, offset Offset) []string {
	probe := offset - 1
	if offset == 0 {
		probe = 0
	}
	var styles []string
	seen := make(map[string]bool)
	for _, r := range ranges {
		if r.IsEmpty() || !r.Range().Contains(probe) || seen[r.Style] {
			continue
		}
		seen[r.Style] = true
		styles = append(styles, r.Style)
	}
	sort.Strings(styles)
	return styles
}

// RemoveStyle removes style from the offsets in r. Ranges of the style
// that extend past r are trimmed.
func RemoveStyle(ranges []StyledRange, style string, r Range) []StyledRange {
	out := make([]StyledRange, 0, len(ranges)+1)
	for _, x := range ranges {
		if x.Style != style || !x.Range().Overlaps(r) {
			out = append(out, x)
			continue
		}
		if x.Start < r.Start {
			out = append(out, StyledRange{Style: style, Start: x.Start, End: r.Start})
		}
		if x.End > r.End {
			out = append(out, StyledRange{Style: style, Start: r.End, End: x.End})
		}
	}
	return NormalizeRanges(out)
}

// Covers reports whether every offset of the non-empty range r carries
// style. ranges must be normalized.
func Covers(ranges []StyledRange, style string, r Range) bool {
	if r.IsEmpty() {
		return false
	}
	for _, x := range ranges {
		if x.Style == style && x.Start <= r.Start && x.End >= r.End {
			return true
		}
	}
	return false
}
