package style

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/dshills/markflow/internal/document"
)

// ContentGroup is the name of the capture holding a style's inner text.
const ContentGroup = "text"

// Presentation carries optional rendering hints for an inline style.
// The engine ignores them; front ends use them to draw styled runs.
type Presentation struct {
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Monospace     bool
	Foreground    string // "#rrggbb" or empty
	Background    string // "#rrggbb" or empty
}

// Descriptor describes an inline style.
type Descriptor struct {
	Name         string
	Pattern      string
	Presentation Presentation
}

// BlockDescriptor describes a block style recognised by a prefix.
type BlockDescriptor struct {
	Name           string
	Pattern        string
	ConsumedLength int
}

// Match is the first match of an inline style inside a block's text.
type Match struct {
	Start      document.Offset // start of the full match, opening delimiter included
	End        document.Offset // end of the full match, closing delimiter included
	DelimLen   document.Offset // length of the delimiter capture
	InnerStart document.Offset
	Inner      string
}

// InnerEnd returns the end offset of the content capture.
func (m Match) InnerEnd() document.Offset {
	return m.InnerStart + document.Offset(len([]rune(m.Inner)))
}

// Inline is a compiled inline descriptor.
type Inline struct {
	Descriptor
	re *regexp2.Regexp
}

// FindFirst returns the first match at or after from. It keeps no state
// between calls.
func (s *Inline) FindFirst(text []rune, from document.Offset) (Match, bool, error) {
	if from < 0 || int(from) > len(text) {
		return Match{}, false, fmt.Errorf("%s: scan offset %d outside text of length %d", s.Name, from, len(text))
	}
	m, err := s.re.FindRunesMatchStartingAt(text, int(from))
	if err != nil {
		return Match{}, false, fmt.Errorf("%s: %w", s.Name, err)
	}
	if m == nil {
		return Match{}, false, nil
	}

	match := Match{
		Start: document.Offset(m.Index),
		End:   document.Offset(m.Index + m.Length),
	}
	if g := m.GroupByNumber(1); g != nil && len(g.Captures) > 0 {
		match.DelimLen = document.Offset(g.Length)
	}
	if g := m.GroupByName(ContentGroup); g != nil && len(g.Captures) > 0 {
		match.InnerStart = document.Offset(g.Index)
		match.Inner = g.String()
	} else {
		match.InnerStart = match.Start + match.DelimLen
	}
	return match, true, nil
}

// BlockStyle is a compiled block descriptor.
type BlockStyle struct {
	BlockDescriptor
	re *regexp2.Regexp
}

// Type returns the block type assigned on a match.
func (s *BlockStyle) Type() document.BlockType {
	return document.BlockType(s.Name)
}

// MatchPrefix reports whether the pattern matches at the start of text.
func (s *BlockStyle) MatchPrefix(text []rune) (bool, error) {
	m, err := s.re.FindRunesMatch(text)
	if err != nil {
		return false, fmt.Errorf("%s: %w", s.Name, err)
	}
	return m != nil && m.Index == 0, nil
}

func compileInline(d Descriptor, timeout time.Duration) (*Inline, error) {
	if d.Name == "" {
		return nil, configErr(d.Name, d.Pattern, "missing name", nil)
	}
	if d.Pattern == "" {
		return nil, configErr(d.Name, d.Pattern, "missing pattern", nil)
	}
	re, err := regexp2.Compile(d.Pattern, regexp2.None)
	if err != nil {
		return nil, configErr(d.Name, d.Pattern, "pattern does not compile", err)
	}
	if re.GroupNameFromNumber(1) != "1" {
		return nil, configErr(d.Name, d.Pattern, "pattern has no unnamed delimiter capture (group 1)", nil)
	}
	if re.GroupNumberFromName(ContentGroup) < 0 {
		return nil, configErr(d.Name, d.Pattern, fmt.Sprintf("pattern has no named content capture %q", ContentGroup), nil)
	}

	delim, ok := firstGroupSource(d.Pattern)
	if !ok {
		return nil, configErr(d.Name, d.Pattern, "cannot locate delimiter capture", nil)
	}
	if _, err := regexp2.Compile(`\A(?:`+delim+`)\z`, regexp2.None); err != nil {
		return nil, configErr(d.Name, d.Pattern, "delimiter capture does not compile on its own", err)
	}
	// Assertions and backreferences match nothing, so the capture must
	// consume a rune even with them removed.
	empty, err := regexp2.Compile(`\A(?:`+stripZeroWidth(delim)+`)\z`, regexp2.None)
	if err != nil {
		return nil, configErr(d.Name, d.Pattern, "delimiter capture may be zero-width", err)
	}
	if ok, _ := empty.MatchString(""); ok {
		return nil, configErr(d.Name, d.Pattern, "delimiter capture can match the empty string", nil)
	}

	re.MatchTimeout = timeout
	return &Inline{Descriptor: d, re: re}, nil
}

func compileBlock(d BlockDescriptor, timeout time.Duration) (*BlockStyle, error) {
	if d.Name == "" {
		return nil, configErr(d.Name, d.Pattern, "missing name", nil)
	}
	if d.Pattern == "" {
		return nil, configErr(d.Name, d.Pattern, "missing pattern", nil)
	}
	if d.ConsumedLength < 1 {
		return nil, configErr(d.Name, d.Pattern, "consumed length must be at least 1", nil)
	}
	if document.BlockType(d.Name) == document.Atomic || document.BlockType(d.Name) == document.Unstyled {
		return nil, configErr(d.Name, d.Pattern, "reserved block type", nil)
	}
	re, err := regexp2.Compile(`\A(?:`+d.Pattern+`)`, regexp2.None)
	if err != nil {
		return nil, configErr(d.Name, d.Pattern, "pattern does not compile", err)
	}
	re.MatchTimeout = timeout
	return &BlockStyle{BlockDescriptor: d, re: re}, nil
}

// firstGroupSource returns the source of the first unnamed capturing group
// of pattern. Escapes and character classes are skipped.
func firstGroupSource(pattern string) (string, bool) {
	rs := []rune(pattern)
	start := -1
	depth := 0
	inClass := false
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		switch {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
			// A ']' right after '[' or '[^' is a literal.
			if i+1 < len(rs) && rs[i+1] == '^' {
				i++
			}
			if i+1 < len(rs) && rs[i+1] == ']' {
				i++
			}
		case c == '(':
			if start >= 0 {
				depth++
				continue
			}
			if i+1 < len(rs) && rs[i+1] == '?' {
				continue
			}
			start = i + 1
			depth = 1
		case c == ')':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return string(rs[start:i]), true
			}
		}
	}
	return "", false
}

// stripZeroWidth removes anchors, word boundaries, lookaround groups and
// backreferences from a pattern source.
func stripZeroWidth(src string) string {
	rs := []rune(src)
	var out []rune
	inClass := false
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		switch {
		case c == '\\' && i+1 < len(rs):
			n := rs[i+1]
			if inClass {
				out = append(out, c, n)
				i++
				continue
			}
			switch {
			case strings.ContainsRune("bBAzZG", n), n >= '1' && n <= '9':
				i++
				for n >= '1' && n <= '9' && i+1 < len(rs) && rs[i+1] >= '0' && rs[i+1] <= '9' {
					i++
				}
			case n == 'k' && i+2 < len(rs) && (rs[i+2] == '<' || rs[i+2] == '\''):
				i = skipTo(rs, i+3, map[rune]rune{'<': '>', '\'': '\''}[rs[i+2]])
			default:
				out = append(out, c, n)
				i++
			}
		case inClass:
			if c == ']' {
				inClass = false
			}
			out = append(out, c)
		case c == '[':
			inClass = true
			out = append(out, c)
			if i+1 < len(rs) && rs[i+1] == '^' {
				out = append(out, '^')
				i++
			}
			if i+1 < len(rs) && rs[i+1] == ']' {
				out = append(out, ']')
				i++
			}
		case c == '^' || c == '$':
		case c == '(' && isLookaround(rs[i+1:]):
			i = closingParen(rs, i)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

func isLookaround(rest []rune) bool {
	s := string(rest)
	return strings.HasPrefix(s, "?=") || strings.HasPrefix(s, "?!") ||
		strings.HasPrefix(s, "?<=") || strings.HasPrefix(s, "?<!")
}

// closingParen returns the index of the parenthesis closing the group
// opened at open, or the last index when it is unbalanced.
func closingParen(rs []rune, open int) int {
	depth := 0
	inClass := false
	for i := open; i < len(rs); i++ {
		switch c := rs[i]; {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(rs) - 1
}

func skipTo(rs []rune, from int, end rune) int {
	for i := from; i < len(rs); i++ {
		if rs[i] == end {
			return i
		}
	}
	return len(rs) - 1
}
