package style

import (
	"fmt"
	"sort"
	"time"
)

// Configuration keys understood by FromConfig.
const (
	keyInline       = "inline"
	keyBlock        = "block"
	keyKeymap       = "keymap"
	keyMatchTimeout = "match_timeout"
)

// FromConfig builds a registry from a decoded configuration map:
//
//	match_timeout = "250ms"
//
//	[[inline]]
//	name = "bold"
//	pattern = '((\*{2})|(_{2}))(?<text>.+?)\1'
//	bold = true
//
//	[[block]]
//	name = "header1"
//	pattern = '#(?=\s)'
//	consumed = 1
//
//	[keymap]
//	"Ctrl+B" = "**"
//
// A missing section falls back to the built-in descriptors for that
// section. Every decoding problem is a *ConfigError.
func FromConfig(cfg map[string]any) (*Registry, error) {
	var opts []BuilderOption
	if v, ok := cfg[keyMatchTimeout]; ok {
		d, err := toDuration(v)
		if err != nil {
			return nil, configErr(keyMatchTimeout, "", "invalid duration", err)
		}
		opts = append(opts, WithMatchTimeout(d))
	}
	b := NewBuilder(opts...)

	inline := DefaultInline()
	if raw, ok := cfg[keyInline]; ok {
		items, err := toTables(raw)
		if err != nil {
			return nil, configErr(keyInline, "", "expected a list of tables", err)
		}
		inline = inline[:0]
		for i, item := range items {
			d, err := decodeInline(item)
			if err != nil {
				return nil, configErr(fmt.Sprintf("%s[%d]", keyInline, i), "", "malformed descriptor", err)
			}
			inline = append(inline, d)
		}
	}
	for _, d := range inline {
		if err := b.Register(d); err != nil {
			return nil, err
		}
	}

	block := DefaultBlock()
	if raw, ok := cfg[keyBlock]; ok {
		items, err := toTables(raw)
		if err != nil {
			return nil, configErr(keyBlock, "", "expected a list of tables", err)
		}
		block = block[:0]
		for i, item := range items {
			d, err := decodeBlock(item)
			if err != nil {
				return nil, configErr(fmt.Sprintf("%s[%d]", keyBlock, i), "", "malformed descriptor", err)
			}
			block = append(block, d)
		}
	}
	for _, d := range block {
		if err := b.RegisterBlock(d); err != nil {
			return nil, err
		}
	}

	keymap := DefaultShortcuts()
	if raw, ok := cfg[keyKeymap]; ok {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, configErr(keyKeymap, "", fmt.Sprintf("expected a table, got %T", raw), nil)
		}
		keymap = make(map[string]string, len(m))
		for spec, v := range m {
			s, ok := v.(string)
			if !ok {
				return nil, configErr(keyKeymap, "", fmt.Sprintf("delimiter for %q must be a string", spec), nil)
			}
			keymap[spec] = s
		}
	}
	specs := make([]string, 0, len(keymap))
	for spec := range keymap {
		specs = append(specs, spec)
	}
	sort.Strings(specs)
	for _, spec := range specs {
		if err := b.Bind(spec, keymap[spec]); err != nil {
			return nil, err
		}
	}

	return b.Build()
}

func decodeInline(m map[string]any) (Descriptor, error) {
	var d Descriptor
	var err error
	if d.Name, err = stringField(m, "name", true); err != nil {
		return d, err
	}
	if d.Pattern, err = stringField(m, "pattern", true); err != nil {
		return d, err
	}
	p := &d.Presentation
	for key, dst := range map[string]*bool{
		"bold":          &p.Bold,
		"italic":        &p.Italic,
		"underline":     &p.Underline,
		"strikethrough": &p.Strikethrough,
		"monospace":     &p.Monospace,
	} {
		if *dst, err = boolField(m, key); err != nil {
			return d, err
		}
	}
	if p.Foreground, err = stringField(m, "foreground", false); err != nil {
		return d, err
	}
	if p.Background, err = stringField(m, "background", false); err != nil {
		return d, err
	}
	return d, nil
}

func decodeBlock(m map[string]any) (BlockDescriptor, error) {
	var d BlockDescriptor
	var err error
	if d.Name, err = stringField(m, "name", true); err != nil {
		return d, err
	}
	if d.Pattern, err = stringField(m, "pattern", true); err != nil {
		return d, err
	}
	v, ok := m["consumed"]
	if !ok {
		return d, fmt.Errorf("missing %q", "consumed")
	}
	n, err := toInt(v)
	if err != nil {
		return d, fmt.Errorf("consumed: %w", err)
	}
	d.ConsumedLength = n
	return d, nil
}

func stringField(m map[string]any, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return "", fmt.Errorf("missing %q", key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected string, got %T", key, v)
	}
	return s, nil
}

func boolField(m map[string]any, key string) (bool, error) {
	v, ok := m[key]
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s: expected bool, got %T", key, v)
	}
	return b, nil
}

func toTables(v any) ([]map[string]any, error) {
	switch items := v.(type) {
	case []map[string]any:
		return items, nil
	case []any:
		out := make([]map[string]any, 0, len(items))
		for i, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("item %d: expected table, got %T", i, item)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("got %T", v)
	}
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func toDuration(v any) (time.Duration, error) {
	switch d := v.(type) {
	case string:
		return time.ParseDuration(d)
	case time.Duration:
		return d, nil
	default:
		ms, err := toInt(v)
		if err != nil {
			return 0, err
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
}
