package loader

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// TOML decodes TOML files.
type TOML struct{}

// Name implements Format.
func (TOML) Name() string { return "toml" }

// Decode implements Format.
func (TOML) Decode(source string, data []byte) (map[string]any, error) {
	var cfg map[string]any
	if err := toml.Unmarshal(data, &cfg); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return nil, pe
	}
	return cfg, nil
}

// YAML decodes YAML files.
type YAML struct{}

// Name implements Format.
func (YAML) Name() string { return "yaml" }

// Decode implements Format.
func (YAML) Decode(source string, data []byte) (map[string]any, error) {
	var cfg map[string]any
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return cfg, nil
}

// JSON decodes JSON files. Numbers decode as float64.
type JSON struct{}

// Name implements Format.
func (JSON) Name() string { return "json" }

// Decode implements Format.
func (JSON) Decode(source string, data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Message: "invalid JSON"}
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return nil, &ParseError{Path: source, Message: fmt.Sprintf("top level must be an object, got %s", res.Type)}
	}
	cfg, _ := res.Value().(map[string]any)
	return cfg, nil
}
