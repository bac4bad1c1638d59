package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix of environment overrides.
const DefaultEnvPrefix = "MARKFLOW_"

// EnvLoader reads top-level overrides from the environment:
// MARKFLOW_MATCH_TIMEOUT=100ms sets match_timeout.
type EnvLoader struct {
	prefix  string
	environ func() []string
}

// NewEnvLoader creates a loader for variables starting with prefix.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix, environ: os.Environ}
}

// Load implements Loader. It returns nil when no variable is set.
func (l *EnvLoader) Load() (map[string]any, error) {
	var cfg map[string]any
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, l.prefix))
		if key == "" {
			continue
		}
		if cfg == nil {
			cfg = make(map[string]any)
		}
		cfg[key] = parseValue(value)
	}
	return cfg, nil
}

func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	return s
}
