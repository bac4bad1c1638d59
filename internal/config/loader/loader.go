// Package loader reads style registry files.
//
// A registry file is decoded into a plain map[string]any which
// style.FromConfig turns into a registry. TOML, YAML, JSON and Lua files
// are supported; the format is chosen from the file extension. Any file
// may pull in others with an "@include" key, whose values are merged
// below the including file.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("markflow.config.loader")

// DefaultIncludeDepth bounds nested @include directives.
const DefaultIncludeDepth = 8

// includeKey names the directive listing files to merge below the
// current one.
const includeKey = "@include"

// ErrUnknownFormat is returned by ForPath for unsupported extensions.
var ErrUnknownFormat = errors.New("unknown config format")

// Loader reads a configuration map. A missing source yields nil, nil.
type Loader interface {
	Load() (map[string]any, error)
}

// FileSystem is the file access used by loaders; tests supply an
// in-memory one.
type FileSystem interface {
	fs.FS
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem on the real file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// Format decodes one file format.
type Format interface {
	Name() string
	Decode(source string, data []byte) (map[string]any, error)
}

// FormatFor returns the format for path's extension.
func FormatFor(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		return TOML{}, nil
	case ".yaml", ".yml":
		return YAML{}, nil
	case ".json":
		return JSON{}, nil
	case ".lua":
		return Lua{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

// FileLoader loads a registry file and its includes.
type FileLoader struct {
	fs       FileSystem
	path     string
	format   Format
	maxDepth int
}

// Option configures a FileLoader.
type Option func(*FileLoader)

// WithFS sets the file system.
func WithFS(fsys FileSystem) Option {
	return func(l *FileLoader) {
		if fsys != nil {
			l.fs = fsys
		}
	}
}

// WithIncludeDepth sets the maximum @include nesting.
func WithIncludeDepth(depth int) Option {
	return func(l *FileLoader) {
		if depth > 0 {
			l.maxDepth = depth
		}
	}
}

// ForPath creates a loader for path, picking the format from its
// extension.
func ForPath(path string, opts ...Option) (*FileLoader, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	return New(path, f, opts...), nil
}

// New creates a loader reading path with format f.
func New(path string, f Format, opts ...Option) *FileLoader {
	l := &FileLoader{
		fs:       DefaultFS(),
		path:     path,
		format:   f,
		maxDepth: DefaultIncludeDepth,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the file the loader reads.
func (l *FileLoader) Path() string {
	return l.path
}

// Load reads the file and resolves its includes.
func (l *FileLoader) Load() (map[string]any, error) {
	return l.load(l.path, l.format, l.maxDepth)
}

// LoadFromReader decodes r without include processing.
func (l *FileLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.format.Decode("<reader>", data)
}

func (l *FileLoader) load(path string, f Format, depth int) (map[string]any, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("include depth exceeded for %s", path)
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg, err := f.Decode(path, data)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, nil
	}

	raw, ok := cfg[includeKey]
	if !ok {
		return cfg, nil
	}
	delete(cfg, includeKey)

	includes, err := includeList(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	merged := map[string]any{}
	for _, inc := range includes {
		incPath := inc
		if !filepath.IsAbs(inc) {
			incPath = filepath.Join(base, inc)
		}
		incFormat, err := FormatFor(incPath)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", incPath, err)
		}
		incCfg, err := l.load(incPath, incFormat, depth-1)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", incPath, err)
		}
		if incCfg == nil {
			log.Warningf("include %s not found", incPath)
			continue
		}
		merged = DeepMerge(merged, incCfg)
	}
	return DeepMerge(merged, cfg), nil
}

func includeList(v any) ([]string, error) {
	switch inc := v.(type) {
	case string:
		return []string{inc}, nil
	case []string:
		return inc, nil
	case []any:
		out := make([]string, 0, len(inc))
		for _, item := range inc {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be a string or a list of strings", includeKey)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s must be a string or a list of strings, got %T", includeKey, v)
}

// ParseError reports a file that could not be decoded.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DeepMerge merges src into dst and returns dst. Values in src win;
// nested maps are merged, everything else is replaced.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = srcVal
	}
	return dst
}
