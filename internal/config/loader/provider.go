package loader

import (
	"context"

	"github.com/dshills/markflow/internal/style"
)

// FileProvider supplies a style registry read from a file, with
// environment overrides on top. An empty or missing file yields the
// built-in registry.
type FileProvider struct {
	file Loader
	env  Loader
}

// ProviderOption configures a FileProvider.
type ProviderOption func(*FileProvider)

// WithEnv layers env over the file contents.
func WithEnv(env Loader) ProviderOption {
	return func(p *FileProvider) {
		p.env = env
	}
}

// NewFileProvider creates a provider reading file.
func NewFileProvider(file Loader, opts ...ProviderOption) *FileProvider {
	p := &FileProvider{file: file}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchStyleRegistry implements style.Provider. Decoding problems are
// returned as *style.ConfigError by style.FromConfig; read and parse
// failures are returned as is.
func (p *FileProvider) FetchStyleRegistry(ctx context.Context) (*style.Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg, err := p.file.Load()
	if err != nil {
		return nil, err
	}
	if p.env != nil {
		over, err := p.env.Load()
		if err != nil {
			return nil, err
		}
		if len(over) > 0 {
			cfg = DeepMerge(cfg, over)
		}
	}
	if len(cfg) == 0 {
		log.Debug("empty registry file, using built-in styles")
		return style.Default(), nil
	}
	return style.FromConfig(cfg)
}
