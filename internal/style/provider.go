package style

import "context"

// Provider supplies the registry used by the edit pipeline. Fetching may
// block (disk, network).
type Provider interface {
	FetchStyleRegistry(ctx context.Context) (*Registry, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (*Registry, error)

// FetchStyleRegistry calls f(ctx).
func (f ProviderFunc) FetchStyleRegistry(ctx context.Context) (*Registry, error) {
	return f(ctx)
}

// Static returns a Provider that always yields r.
func Static(r *Registry) Provider {
	return ProviderFunc(func(ctx context.Context) (*Registry, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return r, nil
	})
}
