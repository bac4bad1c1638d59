package watcher

import "context"

// Reload returns a Handler that calls reload when a watched file is
// written or created. Removals and renames keep the current state.
func Reload(ctx context.Context, reload func(ctx context.Context) error) Handler {
	return func(event Event) {
		if event.Op != OpWrite && event.Op != OpCreate {
			log.Infof("%s %s, keeping current styles", event.Path, event.Op)
			return
		}
		if err := ctx.Err(); err != nil {
			return
		}
		if err := reload(ctx); err != nil {
			log.Errorf("reloading %s: %s", event.Path, err)
		}
	}
}
