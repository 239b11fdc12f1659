package cache

import "context"

type TemplateCache interface {
	// Get returns the cached template and whether one was present.
	Get(ctx context.Context) (string, bool, error)
	Store(ctx context.Context, text string) error
}
