package catalog

import (
	"context"
	"strings"

	"nutripae/internal/cache"
)

// Fetcher loads one catalog from its upstream endpoint
// (/parametrics/{name} on coverage, /options/{name} on hr).
type Fetcher func(ctx context.Context, name string) ([]Item, error)

// Remote reads a service catalog through the query cache. Catalogs are
// session-immutable, so entries never go stale.
type Remote struct {
	name  string
	store *cache.Store
	fetch Fetcher
}

// NewRemote builds a provider for name ("coverage/genders"). fetch receives
// the part after the service prefix ("genders").
func NewRemote(name string, store *cache.Store, fetch Fetcher) *Remote {
	return &Remote{name: name, store: store, fetch: fetch}
}

func (r *Remote) List(ctx context.Context) ([]Item, error) {
	service, short, _ := strings.Cut(r.name, "/")
	key := cache.NewKey("catalog", service, short)
	return cache.Query(ctx, r.store, key, cache.Options{StaleTime: cache.StaleNever}, func(ctx context.Context) ([]Item, error) {
		return r.fetch(ctx, short)
	})
}
