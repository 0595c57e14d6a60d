// Package catalog serves the low-churn reference lists (document types,
// genders, grades…) that forms validate against and tables use to resolve
// ids into names.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"nutripae/internal/model"
)

// Item is a catalog entry.
type Item = model.CatalogItem

// Provider lists the entries of one catalog.
type Provider[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// Catalog names, "<service>/<name>".
const (
	DocumentTypes        = "coverage/document-types"
	Genders              = "coverage/genders"
	Grades               = "coverage/grades"
	EthnicGroups         = "coverage/ethnic-groups"
	DisabilityTypes      = "coverage/disability-types"
	BenefitTypes         = "coverage/benefit-types"
	HRDocumentTypes      = "hr/document-types"
	HRGenders            = "hr/genders"
	OperationalRoles     = "hr/operational-roles"
	AvailabilityStatuses = "hr/availability-statuses"
)

// Static is a fixed in-memory catalog.
type Static []Item

func (s Static) List(context.Context) ([]Item, error) { return s, nil }

// Contains reports whether id is one of p's entries.
func Contains(ctx context.Context, p Provider[Item], id int) (bool, error) {
	_, ok, err := Find(ctx, p, id)
	return ok, err
}

// Find looks id up in p.
func Find(ctx context.Context, p Provider[Item], id int) (Item, bool, error) {
	items, err := p.List(ctx)
	if err != nil {
		return Item{}, false, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, true, nil
		}
	}
	return Item{}, false, nil
}

// Names maps id → name, for table cells.
func Names(ctx context.Context, p Provider[Item]) (map[int]string, error) {
	items, err := p.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[int]string, len(items))
	for _, it := range items {
		out[it.ID] = it.Name
	}
	return out, nil
}

// Registry resolves catalog names to providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider[Item]
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider[Item])}
}

func (r *Registry) Register(name string, p Provider[Item]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider[Item], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("catalog: %q not registered", name)
	}
	return p, nil
}

// MustGet is Get for wiring code where a missing catalog is a programming error.
func (r *Registry) MustGet(name string) Provider[Item] {
	p, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return p
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.providers))
	for n := range r.providers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
