package view

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Section loads one named part of a page (the list, a catalog, a parent
// list for lookups).
type Section func(ctx context.Context) (any, error)

// Page is the composed payload: every section by name.
type Page map[string]any

// LoadPage runs every section in parallel and returns once all have
// finished. The first failure cancels the rest and fails the page.
func LoadPage(ctx context.Context, sections map[string]Section) (Page, error) {
	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	page := make(Page, len(sections))
	for name, load := range sections {
		name, load := name, load
		g.Go(func() error {
			v, err := load(gctx)
			if err != nil {
				return fmt.Errorf("page section %s: %w", name, err)
			}
			mu.Lock()
			page[name] = v
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}
