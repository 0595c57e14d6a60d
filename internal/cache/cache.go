// Package cache is the query cache behind every read of the BFF. It stores
// decoded upstream answers as JSON together with their fetch time, shares one
// upstream call between concurrent readers of the same key, and drops whole
// resource families on mutation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ErrDisabled is returned by Query when Options.Disabled is set.
var ErrDisabled = errors.New("cache: query disabled")

const (
	// StaleAlways revalidates on every read.
	StaleAlways time.Duration = 0
	// StaleNever keeps the first answer until invalidated.
	StaleNever time.Duration = -1
)

type Options struct {
	StaleTime time.Duration
	Disabled  bool
}

// Entry is what a Backend persists.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Backend persists entries. Implementations must be safe for concurrent use.
type Backend interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Store is the injectable query cache. The zero value is not usable; build
// it with New.
type Store struct {
	backend Backend
	group   singleflight.Group
	now     func() time.Time
	timeout time.Duration

	mu   sync.Mutex
	gens map[string]uint64
}

// DefaultFetchTimeout bounds a shared fetch once it no longer follows the
// context of the caller that started it.
const DefaultFetchTimeout = 30 * time.Second

func New(b Backend) *Store {
	return &Store{backend: b, now: time.Now, timeout: DefaultFetchTimeout, gens: make(map[string]uint64)}
}

// SetFetchTimeout replaces DefaultFetchTimeout. Non-positive values are ignored.
func (s *Store) SetFetchTimeout(d time.Duration) *Store {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// NewMemoryStore is shorthand for New(NewMemory()).
func NewMemoryStore() *Store { return New(NewMemory()) }

func (s *Store) generation(resource string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[resource]
}

// Invalidate drops every key of the named resources. A fetch that started
// before the call still returns to its callers but is not stored.
func (s *Store) Invalidate(ctx context.Context, resources ...string) error {
	s.mu.Lock()
	for _, r := range resources {
		s.gens[r]++
	}
	s.mu.Unlock()

	var errs []error
	for _, r := range resources {
		if err := s.backend.DeletePrefix(ctx, prefixOf(r)); err != nil {
			errs = append(errs, fmt.Errorf("cache: invalidate %s: %w", r, err))
		}
	}
	return errors.Join(errs...)
}

// Query returns the cached value for key while it is fresh, otherwise runs
// fetch once for all concurrent callers and stores the result.
func Query[T any](ctx context.Context, s *Store, key Key, opts Options, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if opts.Disabled {
		return zero, ErrDisabled
	}
	k := key.String()

	if opts.StaleTime != StaleAlways {
		entry, ok, err := s.backend.Get(ctx, k)
		if err != nil {
			log.Warn().Err(err).Str("key", k).Msg("cache: read failed, fetching")
		}
		if ok && s.fresh(entry, opts.StaleTime) {
			var v T
			if err := json.Unmarshal(entry.Data, &v); err == nil {
				return v, nil
			}
		}
	}

	gen := s.generation(key.Resource)
	flightKey := k + "#" + strconv.FormatUint(gen, 10)
	ch := s.group.DoChan(flightKey, func() (any, error) {
		// Joined callers share this fetch, so the first caller leaving must
		// not cancel it for the rest.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		v, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("cache: encode %s: %w", k, err)
		}
		if s.generation(key.Resource) == gen {
			if err := s.backend.Set(fctx, k, Entry{Data: data, FetchedAt: s.now()}); err != nil {
				log.Warn().Err(err).Str("key", k).Msg("cache: write failed")
			}
		}
		return json.RawMessage(data), nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		var v T
		if err := json.Unmarshal(res.Val.(json.RawMessage), &v); err != nil {
			return zero, fmt.Errorf("cache: decode %s: %w", k, err)
		}
		return v, nil
	}
}

func (s *Store) fresh(e Entry, stale time.Duration) bool {
	if stale == StaleNever {
		return true
	}
	return s.now().Sub(e.FetchedAt) < stale
}
