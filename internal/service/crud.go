package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"nutripae/internal/apierror"
	"nutripae/internal/cache"
	"nutripae/internal/model"
	"nutripae/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ── Operator identity ────────────────────────────────────────────────────────

// Operator is the authenticated back-office user behind a request.
type Operator struct {
	ID       uuid.UUID
	Username string
	Rol      string
}

type operatorKey struct{}

func WithOperator(ctx context.Context, op Operator) context.Context {
	return context.WithValue(ctx, operatorKey{}, op)
}

func OperatorFrom(ctx context.Context) (Operator, bool) {
	op, ok := ctx.Value(operatorKey{}).(Operator)
	return op, ok
}

// Auditor records successful mutations. Recording is best-effort and never
// fails the mutation.
type Auditor interface {
	Record(ctx context.Context, recurso, accion, recursoID string)
}

// Audit actions.
const (
	AccionCrear      = "crear"
	AccionActualizar = "actualizar"
	AccionEliminar   = "eliminar"
)

// ── Generic resource service ─────────────────────────────────────────────────

// CRUDConfig describes how one resource is cached and what else a mutation
// makes stale.
type CRUDConfig struct {
	Resource string
	Stale    time.Duration
	Auditor  Auditor
}

// CRUDService is the data hook of one upstream resource: reads go through the
// query cache, mutations go straight to the repository and then invalidate the
// resource and its related resources.
type CRUDService[T model.Entity, C, U any] struct {
	resource string
	repo     repository.ResourceRepository[T, C, U]
	store    *cache.Store
	stale    time.Duration
	related  []string
	auditor  Auditor
}

func NewCRUDService[T model.Entity, C, U any](repo repository.ResourceRepository[T, C, U], store *cache.Store, cfg CRUDConfig) *CRUDService[T, C, U] {
	return &CRUDService[T, C, U]{
		resource: cfg.Resource,
		repo:     repo,
		store:    store,
		stale:    cfg.Stale,
		related:  Related(cfg.Resource),
		auditor:  cfg.Auditor,
	}
}

func (s *CRUDService[T, C, U]) Resource() string { return s.resource }

func (s *CRUDService[T, C, U]) Listar(ctx context.Context, filters url.Values) ([]T, error) {
	return cache.Query(ctx, s.store, cache.KeyFromQuery(s.resource, filters), s.options(), func(ctx context.Context) ([]T, error) {
		return s.repo.List(ctx, filters)
	})
}

func (s *CRUDService[T, C, U]) ObtenerPorID(ctx context.Context, id string) (*T, error) {
	opts := s.options()
	opts.Disabled = id == ""
	v, err := cache.Query(ctx, s.store, cache.NewKey(s.resource, "id", id), opts, func(ctx context.Context) (*T, error) {
		return s.repo.FindByID(ctx, id)
	})
	if errors.Is(err, cache.ErrDisabled) {
		return nil, apierror.Validation(map[string]string{"id": "Identificador requerido"})
	}
	return v, err
}

func (s *CRUDService[T, C, U]) Crear(ctx context.Context, req C) (*T, error) {
	out, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.Mutated(ctx, AccionCrear, (*out).EntityID())
	return out, nil
}

func (s *CRUDService[T, C, U]) Actualizar(ctx context.Context, id string, req U) (*T, error) {
	out, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.Mutated(ctx, AccionActualizar, id)
	return out, nil
}

func (s *CRUDService[T, C, U]) Eliminar(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Mutated(ctx, AccionEliminar, id)
	return nil
}

// IDs returns the set of known ids, for reference checks in forms.
func (s *CRUDService[T, C, U]) IDs(ctx context.Context) (map[string]bool, error) {
	rows, err := s.Listar(ctx, nil)
	return idSet(rows, err)
}

// Mutated invalidates the resource keys plus related ones and records the
// action. It runs after the upstream call succeeded, so a client that went
// away in the meantime does not leave the cache stale.
func (s *CRUDService[T, C, U]) Mutated(ctx context.Context, accion, id string) {
	ctx = context.WithoutCancel(ctx)
	resources := append([]string{s.resource}, s.related...)
	if err := s.store.Invalidate(ctx, resources...); err != nil {
		log.Warn().Err(err).Strs("resources", resources).Msg("cache invalidation failed")
	}
	if s.auditor != nil {
		s.auditor.Record(ctx, s.resource, accion, id)
	}
}

func (s *CRUDService[T, C, U]) options() cache.Options {
	return cache.Options{StaleTime: s.stale}
}
