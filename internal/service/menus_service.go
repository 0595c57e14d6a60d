package service

import (
	"context"
	"errors"
	"time"

	"nutripae/internal/apierror"
	"nutripae/internal/cache"
	"nutripae/internal/dto"
	"nutripae/internal/model"
	"nutripae/internal/repository"
)

// Status change actions.
const (
	AccionActivar    = "activar"
	AccionDesactivar = "desactivar"
	AccionCancelar   = "cancelar"
)

type MenuCycleService = CRUDService[model.MenuCycle, dto.MenuCycleRequest, dto.MenuCycleRequest]

type MenusServices struct {
	Ingredients *IngredientService
	Dishes      *DishService
	MenuCycles  *MenuCycleService
	Schedules   *MenuScheduleService
}

func NewMenusServices(repos *repository.MenusRepositories, store *cache.Store, stale time.Duration, auditor Auditor) *MenusServices {
	cfg := func(resource string) CRUDConfig {
		return CRUDConfig{Resource: resource, Stale: stale, Auditor: auditor}
	}
	return &MenusServices{
		Ingredients: &IngredientService{
			CRUDService: NewCRUDService[model.Ingredient, dto.IngredientRequest, dto.IngredientRequest](repos.Ingredients, store, cfg(ResIngredients)),
			repo:        repos.Ingredients,
		},
		Dishes: &DishService{
			CRUDService: NewCRUDService[model.Dish, dto.DishRequest, dto.DishRequest](repos.Dishes, store, cfg(ResDishes)),
			repo:        repos.Dishes,
		},
		MenuCycles: NewCRUDService(repos.MenuCycles, store, cfg(ResMenuCycles)),
		Schedules: &MenuScheduleService{
			CRUDService: NewCRUDService[model.MenuSchedule, dto.MenuScheduleRequest, dto.MenuScheduleRequest](repos.Schedules, store, cfg(ResMenuSchedules)),
			repo:        repos.Schedules,
		},
	}
}

// ── Ingredients ──────────────────────────────────────────────────────────────

type IngredientService struct {
	*CRUDService[model.Ingredient, dto.IngredientRequest, dto.IngredientRequest]
	repo repository.IngredientRepository
}

func (s *IngredientService) ListarActivos(ctx context.Context) ([]model.Ingredient, error) {
	return cache.Query(ctx, s.store, cache.NewKey(ResIngredients, "active"), s.options(), s.repo.ListActive)
}

func (s *IngredientService) ObtenerDetallado(ctx context.Context, id string) (*model.IngredientDetail, error) {
	opts := s.options()
	opts.Disabled = id == ""
	v, err := cache.Query(ctx, s.store, cache.NewKey(ResIngredients, "detailed", id), opts, func(ctx context.Context) (*model.IngredientDetail, error) {
		return s.repo.FindDetailed(ctx, id)
	})
	if errors.Is(err, cache.ErrDisabled) {
		return nil, apierror.Validation(map[string]string{"id": "Identificador requerido"})
	}
	return v, err
}

// NombreDisponible asks the menus service directly; uniqueness answers are
// never served from cache.
func (s *IngredientService) NombreDisponible(ctx context.Context, name, excludeID string) (bool, error) {
	return s.repo.NameAvailable(ctx, name, excludeID)
}

func (s *IngredientService) CambiarEstado(ctx context.Context, id, status string) (*model.Ingredient, error) {
	out, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.Mutated(ctx, accionEstado(status), id)
	return out, nil
}

// ── Dishes ───────────────────────────────────────────────────────────────────

type DishService struct {
	*CRUDService[model.Dish, dto.DishRequest, dto.DishRequest]
	repo repository.DishRepository
}

func (s *DishService) CambiarEstado(ctx context.Context, id, status string) (*model.Dish, error) {
	out, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.Mutated(ctx, accionEstado(status), id)
	return out, nil
}

// ── Schedules ────────────────────────────────────────────────────────────────

type MenuScheduleService struct {
	*CRUDService[model.MenuSchedule, dto.MenuScheduleRequest, dto.MenuScheduleRequest]
	repo repository.MenuScheduleRepository
}

// Cancelar moves a future or active schedule to cancelled. Other states are
// rejected with a conflict before calling the menus service.
func (s *MenuScheduleService) Cancelar(ctx context.Context, id string, req dto.CancelScheduleRequest) (*model.MenuSchedule, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Cancellable() {
		return nil, apierror.Conflict("Solo se pueden cancelar programaciones futuras o activas")
	}
	out, err := s.repo.Cancel(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.Mutated(ctx, AccionCancelar, id)
	return out, nil
}

func accionEstado(status string) string {
	if status == model.StatusActive {
		return AccionActivar
	}
	return AccionDesactivar
}

func idSet[T model.Entity](rows []T, err error) (map[string]bool, error) {
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(rows))
	for _, r := range rows {
		out[r.EntityID()] = true
	}
	return out, nil
}
