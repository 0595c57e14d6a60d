package repository

import (
	"context"
	"net/url"

	"nutripae/internal/dto"
	"nutripae/internal/model"
)

type IngredientRepository interface {
	ResourceRepository[model.Ingredient, dto.IngredientRequest, dto.IngredientRequest]
	ListActive(ctx context.Context) ([]model.Ingredient, error)
	FindDetailed(ctx context.Context, id string) (*model.IngredientDetail, error)
	NameAvailable(ctx context.Context, name, excludeID string) (bool, error)
	SetStatus(ctx context.Context, id, status string) (*model.Ingredient, error)
}

type DishRepository interface {
	ResourceRepository[model.Dish, dto.DishRequest, dto.DishRequest]
	SetStatus(ctx context.Context, id, status string) (*model.Dish, error)
}

type MenuCycleRepository = ResourceRepository[model.MenuCycle, dto.MenuCycleRequest, dto.MenuCycleRequest]

type MenuScheduleRepository interface {
	ResourceRepository[model.MenuSchedule, dto.MenuScheduleRequest, dto.MenuScheduleRequest]
	Cancel(ctx context.Context, id string, req dto.CancelScheduleRequest) (*model.MenuSchedule, error)
}

// MenusRepositories groups the menus service resources. Edits replace the
// whole document (PUT).
type MenusRepositories struct {
	Ingredients IngredientRepository
	Dishes      DishRepository
	MenuCycles  MenuCycleRepository
	Schedules   MenuScheduleRepository
}

func NewMenusRepositories(c Client) *MenusRepositories {
	return &MenusRepositories{
		Ingredients: &ingredientRepo{
			Resource: NewResource[model.Ingredient, dto.IngredientRequest, dto.IngredientRequest](c, "/ingredients", UpdatePut),
			client:   c,
		},
		Dishes: &dishRepo{
			Resource: NewResource[model.Dish, dto.DishRequest, dto.DishRequest](c, "/dishes", UpdatePut),
			client:   c,
		},
		MenuCycles: NewResource[model.MenuCycle, dto.MenuCycleRequest, dto.MenuCycleRequest](c, "/menu-cycles", UpdatePut),
		Schedules: &scheduleRepo{
			Resource: NewResource[model.MenuSchedule, dto.MenuScheduleRequest, dto.MenuScheduleRequest](c, "/menu-schedules", UpdatePut,
				WithCreatePath("/menu-schedules/assign")),
		},
	}
}

type statusBody struct {
	Status string `json:"status"`
}

// ── Ingredients ──────────────────────────────────────────────────────────────

type ingredientRepo struct {
	*Resource[model.Ingredient, dto.IngredientRequest, dto.IngredientRequest]
	client Client
}

func (r *ingredientRepo) ListActive(ctx context.Context) ([]model.Ingredient, error) {
	return getList[model.Ingredient](ctx, r.client, "/ingredients/active", nil)
}

func (r *ingredientRepo) FindDetailed(ctx context.Context, id string) (*model.IngredientDetail, error) {
	var out model.IngredientDetail
	if err := r.client.Get(ctx, r.itemPath(id)+"/detailed", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ingredientRepo) NameAvailable(ctx context.Context, name, excludeID string) (bool, error) {
	q := url.Values{"name": {name}}
	if excludeID != "" {
		q.Set("exclude_id", excludeID)
	}
	var out dto.NameAvailabilityResponse
	if err := r.client.Get(ctx, "/ingredients/check-name", q, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

func (r *ingredientRepo) SetStatus(ctx context.Context, id, status string) (*model.Ingredient, error) {
	var out model.Ingredient
	if err := r.client.Patch(ctx, r.itemPath(id), statusBody{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Dishes ───────────────────────────────────────────────────────────────────

type dishRepo struct {
	*Resource[model.Dish, dto.DishRequest, dto.DishRequest]
	client Client
}

func (r *dishRepo) SetStatus(ctx context.Context, id, status string) (*model.Dish, error) {
	var out model.Dish
	if err := r.client.Patch(ctx, r.itemPath(id), statusBody{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Schedules ────────────────────────────────────────────────────────────────

type scheduleRepo struct {
	*Resource[model.MenuSchedule, dto.MenuScheduleRequest, dto.MenuScheduleRequest]
}

func (r *scheduleRepo) Cancel(ctx context.Context, id string, req dto.CancelScheduleRequest) (*model.MenuSchedule, error) {
	return r.action(ctx, id, "cancel", req)
}
