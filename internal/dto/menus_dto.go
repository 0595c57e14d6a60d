package dto

import (
	"nutripae/internal/model"

	"github.com/shopspring/decimal"
)

// Ingredients, dishes and cycles are replaced whole (PUT), so one request
// type serves both create and edit.

type IngredientRequest struct {
	Name              string  `json:"name"                  validate:"required,notblank,max=100"`
	BaseUnitOfMeasure string  `json:"base_unit_of_measure"  validate:"required,oneof=g kg mg ml l unidad"`
	Category          string  `json:"category"              validate:"required,notblank,max=60"`
	Description       *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

type RecipeItemInput struct {
	IngredientID string          `json:"ingredient_id" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"      validate:"required,gt=0"`
	Unit         string          `json:"unit"          validate:"required,oneof=g kg mg ml l unidad"`
}

type NutritionalInfoInput struct {
	Calories      decimal.Decimal `json:"calories"      validate:"gte=0"`
	Proteins      decimal.Decimal `json:"proteins"      validate:"gte=0"`
	Carbohydrates decimal.Decimal `json:"carbohydrates" validate:"gte=0"`
	Fats          decimal.Decimal `json:"fats"          validate:"gte=0"`
}

type DishRequest struct {
	Name                string               `json:"name"                  validate:"required,notblank,max=120"`
	Description         *string              `json:"description,omitempty" validate:"omitempty,max=500"`
	Recipe              []RecipeItemInput    `json:"recipe"                validate:"required,min=1,dive"`
	CompatibleMealTypes []string             `json:"compatible_meal_types" validate:"required,min=1,dive,oneof=breakfast lunch snack"`
	NutritionalInfo     NutritionalInfoInput `json:"nutritional_info"`
}

type DailyMenuInput struct {
	Day              int      `json:"day"                validate:"required,gt=0"`
	BreakfastDishIDs []string `json:"breakfast_dish_ids" validate:"dive,required"`
	LunchDishIDs     []string `json:"lunch_dish_ids"     validate:"dive,required"`
	SnackDishIDs     []string `json:"snack_dish_ids"     validate:"dive,required"`
}

func (d DailyMenuInput) DishCount() int {
	return len(d.BreakfastDishIDs) + len(d.LunchDishIDs) + len(d.SnackDishIDs)
}

type MenuCycleRequest struct {
	Name         string           `json:"name"                  validate:"required,notblank,max=120"`
	Description  *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	DurationDays int              `json:"duration_days"         validate:"required,gt=0,max=60"`
	DailyMenus   []DailyMenuInput `json:"daily_menus"           validate:"required,min=1,dive"`
}

type ScheduleCoverageInput struct {
	CampusID int `json:"campus_id" validate:"required,gt=0"`
	TownID   int `json:"town_id"   validate:"required,gt=0"`
}

// MenuScheduleRequest assigns a cycle to a set of campuses for a date range.
type MenuScheduleRequest struct {
	MenuCycleID string                  `json:"menu_cycle_id" validate:"required"`
	Coverage    []ScheduleCoverageInput `json:"coverage"      validate:"required,min=1,dive"`
	StartDate   string                  `json:"start_date"    validate:"required,isodate" normalize:"date"`
	EndDate     string                  `json:"end_date"      validate:"required,isodate" normalize:"date"`
}

type CancelScheduleRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type IngredientStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type NameAvailabilityResponse struct {
	Available bool `json:"available"`
}

// ─── Edit prefill ────────────────────────────────────────────────────────────

func IngredientFrom(m model.Ingredient) IngredientRequest {
	return IngredientRequest{
		Name:              m.Name,
		BaseUnitOfMeasure: m.BaseUnitOfMeasure,
		Category:          m.Category,
		Description:       m.Description,
	}
}

func DishFrom(m model.Dish) DishRequest {
	recipe := make([]RecipeItemInput, len(m.Recipe))
	for i, r := range m.Recipe {
		recipe[i] = RecipeItemInput{IngredientID: r.IngredientID, Quantity: r.Quantity, Unit: r.Unit}
	}
	return DishRequest{
		Name:                m.Name,
		Description:         m.Description,
		Recipe:              recipe,
		CompatibleMealTypes: append([]string(nil), m.CompatibleMealTypes...),
		NutritionalInfo: NutritionalInfoInput{
			Calories:      m.NutritionalInfo.Calories,
			Proteins:      m.NutritionalInfo.Proteins,
			Carbohydrates: m.NutritionalInfo.Carbohydrates,
			Fats:          m.NutritionalInfo.Fats,
		},
	}
}

func MenuCycleFrom(m model.MenuCycle) MenuCycleRequest {
	days := make([]DailyMenuInput, len(m.DailyMenus))
	for i, d := range m.DailyMenus {
		days[i] = DailyMenuInput{
			Day:              d.Day,
			BreakfastDishIDs: append([]string(nil), d.BreakfastDishIDs...),
			LunchDishIDs:     append([]string(nil), d.LunchDishIDs...),
			SnackDishIDs:     append([]string(nil), d.SnackDishIDs...),
		}
	}
	return MenuCycleRequest{
		Name:         m.Name,
		Description:  m.Description,
		DurationDays: m.DurationDays,
		DailyMenus:   days,
	}
}

func MenuScheduleFrom(m model.MenuSchedule) MenuScheduleRequest {
	cov := make([]ScheduleCoverageInput, len(m.Coverage))
	for i, c := range m.Coverage {
		cov[i] = ScheduleCoverageInput{CampusID: c.CampusID, TownID: c.TownID}
	}
	return MenuScheduleRequest{
		MenuCycleID: m.MenuCycleID,
		Coverage:    cov,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
	}
}
