package model

import "github.com/shopspring/decimal"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Ingredient struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	BaseUnitOfMeasure string  `json:"base_unit_of_measure"`
	Category          string  `json:"category"`
	Description       *string `json:"description,omitempty"`
	Status            string  `json:"status"`
}

func (i Ingredient) EntityID() string { return i.ID }

// DishRef is the short form of a dish listed inside an ingredient detail.
type DishRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type IngredientDetail struct {
	Ingredient
	UsedInDishes []DishRef `json:"used_in_dishes"`
}

type RecipeItem struct {
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
}

type NutritionalInfo struct {
	Calories      decimal.Decimal `json:"calories"`
	Proteins      decimal.Decimal `json:"proteins"`
	Carbohydrates decimal.Decimal `json:"carbohydrates"`
	Fats          decimal.Decimal `json:"fats"`
}

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealSnack     = "snack"
)

type Dish struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Description         *string         `json:"description,omitempty"`
	Recipe              []RecipeItem    `json:"recipe"`
	CompatibleMealTypes []string        `json:"compatible_meal_types"`
	NutritionalInfo     NutritionalInfo `json:"nutritional_info"`
	Status              string          `json:"status"`
}

func (d Dish) EntityID() string { return d.ID }

type DailyMenu struct {
	Day              int      `json:"day"`
	BreakfastDishIDs []string `json:"breakfast_dish_ids"`
	LunchDishIDs     []string `json:"lunch_dish_ids"`
	SnackDishIDs     []string `json:"snack_dish_ids"`
}

// DishCount is the number of dishes across the three meal slots.
func (d DailyMenu) DishCount() int {
	return len(d.BreakfastDishIDs) + len(d.LunchDishIDs) + len(d.SnackDishIDs)
}

type MenuCycle struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  *string     `json:"description,omitempty"`
	DurationDays int         `json:"duration_days"`
	DailyMenus   []DailyMenu `json:"daily_menus"`
	Status       string      `json:"status"`
}

func (m MenuCycle) EntityID() string { return m.ID }

// Menu schedule states. future → active → completed is computed upstream;
// cancelled is reachable only from future or active.
const (
	ScheduleFuture    = "future"
	ScheduleActive    = "active"
	ScheduleCompleted = "completed"
	ScheduleCancelled = "cancelled"
)

type ScheduleCoverage struct {
	CampusID int `json:"campus_id"`
	TownID   int `json:"town_id"`
}

type MenuSchedule struct {
	ID                 string             `json:"id"`
	MenuCycleID        string             `json:"menu_cycle_id"`
	Coverage           []ScheduleCoverage `json:"coverage"`
	StartDate          string             `json:"start_date"`
	EndDate            string             `json:"end_date"`
	Status             string             `json:"status"`
	CancellationReason *string            `json:"cancellation_reason,omitempty"`
	CancelledAt        *string            `json:"cancelled_at,omitempty"`
}

func (m MenuSchedule) EntityID() string { return m.ID }

// Cancellable reports whether the schedule may still move to cancelled.
func (m MenuSchedule) Cancellable() bool {
	return m.Status == ScheduleFuture || m.Status == ScheduleActive
}
