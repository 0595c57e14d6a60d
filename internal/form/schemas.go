package form

import (
	"context"
	"fmt"
	"time"

	"nutripae/internal/catalog"
	"nutripae/internal/dto"
)

// Ref checks that the id picked for field exists in the catalog. Nil or zero
// ids are left to the validator tags.
func Ref[T any](field string, p catalog.Provider[catalog.Item], value func(*T) *int) Check[T] {
	return func(ctx context.Context, v *T) (map[string]string, error) {
		id := value(v)
		if id == nil || *id == 0 {
			return nil, nil
		}
		ok, err := catalog.Contains(ctx, p, *id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return map[string]string{field: "Seleccione una opción válida"}, nil
		}
		return nil, nil
	}
}

// IDSet loads the ids of the records a form may reference.
type IDSet func(ctx context.Context) (map[string]bool, error)

// RefsExist checks every referenced id; refs maps field key → id.
func RefsExist[T any](set IDSet, msg string, refs func(*T) map[string]string) Check[T] {
	return func(ctx context.Context, v *T) (map[string]string, error) {
		wanted := refs(v)
		if len(wanted) == 0 {
			return nil, nil
		}
		known, err := set(ctx)
		if err != nil {
			return nil, err
		}
		var errs map[string]string
		for field, id := range wanted {
			if known[id] {
				continue
			}
			if errs == nil {
				errs = make(map[string]string)
			}
			errs[field] = msg
		}
		return errs, nil
	}
}

// ── Coverage ─────────────────────────────────────────────────────────────────

func BeneficiaryCreate(reg *catalog.Registry) Schema[dto.CreateBeneficiaryRequest] {
	type B = dto.CreateBeneficiaryRequest
	return Schema[B]{Checks: []Check[B]{
		Ref("document_type_id", reg.MustGet(catalog.DocumentTypes), func(v *B) *int { return &v.DocumentTypeID }),
		Ref("gender_id", reg.MustGet(catalog.Genders), func(v *B) *int { return &v.GenderID }),
		Ref("grade_id", reg.MustGet(catalog.Grades), func(v *B) *int { return &v.GradeID }),
		Ref("ethnic_group_id", reg.MustGet(catalog.EthnicGroups), func(v *B) *int { return &v.EthnicGroupID }),
		Ref("disability_type_id", reg.MustGet(catalog.DisabilityTypes), func(v *B) *int { return v.DisabilityTypeID }),
	}}
}

func BeneficiaryUpdate(reg *catalog.Registry) Schema[dto.UpdateBeneficiaryRequest] {
	type B = dto.UpdateBeneficiaryRequest
	return Schema[B]{Checks: []Check[B]{
		Ref("gender_id", reg.MustGet(catalog.Genders), func(v *B) *int { return &v.GenderID }),
		Ref("grade_id", reg.MustGet(catalog.Grades), func(v *B) *int { return &v.GradeID }),
		Ref("ethnic_group_id", reg.MustGet(catalog.EthnicGroups), func(v *B) *int { return &v.EthnicGroupID }),
		Ref("disability_type_id", reg.MustGet(catalog.DisabilityTypes), func(v *B) *int { return v.DisabilityTypeID }),
	}}
}

func CoverageCreate(reg *catalog.Registry) Schema[dto.CreateCoverageRequest] {
	type C = dto.CreateCoverageRequest
	return Schema[C]{Checks: []Check[C]{
		Ref("benefit_type_id", reg.MustGet(catalog.BenefitTypes), func(v *C) *int { return &v.BenefitTypeID }),
	}}
}

func CoverageUpdate(reg *catalog.Registry) Schema[dto.UpdateCoverageRequest] {
	type C = dto.UpdateCoverageRequest
	return Schema[C]{Checks: []Check[C]{
		Ref("benefit_type_id", reg.MustGet(catalog.BenefitTypes), func(v *C) *int { return &v.BenefitTypeID }),
	}}
}

// ── HR ───────────────────────────────────────────────────────────────────────

func EmployeeCreate(reg *catalog.Registry) Schema[dto.CreateEmployeeRequest] {
	type E = dto.CreateEmployeeRequest
	return Schema[E]{
		Rules: []Rule[E]{func(v *E) map[string]string {
			return dateOrder("termination_date", v.HireDate, v.TerminationDate, "La fecha de retiro no puede ser anterior a la de ingreso")
		}},
		Checks: []Check[E]{
			Ref("document_type_id", reg.MustGet(catalog.HRDocumentTypes), func(v *E) *int { return &v.DocumentTypeID }),
			Ref("gender_id", reg.MustGet(catalog.HRGenders), func(v *E) *int { return &v.GenderID }),
			Ref("operational_role_id", reg.MustGet(catalog.OperationalRoles), func(v *E) *int { return &v.OperationalRoleID }),
		},
	}
}

func EmployeeUpdate(reg *catalog.Registry) Schema[dto.UpdateEmployeeRequest] {
	type E = dto.UpdateEmployeeRequest
	return Schema[E]{
		Rules: []Rule[E]{func(v *E) map[string]string {
			return dateOrder("termination_date", v.HireDate, v.TerminationDate, "La fecha de retiro no puede ser anterior a la de ingreso")
		}},
		Checks: []Check[E]{
			Ref("gender_id", reg.MustGet(catalog.HRGenders), func(v *E) *int { return &v.GenderID }),
			Ref("operational_role_id", reg.MustGet(catalog.OperationalRoles), func(v *E) *int { return &v.OperationalRoleID }),
		},
	}
}

func DailyAvailabilityCreate(reg *catalog.Registry) Schema[dto.CreateDailyAvailabilityRequest] {
	type D = dto.CreateDailyAvailabilityRequest
	return Schema[D]{Checks: []Check[D]{
		Ref("status_id", reg.MustGet(catalog.AvailabilityStatuses), func(v *D) *int { return &v.StatusID }),
	}}
}

func DailyAvailabilityUpdate(reg *catalog.Registry) Schema[dto.UpdateDailyAvailabilityRequest] {
	type D = dto.UpdateDailyAvailabilityRequest
	return Schema[D]{Checks: []Check[D]{
		Ref("status_id", reg.MustGet(catalog.AvailabilityStatuses), func(v *D) *int { return &v.StatusID }),
	}}
}

// ── Menus ────────────────────────────────────────────────────────────────────

// Ingredient gates the form on the name checker.
func Ingredient(checker *NameChecker) Schema[dto.IngredientRequest] {
	return Schema[dto.IngredientRequest]{Gates: []Gate{checker}}
}

func Dish(ingredients IDSet) Schema[dto.DishRequest] {
	return Schema[dto.DishRequest]{Checks: []Check[dto.DishRequest]{
		RefsExist(ingredients, "Ingrediente inexistente", func(v *dto.DishRequest) map[string]string {
			refs := make(map[string]string, len(v.Recipe))
			for i, r := range v.Recipe {
				refs[fmt.Sprintf("recipe[%d].ingredient_id", i)] = r.IngredientID
			}
			return refs
		}),
	}}
}

func MenuCycle(dishes IDSet) Schema[dto.MenuCycleRequest] {
	return Schema[dto.MenuCycleRequest]{
		Rules: []Rule[dto.MenuCycleRequest]{menuCycleRule},
		Checks: []Check[dto.MenuCycleRequest]{
			RefsExist(dishes, "Plato inexistente", func(v *dto.MenuCycleRequest) map[string]string {
				refs := make(map[string]string)
				for i, d := range v.DailyMenus {
					slots := map[string][]string{
						"breakfast_dish_ids": d.BreakfastDishIDs,
						"lunch_dish_ids":     d.LunchDishIDs,
						"snack_dish_ids":     d.SnackDishIDs,
					}
					for slot, ids := range slots {
						for j, id := range ids {
							refs[fmt.Sprintf("daily_menus[%d].%s[%d]", i, slot, j)] = id
						}
					}
				}
				return refs
			}),
		},
	}
}

func MenuSchedule(cycles IDSet) Schema[dto.MenuScheduleRequest] {
	type S = dto.MenuScheduleRequest
	return Schema[S]{
		Rules: []Rule[S]{func(v *S) map[string]string {
			return dateOrder("end_date", v.StartDate, &v.EndDate, "La fecha final no puede ser anterior a la inicial")
		}},
		Checks: []Check[S]{
			RefsExist(cycles, "Ciclo de menú inexistente", func(v *S) map[string]string {
				return map[string]string{"menu_cycle_id": v.MenuCycleID}
			}),
		},
	}
}

// ── Purchases ────────────────────────────────────────────────────────────────

func PurchaseOrderCreate(products IDSet) Schema[dto.CreatePurchaseOrderRequest] {
	type P = dto.CreatePurchaseOrderRequest
	return Schema[P]{Checks: []Check[P]{
		RefsExist(products, "Producto inexistente", func(v *P) map[string]string {
			refs := make(map[string]string, len(v.Items))
			for i, it := range v.Items {
				refs[fmt.Sprintf("items[%d].product_id", i)] = it.ProductID
			}
			return refs
		}),
	}}
}

func Consumption(lookup BatchLookup) Schema[dto.ConsumptionRequest] {
	return Schema[dto.ConsumptionRequest]{
		Rules:  []Rule[dto.ConsumptionRequest]{consumptionQuantityRule},
		Checks: []Check[dto.ConsumptionRequest]{StockCheck(lookup)},
	}
}

// dateOrder reports field when later is set and falls before earlier.
func dateOrder(field, earlier string, later *string, msg string) map[string]string {
	if later == nil || *later == "" {
		return nil
	}
	from, err1 := time.Parse(dateLayout, ToInputDate(earlier))
	to, err2 := time.Parse(dateLayout, ToInputDate(*later))
	if err1 != nil || err2 != nil || !to.Before(from) {
		return nil
	}
	return map[string]string{field: msg}
}
