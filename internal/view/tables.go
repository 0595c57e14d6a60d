package view

import (
	"strconv"
	"strings"

	"nutripae/internal/catalog"
	"nutripae/internal/model"

	"github.com/shopspring/decimal"
)

// Names carries the id → name maps a table needs, keyed by catalog or
// parent resource name. Missing maps render ids.
type Names map[string]map[int]string

func (n Names) get(name string) map[int]string { return n[name] }

// Keys into Names for parent resources.
const (
	NamesDepartments = "departments"
	NamesTowns       = "towns"
	NamesInstitution = "institutions"
	NamesCampuses    = "campuses"
)

func DepartmentTable() Table[model.Department] {
	type T = model.Department
	return Table[T]{Columns: []Column[T]{
		Text("dane_code", "Código DANE", func(v T) string { return v.DaneCode }),
		Text("name", "Departamento", func(v T) string { return v.Name }),
		Int("towns_count", "Municipios", func(v T) int { return v.TownsCount }),
	}}
}

func TownTable(n Names) Table[model.Town] {
	type T = model.Town
	return Table[T]{Columns: []Column[T]{
		Text("dane_code", "Código DANE", func(v T) string { return v.DaneCode }),
		Text("name", "Municipio", func(v T) string { return v.Name }),
		Lookup("department_id", "Departamento", n.get(NamesDepartments), func(v T) int { return v.DepartmentID }),
		Int("institutions_count", "Instituciones", func(v T) int { return v.InstitutionsCount }),
	}}
}

func InstitutionTable(n Names) Table[model.Institution] {
	type T = model.Institution
	return Table[T]{Columns: []Column[T]{
		Text("dane_code", "Código DANE", func(v T) string { return v.DaneCode }),
		Text("name", "Institución", func(v T) string { return v.Name }),
		Lookup("town_id", "Municipio", n.get(NamesTowns), func(v T) int { return v.TownID }),
		Int("campuses_count", "Sedes", func(v T) int { return v.CampusesCount }),
	}}
}

func CampusTable(n Names) Table[model.Campus] {
	type T = model.Campus
	return Table[T]{Columns: []Column[T]{
		Text("dane_code", "Código DANE", func(v T) string { return v.DaneCode }),
		Text("name", "Sede", func(v T) string { return v.Name }),
		Lookup("institution_id", "Institución", n.get(NamesInstitution), func(v T) int { return v.InstitutionID }),
		Optional("address", "Dirección", func(v T) *string { return v.Address }),
		Int("beneficiaries_count", "Beneficiarios", func(v T) int { return v.BeneficiariesCount }),
	}}
}

func BeneficiaryTable(n Names) Table[model.Beneficiary] {
	type T = model.Beneficiary
	return Table[T]{Columns: []Column[T]{
		Lookup("document_type_id", "Tipo doc.", n.get(catalog.DocumentTypes), func(v T) int { return v.DocumentTypeID }),
		Text("number_document", "Documento", func(v T) string { return v.NumberDocument }),
		Text("full_name", "Nombre completo", T.FullName),
		Date("birth_date", "Fecha de nacimiento", func(v T) string { return v.BirthDate }),
		Lookup("grade_id", "Grado", n.get(catalog.Grades), func(v T) int { return v.GradeID }),
		Lookup("campus_id", "Sede", n.get(NamesCampuses), func(v T) int { return v.CampusID }),
		Bool("victim_conflict", "Víctima del conflicto", func(v T) bool { return v.VictimConflict }),
	}}
}

func CoverageTable(n Names) Table[model.Coverage] {
	type T = model.Coverage
	return Table[T]{Columns: []Column[T]{
		Int("beneficiary_id", "Beneficiario", func(v T) int { return v.BeneficiaryID }),
		Lookup("campus_id", "Sede", n.get(NamesCampuses), func(v T) int { return v.CampusID }),
		Lookup("benefit_type_id", "Tipo de beneficio", n.get(catalog.BenefitTypes), func(v T) int { return v.BenefitTypeID }),
		Bool("active", "Activa", func(v T) bool { return v.Active }),
	}}
}

func EmployeeTable(n Names) Table[model.Employee] {
	type T = model.Employee
	return Table[T]{Columns: []Column[T]{
		Text("document_number", "Documento", func(v T) string { return v.DocumentNumber }),
		Text("full_name", "Nombre", func(v T) string { return v.FullName }),
		Lookup("operational_role_id", "Rol", n.get(catalog.OperationalRoles), func(v T) int { return v.OperationalRoleID }),
		Date("hire_date", "Ingreso", func(v T) string { return v.HireDate }),
		Optional("termination_date", "Retiro", func(v T) *string {
			if v.TerminationDate == nil {
				return nil
			}
			d := dateOnly(*v.TerminationDate)
			return &d
		}),
		Bool("is_active", "Activo", func(v T) bool { return v.IsActive }),
	}}
}

func DailyAvailabilityTable(n Names) Table[model.DailyAvailability] {
	type T = model.DailyAvailability
	return Table[T]{Columns: []Column[T]{
		Int("employee_id", "Empleado", func(v T) int { return v.EmployeeID }),
		Date("date", "Fecha", func(v T) string { return v.Date }),
		Lookup("status_id", "Estado", n.get(catalog.AvailabilityStatuses), func(v T) int { return v.StatusID }),
		Optional("notes", "Observaciones", func(v T) *string { return v.Notes }),
	}}
}

// statusActions replaces delete with the toggle for inactive records.
func statusActions(status string) []Action {
	if status == model.StatusInactive {
		return []Action{ActionView, ActionEdit, ActionActivate}
	}
	return []Action{ActionView, ActionEdit, ActionDeactivate, ActionDelete}
}

func IngredientTable() Table[model.Ingredient] {
	type T = model.Ingredient
	return Table[T]{
		Columns: []Column[T]{
			Text("name", "Ingrediente", func(v T) string { return v.Name }),
			Text("base_unit_of_measure", "Unidad", func(v T) string { return v.BaseUnitOfMeasure }),
			Text("status", "Estado", func(v T) string { return v.Status }),
		},
		Actions: func(v T) []Action { return statusActions(v.Status) },
	}
}

func DishTable() Table[model.Dish] {
	type T = model.Dish
	return Table[T]{
		Columns: []Column[T]{
			Text("name", "Plato", func(v T) string { return v.Name }),
			Text("meal_types", "Tiempos de comida", func(v T) string { return strings.Join(v.CompatibleMealTypes, ", ") }),
			Int("ingredients", "Ingredientes", func(v T) int { return len(v.Recipe) }),
			Decimal("calories", "Calorías", func(v T) decimal.Decimal { return v.NutritionalInfo.Calories }),
			Text("status", "Estado", func(v T) string { return v.Status }),
		},
		Actions: func(v T) []Action { return statusActions(v.Status) },
	}
}

func MenuCycleTable() Table[model.MenuCycle] {
	type T = model.MenuCycle
	return Table[T]{Columns: []Column[T]{
		Text("name", "Ciclo", func(v T) string { return v.Name }),
		Int("duration_days", "Días", func(v T) int { return v.DurationDays }),
		Int("dishes", "Platos asignados", func(v T) int {
			n := 0
			for _, d := range v.DailyMenus {
				n += d.DishCount()
			}
			return n
		}),
		Text("status", "Estado", func(v T) string { return v.Status }),
	}}
}

func MenuScheduleTable() Table[model.MenuSchedule] {
	type T = model.MenuSchedule
	return Table[T]{
		Columns: []Column[T]{
			Text("menu_cycle_id", "Ciclo", func(v T) string { return v.MenuCycleID }),
			Date("start_date", "Inicio", func(v T) string { return v.StartDate }),
			Date("end_date", "Fin", func(v T) string { return v.EndDate }),
			Int("coverage", "Sedes", func(v T) int { return len(v.Coverage) }),
			Text("status", "Estado", func(v T) string { return v.Status }),
		},
		Actions: func(v T) []Action {
			if v.Cancellable() {
				return []Action{ActionView, ActionEdit, ActionCancel}
			}
			return []Action{ActionView}
		},
	}
}

func ProviderTable() Table[model.Provider] {
	type T = model.Provider
	return Table[T]{Columns: []Column[T]{
		Text("nit", "NIT", func(v T) string { return v.NIT }),
		Text("name", "Proveedor", func(v T) string { return v.Name }),
		Optional("email", "Correo", func(v T) *string { return v.Email }),
		Optional("phone", "Teléfono", func(v T) *string { return v.Phone }),
	}}
}

func ProductTable() Table[model.Product] {
	type T = model.Product
	return Table[T]{Columns: []Column[T]{
		Text("name", "Producto", func(v T) string { return v.Name }),
		Text("unit", "Unidad", func(v T) string { return v.Unit }),
		Text("category", "Categoría", func(v T) string { return v.Category }),
	}}
}

// PurchaseOrderTable resolves provider names through providers (id → name).
func PurchaseOrderTable(n Names, providers map[string]string) Table[model.PurchaseOrder] {
	type T = model.PurchaseOrder
	return Table[T]{
		Columns: []Column[T]{
			Text("order_number", "Orden", func(v T) string { return v.OrderNumber }),
			Text("provider_id", "Proveedor", func(v T) string {
				if name, ok := providers[v.ProviderID]; ok {
					return name
				}
				return v.ProviderID
			}),
			Lookup("institution_id", "Institución", n.get(NamesInstitution), func(v T) int { return v.InstitutionID }),
			Date("required_delivery_date", "Entrega requerida", func(v T) string { return v.RequiredDeliveryDate }),
			Int("items", "Ítems", func(v T) int { return len(v.Items) }),
			Money("total", "Total", T.Total),
			Text("status", "Estado", func(v T) string { return v.Status }),
		},
		Actions: func(v T) []Action {
			actions := []Action{ActionView}
			if v.Status == model.OrderPending {
				actions = append(actions, ActionEdit)
			}
			if v.Shippable() {
				actions = append(actions, ActionShip)
			}
			if v.Cancellable() {
				actions = append(actions, ActionCancel)
			}
			return actions
		},
	}
}

// InventoryMovementTable is read-only: movements are append-only.
func InventoryMovementTable(products map[string]string) Table[model.InventoryMovement] {
	type T = model.InventoryMovement
	return Table[T]{
		Columns: []Column[T]{
			Date("created_at", "Fecha", func(v T) string { return v.CreatedAt }),
			Text("product_id", "Producto", func(v T) string { return nameOr(products, v.ProductID) }),
			Text("movement_type", "Tipo", func(v T) string { return v.MovementType }),
			Decimal("quantity", "Cantidad", func(v T) decimal.Decimal { return v.Quantity }),
			Text("unit", "Unidad", func(v T) string { return v.Unit }),
			Optional("lot_number", "Lote", func(v T) *string { return v.LotNumber }),
			Optional("reason", "Motivo", func(v T) *string { return v.Reason }),
		},
		Actions: func(T) []Action { return []Action{ActionView} },
	}
}

func StockTable(products map[string]string) Table[model.StockBatch] {
	type T = model.StockBatch
	return Table[T]{
		Columns: []Column[T]{
			Text("product_id", "Producto", func(v T) string { return nameOr(products, v.ProductID) }),
			Text("lot_number", "Lote", func(v T) string { return v.LotNumber }),
			Text("storage_location", "Bodega", func(v T) string { return v.StorageLocation }),
			Optional("expiration_date", "Vence", func(v T) *string { return v.ExpirationDate }),
			Decimal("available_quantity", "Disponible", func(v T) decimal.Decimal { return v.AvailableQuantity }),
			Text("institution_id", "Institución", func(v T) string { return strconv.Itoa(v.InstitutionID) }),
		},
		Actions: func(T) []Action { return nil },
	}
}

func nameOr(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return id
}

// NamesByID maps string-id rows to a display name.
func NamesByID[T model.Entity](rows []T, name func(T) string) map[string]string {
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.EntityID()] = name(r)
	}
	return out
}

// NamesByIntID maps int-id rows to a display name.
func NamesByIntID[T model.Entity](rows []T, name func(T) string) map[int]string {
	out := make(map[int]string, len(rows))
	for _, r := range rows {
		if id, err := strconv.Atoi(r.EntityID()); err == nil {
			out[id] = name(r)
		}
	}
	return out
}
