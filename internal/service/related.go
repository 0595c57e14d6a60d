package service

// Resource names, used as cache key prefixes, audit labels and route segments.
const (
	ResDepartments        = "departments"
	ResTowns              = "towns"
	ResInstitutions       = "institutions"
	ResCampuses           = "campuses"
	ResBeneficiaries      = "beneficiaries"
	ResCoverages          = "coverages"
	ResEmployees          = "employees"
	ResDailyAvailability  = "daily-availabilities"
	ResIngredients        = "ingredients"
	ResDishes             = "dishes"
	ResMenuCycles         = "menu-cycles"
	ResMenuSchedules      = "menu-schedules"
	ResProviders          = "providers"
	ResProducts           = "products"
	ResPurchaseOrders     = "purchase-orders"
	ResInventoryMovements = "inventory-movements"
	ResInventoryStock     = "inventory-stock"
)

// related lists, per resource, the other resources whose cached reads a
// mutation makes stale: parents that show child counts and lists that embed
// the mutated records.
var related = map[string][]string{
	ResTowns:              {ResDepartments},
	ResInstitutions:       {ResTowns},
	ResCampuses:           {ResInstitutions},
	ResBeneficiaries:      {ResCampuses, ResCoverages},
	ResCoverages:          {ResCampuses},
	ResIngredients:        {ResDishes},
	ResDishes:             {ResIngredients, ResMenuCycles},
	ResMenuCycles:         {ResMenuSchedules},
	ResProviders:          {ResProducts},
	ResProducts:           {ResPurchaseOrders},
	ResPurchaseOrders:     {ResInventoryMovements},
	ResInventoryMovements: {ResInventoryStock, ResPurchaseOrders},
}

// Related returns the resources invalidated together with resource.
func Related(resource string) []string {
	return append([]string(nil), related[resource]...)
}
