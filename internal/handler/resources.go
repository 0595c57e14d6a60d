package handler

import (
	"context"
	"net/http"
	"time"

	"nutripae/internal/apierror"
	"nutripae/internal/catalog"
	"nutripae/internal/dto"
	"nutripae/internal/form"
	"nutripae/internal/model"
	"nutripae/internal/service"
	"nutripae/internal/view"

	"github.com/gin-gonic/gin"
)

// Deps are the services the resource handlers are built on.
type Deps struct {
	Coverage       *service.CoverageServices
	HR             *service.HRServices
	Menus          *service.MenusServices
	Purchases      *service.PurchasesServices
	Catalogs       *catalog.Registry
	NameCheckDelay time.Duration
}

// registrar is the non-generic face of a crudHandler.
type registrar interface {
	Register(rg *gin.RouterGroup, write ...gin.HandlerFunc) *gin.RouterGroup
}

type pager func(ctx context.Context, c *gin.Context) (view.Page, error)

// ResourcesHandler owns every upstream resource route.
type ResourcesHandler struct {
	deps  Deps
	crud  []registrar
	pages map[string]pager

	ingredients *crudHandler[model.Ingredient, dto.IngredientRequest, dto.IngredientRequest]
	dishes      *crudHandler[model.Dish, dto.DishRequest, dto.DishRequest]
	schedules   *crudHandler[model.MenuSchedule, dto.MenuScheduleRequest, dto.MenuScheduleRequest]
	orders      *crudHandler[model.PurchaseOrder, dto.CreatePurchaseOrderRequest, dto.UpdatePurchaseOrderRequest]
}

func NewResourcesHandler(d Deps) *ResourcesHandler {
	h := &ResourcesHandler{deps: d, pages: make(map[string]pager)}
	reg := d.Catalogs
	cov, hr, menus, pur := d.Coverage, d.HR, d.Menus, d.Purchases

	// ── Coverage ────────────────────────────────────────────────────────────
	addCRUD(h, &crudHandler[model.Department, dto.CreateDepartmentRequest, dto.UpdateDepartmentRequest]{
		name: service.ResDepartments, svc: cov.Departments,
		createSchema: noSchema[dto.CreateDepartmentRequest], updateSchema: noSchema[dto.UpdateDepartmentRequest],
		prefill: dto.UpdateDepartmentFrom, table: staticTable(view.DepartmentTable()),
	})
	addCRUD(h, &crudHandler[model.Town, dto.CreateTownRequest, dto.UpdateTownRequest]{
		name: service.ResTowns, svc: cov.Towns,
		createSchema: noSchema[dto.CreateTownRequest], updateSchema: noSchema[dto.UpdateTownRequest],
		prefill: dto.UpdateTownFrom,
		table: func(ctx context.Context) (view.Table[model.Town], error) {
			n, err := h.names(ctx, view.NamesDepartments)
			return view.TownTable(n), err
		},
	})
	addCRUD(h, &crudHandler[model.Institution, dto.CreateInstitutionRequest, dto.UpdateInstitutionRequest]{
		name: service.ResInstitutions, svc: cov.Institutions,
		createSchema: noSchema[dto.CreateInstitutionRequest], updateSchema: noSchema[dto.UpdateInstitutionRequest],
		prefill: dto.UpdateInstitutionFrom,
		table: func(ctx context.Context) (view.Table[model.Institution], error) {
			n, err := h.names(ctx, view.NamesTowns)
			return view.InstitutionTable(n), err
		},
	})
	addCRUD(h, &crudHandler[model.Campus, dto.CreateCampusRequest, dto.UpdateCampusRequest]{
		name: service.ResCampuses, svc: cov.Campuses,
		createSchema: noSchema[dto.CreateCampusRequest], updateSchema: noSchema[dto.UpdateCampusRequest],
		prefill: dto.UpdateCampusFrom,
		table: func(ctx context.Context) (view.Table[model.Campus], error) {
			n, err := h.names(ctx, view.NamesInstitution)
			return view.CampusTable(n), err
		},
	})
	addCRUD(h, &crudHandler[model.Beneficiary, dto.CreateBeneficiaryRequest, dto.UpdateBeneficiaryRequest]{
		name: service.ResBeneficiaries, svc: cov.Beneficiaries,
		createSchema: func() form.Schema[dto.CreateBeneficiaryRequest] { return form.BeneficiaryCreate(reg) },
		updateSchema: func() form.Schema[dto.UpdateBeneficiaryRequest] { return form.BeneficiaryUpdate(reg) },
		prefill:      dto.UpdateBeneficiaryFrom,
		table: func(ctx context.Context) (view.Table[model.Beneficiary], error) {
			n, err := h.names(ctx, catalog.DocumentTypes, catalog.Grades, view.NamesCampuses)
			return view.BeneficiaryTable(n), err
		},
		catalogs: []string{catalog.DocumentTypes, catalog.Genders, catalog.Grades, catalog.EthnicGroups, catalog.DisabilityTypes},
	})
	addCRUD(h, &crudHandler[model.Coverage, dto.CreateCoverageRequest, dto.UpdateCoverageRequest]{
		name: service.ResCoverages, svc: cov.Coverages,
		createSchema: func() form.Schema[dto.CreateCoverageRequest] { return form.CoverageCreate(reg) },
		updateSchema: func() form.Schema[dto.UpdateCoverageRequest] { return form.CoverageUpdate(reg) },
		prefill:      dto.UpdateCoverageFrom,
		table: func(ctx context.Context) (view.Table[model.Coverage], error) {
			n, err := h.names(ctx, catalog.BenefitTypes, view.NamesCampuses)
			return view.CoverageTable(n), err
		},
		catalogs: []string{catalog.BenefitTypes},
	})

	// ── HR ──────────────────────────────────────────────────────────────────
	addCRUD(h, &crudHandler[model.Employee, dto.CreateEmployeeRequest, dto.UpdateEmployeeRequest]{
		name: service.ResEmployees, svc: hr.Employees,
		createSchema: func() form.Schema[dto.CreateEmployeeRequest] { return form.EmployeeCreate(reg) },
		updateSchema: func() form.Schema[dto.UpdateEmployeeRequest] { return form.EmployeeUpdate(reg) },
		prefill:      dto.UpdateEmployeeFrom,
		table: func(ctx context.Context) (view.Table[model.Employee], error) {
			n, err := h.names(ctx, catalog.OperationalRoles)
			return view.EmployeeTable(n), err
		},
		catalogs: []string{catalog.HRDocumentTypes, catalog.HRGenders, catalog.OperationalRoles},
	})
	addCRUD(h, &crudHandler[model.DailyAvailability, dto.CreateDailyAvailabilityRequest, dto.UpdateDailyAvailabilityRequest]{
		name: service.ResDailyAvailability, svc: hr.DailyAvailabilities,
		createSchema: func() form.Schema[dto.CreateDailyAvailabilityRequest] { return form.DailyAvailabilityCreate(reg) },
		updateSchema: func() form.Schema[dto.UpdateDailyAvailabilityRequest] { return form.DailyAvailabilityUpdate(reg) },
		prefill:      dto.UpdateDailyAvailabilityFrom,
		table: func(ctx context.Context) (view.Table[model.DailyAvailability], error) {
			n, err := h.names(ctx, catalog.AvailabilityStatuses)
			return view.DailyAvailabilityTable(n), err
		},
		catalogs: []string{catalog.AvailabilityStatuses},
	})

	// ── Menus ───────────────────────────────────────────────────────────────
	h.ingredients = &crudHandler[model.Ingredient, dto.IngredientRequest, dto.IngredientRequest]{
		name: service.ResIngredients, svc: menus.Ingredients.CRUDService,
		createSchema: noSchema[dto.IngredientRequest], updateSchema: noSchema[dto.IngredientRequest],
		prefill: dto.IngredientFrom, table: staticTable(view.IngredientTable()),
		updateMethod: http.MethodPut,
		create:       h.createIngredient,
		update:       h.updateIngredient,
	}
	addCRUD(h, h.ingredients)
	h.dishes = &crudHandler[model.Dish, dto.DishRequest, dto.DishRequest]{
		name: service.ResDishes, svc: menus.Dishes.CRUDService,
		createSchema: func() form.Schema[dto.DishRequest] { return form.Dish(menus.Ingredients.IDs) },
		updateSchema: func() form.Schema[dto.DishRequest] { return form.Dish(menus.Ingredients.IDs) },
		prefill:      dto.DishFrom, table: staticTable(view.DishTable()),
		updateMethod: http.MethodPut,
	}
	addCRUD(h, h.dishes)
	addCRUD(h, &crudHandler[model.MenuCycle, dto.MenuCycleRequest, dto.MenuCycleRequest]{
		name: service.ResMenuCycles, svc: menus.MenuCycles,
		createSchema: func() form.Schema[dto.MenuCycleRequest] { return form.MenuCycle(menus.Dishes.IDs) },
		updateSchema: func() form.Schema[dto.MenuCycleRequest] { return form.MenuCycle(menus.Dishes.IDs) },
		prefill:      dto.MenuCycleFrom, table: staticTable(view.MenuCycleTable()),
		updateMethod: http.MethodPut,
	})
	h.schedules = &crudHandler[model.MenuSchedule, dto.MenuScheduleRequest, dto.MenuScheduleRequest]{
		name: service.ResMenuSchedules, svc: menus.Schedules.CRUDService,
		createSchema: func() form.Schema[dto.MenuScheduleRequest] { return form.MenuSchedule(menus.MenuCycles.IDs) },
		updateSchema: func() form.Schema[dto.MenuScheduleRequest] { return form.MenuSchedule(menus.MenuCycles.IDs) },
		prefill:      dto.MenuScheduleFrom, table: staticTable(view.MenuScheduleTable()),
		updateMethod: http.MethodPut,
	}
	addCRUD(h, h.schedules)

	// ── Purchases ───────────────────────────────────────────────────────────
	addCRUD(h, &crudHandler[model.Provider, dto.CreateProviderRequest, dto.UpdateProviderRequest]{
		name: service.ResProviders, svc: pur.Providers,
		createSchema: noSchema[dto.CreateProviderRequest], updateSchema: noSchema[dto.UpdateProviderRequest],
		prefill: dto.UpdateProviderFrom, table: staticTable(view.ProviderTable()),
	})
	addCRUD(h, &crudHandler[model.Product, dto.ProductRequest, dto.ProductRequest]{
		name: service.ResProducts, svc: pur.Products,
		createSchema: noSchema[dto.ProductRequest], updateSchema: noSchema[dto.ProductRequest],
		prefill: dto.ProductFrom, table: staticTable(view.ProductTable()),
		updateMethod: http.MethodPut,
	})
	h.orders = &crudHandler[model.PurchaseOrder, dto.CreatePurchaseOrderRequest, dto.UpdatePurchaseOrderRequest]{
		name: service.ResPurchaseOrders, svc: pur.PurchaseOrders.CRUDService,
		createSchema: func() form.Schema[dto.CreatePurchaseOrderRequest] { return form.PurchaseOrderCreate(pur.Products.IDs) },
		updateSchema: noSchema[dto.UpdatePurchaseOrderRequest],
		prefill:      dto.UpdatePurchaseOrderFrom,
		table: func(ctx context.Context) (view.Table[model.PurchaseOrder], error) {
			n, err := h.names(ctx, view.NamesInstitution)
			if err != nil {
				return view.Table[model.PurchaseOrder]{}, err
			}
			providers, err := pur.Providers.Listar(ctx, nil)
			if err != nil {
				return view.Table[model.PurchaseOrder]{}, err
			}
			return view.PurchaseOrderTable(n, view.NamesByID(providers, func(p model.Provider) string { return p.Name })), nil
		},
	}
	addCRUD(h, h.orders)

	h.pages[service.ResInventoryMovements] = func(ctx context.Context, c *gin.Context) (view.Page, error) {
		q := filters(c)
		return view.LoadPage(ctx, map[string]view.Section{
			"table": func(ctx context.Context) (any, error) { return h.movementsTable(ctx, q) },
			"stock": func(ctx context.Context) (any, error) { return h.stockTable(ctx, nil) },
		})
	}
	for _, name := range catalogPages {
		h.pages["catalogs-"+name] = catalogPage(reg, name)
	}
	return h
}

// catalogPages are the combined catalog pages the UI loads at startup.
var catalogPages = []string{"coverage", "hr"}

func catalogPage(reg *catalog.Registry, service string) pager {
	return func(ctx context.Context, _ *gin.Context) (view.Page, error) {
		sections := make(map[string]view.Section)
		for _, name := range reg.Names() {
			if len(name) <= len(service) || name[:len(service)+1] != service+"/" {
				continue
			}
			p, err := reg.Get(name)
			if err != nil {
				return nil, err
			}
			sections[name[len(service)+1:]] = func(ctx context.Context) (any, error) { return p.List(ctx) }
		}
		return view.LoadPage(ctx, sections)
	}
}

func addCRUD[T model.Entity, C, U any](h *ResourcesHandler, r *crudHandler[T, C, U]) {
	r.reg = h.deps.Catalogs
	h.crud = append(h.crud, r)
	h.pages[r.name] = func(ctx context.Context, c *gin.Context) (view.Page, error) {
		return r.page(ctx, filters(c))
	}
}

// Register mounts every resource on rg. write guards the mutating routes.
func (h *ResourcesHandler) Register(rg *gin.RouterGroup, write ...gin.HandlerFunc) {
	groups := make(map[registrar]*gin.RouterGroup, len(h.crud))
	for _, r := range h.crud {
		groups[r] = r.Register(rg, write...)
	}
	h.registerMenus(groups[h.ingredients], groups[h.dishes], groups[h.schedules], write)
	h.registerPurchases(rg, groups[h.orders], write)
	rg.GET("/catalogs/:service/:name", h.Catalog)
	rg.GET("/pages/:page", h.Page)
}

// Page godoc
// @Summary Página compuesta (tabla + catálogos)
// @Tags pages
// @Produce json
// @Param page path string true "Recurso"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/pages/{page} [get]
func (h *ResourcesHandler) Page(c *gin.Context) {
	load, ok := h.pages[c.Param("page")]
	if !ok {
		c.JSON(http.StatusNotFound, apierror.New("Página no encontrada"))
		return
	}
	page, err := load(c.Request.Context(), c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Catalog godoc
// @Summary Catálogo de un servicio
// @Tags catalogs
// @Produce json
// @Param service path string true "coverage | hr"
// @Param name path string true "Nombre del catálogo"
// @Success 200 {array} model.CatalogItem
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/catalogs/{service}/{name} [get]
func (h *ResourcesHandler) Catalog(c *gin.Context) {
	p, err := h.deps.Catalogs.Get(c.Param("service") + "/" + c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Catálogo no encontrado"))
		return
	}
	items, err := p.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// names loads the id → name maps for the given catalogs and parent
// resources in parallel.
func (h *ResourcesHandler) names(ctx context.Context, keys ...string) (view.Names, error) {
	cov := h.deps.Coverage
	sections := make(map[string]view.Section, len(keys))
	for _, key := range keys {
		switch key {
		case view.NamesDepartments:
			sections[key] = func(ctx context.Context) (any, error) {
				rows, err := cov.Departments.Listar(ctx, nil)
				return view.NamesByIntID(rows, func(v model.Department) string { return v.Name }), err
			}
		case view.NamesTowns:
			sections[key] = func(ctx context.Context) (any, error) {
				rows, err := cov.Towns.Listar(ctx, nil)
				return view.NamesByIntID(rows, func(v model.Town) string { return v.Name }), err
			}
		case view.NamesInstitution:
			sections[key] = func(ctx context.Context) (any, error) {
				rows, err := cov.Institutions.Listar(ctx, nil)
				return view.NamesByIntID(rows, func(v model.Institution) string { return v.Name }), err
			}
		case view.NamesCampuses:
			sections[key] = func(ctx context.Context) (any, error) {
				rows, err := cov.Campuses.Listar(ctx, nil)
				return view.NamesByIntID(rows, func(v model.Campus) string { return v.Name }), err
			}
		default:
			p, err := h.deps.Catalogs.Get(key)
			if err != nil {
				return nil, err
			}
			sections[key] = func(ctx context.Context) (any, error) { return catalog.Names(ctx, p) }
		}
	}
	page, err := view.LoadPage(ctx, sections)
	if err != nil {
		return nil, err
	}
	out := make(view.Names, len(page))
	for k, v := range page {
		out[k], _ = v.(map[int]string)
	}
	return out, nil
}
