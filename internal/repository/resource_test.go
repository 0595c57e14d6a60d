package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"nutripae/internal/apierror"
	"nutripae/internal/dto"
	"nutripae/internal/infra"
	"nutripae/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

// upstream is a fake microservice answering every request with the status
// and body registered for "METHOD path".
type upstream struct {
	mu       sync.Mutex
	srv      *httptest.Server
	replies  map[string]reply
	requests []recorded
}

type reply struct {
	status int
	body   string
}

func newUpstream(t *testing.T) *upstream {
	u := &upstream{replies: make(map[string]reply)}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		rec := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query()}
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
		u.mu.Lock()
		u.requests = append(u.requests, rec)
		rep, ok := u.replies[r.Method+" "+r.URL.Path]
		u.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
			return
		}
		w.WriteHeader(rep.status)
		_, _ = w.Write([]byte(rep.body))
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) on(method, path string, status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.replies[method+" "+path] = reply{status, body}
}

func (u *upstream) last() recorded {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.requests[len(u.requests)-1]
}

func (u *upstream) client() *infra.RESTClient {
	return infra.NewRESTClient("test", u.srv.URL, 2*time.Second, nil)
}

func TestResource_CRUDRoundTrips(t *testing.T) {
	up := newUpstream(t)
	repos := NewCoverageRepositories(up.client())
	ctx := context.Background()

	up.on("GET", "/towns", 200, `[{"id":1,"dane_code":"70001","name":"Sincelejo","department_id":70,"institutions_count":12}]`)
	towns, err := repos.Towns.List(ctx, url.Values{"department_id": {"70"}})
	require.NoError(t, err)
	assert.Equal(t, []model.Town{{ID: 1, DaneCode: "70001", Name: "Sincelejo", DepartmentID: 70, InstitutionsCount: 12}}, towns)
	assert.Equal(t, "70", up.last().Query.Get("department_id"))

	up.on("GET", "/towns/1", 200, `{"id":1,"name":"Sincelejo","department_id":70}`)
	town, err := repos.Towns.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Sincelejo", town.Name)

	up.on("POST", "/towns", 201, `{"id":2,"dane_code":"70215","name":"Corozal","department_id":70}`)
	created, err := repos.Towns.Create(ctx, dto.CreateTownRequest{DaneCode: "70215", Name: "Corozal", DepartmentID: 70})
	require.NoError(t, err)
	assert.Equal(t, 2, created.ID)
	assert.Equal(t, "70215", up.last().Body["dane_code"])

	up.on("PATCH", "/towns/2", 200, `{"id":2,"dane_code":"70215","name":"Corozal Sucre","department_id":70}`)
	updated, err := repos.Towns.Update(ctx, "2", dto.UpdateTownRequest{Name: "Corozal Sucre", DepartmentID: 70})
	require.NoError(t, err)
	assert.Equal(t, "Corozal Sucre", updated.Name)
	assert.NotContains(t, up.last().Body, "dane_code")

	up.on("DELETE", "/towns/2", 204, ``)
	require.NoError(t, repos.Towns.Delete(ctx, "2"))
}

func TestResource_EmptyListIsNotNil(t *testing.T) {
	up := newUpstream(t)
	up.on("GET", "/departments", 200, `[]`)
	list, err := NewCoverageRepositories(up.client()).Departments.List(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSpecialLists_NullBodyIsEmptySlice(t *testing.T) {
	up := newUpstream(t)
	ctx := context.Background()
	up.on("GET", "/ingredients/active", 200, `null`)
	up.on("GET", "/parametrics/genders", 200, `null`)
	up.on("GET", "/inventory-movements", 200, `null`)
	up.on("GET", "/inventory/stock", 200, `[]`)

	active, err := NewMenusRepositories(up.client()).Ingredients.ListActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Ingredient{}, active)

	items, err := NewCoverageRepositories(up.client()).Catalogs.Catalog(ctx, "genders")
	require.NoError(t, err)
	assert.Equal(t, []model.CatalogItem{}, items)

	purchases := NewPurchasesRepositories(up.client())
	moves, err := purchases.Inventory.Movements(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []model.InventoryMovement{}, moves)

	stock, err := purchases.Inventory.Stock(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []model.StockBatch{}, stock)

	body, err := json.Marshal(active)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
}

func TestResource_Non2xxNeverReturnsZeroValue(t *testing.T) {
	up := newUpstream(t)
	repos := NewCoverageRepositories(up.client())

	b, err := repos.Beneficiaries.FindByID(context.Background(), "99")
	assert.Nil(t, b)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))

	up.on("POST", "/beneficiaries", 500, `{"detail":"db down"}`)
	b, err = repos.Beneficiaries.Create(context.Background(), dto.CreateBeneficiaryRequest{})
	assert.Nil(t, b)
	assert.Equal(t, apierror.KindServer, apierror.KindOf(err))
}

func TestDailyAvailability_DuplicateIsConflict(t *testing.T) {
	up := newUpstream(t)
	up.on("POST", "/daily-availabilities", 400, `{"detail":"Ya existe una disponibilidad para el empleado en la fecha indicada"}`)
	_, err := NewHRRepositories(up.client()).DailyAvailabilities.Create(context.Background(), dto.CreateDailyAvailabilityRequest{EmployeeID: 1, Date: "2024-05-01T00:00:00Z", StatusID: 1})
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestCatalogs_ServicePrefixes(t *testing.T) {
	up := newUpstream(t)
	up.on("GET", "/parametrics/genders", 200, `[{"id":1,"name":"Femenino"}]`)
	up.on("GET", "/options/operational-roles", 200, `[{"id":4,"name":"Manipulador"}]`)

	items, err := NewCoverageRepositories(up.client()).Catalogs.Catalog(context.Background(), "genders")
	require.NoError(t, err)
	assert.Equal(t, []model.CatalogItem{{ID: 1, Name: "Femenino"}}, items)

	items, err = NewHRRepositories(up.client()).Catalogs.Catalog(context.Background(), "operational-roles")
	require.NoError(t, err)
	assert.Equal(t, "Manipulador", items[0].Name)
}

func TestMenus_SpecialEndpoints(t *testing.T) {
	up := newUpstream(t)
	repos := NewMenusRepositories(up.client())
	ctx := context.Background()

	up.on("GET", "/ingredients/check-name", 200, `{"available":false}`)
	ok, err := repos.Ingredients.NameAvailable(ctx, "Arroz", "ing-7")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Arroz", up.last().Query.Get("name"))
	assert.Equal(t, "ing-7", up.last().Query.Get("exclude_id"))

	up.on("GET", "/ingredients/ing-7/detailed", 200, `{"id":"ing-7","name":"Arroz","status":"active","used_in_dishes":[{"id":"d1","name":"Arroz con pollo"}]}`)
	detail, err := repos.Ingredients.FindDetailed(ctx, "ing-7")
	require.NoError(t, err)
	assert.Equal(t, "Arroz con pollo", detail.UsedInDishes[0].Name)
	assert.Equal(t, "Arroz", detail.Name)

	up.on("PUT", "/ingredients/ing-7", 200, `{"id":"ing-7","name":"Arroz blanco"}`)
	_, err = repos.Ingredients.Update(ctx, "ing-7", dto.IngredientRequest{Name: "Arroz blanco"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, up.last().Method)

	up.on("PATCH", "/ingredients/ing-7", 200, `{"id":"ing-7","status":"inactive"}`)
	ing, err := repos.Ingredients.SetStatus(ctx, "ing-7", model.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInactive, ing.Status)
	assert.Equal(t, map[string]any{"status": "inactive"}, up.last().Body)

	up.on("POST", "/menu-schedules/assign", 201, `{"id":"s1","status":"future"}`)
	s, err := repos.Schedules.Create(ctx, dto.MenuScheduleRequest{MenuCycleID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)

	up.on("POST", "/menu-schedules/s1/cancel", 200, `{"id":"s1","status":"cancelled","cancellation_reason":"paro"}`)
	reason := "paro"
	s, err = repos.Schedules.Cancel(ctx, "s1", dto.CancelScheduleRequest{Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, model.ScheduleCancelled, s.Status)
	assert.Equal(t, "paro", up.last().Body["reason"])
}

func TestPurchases_OrderActionsAndInventory(t *testing.T) {
	up := newUpstream(t)
	repos := NewPurchasesRepositories(up.client())
	ctx := context.Background()

	up.on("POST", "/purchase-orders/po1/ship", 200, `{"id":"po1","status":"shipped"}`)
	po, err := repos.PurchaseOrders.Ship(ctx, "po1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderShipped, po.Status)

	up.on("POST", "/purchase-orders/po1/cancel", 409, `{"detail":"La orden ya fue despachada"}`)
	_, err = repos.PurchaseOrders.Cancel(ctx, "po1", dto.CancelOrderRequest{})
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	up.on("GET", "/inventory/stock", 200, `[{"batch_id":"b1","product_id":"p1","institution_id":3,"lot_number":"L-1","available_quantity":10.5}]`)
	stock, err := repos.Inventory.Stock(ctx, url.Values{"product_id": {"p1"}})
	require.NoError(t, err)
	assert.True(t, stock[0].AvailableQuantity.Equal(decimal.RequireFromString("10.5")))

	up.on("POST", "/inventory-movements/consumption", 201, `{"id":"m1","movement_type":"usage","quantity":2}`)
	mv, err := repos.Inventory.Consumption(ctx, dto.ConsumptionRequest{BatchID: "b1", Quantity: decimal.NewFromInt(2)})
	require.NoError(t, err)
	assert.Equal(t, model.MovementUsage, mv.MovementType)
	assert.Equal(t, float64(2), up.last().Body["quantity"], "decimals travel as JSON numbers")
}
