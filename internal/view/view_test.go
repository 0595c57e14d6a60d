package view

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"nutripae/internal/catalog"
	"nutripae/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func ptr(s string) *string { return &s }

func TestBeneficiaryTable_ComputedCells(t *testing.T) {
	rows := []model.Beneficiary{{
		ID:             5,
		DocumentTypeID: 1,
		NumberDocument: "1061000111",
		FirstName:      "Ana",
		SecondName:     ptr("María"),
		FirstSurname:   "Muñoz",
		BirthDate:      "2015-04-09T00:00:00Z",
		GradeID:        3,
		CampusID:       42,
	}}
	names := Names{
		catalog.DocumentTypes: {1: "Tarjeta de identidad"},
		catalog.Grades:        {3: "Tercero"},
	}

	r := BeneficiaryTable(names).Render(rows)

	require.Len(t, r.Rows, 1)
	assert.Equal(t, "5", r.Rows[0].ID)
	assert.Equal(t, []string{"Tarjeta de identidad", "1061000111", "Ana María Muñoz", "2015-04-09", "Tercero", "42", "No"}, r.Rows[0].Cells)
	assert.Equal(t, DefaultActions, r.Rows[0].Actions)
	assert.Len(t, r.Headers, len(r.Rows[0].Cells))
}

func TestMenuScheduleTable_CancelOnlyWhileFutureOrActive(t *testing.T) {
	rows := []model.MenuSchedule{
		{ID: "a", Status: model.ScheduleFuture},
		{ID: "b", Status: model.ScheduleActive},
		{ID: "c", Status: model.ScheduleCompleted},
		{ID: "d", Status: model.ScheduleCancelled},
	}
	r := MenuScheduleTable().Render(rows)

	assert.Contains(t, r.Rows[0].Actions, ActionCancel)
	assert.Contains(t, r.Rows[1].Actions, ActionCancel)
	assert.NotContains(t, r.Rows[2].Actions, ActionCancel)
	assert.NotContains(t, r.Rows[3].Actions, ActionCancel)
}

func TestPurchaseOrderTable(t *testing.T) {
	rows := []model.PurchaseOrder{
		{ID: "1", ProviderID: "p1", Status: model.OrderPending, Items: []model.OrderItem{
			{Quantity: decimal.NewFromInt(3), UnitPrice: decimal.RequireFromString("2500.5")},
			{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1000)},
		}},
		{ID: "2", ProviderID: "p9", Status: model.OrderConfirmed},
		{ID: "3", Status: model.OrderDelivered},
	}
	r := PurchaseOrderTable(nil, map[string]string{"p1": "Distribuidora Cauca"}).Render(rows)

	cells := r.Rows[0].Cells
	assert.Equal(t, "Distribuidora Cauca", cells[1])
	assert.Equal(t, "8501.50", cells[5])
	assert.Equal(t, "p9", r.Rows[1].Cells[1])

	assert.Equal(t, []Action{ActionView, ActionEdit, ActionCancel}, r.Rows[0].Actions)
	assert.Equal(t, []Action{ActionView, ActionShip, ActionCancel}, r.Rows[1].Actions)
	assert.Equal(t, []Action{ActionView}, r.Rows[2].Actions)
}

func TestIngredientTable_InactiveOffersActivate(t *testing.T) {
	r := IngredientTable().Render([]model.Ingredient{
		{ID: "i1", Status: model.StatusActive},
		{ID: "i2", Status: model.StatusInactive},
	})
	assert.Contains(t, r.Rows[0].Actions, ActionDelete)
	assert.Equal(t, []Action{ActionView, ActionEdit, ActionActivate}, r.Rows[1].Actions)
}

func TestRender_EmptyRowsIsEmptySlice(t *testing.T) {
	r := DepartmentTable().Render(nil)
	assert.NotNil(t, r.Rows)
	assert.Empty(t, r.Rows)
}

func TestLoadPage_WaitsForAllSections(t *testing.T) {
	var done atomic.Int32
	slow := func(v any) Section {
		return func(ctx context.Context) (any, error) {
			time.Sleep(20 * time.Millisecond)
			done.Add(1)
			return v, nil
		}
	}
	page, err := LoadPage(context.Background(), map[string]Section{
		"rows":    slow([]int{1, 2}),
		"genders": slow("catalog"),
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), done.Load())
	assert.Equal(t, []int{1, 2}, page["rows"])
	assert.Equal(t, "catalog", page["genders"])
}

func TestLoadPage_FirstErrorFailsPage(t *testing.T) {
	boom := errors.New("upstream down")
	_, err := LoadPage(context.Background(), map[string]Section{
		"rows": func(ctx context.Context) (any, error) { return nil, boom },
		"slow": func(ctx context.Context) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	})
	assert.ErrorIs(t, err, boom)
}

func TestWriteXLSX(t *testing.T) {
	r := ProviderTable().Render([]model.Provider{{ID: "p1", NIT: "900123456", Name: "Lácteos del Cauca"}})

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "providers", r))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("providers", "A1")
	require.NoError(t, err)
	assert.Equal(t, "NIT", header)
	name, err := f.GetCellValue("providers", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Lácteos del Cauca", name)
}
