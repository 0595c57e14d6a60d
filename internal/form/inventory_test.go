package form

import (
	"context"
	"testing"

	"nutripae/internal/apierror"
	"nutripae/internal/dto"
	"nutripae/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchOf(available int64) model.StockBatch {
	return model.StockBatch{BatchID: "b1", ProductID: "p1", AvailableQuantity: decimal.NewFromInt(available)}
}

func TestValidateConsumption(t *testing.T) {
	batch := batchOf(10)
	assert.True(t, MaxConsumable(batch).Equal(decimal.NewFromInt(10)))

	assert.NotEmpty(t, ValidateConsumption(decimal.NewFromInt(15), batch))
	assert.Empty(t, ValidateConsumption(decimal.NewFromInt(10), batch))
	assert.Empty(t, ValidateConsumption(decimal.RequireFromString("0.5"), batch))
	assert.NotEmpty(t, ValidateConsumption(decimal.Zero, batch))
	assert.NotEmpty(t, ValidateConsumption(decimal.NewFromInt(-1), batch))
}

func consumption(qty int64) dto.ConsumptionRequest {
	return dto.ConsumptionRequest{
		BatchID:         "b1",
		ProductID:       "p1",
		InstitutionID:   4,
		StorageLocation: "Bodega principal",
		Quantity:        decimal.NewFromInt(qty),
		Unit:            "kg",
	}
}

func TestConsumptionForm(t *testing.T) {
	lookup := func(_ context.Context, id string) (model.StockBatch, error) {
		if id != "b1" {
			return model.StockBatch{}, apierror.NotFound("lote")
		}
		return batchOf(10), nil
	}
	calls := 0
	f := New(Consumption(lookup), func(context.Context, dto.ConsumptionRequest) error {
		calls++
		return nil
	})

	f.Open(nil)
	f.Set(consumption(15))
	apiErr, ok := apierror.As(f.Submit(context.Background()))
	require.True(t, ok)
	assert.Contains(t, apiErr.Fields["quantity"], "cantidad disponible")
	assert.Equal(t, 0, calls)

	assert.Equal(t, map[string]string{"quantity": "Debe ser mayor que cero"}, f.Set(consumption(0)))

	missing := consumption(1)
	missing.BatchID = "nope"
	f.Set(missing)
	apiErr, _ = apierror.As(f.Submit(context.Background()))
	require.NotNil(t, apiErr)
	assert.Equal(t, "Lote no encontrado", apiErr.Fields["batch_id"])

	f.Set(consumption(10))
	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, 1, calls)
}
