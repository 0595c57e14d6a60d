package form

import (
	"context"
	"fmt"

	"nutripae/internal/apierror"
	"nutripae/internal/dto"
	"nutripae/internal/model"

	"github.com/shopspring/decimal"
)

// MaxConsumable is the most that can be taken out of batch in one movement.
func MaxConsumable(batch model.StockBatch) decimal.Decimal {
	return batch.AvailableQuantity
}

// ValidateConsumption returns the error message for quantity against batch,
// or "" when the quantity can be consumed.
func ValidateConsumption(quantity decimal.Decimal, batch model.StockBatch) string {
	if !quantity.IsPositive() {
		return "Debe ser mayor que cero"
	}
	if limit := MaxConsumable(batch); quantity.GreaterThan(limit) {
		return fmt.Sprintf("No puede superar la cantidad disponible del lote (%s)", limit.String())
	}
	return ""
}

// BatchLookup loads the current stock of one batch.
type BatchLookup func(ctx context.Context, batchID string) (model.StockBatch, error)

func consumptionQuantityRule(v *dto.ConsumptionRequest) map[string]string {
	if !v.Quantity.IsPositive() {
		return map[string]string{"quantity": "Debe ser mayor que cero"}
	}
	return nil
}

// StockCheck validates the consumption against the live batch.
func StockCheck(lookup BatchLookup) Check[dto.ConsumptionRequest] {
	return func(ctx context.Context, v *dto.ConsumptionRequest) (map[string]string, error) {
		batch, err := lookup(ctx, v.BatchID)
		if err != nil {
			if apierror.KindOf(err) == apierror.KindNotFound {
				return map[string]string{"batch_id": "Lote no encontrado"}, nil
			}
			return nil, err
		}
		if batch.ProductID != "" && batch.ProductID != v.ProductID {
			return map[string]string{"batch_id": "El lote no corresponde al producto"}, nil
		}
		if msg := ValidateConsumption(v.Quantity, batch); msg != "" {
			return map[string]string{"quantity": msg}, nil
		}
		return nil, nil
	}
}
