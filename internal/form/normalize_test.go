package form

import (
	"testing"

	"nutripae/internal/dto"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalize_NestedSlicesAreCopied(t *testing.T) {
	shared := []dto.OrderItemInput{{ProductID: "p1", Quantity: decimal.NewFromInt(2)}}
	req := dto.CreatePurchaseOrderRequest{
		ProviderID:           "prov",
		InstitutionID:        1,
		Items:                shared,
		RequiredDeliveryDate: "2024-05-02",
	}
	Normalize(&req)

	assert.Equal(t, "2024-05-02T00:00:00Z", req.RequiredDeliveryDate)
	assert.Empty(t, cmp.Diff(shared, req.Items, cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })))
	req.Items[0].ProductID = "changed"
	assert.Equal(t, "p1", shared[0].ProductID)
}

func TestNormalize_OptionalDates(t *testing.T) {
	empty := ""
	req := dto.ReceiptRequest{ExpirationDate: &empty}
	Normalize(&req)
	assert.Nil(t, req.ExpirationDate)

	d := "2025-01-15"
	req = dto.ReceiptRequest{ExpirationDate: &d}
	Normalize(&req)
	assert.Equal(t, "2025-01-15T00:00:00Z", *req.ExpirationDate)
	assert.Equal(t, "2025-01-15", d)
}

func TestDateHelpers(t *testing.T) {
	assert.Equal(t, "2024-02-29T00:00:00Z", ToISODate("2024-02-29"))
	assert.Equal(t, "2024-02-29T00:00:00Z", ToISODate("2024-02-29T15:04:05Z"))
	assert.Equal(t, "mañana", ToISODate("mañana"))
	assert.Equal(t, "", ToISODate(""))
	assert.Equal(t, "2024-02-29", ToInputDate("2024-02-29T00:00:00Z"))
	assert.True(t, IsISODate("2024-02-29"))
	assert.True(t, IsISODate("2024-02-29T10:00:00-05:00"))
	assert.False(t, IsISODate("29/02/2024"))
}
