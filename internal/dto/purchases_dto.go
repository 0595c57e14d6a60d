package dto

import (
	"nutripae/internal/model"

	"github.com/shopspring/decimal"
)

type CreateProviderRequest struct {
	Name  string  `json:"name"            validate:"required,notblank,max=150"`
	NIT   string  `json:"nit"             validate:"required,min=5,max=20"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,numeric,min=7,max=15"`
}

type UpdateProviderRequest struct {
	Name  string  `json:"name"            validate:"required,notblank,max=150"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,numeric,min=7,max=15"`
}

type ProductRequest struct {
	Name        string  `json:"name"                  validate:"required,notblank,max=150"`
	Unit        string  `json:"unit"                  validate:"required,oneof=g kg mg ml l unidad"`
	Category    string  `json:"category"              validate:"required,notblank,max=60"`
	ProviderID  *string `json:"provider_id,omitempty"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

type OrderItemInput struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"   validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

type CreatePurchaseOrderRequest struct {
	ProviderID           string           `json:"provider_id"            validate:"required"`
	InstitutionID        int              `json:"institution_id"         validate:"required,gt=0"`
	Items                []OrderItemInput `json:"items"                  validate:"required,min=1,dive"`
	RequiredDeliveryDate string           `json:"required_delivery_date" validate:"required,isodate" normalize:"date"`
}

type UpdatePurchaseOrderRequest struct {
	Items                []OrderItemInput `json:"items"                  validate:"required,min=1,dive"`
	RequiredDeliveryDate string           `json:"required_delivery_date" validate:"required,isodate" normalize:"date"`
}

type CancelOrderRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// SendOrderRequest overrides the provider's email address when set.
type SendOrderRequest struct {
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

// ─── Inventory ───────────────────────────────────────────────────────────────

type ReceiptRequest struct {
	ProductID       string          `json:"product_id"                validate:"required"`
	InstitutionID   int             `json:"institution_id"            validate:"required,gt=0"`
	StorageLocation string          `json:"storage_location"          validate:"required,notblank"`
	Quantity        decimal.Decimal `json:"quantity"                  validate:"required,gt=0"`
	Unit            string          `json:"unit"                      validate:"required,oneof=g kg mg ml l unidad"`
	LotNumber       string          `json:"lot_number"                validate:"required,notblank"`
	ExpirationDate  *string         `json:"expiration_date,omitempty" validate:"omitempty,isodate" normalize:"date"`
	PurchaseOrderID *string         `json:"purchase_order_id,omitempty"`
}

// ConsumptionRequest takes quantity out of one batch; it may not exceed the
// batch's available quantity.
type ConsumptionRequest struct {
	BatchID         string          `json:"batch_id"         validate:"required"`
	ProductID       string          `json:"product_id"       validate:"required"`
	InstitutionID   int             `json:"institution_id"   validate:"required,gt=0"`
	StorageLocation string          `json:"storage_location" validate:"required,notblank"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"             validate:"required,oneof=g kg mg ml l unidad"`
	Reason          *string         `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// AdjustmentRequest corrects stock manually; a negative quantity removes.
type AdjustmentRequest struct {
	ProductID       string          `json:"product_id"         validate:"required"`
	InstitutionID   int             `json:"institution_id"     validate:"required,gt=0"`
	StorageLocation string          `json:"storage_location"   validate:"required,notblank"`
	BatchID         *string         `json:"batch_id,omitempty"`
	MovementType    string          `json:"movement_type"      validate:"required,oneof=adjustment expired loss"`
	Quantity        decimal.Decimal `json:"quantity"           validate:"required"`
	Unit            string          `json:"unit"               validate:"required,oneof=g kg mg ml l unidad"`
	Reason          string          `json:"reason"             validate:"required,notblank,max=500"`
}

// ─── Edit prefill ────────────────────────────────────────────────────────────

func UpdateProviderFrom(m model.Provider) UpdateProviderRequest {
	return UpdateProviderRequest{Name: m.Name, Email: m.Email, Phone: m.Phone}
}

func ProductFrom(m model.Product) ProductRequest {
	return ProductRequest{
		Name:        m.Name,
		Unit:        m.Unit,
		Category:    m.Category,
		ProviderID:  m.ProviderID,
		Description: m.Description,
	}
}

func UpdatePurchaseOrderFrom(m model.PurchaseOrder) UpdatePurchaseOrderRequest {
	items := make([]OrderItemInput, len(m.Items))
	for i, it := range m.Items {
		items[i] = OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return UpdatePurchaseOrderRequest{Items: items, RequiredDeliveryDate: m.RequiredDeliveryDate}
}
