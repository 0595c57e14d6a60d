package model

import "github.com/shopspring/decimal"

type Provider struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	NIT   string  `json:"nit"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

func (p Provider) EntityID() string { return p.ID }

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Category    string  `json:"category"`
	ProviderID  *string `json:"provider_id,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (p Product) EntityID() string { return p.ID }

const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

type OrderItem struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (i OrderItem) Subtotal() decimal.Decimal { return i.Quantity.Mul(i.UnitPrice) }

type PurchaseOrder struct {
	ID                   string      `json:"id"`
	OrderNumber          string      `json:"order_number"`
	ProviderID           string      `json:"provider_id"`
	InstitutionID        int         `json:"institution_id"`
	Items                []OrderItem `json:"items"`
	Status               string      `json:"status"`
	RequiredDeliveryDate string      `json:"required_delivery_date"`
	CancellationReason   *string     `json:"cancellation_reason,omitempty"`
	ShippedAt            *string     `json:"shipped_at,omitempty"`
}

func (p PurchaseOrder) EntityID() string { return p.ID }

// Total sums quantity × unit price over every item.
func (p PurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range p.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (p PurchaseOrder) Shippable() bool { return p.Status == OrderConfirmed }

func (p PurchaseOrder) Cancellable() bool {
	return p.Status == OrderPending || p.Status == OrderConfirmed
}

const (
	MovementReceipt    = "receipt"
	MovementUsage      = "usage"
	MovementAdjustment = "adjustment"
	MovementExpired    = "expired"
	MovementLoss       = "loss"
)

type InventoryMovement struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	InstitutionID   int             `json:"institution_id"`
	StorageLocation string          `json:"storage_location"`
	MovementType    string          `json:"movement_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	LotNumber       *string         `json:"lot_number,omitempty"`
	ExpirationDate  *string         `json:"expiration_date,omitempty"`
	BatchID         *string         `json:"batch_id,omitempty"`
	Reason          *string         `json:"reason,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

func (m InventoryMovement) EntityID() string { return m.ID }

// StockBatch is the current remaining quantity of one received lot.
type StockBatch struct {
	BatchID           string          `json:"batch_id"`
	ProductID         string          `json:"product_id"`
	InstitutionID     int             `json:"institution_id"`
	StorageLocation   string          `json:"storage_location"`
	LotNumber         string          `json:"lot_number"`
	ExpirationDate    *string         `json:"expiration_date,omitempty"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
}

func (s StockBatch) EntityID() string { return s.BatchID }
