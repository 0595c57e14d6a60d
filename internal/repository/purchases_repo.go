package repository

import (
	"context"
	"net/url"

	"nutripae/internal/dto"
	"nutripae/internal/model"
)

type (
	ProviderRepository = ResourceRepository[model.Provider, dto.CreateProviderRequest, dto.UpdateProviderRequest]
	ProductRepository  = ResourceRepository[model.Product, dto.ProductRequest, dto.ProductRequest]
)

type PurchaseOrderRepository interface {
	ResourceRepository[model.PurchaseOrder, dto.CreatePurchaseOrderRequest, dto.UpdatePurchaseOrderRequest]
	Ship(ctx context.Context, id string) (*model.PurchaseOrder, error)
	Cancel(ctx context.Context, id string, req dto.CancelOrderRequest) (*model.PurchaseOrder, error)
}

// InventoryRepository covers the movement ledger and the stock-by-batch view.
// Movements are append-only: there is no update or delete.
type InventoryRepository interface {
	Movements(ctx context.Context, query url.Values) ([]model.InventoryMovement, error)
	Receipt(ctx context.Context, req dto.ReceiptRequest) (*model.InventoryMovement, error)
	Consumption(ctx context.Context, req dto.ConsumptionRequest) (*model.InventoryMovement, error)
	Adjustment(ctx context.Context, req dto.AdjustmentRequest) (*model.InventoryMovement, error)
	Stock(ctx context.Context, query url.Values) ([]model.StockBatch, error)
}

type PurchasesRepositories struct {
	Providers      ProviderRepository
	Products       ProductRepository
	PurchaseOrders PurchaseOrderRepository
	Inventory      InventoryRepository
}

func NewPurchasesRepositories(c Client) *PurchasesRepositories {
	return &PurchasesRepositories{
		Providers: NewResource[model.Provider, dto.CreateProviderRequest, dto.UpdateProviderRequest](c, "/providers", UpdatePatch),
		Products:  NewResource[model.Product, dto.ProductRequest, dto.ProductRequest](c, "/products", UpdatePut),
		PurchaseOrders: &purchaseOrderRepo{
			Resource: NewResource[model.PurchaseOrder, dto.CreatePurchaseOrderRequest, dto.UpdatePurchaseOrderRequest](c, "/purchase-orders", UpdatePatch),
		},
		Inventory: &inventoryRepo{client: c},
	}
}

type purchaseOrderRepo struct {
	*Resource[model.PurchaseOrder, dto.CreatePurchaseOrderRequest, dto.UpdatePurchaseOrderRequest]
}

func (r *purchaseOrderRepo) Ship(ctx context.Context, id string) (*model.PurchaseOrder, error) {
	return r.action(ctx, id, "ship", struct{}{})
}

func (r *purchaseOrderRepo) Cancel(ctx context.Context, id string, req dto.CancelOrderRequest) (*model.PurchaseOrder, error) {
	return r.action(ctx, id, "cancel", req)
}

type inventoryRepo struct{ client Client }

func (r *inventoryRepo) Movements(ctx context.Context, query url.Values) ([]model.InventoryMovement, error) {
	return getList[model.InventoryMovement](ctx, r.client, "/inventory-movements", query)
}

func (r *inventoryRepo) Receipt(ctx context.Context, req dto.ReceiptRequest) (*model.InventoryMovement, error) {
	return r.post(ctx, "/inventory-movements/receipt", req)
}

func (r *inventoryRepo) Consumption(ctx context.Context, req dto.ConsumptionRequest) (*model.InventoryMovement, error) {
	return r.post(ctx, "/inventory-movements/consumption", req)
}

func (r *inventoryRepo) Adjustment(ctx context.Context, req dto.AdjustmentRequest) (*model.InventoryMovement, error) {
	return r.post(ctx, "/inventory-movements/adjustment", req)
}

func (r *inventoryRepo) Stock(ctx context.Context, query url.Values) ([]model.StockBatch, error) {
	return getList[model.StockBatch](ctx, r.client, "/inventory/stock", query)
}

func (r *inventoryRepo) post(ctx context.Context, path string, body any) (*model.InventoryMovement, error) {
	var out model.InventoryMovement
	if err := r.client.Post(ctx, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
