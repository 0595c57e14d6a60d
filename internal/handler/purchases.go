package handler

import (
	"context"
	"net/http"
	"net/url"

	"nutripae/internal/dto"
	"nutripae/internal/form"
	"nutripae/internal/model"
	"nutripae/internal/service"
	"nutripae/internal/view"

	"github.com/gin-gonic/gin"
)

func (h *ResourcesHandler) registerPurchases(rg, orders *gin.RouterGroup, write []gin.HandlerFunc) {
	orders.POST("/:id/ship", chain(write, h.ShipOrder)...)
	orders.POST("/:id/cancel", chain(write, h.CancelOrder)...)
	orders.GET("/:id/pdf", h.OrderPDF)
	orders.POST("/:id/send", chain(write, h.SendOrder)...)

	inv := rg.Group("/inventory")
	inv.GET("/movements", h.Movements)
	inv.GET("/movements/table", h.MovementsTable)
	inv.GET("/movements/export", h.MovementsExport)
	inv.GET("/stock", h.Stock)
	inv.GET("/stock/table", h.StockTable)
	inv.POST("/receipt", chain(write, h.Receipt)...)
	inv.POST("/consumption", chain(write, h.Consumption)...)
	inv.POST("/adjustment", chain(write, h.Adjustment)...)
}

// ── Purchase orders ──────────────────────────────────────────────────────────

// ShipOrder godoc
// @Summary Despachar una orden confirmada
// @Tags purchases
// @Produce json
// @Param id path string true "ID de la orden"
// @Success 200 {object} model.PurchaseOrder
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/purchase-orders/{id}/ship [post]
func (h *ResourcesHandler) ShipOrder(c *gin.Context) {
	out, err := h.deps.Purchases.PurchaseOrders.Despachar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ResourcesHandler) CancelOrder(c *gin.Context) {
	var req dto.CancelOrderRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	out, err := h.deps.Purchases.PurchaseOrders.Cancelar(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// OrderPDF godoc
// @Summary PDF de la orden de compra
// @Tags purchases
// @Produce application/pdf
// @Param id path string true "ID de la orden"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /v1/purchase-orders/{id}/pdf [get]
func (h *ResourcesHandler) OrderPDF(c *gin.Context) {
	data, name, err := h.deps.Purchases.PurchaseOrders.PDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// SendOrder godoc
// @Summary Enviar la orden al proveedor por correo
// @Tags purchases
// @Accept json
// @Param id path string true "ID de la orden"
// @Param body body dto.SendOrderRequest false "Correo alterno"
// @Success 202
// @Failure 422 {object} apierror.ValidationError
// @Security BearerAuth
// @Router /v1/purchase-orders/{id}/send [post]
func (h *ResourcesHandler) SendOrder(c *gin.Context) {
	var req dto.SendOrderRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	if err := h.deps.Purchases.PurchaseOrders.EnviarAlProveedor(c.Request.Context(), c.Param("id"), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"detail": "Orden en cola de envío"})
}

// ── Inventory ────────────────────────────────────────────────────────────────

func (h *ResourcesHandler) Movements(c *gin.Context) {
	rows, err := h.deps.Purchases.Inventory.Movimientos(c.Request.Context(), filters(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ResourcesHandler) Stock(c *gin.Context) {
	rows, err := h.deps.Purchases.Inventory.StockPorLote(c.Request.Context(), filters(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ResourcesHandler) productNames(ctx context.Context) (map[string]string, error) {
	products, err := h.deps.Purchases.Products.Listar(ctx, nil)
	if err != nil {
		return nil, err
	}
	return view.NamesByID(products, func(p model.Product) string { return p.Name }), nil
}

func (h *ResourcesHandler) movementsTable(ctx context.Context, q url.Values) (view.Rendered, error) {
	rows, err := h.deps.Purchases.Inventory.Movimientos(ctx, q)
	if err != nil {
		return view.Rendered{}, err
	}
	names, err := h.productNames(ctx)
	if err != nil {
		return view.Rendered{}, err
	}
	return view.InventoryMovementTable(names).Render(rows), nil
}

func (h *ResourcesHandler) stockTable(ctx context.Context, q url.Values) (view.Rendered, error) {
	rows, err := h.deps.Purchases.Inventory.StockPorLote(ctx, q)
	if err != nil {
		return view.Rendered{}, err
	}
	names, err := h.productNames(ctx)
	if err != nil {
		return view.Rendered{}, err
	}
	return view.StockTable(names).Render(rows), nil
}

func (h *ResourcesHandler) MovementsTable(c *gin.Context) {
	r, err := h.movementsTable(c.Request.Context(), filters(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ResourcesHandler) MovementsExport(c *gin.Context) {
	r, err := h.movementsTable(c.Request.Context(), filters(c))
	if err != nil {
		respondError(c, err)
		return
	}
	writeXLSX(c, service.ResInventoryMovements, r)
}

func (h *ResourcesHandler) StockTable(c *gin.Context) {
	r, err := h.stockTable(c.Request.Context(), filters(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Receipt godoc
// @Summary Registrar ingreso de inventario
// @Tags inventory
// @Accept json
// @Produce json
// @Param body body dto.ReceiptRequest true "Ingreso"
// @Success 201 {object} model.InventoryMovement
// @Failure 422 {object} apierror.ValidationError
// @Security BearerAuth
// @Router /v1/inventory/receipt [post]
func (h *ResourcesHandler) Receipt(c *gin.Context) {
	var req dto.ReceiptRequest
	if !bindAndValidate(c, &req) {
		return
	}
	form.Normalize(&req)
	out, err := h.deps.Purchases.Inventory.RegistrarIngreso(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// Consumption godoc
// @Summary Registrar consumo de un lote
// @Tags inventory
// @Accept json
// @Produce json
// @Param body body dto.ConsumptionRequest true "Consumo"
// @Success 201 {object} model.InventoryMovement
// @Failure 422 {object} apierror.ValidationError
// @Security BearerAuth
// @Router /v1/inventory/consumption [post]
func (h *ResourcesHandler) Consumption(c *gin.Context) {
	var req dto.ConsumptionRequest
	if !bindJSON(c, &req) {
		return
	}
	inv := h.deps.Purchases.Inventory
	var out *model.InventoryMovement
	f := form.New(form.Consumption(inv.Lote), func(ctx context.Context, v dto.ConsumptionRequest) error {
		var err error
		out, err = inv.RegistrarConsumo(ctx, v)
		return err
	})
	f.Open(nil)
	f.Set(req)
	if err := f.Submit(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *ResourcesHandler) Adjustment(c *gin.Context) {
	var req dto.AdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	form.Normalize(&req)
	out, err := h.deps.Purchases.Inventory.AjusteManual(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}
