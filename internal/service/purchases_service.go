package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"nutripae/internal/apierror"
	"nutripae/internal/cache"
	"nutripae/internal/dto"
	"nutripae/internal/infra"
	"nutripae/internal/model"
	"nutripae/internal/repository"
	"nutripae/internal/worker"

	"github.com/rs/zerolog/log"
)

const (
	AccionDespachar = "despachar"
	AccionEnviar    = "enviar"
)

type (
	ProviderService = CRUDService[model.Provider, dto.CreateProviderRequest, dto.UpdateProviderRequest]
	ProductService  = CRUDService[model.Product, dto.ProductRequest, dto.ProductRequest]
)

// EmailEnqueuer hands an email to the background workers.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) error
}

type PurchasesServices struct {
	Providers      *ProviderService
	Products       *ProductService
	PurchaseOrders *PurchaseOrderService
	Inventory      *InventoryService
}

// PurchasesDeps are the collaborators outside the purchases service.
type PurchasesDeps struct {
	Institutions   *InstitutionService
	Mailer         EmailEnqueuer
	PDFStoragePath string
}

func NewPurchasesServices(repos *repository.PurchasesRepositories, store *cache.Store, stale time.Duration, auditor Auditor, deps PurchasesDeps) *PurchasesServices {
	cfg := func(resource string) CRUDConfig {
		return CRUDConfig{Resource: resource, Stale: stale, Auditor: auditor}
	}
	providers := NewCRUDService(repos.Providers, store, cfg(ResProviders))
	products := NewCRUDService(repos.Products, store, cfg(ResProducts))
	return &PurchasesServices{
		Providers: providers,
		Products:  products,
		PurchaseOrders: &PurchaseOrderService{
			CRUDService:  NewCRUDService[model.PurchaseOrder, dto.CreatePurchaseOrderRequest, dto.UpdatePurchaseOrderRequest](repos.PurchaseOrders, store, cfg(ResPurchaseOrders)),
			repo:         repos.PurchaseOrders,
			providers:    providers,
			products:     products,
			institutions: deps.Institutions,
			mailer:       deps.Mailer,
			pdfPath:      deps.PDFStoragePath,
		},
		Inventory: NewInventoryService(repos.Inventory, store, stale, auditor),
	}
}

// ── Purchase orders ──────────────────────────────────────────────────────────

type PurchaseOrderService struct {
	*CRUDService[model.PurchaseOrder, dto.CreatePurchaseOrderRequest, dto.UpdatePurchaseOrderRequest]
	repo         repository.PurchaseOrderRepository
	providers    *ProviderService
	products     *ProductService
	institutions *InstitutionService
	mailer       EmailEnqueuer
	pdfPath      string
}

// Despachar ships a confirmed order.
func (s *PurchaseOrderService) Despachar(ctx context.Context, id string) (*model.PurchaseOrder, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Shippable() {
		return nil, apierror.Conflict("Solo se pueden despachar órdenes confirmadas")
	}
	out, err := s.repo.Ship(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Mutated(ctx, AccionDespachar, id)
	return out, nil
}

// Cancelar cancels a pending or confirmed order.
func (s *PurchaseOrderService) Cancelar(ctx context.Context, id string, req dto.CancelOrderRequest) (*model.PurchaseOrder, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Cancellable() {
		return nil, apierror.Conflict("Solo se pueden cancelar órdenes pendientes o confirmadas")
	}
	out, err := s.repo.Cancel(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.Mutated(ctx, AccionCancelar, id)
	return out, nil
}

// PDF renders the order document in memory and returns it with its
// download name. Nothing is written to disk.
func (s *PurchaseOrderService) PDF(ctx context.Context, id string) ([]byte, string, error) {
	doc, _, err := s.document(ctx, id)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := infra.WritePurchaseOrderPDF(&buf, doc); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), infra.PurchaseOrderFileName(doc.Order), nil
}

// EnviarAlProveedor renders the PDF and queues an email to the provider (or
// to req.Email when set).
func (s *PurchaseOrderService) EnviarAlProveedor(ctx context.Context, id string, req dto.SendOrderRequest) error {
	if s.mailer == nil {
		return apierror.Transport("purchase-orders: send", fmt.Errorf("cola de correo no configurada"))
	}
	doc, provider, err := s.document(ctx, id)
	if err != nil {
		return err
	}
	to := ""
	switch {
	case req.Email != nil && *req.Email != "":
		to = *req.Email
	case provider.Email != nil:
		to = *provider.Email
	}
	if to == "" {
		return apierror.Validation(map[string]string{"email": "El proveedor no tiene correo registrado"})
	}

	path, err := infra.SavePurchaseOrderPDF(doc, s.pdfPath)
	if err != nil {
		return err
	}
	err = s.mailer.EnqueueEmail(ctx, worker.EmailJobPayload{
		ToEmail: to,
		Subject: fmt.Sprintf("Orden de compra %s", doc.Order.OrderNumber),
		Body: fmt.Sprintf("Señores %s,\n\nAdjuntamos la orden de compra %s con entrega requerida el %s.\n",
			doc.ProviderName, doc.Order.OrderNumber, dateOnly(doc.Order.RequiredDeliveryDate)),
		PDFPath: path,
	})
	if err != nil {
		if rmErr := infra.RemoveAttachment(path); rmErr != nil {
			log.Warn().Err(rmErr).Str("path", path).Msg("purchase-orders: attachment cleanup failed")
		}
		return fmt.Errorf("purchase-orders: enqueue email: %w", err)
	}
	if s.auditor != nil {
		s.auditor.Record(context.WithoutCancel(ctx), s.resource, AccionEnviar, id)
	}
	return nil
}

func (s *PurchaseOrderService) document(ctx context.Context, id string) (infra.PurchaseOrderDocument, *model.Provider, error) {
	order, err := s.ObtenerPorID(ctx, id)
	if err != nil {
		return infra.PurchaseOrderDocument{}, nil, err
	}
	provider, err := s.providers.ObtenerPorID(ctx, order.ProviderID)
	if err != nil {
		return infra.PurchaseOrderDocument{}, nil, err
	}
	doc := infra.PurchaseOrderDocument{
		Order:        *order,
		ProviderName: provider.Name,
		ProductNames: make(map[string]string),
	}
	if s.institutions != nil {
		if inst, err := s.institutions.ObtenerPorID(ctx, strconv.Itoa(order.InstitutionID)); err == nil {
			doc.InstitutionName = inst.Name
		}
	}
	if doc.InstitutionName == "" {
		doc.InstitutionName = strconv.Itoa(order.InstitutionID)
	}
	products, err := s.products.Listar(ctx, nil)
	if err != nil {
		return infra.PurchaseOrderDocument{}, nil, err
	}
	for _, p := range products {
		doc.ProductNames[p.ID] = p.Name
	}
	return doc, provider, nil
}

func dateOnly(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}
