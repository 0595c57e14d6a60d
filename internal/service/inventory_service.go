package service

import (
	"context"
	"net/url"
	"time"

	"nutripae/internal/apierror"
	"nutripae/internal/cache"
	"nutripae/internal/dto"
	"nutripae/internal/model"
	"nutripae/internal/repository"

	"github.com/rs/zerolog/log"
)

// InventoryService reads the movement ledger and current stock, and records
// receipts, consumptions and manual adjustments.
type InventoryService struct {
	repo    repository.InventoryRepository
	store   *cache.Store
	stale   time.Duration
	auditor Auditor
}

func NewInventoryService(repo repository.InventoryRepository, store *cache.Store, stale time.Duration, auditor Auditor) *InventoryService {
	return &InventoryService{repo: repo, store: store, stale: stale, auditor: auditor}
}

func (s *InventoryService) Movimientos(ctx context.Context, filters url.Values) ([]model.InventoryMovement, error) {
	return cache.Query(ctx, s.store, cache.KeyFromQuery(ResInventoryMovements, filters), cache.Options{StaleTime: s.stale},
		func(ctx context.Context) ([]model.InventoryMovement, error) {
			return s.repo.Movements(ctx, filters)
		})
}

// StockPorLote lists current stock by batch. Stock is always revalidated:
// consumption limits are computed from it.
func (s *InventoryService) StockPorLote(ctx context.Context, filters url.Values) ([]model.StockBatch, error) {
	return cache.Query(ctx, s.store, cache.KeyFromQuery(ResInventoryStock, filters), cache.Options{StaleTime: cache.StaleAlways},
		func(ctx context.Context) ([]model.StockBatch, error) {
			return s.repo.Stock(ctx, filters)
		})
}

// Lote returns one batch from the current stock.
func (s *InventoryService) Lote(ctx context.Context, batchID string) (model.StockBatch, error) {
	batches, err := s.StockPorLote(ctx, url.Values{"batch_id": {batchID}})
	if err != nil {
		return model.StockBatch{}, err
	}
	for _, b := range batches {
		if b.BatchID == batchID {
			return b, nil
		}
	}
	return model.StockBatch{}, apierror.NotFound("Lote no encontrado")
}

func (s *InventoryService) RegistrarIngreso(ctx context.Context, req dto.ReceiptRequest) (*model.InventoryMovement, error) {
	return s.record(ctx, "ingreso", func() (*model.InventoryMovement, error) { return s.repo.Receipt(ctx, req) })
}

func (s *InventoryService) RegistrarConsumo(ctx context.Context, req dto.ConsumptionRequest) (*model.InventoryMovement, error) {
	return s.record(ctx, "consumo", func() (*model.InventoryMovement, error) { return s.repo.Consumption(ctx, req) })
}

func (s *InventoryService) AjusteManual(ctx context.Context, req dto.AdjustmentRequest) (*model.InventoryMovement, error) {
	return s.record(ctx, "ajuste", func() (*model.InventoryMovement, error) { return s.repo.Adjustment(ctx, req) })
}

func (s *InventoryService) record(ctx context.Context, accion string, call func() (*model.InventoryMovement, error)) (*model.InventoryMovement, error) {
	mv, err := call()
	if err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)
	resources := append([]string{ResInventoryMovements}, Related(ResInventoryMovements)...)
	if err := s.store.Invalidate(ctx, resources...); err != nil {
		log.Warn().Err(err).Strs("resources", resources).Msg("cache invalidation failed")
	}
	if s.auditor != nil {
		s.auditor.Record(ctx, ResInventoryMovements, accion, mv.ID)
	}
	return mv, nil
}
