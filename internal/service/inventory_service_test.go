package service

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"nutripae/internal/apierror"
	"nutripae/internal/cache"
	"nutripae/internal/dto"
	"nutripae/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInventoryRepo struct {
	movements []model.InventoryMovement
	stock     []model.StockBatch
	moveCalls int
	err       error
}

func (r *stubInventoryRepo) Movements(_ context.Context, _ url.Values) ([]model.InventoryMovement, error) {
	r.moveCalls++
	return append([]model.InventoryMovement(nil), r.movements...), nil
}

func (r *stubInventoryRepo) Receipt(_ context.Context, req dto.ReceiptRequest) (*model.InventoryMovement, error) {
	if r.err != nil {
		return nil, r.err
	}
	mv := model.InventoryMovement{
		ID: "mv-" + req.LotNumber, ProductID: req.ProductID, InstitutionID: req.InstitutionID,
		MovementType: model.MovementReceipt, Quantity: req.Quantity, Unit: req.Unit,
	}
	r.movements = append(r.movements, mv)
	return &mv, nil
}

func (r *stubInventoryRepo) Consumption(_ context.Context, req dto.ConsumptionRequest) (*model.InventoryMovement, error) {
	return &model.InventoryMovement{ID: "mv-use", MovementType: model.MovementUsage, Quantity: req.Quantity}, r.err
}

func (r *stubInventoryRepo) Adjustment(_ context.Context, _ dto.AdjustmentRequest) (*model.InventoryMovement, error) {
	return &model.InventoryMovement{ID: "mv-adj", MovementType: model.MovementAdjustment}, r.err
}

func (r *stubInventoryRepo) Stock(_ context.Context, q url.Values) ([]model.StockBatch, error) {
	var out []model.StockBatch
	for _, b := range r.stock {
		if id := q.Get("batch_id"); id != "" && id != b.BatchID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func TestInventory_ReceiptInvalidatesMovements(t *testing.T) {
	repo := &stubInventoryRepo{}
	auditor := &recordingAuditor{}
	svc := NewInventoryService(repo, cache.NewMemoryStore(), time.Minute, auditor)
	ctx := context.Background()

	_, err := svc.Movimientos(ctx, nil)
	require.NoError(t, err)
	_, err = svc.Movimientos(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.moveCalls)

	_, err = svc.RegistrarIngreso(ctx, dto.ReceiptRequest{
		ProductID: "p1", InstitutionID: 3, StorageLocation: "Bodega", LotNumber: "L-01",
		Quantity: decimal.NewFromInt(25), Unit: "kg",
	})
	require.NoError(t, err)

	rows, err := svc.Movimientos(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 2, repo.moveCalls)
	assert.Equal(t, []string{"inventory-movements:ingreso:mv-L-01"}, auditor.entries)
}

func TestInventory_FailedReceiptIsNotAudited(t *testing.T) {
	repo := &stubInventoryRepo{err: apierror.Conflict("Lote duplicado")}
	auditor := &recordingAuditor{}
	svc := NewInventoryService(repo, cache.NewMemoryStore(), time.Minute, auditor)

	_, err := svc.RegistrarIngreso(context.Background(), dto.ReceiptRequest{LotNumber: "L-01"})
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	assert.Empty(t, auditor.entries)
}

func TestInventory_Lote(t *testing.T) {
	repo := &stubInventoryRepo{stock: []model.StockBatch{
		{BatchID: "b1", ProductID: "p1", AvailableQuantity: decimal.NewFromInt(10)},
		{BatchID: "b2", ProductID: "p1", AvailableQuantity: decimal.NewFromInt(4)},
	}}
	svc := NewInventoryService(repo, cache.NewMemoryStore(), time.Minute, nil)
	ctx := context.Background()

	b, err := svc.Lote(ctx, "b2")
	require.NoError(t, err)
	assert.True(t, b.AvailableQuantity.Equal(decimal.NewFromInt(4)))

	_, err = svc.Lote(ctx, "b9")
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

type unreachableBackend struct{ *cache.Memory }

func (unreachableBackend) DeletePrefix(context.Context, string) error {
	return errors.New("redis: connection refused")
}

func TestInventory_InvalidationFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	repo := &stubInventoryRepo{}
	auditor := &recordingAuditor{}
	svc := NewInventoryService(repo, cache.New(unreachableBackend{cache.NewMemory()}), time.Minute, auditor)

	mv, err := svc.RegistrarIngreso(context.Background(), dto.ReceiptRequest{LotNumber: "L-02", Quantity: decimal.NewFromInt(3)})
	require.NoError(t, err)
	assert.Equal(t, "mv-L-02", mv.ID)
	assert.Contains(t, buf.String(), "cache invalidation failed")
	assert.Contains(t, buf.String(), "connection refused")
	assert.Equal(t, []string{"inventory-movements:ingreso:mv-L-02"}, auditor.entries)
}
