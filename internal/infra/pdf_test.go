package infra

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"nutripae/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrderDocument() PurchaseOrderDocument {
	return PurchaseOrderDocument{
		Order: model.PurchaseOrder{
			ID:                   "po-1",
			OrderNumber:          "OC-2024/001",
			ProviderID:           "prov-1",
			InstitutionID:        3,
			Status:               model.OrderConfirmed,
			RequiredDeliveryDate: "2024-03-15T00:00:00Z",
			Items: []model.OrderItem{
				{ProductID: "p1", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.RequireFromString("2500.50")},
				{ProductID: "p2", Quantity: decimal.RequireFromString("2.5"), UnitPrice: decimal.NewFromInt(8000)},
			},
		},
		ProviderName:    "Distribuidora Ñapa",
		InstitutionName: "I.E. San José",
		ProductNames:    map[string]string{"p1": "Arroz blanco"},
	}
}

func TestWritePurchaseOrderPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePurchaseOrderPDF(&buf, sampleOrderDocument()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Equal(t, "orden_OC-2024_001.pdf", PurchaseOrderFileName(sampleOrderDocument().Order))
}

func TestSavePurchaseOrderPDF_RemovedAfterUse(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pdfs")

	first, err := SavePurchaseOrderPDF(sampleOrderDocument(), dir)
	require.NoError(t, err)
	second, err := SavePurchaseOrderPDF(sampleOrderDocument(), dir)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, "orden_OC-2024_001.pdf", filepath.Base(first))

	raw, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	require.NoError(t, RemoveAttachment(first))
	require.NoError(t, RemoveAttachment(second))
	require.NoError(t, RemoveAttachment(first))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemoveAttachment_KeepsForeignDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orden_x.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o600))

	require.NoError(t, RemoveAttachment(path))
	_, err := os.Stat(dir)
	assert.NoError(t, err)
	assert.NoError(t, RemoveAttachment(""))
}

func TestSafeFileName(t *testing.T) {
	assert.Equal(t, "OC_12", safeFileName("OC 12", "x"))
	assert.Equal(t, "po-9", safeFileName("  ", "po-9"))
}
