package infra

// pdf.go: purchase-order PDF sent to providers, rendered with go-pdf/fpdf.
// A4 portrait layout:
//   - Header with order number and status
//   - Provider / institution / required delivery date block
//   - Item table (product, quantity, unit price, subtotal)
//   - Bold total
//
// Downloads are rendered in memory. Email attachments are written to a
// per-send directory under the storage path and removed once delivered.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"nutripae/internal/model"

	"github.com/go-pdf/fpdf"
)

// PurchaseOrderDocument carries the order plus the display names the purchases
// service does not embed (it only returns ids).
type PurchaseOrderDocument struct {
	Order           model.PurchaseOrder
	ProviderName    string
	InstitutionName string
	ProductNames    map[string]string
}

// AttachmentDirPrefix names the per-send directories SavePurchaseOrderPDF
// creates, so RemoveAttachment only ever deletes those.
const AttachmentDirPrefix = "envio-"

// PurchaseOrderFileName is the download name, orden_{order_number}.pdf.
func PurchaseOrderFileName(order model.PurchaseOrder) string {
	return fmt.Sprintf("orden_%s.pdf", safeFileName(order.OrderNumber, order.ID))
}

// SavePurchaseOrderPDF writes the order PDF into a fresh directory under
// storagePath and returns the file path. The caller owns the file and
// releases it with RemoveAttachment.
func SavePurchaseOrderPDF(doc PurchaseOrderDocument, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	dir, err := os.MkdirTemp(storagePath, AttachmentDirPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("pdf: create send dir: %w", err)
	}
	filePath := filepath.Join(dir, PurchaseOrderFileName(doc.Order))

	f, err := os.Create(filePath)
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("pdf: create file: %w", err)
	}
	if err := WritePurchaseOrderPDF(f, doc); err != nil {
		_ = f.Close()
		_ = os.RemoveAll(dir)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// RemoveAttachment deletes a file written by SavePurchaseOrderPDF together
// with its send directory. A missing file is not an error.
func RemoveAttachment(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("pdf: remove attachment: %w", err)
	}
	dir := filepath.Dir(path)
	if strings.HasPrefix(filepath.Base(dir), AttachmentDirPrefix) {
		if err := os.Remove(dir); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("pdf: remove send dir: %w", err)
		}
	}
	return nil
}

// WritePurchaseOrderPDF renders the order document to w.
func WritePurchaseOrderPDF(w io.Writer, doc PurchaseOrderDocument) error {
	order := doc.Order

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr("Orden de Compra"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Programa de Alimentación Escolar"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Order info ───────────────────────────────────────────────────────────
	info := [][2]string{
		{"Número", order.OrderNumber},
		{"Estado", order.Status},
		{"Proveedor", doc.ProviderName},
		{"Institución", doc.InstitutionName},
		{"Entrega requerida", dateOnly(order.RequiredDeliveryDate)},
	}
	for _, row := range info {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(40, 6, tr(row[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW-40, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// ── Items header ──────────────────────────────────────────────────────────
	col1 := contentW * 0.46
	col2 := contentW * 0.16
	col3 := contentW * 0.19
	col4 := contentW * 0.19

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(col1, 7, "Producto", "1", 0, "L", true, 0, "")
	pdf.CellFormat(col2, 7, "Cantidad", "1", 0, "R", true, 0, "")
	pdf.CellFormat(col3, 7, "Precio unit.", "1", 0, "R", true, 0, "")
	pdf.CellFormat(col4, 7, "Subtotal", "1", 1, "R", true, 0, "")

	// ── Item rows ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	for _, item := range order.Items {
		nombre := doc.ProductNames[item.ProductID]
		if nombre == "" {
			nombre = item.ProductID
		}
		if len([]rune(nombre)) > 48 {
			nombre = string([]rune(nombre)[:47]) + "…"
		}
		pdf.CellFormat(col1, 6, tr(nombre), "1", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, item.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(col3, 6, "$"+item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+item.Subtotal().StringFixed(2), "1", 1, "R", false, 0, "")
	}

	// ── Total ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1+col2+col3, 8, "TOTAL", "1", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 8, "$"+order.Total().StringFixed(2), "1", 1, "R", false, 0, "")

	if order.CancellationReason != nil {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(contentW, 5, tr("Motivo de cancelación: "+*order.CancellationReason), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: render: %w", err)
	}
	return nil
}

func dateOnly(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

func safeFileName(preferred, fallback string) string {
	name := preferred
	if strings.TrimSpace(name) == "" {
		name = fallback
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
