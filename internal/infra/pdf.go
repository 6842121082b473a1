package infra

// pdf.go — revision report generation using go-pdf/fpdf.
// Produces an A4 summary of a bulk price revision:
//   - Header with action, date, and operator
//   - Revision metadata (percentage, description)
//   - Table of affected products (before/after prices)
//   - Discrepancy notes for reversions with missing products

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/model"
)

// GenerarReporteRevisionPDF writes a PDF report for a revision record.
// storagePath is the directory where the PDF will be written (created if needed).
// Returns the absolute path to the generated file.
func GenerarReporteRevisionPDF(rev *model.RevisionPrecio, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("revision_%s.pdf", rev.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	titulo := "Revision de Precios"
	if rev.TipoAccion == model.AccionRevertir {
		titulo = "Reversion de Precios"
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, titulo, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("ID: %s", rev.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Fecha: %s", rev.CreatedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Usuario: %s", rev.Usuario), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Ajuste: %s%%", rev.Porcentaje.StringFixed(2)), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, rev.Descripcion, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Affected products table ───────────────────────────────────────────────
	colID := contentW * 0.34
	colNum := contentW * 0.165

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colID, 6, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colNum, 6, "Venta antes", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colNum, 6, "Venta despues", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colNum, 6, "Costo antes", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colNum, 6, "Costo despues", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, a := range rev.Afectados {
		pdf.CellFormat(colID, 5, a.ProductoID.String(), "", 0, "L", false, 0, "")
		pdf.CellFormat(colNum, 5, "$"+a.PrecioAntes.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colNum, 5, "$"+a.PrecioDespues.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colNum, 5, "$"+a.CostoAntes.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colNum, 5, "$"+a.CostoDespues.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Total de productos: %d", len(rev.Afectados)), "", 1, "L", false, 0, "")

	// ── Discrepancies ─────────────────────────────────────────────────────────
	if len(rev.Discrepancias) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 6, "Discrepancias", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "I", 8)
		for _, d := range rev.Discrepancias {
			pdf.CellFormat(contentW, 5, "- "+d, "", 1, "L", false, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
