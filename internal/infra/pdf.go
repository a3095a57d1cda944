package infra

// pdf.go — Closing-report generation using go-pdf/fpdf.
// One A7-size thermal-style ticket per cierre de caja:
//   - header with the movimiento id and timestamp
//   - denomination table (face value × count = subtotal)
//   - non-empty detail lines
//   - counted vs expected totals and the resulting classification
//
// The output file is saved to storagePath/cierre_{idmovimiento}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"arqueogw/internal/arqueo"
	"arqueogw/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateCierrePDF renders the closing report for a just-closed movimiento.
// Returns the absolute path of the generated file.
func GenerateCierrePDF(reg *model.RegistroArqueo, cmp arqueo.Comparacion, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	filePath := filepath.Join(storagePath, fmt.Sprintf("cierre_%d.pdf", reg.MovimientoID))

	// A7 ≈ 74mm × 105mm — thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, "Cierre de Caja", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Movimiento N° %d", reg.MovimientoID), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, time.Now().Format("02/01/2006  15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.36 // denomination
	col2 := contentW * 0.24 // count
	col3 := contentW * 0.40 // subtotal

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Billete", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, d := range model.Denominaciones {
		n := reg.Conteo[d]
		if n == 0 {
			continue
		}
		pdf.CellFormat(col1, 4, fmt.Sprintf("%d", d), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 4, fmt.Sprintf("%d", n), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 4, fmt.Sprintf("%d", int64(d)*int64(n)), "", 1, "R", false, 0, "")
	}

	for _, det := range reg.Detalles {
		if det.Etiqueta == "" && det.Monto.IsZero() {
			continue
		}
		pdf.CellFormat(col1+col2, 4, det.Etiqueta, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, det.Monto.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW*0.5, 5, "Esperado", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.5, 5, cmp.Esperado.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*0.5, 6, "Contado", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.5, 6, cmp.Contado.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Arqueo %s (dif. %s)", cmp.Clasificacion, cmp.Diferencia.StringFixed(2)), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
