package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/construction-projects/internal/model"
)

// ContractDocument bundles everything the printable contract summary needs.
type ContractDocument struct {
	Project  model.Project
	Contract model.Contract
}

type Generator struct {
	fontName string
}

func NewGenerator() (*Generator, error) {
	return &Generator{fontName: "Helvetica"}, nil
}

func (g *Generator) Generate(doc ContractDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Construction Contract Summary", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Project %s (%s)", doc.Project.InternalCode, doc.Project.ProjectType), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Classification: %s", safeValue(string(doc.Contract.Classification))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Contract terms", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Signed: %s", safeValue(doc.Contract.SignDate)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Duration: %d months", doc.Contract.DurationMonths), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Financials", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)

	headers := []string{"Total project value", "Total bank value", "Total owner value"}
	widths := []float64{60, 60, 60}
	drawTableRow(pdf, g.fontName, headers, widths, true)
	drawTableRow(pdf, g.fontName, []string{
		formatAmount(doc.Contract.Figures.TotalProjectValue),
		formatAmount(doc.Contract.Figures.TotalBankValue),
		formatAmount(doc.Contract.Figures.TotalOwnerValue),
	}, widths, false)
	pdf.Ln(4)

	if len(doc.Contract.Owners) > 0 {
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, "Authorized owner", "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 11)
		for _, owner := range doc.Contract.Owners {
			name := owner.OwnerNameEn
			if name == "" {
				name = owner.OwnerNameAr
			}
			pdf.CellFormat(0, 6, fmt.Sprintf("%s, ID %s", safeValue(name), safeValue(owner.IDNumber)), "", 1, "L", false, 0, "")
			pdf.CellFormat(0, 6, fmt.Sprintf("Phone: %s   Email: %s", safeValue(owner.Phone), safeValue(owner.Email)), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}

	if len(doc.Contract.Attachments) > 0 {
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, "Attachments", "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)

		attachHeaders := []string{"Type", "Date", "Notes", "Price"}
		attachWidths := []float64{40, 30, 80, 30}
		drawTableRow(pdf, g.fontName, attachHeaders, attachWidths, true)
		for _, a := range doc.Contract.Attachments {
			price := ""
			if a.Price != nil {
				price = formatAmount(*a.Price)
			}
			drawTableRow(pdf, g.fontName, []string{
				string(a.Type),
				safeValue(a.Date),
				a.Notes,
				price,
			}, attachWidths, false)
		}
		pdf.Ln(2)
	}

	pdf.Ln(4)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, "Owner: ______________________", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Contractor: ______________________", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
