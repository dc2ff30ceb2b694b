package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/construction-projects/internal/model"
)

// ProjectWorkbook is everything the summary export needs; nil step records
// mean the step has not been filled yet.
type ProjectWorkbook struct {
	Project  model.Project
	SitePlan *model.SitePlan
	Contract *model.Contract
	Awarding *model.Awarding
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(wb ProjectWorkbook) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, wb); err != nil {
		return nil, err
	}

	if wb.SitePlan != nil && len(wb.SitePlan.Owners) > 0 {
		ownersSheet := "Owners"
		file.NewSheet(ownersSheet)
		if err := g.writeOwners(file, ownersSheet, wb.SitePlan.Owners); err != nil {
			return nil, err
		}
	}

	if wb.Contract != nil {
		financialsSheet := "Financials"
		file.NewSheet(financialsSheet)
		if err := g.writeFinancials(file, financialsSheet, wb.Contract); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, wb ProjectWorkbook) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Internal code")
	set("B1", wb.Project.InternalCode)
	set("A2", "Status")
	set("B2", string(wb.Project.Status))
	set("A3", "Project type")
	set("B3", string(wb.Project.ProjectType))
	set("A4", "Villa category")
	set("B4", safeValue(string(wb.Project.VillaCategory)))
	set("A5", "Contract type")
	set("B5", string(wb.Project.ContractType))
	set("A6", "Classification")
	set("B6", safeValue(string(wb.Project.Classification)))

	row := 8
	if wb.SitePlan != nil {
		set(fmt.Sprintf("A%d", row), "Site plan number")
		set(fmt.Sprintf("B%d", row), wb.SitePlan.PlanNumber)
		row++
		set(fmt.Sprintf("A%d", row), "Land area, m2")
		set(fmt.Sprintf("B%d", row), wb.SitePlan.LandAreaM2)
		row++
	}
	if wb.Awarding != nil {
		set(fmt.Sprintf("A%d", row), "Awarded contractor")
		set(fmt.Sprintf("B%d", row), wb.Awarding.ContractorName)
		row++
		set(fmt.Sprintf("A%d", row), "Award value")
		set(fmt.Sprintf("B%d", row), wb.Awarding.AwardValue)
	}

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 36)
	return nil
}

func (g *Generator) writeOwners(file *excelize.File, sheet string, list []model.Owner) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Owner (AR)",
		"Owner (EN)",
		"Nationality",
		"ID number",
		"Share %",
		"Right hold",
		"Phone",
		"Email",
		"Authorized",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, owner := range list {
		row := i + 2
		set(fmt.Sprintf("A%d", row), owner.OwnerNameAr)
		set(fmt.Sprintf("B%d", row), owner.OwnerNameEn)
		set(fmt.Sprintf("C%d", row), owner.Nationality)
		set(fmt.Sprintf("D%d", row), owner.IDNumber)
		set(fmt.Sprintf("E%d", row), owner.SharePercent)
		set(fmt.Sprintf("F%d", row), string(owner.RightHoldType))
		set(fmt.Sprintf("G%d", row), owner.Phone)
		set(fmt.Sprintf("H%d", row), owner.Email)
		set(fmt.Sprintf("I%d", row), owner.IsAuthorized)
	}

	_ = file.SetColWidth(sheet, "A", "B", 28)
	_ = file.SetColWidth(sheet, "C", "F", 14)
	_ = file.SetColWidth(sheet, "G", "H", 22)
	return nil
}

func (g *Generator) writeFinancials(file *excelize.File, sheet string, contract *model.Contract) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Total project value")
	set("B1", contract.Figures.TotalProjectValue)
	set("A2", "Total bank value")
	set("B2", contract.Figures.TotalBankValue)
	set("A3", "Total owner value")
	set("B3", contract.Figures.TotalOwnerValue)
	set("A4", "Sign date")
	set("B4", safeValue(contract.SignDate))
	set("A5", "Duration, months")
	set("B5", contract.DurationMonths)

	row := 7
	set(fmt.Sprintf("A%d", row), "Attachment type")
	set(fmt.Sprintf("B%d", row), "Notes")
	set(fmt.Sprintf("C%d", row), "Price")
	for i, a := range contract.Attachments {
		r := row + 1 + i
		set(fmt.Sprintf("A%d", r), string(a.Type))
		set(fmt.Sprintf("B%d", r), a.Notes)
		if a.Price != nil {
			set(fmt.Sprintf("C%d", r), *a.Price)
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 24)
	_ = file.SetColWidth(sheet, "B", "B", 36)
	_ = file.SetColWidth(sheet, "C", "C", 16)
	return nil
}

func safeValue(value string) string {
	if value == "" {
		return "—"
	}
	return value
}
