// internal/workers/report_builder.go
package workers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/catalog-be/internal/core/domain"
)

// XLSXContentType is the MIME type of generated workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names of the sales workbook
const (
	SheetSales   = "Sales"
	SheetSummary = "Summary"
)

var salesHeaders = []string{
	"Date", "Product", "Size", "Quantity", "Unit Price", "Total",
	"Payment", "Customer", "Notes",
}

// BuildSalesWorkbook renders the sales of a period and their summary as an
// xlsx workbook.
func BuildSalesWorkbook(summary *domain.SalesSummary, sales []*domain.Sale) ([]byte, error) {
	file := xlsx.NewFile()

	if err := addSalesSheet(file, sales); err != nil {
		return nil, err
	}
	if err := addSummarySheet(file, summary); err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buffer.Bytes(), nil
}

func addSalesSheet(file *xlsx.File, sales []*domain.Sale) error {
	sheet, err := file.AddSheet(SheetSales)
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	addHeaderRow(sheet, salesHeaders)
	for _, s := range sales {
		row := sheet.AddRow()
		row.AddCell().SetString(s.SaleDate)
		row.AddCell().SetString(s.ProductName)
		row.AddCell().SetString(s.Size)
		row.AddCell().SetInt(s.Quantity)
		addMoneyCell(row, s.UnitPrice)
		addMoneyCell(row, s.TotalPrice)
		row.AddCell().SetString(string(s.PaymentMethod))
		row.AddCell().SetString(s.CustomerName)
		row.AddCell().SetString(strings.TrimSpace(s.Notes))
	}

	sheet.SetColWidth(2, 2, 28)
	return nil
}

func addSummarySheet(file *xlsx.File, summary *domain.SalesSummary) error {
	sheet, err := file.AddSheet(SheetSummary)
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	period := sheet.AddRow()
	period.AddCell().SetString("Period")
	period.AddCell().SetString(orOpen(summary.Period.From))
	period.AddCell().SetString(orOpen(summary.Period.To))
	sheet.AddRow()

	addHeaderRow(sheet, []string{"Group", "Sales", "Units", "Revenue"})
	addTotalsRow(sheet, "Total", summary.Totals)
	for _, method := range []domain.PaymentMethod{domain.PaymentCash, domain.PaymentTransfer} {
		if totals, ok := summary.ByPayment[method]; ok {
			addTotalsRow(sheet, string(method), totals)
		}
	}
	sheet.AddRow()

	addHeaderRow(sheet, []string{"Product", "Sales", "Units", "Revenue"})
	for _, line := range summary.ByProduct {
		addTotalsRow(sheet, line.ProductName, line.Totals)
	}

	sheet.SetColWidth(1, 1, 28)
	return nil
}

func addHeaderRow(sheet *xlsx.Sheet, headers []string) {
	row := sheet.AddRow()
	for _, header := range headers {
		cell := row.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}
}

func addTotalsRow(sheet *xlsx.Sheet, label string, totals domain.Totals) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetInt(totals.Sales)
	row.AddCell().SetInt(totals.Units)
	addMoneyCell(row, totals.Revenue)
}

func addMoneyCell(row *xlsx.Row, amount decimal.Decimal) {
	row.AddCell().SetFloatWithFormat(amount.InexactFloat64(), "#,##0.00")
}

func orOpen(bound string) string {
	if bound == "" {
		return "open"
	}
	return bound
}
