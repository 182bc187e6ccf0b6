package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const bidSheet = "Bid Report"

// WriteBidReportXLSX renders a bid report as an XLSX workbook suitable for
// emailing to a counterparty.
func WriteBidReportXLSX(report BidReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", bidSheet)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	setCell := func(cell string, value any) {
		// SetCellValue only fails on invalid references, which are all
		// literals below.
		_ = f.SetCellValue(bidSheet, cell, value)
	}
	setHeader := func(cell string, value string) {
		setCell(cell, value)
		_ = f.SetCellStyle(bidSheet, cell, cell, bold)
	}

	setHeader("A1", report.ReportInfo.Type)
	setCell("A2", "Date")
	setCell("B2", report.ReportInfo.Date)
	setCell("A3", "Valid Until")
	setCell("B3", report.ReportInfo.ValidUntil)
	row := 4
	if report.ReportInfo.Reference != "" {
		setCell(fmt.Sprintf("A%d", row), "Reference")
		setCell(fmt.Sprintf("B%d", row), report.ReportInfo.Reference)
		row++
	}
	if report.ReportInfo.Company != "" {
		setCell(fmt.Sprintf("A%d", row), "Company")
		setCell(fmt.Sprintf("B%d", row), report.ReportInfo.Company)
		row++
	}

	row++
	setHeader(fmt.Sprintf("A%d", row), "Material")
	row++
	setCell(fmt.Sprintf("A%d", row), "Weight (kg)")
	setCell(fmt.Sprintf("B%d", row), report.Material.WeightKg)
	row++
	setCell(fmt.Sprintf("A%d", row), "Weight (tonnes)")
	setCell(fmt.Sprintf("B%d", row), report.Material.WeightTonnes)
	row++
	setCell(fmt.Sprintf("A%d", row), "Chemistry")
	setCell(fmt.Sprintf("B%d", row), report.Material.ChemistryName)
	row++

	row++
	setHeader(fmt.Sprintf("A%d", row), "Metal")
	setHeader(fmt.Sprintf("B%d", row), "Grade %")
	setHeader(fmt.Sprintf("C%d", row), "Contained (kg)")
	withPrices := false
	for _, c := range report.Material.Composition {
		if c.MarketPricePerKg != nil {
			withPrices = true
			break
		}
	}
	if withPrices {
		setHeader(fmt.Sprintf("D%d", row), fmt.Sprintf("Market Price (%s/kg)", report.Pricing.Currency))
	}
	for _, c := range report.Material.Composition {
		row++
		setCell(fmt.Sprintf("A%d", row), c.Metal)
		setCell(fmt.Sprintf("B%d", row), c.GradePct)
		setCell(fmt.Sprintf("C%d", row), c.ContainedKg)
		if c.MarketPricePerKg != nil {
			setCell(fmt.Sprintf("D%d", row), *c.MarketPricePerKg)
		}
	}

	row += 2
	setHeader(fmt.Sprintf("A%d", row), "Pricing")
	row++
	setCell(fmt.Sprintf("A%d", row), "Currency")
	setCell(fmt.Sprintf("B%d", row), report.Pricing.Currency)
	if report.Pricing.OfferedPricePerKg != nil {
		row++
		setCell(fmt.Sprintf("A%d", row), "Offered Price per kg")
		setCell(fmt.Sprintf("B%d", row), *report.Pricing.OfferedPricePerKg)
		row++
		setCell(fmt.Sprintf("A%d", row), "Total Offered Value")
		setCell(fmt.Sprintf("B%d", row), *report.Pricing.TotalOfferedValue)
	}
	if report.Pricing.MarketPriceDate != "" {
		row++
		setCell(fmt.Sprintf("A%d", row), "Market Price Date")
		setCell(fmt.Sprintf("B%d", row), report.Pricing.MarketPriceDate)
	}

	if report.Transport != nil {
		row += 2
		setHeader(fmt.Sprintf("A%d", row), "Transport")
		row++
		setCell(fmt.Sprintf("A%d", row), "Route")
		setCell(fmt.Sprintf("B%d", row), report.Transport.Route)
		row++
		setCell(fmt.Sprintf("A%d", row), "Status")
		setCell(fmt.Sprintf("B%d", row), report.Transport.Status)
		row++
		setCell(fmt.Sprintf("A%d", row), "Estimated Cost")
		setCell(fmt.Sprintf("B%d", row), report.Transport.EstimatedCost)
		row++
		setCell(fmt.Sprintf("A%d", row), "Transit Time")
		setCell(fmt.Sprintf("B%d", row), report.Transport.TransitTime)
	}

	row += 2
	setCell(fmt.Sprintf("A%d", row), report.Disclaimer)

	if err := f.SetColWidth(bidSheet, "A", "A", 28); err != nil {
		return nil, fmt.Errorf("setting column width: %w", err)
	}
	if err := f.SetColWidth(bidSheet, "B", "D", 22); err != nil {
		return nil, fmt.Errorf("setting column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
