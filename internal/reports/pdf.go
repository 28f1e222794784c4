package reports

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"ricepro-web/internal/models"
	"ricepro-web/internal/timeutil"
	"ricepro-web/internal/views"
)

// Filename returns the download name of a report for period
func Filename(period models.Period) string {
	return fmt.Sprintf("ricepro_report_%s_%s.pdf", period, timeutil.Now().Format("2006-01-02"))
}

// GeneratePDF renders the sales and inventory reports of one period.
func GeneratePDF(data views.ReportsData) ([]byte, error) {
	if data.Sales == nil || data.Inventory == nil {
		return nil, fmt.Errorf("report data incomplete")
	}
	sales, inv := data.Sales, data.Inventory

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "JB-Rice-Pro - Business Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Period: %s", data.Period.Label()), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.FormatEAT(timeutil.Now(), timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	section := func(title string) {
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, title, "1", 1, "L", true, 0, "")
		pdf.SetFont("Arial", "", 11)
	}
	row := func(label, value string) {
		pdf.CellFormat(95, 7, label, "LB", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, value, "RB", 1, "R", false, 0, "")
	}

	section("Sales")
	if sales.StartDate != "" || sales.EndDate != "" {
		row("Window", fmt.Sprintf("%s - %s", views.Date(sales.StartDate), views.Date(sales.EndDate)))
	}
	row("Total orders", fmt.Sprintf("%d", sales.TotalOrders))
	row("Revenue (paid)", views.Currency(sales.TotalRevenue))
	row("Rice sold", views.Kg(sales.TotalKgSold))
	row("Cost of rice sold", views.Currency(sales.TotalCost))
	row("Profit", views.Currency(sales.Profit))
	row(fmt.Sprintf("Restaurant orders (%d)", sales.RestaurantOrders), views.Currency(sales.RestaurantRevenue))
	row(fmt.Sprintf("Individual orders (%d)", sales.IndividualOrders), views.Currency(sales.IndividualRevenue))
	if !sales.TotalOrdersAmount.IsZero() {
		row("Total orders amount", views.Currency(sales.TotalOrdersAmount))
		row("Pending payments", views.Currency(sales.TotalPendingPayments))
	}
	pdf.Ln(5)

	section("Inventory")
	row("Bags purchased", fmt.Sprintf("%d", inv.TotalBagsPurchased))
	row("Rice purchased", views.Kg(inv.TotalKgPurchased))
	row("Purchase cost", views.Currency(inv.TotalPurchaseCost))
	row("Rice sold", views.Kg(inv.SoldKg))
	row("Sales revenue", views.Currency(inv.SoldRevenue))
	row("Available", fmt.Sprintf("%s (%s)", views.Kg(inv.AvailableKg), views.Stock(inv.AvailableKg).Label()))
	row("Cost of sold", views.Currency(inv.CostOfSold))
	row("Profit", views.Currency(inv.Profit))
	pdf.Ln(5)

	if len(inv.InventoryRecords) > 0 {
		section("Stock additions")
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(60, 7, "Date", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 7, "Bags", "1", 0, "C", true, 0, "")
		pdf.CellFormat(50, 7, "Total kg", "1", 0, "C", true, 0, "")
		pdf.CellFormat(50, 7, "Cost per bag", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, rec := range inv.InventoryRecords {
			pdf.CellFormat(60, 6, views.RecordDate(rec), "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, fmt.Sprintf("%d", rec.BagsAdded), "1", 0, "C", false, 0, "")
			pdf.CellFormat(50, 6, views.Kg(rec.TotalKg), "1", 0, "R", false, 0, "")
			pdf.CellFormat(50, 6, views.Currency(rec.CostPerBag), "1", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}
