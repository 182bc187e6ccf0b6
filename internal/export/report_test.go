package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/battvalue/valuator/internal/domain"
)

type stubMarket struct {
	snapshot domain.MarketSnapshot
	err      error
}

func (m *stubMarket) GetSnapshot(_ context.Context, _ string) (domain.MarketSnapshot, error) {
	return m.snapshot, m.err
}

func testSnapshot() domain.MarketSnapshot {
	return domain.MarketSnapshot{
		Currency:    "USD",
		FXRate:      1.0,
		PriceSource: "fallback",
		CapturedAt:  time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Spot: map[domain.MetalSymbol]float64{
			domain.MetalNickel:  16.5,
			domain.MetalCobalt:  33.0,
			domain.MetalLithium: 13.5,
		},
	}
}

func testRequest() BidReportRequest {
	return BidReportRequest{
		Currency: "USD",
		WeightKg: 1000,
		Assays: domain.AssayMap{
			domain.MetalNickel:  0.205,
			domain.MetalCobalt:  0.062,
			domain.MetalLithium: 0.025,
		},
	}
}

func newTestService() *Service {
	svc := NewService(&stubMarket{snapshot: testSnapshot()})
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC) }
	return svc
}

func TestBuildBidReport(t *testing.T) {
	svc := newTestService()

	report, err := svc.BuildBidReport(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("BuildBidReport: %v", err)
	}

	if report.ReportInfo.Type != "Battery Material Purchase Quote" {
		t.Errorf("type = %q", report.ReportInfo.Type)
	}
	if report.ReportInfo.Date != "2026-03-14" {
		t.Errorf("date = %q", report.ReportInfo.Date)
	}
	// Default validity is seven days.
	if report.ReportInfo.ValidUntil != "2026-03-21" {
		t.Errorf("valid until = %q", report.ReportInfo.ValidUntil)
	}

	if report.Material.WeightTonnes != 1.0 {
		t.Errorf("tonnes = %v", report.Material.WeightTonnes)
	}
	if len(report.Material.Composition) != 3 {
		t.Fatalf("got %d composition rows, want 3", len(report.Material.Composition))
	}
	// Sorted by grade descending.
	if report.Material.Composition[0].Metal != "Nickel" {
		t.Errorf("top row = %q, want Nickel", report.Material.Composition[0].Metal)
	}
	if report.Material.Composition[0].GradePct != 20.5 {
		t.Errorf("Ni grade = %v", report.Material.Composition[0].GradePct)
	}
	if report.Material.Composition[0].ContainedKg != 205.0 {
		t.Errorf("Ni contained = %v", report.Material.Composition[0].ContainedKg)
	}

	// Market prices are included by default.
	if report.Material.Composition[0].MarketPricePerKg == nil {
		t.Fatal("expected market price on composition row")
	}
	if *report.Material.Composition[0].MarketPricePerKg != 16.5 {
		t.Errorf("Ni price = %v", *report.Material.Composition[0].MarketPricePerKg)
	}
	if report.Pricing.MarketPriceDate == "" {
		t.Error("expected market price date")
	}

	// No offer, no transport requested.
	if report.Pricing.OfferedPricePerKg != nil || report.Transport != nil {
		t.Errorf("unexpected optional sections: %+v", report)
	}
	if report.Disclaimer == "" {
		t.Error("expected a disclaimer")
	}
}

func TestBuildBidReportWithOfferAndTransport(t *testing.T) {
	svc := newTestService()

	req := testRequest()
	offered := 2.50
	req.OfferedPricePerKg = &offered
	req.ValidityDays = 14
	req.IncludeTransport = true
	req.TransportOrigin = "CA"
	req.TransportDestination = "US"
	req.CompanyName = "ABC Recycling"
	req.ReferenceNumber = "Q-2026-001"

	report, err := svc.BuildBidReport(context.Background(), req)
	if err != nil {
		t.Fatalf("BuildBidReport: %v", err)
	}

	if report.ReportInfo.ValidUntil != "2026-03-28" {
		t.Errorf("valid until = %q", report.ReportInfo.ValidUntil)
	}
	if report.Pricing.TotalOfferedValue == nil || *report.Pricing.TotalOfferedValue != 2500.0 {
		t.Errorf("total offered = %v", report.Pricing.TotalOfferedValue)
	}

	if report.Transport == nil {
		t.Fatal("expected a transport section")
	}
	if report.Transport.Route != "Canada → United States" {
		t.Errorf("route = %q", report.Transport.Route)
	}
	if len(report.Transport.KeyRequirements) != 3 {
		t.Errorf("key requirements = %v, want first 3 checklist items", report.Transport.KeyRequirements)
	}
}

func TestBuildBidReportExcludesPrices(t *testing.T) {
	svc := newTestService()

	req := testRequest()
	include := false
	req.IncludeMarketPrices = &include

	report, err := svc.BuildBidReport(context.Background(), req)
	if err != nil {
		t.Fatalf("BuildBidReport: %v", err)
	}

	for _, row := range report.Material.Composition {
		if row.MarketPricePerKg != nil {
			t.Errorf("row %s carries a market price despite exclusion", row.Metal)
		}
	}
	if report.Pricing.MarketPriceDate != "" {
		t.Errorf("market price date = %q, want empty", report.Pricing.MarketPriceDate)
	}
}

func TestBuildBidReportInvalid(t *testing.T) {
	svc := newTestService()

	if _, err := svc.BuildBidReport(context.Background(), BidReportRequest{Currency: "USD", Assays: domain.AssayMap{}}); err == nil {
		t.Error("expected error for missing weight")
	}
	if _, err := svc.BuildBidReport(context.Background(), BidReportRequest{Currency: "USD", WeightKg: 100}); err == nil {
		t.Error("expected error for missing assays")
	}
}

func TestWriteBidReportXLSX(t *testing.T) {
	svc := newTestService()

	report, err := svc.BuildBidReport(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("BuildBidReport: %v", err)
	}

	data, err := WriteBidReportXLSX(report)
	if err != nil {
		t.Fatalf("WriteBidReportXLSX: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty workbook")
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Errorf("output does not look like a zip archive: % x", data[:4])
	}
}
