package valuation

import (
	"context"
	"errors"
	"testing"

	"github.com/battvalue/valuator/internal/domain"
)

func TestGetValueView(t *testing.T) {
	svc := NewService(&stubMarket{snapshot: testSnapshot()})

	assays := domain.AssayMap{
		domain.MetalNickel:  0.205,
		domain.MetalCobalt:  0.062,
		domain.MetalLithium: 0.025,
	}

	view, err := svc.GetValueView(context.Background(), "USD", 1000, assays)
	if err != nil {
		t.Fatalf("GetValueView: %v", err)
	}

	// Ni: 205 kg contained, 194.75 recoverable at 95%, 80% payable at 16.5/kg.
	wantNi := 1000 * 0.205 * 0.95 * 16.5 * 0.80
	wantCo := 1000 * 0.062 * 0.95 * 33.0 * 0.75
	wantLi := 1000 * 0.025 * 0.85 * 13.5 * 0.30

	if len(view.MetalBreakdown) != 3 {
		t.Fatalf("got %d breakdown rows, want 3", len(view.MetalBreakdown))
	}
	// Sorted by value descending: Ni, Co, Li for this profile.
	within(t, "Ni value", view.MetalBreakdown[0].EstimatedValue, wantNi, 1e-6)
	within(t, "Co value", view.MetalBreakdown[1].EstimatedValue, wantCo, 1e-6)
	within(t, "Li value", view.MetalBreakdown[2].EstimatedValue, wantLi, 1e-6)
	if view.MetalBreakdown[0].Metal != "Nickel" {
		t.Errorf("top metal = %q, want Nickel", view.MetalBreakdown[0].Metal)
	}

	within(t, "total value", view.TotalValue, wantNi+wantCo+wantLi, 1e-6)
	within(t, "value per tonne", view.ValuePerTonne, view.TotalValue, 1e-6)
	// No manganese in the profile, so this reads as nickel cobalt aluminum.
	if view.Chemistry != string(domain.ChemistryNCA) {
		t.Errorf("chemistry = %q, want %q", view.Chemistry, domain.ChemistryNCA)
	}
}

func TestGetValueViewInvalid(t *testing.T) {
	svc := NewService(&stubMarket{snapshot: testSnapshot()})

	if _, err := svc.GetValueView(context.Background(), "USD", 0, domain.AssayMap{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("zero weight: err = %v, want ErrInvalidRequest", err)
	}
	if _, err := svc.GetValueView(context.Background(), "USD", 100, nil); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("nil assays: err = %v, want ErrInvalidRequest", err)
	}
}

func TestAnalyzeSensitivity(t *testing.T) {
	svc := NewService(&stubMarket{snapshot: testSnapshot()})

	assays := domain.AssayMap{
		domain.MetalNickel:  0.205,
		domain.MetalCobalt:  0.062,
		domain.MetalLithium: 0.025,
	}

	report, err := svc.AnalyzeSensitivity(context.Background(), "USD", 1000, assays, nil)
	if err != nil {
		t.Fatalf("AnalyzeSensitivity: %v", err)
	}

	if len(report.ScenariosTested) != 5 {
		t.Fatalf("default scenarios = %v, want 5 entries", report.ScenariosTested)
	}
	if len(report.Sensitivity) != 3 {
		t.Fatalf("got sensitivity for %d metals, want 3", len(report.Sensitivity))
	}

	niRows := report.Sensitivity["Nickel"]
	if len(niRows) != 5 {
		t.Fatalf("got %d Ni scenarios, want 5", len(niRows))
	}

	// The zero-move scenario reproduces the base value exactly.
	for _, row := range niRows {
		if row.PriceChangePct == 0 {
			within(t, "zero-move value", row.TotalValue, report.BaseValue, 1e-9)
			within(t, "zero-move change", row.ValueChange, 0, 1e-9)
		}
	}

	// A +20% Ni move shifts total value by 20% of Ni's contribution.
	niContribution := report.BaseBreakdown["Nickel"]
	for _, row := range niRows {
		if row.PriceChangePct == 20 {
			within(t, "+20%% Ni change", row.ValueChange, niContribution*0.20, 1e-6)
		}
	}

	// Nickel dominates this profile.
	if report.MostSensitiveTo != "Nickel" {
		t.Errorf("MostSensitiveTo = %q, want Nickel", report.MostSensitiveTo)
	}
}

func TestAnalyzeSensitivityCustomScenarios(t *testing.T) {
	svc := NewService(&stubMarket{snapshot: testSnapshot()})

	report, err := svc.AnalyzeSensitivity(context.Background(), "USD", 500,
		domain.AssayMap{domain.MetalNickel: 0.30}, []float64{-5, 5})
	if err != nil {
		t.Fatalf("AnalyzeSensitivity: %v", err)
	}
	if len(report.ScenariosTested) != 2 {
		t.Fatalf("scenarios = %v, want the 2 provided", report.ScenariosTested)
	}
	rows := report.Sensitivity["Nickel"]
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	within(t, "-5%% impact", rows[0].ImpactPct, -5, 1e-9)
	within(t, "+5%% impact", rows[1].ImpactPct, 5, 1e-9)
}

func TestCompareLots(t *testing.T) {
	svc := NewService(&stubMarket{snapshot: testSnapshot()})

	lots := []LotInput{
		{Name: "Lot A", WeightKg: 5000, Assays: domain.AssayMap{
			domain.MetalNickel: 0.22, domain.MetalCobalt: 0.08, domain.MetalLithium: 0.04,
		}},
		{Name: "Lot B", WeightKg: 3000, Assays: domain.AssayMap{
			domain.MetalNickel: 0.18, domain.MetalCobalt: 0.05, domain.MetalLithium: 0.035,
		}},
	}

	cmp, err := svc.CompareLots(context.Background(), "USD", lots)
	if err != nil {
		t.Fatalf("CompareLots: %v", err)
	}

	if len(cmp.Lots) != 2 {
		t.Fatalf("got %d lots, want 2", len(cmp.Lots))
	}
	// Lot A is richer in every metal, so it ranks first.
	if cmp.Lots[0].Name != "Lot A" || cmp.Lots[0].Rank != 1 {
		t.Errorf("top lot = %+v, want Lot A at rank 1", cmp.Lots[0])
	}
	if cmp.Lots[0].Recommendation != "Best value per kg" {
		t.Errorf("recommendation = %q", cmp.Lots[0].Recommendation)
	}
	if cmp.Lots[1].Recommendation != "" {
		t.Errorf("runner-up has recommendation %q", cmp.Lots[1].Recommendation)
	}

	if cmp.Comparison.BestLot != "Lot A" || cmp.Comparison.WorstLot != "Lot B" {
		t.Errorf("comparison stats = %+v", cmp.Comparison)
	}
	within(t, "total weight", cmp.Comparison.TotalWeightKg, 8000, 1e-9)
	if cmp.Comparison.SpreadPct <= 0 {
		t.Errorf("spread = %v, want positive", cmp.Comparison.SpreadPct)
	}

	within(t, "value per tonne", cmp.Lots[0].ValuePerTonne, cmp.Lots[0].ValuePerKg*1000, 1e-9)
}

func TestCompareLotsBounds(t *testing.T) {
	svc := NewService(&stubMarket{snapshot: testSnapshot()})

	one := []LotInput{{Name: "only", WeightKg: 100, Assays: domain.AssayMap{}}}
	if _, err := svc.CompareLots(context.Background(), "USD", one); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("single lot: err = %v, want ErrInvalidRequest", err)
	}

	many := make([]LotInput, 11)
	for i := range many {
		many[i] = LotInput{WeightKg: 100, Assays: domain.AssayMap{}}
	}
	if _, err := svc.CompareLots(context.Background(), "USD", many); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("11 lots: err = %v, want ErrInvalidRequest", err)
	}

	bad := []LotInput{
		{Name: "ok", WeightKg: 100, Assays: domain.AssayMap{}},
		{Name: "bad", WeightKg: 0, Assays: domain.AssayMap{}},
	}
	if _, err := svc.CompareLots(context.Background(), "USD", bad); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("zero-weight lot: err = %v, want ErrInvalidRequest", err)
	}
}
