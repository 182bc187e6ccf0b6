package valuation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/battvalue/valuator/internal/domain"
)

// defaultScenarios are the price moves tested when the caller supplies none.
var defaultScenarios = []float64{-20, -10, 0, 10, 20}

// Scenario is the estimated lot value under one price move for one metal.
type Scenario struct {
	PriceChangePct float64 `json:"priceChangePct"`
	TotalValue     float64 `json:"totalValue"`
	ValueChange    float64 `json:"valueChange"`
	ImpactPct      float64 `json:"impactPct"`
}

// SensitivityReport shows how a lot's estimated value responds to price
// movements in each contributing metal, one metal at a time.
type SensitivityReport struct {
	WeightKg        float64               `json:"weightKg"`
	Currency        string                `json:"currency"`
	Chemistry       string                `json:"chemistry"`
	BaseValue       float64               `json:"baseValue"`
	ValuePerTonne   float64               `json:"valuePerTonne"`
	MostSensitiveTo string                `json:"mostSensitiveTo"`
	BaseBreakdown   map[string]float64    `json:"baseBreakdown"`
	Sensitivity     map[string][]Scenario `json:"sensitivity"`
	ScenariosTested []float64             `json:"scenariosTested"`
	PriceDate       time.Time             `json:"priceDate"`
}

// AnalyzeSensitivity perturbs each value-bearing metal's price by the given
// percentage scenarios and reports the effect on the lot's standard-terms
// value. Scenarios default to ±10% and ±20% moves.
func (s *Service) AnalyzeSensitivity(ctx context.Context, currency string, weightKg float64, assays domain.AssayMap, scenarios []float64) (SensitivityReport, error) {
	if weightKg <= 0 {
		return SensitivityReport{}, fmt.Errorf("%w: weight must be positive, got %v", ErrInvalidRequest, weightKg)
	}
	if assays == nil {
		return SensitivityReport{}, fmt.Errorf("%w: assays are required", ErrInvalidRequest)
	}
	if len(scenarios) == 0 {
		scenarios = defaultScenarios
	}

	snapshot, err := s.market.GetSnapshot(ctx, currency)
	if err != nil {
		return SensitivityReport{}, fmt.Errorf("resolving market snapshot: %w", err)
	}

	totalValue := func(perturbed domain.MetalSymbol, multiplier float64) (float64, map[string]float64) {
		total := 0.0
		breakdown := map[string]float64{}
		for _, metal := range domain.AllMetals() {
			assay := assays.Get(metal)
			if assay <= 0 {
				continue
			}
			_, _, value := estimateValue(weightKg, metal, assay, snapshot)
			if metal == perturbed {
				value *= multiplier
			}
			if value > 0 {
				breakdown[metal.Label()] = value
			}
			total += value
		}
		return total, breakdown
	}

	baseValue, baseBreakdown := totalValue("", 1.0)

	matrix := make(map[string][]Scenario, len(baseBreakdown))
	for _, metal := range domain.AllMetals() {
		if _, contributes := baseBreakdown[metal.Label()]; !contributes {
			continue
		}
		rows := lo.Map(scenarios, func(pctChange float64, _ int) Scenario {
			value, _ := totalValue(metal, 1.0+pctChange/100.0)
			change := value - baseValue
			impact := 0.0
			if baseValue > 0 {
				impact = change / baseValue * 100
			}
			return Scenario{
				PriceChangePct: pctChange,
				TotalValue:     value,
				ValueChange:    change,
				ImpactPct:      impact,
			}
		})
		matrix[metal.Label()] = rows
	}

	// The dominant metal is the one whose largest tested upward move shifts
	// total value the most.
	mostSensitive := ""
	maxImpact := 0.0
	for metal, rows := range matrix {
		for _, row := range rows {
			if row.PriceChangePct <= 0 {
				continue
			}
			if impact := math.Abs(row.ImpactPct); impact > maxImpact {
				maxImpact = impact
				mostSensitive = metal
			}
		}
	}

	return SensitivityReport{
		WeightKg:        weightKg,
		Currency:        snapshot.Currency,
		Chemistry:       string(domain.DetectChemistry(assays)),
		BaseValue:       baseValue,
		ValuePerTonne:   baseValue / weightKg * 1000,
		MostSensitiveTo: mostSensitive,
		BaseBreakdown:   baseBreakdown,
		Sensitivity:     matrix,
		ScenariosTested: scenarios,
		PriceDate:       snapshot.CapturedAt,
	}, nil
}
