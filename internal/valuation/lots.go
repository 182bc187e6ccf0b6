package valuation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/battvalue/valuator/internal/domain"
)

// Lot comparison bounds. Below two lots there is nothing to compare; above
// ten the side-by-side view stops being readable.
const (
	minCompareLots = 2
	maxCompareLots = 10
)

// LotInput describes one lot submitted for comparison.
type LotInput struct {
	Name     string          `json:"name"`
	WeightKg float64         `json:"weightKg"`
	Assays   domain.AssayMap `json:"assays"`
}

// LotResult is one lot's standard-terms value with its comparison rank.
type LotResult struct {
	Name           string             `json:"name"`
	WeightKg       float64            `json:"weightKg"`
	WeightTonnes   float64            `json:"weightTonnes"`
	Chemistry      string             `json:"chemistry"`
	TotalValue     float64            `json:"totalValue"`
	ValuePerKg     float64            `json:"valuePerKg"`
	ValuePerTonne  float64            `json:"valuePerTonne"`
	MetalValues    map[string]float64 `json:"metalValues"`
	GradesPct      map[string]float64 `json:"gradesPct"`
	Rank           int                `json:"rank"`
	Recommendation string             `json:"recommendation,omitempty"`
}

// ComparisonStats summarizes the spread across compared lots.
type ComparisonStats struct {
	BestLot         string  `json:"bestLot"`
	BestValuePerKg  float64 `json:"bestValuePerKg"`
	WorstLot        string  `json:"worstLot"`
	WorstValuePerKg float64 `json:"worstValuePerKg"`
	SpreadPct       float64 `json:"spreadPct"`
	TotalWeightKg   float64 `json:"totalWeightKg"`
	TotalValue      float64 `json:"totalValue"`
}

// LotComparison is the side-by-side result for a set of lots, ranked by
// value per kilogram.
type LotComparison struct {
	Currency   string          `json:"currency"`
	PriceDate  time.Time       `json:"priceDate"`
	Lots       []LotResult     `json:"lots"`
	Comparison ComparisonStats `json:"comparison"`
}

// CompareLots values each lot on standard industry terms against one shared
// market snapshot and ranks them by value per kilogram, best first.
func (s *Service) CompareLots(ctx context.Context, currency string, lots []LotInput) (LotComparison, error) {
	if len(lots) < minCompareLots {
		return LotComparison{}, fmt.Errorf("%w: at least %d lots required for comparison", ErrInvalidRequest, minCompareLots)
	}
	if len(lots) > maxCompareLots {
		return LotComparison{}, fmt.Errorf("%w: at most %d lots allowed per comparison", ErrInvalidRequest, maxCompareLots)
	}
	for i, lot := range lots {
		if lot.WeightKg <= 0 {
			return LotComparison{}, fmt.Errorf("%w: lot %d (%s) has invalid weight %v", ErrInvalidRequest, i+1, lot.Name, lot.WeightKg)
		}
		if lot.Assays == nil {
			return LotComparison{}, fmt.Errorf("%w: lot %d (%s) has no assays", ErrInvalidRequest, i+1, lot.Name)
		}
	}

	snapshot, err := s.market.GetSnapshot(ctx, currency)
	if err != nil {
		return LotComparison{}, fmt.Errorf("resolving market snapshot: %w", err)
	}

	results := make([]LotResult, 0, len(lots))
	for i, lot := range lots {
		name := lot.Name
		if name == "" {
			name = fmt.Sprintf("Lot %d", i+1)
		}

		total := 0.0
		metalValues := map[string]float64{}
		gradesPct := map[string]float64{}
		for _, metal := range domain.AllMetals() {
			assay := lot.Assays.Get(metal)
			if assay <= 0 {
				continue
			}
			gradesPct[metal.Label()] = assay * 100
			_, _, value := estimateValue(lot.WeightKg, metal, assay, snapshot)
			if value > 0 {
				metalValues[metal.Label()] = value
			}
			total += value
		}

		results = append(results, LotResult{
			Name:          name,
			WeightKg:      lot.WeightKg,
			WeightTonnes:  lot.WeightKg / 1000,
			Chemistry:     string(domain.DetectChemistry(lot.Assays)),
			TotalValue:    total,
			ValuePerKg:    total / lot.WeightKg,
			ValuePerTonne: total / lot.WeightKg * 1000,
			MetalValues:   metalValues,
			GradesPct:     gradesPct,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ValuePerKg > results[j].ValuePerKg
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	results[0].Recommendation = "Best value per kg"

	best, worst := results[0], results[len(results)-1]
	stats := ComparisonStats{
		BestLot:         best.Name,
		BestValuePerKg:  best.ValuePerKg,
		WorstLot:        worst.Name,
		WorstValuePerKg: worst.ValuePerKg,
	}
	if worst.ValuePerKg > 0 {
		stats.SpreadPct = (best.ValuePerKg - worst.ValuePerKg) / worst.ValuePerKg * 100
	}
	for _, r := range results {
		stats.TotalWeightKg += r.WeightKg
		stats.TotalValue += r.TotalValue
	}

	return LotComparison{
		Currency:   snapshot.Currency,
		PriceDate:  snapshot.CapturedAt,
		Lots:       results,
		Comparison: stats,
	}, nil
}
