package valuation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/battvalue/valuator/internal/domain"
)

// Standard industry terms used for quick estimates when a counterparty has
// not negotiated recoveries or payables. Metals missing from a table are not
// paid for.
var (
	standardRecovery = map[domain.MetalSymbol]float64{
		domain.MetalNickel:    0.95,
		domain.MetalCobalt:    0.95,
		domain.MetalLithium:   0.85,
		domain.MetalCopper:    0.95,
		domain.MetalAluminum:  0.90,
		domain.MetalManganese: 0.85,
	}
	standardPayable = map[domain.MetalSymbol]float64{
		domain.MetalNickel:    0.80,
		domain.MetalCobalt:    0.75,
		domain.MetalLithium:   0.30,
		domain.MetalCopper:    0.80,
		domain.MetalAluminum:  0.70,
		domain.MetalManganese: 0.60,
	}
)

// StandardPayables returns a copy of the standard payable fractions, for
// callers that need defaults for an unnegotiated request.
func StandardPayables() map[domain.MetalSymbol]float64 {
	out := make(map[domain.MetalSymbol]float64, len(standardPayable))
	for metal, frac := range standardPayable {
		out[metal] = frac
	}
	return out
}

// MetalValue is one line of a recoverable-value estimate.
type MetalValue struct {
	Metal           string  `json:"metal"`
	GradePct        float64 `json:"gradePct"`
	ContainedKg     float64 `json:"containedKg"`
	RecoverableKg   float64 `json:"recoverableKg"`
	RecoveryRatePct float64 `json:"recoveryRatePct"`
	EstimatedValue  float64 `json:"estimatedValue"`
}

// ValueView is a supplier-facing estimate of what a lot is worth. It shows
// recoverable value and composition only; processing costs and margins are
// deliberately absent.
type ValueView struct {
	WeightKg       float64      `json:"weightKg"`
	Currency       string       `json:"currency"`
	Chemistry      string       `json:"chemistry"`
	ChemistryName  string       `json:"chemistryName"`
	TotalValue     float64      `json:"totalValue"`
	ValuePerTonne  float64      `json:"valuePerTonne"`
	PriceDate      time.Time    `json:"priceDate"`
	MetalBreakdown []MetalValue `json:"metalBreakdown"`
	Notes          []string     `json:"notes"`
}

// estimateValue prices one metal's content on standard terms. Returns zero
// for metals with no standard payable.
func estimateValue(weightKg float64, metal domain.MetalSymbol, assay float64, snapshot domain.MarketSnapshot) (containedKg, recoverableKg, value float64) {
	containedKg = weightKg * assay
	recoverableKg = containedKg * standardRecovery[metal]
	value = recoverableKg * snapshot.SpotPrice(metal) * standardPayable[metal]
	return containedKg, recoverableKg, value
}

// GetValueView builds a simplified valuation for a lot on standard industry
// terms: contained mass, recoverable mass, and estimated value per metal,
// sorted by value descending.
func (s *Service) GetValueView(ctx context.Context, currency string, weightKg float64, assays domain.AssayMap) (ValueView, error) {
	if weightKg <= 0 {
		return ValueView{}, fmt.Errorf("%w: weight must be positive, got %v", ErrInvalidRequest, weightKg)
	}
	if assays == nil {
		return ValueView{}, fmt.Errorf("%w: assays are required", ErrInvalidRequest)
	}

	snapshot, err := s.market.GetSnapshot(ctx, currency)
	if err != nil {
		return ValueView{}, fmt.Errorf("resolving market snapshot: %w", err)
	}

	chem := domain.DetectChemistry(assays)
	info, ok := domain.ChemistryByCode(chem)
	if !ok {
		info.Name = "Unknown"
	}

	breakdown := make([]MetalValue, 0, len(standardPayable))
	total := 0.0
	for _, metal := range domain.AllMetals() {
		assay := assays.Get(metal)
		if assay <= 0 {
			continue
		}
		contained, recoverable, value := estimateValue(weightKg, metal, assay, snapshot)
		if value <= 0 {
			continue
		}
		breakdown = append(breakdown, MetalValue{
			Metal:           metal.Label(),
			GradePct:        assay * 100,
			ContainedKg:     contained,
			RecoverableKg:   recoverable,
			RecoveryRatePct: standardRecovery[metal] * 100,
			EstimatedValue:  value,
		})
		total += value
	}

	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].EstimatedValue > breakdown[j].EstimatedValue
	})

	return ValueView{
		WeightKg:       weightKg,
		Currency:       snapshot.Currency,
		Chemistry:      string(chem),
		ChemistryName:  info.Name,
		TotalValue:     total,
		ValuePerTonne:  total / weightKg * 1000,
		PriceDate:      snapshot.CapturedAt,
		MetalBreakdown: breakdown,
		Notes: []string{
			"Values based on current market prices and typical industry recovery rates",
			"Actual offers may vary based on material condition, volume, and processor terms",
			fmt.Sprintf("Chemistry auto-detected as %s", info.Name),
		},
	}, nil
}
