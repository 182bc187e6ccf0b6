// Package valuation converts assayed feedstock batches into financial
// valuations: mass balance, payable costs, product revenues, margins, and
// data-quality warnings.
package valuation

import (
	"context"
	"errors"
	"fmt"

	"github.com/battvalue/valuator/internal/domain"
)

// ErrInvalidRequest indicates a malformed or out-of-range valuation request.
var ErrInvalidRequest = errors.New("invalid valuation request")

// liHydrometPenalty reflects lithium's poorer leach recovery relative to
// nickel and cobalt in the same circuit.
const liHydrometPenalty = 0.90

// MHP is paid on contained metal at a discount to the exchange price.
const (
	mhpPayableNi = 0.85
	mhpPayableCo = 0.80
)

// SnapshotProvider supplies reference market data for product pricing.
type SnapshotProvider interface {
	GetSnapshot(ctx context.Context, currency string) (domain.MarketSnapshot, error)
}

// Service is the valuation engine.
type Service struct {
	market SnapshotProvider
}

// NewService creates a valuation service over the given market data provider.
func NewService(market SnapshotProvider) *Service {
	return &Service{market: market}
}

// Calculate validates the request, resolves a market snapshot for the
// request currency, and computes the full valuation. The computation itself
// is pure; identical inputs always produce identical results.
func (s *Service) Calculate(ctx context.Context, req domain.ValuationRequest) (domain.ValuationResult, error) {
	if err := validateRequest(req); err != nil {
		return domain.ValuationResult{}, err
	}

	snapshot, err := s.market.GetSnapshot(ctx, req.Currency)
	if err != nil {
		return domain.ValuationResult{}, fmt.Errorf("resolving market snapshot: %w", err)
	}

	return Compute(req, snapshot), nil
}

func validateRequest(req domain.ValuationRequest) error {
	switch {
	case req.GrossWeightKg <= 0:
		return fmt.Errorf("%w: gross weight must be positive, got %v", ErrInvalidRequest, req.GrossWeightKg)
	case req.Assays == nil:
		return fmt.Errorf("%w: assays are required", ErrInvalidRequest)
	case req.MetalPrices == nil:
		return fmt.Errorf("%w: metal prices are required", ErrInvalidRequest)
	case req.Payables == nil:
		return fmt.Errorf("%w: payables are required", ErrInvalidRequest)
	case !req.FeedType.Valid():
		return fmt.Errorf("%w: unknown feed type %q", ErrInvalidRequest, req.FeedType)
	case !req.AssayBasis.Valid():
		return fmt.Errorf("%w: unknown assay basis %q", ErrInvalidRequest, req.AssayBasis)
	case !req.NiCoRoute.Valid():
		return fmt.Errorf("%w: unknown nickel/cobalt route %q", ErrInvalidRequest, req.NiCoRoute)
	case !req.LiRoute.Valid():
		return fmt.Errorf("%w: unknown lithium route %q", ErrInvalidRequest, req.LiRoute)
	case req.YieldFraction <= 0 || req.YieldFraction > 1:
		return fmt.Errorf("%w: yield fraction must be in (0,1], got %v", ErrInvalidRequest, req.YieldFraction)
	case req.MechRecovery < 0 || req.MechRecovery > 1:
		return fmt.Errorf("%w: mechanical recovery must be in [0,1], got %v", ErrInvalidRequest, req.MechRecovery)
	case req.HydrometRecovery < 0 || req.HydrometRecovery > 1:
		return fmt.Errorf("%w: hydromet recovery must be in [0,1], got %v", ErrInvalidRequest, req.HydrometRecovery)
	}
	return nil
}

// Compute runs the valuation over an already-validated request and a market
// snapshot. Exposed separately so callers holding a snapshot (sensitivity
// scenarios, tests) can rerun the pure core.
func Compute(req domain.ValuationRequest, snapshot domain.MarketSnapshot) domain.ValuationResult {
	netWeight := req.GrossWeightKg * req.YieldFraction
	netTonnes := netWeight / 1000.0

	// 1. Basis normalization: whole-feed assays are scaled by yield onto
	// the recovered black-mass basis; final-powder assays pass through.
	grades := make(map[domain.MetalSymbol]float64, len(domain.PayableMetals()))
	for _, metal := range domain.PayableMetals() {
		frac := req.Assays.Get(metal)
		if req.AssayBasis == domain.BasisWholeFeed {
			frac *= req.YieldFraction
		}
		grades[metal] = frac * 100.0
	}

	// 2. Pre-treatment gating. Black mass is already shredded and
	// separated: the request's shredding cost, electrolyte surcharge, and
	// mechanical recovery are ignored outright, not defaulted.
	mechRecovery := req.MechRecovery
	costShredding := 0.0
	costElectrolyte := 0.0
	if req.FeedType == domain.FeedBlackMass {
		mechRecovery = 1.0
	} else {
		costShredding = req.ShreddingCostPerTonne * netTonnes
		if req.HasElectrolyte {
			costElectrolyte = req.ElectrolyteSurcharge * netTonnes
		}
	}
	preTreatment := costShredding + costElectrolyte

	// 3-4. Mass balance and payable material cost. Recoveries compound
	// multiplicatively.
	contained := make(map[domain.MetalSymbol]float64, len(grades))
	payableMass := make(map[domain.MetalSymbol]float64, len(grades))
	costs := make(map[domain.MetalSymbol]float64, len(grades))
	materialCost := 0.0
	for _, metal := range domain.PayableMetals() {
		contained[metal] = netWeight * grades[metal] / 100.0
		payableMass[metal] = contained[metal] * mechRecovery * req.HydrometRecovery
		costs[metal] = payableMass[metal] * req.MetalPrices[metal] * req.Payables[metal]
		materialCost += costs[metal]
	}

	// 5. Refining OPEX.
	refining := req.RefiningOpexBase * netTonnes
	totalOpex := preTreatment + refining

	// 6. Product revenue.
	products := buildProducts(req, snapshot, contained, mechRecovery)
	totalRevenue := 0.0
	for _, p := range products {
		totalRevenue += p.Revenue
	}

	// 7. Profit and margin.
	netProfit := totalRevenue - materialCost - totalOpex
	marginPct := 0.0
	if totalRevenue > 0 {
		marginPct = netProfit / totalRevenue * 100.0
	}

	return domain.ValuationResult{
		NetWeightKg:      netWeight,
		Grades:           grades,
		ContainedKg:      contained,
		PayableKg:        payableMass,
		Costs:            costs,
		MaterialCost:     materialCost,
		PreTreatmentCost: preTreatment,
		RefiningCost:     refining,
		TotalOpex:        totalOpex,
		Products:         products,
		TotalRevenue:     totalRevenue,
		NetProfit:        netProfit,
		MarginPct:        marginPct,
		Warnings:         ValidateGrades(grades),
		CostBreakdown: domain.CostBreakdown{
			Shredding:   costShredding,
			Electrolyte: costElectrolyte,
			Refining:    refining,
		},
	}
}

// buildProducts converts payable metal masses into salable product rows for
// the selected routes.
func buildProducts(req domain.ValuationRequest, snapshot domain.MarketSnapshot, contained map[domain.MetalSymbol]float64, mechRecovery float64) []domain.ProductRow {
	recNiCo := req.HydrometRecovery
	recLi := req.HydrometRecovery * liHydrometPenalty

	payNi := contained[domain.MetalNickel] * mechRecovery * recNiCo
	payCo := contained[domain.MetalCobalt] * mechRecovery * recNiCo
	payLi := contained[domain.MetalLithium] * mechRecovery * recLi

	rows := make([]domain.ProductRow, 0, 3)

	switch req.NiCoRoute {
	case domain.RouteMHP:
		rows = append(rows,
			domain.ProductRow{
				Product: "MHP (Ni Content)",
				MassKg:  payNi,
				Revenue: payNi * req.MetalPrices[domain.MetalNickel] * mhpPayableNi,
			},
			domain.ProductRow{
				Product: "MHP (Co Content)",
				MassKg:  payCo,
				Revenue: payCo * req.MetalPrices[domain.MetalCobalt] * mhpPayableCo,
			},
		)
	default: // sulphate salts
		niMass := payNi * domain.FactorNiToSulphate
		coMass := payCo * domain.FactorCoToSulphate
		rows = append(rows,
			domain.ProductRow{
				Product: "Nickel Sulphate",
				MassKg:  niMass,
				Revenue: niMass * snapshot.ProductPrice(domain.ProductNickelSulphate),
			},
			domain.ProductRow{
				Product: "Cobalt Sulphate",
				MassKg:  coMass,
				Revenue: coMass * snapshot.ProductPrice(domain.ProductCobaltSulphate),
			},
		)
	}

	if req.LiRoute == domain.RouteHydroxide {
		liMass := payLi * domain.FactorLiToHydroxide
		rows = append(rows, domain.ProductRow{
			Product: "Lithium Hydroxide",
			MassKg:  liMass,
			Revenue: liMass * snapshot.ProductPrice(domain.ProductLiOH),
		})
	} else {
		liMass := payLi * domain.FactorLiToCarbonate
		rows = append(rows, domain.ProductRow{
			Product: "Lithium Carbonate (LCE)",
			MassKg:  liMass,
			Revenue: liMass * snapshot.ProductPrice(domain.ProductLCE),
		})
	}

	return rows
}
