package domain

// FeedType classifies the physical form of a feedstock batch. The
// classification deterministically fixes whether pre-treatment applies:
// FeedBlackMass is already shredded and separated, so mechanical recovery is
// forced to 1.0 and shredding cost to zero regardless of request values.
type FeedType string

const (
	FeedBlackMass    FeedType = "black_mass"
	FeedWholeCells   FeedType = "whole_cells"
	FeedCathodeFoils FeedType = "cathode_foils"
	FeedMixedScrap   FeedType = "mixed_scrap"
)

// Valid reports whether the feed type is a known variant.
func (f FeedType) Valid() bool {
	switch f {
	case FeedBlackMass, FeedWholeCells, FeedCathodeFoils, FeedMixedScrap:
		return true
	}
	return false
}

// AssayBasis states which material the lab assays were measured on.
type AssayBasis string

const (
	BasisWholeFeed   AssayBasis = "whole_feed"
	BasisFinalPowder AssayBasis = "final_powder"
)

// Valid reports whether the assay basis is a known variant.
func (b AssayBasis) Valid() bool {
	return b == BasisWholeFeed || b == BasisFinalPowder
}

// NiCoRoute selects the downstream product for nickel and cobalt.
type NiCoRoute string

const (
	RouteSulphate NiCoRoute = "sulphate" // battery-grade sulphate salts
	RouteMHP      NiCoRoute = "mhp"      // mixed hydroxide precipitate, paid on metal content
)

// Valid reports whether the route is a known variant.
func (r NiCoRoute) Valid() bool {
	return r == RouteSulphate || r == RouteMHP
}

// LiRoute selects the downstream lithium product.
type LiRoute string

const (
	RouteCarbonate LiRoute = "carbonate" // Li2CO3, LCE pricing
	RouteHydroxide LiRoute = "hydroxide" // LiOH·H2O
)

// Valid reports whether the route is a known variant.
func (r LiRoute) Valid() bool {
	return r == RouteCarbonate || r == RouteHydroxide
}

// ValuationRequest is the full input contract for a valuation calculation.
// Prices are in the target currency per kilogram; fractions are 0-1 unless
// noted. Payable fractions may exceed 1 for negotiated premiums.
type ValuationRequest struct {
	Currency              string                  `json:"currency"`
	GrossWeightKg         float64                 `json:"grossWeightKg"`
	FeedType              FeedType                `json:"feedType"`
	YieldFraction         float64                 `json:"yieldFraction"`
	MechRecovery          float64                 `json:"mechRecovery"`
	HydrometRecovery      float64                 `json:"hydrometRecovery"`
	Assays                AssayMap                `json:"assays"`
	AssayBasis            AssayBasis              `json:"assayBasis"`
	MetalPrices           map[MetalSymbol]float64 `json:"metalPrices"`
	Payables              map[MetalSymbol]float64 `json:"payables"`
	ShreddingCostPerTonne float64                 `json:"shreddingCostPerTonne"`
	ElectrolyteSurcharge  float64                 `json:"electrolyteSurcharge"`
	HasElectrolyte        bool                    `json:"hasElectrolyte"`
	RefiningOpexBase      float64                 `json:"refiningOpexBase"`
	NiCoRoute             NiCoRoute               `json:"niCoRoute"`
	LiRoute               LiRoute                 `json:"liRoute"`
}

// ProductRow is one salable product line in a valuation result.
type ProductRow struct {
	Product string  `json:"product"`
	MassKg  float64 `json:"massKg"`
	Revenue float64 `json:"revenue"`
}

// CostBreakdown itemizes the operating cost components.
type CostBreakdown struct {
	Shredding   float64 `json:"shredding"`
	Electrolyte float64 `json:"electrolyte"`
	Refining    float64 `json:"refining"`
}

// ValuationResult is the immutable output of one valuation calculation.
// Grades are percentages on the processed (black mass) basis; masses are
// kilograms; monetary values are in the request currency. No rounding is
// applied; formatting is a presentation concern.
type ValuationResult struct {
	NetWeightKg      float64                 `json:"netWeightKg"`
	Grades           map[MetalSymbol]float64 `json:"grades"`
	ContainedKg      map[MetalSymbol]float64 `json:"containedKg"`
	PayableKg        map[MetalSymbol]float64 `json:"payableKg"`
	Costs            map[MetalSymbol]float64 `json:"costs"`
	MaterialCost     float64                 `json:"materialCost"`
	PreTreatmentCost float64                 `json:"preTreatmentCost"`
	RefiningCost     float64                 `json:"refiningCost"`
	TotalOpex        float64                 `json:"totalOpex"`
	Products         []ProductRow            `json:"products"`
	TotalRevenue     float64                 `json:"totalRevenue"`
	NetProfit        float64                 `json:"netProfit"`
	MarginPct        float64                 `json:"marginPct"`
	Warnings         []string                `json:"warnings"`
	CostBreakdown    CostBreakdown           `json:"costBreakdown"`
}
