package domain

import "github.com/samber/lo"

// Stoichiometric conversion factors from elemental metal mass to salable salt
// mass, including water of hydration. These are fixed chemistry constants; a
// wrong value here silently mis-prices every valuation, so they are defined
// once and covered by golden-value tests against the molecular weights below.
const (
	FactorNiToSulphate  = 4.48 // Ni -> NiSO4·6H2O
	FactorCoToSulphate  = 4.77 // Co -> CoSO4·7H2O
	FactorLiToCarbonate = 5.32 // 2 Li -> Li2CO3
	FactorLiToHydroxide = 6.05 // Li -> LiOH·H2O
)

// Atomic and molecular weights (g/mol) backing the factors above.
const (
	WeightNi        = 58.693
	WeightCo        = 58.933
	WeightLi        = 6.941
	WeightNiSO4Hex  = 262.85 // NiSO4·6H2O
	WeightCoSO4Hept = 281.10 // CoSO4·7H2O
	WeightLi2CO3    = 73.89  // Li2CO3 (contains two Li)
	WeightLiOHMono  = 41.96  // LiOH·H2O
)

// TroyOuncesPerTonne converts troy-ounce quotes to per-tonne quotes.
const TroyOuncesPerTonne = 32150.7

// Chemistry classifies a lithium-ion cathode chemistry family.
type Chemistry string

const (
	ChemistryNMC111  Chemistry = "NMC111"
	ChemistryNMC622  Chemistry = "NMC622"
	ChemistryNMC811  Chemistry = "NMC811"
	ChemistryLFP     Chemistry = "LFP"
	ChemistryNCA     Chemistry = "NCA"
	ChemistryUnknown Chemistry = "UNKNOWN"
)

// ChemistryInfo describes a chemistry's name and typical composition profile.
type ChemistryInfo struct {
	Code          Chemistry              `json:"code"`
	Name          string                 `json:"name"`
	PrimaryMetals []MetalSymbol          `json:"primaryMetals"`
	TypicalGrades map[MetalSymbol]float64 `json:"typicalGrades"` // percent, black mass basis
}

// ChemistryRegistry lists the supported cathode chemistries with typical
// black-mass grade profiles.
var chemistryRegistry = []ChemistryInfo{
	{
		Code: ChemistryNMC111, Name: "Nickel Manganese Cobalt (1:1:1)",
		PrimaryMetals: []MetalSymbol{MetalNickel, MetalManganese, MetalCobalt, MetalLithium},
		TypicalGrades: map[MetalSymbol]float64{MetalNickel: 20, MetalCobalt: 20, MetalManganese: 20, MetalLithium: 2},
	},
	{
		Code: ChemistryNMC622, Name: "Nickel Manganese Cobalt (6:2:2)",
		PrimaryMetals: []MetalSymbol{MetalNickel, MetalManganese, MetalCobalt, MetalLithium},
		TypicalGrades: map[MetalSymbol]float64{MetalNickel: 36, MetalCobalt: 12, MetalManganese: 12, MetalLithium: 2.5},
	},
	{
		Code: ChemistryNMC811, Name: "Nickel Manganese Cobalt (8:1:1)",
		PrimaryMetals: []MetalSymbol{MetalNickel, MetalManganese, MetalCobalt, MetalLithium},
		TypicalGrades: map[MetalSymbol]float64{MetalNickel: 48, MetalCobalt: 5, MetalManganese: 6, MetalLithium: 3},
	},
	{
		Code: ChemistryLFP, Name: "Lithium Iron Phosphate",
		PrimaryMetals: []MetalSymbol{MetalIron, MetalPhosphorus, MetalLithium},
		TypicalGrades: map[MetalSymbol]float64{MetalIron: 30, MetalPhosphorus: 17, MetalLithium: 4},
	},
	{
		Code: ChemistryNCA, Name: "Nickel Cobalt Aluminum",
		PrimaryMetals: []MetalSymbol{MetalNickel, MetalCobalt, MetalAluminum, MetalLithium},
		TypicalGrades: map[MetalSymbol]float64{MetalNickel: 48, MetalCobalt: 9, MetalLithium: 2.8},
	},
}

// Chemistries returns a copy of the chemistry registry.
func Chemistries() []ChemistryInfo {
	out := make([]ChemistryInfo, len(chemistryRegistry))
	copy(out, chemistryRegistry)
	return out
}

// ChemistryByCode looks up a chemistry by its code.
func ChemistryByCode(code Chemistry) (ChemistryInfo, bool) {
	return lo.Find(chemistryRegistry, func(c ChemistryInfo) bool { return c.Code == code })
}

// DetectChemistry classifies an assay profile into a chemistry family.
//
// LFP is recognized by an iron/phosphorus signature with negligible nickel.
// NCA is nickel-rich with cobalt but essentially no manganese. NMC subtypes
// split on the nickel-to-cobalt ratio.
func DetectChemistry(assays AssayMap) Chemistry {
	ni := assays.Get(MetalNickel)
	co := assays.Get(MetalCobalt)
	mn := assays.Get(MetalManganese)
	fe := assays.Get(MetalIron)
	p := assays.Get(MetalPhosphorus)

	if (fe > 0.005 || p > 0.005) && ni < 0.02 {
		return ChemistryLFP
	}
	if ni < 0.01 && co < 0.01 && mn < 0.01 {
		return ChemistryUnknown
	}
	if mn < 0.005 && ni >= 0.02 && co > 0 {
		return ChemistryNCA
	}
	if co <= 0 {
		return ChemistryUnknown
	}
	switch ratio := ni / co; {
	case ratio >= 6:
		return ChemistryNMC811
	case ratio >= 2.5:
		return ChemistryNMC622
	default:
		return ChemistryNMC111
	}
}
