package domain

import (
	"math"
	"testing"
)

// The conversion factors are the single most safety-critical constants in the
// system. Golden values first, then a cross-check against molecular weights.
func TestConversionFactorGoldenValues(t *testing.T) {
	tests := []struct {
		name   string
		factor float64
		want   float64
	}{
		{"Ni to NiSO4·6H2O", FactorNiToSulphate, 4.48},
		{"Co to CoSO4·7H2O", FactorCoToSulphate, 4.77},
		{"Li to Li2CO3", FactorLiToCarbonate, 5.32},
		{"Li to LiOH·H2O", FactorLiToHydroxide, 6.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.factor != tt.want {
				t.Errorf("factor = %v, want %v", tt.factor, tt.want)
			}
		})
	}
}

func TestConversionFactorsMatchMolecularWeights(t *testing.T) {
	tests := []struct {
		name   string
		factor float64
		ratio  float64
	}{
		{"Ni sulphate", FactorNiToSulphate, WeightNiSO4Hex / WeightNi},
		{"Co sulphate", FactorCoToSulphate, WeightCoSO4Hept / WeightCo},
		{"Li carbonate", FactorLiToCarbonate, WeightLi2CO3 / (2 * WeightLi)},
		{"Li hydroxide", FactorLiToHydroxide, WeightLiOHMono / WeightLi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := math.Abs(tt.factor - tt.ratio); diff > 0.01 {
				t.Errorf("factor %v differs from stoichiometric ratio %v by %v", tt.factor, tt.ratio, diff)
			}
		})
	}
}

func TestDetectChemistry(t *testing.T) {
	tests := []struct {
		name   string
		assays AssayMap
		want   Chemistry
	}{
		{
			"NMC811 profile",
			AssayMap{MetalNickel: 0.48, MetalCobalt: 0.05, MetalManganese: 0.06, MetalLithium: 0.03},
			ChemistryNMC811,
		},
		{
			"NMC622 profile",
			AssayMap{MetalNickel: 0.36, MetalCobalt: 0.12, MetalManganese: 0.12, MetalLithium: 0.025},
			ChemistryNMC622,
		},
		{
			"NMC111 profile",
			AssayMap{MetalNickel: 0.20, MetalCobalt: 0.20, MetalManganese: 0.20, MetalLithium: 0.02},
			ChemistryNMC111,
		},
		{
			"LFP profile",
			AssayMap{MetalIron: 0.30, MetalPhosphorus: 0.17, MetalLithium: 0.04},
			ChemistryLFP,
		},
		{
			"NCA profile",
			AssayMap{MetalNickel: 0.48, MetalCobalt: 0.09, MetalLithium: 0.028},
			ChemistryNCA,
		},
		{"empty assays", AssayMap{}, ChemistryUnknown},
		{"copper only", AssayMap{MetalCopper: 0.35}, ChemistryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectChemistry(tt.assays); got != tt.want {
				t.Errorf("DetectChemistry() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChemistryByCode(t *testing.T) {
	info, ok := ChemistryByCode(ChemistryLFP)
	if !ok {
		t.Fatal("ChemistryByCode(LFP) not found")
	}
	if info.Name != "Lithium Iron Phosphate" {
		t.Errorf("Name = %q", info.Name)
	}

	if _, ok := ChemistryByCode(Chemistry("LTO")); ok {
		t.Error("ChemistryByCode found unregistered chemistry")
	}
}

func TestChemistriesReturnsCopy(t *testing.T) {
	list := Chemistries()
	if len(list) != 5 {
		t.Fatalf("Chemistries() returned %d entries, want 5", len(list))
	}
	list[0].Name = "mutated"
	if Chemistries()[0].Name == "mutated" {
		t.Error("Chemistries() leaked a mutable reference to the registry")
	}
}
