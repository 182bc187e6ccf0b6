package domain

import "testing"

func TestMetalByName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  MetalSymbol
		found bool
	}{
		{"symbol", "Ni", MetalNickel, true},
		{"lowercase symbol", "ni", MetalNickel, true},
		{"full name", "Nickel", MetalNickel, true},
		{"british spelling", "Aluminium", MetalAluminum, true},
		{"whitespace", "  cobalt  ", MetalCobalt, true},
		{"phosphorus", "P", MetalPhosphorus, true},
		{"unknown", "Unobtainium", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := MetalByName(tt.input)
			if found != tt.found {
				t.Fatalf("found = %v, want %v", found, tt.found)
			}
			if got != tt.want {
				t.Errorf("MetalByName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPayableMetalsExcludesDetectionOnlyMetals(t *testing.T) {
	for _, m := range PayableMetals() {
		if m == MetalIron || m == MetalPhosphorus {
			t.Errorf("PayableMetals() includes detection-only metal %q", m)
		}
	}
	if got := len(PayableMetals()); got != 6 {
		t.Errorf("PayableMetals() returned %d metals, want 6", got)
	}
}

func TestAssayMapLabeled(t *testing.T) {
	a := AssayMap{MetalNickel: 0.205, MetalLithium: 0.025}
	labeled := a.Labeled()
	if labeled["Nickel"] != 0.205 {
		t.Errorf("Labeled()[Nickel] = %v", labeled["Nickel"])
	}
	if labeled["Lithium"] != 0.025 {
		t.Errorf("Labeled()[Lithium] = %v", labeled["Lithium"])
	}
	if a.Get(MetalCobalt) != 0 {
		t.Errorf("Get on absent metal = %v, want 0", a.Get(MetalCobalt))
	}
}
