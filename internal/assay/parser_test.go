package assay

import (
	"math"
	"testing"

	"github.com/battvalue/valuator/internal/domain"
)

func TestParseCOALines(t *testing.T) {
	got := Parse("Ni: 20.5%\nCo: 6.2%\nLi: 2.5%")

	want := map[domain.MetalSymbol]float64{
		domain.MetalNickel:  0.205,
		domain.MetalCobalt:  0.062,
		domain.MetalLithium: 0.025,
	}
	for m, w := range want {
		if !closeTo(got[m], w) {
			t.Errorf("%s = %v, want %v", m, got[m], w)
		}
	}

	// Unmentioned metals default to zero.
	for _, m := range []domain.MetalSymbol{domain.MetalCopper, domain.MetalAluminum, domain.MetalManganese} {
		if got[m] != 0 {
			t.Errorf("%s = %v, want 0", m, got[m])
		}
	}
}

func TestParseEncodings(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		metal domain.MetalSymbol
		want  float64
	}{
		{"percent suffix", "Ni: 20.5%", domain.MetalNickel, 0.205},
		{"bare percent magnitude", "Nickel 20.5", domain.MetalNickel, 0.205},
		{"basis points", "Ni 2050", domain.MetalNickel, 0.205},
		{"fraction", "Ni 0.205", domain.MetalNickel, 0.205},
		{"full name", "Cobalt content 6.2", domain.MetalCobalt, 0.062},
		{"british aluminium", "Aluminium: 1.2%", domain.MetalAluminum, 0.012},
		{"uppercase", "LITHIUM 2.5%", domain.MetalLithium, 0.025},
		{"thousands separator stripped", "Ni 2,050", domain.MetalNickel, 0.205},
		{"inline multiple", "assay shows Ni 20.5 and Co 6.2 overall", domain.MetalNickel, 0.205},
		{"percent suffix overrides magnitude", "Ni 0.8%", domain.MetalNickel, 0.008},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if !closeTo(got[tt.metal], tt.want) {
				t.Errorf("Parse(%q)[%s] = %v, want %v", tt.text, tt.metal, got[tt.metal], tt.want)
			}
		})
	}
}

// The magnitude heuristic is the contract; pin its boundaries explicitly.
func TestParseMagnitudeBoundaries(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"exactly one is a fraction", "Ni 1", 1.0},
		{"just above one is a percent", "Ni 1.5", 0.015},
		{"exactly one hundred is a percent", "Ni 100", 1.0},
		{"just above one hundred is basis points", "Ni 100.5", 0.01005},
		{"deep basis points", "Ni 9500", 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if !closeTo(got[domain.MetalNickel], tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.text, got[domain.MetalNickel], tt.want)
			}
		})
	}
}

func TestParseGarbageNeverErrors(t *testing.T) {
	inputs := []string{
		"",
		"no metals here at all",
		"Ni: not-a-number",
		"%%%%%",
		"\n\n\n",
	}

	for _, in := range inputs {
		got := Parse(in)
		for m, v := range got {
			if v != 0 {
				t.Errorf("Parse(%q)[%s] = %v, want all zeros", in, m, v)
			}
		}
	}
}

func TestParseLastMentionWins(t *testing.T) {
	got := Parse("Ni: 10%\nrevised figures below\nNi: 22.5%")
	if !closeTo(got[domain.MetalNickel], 0.225) {
		t.Errorf("Ni = %v, want 0.225 (last mention)", got[domain.MetalNickel])
	}
}

func closeTo(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}
