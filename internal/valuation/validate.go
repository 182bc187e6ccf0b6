package valuation

import (
	"fmt"

	"github.com/battvalue/valuator/internal/domain"
)

// gradeBand is the typical black-mass concentration range for one metal, in
// percent on the processed basis.
type gradeBand struct {
	metal domain.MetalSymbol
	low   float64
	high  float64
}

// Bands reflect commercially traded black mass. Values outside them are
// plausible but usually indicate a unit mix-up or a mislabeled lot.
var gradeBands = []gradeBand{
	{domain.MetalNickel, 10, 60},
	{domain.MetalCobalt, 3, 25},
	{domain.MetalLithium, 1, 10},
}

// ValidateGrades checks metal grades (percent, processed basis) against
// typical black-mass ranges and returns human-readable warnings. Zero grades
// mean the metal is absent from the lot and are never flagged. Warnings are
// advisory only; they never block a valuation.
func ValidateGrades(grades map[domain.MetalSymbol]float64) []string {
	warnings := []string{}

	for _, band := range gradeBands {
		grade := grades[band.metal]
		if grade <= 0 {
			continue
		}
		switch {
		case grade > band.high:
			warnings = append(warnings, fmt.Sprintf(
				"%s grade (%.1f%%) exceeds typical black mass range (%g-%g%%)",
				band.metal.Label(), grade, band.low, band.high))
		case grade < band.low:
			warnings = append(warnings, fmt.Sprintf(
				"%s grade (%.1f%%) is below typical black mass range (%g-%g%%)",
				band.metal.Label(), grade, band.low, band.high))
		}
	}

	total := 0.0
	for _, grade := range grades {
		total += grade
	}
	if total > 100 {
		warnings = append(warnings, fmt.Sprintf(
			"Total metal content (%.1f%%) exceeds 100%%", total))
	}

	return warnings
}
