// Package assay extracts metal-content maps from free-form lab report text
// (certificates of analysis arriving as emails, PDF dumps, or pasted tables).
package assay

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/battvalue/valuator/internal/domain"
)

// metalPattern matches one metal mention followed by a numeric value and an
// optional percent sign, e.g. "Ni: 20.5%", "nickel 2050", "Li = 0.025".
type metalPattern struct {
	metal domain.MetalSymbol
	re    *regexp.Regexp
}

var patterns = buildPatterns()

func buildPatterns() []metalPattern {
	out := make([]metalPattern, 0, len(domain.AllMetals()))
	for _, m := range domain.AllMetals() {
		alternatives := strings.Join(m.Aliases(), "|")
		// Label, optional separator junk, number, optional % sign.
		re := regexp.MustCompile(fmt.Sprintf(`(?i)\b(?:%s)\b[^\d%%\n-]*(\d+(?:\.\d+)?)\s*(%%)?`, alternatives))
		out = append(out, metalPattern{metal: m, re: re})
	}
	return out
}

// Parse extracts an AssayMap from unstructured COA text. It tolerates
// line-based and inline formats and partial reports; metals not mentioned
// come back as 0.0. Unparseable input yields an all-zero map, never an
// error: messy lab reports are the expected common case, and callers decide
// whether an all-zero result is acceptable.
//
// Encoding is disambiguated per match by magnitude: an explicit "%" suffix
// always means percent; otherwise values above 100 are basis points
// (2050 -> 20.5%), values above 1 are percentages (20.5 -> 20.5%), and
// values at or below 1 are already fractions (0.205 -> 20.5%). When a metal
// appears more than once, the last mention wins.
func Parse(text string) domain.AssayMap {
	assays := make(domain.AssayMap, len(domain.AllMetals()))
	for _, m := range domain.AllMetals() {
		assays[m] = 0.0
	}

	cleaned := strings.ReplaceAll(text, ",", "")
	for _, p := range patterns {
		matches := p.re.FindAllStringSubmatch(cleaned, -1)
		if len(matches) == 0 {
			continue
		}
		last := matches[len(matches)-1]
		val, err := strconv.ParseFloat(last[1], 64)
		if err != nil {
			continue
		}
		assays[p.metal] = toFraction(val, last[2] == "%")
	}

	return assays
}

// toFraction applies the magnitude heuristic for one matched value.
func toFraction(val float64, explicitPercent bool) float64 {
	switch {
	case explicitPercent:
		return val / 100.0
	case val > 100:
		return val / 10000.0
	case val > 1:
		return val / 100.0
	default:
		return val
	}
}
