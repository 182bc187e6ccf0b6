package domain

import (
	"strings"

	"github.com/samber/lo"
)

// MetalSymbol identifies a metal tracked by the valuation engine.
type MetalSymbol string

const (
	MetalNickel     MetalSymbol = "Ni"
	MetalCobalt     MetalSymbol = "Co"
	MetalLithium    MetalSymbol = "Li"
	MetalCopper     MetalSymbol = "Cu"
	MetalAluminum   MetalSymbol = "Al"
	MetalManganese  MetalSymbol = "Mn"
	MetalIron       MetalSymbol = "Fe"
	MetalPhosphorus MetalSymbol = "P"
)

// metalInfo ties a symbol to its display label and accepted text aliases.
type metalInfo struct {
	Symbol  MetalSymbol
	Label   string
	Aliases []string
}

var metalRegistry = []metalInfo{
	{MetalNickel, "Nickel", []string{"ni", "nickel"}},
	{MetalCobalt, "Cobalt", []string{"co", "cobalt"}},
	{MetalLithium, "Lithium", []string{"li", "lithium"}},
	{MetalCopper, "Copper", []string{"cu", "copper"}},
	{MetalAluminum, "Aluminum", []string{"al", "aluminum", "aluminium"}},
	{MetalManganese, "Manganese", []string{"mn", "manganese"}},
	{MetalIron, "Iron", []string{"fe", "iron"}},
	{MetalPhosphorus, "Phosphorus", []string{"p", "phosphorus"}},
}

// AllMetals returns every known metal symbol in registry order.
func AllMetals() []MetalSymbol {
	return lo.Map(metalRegistry, func(m metalInfo, _ int) MetalSymbol { return m.Symbol })
}

// PayableMetals returns the metals that participate in mass-balance and cost
// calculations. Iron and phosphorus only matter for chemistry detection.
func PayableMetals() []MetalSymbol {
	return []MetalSymbol{MetalNickel, MetalCobalt, MetalLithium, MetalCopper, MetalAluminum, MetalManganese}
}

// Label returns the human-readable name for the metal ("Ni" -> "Nickel").
func (m MetalSymbol) Label() string {
	info, ok := lo.Find(metalRegistry, func(i metalInfo) bool { return i.Symbol == m })
	if !ok {
		return string(m)
	}
	return info.Label
}

// Aliases returns the lowercase text forms the assay parser accepts for the metal.
func (m MetalSymbol) Aliases() []string {
	info, ok := lo.Find(metalRegistry, func(i metalInfo) bool { return i.Symbol == m })
	if !ok {
		return nil
	}
	return info.Aliases
}

// MetalByName resolves a symbol, full name, or alias (case-insensitive) to a
// MetalSymbol. Returns false for unknown names.
func MetalByName(name string) (MetalSymbol, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	info, ok := lo.Find(metalRegistry, func(i metalInfo) bool {
		return strings.ToLower(string(i.Symbol)) == needle || lo.Contains(i.Aliases, needle)
	})
	if !ok {
		return "", false
	}
	return info.Symbol, true
}

// AssayMap holds fractional metal content (0.0-1.0, not percent) per metal.
// Metals absent from the map are treated as zero content.
type AssayMap map[MetalSymbol]float64

// Get returns the fractional content for a metal, zero if unset.
func (a AssayMap) Get(m MetalSymbol) float64 {
	return a[m]
}

// Labeled converts the map to human-label keys for presentation.
func (a AssayMap) Labeled() map[string]float64 {
	out := make(map[string]float64, len(a))
	for m, v := range a {
		out[m.Label()] = v
	}
	return out
}
