package domain

import "time"

// ProductRef identifies a reference salable product price carried in a
// market snapshot.
type ProductRef string

const (
	ProductNickelSulphate ProductRef = "NiSO4"
	ProductCobaltSulphate ProductRef = "CoSO4"
	ProductLCE            ProductRef = "LCE"  // lithium carbonate equivalent
	ProductLiOH           ProductRef = "LiOH" // lithium hydroxide monohydrate
)

// MarketSnapshot is an immutable capture of metal spot prices, derived
// product prices, and an FX rate for one target currency. All prices are in
// target currency per kilogram and are non-negative. Successive snapshots
// for the same currency carry non-decreasing capture times.
type MarketSnapshot struct {
	Currency       string                  `json:"currency"`
	FXRate         float64                 `json:"fxRate"` // target currency per 1 USD
	FXFallbackUsed bool                    `json:"fxFallbackUsed"`
	PriceSource    string                  `json:"priceSource"`
	CapturedAt     time.Time               `json:"capturedAt"`
	Spot           map[MetalSymbol]float64 `json:"spot"`
	Products       map[ProductRef]float64  `json:"products"`
}

// SpotPrice returns the per-kg spot price for a metal, zero if unknown.
func (s MarketSnapshot) SpotPrice(m MetalSymbol) float64 {
	return s.Spot[m]
}

// ProductPrice returns the per-kg reference price for a product, zero if unknown.
func (s MarketSnapshot) ProductPrice(p ProductRef) float64 {
	return s.Products[p]
}
