package market

import "github.com/battvalue/valuator/internal/domain"

// Static last-resort market data. Used for any metal or FX value not
// resolved by the live tiers, or entirely when both live tiers fail. This
// tier never fails. Values are approximate published figures as of early
// 2025 and are deliberately conservative.

// staticPricesUSDPerTonne are reference metal prices in USD per tonne.
var staticPricesUSDPerTonne = map[domain.MetalSymbol]float64{
	domain.MetalNickel:    16500.00, // LME nickel 3-month
	domain.MetalCobalt:    33000.00, // standard grade cobalt
	domain.MetalLithium:   13500.00, // China lithium carbonate spot, Li basis
	domain.MetalCopper:    9200.00,  // LME copper 3-month
	domain.MetalAluminum:  2500.00,  // LME aluminum 3-month
	domain.MetalManganese: 1800.00,  // manganese metal 99.7%
}

// staticSaltPricesUSDPerTonne are reference salable-product prices in USD
// per tonne. The lithium salts have no live source in any tier, so these
// always seed the snapshot's LCE/LiOH prices.
var staticSaltPricesUSDPerTonne = map[domain.ProductRef]float64{
	domain.ProductNickelSulphate: 3800.00,  // battery-grade NiSO4
	domain.ProductCobaltSulphate: 6500.00,  // battery-grade CoSO4
	domain.ProductLCE:            14000.00, // lithium carbonate equivalent
	domain.ProductLiOH:           15500.00, // lithium hydroxide monohydrate
}

// staticFXRates are last-known-good rates: target currency per 1 USD.
var staticFXRates = map[string]float64{
	"USD": 1.0,
	"CAD": 1.40,
	"EUR": 0.92,
	"CNY": 7.25,
}

// staticPrices returns a fresh copy of the fallback metal price table.
func staticPrices() map[domain.MetalSymbol]float64 {
	out := make(map[domain.MetalSymbol]float64, len(staticPricesUSDPerTonne))
	for m, p := range staticPricesUSDPerTonne {
		out[m] = p
	}
	return out
}

// staticFXRate returns the fallback FX rate for a currency. Unknown
// currencies fall back to parity so the tier can never fail.
func staticFXRate(currency string) float64 {
	if rate, ok := staticFXRates[cacheKey(currency)]; ok {
		return rate
	}
	return 1.0
}
