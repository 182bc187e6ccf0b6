// Package market acquires metal spot prices and FX rates through a tiered,
// cached, fallback-resilient provider chain.
package market

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/battvalue/valuator/internal/domain"
)

// sourceTimeout bounds each live tier's round trips so a hung upstream
// cannot stall the caller; on expiry the chain moves to the next tier.
const sourceTimeout = 5 * time.Second

// sourceFallback names the static tier in snapshot provenance.
const sourceFallback = "fallback"

// ErrDataUnavailable indicates every tier was exhausted. The static tier
// never fails, so seeing this error means the provider was misconfigured,
// not that upstreams were down.
var ErrDataUnavailable = errors.New("market data unavailable")

// SourceData is the uniform result shape every quote source returns:
// metal prices in USD per tonne and FX rates in target currency per 1 USD.
// A source covers only a subset of metals; uncovered metals fall through to
// lower tiers.
type SourceData struct {
	PricesUSDPerTonne map[domain.MetalSymbol]float64
	FXRates           map[string]float64
}

// QuoteSource is one live tier in the fallback chain.
type QuoteSource interface {
	Name() string
	Fetch(ctx context.Context, currency string) (SourceData, error)
}

// Service implements tiered market data acquisition with a per-currency
// snapshot cache. Tier order: cache, then each source in order, then the
// static table for anything still unresolved.
type Service struct {
	sources []QuoteSource
	cache   *snapshotCache
}

// NewService creates a market data service over the given quote sources,
// tried in order.
func NewService(sources ...QuoteSource) *Service {
	return &Service{
		sources: sources,
		cache:   newSnapshotCache(snapshotTTL),
	}
}

// GetSnapshot returns a market snapshot for the target currency, serving
// from cache within the TTL window. The returned snapshot is internally
// consistent: all its prices were resolved within this one call. Upstream
// failures degrade silently through the tier chain; only FXFallbackUsed and
// PriceSource reveal where values came from.
func (s *Service) GetSnapshot(ctx context.Context, currency string) (domain.MarketSnapshot, error) {
	if cached, ok := s.cache.get(currency); ok {
		return cached, nil
	}

	snapshot := s.refresh(ctx, currency)
	if len(snapshot.Spot) == 0 {
		return domain.MarketSnapshot{}, ErrDataUnavailable
	}

	// Capture times never regress for a currency, even across clock skew.
	if prev, ok := s.cache.latest(currency); ok && snapshot.CapturedAt.Before(prev.CapturedAt) {
		snapshot.CapturedAt = prev.CapturedAt
	}

	s.cache.set(currency, snapshot)
	return snapshot, nil
}

// refresh walks the tier chain and assembles a fresh snapshot.
func (s *Service) refresh(ctx context.Context, currency string) domain.MarketSnapshot {
	pricesUSD := staticPrices()
	resolved := make(map[domain.MetalSymbol]bool)
	priceSource := sourceFallback

	var fx float64
	fxResolved := false
	fxFallback := false

	cur := cacheKey(currency)
	if cur == "USD" {
		fx = 1.0
		fxResolved = true
	}

	for _, source := range s.sources {
		data, err := s.fetchTier(ctx, source, currency)
		if err != nil {
			if errors.Is(err, errNoAPIKey) {
				slog.Debug("quote source skipped", "source", source.Name())
			} else {
				slog.Warn("quote source unavailable, falling through",
					"source", source.Name(), "currency", cur, "error", err)
			}
			continue
		}

		// Earlier tiers win; later tiers only fill gaps.
		for metal, price := range data.PricesUSDPerTonne {
			if resolved[metal] || price < 0 {
				continue
			}
			pricesUSD[metal] = price
			resolved[metal] = true
		}
		if len(data.PricesUSDPerTonne) > 0 && priceSource == sourceFallback {
			priceSource = source.Name()
		}
		if !fxResolved {
			if rate, ok := data.FXRates[cur]; ok && rate > 0 {
				fx = rate
				fxResolved = true
			}
		}
	}

	if !fxResolved {
		fx = staticFXRate(cur)
		fxFallback = true
		slog.Warn("using static fallback FX rate", "currency", cur, "rate", fx)
	}

	return buildSnapshot(cur, fx, fxFallback, priceSource, pricesUSD)
}

// fetchTier runs one source under its own bounded timeout.
func (s *Service) fetchTier(ctx context.Context, source QuoteSource, currency string) (SourceData, error) {
	tierCtx, cancel := context.WithTimeout(ctx, sourceTimeout)
	defer cancel()
	return source.Fetch(tierCtx, currency)
}

// buildSnapshot converts USD-per-tonne prices into a target-currency
// per-kg snapshot with derived product prices.
func buildSnapshot(currency string, fx float64, fxFallback bool, priceSource string, pricesUSD map[domain.MetalSymbol]float64) domain.MarketSnapshot {
	spot := make(map[domain.MetalSymbol]float64, len(pricesUSD))
	for metal, usdPerTonne := range pricesUSD {
		spot[metal] = usdPerTonne / 1000.0 * fx
	}

	// Nickel and cobalt sulphate prices derive from spot via stoichiometry:
	// one kg of salt carries 1/factor kg of metal. The lithium salts have
	// no live source in any tier, so they carry the static table's values.
	products := map[domain.ProductRef]float64{
		domain.ProductNickelSulphate: spot[domain.MetalNickel] / domain.FactorNiToSulphate,
		domain.ProductCobaltSulphate: spot[domain.MetalCobalt] / domain.FactorCoToSulphate,
		domain.ProductLCE:            staticSaltPricesUSDPerTonne[domain.ProductLCE] / 1000.0 * fx,
		domain.ProductLiOH:           staticSaltPricesUSDPerTonne[domain.ProductLiOH] / 1000.0 * fx,
	}

	return domain.MarketSnapshot{
		Currency:       currency,
		FXRate:         fx,
		FXFallbackUsed: fxFallback,
		PriceSource:    priceSource,
		CapturedAt:     time.Now(),
		Spot:           spot,
		Products:       products,
	}
}
