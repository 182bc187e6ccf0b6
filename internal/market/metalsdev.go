package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/battvalue/valuator/internal/domain"
)

// errNoAPIKey marks the primary tier as unavailable rather than failed; the
// credential is optional and its absence must only force a skip.
var errNoAPIKey = errors.New("metals.dev API key not configured")

// MetalsDevClient fetches LME metal prices and currency rates from the
// Metals.Dev latest endpoint. It is the primary quote source.
type MetalsDevClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewMetalsDevClient creates a Metals.Dev API client. The API key may be
// empty, in which case every fetch reports errNoAPIKey and the provider
// chain moves on to the next tier.
func NewMetalsDevClient(baseURL, apiKey string) *MetalsDevClient {
	return &MetalsDevClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: sourceTimeout},
	}
}

// Name identifies the tier in snapshot provenance and logs.
func (c *MetalsDevClient) Name() string { return "metals.dev" }

type metalsDevResponse struct {
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message"`
	Metals       map[string]float64 `json:"metals"`
	Currencies   map[string]float64 `json:"currencies"`
}

// lmeSymbols maps Metals.Dev metal keys to metal symbols. Prices arrive in
// USD per troy ounce.
var lmeSymbols = map[string]domain.MetalSymbol{
	"lme_nickel":   domain.MetalNickel,
	"lme_copper":   domain.MetalCopper,
	"lme_aluminum": domain.MetalAluminum,
}

// Fetch retrieves spot prices and FX rates in one round trip. Returned
// prices are USD per tonne; FX rates are target currency per 1 USD.
func (c *MetalsDevClient) Fetch(ctx context.Context, currency string) (SourceData, error) {
	if c.apiKey == "" {
		return SourceData{}, errNoAPIKey
	}

	endpoint := fmt.Sprintf("%s/v1/latest?api_key=%s&currency=USD&unit=toz", c.baseURL, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return SourceData{}, fmt.Errorf("creating metals.dev request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SourceData{}, fmt.Errorf("metals.dev request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SourceData{}, fmt.Errorf("reading metals.dev response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return SourceData{}, fmt.Errorf("metals.dev HTTP %d: %s", resp.StatusCode, string(body))
	}

	var parsed metalsDevResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return SourceData{}, fmt.Errorf("parsing metals.dev response: %w", err)
	}
	if parsed.Status != "success" {
		return SourceData{}, fmt.Errorf("metals.dev error: %s", parsed.ErrorMessage)
	}

	data := SourceData{
		PricesUSDPerTonne: make(map[domain.MetalSymbol]float64),
		FXRates:           make(map[string]float64),
	}

	for key, symbol := range lmeSymbols {
		toz, ok := parsed.Metals[key]
		if !ok || toz < 0 {
			continue
		}
		data.PricesUSDPerTonne[symbol] = toz * domain.TroyOuncesPerTonne
	}

	// The API quotes how much 1 unit of foreign currency is worth in USD;
	// invert to get target-per-USD.
	for cur, rate := range parsed.Currencies {
		if rate > 0 {
			data.FXRates[cacheKey(cur)] = 1.0 / rate
		}
	}

	if len(data.PricesUSDPerTonne) == 0 && len(data.FXRates) == 0 {
		return SourceData{}, fmt.Errorf("metals.dev returned no usable data")
	}

	return data, nil
}
