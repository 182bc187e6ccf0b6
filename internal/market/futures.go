package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/battvalue/valuator/internal/domain"
)

// poundsPerTonne converts USD/lb futures quotes to USD/tonne.
const poundsPerTonne = 2204.62

// FuturesClient is the secondary quote source: exchange-traded futures used
// as proxies for a reduced metal subset (copper and aluminum), plus FX
// pairs. It speaks the Yahoo Finance chart endpoint dialect.
type FuturesClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewFuturesClient creates a futures proxy client.
func NewFuturesClient(baseURL string) *FuturesClient {
	return &FuturesClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: sourceTimeout},
	}
}

// Name identifies the tier in snapshot provenance and logs.
func (c *FuturesClient) Name() string { return "futures" }

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch retrieves the covered futures quotes and the FX pair for the target
// currency. A metal or FX leg that fails individually is skipped; the fetch
// fails only when nothing at all was resolved.
func (c *FuturesClient) Fetch(ctx context.Context, currency string) (SourceData, error) {
	data := SourceData{
		PricesUSDPerTonne: make(map[domain.MetalSymbol]float64),
		FXRates:           make(map[string]float64),
	}

	// HG=F quotes in USD per pound, ALI=F in USD per tonne.
	if price, err := c.quote(ctx, "HG=F"); err == nil && price > 0 {
		data.PricesUSDPerTonne[domain.MetalCopper] = price * poundsPerTonne
	}
	if price, err := c.quote(ctx, "ALI=F"); err == nil && price > 0 {
		data.PricesUSDPerTonne[domain.MetalAluminum] = price
	}

	cur := cacheKey(currency)
	if cur == "USD" {
		data.FXRates["USD"] = 1.0
	} else if rate, err := c.quote(ctx, cur+"=X"); err == nil && rate > 0 {
		data.FXRates[cur] = rate
	}

	if len(data.PricesUSDPerTonne) == 0 && len(data.FXRates) == 0 {
		return SourceData{}, fmt.Errorf("futures feed returned no usable data")
	}

	return data, nil
}

func (c *FuturesClient) quote(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("creating futures request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("futures request for %s failed: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("reading futures response for %s: %w", symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("futures HTTP %d for %s", resp.StatusCode, symbol)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("parsing futures response for %s: %w", symbol, err)
	}
	if parsed.Chart.Error != nil {
		return 0, fmt.Errorf("futures feed error for %s: %s", symbol, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return 0, fmt.Errorf("futures feed returned no result for %s", symbol)
	}

	return parsed.Chart.Result[0].Meta.RegularMarketPrice, nil
}
