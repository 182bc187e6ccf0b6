// Package api exposes the valuation engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/battvalue/valuator/internal/assay"
	"github.com/battvalue/valuator/internal/domain"
	"github.com/battvalue/valuator/internal/export"
	"github.com/battvalue/valuator/internal/history"
	"github.com/battvalue/valuator/internal/market"
	"github.com/battvalue/valuator/internal/transport"
	"github.com/battvalue/valuator/internal/valuation"
)

// MarketProvider supplies market snapshots to the handlers.
type MarketProvider interface {
	GetSnapshot(ctx context.Context, currency string) (domain.MarketSnapshot, error)
}

// Handler provides HTTP endpoints for the valuation API.
type Handler struct {
	market          MarketProvider
	valuations      *valuation.Service
	reports         *export.Service
	quotes          history.Repository // nil when no database is configured
	liveQuotesReady bool
}

// NewHandler creates a new API handler. quotes may be nil.
func NewHandler(market MarketProvider, valuations *valuation.Service, reports *export.Service, quotes history.Repository, liveQuotesReady bool) *Handler {
	return &Handler{
		market:          market,
		valuations:      valuations,
		reports:         reports,
		quotes:          quotes,
		liveQuotesReady: liveQuotesReady,
	}
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"service":          "battery-valuator",
		"liveQuotesReady":  h.liveQuotesReady,
		"historyRecording": h.quotes != nil,
	})
}

// GetMarketData handles GET /api/v1/market-data.
func (h *Handler) GetMarketData(w http.ResponseWriter, r *http.Request) {
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = "USD"
	}

	snapshot, err := h.market.GetSnapshot(r.Context(), currency)
	if err != nil {
		if errors.Is(err, market.ErrDataUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "market data unavailable")
			return
		}
		slog.Error("market data request failed", "currency", currency, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// ParseCOA handles POST /api/v1/parse-coa.
func (h *Handler) ParseCOA(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "missing text parameter")
		return
	}

	assays := assay.Parse(req.Text)
	writeJSON(w, http.StatusOK, map[string]any{
		"assays":    assays.Labeled(),
		"chemistry": domain.DetectChemistry(assays),
	})
}

// calculateRequest is the wire form of a valuation request. Assay, price,
// and payable maps are keyed by metal label or symbol in any casing; missing
// enum fields get the common defaults (black mass, final powder, sulphate
// salts, carbonate).
type calculateRequest struct {
	Currency              string             `json:"currency"`
	GrossWeightKg         float64            `json:"grossWeightKg"`
	FeedType              string             `json:"feedType"`
	YieldFraction         float64            `json:"yieldFraction"`
	MechRecovery          float64            `json:"mechRecovery"`
	HydrometRecovery      float64            `json:"hydrometRecovery"`
	Assays                map[string]float64 `json:"assays"`
	AssayBasis            string             `json:"assayBasis"`
	MetalPrices           map[string]float64 `json:"metalPrices"`
	Payables              map[string]float64 `json:"payables"`
	ShreddingCostPerTonne float64            `json:"shreddingCostPerTonne"`
	ElectrolyteSurcharge  float64            `json:"electrolyteSurcharge"`
	HasElectrolyte        bool               `json:"hasElectrolyte"`
	RefiningOpexBase      float64            `json:"refiningOpexBase"`
	NiCoRoute             string             `json:"niCoRoute"`
	LiRoute               string             `json:"liRoute"`
}

func metalKeyed(in map[string]float64) (map[domain.MetalSymbol]float64, error) {
	if in == nil {
		return nil, nil
	}
	out := make(map[domain.MetalSymbol]float64, len(in))
	for name, v := range in {
		metal, ok := domain.MetalByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown metal %q", name)
		}
		out[metal] = v
	}
	return out, nil
}

func (req calculateRequest) toDomain(snapshot domain.MarketSnapshot) (domain.ValuationRequest, error) {
	assays, err := metalKeyed(req.Assays)
	if err != nil {
		return domain.ValuationRequest{}, err
	}
	prices, err := metalKeyed(req.MetalPrices)
	if err != nil {
		return domain.ValuationRequest{}, err
	}
	payables, err := metalKeyed(req.Payables)
	if err != nil {
		return domain.ValuationRequest{}, err
	}

	out := domain.ValuationRequest{
		Currency:              req.Currency,
		GrossWeightKg:         req.GrossWeightKg,
		FeedType:              domain.FeedType(req.FeedType),
		YieldFraction:         req.YieldFraction,
		MechRecovery:          req.MechRecovery,
		HydrometRecovery:      req.HydrometRecovery,
		Assays:                assays,
		AssayBasis:            domain.AssayBasis(req.AssayBasis),
		MetalPrices:           prices,
		Payables:              payables,
		ShreddingCostPerTonne: req.ShreddingCostPerTonne,
		ElectrolyteSurcharge:  req.ElectrolyteSurcharge,
		HasElectrolyte:        req.HasElectrolyte,
		RefiningOpexBase:      req.RefiningOpexBase,
		NiCoRoute:             domain.NiCoRoute(req.NiCoRoute),
		LiRoute:               domain.LiRoute(req.LiRoute),
	}

	if out.Currency == "" {
		out.Currency = "USD"
	}
	if out.FeedType == "" {
		out.FeedType = domain.FeedBlackMass
	}
	if out.AssayBasis == "" {
		out.AssayBasis = domain.BasisFinalPowder
	}
	if out.NiCoRoute == "" {
		out.NiCoRoute = domain.RouteSulphate
	}
	if out.LiRoute == "" {
		out.LiRoute = domain.RouteCarbonate
	}
	if out.YieldFraction == 0 {
		out.YieldFraction = 1.0
	}
	if out.MechRecovery == 0 {
		out.MechRecovery = 1.0
	}
	if out.HydrometRecovery == 0 {
		out.HydrometRecovery = 0.95
	}
	if out.MetalPrices == nil {
		out.MetalPrices = snapshot.Spot
	}
	if out.Payables == nil {
		out.Payables = valuation.StandardPayables()
	}
	return out, nil
}

// Calculate handles POST /api/v1/calculate.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	snapshot, err := h.market.GetSnapshot(r.Context(), currency)
	if err != nil {
		slog.Error("market snapshot unavailable for calculation", "error", err)
		writeError(w, http.StatusServiceUnavailable, "market data unavailable")
		return
	}

	domainReq, err := req.toDomain(snapshot)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.valuations.Calculate(r.Context(), domainReq)
	if err != nil {
		if errors.Is(err, valuation.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("valuation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ValidateAssays handles POST /api/v1/validate-assays. Grades are percent on
// the processed basis.
func (h *Handler) ValidateAssays(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Grades map[string]float64 `json:"grades"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	grades, err := metalKeyed(req.Grades)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	warnings := valuation.ValidateGrades(grades)
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":    len(warnings) == 0,
		"warnings": warnings,
	})
}

// lotPayload is the wire form of one comparison lot.
type lotPayload struct {
	Name     string             `json:"name"`
	WeightKg float64            `json:"weightKg"`
	Assays   map[string]float64 `json:"assays"`
}

// ValueView handles POST /api/v1/value-view.
func (h *Handler) ValueView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Currency string             `json:"currency"`
		WeightKg float64            `json:"weightKg"`
		Assays   map[string]float64 `json:"assays"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	assays, err := metalKeyed(req.Assays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.valuations.GetValueView(r.Context(), req.Currency, req.WeightKg, assays)
	if err != nil {
		if errors.Is(err, valuation.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("value view failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Sensitivity handles POST /api/v1/sensitivity.
func (h *Handler) Sensitivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Currency  string             `json:"currency"`
		WeightKg  float64            `json:"weightKg"`
		Assays    map[string]float64 `json:"assays"`
		Scenarios []float64          `json:"scenarios"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	assays, err := metalKeyed(req.Assays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.valuations.AnalyzeSensitivity(r.Context(), req.Currency, req.WeightKg, assays, req.Scenarios)
	if err != nil {
		if errors.Is(err, valuation.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("sensitivity analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// CompareLots handles POST /api/v1/compare-lots.
func (h *Handler) CompareLots(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Currency string       `json:"currency"`
		Lots     []lotPayload `json:"lots"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	lots := make([]valuation.LotInput, 0, len(req.Lots))
	for _, lot := range req.Lots {
		assays, err := metalKeyed(lot.Assays)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		lots = append(lots, valuation.LotInput{Name: lot.Name, WeightKg: lot.WeightKg, Assays: assays})
	}

	cmp, err := h.valuations.CompareLots(r.Context(), req.Currency, lots)
	if err != nil {
		if errors.Is(err, valuation.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("lot comparison failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// DetectChemistry handles POST /api/v1/detect-chemistry.
func (h *Handler) DetectChemistry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Assays map[string]float64 `json:"assays"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	assays, err := metalKeyed(req.Assays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	chem := domain.DetectChemistry(assays)
	resp := map[string]any{"chemistry": chem}
	if info, ok := domain.ChemistryByCode(chem); ok {
		resp["info"] = info
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListChemistries handles GET /api/v1/chemistries.
func (h *Handler) ListChemistries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Chemistries())
}

// TransportAdvisory handles POST /api/v1/transport-advisory.
func (h *Handler) TransportAdvisory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OriginCountry      string `json:"originCountry"`
		DestinationCountry string `json:"destinationCountry"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.OriginCountry == "" || req.DestinationCountry == "" {
		writeError(w, http.StatusBadRequest, "missing originCountry or destinationCountry")
		return
	}

	key, advisory, _ := transport.Lookup(req.OriginCountry, req.DestinationCountry)
	writeJSON(w, http.StatusOK, map[string]any{
		"origin":      req.OriginCountry,
		"destination": req.DestinationCountry,
		"routeKey":    key.String(),
		"advisory":    advisory,
	})
}

// ListTransportRoutes handles GET /api/v1/transport-routes.
func (h *Handler) ListTransportRoutes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, transport.Routes())
}

// BidReport handles POST /api/v1/bid-report. With ?format=xlsx the report is
// returned as a workbook download instead of JSON.
func (h *Handler) BidReport(w http.ResponseWriter, r *http.Request) {
	var wire struct {
		export.BidReportRequest
		Assays map[string]float64 `json:"assays"`
	}
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	assays, err := metalKeyed(wire.Assays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req := wire.BidReportRequest
	req.Assays = assays

	report, err := h.reports.BuildBidReport(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		data, err := export.WriteBidReportXLSX(report)
		if err != nil {
			slog.Error("bid report workbook failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="bid-report.xlsx"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			slog.Warn("failed to write workbook response", "error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// ListQuotes handles GET /api/v1/quotes.
func (h *Handler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	if h.quotes == nil {
		writeError(w, http.StatusNotFound, "quote history not configured")
		return
	}

	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = "USD"
	}
	const maxLimit = 365
	limit := 30
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = min(n, maxLimit)
		}
	}

	quotes, err := h.quotes.List(r.Context(), currency, limit)
	if err != nil {
		slog.Error("failed to list quotes", "currency", currency, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
