// Package export produces outward-facing artifacts: supplier bid reports,
// XLSX workbooks, and spreadsheet price monitoring. Everything here is
// counterparty-visible, so internal costs, payable rates, and margins never
// appear in its output.
package export

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/battvalue/valuator/internal/domain"
	"github.com/battvalue/valuator/internal/transport"
)

// defaultValidityDays is the quote validity period when none is requested.
const defaultValidityDays = 7

// MarketProvider supplies reference prices for report building.
type MarketProvider interface {
	GetSnapshot(ctx context.Context, currency string) (domain.MarketSnapshot, error)
}

// BidReportRequest describes a supplier quote to generate.
type BidReportRequest struct {
	Currency             string          `json:"currency"`
	WeightKg             float64         `json:"weightKg"`
	Assays               domain.AssayMap `json:"assays"`
	OfferedPricePerKg    *float64        `json:"offeredPricePerKg,omitempty"`
	ValidityDays         int             `json:"validityDays,omitempty"`
	TransportOrigin      string          `json:"transportOrigin,omitempty"`
	TransportDestination string          `json:"transportDestination,omitempty"`
	IncludeTransport     bool            `json:"includeTransportAdvisory,omitempty"`
	IncludeMarketPrices  *bool           `json:"includeMarketPrices,omitempty"` // nil means true
	CompanyName          string          `json:"companyName,omitempty"`
	ReferenceNumber      string          `json:"referenceNumber,omitempty"`
}

// CompositionRow is one metal line in the report's composition table.
type CompositionRow struct {
	Metal            string   `json:"metal"`
	GradePct         float64  `json:"gradePct"`
	ContainedKg      float64  `json:"containedKg"`
	MarketPricePerKg *float64 `json:"marketPricePerKg,omitempty"`
}

// ReportInfo is the report header block.
type ReportInfo struct {
	Type       string `json:"type"`
	Date       string `json:"date"`
	ValidUntil string `json:"validUntil"`
	Reference  string `json:"reference,omitempty"`
	Company    string `json:"company,omitempty"`
}

// MaterialSummary describes the quoted lot.
type MaterialSummary struct {
	WeightKg      float64          `json:"weightKg"`
	WeightTonnes  float64          `json:"weightTonnes"`
	Chemistry     string           `json:"chemistry"`
	ChemistryName string           `json:"chemistryName"`
	Composition   []CompositionRow `json:"composition"`
}

// PricingSummary carries the offer terms.
type PricingSummary struct {
	Currency          string   `json:"currency"`
	MarketPriceDate   string   `json:"marketPriceDate,omitempty"`
	OfferedPricePerKg *float64 `json:"offeredPricePerKg,omitempty"`
	TotalOfferedValue *float64 `json:"totalOfferedValue,omitempty"`
}

// TransportSummary condenses the lane advisory for the report.
type TransportSummary struct {
	Route           string   `json:"route"`
	Status          string   `json:"status"`
	KeyRequirements []string `json:"keyRequirements"`
	EstimatedCost   string   `json:"estimatedCost"`
	TransitTime     string   `json:"transitTime"`
}

// BidReport is a supplier-facing purchase quote. Processing costs, refining
// OPEX, and internal payable rates are deliberately omitted.
type BidReport struct {
	ReportInfo ReportInfo        `json:"reportInfo"`
	Material   MaterialSummary   `json:"material"`
	Pricing    PricingSummary    `json:"pricing"`
	Transport  *TransportSummary `json:"transport,omitempty"`
	Disclaimer string            `json:"disclaimer"`
}

// Service builds bid reports against live market data.
type Service struct {
	market MarketProvider
	now    func() time.Time
}

// NewService creates a new report service.
func NewService(market MarketProvider) *Service {
	return &Service{market: market, now: time.Now}
}

// round2 rounds display values to cents without float drift.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// BuildBidReport assembles a shareable purchase quote for a lot.
func (s *Service) BuildBidReport(ctx context.Context, req BidReportRequest) (BidReport, error) {
	if req.WeightKg <= 0 {
		return BidReport{}, fmt.Errorf("weight must be positive, got %v", req.WeightKg)
	}
	if req.Assays == nil {
		return BidReport{}, fmt.Errorf("assays are required")
	}

	includePrices := req.IncludeMarketPrices == nil || *req.IncludeMarketPrices

	snapshot, err := s.market.GetSnapshot(ctx, req.Currency)
	if err != nil {
		return BidReport{}, fmt.Errorf("resolving market snapshot: %w", err)
	}

	validityDays := req.ValidityDays
	if validityDays <= 0 {
		validityDays = defaultValidityDays
	}
	now := s.now()
	validUntil := now.AddDate(0, 0, validityDays).Format("2006-01-02")

	chem := domain.DetectChemistry(req.Assays)
	info, ok := domain.ChemistryByCode(chem)
	if !ok {
		info.Name = "Unknown"
	}

	composition := make([]CompositionRow, 0, len(req.Assays))
	for _, metal := range domain.AllMetals() {
		assay := req.Assays.Get(metal)
		if assay <= 0 {
			continue
		}
		row := CompositionRow{
			Metal:       metal.Label(),
			GradePct:    round2(assay * 100),
			ContainedKg: round2(req.WeightKg * assay),
		}
		if includePrices {
			price := round2(snapshot.SpotPrice(metal))
			row.MarketPricePerKg = &price
		}
		composition = append(composition, row)
	}
	sort.Slice(composition, func(i, j int) bool {
		return composition[i].GradePct > composition[j].GradePct
	})

	report := BidReport{
		ReportInfo: ReportInfo{
			Type:       "Battery Material Purchase Quote",
			Date:       now.Format("2006-01-02"),
			ValidUntil: validUntil,
			Reference:  req.ReferenceNumber,
			Company:    req.CompanyName,
		},
		Material: MaterialSummary{
			WeightKg:      req.WeightKg,
			WeightTonnes:  round2(req.WeightKg / 1000),
			Chemistry:     string(chem),
			ChemistryName: info.Name,
			Composition:   composition,
		},
		Pricing: PricingSummary{Currency: snapshot.Currency},
		Disclaimer: fmt.Sprintf(
			"This quote is subject to material inspection and verification of specifications. "+
				"Final pricing may be adjusted based on actual assay results. Quote valid until %s.",
			validUntil),
	}

	if includePrices {
		report.Pricing.MarketPriceDate = snapshot.CapturedAt.Format("2006-01-02 15:04 MST")
	}
	if req.OfferedPricePerKg != nil {
		offered := *req.OfferedPricePerKg
		total := round2(req.WeightKg * offered)
		report.Pricing.OfferedPricePerKg = &offered
		report.Pricing.TotalOfferedValue = &total
	}

	if req.IncludeTransport && req.TransportOrigin != "" && req.TransportDestination != "" {
		if _, adv, found := transport.Lookup(req.TransportOrigin, req.TransportDestination); found {
			report.Transport = summarizeTransport(adv)
		}
	}

	return report, nil
}

func summarizeTransport(adv transport.Advisory) *TransportSummary {
	requirements := make([]string, 0, 3)
	for _, item := range adv.Checklist {
		requirements = append(requirements, item.Item)
		if len(requirements) == 3 {
			break
		}
	}

	cost := "Contact for quote"
	if adv.CostEstimate != nil && adv.CostEstimate.Truck != "" {
		cost = adv.CostEstimate.Truck
	}
	transit := adv.TransitTime
	if transit == "" {
		transit = "Varies"
	}

	return &TransportSummary{
		Route:           adv.Route,
		Status:          adv.Classification.Status,
		KeyRequirements: requirements,
		EstimatedCost:   cost,
		TransitTime:     transit,
	}
}
