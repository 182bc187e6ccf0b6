// Package transport holds the cross-border shipping advisory registry for
// battery materials: regulatory classification, documentation checklists,
// and cost guidance per trade lane.
package transport

import (
	"strings"

	"github.com/samber/lo"
)

// StatusProhibited marks lanes where shipment is banned outright rather than
// merely regulated.
const StatusProhibited = "PROHIBITED"

// Classification is the regulatory status of a material on a lane.
type Classification struct {
	Status      string `json:"status"`
	UNNumber    string `json:"unNumber,omitempty"`
	HazardClass string `json:"hazardClass,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// ChecklistItem is one documentation or compliance step for a shipment.
type ChecklistItem struct {
	Item        string `json:"item"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// CostEstimate gives indicative freight costs per mode.
type CostEstimate struct {
	Truck string `json:"truck,omitempty"`
	Rail  string `json:"rail,omitempty"`
	Sea   string `json:"sea,omitempty"`
	Air   string `json:"air,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Resource is a link to an authoritative regulatory reference.
type Resource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Advisory is the full guidance for one trade lane.
type Advisory struct {
	Route          string          `json:"route"`
	Classification Classification  `json:"classification"`
	Checklist      []ChecklistItem `json:"checklist"`
	Warnings       []string        `json:"warnings"`
	Alternatives   []string        `json:"alternatives,omitempty"`
	CostEstimate   *CostEstimate   `json:"costEstimate,omitempty"`
	TransitTime    string          `json:"transitTime,omitempty"`
	Resources      []Resource      `json:"resources"`
}

// RouteKey identifies a trade lane by normalized region codes.
type RouteKey struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

func (k RouteKey) String() string {
	return k.Origin + " → " + k.Destination
}

// RouteSummary is the listing form of a registered lane.
type RouteSummary struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Route       string `json:"route"`
	Status      string `json:"status"`
}

// Country groupings for lane normalization. KR and JP appear in both the
// OECD and Asia sets; the OECD check only applies to EU origins, so there is
// no ambiguity.
var (
	euCountries = []string{
		"AT", "BE", "BG", "HR", "CY", "CZ", "DK", "EE", "FI", "FR",
		"DE", "GR", "HU", "IE", "IT", "LV", "LT", "LU", "MT", "NL",
		"PL", "PT", "RO", "SK", "SI", "ES", "SE",
	}
	oecdNonEU = []string{
		"US", "CA", "MX", "JP", "KR", "AU", "NZ", "CH", "NO", "GB",
		"IS", "TR", "CL", "CO", "CR", "IL",
	}
	asiaCountries = []string{"CN", "KR", "JP", "TH", "VN", "ID", "MY", "PH", "SG", "TW", "IN"}
	naCountries   = []string{"US", "CA", "MX"}
)

// RouteKeyFor normalizes a country pair onto a registered lane key. Country
// codes are ISO 3166-1 alpha-2, case-insensitive. Pairs with no registered
// lane come back as the literal codes.
func RouteKeyFor(origin, destination string) RouteKey {
	origin = strings.ToUpper(strings.TrimSpace(origin))
	destination = strings.ToUpper(strings.TrimSpace(destination))

	isEU := func(c string) bool { return lo.Contains(euCountries, c) }

	switch {
	case origin == destination && (origin == "US" || origin == "CA"):
		return RouteKey{origin, origin}
	case isEU(origin) && isEU(destination):
		return RouteKey{"EU", "EU"}
	case isEU(origin) && lo.Contains(oecdNonEU, destination):
		return RouteKey{"EU", "OECD"}
	case isEU(origin):
		return RouteKey{"EU", "NON_OECD"}
	case origin == "CA" && destination == "US",
		origin == "US" && destination == "CA":
		return RouteKey{origin, destination}
	case lo.Contains(asiaCountries, origin) && lo.Contains(naCountries, destination):
		return RouteKey{"ASIA", "NA"}
	}
	return RouteKey{origin, destination}
}

// Lookup resolves the advisory for a country pair. When no registered lane
// matches, a generic dangerous-goods advisory is returned; found reports
// whether a registered lane matched.
func Lookup(origin, destination string) (key RouteKey, advisory Advisory, found bool) {
	key = RouteKeyFor(origin, destination)
	if advisory, found = advisories[key]; found {
		return key, advisory, true
	}
	return key, genericAdvisory(key), false
}

// Routes lists every registered lane in a stable order.
func Routes() []RouteSummary {
	return lo.Map(laneOrder, func(key RouteKey, _ int) RouteSummary {
		adv := advisories[key]
		return RouteSummary{
			Origin:      key.Origin,
			Destination: key.Destination,
			Route:       adv.Route,
			Status:      adv.Classification.Status,
		}
	})
}

func genericAdvisory(key RouteKey) Advisory {
	return Advisory{
		Route: key.String(),
		Classification: Classification{
			Status: "Unknown",
			Notes:  "No specific advisory available for this route. General dangerous goods regulations apply.",
		},
		Checklist: []ChecklistItem{
			{Item: "Dangerous Goods Classification", Description: "Verify UN number and proper shipping name", Required: true},
			{Item: "Local Regulations", Description: "Check origin and destination country regulations", Required: true},
			{Item: "Carrier Requirements", Description: "Confirm carrier can handle hazardous materials", Required: true},
		},
		Warnings: []string{
			"This route does not have specific guidance in our database",
			"Consult with a freight forwarder or customs broker for detailed requirements",
			"Battery materials are generally regulated as dangerous goods internationally",
		},
		Resources: []Resource{
			{Name: "UN Dangerous Goods", URL: "https://unece.org/transport/dangerous-goods"},
		},
	}
}
