package transport

// laneOrder fixes the listing order of registered lanes.
var laneOrder = []RouteKey{
	{"CA", "US"},
	{"US", "CA"},
	{"EU", "EU"},
	{"EU", "NON_OECD"},
	{"EU", "OECD"},
	{"ASIA", "NA"},
	{"US", "US"},
	{"CA", "CA"},
}

var advisories = map[RouteKey]Advisory{
	{"CA", "US"}: {
		Route: "Canada → United States",
		Classification: Classification{
			Status:      "Regulated",
			UNNumber:    "UN3480 (Li-ion) or UN3090 (Li metal)",
			HazardClass: "Class 9 - Miscellaneous Dangerous Goods",
			Notes:       "Black mass may be classified as hazardous waste depending on contaminants",
		},
		Checklist: []ChecklistItem{
			{Item: "EPA Notification", Description: "Submit EPA Form 8700-22 for hazardous waste exports", Required: true},
			{Item: "RCRA Manifest", Description: "Complete hazardous waste manifest if applicable", Required: true},
			{Item: "Canadian Export Permit", Description: "ECCC export permit for hazardous recyclables", Required: true},
			{Item: "Customs Declaration", Description: "HS Code 8549.31 (waste batteries) or 2620.99 (black mass)", Required: true},
			{Item: "Carrier Certification", Description: "Ensure carrier has hazmat certification for Class 9", Required: true},
			{Item: "Emergency Response Info", Description: "Include 24-hour emergency contact and SDS", Required: true},
			{Item: "Insurance Certificate", Description: "Environmental liability coverage recommended", Required: false},
		},
		Warnings: []string{
			"Some US states (e.g., California) have additional notification requirements",
			"Transit through certain ports may have restrictions on lithium materials",
			"Processing must occur at EPA-permitted facility",
		},
		CostEstimate: &CostEstimate{
			Truck: "$150-400 per tonne",
			Rail:  "$100-250 per tonne (bulk shipments)",
			Notes: "Costs vary by distance and hazmat surcharges",
		},
		TransitTime: "3-7 business days (truck)",
		Resources: []Resource{
			{Name: "EPA Hazardous Waste Exports", URL: "https://www.epa.gov/hwgenerators/hazardous-waste-export-requirements"},
			{Name: "ECCC Export/Import Permits", URL: "https://www.canada.ca/en/environment-climate-change/services/managing-reducing-waste/permit-hazardous-wastes-recyclables.html"},
		},
	},
	{"US", "CA"}: {
		Route: "United States → Canada",
		Classification: Classification{
			Status:      "Regulated",
			UNNumber:    "UN3480 (Li-ion) or UN3090 (Li metal)",
			HazardClass: "Class 9 - Miscellaneous Dangerous Goods",
			Notes:       "TDG regulations apply upon entry to Canada",
		},
		Checklist: []ChecklistItem{
			{Item: "ECCC Import Notification", Description: "30-day advance notice required for hazardous recyclables", Required: true},
			{Item: "TDG Documentation", Description: "Transport of Dangerous Goods shipping document", Required: true},
			{Item: "EPA Export Notice", Description: "Notify EPA of hazardous waste export", Required: true},
			{Item: "Canadian Receiver Permit", Description: "Receiving facility must hold ECCC permit", Required: true},
			{Item: "Customs Declaration", Description: "CBSA requires accurate HS code classification", Required: true},
			{Item: "Emergency Response Plan", Description: "ERAP may be required for certain quantities", Required: false},
		},
		Warnings: []string{
			"Canada requires receiving facility to be pre-authorized",
			"Provincial regulations may add requirements (e.g., Quebec, Ontario)",
			"Winter shipping may face delays at border crossings",
		},
		CostEstimate: &CostEstimate{
			Truck: "$150-400 per tonne",
			Notes: "Brokerage fees typically $150-300 per shipment",
		},
		TransitTime: "3-7 business days (truck)",
		Resources: []Resource{
			{Name: "Transport Canada TDG", URL: "https://tc.canada.ca/en/dangerous-goods"},
			{Name: "ECCC Import Requirements", URL: "https://www.canada.ca/en/environment-climate-change/services/managing-reducing-waste/permit-hazardous-wastes-recyclables.html"},
		},
	},
	{"EU", "EU"}: {
		Route: "Within European Union",
		Classification: Classification{
			Status:      "Regulated",
			UNNumber:    "UN3480",
			HazardClass: "Class 9",
			Notes:       "Black mass classified as hazardous waste under EU regulations",
		},
		Checklist: []ChecklistItem{
			{Item: "ADR Compliance", Description: "European Agreement on Dangerous Goods by Road", Required: true},
			{Item: "Waste Shipment Notification", Description: "Regulation (EC) 1013/2006 - Annex VII or prior notification", Required: true},
			{Item: "Waste Codes", Description: "Use correct EWC/LoW codes (e.g., 16 06 06*)", Required: true},
			{Item: "Carrier Authorization", Description: "Carrier must be registered for hazardous waste transport", Required: true},
			{Item: "Consignee Authorization", Description: "Receiving facility must hold appropriate permits", Required: true},
			{Item: "Financial Guarantee", Description: "May be required for transboundary movements", Required: false},
		},
		Warnings: []string{
			"Different member states may have varying interpretation of waste codes",
			"Some countries require translation of shipping documents",
			"Transit through non-EU territories may add requirements",
		},
		CostEstimate: &CostEstimate{
			Truck: "€100-300 per tonne",
			Notes: "Varies significantly by distance and country",
		},
		TransitTime: "2-5 business days",
		Resources: []Resource{
			{Name: "EU Waste Shipment Regulation", URL: "https://environment.ec.europa.eu/topics/waste-and-recycling/waste-shipments_en"},
		},
	},
	{"EU", "NON_OECD"}: {
		Route: "European Union → Non-OECD Countries",
		Classification: Classification{
			Status: StatusProhibited,
			Notes:  "Export of hazardous waste to non-OECD countries is banned under EU regulations",
		},
		Checklist: []ChecklistItem{},
		Warnings: []string{
			"BLACK MASS EXPORT TO NON-OECD COUNTRIES IS PROHIBITED",
			"Battery waste and black mass are classified as hazardous waste under EU law",
			"The Basel Convention and EU Waste Shipment Regulation prohibit this export",
			"Violations can result in criminal penalties and significant fines",
			"This applies even if the destination country is willing to accept the material",
		},
		Alternatives: []string{
			"Process material within the EU at authorized facilities",
			"Export to OECD countries (with proper notification procedures)",
			"Check if material can be reclassified as non-hazardous after processing",
		},
		Resources: []Resource{
			{Name: "Basel Convention", URL: "http://www.basel.int/"},
			{Name: "EU Waste Shipment Regulation", URL: "https://environment.ec.europa.eu/topics/waste-and-recycling/waste-shipments_en"},
		},
	},
	{"EU", "OECD"}: {
		Route: "European Union → OECD Countries (non-EU)",
		Classification: Classification{
			Status: "Regulated - Prior Informed Consent",
			Notes:  "Requires advance notification and consent from destination country",
		},
		Checklist: []ChecklistItem{
			{Item: "Prior Notification", Description: "Submit notification to competent authorities (origin, transit, destination)", Required: true},
			{Item: "Written Consent", Description: "Obtain written consent from all competent authorities", Required: true},
			{Item: "Financial Guarantee", Description: "Bond or insurance for shipment and disposal costs", Required: true},
			{Item: "Movement Document", Description: "Annex IB movement document must accompany shipment", Required: true},
			{Item: "Facility Permit", Description: "Destination facility must be authorized for this waste type", Required: true},
			{Item: "Recovery Contract", Description: "Written contract with recovery facility", Required: true},
		},
		Warnings: []string{
			"Notification process can take 60-90 days",
			"Some OECD countries have additional restrictions on battery waste",
			"Consent is typically valid for 1 year and limited number of shipments",
		},
		CostEstimate: &CostEstimate{
			Sea:   "$200-600 per tonne",
			Air:   "Not recommended for bulk - cost prohibitive",
			Notes: "Includes port fees, handling, and administrative costs",
		},
		TransitTime: "15-45 days (sea freight)",
		Resources: []Resource{
			{Name: "OECD Waste Trade", URL: "https://www.oecd.org/environment/waste/"},
		},
	},
	{"ASIA", "NA"}: {
		Route: "Asia → North America",
		Classification: Classification{
			Status:      "Regulated",
			UNNumber:    "UN3480",
			HazardClass: "Class 9 - IMDG Code applies for sea freight",
		},
		Checklist: []ChecklistItem{
			{Item: "IMDG Compliance", Description: "International Maritime Dangerous Goods Code requirements", Required: true},
			{Item: "Dangerous Goods Declaration", Description: "Shipper's declaration for dangerous goods", Required: true},
			{Item: "Container Certification", Description: "Proper packaging and container certification", Required: true},
			{Item: "State of Charge (SOC)", Description: "Batteries must be discharged below 30% for air/sea transport", Required: true},
			{Item: "Import Permits", Description: "US EPA / Canada ECCC import notifications if hazardous", Required: true},
			{Item: "Customs Pre-clearance", Description: "FDA and CBP may require additional documentation", Required: false},
		},
		Warnings: []string{
			"Some shipping lines have restrictions on lithium battery materials",
			"State of charge requirements are critical - verify before shipping",
			"Port congestion can significantly delay shipments",
			"Consider insurance for cargo damage and environmental liability",
		},
		CostEstimate: &CostEstimate{
			Sea:   "$150-400 per tonne (FCL)",
			Air:   "Not recommended - expensive and restricted",
			Notes: "Sea freight preferred for bulk; transit time 20-35 days",
		},
		TransitTime: "20-35 days (sea freight)",
		Resources: []Resource{
			{Name: "IMO IMDG Code", URL: "https://www.imo.org/en/OurWork/Safety/Pages/DangerousGoods-default.aspx"},
		},
	},
	{"US", "US"}: {
		Route: "Within United States",
		Classification: Classification{
			Status:      "Regulated",
			UNNumber:    "UN3480",
			HazardClass: "Class 9 (DOT)",
			Notes:       "RCRA regulations apply if material is hazardous waste",
		},
		Checklist: []ChecklistItem{
			{Item: "DOT Hazmat Training", Description: "Shipper and carrier must have hazmat training", Required: true},
			{Item: "Proper Shipping Name", Description: "Use correct DOT shipping name and UN number", Required: true},
			{Item: "Hazardous Waste Manifest", Description: "EPA Form 8700-22 if RCRA hazardous waste", Required: true},
			{Item: "EPA ID Numbers", Description: "Generator and receiver must have EPA ID numbers", Required: true},
			{Item: "State Notifications", Description: "Some states require advance notification", Required: false},
			{Item: "Placarding", Description: "Class 9 placards required for bulk shipments", Required: true},
		},
		Warnings: []string{
			"California has strict additional requirements (DTSC)",
			"State-to-state shipments may trigger additional notifications",
			"LTL carriers may refuse lithium battery materials",
		},
		CostEstimate: &CostEstimate{
			Truck: "$80-200 per tonne",
			Rail:  "$50-150 per tonne (bulk only)",
			Notes: "Costs vary significantly by distance",
		},
		TransitTime: "2-7 business days",
		Resources: []Resource{
			{Name: "DOT Hazmat", URL: "https://www.phmsa.dot.gov/hazmat"},
			{Name: "EPA RCRA", URL: "https://www.epa.gov/rcra"},
		},
	},
	{"CA", "CA"}: {
		Route: "Within Canada",
		Classification: Classification{
			Status:      "Regulated",
			UNNumber:    "UN3480",
			HazardClass: "Class 9 (TDG)",
			Notes:       "Transport of Dangerous Goods Act applies",
		},
		Checklist: []ChecklistItem{
			{Item: "TDG Training", Description: "All handlers must have TDG certification", Required: true},
			{Item: "Shipping Document", Description: "TDG-compliant shipping document required", Required: true},
			{Item: "Placards and Labels", Description: "Class 9 labels and placards as required", Required: true},
			{Item: "ERAP", Description: "Emergency Response Assistance Plan if above thresholds", Required: false},
			{Item: "Provincial Permits", Description: "Some provinces require additional permits for hazardous waste", Required: true},
		},
		Warnings: []string{
			"Quebec has additional French labeling requirements",
			"Ontario requires generator registration for hazardous waste",
			"Inter-provincial movements may need tracking documentation",
		},
		CostEstimate: &CostEstimate{
			Truck: "$100-300 per tonne",
			Notes: "Distances in Canada can be significant",
		},
		TransitTime: "2-10 business days",
		Resources: []Resource{
			{Name: "Transport Canada TDG", URL: "https://tc.canada.ca/en/dangerous-goods"},
		},
	},
}
