// internal/models/match.go
package models

import "time"

// MatchDetails carries the five sub-scores, each in [0,100].
type MatchDetails struct {
	BudgetMatch         int `json:"budget_match"`
	CareMatch           int `json:"care_match"`
	LocationMatch       int `json:"location_match"`
	AvailabilityMatch   int `json:"availability_match"`
	ResponsivenessMatch int `json:"responsiveness_match"`
}

// MatchAvailability is the availability summary surfaced with a match.
// UnitsAvailable is 0 and LastUpdated nil when the residence never reported.
type MatchAvailability struct {
	UnitsAvailable int        `json:"units_available"`
	LastUpdated    *time.Time `json:"last_updated,omitempty"`
}

// ResidenceInfo holds the display fields returned alongside a match.
type ResidenceInfo struct {
	Name       string   `json:"name"`
	City       string   `json:"city,omitempty"`
	Region     string   `json:"region,omitempty"`
	PricingMin *float64 `json:"pricing_min,omitempty"`
	PricingMax *float64 `json:"pricing_max,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
}

// MatchResult is one scored candidate. Constructed per request, serialized,
// then discarded; nothing here is persisted.
type MatchResult struct {
	RPAID        string            `json:"rpa_id"`
	Score        int               `json:"score"`
	MatchDetails MatchDetails      `json:"match_details"`
	Reasons      []string          `json:"reasons"`
	Availability MatchAvailability `json:"availability"`
	RPAInfo      ResidenceInfo     `json:"rpa_info"`
}

// MatchOptions are the caller-facing pagination and filtering knobs.
type MatchOptions struct {
	Limit               int  `json:"limit"`
	Offset              int  `json:"offset"`
	RequireAvailability bool `json:"requireAvailability"`
}

// HardFilters is the repository query shape derived from a profile: only
// structurally eligible residences survive it, everything else is ranked by
// soft scoring. PricingFloorMax caps the residence's minimum price
// (pricing_min <= PricingFloorMax); PricingCeilingMin, set only for strict
// budgets, requires pricing_max >= PricingCeilingMin. City and Region are
// pre-normalized (lowercase, diacritics stripped); City wins when both are
// present.
type HardFilters struct {
	ActiveOnly        bool     `json:"activeOnly"`
	PricingFloorMax   *float64 `json:"pricingFloorMax,omitempty"`
	PricingCeilingMin *float64 `json:"pricingCeilingMin,omitempty"`
	City              string   `json:"city,omitempty"`
	Region            string   `json:"region,omitempty"`
}
