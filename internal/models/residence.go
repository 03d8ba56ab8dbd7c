// internal/models/residence.go
package models

import "time"

// Candidate is a residence read from the repository together with its latest
// availability snapshot. It is the single record shape every sub-score
// function operates on; pointer fields are nil when the residence never
// reported the value.
type Candidate struct {
	ID                string                `json:"id"`
	Name              string                `json:"name"`
	City              string                `json:"city,omitempty"`
	Region            string                `json:"region,omitempty"`
	PricingMin        *float64              `json:"pricingMin,omitempty"`
	PricingMax        *float64              `json:"pricingMax,omitempty"`
	Rating            *float64              `json:"rating,omitempty"`
	ResponseTimeHours *float64              `json:"responseTimeHours,omitempty"`
	Category          *int                  `json:"category,omitempty"`
	CareCapabilities  []string              `json:"careCapabilities,omitempty"`
	Availability      *AvailabilitySnapshot `json:"availability,omitempty"`
}

// AvailabilitySnapshot is the most recent availability report for a
// residence. A candidate with no snapshot at all is treated as having zero
// availability.
type AvailabilitySnapshot struct {
	UnitsAvailable int       `json:"unitsAvailable"`
	ReportedAt     time.Time `json:"reportedAt"`
}
