// internal/models/profile.go
package models

// AutonomyLevel is the patient's level of independence as stated by the family.
type AutonomyLevel string

const (
	AutonomyAutonomous         AutonomyLevel = "autonomous"
	AutonomySemiAutonomous     AutonomyLevel = "semi_autonomous"
	AutonomyLossOfIndependence AutonomyLevel = "loss_of_independence"
)

// BudgetFlexibility qualifies how firm the stated monthly budget is.
type BudgetFlexibility string

const (
	FlexibilityStrict     BudgetFlexibility = "strict"
	FlexibilityFlexible   BudgetFlexibility = "flexible"
	FlexibilityNegotiable BudgetFlexibility = "negotiable"
)

// UrgencyLevel describes how soon a placement is needed.
type UrgencyLevel string

const (
	UrgencyNormal   UrgencyLevel = "normal"
	UrgencyUrgent48 UrgencyLevel = "urgent_48h"
	UrgencyUrgent24 UrgencyLevel = "urgent_24h"
)

// PatientProfile is the structured output of the upstream conversation
// extraction. Every field is optional: the matching pipeline must degrade to
// neutral scores when information is absent, never fail.
type PatientProfile struct {
	Age         *int                `json:"age,omitempty"`
	Autonomy    AutonomyLevel       `json:"autonomy,omitempty"`
	Conditions  *Conditions         `json:"conditions,omitempty"`
	Budget      *Budget             `json:"budget,omitempty"`
	Location    *LocationPreference `json:"location,omitempty"`
	Urgency     *Urgency            `json:"urgency,omitempty"`
	Preferences *Preferences        `json:"preferences,omitempty"`
}

// Conditions holds the medical condition flags the extraction recognizes.
// Free-text conditions it could not classify land in Other.
type Conditions struct {
	Alzheimers       bool     `json:"alzheimers,omitempty"`
	Parkinsons       bool     `json:"parkinsons,omitempty"`
	MobilityIssues   bool     `json:"mobility_issues,omitempty"`
	CognitiveDecline bool     `json:"cognitive_decline,omitempty"`
	Other            []string `json:"other,omitempty"`
}

type Budget struct {
	Amount      float64           `json:"amount"`
	Flexibility BudgetFlexibility `json:"flexibility,omitempty"`
}

type LocationPreference struct {
	City          string   `json:"city,omitempty"`
	Region        string   `json:"region,omitempty"`
	MaxDistanceKM *float64 `json:"max_distance_km,omitempty"`
}

type Urgency struct {
	Level  UrgencyLevel `json:"level,omitempty"`
	Reason string       `json:"reason,omitempty"`
}

type Preferences struct {
	Languages           []string `json:"languages,omitempty"`
	Activities          []string `json:"activities,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	PetFriendly         *bool    `json:"pet_friendly,omitempty"`
}
