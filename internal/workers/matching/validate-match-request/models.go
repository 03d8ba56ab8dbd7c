// internal/workers/matching/validate-match-request/models.go
package validatematchrequest

type Input struct {
	PatientProfile      map[string]interface{} `json:"patientProfile"`
	Limit               *int                   `json:"limit,omitempty"`
	Offset              *int                   `json:"offset,omitempty"`
	RequireAvailability *bool                  `json:"requireAvailability,omitempty"`
}

type Output struct {
	Valid               bool `json:"valid"`
	Limit               int  `json:"limit"`
	Offset              int  `json:"offset"`
	RequireAvailability bool `json:"requireAvailability"`
}
