// internal/workers/matching/find-matches/models.go
package findmatches

import "rpa-match-workers/internal/models"

type Input struct {
	PatientProfile      *models.PatientProfile `json:"patientProfile"`
	Limit               int                    `json:"limit,omitempty"`
	Offset              int                    `json:"offset,omitempty"`
	RequireAvailability *bool                  `json:"requireAvailability,omitempty"`
}

type Output struct {
	RequestID string               `json:"requestId"`
	Matches   []models.MatchResult `json:"matches"`
	Total     int                  `json:"total"`
	HasMore   bool                 `json:"hasMore"`
}
