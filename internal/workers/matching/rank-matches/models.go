// internal/workers/matching/rank-matches/models.go
package rankmatches

import "rpa-match-workers/internal/models"

type Input struct {
	Results             []models.MatchResult `json:"results"`
	Limit               int                  `json:"limit"`
	Offset              int                  `json:"offset"`
	RequireAvailability *bool                `json:"requireAvailability,omitempty"`
}

type Output struct {
	Matches []models.MatchResult `json:"matches"`
	Total   int                  `json:"total"`
	HasMore bool                 `json:"hasMore"`
}
