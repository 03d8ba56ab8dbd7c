// internal/workers/matching/calculate-match-score/models.go
package calculatematchscore

import "rpa-match-workers/internal/models"

type Input struct {
	PatientProfile *models.PatientProfile `json:"patientProfile"`
	Candidates     []models.Candidate     `json:"candidates"`
}

type Output struct {
	Results []models.MatchResult `json:"results"`
}
