// internal/workers/matching/query-candidates/models.go
package querycandidates

import "rpa-match-workers/internal/models"

type Input struct {
	Filters models.HardFilters `json:"filters"`
}

type Output struct {
	Candidates     []models.Candidate `json:"candidates"`
	CandidateCount int                `json:"candidateCount"`
}
