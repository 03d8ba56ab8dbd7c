// internal/workers/matching/parse-profile-filters/models.go
package parseprofilefilters

import "rpa-match-workers/internal/models"

type Input struct {
	PatientProfile *models.PatientProfile `json:"patientProfile"`
}

type Output struct {
	Filters models.HardFilters `json:"filters"`
}
