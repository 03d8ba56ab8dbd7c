// internal/matching/reasons.go
package matching

import (
	"fmt"

	"rpa-match-workers/internal/models"
)

// reasons builds the human-readable explanation list. Rules run in a fixed
// order (budget, care, location, availability, rating) and each contributes
// at most one phrase. An empty list is a valid outcome, not an error.
func (s *Scorer) reasons(d models.MatchDetails, c *models.Candidate) []string {
	t := s.cfg.Reasons
	reasons := []string{}

	switch {
	case d.BudgetMatch >= t.BudgetExcellent:
		reasons = append(reasons, "Excellent budget match")
	case d.BudgetMatch >= t.BudgetGood:
		reasons = append(reasons, "Good budget match")
	}

	switch {
	case d.CareMatch >= t.CareSpecialized:
		reasons = append(reasons, "Specialized care available")
	case d.CareMatch >= t.CareSuitable:
		reasons = append(reasons, "Suitable care level")
	}

	switch {
	case d.LocationMatch >= t.LocationPerfect:
		reasons = append(reasons, "Perfect location match")
	case d.LocationMatch >= t.LocationGood:
		reasons = append(reasons, "Good location match")
	}

	if c.Availability != nil {
		switch units := c.Availability.UnitsAvailable; {
		case units > t.AvailabilityMany:
			reasons = append(reasons, fmt.Sprintf("%d units available now", units))
		case units == 1:
			reasons = append(reasons, "1 unit available")
		case units > 1:
			reasons = append(reasons, fmt.Sprintf("%d units available", units))
		}
	}

	if c.Rating != nil {
		switch {
		case *c.Rating >= t.RatingHigh:
			reasons = append(reasons, "Highly rated residence")
		case *c.Rating >= t.RatingGood:
			reasons = append(reasons, "Well rated residence")
		}
	}

	return reasons
}
