// internal/matching/filters.go
package matching

import "rpa-match-workers/internal/models"

// BuildHardFilters translates a profile's hard constraints into the
// repository query shape. Only strict budgets keep both bounds; flexible and
// negotiable budgets (and budgets with no stated flexibility) get a widened
// ceiling and no floor, so the filter stage overselects and soft scoring
// ranks the overflow.
func BuildHardFilters(profile *models.PatientProfile, cfg ScoringConfig) models.HardFilters {
	filters := models.HardFilters{ActiveOnly: true}
	if profile == nil {
		return filters
	}

	if profile.Budget != nil && profile.Budget.Amount > 0 {
		budget := profile.Budget.Amount
		if profile.Budget.Flexibility == models.FlexibilityStrict {
			filters.PricingFloorMax = &budget
			ceiling := budget
			filters.PricingCeilingMin = &ceiling
		} else {
			widened := budget * cfg.FilterCeilingFactor
			filters.PricingFloorMax = &widened
		}
	}

	if profile.Location != nil {
		if profile.Location.City != "" {
			filters.City = Normalize(profile.Location.City)
		} else if profile.Location.Region != "" {
			filters.Region = Normalize(profile.Location.Region)
		}
	}

	return filters
}
