// internal/matching/scoring.go
package matching

import (
	"math"
	"time"

	"rpa-match-workers/internal/models"
)

// Scorer computes compatibility scores for (profile, candidate) pairs. It is
// pure: no I/O, no hidden clock. The caller supplies "now" so freshness
// bucketing stays reproducible.
type Scorer struct {
	cfg ScoringConfig
}

func NewScorer(cfg ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score produces the full MatchResult for one candidate. Missing or
// self-contradictory candidate data never fails scoring; every sub-score has
// a numeric fallback.
func (s *Scorer) Score(profile *models.PatientProfile, c *models.Candidate, now time.Time) models.MatchResult {
	details := models.MatchDetails{
		BudgetMatch:         s.budgetScore(profile, c),
		CareMatch:           s.careScore(profile, c),
		LocationMatch:       s.locationScore(profile, c),
		AvailabilityMatch:   s.availabilityScore(c, now),
		ResponsivenessMatch: s.responsivenessScore(c),
	}

	availability := models.MatchAvailability{}
	if c.Availability != nil {
		reported := c.Availability.ReportedAt
		availability.UnitsAvailable = c.Availability.UnitsAvailable
		availability.LastUpdated = &reported
	}

	return models.MatchResult{
		RPAID:        c.ID,
		Score:        s.composite(details),
		MatchDetails: details,
		Reasons:      s.reasons(details, c),
		Availability: availability,
		RPAInfo: models.ResidenceInfo{
			Name:       c.Name,
			City:       c.City,
			Region:     c.Region,
			PricingMin: c.PricingMin,
			PricingMax: c.PricingMax,
			Rating:     c.Rating,
		},
	}
}

// composite folds the five sub-scores into the 0-100 compatibility score.
func (s *Scorer) composite(d models.MatchDetails) int {
	w := s.cfg.Weights
	total := float64(d.BudgetMatch)*w.Budget +
		float64(d.CareMatch)*w.Care +
		float64(d.LocationMatch)*w.Location +
		float64(d.AvailabilityMatch)*w.Availability +
		float64(d.ResponsivenessMatch)*w.Responsiveness
	return clamp(int(math.Round(total)), 0, 100)
}

// budgetScore rates affordability. In-range budgets score 80-100 by
// proximity to the price midpoint; under-budget candidates fall off linearly
// to 0 across the under band; over-budget candidates sit in a tolerant 30-60
// band since overpaying is survivable but undershooting the floor is not.
func (s *Scorer) budgetScore(profile *models.PatientProfile, c *models.Candidate) int {
	if profile == nil || profile.Budget == nil || profile.Budget.Amount <= 0 {
		return 50
	}
	if c.PricingMin == nil || c.PricingMax == nil {
		return 50
	}
	low, high := *c.PricingMin, *c.PricingMax
	if low > high || low < 0 {
		// contradictory pricing data: neutral rather than rejected
		return 50
	}

	budget := profile.Budget.Amount
	switch {
	case budget >= low && budget <= high:
		half := (high - low) / 2
		if half == 0 {
			return 100
		}
		mid := (low + high) / 2
		proximity := 1 - math.Abs(budget-mid)/half
		return int(math.Round(80 + 20*proximity))

	case budget < low:
		shortfall := (low - budget) / budget
		if shortfall > s.cfg.BudgetUnderBand {
			return 0
		}
		return int(math.Round(50 * (1 - shortfall/s.cfg.BudgetUnderBand)))

	default: // budget > high
		overshoot := (budget - high) / budget
		if overshoot > s.cfg.BudgetOverBand {
			return 30
		}
		return int(math.Round(60 - overshoot*40))
	}
}

// careScore rates whether the residence's licensed acuity category and care
// capabilities fit the patient's autonomy level and conditions.
func (s *Scorer) careScore(profile *models.PatientProfile, c *models.Candidate) int {
	score := 50

	if profile != nil && profile.Autonomy != "" && c.Category != nil {
		if categoryFits(profile.Autonomy, *c.Category) {
			score += 30
		} else {
			score += 10
		}
	}

	if profile != nil && profile.Conditions != nil {
		stated, matched := capabilityMatches(profile.Conditions, c.CareCapabilities)
		if stated > 0 {
			score += int(math.Round(float64(matched) / float64(stated) * 20))
		}
	}

	return clamp(score, 0, 100)
}

// categoryFits maps autonomy tiers onto the 1-4 residence categories.
func categoryFits(autonomy models.AutonomyLevel, category int) bool {
	switch autonomy {
	case models.AutonomyAutonomous:
		return category <= 2
	case models.AutonomySemiAutonomous:
		return category == 2 || category == 3
	case models.AutonomyLossOfIndependence:
		return category >= 3
	default:
		return false
	}
}

// capabilityMatches counts how many of the stated conditions the residence
// covers. Free-text "other" conditions have no capability mapping and are
// left out of the ratio.
func capabilityMatches(conditions *models.Conditions, capabilities []string) (stated, matched int) {
	caps := make(map[string]bool, len(capabilities))
	for _, capability := range capabilities {
		caps[Normalize(capability)] = true
	}

	check := func(present bool, condition string) {
		if !present {
			return
		}
		stated++
		if caps[conditionCapabilities[condition]] {
			matched++
		}
	}
	check(conditions.Alzheimers, "alzheimers")
	check(conditions.Parkinsons, "parkinsons")
	check(conditions.MobilityIssues, "mobility_issues")
	check(conditions.CognitiveDecline, "cognitive_decline")
	return stated, matched
}

// locationScore is the tiered fallback. Distance scoring against
// coordinates is an extension point deliberately left unimplemented; the
// max_distance_km hint is carried in the profile but unused here.
func (s *Scorer) locationScore(profile *models.PatientProfile, c *models.Candidate) int {
	if profile == nil || profile.Location == nil {
		return 50
	}
	loc := profile.Location
	if loc.City == "" && loc.Region == "" {
		return 50
	}
	if samePlace(loc.City, c.City) {
		return 100
	}
	if samePlace(loc.Region, c.Region) {
		return 75
	}
	return 30
}

// availabilityScore combines unit count (up to 60 points, saturating at 5
// units) with report freshness (10-40 points). No report at all scores 0.
func (s *Scorer) availabilityScore(c *models.Candidate, now time.Time) int {
	if c.Availability == nil {
		return 0
	}
	units := c.Availability.UnitsAvailable
	if units < 0 {
		units = 0
	}
	unitsScore := math.Min(float64(units)/5.0, 1.0) * 60

	age := now.Sub(c.Availability.ReportedAt)
	var freshness float64
	switch {
	case age < 24*time.Hour:
		freshness = 40
	case age < 48*time.Hour:
		freshness = 30
	case age < 7*24*time.Hour:
		freshness = 20
	default:
		freshness = 10
	}

	return int(math.Round(unitsScore + freshness))
}

// responsivenessScore blends the residence rating (up to 60 points) with how
// quickly it historically answers inquiries (up to 40 points).
func (s *Scorer) responsivenessScore(c *models.Candidate) int {
	ratingComponent := 30.0
	if c.Rating != nil {
		rating := math.Min(math.Max(*c.Rating, 0), 5)
		ratingComponent = rating / 5.0 * 60
	}

	responseComponent := 20.0
	if c.ResponseTimeHours != nil {
		switch rt := *c.ResponseTimeHours; {
		case rt <= 4:
			responseComponent = 40
		case rt <= 12:
			responseComponent = 30
		case rt <= 24:
			responseComponent = 20
		default:
			responseComponent = 10
		}
	}

	return int(math.Round(ratingComponent + responseComponent))
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
