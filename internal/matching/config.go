// internal/matching/config.go
package matching

// Weights are the fixed sub-score weights. They sum to 1.0.
type Weights struct {
	Budget         float64
	Care           float64
	Location       float64
	Availability   float64
	Responsiveness float64
}

// ReasonThresholds are the cut-offs at which a sub-score contributes a
// human-readable match reason.
type ReasonThresholds struct {
	BudgetExcellent int
	BudgetGood      int
	CareSpecialized int
	CareSuitable    int
	LocationPerfect int
	LocationGood    int
	// AvailabilityMany is the unit count above which the reason quotes the
	// exact number of free units.
	AvailabilityMany int
	RatingHigh       float64
	RatingGood       float64
}

// ScoringConfig centralizes every constant the engine uses so tests can
// assert on them directly and tuning never touches scoring logic.
//
// Note the deliberate asymmetry between FilterCeilingFactor and the two
// soft-penalty bands: the repository filter casts a 20%-widened net while
// soft scoring penalizes with 30%/50% bands. The filter overselects on
// purpose and relies on ranking to sort it out.
type ScoringConfig struct {
	Weights Weights

	// BudgetUnderBand is the relative shortfall beyond which an
	// under-budget candidate scores 0.
	BudgetUnderBand float64
	// BudgetOverBand is the relative overshoot beyond which an over-budget
	// candidate bottoms out at the over-budget floor score.
	BudgetOverBand float64
	// FilterCeilingFactor widens the repository-stage budget ceiling for
	// flexible and negotiable budgets.
	FilterCeilingFactor float64

	Reasons ReasonThresholds
}

// DefaultConfig returns the production scoring configuration.
func DefaultConfig() ScoringConfig {
	return ScoringConfig{
		Weights: Weights{
			Budget:         0.30,
			Care:           0.25,
			Location:       0.20,
			Availability:   0.15,
			Responsiveness: 0.10,
		},
		BudgetUnderBand:     0.30,
		BudgetOverBand:      0.50,
		FilterCeilingFactor: 1.20,
		Reasons: ReasonThresholds{
			BudgetExcellent:  80,
			BudgetGood:       60,
			CareSpecialized:  80,
			CareSuitable:     60,
			LocationPerfect:  90,
			LocationGood:     70,
			AvailabilityMany: 3,
			RatingHigh:       4.5,
			RatingGood:       4.0,
		},
	}
}

// conditionCapabilities maps each recognized medical condition to the care
// capability a residence must list to count as a match for it.
var conditionCapabilities = map[string]string{
	"alzheimers":        "memory_care",
	"parkinsons":        "parkinsons_care",
	"mobility_issues":   "mobility_assistance",
	"cognitive_decline": "cognitive_support",
}
