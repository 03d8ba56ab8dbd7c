// internal/matching/scoring_test.go
package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpa-match-workers/internal/models"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func testCandidate() *models.Candidate {
	return &models.Candidate{
		ID:                "rpa-001",
		Name:              "Résidence du Parc",
		City:              "Gatineau",
		Region:            "Outaouais",
		PricingMin:        floatPtr(2000),
		PricingMax:        floatPtr(3000),
		Rating:            floatPtr(4.6),
		ResponseTimeHours: floatPtr(3),
		Category:          intPtr(2),
		CareCapabilities:  []string{"memory_care", "mobility_assistance"},
		Availability: &models.AvailabilitySnapshot{
			UnitsAvailable: 4,
			ReportedAt:     testNow.Add(-2 * time.Hour),
		},
	}
}

func TestBudgetScore(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	tests := []struct {
		name     string
		budget   *models.Budget
		min, max *float64
		expected int
	}{
		{
			name:     "no budget stated is neutral",
			budget:   nil,
			min:      floatPtr(2000),
			max:      floatPtr(3000),
			expected: 50,
		},
		{
			name:     "budget exactly at midpoint",
			budget:   &models.Budget{Amount: 2500},
			min:      floatPtr(2000),
			max:      floatPtr(3000),
			expected: 100,
		},
		{
			name:     "budget in range off midpoint",
			budget:   &models.Budget{Amount: 2700},
			min:      floatPtr(2000),
			max:      floatPtr(3000),
			expected: 92, // 80 + 20*(1 - 200/500)
		},
		{
			name:     "budget at range edge",
			budget:   &models.Budget{Amount: 2000},
			min:      floatPtr(2000),
			max:      floatPtr(3000),
			expected: 80,
		},
		{
			name:     "degenerate range hit exactly",
			budget:   &models.Budget{Amount: 2500},
			min:      floatPtr(2500),
			max:      floatPtr(2500),
			expected: 100,
		},
		{
			name:     "under floor within band",
			budget:   &models.Budget{Amount: 2000},
			min:      floatPtr(2400),
			max:      floatPtr(3000),
			expected: 17, // shortfall 0.20 of band 0.30 -> 50*(1/3)
		},
		{
			name:     "under floor beyond band",
			budget:   &models.Budget{Amount: 1500},
			min:      floatPtr(2000),
			max:      floatPtr(3000),
			expected: 0, // shortfall 0.333 > 0.30
		},
		{
			name:     "over ceiling within band",
			budget:   &models.Budget{Amount: 3000},
			min:      floatPtr(1500),
			max:      floatPtr(2500),
			expected: 53, // overshoot 0.1667 -> 60 - 6.67
		},
		{
			name:     "over ceiling beyond band floors at 30",
			budget:   &models.Budget{Amount: 6000},
			min:      floatPtr(1500),
			max:      floatPtr(2500),
			expected: 30,
		},
		{
			name:     "missing pricing is neutral",
			budget:   &models.Budget{Amount: 2500},
			min:      nil,
			max:      nil,
			expected: 50,
		},
		{
			name:     "contradictory pricing degrades to neutral",
			budget:   &models.Budget{Amount: 2500},
			min:      floatPtr(3000),
			max:      floatPtr(2000),
			expected: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &models.PatientProfile{Budget: tt.budget}
			candidate := &models.Candidate{PricingMin: tt.min, PricingMax: tt.max}
			assert.Equal(t, tt.expected, scorer.budgetScore(profile, candidate))
		})
	}
}

func TestCareScore(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	tests := []struct {
		name       string
		autonomy   models.AutonomyLevel
		conditions *models.Conditions
		category   *int
		caps       []string
		expected   int
	}{
		{
			name:     "nothing stated is neutral base",
			expected: 50,
		},
		{
			name:     "semi autonomous fits category 2",
			autonomy: models.AutonomySemiAutonomous,
			category: intPtr(2),
			expected: 80,
		},
		{
			name:     "semi autonomous fits category 3",
			autonomy: models.AutonomySemiAutonomous,
			category: intPtr(3),
			expected: 80,
		},
		{
			name:     "autonomous misfits category 4",
			autonomy: models.AutonomyAutonomous,
			category: intPtr(4),
			expected: 60,
		},
		{
			name:     "loss of independence fits category 3",
			autonomy: models.AutonomyLossOfIndependence,
			category: intPtr(3),
			expected: 80,
		},
		{
			name:     "autonomy stated but category unknown stays base",
			autonomy: models.AutonomyAutonomous,
			expected: 50,
		},
		{
			name:       "all stated conditions covered",
			autonomy:   models.AutonomySemiAutonomous,
			category:   intPtr(2),
			conditions: &models.Conditions{Alzheimers: true},
			caps:       []string{"memory_care"},
			expected:   100, // 50 + 30 + 20
		},
		{
			name:       "half of stated conditions covered",
			conditions: &models.Conditions{Alzheimers: true, Parkinsons: true},
			caps:       []string{"memory_care"},
			expected:   60, // 50 + round(0.5*20)
		},
		{
			name:       "free-text conditions do not enter the ratio",
			conditions: &models.Conditions{Other: []string{"osteoporosis"}},
			expected:   50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &models.PatientProfile{Autonomy: tt.autonomy, Conditions: tt.conditions}
			candidate := &models.Candidate{Category: tt.category, CareCapabilities: tt.caps}
			assert.Equal(t, tt.expected, scorer.careScore(profile, candidate))
		})
	}
}

func TestLocationScore(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	tests := []struct {
		name     string
		location *models.LocationPreference
		expected int
	}{
		{name: "nothing stated is neutral", location: nil, expected: 50},
		{name: "empty preference is neutral", location: &models.LocationPreference{}, expected: 50},
		{name: "city match", location: &models.LocationPreference{City: "Gatineau"}, expected: 100},
		{
			name:     "city match ignores case and accents",
			location: &models.LocationPreference{City: "gatineau "},
			expected: 100,
		},
		{
			name:     "region match when city misses",
			location: &models.LocationPreference{City: "Hull", Region: "Outaouais"},
			expected: 75,
		},
		{
			name:     "stated but nothing matches",
			location: &models.LocationPreference{City: "Laval"},
			expected: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &models.PatientProfile{Location: tt.location}
			assert.Equal(t, tt.expected, scorer.locationScore(profile, testCandidate()))
		})
	}
}

func TestLocationScoreDiacritics(t *testing.T) {
	scorer := NewScorer(DefaultConfig())
	candidate := &models.Candidate{City: "Trois-Rivières"}
	profile := &models.PatientProfile{Location: &models.LocationPreference{City: "trois-rivieres"}}
	assert.Equal(t, 100, scorer.locationScore(profile, candidate))
}

func TestAvailabilityScore(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	tests := []struct {
		name     string
		snapshot *models.AvailabilitySnapshot
		expected int
	}{
		{name: "no record at all", snapshot: nil, expected: 0},
		{
			name:     "four units reported two hours ago",
			snapshot: &models.AvailabilitySnapshot{UnitsAvailable: 4, ReportedAt: testNow.Add(-2 * time.Hour)},
			expected: 88, // 48 + 40
		},
		{
			name:     "saturated units and fresh report",
			snapshot: &models.AvailabilitySnapshot{UnitsAvailable: 10, ReportedAt: testNow.Add(-1 * time.Hour)},
			expected: 100,
		},
		{
			name:     "zero units three days old",
			snapshot: &models.AvailabilitySnapshot{UnitsAvailable: 0, ReportedAt: testNow.Add(-72 * time.Hour)},
			expected: 20,
		},
		{
			name:     "stale report older than a week",
			snapshot: &models.AvailabilitySnapshot{UnitsAvailable: 5, ReportedAt: testNow.Add(-10 * 24 * time.Hour)},
			expected: 70, // 60 + 10
		},
		{
			name:     "day-old report",
			snapshot: &models.AvailabilitySnapshot{UnitsAvailable: 2, ReportedAt: testNow.Add(-30 * time.Hour)},
			expected: 54, // 24 + 30
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := &models.Candidate{Availability: tt.snapshot}
			assert.Equal(t, tt.expected, scorer.availabilityScore(candidate, testNow))
		})
	}
}

func TestResponsivenessScore(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	tests := []struct {
		name     string
		rating   *float64
		respTime *float64
		expected int
	}{
		{name: "no data is neutral", expected: 50}, // 30 + 20
		{name: "top rating and fast response", rating: floatPtr(5), respTime: floatPtr(2), expected: 100},
		{name: "rated 4.6 answering in 3h", rating: floatPtr(4.6), respTime: floatPtr(3), expected: 95},
		{name: "slow responder", rating: floatPtr(3), respTime: floatPtr(48), expected: 46}, // 36 + 10
		{name: "rating only", rating: floatPtr(4), expected: 68},                           // 48 + 20
		{name: "response time only", respTime: floatPtr(10), expected: 60},                 // 30 + 30
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := &models.Candidate{Rating: tt.rating, ResponseTimeHours: tt.respTime}
			assert.Equal(t, tt.expected, scorer.responsivenessScore(candidate))
		})
	}
}

func TestScoreGatineauScenario(t *testing.T) {
	scorer := NewScorer(DefaultConfig())
	profile := &models.PatientProfile{
		Autonomy: models.AutonomySemiAutonomous,
		Budget:   &models.Budget{Amount: 2500, Flexibility: models.FlexibilityFlexible},
		Location: &models.LocationPreference{City: "Gatineau"},
	}

	result := scorer.Score(profile, testCandidate(), testNow)

	assert.Equal(t, 100, result.MatchDetails.BudgetMatch)
	assert.Equal(t, 80, result.MatchDetails.CareMatch)
	assert.Equal(t, 100, result.MatchDetails.LocationMatch)
	assert.Equal(t, 88, result.MatchDetails.AvailabilityMatch)
	assert.Equal(t, 95, result.MatchDetails.ResponsivenessMatch)
	// 100*.30 + 80*.25 + 100*.20 + 88*.15 + 95*.10 = 92.7
	assert.Equal(t, 93, result.Score)

	assert.Equal(t, []string{
		"Excellent budget match",
		"Specialized care available",
		"Perfect location match",
		"4 units available now",
		"Highly rated residence",
	}, result.Reasons)

	assert.Equal(t, 4, result.Availability.UnitsAvailable)
	require.NotNil(t, result.Availability.LastUpdated)
	assert.Equal(t, testNow.Add(-2*time.Hour), *result.Availability.LastUpdated)
	assert.Equal(t, "Résidence du Parc", result.RPAInfo.Name)
}

func TestScoreEmptyProfileIsNeutral(t *testing.T) {
	scorer := NewScorer(DefaultConfig())
	candidate := &models.Candidate{ID: "rpa-002", Name: "Villa des Pins"}

	result := scorer.Score(&models.PatientProfile{}, candidate, testNow)

	assert.Equal(t, 50, result.MatchDetails.BudgetMatch)
	assert.Equal(t, 50, result.MatchDetails.CareMatch)
	assert.Equal(t, 50, result.MatchDetails.LocationMatch)
	assert.Equal(t, 0, result.MatchDetails.AvailabilityMatch)
	assert.Equal(t, 50, result.MatchDetails.ResponsivenessMatch)
	assert.Empty(t, result.Reasons)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
}

func TestScoreIsDeterministic(t *testing.T) {
	scorer := NewScorer(DefaultConfig())
	profile := &models.PatientProfile{
		Autonomy: models.AutonomySemiAutonomous,
		Budget:   &models.Budget{Amount: 2400, Flexibility: models.FlexibilityNegotiable},
		Location: &models.LocationPreference{Region: "Outaouais"},
		Conditions: &models.Conditions{
			Alzheimers:     true,
			MobilityIssues: true,
		},
	}

	first := scorer.Score(profile, testCandidate(), testNow)
	second := scorer.Score(profile, testCandidate(), testNow)
	assert.Equal(t, first, second)
}

func TestCompositeStaysInRange(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	details := []models.MatchDetails{
		{},
		{BudgetMatch: 100, CareMatch: 100, LocationMatch: 100, AvailabilityMatch: 100, ResponsivenessMatch: 100},
		{BudgetMatch: 17, CareMatch: 60, LocationMatch: 30, AvailabilityMatch: 88, ResponsivenessMatch: 46},
	}
	for _, d := range details {
		score := scorer.composite(d)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}

	perfect := scorer.composite(details[1])
	assert.Equal(t, 100, perfect)
}
