// internal/workers/matching/find-matches/handler_test.go
package findmatches

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "rpa-match-workers/internal/common/errors"
	"rpa-match-workers/internal/common/logger"
	"rpa-match-workers/internal/matching"
	"rpa-match-workers/internal/models"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func boolPtr(b bool) *bool        { return &b }

type stubSource struct {
	candidates []models.Candidate
	err        error
	gotFilters models.HardFilters
	calls      int
}

func (s *stubSource) QueryCandidates(_ context.Context, filters models.HardFilters) ([]models.Candidate, error) {
	s.calls++
	s.gotFilters = filters
	return s.candidates, s.err
}

func newTestHandler(t *testing.T, source *stubSource) *Handler {
	return NewHandler(LoadConfig(), source, matching.DefaultConfig(), logger.NewTestLogger(t))
}

func gatineauCandidates() []models.Candidate {
	return []models.Candidate{
		{
			ID:                "rpa-001",
			Name:              "Résidence du Parc",
			City:              "Gatineau",
			Region:            "Outaouais",
			PricingMin:        floatPtr(2000),
			PricingMax:        floatPtr(3000),
			Rating:            floatPtr(4.6),
			ResponseTimeHours: floatPtr(3),
			Category:          intPtr(2),
			CareCapabilities:  []string{"memory_care"},
			Availability: &models.AvailabilitySnapshot{
				UnitsAvailable: 4,
				ReportedAt:     time.Now().UTC().Add(-2 * time.Hour),
			},
		},
		{
			ID:     "rpa-002",
			Name:   "Villa des Pins",
			City:   "Laval",
			Region: "Laval",
			Availability: &models.AvailabilitySnapshot{
				UnitsAvailable: 1,
				ReportedAt:     time.Now().UTC().Add(-30 * time.Hour),
			},
		},
		{
			ID:     "rpa-003",
			Name:   "Manoir du Plateau",
			City:   "Gatineau",
			Region: "Outaouais",
			// No availability report on file
		},
	}
}

func TestExecute_EndToEnd(t *testing.T) {
	source := &stubSource{candidates: gatineauCandidates()}
	handler := newTestHandler(t, source)

	output, err := handler.Execute(context.Background(), &Input{
		PatientProfile: &models.PatientProfile{
			Autonomy: models.AutonomySemiAutonomous,
			Budget:   &models.Budget{Amount: 2500, Flexibility: models.FlexibilityFlexible},
			Location: &models.LocationPreference{City: "Gatineau"},
		},
	})

	require.NoError(t, err)

	_, parseErr := uuid.Parse(output.RequestID)
	assert.NoError(t, parseErr)

	// rpa-003 has no availability and is dropped by the default filter
	require.Len(t, output.Matches, 2)
	assert.Equal(t, "rpa-001", output.Matches[0].RPAID)
	assert.Equal(t, "rpa-002", output.Matches[1].RPAID)
	assert.Greater(t, output.Matches[0].Score, output.Matches[1].Score)
	assert.Equal(t, 2, output.Total)
	assert.False(t, output.HasMore)

	// Flexible budget widens the retrieval ceiling
	require.NotNil(t, source.gotFilters.PricingFloorMax)
	assert.InDelta(t, 3000, *source.gotFilters.PricingFloorMax, 0.001)
	assert.Nil(t, source.gotFilters.PricingCeilingMin)
	assert.Equal(t, "gatineau", source.gotFilters.City)
}

func TestExecute_MissingProfile(t *testing.T) {
	handler := newTestHandler(t, &stubSource{})

	_, err := handler.Execute(context.Background(), &Input{})

	require.Error(t, err)
	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeProfileRequired, stdErr.Code)
	assert.False(t, stdErr.Retryable)
}

func TestExecute_RepositoryErrorPropagates(t *testing.T) {
	repoErr := commonerrors.NewRepositoryConnectionFailedError(assert.AnError)
	handler := newTestHandler(t, &stubSource{err: repoErr})

	_, err := handler.Execute(context.Background(), &Input{
		PatientProfile: &models.PatientProfile{},
	})

	require.Error(t, err)
	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeRepositoryConnectionFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestExecute_NoCandidates(t *testing.T) {
	handler := newTestHandler(t, &stubSource{candidates: []models.Candidate{}})

	output, err := handler.Execute(context.Background(), &Input{
		PatientProfile: &models.PatientProfile{},
	})

	require.NoError(t, err)
	assert.Empty(t, output.Matches)
	assert.Equal(t, 0, output.Total)
	assert.False(t, output.HasMore)
	assert.NotEmpty(t, output.RequestID)
}

func TestExecute_PaginationDefaults(t *testing.T) {
	candidates := make([]models.Candidate, 0, 15)
	for i := 0; i < 15; i++ {
		candidates = append(candidates, models.Candidate{
			ID:   string(rune('a' + i)),
			Name: "Residence",
			Availability: &models.AvailabilitySnapshot{
				UnitsAvailable: 1,
				ReportedAt:     time.Now().UTC(),
			},
		})
	}
	handler := newTestHandler(t, &stubSource{candidates: candidates})

	output, err := handler.Execute(context.Background(), &Input{
		PatientProfile: &models.PatientProfile{},
	})

	require.NoError(t, err)
	assert.Len(t, output.Matches, 10)
	assert.True(t, output.HasMore)
}

func TestExecute_LimitClampedToMax(t *testing.T) {
	handler := newTestHandler(t, &stubSource{candidates: []models.Candidate{}})

	output, err := handler.Execute(context.Background(), &Input{
		PatientProfile: &models.PatientProfile{},
		Limit:          1000,
	})

	require.NoError(t, err)
	assert.NotNil(t, output)
}

func TestExecute_IncludeUnavailable(t *testing.T) {
	source := &stubSource{candidates: gatineauCandidates()}
	handler := newTestHandler(t, source)

	output, err := handler.Execute(context.Background(), &Input{
		PatientProfile:      &models.PatientProfile{},
		RequireAvailability: boolPtr(false),
	})

	require.NoError(t, err)
	assert.Len(t, output.Matches, 3)
}
