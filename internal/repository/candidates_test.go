// internal/repository/candidates_test.go
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "rpa-match-workers/internal/common/errors"
	"rpa-match-workers/internal/common/logger"
	"rpa-match-workers/internal/models"
)

var candidateColumns = []string{
	"id", "name", "city", "region",
	"pricing_min", "pricing_max", "rating", "response_time_hours",
	"category", "care_capabilities",
	"units_available", "reported_at",
}

func floatPtr(f float64) *float64 { return &f }

func newTestRepository(t *testing.T) (*CandidateRepository, sqlmock.Sqlmock, *miniredis.Miniredis) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo := NewCandidateRepository(db, rdb, 5*time.Minute, 500, logger.NewTestLogger(t))
	return repo, mock, mr
}

func TestQueryCandidatesScansRows(t *testing.T) {
	repo, mock, _ := newTestRepository(t)

	reportedAt := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT r.id, r.name, r.city, r.region").
		WithArgs(500).
		WillReturnRows(sqlmock.NewRows(candidateColumns).
			AddRow("rpa-001", "Résidence du Parc", "Gatineau", "Outaouais",
				2000.0, 3000.0, 4.6, 3.0,
				2, []byte(`["memory_care","mobility_assistance"]`),
				4, reportedAt).
			AddRow("rpa-002", "Villa des Pins", nil, nil,
				nil, nil, nil, nil,
				nil, nil,
				nil, nil))

	candidates, err := repo.QueryCandidates(context.Background(), models.HardFilters{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	first := candidates[0]
	assert.Equal(t, "rpa-001", first.ID)
	assert.Equal(t, "Gatineau", first.City)
	require.NotNil(t, first.PricingMin)
	assert.InDelta(t, 2000.0, *first.PricingMin, 0.001)
	require.NotNil(t, first.Category)
	assert.Equal(t, 2, *first.Category)
	assert.Equal(t, []string{"memory_care", "mobility_assistance"}, first.CareCapabilities)
	require.NotNil(t, first.Availability)
	assert.Equal(t, 4, first.Availability.UnitsAvailable)
	assert.True(t, reportedAt.Equal(first.Availability.ReportedAt))

	second := candidates[1]
	assert.Equal(t, "rpa-002", second.ID)
	assert.Nil(t, second.PricingMin)
	assert.Nil(t, second.Category)
	assert.Nil(t, second.Availability)
	assert.Empty(t, second.CareCapabilities)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryCandidatesAppliesFilters(t *testing.T) {
	repo, mock, _ := newTestRepository(t)

	mock.ExpectQuery(`pricing_min IS NULL OR r.pricing_min <= \$1.*lower\(unaccent\(r.city\)\) = \$2`).
		WithArgs(3000.0, "gatineau", 500).
		WillReturnRows(sqlmock.NewRows(candidateColumns))

	filters := models.HardFilters{
		ActiveOnly:      true,
		PricingFloorMax: floatPtr(3000),
		City:            "gatineau",
	}
	candidates, err := repo.QueryCandidates(context.Background(), filters)
	require.NoError(t, err)
	assert.Empty(t, candidates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryCandidatesStrictBudgetFilters(t *testing.T) {
	repo, mock, _ := newTestRepository(t)

	mock.ExpectQuery(`pricing_min IS NULL OR r.pricing_min <= \$1.*pricing_max IS NULL OR r.pricing_max >= \$2`).
		WithArgs(2500.0, 2500.0, 500).
		WillReturnRows(sqlmock.NewRows(candidateColumns))

	filters := models.HardFilters{
		ActiveOnly:        true,
		PricingFloorMax:   floatPtr(2500),
		PricingCeilingMin: floatPtr(2500),
	}
	_, err := repo.QueryCandidates(context.Background(), filters)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryCandidatesRegionFilterWhenNoCity(t *testing.T) {
	repo, mock, _ := newTestRepository(t)

	mock.ExpectQuery(`lower\(unaccent\(r.region\)\) = \$1`).
		WithArgs("outaouais", 500).
		WillReturnRows(sqlmock.NewRows(candidateColumns))

	_, err := repo.QueryCandidates(context.Background(), models.HardFilters{ActiveOnly: true, Region: "outaouais"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryCandidatesCachesResults(t *testing.T) {
	repo, mock, _ := newTestRepository(t)

	mock.ExpectQuery("SELECT r.id").
		WithArgs(500).
		WillReturnRows(sqlmock.NewRows(candidateColumns).
			AddRow("rpa-001", "Résidence du Parc", "Gatineau", "Outaouais",
				2000.0, 3000.0, 4.6, 3.0,
				2, []byte(`["memory_care"]`),
				4, time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)))

	filters := models.HardFilters{ActiveOnly: true}

	first, err := repo.QueryCandidates(context.Background(), filters)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Second call must come out of Redis: sqlmock has no further expectations
	second, err := repo.QueryCandidates(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[0].CareCapabilities, second[0].CareCapabilities)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryCandidatesWrapsQueryErrors(t *testing.T) {
	repo, mock, _ := newTestRepository(t)

	mock.ExpectQuery("SELECT r.id").
		WillReturnError(assert.AnError)

	_, err := repo.QueryCandidates(context.Background(), models.HardFilters{ActiveOnly: true})
	require.Error(t, err)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeRepositoryQueryFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestCacheKeyDistinguishesFilters(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	base := repo.cacheKey(models.HardFilters{ActiveOnly: true})
	withCity := repo.cacheKey(models.HardFilters{ActiveOnly: true, City: "gatineau"})
	withBudget := repo.cacheKey(models.HardFilters{ActiveOnly: true, PricingFloorMax: floatPtr(3000)})

	assert.NotEqual(t, base, withCity)
	assert.NotEqual(t, base, withBudget)
	assert.NotEqual(t, withCity, withBudget)
}
