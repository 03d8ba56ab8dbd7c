// internal/repository/candidates.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	commonerrors "rpa-match-workers/internal/common/errors"
	"rpa-match-workers/internal/common/logger"
	"rpa-match-workers/internal/common/metrics"
	"rpa-match-workers/internal/models"
)

// CandidateRepository retrieves active residences with their latest
// availability snapshot. Results are cached per filter set in Redis; the
// cache is best effort and never fails a query.
type CandidateRepository struct {
	db            *sql.DB
	redis         *redis.Client
	cacheTTL      time.Duration
	maxCandidates int
	logger        logger.Logger
}

func NewCandidateRepository(db *sql.DB, rdb *redis.Client, cacheTTL time.Duration, maxCandidates int, log logger.Logger) *CandidateRepository {
	if maxCandidates <= 0 {
		maxCandidates = 500
	}
	return &CandidateRepository{
		db:            db,
		redis:         rdb,
		cacheTTL:      cacheTTL,
		maxCandidates: maxCandidates,
		logger:        log.WithFields(map[string]interface{}{"component": "candidate-repository"}),
	}
}

// QueryCandidates applies the hard filters at the database and returns every
// surviving residence. Ordering is by residence id so reruns of the same
// filter set see the same sequence.
func (r *CandidateRepository) QueryCandidates(ctx context.Context, filters models.HardFilters) ([]models.Candidate, error) {
	cacheKey := r.cacheKey(filters)
	if cached := r.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	query, args := buildCandidateQuery(filters, r.maxCandidates)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, commonerrors.NewRepositoryTimeoutError("query-candidates")
		}
		return nil, commonerrors.NewRepositoryQueryFailedError("query-candidates", err)
	}
	defer rows.Close()

	candidates := make([]models.Candidate, 0)
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, commonerrors.NewRepositoryQueryFailedError("scan-candidate", err)
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewRepositoryQueryFailedError("iterate-candidates", err)
	}

	metrics.CandidatesRetrieved.Observe(float64(len(candidates)))
	r.toCache(ctx, cacheKey, candidates)

	return candidates, nil
}

// buildCandidateQuery assembles the filtered select. The lateral join picks
// the most recent availability report per residence; residences that never
// reported stay in the result with null availability.
func buildCandidateQuery(filters models.HardFilters, maxCandidates int) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT r.id, r.name, r.city, r.region,
		       r.pricing_min, r.pricing_max, r.rating, r.response_time_hours,
		       r.category, r.care_capabilities,
		       a.units_available, a.reported_at
		FROM rpas r
		LEFT JOIN LATERAL (
			SELECT units_available, reported_at
			FROM availability
			WHERE rpa_id = r.id
			ORDER BY reported_at DESC
			LIMIT 1
		) a ON true
		WHERE r.is_active = true`)

	args := make([]interface{}, 0, 4)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filters.PricingFloorMax != nil {
		// Unpriced residences pass; scoring treats them as neutral
		sb.WriteString(fmt.Sprintf(" AND (r.pricing_min IS NULL OR r.pricing_min <= %s)", arg(*filters.PricingFloorMax)))
	}
	if filters.PricingCeilingMin != nil {
		sb.WriteString(fmt.Sprintf(" AND (r.pricing_max IS NULL OR r.pricing_max >= %s)", arg(*filters.PricingCeilingMin)))
	}
	if filters.City != "" {
		sb.WriteString(fmt.Sprintf(" AND lower(unaccent(r.city)) = %s", arg(filters.City)))
	} else if filters.Region != "" {
		sb.WriteString(fmt.Sprintf(" AND lower(unaccent(r.region)) = %s", arg(filters.Region)))
	}

	sb.WriteString(fmt.Sprintf(" ORDER BY r.id LIMIT %s", arg(maxCandidates)))

	return sb.String(), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCandidate(row rowScanner) (models.Candidate, error) {
	var (
		c          models.Candidate
		city       sql.NullString
		region     sql.NullString
		pricingMin sql.NullFloat64
		pricingMax sql.NullFloat64
		rating     sql.NullFloat64
		respTime   sql.NullFloat64
		category   sql.NullInt64
		rawCaps    []byte
		units      sql.NullInt64
		reportedAt sql.NullTime
	)

	if err := row.Scan(&c.ID, &c.Name, &city, &region,
		&pricingMin, &pricingMax, &rating, &respTime,
		&category, &rawCaps, &units, &reportedAt); err != nil {
		return models.Candidate{}, err
	}

	c.City = city.String
	c.Region = region.String
	if pricingMin.Valid {
		c.PricingMin = &pricingMin.Float64
	}
	if pricingMax.Valid {
		c.PricingMax = &pricingMax.Float64
	}
	if rating.Valid {
		c.Rating = &rating.Float64
	}
	if respTime.Valid {
		c.ResponseTimeHours = &respTime.Float64
	}
	if category.Valid {
		cat := int(category.Int64)
		c.Category = &cat
	}

	if len(rawCaps) > 0 {
		if err := json.Unmarshal(rawCaps, &c.CareCapabilities); err != nil {
			c.CareCapabilities = []string{}
		}
	}

	if units.Valid && reportedAt.Valid {
		c.Availability = &models.AvailabilitySnapshot{
			UnitsAvailable: int(units.Int64),
			ReportedAt:     reportedAt.Time,
		}
	}

	return c, nil
}

func (r *CandidateRepository) cacheKey(filters models.HardFilters) string {
	floorMax, ceilingMin := "-", "-"
	if filters.PricingFloorMax != nil {
		floorMax = strconv.FormatFloat(*filters.PricingFloorMax, 'f', 2, 64)
	}
	if filters.PricingCeilingMin != nil {
		ceilingMin = strconv.FormatFloat(*filters.PricingCeilingMin, 'f', 2, 64)
	}
	return fmt.Sprintf("match:candidates:%s:%s:%s:%s", floorMax, ceilingMin, filters.City, filters.Region)
}

func (r *CandidateRepository) fromCache(ctx context.Context, key string) []models.Candidate {
	if r.redis == nil {
		return nil
	}
	val, err := r.redis.Get(ctx, key).Result()
	if err != nil {
		metrics.CandidateCacheHits.WithLabelValues("miss").Inc()
		return nil
	}

	var candidates []models.Candidate
	if err := json.Unmarshal([]byte(val), &candidates); err != nil {
		metrics.CandidateCacheHits.WithLabelValues("corrupt").Inc()
		return nil
	}
	metrics.CandidateCacheHits.WithLabelValues("hit").Inc()
	return candidates
}

func (r *CandidateRepository) toCache(ctx context.Context, key string, candidates []models.Candidate) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, key, data, r.cacheTTL).Err(); err != nil {
		r.logger.Warn("failed to cache candidates", map[string]interface{}{
			"key":   key,
			"error": err,
		})
	}
}
