// internal/workers/matching/find-matches/handler.go
package findmatches

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	commonerrors "rpa-match-workers/internal/common/errors"
	"rpa-match-workers/internal/common/logger"
	"rpa-match-workers/internal/common/metrics"
	"rpa-match-workers/internal/matching"
	"rpa-match-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "find-matches"

// CandidateSource is what the repository provides.
type CandidateSource interface {
	QueryCandidates(ctx context.Context, filters models.HardFilters) ([]models.Candidate, error)
}

// Handler runs the whole match pipeline in a single job: hard filters,
// candidate retrieval, scoring, ranking and pagination.
type Handler struct {
	config       *Config
	repo         CandidateSource
	scorer       *matching.Scorer
	scoringCfg   matching.ScoringConfig
	errorHandler *commonerrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, repo CandidateSource, scoringCfg matching.ScoringConfig, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		repo:         repo,
		scorer:       matching.NewScorer(scoringCfg),
		scoringCfg:   scoringCfg,
		errorHandler: commonerrors.NewErrorHandler(log),
		logger:       log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCodeOf(err)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.PatientProfile == nil {
		return nil, commonerrors.NewProfileRequiredError()
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}
	if limit > h.config.MaxLimit {
		limit = h.config.MaxLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}
	requireAvailability := true
	if input.RequireAvailability != nil {
		requireAvailability = *input.RequireAvailability
	}

	filters := matching.BuildHardFilters(input.PatientProfile, h.scoringCfg)

	candidates, err := h.repo.QueryCandidates(ctx, filters)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	results := make([]models.MatchResult, 0, len(candidates))
	for i := range candidates {
		result := h.scorer.Score(input.PatientProfile, &candidates[i], now)
		metrics.MatchScores.Observe(float64(result.Score))
		results = append(results, result)
	}

	page, hasMore := matching.Rank(results, models.MatchOptions{
		Limit:               limit,
		Offset:              offset,
		RequireAvailability: requireAvailability,
	})

	output := &Output{
		RequestID: uuid.New().String(),
		Matches:   page,
		Total:     len(page),
		HasMore:   hasMore,
	}

	h.logger.Info("matches computed", map[string]interface{}{
		"requestId":  output.RequestID,
		"candidates": len(candidates),
		"returned":   len(page),
		"hasMore":    hasMore,
	})

	return output, nil
}

func errorCodeOf(err error) string {
	if stdErr, ok := err.(*commonerrors.StandardError); ok {
		return string(stdErr.Code)
	}
	return "INTERNAL_ERROR"
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
