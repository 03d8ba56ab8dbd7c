// internal/workers/matching/query-candidates/handler.go
package querycandidates

import (
	"context"
	"encoding/json"
	"fmt"

	commonerrors "rpa-match-workers/internal/common/errors"
	"rpa-match-workers/internal/common/logger"
	"rpa-match-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "query-candidates"

// CandidateSource is what the repository provides.
type CandidateSource interface {
	QueryCandidates(ctx context.Context, filters models.HardFilters) ([]models.Candidate, error)
}

type Handler struct {
	config       *Config
	repo         CandidateSource
	errorHandler *commonerrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, repo CandidateSource, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		repo:         repo,
		errorHandler: commonerrors.NewErrorHandler(log),
		logger:       log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
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
		// Repository failures go through the retry-aware handler
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	candidates, err := h.repo.QueryCandidates(ctx, input.Filters)
	if err != nil {
		return nil, err
	}

	h.logger.Info("candidates retrieved", map[string]interface{}{
		"count":  len(candidates),
		"city":   input.Filters.City,
		"region": input.Filters.Region,
	})

	return &Output{
		Candidates:     candidates,
		CandidateCount: len(candidates),
	}, nil
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
