// internal/workers/matching/calculate-match-score/handler.go
package calculatematchscore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rpa-match-workers/internal/common/logger"
	"rpa-match-workers/internal/common/metrics"
	"rpa-match-workers/internal/matching"
	"rpa-match-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "calculate-match-score"

type Handler struct {
	config *Config
	scorer *matching.Scorer
	logger logger.Logger
}

func NewHandler(config *Config, scorer *matching.Scorer, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		scorer: scorer,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		h.failJob(client, job, "MATCH_SCORING_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.PatientProfile == nil {
		return nil, fmt.Errorf("patientProfile is required")
	}

	// One timestamp for the whole batch keeps freshness scoring consistent
	now := time.Now().UTC()

	results := make([]models.MatchResult, 0, len(input.Candidates))
	for i := range input.Candidates {
		result := h.scorer.Score(input.PatientProfile, &input.Candidates[i], now)
		metrics.MatchScores.Observe(float64(result.Score))
		results = append(results, result)
	}

	h.logger.Info("candidates scored", map[string]interface{}{
		"count": len(results),
	})

	return &Output{Results: results}, nil
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
