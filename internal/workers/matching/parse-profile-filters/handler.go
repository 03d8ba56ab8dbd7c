// internal/workers/matching/parse-profile-filters/handler.go
package parseprofilefilters

import (
	"context"
	"encoding/json"
	"fmt"

	"rpa-match-workers/internal/common/logger"
	"rpa-match-workers/internal/matching"
	"rpa-match-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "parse-profile-filters"

var validAutonomy = map[models.AutonomyLevel]bool{
	models.AutonomyAutonomous:         true,
	models.AutonomySemiAutonomous:     true,
	models.AutonomyLossOfIndependence: true,
}

var validFlexibility = map[models.BudgetFlexibility]bool{
	models.FlexibilityStrict:     true,
	models.FlexibilityFlexible:   true,
	models.FlexibilityNegotiable: true,
}

type Handler struct {
	config *Config
	cfg    matching.ScoringConfig
	logger logger.Logger
}

func NewHandler(config *Config, scoringCfg matching.ScoringConfig, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		cfg:    scoringCfg,
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
		code := "PROFILE_INVALID"
		if input.PatientProfile == nil {
			code = "PROFILE_REQUIRED"
		}
		h.failJob(client, job, code, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	profile := input.PatientProfile
	if profile == nil {
		return nil, fmt.Errorf("patientProfile is required")
	}

	if profile.Autonomy != "" && !validAutonomy[profile.Autonomy] {
		return nil, fmt.Errorf("unknown autonomy level %q", profile.Autonomy)
	}
	if profile.Budget != nil {
		if profile.Budget.Amount < 0 {
			return nil, fmt.Errorf("budget amount must not be negative")
		}
		if profile.Budget.Flexibility != "" && !validFlexibility[profile.Budget.Flexibility] {
			return nil, fmt.Errorf("unknown budget flexibility %q", profile.Budget.Flexibility)
		}
	}
	if profile.Age != nil && (*profile.Age < 0 || *profile.Age > 130) {
		return nil, fmt.Errorf("age out of range: %d", *profile.Age)
	}

	filters := matching.BuildHardFilters(profile, h.cfg)

	h.logger.Info("filters built", map[string]interface{}{
		"activeOnly":     filters.ActiveOnly,
		"city":           filters.City,
		"region":         filters.Region,
		"budgetFiltered": filters.PricingFloorMax != nil,
	})

	return &Output{Filters: filters}, nil
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
