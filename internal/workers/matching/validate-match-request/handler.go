// internal/workers/matching/validate-match-request/handler.go
package validatematchrequest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"rpa-match-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const TaskType = "validate-match-request"

// profileSchema describes the accepted patient profile shape. Every field is
// optional; an empty profile is a valid request that scores neutrally.
var profileSchema = map[string]interface{}{
	"type":                 "object",
	"additionalProperties": true,
	"properties": map[string]interface{}{
		"age": map[string]interface{}{
			"type":    "integer",
			"minimum": 0,
			"maximum": 130,
		},
		"autonomy": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"autonomous", "semi_autonomous", "loss_of_independence"},
		},
		"conditions": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"alzheimers":        map[string]interface{}{"type": "boolean"},
				"parkinsons":        map[string]interface{}{"type": "boolean"},
				"mobility_issues":   map[string]interface{}{"type": "boolean"},
				"cognitive_decline": map[string]interface{}{"type": "boolean"},
				"other": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "string"},
				},
			},
		},
		"budget": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"amount": map[string]interface{}{
					"type":    "number",
					"minimum": 0,
				},
				"flexibility": map[string]interface{}{
					"type": "string",
					"enum": []interface{}{"strict", "flexible", "negotiable"},
				},
			},
		},
		"location": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"city":            map[string]interface{}{"type": "string"},
				"region":          map[string]interface{}{"type": "string"},
				"max_distance_km": map[string]interface{}{"type": "number", "minimum": 0},
			},
		},
	},
}

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
	if input.PatientProfile == nil {
		return nil, fmt.Errorf("patientProfile is required")
	}

	schemaLoader := gojsonschema.NewGoLoader(profileSchema)
	documentLoader := gojsonschema.NewGoLoader(input.PatientProfile)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, fmt.Errorf("invalid profile: %s", strings.Join(issues, "; "))
	}

	output := &Output{
		Valid:               true,
		Limit:               h.config.DefaultLimit,
		Offset:              0,
		RequireAvailability: true,
	}

	if input.Limit != nil {
		limit := *input.Limit
		if limit < 1 {
			limit = 1
		}
		if limit > h.config.MaxLimit {
			limit = h.config.MaxLimit
		}
		output.Limit = limit
	}
	if input.Offset != nil && *input.Offset > 0 {
		output.Offset = *input.Offset
	}
	if input.RequireAvailability != nil {
		output.RequireAvailability = *input.RequireAvailability
	}

	return output, nil
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
