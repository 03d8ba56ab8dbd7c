// internal/workers/matching/validate-match-request/handler_test.go
package validatematchrequest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpa-match-workers/internal/common/logger"
)

func intPtr(i int) *int    { return &i }
func boolPtr(b bool) *bool { return &b }

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func TestExecute_AppliesDefaults(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		PatientProfile: map[string]interface{}{},
	})

	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Equal(t, 10, output.Limit)
	assert.Equal(t, 0, output.Offset)
	assert.True(t, output.RequireAvailability)
}

func TestExecute_MissingProfile(t *testing.T) {
	handler := newTestHandler(t)

	_, err := handler.Execute(context.Background(), &Input{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "patientProfile is required")
}

func TestExecute_SchemaValidation(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name    string
		profile map[string]interface{}
		wantErr bool
	}{
		{
			name: "full valid profile",
			profile: map[string]interface{}{
				"age":      78,
				"autonomy": "semi_autonomous",
				"conditions": map[string]interface{}{
					"alzheimers": true,
					"other":      []interface{}{"diabetes"},
				},
				"budget": map[string]interface{}{
					"amount":      2500,
					"flexibility": "flexible",
				},
				"location": map[string]interface{}{
					"city":   "Gatineau",
					"region": "Outaouais",
				},
			},
		},
		{
			name: "unknown autonomy level",
			profile: map[string]interface{}{
				"autonomy": "fully_dependent",
			},
			wantErr: true,
		},
		{
			name: "negative budget amount",
			profile: map[string]interface{}{
				"budget": map[string]interface{}{"amount": -100},
			},
			wantErr: true,
		},
		{
			name: "unknown flexibility",
			profile: map[string]interface{}{
				"budget": map[string]interface{}{"amount": 2000, "flexibility": "rigid"},
			},
			wantErr: true,
		},
		{
			name: "age out of range",
			profile: map[string]interface{}{
				"age": 200,
			},
			wantErr: true,
		},
		{
			name: "extra fields tolerated",
			profile: map[string]interface{}{
				"notes": "prefers a ground floor unit",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Execute(context.Background(), &Input{PatientProfile: tt.profile})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExecute_ClampsPagination(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name           string
		limit          *int
		offset         *int
		expectedLimit  int
		expectedOffset int
	}{
		{name: "limit above maximum", limit: intPtr(200), expectedLimit: 50, expectedOffset: 0},
		{name: "limit below minimum", limit: intPtr(0), expectedLimit: 1, expectedOffset: 0},
		{name: "negative offset", offset: intPtr(-3), expectedLimit: 10, expectedOffset: 0},
		{name: "explicit values pass through", limit: intPtr(25), offset: intPtr(50), expectedLimit: 25, expectedOffset: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{
				PatientProfile: map[string]interface{}{},
				Limit:          tt.limit,
				Offset:         tt.offset,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedLimit, output.Limit)
			assert.Equal(t, tt.expectedOffset, output.Offset)
		})
	}
}

func TestExecute_RequireAvailabilityOverride(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		PatientProfile:      map[string]interface{}{},
		RequireAvailability: boolPtr(false),
	})

	require.NoError(t, err)
	assert.False(t, output.RequireAvailability)
}
