package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "design-orchestrator/internal/common/errors"
	"design-orchestrator/internal/models"
)

func TestAssemble_Complete(t *testing.T) {
	start := time.Now().Add(-120 * time.Millisecond)
	artifact := models.DesignArtifact{"floors": float64(2)}

	resp, err := Assemble("corr-1", artifact, liveCompliance(), liveOptimization(), start)

	require.NoError(t, err)
	assert.Equal(t, "corr-1", resp.CorrelationID)
	assert.Equal(t, artifact, resp.DesignArtifact)
	assert.GreaterOrEqual(t, resp.ElapsedMs, int64(100))
	assert.WithinDuration(t, time.Now().UTC(), resp.ProducedAt, time.Second)
}

func TestAssemble_NilOptimizationIsValid(t *testing.T) {
	resp, err := Assemble("corr-1", models.DesignArtifact{}, liveCompliance(), nil, time.Now())

	require.NoError(t, err)
	assert.Nil(t, resp.Optimization)
}

func TestAssemble_RejectsMalformedInputs(t *testing.T) {
	start := time.Now()
	artifact := models.DesignArtifact{}

	tests := []struct {
		name         string
		artifact     models.DesignArtifact
		compliance   *models.ComplianceOutcome
		optimization *models.OptimizationOutcome
	}{
		{"nil artifact", nil, liveCompliance(), nil},
		{"nil compliance", artifact, nil, nil},
		{"nil violations slice", artifact, &models.ComplianceOutcome{Compliant: true}, nil},
		{"nil optimization payload", artifact, liveCompliance(), &models.OptimizationOutcome{Confidence: 0.5}},
		{"confidence above one", artifact, liveCompliance(), &models.OptimizationOutcome{
			OptimizedPayload: map[string]interface{}{},
			Confidence:       1.5,
		}},
		{"negative confidence", artifact, liveCompliance(), &models.OptimizationOutcome{
			OptimizedPayload: map[string]interface{}{},
			Confidence:       -0.1,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Assemble("corr-1", tt.artifact, tt.compliance, tt.optimization, start)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Equal(t, apperrors.ErrCodeContractViolation, apperrors.CodeOf(err))
			assert.True(t, apperrors.IsFatal(err))
		})
	}
}
