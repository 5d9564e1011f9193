// internal/pipeline/aggregator.go
package pipeline

import (
	"fmt"
	"time"

	apperrors "design-orchestrator/internal/common/errors"
	"design-orchestrator/internal/models"
)

// Assemble builds the final response from the collected step outputs. It does
// no I/O; its only failure mode is a malformed input contract from an
// upstream component, which is fatal: silently accepting a broken outcome
// would hide real pipeline bugs.
func Assemble(correlationID string, artifact models.DesignArtifact, compliance *models.ComplianceOutcome, optimization *models.OptimizationOutcome, start time.Time) (*models.AggregatedResponse, error) {
	if artifact == nil {
		return nil, apperrors.NewContractViolationError("aggregator", "design artifact is nil")
	}
	if compliance == nil {
		return nil, apperrors.NewContractViolationError("aggregator", "compliance outcome is nil")
	}
	if compliance.Violations == nil {
		return nil, apperrors.NewContractViolationError("aggregator", "compliance violations slice is nil")
	}
	if optimization != nil {
		if optimization.OptimizedPayload == nil {
			return nil, apperrors.NewContractViolationError("aggregator", "optimization payload is nil")
		}
		if optimization.Confidence < 0 || optimization.Confidence > 1 {
			return nil, apperrors.NewContractViolationError("aggregator",
				fmt.Sprintf("optimization confidence %v outside [0,1]", optimization.Confidence))
		}
	}

	return &models.AggregatedResponse{
		CorrelationID:  correlationID,
		DesignArtifact: artifact,
		Compliance:     compliance,
		Optimization:   optimization,
		ElapsedMs:      time.Since(start).Milliseconds(),
		ProducedAt:     time.Now().UTC(),
	}, nil
}
