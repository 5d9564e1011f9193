// internal/remote/optimization/models.go
package optimization

import "design-orchestrator/internal/models"

// OptimizeRequest carries the artifact plus the compliance outcome already
// established for the same request; the synthesizer uses it as context, which
// is why optimization always runs after compliance.
type OptimizeRequest struct {
	Artifact      models.DesignArtifact
	Jurisdiction  string
	Constraints   map[string]interface{}
	Compliance    *models.ComplianceOutcome
	CorrelationID string
}

// wireRequest is the body sent to the remote optimization service.
type wireRequest struct {
	Artifact     models.DesignArtifact  `json:"artifact"`
	Jurisdiction string                 `json:"jurisdiction"`
	Constraints  map[string]interface{} `json:"constraints,omitempty"`
}

// wireResponse is the schema-validated v1 response shape.
type wireResponse struct {
	OptimizedPayload map[string]interface{} `json:"optimizedPayload"`
	Confidence       float64                `json:"confidence"`
	RewardScore      float64                `json:"rewardScore"`
}
