// internal/models/outcome.go
package models

import "time"

// ComplianceOutcome is always present and structurally complete in a completed
// response, whether it came from the remote service or from fallback synthesis.
// UsedFallback changes provenance, never shape.
type ComplianceOutcome struct {
	Compliant    bool     `json:"compliant"`
	Violations   []string `json:"violations"`
	ReferenceURL string   `json:"referenceUrl,omitempty"`
	CaseID       string   `json:"caseId,omitempty"`
	UsedFallback bool     `json:"usedFallback"`
}

// OptimizationOutcome is present only when the optional optimization step
// produced a usable result; its absence is communicated by a nil pointer,
// never by a partially filled struct or an error.
type OptimizationOutcome struct {
	OptimizedPayload map[string]interface{} `json:"optimizedPayload"`
	Confidence       float64                `json:"confidence"`
	RewardScore      float64                `json:"rewardScore"`
	UsedFallback     bool                   `json:"usedFallback"`
}

// AggregatedResponse is the final assembly of all step outputs for one request.
type AggregatedResponse struct {
	CorrelationID  string               `json:"correlationId"`
	DesignArtifact DesignArtifact       `json:"designArtifact"`
	Compliance     *ComplianceOutcome   `json:"compliance"`
	Optimization   *OptimizationOutcome `json:"optimization"`
	ElapsedMs      int64                `json:"elapsedMs"`
	ProducedAt     time.Time            `json:"producedAt"`
}
