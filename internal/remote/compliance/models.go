// internal/remote/compliance/models.go
package compliance

import "design-orchestrator/internal/models"

// CheckRequest carries everything the compliance step needs for one request.
type CheckRequest struct {
	Artifact      models.DesignArtifact
	Jurisdiction  string
	CaseID        string
	CorrelationID string
}

// wireRequest is the body sent to the remote compliance service.
type wireRequest struct {
	Artifact     models.DesignArtifact `json:"artifact"`
	Jurisdiction string                `json:"jurisdiction"`
	CaseID       string                `json:"caseId,omitempty"`
}

// wireResponse is the schema-validated v1 response shape.
type wireResponse struct {
	Compliant    bool     `json:"compliant"`
	Violations   []string `json:"violations"`
	ReferenceURL string   `json:"referenceUrl,omitempty"`
	CaseID       string   `json:"caseId,omitempty"`
}
