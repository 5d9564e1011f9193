// internal/models/request.go
package models

import "time"

// DesignRequest is created once at the API boundary and consumed once by the
// pipeline. CorrelationID is minted at entry when absent and threaded through
// every component touching the request.
type DesignRequest struct {
	RequesterID   string                 `json:"requesterId"`
	Prompt        string                 `json:"prompt"`
	Jurisdiction  string                 `json:"jurisdiction"`
	CorrelationID string                 `json:"correlationId,omitempty"`
	Context       map[string]interface{} `json:"context,omitempty"`
}

// DesignArtifact is the opaque structured output of the generation step.
// The pipeline passes it through unmodified.
type DesignArtifact map[string]interface{}

// FailureResponse is returned when a fatal pipeline error aborts the request.
type FailureResponse struct {
	Code          string    `json:"code"`
	Message       string    `json:"message"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
