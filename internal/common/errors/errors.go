// Package errors provides the standardized error taxonomy for the design pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeGenerationFailed is fatal: the mandatory generation step produced
	// no artifact, so the whole request aborts.
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"

	// ErrCodeDependencyUnhealthy is internal and non-fatal: a remote dependency
	// was unreachable or erroring and a fallback outcome replaces its answer.
	ErrCodeDependencyUnhealthy ErrorCode = "DEPENDENCY_UNHEALTHY"

	// ErrCodeContractViolation is fatal: an upstream component returned a
	// malformed outcome. The request fails loudly rather than silently degrading.
	ErrCodeContractViolation ErrorCode = "CONTRACT_VIOLATION"

	// ErrCodeOptimizationFailed is non-fatal: the optional optimization step
	// failed and its outcome is absent from the response.
	ErrCodeOptimizationFailed ErrorCode = "OPTIMIZATION_FAILED"
)

// PipelineError is a structured application error tagged with a code, so
// callers branch on the kind of failure instead of inspecting messages.
type PipelineError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Fatal     bool      `json:"fatal"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("PipelineError[%s]: %s", e.Code, e.Message)
}

// NewGenerationFailedError creates a fatal generation error.
func NewGenerationFailedError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Design generation failed",
		Details:   err.Error(),
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDependencyUnhealthyError creates a non-fatal dependency error.
func NewDependencyUnhealthyError(dependency, details string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeDependencyUnhealthy,
		Message:   fmt.Sprintf("Dependency '%s' unavailable", dependency),
		Details:   details,
		Fatal:     false,
		Timestamp: time.Now().UTC(),
	}
}

// NewContractViolationError creates a fatal structural-invariant error.
func NewContractViolationError(component, details string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeContractViolation,
		Message:   fmt.Sprintf("Component '%s' returned a malformed outcome", component),
		Details:   details,
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
}

// NewOptimizationFailedError creates a non-fatal optimization error.
func NewOptimizationFailedError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeOptimizationFailed,
		Message:   "Design optimization failed",
		Details:   err.Error(),
		Fatal:     false,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf extracts the error code, or empty string for foreign errors.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsFatal reports whether the error must abort the request. Foreign errors
// are treated as fatal: an unclassified failure is a bug, not a degraded path.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Fatal
	}
	return true
}
