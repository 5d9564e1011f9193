// Package validation holds the versioned response schemas for the remote
// dependencies. Every remote body is validated in full before normalization;
// an unrecognized shape is a contract violation, never silently defaulted.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "design-orchestrator/internal/common/errors"
)

// complianceResponseSchemaV1 is the accepted shape of the compliance service
// response. referenceUrl and caseId are optional; everything else is required.
const complianceResponseSchemaV1 = `{
	"type": "object",
	"required": ["compliant", "violations"],
	"properties": {
		"compliant": {"type": "boolean"},
		"violations": {
			"type": "array",
			"items": {"type": "string"}
		},
		"referenceUrl": {"type": "string"},
		"caseId": {"type": "string"}
	},
	"additionalProperties": false
}`

// optimizationResponseSchemaV1 is the accepted shape of the optimization
// service response. Confidence is constrained to [0,1] at the schema level.
const optimizationResponseSchemaV1 = `{
	"type": "object",
	"required": ["optimizedPayload", "confidence", "rewardScore"],
	"properties": {
		"optimizedPayload": {"type": "object"},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1},
		"rewardScore": {"type": "number"}
	},
	"additionalProperties": false
}`

// Validator pre-compiles the dependency response schemas.
type Validator struct {
	compliance   *gojsonschema.Schema
	optimization *gojsonschema.Schema
}

func New() (*Validator, error) {
	compliance, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(complianceResponseSchemaV1))
	if err != nil {
		return nil, fmt.Errorf("compile compliance schema: %w", err)
	}

	optimization, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(optimizationResponseSchemaV1))
	if err != nil {
		return nil, fmt.Errorf("compile optimization schema: %w", err)
	}

	return &Validator{compliance: compliance, optimization: optimization}, nil
}

// ValidateComplianceResponse checks a raw compliance body against the v1
// schema and returns a ContractViolation describing every mismatch.
func (v *Validator) ValidateComplianceResponse(raw []byte) error {
	return v.validate(v.compliance, "compliance-service", raw)
}

// ValidateOptimizationResponse checks a raw optimization body against the v1
// schema.
func (v *Validator) ValidateOptimizationResponse(raw []byte) error {
	return v.validate(v.optimization, "optimization-service", raw)
}

func (v *Validator) validate(schema *gojsonschema.Schema, component string, raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return apperrors.NewContractViolationError(component, fmt.Sprintf("unparseable response body: %v", err))
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return apperrors.NewContractViolationError(component, strings.Join(details, "; "))
}
