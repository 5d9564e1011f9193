// internal/remote/compliance/fallback.go
package compliance

import (
	"fmt"

	"design-orchestrator/internal/models"
)

// Synthesizer builds a locally computed, schema-valid stand-in for the
// compliance service's answer. It is a pure function of the request plus
// static defaults: no network calls, and identical input yields identical
// output. The verdict is fail-closed: an unverified design is treated as
// non-compliant and routed to manual review.
type Synthesizer struct {
	referenceURL string
}

func NewSynthesizer(referenceURL string) *Synthesizer {
	return &Synthesizer{referenceURL: referenceURL}
}

// Synthesize produces the fallback outcome for an unavailability reason such
// as "timeout" or "status 503". Every contract field is populated.
func (s *Synthesizer) Synthesize(req *CheckRequest, reason string) *models.ComplianceOutcome {
	return &models.ComplianceOutcome{
		Compliant:    false,
		Violations:   []string{fmt.Sprintf("compliance service unavailable: %s", reason)},
		ReferenceURL: s.referenceURL,
		CaseID:       req.CaseID,
		UsedFallback: true,
	}
}
