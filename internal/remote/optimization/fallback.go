// internal/remote/optimization/fallback.go
package optimization

import "design-orchestrator/internal/models"

// Synthesizer builds a schema-valid local stand-in for the optimization
// service's answer: the artifact payload passed through untouched, zero reward
// and a confidence that only reflects what the compliance verdict already
// established. Pure and deterministic; no network calls.
type Synthesizer struct{}

func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

func (s *Synthesizer) Synthesize(req *OptimizeRequest) *models.OptimizationOutcome {
	payload := make(map[string]interface{}, len(req.Artifact))
	for k, v := range req.Artifact {
		payload[k] = v
	}

	confidence := 0.0
	if req.Compliance != nil && req.Compliance.Compliant && !req.Compliance.UsedFallback {
		// A verified-compliant design passed through unchanged keeps some
		// standing; anything less is pure passthrough.
		confidence = 0.25
	}

	return &models.OptimizationOutcome{
		OptimizedPayload: payload,
		Confidence:       confidence,
		RewardScore:      0,
		UsedFallback:     true,
	}
}
