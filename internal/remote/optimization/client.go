// internal/remote/optimization/client.go
package optimization

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "design-orchestrator/internal/common/errors"
	"design-orchestrator/internal/common/httpclient"
	"design-orchestrator/internal/common/logger"
	"design-orchestrator/internal/common/metrics"
	"design-orchestrator/internal/common/validation"
	"design-orchestrator/internal/health"
	"design-orchestrator/internal/models"
)

const DependencyName = "optimization"

// Client performs the optional optimization step. A degraded dependency is
// communicated by a nil outcome with a nil error, never by an error value,
// so a blackholed optimization endpoint cannot change the success of the
// overall request. The returned error is non-nil only for a contract
// violation from the remote service.
type Client struct {
	cfg       *Config
	http      *httpclient.Client
	tracker   *health.Tracker
	validator *validation.Validator
	fallback  *Synthesizer
	logger    logger.Logger
}

func NewClient(cfg *Config, tracker *health.Tracker, validator *validation.Validator, log logger.Logger) *Client {
	return &Client{
		cfg:       cfg,
		http:      httpclient.New(cfg.Timeout),
		tracker:   tracker,
		validator: validator,
		fallback:  NewSynthesizer(),
		logger: log.With(map[string]interface{}{
			"dependency": DependencyName,
		}),
	}
}

// Optimize runs one optimization call for one request.
func (c *Client) Optimize(ctx context.Context, req *OptimizeRequest) (*models.OptimizationOutcome, error) {
	log := c.logger.With(map[string]interface{}{
		"correlationId": req.CorrelationID,
	})

	if !c.tracker.ShouldAttempt(DependencyName) {
		metrics.DependencyAttempts.WithLabelValues(DependencyName, "skipped").Inc()
		log.Warn("skipping optimization call, dependency marked unhealthy", nil)
		return c.degraded(req), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	raw, status, err := c.http.PostJSON(callCtx, c.cfg.BaseURL+"/v1/optimize", wireRequest{
		Artifact:     req.Artifact,
		Jurisdiction: req.Jurisdiction,
		Constraints:  req.Constraints,
	})
	if err != nil {
		if ctx.Err() == context.Canceled {
			log.Debug("optimization call cancelled before completion", nil)
			return c.degraded(req), nil
		}

		reason := "connection error"
		if httpclient.IsTimeout(err) || callCtx.Err() == context.DeadlineExceeded {
			reason = "timeout"
		}

		c.tracker.RecordOutcome(DependencyName, health.StatusUnhealthy)
		metrics.DependencyAttempts.WithLabelValues(DependencyName, "failure").Inc()
		log.Warn("optimization call failed", map[string]interface{}{
			"reason": reason,
			"error":  err.Error(),
		})
		return c.degraded(req), nil
	}

	if status < 200 || status > 299 {
		c.tracker.RecordOutcome(DependencyName, health.StatusUnhealthy)
		metrics.DependencyAttempts.WithLabelValues(DependencyName, "failure").Inc()
		log.Warn("optimization call returned error status", map[string]interface{}{
			"status": status,
		})
		return c.degraded(req), nil
	}

	c.tracker.RecordOutcome(DependencyName, health.StatusHealthy)
	metrics.DependencyAttempts.WithLabelValues(DependencyName, "success").Inc()

	if err := c.validator.ValidateOptimizationResponse(raw); err != nil {
		return nil, err
	}

	var resp wireResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, apperrors.NewContractViolationError("optimization-service", err.Error())
	}

	return c.normalize(&resp)
}

// normalize maps the wire shape onto the outcome contract.
func (c *Client) normalize(resp *wireResponse) (*models.OptimizationOutcome, error) {
	if resp.OptimizedPayload == nil {
		return nil, apperrors.NewContractViolationError("optimization-service", "optimizedPayload is null")
	}
	if resp.Confidence < 0 || resp.Confidence > 1 {
		return nil, apperrors.NewContractViolationError("optimization-service",
			fmt.Sprintf("confidence %v outside [0,1]", resp.Confidence))
	}
	return &models.OptimizationOutcome{
		OptimizedPayload: resp.OptimizedPayload,
		Confidence:       resp.Confidence,
		RewardScore:      resp.RewardScore,
		UsedFallback:     false,
	}, nil
}

// degraded returns the degraded-path result: nil by default, or a synthesized
// passthrough outcome when fallback synthesis is enabled.
func (c *Client) degraded(req *OptimizeRequest) *models.OptimizationOutcome {
	if !c.cfg.SynthesizeFallback {
		return nil
	}
	metrics.FallbacksSynthesized.WithLabelValues(DependencyName).Inc()
	return c.fallback.Synthesize(req)
}
