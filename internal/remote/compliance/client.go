// internal/remote/compliance/client.go
package compliance

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

const DependencyName = "compliance"

// Client performs the mandatory compliance check and always returns a
// structurally complete outcome. Transport failures of any kind (timeout,
// connection error, non-2xx) are treated uniformly: the only downstream
// decision is whether a usable answer arrived. The returned error is non-nil
// only for a contract violation, which the caller must treat as fatal.
type Client struct {
	cfg       *Config
	http      *httpclient.Client
	tracker   *health.Tracker
	validator *validation.Validator
	fallback  *Synthesizer
	cache     *Cache
	logger    logger.Logger
}

// NewClient creates a compliance client. cache may be nil when caching is
// disabled.
func NewClient(cfg *Config, tracker *health.Tracker, validator *validation.Validator, cache *Cache, log logger.Logger) *Client {
	return &Client{
		cfg:       cfg,
		http:      httpclient.New(cfg.Timeout),
		tracker:   tracker,
		validator: validator,
		fallback:  NewSynthesizer(cfg.FallbackReferenceURL),
		cache:     cache,
		logger: log.With(map[string]interface{}{
			"dependency": DependencyName,
		}),
	}
}

// Check runs one compliance call for one request.
func (c *Client) Check(ctx context.Context, req *CheckRequest) (*models.ComplianceOutcome, error) {
	log := c.logger.With(map[string]interface{}{
		"correlationId": req.CorrelationID,
	})

	if c.cache != nil {
		if outcome, ok := c.cache.Get(ctx, req); ok {
			log.Debug("compliance verdict served from cache", nil)
			return outcome, nil
		}
	}

	if !c.tracker.ShouldAttempt(DependencyName) {
		// A fresh unhealthy verdict short-circuits the call; the skip itself
		// is not a new observation.
		metrics.DependencyAttempts.WithLabelValues(DependencyName, "skipped").Inc()
		log.Warn("skipping compliance call, dependency marked unhealthy", nil)
		return c.synthesize(req, "dependency marked unhealthy"), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	raw, status, err := c.http.PostJSON(callCtx, c.cfg.BaseURL+"/v1/check", wireRequest{
		Artifact:     req.Artifact,
		Jurisdiction: req.Jurisdiction,
		CaseID:       req.CaseID,
	})
	if err != nil {
		if ctx.Err() == context.Canceled {
			// Cancellation of the enclosing request is not a health observation.
			log.Debug("compliance call cancelled before completion", nil)
			return c.synthesize(req, "request cancelled"), nil
		}

		reason := "connection error"
		if httpclient.IsTimeout(err) || callCtx.Err() == context.DeadlineExceeded {
			reason = "timeout"
		}

		c.tracker.RecordOutcome(DependencyName, health.StatusUnhealthy)
		metrics.DependencyAttempts.WithLabelValues(DependencyName, "failure").Inc()
		log.Warn("compliance call failed, synthesizing fallback", map[string]interface{}{
			"reason": reason,
			"error":  err.Error(),
		})
		return c.synthesize(req, reason), nil
	}

	if status < 200 || status > 299 {
		reason := fmt.Sprintf("status %d", status)
		c.tracker.RecordOutcome(DependencyName, health.StatusUnhealthy)
		metrics.DependencyAttempts.WithLabelValues(DependencyName, "failure").Inc()
		log.Warn("compliance call returned error status, synthesizing fallback", map[string]interface{}{
			"status": status,
		})
		return c.synthesize(req, reason), nil
	}

	c.tracker.RecordOutcome(DependencyName, health.StatusHealthy)
	metrics.DependencyAttempts.WithLabelValues(DependencyName, "success").Inc()

	if err := c.validator.ValidateComplianceResponse(raw); err != nil {
		// The service is reachable but its answer breaks the contract:
		// fail loudly instead of defaulting fields.
		return nil, err
	}

	var resp wireResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, apperrors.NewContractViolationError("compliance-service", err.Error())
	}

	outcome := c.normalize(&resp)

	if c.cache != nil {
		c.cache.Put(ctx, req, outcome)
	}

	return outcome, nil
}

// normalize maps the wire shape onto the outcome contract. Field mapping and
// defaulting only; the business meaning of the verdict is untouched.
func (c *Client) normalize(resp *wireResponse) *models.ComplianceOutcome {
	violations := resp.Violations
	if violations == nil {
		violations = []string{}
	}
	return &models.ComplianceOutcome{
		Compliant:    resp.Compliant,
		Violations:   violations,
		ReferenceURL: resp.ReferenceURL,
		CaseID:       resp.CaseID,
		UsedFallback: false,
	}
}

func (c *Client) synthesize(req *CheckRequest, reason string) *models.ComplianceOutcome {
	metrics.FallbacksSynthesized.WithLabelValues(DependencyName).Inc()
	return c.fallback.Synthesize(req, reason)
}
