// internal/pipeline/coordinator.go
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	apperrors "design-orchestrator/internal/common/errors"
	"design-orchestrator/internal/common/logger"
	"design-orchestrator/internal/common/metrics"
	"design-orchestrator/internal/generator"
	"design-orchestrator/internal/models"
	"design-orchestrator/internal/remote/compliance"
	"design-orchestrator/internal/remote/optimization"
)

// State names the coordinator's position in the pipeline for one request.
type State string

const (
	StateCreated            State = "created"
	StateGenerating         State = "generating"
	StateCheckingCompliance State = "checking_compliance"
	StateOptimizing         State = "optimizing"
	StateAggregating        State = "aggregating"
	StateCompleted          State = "completed"
	StateFailed             State = "failed"
)

// ComplianceChecker is the mandatory-step client contract. A non-nil error
// means the client broke its own completeness guarantee (contract violation).
type ComplianceChecker interface {
	Check(ctx context.Context, req *compliance.CheckRequest) (*models.ComplianceOutcome, error)
}

// Optimizer is the optional-step client contract. A nil outcome with a nil
// error is the normal degraded path.
type Optimizer interface {
	Optimize(ctx context.Context, req *optimization.OptimizeRequest) (*models.OptimizationOutcome, error)
}

// Coordinator runs the ordered pipeline for one request: generate, check
// compliance, optimize, aggregate. Steps within a request are strictly
// sequential; different requests run concurrently and share nothing but the
// health tracker inside the clients.
type Coordinator struct {
	generator    generator.Generator
	compliance   ComplianceChecker
	optimization Optimizer
	logger       logger.Logger
}

func NewCoordinator(gen generator.Generator, comp ComplianceChecker, opt Optimizer, log logger.Logger) *Coordinator {
	return &Coordinator{
		generator:    gen,
		compliance:   comp,
		optimization: opt,
		logger:       log,
	}
}

// Run executes the pipeline. Only a generation failure or a contract
// violation returns an error; every dependency outage is absorbed before it
// reaches the caller.
func (c *Coordinator) Run(ctx context.Context, req *models.DesignRequest) (*models.AggregatedResponse, error) {
	start := time.Now()
	tracer := otel.Tracer("pipeline")

	log := c.logger.With(map[string]interface{}{
		"correlationId": req.CorrelationID,
		"requesterId":   req.RequesterID,
	})
	state := StateCreated
	advance := func(next State) {
		state = next
		log.Debug("pipeline state transition", map[string]interface{}{
			"state": string(state),
		})
	}

	// Step 1: generation. Mandatory, no fallback exists for an incoherent
	// design; a failure here aborts before any outbound dependency call.
	advance(StateGenerating)
	genCtx, genSpan := tracer.Start(ctx, "pipeline.generate")
	stepStart := time.Now()
	artifact, err := c.generator.Generate(genCtx, req.Prompt, req.Context)
	metrics.PipelineStepDuration.WithLabelValues("generate").Observe(time.Since(stepStart).Seconds())
	genSpan.End()
	if err != nil {
		advance(StateFailed)
		metrics.PipelineRequestsTotal.WithLabelValues("generation_failed").Inc()
		log.Error("generation failed, aborting request", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, apperrors.NewGenerationFailedError(err)
	}

	// Step 2: compliance, mandatory but guaranteed complete by the client's
	// fallback. An error here means the client broke that guarantee.
	advance(StateCheckingCompliance)
	compCtx, compSpan := tracer.Start(ctx, "pipeline.check_compliance")
	stepStart = time.Now()
	complianceOutcome, err := c.compliance.Check(compCtx, &compliance.CheckRequest{
		Artifact:      artifact,
		Jurisdiction:  req.Jurisdiction,
		CaseID:        req.CorrelationID,
		CorrelationID: req.CorrelationID,
	})
	metrics.PipelineStepDuration.WithLabelValues("compliance").Observe(time.Since(stepStart).Seconds())
	compSpan.SetAttributes(attribute.Bool("used_fallback", complianceOutcome != nil && complianceOutcome.UsedFallback))
	compSpan.End()
	if err != nil {
		advance(StateFailed)
		metrics.PipelineRequestsTotal.WithLabelValues("contract_violation").Inc()
		log.Error("compliance client broke its completeness contract", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	// Step 3: optimization, optional. Optionality is enforced twice: the
	// client already converts outages to an absent outcome, and this boundary
	// catches anything that still escapes.
	advance(StateOptimizing)
	optCtx, optSpan := tracer.Start(ctx, "pipeline.optimize")
	stepStart = time.Now()
	optimizationOutcome := c.optimizeIsolated(optCtx, log, &optimization.OptimizeRequest{
		Artifact:      artifact,
		Jurisdiction:  req.Jurisdiction,
		Constraints:   req.Context,
		Compliance:    complianceOutcome,
		CorrelationID: req.CorrelationID,
	})
	metrics.PipelineStepDuration.WithLabelValues("optimize").Observe(time.Since(stepStart).Seconds())
	optSpan.SetAttributes(attribute.Bool("present", optimizationOutcome != nil))
	optSpan.End()

	// Step 4: pure assembly.
	advance(StateAggregating)
	response, err := Assemble(req.CorrelationID, artifact, complianceOutcome, optimizationOutcome, start)
	if err != nil {
		advance(StateFailed)
		metrics.PipelineRequestsTotal.WithLabelValues("contract_violation").Inc()
		log.Error("aggregation rejected malformed step output", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	advance(StateCompleted)
	metrics.PipelineRequestsTotal.WithLabelValues("completed").Inc()
	log.Info("request completed", map[string]interface{}{
		"elapsedMs":           response.ElapsedMs,
		"complianceFallback":  complianceOutcome.UsedFallback,
		"optimizationPresent": optimizationOutcome != nil,
	})
	return response, nil
}

// optimizeIsolated is the explicit isolation boundary around the optional
// step: a panic or an escaped error is logged and converted to an absent
// outcome, so optimization can never abort the request.
func (c *Coordinator) optimizeIsolated(ctx context.Context, log logger.Logger, req *optimization.OptimizeRequest) (outcome *models.OptimizationOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("optimization step panicked, dropping outcome", map[string]interface{}{
				"panic": fmt.Sprintf("%v", r),
			})
			outcome = nil
		}
	}()

	result, err := c.optimization.Optimize(ctx, req)
	if err != nil {
		log.Warn("optimization step failed, dropping outcome", map[string]interface{}{
			"error": err.Error(),
			"code":  string(apperrors.CodeOf(err)),
		})
		return nil
	}
	return result
}
