// Package generator defines the opaque generation collaborator. The pipeline
// only requires that Generate completes before compliance checking begins and
// that any failure is fatal for the request.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"design-orchestrator/internal/common/httpclient"
	"design-orchestrator/internal/common/logger"
	"design-orchestrator/internal/models"
)

// Generator turns a prompt plus free-form context into a design artifact.
type Generator interface {
	Generate(ctx context.Context, prompt string, reqContext map[string]interface{}) (models.DesignArtifact, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// HTTPGenerator calls a remote generation service. Unlike the compliance and
// optimization clients it owns no fallback: there is no substitute for an
// incoherent design, so every failure propagates.
type HTTPGenerator struct {
	cfg    *Config
	http   *httpclient.Client
	logger logger.Logger
}

func NewHTTPGenerator(cfg *Config, log logger.Logger) *HTTPGenerator {
	return &HTTPGenerator{
		cfg:  cfg,
		http: httpclient.New(cfg.Timeout),
		logger: log.With(map[string]interface{}{
			"dependency": "generator",
		}),
	}
}

func (g *HTTPGenerator) Generate(ctx context.Context, prompt string, reqContext map[string]interface{}) (models.DesignArtifact, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	raw, status, err := g.http.PostJSON(callCtx, g.cfg.BaseURL+"/v1/generate", map[string]interface{}{
		"prompt":  prompt,
		"context": reqContext,
	})
	if err != nil {
		return nil, fmt.Errorf("generation call: %w", err)
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("generation service returned %d", status)
	}

	var resp struct {
		Artifact models.DesignArtifact `json:"artifact"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse generation response: %w", err)
	}
	if resp.Artifact == nil {
		return nil, fmt.Errorf("generation response carried no artifact")
	}

	g.logger.Debug("artifact generated", map[string]interface{}{
		"fields": len(resp.Artifact),
	})
	return resp.Artifact, nil
}
