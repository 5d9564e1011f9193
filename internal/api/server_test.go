package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "design-orchestrator/internal/common/errors"
	"design-orchestrator/internal/common/logger"
	"design-orchestrator/internal/health"
	"design-orchestrator/internal/models"
)

type stubRunner struct {
	response *models.AggregatedResponse
	err      error
	lastReq  *models.DesignRequest
}

func (s *stubRunner) Run(ctx context.Context, req *models.DesignRequest) (*models.AggregatedResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	// Echo the correlation id like the real pipeline does.
	resp := *s.response
	resp.CorrelationID = req.CorrelationID
	return &resp, nil
}

func completedResponse() *models.AggregatedResponse {
	return &models.AggregatedResponse{
		DesignArtifact: models.DesignArtifact{"floors": float64(2)},
		Compliance:     &models.ComplianceOutcome{Compliant: true, Violations: []string{}},
		Optimization:   nil,
		ElapsedMs:      42,
		ProducedAt:     time.Now().UTC(),
	}
}

func newTestServer(runner Runner) *Server {
	return NewServer(runner, health.New(5*time.Minute), logger.NewNop())
}

func postDesign(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/designs", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGenerateDesign_Success(t *testing.T) {
	runner := &stubRunner{response: completedResponse()}
	handler := newTestServer(runner).Routes()

	rec := postDesign(t, handler, `{"requesterId":"u1","prompt":"two story house","jurisdiction":"DE-BY"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AggregatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Compliance)
	assert.NotEmpty(t, resp.CorrelationID, "a correlation id is minted at the boundary")
	assert.Equal(t, resp.CorrelationID, runner.lastReq.CorrelationID)
}

func TestGenerateDesign_KeepsCallerCorrelationID(t *testing.T) {
	runner := &stubRunner{response: completedResponse()}
	handler := newTestServer(runner).Routes()

	rec := postDesign(t, handler, `{"requesterId":"u1","prompt":"x","correlationId":"corr-caller"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "corr-caller", runner.lastReq.CorrelationID)
}

func TestGenerateDesign_NullOptimizationSerializedExplicitly(t *testing.T) {
	runner := &stubRunner{response: completedResponse()}
	handler := newTestServer(runner).Routes()

	rec := postDesign(t, handler, `{"requesterId":"u1","prompt":"x"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	value, present := raw["optimization"]
	require.True(t, present, "absence is communicated by an explicit null, not a missing key")
	assert.Equal(t, "null", string(value))
}

func TestGenerateDesign_ValidationErrors(t *testing.T) {
	handler := newTestServer(&stubRunner{response: completedResponse()}).Routes()

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{{{`},
		{"missing requester", `{"prompt":"x"}`},
		{"missing prompt", `{"requesterId":"u1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postDesign(t, handler, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var failure models.FailureResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failure))
			assert.Equal(t, "INVALID_REQUEST", failure.Code)
		})
	}
}

func TestGenerateDesign_GenerationFailureMapsTo502(t *testing.T) {
	runner := &stubRunner{err: apperrors.NewGenerationFailedError(errors.New("boom"))}
	handler := newTestServer(runner).Routes()

	rec := postDesign(t, handler, `{"requesterId":"u1","prompt":"x"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var failure models.FailureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failure))
	assert.Equal(t, "GENERATION_FAILED", failure.Code)
	assert.NotEmpty(t, failure.CorrelationID)
}

func TestGenerateDesign_ContractViolationMapsTo500(t *testing.T) {
	runner := &stubRunner{err: apperrors.NewContractViolationError("aggregator", "nil compliance")}
	handler := newTestServer(runner).Routes()

	rec := postDesign(t, handler, `{"requesterId":"u1","prompt":"x"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var failure models.FailureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failure))
	assert.Equal(t, "CONTRACT_VIOLATION", failure.Code)
}

func TestHealthz(t *testing.T) {
	tracker := health.New(5 * time.Minute)
	server := NewServer(&stubRunner{response: completedResponse()}, tracker, logger.NewNop())
	handler := server.Routes()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status       string          `json:"status"`
		Dependencies []health.Record `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Empty(t, body.Dependencies)

	tracker.RecordOutcome("compliance", health.StatusUnhealthy)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Len(t, body.Dependencies, 1)
}

func TestMetricsEndpointExposed(t *testing.T) {
	handler := newTestServer(&stubRunner{response: completedResponse()}).Routes()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
