package optimization

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "design-orchestrator/internal/common/errors"
	"design-orchestrator/internal/common/logger"
	"design-orchestrator/internal/common/validation"
	"design-orchestrator/internal/health"
	"design-orchestrator/internal/models"
)

func newTestClient(t *testing.T, baseURL string, timeout time.Duration, tracker *health.Tracker, synthesize bool) *Client {
	t.Helper()
	validator, err := validation.New()
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Timeout = timeout
	cfg.SynthesizeFallback = synthesize

	return NewClient(cfg, tracker, validator, logger.NewNop())
}

func testRequest() *OptimizeRequest {
	return &OptimizeRequest{
		Artifact:      models.DesignArtifact{"floors": float64(2)},
		Jurisdiction:  "DE-BY",
		Constraints:   map[string]interface{}{"budget": float64(250000)},
		CorrelationID: "corr-1",
	}
}

func TestOptimize_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"optimizedPayload":{"floors":2,"insulation":"upgraded"},"confidence":0.91,"rewardScore":12.5}`))
	}))
	defer server.Close()

	tracker := health.New(5 * time.Minute)
	client := newTestClient(t, server.URL, time.Second, tracker, false)

	outcome, err := client.Optimize(context.Background(), testRequest())

	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, 0.91, outcome.Confidence)
	assert.Equal(t, 12.5, outcome.RewardScore)
	assert.False(t, outcome.UsedFallback)
	assert.Equal(t, health.StatusHealthy, tracker.CurrentStatus(DependencyName))
}

func TestOptimize_ServerError_ReturnsNilNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	tracker := health.New(5 * time.Minute)
	client := newTestClient(t, server.URL, time.Second, tracker, false)

	outcome, err := client.Optimize(context.Background(), testRequest())

	assert.NoError(t, err, "a degraded optional step is not an error")
	assert.Nil(t, outcome)
	assert.Equal(t, health.StatusUnhealthy, tracker.CurrentStatus(DependencyName))
}

func TestOptimize_Timeout_ReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can notice the client going away
		// and cancel the request context; otherwise Close hangs forever.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	tracker := health.New(5 * time.Minute)
	client := newTestClient(t, server.URL, 50*time.Millisecond, tracker, false)

	outcome, err := client.Optimize(context.Background(), testRequest())

	assert.NoError(t, err)
	assert.Nil(t, outcome)
	assert.Equal(t, health.StatusUnhealthy, tracker.CurrentStatus(DependencyName))
}

func TestOptimize_FreshUnhealthySkipsNetworkCall(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	tracker := health.New(5 * time.Minute)
	tracker.RecordOutcome(DependencyName, health.StatusUnhealthy)

	client := newTestClient(t, server.URL, time.Second, tracker, false)
	outcome, err := client.Optimize(context.Background(), testRequest())

	assert.NoError(t, err)
	assert.Nil(t, outcome)
	assert.Equal(t, 0, calls)
}

func TestOptimize_SynthesizeFallbackEnabled(t *testing.T) {
	tracker := health.New(5 * time.Minute)
	client := newTestClient(t, "http://127.0.0.1:1", time.Second, tracker, true)

	req := testRequest()
	req.Compliance = &models.ComplianceOutcome{Compliant: true, Violations: []string{}}

	outcome, err := client.Optimize(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.True(t, outcome.UsedFallback)
	assert.Equal(t, req.Artifact["floors"], outcome.OptimizedPayload["floors"])
	assert.Equal(t, 0.25, outcome.Confidence)
	assert.Equal(t, 0.0, outcome.RewardScore)
}

func TestOptimize_MalformedResponse_ContractViolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"confidence":2.5}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second, health.New(5*time.Minute), false)
	outcome, err := client.Optimize(context.Background(), testRequest())

	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Equal(t, apperrors.ErrCodeContractViolation, apperrors.CodeOf(err))
}

func TestOptimize_CancelledRequest_NoHealthObservation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	tracker := health.New(5 * time.Minute)
	client := newTestClient(t, server.URL, time.Minute, tracker, false)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	outcome, err := client.Optimize(ctx, testRequest())

	assert.NoError(t, err)
	assert.Nil(t, outcome)
	assert.Equal(t, health.StatusUnknown, tracker.CurrentStatus(DependencyName))
}
