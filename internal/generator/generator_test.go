package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"design-orchestrator/internal/common/logger"
)

func TestGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "two story house", body["prompt"])

		w.Write([]byte(`{"artifact":{"floors":2,"style":"modern"}}`))
	}))
	defer server.Close()

	g := NewHTTPGenerator(&Config{BaseURL: server.URL, Timeout: time.Second}, logger.NewNop())
	artifact, err := g.Generate(context.Background(), "two story house", map[string]interface{}{"budget": 1})

	require.NoError(t, err)
	assert.Equal(t, float64(2), artifact["floors"])
}

func TestGenerate_ServerErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	g := NewHTTPGenerator(&Config{BaseURL: server.URL, Timeout: time.Second}, logger.NewNop())
	artifact, err := g.Generate(context.Background(), "x", nil)

	assert.Error(t, err)
	assert.Nil(t, artifact)
}

func TestGenerate_MissingArtifactIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	g := NewHTTPGenerator(&Config{BaseURL: server.URL, Timeout: time.Second}, logger.NewNop())
	_, err := g.Generate(context.Background(), "x", nil)

	assert.Error(t, err)
}
