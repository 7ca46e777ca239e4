package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/postprocessors/chunker"
)

type embeddingsRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions"`
}

func newServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/embeddings":
			calls.Add(1)
			var req embeddingsRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			data := make([]map[string]any, 0, len(req.Input))
			// reversed order exercises index-based placement
			for i := len(req.Input) - 1; i >= 0; i-- {
				data = append(data, map[string]any{
					"object":    "embedding",
					"index":     i,
					"embedding": []float32{float32(len(req.Input[i])), 1, 2},
				})
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"object": "list",
				"model":  req.Model,
				"data":   data,
			})
		case "/models":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"object":"list","data":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}

func TestNew_RejectsInvalidChunker(t *testing.T) {
	_, err := New(Config{
		APIKey:  "sk-test",
		Chunker: chunker.New(chunker.WithChunkSize(10), chunker.WithOverlap(10)),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestEmbed_BatchesAndOrders(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls)

	c, err := New(Config{
		APIKey:            "sk-test",
		BaseURL:           srv.URL,
		BatchSize:         2,
		RequestsPerSecond: 1000,
		Chunker:           chunker.New(chunker.WithChunkSize(10), chunker.WithOverlap(0)),
	})
	require.NoError(t, err)

	text := strings.Repeat("a", 10) + strings.Repeat("b", 10) + strings.Repeat("c", 5)
	result, err := c.Embed(context.Background(), "doc-1", text, domain.VisibilityPublic)
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, result.Chunks, 3)
	assert.Equal(t, strings.Repeat("c", 5), result.Chunks[2].Content)
	assert.Equal(t, float32(5), result.Chunks[2].Embedding[0])
	assert.Equal(t, DefaultModel, result.Model)
}

func TestEmbed_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{APIKey: "sk-bad", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Embed(context.Background(), "doc-1", "some text", domain.VisibilityPublic)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}

func TestPing(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls)

	c, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, DefaultModel, c.ModelName())
}

func TestEmbed_ClassifiesFailures(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls)

	t.Run("cancelled context", func(t *testing.T) {
		c, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = c.Embed(ctx, "doc-1", "some text", domain.VisibilityPublic)
		assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("expired deadline", func(t *testing.T) {
		c, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL})
		require.NoError(t, err)

		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()
		_, err = c.Embed(ctx, "doc-1", "some text", domain.VisibilityPublic)
		assert.ErrorIs(t, err, domain.ErrTimeout)
		assert.Equal(t, domain.CodeTimeout, domain.CodeOf(err))
	})

	assert.Zero(t, calls.Load(), "no request is sent once the context is done")
}

func TestSplitError(t *testing.T) {
	_, cause := chunker.Split("text", 5, 5)
	require.Error(t, cause)

	err := splitError(cause)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	assert.Equal(t, domain.CodeInvalidConfiguration, domain.CodeOf(err))

	err = splitError(errors.New("boom"))
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}
