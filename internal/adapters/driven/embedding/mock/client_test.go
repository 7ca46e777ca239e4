package mock

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/postprocessors/chunker"
)

func TestEmbed_ChunksAndVectors(t *testing.T) {
	c := New(0)
	text := strings.Repeat("x", 3000)

	result, err := c.Embed(context.Background(), "doc-1", text, domain.VisibilityPublic)
	require.NoError(t, err)

	require.Len(t, result.Chunks, 2)
	for _, ch := range result.Chunks {
		assert.Len(t, ch.Embedding, DefaultDimensions)
	}
	assert.True(t, domain.IsDevelopmentModel(result.Model))
}

func TestEmbed_Deterministic(t *testing.T) {
	c := New(8, chunker.WithChunkSize(10), chunker.WithOverlap(2))
	text := "Anayasa Mahkemesi bireysel başvuru kararı"

	a, err := c.Embed(context.Background(), "doc-1", text, domain.VisibilityPublic)
	require.NoError(t, err)
	b, err := c.Embed(context.Background(), "doc-2", text, domain.VisibilityPrivate)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestVector_UnitLengthAndDistinct(t *testing.T) {
	v := Vector("madde 1", 64)

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-4)

	assert.NotEqual(t, v, Vector("madde 2", 64))
	assert.Equal(t, v, Vector("madde 1", 64))
}

func TestEmbed_InvalidChunking(t *testing.T) {
	c := New(4, chunker.WithChunkSize(5), chunker.WithOverlap(5))

	_, err := c.Embed(context.Background(), "doc-1", "text", domain.VisibilityPublic)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	assert.Equal(t, domain.CodeInvalidConfiguration, domain.CodeOf(err))
}

func TestEmbed_ContextErrors(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()

	tests := []struct {
		name     string
		ctx      context.Context
		wantErr  error
		wantCode domain.ErrorCode
	}{
		{"cancelled", cancelled, domain.ErrServiceUnavailable, domain.CodeServiceUnavailable},
		{"deadline", expired, domain.ErrTimeout, domain.CodeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(4).Embed(tt.ctx, "doc-1", "text", domain.VisibilityPublic)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, tt.ctx.Err())
			assert.Equal(t, tt.wantCode, domain.CodeOf(err))
		})
	}
}

func TestEmbed_EmptyText(t *testing.T) {
	_, err := New(4).Embed(context.Background(), "doc-1", "", domain.VisibilityPublic)
	assert.ErrorIs(t, err, domain.ErrInvalidResponse)
}

func TestPingAndClose(t *testing.T) {
	c := New(4)
	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}
