package summary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskwire/taskwire/internal/config"
)

func geminiConfig() config.SummaryConfig {
	return config.SummaryConfig{
		Provider:        config.SummaryProviderGemini,
		Model:           "gemini-2.0-flash",
		GeminiAPIKey:    "test-key",
		MaxOutputTokens: 80,
		Temperature:     0.2,
		TimeoutSeconds:  10,
	}
}

func TestNewGemini(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		provider, err := NewGemini(context.Background(), geminiConfig())
		require.NoError(t, err)
		require.NotNil(t, provider)

		assert.Equal(t, "gemini-2.0-flash", provider.model)
		assert.Equal(t, int32(80), provider.maxTokens)
		assert.Equal(t, float32(0.2), provider.temperature)
	})

	t.Run("missing API key", func(t *testing.T) {
		cfg := geminiConfig()
		cfg.GeminiAPIKey = ""

		provider, err := NewGemini(context.Background(), cfg)
		assert.Error(t, err)
		assert.Nil(t, provider)
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := geminiConfig()
		cfg.Model = ""

		provider, err := NewGemini(context.Background(), cfg)
		assert.Error(t, err)
		assert.Nil(t, provider)
	})
}

func TestGeminiSummarizeReportsTransportFailure(t *testing.T) {
	provider, err := NewGemini(context.Background(), geminiConfig())
	require.NoError(t, err)

	// A canceled context makes the single attempt fail before any bytes
	// leave the process; the failure must surface through Result.Err.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := provider.Summarize(ctx, tasksWithTitles("Buy milk"))
	assert.False(t, result.Succeeded())
	assert.Error(t, result.Err)
}
