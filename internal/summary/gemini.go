package summary

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/taskwire/taskwire/internal/config"
	"github.com/taskwire/taskwire/internal/domain"
)

// Gemini calls Google's Gemini API through the genai SDK. Like the OpenAI
// provider it makes exactly one attempt per Summarize call and reports all
// failures through Result.Err.
type Gemini struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
}

var _ Provider = (*Gemini)(nil)

// NewGemini creates a Gemini provider from the summary configuration.
//
// Parameters:
//   - ctx: Context for client initialization
//   - cfg: summary configuration carrying the API key, model name, and caps
//
// Returns a properly initialized Gemini provider or an error if the client
// cannot be constructed.
func NewGemini(ctx context.Context, cfg config.SummaryConfig) (*Gemini, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	if cfg.Model == "" {
		return nil, errors.New("model name cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client:      client,
		model:       cfg.Model,
		maxTokens:   int32(cfg.MaxOutputTokens),
		temperature: cfg.Temperature,
	}, nil
}

// Summarize implements Provider.
func (p *Gemini) Summarize(ctx context.Context, tasks []domain.Task) Result {
	genCfg := &genai.GenerateContentConfig{
		// The system instruction carries no role; it is not part of the
		// user conversation.
		SystemInstruction: genai.NewContentFromText(systemInstruction, ""),
		MaxOutputTokens:   p.maxTokens,
		Temperature:       genai.Ptr(p.temperature),
	}

	prompt := "Summarize these tasks succinctly:\n" + TaskListing(tasks)
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), genCfg)
	if err != nil {
		return Result{Err: fmt.Errorf("gemini call failed: %w", err)}
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return Result{Err: fmt.Errorf("%w: no candidates", ErrInvalidResponse)}
	}

	return Result{Text: resp.Text()}
}
