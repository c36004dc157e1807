package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/taskwire/taskwire/internal/config"
	"github.com/taskwire/taskwire/internal/domain"
)

// Provider-level sentinel errors. They classify why an attempt failed; the
// chain treats them all the same way (local fallback), but tests and logs
// can tell them apart.
var (
	// ErrProviderStatus is returned on a non-2xx response.
	ErrProviderStatus = errors.New("provider returned non-success status")

	// ErrInvalidResponse is returned when the response body is malformed
	// or missing the expected fields.
	ErrInvalidResponse = errors.New("provider response invalid")
)

// OpenAI calls an OpenAI-compatible chat-completions endpoint. Exactly one
// HTTP attempt is made per Summarize call; there is no retry.
type OpenAI struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float32
	client      *http.Client
}

var _ Provider = (*OpenAI)(nil)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// systemInstruction keeps provider output within the one-to-two sentence
// contract of the summarize operation.
const systemInstruction = "You are a concise assistant that summarizes task lists in 1-2 sentences."

// NewOpenAI creates an OpenAI provider from the summary configuration.
// The caller is responsible for only constructing a provider when the API
// key is present.
func NewOpenAI(cfg config.SummaryConfig) *OpenAI {
	return &OpenAI{
		apiKey:      cfg.OpenAIAPIKey,
		baseURL:     cfg.OpenAIBaseURL,
		model:       cfg.Model,
		maxTokens:   cfg.MaxOutputTokens,
		temperature: cfg.Temperature,
		client:      &http.Client{},
	}
}

// Summarize implements Provider. All failure modes (request construction,
// transport, non-2xx status, malformed JSON, missing choices) surface
// through Result.Err; the context deadline set by the chain bounds the call.
func (p *OpenAI) Summarize(ctx context.Context, tasks []domain.Task) Result {
	payload := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: "Summarize these tasks succinctly:\n" + TaskListing(tasks)},
		},
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return Result{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{Err: fmt.Errorf("%w: %d", ErrProviderStatus, resp.StatusCode)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Result{Err: fmt.Errorf("%w: %v", ErrInvalidResponse, err)}
	}
	if len(parsed.Choices) == 0 {
		return Result{Err: fmt.Errorf("%w: no choices", ErrInvalidResponse)}
	}

	return Result{Text: parsed.Choices[0].Message.Content}
}
