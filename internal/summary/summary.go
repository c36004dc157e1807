package summary

import (
	"context"
	"log/slog"
	"time"

	"github.com/taskwire/taskwire/internal/domain"
)

// Fixed sentinel messages returned by the chain.
const (
	// EmptyListSummary is returned for an empty task list; no external
	// call is attempted in that case.
	EmptyListSummary = "No tasks to summarize."

	// EmptyProviderSummary is returned when the provider succeeds but
	// yields no text, so the chain never returns an empty string.
	EmptyProviderSummary = "(empty summary)"
)

// DefaultTimeout bounds a single provider attempt when the caller's context
// carries no deadline of its own.
const DefaultTimeout = 10 * time.Second

// Result is the explicit outcome of one provider attempt. Err is nil only
// when the provider succeeded; the chain, not the provider, decides what to
// substitute on failure.
type Result struct {
	Text string
	Err  error
}

// Succeeded reports whether the provider produced a usable response.
func (r Result) Succeeded() bool { return r.Err == nil }

// Provider is an external summarization backend. Implementations must make
// exactly one attempt per call, honor the context deadline, and report every
// failure mode (transport error, non-success status, malformed response)
// through Result.Err rather than panicking or retrying.
type Provider interface {
	Summarize(ctx context.Context, tasks []domain.Task) Result
}

// Chain is the summarization fallback chain. With a nil provider (no
// credential configured) it computes the deterministic local summary only.
type Chain struct {
	provider Provider
	timeout  time.Duration
	logger   *slog.Logger
}

// NewChain creates a Chain. provider may be nil to select the local-only
// path. If logger is nil, the default logger is used.
func NewChain(provider Provider, timeout time.Duration, logger *slog.Logger) *Chain {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		provider: provider,
		timeout:  timeout,
		logger:   logger.With("component", "summary_chain"),
	}
}

// Summarize produces a one-to-two sentence summary of the given tasks.
// It always returns a non-empty string:
//
//  1. an empty list returns EmptyListSummary without any external call;
//  2. with no provider, the deterministic local summary is returned;
//  3. otherwise exactly one provider attempt is made under a bounded
//     context, and any failure falls back to the local summary;
//  4. a successful attempt with empty text returns EmptyProviderSummary.
func (c *Chain) Summarize(ctx context.Context, tasks []domain.Task) string {
	if len(tasks) == 0 {
		return EmptyListSummary
	}

	local := Local(tasks)

	if c.provider == nil {
		return local
	}

	// The attempt is bounded by the chain's timeout only. A client
	// disconnect must not abort an in-flight provider call, so the call
	// context does not inherit the caller's cancellation.
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	result := c.provider.Summarize(callCtx, tasks)
	if !result.Succeeded() {
		c.logger.Warn("summarization provider failed, using local summary",
			"error", result.Err,
			"task_count", len(tasks))
		return local
	}

	if result.Text == "" {
		return EmptyProviderSummary
	}
	return result.Text
}
