package summary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/taskwire/taskwire/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tasksWithTitles(titles ...string) []domain.Task {
	tasks := make([]domain.Task, len(titles))
	for i, title := range titles {
		tasks[i] = domain.Task{ID: int64(i + 1), Title: title}
	}
	return tasks
}

// stubProvider records calls and returns a canned result.
type stubProvider struct {
	result Result
	calls  int
}

func (p *stubProvider) Summarize(ctx context.Context, tasks []domain.Task) Result {
	p.calls++
	return p.result
}

func TestLocal(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		want   string
	}{
		{"empty list", nil, "No tasks to summarize."},
		{"single task", []string{"Buy milk"}, "1 task: Buy milk."},
		{"two tasks", []string{"A", "B"}, "2 tasks. Highlights: A, B."},
		{
			"six tasks previews first five",
			[]string{"A", "B", "C", "D", "E", "F"},
			"6 tasks. Highlights: A, B, C, D, E.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Local(tasksWithTitles(tt.titles...)))
		})
	}
}

func TestTaskListing(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "Buy milk", Description: "2%"},
		{ID: 2, Title: "Walk dog", Description: ""},
	}
	assert.Equal(t, "- Buy milk: 2%\n- Walk dog: ", TaskListing(tasks))
}

func TestChainEmptyListSkipsProvider(t *testing.T) {
	provider := &stubProvider{result: Result{Text: "should not be used"}}
	chain := NewChain(provider, time.Second, testLogger())

	got := chain.Summarize(context.Background(), nil)
	assert.Equal(t, EmptyListSummary, got)
	assert.Zero(t, provider.calls, "empty list must not trigger an external call")
}

func TestChainNilProviderUsesLocal(t *testing.T) {
	chain := NewChain(nil, time.Second, testLogger())

	got := chain.Summarize(context.Background(), tasksWithTitles("Buy milk"))
	assert.Equal(t, "1 task: Buy milk.", got)
}

func TestChainProviderSuccess(t *testing.T) {
	provider := &stubProvider{result: Result{Text: "All about groceries."}}
	chain := NewChain(provider, time.Second, testLogger())

	got := chain.Summarize(context.Background(), tasksWithTitles("Buy milk"))
	assert.Equal(t, "All about groceries.", got)
	assert.Equal(t, 1, provider.calls, "exactly one attempt per invocation")
}

func TestChainProviderFailureFallsBackToLocal(t *testing.T) {
	provider := &stubProvider{result: Result{Err: errors.New("boom")}}
	chain := NewChain(provider, time.Second, testLogger())

	tasks := tasksWithTitles("A", "B", "C", "D", "E", "F")
	got := chain.Summarize(context.Background(), tasks)
	assert.Equal(t, "6 tasks. Highlights: A, B, C, D, E.", got)
	assert.Equal(t, 1, provider.calls, "no retry on failure")
}

func TestChainFailureMatchesNoCredentialPath(t *testing.T) {
	tasks := tasksWithTitles("A", "B", "C", "D", "E", "F")

	failing := NewChain(&stubProvider{result: Result{Err: errors.New("500")}}, time.Second, testLogger())
	unconfigured := NewChain(nil, time.Second, testLogger())

	assert.Equal(t,
		unconfigured.Summarize(context.Background(), tasks),
		failing.Summarize(context.Background(), tasks),
		"failure path and no-credential path must produce identical output")
}

// blockingProvider waits out a short delay unless its context is canceled
// first, recording which of the two happened.
type blockingProvider struct {
	sawCancel bool
}

func (p *blockingProvider) Summarize(ctx context.Context, tasks []domain.Task) Result {
	select {
	case <-ctx.Done():
		p.sawCancel = true
		return Result{Err: ctx.Err()}
	case <-time.After(50 * time.Millisecond):
		return Result{Text: "finished despite disconnect"}
	}
}

func TestChainAttemptSurvivesCallerCancellation(t *testing.T) {
	provider := &blockingProvider{}
	chain := NewChain(provider, time.Second, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := chain.Summarize(ctx, tasksWithTitles("Buy milk"))
	assert.Equal(t, "finished despite disconnect", got,
		"in-flight attempt must run to completion")
	assert.False(t, provider.sawCancel,
		"caller cancellation must not propagate to the provider call")
}

func TestChainTimeoutStillBoundsAttempt(t *testing.T) {
	provider := &blockingProvider{}
	chain := NewChain(provider, 5*time.Millisecond, testLogger())

	got := chain.Summarize(context.Background(), tasksWithTitles("Buy milk"))
	assert.Equal(t, "1 task: Buy milk.", got,
		"timed-out attempt falls back to the local summary")
	assert.True(t, provider.sawCancel, "the chain timeout reached the provider")
}

func TestChainEmptyProviderTextReturnsSentinel(t *testing.T) {
	provider := &stubProvider{result: Result{Text: ""}}
	chain := NewChain(provider, time.Second, testLogger())

	got := chain.Summarize(context.Background(), tasksWithTitles("Buy milk"))
	assert.Equal(t, EmptyProviderSummary, got)
}

func TestChainNeverReturnsEmptyString(t *testing.T) {
	chains := []*Chain{
		NewChain(nil, time.Second, testLogger()),
		NewChain(&stubProvider{result: Result{Err: errors.New("x")}}, time.Second, testLogger()),
		NewChain(&stubProvider{result: Result{Text: ""}}, time.Second, testLogger()),
	}
	inputs := [][]domain.Task{nil, tasksWithTitles("A"), tasksWithTitles("A", "B")}

	for _, chain := range chains {
		for _, tasks := range inputs {
			assert.NotEmpty(t, chain.Summarize(context.Background(), tasks))
		}
	}
}

func TestResultSucceeded(t *testing.T) {
	assert.True(t, Result{Text: "ok"}.Succeeded())
	assert.False(t, Result{Err: errors.New("nope")}.Succeeded())
}
