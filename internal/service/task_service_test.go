package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskwire/taskwire/internal/domain"
	"github.com/taskwire/taskwire/internal/events"
	"github.com/taskwire/taskwire/internal/platform/memory"
	"github.com/taskwire/taskwire/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingPublisher captures published events instead of fanning them out.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.TaskAdded
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.TaskAdded) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) published() []events.TaskAdded {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.TaskAdded, len(p.events))
	copy(out, p.events)
	return out
}

// localSummarizer is a trivial Summarizer for service tests.
type localSummarizer struct{}

func (localSummarizer) Summarize(ctx context.Context, tasks []domain.Task) string {
	if len(tasks) == 0 {
		return "No tasks to summarize."
	}
	return "summary"
}

// failingStore always errors, for the summarize degradation path.
type failingStore struct{}

func (failingStore) List(ctx context.Context) ([]domain.Task, error) {
	return nil, errors.New("store down")
}

func (failingStore) Create(ctx context.Context, title, description string) (domain.Task, error) {
	return domain.Task{}, errors.New("store down")
}

var _ store.TaskStore = failingStore{}

func newTestService(t *testing.T, pub *recordingPublisher) TaskService {
	t.Helper()
	svc, err := NewTaskService(memory.NewTaskStore(testLogger()), pub, localSummarizer{}, testLogger())
	require.NoError(t, err)
	return svc
}

func TestNewTaskServiceRequiresDependencies(t *testing.T) {
	st := memory.NewTaskStore(testLogger())
	pub := &recordingPublisher{}

	_, err := NewTaskService(nil, pub, localSummarizer{}, testLogger())
	assert.Error(t, err)

	_, err = NewTaskService(st, nil, localSummarizer{}, testLogger())
	assert.Error(t, err)

	_, err = NewTaskService(st, pub, nil, testLogger())
	assert.Error(t, err)

	_, err = NewTaskService(st, pub, localSummarizer{}, nil)
	assert.NoError(t, err, "logger is optional")
}

func TestCreateCommitsThenBroadcasts(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(t, pub)
	ctx := context.Background()

	task, err := svc.Create(ctx, "Buy milk", "2%")
	require.NoError(t, err)
	assert.Equal(t, int64(1), task.ID)

	published := pub.published()
	require.Len(t, published, 1)
	assert.Equal(t, task, published[0].Task, "broadcast carries the committed record, id included")

	// The record is in the store, so the broadcast cannot have preceded
	// the commit.
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, task, list[0])
}

func TestCreateValidationFailureTouchesNothing(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(t, pub)
	ctx := context.Background()

	_, err := svc.Create(ctx, "   ", "details")
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Empty(t, pub.published(), "no broadcast on validation failure")
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "no record on validation failure")
}

func TestCreateSucceedsDespitePublishError(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broadcast broken")}
	svc := newTestService(t, pub)

	task, err := svc.Create(context.Background(), "Buy milk", "")
	require.NoError(t, err, "publish failures never surface to the caller")
	assert.Equal(t, int64(1), task.ID)
}

func TestSummarizeNeverFails(t *testing.T) {
	t.Run("healthy store", func(t *testing.T) {
		pub := &recordingPublisher{}
		svc := newTestService(t, pub)
		_, err := svc.Create(context.Background(), "A", "")
		require.NoError(t, err)

		assert.Equal(t, "summary", svc.Summarize(context.Background()))
	})

	t.Run("failing store degrades to empty snapshot", func(t *testing.T) {
		svc, err := NewTaskService(failingStore{}, &recordingPublisher{}, localSummarizer{}, testLogger())
		require.NoError(t, err)

		assert.Equal(t, "No tasks to summarize.", svc.Summarize(context.Background()))
	})
}
