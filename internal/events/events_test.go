package events

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskwire/taskwire/internal/domain"
)

func TestNewTaskAdded(t *testing.T) {
	task := domain.Task{ID: 42, Title: "Buy milk", Description: "2%"}
	ev := NewTaskAdded(task)

	assert.NotEqual(t, uuid.Nil, ev.ID)
	assert.Equal(t, task, ev.Task)
	assert.False(t, ev.OccurredAt.IsZero())
	assert.Equal(t, KindTaskAdded, ev.Kind())
}

func TestTaskAddedJSONShape(t *testing.T) {
	ev := NewTaskAdded(domain.Task{ID: 1, Title: "A", Description: "B"})

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	task, ok := decoded["task"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), task["id"])
	assert.Equal(t, "A", task["title"])
	assert.Equal(t, "B", task["description"])
}
