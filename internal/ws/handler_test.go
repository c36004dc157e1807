package ws

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskwire/taskwire/internal/domain"
	"github.com/taskwire/taskwire/internal/events"
	"github.com/taskwire/taskwire/internal/hub"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dialTestServer(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestPushDeliveredToConnectedClient(t *testing.T) {
	h := hub.New(testLogger())
	defer h.Close()
	server := httptest.NewServer(NewHandler(h, testLogger()))
	defer server.Close()

	conn := dialTestServer(t, server.URL)

	// Give the server goroutines a moment to register the subscription.
	require.Eventually(t, func() bool { return h.Len() == 1 },
		time.Second, 10*time.Millisecond)

	task := domain.Task{ID: 7, Title: "Buy milk", Description: "2%"}
	require.NoError(t, h.Publish(context.Background(), events.NewTaskAdded(task)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame Frame
	require.NoError(t, conn.ReadJSON(&frame))

	assert.Equal(t, events.KindTaskAdded, frame.Type)
	assert.Equal(t, task, frame.Task)
}

func TestMultipleClientsAllReceive(t *testing.T) {
	h := hub.New(testLogger())
	defer h.Close()
	server := httptest.NewServer(NewHandler(h, testLogger()))
	defer server.Close()

	conns := []*websocket.Conn{
		dialTestServer(t, server.URL),
		dialTestServer(t, server.URL),
		dialTestServer(t, server.URL),
	}
	require.Eventually(t, func() bool { return h.Len() == 3 },
		time.Second, 10*time.Millisecond)

	task := domain.Task{ID: 1, Title: "A"}
	require.NoError(t, h.Publish(context.Background(), events.NewTaskAdded(task)))

	for _, conn := range conns {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var frame Frame
		require.NoError(t, conn.ReadJSON(&frame))
		assert.Equal(t, task, frame.Task)
	}
}

func TestDisconnectUnsubscribes(t *testing.T) {
	h := hub.New(testLogger())
	defer h.Close()
	server := httptest.NewServer(NewHandler(h, testLogger()))
	defer server.Close()

	conn := dialTestServer(t, server.URL)
	require.Eventually(t, func() bool { return h.Len() == 1 },
		time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return h.Len() == 0 },
		2*time.Second, 10*time.Millisecond,
		"disconnect should unregister the subscription")

	// Publishing afterwards is a no-op, not an error.
	assert.NoError(t, h.Publish(context.Background(),
		events.NewTaskAdded(domain.Task{ID: 2, Title: "B"})))
}

func TestPerClientOrderPreserved(t *testing.T) {
	h := hub.New(testLogger())
	defer h.Close()
	server := httptest.NewServer(NewHandler(h, testLogger()))
	defer server.Close()

	conn := dialTestServer(t, server.URL)
	require.Eventually(t, func() bool { return h.Len() == 1 },
		time.Second, 10*time.Millisecond)

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, h.Publish(context.Background(),
			events.NewTaskAdded(domain.Task{ID: i, Title: "t"})))
	}

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var frame Frame
		require.NoError(t, conn.ReadJSON(&frame))
		assert.Equal(t, i, frame.Task.ID)
	}
}
