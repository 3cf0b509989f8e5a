package feed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFeedServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.Serve(w, r, r.URL.Query().Get("owner")); err != nil {
			t.Logf("upgrade failed: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, owner string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?owner=" + owner
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, owner string, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Subscribers(owner) == n }, 2*time.Second, 10*time.Millisecond)
}

func TestPublishReachesOnlyTheOwner(t *testing.T) {
	hub := NewHub(zap.NewNop())
	srv := newFeedServer(t, hub)

	mine := dial(t, srv, "owner-1")
	theirs := dial(t, srv, "owner-2")
	waitForSubscribers(t, hub, "owner-1", 1)
	waitForSubscribers(t, hub, "owner-2", 1)

	hub.Publish("owner-1", "settlement", map[string]string{"status": "Partial"})

	var ev struct {
		Kind string            `json:"kind"`
		Data map[string]string `json:"data"`
	}
	mine.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, mine.ReadJSON(&ev))
	assert.Equal(t, "settlement", ev.Kind)
	assert.Equal(t, "Partial", ev.Data["status"])

	theirs.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := theirs.ReadMessage()
	assert.Error(t, err, "another owner must not receive the event")
}

func TestDisconnectUnregisters(t *testing.T) {
	hub := NewHub(zap.NewNop())
	srv := newFeedServer(t, hub)

	conn := dial(t, srv, "owner-1")
	waitForSubscribers(t, hub, "owner-1", 1)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()
	waitForSubscribers(t, hub, "owner-1", 0)

	// publishing with no subscribers is a no-op
	hub.Publish("owner-1", "settlement", nil)
}

func TestClose(t *testing.T) {
	hub := NewHub(zap.NewNop())
	srv := newFeedServer(t, hub)

	conn := dial(t, srv, "owner-1")
	waitForSubscribers(t, hub, "owner-1", 1)

	hub.Close()
	assert.Equal(t, 0, hub.Subscribers("owner-1"))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
