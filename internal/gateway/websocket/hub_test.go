package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"carematch_server/internal/dto/event"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub([]string{"http://localhost:3000"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.URL.Query().Get("owner"))
		_ = hub.Serve(w, r, uint(id))
	}))
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestDeliverReachesOwnerOnly(t *testing.T) {
	hub, base := startHub(t)
	owner := dial(t, base+"?owner=7")
	other := dial(t, base+"?owner=8")

	require.Eventually(t, func() bool { return hub.Online(7) == 1 && hub.Online(8) == 1 }, time.Second, 10*time.Millisecond)

	hub.Deliver(event.LifecycleEvent{Type: event.TypeClaimed, RequestID: 3, OwnerID: 7, Status: "in_progress"})

	require.NoError(t, owner.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := owner.ReadMessage()
	require.NoError(t, err)

	var got event.LifecycleEvent
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, event.TypeClaimed, got.Type)
	assert.EqualValues(t, 3, got.RequestID)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}

func TestMultipleConnectionsAndUnregister(t *testing.T) {
	hub, base := startHub(t)
	a := dial(t, base+"?owner=5")
	b := dial(t, base+"?owner=5")
	require.Eventually(t, func() bool { return hub.Online(5) == 2 }, time.Second, 10*time.Millisecond)

	hub.Deliver(event.LifecycleEvent{Type: event.TypeAccepted, RequestID: 1, OwnerID: 5, Status: "closed"})
	for _, c := range []*websocket.Conn{a, b} {
		require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := c.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(data), `"accepted"`)
	}

	require.NoError(t, a.Close())
	assert.Eventually(t, func() bool { return hub.Online(5) == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.Online(5))
}

func TestOriginCheck(t *testing.T) {
	_, base := startHub(t)

	// 配置中的前端来源
	header := http.Header{"Origin": []string{"http://localhost:3000"}}
	conn, _, err := websocket.DefaultDialer.Dial(base+"?owner=1", header)
	require.NoError(t, err)
	_ = conn.Close()

	// 其他站点拿着 token 也不能建立连接
	header = http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(base+"?owner=1", header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCheckOriginRules(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	hub := NewHub([]string{"https://CareMatch.example/"})
	assert.True(t, hub.checkOrigin(req("")))
	assert.True(t, hub.checkOrigin(req("https://carematch.example")))
	assert.False(t, hub.checkOrigin(req("https://carematch.example.evil.io")))

	open := NewHub([]string{"*"})
	assert.True(t, open.checkOrigin(req("https://anywhere.example")))
}
