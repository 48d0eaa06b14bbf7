package api

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/auth"
	"portfolio/internal/notify"
)

func newWsServer(t *testing.T) (*testServer, *httptest.Server, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ts := newTestServer(t, func(d *Deps) { d.Redis = rdb })
	srv := httptest.NewServer(ts.router)
	t.Cleanup(srv.Close)
	return ts, srv, rdb
}

func dialWs(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/admin/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func TestWsRelaysAdminNotifications(t *testing.T) {
	ts, srv, rdb := newWsServer(t)
	token := ts.adminToken(t)

	conn := dialWs(t, srv)
	require.NoError(t, conn.WriteJSON(wsAuthMessage{Type: "auth", Token: token}))

	var ready map[string]string
	require.NoError(t, conn.ReadJSON(&ready))
	require.Equal(t, "ready", ready["type"])

	pub := notify.NewRedisPublisher(rdb)
	require.NoError(t, pub.Publish(context.Background(), notify.Event{
		Type:      notify.TypeContactCreated,
		ContactID: 42,
		Status:    notify.StatusOK,
	}))

	var ev notify.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, notify.TypeContactCreated, ev.Type)
	assert.Equal(t, uint(42), ev.ContactID)
}

func TestWsRejectsNonAdmin(t *testing.T) {
	ts, srv, _ := newWsServer(t)
	viewer := ts.createUser(t, "viewer@example.com", "viewer-pass", false)
	token, err := ts.tokens.Issue(auth.Identity{ID: viewer.ID, Email: viewer.Email, IsAdmin: true})
	require.NoError(t, err)

	conn := dialWs(t, srv)
	require.NoError(t, conn.WriteJSON(wsAuthMessage{Type: "auth", Token: token}))

	_, _, err = conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
	assert.Equal(t, "admin access required", closeErr.Text)
}

func TestWsRejectsBadToken(t *testing.T) {
	_, srv, _ := newWsServer(t)

	conn := dialWs(t, srv)
	require.NoError(t, conn.WriteJSON(wsAuthMessage{Type: "auth", Token: "garbage"}))

	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
}

func TestWsClosesWhenAuthFrameNeverArrives(t *testing.T) {
	ts := newTestServer(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h := NewWsHandler(rdb, ts.tokens, ts.users, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	h.authTimeout = 100 * time.Millisecond

	router := gin.New()
	router.GET("/api/admin/ws", h.HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	conn := dialWs(t, srv)
	start := time.Now()
	_, _, err := conn.ReadMessage()

	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
	assert.Equal(t, "auth timeout", closeErr.Text)
	assert.Less(t, time.Since(start), 5*time.Second)
}
