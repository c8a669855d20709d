package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/repositories/inmem"
	"github.com/yigit/learncircle/internal/middleware"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.Stopped()
	})
	return hub
}

func newTestServer(t *testing.T, hub *Hub) (*httptest.Server, int64) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := inmem.NewRepositories(inmem.NewStore())
	ctx := context.Background()
	user := &models.User{Username: "ada", Email: "ada@example.com", Password: "x", Role: models.RoleCreator}
	require.NoError(t, repos.UserRepository.Create(ctx, user))
	circle := &models.Circle{Title: "Algebra", Description: "d", CreatorID: user.ID, Privacy: models.PrivacyPublic}
	require.NoError(t, repos.CircleRepository.Create(ctx, circle))

	handler := NewHandler(hub, repos.CircleRepository, zerolog.Nop())
	r := gin.New()
	r.GET("/circles/:id/ws", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, user.ID)
		c.Next()
	}, handler.HandleConnection)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, circle.ID
}

func dial(t *testing.T, srv *httptest.Server, path string) *gorilla.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestPublishReachesSubscribers(t *testing.T) {
	hub := startHub(t)
	srv, circleID := newTestServer(t, hub)

	conn := dial(t, srv, "/circles/1/ws")
	require.Eventually(t, func() bool { return hub.ClientCount(circleID) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(circleID, map[string]string{"text": "hello"}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "hello", got["text"])
}

func TestPublishToOtherCircleIsNotDelivered(t *testing.T) {
	hub := startHub(t)
	srv, circleID := newTestServer(t, hub)

	conn := dial(t, srv, "/circles/1/ws")
	require.Eventually(t, func() bool { return hub.ClientCount(circleID) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(circleID+1, "elsewhere"))
	require.NoError(t, hub.Publish(circleID, "here"))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `"here"`, string(data))
}

func TestUnknownCircleIsRejectedBeforeUpgrade(t *testing.T) {
	hub := startHub(t)
	srv, _ := newTestServer(t, hub)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/circles/99/ws"
	_, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestClientUnregistersOnClose(t *testing.T) {
	hub := startHub(t)
	srv, circleID := newTestServer(t, hub)

	conn := dial(t, srv, "/circles/1/ws")
	require.Eventually(t, func() bool { return hub.ClientCount(circleID) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount(circleID) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := startHub(t)
	client := &Client{hub: hub, send: make(chan []byte, 1), circleID: 7, userID: 1, logger: zerolog.Nop()}
	hub.register <- client
	require.Eventually(t, func() bool { return hub.ClientCount(7) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(7, "one"))
	require.NoError(t, hub.Publish(7, "two"))

	assert.Eventually(t, func() bool { return hub.ClientCount(7) == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-client.send
	assert.True(t, open)
	_, open = <-client.send
	assert.False(t, open)
}

func TestPublishAfterStopFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)
	cancel()
	<-hub.Stopped()

	assert.Error(t, hub.Publish(1, "late"))
}
