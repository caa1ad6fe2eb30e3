package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/wordgame-client/internal/action"
	"github.com/DoyleJ11/wordgame-client/internal/hub"
	"github.com/DoyleJ11/wordgame-client/internal/session"
	"github.com/DoyleJ11/wordgame-client/internal/wire"
	"github.com/DoyleJ11/wordgame-client/pkg/types"
)

type recordingUpstream struct {
	mu   sync.Mutex
	sent []wire.Message
}

func (u *recordingUpstream) ReadLoop(ctx context.Context, _ func([]byte)) error {
	<-ctx.Done()
	return nil
}

func (u *recordingUpstream) Send(_ context.Context, msg wire.Message) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.sent = append(u.sent, msg)
	return nil
}

func (u *recordingUpstream) Close() error { return nil }

func (u *recordingUpstream) last() wire.Message {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.sent) == 0 {
		return nil
	}
	return u.sent[len(u.sent)-1]
}

func setup(t *testing.T) (*session.Session, *recordingUpstream, string) {
	t.Helper()
	return setupWith(t, defaultKeepalive)
}

func setupWith(t *testing.T, ka keepalive) (*session.Session, *recordingUpstream, string) {
	t.Helper()
	h := hub.NewHub(context.Background(), nil)
	t.Cleanup(func() { h.Inbox() <- hub.ShutdownHub{} })

	up := &recordingUpstream{}
	sess := session.New(context.Background(), "ABC123", up, session.Options{}, nil)
	reply := make(chan bool, 1)
	h.Inbox() <- hub.AddSession{Code: "ABC123", Session: sess, Reply: reply}
	require.True(t, <-reply)

	r := chi.NewRouter()
	r.Get("/sessions/{code}/ws", handler(h, nil, ka))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return sess, up, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func readServerMessage(t *testing.T, ctx context.Context, c *websocket.Conn) types.ServerMessage {
	t.Helper()
	_, data, err := c.Read(ctx)
	require.NoError(t, err)
	var msg types.ServerMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHandler_StreamsSnapshots(t *testing.T) {
	sess, _, base := setup(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, base+"/sessions/ABC123/ws", nil)
	require.NoError(t, err)
	defer c.Close(websocket.StatusNormalClosure, "")

	first := readServerMessage(t, ctx, c)
	assert.Equal(t, "StateSnapshot", first.Type)
	assert.Equal(t, 0, first.Version)

	sess.Store().AddChat(action.ChatEntry{EntityType: action.ChatServer, Message: "welcome"})

	next := readServerMessage(t, ctx, c)
	assert.Equal(t, 1, next.Version)
	require.NotNil(t, next.State)
	require.Len(t, next.State.Chat, 1)
	assert.Equal(t, "welcome", next.State.Chat[0].Message)
}

func TestHandler_ForwardsRequestsUpstream(t *testing.T) {
	_, up, base := setup(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, base+"/sessions/ABC123/ws", nil)
	require.NoError(t, err)
	defer c.Close(websocket.StatusNormalClosure, "")
	readServerMessage(t, ctx, c)

	req := `{"type":"gameplay","game_id":"g1","event":"pass"}`
	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(req)))

	require.Eventually(t, func() bool { return up.last() != nil }, time.Second, 5*time.Millisecond)
	assert.Equal(t, &wire.ClientGameplayEvent{EventType: wire.ClientPass, GameID: "g1"}, up.last())
}

func TestHandler_RejectsBadMessages(t *testing.T) {
	_, _, base := setup(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, base+"/sessions/ABC123/ws", nil)
	require.NoError(t, err)
	defer c.Close(websocket.StatusNormalClosure, "")
	readServerMessage(t, ctx, c)

	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(`{not json`)))
	msg := readServerMessage(t, ctx, c)
	assert.Equal(t, types.ServerMessage{Type: "Error", Error: "bad json"}, msg)

	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(`{"type":"LockPick"}`)))
	msg = readServerMessage(t, ctx, c)
	assert.Equal(t, types.ServerMessage{Type: "Error", Error: "unknown type"}, msg)
}

func TestHandler_UnknownSession(t *testing.T) {
	_, _, base := setup(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, resp, err := websocket.Dial(ctx, base+"/sessions/NOPE/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_RateLimitsForwarding(t *testing.T) {
	_, _, base := setup(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, base+"/sessions/ABC123/ws", nil)
	require.NoError(t, err)
	defer c.Close(websocket.StatusNormalClosure, "")
	readServerMessage(t, ctx, c)

	req := []byte(`{"type":"gameplay","game_id":"g1","event":"pass"}`)
	for i := 0; i < sendBurst*2; i++ {
		require.NoError(t, c.Write(ctx, websocket.MessageText, req))
	}

	msg := readServerMessage(t, ctx, c)
	assert.Equal(t, types.ServerMessage{Type: "Error", Error: "rate limited"}, msg)
}

func TestHandler_SilentViewerStaysConnected(t *testing.T) {
	sess, _, base := setupWith(t, keepalive{interval: 20 * time.Millisecond, timeout: time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, base+"/sessions/ABC123/ws", nil)
	require.NoError(t, err)
	defer c.Close(websocket.StatusNormalClosure, "")
	readServerMessage(t, ctx, c)

	// The client only reads, which is enough to answer pings.
	msgs := make(chan types.ServerMessage, 1)
	go func() {
		_, data, err := c.Read(ctx)
		if err != nil {
			return
		}
		var msg types.ServerMessage
		if json.Unmarshal(data, &msg) == nil {
			msgs <- msg
		}
	}()

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, sess.Store().NumSubscribers())

	sess.Store().AddChat(action.ChatEntry{EntityType: action.ChatServer, Message: "still here"})
	select {
	case msg := <-msgs:
		assert.Equal(t, 1, msg.Version)
	case <-ctx.Done():
		t.Fatal("silent viewer stopped receiving snapshots")
	}
}

func TestHandler_DropsViewerThatMissesPongs(t *testing.T) {
	sess, _, base := setupWith(t, keepalive{interval: 20 * time.Millisecond, timeout: 50 * time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, base+"/sessions/ABC123/ws", nil)
	require.NoError(t, err)
	defer c.CloseNow()
	readServerMessage(t, ctx, c)

	// No further reads: pongs are never sent.
	require.Eventually(t, func() bool {
		return sess.Store().NumSubscribers() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
