package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/DoyleJ11/wordgame-client/internal/hub"
	"github.com/DoyleJ11/wordgame-client/internal/store"
	"github.com/DoyleJ11/wordgame-client/internal/view"
	"github.com/DoyleJ11/wordgame-client/pkg/types"
)

// keepalive paces pings. A viewer that misses a pong within timeout is
// disconnected.
type keepalive struct {
	interval time.Duration
	timeout  time.Duration
}

var defaultKeepalive = keepalive{interval: 30 * time.Second, timeout: 10 * time.Second}

const (
	writeTimeout = 3 * time.Second

	// Viewer requests forwarded upstream, per connection.
	sendRate  = 10
	sendBurst = 20
)

// Handler streams a session's state to a viewer and forwards the viewer's
// requests upstream.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return handler(h, log, defaultKeepalive)
}

func handler(h *hub.Hub, log *zap.Logger, ka keepalive) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		sess := h.Get(r.Context(), code)
		if sess == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		viewerID := uuid.NewString()
		log := log.With(zap.String("session", code), zap.String("viewer", viewerID))

		limiter := rate.NewLimiter(rate.Limit(sendRate), sendBurst)
		out := make(chan store.Snapshot, 8)
		sess.Store().Subscribe(viewerID, out)
		defer sess.Store().Unsubscribe(viewerID)

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				state := view.State(snap)
				msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &state}
				if err := writeJSON(writeCtx, conn, msg); err != nil {
					log.Debug("viewer write failed", zap.Error(err))
					return
				}
			}
			// Store dropped us or closed; hang up so the reader exits.
			_ = conn.Close(websocket.StatusGoingAway, "session closed")
		}()

		// Keepalive. Viewers may stay silent indefinitely; liveness is
		// judged by pongs, which the reader loop below processes.
		go func() {
			t := time.NewTicker(ka.interval)
			defer t.Stop()
			for {
				select {
				case <-writeCtx.Done():
					return
				case <-t.C:
					ctx, cancel := context.WithTimeout(writeCtx, ka.timeout)
					err := conn.Ping(ctx)
					cancel()
					if err != nil {
						log.Debug("viewer ping failed", zap.Error(err))
						_ = conn.Close(websocket.StatusGoingAway, "ping timeout")
						return
					}
				}
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("viewer read ended", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = writeJSON(r.Context(), conn, types.ServerMessage{Type: "Error", Error: "bad json"})
				continue
			}

			msg, err := view.ToWireMessage(cm)
			if err != nil {
				reason := err.Error()
				if errors.Is(err, view.ErrUnknownClientType) {
					reason = "unknown type"
				}
				_ = writeJSON(r.Context(), conn, types.ServerMessage{Type: "Error", Error: reason})
				continue
			}

			if !limiter.Allow() {
				_ = writeJSON(r.Context(), conn, types.ServerMessage{Type: "Error", Error: "rate limited"})
				continue
			}
			if err := sess.Send(r.Context(), msg); err != nil {
				log.Warn("forwarding viewer message", zap.Stringer("type", msg.Type()), zap.Error(err))
				_ = writeJSON(r.Context(), conn, types.ServerMessage{Type: "Error", Error: "upstream unavailable"})
			}
		}
	}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}
