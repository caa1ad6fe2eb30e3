package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/wordgame-client/internal/api"
	"github.com/DoyleJ11/wordgame-client/internal/hub"
	"github.com/DoyleJ11/wordgame-client/internal/journal"
	"github.com/DoyleJ11/wordgame-client/internal/scorecard"
	"github.com/DoyleJ11/wordgame-client/internal/session"
	"github.com/DoyleJ11/wordgame-client/internal/view"
	"github.com/DoyleJ11/wordgame-client/pkg/types"
)

// OpenFunc dials the game server and builds a session for code. ctx bounds
// the session's lifetime, not just the dial.
type OpenFunc func(ctx context.Context, code, realm string) (*session.Session, error)

type Deps struct {
	Hub  *hub.Hub
	Open OpenFunc
	API  *api.Client
	// Journal serves chat history. Nil disables the chat route.
	Journal journal.Repository
	Log     *zap.Logger
	// BaseCtx bounds session lifetimes.
	BaseCtx context.Context
}

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func CreateSession(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Realm string `json:"realm"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			taken, err := d.Hub.Exists(r.Context(), c)
			if err != nil {
				writeHubError(w, err)
				return
			}
			if !taken {
				code = c
				break
			}
			d.Log.Debug("collision on code, regenerating", zap.String("code", c))
		}

		sess, err := d.Open(d.BaseCtx, code, body.Realm)
		if err != nil {
			d.Log.Warn("opening session", zap.Error(err))
			http.Error(w, "failed to reach game server", http.StatusBadGateway)
			return
		}

		added, err := d.Hub.Add(r.Context(), code, sess)
		if err != nil || !added {
			_ = sess.Close()
			if err != nil {
				writeHubError(w, err)
				return
			}
			http.Error(w, "failed to create session", http.StatusInternalServerError)
			return
		}

		go func() {
			if err := sess.Run(d.BaseCtx); err != nil {
				d.Log.Warn("session stopped", zap.String("code", code), zap.Error(err))
			}
			select {
			case d.Hub.Inbox() <- hub.RemoveSession{Code: code}:
			case <-d.Hub.Done():
			}
		}()

		writeJSON(w, http.StatusCreated, struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

func ListSessions(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		codes, err := d.Hub.List(r.Context())
		if err != nil {
			writeHubError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Codes []string `json:"codes"`
		}{Codes: codes})
	}
}

type sessionResponse struct {
	Code           string          `json:"code"`
	Version        int             `json:"version"`
	Routed         int             `json:"routed"`
	Dropped        int             `json:"dropped"`
	JournalDropped int64           `json:"journal_dropped"`
	State          types.StateView `json:"state"`
}

func GetSession(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		sess := d.Hub.Get(r.Context(), code)
		if sess == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		stats, err := sess.Stats(r.Context())
		if err != nil {
			http.Error(w, "session closed", http.StatusGone)
			return
		}
		snap := sess.Store().Snapshot()
		writeJSON(w, http.StatusOK, sessionResponse{
			Code:           code,
			Version:        snap.Version,
			Routed:         stats.Routed,
			Dropped:        stats.Dropped,
			JournalDropped: sess.JournalDropped(),
			State:          view.State(snap),
		})
	}
}

// GetScorecard serves the game's turn table as JSON, or as aligned text
// with ?format=text.
func GetScorecard(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := d.Hub.Get(r.Context(), chi.URLParam(r, "code"))
		if sess == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		turns := sess.Store().Snapshot().Game.Turns

		if r.URL.Query().Get("format") == "text" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			if err := scorecard.Render(w, scorecard.Build(turns)); err != nil {
				d.Log.Warn("rendering scorecard", zap.Error(err))
			}
			return
		}
		writeJSON(w, http.StatusOK, view.Scorecard(turns))
	}
}

func DeleteSession(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := d.Hub.Remove(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeHubError(w, err)
			return
		}
		if !removed {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

const (
	defaultChatLimit = 100
	maxChatLimit     = 500
)

// GetChat serves a session's journaled chat, oldest first. It works for
// sessions that have already ended. ?limit= caps the number of lines.
func GetChat(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Journal == nil {
			http.Error(w, "journal disabled", http.StatusNotFound)
			return
		}
		limit := defaultChatLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				http.Error(w, "bad limit", http.StatusBadRequest)
				return
			}
			limit = min(n, maxChatLimit)
		}

		recs, err := d.Journal.ListChat(r.Context(), chi.URLParam(r, "code"), limit)
		if err != nil {
			d.Log.Warn("listing chat", zap.Error(err))
			http.Error(w, "failed to read journal", http.StatusInternalServerError)
			return
		}
		out := make([]types.JournalChatView, 0, len(recs))
		for _, rec := range recs {
			out = append(out, types.JournalChatView{
				EntityType: rec.EntityType,
				Sender:     rec.Sender,
				Message:    rec.Message,
				At:         rec.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeHubError(w http.ResponseWriter, err error) {
	if errors.Is(err, hub.ErrStopped) {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	// Client went away.
	http.Error(w, err.Error(), http.StatusRequestTimeout)
}

func CheckIn(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.API.CheckIn(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeAPIError(w, d.Log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func UpdateBio(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			About string `json:"about"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := d.API.UpdateProfile(r.Context(), body.About); err != nil {
			writeAPIError(w, d.Log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeAPIError(w http.ResponseWriter, log *zap.Logger, err error) {
	if errors.Is(err, api.ErrMissingTournament) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		writeJSON(w, http.StatusBadGateway, apiErr)
		return
	}
	log.Warn("game server call failed", zap.Error(err))
	http.Error(w, "failed to reach game server", http.StatusBadGateway)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
