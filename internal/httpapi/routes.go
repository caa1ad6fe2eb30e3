package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/wordgame-client/internal/ws"
)

func SetupRoutes(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.BaseCtx == nil {
		d.BaseCtx = context.Background()
	}
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", CreateSession(d))
		r.Get("/", ListSessions(d))
		r.Get("/{code}", GetSession(d))
		r.Delete("/{code}", DeleteSession(d))
		r.Get("/{code}/scorecard", GetScorecard(d))
		r.Get("/{code}/chat", GetChat(d))
		r.Get("/{code}/ws", ws.Handler(d.Hub, d.Log))
	})

	// Game server passthroughs
	r.Post("/tournaments/{id}/checkin", CheckIn(d))
	r.Put("/profile/bio", UpdateBio(d))
	return r
}
