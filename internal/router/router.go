// Package router turns inbound socket envelopes into store updates.
package router

import (
	"go.uber.org/zap"

	"github.com/DoyleJ11/wordgame-client/internal/action"
	"github.com/DoyleJ11/wordgame-client/internal/endgame"
	"github.com/DoyleJ11/wordgame-client/internal/wire"
)

// Store is the application state the router feeds.
type Store interface {
	Dispatch(a action.Action)
	AddChat(entry action.ChatEntry)
	StopClock()
	SetRedirectGame(gameID string)
	ChallengeResultEvent(evt *wire.ServerChallengeResultEvent)
}

type Router struct {
	store   Store
	endGame func(*wire.GameEndedEvent) string
	log     *zap.Logger
}

func New(store Store, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		store:   store,
		endGame: endgame.Message,
		log:     log,
	}
}

// Route decodes one envelope and applies its effect to the store. An empty
// buffer is a no-op. Decode failures are returned and leave the store
// untouched.
func (r *Router) Route(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	typ, msg, err := wire.Decode(buf)
	if err != nil {
		return err
	}
	r.dispatch(typ, msg)
	return nil
}

func (r *Router) dispatch(typ wire.MessageType, parsed wire.Message) {
	switch msg := parsed.(type) {
	case *wire.SeekRequest:
		if msg.GameRequest == nil || msg.User == nil {
			return
		}
		r.store.Dispatch(action.Action{
			Type:    action.AddSoughtGame,
			Payload: soughtGame(msg),
		})

	case *wire.SeekRequests:
		games := make([]action.SoughtGame, 0, len(msg.Requests))
		for _, sr := range msg.Requests {
			games = append(games, soughtGame(sr))
		}
		r.store.Dispatch(action.Action{
			Type:    action.AddSoughtGames,
			Payload: games,
		})

	case *wire.ErrorMessage:
		r.log.Debug("got error message", zap.String("message", msg.Message))
		r.store.AddChat(action.ChatEntry{
			EntityType: action.ChatError,
			Sender:     "",
			Message:    msg.Message,
		})

	case *wire.GameEndedEvent:
		r.store.AddChat(action.ChatEntry{
			EntityType: action.ChatServer,
			Sender:     "",
			Message:    r.endGame(msg),
		})
		r.store.StopClock()

	case *wire.NewGameEvent:
		r.store.SetRedirectGame(msg.GameID)

	case *wire.GameHistoryRefresher:
		r.log.Debug("got refresher event")
		r.store.Dispatch(action.Action{
			Type:    action.RefreshHistory,
			Payload: msg,
		})

	case *wire.ServerGameplayEvent:
		r.log.Debug("got server event", zap.String("game_id", msg.GameID))
		r.store.Dispatch(action.Action{
			Type:    action.AddGameEvent,
			Payload: msg,
		})

	case *wire.ServerChallengeResultEvent:
		r.log.Debug("got server challenge result event", zap.Bool("valid", msg.Valid))
		r.store.ChallengeResultEvent(msg)

	case *wire.GameAcceptedEvent:
		r.store.Dispatch(action.Action{
			Type:    action.RemoveSoughtGame,
			Payload: msg.RequestID,
		})

	default:
		// Recognized but not handled on the client.
		r.log.Debug("ignoring message", zap.Stringer("type", typ))
	}
}

// soughtGame projects a seek; missing sub-records read as zero values.
func soughtGame(sr *wire.SeekRequest) action.SoughtGame {
	var (
		gr   wire.GameRequest
		user wire.User
	)
	if sr != nil && sr.GameRequest != nil {
		gr = *sr.GameRequest
	}
	if sr != nil && sr.User != nil {
		user = *sr.User
	}
	return action.SoughtGame{
		Seeker:          user.Username,
		Lexicon:         gr.Lexicon,
		InitialTimeSecs: gr.InitialTimeSeconds,
		ChallengeRule:   gr.ChallengeRule,
		SeekID:          gr.RequestID,
	}
}
