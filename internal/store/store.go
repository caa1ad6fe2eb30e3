// Package store holds the client's application state: lobby seeks, the
// current game and the chat log. Mutations come from the socket router;
// readers take snapshots or subscribe to them.
package store

import (
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/DoyleJ11/wordgame-client/internal/action"
	"github.com/DoyleJ11/wordgame-client/internal/wire"
)

const maxChatEntries = 500

type Snapshot struct {
	Version      int
	Lobby        LobbyState
	Game         GameState
	Chat         []action.ChatEntry
	RedirectGame string
}

type Store struct {
	mu       sync.Mutex
	version  int
	lobby    LobbyState
	game     GameState
	chat     []action.ChatEntry
	redirect string
	subs     map[string]chan Snapshot
	log      *zap.Logger
}

func New(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		game: GameState{Clocks: map[string]int32{}},
		subs: make(map[string]chan Snapshot),
		log:  log,
	}
}

func (s *Store) Dispatch(a action.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if isLobbyAction(a.Type) {
		next, err := ReduceLobby(s.lobby, a)
		if err != nil {
			s.log.Warn("rejected lobby action", zap.String("action", string(a.Type)), zap.Error(err))
			return
		}
		s.lobby = next
	} else {
		next, err := ReduceGame(s.game, a)
		if err != nil {
			s.log.Warn("rejected game action", zap.String("action", string(a.Type)), zap.Error(err))
			return
		}
		s.game = next
	}
	s.commit()
}

func (s *Store) AddChat(entry action.ChatEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := append(slices.Clone(s.chat), entry)
	if over := len(chat) - maxChatEntries; over > 0 {
		chat = chat[over:]
	}
	s.chat = chat
	s.commit()
}

func (s *Store) StopClock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game.ClockRunning = false
	s.commit()
}

func (s *Store) SetRedirectGame(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redirect = gameID
	s.commit()
}

func (s *Store) ChallengeResultEvent(evt *wire.ServerChallengeResultEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game.LastChallenge = evt
	s.commit()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers ch and immediately sends it the current snapshot.
// A subscriber that cannot keep up is dropped and its channel closed. Reusing
// an id replaces, and closes, the channel registered under it.
func (s *Store) Subscribe(id string, ch chan Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.subs[id]; ok && old != ch {
		close(old)
	}
	s.subs[id] = ch
	s.send(id, ch, s.snapshotLocked())
}

func (s *Store) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subs[id]; ok {
		close(ch)
		delete(s.subs, id)
	}
}

func (s *Store) NumSubscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close ends every subscription.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}

func (s *Store) commit() {
	s.version++
	snap := s.snapshotLocked()
	for id, ch := range s.subs {
		s.send(id, ch, snap)
	}
}

func (s *Store) send(id string, ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
	default:
		s.log.Debug("dropping slow subscriber", zap.String("subscriber", id))
		close(ch)
		delete(s.subs, id)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	game := s.game
	game.Players = slices.Clone(s.game.Players)
	game.Turns = slices.Clone(s.game.Turns)
	game.Clocks = maps.Clone(s.game.Clocks)
	return Snapshot{
		Version:      s.version,
		Lobby:        LobbyState{SoughtGames: slices.Clone(s.lobby.SoughtGames)},
		Game:         game,
		Chat:         slices.Clone(s.chat),
		RedirectGame: s.redirect,
	}
}
