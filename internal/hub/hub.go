package hub

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/DoyleJ11/wordgame-client/internal/session"
)

// ErrStopped is returned by the request helpers once the hub has exited.
var ErrStopped = errors.New("hub stopped")

type HubMsg interface{ isHubMsg() }

// AddSession registers s under Code. Reply is false if the code is taken.
type AddSession struct {
	Code    string
	Session *session.Session
	Reply   chan bool
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

// RemoveSession unregisters and closes the session. Reply, if set, reports
// whether it existed.
type RemoveSession struct {
	Code  string
	Reply chan bool
}

type ListSessions struct {
	Reply chan []string
}

type ShutdownHub struct{}

func (AddSession) isHubMsg()    {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ListSessions) isHubMsg()  {}
func (ShutdownHub) isHubMsg()   {}

type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) Done() <-chan struct{} { return h.done }

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case AddSession:
				if _, taken := h.sessions[msg.Code]; taken {
					msg.Reply <- false
					break
				}
				h.sessions[msg.Code] = msg.Session
				msg.Reply <- true

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // May be nil

			case RemoveSession:
				s, ok := h.sessions[msg.Code]
				if ok {
					delete(h.sessions, msg.Code)
					h.close(msg.Code, s)
				}
				if msg.Reply != nil {
					msg.Reply <- ok
				}

			case ListSessions:
				codes := make([]string, 0, len(h.sessions))
				for code := range h.sessions {
					codes = append(codes, code)
				}
				msg.Reply <- codes

			case ShutdownHub:
				h.shutdown()
				h.cancel()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for code, s := range h.sessions {
		h.close(code, s)
	}
	clear(h.sessions)
}

func (h *Hub) close(code string, s *session.Session) {
	if err := s.Close(); err != nil {
		h.log.Warn("closing session", zap.String("code", code), zap.Error(err))
	}
}

// request sends msg and waits for its reply, giving up when the hub exits or
// ctx ends.
func request[T any](ctx context.Context, h *Hub, msg HubMsg, reply chan T) (T, error) {
	var zero T
	select {
	case h.inbox <- msg:
	case <-h.done:
		return zero, ErrStopped
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	select {
	case v := <-reply:
		return v, nil
	case <-h.done:
		// The loop may have answered just before exiting.
		select {
		case v := <-reply:
			return v, nil
		default:
			return zero, ErrStopped
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Get is a convenience wrapper around GetSession. It returns nil if the
// session is unknown or the hub has stopped.
func (h *Hub) Get(ctx context.Context, code string) *session.Session {
	reply := make(chan *session.Session, 1)
	s, _ := request(ctx, h, GetSession{Code: code, Reply: reply}, reply)
	return s
}

// Add registers s under code and reports false if the code is taken.
func (h *Hub) Add(ctx context.Context, code string, s *session.Session) (bool, error) {
	reply := make(chan bool, 1)
	return request(ctx, h, AddSession{Code: code, Session: s, Reply: reply}, reply)
}

// Remove closes and unregisters the session under code, reporting whether
// it existed.
func (h *Hub) Remove(ctx context.Context, code string) (bool, error) {
	reply := make(chan bool, 1)
	return request(ctx, h, RemoveSession{Code: code, Reply: reply}, reply)
}

func (h *Hub) List(ctx context.Context) ([]string, error) {
	reply := make(chan []string, 1)
	return request(ctx, h, ListSessions{Reply: reply}, reply)
}

// Exists reports whether code is registered.
func (h *Hub) Exists(ctx context.Context, code string) (bool, error) {
	reply := make(chan *session.Session, 1)
	s, err := request(ctx, h, GetSession{Code: code, Reply: reply}, reply)
	return s != nil, err
}
