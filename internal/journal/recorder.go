package journal

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/DoyleJ11/wordgame-client/internal/action"
	"github.com/DoyleJ11/wordgame-client/internal/router"
	"github.com/DoyleJ11/wordgame-client/internal/wire"
)

// Recorder wraps a router.Store, forwarding every call unchanged and queueing
// a journal record for chat lines and gameplay events. The queue never
// blocks the router; records that do not fit are dropped.
type Recorder struct {
	next    router.Store
	repo    Repository
	session string
	queue   chan any
	dropped atomic.Int64
	log     *zap.Logger
}

var _ router.Store = (*Recorder)(nil)

func NewRecorder(next router.Store, repo Repository, session string, size int, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	if size <= 0 {
		size = 256
	}
	return &Recorder{
		next:    next,
		repo:    repo,
		session: session,
		queue:   make(chan any, size),
		log:     log.With(zap.String("session", session)),
	}
}

func (r *Recorder) Dispatch(a action.Action) {
	r.next.Dispatch(a)
	if a.Type != action.AddGameEvent {
		return
	}
	sge, ok := a.Payload.(*wire.ServerGameplayEvent)
	if !ok || sge.Event == nil {
		return
	}
	r.enqueue(&GameEventRecord{
		Session:         r.session,
		GameID:          sge.GameID,
		Nickname:        sge.Event.Nickname,
		EventType:       sge.Event.Type.String(),
		Score:           sge.Event.Score,
		Cumulative:      sge.Event.Cumulative,
		MillisRemaining: sge.TimeRemaining,
	})
}

func (r *Recorder) AddChat(entry action.ChatEntry) {
	r.next.AddChat(entry)
	r.enqueue(&ChatRecord{
		Session:    r.session,
		EntityType: string(entry.EntityType),
		Sender:     entry.Sender,
		Message:    entry.Message,
	})
}

func (r *Recorder) StopClock() { r.next.StopClock() }

func (r *Recorder) SetRedirectGame(gameID string) { r.next.SetRedirectGame(gameID) }

func (r *Recorder) ChallengeResultEvent(evt *wire.ServerChallengeResultEvent) {
	r.next.ChallengeResultEvent(evt)
}

func (r *Recorder) Dropped() int64 { return r.dropped.Load() }

func (r *Recorder) enqueue(rec any) {
	select {
	case r.queue <- rec:
	default:
		r.dropped.Add(1)
		r.log.Warn("journal queue full, dropping record")
	}
}

// Run writes queued records until ctx is cancelled, then flushes whatever is
// still queued using a fresh context.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.flush()
			return nil
		case rec := <-r.queue:
			r.save(ctx, rec)
		}
	}
}

func (r *Recorder) flush() {
	for {
		select {
		case rec := <-r.queue:
			r.save(context.Background(), rec)
		default:
			return
		}
	}
}

func (r *Recorder) save(ctx context.Context, rec any) {
	var err error
	switch rec := rec.(type) {
	case *ChatRecord:
		err = r.repo.SaveChat(ctx, rec)
	case *GameEventRecord:
		err = r.repo.SaveGameEvent(ctx, rec)
	}
	if err != nil {
		r.log.Error("journal write failed", zap.Error(err))
	}
}
