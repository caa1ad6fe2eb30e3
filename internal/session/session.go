// Package session ties one upstream socket to its router loop and store.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/wordgame-client/internal/journal"
	"github.com/DoyleJ11/wordgame-client/internal/router"
	"github.com/DoyleJ11/wordgame-client/internal/store"
	"github.com/DoyleJ11/wordgame-client/internal/wire"
)

var ErrClosed = errors.New("session closed")

// Upstream is the game server connection. *socket.Conn satisfies it.
type Upstream interface {
	ReadLoop(ctx context.Context, handle func([]byte)) error
	Send(ctx context.Context, msg wire.Message) error
	Close() error
}

type Options struct {
	// Realm is registered on Run and deregistered on Close. Empty skips both.
	Realm     string
	InboxSize int

	Journal      journal.Repository // optional
	JournalQueue int
}

type Session struct {
	id    string
	realm string
	up    Upstream
	store *store.Store
	loop  *router.Loop
	rec   *journal.Recorder
	log   *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

func New(ctx context.Context, id string, up Upstream, opts Options, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("session", id))

	s := &Session{
		id:    id,
		realm: opts.Realm,
		up:    up,
		store: store.New(log),
		log:   log,
	}

	var target router.Store = s.store
	if opts.Journal != nil {
		s.rec = journal.NewRecorder(s.store, opts.Journal, id, opts.JournalQueue, log)
		target = s.rec
	}
	s.loop = router.NewLoop(ctx, router.New(target, log), opts.InboxSize, log)
	return s
}

func (s *Session) ID() string { return s.id }
func (s *Session) Store() *store.Store { return s.store }

// Run registers the realm, then pumps upstream frames into the router loop
// until the socket closes or ctx is cancelled. Frames already delivered are
// routed, and journaled, before Run returns.
func (s *Session) Run(ctx context.Context) error {
	if s.realm != "" {
		if err := s.up.Send(ctx, &wire.RegisterRealm{Realm: s.realm}); err != nil {
			return fmt.Errorf("register realm %q: %w", s.realm, err)
		}
	}

	readCtx, stopRead := context.WithCancel(ctx)
	defer stopRead()
	// The recorder outlives the reader so it sees every routed frame.
	recCtx, stopRec := context.WithCancel(context.Background())
	defer stopRec()

	var g errgroup.Group
	g.Go(func() error {
		err := s.up.ReadLoop(readCtx, func(frame []byte) {
			if !s.loop.Deliver(frame) {
				s.log.Debug("router stopped, frame discarded")
			}
		})
		s.loop.Drain()
		return err
	})
	if s.rec != nil {
		g.Go(func() error { return s.rec.Run(recCtx) })
	}
	g.Go(func() error {
		<-s.loop.Done()
		stopRead()
		stopRec()
		return nil
	})

	err := g.Wait()
	s.log.Info("session ended", zap.Error(err))
	return err
}

// Send writes a client message upstream.
func (s *Session) Send(ctx context.Context, msg wire.Message) error {
	select {
	case <-s.loop.Done():
		return ErrClosed
	default:
	}
	return s.up.Send(ctx, msg)
}

// Stats asks the router loop for its counters.
func (s *Session) Stats(ctx context.Context) (router.Stats, error) {
	reply := make(chan router.Stats, 1)
	select {
	case s.loop.Inbox() <- router.GetStats{Reply: reply}:
	case <-s.loop.Done():
		return router.Stats{}, ErrClosed
	case <-ctx.Done():
		return router.Stats{}, ctx.Err()
	}
	select {
	case st := <-reply:
		return st, nil
	case <-s.loop.Done():
		return router.Stats{}, ErrClosed
	case <-ctx.Done():
		return router.Stats{}, ctx.Err()
	}
}

// JournalDropped reports records the journal could not keep up with.
func (s *Session) JournalDropped() int64 {
	if s.rec == nil {
		return 0
	}
	return s.rec.Dropped()
}

// Close deregisters the realm, stops the router and closes the socket.
// It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var err error
		if s.realm != "" {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			err = multierr.Append(err, s.up.Send(ctx, &wire.DeregisterRealm{Realm: s.realm}))
			cancel()
		}
		s.loop.Stop()
		s.store.Close()
		err = multierr.Append(err, s.up.Close())
		s.closeErr = err
	})
	return s.closeErr
}
