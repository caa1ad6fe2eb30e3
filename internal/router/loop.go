package router

import (
	"context"

	"go.uber.org/zap"
)

type Msg interface{ isLoopMsg() }

// Frame is one complete envelope read off the socket.
type Frame struct {
	Data []byte
}

func (Frame) isLoopMsg() {}

type GetStats struct {
	Reply chan Stats
}

func (GetStats) isLoopMsg() {}

type Shutdown struct{}

func (Shutdown) isLoopMsg() {}

type Stats struct {
	Routed  int
	Dropped int
}

// Loop serializes frames onto a single goroutine so the store sees them one
// at a time, in arrival order.
type Loop struct {
	inbox  chan Msg
	router *Router
	stats  Stats
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewLoop(parent context.Context, r *Router, size int, log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	if size <= 0 {
		size = 64
	}
	ctx, cancel := context.WithCancel(parent)

	l := &Loop{
		inbox:  make(chan Msg, size),
		router: r,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go l.loop()
	return l
}

func (l *Loop) loop() {
	defer close(l.done)
	for {
		select {
		case <-l.ctx.Done():
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Frame:
				if err := l.router.Route(msg.Data); err != nil {
					l.stats.Dropped++
					l.log.Warn("dropping frame", zap.Int("bytes", len(msg.Data)), zap.Error(err))
					break
				}
				l.stats.Routed++

			case GetStats:
				msg.Reply <- l.stats

			case Shutdown:
				l.cancel()
				return
			}
		}
	}
}

// Inbox is where the socket reader delivers frames.
func (l *Loop) Inbox() chan<- Msg { return l.inbox }

// Deliver enqueues a frame, giving up if the loop has stopped.
func (l *Loop) Deliver(data []byte) bool {
	select {
	case l.inbox <- Frame{Data: data}:
		return true
	case <-l.ctx.Done():
		return false
	}
}

// Stop cancels the loop and waits for it to exit. Frames still queued are
// discarded.
func (l *Loop) Stop() {
	l.cancel()
	<-l.done
}

// Drain queues a Shutdown behind every frame already delivered and waits for
// the loop to route them and exit.
func (l *Loop) Drain() {
	select {
	case l.inbox <- Shutdown{}:
	case <-l.done:
	}
	<-l.done
}

func (l *Loop) Done() <-chan struct{} { return l.done }
