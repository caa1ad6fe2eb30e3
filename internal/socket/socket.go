// Package socket is the upstream connection to the game server. Frames are
// binary envelopes; see package wire.
package socket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/wordgame-client/internal/wire"
)

type Options struct {
	ReadLimit    int64
	WriteTimeout time.Duration
}

type Conn struct {
	id           string
	conn         *websocket.Conn
	writeTimeout time.Duration
	log          *zap.Logger
}

// Dial connects to rawURL. A non-empty token is passed as the "token" query
// parameter.
func Dial(ctx context.Context, rawURL, token string, opts Options, log *zap.Logger) (*Conn, error) {
	if log == nil {
		log = zap.NewNop()
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("socket url: %w", err)
	}
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}

	c, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.Host, err)
	}
	if opts.ReadLimit > 0 {
		c.SetReadLimit(opts.ReadLimit)
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 3 * time.Second
	}

	id := uuid.NewString()
	log = log.With(zap.String("conn", id))
	log.Info("socket connected", zap.String("host", u.Host))

	return &Conn{id: id, conn: c, writeTimeout: opts.WriteTimeout, log: log}, nil
}

func (c *Conn) ID() string { return c.id }

// ReadLoop hands every binary frame to handle until the connection closes
// or ctx is cancelled. A normal or going-away close returns nil.
func (c *Conn) ReadLoop(ctx context.Context, handle func([]byte)) error {
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				c.log.Info("socket closed by peer")
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("socket read: %w", err)
		}
		if typ != websocket.MessageBinary {
			c.log.Debug("ignoring text frame", zap.Int("bytes", len(data)))
			continue
		}
		handle(data)
	}
}

// Send encodes msg into an envelope and writes it as one binary frame.
func (c *Conn) Send(ctx context.Context, msg wire.Message) error {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()
	if err := c.conn.Write(ctx, websocket.MessageBinary, wire.Encode(msg)); err != nil {
		return fmt.Errorf("socket send %s: %w", msg.Type(), err)
	}
	return nil
}

func (c *Conn) Close() error {
	err := c.conn.Close(websocket.StatusNormalClosure, "bye")
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("socket close: %w", err)
	}
	return nil
}
