package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/wordgame-client/internal/api"
	"github.com/DoyleJ11/wordgame-client/internal/config"
	"github.com/DoyleJ11/wordgame-client/internal/httpapi"
	"github.com/DoyleJ11/wordgame-client/internal/hub"
	"github.com/DoyleJ11/wordgame-client/internal/journal"
	"github.com/DoyleJ11/wordgame-client/internal/logging"
	"github.com/DoyleJ11/wordgame-client/internal/session"
	"github.com/DoyleJ11/wordgame-client/internal/socket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) (err error) {
	var repo journal.Repository
	if cfg.DatabaseURL != "" {
		gr, err := journal.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, gr.Close()) }()
		repo = gr
		logger.Info("journal enabled")
	}

	h := hub.NewHub(ctx, logger)

	open := func(ctx context.Context, code, realm string) (*session.Session, error) {
		dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		conn, err := socket.Dial(dialCtx, cfg.SocketURL, cfg.AuthToken, socket.Options{
			ReadLimit:    cfg.SocketReadLimit,
			WriteTimeout: cfg.SocketWriteTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		return session.New(ctx, code, conn, session.Options{
			Realm:        realm,
			InboxSize:    cfg.RouterInboxSize,
			Journal:      repo,
			JournalQueue: cfg.JournalQueueSize,
		}, logger), nil
	}

	srv := &http.Server{
		Addr: cfg.ListenAddr,
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Hub:     h,
			Open:    open,
			API:     api.New(cfg.APIURL, cfg.AuthToken, &http.Client{Timeout: 10 * time.Second}),
			Journal: repo,
			Log:     logger,
			BaseCtx: ctx,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		select {
		case h.Inbox() <- hub.ShutdownHub{}:
		case <-h.Done():
		}
		<-h.Done()
		return err
	})
	return g.Wait()
}
