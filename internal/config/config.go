package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	// Upstream game server
	SocketURL string `env:"SOCKET_URL" envDefault:"ws://localhost:8087/ws"`
	APIURL    string `env:"API_URL" envDefault:"http://localhost:8001"`
	AuthToken string `env:"AUTH_TOKEN"`

	// Journal; empty disables persistence
	DatabaseURL      string `env:"DATABASE_URL"`
	JournalQueueSize int    `env:"JOURNAL_QUEUE_SIZE" envDefault:"256"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	RouterInboxSize    int           `env:"ROUTER_INBOX_SIZE" envDefault:"64"`
	SocketReadLimit    int64         `env:"SOCKET_READ_LIMIT" envDefault:"1048576"`
	SocketWriteTimeout time.Duration `env:"SOCKET_WRITE_TIMEOUT" envDefault:"3s"`
}

// Load reads an optional .env file, then the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := checkURL("SOCKET_URL", c.SocketURL, "ws", "wss"); err != nil {
		return err
	}
	if err := checkURL("API_URL", c.APIURL, "http", "https"); err != nil {
		return err
	}
	if c.RouterInboxSize <= 0 {
		return fmt.Errorf("ROUTER_INBOX_SIZE must be positive, got %d", c.RouterInboxSize)
	}
	if c.JournalQueueSize <= 0 {
		return fmt.Errorf("JOURNAL_QUEUE_SIZE must be positive, got %d", c.JournalQueueSize)
	}
	if c.SocketReadLimit <= 0 {
		return fmt.Errorf("SOCKET_READ_LIMIT must be positive, got %d", c.SocketReadLimit)
	}
	if c.SocketWriteTimeout <= 0 {
		return fmt.Errorf("SOCKET_WRITE_TIMEOUT must be positive, got %s", c.SocketWriteTimeout)
	}
	return nil
}

func checkURL(name, raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	for _, s := range schemes {
		if u.Scheme == s && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("%s: want %v URL with a host, got %q", name, schemes, raw)
}
