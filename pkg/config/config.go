package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/localstate"
	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/renderer/canvas"
)

// State backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

var backends = []string{BackendFile, BackendRedis, BackendMemory}

// =============================================================================
// Sections
// =============================================================================

// Config is the full client configuration.
type Config struct {
	Server Server `toml:"server"`
	Client Client `toml:"client"`
	State  State  `toml:"state"`
	Log    Log    `toml:"log"`
}

// Server locates the remote graph store.
type Server struct {
	URL string `toml:"url"`
	// PushURL overrides the websocket endpoint derived from URL.
	PushURL string        `toml:"push_url"`
	Timeout time.Duration `toml:"timeout"`
}

// Client holds per-user session defaults.
type Client struct {
	Workspace       model.ID `toml:"workspace"`
	Writable        bool     `toml:"writable"`
	DefaultRenderer string   `toml:"default_renderer"`
}

// State selects where client-local hints are kept.
type State struct {
	Backend     string `toml:"backend"`
	Dir         string `toml:"dir"`
	RedisAddr   string `toml:"redis_addr"`
	RedisDB     int    `toml:"redis_db"`
	RedisPrefix string `toml:"redis_prefix"`
}

// Log configures the CLI logger.
type Log struct {
	Level string `toml:"level"`
}

// =============================================================================
// Loading
// =============================================================================

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			URL:     "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		Client: Client{
			Writable:        true,
			DefaultRenderer: canvas.URI,
		},
		State: State{
			Backend:     BackendFile,
			RedisAddr:   "localhost:6379",
			RedisPrefix: localstate.DefaultRedisPrefix,
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "topicmaps", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "topicmaps", "config.toml"), nil
}

// Load reads path over the defaults and validates the result.
// An empty path means DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the file cannot express wrongly by type alone.
func (c Config) Validate() error {
	if err := errors.ValidateURL(c.Server.URL, "http", "https"); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "server.url")
	}
	if c.Server.PushURL != "" {
		if err := errors.ValidateURL(c.Server.PushURL, "ws", "wss"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "server.push_url")
		}
	}
	if c.Server.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.timeout must not be negative")
	}
	if c.Client.Workspace < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "client.workspace must not be negative")
	}
	if !slices.Contains(backends, c.State.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "state.backend %q: want one of %v", c.State.Backend, backends)
	}
	if c.State.Backend == BackendRedis && c.State.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "state.redis_addr is required for the redis backend")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	return nil
}

// =============================================================================
// Construction
// =============================================================================

// OpenState opens the configured local state backend.
func (s State) OpenState(ctx context.Context) (localstate.Store, error) {
	switch s.Backend {
	case BackendRedis:
		return localstate.NewRedisStore(ctx, localstate.RedisOptions{
			Addr:   s.RedisAddr,
			DB:     s.RedisDB,
			Prefix: s.RedisPrefix,
		})
	case BackendMemory:
		return localstate.NewMemoryStore(), nil
	case BackendFile, "":
		return localstate.NewFileStore(s.Dir)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown state backend %q", s.Backend)
}

// LogLevel returns the parsed log level, falling back to info.
func (l Log) LogLevel() log.Level {
	lvl, err := log.ParseLevel(l.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
