package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	blogs "github.com/ts1257/acme-blogs"
	"github.com/ts1257/acme-blogs/internal/config"
	"github.com/ts1257/acme-blogs/internal/logging"
	"github.com/ts1257/acme-blogs/pkg/adapters/file"
	"github.com/ts1257/acme-blogs/pkg/adapters/jsonplaceholder"
	"github.com/ts1257/acme-blogs/pkg/adapters/memory"
	"github.com/ts1257/acme-blogs/pkg/adapters/redis"
	"github.com/ts1257/acme-blogs/pkg/domain"
	"github.com/ts1257/acme-blogs/pkg/observability"
	"github.com/ts1257/acme-blogs/pkg/ports"
	"github.com/ts1257/acme-blogs/pkg/session"
)

// Options are the global command-line flags.
type Options struct {
	ConfigPath string
	// Offline serves the bundled fixtures (or FixturesPath) instead of the remote API.
	Offline      bool
	FixturesPath string
	// Overrides applied on top of the config file when non-empty.
	BaseURL       string
	FailurePolicy string
	LogLevel      string
	Debug         bool
}

// App holds the resolved configuration and the components shared by every command.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *observability.Metrics

	opts    Options
	fetcher ports.Fetcher
}

// NewApp loads the configuration, applies flag overrides and builds the fetcher.
func NewApp(opts Options, logOutput io.Writer) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.BaseURL != "" {
		cfg.API.BaseURL = opts.BaseURL
	}
	if opts.FailurePolicy != "" {
		cfg.Board.FailurePolicy = opts.FailurePolicy
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if logOutput == nil {
		logOutput = os.Stderr
	}

	app := &App{
		Config:  cfg,
		Logger:  logging.NewWithFormat(logOutput, level, cfg.Log.Format),
		Metrics: observability.NewMetrics(),
		opts:    opts,
	}
	app.fetcher, err = app.newFetcher()
	if err != nil {
		return nil, err
	}
	return app, nil
}

// Hooks combines metric collection with debug logging of every event.
func (a *App) Hooks() domain.LifecycleHooks {
	return domain.MergeHooks(a.Metrics.Hooks(), observability.LogHooks(a.Logger))
}

// Fetcher returns the source every board reads from.
func (a *App) Fetcher() ports.Fetcher {
	return a.fetcher
}

func (a *App) newFetcher() (ports.Fetcher, error) {
	if a.opts.Offline {
		if a.opts.FixturesPath != "" {
			src, err := memory.LoadSource(a.opts.FixturesPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load fixtures: %w", err)
			}
			return src, nil
		}
		return memory.DefaultSource(), nil
	}

	clientOpts := []jsonplaceholder.Option{
		jsonplaceholder.WithTimeout(a.Config.API.Timeout),
		jsonplaceholder.WithLogger(a.Logger),
		jsonplaceholder.WithLifecycleHooks(a.Hooks()),
	}
	if b := a.Config.API.Breaker; b.Enabled {
		bc := jsonplaceholder.DefaultBreakerConfig()
		if b.ConsecutiveFailures > 0 {
			bc.ConsecutiveFailures = b.ConsecutiveFailures
		}
		if b.Timeout > 0 {
			bc.Timeout = b.Timeout
		}
		clientOpts = append(clientOpts, jsonplaceholder.WithBreaker(bc))
	}
	return jsonplaceholder.New(a.Config.API.BaseURL, clientOpts...), nil
}

// NewBoard creates a board configured from the board section.
func (a *App) NewBoard() (*blogs.Board, error) {
	policy, err := blogs.ParseFailurePolicy(a.Config.Board.FailurePolicy)
	if err != nil {
		return nil, err
	}
	return blogs.New(a.fetcher,
		blogs.WithTitle(a.Config.Board.Title),
		blogs.WithFailurePolicy(policy),
		blogs.WithConcurrency(a.Config.Board.Concurrency),
		blogs.WithDefaultUserID(a.Config.Board.DefaultUser),
		blogs.WithLogger(a.Logger),
		blogs.WithLifecycleHooks(a.Hooks()),
	)
}

// NewSessions builds the session manager. A configured Redis address selects the Redis store and
// the distributed locker; otherwise store.dir selects the file store, and sessions live in memory
// when neither is set. The returned func releases the store.
func (a *App) NewSessions(ctx context.Context) (*session.Manager, func() error, error) {
	factory := func() (ports.Board, error) { return a.NewBoard() }
	opts := []session.Option{
		session.WithLogger(a.Logger),
		session.WithMaxBoards(a.Config.Server.MaxBoards),
		session.WithIdleTTL(a.Config.Server.IdleTTL),
	}
	if a.Config.Redis.LockTTL > 0 {
		opts = append(opts, session.WithLockTTL(a.Config.Redis.LockTTL))
	}

	if a.Config.Redis.Addr == "" && a.Config.Store.Dir != "" {
		a.Logger.Info("Using file session store", "dir", a.Config.Store.Dir)
		return session.NewManager(file.New(a.Config.Store.Dir), factory, opts...), func() error { return nil }, nil
	}
	if a.Config.Redis.Addr == "" {
		a.Logger.Info("Using in-memory session store")
		return session.NewManager(memory.NewStore(), factory, opts...), func() error { return nil }, nil
	}

	store := redis.New(a.Config.Redis.Addr, "", 0, redis.WithTTL(a.Config.Redis.TTL))
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("redis %s: %w", a.Config.Redis.Addr, err)
	}
	a.Logger.Info("Using Redis session store", "addr", a.Config.Redis.Addr)
	opts = append(opts, session.WithLocker(redis.NewLocker(store.Client(), redis.DefaultPrefix)))
	return session.NewManager(store, factory, opts...), store.Close, nil
}
