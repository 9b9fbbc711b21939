package service

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/xolan/locktime/internal/account"
	"github.com/xolan/locktime/internal/config"
	"github.com/xolan/locktime/internal/logging"
)

// Services holds all service instances used by the application
type Services struct {
	Config  *ConfigService
	Tracker *TrackerService
	Account *AccountService
	Store   *StoreService
	Logger  *slog.Logger

	backends *backends
	closers  []io.Closer
}

// Option configures NewServicesWithPaths.
type Option func(*options)

type options struct {
	now        func() time.Time
	bcryptCost int
	logger     *slog.Logger
}

// WithClock sets the clock used by the tracker and account services.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(o *options) { o.bcryptCost = cost }
}

// WithLogger sets the logger shared by the services.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewServices loads the config file, opens the log file and the stores of
// the configured backend below the data directory.
func NewServices() (*Services, error) {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}

	logger, logFile, err := logging.OpenFile(dataDir, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	services, err := NewServicesWithPaths(configPath, dataDir, cfg, WithLogger(logger))
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}
	services.closers = append(services.closers, logFile)
	return services, nil
}

// NewServicesWithPaths creates a new Services instance with custom paths (useful for testing)
func NewServicesWithPaths(configPath, dataDir string, cfg config.Config, opts ...Option) (*Services, error) {
	o := options{now: time.Now, bcryptCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}
	cfg.Normalize()

	b := newBackends(dataDir)
	state, err := b.state(cfg.Backend)
	if err != nil {
		return nil, err
	}
	kv, err := b.accounts(cfg.Backend)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	manager := account.New(kv, account.WithClock(o.now), account.WithCost(o.bcryptCost))
	logger := o.logger.With(slog.String("backend", cfg.Backend))

	return &Services{
		Config:   NewConfigService(configPath, dataDir, cfg),
		Tracker:  NewTrackerService(state, logger, o.now),
		Account:  NewAccountService(manager, logger),
		Store:    newStoreService(b, cfg.Backend, state, logger),
		Logger:   logger,
		backends: b,
	}, nil
}

// Close releases the stores and the log file.
func (s *Services) Close() error {
	errs := []error{s.backends.Close()}
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	s.closers = nil
	return errors.Join(errs...)
}
