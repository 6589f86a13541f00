// Package cli provides common CLI initialization utilities shared by every
// cashbook subcommand.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"cashbook/internal/backend"
	"cashbook/internal/config"
	"cashbook/internal/events"
	"cashbook/internal/log"
	"cashbook/internal/persistence"
	"cashbook/internal/report"
	"cashbook/internal/services"
)

const amqpConnectAttempts = 2

// SetupLogger initializes structured logging at the given level and makes
// it the default logger.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig(logger *log.Logger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			log.FieldErrorType, log.ErrorTypeConfiguration,
			log.FieldError, err)
		return nil, err
	}
	return cfg, nil
}

// InitStore creates the configured key-value store.
func InitStore(ctx context.Context, logger *log.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bc)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize store",
			log.FieldBackend, bc.Type,
			log.FieldError, err)
		return nil, err
	}
	return res, nil
}

// InitPublisher connects the change publisher. It returns nil when AMQP is
// disabled or the broker is unreachable; the ledger works without it.
func InitPublisher(ctx context.Context, logger *log.Logger, cfg *config.Config) *events.Publisher {
	if !cfg.AMQPEnabled() {
		return nil
	}
	p := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
	if err := p.Connect(ctx, amqpConnectAttempts); err != nil {
		logger.WarnContext(ctx, "AMQP broker unavailable, continuing without change notifications",
			log.FieldExchange, cfg.AMQPExchange,
			log.FieldError, err)
		return nil
	}
	return p
}

// App bundles what a command needs to run against the persisted ledger.
type App struct {
	Config    *config.Config
	Logger    *log.Logger
	Ledger    *services.LedgerService
	Formatter report.Formatter

	store     *backend.BackendResult
	publisher *events.Publisher
}

// Open loads the environment and configuration, opens the store and loads
// the ledger from it. An unreadable stored state is logged and the ledger
// starts from what could be recovered.
func Open(ctx context.Context) (*App, error) {
	LoadEnvFile()

	bootstrap := SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg, err := LoadAndValidateConfig(bootstrap)
	if err != nil {
		return nil, err
	}
	logger := SetupLogger(cfg.LogLevel)
	return OpenWithConfig(ctx, cfg, logger)
}

// OpenWithConfig is Open with an explicit configuration and logger.
func OpenWithConfig(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	store, err := InitStore(ctx, logger, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Formatter: report.NewFormatter(cfg.CurrencyPrefix, cfg.AmountFractionDigits),
		store:     store,
	}

	opts := []services.Option{
		services.WithLogger(logger),
		services.WithDefaultPeriod(cfg.DefaultPeriodLabel),
	}
	if p := InitPublisher(ctx, logger, cfg); p != nil {
		app.publisher = p
		opts = append(opts, services.WithPublisher(p))
	}

	app.Ledger = services.NewLedgerService(persistence.NewAdapter(store.Store, logger), opts...)
	// Load logs unreadable state; the ledger keeps whatever was recovered.
	_ = app.Ledger.Load(ctx)

	logger.DebugContext(ctx, "Application ready",
		log.FieldOperation, log.OpStartup,
		log.FieldBackend, cfg.DataBackend,
		log.FieldRecords, app.Ledger.Len())
	return app, nil
}

// Close releases the publisher and the store.
func (a *App) Close() error {
	var errs []error
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	return errors.Join(errs...)
}

// Report builds the export document for the current ledger state.
func (a *App) Report() report.Document {
	return a.Ledger.Report(a.Formatter, time.Now())
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
