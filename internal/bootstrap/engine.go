// Package bootstrap assembles the ledger engine from configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	catalogapp "github.com/invledger/backend/internal/application/catalog"
	importapp "github.com/invledger/backend/internal/application/import"
	inventoryapp "github.com/invledger/backend/internal/application/inventory"
	partnerapp "github.com/invledger/backend/internal/application/partner"
	tradeapp "github.com/invledger/backend/internal/application/trade"
	"github.com/invledger/backend/internal/domain/shared/valueobject"
	"github.com/invledger/backend/internal/infrastructure/config"
	"github.com/invledger/backend/internal/infrastructure/logger"
	"github.com/invledger/backend/internal/infrastructure/migration"
	"github.com/invledger/backend/internal/infrastructure/persistence"
	strategyinfra "github.com/invledger/backend/internal/infrastructure/strategy"
	"github.com/invledger/backend/internal/infrastructure/strategy/resetpoint"
	"github.com/invledger/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// ErrPredicateRequired is returned when the predicate reset policy is configured
// without a predicate function
var ErrPredicateRequired = errors.New("bootstrap: ledger.reset_policy \"predicate\" requires Options.ResetPredicate")

// Options supplies what configuration files cannot express. Every field is optional.
type Options struct {
	// Config is loaded with config.Load when nil
	Config *config.Config
	// Logger is built from Config.Log when nil
	Logger *zap.Logger
	// MeterProvider defaults to the global OpenTelemetry provider
	MeterProvider metric.MeterProvider
	// ResetPredicate backs the "predicate" reset-point policy
	ResetPredicate resetpoint.Predicate
}

// Engine holds the assembled services over one store
type Engine struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *persistence.Database
	Registry *strategyinfra.StrategyRegistry
	Metrics  *telemetry.LedgerMetrics

	Items    *catalogapp.ItemService
	Contacts *partnerapp.ContactService
	Ledger   *inventoryapp.LedgerService
	Invoices *tradeapp.InvoiceService
	Importer *importapp.Worker

	ownsLogger bool
}

// New loads configuration, applies pending migrations when database.auto_migrate
// is set, opens the store and wires the services
func New(ctx context.Context, opts Options) (*Engine, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(); err != nil {
			return nil, err
		}
	}

	e := &Engine{Config: cfg, Logger: opts.Logger}
	if e.Logger == nil {
		log, err := logger.New(&logger.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Output: cfg.Log.Output,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		e.Logger = log
		e.ownsLogger = true
	}
	log := e.Logger.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))

	if cfg.Ledger.ResetPolicy == "predicate" && opts.ResetPredicate == nil {
		e.release()
		return nil, ErrPredicateRequired
	}
	locale, err := language.Parse(cfg.Ledger.Locale)
	if err != nil {
		e.release()
		return nil, fmt.Errorf("invalid ledger.locale %q: %w", cfg.Ledger.Locale, err)
	}

	if cfg.Database.AutoMigrate {
		if err := Migrate(&cfg.Database, log); err != nil {
			e.release()
			return nil, err
		}
	}

	e.DB, err = persistence.NewDatabase(&cfg.Database, persistence.Options{
		Logger:        log,
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
		LogFullSQL:    cfg.Telemetry.DBLogFullSQL,
		Tracing: telemetry.DBTracingConfig{
			Enabled:         cfg.Telemetry.DBTraceEnabled,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		},
	})
	if err != nil {
		e.release()
		return nil, err
	}

	e.Registry, err = strategyinfra.NewRegistryWithPredicate(opts.ResetPredicate)
	if err != nil {
		e.release()
		return nil, fmt.Errorf("failed to build strategy registry: %w", err)
	}

	mp := opts.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	e.Metrics, err = telemetry.NewLedgerMetrics(mp.Meter("github.com/invledger/backend"))
	if err != nil {
		e.release()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	db := e.DB.DB
	itemRepo := persistence.NewGormItemRepository(db)
	contactRepo := persistence.NewGormContactRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	movementRepo := persistence.NewGormStockMovementRepository(db)

	e.Items = catalogapp.NewItemService(itemRepo, log)
	e.Contacts = partnerapp.NewContactService(contactRepo, log)
	e.Ledger = inventoryapp.NewLedgerService(movementRepo, e.Registry, inventoryapp.LedgerConfig{
		AverageStrategy:   cfg.Ledger.AverageStrategy,
		LastPriceStrategy: cfg.Ledger.LastPriceStrategy,
		ResetPolicy:       cfg.Ledger.ResetPolicy,
	}, log)
	e.Invoices = tradeapp.NewInvoiceService(
		invoiceRepo,
		movementRepo,
		itemRepo,
		contactRepo,
		persistence.NewGormTransactionScope(db),
		e.Ledger,
		e.Metrics,
		tradeapp.InvoiceServiceConfig{Currency: valueobject.Currency(cfg.Ledger.Currency), Locale: locale},
		log,
	)
	e.Importer = importapp.NewWorker(e.Items, e.Invoices, e.Metrics, importapp.WorkerConfig{
		Workers:   cfg.Import.Workers,
		QueueSize: cfg.Import.QueueSize,
	}, log)

	if err := e.DB.DB.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		e.release()
		return nil, fmt.Errorf("store not reachable: %w", err)
	}
	log.Info("Engine ready",
		zap.String("driver", cfg.Database.Driver),
		zap.String("reset_policy", cfg.Ledger.ResetPolicy),
		zap.String("average_strategy", cfg.Ledger.AverageStrategy),
	)
	return e, nil
}

// Migrate applies all pending embedded migrations on a dedicated connection
func Migrate(cfg *config.DatabaseConfig, log *zap.Logger) error {
	m, err := migration.NewFromDSN(cfg.Driver, cfg.DSN(), log)
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			log.Warn("Error closing migrator", zap.Error(cerr))
		}
	}()
	return m.Up()
}

// Close releases the store and flushes an owned logger
func (e *Engine) Close() error {
	var err error
	if e.DB != nil {
		if stats, serr := e.DB.Stats(); serr == nil {
			e.Logger.Debug("Closing store",
				zap.Int("open_connections", stats.OpenConnections),
				zap.Int64("wait_count", stats.WaitCount),
				zap.Duration("wait_duration", stats.WaitDuration),
			)
		}
		err = e.DB.Close()
	}
	if e.ownsLogger {
		_ = e.Logger.Sync()
	}
	return err
}

func (e *Engine) release() {
	_ = e.Close()
}
