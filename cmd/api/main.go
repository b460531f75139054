package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquor-ledger/internal/application/billing"
	"github.com/jhoicas/liquor-ledger/internal/application/compliance"
	"github.com/jhoicas/liquor-ledger/internal/application/inventory"
	"github.com/jhoicas/liquor-ledger/internal/domain/audit"
	"github.com/jhoicas/liquor-ledger/internal/domain/forecast"
	"github.com/jhoicas/liquor-ledger/internal/domain/ledger"
	"github.com/jhoicas/liquor-ledger/internal/domain/repository"
	"github.com/jhoicas/liquor-ledger/internal/domain/tax"
	"github.com/jhoicas/liquor-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/liquor-ledger/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/liquor-ledger/internal/interfaces/http"
	"github.com/jhoicas/liquor-ledger/pkg/config"
	"github.com/jhoicas/liquor-ledger/pkg/logger"
)

// stores repositorios del driver elegido.
type stores struct {
	txRunner    inventory.TxRunner
	products    repository.ProductRepository
	entries     repository.LedgerEntryRepository
	movements   repository.MovementRepository
	discrepancy repository.DiscrepancyRepository
	close       func()
}

func openStores(ctx context.Context, cfg config.DBConfig) (*stores, error) {
	if cfg.Driver == config.DriverSQLite {
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &stores{
			txRunner:    sqlite.NewTxRunner(db),
			products:    sqlite.NewProductRepository(db),
			entries:     sqlite.NewLedgerEntryRepository(db),
			movements:   sqlite.NewMovementRepository(db),
			discrepancy: sqlite.NewDiscrepancyRepository(db),
			close:       func() { db.Close() },
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &stores{
		txRunner:    postgres.NewTxRunner(pool),
		products:    postgres.NewProductRepository(pool),
		entries:     postgres.NewLedgerEntryRepository(pool),
		movements:   postgres.NewMovementRepository(pool),
		discrepancy: postgres.NewDiscrepancyRepository(pool),
		close:       pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	loc, err := time.LoadLocation(cfg.Ledger.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Ledger.Timezone).Msg("zona horaria inválida")
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base de datos")
	}
	defer st.close()

	stockLedger := ledger.New()
	ledgerUC := inventory.NewLedgerUseCase(stockLedger, st.txRunner, st.products, st.entries, st.movements,
		log, loc, cfg.Ledger.SalesHistoryDays)
	replenishmentUC := inventory.NewReplenishmentUseCase(stockLedger, forecast.NewEngine(), st.products,
		cfg.Ledger.ForecastWindowDays, cfg.Ledger.TargetSupplyDays, loc)
	taxUC := billing.NewTaxUseCase(tax.NewEngine())
	complianceUC := compliance.NewUseCase(stockLedger,
		audit.NewReconciliationAuditor(decimal.NewFromFloat(cfg.Ledger.ToleranceMl)), st.discrepancy, log)
	stockLedger.Subscribe(complianceUC.Observer())

	if err := ledgerUC.Restore(ctx); err != nil {
		log.Fatal().Err(err).Msg("restaurar libro")
	}
	log.Info().Int("products", len(stockLedger.Snapshots())).Msg("libro restaurado")

	// Poda diaria del historial de ventas en memoria.
	pruneCtx, stopPrune := context.WithCancel(ctx)
	defer stopPrune()
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-pruneCtx.Done():
				return
			case <-ticker.C:
				ledgerUC.PruneSales()
			}
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:        ledgerUC,
		Replenishment: replenishmentUC,
		Tax:           taxUC,
		Compliance:    complianceUC,
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
