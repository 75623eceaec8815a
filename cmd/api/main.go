package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"simlab/adapters/history"
	"simlab/adapters/sampleio"
	"simlab/app"
	"simlab/internal"
	"simlab/internal/config"
	"simlab/internal/experiment"
	"simlab/internal/fit"
	"simlab/internal/migration"
	"simlab/ports"
	"simlab/ui"
)

const version = "1.0.0"

func main() {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	gin.SetMode(cfg.Server.GinMode)

	repo, db, err := setupHistory(cfg, logger)
	if err != nil {
		log.Fatalf("history setup failed: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	svc := app.NewWorkbenchService(
		experiment.NewEngine(cfg.Engine.MaxPiPoints),
		fit.NewBattery(),
		repo,
		sampleio.NewLoader(cfg.Engine.LoadMaxColumns),
		app.Options{
			MaxSampleN:   cfg.Engine.MaxSampleN,
			DefaultAlpha: cfg.Engine.DefaultAlpha,
		},
		logger,
	)
	runner := app.NewBatchRunner(svc, cfg.Engine.BatchWorkers, logger)
	server := ui.NewServer(svc, runner, logger)

	if cfg.Server.OpsPort != "" {
		go serveOps(cfg.Server.OpsPort, db, logger)
	}

	logger.Info("simlab %s starting on :%s", version, cfg.Server.Port)
	if err := server.Start(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// setupHistory picks the run store: Postgres when DATABASE_URL is set,
// the in-memory ring otherwise. The returned db is nil in memory mode.
func setupHistory(cfg *config.Config, logger *internal.Logger) (ports.HistoryRepository, *sqlx.DB, error) {
	if cfg.Database.URL == "" {
		logger.Info("no DATABASE_URL, run history kept in memory (last %d runs)", cfg.Engine.HistoryKeep)
		return history.NewMemoryRepository(cfg.Engine.HistoryKeep), nil, nil
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	logger.Info("run history persisted to Postgres")
	return history.NewPostgresRepository(db), db, nil
}

func serveOps(port string, db *sqlx.DB, logger *internal.Logger) {
	checks := map[string]ui.ReadyCheck{}
	if db != nil {
		checks["database"] = func(ctx context.Context) error {
			return db.PingContext(ctx)
		}
	}

	logger.Info("ops endpoints on :%s", port)
	if err := http.ListenAndServe(":"+port, ui.NewOpsRouter(version, checks)); err != nil {
		logger.Error("ops server failed: %v", err)
	}
}
