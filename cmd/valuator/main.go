package main

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/battvalue/valuator/internal/api"
	"github.com/battvalue/valuator/internal/assay"
	"github.com/battvalue/valuator/internal/config"
	"github.com/battvalue/valuator/internal/database"
	"github.com/battvalue/valuator/internal/domain"
	"github.com/battvalue/valuator/internal/export"
	"github.com/battvalue/valuator/internal/history"
	"github.com/battvalue/valuator/internal/market"
	"github.com/battvalue/valuator/internal/valuation"
	"github.com/battvalue/valuator/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	// Missing .env is fine; real deployments use the environment directly.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "valuator",
		Usage: "battery feedstock valuation service",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API server",
				Action: runServe,
			},
			{
				Name:  "market",
				Usage: "fetch a market snapshot and print it as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "currency", Value: "USD", Usage: "target currency code"},
				},
				Action: runMarket,
			},
			{
				Name:  "calc",
				Usage: "value a feedstock lot from a COA file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "coa", Required: true, Usage: "path to a COA text file"},
					&cli.Float64Flag{Name: "weight", Required: true, Usage: "gross lot weight in kg"},
					&cli.StringFlag{Name: "currency", Value: "USD", Usage: "target currency code"},
					&cli.Float64Flag{Name: "yield", Value: 1.0, Usage: "black mass yield fraction"},
					&cli.Float64Flag{Name: "opex", Value: 0, Usage: "refining opex per tonne of black mass"},
				},
				Action: runCalc,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newMarketService(cfg config.Config) *market.Service {
	return market.NewService(
		market.NewMetalsDevClient(cfg.MetalsDevURL, cfg.MetalsDevAPIKey),
		market.NewFuturesClient(cfg.FuturesURL),
	)
}

func runServe(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	marketSvc := newMarketService(cfg)
	valuationSvc := valuation.NewService(marketSvc)
	reportSvc := export.NewService(marketSvc)

	// Quote history is optional: without DATABASE_URL the service still
	// serves live valuations, it just keeps no audit trail.
	var quoteRepo history.Repository
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		migrationsSub, err := fs.Sub(migrationsFS, "migrations")
		if err != nil {
			return fmt.Errorf("creating migrations sub-fs: %w", err)
		}
		if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		quoteRepo = history.NewPgRepository(pool)
	} else {
		slog.Warn("DATABASE_URL not set, quote history disabled")
	}

	var hook worker.SnapshotHook
	switch {
	case cfg.SheetsSpreadsheetID != "" && cfg.SheetsCredentials != "":
		monitor, err := export.NewSheetsMonitor(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsCredentials)
		if err != nil {
			return fmt.Errorf("creating sheets monitor: %w", err)
		}
		hook = monitor
	case quoteRepo != nil:
		hook = quoteRepo
	}

	refreshWorker := worker.NewRefreshWorker(marketSvc, cfg.RefreshCurrencies, cfg.RefreshInterval, hook)
	go refreshWorker.Run(ctx)

	handler := api.NewHandler(marketSvc, valuationSvc, reportSvc, quoteRepo, cfg.MetalsDevAPIKey != "")
	srv := api.NewServer(cfg.HTTPPort, handler)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}

func runMarket(c *cli.Context) error {
	cfg := config.Load()
	marketSvc := newMarketService(cfg)

	snapshot, err := marketSvc.GetSnapshot(c.Context, c.String("currency"))
	if err != nil {
		return fmt.Errorf("fetching market data: %w", err)
	}
	return printJSON(snapshot)
}

func runCalc(c *cli.Context) error {
	text, err := os.ReadFile(c.String("coa"))
	if err != nil {
		return fmt.Errorf("reading COA file: %w", err)
	}
	assays := assay.Parse(string(text))
	total := 0.0
	for _, v := range assays {
		total += v
	}
	if total == 0 {
		return fmt.Errorf("no metal assays recognised in %s", c.String("coa"))
	}

	cfg := config.Load()
	marketSvc := newMarketService(cfg)
	valuationSvc := valuation.NewService(marketSvc)

	snapshot, err := marketSvc.GetSnapshot(c.Context, c.String("currency"))
	if err != nil {
		return fmt.Errorf("fetching market data: %w", err)
	}

	req := domain.ValuationRequest{
		Currency:         snapshot.Currency,
		GrossWeightKg:    c.Float64("weight"),
		FeedType:         domain.FeedBlackMass,
		YieldFraction:    c.Float64("yield"),
		MechRecovery:     1.0,
		HydrometRecovery: 0.95,
		Assays:           assays,
		AssayBasis:       domain.BasisFinalPowder,
		MetalPrices:      snapshot.Spot,
		Payables:         valuation.StandardPayables(),
		RefiningOpexBase: c.Float64("opex"),
		NiCoRoute:        domain.RouteSulphate,
		LiRoute:          domain.RouteCarbonate,
	}

	result, err := valuationSvc.Calculate(c.Context, req)
	if err != nil {
		return fmt.Errorf("calculating valuation: %w", err)
	}
	return printJSON(result)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
