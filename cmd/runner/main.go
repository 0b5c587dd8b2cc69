// backend-go/cmd/runner/main.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/stockcast/backend-go/internal/cache"
	"github.com/stockcast/backend-go/internal/config"
	"github.com/stockcast/backend-go/internal/events"
	"github.com/stockcast/backend-go/internal/repository/postgres"
	"github.com/stockcast/backend-go/internal/service"
	"github.com/stockcast/backend-go/internal/storage"
	"github.com/stockcast/backend-go/pkg/logger"
)

// jobEnv carries the wired services between a command's Before hook and its
// action.
type jobEnv struct {
	cfg       *config.Config
	db        *postgres.DB
	store     storage.ObjectStorage
	publisher events.AlertPublisher
	forecasts *service.ForecastService
	alerts    *service.AlertService
	po        *service.POService
}

var env jobEnv

func setup(c *cli.Context) error {
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	catalogRepo := postgres.NewCatalogRepository(db)
	forecastRepo := postgres.NewForecastRepository(db)
	alertRepo := postgres.NewAlertRepository(db)

	publisher, err := events.NewAlertPublisher(cfg.Kafka)
	if err != nil {
		return fmt.Errorf("failed to initialize kafka publisher: %w", err)
	}

	var store storage.ObjectStorage
	if cfg.Storage.Enabled {
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize object storage: %w", err)
		}
		store = client
	}

	env = jobEnv{
		cfg:       cfg,
		db:        db,
		store:     store,
		publisher: publisher,
		forecasts: service.NewForecastService(catalogRepo, forecastRepo, cache.NewNoopForecastCache(), store, cfg.Forecast),
		alerts:    service.NewAlertService(catalogRepo, forecastRepo, alertRepo, publisher, cfg.Replenish),
		po:        service.NewPOService(catalogRepo, cfg.Replenish),
	}
	return nil
}

func teardown(c *cli.Context) error {
	if env.publisher != nil {
		if err := env.publisher.Close(); err != nil {
			logger.Log.Warn().Err(err).Msg("failed to close publisher")
		}
	}
	if env.db != nil {
		return env.db.Close()
	}
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("no .env file loaded")
	}

	app := &cli.App{
		Name:  "stockcast-runner",
		Usage: "Run forecasting and replenishment jobs from the command line",
		Commands: []*cli.Command{
			{
				Name:  "forecast",
				Usage: "Generate demand forecasts",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "product", Usage: "Product id to forecast"},
					&cli.BoolFlag{Name: "all", Usage: "Forecast every product"},
					&cli.IntFlag{Name: "horizon", Usage: "Forecast horizon in days (default from config)"},
				},
				Before: setup,
				After:  teardown,
				Action: runForecast,
			},
			{
				Name:  "alerts",
				Usage: "Evaluate replenishment alerts",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "product", Usage: "Evaluate a single product instead of all"},
				},
				Before: setup,
				After:  teardown,
				Action: runAlerts,
			},
			{
				Name:  "po-draft",
				Usage: "Draft purchase orders for the given products",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "products", Usage: "Comma-separated product ids", Required: true},
				},
				Before: setup,
				After:  teardown,
				Action: runPODraft,
			},
			{
				Name:  "export",
				Usage: "Export a forecast snapshot to object storage",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "list", Usage: "List archived snapshots instead of exporting"},
					&cli.StringFlag{Name: "fetch", Usage: "Download the given snapshot key"},
					&cli.StringFlag{Name: "out", Usage: "Destination path for --fetch", Value: "./snapshot.csv"},
				},
				Before: setup,
				After:  teardown,
				Action: runExport,
			},
			{
				Name:  "seed",
				Usage: "Create the schema and load demo catalog data",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db-url",
						Usage:    "Database connection string",
						Required: true,
						EnvVars:  []string{"DATABASE_URL"},
					},
					&cli.IntFlag{Name: "days", Usage: "Days of synthetic sales history", Value: 120},
				},
				Action: runSeed,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("runner failed")
	}
}

func runForecast(c *cli.Context) error {
	productID := c.Int64("product")
	all := c.Bool("all")
	horizon := c.Int("horizon")

	switch {
	case all && productID != 0:
		return fmt.Errorf("--product and --all are mutually exclusive")
	case all:
		report, err := env.forecasts.GenerateAll(c.Context, horizon)
		if err != nil {
			return err
		}
		return printJSON(report)
	case productID > 0:
		result, err := env.forecasts.Generate(c.Context, productID, horizon)
		if err != nil {
			return err
		}
		return printJSON(result)
	default:
		return fmt.Errorf("pass --product <id> or --all")
	}
}

func runAlerts(c *cli.Context) error {
	if productID := c.Int64("product"); productID > 0 {
		created, err := env.alerts.GenerateForProduct(c.Context, productID)
		if err != nil {
			return err
		}
		return printJSON(created)
	}

	report, err := env.alerts.GenerateAll(c.Context)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func runPODraft(c *cli.Context) error {
	ids, err := parseIDList(c.String("products"))
	if err != nil {
		return err
	}

	drafts, err := env.po.DraftFromAdvisor(c.Context, ids)
	if err != nil {
		return err
	}
	return printJSON(drafts)
}

func runExport(c *cli.Context) error {
	if env.store == nil {
		return fmt.Errorf("object storage is not enabled, set STORAGE_ENABLED=true")
	}

	if c.Bool("list") {
		objects, err := env.store.ListObjects(c.Context, "forecasts/")
		if err != nil {
			return err
		}
		return printJSON(objects)
	}

	if key := c.String("fetch"); key != "" {
		dest := c.String("out")
		if err := env.store.DownloadObject(c.Context, key, dest); err != nil {
			return err
		}
		fmt.Printf("downloaded %s to %s\n", key, dest)
		return nil
	}

	key, err := env.forecasts.ExportSnapshot(c.Context)
	if err != nil {
		return err
	}
	fmt.Println(key)
	return nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func parseIDList(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no product ids given")
	}
	return ids, nil
}
