package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/gridiron-analytics/gridrank/internal/category"
	"github.com/gridiron-analytics/gridrank/internal/export"
	"github.com/gridiron-analytics/gridrank/internal/fantasy"
	"github.com/gridiron-analytics/gridrank/internal/ledger"
	"github.com/gridiron-analytics/gridrank/internal/records"
	"github.com/gridiron-analytics/gridrank/internal/replay"
	"github.com/gridiron-analytics/gridrank/pkg/config"
	"github.com/gridiron-analytics/gridrank/pkg/database"
	"github.com/gridiron-analytics/gridrank/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.InitLogger("", cfg.IsDevelopment())

	if cfg.ScheduleSpec == "" {
		if err := runReplay(context.Background(), cfg, log); err != nil {
			log.Fatalf("Replay failed: %v", err)
		}
		return
	}

	// Scheduled mode: re-run the full replay on a cron spec during the
	// season. Each run is independent and idempotent over immutable inputs.
	c := cron.New()
	_, err = c.AddFunc(cfg.ScheduleSpec, func() {
		if err := runReplay(context.Background(), cfg, log); err != nil {
			log.WithError(err).Error("Scheduled replay failed")
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule replay: %v", err)
	}
	c.Start()
	log.WithField("schedule", cfg.ScheduleSpec).Info("Replay scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx := c.Stop()
	<-ctx.Done()
	log.Info("Replay scheduler stopped")
}

func runReplay(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	runID := uuid.New().String()
	runLog := logger.WithRun(runID, cfg.League)
	runLog.Info("Starting replay run")

	loader, cleanup, err := buildLoader(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	driver, err := replay.New(loader, replay.Options{
		League:             cfg.League,
		InitialRating:      cfg.InitialRating,
		EliteInitialRating: cfg.EliteInitialRating,
		ElitePlayers:       cfg.EliteList(),
		PlayerK:            cfg.PlayerKFactor,
		TeamK:              cfg.TeamKFactor,
		ScaleMargin:        cfg.ScaleMargin,
		RegressionBlend:    cfg.RegressionBlend,
		RegressionAppends:  cfg.RegressionAppends,
		SeasonGap:          cfg.SeasonGap,
	}, runLog)
	if err != nil {
		return err
	}

	baseline, err := cfg.BaselineSeasonRange()
	if err != nil {
		return err
	}
	seasons, err := cfg.SeasonRange()
	if err != nil {
		return err
	}

	if len(baseline) > 0 {
		runLog.WithField("seasons", baseline).Info("Seeding team ratings from baseline span")
		if err := driver.RunBaseline(ctx, baseline); err != nil {
			return fmt.Errorf("baseline replay: %w", err)
		}
	}

	runLog.WithField("seasons", seasons).Info("Replaying seasons with player tracking")
	if err := driver.Run(ctx, seasons); err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	report := driver.Errors().Report()
	for _, line := range report {
		runLog.WithFields(logrus.Fields{
			"category": line.Category,
			"rmse":     line.RMSE,
			"samples":  line.Samples,
		}).Info("Prediction error")
	}

	if err := persist(cfg, runID, driver, report); err != nil {
		return err
	}
	if err := writeExports(cfg, driver); err != nil {
		return err
	}

	runLog.Info("Replay run complete")
	return nil
}

func buildLoader(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*records.Loader, func(), error) {
	var source records.Source = records.FileSource{Dir: cfg.DataDir, League: cfg.League}
	if cfg.RecordsBaseURL != "" {
		source = records.FallbackSource{
			Primary:   records.NewHTTPSource(cfg.RecordsBaseURL, cfg.League, cfg.RecordsRateLimit, cfg.RecordsAPITimeout, log),
			Secondary: source,
			Logger:    log,
		}
	}

	cleanup := func() {}
	var cache *records.Cache
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("Redis unreachable, running without record cache")
			client.Close()
		} else {
			cache = records.NewCache(client, cfg.CacheExpiration)
			cleanup = func() { client.Close() }
		}
	}

	return records.NewLoader(source, cache, cfg.League, log), cleanup, nil
}

func persist(cfg *config.Config, runID string, driver *replay.Driver, report []fantasy.CategoryError) error {
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := export.Migrate(db.DB); err != nil {
		return err
	}
	return export.PersistRun(db.DB, runID, cfg.League, driver.Ledgers(), report)
}

func writeExports(cfg *config.Config, driver *replay.Driver) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	meta := map[string]export.PlayerMeta{}
	if cfg.PlayerMetaFile != "" {
		f, err := os.Open(cfg.PlayerMetaFile)
		if err != nil {
			return fmt.Errorf("failed to open player metadata: %w", err)
		}
		meta, err = export.LoadPlayerMeta(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to parse player metadata: %w", err)
		}
	}

	spec := cfg.SortSpec()
	for name, l := range driver.Ledgers() {
		for _, key := range l.Categories() {
			path := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s.csv", name, key))
			if err := writeCSVFile(path, l, key, spec); err != nil {
				return err
			}
		}

		if name == string(category.GroupTeam) {
			continue
		}
		path := filepath.Join(cfg.OutputDir, name+".json")
		if err := writeJSONFile(path, l, meta); err != nil {
			return err
		}
		logger.WithLedger(name).WithField("entities", l.Len()).Info("Exported ledger")
	}
	return nil
}

func writeCSVFile(path string, l *ledger.Ledger, key string, spec export.SortSpec) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return export.WriteCSV(f, l, key, spec)
}

func writeJSONFile(path string, l *ledger.Ledger, meta map[string]export.PlayerMeta) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return export.WritePositionGroupJSON(f, l, meta)
}
