package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"comment_harvester/internal/citation"
	"comment_harvester/internal/config"
	"comment_harvester/internal/dates"
	"comment_harvester/internal/publisher"
	"comment_harvester/internal/scheduler"
	"comment_harvester/internal/service"
	"comment_harvester/internal/source/tagesschau"
	"comment_harvester/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single harvest pass and exit")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	parser, err := newDateParser(cfg.Dates)
	if err != nil {
		logger.Error("failed to set up date parser", "error", err)
		os.Exit(1)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// A nil *RabbitMQ must not reach the interface, or Announce would
	// see a non-nil publisher.
	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	articleStore := postgres.NewArticleStore(db)
	tagStore := postgres.NewTagStore(db)
	userStore := postgres.NewUserStore(db)
	commentStore := postgres.NewCommentStore(db)
	citationStore := postgres.NewCitationStore(db)
	runStateStore := postgres.NewRunStateStore(db)
	txManager := postgres.NewTransactionManager(db)

	source := tagesschau.New(tagesschau.Config{
		BaseURL:        cfg.Source.BaseURL,
		LatestURL:      cfg.Source.LatestURL,
		UserAgent:      cfg.Source.UserAgent,
		TeaserSuffix:   cfg.Source.TeaserSuffix,
		Timeout:        cfg.Source.Timeout,
		MaxAttempts:    cfg.Source.Retry.MaxAttempts,
		InitialBackoff: cfg.Source.Retry.InitialBackoff,
		MaxBackoff:     cfg.Source.Retry.MaxBackoff,
	}, logger)

	detector := citation.New(citation.Config{
		MinTextLength:     cfg.Harvest.MinTextLength,
		QuoteMinLength:    cfg.Harvest.QuoteMinLength,
		StrongQuoteLength: cfg.Harvest.StrongQuoteLength,
	})

	harvester := service.NewHarvester(
		source,
		service.NewIngestFrontier(articleStore, source, cfg.Harvest.SeedArticleID, cfg.Harvest.RecrawlWindow, logger),
		service.NewArticleIngester(articleStore, tagStore, userStore, commentStore, parser, txManager, logger),
		service.NewCitationFrontier(commentStore, citationStore, logger),
		service.NewCitationAnalyzer(commentStore, citationStore, detector, txManager, pub, logger),
		citationStore,
		runStateStore,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting comment harvester",
		"source", source.Name(),
		"once", *once,
		"interval", cfg.Harvest.Interval,
		"seed_article_id", cfg.Harvest.SeedArticleID,
		"publish", pub != nil,
	)

	if *once {
		runCtx, runCancel := context.WithTimeout(ctx, cfg.Harvest.RunTimeout)
		defer runCancel()
		if _, err := harvester.Run(runCtx); err != nil {
			logger.Error("harvest failed", "error", err)
			os.Exit(1)
		}
		return
	}

	sched := scheduler.NewScheduler(harvester, cfg.Harvest.Interval, cfg.Harvest.RunTimeout, logger)
	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func newDateParser(cfg config.DatesConfig) (*dates.Parser, error) {
	loc, err := time.LoadLocation(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", cfg.Location, err)
	}

	months, err := cfg.MonthTable()
	if err != nil {
		return nil, err
	}
	if months == nil {
		months = dates.GermanMonths()
	}

	return dates.NewParser(dates.Format{
		Layouts:  []string{cfg.ArticleLayout, cfg.CommentLayout},
		Months:   months,
		Location: loc,
	}), nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
