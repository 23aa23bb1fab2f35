package main

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"syscall"

	"github.com/MichalMitros/az-phone-market/cmd/market/config"
	"github.com/MichalMitros/az-phone-market/internal/brand"
	"github.com/MichalMitros/az-phone-market/internal/chart"
	"github.com/MichalMitros/az-phone-market/internal/combiner"
	"github.com/MichalMitros/az-phone-market/internal/dataset"
	"github.com/MichalMitros/az-phone-market/internal/fetcher"
	"github.com/MichalMitros/az-phone-market/internal/handler"
	"github.com/MichalMitros/az-phone-market/internal/normalize"
	"github.com/MichalMitros/az-phone-market/internal/pipeline"
	"github.com/MichalMitros/az-phone-market/internal/platform/rabbitmq"
	"github.com/MichalMitros/az-phone-market/internal/platform/storage"
	"github.com/MichalMitros/az-phone-market/internal/registry"
	"github.com/MichalMitros/az-phone-market/internal/report"
	"github.com/MichalMitros/az-phone-market/internal/scraper"
	"github.com/MichalMitros/az-phone-market/pkg/v1/notifier"
	"github.com/caarlos0/env/v6"
	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg config.Config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse env variables")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse log level")
	}
	logger = logger.Level(level)

	mode := ""
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	reg, err := registry.Default()
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't load registry")
	}

	sources, err := reg.Select(cfg.Sources)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't select sources")
	}

	normalizer, err := brand.NewNormalizer(brand.Vocabulary{
		Brands:   reg.Brands.Vocabulary,
		Aliases:  reg.Brands.Aliases,
		Stoplist: reg.Brands.Stoplist,
	})
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't create brand normalizer")
	}

	assembler, err := normalize.NewAssembler(reg, normalizer)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't create row assembler")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't create cookie jar")
	}

	fetch := fetcher.NewFetcher(
		&http.Client{Timeout: cfg.HTTP.Timeout, Jar: jar},
		cfg.HTTP.UserAgent,
		fetcher.WithRateLimit(cfg.HTTP.RequestsPerSecond, cfg.HTTP.PageConcurrency),
	)

	collectors := scraper.New(
		scraper.Settings{
			Fetcher:     fetch,
			Logger:      &logger,
			Concurrency: cfg.HTTP.PageConcurrency,
		},
		scraper.WithElitOptimalToken(cfg.HTTP.ElitOptimalToken),
	)

	ops := []pipeline.Option{
		pipeline.WithCollectors(lo.Map(collectors, func(c scraper.Collector, _ int) pipeline.Collector { return c })...),
		pipeline.WithRenderers(
			chart.NewWorkbook(cfg.ChartsPath, reg.Labels(), chart.WithLogger(&logger)),
			report.NewWriter(cfg.ReportPath, reg.Labels(), report.WithLogger(&logger)),
		),
		pipeline.WithConcurrency(cfg.ScrapeConcurrency),
		pipeline.WithLogger(&logger),
	}

	// snapshots and notifications belong to full runs only
	fullRun := mode == "" || mode == handler.ModeRun

	var pgDB *sql.DB
	if cfg.DatabaseURL != "" && fullRun {
		if pgDB, err = sql.Open("postgres", cfg.DatabaseURL); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't open Postgres connection")
		}

		postgres := storage.NewPostgres(pgDB, storage.WithBatchSize(cfg.BatchSize))
		if err := postgres.Migrate(ctx); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't prepare Postgres schema")
		}
		ops = append(ops, pipeline.WithStorage(postgres))
	}

	var amqpConnection *amqp.Connection
	if cfg.RabbitMQ.URL != "" && fullRun {
		if amqpConnection, err = amqp.Dial(cfg.RabbitMQ.URL); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't open RabbitMQ connection")
		}

		mq, err := rabbitmq.NewRabbitMQ(amqpConnection, cfg.RabbitMQ.Exchange)
		if err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't open RabbitMQ channel")
		}

		ops = append(ops, pipeline.WithNotifier(
			notifier.NewRunNotifier(notifier.NewRabbitMQSender(mq, cfg.RabbitMQ.RoutingKey)),
		))
	}

	par := pipeline.NewPipeline(sources, dataset.NewExports(cfg.DataDir), combiner.NewCombiner(
		assembler,
		combiner.WithLogger(&logger),
	), ops...)

	logger.Info().
		Str("mode", lo.Ternary(mode == "", handler.ModeRun, mode)).
		Strs("sources", sources).
		Msg("market job started")

	handleErr := handler.NewHandler(par, &logger).Handle(ctx, mode)

	// close connections
	if pgDB != nil {
		if err := pgDB.Close(); err != nil {
			logger.Error().
				Err(err).
				Msg("can't close Postgres connection")
		}
	}

	if amqpConnection != nil {
		if err := amqpConnection.Close(); err != nil {
			logger.Error().
				Err(err).
				Msg("can't close RabbitMQ connection")
		}
	}

	if handleErr != nil {
		logger.Error().
			Err(handleErr).
			Msg("market job failed")
		cancel()
		os.Exit(1)
	}

	logger.Info().Msg("market job finished")
}
