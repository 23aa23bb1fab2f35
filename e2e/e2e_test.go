package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MichalMitros/az-phone-market/cmd/market/config"
	"github.com/MichalMitros/az-phone-market/e2e/helpers"
	"github.com/MichalMitros/az-phone-market/internal/brand"
	"github.com/MichalMitros/az-phone-market/internal/chart"
	"github.com/MichalMitros/az-phone-market/internal/combiner"
	"github.com/MichalMitros/az-phone-market/internal/dataset"
	"github.com/MichalMitros/az-phone-market/internal/fetcher"
	"github.com/MichalMitros/az-phone-market/internal/handler"
	"github.com/MichalMitros/az-phone-market/internal/normalize"
	"github.com/MichalMitros/az-phone-market/internal/pipeline"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/MichalMitros/az-phone-market/internal/platform/rabbitmq"
	"github.com/MichalMitros/az-phone-market/internal/platform/storage"
	"github.com/MichalMitros/az-phone-market/internal/platform/storage/storagetesting"
	"github.com/MichalMitros/az-phone-market/internal/registry"
	"github.com/MichalMitros/az-phone-market/internal/report"
	"github.com/MichalMitros/az-phone-market/internal/scraper"
	"github.com/MichalMitros/az-phone-market/pkg/v1/notifier"
	"github.com/caarlos0/env/v6"
	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

const (
	userAgent = "az-phone-market-e2e/0.0.1"
	exchange  = "apm-e2e"
)

var sources = []string{"kontakt", "telsat", "wt"}

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	os.Exit(m.Run())
}

func TestE2E(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

// E2ETestSuite runs the whole job against a fake retailer.
// Postgres and RabbitMQ are used when DATABASE_URL and RABBITMQ_URL are set.
type E2ETestSuite struct {
	suite.Suite
	cfg        *config.Config
	connection *amqp.Connection
	channel    *amqp.Channel
	db         *sql.DB
}

func (s *E2ETestSuite) SetupSuite() {
	var err error

	var cfg config.Config
	if err = env.Parse(&cfg); err != nil {
		s.Require().FailNow("can't parse env variables", err)
	}
	s.cfg = &cfg

	if cfg.RabbitMQ.URL != "" {
		if s.connection, err = amqp.Dial(cfg.RabbitMQ.URL); err != nil {
			s.Require().FailNow("can't open RabbitMQ connection", err)
		}

		if s.channel, err = s.connection.Channel(); err != nil {
			s.Require().FailNow("can't open RabbitMQ channel", err)
		}

		helpers.DeclareRMQExchange(s.T(), s.channel, exchange)
	}

	if cfg.DatabaseURL != "" {
		s.db = storagetesting.Open(s.T())
		storagetesting.CleanupData(s.T(), s.db)
	}
}

func (s *E2ETestSuite) TearDownSuite() {
	if s.db != nil {
		storagetesting.CleanupData(s.T(), s.db)
		if err := s.db.Close(); err != nil {
			s.FailNow("can't close Postgres connection", err)
		}
	}

	if s.channel != nil {
		if err := s.channel.Close(); err != nil {
			s.FailNow("can't close RabbitMQ channel", err)
		}
	}

	if s.connection != nil {
		if err := s.connection.Close(); err != nil {
			s.FailNow("can't close RabbitMQ connection", err)
		}
	}
}

func (s *E2ETestSuite) TestMarketRun() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dir := s.T().TempDir()
	phones := helpers.Phones()
	srv := helpers.PrepareMockedRetailer(s.T(), phones, 4)

	// Prepare test logger
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	reg, err := registry.Default()
	s.Require().NoError(err)

	normalizer, err := brand.NewNormalizer(brand.Vocabulary{
		Brands:   reg.Brands.Vocabulary,
		Aliases:  reg.Brands.Aliases,
		Stoplist: reg.Brands.Stoplist,
	})
	s.Require().NoError(err)

	assembler, err := normalize.NewAssembler(reg, normalizer)
	s.Require().NoError(err)

	collectors := scraper.New(
		scraper.Settings{
			Fetcher:     fetcher.NewFetcher(&http.Client{Timeout: 10 * time.Second}, userAgent),
			Logger:      &logger,
			Concurrency: 2,
		},
		scraper.WithBaseURL(srv.URL),
	)

	chartsPath := filepath.Join(dir, "charts", "charts.xlsx")
	reportPath := filepath.Join(dir, "REPORT.md")
	exports := dataset.NewExports(filepath.Join(dir, "data"))

	ops := []pipeline.Option{
		pipeline.WithCollectors(lo.Map(collectors, func(c scraper.Collector, _ int) pipeline.Collector { return c })...),
		pipeline.WithRenderers(
			chart.NewWorkbook(chartsPath, reg.Labels()),
			report.NewWriter(reportPath, reg.Labels()),
		),
		pipeline.WithLogger(&logger),
	}

	if s.db != nil {
		ops = append(ops, pipeline.WithStorage(storage.NewPostgres(s.db, storage.WithBatchSize(4))))
	}

	var queue string
	if s.channel != nil {
		queue = fmt.Sprintf("apm-e2e-test-%d", rand.Int63n(100000))
		routingKey := fmt.Sprintf("apm.run.e2e.%d", rand.Int63n(100000))
		helpers.DeclareRMQQueue(s.T(), s.channel, queue, exchange, routingKey)

		rmq, err := rabbitmq.NewRabbitMQ(s.connection, exchange)
		if err != nil {
			s.Require().FailNow("can't create RabbitMQ client", err)
		}
		ops = append(ops, pipeline.WithNotifier(notifier.NewRunNotifier(notifier.NewRabbitMQSender(rmq, routingKey))))
	}

	par := pipeline.NewPipeline(sources, exports, combiner.NewCombiner(assembler), ops...)

	err = handler.NewHandler(par, &logger).Handle(ctx, handler.ModeRun)
	s.Require().NoError(err, "run shouldn't fail when one retailer is unavailable")

	// Check dataset
	ds, err := exports.ReadDataset()
	s.Require().NoError(err)
	s.Require().Len(ds, 2*len(phones), "every served phone should be accepted")

	bySource := lo.GroupBy(ds, func(l models.Listing) string { return l.Source })
	s.Len(bySource["kontakt"], len(phones))
	s.Len(bySource["telsat"], len(phones))
	s.Empty(bySource["wt"])
	s.Equal("kontakt", ds[0].Source, "dataset should keep source order")

	for ix, p := range phones {
		s.True(p.Price.Equal(bySource["kontakt"][ix].PriceCurrent), "kontakt price of %s", p.Name())
		s.True(p.Price.Equal(bySource["telsat"][ix].PriceCurrent), "telsat price of %s", p.Name())
		s.Equal(p.Brand, bySource["telsat"][ix].BrandName(), "brand should be resolved from name")
	}

	// Check diagnostics
	diagnostics, err := exports.ReadDiagnostics()
	s.Require().NoError(err)
	wt, ok := diagnostics.Source("wt")
	s.Require().True(ok)
	s.NotEmpty(wt.Unavailable, "wt should be unavailable")
	raw, accepted, dropped := diagnostics.Totals()
	s.Equal(raw, accepted+dropped, "rows should be conserved")

	// wt gets header-only export
	wtRaw, err := exports.ReadRaw("wt")
	s.Require().NoError(err)
	s.Empty(wtRaw.Records)

	// Check rendered files
	reportBody, err := os.ReadFile(reportPath)
	s.Require().NoError(err)
	s.Contains(string(reportBody), "Kontakt.az")
	s.Contains(string(reportBody), "Telsat.az")

	chartsInfo, err := os.Stat(chartsPath)
	s.Require().NoError(err)
	s.Positive(chartsInfo.Size())

	if s.db != nil {
		runs := storagetesting.GetRuns(s.T(), s.db)
		s.Require().NotEmpty(runs)
		last := runs[len(runs)-1]
		s.Require().NotNil(last.Success)
		s.True(*last.Success)
		s.Equal(int32(len(ds)), lo.FromPtr(last.Listings))
		s.Len(storagetesting.GetListings(s.T(), s.db), len(ds))
		s.Len(storagetesting.GetDiagnostics(s.T(), s.db), len(sources))
	}

	if s.channel != nil {
		var event notifier.RunFinished
		s.Require().NoError(json.Unmarshal(helpers.WaitForMessage(s.T(), s.channel, queue, 10*time.Second), &event))
		s.True(event.Success)
		s.Equal(int32(len(ds)), event.Listings)
		s.Len(event.Sources, len(sources))
	}
}
