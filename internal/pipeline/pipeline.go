// Package pipeline runs steps of the market batch job: scrape, combine, report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MichalMitros/az-phone-market/internal/aggregate"
	"github.com/MichalMitros/az-phone-market/internal/dataset"
	"github.com/MichalMitros/az-phone-market/internal/platform"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

//go:generate mockery --name Collector --filename collector.go
//go:generate mockery --name Exports --filename exports.go
//go:generate mockery --name Combiner --filename combiner.go
//go:generate mockery --name Renderer --filename renderer.go
//go:generate mockery --name Storage --filename storage.go
//go:generate mockery --name Notifier --filename notifier.go

const defaultConcurrency = 6

// Collector collects raw listings of one retailer.
type Collector interface {
	Source() string
	Fields() []string
	Collect(ctx context.Context) ([]models.RawRecord, error)
}

// Exports stores raw exports, the unified dataset and diagnostics.
type Exports interface {
	WriteRaw(source string, fields []string, records []models.RawRecord) error
	// ReadRaw returns dataset.ErrExportMissing when source has no export.
	ReadRaw(source string) (models.SourceRecords, error)
	WriteDataset(ds models.Dataset) error
	ReadDataset() (models.Dataset, error)
	WriteDiagnostics(d models.Diagnostics) error
	ReadDiagnostics() (models.Diagnostics, error)
}

// Combiner normalizes raw records into the unified dataset.
type Combiner interface {
	Combine(sources []models.SourceRecords) (models.Dataset, models.Diagnostics)
}

// Renderer renders metrics of a run, e.g. charts or report.
type Renderer interface {
	Render(ctx context.Context, run models.Run, summary aggregate.Summary) error
}

// Storage is runs and listings snapshot storage.
type Storage interface {
	// StartRun creates new run.
	StartRun(ctx context.Context, startedAt time.Time) (run *models.Run, err error)
	// ReplaceListings replaces stored listings with the dataset of the run.
	// Returns number of stored listings.
	ReplaceListings(ctx context.Context, runID uuid.UUID, ds models.Dataset) (stored int32, err error)
	// FinishRun finishes provided run and stores its statistics and diagnostics.
	FinishRun(ctx context.Context, run *models.Run) error
}

// Notifier announces finished runs.
type Notifier interface {
	RunFinished(ctx context.Context, run models.Run) error
}

// Clock provides times.
type Clock interface {
	// Now returns current UTC time.
	Now() *time.Time
}

// Option is custom configuration of Pipeline.
type Option func(p *Pipeline)

// Pipeline scrapes retailers, combines their exports and renders metrics.
type Pipeline struct {
	sources     []string
	exports     Exports
	combiner    Combiner
	collectors  []Collector
	renderers   []Renderer
	storage     Storage
	notifier    Notifier
	clock       Clock
	concurrency int
	logger      *zerolog.Logger
}

// NewPipeline returns new Pipeline processing sources in provided order.
func NewPipeline(sources []string, exports Exports, combiner Combiner, ops ...Option) *Pipeline {
	logger := zerolog.Nop()

	p := &Pipeline{
		sources:     sources,
		exports:     exports,
		combiner:    combiner,
		storage:     memoryStorage{},
		notifier:    nopNotifier{},
		clock:       systemClock{},
		concurrency: defaultConcurrency,
		logger:      &logger,
	}

	for _, op := range ops {
		op(p)
	}

	return p
}

// Scrape collects all sources concurrently and replaces their raw exports.
// A failed source gets header-only export and is returned with Err set.
func (p Pipeline) Scrape(ctx context.Context) ([]models.SourceRecords, error) {
	collectors := lo.KeyBy(p.collectors, func(c Collector) string { return c.Source() })
	results := make([]models.SourceRecords, len(p.sources))

	group, gCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.concurrency)

	for ix, source := range p.sources {
		group.Go(func() error {
			collector, ok := collectors[source]
			if !ok {
				return fmt.Errorf("no collector of source %s", source)
			}

			result, err := p.scrapeSource(gCtx, collector)
			if err != nil {
				return err
			}
			results[ix] = result

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("can't scrape sources: %w", err)
	}

	return results, nil
}

func (p Pipeline) scrapeSource(ctx context.Context, collector Collector) (models.SourceRecords, error) {
	source := collector.Source()
	started := p.clock.Now()

	result := models.SourceRecords{Source: source}

	records, err := collector.Collect(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		p.logger.Error().Err(err).Str("source", source).Msg("can't collect source")
		result.Err = fmt.Errorf("%w: %w", platform.ErrSourceUnavailable, err)
		records = nil
	} else {
		result.Records = records
	}

	if err := p.exports.WriteRaw(source, collector.Fields(), records); err != nil {
		return result, fmt.Errorf("can't write raw export of %s: %w", source, err)
	}

	p.logger.Info().
		Str("source", source).
		Int("rows", len(records)).
		Dur("took", p.clock.Now().Sub(*started)).
		Msg("source scraped")

	return result, nil
}

// Combine reads raw exports of all sources, writes the unified dataset and diagnostics.
// Sources without export are combined as unavailable.
func (p Pipeline) Combine(_ context.Context) (models.Dataset, models.Diagnostics, error) {
	sources := make([]models.SourceRecords, 0, len(p.sources))

	for _, source := range p.sources {
		records, err := p.exports.ReadRaw(source)
		if errors.Is(err, dataset.ErrExportMissing) {
			p.logger.Warn().Str("source", source).Msg("raw export missing")
			records = models.SourceRecords{Source: source, Err: fmt.Errorf("%w: %w", platform.ErrSourceUnavailable, err)}
		} else if err != nil {
			return nil, models.Diagnostics{}, fmt.Errorf("can't read raw export of %s: %w", source, err)
		}
		sources = append(sources, records)
	}

	return p.combine(sources)
}

func (p Pipeline) combine(sources []models.SourceRecords) (models.Dataset, models.Diagnostics, error) {
	ds, diagnostics := p.combiner.Combine(sources)

	if err := p.exports.WriteDataset(ds); err != nil {
		return nil, models.Diagnostics{}, fmt.Errorf("can't write dataset: %w", err)
	}

	if err := p.exports.WriteDiagnostics(diagnostics); err != nil {
		return nil, models.Diagnostics{}, fmt.Errorf("can't write diagnostics: %w", err)
	}

	raw, accepted, dropped := diagnostics.Totals()
	p.logger.Info().
		Int("raw", raw).
		Int("accepted", accepted).
		Int("dropped", dropped).
		Msg("dataset combined")

	return ds, diagnostics, nil
}

// Report renders metrics of the stored dataset.
func (p Pipeline) Report(ctx context.Context) (models.Run, error) {
	ds, err := p.exports.ReadDataset()
	if err != nil {
		return models.Run{}, fmt.Errorf("can't read dataset: %w", err)
	}

	diagnostics, err := p.exports.ReadDiagnostics()
	if err != nil {
		return models.Run{}, fmt.Errorf("can't read diagnostics: %w", err)
	}

	run := models.Run{
		ID:          uuid.New(),
		StartedAt:   *p.clock.Now(),
		Listings:    lo.ToPtr(int32(len(ds))),
		Diagnostics: diagnostics,
	}
	_, _, dropped := diagnostics.Totals()
	run.Dropped = lo.ToPtr(int32(dropped))

	if err := p.render(ctx, run, ds); err != nil {
		return run, err
	}

	run.FinishedAt = p.clock.Now()
	run.IsSuccess = lo.ToPtr(true)

	return run, nil
}

func (p Pipeline) render(ctx context.Context, run models.Run, ds models.Dataset) error {
	summary := aggregate.Aggregate(ds)

	for _, r := range p.renderers {
		if err := r.Render(ctx, run, summary); err != nil {
			return fmt.Errorf("can't render metrics: %w", err)
		}
	}

	p.logger.Info().
		Int("retailers", len(summary.Retailers)).
		Int("renderers", len(p.renderers)).
		Msg("metrics rendered")

	return nil
}

// Run scrapes, combines, stores and reports in one go.
// The finished run is announced even when a step fails.
func (p Pipeline) Run(ctx context.Context) (models.Run, error) {
	run, err := p.storage.StartRun(ctx, *p.clock.Now())
	if err != nil {
		return models.Run{}, fmt.Errorf("can't start run: %w", err)
	}

	p.logger.Info().
		Str("run", run.ID.String()).
		Strs("sources", p.sources).
		Msg("run started")

	sources, err := p.Scrape(ctx)
	if err != nil {
		return p.finishRun(ctx, run, err)
	}

	ds, diagnostics, err := p.combine(sources)
	if err != nil {
		return p.finishRun(ctx, run, err)
	}

	_, _, dropped := diagnostics.Totals()
	run.Diagnostics = diagnostics
	run.Dropped = lo.ToPtr(int32(dropped))

	stored, err := p.storage.ReplaceListings(ctx, run.ID, ds)
	run.Listings = &stored
	if err != nil {
		return p.finishRun(ctx, run, fmt.Errorf("can't store listings: %w", err))
	}

	if err := p.render(ctx, *run, ds); err != nil {
		return p.finishRun(ctx, run, err)
	}

	return p.finishRun(ctx, run, nil)
}

func (p Pipeline) finishRun(ctx context.Context, run *models.Run, status error) (models.Run, error) {
	if status != nil {
		run.StatusMessage = lo.ToPtr(status.Error())
	}
	run.IsSuccess = lo.ToPtr(status == nil)
	run.FinishedAt = p.clock.Now()

	err := p.storage.FinishRun(ctx, run)

	if nErr := p.notifier.RunFinished(ctx, *run); nErr != nil {
		p.logger.Error().Err(nErr).Str("run", run.ID.String()).Msg("can't notify about finished run")
	}

	p.logger.Info().
		Str("run", run.ID.String()).
		Bool("success", *run.IsSuccess).
		Msg("run finished")
	if err != nil && status == nil {
		return *run, fmt.Errorf("can't finish run: %w", err)
	}

	if err != nil && status != nil {
		return *run, fmt.Errorf("can't finish failed run: %w (fail reason: %w)", err, status)
	}

	return *run, status
}

// WithCollectors sets collectors of sources.
func WithCollectors(c ...Collector) Option {
	return func(p *Pipeline) {
		p.collectors = c
	}
}

// WithRenderers sets renderers of run metrics.
func WithRenderers(r ...Renderer) Option {
	return func(p *Pipeline) {
		p.renderers = r
	}
}

// WithStorage sets snapshot storage. Runs are not persisted by default.
func WithStorage(s Storage) Option {
	return func(p *Pipeline) {
		p.storage = s
	}
}

// WithNotifier sets notifier of finished runs.
func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) {
		p.notifier = n
	}
}

// WithClock sets Pipeline's custom Clock.
func WithClock(c Clock) Option {
	return func(p *Pipeline) {
		p.clock = c
	}
}

// WithConcurrency sets number of sources scraped at once.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithLogger sets Pipeline's logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}
