// Package combiner merges raw exports of all sources into one dataset.
package combiner

import (
	"errors"

	"github.com/MichalMitros/az-phone-market/internal/platform"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/MichalMitros/az-phone-market/internal/registry"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

//go:generate mockery --name Assembler --filename assembler.go

// Assembler builds unified listing from a raw record.
type Assembler interface {
	Assemble(source string, raw models.RawRecord) (models.Listing, []models.Issue, error)
}

// Option is custom configuration of Combiner.
type Option func(c *Combiner)

// Combiner assembles listings of many sources in parallel.
type Combiner struct {
	assembler   Assembler
	concurrency int
	logger      *zerolog.Logger
}

// dropOther counts rows rejected for reasons without own issue kind.
const dropOther models.IssueKind = "Other"

type partition struct {
	listings    []models.Listing
	diagnostics models.SourceDiagnostics
}

// NewCombiner returns new Combiner.
func NewCombiner(assembler Assembler, ops ...Option) *Combiner {
	nop := zerolog.Nop()
	c := &Combiner{
		assembler:   assembler,
		concurrency: 4,
		logger:      &nop,
	}

	for _, op := range ops {
		op(c)
	}

	return c
}

// Combine assembles every source and concatenates results in the order of sources.
// Rows keep their order within a source. Sources are never deduplicated against
// each other.
func (c Combiner) Combine(sources []models.SourceRecords) (models.Dataset, models.Diagnostics) {
	parts := make([]partition, len(sources))

	var group errgroup.Group
	group.SetLimit(c.concurrency)

	for ix, src := range sources {
		group.Go(func() error {
			parts[ix] = c.combineSource(src)
			return nil
		})
	}

	// partitions never fail
	_ = group.Wait()

	size := 0
	for _, part := range parts {
		size += len(part.listings)
	}

	dataset := make(models.Dataset, 0, size)
	diagnostics := models.Diagnostics{Sources: make([]models.SourceDiagnostics, 0, len(parts))}

	for _, part := range parts {
		dataset = append(dataset, part.listings...)
		diagnostics.Sources = append(diagnostics.Sources, part.diagnostics)
	}

	return dataset, diagnostics
}

func (c Combiner) combineSource(src models.SourceRecords) partition {
	diag := models.SourceDiagnostics{
		Source:   src.Source,
		Raw:      len(src.Records),
		Dropped:  map[models.IssueKind]int{},
		Warnings: map[models.IssueKind]int{},
		Empty:    len(src.Records) == 0,
	}
	if src.Err != nil {
		diag.Unavailable = src.Err.Error()
	}

	listings := make([]models.Listing, 0, len(src.Records))

	for ix, raw := range src.Records {
		listing, issues, err := c.assembler.Assemble(src.Source, raw)
		for _, issue := range issues {
			diag.Warnings[issue.Kind]++
		}

		if errors.Is(err, registry.ErrUnknownSource) {
			// remaining rows fail the same way
			diag.Dropped[models.IssueUnknownSource] += len(src.Records) - ix
			diag.Unavailable = err.Error()
			break
		}

		if err != nil {
			diag.Dropped[dropReason(err)]++
			c.logger.Debug().
				Err(err).
				Str("source", src.Source).
				Int("row", ix).
				Msg("row dropped")
			continue
		}

		listings = append(listings, listing)
	}

	diag.Accepted = len(listings)

	c.log(diag)

	return partition{listings: listings, diagnostics: diag}
}

func (c Combiner) log(diag models.SourceDiagnostics) {
	event := c.logger.Info()
	if diag.Empty || diag.Unavailable != "" {
		event = c.logger.Warn()
	}

	event.
		Str("source", diag.Source).
		Int("raw", diag.Raw).
		Int("accepted", diag.Accepted).
		Int("dropped", diag.DroppedTotal()).
		Int("warnings", diag.WarningsTotal()).
		Bool("empty", diag.Empty).
		Str("unavailable", diag.Unavailable).
		Msg("source combined")
}

func dropReason(err error) models.IssueKind {
	if errors.Is(err, platform.ErrMissingRequiredField) {
		return models.IssueMissingRequiredField
	}
	return dropOther
}

// WithConcurrency sets number of sources assembled at once.
func WithConcurrency(n int) Option {
	return func(c *Combiner) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets Combiner's logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(c *Combiner) {
		c.logger = l
	}
}
