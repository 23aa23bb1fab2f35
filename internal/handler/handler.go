// Package handler dispatches command line modes to the pipeline.
package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

//go:generate mockery --name Pipeline --filename pipeline.go

// Modes of the command.
const (
	ModeScrape  = "scrape"
	ModeCombine = "combine"
	ModeReport  = "report"
	ModeRun     = "run"
)

// ErrUnknownMode is returned for modes other than scrape, combine, report and run.
var ErrUnknownMode = errors.New("unknown mode")

// Pipeline runs steps of the batch job.
type Pipeline interface {
	Scrape(ctx context.Context) ([]models.SourceRecords, error)
	Combine(ctx context.Context) (models.Dataset, models.Diagnostics, error)
	Report(ctx context.Context) (models.Run, error)
	Run(ctx context.Context) (models.Run, error)
}

// Handler handles one invocation of the command.
type Handler struct {
	pipeline Pipeline
	logger   *zerolog.Logger
}

// NewHandler returns new Handler.
func NewHandler(pipeline Pipeline, logger *zerolog.Logger) *Handler {
	return &Handler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// Modes returns supported modes.
func Modes() []string {
	return []string{ModeScrape, ModeCombine, ModeReport, ModeRun}
}

// Handle runs the mode. Empty mode means run.
func (h *Handler) Handle(ctx context.Context, mode string) error {
	if mode == "" {
		mode = ModeRun
	}
	if !lo.Contains(Modes(), mode) {
		return fmt.Errorf("%w: %q (use one of %v)", ErrUnknownMode, mode, Modes())
	}

	started := time.Now()
	h.logger.Debug().
		Str("mode", mode).
		Msg("mode started")

	var err error
	switch mode {
	case ModeScrape:
		err = h.scrape(ctx)
	case ModeCombine:
		err = h.combine(ctx)
	case ModeReport:
		err = h.report(ctx)
	case ModeRun:
		err = h.run(ctx)
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", mode, err)
	}

	h.logger.Debug().
		Str("mode", mode).
		Dur("took", time.Since(started)).
		Msg("mode finished")

	return nil
}

func (h *Handler) scrape(ctx context.Context) error {
	sources, err := h.pipeline.Scrape(ctx)
	if err != nil {
		return err
	}

	for _, src := range sources {
		event := h.logger.Info().
			Str("source", src.Source).
			Int("rows", len(src.Records))
		if src.Err != nil {
			event = event.AnErr("unavailable", src.Err)
		}
		event.Msg("raw export written")
	}

	return nil
}

func (h *Handler) combine(ctx context.Context) error {
	ds, diagnostics, err := h.pipeline.Combine(ctx)
	if err != nil {
		return err
	}

	h.logDiagnostics(diagnostics)
	h.logger.Info().
		Int("listings", len(ds)).
		Msg("dataset written")

	return nil
}

func (h *Handler) report(ctx context.Context) error {
	run, err := h.pipeline.Report(ctx)
	if err != nil {
		return err
	}

	h.logger.Info().
		Int32("listings", lo.FromPtr(run.Listings)).
		Msg("report written")

	return nil
}

func (h *Handler) run(ctx context.Context) error {
	run, err := h.pipeline.Run(ctx)
	h.logDiagnostics(run.Diagnostics)
	if err != nil {
		return err
	}

	h.logger.Info().
		Str("run", run.ID.String()).
		Int32("listings", lo.FromPtr(run.Listings)).
		Int32("dropped", lo.FromPtr(run.Dropped)).
		Msg("run succeeded")

	return nil
}

func (h *Handler) logDiagnostics(d models.Diagnostics) {
	for _, src := range d.Sources {
		event := h.logger.Info()
		switch {
		case src.Unavailable != "":
			event = h.logger.Warn().Str("unavailable", src.Unavailable)
		case src.Empty:
			event = h.logger.Warn().Bool("empty", true)
		}

		dict := zerolog.Dict()
		for _, kind := range models.SortedKinds(src.Dropped) {
			dict = dict.Int(string(kind), src.Dropped[kind])
		}

		event.
			Str("source", src.Source).
			Int("raw", src.Raw).
			Int("accepted", src.Accepted).
			Int("warnings", src.WarningsTotal()).
			Dict("dropped", dict).
			Msg("source diagnostics")
	}
}
