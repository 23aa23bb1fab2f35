package handler_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/MichalMitros/az-phone-market/internal/handler"
	"github.com/MichalMitros/az-phone-market/internal/handler/mocks"
	"github.com/MichalMitros/az-phone-market/internal/platform"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var diagnostics = models.Diagnostics{Sources: []models.SourceDiagnostics{
	{Source: "kontakt", Raw: 3, Accepted: 2, Dropped: map[models.IssueKind]int{models.IssueMissingRequiredField: 1}},
	{Source: "telsat", Empty: true, Unavailable: "source unavailable: timeout"},
}}

func TestUnitHandle(t *testing.T) {
	run := models.Run{
		ID:          uuid.New(),
		IsSuccess:   lo.ToPtr(true),
		Listings:    lo.ToPtr(int32(2)),
		Dropped:     lo.ToPtr(int32(1)),
		Diagnostics: diagnostics,
	}

	tests := map[string]struct {
		mode     string
		mock     func(p *mocks.Pipeline)
		wantLogs []string
	}{
		"scrape": {
			mode: handler.ModeScrape,
			mock: func(p *mocks.Pipeline) {
				p.On("Scrape", mock.Anything).Return([]models.SourceRecords{
					{Source: "kontakt", Records: []models.RawRecord{models.RawFrom("name", "iPhone 15")}},
					{Source: "telsat", Err: platform.ErrSourceUnavailable},
				}, nil).Once()
			},
			wantLogs: []string{`"source":"kontakt","rows":1`, `"unavailable":"source unavailable"`},
		},
		"combine": {
			mode: handler.ModeCombine,
			mock: func(p *mocks.Pipeline) {
				p.On("Combine", mock.Anything).Return(models.Dataset{{}, {}}, diagnostics, nil).Once()
			},
			wantLogs: []string{`"dropped":{"MissingRequiredField":1}`, `"listings":2`},
		},
		"report": {
			mode: handler.ModeReport,
			mock: func(p *mocks.Pipeline) {
				p.On("Report", mock.Anything).Return(run, nil).Once()
			},
			wantLogs: []string{`"message":"report written"`},
		},
		"run": {
			mode: handler.ModeRun,
			mock: func(p *mocks.Pipeline) {
				p.On("Run", mock.Anything).Return(run, nil).Once()
			},
			wantLogs: []string{`"unavailable":"source unavailable: timeout"`, `"message":"run succeeded"`},
		},
		"default run": {
			mock: func(p *mocks.Pipeline) {
				p.On("Run", mock.Anything).Return(run, nil).Once()
			},
			wantLogs: []string{`"message":"run succeeded"`},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := zerolog.New(&logs)

			pipeline := mocks.NewPipeline(t)
			tt.mock(pipeline)

			err := handler.NewHandler(pipeline, &logger).Handle(context.TODO(), tt.mode)

			require.NoError(t, err, "shouldn't return any error")
			for _, want := range tt.wantLogs {
				assert.Contains(t, logs.String(), want)
			}
		})
	}
}

func TestUnitHandleErrors(t *testing.T) {
	tests := map[string]struct {
		mode    string
		mock    func(p *mocks.Pipeline)
		wantErr error
		wantMsg string
	}{
		"unknown mode": {
			mode:    "serve",
			mock:    func(*mocks.Pipeline) {},
			wantErr: handler.ErrUnknownMode,
		},
		"scrape error": {
			mode: handler.ModeScrape,
			mock: func(p *mocks.Pipeline) {
				p.On("Scrape", mock.Anything).Return(nil, assert.AnError).Once()
			},
			wantErr: assert.AnError,
			wantMsg: "scrape failed",
		},
		"combine error": {
			mode: handler.ModeCombine,
			mock: func(p *mocks.Pipeline) {
				p.On("Combine", mock.Anything).Return(nil, models.Diagnostics{}, assert.AnError).Once()
			},
			wantErr: assert.AnError,
			wantMsg: "combine failed",
		},
		"report error": {
			mode: handler.ModeReport,
			mock: func(p *mocks.Pipeline) {
				p.On("Report", mock.Anything).Return(models.Run{}, assert.AnError).Once()
			},
			wantErr: assert.AnError,
			wantMsg: "report failed",
		},
		"run error": {
			mode: handler.ModeRun,
			mock: func(p *mocks.Pipeline) {
				p.On("Run", mock.Anything).Return(models.Run{IsSuccess: lo.ToPtr(false)}, assert.AnError).Once()
			},
			wantErr: assert.AnError,
			wantMsg: "run failed",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			logger := zerolog.Nop()

			pipeline := mocks.NewPipeline(t)
			tt.mock(pipeline)

			err := handler.NewHandler(pipeline, &logger).Handle(context.TODO(), tt.mode)

			require.ErrorIs(t, err, tt.wantErr, "should return correct error")
			if tt.wantMsg != "" {
				require.ErrorContains(t, err, tt.wantMsg)
			}
		})
	}
}
