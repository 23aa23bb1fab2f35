package storage_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/MichalMitros/az-phone-market/internal/platform"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/MichalMitros/az-phone-market/internal/platform/models/modelstesting"
	"github.com/MichalMitros/az-phone-market/internal/platform/storage"
	pgmodels "github.com/MichalMitros/az-phone-market/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/az-phone-market/internal/platform/storage/storagetesting"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var startedAt = time.Date(2024, time.April, 1, 1, 1, 1, 0, time.UTC)

func TestPostgresIntegration(t *testing.T) {
	suite.Run(t, new(PostgresTestSuite))
}

type PostgresTestSuite struct {
	suite.Suite
	DB *sql.DB
}

func (s *PostgresTestSuite) SetupSuite() {
	s.DB = storagetesting.Open(s.T())
	storagetesting.CleanupData(s.T(), s.DB)
}

func (s *PostgresTestSuite) TearDownSuite() {
	if s.DB == nil {
		return
	}
	storagetesting.CleanupData(s.T(), s.DB)
	if err := s.DB.Close(); err != nil {
		s.FailNow("close DB", err)
	}
}

func (s *PostgresTestSuite) TestIntegrationStartRun() {
	tests := map[string]struct {
		storedRuns []pgmodels.Run
		wantErr    error
	}{
		"first run": {},
		"after successful run": {
			storedRuns: []pgmodels.Run{
				{
					ID:         uuid.New(),
					StartedAt:  startedAt.Add(-time.Hour),
					FinishedAt: lo.ToPtr(startedAt.Add(-30 * time.Minute)),
					Success:    lo.ToPtr(true),
				},
			},
		},
		"after failed run": {
			storedRuns: []pgmodels.Run{
				{
					ID:         uuid.New(),
					StartedAt:  startedAt.Add(-time.Hour),
					FinishedAt: lo.ToPtr(startedAt.Add(-30 * time.Minute)),
					Success:    lo.ToPtr(false),
				},
			},
		},
		"after stale run": {
			storedRuns: []pgmodels.Run{
				{
					ID:        uuid.New(),
					StartedAt: startedAt.Add(-7 * time.Hour),
				},
			},
		},
		"already running error": {
			storedRuns: []pgmodels.Run{
				{
					ID:        uuid.New(),
					StartedAt: startedAt.Add(-time.Hour),
				},
			},
			wantErr: platform.ErrAlreadyRunning,
		},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			defer storagetesting.CleanupData(s.T(), s.DB)

			storagetesting.InsertRuns(s.T(), s.DB, tt.storedRuns...)

			post := storage.NewPostgres(s.DB)

			run, err := post.StartRun(context.TODO(), startedAt)

			if tt.wantErr != nil {
				s.Require().ErrorIs(err, tt.wantErr, "should return correct error")
				return
			}

			s.Require().NoError(err, "shouldn't return any error")
			s.NotEqual(uuid.Nil, run.ID, "run should have id")
			s.True(startedAt.Equal(run.StartedAt), "run should have \"started at\" set")

			runs := storagetesting.GetRuns(s.T(), s.DB)
			s.Require().Len(runs, len(tt.storedRuns)+1)
			last := runs[len(runs)-1]
			s.Equal(run.ID, last.ID)
			s.Nil(last.FinishedAt, "new run shouldn't be finished")
			s.Nil(last.Success, "new run shouldn't have status")
		})
	}
}

func (s *PostgresTestSuite) TestIntegrationFinishRun() {
	finishedAt := startedAt.Add(time.Hour)
	runID := uuid.New()
	otherRun := pgmodels.Run{
		ID:         uuid.New(),
		StartedAt:  startedAt.Add(-24 * time.Hour),
		FinishedAt: lo.ToPtr(startedAt.Add(-23 * time.Hour)),
		Success:    lo.ToPtr(true),
		Listings:   lo.ToPtr(int32(10)),
		Dropped:    lo.ToPtr(int32(1)),
	}

	diagnostics := models.Diagnostics{Sources: []models.SourceDiagnostics{
		{
			Source:   "kontakt",
			Raw:      5,
			Accepted: 3,
			Dropped:  map[models.IssueKind]int{models.IssueMissingRequiredField: 2},
			Warnings: map[models.IssueKind]int{models.IssueMalformedNumber: 1},
		},
		{Source: "telsat", Empty: true, Unavailable: "source unavailable: timeout"},
	}}

	tests := map[string]struct {
		run             models.Run
		wantRun         pgmodels.Run
		wantDiagnostics []pgmodels.RunDiagnostic
		wantErr         bool
	}{
		"successful run": {
			run: models.Run{
				ID:          runID,
				StartedAt:   startedAt,
				FinishedAt:  &finishedAt,
				IsSuccess:   lo.ToPtr(true),
				Listings:    lo.ToPtr(int32(3)),
				Dropped:     lo.ToPtr(int32(2)),
				Diagnostics: diagnostics,
			},
			wantRun: pgmodels.Run{
				ID:         runID,
				StartedAt:  startedAt,
				FinishedAt: &finishedAt,
				Success:    lo.ToPtr(true),
				Listings:   lo.ToPtr(int32(3)),
				Dropped:    lo.ToPtr(int32(2)),
			},
			wantDiagnostics: []pgmodels.RunDiagnostic{
				{RunID: runID, Source: "kontakt", Raw: 5, Accepted: 3, Dropped: 2, Warnings: 1},
				{RunID: runID, Source: "telsat", Empty: true, Unavailable: lo.ToPtr("source unavailable: timeout")},
			},
		},
		"failed run": {
			run: models.Run{
				ID:            runID,
				StartedAt:     startedAt,
				FinishedAt:    &finishedAt,
				IsSuccess:     lo.ToPtr(false),
				StatusMessage: lo.ToPtr("can't scrape sources"),
			},
			wantRun: pgmodels.Run{
				ID:            runID,
				StartedAt:     startedAt,
				FinishedAt:    &finishedAt,
				Success:       lo.ToPtr(false),
				StatusMessage: lo.ToPtr("can't scrape sources"),
			},
			wantDiagnostics: []pgmodels.RunDiagnostic{},
		},
		"not existing run error": {
			run: models.Run{
				ID:         uuid.New(),
				StartedAt:  startedAt,
				FinishedAt: &finishedAt,
				IsSuccess:  lo.ToPtr(true),
			},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			defer storagetesting.CleanupData(s.T(), s.DB)

			storagetesting.InsertRuns(s.T(), s.DB, otherRun, pgmodels.Run{ID: runID, StartedAt: startedAt})

			post := storage.NewPostgres(s.DB)

			err := post.FinishRun(context.TODO(), &tt.run)

			if tt.wantErr {
				s.Require().Error(err, "should return error")
				return
			}

			s.Require().NoError(err, "shouldn't return any error")
			runs := storagetesting.GetRuns(s.T(), s.DB)
			s.Require().Len(runs, 2)
			assertRun(s.T(), otherRun, runs[0])
			assertRun(s.T(), tt.wantRun, runs[1])
			s.Equal(tt.wantDiagnostics, storagetesting.GetDiagnostics(s.T(), s.DB))
		})
	}
}

func (s *PostgresTestSuite) TestIntegrationReplaceListings() {
	defer storagetesting.CleanupData(s.T(), s.DB)
	storagetesting.CleanupData(s.T(), s.DB)

	previousRun := uuid.New()
	runID := uuid.New()
	storagetesting.InsertRuns(s.T(), s.DB,
		pgmodels.Run{ID: previousRun, StartedAt: startedAt.Add(-time.Hour)},
		pgmodels.Run{ID: runID, StartedAt: startedAt},
	)
	storagetesting.InsertListings(s.T(), s.DB,
		storage.ToDBListing(previousRun, lo.ToPtr(modelstesting.FakeListing())),
		storage.ToDBListing(previousRun, lo.ToPtr(modelstesting.FakeListing())),
	)

	ds := models.Dataset{
		modelstesting.FakeListing(modelstesting.WithDiscount("1200", "999.99")),
		modelstesting.FakeListing(func(l *models.Listing) {
			l.Brand = nil
			l.InStock = models.StockUnknown
		}),
		modelstesting.FakeListing(),
		modelstesting.FakeListing(func(l *models.Listing) { l.Source = "telsat" }),
		modelstesting.FakeListing(func(l *models.Listing) { l.Source = "wt" }),
	}

	post := storage.NewPostgres(s.DB, storage.WithBatchSize(2))

	stored, err := post.ReplaceListings(context.TODO(), runID, ds)

	s.Require().NoError(err, "shouldn't return any error")
	s.Equal(int32(len(ds)), stored, "should return number of stored listings")

	listings := storagetesting.GetListings(s.T(), s.DB)
	s.Require().Len(listings, len(ds), "previous listings should be replaced")
	for ix := range listings {
		want := storage.ToDBListing(runID, &ds[ix])
		listings[ix].ID = 0
		assert.Equal(s.T(), want, listings[ix], "listing at index %d has incorrect values", ix)
	}
}

// assertRun is a helper test function to assert stored run.
func assertRun(t *testing.T, expected, actual pgmodels.Run) {
	t.Helper()

	require.True(t, expected.StartedAt.Equal(actual.StartedAt), "run should have correct \"started at\"")
	if expected.FinishedAt != nil {
		require.NotNil(t, actual.FinishedAt, "run should be finished")
		require.True(t, expected.FinishedAt.Equal(*actual.FinishedAt), "run should have correct \"finished at\"")
	}

	expected.StartedAt, actual.StartedAt = time.Time{}, time.Time{}
	expected.FinishedAt, actual.FinishedAt = nil, nil

	assert.Equal(t, expected, actual, "run has incorrect values")
}
