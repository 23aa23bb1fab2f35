package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/MichalMitros/az-phone-market/internal/platform"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/MichalMitros/az-phone-market/internal/platform/storage/gen/postgres/public/table"
	"github.com/google/uuid"
	"github.com/samber/lo"

	pgmodels "github.com/MichalMitros/az-phone-market/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

const (
	defaultBatchSize  = 500
	defaultStaleAfter = 6 * time.Hour
)

//go:embed schema.sql
var schema string

// Option is custom configuration of Postgres.
type Option func(p *Postgres)

// Postgres is storage for runs, their diagnostics and the latest listings snapshot.
type Postgres struct {
	db         *sql.DB
	batchSize  int
	staleAfter time.Duration
}

// NewPostgres returns new Postgres.
func NewPostgres(db *sql.DB, ops ...Option) Postgres {
	p := Postgres{
		db:         db,
		batchSize:  defaultBatchSize,
		staleAfter: defaultStaleAfter,
	}

	for _, op := range ops {
		op(&p)
	}

	return p
}

// Migrate creates missing tables.
func (p Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("can't migrate database: %w", err)
	}
	return nil
}

// StartRun creates new unfinished run in database and returns it.
// It returns ErrAlreadyRunning if previous run is not finished yet.
// Unfinished runs older than stale period are ignored.
func (p Postgres) StartRun(ctx context.Context, startedAt time.Time) (*models.Run, error) {
	run := &models.Run{
		ID:        uuid.New(),
		StartedAt: startedAt,
	}

	err := runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		lastRun, err := getLastRun(ctx, tx)
		if err != nil && !errors.Is(err, qrm.ErrNoRows) {
			return fmt.Errorf("can't get last run from database: %w", err)
		}

		if lastRun != nil && lastRun.FinishedAt == nil && lastRun.Success == nil &&
			startedAt.Sub(lastRun.StartedAt) < p.staleAfter {
			return platform.ErrAlreadyRunning
		}

		_, err = table.Run.INSERT(
			table.Run.ID,
			table.Run.StartedAt,
		).
			MODEL(toDBRun(run)).
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't insert run into database: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("can't add run: %w", err)
	}

	return run, nil
}

// ReplaceListings replaces the whole listings snapshot with dataset of the run.
// Listings are inserted in batches within one transaction.
// Returns number of stored listings.
func (p Postgres) ReplaceListings(ctx context.Context, runID uuid.UUID, ds models.Dataset) (int32, error) {
	listings := make([]pgmodels.Listing, 0, len(ds))
	for ix := range ds {
		listings = append(listings, ToDBListing(runID, &ds[ix]))
	}

	err := runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		_, err := table.Listing.DELETE().
			WHERE(table.Listing.ID.IS_NOT_NULL()).
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't delete previous listings: %w", err)
		}

		for _, batch := range lo.Chunk(listings, p.batchSize) {
			_, err := table.Listing.INSERT(table.Listing.MutableColumns).
				MODELS(batch).
				ExecContext(ctx, tx)
			if err != nil {
				return fmt.Errorf("can't insert listings into database: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return int32(len(listings)), nil
}

// FinishRun sets run as finished, updates run's statistics and stores its diagnostics.
func (p Postgres) FinishRun(ctx context.Context, run *models.Run) error {
	columnList := table.Run.MutableColumns.Except(table.Run.StartedAt)

	return runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		result, err := table.Run.UPDATE(columnList).
			MODEL(toDBRun(run)).
			WHERE(table.Run.ID.EQ(pg.UUID(run.ID))).
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't update run: %w", err)
		}

		if rowsAffected, err := result.RowsAffected(); rowsAffected == 0 || err != nil {
			return fmt.Errorf("can't update run: %w", errors.Join(err, qrm.ErrNoRows))
		}

		diagnostics := ToDBDiagnostics(run.ID, run.Diagnostics)
		if len(diagnostics) == 0 {
			return nil
		}

		_, err = table.RunDiagnostic.INSERT(table.RunDiagnostic.AllColumns).
			MODELS(diagnostics).
			ON_CONFLICT(table.RunDiagnostic.RunID, table.RunDiagnostic.Source).
			DO_NOTHING().
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't insert run diagnostics: %w", err)
		}

		return nil
	})
}

func getLastRun(ctx context.Context, db qrm.DB) (*pgmodels.Run, error) {
	var run pgmodels.Run
	err := table.Run.SELECT(
		table.Run.ID,
		table.Run.StartedAt,
		table.Run.FinishedAt,
		table.Run.Success,
	).
		ORDER_BY(table.Run.StartedAt.DESC()).
		LIMIT(1).
		QueryContext(ctx, db, &run)
	if err != nil {
		return nil, err
	}

	return &run, nil
}

func runInTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var (
		tx  *sql.Tx
		err error
	)

	if tx, err = db.BeginTx(ctx, nil); err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("can't rollback transaction: %w (rollback reason: %w)", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit transaction: %w", err)
	}

	return nil
}

// WithBatchSize sets number of listings inserted in one statement.
func WithBatchSize(n int) Option {
	return func(p *Postgres) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithStaleAfter sets age after which unfinished run no longer blocks new runs.
func WithStaleAfter(d time.Duration) Option {
	return func(p *Postgres) {
		p.staleAfter = d
	}
}
