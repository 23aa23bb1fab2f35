package storagetesting

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/MichalMitros/az-phone-market/internal/platform/storage"
	pgmodels "github.com/MichalMitros/az-phone-market/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/az-phone-market/internal/platform/storage/gen/postgres/public/table"
	"github.com/go-jet/jet/v2/qrm"

	_ "github.com/lib/pq"
)

// Open opens connection to DB and creates missing tables.
// Test is skipped when DATABASE_URL is not set.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("please provide database URL via DATABASE_URL environment variable")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("can't open connection to %q: %s", dbURL, err)
	}

	if err := storage.NewPostgres(db).Migrate(context.Background()); err != nil {
		t.Fatal("can't migrate database", err)
	}

	return db
}

// InsertRuns is a helper test function to insert runs.
func InsertRuns(t *testing.T, exc qrm.Executable, runs ...pgmodels.Run) {
	t.Helper()

	if len(runs) == 0 {
		return
	}

	_, err := table.Run.INSERT(table.Run.AllColumns).MODELS(runs).Exec(exc)
	if err != nil {
		t.Fatal("can't insert runs", err)
	}
}

// InsertListings is a helper test function to insert listings.
func InsertListings(t *testing.T, exc qrm.Executable, listings ...pgmodels.Listing) {
	t.Helper()

	if len(listings) == 0 {
		return
	}

	_, err := table.Listing.INSERT(table.Listing.MutableColumns).MODELS(listings).Exec(exc)
	if err != nil {
		t.Fatal("can't insert listings", err)
	}
}

// GetRuns is a helper test function to get all runs.
func GetRuns(t *testing.T, queryable qrm.Queryable) []pgmodels.Run {
	t.Helper()

	runs := []pgmodels.Run{}
	err := table.Run.SELECT(table.Run.AllColumns).
		WHERE(table.Run.ID.IS_NOT_NULL()).
		ORDER_BY(table.Run.StartedAt.ASC()).
		Query(queryable, &runs)
	if err != nil {
		t.Fatal("can't get runs", err)
	}

	return runs
}

// GetListings is a helper test function to get all listings in insertion order.
func GetListings(t *testing.T, queryable qrm.Queryable) []pgmodels.Listing {
	t.Helper()

	listings := []pgmodels.Listing{}
	err := table.Listing.SELECT(table.Listing.AllColumns).
		WHERE(table.Listing.ID.IS_NOT_NULL()).
		ORDER_BY(table.Listing.ID.ASC()).
		Query(queryable, &listings)
	if err != nil {
		t.Fatal("can't get listings", err)
	}

	return listings
}

// GetDiagnostics is a helper test function to get all run diagnostics.
func GetDiagnostics(t *testing.T, queryable qrm.Queryable) []pgmodels.RunDiagnostic {
	t.Helper()

	diagnostics := []pgmodels.RunDiagnostic{}
	err := table.RunDiagnostic.SELECT(table.RunDiagnostic.AllColumns).
		WHERE(table.RunDiagnostic.RunID.IS_NOT_NULL()).
		ORDER_BY(table.RunDiagnostic.Source.ASC()).
		Query(queryable, &diagnostics)
	if err != nil {
		t.Fatal("can't get run diagnostics", err)
	}

	return diagnostics
}

// CleanupData is a helper test function to delete all rows.
func CleanupData(t *testing.T, exc qrm.Executable) {
	t.Helper()

	_, err := table.Listing.DELETE().WHERE(table.Listing.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete listings data", err)
	}

	_, err = table.RunDiagnostic.DELETE().WHERE(table.RunDiagnostic.RunID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete run diagnostics data", err)
	}

	_, err = table.Run.DELETE().WHERE(table.Run.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete runs data", err)
	}
}
