package storage

import (
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	pgmodels "github.com/MichalMitros/az-phone-market/internal/platform/storage/gen/postgres/public/model"
)

//go:generate jet -dsn=${DATABASE_URL} -schema=public -path=./gen

func toDBRun(run *models.Run) *pgmodels.Run {
	return &pgmodels.Run{
		ID:            run.ID,
		StartedAt:     run.StartedAt,
		FinishedAt:    run.FinishedAt,
		Success:       run.IsSuccess,
		StatusMessage: run.StatusMessage,
		Listings:      run.Listings,
		Dropped:       run.Dropped,
	}
}

// ToDBListing converts models.Listing into postgres listing model.
func ToDBListing(runID uuid.UUID, l *models.Listing) pgmodels.Listing {
	dbListing := pgmodels.Listing{
		RunID:          runID,
		Source:         l.Source,
		ProductID:      l.ProductID,
		Name:           l.Name,
		Brand:          l.Brand,
		PriceCurrent:   l.PriceCurrent.InexactFloat64(),
		PriceOriginal:  toDBDecimal(l.PriceOriginal),
		DiscountAmt:    toDBDecimal(l.DiscountAmt),
		DiscountPct:    toDBDecimal(l.DiscountPct),
		Currency:       l.Currency,
		Installment6m:  toDBDecimal(l.Installment6M),
		Installment12m: toDBDecimal(l.Installment12M),
		Installment18m: toDBDecimal(l.Installment18M),
		URL:            l.URL,
		Image:          l.Image,
	}

	if l.InStock != models.StockUnknown {
		dbListing.InStock = lo.ToPtr(string(l.InStock))
	}

	return dbListing
}

// ToDBDiagnostics converts run diagnostics into postgres rows, one per source.
func ToDBDiagnostics(runID uuid.UUID, d models.Diagnostics) []pgmodels.RunDiagnostic {
	return lo.Map(d.Sources, func(src models.SourceDiagnostics, _ int) pgmodels.RunDiagnostic {
		return pgmodels.RunDiagnostic{
			RunID:       runID,
			Source:      src.Source,
			Raw:         int32(src.Raw),
			Accepted:    int32(src.Accepted),
			Dropped:     int32(src.DroppedTotal()),
			Warnings:    int32(src.WarningsTotal()),
			Empty:       src.Empty,
			Unavailable: toDBText(src.Unavailable),
		}
	})
}

func toDBDecimal(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	return lo.ToPtr(d.Decimal.InexactFloat64())
}

func toDBText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
