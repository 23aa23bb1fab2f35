// Package dataset reads and writes run artifacts: raw exports, the unified CSV and diagnostics.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/MichalMitros/az-phone-market/internal/normalize"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// WriteRecords writes raw records as CSV with the header fields.
// Fields missing in a record are written empty.
func WriteRecords(w io.Writer, fields []string, records []models.RawRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(fields); err != nil {
		return fmt.Errorf("can't write header: %w", err)
	}

	row := make([]string, len(fields))
	for _, rec := range records {
		for ix, field := range fields {
			row[ix] = rec.Value(field)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("can't write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadRecords reads raw records from CSV. Leading UTF-8 BOM is skipped.
// Returns header fields and records keyed by them.
func ReadRecords(r io.Reader) ([]string, []models.RawRecord, error) {
	cr := newReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("can't read header: %w", err)
	}

	var records []models.RawRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("can't read record: %w", err)
		}

		rec := models.NewRawRecord(len(header))
		for ix, field := range header {
			rec.Set(field, row[ix])
		}
		records = append(records, rec)
	}

	return header, records, nil
}

// WriteListings writes dataset in the unified column layout.
func WriteListings(w io.Writer, ds models.Dataset) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(normalize.UnifiedFields); err != nil {
		return fmt.Errorf("can't write header: %w", err)
	}

	for _, l := range ds {
		if err := cw.Write(listingRow(l)); err != nil {
			return fmt.Errorf("can't write listing: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadListings reads dataset written by WriteListings.
func ReadListings(r io.Reader) (models.Dataset, error) {
	cr := newReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("can't read header: %w", err)
	}
	if !slices.Equal(header, normalize.UnifiedFields) {
		return nil, fmt.Errorf("%w: %s", ErrHeaderMismatch, strings.Join(header, ","))
	}

	var ds models.Dataset
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("can't read listing: %w", err)
		}

		l, err := parseListing(row)
		if err != nil {
			return nil, fmt.Errorf("can't parse line %d: %w", line, err)
		}
		ds = append(ds, l)
	}

	return ds, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	cr.FieldsPerRecord = 0
	return cr
}

func listingRow(l models.Listing) []string {
	return []string{
		l.Source,
		l.ProductID,
		l.Name,
		l.BrandName(),
		l.PriceCurrent.String(),
		nullable(l.PriceOriginal),
		nullable(l.DiscountAmt),
		nullable(l.DiscountPct),
		l.Currency,
		nullable(l.Installment6M),
		nullable(l.Installment12M),
		nullable(l.Installment18M),
		string(l.InStock),
		l.URL,
		l.Image,
	}
}

func parseListing(row []string) (models.Listing, error) {
	var err error
	parse := func(raw string) decimal.NullDecimal {
		if raw == "" || err != nil {
			return decimal.NullDecimal{}
		}
		d, parseErr := decimal.NewFromString(raw)
		if parseErr != nil {
			err = parseErr
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	}

	l := models.Listing{
		Source:         row[0],
		ProductID:      row[1],
		Name:           row[2],
		Brand:          lo.EmptyableToPtr(row[3]),
		PriceOriginal:  parse(row[5]),
		DiscountAmt:    parse(row[6]),
		DiscountPct:    parse(row[7]),
		Currency:       row[8],
		Installment6M:  parse(row[9]),
		Installment12M: parse(row[10]),
		Installment18M: parse(row[11]),
		InStock:        models.StockState(row[12]),
		URL:            row[13],
		Image:          row[14],
	}

	current := parse(row[4])
	if err != nil {
		return models.Listing{}, err
	}
	if !current.Valid {
		return models.Listing{}, fmt.Errorf("empty %s", normalize.FieldPriceCurrent)
	}
	l.PriceCurrent = current.Decimal

	return l, nil
}

func nullable(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
