package chart_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/MichalMitros/az-phone-market/internal/aggregate"
	"github.com/MichalMitros/az-phone-market/internal/chart"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/MichalMitros/az-phone-market/internal/platform/models/modelstesting"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var (
	labels = map[string]string{"almali": "Almali.az", "wt": "W-T.az"}
	sheets = []string{
		chart.SheetCatalogue,
		chart.SheetMedianPrice,
		chart.SheetSegments,
		chart.SheetTopBrands,
		chart.SheetPositioning,
		chart.SheetDiscounts,
		chart.SheetSamsung,
		chart.SheetApple,
		chart.SheetDistribution,
		chart.SheetInstallments,
		chart.SheetBrandMix,
	}
)

func TestUnitBuild(t *testing.T) {
	f, err := chart.Build(aggregate.Aggregate(fixture()), labels)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, sheets, f.GetSheetList(), "should have one sheet per chart")

	tests := map[string]struct {
		sheet string
		want  [][]string
	}{
		"catalogue sorted by size": {
			sheet: chart.SheetCatalogue,
			want:  [][]string{{"Retailer", "Listings"}, {"W-T.az", "2"}, {"Almali.az", "3"}},
		},
		"median price": {
			sheet: chart.SheetMedianPrice,
			want:  [][]string{{"Retailer", "Median price"}, {"Almali.az", "300"}, {"W-T.az", "650"}},
		},
		"segments": {
			sheet: chart.SheetSegments,
			want: [][]string{
				{"Retailer", "Budget <200 AZN", "Mid-Low 200-500 AZN", "Mid 500-1000 AZN", "Premium 1000-2000 AZN", "Ultra >=2000 AZN"},
				{"Almali.az", "33.33", "33.33", "0", "33.33", "0"},
				{"W-T.az", "0", "50", "0", "50", "0"},
			},
		},
		"samsung with listing counts": {
			sheet: chart.SheetSamsung,
			want:  [][]string{{"Retailer", "Median price", "Average price"}, {"Almali.az (n=2)", "200", "200"}},
		},
		"apple": {
			sheet: chart.SheetApple,
			want:  [][]string{{"Retailer", "Median price", "Average price"}, {"W-T.az (n=1)", "1000", "1000"}},
		},
		"discounts": {
			sheet: chart.SheetDiscounts,
			want:  [][]string{{"Retailer", "Average discount depth", "Listings on promotion"}, {"W-T.az", "20", "50"}},
		},
		"installments without retailers lacking plans": {
			sheet: chart.SheetInstallments,
			want: [][]string{
				{"Retailer", "6-month plan", "12-month plan", "18-month plan"},
				{"Almali.az", "0", "33.33", "0"},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rows, err := f.GetRows(tt.sheet)

			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestUnitBuildEmptySummary(t *testing.T) {
	f, err := chart.Build(aggregate.Aggregate(nil), nil)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, sheets, f.GetSheetList())

	rows, err := f.GetRows(chart.SheetCatalogue)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Retailer", "Listings"}}, rows, "should keep header only")
}

func TestUnitRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "charts.xlsx")
	run := models.Run{ID: uuid.New(), StartedAt: time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)}

	err := chart.NewWorkbook(path, labels).Render(context.TODO(), run, aggregate.Aggregate(fixture()))
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, sheets, f.GetSheetList())

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Contains(t, props.Description, run.ID.String())
}

func TestUnitSegmentLabel(t *testing.T) {
	assert.Equal(t,
		[]string{"Budget <200 AZN", "Mid-Low 200-500 AZN", "Mid 500-1000 AZN", "Premium 1000-2000 AZN", "Ultra >=2000 AZN"},
		lo.Map(aggregate.Segments, func(s aggregate.Segment, _ int) string { return chart.SegmentLabel(s) }),
	)
}

func fixture() models.Dataset {
	listing := func(source, brand, price string, ops ...func(l *models.Listing)) models.Listing {
		return modelstesting.FakeListing(append([]func(l *models.Listing){func(l *models.Listing) {
			l.Source = source
			l.Brand = lo.ToPtr(brand)
			l.PriceCurrent = decimal.RequireFromString(price)
			l.Installment12M = decimal.NullDecimal{}
		}}, ops...)...)
	}

	return models.Dataset{
		listing("almali", "Samsung", "100"),
		listing("almali", "Samsung", "300", func(l *models.Listing) {
			l.Installment12M = decimal.NewNullDecimal(decimal.NewFromInt(25))
		}),
		listing("almali", "Nokia", "1200"),
		listing("wt", "Xiaomi", "300"),
		listing("wt", "Apple", "1000", modelstesting.WithDiscount("1250", "1000")),
	}
}
