package normalize_test

import (
	"testing"

	"github.com/MichalMitros/az-phone-market/internal/normalize"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/stretchr/testify/assert"
)

func TestUnitMap(t *testing.T) {
	mapper := normalize.NewMapper(map[string]map[string]string{
		"telsat": {
			"price":     "price_current",
			"price_old": "price_original",
		},
		"elitoptimal": {
			"available":           "in_stock",
			"installment_monthly": "",
		},
	})

	tests := map[string]struct {
		source string
		raw    models.RawRecord
		want   models.RawRecord
	}{
		"aliases renamed and unknown fields dropped": {
			source: "telsat",
			raw: models.RawFrom(
				"product_id", "1",
				"name", "Samsung A15",
				"price", "299 AZN",
				"price_old", "349 AZN",
				"location", "Bakı",
				"url", "https://telsat.az/1",
			),
			want: models.RawFrom(
				"product_id", "1",
				"name", "Samsung A15",
				"price_current", "299 AZN",
				"price_original", "349 AZN",
				"url", "https://telsat.az/1",
			),
		},
		"explicit drop and staging field kept": {
			source: "elitoptimal",
			raw: models.RawFrom(
				"available", "InStock",
				"installment_monthly", "54.17",
				"stock_qty", "3",
				"barcode", "123",
			),
			want: models.RawFrom(
				"in_stock", "InStock",
				"stock_qty", "3",
			),
		},
		"alias wins over same named field": {
			source: "telsat",
			raw: models.RawFrom(
				"price_current", "1",
				"price", "2",
			),
			want: models.RawFrom(
				"price_current", "2",
			),
		},
		"unregistered source passes schema fields": {
			source: "unknown",
			raw: models.RawFrom(
				"price", "2",
				"url", "u",
			),
			want: models.RawFrom(
				"url", "u",
			),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := mapper.Map(tt.source, tt.raw)

			assert.Equal(t, tt.want.Keys(), got.Keys(), "should keep correct fields")
			for _, key := range tt.want.Keys() {
				assert.Equalf(t, tt.want.Value(key), got.Value(key), "field %s should keep raw value", key)
			}
		})
	}
}
