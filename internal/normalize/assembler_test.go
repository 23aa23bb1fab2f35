package normalize_test

import (
	"testing"

	"github.com/MichalMitros/az-phone-market/internal/brand"
	"github.com/MichalMitros/az-phone-market/internal/normalize"
	"github.com/MichalMitros/az-phone-market/internal/normalize/mocks"
	"github.com/MichalMitros/az-phone-market/internal/platform"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/MichalMitros/az-phone-market/internal/registry"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitAssemble(t *testing.T) {
	assembler := newAssembler(t)

	tests := map[string]struct {
		source     string
		raw        models.RawRecord
		want       map[string]string
		wantIssues []models.IssueKind
		wantErr    error
	}{
		"explicit brand field wins": {
			source: "elitoptimal",
			raw: models.RawFrom(
				"product_id", "77",
				"name", "iPhone-style case for Samsung",
				"brand", "Samsung",
				"price_current", "25",
				"price_original", "30",
				"discount_amt", "5",
				"discount_pct", "16.67",
				"currency", "AZN",
				"available", "InStock",
				"installment_monthly", "2.5",
				"url", "https://elitoptimal.az/p/77",
			),
			want: map[string]string{
				"brand":           "Samsung",
				"price_current":   "25",
				"price_original":  "30",
				"discount_amt":    "5",
				"discount_pct":    "16.67",
				"in_stock":        "Yes",
				"installment_12m": "",
			},
		},
		"limited quantity is in stock": {
			source: "elitoptimal",
			raw: models.RawFrom(
				"name", "Honor 200",
				"price_current", "799",
				"available", "LimitedQuantity",
				"url", "u",
			),
			want: map[string]string{"in_stock": "Yes", "brand": "Honor"},
		},
		"sign correction": {
			source: "irshad",
			raw: models.RawFrom(
				"product_id", "5",
				"name", "Xiaomi Redmi Note 12",
				"price_current", "86 ₼",
				"price_original", "100 ₼",
				"discount_pct", "-14%",
				"url", "https://irshad.az/az/mehsullar/5",
			),
			want: map[string]string{
				"brand":        "Xiaomi",
				"discount_pct": "14",
				"discount_amt": "14",
			},
		},
		"installment pivot": {
			source: "bakuelectronics",
			raw: models.RawFrom(
				"product_id", "9",
				"name", "Samsung Galaxy A55",
				"price_current", "650",
				"installment_monthly", "54.17",
				"installment_months", "12",
				"stock_qty", "4",
				"url", "u",
			),
			want: map[string]string{
				"installment_6m":  "",
				"installment_12m": "54.17",
				"installment_18m": "",
				"in_stock":        "Yes",
			},
		},
		"installment term outside fixed set": {
			source: "birmarket",
			raw: models.RawFrom(
				"name", "Tecno Spark 20",
				"price_current", "399.00",
				"installment", "16.63 ₼ x 24 ay",
				"url", "u",
			),
			want: map[string]string{
				"installment_6m":  "",
				"installment_12m": "",
				"installment_18m": "",
			},
			wantIssues: []models.IssueKind{models.IssueUnrecognizedToken},
		},
		"installment text pivoted": {
			source: "birmarket",
			raw: models.RawFrom(
				"name", "Tecno Spark 20",
				"price_current", "399.00",
				"price_old", "599.00",
				"discount_pct", "-33",
				"installment", "33.25 ₼ x 12 ay",
				"url", "u",
			),
			want: map[string]string{
				"installment_12m": "33.25",
				"price_original":  "599",
				"discount_amt":    "200",
				"discount_pct":    "33.39",
			},
		},
		"installment text with thousands comma": {
			source: "birmarket",
			raw: models.RawFrom(
				"name", "Vertu Signature Touch",
				"price_current", "6000",
				"installment", "1,000.00 ₼ x 6 ay",
				"url", "u",
			),
			want: map[string]string{"installment_6m": "1000", "brand": "Vertu"},
		},
		"installment text with thousands space": {
			source: "birmarket",
			raw: models.RawFrom(
				"name", "Vertu Metavertu",
				"price_current", "6325",
				"installment", "1 054.17 ₼ x 6 ay",
				"url", "u",
			),
			want: map[string]string{"installment_6m": "1054.17"},
		},
		"comma decimal installment text": {
			source: "kontakt",
			raw: models.RawFrom(
				"name", "Vertu Metavertu",
				"price_current", "6.325,00 ₼",
				"installment", "1.054,17 ₼ x 6 ay",
				"url", "u",
			),
			want: map[string]string{"price_current": "6325", "installment_6m": "1054.17"},
		},
		"zero stock quantity": {
			source: "bakuelectronics",
			raw: models.RawFrom(
				"name", "Nokia 105",
				"price_current", "39",
				"stock_qty", "0",
				"url", "u",
			),
			want: map[string]string{"in_stock": "No", "brand": "Nokia"},
		},
		"comma decimal source": {
			source: "kontakt",
			raw: models.RawFrom(
				"product_id", "k1",
				"name", "Samsung Galaxy S24 Ultra",
				"brand", "Mobil telefon",
				"price_current", "2.859,99 ₼",
				"price_original", "3.059,99 ₼",
				"discount_amt", "200",
				"installment", "0% 6 ay",
				"in_stock", "Unknown",
				"url", "u",
			),
			want: map[string]string{
				"brand":          "Samsung",
				"price_current":  "2859.99",
				"price_original": "3059.99",
				"discount_amt":   "200",
				"discount_pct":   "6.54",
				"in_stock":       "",
				"installment_6m": "",
			},
		},
		"percentage badge": {
			source: "digitalhome",
			raw: models.RawFrom(
				"name", "Honor X9b",
				"price_current", "850",
				"price_original", "1000",
				"discount", "-15%",
				"in_stock", "Stokda var",
				"url", "u",
			),
			want: map[string]string{"discount_pct": "15", "discount_amt": "150", "in_stock": "Yes"},
		},
		"amount badge": {
			source: "digitalhome",
			raw: models.RawFrom(
				"name", "Honor X9b",
				"price_current", "850",
				"price_original", "1000",
				"discount", "-150 ₼",
				"url", "u",
			),
			want: map[string]string{"discount_pct": "15", "discount_amt": "150"},
		},
		"decorated discount text": {
			source: "soliton",
			raw: models.RawFrom(
				"name", "OPPO Reno 11",
				"price_current", "900",
				"price_original", "1050",
				"discount_amt", "150 AZN endirim",
				"brand_id", "12",
				"url", "u",
			),
			want: map[string]string{"discount_amt": "150", "discount_pct": "14.29", "brand": "Oppo"},
		},
		"unrecognized discount text": {
			source: "soliton",
			raw: models.RawFrom(
				"name", "OPPO Reno 11",
				"price_current", "900",
				"discount_amt", "endirim",
				"url", "u",
			),
			want:       map[string]string{"discount_amt": ""},
			wantIssues: []models.IssueKind{models.IssueUnrecognizedToken},
		},
		"no original price means no discount": {
			source: "irshad",
			raw: models.RawFrom(
				"name", "Apple iPhone 15",
				"price_current", "1999",
				"discount_pct", "-14%",
				"url", "u",
			),
			want: map[string]string{"discount_pct": "", "discount_amt": "", "price_original": ""},
		},
		"equal prices mean no discount": {
			source: "almali",
			raw: models.RawFrom(
				"name", "Vivo Y36",
				"price_current", "499",
				"price_original", "499",
				"url", "u",
			),
			want: map[string]string{"discount_pct": "", "discount_amt": "", "price_original": ""},
		},
		"original lower than current": {
			source: "almali",
			raw: models.RawFrom(
				"name", "Vivo Y36",
				"price_current", "499",
				"price_original", "450",
				"url", "u",
			),
			want:       map[string]string{"discount_pct": "", "price_original": ""},
			wantIssues: []models.IssueKind{models.IssueInconsistentPrice},
		},
		"raw discount disagreeing with prices": {
			source: "irshad",
			raw: models.RawFrom(
				"name", "Realme C67",
				"price_current", "86",
				"price_original", "100",
				"discount_pct", "-30%",
				"url", "u",
			),
			want:       map[string]string{"discount_pct": "14"},
			wantIssues: []models.IssueKind{models.IssueDiscountMismatch},
		},
		"aliased price column": {
			source: "telsat",
			raw: models.RawFrom(
				"product_id", "t1",
				"name", "iPhone 13 128GB",
				"price", "1100 AZN",
				"price_old", "0",
				"url", "https://telsat.az/t1",
			),
			want:       map[string]string{"price_current": "1100", "brand": "Apple", "price_original": ""},
			wantIssues: []models.IssueKind{models.IssueInconsistentPrice},
		},
		"unrecognized stock token": {
			source: "digitalhome",
			raw: models.RawFrom(
				"name", "ZTE Blade",
				"price_current", "199",
				"in_stock", "Sifarişlə",
				"url", "u",
			),
			want:       map[string]string{"in_stock": ""},
			wantIssues: []models.IssueKind{models.IssueUnrecognizedToken},
		},
		"product id falls back to url": {
			source: "wt",
			raw: models.RawFrom(
				"name", "  Infinix   Hot 40 &amp; case ",
				"price_current", "349",
				"url", "https://www.w-t.az/p/1",
			),
			want: map[string]string{
				"product_id": "https://www.w-t.az/p/1",
				"name":       "Infinix Hot 40 & case",
				"currency":   "AZN",
				"brand":      "Infinix",
			},
		},
		"unknown currency": {
			source: "wt",
			raw: models.RawFrom(
				"name", "Infinix Hot 40",
				"price_current", "349",
				"currency", "USD",
				"url", "u",
			),
			want:       map[string]string{"currency": "AZN"},
			wantIssues: []models.IssueKind{models.IssueUnrecognizedToken},
		},
		"missing price": {
			source: "wt",
			raw: models.RawFrom(
				"name", "Infinix Hot 40",
				"url", "u",
			),
			wantErr: platform.ErrMissingRequiredField,
		},
		"malformed price": {
			source: "wt",
			raw: models.RawFrom(
				"name", "Infinix Hot 40",
				"price_current", "Qiymət soruşun",
				"url", "u",
			),
			wantIssues: []models.IssueKind{models.IssueMalformedNumber},
			wantErr:    platform.ErrMissingRequiredField,
		},
		"negative price": {
			source: "wt",
			raw: models.RawFrom(
				"name", "Infinix Hot 40",
				"price_current", "-1",
				"url", "u",
			),
			wantErr: platform.ErrMissingRequiredField,
		},
		"missing url": {
			source: "wt",
			raw: models.RawFrom(
				"name", "Infinix Hot 40",
				"price_current", "349",
			),
			wantErr: platform.ErrMissingRequiredField,
		},
		"unknown source": {
			source:  "amazon",
			raw:     models.RawFrom("price_current", "1", "url", "u"),
			wantErr: registry.ErrUnknownSource,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, issues, err := assembler.Assemble(tt.source, tt.raw)

			require.ErrorIs(t, err, tt.wantErr, "should return correct error")
			assert.Equal(t, tt.wantIssues, issueKinds(issues), "should report correct issues")

			if tt.wantErr != nil {
				return
			}

			fields := listingFields(got)
			for field, want := range tt.want {
				assert.Equalf(t, want, fields[field], "field %s should have correct value", field)
			}
		})
	}
}

func TestUnitAssembleDiscountConsistency(t *testing.T) {
	assembler := newAssembler(t)

	prices := [][2]string{{"100", "86"}, {"1999.99", "1499.99"}, {"3", "1"}, {"1059", "999"}, {"12.5", "12.49"}}
	for _, p := range prices {
		got, _, err := assembler.Assemble("almali", models.RawFrom(
			"name", "Samsung",
			"price_original", p[0],
			"price_current", p[1],
			"url", "u",
		))
		require.NoError(t, err)

		orig := got.PriceOriginal.Decimal
		amt := orig.Sub(got.PriceCurrent)
		assert.True(t, got.DiscountAmt.Decimal.Equal(amt), "discount amount should equal price difference")

		pct := amt.Mul(decimal.NewFromInt(100)).Div(orig)
		assert.True(t, got.DiscountPct.Decimal.Sub(pct).Abs().LessThanOrEqual(decimal.RequireFromString("0.005")),
			"discount percentage should equal relative difference")
	}
}

func TestUnitAssembleUsesBrandResolver(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)

	resolver := mocks.NewBrandResolver(t)
	resolver.On("Resolve", "Blackview", "Blackview BV9300").Return(nil).Once()
	resolver.On("Resolve", "", "Galaxy A05").Return(lo.ToPtr("Samsung")).Once()

	assembler, err := normalize.NewAssembler(reg, resolver)
	require.NoError(t, err)

	got, _, err := assembler.Assemble("kontakt", models.RawFrom(
		"name", "Blackview BV9300",
		"brand", "Blackview",
		"price_current", "500",
		"url", "u",
	))
	require.NoError(t, err)
	assert.Nil(t, got.Brand, "should leave unresolved brand absent")

	// brand field is ignored for sources without one
	got, _, err = assembler.Assemble("almali", models.RawFrom(
		"name", "Galaxy A05",
		"brand", "Blackview",
		"price_current", "200",
		"url", "u",
	))
	require.NoError(t, err)
	assert.Equal(t, lo.ToPtr("Samsung"), got.Brand)
}

func TestUnitNewAssemblerUnknownTransformer(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)

	reg.Sources[0].Transformers = []string{"fix_everything"}

	_, err = normalize.NewAssembler(reg, nil)

	require.ErrorIs(t, err, normalize.ErrUnknownTransformer)
}

func newAssembler(t *testing.T) *normalize.Assembler {
	t.Helper()

	reg, err := registry.Default()
	require.NoError(t, err)

	normalizer, err := brand.NewNormalizer(brand.Vocabulary{
		Brands:   reg.Brands.Vocabulary,
		Aliases:  reg.Brands.Aliases,
		Stoplist: reg.Brands.Stoplist,
	})
	require.NoError(t, err)

	assembler, err := normalize.NewAssembler(reg, normalizer)
	require.NoError(t, err)

	return assembler
}

func issueKinds(issues []models.Issue) []models.IssueKind {
	if len(issues) == 0 {
		return nil
	}
	return lo.Map(issues, func(i models.Issue, _ int) models.IssueKind { return i.Kind })
}

func listingFields(l models.Listing) map[string]string {
	nullable := func(d decimal.NullDecimal) string {
		if !d.Valid {
			return ""
		}
		return d.Decimal.String()
	}

	return map[string]string{
		"source":          l.Source,
		"product_id":      l.ProductID,
		"name":            l.Name,
		"brand":           l.BrandName(),
		"price_current":   l.PriceCurrent.String(),
		"price_original":  nullable(l.PriceOriginal),
		"discount_amt":    nullable(l.DiscountAmt),
		"discount_pct":    nullable(l.DiscountPct),
		"currency":        l.Currency,
		"installment_6m":  nullable(l.Installment6M),
		"installment_12m": nullable(l.Installment12M),
		"installment_18m": nullable(l.Installment18M),
		"in_stock":        string(l.InStock),
		"url":             l.URL,
		"image":           l.Image,
	}
}
