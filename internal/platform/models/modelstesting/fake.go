package modelstesting

import (
	"math/rand"

	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/go-faker/faker/v4"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// FakeListing returns valid models.Listing with fake data.
func FakeListing(ops ...func(l *models.Listing)) models.Listing {
	current := decimal.NewFromInt(int64(100 + rand.Intn(2000)))
	listing := models.Listing{
		Source:         "kontakt",
		ProductID:      faker.Word(),
		Name:           faker.Word(),
		Brand:          lo.ToPtr("Samsung"),
		PriceCurrent:   current,
		Currency:       models.Currency,
		Installment12M: decimal.NewNullDecimal(current.Div(decimal.NewFromInt(12)).Round(2)),
		InStock:        models.StockYes,
		URL:            "https://example.az/" + faker.Word(),
		Image:          "https://example.az/img/" + faker.Word() + ".jpg",
	}

	for _, op := range ops {
		op(&listing)
	}

	return listing
}

// FakeRawRecord returns RawRecord in unified field names with fake data.
func FakeRawRecord(ops ...func(r *models.RawRecord)) models.RawRecord {
	rec := models.RawFrom(
		"product_id", faker.Word(),
		"name", "Samsung Galaxy "+faker.Word(),
		"price_current", "499.99",
		"currency", "AZN",
		"url", "https://example.az/"+faker.Word(),
		"image", "https://example.az/img.jpg",
	)

	for _, op := range ops {
		op(&rec)
	}

	return rec
}

// WithDiscount sets prices of listing so it has a discount.
func WithDiscount(original, current string) func(l *models.Listing) {
	return func(l *models.Listing) {
		orig := decimal.RequireFromString(original)
		cur := decimal.RequireFromString(current)
		amt := orig.Sub(cur)
		l.PriceCurrent = cur
		l.PriceOriginal = decimal.NewNullDecimal(orig)
		l.DiscountAmt = decimal.NewNullDecimal(amt)
		l.DiscountPct = decimal.NewNullDecimal(amt.Mul(decimal.NewFromInt(100)).Div(orig).Round(2))
	}
}
