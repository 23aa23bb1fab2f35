// Package normalize turns raw retailer records into unified listings.
package normalize

import (
	"fmt"
	"html"
	"strings"

	"github.com/MichalMitros/az-phone-market/internal/platform"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/MichalMitros/az-phone-market/internal/registry"
	"github.com/shopspring/decimal"
)

//go:generate mockery --name BrandResolver --filename brandresolver.go

// BrandResolver resolves canonical brand of a listing.
type BrandResolver interface {
	Resolve(explicit, name string) *string
}

var (
	hundred = decimal.NewFromInt(100)
	// tolerances used when a raw discount is compared with prices
	amountTolerance  = decimal.RequireFromString("0.01")
	percentTolerance = decimal.NewFromInt(1)
)

var currencyTokens = map[string]struct{}{
	"":      {},
	"azn":   {},
	"₼":     {},
	"man":   {},
	"manat": {},
}

type sourcePlan struct {
	format       registry.NumberFormat
	brandField   string
	transformers []Transformer
}

// Assembler builds unified listings from raw records.
// It holds no mutable state and is safe for concurrent use.
type Assembler struct {
	mapper      *Mapper
	brands      BrandResolver
	plans       map[string]sourcePlan
	stockTokens map[string]models.StockState
}

// NewAssembler returns Assembler configured by registry.
func NewAssembler(reg *registry.Registry, brands BrandResolver) (*Assembler, error) {
	defaults, err := lookupTransformers(reg.Defaults)
	if err != nil {
		return nil, fmt.Errorf("can't load default transformers: %w", err)
	}

	aliases := make(map[string]map[string]string, len(reg.Sources))
	plans := make(map[string]sourcePlan, len(reg.Sources))

	for _, src := range reg.Sources {
		extra, err := lookupTransformers(src.Transformers)
		if err != nil {
			return nil, fmt.Errorf("can't load transformers of %s: %w", src.Slug, err)
		}

		aliases[src.Slug] = src.Columns
		plans[src.Slug] = sourcePlan{
			format:       src.NumberFormat,
			brandField:   src.BrandField,
			transformers: append(append([]Transformer{}, defaults...), extra...),
		}
	}

	stockTokens := make(map[string]models.StockState, len(reg.StockTokens))
	for token, state := range reg.StockTokens {
		stockTokens[StockKey(token)] = models.StockState(state)
	}

	return &Assembler{
		mapper:      NewMapper(aliases),
		brands:      brands,
		plans:       plans,
		stockTokens: stockTokens,
	}, nil
}

// Assemble maps, transforms, derives, resolves brand and validates one raw record.
// Invalid rows are reported with error wrapping platform.ErrMissingRequiredField.
// Returned issues are non-fatal warnings.
func (a *Assembler) Assemble(source string, raw models.RawRecord) (models.Listing, []models.Issue, error) {
	plan, ok := a.plans[source]
	if !ok {
		return models.Listing{}, nil, fmt.Errorf("can't assemble row: %w: %q", registry.ErrUnknownSource, source)
	}

	d := &Draft{
		Fields:      a.mapper.Map(source, raw),
		format:      plan.format,
		stockTokens: a.stockTokens,
	}

	d.Listing = models.Listing{
		Source:    source,
		ProductID: strings.TrimSpace(d.Fields.Value(FieldProductID)),
		Name:      cleanText(d.Fields.Value(FieldName)),
		Currency:  models.Currency,
		URL:       strings.TrimSpace(d.Fields.Value(FieldURL)),
		Image:     strings.TrimSpace(d.Fields.Value(FieldImage)),
	}

	if currency := d.Fields.Value(FieldCurrency); !knownCurrency(currency) {
		d.warn(models.IssueUnrecognizedToken, FieldCurrency, currency)
	}

	for _, transform := range plan.transformers {
		transform(d)
	}

	deriveDiscounts(d)

	var explicit string
	if plan.brandField != "" {
		explicit = raw.Value(plan.brandField)
	}
	d.Listing.Brand = a.brands.Resolve(explicit, d.Listing.Name)

	if err := validate(d); err != nil {
		return models.Listing{}, d.Issues, err
	}

	return d.Listing, d.Issues, nil
}

// deriveDiscounts makes discount fields consistent with prices. Without original
// price there is no discount. With both prices the discount is computed from them
// and raw discount values are only cross-checked.
func deriveDiscounts(d *Draft) {
	rawAmt, rawPct := d.Listing.DiscountAmt, d.Listing.DiscountPct
	d.Listing.DiscountAmt = decimal.NullDecimal{}
	d.Listing.DiscountPct = decimal.NullDecimal{}

	orig := d.Listing.PriceOriginal
	if !orig.Valid || !d.Current.Valid || d.Current.Decimal.IsNegative() {
		return
	}
	cur := d.Current.Decimal

	switch orig.Decimal.Cmp(cur) {
	case 0:
		d.Listing.PriceOriginal = decimal.NullDecimal{}
		return
	case -1:
		d.warn(models.IssueInconsistentPrice, FieldPriceOriginal, orig.Decimal.String())
		d.Listing.PriceOriginal = decimal.NullDecimal{}
		return
	}

	amt := orig.Decimal.Sub(cur)
	pct := amt.Mul(hundred).Div(orig.Decimal).Round(2)

	if rawAmt.Valid && rawAmt.Decimal.Sub(amt).Abs().GreaterThan(amountTolerance) {
		d.warn(models.IssueDiscountMismatch, FieldDiscountAmt, rawAmt.Decimal.String())
	}
	if rawPct.Valid && rawPct.Decimal.Sub(pct).Abs().GreaterThan(percentTolerance) {
		d.warn(models.IssueDiscountMismatch, FieldDiscountPct, rawPct.Decimal.String())
	}

	d.Listing.DiscountAmt = decimal.NewNullDecimal(amt)
	d.Listing.DiscountPct = decimal.NewNullDecimal(pct)
}

func validate(d *Draft) error {
	if !d.Current.Valid || d.Current.Decimal.IsNegative() {
		return fmt.Errorf("%s: %w", FieldPriceCurrent, platform.ErrMissingRequiredField)
	}
	if d.Listing.URL == "" {
		return fmt.Errorf("%s: %w", FieldURL, platform.ErrMissingRequiredField)
	}

	d.Listing.PriceCurrent = d.Current.Decimal
	if d.Listing.ProductID == "" {
		d.Listing.ProductID = d.Listing.URL
	}

	return nil
}

// cleanText unescapes html entities and collapses whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

func knownCurrency(raw string) bool {
	_, ok := currencyTokens[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}
