package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/MichalMitros/az-phone-market/internal/registry"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Draft is a listing under assembly.
type Draft struct {
	Fields  models.RawRecord
	Listing models.Listing
	Issues  []models.Issue

	// Current is parsed price_current. It is validated after all transformers run.
	Current decimal.NullDecimal

	format      registry.NumberFormat
	stockTokens map[string]models.StockState
}

// Transformer fixes values of one group of fields.
type Transformer func(d *Draft)

var transformers = map[string]Transformer{
	"prices":            parsePrices,
	"discount_amount":   parseDiscountAmount,
	"discount_sign":     correctDiscountSign,
	"discount_text":     extractDiscountText,
	"discount_badge":    routeDiscountBadge,
	"installments":      parseInstallments,
	"installment_pivot": pivotInstallment,
	"installment_text":  parseInstallmentText,
	"stock_tokens":      mapStockTokens,
	"stock_quantity":    mapStockQuantity,
}

// Terms are installment lengths in months present in the output.
var Terms = []int{6, 12, 18}

var (
	decoratedAmount = regexp.MustCompile(`(?i)(\d[\d\s.,]*)\s*(?:₼|azn|manat|man)`)
	installmentPlan = regexp.MustCompile(`(?i)(\d[\d\s\x{00a0}.,]*?)\s*(?:₼|azn|man)?\s*[x×]\s*(\d+)\s*ay`)
)

func (d *Draft) warn(kind models.IssueKind, field, value string) {
	d.Issues = append(d.Issues, models.Issue{Kind: kind, Field: field, Value: value})
}

// amount parses field of the draft. Empty field is absent without warning.
func (d *Draft) amount(field string) decimal.NullDecimal {
	raw := strings.TrimSpace(d.Fields.Value(field))
	if raw == "" {
		return decimal.NullDecimal{}
	}

	value, err := ParseAmount(raw, d.format)
	if err != nil {
		d.warn(models.IssueMalformedNumber, field, raw)
		return decimal.NullDecimal{}
	}

	return decimal.NewNullDecimal(value)
}

func parsePrices(d *Draft) {
	d.Current = d.amount(FieldPriceCurrent)
	d.Listing.PriceOriginal = d.amount(FieldPriceOriginal)
}

func parseDiscountAmount(d *Draft) {
	amt := d.amount(FieldDiscountAmt)
	if amt.Valid {
		amt.Decimal = amt.Decimal.Abs()
	}
	d.Listing.DiscountAmt = amt
}

func correctDiscountSign(d *Draft) {
	raw := strings.TrimSpace(d.Fields.Value(FieldDiscountPct))
	if raw == "" {
		return
	}

	pct, err := ParsePercent(raw)
	if err != nil {
		d.warn(models.IssueMalformedNumber, FieldDiscountPct, raw)
		return
	}

	d.Listing.DiscountPct = decimal.NewNullDecimal(pct)
}

func extractDiscountText(d *Draft) {
	raw := strings.TrimSpace(d.Fields.Value(FieldDiscountText))
	if raw == "" {
		return
	}

	amt, ok := decoratedValue(raw, d.format)
	if !ok {
		// plain number without unit
		if value, err := ParseAmount(raw, d.format); err == nil {
			amt, ok = value.Abs(), true
		}
	}
	if !ok {
		d.warn(models.IssueUnrecognizedToken, FieldDiscountText, raw)
		return
	}

	d.Listing.DiscountAmt = decimal.NewNullDecimal(amt)
}

// routeDiscountBadge handles badges carrying either "-14%" or "-150 ₼".
func routeDiscountBadge(d *Draft) {
	raw := strings.TrimSpace(d.Fields.Value(FieldDiscountBadge))
	if raw == "" {
		return
	}

	if strings.Contains(raw, "%") {
		pct, err := ParsePercent(raw)
		if err != nil {
			d.warn(models.IssueMalformedNumber, FieldDiscountBadge, raw)
			return
		}
		d.Listing.DiscountPct = decimal.NewNullDecimal(pct)
		return
	}

	if amt, ok := decoratedValue(raw, d.format); ok {
		d.Listing.DiscountAmt = decimal.NewNullDecimal(amt)
		return
	}

	d.warn(models.IssueUnrecognizedToken, FieldDiscountBadge, raw)
}

func decoratedValue(raw string, format registry.NumberFormat) (decimal.Decimal, bool) {
	match := decoratedAmount.FindStringSubmatch(raw)
	if match == nil {
		return decimal.Zero, false
	}

	value, err := ParseAmount(match[1], format)
	if err != nil {
		return decimal.Zero, false
	}

	return value.Abs(), true
}

func parseInstallments(d *Draft) {
	d.Listing.Installment6M = d.amount(FieldInstallment6M)
	d.Listing.Installment12M = d.amount(FieldInstallment12M)
	d.Listing.Installment18M = d.amount(FieldInstallment18M)
}

func pivotInstallment(d *Draft) {
	monthly := d.amount(FieldInstallmentMonthly)
	if !monthly.Valid {
		return
	}

	rawTerm := strings.TrimSpace(d.Fields.Value(FieldInstallmentTerm))
	term, err := strconv.Atoi(rawTerm)
	if err != nil {
		d.warn(models.IssueUnrecognizedToken, FieldInstallmentTerm, rawTerm)
		return
	}

	d.pivot(monthly.Decimal, term, rawTerm)
}

// parseInstallmentText handles "16.63 ₼ x 24 ay". Texts without an amount, such as
// "0% 6 ay", carry no monthly payment and are skipped.
func parseInstallmentText(d *Draft) {
	raw := strings.TrimSpace(d.Fields.Value(FieldInstallmentText))
	if raw == "" {
		return
	}

	match := installmentPlan.FindStringSubmatch(raw)
	if match == nil {
		return
	}

	monthly, err := ParseAmount(match[1], d.format)
	if err != nil {
		d.warn(models.IssueMalformedNumber, FieldInstallmentText, raw)
		return
	}

	term, err := strconv.Atoi(match[2])
	if err != nil {
		d.warn(models.IssueUnrecognizedToken, FieldInstallmentText, raw)
		return
	}

	d.pivot(monthly, term, raw)
}

func (d *Draft) pivot(monthly decimal.Decimal, term int, raw string) {
	value := decimal.NewNullDecimal(monthly)

	switch term {
	case 6:
		d.Listing.Installment6M = value
	case 12:
		d.Listing.Installment12M = value
	case 18:
		d.Listing.Installment18M = value
	default:
		d.warn(models.IssueUnrecognizedToken, FieldInstallmentTerm, raw)
	}
}

func mapStockTokens(d *Draft) {
	raw := strings.TrimSpace(d.Fields.Value(FieldInStock))
	if raw == "" {
		return
	}

	state, ok := d.stockTokens[StockKey(raw)]
	if !ok {
		d.warn(models.IssueUnrecognizedToken, FieldInStock, raw)
		return
	}

	d.Listing.InStock = state
}

func mapStockQuantity(d *Draft) {
	raw := strings.TrimSpace(d.Fields.Value(FieldStockQuantity))
	if raw == "" {
		return
	}

	qty, err := ParseAmount(raw, d.format)
	if err != nil {
		d.warn(models.IssueMalformedNumber, FieldStockQuantity, raw)
		return
	}

	if qty.IsPositive() {
		d.Listing.InStock = models.StockYes
	} else {
		d.Listing.InStock = models.StockNo
	}
}

// StockKey normalizes stock token for table lookup.
func StockKey(token string) string {
	return strings.Join(strings.Fields(cases.Lower(language.Und).String(token)), " ")
}

func lookupTransformers(names []string) ([]Transformer, error) {
	result := make([]Transformer, 0, len(names))
	for _, name := range names {
		t, ok := transformers[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTransformer, name)
		}
		result = append(result, t)
	}
	return result, nil
}
