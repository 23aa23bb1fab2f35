package aggregate

import (
	"slices"

	"github.com/shopspring/decimal"
)

var (
	half    = decimal.RequireFromString("0.5")
	whisker = decimal.RequireFromString("1.5")
)

// PriceStats describes a group of prices.
type PriceStats struct {
	Count  int
	Mean   decimal.Decimal
	Median decimal.Decimal
}

// Distribution is five-number summary of prices with box plot whiskers.
type Distribution struct {
	Count  int
	Min    decimal.Decimal
	Q1     decimal.Decimal
	Median decimal.Decimal
	Q3     decimal.Decimal
	Max    decimal.Decimal
	// Whiskers are the most extreme prices within 1.5 IQR of the quartiles.
	LowerWhisker decimal.Decimal
	UpperWhisker decimal.Decimal
	Outliers     int
}

func priceStats(prices []decimal.Decimal) PriceStats {
	if len(prices) == 0 {
		return PriceStats{}
	}

	sorted := sortedCopy(prices)

	return PriceStats{
		Count:  len(sorted),
		Mean:   decimal.Sum(sorted[0], sorted[1:]...).Div(decimal.NewFromInt(int64(len(sorted)))).Round(2),
		Median: quantile(sorted, half),
	}
}

func distribution(prices []decimal.Decimal) Distribution {
	if len(prices) == 0 {
		return Distribution{}
	}

	sorted := sortedCopy(prices)
	q1 := quantile(sorted, decimal.RequireFromString("0.25"))
	q3 := quantile(sorted, decimal.RequireFromString("0.75"))
	reach := q3.Sub(q1).Mul(whisker)
	low, high := q1.Sub(reach), q3.Add(reach)

	d := Distribution{
		Count:        len(sorted),
		Min:          sorted[0],
		Q1:           q1,
		Median:       quantile(sorted, half),
		Q3:           q3,
		Max:          sorted[len(sorted)-1],
		LowerWhisker: q1,
		UpperWhisker: q3,
	}

	for _, p := range sorted {
		if p.LessThan(low) || p.GreaterThan(high) {
			d.Outliers++
			continue
		}
		if p.LessThan(d.LowerWhisker) {
			d.LowerWhisker = p
		}
		if p.GreaterThan(d.UpperWhisker) {
			d.UpperWhisker = p
		}
	}

	return d
}

// quantile interpolates linearly between closest ranks of sorted values.
func quantile(sorted []decimal.Decimal, q decimal.Decimal) decimal.Decimal {
	pos := q.Mul(decimal.NewFromInt(int64(len(sorted) - 1)))
	lower := pos.Floor()
	ix := int(lower.IntPart())

	if ix+1 >= len(sorted) {
		return sorted[ix]
	}

	frac := pos.Sub(lower)
	return sorted[ix].Add(sorted[ix+1].Sub(sorted[ix]).Mul(frac)).Round(2)
}

func sortedCopy(prices []decimal.Decimal) []decimal.Decimal {
	sorted := slices.Clone(prices)
	slices.SortFunc(sorted, func(a, b decimal.Decimal) int { return a.Cmp(b) })
	return sorted
}

// share returns part as percentage of total.
func share(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
