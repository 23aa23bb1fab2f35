// Package aggregate computes descriptive market metrics of a dataset.
package aggregate

import (
	"cmp"
	"slices"

	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// OtherBrands is brand mix bucket of brands outside the top ones.
const OtherBrands = "Other"

// Segment is a price band, Min inclusive and Max exclusive. Zero Max means no upper bound.
type Segment struct {
	Name string
	Min  decimal.Decimal
	Max  decimal.Decimal
}

// Contains reports whether price falls into the segment.
func (s Segment) Contains(price decimal.Decimal) bool {
	if price.LessThan(s.Min) {
		return false
	}
	return s.Max.IsZero() || price.LessThan(s.Max)
}

// Segments are the fixed price bands in AZN.
var Segments = []Segment{
	{Name: "Budget", Min: decimal.Zero, Max: decimal.NewFromInt(200)},
	{Name: "Mid-Low", Min: decimal.NewFromInt(200), Max: decimal.NewFromInt(500)},
	{Name: "Mid", Min: decimal.NewFromInt(500), Max: decimal.NewFromInt(1000)},
	{Name: "Premium", Min: decimal.NewFromInt(1000), Max: decimal.NewFromInt(2000)},
	{Name: "Ultra", Min: decimal.NewFromInt(2000)},
}

// Flagship brands compared across retailers.
const (
	Samsung = "Samsung"
	Apple   = "Apple"
)

// Summary holds all metrics of a dataset.
type Summary struct {
	Listings  int
	Retailers []RetailerStats
	// TopBrands are the most listed brands, most listed first.
	TopBrands []BrandStats
	// Positioning are top brands with enough listings, cheapest median first.
	Positioning []BrandStats
	BrandMix    BrandMix
	Flagships   []Flagship
	// Distribution holds price spread per retailer, cheapest median first.
	Distribution []RetailerDistribution
}

// RetailerStats holds metrics of one retailer.
type RetailerStats struct {
	Source   string
	Listings int
	// Price describes listings with positive price.
	Price      PriceStats
	Discounted int
	// DiscountCoverage is share of listings with a discount, in percent.
	DiscountCoverage float64
	// DiscountDepth is mean discount percentage among discounted listings.
	DiscountDepth float64
	// Installments is share of listings offering each term, in percent, keyed by months.
	Installments map[int]float64
	// Segments is share of priced listings per price band, in order of Segments.
	Segments []float64
}

// HasInstallments reports whether retailer offers any installment plan.
func (r RetailerStats) HasInstallments() bool {
	return lo.SomeBy(lo.Values(r.Installments), func(v float64) bool { return v > 0 })
}

// BrandStats holds price metrics of one brand.
type BrandStats struct {
	Brand string
	PriceStats
}

// BrandMix is share of top brands in catalogue of every retailer.
type BrandMix struct {
	// Brands are the top brands followed by OtherBrands.
	Brands    []string
	Retailers []RetailerMix
}

// RetailerMix holds brand shares of one retailer in order of BrandMix.Brands.
type RetailerMix struct {
	Source string
	Shares []float64
}

// Flagship compares prices of one brand across retailers.
type Flagship struct {
	Brand string
	// Retailers are sorted by median price, cheapest first.
	Retailers []RetailerPrice
}

// RetailerPrice holds price metrics of a brand at one retailer.
type RetailerPrice struct {
	Source string
	PriceStats
}

// RetailerDistribution is price distribution of one retailer.
type RetailerDistribution struct {
	Source string
	Distribution
}

// Option is custom configuration of aggregation.
type Option func(c *config)

type config struct {
	topBrands       int
	positioned      int
	positioningMin  int
	mixBrands       int
	excluded        []string
	mixExcluded     []string
	distributionCap decimal.Decimal
	flagships       []string
	terms           []int
}

func defaultConfig() config {
	return config{
		topBrands:       12,
		positioned:      10,
		positioningMin:  30,
		mixBrands:       6,
		excluded:        []string{"Mobil", "Smartfon", "Telefon", "Corn", ""},
		mixExcluded:     []string{"Mobil", "Smartfon", "Telefon", "Corn", "Itel", ""},
		distributionCap: decimal.NewFromInt(6000),
		flagships:       []string{Samsung, Apple},
		terms:           []int{6, 12, 18},
	}
}

// Aggregate computes metrics of the dataset. It never modifies the dataset.
func Aggregate(ds models.Dataset, ops ...Option) Summary {
	cfg := defaultConfig()
	for _, op := range ops {
		op(&cfg)
	}

	bySource := groupBySource(ds)
	sources := lo.Uniq(lo.Map(ds, func(l models.Listing, _ int) string { return l.Source }))

	summary := Summary{
		Listings: len(ds),
		Retailers: lo.Map(sources, func(src string, _ int) RetailerStats {
			return retailerStats(src, bySource[src], cfg)
		}),
	}

	brandCounts := countBrands(ds, cfg.excluded)

	summary.TopBrands = lo.Map(lo.Slice(brandCounts, 0, cfg.topBrands), func(b lo.Entry[string, int], _ int) BrandStats {
		return brandStats(ds, b.Key)
	})

	// eligible brands come from the 30 most listed ones
	eligible := lo.Filter(lo.Slice(brandCounts, 0, 30), func(b lo.Entry[string, int], _ int) bool {
		return b.Value >= cfg.positioningMin
	})
	summary.Positioning = lo.Map(lo.Slice(eligible, 0, cfg.positioned), func(b lo.Entry[string, int], _ int) BrandStats {
		return brandStats(ds, b.Key)
	})
	slices.SortStableFunc(summary.Positioning, func(a, b BrandStats) int { return a.Median.Cmp(b.Median) })

	summary.BrandMix = brandMix(ds, bySource, cfg)

	summary.Flagships = lo.Map(cfg.flagships, func(brand string, _ int) Flagship {
		return flagship(brand, sources, bySource)
	})

	for _, src := range sources {
		prices := lo.FilterMap(bySource[src], func(l models.Listing, _ int) (decimal.Decimal, bool) {
			return l.PriceCurrent, priced(l) && l.PriceCurrent.LessThan(cfg.distributionCap)
		})
		if len(prices) == 0 {
			continue
		}
		summary.Distribution = append(summary.Distribution, RetailerDistribution{Source: src, Distribution: distribution(prices)})
	}
	slices.SortStableFunc(summary.Distribution, func(a, b RetailerDistribution) int { return a.Median.Cmp(b.Median) })

	return summary
}

func retailerStats(src string, listings []models.Listing, cfg config) RetailerStats {
	prices := pricesOf(listings)

	discounts := lo.FilterMap(listings, func(l models.Listing, _ int) (float64, bool) {
		return l.DiscountPct.Decimal.InexactFloat64(), priced(l) && l.HasDiscount()
	})

	stats := RetailerStats{
		Source:           src,
		Listings:         len(listings),
		Price:            priceStats(prices),
		Discounted:       len(discounts),
		DiscountCoverage: share(len(discounts), len(listings)),
		DiscountDepth:    mean(discounts),
		Installments:     make(map[int]float64, len(cfg.terms)),
		Segments:         make([]float64, len(Segments)),
	}

	for _, months := range cfg.terms {
		offered := lo.CountBy(listings, func(l models.Listing) bool { return l.Installment(months).Valid })
		stats.Installments[months] = share(offered, len(listings))
	}

	for ix, seg := range Segments {
		inside := lo.CountBy(prices, seg.Contains)
		stats.Segments[ix] = share(inside, len(prices))
	}

	return stats
}

func brandStats(ds models.Dataset, brand string) BrandStats {
	return BrandStats{
		Brand:      brand,
		PriceStats: priceStats(pricesOf(lo.Filter(ds, func(l models.Listing, _ int) bool { return l.BrandName() == brand }))),
	}
}

func brandMix(ds models.Dataset, bySource map[string][]models.Listing, cfg config) BrandMix {
	top := lo.Map(lo.Slice(countBrands(ds, cfg.mixExcluded), 0, cfg.mixBrands), func(b lo.Entry[string, int], _ int) string {
		return b.Key
	})

	sources := lo.Keys(bySource)
	slices.Sort(sources)

	mix := BrandMix{Brands: append(slices.Clone(top), OtherBrands)}

	for _, src := range sources {
		listings := lo.Filter(bySource[src], func(l models.Listing, _ int) bool { return priced(l) })
		shares := make([]float64, 0, len(mix.Brands))

		rest := 100.0
		for _, brand := range top {
			s := share(lo.CountBy(listings, func(l models.Listing) bool { return l.BrandName() == brand }), len(listings))
			shares = append(shares, s)
			rest -= s
		}
		if len(listings) == 0 {
			rest = 0
		}

		mix.Retailers = append(mix.Retailers, RetailerMix{Source: src, Shares: append(shares, max(rest, 0))})
	}

	return mix
}

func flagship(brand string, sources []string, bySource map[string][]models.Listing) Flagship {
	f := Flagship{Brand: brand}

	for _, src := range sources {
		prices := pricesOf(lo.Filter(bySource[src], func(l models.Listing, _ int) bool { return l.BrandName() == brand }))
		if len(prices) == 0 {
			continue
		}
		f.Retailers = append(f.Retailers, RetailerPrice{Source: src, PriceStats: priceStats(prices)})
	}

	slices.SortStableFunc(f.Retailers, func(a, b RetailerPrice) int { return a.Median.Cmp(b.Median) })

	return f
}

// countBrands returns resolved brands of priced listings, most listed first.
func countBrands(ds models.Dataset, excluded []string) []lo.Entry[string, int] {
	counts := make(map[string]int)
	for _, l := range ds {
		if priced(l) && !lo.Contains(excluded, l.BrandName()) {
			counts[l.BrandName()]++
		}
	}

	entries := lo.Entries(counts)
	slices.SortFunc(entries, func(a, b lo.Entry[string, int]) int {
		if a.Value != b.Value {
			return cmp.Compare(b.Value, a.Value)
		}
		return cmp.Compare(a.Key, b.Key)
	})

	return entries
}

func groupBySource(ds models.Dataset) map[string][]models.Listing {
	return lo.GroupBy(ds, func(l models.Listing) string { return l.Source })
}

func pricesOf(listings []models.Listing) []decimal.Decimal {
	return lo.FilterMap(listings, func(l models.Listing, _ int) (decimal.Decimal, bool) {
		return l.PriceCurrent, priced(l)
	})
}

// priced reports whether listing has a usable price. Zero prices are placeholders.
func priced(l models.Listing) bool {
	return l.PriceCurrent.IsPositive()
}

// WithTopBrands sets number of most listed brands.
func WithTopBrands(n int) Option {
	return func(c *config) {
		c.topBrands = n
	}
}

// WithPositioningMin sets number of listings a brand needs to be positioned.
func WithPositioningMin(n int) Option {
	return func(c *config) {
		c.positioningMin = n
	}
}

// WithDistributionCap sets price from which listings are left out of price distribution.
func WithDistributionCap(price decimal.Decimal) Option {
	return func(c *config) {
		c.distributionCap = price
	}
}
