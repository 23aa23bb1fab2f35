// Package chart renders market metrics as an xlsx workbook with one native chart per sheet.
package chart

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/MichalMitros/az-phone-market/internal/aggregate"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet names in workbook order.
const (
	SheetCatalogue    = "Catalogue size"
	SheetMedianPrice  = "Median price"
	SheetSegments     = "Price segments"
	SheetTopBrands    = "Top brands"
	SheetPositioning  = "Brand positioning"
	SheetDiscounts    = "Discounts"
	SheetSamsung      = "Samsung prices"
	SheetApple        = "Apple prices"
	SheetDistribution = "Price distribution"
	SheetInstallments = "Installments"
	SheetBrandMix     = "Brand mix"
)

// Option is custom configuration of Workbook.
type Option func(w *Workbook)

// Workbook writes chart workbook of a run.
type Workbook struct {
	path   string
	labels map[string]string
	logger *zerolog.Logger
}

// sheet is a data table with a chart drawn from its columns.
// Column A holds categories, every other column is one series.
type sheet struct {
	name    string
	title   string
	kind    excelize.ChartType
	header  []string
	rows    [][]any
	percent bool
}

// NewWorkbook returns Workbook saved at path. Labels map source slugs to display names.
func NewWorkbook(path string, labels map[string]string, ops ...Option) *Workbook {
	nop := zerolog.Nop()
	w := &Workbook{
		path:   path,
		labels: labels,
		logger: &nop,
	}

	for _, op := range ops {
		op(w)
	}

	return w
}

// Render builds the workbook and replaces file at the workbook path.
func (w Workbook) Render(_ context.Context, run models.Run, summary aggregate.Summary) error {
	f, err := Build(summary, w.labels)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:       "Smartphone market",
		Description: fmt.Sprintf("run %s", run.ID),
		Created:     run.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}); err != nil {
		return fmt.Errorf("can't set workbook properties: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("can't create charts directory: %w", err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("can't save workbook: %w", err)
	}

	w.logger.Info().
		Str("path", w.path).
		Int("sheets", len(f.GetSheetList())).
		Msg("charts rendered")

	return nil
}

// Build returns workbook with all chart sheets.
func Build(summary aggregate.Summary, labels map[string]string) (*excelize.File, error) {
	label := func(src string) string {
		if l, ok := labels[src]; ok {
			return l
		}
		return src
	}

	sheets := []sheet{
		catalogueSheet(summary, label),
		medianPriceSheet(summary, label),
		segmentsSheet(summary, label),
		topBrandsSheet(summary),
		positioningSheet(summary),
		discountsSheet(summary, label),
		flagshipSheet(SheetSamsung, summary, aggregate.Samsung, label),
		flagshipSheet(SheetApple, summary, aggregate.Apple, label),
		distributionSheet(summary, label),
		installmentsSheet(summary, label),
		brandMixSheet(summary, label),
	}

	f := excelize.NewFile()

	for ix, s := range sheets {
		var err error
		if ix == 0 {
			err = f.SetSheetName(f.GetSheetName(0), s.name)
		} else {
			_, err = f.NewSheet(s.name)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("can't create sheet %s: %w", s.name, err)
		}

		if err := writeSheet(f, s); err != nil {
			f.Close()
			return nil, fmt.Errorf("can't write sheet %s: %w", s.name, err)
		}
	}

	f.SetActiveSheet(0)

	return f, nil
}

func writeSheet(f *excelize.File, s sheet) error {
	header := lo.Map(s.header, func(h string, _ int) any { return h })
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return err
	}

	for ix, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, ix+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(s.name, "A", "A", 24); err != nil {
		return err
	}

	if len(s.rows) == 0 {
		return nil
	}

	last := len(s.rows) + 1
	series := make([]excelize.ChartSeries, 0, len(s.header)-1)
	for col := 2; col <= len(s.header); col++ {
		name, err := excelize.CoordinatesToCellName(col, 1, true)
		if err != nil {
			return err
		}
		first, err := excelize.CoordinatesToCellName(col, 2, true)
		if err != nil {
			return err
		}
		end, err := excelize.CoordinatesToCellName(col, last, true)
		if err != nil {
			return err
		}

		series = append(series, excelize.ChartSeries{
			Name:       ref(s.name, name),
			Categories: fmt.Sprintf("%s:$A$%d", ref(s.name, "$A$2"), last),
			Values:     fmt.Sprintf("%s:%s", ref(s.name, first), end),
		})
	}

	anchor, err := excelize.CoordinatesToCellName(len(s.header)+2, 1)
	if err != nil {
		return err
	}

	chart := &excelize.Chart{
		Type:      s.kind,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: s.title}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 720, Height: 400},
		PlotArea:  excelize.ChartPlotArea{ShowVal: len(series) == 1},
	}
	if s.percent {
		chart.YAxis.NumFmt = excelize.ChartNumFmt{CustomNumFmt: `0"%"`}
	}

	return f.AddChart(s.name, anchor, chart)
}

func ref(sheetName, cell string) string {
	return fmt.Sprintf("'%s'!%s", sheetName, cell)
}

func catalogueSheet(summary aggregate.Summary, label func(string) string) sheet {
	retailers := slices.Clone(summary.Retailers)
	slices.SortStableFunc(retailers, func(a, b aggregate.RetailerStats) int { return cmp.Compare(a.Listings, b.Listings) })

	return sheet{
		name:   SheetCatalogue,
		title:  "Retailer catalogue size, listings per retailer",
		kind:   excelize.Bar,
		header: []string{"Retailer", "Listings"},
		rows: lo.Map(retailers, func(r aggregate.RetailerStats, _ int) []any {
			return []any{label(r.Source), r.Listings}
		}),
	}
}

func medianPriceSheet(summary aggregate.Summary, label func(string) string) sheet {
	retailers := lo.Filter(summary.Retailers, func(r aggregate.RetailerStats, _ int) bool { return r.Price.Count > 0 })
	slices.SortStableFunc(retailers, func(a, b aggregate.RetailerStats) int { return a.Price.Median.Cmp(b.Price.Median) })

	return sheet{
		name:   SheetMedianPrice,
		title:  "Price positioning, median selling price per retailer (AZN)",
		kind:   excelize.Bar,
		header: []string{"Retailer", "Median price"},
		rows: lo.Map(retailers, func(r aggregate.RetailerStats, _ int) []any {
			return []any{label(r.Source), money(r.Price.Median)}
		}),
	}
}

func segmentsSheet(summary aggregate.Summary, label func(string) string) sheet {
	retailers := lo.Filter(summary.Retailers, func(r aggregate.RetailerStats, _ int) bool { return r.Price.Count > 0 })
	slices.SortStableFunc(retailers, func(a, b aggregate.RetailerStats) int { return a.Price.Median.Cmp(b.Price.Median) })

	return sheet{
		name:  SheetSegments,
		title: "Price segment mix, share of listings by price band (%)",
		kind:  excelize.ColPercentStacked,
		header: append([]string{"Retailer"}, lo.Map(aggregate.Segments, func(s aggregate.Segment, _ int) string {
			return SegmentLabel(s)
		})...),
		rows: lo.Map(retailers, func(r aggregate.RetailerStats, _ int) []any {
			return append([]any{label(r.Source)}, percents(r.Segments)...)
		}),
	}
}

func topBrandsSheet(summary aggregate.Summary) sheet {
	// largest bar on top
	brands := slices.Clone(summary.TopBrands)
	slices.Reverse(brands)

	return sheet{
		name:   SheetTopBrands,
		title:  fmt.Sprintf("Brand dominance, top %d brands by listings", len(brands)),
		kind:   excelize.Bar,
		header: []string{"Brand", "Listings"},
		rows: lo.Map(brands, func(b aggregate.BrandStats, _ int) []any {
			return []any{b.Brand, b.Count}
		}),
	}
}

func positioningSheet(summary aggregate.Summary) sheet {
	return sheet{
		name:   SheetPositioning,
		title:  "Brand price positioning, average vs median price (AZN)",
		kind:   excelize.Col,
		header: []string{"Brand", "Average price", "Median price"},
		rows: lo.Map(summary.Positioning, func(b aggregate.BrandStats, _ int) []any {
			return []any{b.Brand, money(b.Mean), money(b.Median)}
		}),
	}
}

func discountsSheet(summary aggregate.Summary, label func(string) string) sheet {
	retailers := lo.Filter(summary.Retailers, func(r aggregate.RetailerStats, _ int) bool { return r.Discounted > 0 })
	slices.SortStableFunc(retailers, func(a, b aggregate.RetailerStats) int {
		return cmp.Compare(b.DiscountDepth, a.DiscountDepth)
	})

	return sheet{
		name:    SheetDiscounts,
		title:   "Promotional strategy, discount depth vs coverage (%)",
		kind:    excelize.Bar,
		header:  []string{"Retailer", "Average discount depth", "Listings on promotion"},
		percent: true,
		rows: lo.Map(retailers, func(r aggregate.RetailerStats, _ int) []any {
			return []any{label(r.Source), round(r.DiscountDepth), round(r.DiscountCoverage)}
		}),
	}
}

func flagshipSheet(name string, summary aggregate.Summary, brand string, label func(string) string) sheet {
	f, _ := lo.Find(summary.Flagships, func(f aggregate.Flagship) bool { return f.Brand == brand })

	return sheet{
		name:   name,
		title:  fmt.Sprintf("%s price variance, median and average price per retailer (AZN)", brand),
		kind:   excelize.Bar,
		header: []string{"Retailer", "Median price", "Average price"},
		rows: lo.Map(f.Retailers, func(r aggregate.RetailerPrice, _ int) []any {
			return []any{fmt.Sprintf("%s (n=%d)", label(r.Source), r.Count), money(r.Median), money(r.Mean)}
		}),
	}
}

func distributionSheet(summary aggregate.Summary, label func(string) string) sheet {
	return sheet{
		name:   SheetDistribution,
		title:  "Price distribution, quartiles per retailer (AZN)",
		kind:   excelize.Line,
		header: []string{"Retailer", "Lower whisker", "Q1", "Median", "Q3", "Upper whisker"},
		rows: lo.Map(summary.Distribution, func(d aggregate.RetailerDistribution, _ int) []any {
			return []any{
				label(d.Source),
				money(d.LowerWhisker), money(d.Q1), money(d.Median), money(d.Q3), money(d.UpperWhisker),
			}
		}),
	}
}

func installmentsSheet(summary aggregate.Summary, label func(string) string) sheet {
	retailers := lo.Filter(summary.Retailers, func(r aggregate.RetailerStats, _ int) bool { return r.HasInstallments() })
	widest := func(r aggregate.RetailerStats) float64 { return lo.Max(lo.Values(r.Installments)) }
	slices.SortStableFunc(retailers, func(a, b aggregate.RetailerStats) int { return cmp.Compare(widest(a), widest(b)) })

	return sheet{
		name:    SheetInstallments,
		title:   "Installment plan coverage, listings offering credit plans (%)",
		kind:    excelize.Col,
		header:  []string{"Retailer", "6-month plan", "12-month plan", "18-month plan"},
		percent: true,
		rows: lo.Map(retailers, func(r aggregate.RetailerStats, _ int) []any {
			return []any{label(r.Source), round(r.Installments[6]), round(r.Installments[12]), round(r.Installments[18])}
		}),
	}
}

func brandMixSheet(summary aggregate.Summary, label func(string) string) sheet {
	return sheet{
		name:   SheetBrandMix,
		title:  "Brand mix per retailer, share of top brands (%)",
		kind:   excelize.ColPercentStacked,
		header: append([]string{"Retailer"}, summary.BrandMix.Brands...),
		rows: lo.Map(summary.BrandMix.Retailers, func(r aggregate.RetailerMix, _ int) []any {
			return append([]any{label(r.Source)}, percents(r.Shares)...)
		}),
	}
}

// SegmentLabel returns display name of a price segment such as "Mid 500-1000 AZN".
func SegmentLabel(s aggregate.Segment) string {
	switch {
	case s.Min.IsZero():
		return fmt.Sprintf("%s <%s AZN", s.Name, s.Max)
	case s.Max.IsZero():
		return fmt.Sprintf("%s >=%s AZN", s.Name, s.Min)
	default:
		return fmt.Sprintf("%s %s-%s AZN", s.Name, s.Min, s.Max)
	}
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func percents(values []float64) []any {
	return lo.Map(values, func(v float64, _ int) any { return round(v) })
}

// WithLogger sets Workbook's logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(w *Workbook) {
		w.logger = l
	}
}
