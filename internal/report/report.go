// Package report writes the narrative markdown report of a run.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/MichalMitros/az-phone-market/internal/aggregate"
	"github.com/MichalMitros/az-phone-market/internal/chart"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Option is custom configuration of Writer.
type Option func(w *Writer)

// Writer writes report of a run to a file.
type Writer struct {
	path   string
	labels map[string]string
	logger *zerolog.Logger
}

// NewWriter returns Writer saving report at path. Labels map source slugs to display names.
func NewWriter(path string, labels map[string]string, ops ...Option) *Writer {
	nop := zerolog.Nop()
	w := &Writer{
		path:   path,
		labels: labels,
		logger: &nop,
	}

	for _, op := range ops {
		op(w)
	}

	return w
}

// Render writes report and replaces file at the writer path.
func (w Writer) Render(_ context.Context, run models.Run, summary aggregate.Summary) error {
	var buf bytes.Buffer
	if err := Write(&buf, run, summary, w.labels); err != nil {
		return fmt.Errorf("can't build report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("can't create report directory: %w", err)
	}

	if err := os.WriteFile(w.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("can't write report: %w", err)
	}

	w.logger.Info().
		Str("path", w.path).
		Msg("report written")

	return nil
}

// Write writes markdown report of the run.
func Write(w io.Writer, run models.Run, summary aggregate.Summary, labels map[string]string) error {
	r := &builder{labels: labels}

	r.header(run, summary)
	r.findings(summary)
	r.retailers(summary)
	r.segments(summary)
	r.brands(summary)
	r.installments(summary)
	r.diagnostics(run.Diagnostics)

	if r.err != nil {
		return r.err
	}

	_, err := io.Copy(w, &r.buf)
	return err
}

type builder struct {
	buf    bytes.Buffer
	labels map[string]string
	err    error
}

func (b *builder) printf(format string, args ...any) {
	fmt.Fprintf(&b.buf, format, args...)
}

func (b *builder) table(t Table) {
	if b.err != nil {
		return
	}
	if len(t.Rows) == 0 {
		b.printf("_No data._\n\n")
		return
	}
	b.err = t.Write(&b.buf)
	b.printf("\n")
}

func (b *builder) label(src string) string {
	if l, ok := b.labels[src]; ok {
		return l
	}
	return src
}

func (b *builder) header(run models.Run, summary aggregate.Summary) {
	raw, accepted, dropped := run.Diagnostics.Totals()

	b.printf("# Azerbaijan smartphone market\n\n")
	b.printf("- Run: `%s`\n", run.ID)
	b.printf("- Started: %s\n", run.StartedAt.UTC().Format("2006-01-02 15:04 MST"))
	b.printf("- Retailers with listings: %d of %d\n", len(summary.Retailers), max(len(run.Diagnostics.Sources), len(summary.Retailers)))
	b.printf("- Listings: %d", summary.Listings)
	if raw > 0 {
		b.printf(" (%d raw rows, %d accepted, %d dropped)", raw, accepted, dropped)
	}
	b.printf("\n\n")
}

func (b *builder) findings(summary aggregate.Summary) {
	if len(summary.Retailers) == 0 {
		return
	}

	b.printf("## Key findings\n\n")

	largest := lo.MaxBy(summary.Retailers, func(x, y aggregate.RetailerStats) bool { return x.Listings > y.Listings })
	b.printf("- %s has the largest catalogue with %d listings.\n", b.label(largest.Source), largest.Listings)

	priced := lo.Filter(summary.Retailers, func(r aggregate.RetailerStats, _ int) bool { return r.Price.Count > 0 })
	if len(priced) > 0 {
		cheapest := lo.MinBy(priced, func(x, y aggregate.RetailerStats) bool { return x.Price.Median.LessThan(y.Price.Median) })
		b.printf("- %s has the lowest median price, %s AZN.\n", b.label(cheapest.Source), money(cheapest.Price.Median))
	}

	discounting := lo.Filter(summary.Retailers, func(r aggregate.RetailerStats, _ int) bool { return r.Discounted > 0 })
	if len(discounting) > 0 {
		deepest := lo.MaxBy(discounting, func(x, y aggregate.RetailerStats) bool { return x.DiscountDepth > y.DiscountDepth })
		b.printf("- %s discounts deepest, %s on average over %s of its listings.\n",
			b.label(deepest.Source), percent(deepest.DiscountDepth), percent(deepest.DiscountCoverage))
	} else {
		b.printf("- No retailer lists discounted prices.\n")
	}

	crediting := lo.Filter(summary.Retailers, func(r aggregate.RetailerStats, _ int) bool { return r.HasInstallments() })
	if len(crediting) > 0 {
		widest := lo.MaxBy(crediting, func(x, y aggregate.RetailerStats) bool { return coverage(x) > coverage(y) })
		b.printf("- %s offers installment plans most widely, on %s of its listings.\n",
			b.label(widest.Source), percent(coverage(widest)))
	}

	if len(summary.TopBrands) > 0 {
		top := summary.TopBrands[0]
		b.printf("- %s is the most listed brand with %d listings, median price %s AZN.\n",
			top.Brand, top.Count, money(top.Median))
	}

	b.printf("\n")
}

func (b *builder) retailers(summary aggregate.Summary) {
	b.printf("## Retailers\n\n")

	retailers := slices.Clone(summary.Retailers)
	slices.SortStableFunc(retailers, func(x, y aggregate.RetailerStats) int { return y.Listings - x.Listings })

	b.table(Table{
		Header: []string{"Retailer", "Listings", "Median AZN", "Mean AZN", "Discounted", "Avg discount"},
		Align:  []Alignment{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight},
		Rows: lo.Map(retailers, func(r aggregate.RetailerStats, _ int) []string {
			return []string{
				b.label(r.Source),
				fmt.Sprint(r.Listings),
				money(r.Price.Median),
				money(r.Price.Mean),
				percent(r.DiscountCoverage),
				percent(r.DiscountDepth),
			}
		}),
	})
}

func (b *builder) segments(summary aggregate.Summary) {
	b.printf("## Price segments\n\n")

	header := append([]string{"Retailer"}, lo.Map(aggregate.Segments, func(s aggregate.Segment, _ int) string {
		return chart.SegmentLabel(s)
	})...)

	b.table(Table{
		Header: header,
		Align:  append([]Alignment{AlignLeft}, lo.Times(len(aggregate.Segments), func(_ int) Alignment { return AlignRight })...),
		Rows: lo.FilterMap(summary.Retailers, func(r aggregate.RetailerStats, _ int) ([]string, bool) {
			return append([]string{b.label(r.Source)}, lo.Map(r.Segments, func(v float64, _ int) string {
				return percent(v)
			})...), r.Price.Count > 0
		}),
	})
}

func (b *builder) brands(summary aggregate.Summary) {
	b.printf("## Brands\n\n")

	b.table(Table{
		Header: []string{"Brand", "Listings", "Median AZN", "Mean AZN"},
		Align:  []Alignment{AlignLeft, AlignRight, AlignRight, AlignRight},
		Rows: lo.Map(summary.TopBrands, func(s aggregate.BrandStats, _ int) []string {
			return []string{s.Brand, fmt.Sprint(s.Count), money(s.Median), money(s.Mean)}
		}),
	})

	for _, f := range summary.Flagships {
		if len(f.Retailers) == 0 {
			continue
		}
		b.printf("### %s across retailers\n\n", f.Brand)
		b.table(Table{
			Header: []string{"Retailer", "Listings", "Median AZN", "Mean AZN"},
			Align:  []Alignment{AlignLeft, AlignRight, AlignRight, AlignRight},
			Rows: lo.Map(f.Retailers, func(r aggregate.RetailerPrice, _ int) []string {
				return []string{b.label(r.Source), fmt.Sprint(r.Count), money(r.Median), money(r.Mean)}
			}),
		})
	}
}

func (b *builder) installments(summary aggregate.Summary) {
	b.printf("## Installment plans\n\n")

	b.table(Table{
		Header: []string{"Retailer", "6 months", "12 months", "18 months"},
		Align:  []Alignment{AlignLeft, AlignRight, AlignRight, AlignRight},
		Rows: lo.FilterMap(summary.Retailers, func(r aggregate.RetailerStats, _ int) ([]string, bool) {
			return []string{
				b.label(r.Source),
				percent(r.Installments[6]),
				percent(r.Installments[12]),
				percent(r.Installments[18]),
			}, r.HasInstallments()
		}),
	})
}

func (b *builder) diagnostics(d models.Diagnostics) {
	b.printf("## Data quality\n\n")

	b.table(Table{
		Header: []string{"Retailer", "Raw rows", "Accepted", "Dropped", "Warnings", "Notes"},
		Align:  []Alignment{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft},
		Rows: lo.Map(d.Sources, func(s models.SourceDiagnostics, _ int) []string {
			return []string{
				b.label(s.Source),
				fmt.Sprint(s.Raw),
				fmt.Sprint(s.Accepted),
				fmt.Sprint(s.DroppedTotal()),
				fmt.Sprint(s.WarningsTotal()),
				notes(s),
			}
		}),
	})
}

// coverage returns share of listings offering the most common installment term.
func coverage(r aggregate.RetailerStats) float64 {
	return lo.Max(lo.Values(r.Installments))
}

func notes(s models.SourceDiagnostics) string {
	var parts []string

	if s.Unavailable != "" {
		parts = append(parts, "unavailable: "+s.Unavailable)
	} else if s.Empty {
		parts = append(parts, "no listings")
	}

	for _, kind := range models.SortedKinds(s.Dropped) {
		parts = append(parts, fmt.Sprintf("dropped %s: %d", kind, s.Dropped[kind]))
	}
	for _, kind := range models.SortedKinds(s.Warnings) {
		parts = append(parts, fmt.Sprintf("%s: %d", kind, s.Warnings[kind]))
	}

	return strings.Join(parts, "; ")
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

// WithLogger sets Writer's logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(w *Writer) {
		w.logger = l
	}
}
