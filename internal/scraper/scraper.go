// Package scraper collects smartphone listings of supported retailers.
// Every collector returns records in the retailer's own field names, see Fields.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/MichalMitros/az-phone-market/internal/fetcher"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

//go:generate mockery --name Fetcher --filename fetcher.go

const (
	defaultConcurrency = 6
	defaultMaxPages    = 500
	currency           = "AZN"
	listSeparator      = " | "
)

// Fetcher fetches http responses.
type Fetcher interface {
	Fetch(ctx context.Context, r fetcher.Request) (io.ReadCloser, error)
}

// Collector collects raw listings of one retailer.
type Collector interface {
	// Source returns registry slug of the retailer.
	Source() string
	// Fields returns names of raw fields in export order.
	Fields() []string
	// Collect fetches all listing pages. Records are deduplicated and keep page order.
	Collect(ctx context.Context) ([]models.RawRecord, error)
}

// Settings are shared by all collectors.
type Settings struct {
	Fetcher Fetcher
	Logger  *zerolog.Logger
	// Concurrency is number of pages of one retailer fetched at once.
	Concurrency int
	// MaxPages caps load-more pagination.
	MaxPages int
}

// Option is custom configuration of collectors built by New.
type Option func(o *options)

type options struct {
	baseURL          string
	elitOptimalToken string
}

// New returns collectors of all supported retailers in registry order.
func New(settings Settings, ops ...Option) []Collector {
	opts := options{}
	for _, op := range ops {
		op(&opts)
	}

	if settings.Logger == nil {
		logger := zerolog.Nop()
		settings.Logger = &logger
	}
	if settings.Concurrency < 1 {
		settings.Concurrency = defaultConcurrency
	}
	if settings.MaxPages < 1 {
		settings.MaxPages = defaultMaxPages
	}

	site := func(def string) string {
		if opts.baseURL != "" {
			return strings.TrimRight(opts.baseURL, "/")
		}
		return def
	}

	return []Collector{
		&almali{Settings: settings, baseURL: site(almaliURL)},
		&bakuElectronics{Settings: settings, baseURL: site(bakuElectronicsURL)},
		&birmarket{Settings: settings, baseURL: site(birmarketURL)},
		&bytelecom{Settings: settings, baseURL: site(bytelecomURL)},
		&digitalHome{Settings: settings, baseURL: site(digitalHomeURL)},
		&elitOptimal{Settings: settings, baseURL: site(elitOptimalURL), apiURL: site(elitOptimalAPI), token: opts.elitOptimalToken},
		&irshad{Settings: settings, baseURL: site(irshadURL)},
		&kontakt{Settings: settings, baseURL: site(kontaktURL)},
		&soliton{Settings: settings, baseURL: site(solitonURL)},
		&telsat{Settings: settings, baseURL: site(telsatURL)},
		&wt{Settings: settings, baseURL: site(wtURL)},
	}
}

// WithBaseURL sends requests of all collectors to url instead of retailer sites.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// WithElitOptimalToken sets bearer token of elitoptimal API.
func WithElitOptimalToken(token string) Option {
	return func(o *options) {
		o.elitOptimalToken = token
	}
}

// read returns whole response body of the request.
func (s Settings) read(ctx context.Context, r fetcher.Request) ([]byte, error) {
	body, err := s.Fetcher.Fetch(ctx, r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("can't read response of %s: %w", r.URL, err)
	}

	return data, nil
}

// document fetches html document.
func (s Settings) document(ctx context.Context, r fetcher.Request) (*goquery.Document, error) {
	data, err := s.read(ctx, r)
	if err != nil {
		return nil, err
	}
	return parseHTML(data)
}

// decodeJSON fetches json document into v.
func (s Settings) decodeJSON(ctx context.Context, r fetcher.Request, v any) error {
	data, err := s.read(ctx, r)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnexpectedPayload, r.URL, err)
	}

	return nil
}

// paged collects first page, which reports the last page number,
// then fetches remaining pages concurrently. Records keep page order.
// Failed pages after the first one are logged and skipped.
func (s Settings) paged(
	ctx context.Context,
	source string,
	first func(ctx context.Context) ([]models.RawRecord, int, error),
	page func(ctx context.Context, n int) ([]models.RawRecord, error),
) ([]models.RawRecord, error) {
	records, last, err := first(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't collect first page: %w", err)
	}

	last = min(last, s.MaxPages)
	s.Logger.Debug().Str("source", source).Int("pages", max(last, 1)).Msg("pages discovered")
	if last < 2 {
		return records, nil
	}

	pages := make([][]models.RawRecord, last+1)
	group := errgroup.Group{}
	group.SetLimit(s.Concurrency)

	for n := 2; n <= last; n++ {
		group.Go(func() error {
			recs, err := page(ctx, n)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.Logger.Warn().Err(err).Str("source", source).Int("page", n).Msg("can't collect page")
				return nil
			}
			pages[n] = recs
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	for _, recs := range pages {
		records = append(records, recs...)
	}

	return records, nil
}

// loadMore fetches pages from start in batches of Concurrency until a page reports
// there is nothing more. Pages fetched beyond the end are discarded.
// Failed pages are logged and treated as having more, except the start page.
func (s Settings) loadMore(
	ctx context.Context,
	source string,
	start int,
	page func(ctx context.Context, n int) ([]models.RawRecord, bool, error),
) ([]models.RawRecord, error) {
	type result struct {
		records []models.RawRecord
		more    bool
		err     error
	}

	var records []models.RawRecord

	for from := start; from <= s.MaxPages; from += s.Concurrency {
		to := min(from+s.Concurrency-1, s.MaxPages)
		results := make([]result, to-from+1)

		group := errgroup.Group{}
		for n := from; n <= to; n++ {
			group.Go(func() error {
				recs, more, err := page(ctx, n)
				results[n-from] = result{records: recs, more: more, err: err}
				return nil
			})
		}
		_ = group.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for ix, res := range results {
			n := from + ix
			if res.err != nil {
				if n == start {
					return nil, fmt.Errorf("can't collect first page: %w", res.err)
				}
				s.Logger.Warn().Err(res.err).Str("source", source).Int("page", n).Msg("can't collect page")
				continue
			}

			records = append(records, res.records...)
			if !res.more {
				s.Logger.Debug().Str("source", source).Int("pages", n-start+1).Msg("last page reached")
				return records, nil
			}
		}
	}

	s.Logger.Warn().Str("source", source).Int("maxPages", s.MaxPages).Msg("page limit reached")
	return records, nil
}

// dedupe removes records repeating product_id, then url, then name of an earlier record.
// Records with none of the keys are kept, so combine counts them as dropped.
func dedupe(records []models.RawRecord) []models.RawRecord {
	seen := make(map[string]struct{}, len(records))
	unique := make([]models.RawRecord, 0, len(records))

	for _, rec := range records {
		key := firstNonEmpty(rec.Value("product_id"), rec.Value("url"), rec.Value("name"))
		if key == "" {
			unique = append(unique, rec)
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, rec)
	}

	return unique
}

func parseHTML(data []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("can't parse html: %w", err)
	}
	return doc, nil
}

func parseFragment(fragment string) (*goquery.Document, error) {
	return parseHTML([]byte(fragment))
}

// record builds RawRecord with all fields, empty when not provided.
func record(fields []string, values map[string]string) models.RawRecord {
	rec := models.NewRawRecord(len(fields))
	for _, f := range fields {
		rec.Set(f, values[f])
	}
	return rec
}

func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

func attr(sel *goquery.Selection, name string) string {
	return strings.TrimSpace(sel.AttrOr(name, ""))
}

// joinTexts joins non-empty texts of all selected nodes.
func joinTexts(sel *goquery.Selection) string {
	var parts []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := text(s); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, listSeparator)
}

// absURL resolves href against base. Scripts and empty refs are empty.
func absURL(base, href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "", strings.HasPrefix(href, "javascript"):
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	default:
		return base + "/" + strings.TrimLeft(href, "/")
	}
}

var (
	priceNoise = regexp.MustCompile(`[^\d.,]`)
	firstInt   = regexp.MustCompile(`\d+`)
)

// cleanPrice keeps digits and separators, "1,299.00 ₼" is "1,299.00".
func cleanPrice(s string) string {
	return priceNoise.ReplaceAllString(s, "")
}

// maxPage returns the highest page number matched by pattern in attribute of selected nodes
// or written as their text. It is 1 when nothing matches.
func maxPage(sel *goquery.Selection, attrName string, pattern *regexp.Regexp) int {
	last := 1
	sel.Each(func(_ int, s *goquery.Selection) {
		if m := pattern.FindStringSubmatch(s.AttrOr(attrName, "")); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				last = max(last, n)
			}
			return
		}
		if n, err := strconv.Atoi(text(s)); err == nil {
			last = max(last, n)
		}
	})
	return last
}

// pageCount returns number of pages holding total items.
func pageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// leadingInt returns first integer in s or 0.
func leadingInt(s string) int {
	n, _ := strconv.Atoi(firstInt.FindString(s))
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func yesNo(ok bool) string {
	if ok {
		return "Yes"
	}
	return "No"
}
