package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MichalMitros/az-phone-market/internal/fetcher"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/PuerkitoBio/goquery"
)

const (
	digitalHomeURL      = "https://digitalhome.az"
	digitalHomePath     = "/product-categories/smartfonlar"
	digitalHomePageSize = 12
)

var (
	digitalHomeFields = []string{
		"product_id", "name", "price_current", "price_original", "discount",
		"currency", "in_stock", "installment_6m", "installment_12m", "url", "image",
	}
	digitalHomeCategories = []string{"4", "3", "7", "8", "9", "10", "146", "163", "11", "144"}
)

type digitalHomePage struct {
	Error   bool   `json:"error"`
	Data    string `json:"data"`
	Message string `json:"message"`
}

// digitalHome serves listing as json envelope with html fragment and total count message.
type digitalHome struct {
	Settings
	baseURL string
}

func (c *digitalHome) Source() string {
	return "digitalhome"
}

func (c *digitalHome) Fields() []string {
	return digitalHomeFields
}

func (c *digitalHome) Collect(ctx context.Context) ([]models.RawRecord, error) {
	records, err := c.paged(ctx, c.Source(),
		func(ctx context.Context) ([]models.RawRecord, int, error) {
			recs, total, err := c.page(ctx, 1)
			return recs, pageCount(total, digitalHomePageSize), err
		},
		func(ctx context.Context, n int) ([]models.RawRecord, error) {
			recs, _, err := c.page(ctx, n)
			return recs, err
		},
	)
	if err != nil {
		return nil, err
	}

	return dedupe(records), nil
}

func (c *digitalHome) page(ctx context.Context, n int) ([]models.RawRecord, int, error) {
	query := url.Values{}
	query.Set("page", fmt.Sprint(n))
	query.Set("per-page", fmt.Sprint(digitalHomePageSize))
	query.Set("sort-by", "default_sorting")
	query.Set("layout", "grid")
	for _, cat := range digitalHomeCategories {
		query.Add("categories[]", cat)
	}

	req := fetcher.Request{
		URL:    c.baseURL + digitalHomePath + "?" + query.Encode(),
		Header: http.Header{"Accept": {"*/*"}, "X-Requested-With": {"XMLHttpRequest"}},
	}

	var resp digitalHomePage
	if err := c.decodeJSON(ctx, req, &resp); err != nil {
		return nil, 0, err
	}
	if resp.Error {
		return nil, 0, fmt.Errorf("%w: error flag set on page %d: %s", ErrUnexpectedPayload, n, resp.Message)
	}

	doc, err := parseFragment(resp.Data)
	if err != nil {
		return nil, 0, err
	}

	return c.parse(doc), leadingInt(resp.Message), nil
}

func (c *digitalHome) parse(doc *goquery.Document) []models.RawRecord {
	var records []models.RawRecord

	doc.Find("div.tpproduct").Each(func(_ int, card *goquery.Selection) {
		title := card.Find("h3.tpproduct__title a").First()
		name := firstNonEmpty(attr(title, "title"), text(title))
		if name == "" {
			return
		}

		thumb := card.Find("div.tpproduct__thumb > a").First()
		img := thumb.Find("img:not(.product-thumb-secondary)").First()
		if img.Length() == 0 {
			img = thumb.Find("img").First()
		}

		current := cleanPrice(text(card.Find("span.price-new").First()))
		original := cleanPrice(text(card.Find("span.price-old").First()))
		if current == "" && original == "" {
			current = cleanPrice(text(card.Find(".product-price-section span").First()))
		}

		installment := func(months string) string {
			return attr(card.Find(`div.installment-option[data-month="`+months+`"]`).First(), "data-amount")
		}

		records = append(records, record(digitalHomeFields, map[string]string{
			"product_id":      attr(card.Find("a.add-to-cart").First(), "data-id"),
			"name":            name,
			"price_current":   current,
			"price_original":  original,
			"discount":        text(card.Find("span.product__badge-item").First()),
			"currency":        currency,
			"in_stock":        text(card.Find("div.stock-status-badge span").First()),
			"installment_6m":  installment("6"),
			"installment_12m": installment("12"),
			"url":             attr(title, "href"),
			"image":           firstNonEmpty(attr(img, "src"), attr(img, "data-src")),
		}))
	})

	return records
}
