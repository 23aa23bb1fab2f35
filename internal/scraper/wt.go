package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MichalMitros/az-phone-market/internal/fetcher"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/PuerkitoBio/goquery"
)

const (
	wtURL      = "https://www.w-t.az"
	wtPath     = "/k1+smartfonlar-ve-aksessuarlar"
	wtCategory = "kateqoriya=2"
)

var wtFields = []string{
	"product_id", "name", "price_current", "currency", "installment_6m",
	"installment_12m", "installment_18m", "labels", "color_count", "url", "image",
}

type wtPage struct {
	HTML string `json:"html"`
}

// wt renders first page in the listing document and loads further pages with POST requests.
// An empty html fragment ends the listing.
type wt struct {
	Settings
	baseURL string
}

func (c *wt) Source() string {
	return "wt"
}

func (c *wt) Fields() []string {
	return wtFields
}

func (c *wt) Collect(ctx context.Context) ([]models.RawRecord, error) {
	listing := c.baseURL + wtPath + "?" + wtCategory

	doc, err := c.document(ctx, fetcher.Request{URL: listing})
	if err != nil {
		return nil, fmt.Errorf("can't open listing page: %w", err)
	}

	csrf := attr(doc.Find(`meta[name="csrf-token"]`).First(), "content")
	if csrf == "" {
		return nil, fmt.Errorf("%w: csrf-token meta of %s", ErrTokenNotFound, c.Source())
	}

	records := c.parse(doc)

	more, err := c.loadMore(ctx, c.Source(), 2, func(ctx context.Context, n int) ([]models.RawRecord, bool, error) {
		var resp wtPage
		err := c.decodeJSON(ctx, fetcher.Request{
			URL:  c.baseURL + wtPath + "/load-more?" + wtCategory,
			Form: url.Values{"page": {strconv.Itoa(n)}},
			Header: http.Header{
				"Accept":           {"application/json, text/javascript, */*; q=0.01"},
				"Origin":           {c.baseURL},
				"Referer":          {listing},
				"X-Requested-With": {"XMLHttpRequest"},
				"X-Csrf-Token":     {csrf},
			},
		}, &resp)
		if err != nil {
			return nil, true, err
		}

		if strings.TrimSpace(resp.HTML) == "" {
			return nil, false, nil
		}

		page, err := parseFragment(resp.HTML)
		if err != nil {
			return nil, true, err
		}
		return c.parse(page), true, nil
	})
	if err != nil {
		return nil, err
	}

	return dedupe(append(records, more...)), nil
}

func (c *wt) parse(doc *goquery.Document) []models.RawRecord {
	var records []models.RawRecord

	doc.Find("div.item").Each(func(_ int, item *goquery.Selection) {
		card := item.Find("div.productCard").First()
		if card.Length() == 0 {
			card = item
		}

		name := text(card.Find("div.productName").First())
		if name == "" {
			return
		}

		id := attr(card.Find("button.add-favorite[data-id]").First(), "data-id")
		if id == "" {
			id = attr(card.Find("button.addToCart[data-id]").First(), "data-id")
		}

		price := card.Find("span.realPrice").First().Clone()
		price.Find("sup").Remove()

		installment := func(months string) string {
			return attr(card.Find(`label[for$="-`+months+`"][data-price]`).First(), "data-price")
		}

		records = append(records, record(wtFields, map[string]string{
			"product_id":      id,
			"name":            name,
			"price_current":   dotDecimalNoise.ReplaceAllString(text(price), ""),
			"currency":        currency,
			"installment_6m":  installment("6"),
			"installment_12m": installment("12"),
			"installment_18m": installment("18"),
			"labels":          joinTexts(card.Find("div.labels p")),
			"color_count":     strconv.Itoa(card.Find("span.color_item[data-color]").Length()),
			"url":             absURL(c.baseURL, attr(card.Find("a.productUrl[href]").First(), "href")),
			"image":           absURL(c.baseURL, attr(card.Find("img.productImage-img").First(), "src")),
		}))
	})

	return records
}
