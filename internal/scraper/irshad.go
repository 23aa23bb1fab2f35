package scraper

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MichalMitros/az-phone-market/internal/fetcher"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/PuerkitoBio/goquery"
)

const (
	irshadURL      = "https://irshad.az"
	irshadCategory = "telefon-ve-aksesuarlar/mobil-telefonlar"
)

var irshadFields = []string{
	"product_id", "product_code", "name", "price_current", "price_original",
	"discount_pct", "currency", "installment_6m", "installment_12m", "installment_18m",
	"in_stock", "url", "image",
}

// irshad is Laravel shop with load-more pagination. Listing requests need
// session cookies and csrf token of the listing page.
type irshad struct {
	Settings
	baseURL string
}

func (c *irshad) Source() string {
	return "irshad"
}

func (c *irshad) Fields() []string {
	return irshadFields
}

func (c *irshad) Collect(ctx context.Context) ([]models.RawRecord, error) {
	doc, err := c.document(ctx, fetcher.Request{URL: c.listingURL()})
	if err != nil {
		return nil, fmt.Errorf("can't open listing page: %w", err)
	}

	csrf := attr(doc.Find(`meta[name="csrf-token"]`).First(), "content")
	if csrf == "" {
		return nil, fmt.Errorf("%w: csrf-token meta of %s", ErrTokenNotFound, c.Source())
	}

	records, err := c.loadMore(ctx, c.Source(), 1, func(ctx context.Context, n int) ([]models.RawRecord, bool, error) {
		doc, err := c.document(ctx, fetcher.Request{
			URL: fmt.Sprintf("%s/az/list-products/%s?q=&sort=first_pinned&page=%d", c.baseURL, irshadCategory, n),
			Header: http.Header{
				"Accept":           {"*/*"},
				"X-Csrf-Token":     {csrf},
				"X-Requested-With": {"XMLHttpRequest"},
				"Referer":          {c.listingURL()},
			},
		})
		if err != nil {
			return nil, true, err
		}
		return c.parse(doc), doc.Find("#loadMore").Length() > 0, nil
	})
	if err != nil {
		return nil, err
	}

	return dedupe(records), nil
}

func (c *irshad) listingURL() string {
	return c.baseURL + "/az/" + irshadCategory
}

func (c *irshad) parse(doc *goquery.Document) []models.RawRecord {
	var records []models.RawRecord

	doc.Find("div.product[class*='product-']").Each(func(_ int, card *goquery.Selection) {
		// hidden tools belong to other variants of the card
		tools := card.Find("div.product__tools:not(.d-none)").First()
		if tools.Length() == 0 {
			tools = card.Find("div.product__tools").First()
		}

		id := attr(tools, "data-selected-id")
		img := card.Find("img[src][alt]").First()
		name := attr(img, "alt")
		if name == "" && id == "" {
			return
		}

		prices := card.Find("div.product__price__current").First()
		current := cleanPrice(text(prices.Find("p.new-price").First()))
		if current == "" {
			current = cleanPrice(text(prices))
		}

		plans := make(map[string]string, 3)
		card.Find("input.ppl-input[data-monthly-payment]").Each(func(_ int, input *goquery.Selection) {
			label := card.Find(fmt.Sprintf("label[for='%s']", attr(input, "id"))).First()
			if months := text(label); months != "" {
				plans[months] = attr(input, "data-monthly-payment")
			}
		})

		discount := card.Find("[class*='discount-badge'], [class*='label-discount'], " +
			"[class*='sale-badge'], div.product__img [class*='discount']").First()
		addToCart := card.Find("a.product-add-to-cart.btn-green, button.product-add-to-cart.btn-green")

		records = append(records, record(irshadFields, map[string]string{
			"product_id":      id,
			"product_code":    attr(tools.Find("a.to-compare[data-product-code]").First(), "data-product-code"),
			"name":            name,
			"price_current":   current,
			"price_original":  cleanPrice(text(prices.Find("span.old-price").First())),
			"discount_pct":    text(discount),
			"currency":        currency,
			"installment_6m":  plans["6 ay"],
			"installment_12m": plans["12 ay"],
			"installment_18m": plans["18 ay"],
			"in_stock":        yesNo(addToCart.Length() > 0),
			"url":             attr(card.Find("a[href*='/az/mehsullar/']").First(), "href"),
			"image":           attr(img, "src"),
		}))
	})

	return records
}
