package scraper

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/MichalMitros/az-phone-market/internal/fetcher"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/PuerkitoBio/goquery"
)

const (
	almaliURL       = "https://almali.az"
	almaliPath      = "/product-category/telefonlar/"
	almaliContainer = ".main-page-wrapper"
)

var (
	almaliFields = []string{
		"product_id", "name", "price_current", "price_original", "currency",
		"in_stock", "labels", "campaign", "url", "image",
	}
	almaliPage = regexp.MustCompile(`/page/(\d+)/`)
)

// almali is WooCommerce shop paginated with PJAX requests.
type almali struct {
	Settings
	baseURL string
}

func (c *almali) Source() string {
	return "almali"
}

func (c *almali) Fields() []string {
	return almaliFields
}

func (c *almali) Collect(ctx context.Context) ([]models.RawRecord, error) {
	records, err := c.paged(ctx, c.Source(),
		func(ctx context.Context) ([]models.RawRecord, int, error) {
			doc, err := c.document(ctx, c.request(1))
			if err != nil {
				return nil, 0, err
			}
			last := maxPage(doc.Find("nav.woocommerce-pagination .page-numbers"), "href", almaliPage)
			return c.parse(doc), last, nil
		},
		func(ctx context.Context, n int) ([]models.RawRecord, error) {
			doc, err := c.document(ctx, c.request(n))
			if err != nil {
				return nil, err
			}
			return c.parse(doc), nil
		},
	)
	if err != nil {
		return nil, err
	}

	return dedupe(records), nil
}

func (c *almali) request(page int) fetcher.Request {
	url := c.baseURL + almaliPath
	if page > 1 {
		url = fmt.Sprintf("%spage/%d/", url, page)
	}

	return fetcher.Request{
		URL: url + "?_pjax=" + almaliContainer,
		Header: http.Header{
			"X-Pjax":           {"true"},
			"X-Pjax-Container": {almaliContainer},
			"X-Requested-With": {"XMLHttpRequest"},
		},
	}
}

func (c *almali) parse(doc *goquery.Document) []models.RawRecord {
	var records []models.RawRecord

	doc.Find("div.product[data-id]").Each(func(_ int, card *goquery.Selection) {
		title := card.Find("h3.wd-entities-title a").First()
		name := text(title)
		if name == "" {
			return
		}

		price := card.Find("span.price").First()
		price.Find(".woocommerce-Price-currencySymbol").Remove()

		current := text(price.Find("ins bdi").First())
		original := text(price.Find("del bdi").First())
		if current == "" {
			current = text(price.Find("bdi").First())
		}

		records = append(records, record(almaliFields, map[string]string{
			"product_id":     attr(card, "data-id"),
			"name":           name,
			"price_current":  cleanPrice(current),
			"price_original": cleanPrice(original),
			"currency":       currency,
			"in_stock":       yesNo(!card.HasClass("outofstock")),
			"labels":         joinTexts(card.Find("span.product-label")),
			"campaign":       joinTexts(card.Find("span.awl-inner-text")),
			"url":            firstNonEmpty(attr(title, "href"), attr(card.Find("a.product-image-link").First(), "href")),
			"image":          attr(card.Find("img.attachment-woocommerce_thumbnail").First(), "src"),
		}))
	})

	return records
}
