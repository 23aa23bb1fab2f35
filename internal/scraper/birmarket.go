package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/MichalMitros/az-phone-market/internal/fetcher"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/PuerkitoBio/goquery"
)

const (
	birmarketURL  = "https://birmarket.az"
	birmarketPath = "/categories/3-mobil-telefonlar-ve-smartfonlar"
)

var (
	birmarketFields = []string{
		"product_id", "name", "price_current", "price_old", "discount_pct",
		"currency", "installment", "in_stock", "url", "image",
	}
	birmarketPage   = regexp.MustCompile(`[?&]page=(\d+)`)
	discountNoise   = regexp.MustCompile(`[^\d\-]`)
	thousandsCommas = strings.NewReplacer(",", "")
)

type birmarket struct {
	Settings
	baseURL string
}

func (c *birmarket) Source() string {
	return "birmarket"
}

func (c *birmarket) Fields() []string {
	return birmarketFields
}

func (c *birmarket) Collect(ctx context.Context) ([]models.RawRecord, error) {
	records, err := c.paged(ctx, c.Source(),
		func(ctx context.Context) ([]models.RawRecord, int, error) {
			doc, err := c.document(ctx, c.request(1))
			if err != nil {
				return nil, 0, err
			}
			pagination := doc.Find("div.MPProductPaginationWrapper a[href], div.MPProductPaginationWrapper [class*='Page']")
			return c.parse(doc), maxPage(pagination, "href", birmarketPage), nil
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

func (c *birmarket) request(page int) fetcher.Request {
	return fetcher.Request{URL: fmt.Sprintf("%s%s?page=%d", c.baseURL, birmarketPath, page)}
}

func (c *birmarket) parse(doc *goquery.Document) []models.RawRecord {
	var records []models.RawRecord

	doc.Find("div.MPProductItem[data-product-id]").Each(func(_ int, card *goquery.Selection) {
		id := attr(card, "data-product-id")
		name := text(card.Find("span.MPTitle").First())
		if name == "" && id == "" {
			return
		}

		href := attr(card.Find(".MPProduct-Content a[href]").First(), "href")
		if href == "" {
			href = attr(card.Find("a[href]").First(), "href")
		}

		image := attr(card.Find("div.MPProductItem-Logo img[src]").First(), "src")
		if image == "" {
			image = attr(card.Find("img[src]").First(), "src")
		}

		records = append(records, record(birmarketFields, map[string]string{
			"product_id":    id,
			"name":          name,
			"price_current": c.price(card.Find(`span[data-info="item-desc-price-new"]`)),
			"price_old":     c.price(card.Find(`span[data-info="item-desc-price-old"]`)),
			"discount_pct":  discountNoise.ReplaceAllString(text(card.Find("div.MPProductItem-Discount").First()), ""),
			"currency":      currency,
			"installment":   text(card.Find("div.MPInstallment span").First()),
			"in_stock":      yesNo(card.Find("button.AddToCart").Length() > 0),
			"url":           absURL(c.baseURL, href),
			"image":         absURL(c.baseURL, image),
		}))
	})

	return records
}

// price reads "1,299.00 ₼" as "1299.00".
func (c *birmarket) price(sel *goquery.Selection) string {
	return thousandsCommas.Replace(cleanPrice(text(sel.First())))
}
