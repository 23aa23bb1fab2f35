package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/MichalMitros/az-phone-market/internal/fetcher"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

const (
	kontaktURL  = "https://kontakt.az"
	kontaktPath = "/telefoniya/smartfonlar"
)

var (
	kontaktFields = []string{
		"product_id", "sku", "name", "brand", "price_current", "price_original",
		"discount_amt", "currency", "installment", "in_stock", "category", "url", "image",
	}
	kontaktPage = regexp.MustCompile(`[?&]p=(\d+)`)
)

// kontaktGTM is analytics payload attached to every card.
type kontaktGTM struct {
	ItemName     value `json:"item_name"`
	ItemID       value `json:"item_id"`
	ItemBrand    value `json:"item_brand"`
	Price        value `json:"price"`
	Discount     value `json:"discount"`
	ItemCategory value `json:"item_category"`
}

// kontakt writes prices in comma-decimal format, "2.859,99 ₼". They are exported as written.
type kontakt struct {
	Settings
	baseURL string
}

func (c *kontakt) Source() string {
	return "kontakt"
}

func (c *kontakt) Fields() []string {
	return kontaktFields
}

func (c *kontakt) Collect(ctx context.Context) ([]models.RawRecord, error) {
	records, err := c.paged(ctx, c.Source(),
		func(ctx context.Context) ([]models.RawRecord, int, error) {
			doc, err := c.document(ctx, c.request(1))
			if err != nil {
				return nil, 0, err
			}
			return c.parse(doc), c.lastPage(doc), nil
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

func (c *kontakt) request(page int) fetcher.Request {
	return fetcher.Request{URL: fmt.Sprintf("%s%s?p=%d", c.baseURL, kontaktPath, page)}
}

func (c *kontakt) lastPage(doc *goquery.Document) int {
	if last := doc.Find("a.page.last[href]").First(); last.Length() > 0 {
		if m := kontaktPage.FindStringSubmatch(attr(last, "href")); m != nil {
			return leadingInt(m[1])
		}
	}
	return maxPage(doc.Find("a.page[href]"), "href", kontaktPage)
}

func (c *kontakt) parse(doc *goquery.Document) []models.RawRecord {
	var records []models.RawRecord

	doc.Find("div.product-item[data-gtm]").Each(func(_ int, card *goquery.Selection) {
		var gtm kontaktGTM
		if err := json.Unmarshal([]byte(card.AttrOr("data-gtm", "{}")), &gtm); err != nil {
			c.Logger.Debug().
				Err(err).
				Str("source", c.Source()).
				Str("sku", attr(card, "data-sku")).
				Msg("can't decode card analytics")
		}

		sku := firstNonEmpty(gtm.ItemID.String(), attr(card, "data-sku"))
		if gtm.ItemName == "" && sku == "" {
			return
		}

		image := ""
		if fields := strings.Fields(strings.Split(attr(card.Find("picture source[srcset]").First(), "srcset"), ",")[0]); len(fields) > 0 {
			image = fields[0]
		}
		if image == "" {
			image = attr(card.Find("img.product-image[src]").First(), "src")
		}

		prices := card.Find("div.prodItem__prices").First()
		original := strings.TrimSpace(strings.TrimRight(text(prices.Find("i").First()), "₼"))
		current := strings.TrimSpace(strings.TrimRight(text(prices.Find("b").First()), "₼"))

		discount := gtm.Discount.nonZero()
		if current == "" {
			current = gtm.Price.String()
		}
		if original == "" && discount != "" {
			price, errPrice := decimal.NewFromString(gtm.Price.String())
			amount, errAmount := decimal.NewFromString(discount)
			if errPrice == nil && errAmount == nil {
				original = price.Add(amount).Round(2).String()
			}
		}

		records = append(records, record(kontaktFields, map[string]string{
			"product_id":     attr(card, "id"),
			"sku":            sku,
			"name":           gtm.ItemName.String(),
			"brand":          gtm.ItemBrand.String(),
			"price_current":  current,
			"price_original": original,
			"discount_amt":   discount,
			"currency":       currency,
			"installment":    text(prices.Find("span").First()),
			"in_stock":       c.stock(card),
			"category":       gtm.ItemCategory.String(),
			"url":            absURL(c.baseURL, attr(card.Find("a.prodItem__img[href]").First(), "href")),
			"image":          image,
		}))
	})

	return records
}

// stock is "Yes" when any color swatch is available. Cards without swatches
// fall back to add-to-cart button.
func (c *kontakt) stock(card *goquery.Selection) string {
	switch {
	case card.Find("a.swatch-option:not(.out-stock), div.swatch-option:not(.out-stock)").Length() > 0:
		return "Yes"
	case card.Find("a[class*='out-stock'], .out-stock").Length() > 0:
		return "No"
	case card.Find("[class*='addToCart'], button[title*='Səbətə']").Length() > 0:
		return "Yes"
	default:
		return "Unknown"
	}
}
