package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/MichalMitros/az-phone-market/internal/fetcher"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/PuerkitoBio/goquery"
)

const (
	solitonURL       = "https://soliton.az"
	solitonSection   = "96"
	solitonBatchSize = 15
)

var (
	solitonFields = []string{
		"product_id", "name", "price_current", "price_original", "discount_pct",
		"discount_amt", "currency", "offers", "installment_6m", "installment_12m",
		"installment_18m", "brand_id", "url", "image",
	}
	solitonBasketID = regexp.MustCompile(`productID=(\w+)`)
)

type solitonPage struct {
	HTML       string `json:"html"`
	TotalCount value  `json:"totalCount"`
}

// soliton loads listing in offset batches with POST requests.
type soliton struct {
	Settings
	baseURL string
}

func (c *soliton) Source() string {
	return "soliton"
}

func (c *soliton) Fields() []string {
	return solitonFields
}

func (c *soliton) Collect(ctx context.Context) ([]models.RawRecord, error) {
	records, err := c.paged(ctx, c.Source(),
		func(ctx context.Context) ([]models.RawRecord, int, error) {
			recs, total, err := c.batch(ctx, 0)
			return recs, pageCount(total, solitonBatchSize), err
		},
		func(ctx context.Context, n int) ([]models.RawRecord, error) {
			recs, _, err := c.batch(ctx, (n-1)*solitonBatchSize)
			return recs, err
		},
	)
	if err != nil {
		return nil, err
	}

	return dedupe(records), nil
}

func (c *soliton) batch(ctx context.Context, offset int) ([]models.RawRecord, int, error) {
	req := fetcher.Request{
		URL: c.baseURL + "/ajax-requests.php",
		Form: url.Values{
			"action":    {"loadProducts"},
			"sectionID": {solitonSection},
			"brandID":   {"0"},
			"offset":    {strconv.Itoa(offset)},
			"limit":     {strconv.Itoa(solitonBatchSize)},
			"sorting":   {""},
		},
		Header: http.Header{"X-Requested-With": {"XMLHttpRequest"}},
	}

	var resp solitonPage
	if err := c.decodeJSON(ctx, req, &resp); err != nil {
		return nil, 0, err
	}

	doc, err := parseFragment(resp.HTML)
	if err != nil {
		return nil, 0, err
	}

	total, err := strconv.Atoi(resp.TotalCount.String())
	if err != nil && offset == 0 {
		return nil, 0, fmt.Errorf("%w: totalCount %q", ErrUnexpectedPayload, resp.TotalCount)
	}

	return c.parse(doc), total, nil
}

func (c *soliton) parse(doc *goquery.Document) []models.RawRecord {
	var records []models.RawRecord

	doc.Find("div.product-item").Each(func(_ int, card *goquery.Selection) {
		title := card.Find("a.prodTitle").First()
		name := firstNonEmpty(attr(card, "data-title"), text(title))
		if name == "" {
			return
		}

		id := attr(card.Find("span.compare[data-item-id]").First(), "data-item-id")
		if id == "" {
			if m := solitonBasketID.FindStringSubmatch(attr(card.Find("a.buybt[href]").First(), "href")); m != nil {
				id = m[1]
			}
		}

		if title.Length() == 0 {
			title = card.Find("a.thumbHolder").First()
		}

		var current, original string
		card.Find("div.prodPrice span").Each(func(_ int, span *goquery.Selection) {
			switch {
			case span.HasClass("creditPrice"):
				original = dotDecimalNoise.ReplaceAllString(text(span), "")
			case current == "":
				current = dotDecimalNoise.ReplaceAllString(text(span), "")
			}
		})

		installment := func(months string) string {
			return text(card.Find(`div.monthlyPayment[data-month="` + months + `"] span.amount`).First())
		}

		records = append(records, record(solitonFields, map[string]string{
			"product_id":      id,
			"name":            name,
			"price_current":   current,
			"price_original":  original,
			"discount_pct":    text(card.Find("div.saleStar span.percent").First()),
			"discount_amt":    text(card.Find("div.saleStar span.moneydif span.amount").First()),
			"currency":        currency,
			"offers":          joinTexts(card.Find("div.specialOffers div.offer span.label")),
			"installment_6m":  installment("6"),
			"installment_12m": installment("12"),
			"installment_18m": installment("18"),
			"brand_id":        attr(card, "data-brandid"),
			"url":             absURL(c.baseURL, attr(title, "href")),
			"image":           absURL(c.baseURL, attr(card.Find("div.pic img").First(), "src")),
		}))
	})

	return records
}
