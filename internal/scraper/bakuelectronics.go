package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/MichalMitros/az-phone-market/internal/fetcher"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/shopspring/decimal"
)

const (
	bakuElectronicsURL      = "https://www.bakuelectronics.az"
	bakuElectronicsCategory = "telefonlar-qadcetler"
	bakuElectronicsSection  = "smartfonlar-mobil-telefonlar"
	bakuElectronicsPageSize = 18
)

var (
	bakuElectronicsFields = []string{
		"product_id", "product_code", "name", "price_current", "price_original",
		"discount_amt", "currency", "installment_monthly", "installment_months", "stock_qty",
		"rating", "review_count", "online_only", "url", "image",
	}
	nextBuildID = regexp.MustCompile(`"buildId"\s*:\s*"([^"]+)"`)
)

type bakuElectronicsPage struct {
	PageProps struct {
		Products struct {
			Products *struct {
				Items []bakuElectronicsItem `json:"items"`
				Total int                   `json:"total"`
			} `json:"products"`
		} `json:"products"`
	} `json:"pageProps"`
}

type bakuElectronicsItem struct {
	ID              value                `json:"id"`
	ProductCode     value                `json:"product_code"`
	Name            value                `json:"name"`
	Slug            value                `json:"slug"`
	Price           value                `json:"price"`
	Discount        value                `json:"discount"`
	DiscountedPrice value                `json:"discounted_price"`
	PerMonth        *bakuElectronicsPlan `json:"perMonth"`
	Quantity        value                `json:"quantity"`
	Rate            value                `json:"rate"`
	ReviewCount     value                `json:"reviewCount"`
	IsOnline        bool                 `json:"is_online"`
	Image           value                `json:"image"`
}

type bakuElectronicsPlan struct {
	Price value `json:"price"`
	Month value `json:"month"`
}

// bakuElectronics is Next.js shop. Its data routes are versioned with deployment build id.
type bakuElectronics struct {
	Settings
	baseURL string
}

func (c *bakuElectronics) Source() string {
	return "bakuelectronics"
}

func (c *bakuElectronics) Fields() []string {
	return bakuElectronicsFields
}

func (c *bakuElectronics) Collect(ctx context.Context) ([]models.RawRecord, error) {
	buildID, err := c.buildID(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't discover build id: %w", err)
	}

	records, err := c.paged(ctx, c.Source(),
		func(ctx context.Context) ([]models.RawRecord, int, error) {
			recs, total, err := c.page(ctx, buildID, 1)
			return recs, pageCount(total, bakuElectronicsPageSize), err
		},
		func(ctx context.Context, n int) ([]models.RawRecord, error) {
			recs, _, err := c.page(ctx, buildID, n)
			return recs, err
		},
	)
	if err != nil {
		return nil, err
	}

	return dedupe(records), nil
}

func (c *bakuElectronics) listingURL() string {
	return fmt.Sprintf("%s/az/catalog/%s/%s", c.baseURL, bakuElectronicsCategory, bakuElectronicsSection)
}

// buildID reads build id from __NEXT_DATA__ of the listing page.
func (c *bakuElectronics) buildID(ctx context.Context) (string, error) {
	data, err := c.read(ctx, fetcher.Request{URL: c.listingURL()})
	if err != nil {
		return "", err
	}

	doc, err := parseHTML(data)
	if err != nil {
		return "", err
	}

	var next struct {
		BuildID string `json:"buildId"`
	}
	if raw := doc.Find("script#__NEXT_DATA__").First().Text(); raw != "" {
		if err := json.Unmarshal([]byte(raw), &next); err == nil && next.BuildID != "" {
			return next.BuildID, nil
		}
	}

	if m := nextBuildID.FindSubmatch(data); m != nil {
		return string(m[1]), nil
	}

	return "", ErrTokenNotFound
}

func (c *bakuElectronics) page(ctx context.Context, buildID string, n int) ([]models.RawRecord, int, error) {
	query := url.Values{}
	query.Add("slug", bakuElectronicsCategory)
	query.Add("slug", bakuElectronicsSection)
	query.Set("page", fmt.Sprint(n))

	req := fetcher.Request{
		URL: fmt.Sprintf("%s/_next/data/%s/az/catalog/%s/%s.json?%s",
			c.baseURL, buildID, bakuElectronicsCategory, bakuElectronicsSection, query.Encode()),
		Header: http.Header{
			"Accept":        {"*/*"},
			"X-Nextjs-Data": {"1"},
			"Referer":       {c.listingURL()},
		},
	}

	var resp bakuElectronicsPage
	if err := c.decodeJSON(ctx, req, &resp); err != nil {
		return nil, 0, err
	}

	products := resp.PageProps.Products.Products
	if products == nil {
		return nil, 0, fmt.Errorf("%w: no products in page %d", ErrUnexpectedPayload, n)
	}

	records := make([]models.RawRecord, 0, len(products.Items))
	for _, item := range products.Items {
		records = append(records, c.record(item))
	}

	return records, products.Total, nil
}

func (c *bakuElectronics) record(item bakuElectronicsItem) models.RawRecord {
	original := item.Price.String()
	current := item.DiscountedPrice.String()

	// discounted_price equals price when there is no discount
	if cur, err := decimal.NewFromString(current); err == nil {
		if orig, err := decimal.NewFromString(original); err == nil && cur.GreaterThanOrEqual(orig) {
			original = ""
		}
	}

	var monthly, months string
	if item.PerMonth != nil {
		monthly, months = item.PerMonth.Price.String(), item.PerMonth.Month.String()
	}

	productURL := ""
	if item.Slug != "" {
		productURL = c.baseURL + "/az/product/" + item.Slug.String()
	}

	return record(bakuElectronicsFields, map[string]string{
		"product_id":          item.ID.String(),
		"product_code":        item.ProductCode.String(),
		"name":                item.Name.String(),
		"price_current":       current,
		"price_original":      original,
		"discount_amt":        item.Discount.nonZero(),
		"currency":            currency,
		"installment_monthly": monthly,
		"installment_months":  months,
		"stock_qty":           item.Quantity.String(),
		"rating":              item.Rate.String(),
		"review_count":        item.ReviewCount.String(),
		"online_only":         yesNo(item.IsOnline),
		"url":                 productURL,
		"image":               item.Image.String(),
	})
}
