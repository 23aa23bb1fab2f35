package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/MichalMitros/az-phone-market/internal/fetcher"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/shopspring/decimal"
)

const (
	elitOptimalURL      = "https://elitoptimal.az"
	elitOptimalAPI      = "https://api.elitoptimal.az"
	elitOptimalCategory = 132
	elitOptimalPageSize = 24
)

var elitOptimalFields = []string{
	"product_id", "name", "brand", "barcode", "price_current", "price_original",
	"discount_amt", "discount_pct", "currency", "installment_monthly", "available",
	"stock_qty", "label", "category", "url", "image",
}

type elitOptimalPage struct {
	ProductsCount int               `json:"productsCount"`
	Products      []elitOptimalItem `json:"products"`
}

type elitOptimalItem struct {
	ID                        value `json:"id"`
	Name                      value `json:"name"`
	BrandName                 value `json:"brandName"`
	BarCode                   value `json:"barCode"`
	Price                     value `json:"price"`
	PreviousPrice             value `json:"previousPrice"`
	DiscountAmount            value `json:"discountAmount"`
	DiscountPercent           value `json:"discountPercent"`
	InstallmentMonthlyPayment value `json:"installmentMonthlyPayment"`
	Available                 value `json:"available"`
	StorageQuantity           value `json:"storageQuantity"`
	LabelText                 value `json:"labelText"`
	CategoryName              value `json:"categoryName"`
	Route                     value `json:"route"`
	ImageURL                  value `json:"imageUrl"`
}

// elitOptimal is served by public JSON API authorized with bearer token of the web client.
type elitOptimal struct {
	Settings
	baseURL string
	apiURL  string
	token   string
}

func (c *elitOptimal) Source() string {
	return "elitoptimal"
}

func (c *elitOptimal) Fields() []string {
	return elitOptimalFields
}

func (c *elitOptimal) Collect(ctx context.Context) ([]models.RawRecord, error) {
	records, err := c.paged(ctx, c.Source(),
		func(ctx context.Context) ([]models.RawRecord, int, error) {
			recs, total, err := c.page(ctx, 1)
			return recs, pageCount(total, elitOptimalPageSize), err
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

func (c *elitOptimal) page(ctx context.Context, n int) ([]models.RawRecord, int, error) {
	req := fetcher.Request{
		URL: fmt.Sprintf("%s/v1/Products/v3?CategoryId=%d&Limit=%d&Page=%d",
			c.apiURL, elitOptimalCategory, elitOptimalPageSize, n),
		Header: http.Header{
			"Accept": {"application/json"},
			"Origin": {c.baseURL},
		},
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	var resp elitOptimalPage
	if err := c.decodeJSON(ctx, req, &resp); err != nil {
		return nil, 0, err
	}

	records := make([]models.RawRecord, 0, len(resp.Products))
	for _, item := range resp.Products {
		records = append(records, c.record(item))
	}

	return records, resp.ProductsCount, nil
}

func (c *elitOptimal) record(item elitOptimalItem) models.RawRecord {
	current := item.Price.String()
	original := item.PreviousPrice.String()
	if original == current {
		original = ""
	}

	discountAmt := item.DiscountAmount.nonZero()
	if discountAmt == "" && original != "" {
		cur, errCur := decimal.NewFromString(current)
		orig, errOrig := decimal.NewFromString(original)
		if errCur == nil && errOrig == nil && orig.GreaterThan(cur) {
			discountAmt = orig.Sub(cur).Round(2).String()
		}
	}

	productURL := ""
	if route := strings.TrimLeft(item.Route.String(), "/"); route != "" {
		productURL = c.baseURL + "/" + route
	}

	return record(elitOptimalFields, map[string]string{
		"product_id":          item.ID.String(),
		"name":                item.Name.String(),
		"brand":               item.BrandName.String(),
		"barcode":             item.BarCode.String(),
		"price_current":       current,
		"price_original":      original,
		"discount_amt":        discountAmt,
		"discount_pct":        item.DiscountPercent.nonZero(),
		"currency":            currency,
		"installment_monthly": item.InstallmentMonthlyPayment.String(),
		"available":           item.Available.String(),
		"stock_qty":           item.StorageQuantity.String(),
		"label":               item.LabelText.String(),
		"category":            item.CategoryName.String(),
		"url":                 productURL,
		"image":               item.ImageURL.String(),
	})
}
