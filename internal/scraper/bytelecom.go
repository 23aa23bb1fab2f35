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
	bytelecomURL  = "https://bytelecom.az"
	bytelecomPath = "/az/category/smartfonlar-1"
)

var (
	bytelecomFields = []string{
		"product_id", "name", "price_current", "price_original", "currency",
		"badges", "specs", "url", "image",
	}
	bytelecomPage     = regexp.MustCompile(`-page-(\d+)$`)
	bytelecomWishlist = regexp.MustCompile(`toggleWishlist\((\d+)\)`)
	dotDecimalNoise   = regexp.MustCompile(`[^\d.]`)
)

// bytelecom is Livewire rendered shop.
type bytelecom struct {
	Settings
	baseURL string
}

func (c *bytelecom) Source() string {
	return "bytelecom"
}

func (c *bytelecom) Fields() []string {
	return bytelecomFields
}

func (c *bytelecom) Collect(ctx context.Context) ([]models.RawRecord, error) {
	records, err := c.paged(ctx, c.Source(),
		func(ctx context.Context) ([]models.RawRecord, int, error) {
			doc, err := c.document(ctx, c.request(1))
			if err != nil {
				return nil, 0, err
			}
			return c.parse(doc), maxPage(doc.Find("ul.pagination li.page-item"), "wire:key", bytelecomPage), nil
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

func (c *bytelecom) request(page int) fetcher.Request {
	return fetcher.Request{URL: fmt.Sprintf("%s%s?page=%d", c.baseURL, bytelecomPath, page)}
}

func (c *bytelecom) parse(doc *goquery.Document) []models.RawRecord {
	var records []models.RawRecord

	doc.Find("div.product").Each(func(_ int, card *goquery.Selection) {
		title := card.Find("a.product-name").First()
		name := text(title)
		if name == "" {
			return
		}

		href := attr(title, "href")
		if href == "" {
			card.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
				if h := attr(a, "href"); strings.Contains(h, "/products/") {
					href = h
					return false
				}
				return true
			})
		}

		original := dotDecimalNoise.ReplaceAllString(text(card.Find("h6.discount-price").First()), "")
		current := dotDecimalNoise.ReplaceAllString(text(card.Find("h5.price").First()), "")
		if current == "" {
			current, original = original, ""
		}

		id := ""
		card.Find("[wire\\:click]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if m := bytelecomWishlist.FindStringSubmatch(s.AttrOr("wire:click", "")); m != nil {
				id = m[1]
				return false
			}
			return true
		})

		records = append(records, record(bytelecomFields, map[string]string{
			"product_id":     id,
			"name":           name,
			"price_current":  current,
			"price_original": original,
			"currency":       currency,
			"badges":         joinTexts(card.Find("div.badge-item p")),
			"specs":          joinTexts(card.Find("div.product-info ul li")),
			"url":            href,
			"image":          attr(card.Find("div.product-img img").First(), "src"),
		}))
	})

	return records
}
