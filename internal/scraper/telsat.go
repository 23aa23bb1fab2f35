package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/MichalMitros/az-phone-market/internal/fetcher"
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/PuerkitoBio/goquery"
)

const (
	telsatURL       = "https://telsat.az"
	telsatPageLimit = 28
)

var (
	telsatFields = []string{
		"product_id", "name", "price", "price_old", "currency", "location",
		"date", "delivery", "credit", "barter", "url", "image",
	}
	telsatNextPage = regexp.MustCompile(`nextPage\((\d+)`)
)

// telsat is classifieds board. Its pager button points to page 0 on the last page.
type telsat struct {
	Settings
	baseURL string
}

func (c *telsat) Source() string {
	return "telsat"
}

func (c *telsat) Fields() []string {
	return telsatFields
}

func (c *telsat) Collect(ctx context.Context) ([]models.RawRecord, error) {
	records, err := c.loadMore(ctx, c.Source(), 1, func(ctx context.Context, n int) ([]models.RawRecord, bool, error) {
		doc, err := c.document(ctx, fetcher.Request{
			URL: fmt.Sprintf("%s/era_pagination.php?t=products&l=az&c=0&p=%d", c.baseURL, n),
			Form: url.Values{
				"pager":   {strconv.Itoa(n)},
				"limiter": {strconv.Itoa(telsatPageLimit)},
			},
		})
		if err != nil {
			return nil, true, err
		}
		return c.parse(doc), c.hasMore(doc), nil
	})
	if err != nil {
		return nil, err
	}

	return dedupe(records), nil
}

func (c *telsat) hasMore(doc *goquery.Document) bool {
	button := doc.Find("button[onclick*='nextPage']").First()
	if button.Length() == 0 {
		return false
	}
	m := telsatNextPage.FindStringSubmatch(attr(button, "onclick"))
	return m == nil || m[1] != "0"
}

func (c *telsat) parse(doc *goquery.Document) []models.RawRecord {
	var records []models.RawRecord

	doc.Find("div.col-6").Each(func(_ int, col *goquery.Selection) {
		card := col.Find("a.card__product").First()
		if card.Length() == 0 {
			return
		}

		name := text(col.Find("h3.product-title").First())
		href := absURL(c.baseURL, attr(card, "href"))
		if name == "" && href == "" {
			return
		}

		price := col.Find("p.product-price").First().Clone()
		old := cleanPrice(text(price.Find("del")))
		if old == "0" {
			old = ""
		}
		price.Find("del").Remove()

		records = append(records, record(telsatFields, map[string]string{
			"product_id": attr(col.Find("a.era_fav[data-id]").First(), "data-id"),
			"name":       name,
			"price":      cleanPrice(text(price)),
			"price_old":  old,
			"currency":   currency,
			"location":   text(col.Find("span.location span.text__grey6").First()),
			"date":       text(col.Find("span.date span.text__grey6").First()),
			"delivery":   c.service(col, "Çatdırılma"),
			"credit":     c.service(col, "Kredit"),
			"barter":     c.service(col, "Barter"),
			"url":        href,
			"image":      absURL(c.baseURL, attr(col.Find("img.img-fluid").First(), "src")),
		}))
	})

	return records
}

// service reports whether service icon with the title is visible.
func (c *telsat) service(col *goquery.Selection, title string) string {
	icon := col.Find(`span[data-bs-title="` + title + `"]`).First()
	if icon.Length() == 0 {
		return "No"
	}
	style := strings.ReplaceAll(attr(icon, "style"), " ", "")
	return yesNo(!strings.Contains(style, "display:none"))
}
