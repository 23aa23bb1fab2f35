package scraper

import (
	"testing"

	"github.com/MichalMitros/az-phone-market/internal/platform/models"
	"github.com/stretchr/testify/assert"
)

func TestUnitDedupe(t *testing.T) {
	records := []models.RawRecord{
		models.RawFrom("product_id", "1", "name", "Samsung Galaxy A15", "url", "https://a/1"),
		models.RawFrom("product_id", "1", "name", "Samsung Galaxy A15 copy", "url", "https://a/1-copy"),
		models.RawFrom("product_id", "", "name", "Nokia 105", "url", "https://a/2"),
		models.RawFrom("product_id", "", "name", "Nokia 105 again", "url", "https://a/2"),
		models.RawFrom("product_id", "", "name", "Honor X8b", "url", ""),
		models.RawFrom("product_id", "", "name", "Honor X8b", "url", ""),
		models.RawFrom("product_id", "", "name", "", "url", "", "price", "199"),
		models.RawFrom("product_id", "", "name", "", "url", "", "price", "299"),
	}

	got := dedupe(records)

	names := make([]string, 0, len(got))
	for _, rec := range got {
		names = append(names, rec.Value("name"))
	}
	assert.Equal(t, []string{"Samsung Galaxy A15", "Nokia 105", "Honor X8b", "", ""}, names,
		"should keep first of duplicates and records without keys")
	assert.Equal(t, "299", got[4].Value("price"), "should keep records without keys in order")
}
