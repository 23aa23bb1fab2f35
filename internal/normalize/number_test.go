package normalize_test

import (
	"testing"

	"github.com/MichalMitros/az-phone-market/internal/normalize"
	"github.com/MichalMitros/az-phone-market/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitParseAmount(t *testing.T) {
	tests := map[string]struct {
		raw     string
		format  registry.NumberFormat
		want    string
		wantErr error
	}{
		"plain":                     {raw: "399", format: registry.DotDecimal, want: "399"},
		"currency sign":             {raw: "399.00 ₼", format: registry.DotDecimal, want: "399"},
		"currency code":             {raw: "1159.99 AZN", format: registry.DotDecimal, want: "1159.99"},
		"thousands comma":           {raw: "1,299.00 ₼", format: registry.DotDecimal, want: "1299"},
		"thousands comma no cents":  {raw: "1,299", format: registry.DotDecimal, want: "1299"},
		"comma cents in dot format": {raw: "1299,50", format: registry.DotDecimal, want: "1299.5"},
		"split over lines":          {raw: "1549\n.00\n₼", format: registry.DotDecimal, want: "1549"},
		"non breaking space":        {raw: "2 299 AZN", format: registry.DotDecimal, want: "2299"},
		"comma decimal":             {raw: "2.859,99 ₼", format: registry.CommaDecimal, want: "2859.99"},
		"comma decimal thousands":   {raw: "1.299 ₼", format: registry.CommaDecimal, want: "1299"},
		"comma decimal dot cents":   {raw: "399.99", format: registry.CommaDecimal, want: "399.99"},
		"many group separators":     {raw: "1.234.567,5", format: registry.CommaDecimal, want: "1234567.5"},
		"negative":                  {raw: "-39", format: registry.DotDecimal, want: "-39"},
		"leading decimal point":     {raw: ".99", format: registry.DotDecimal, want: "0.99"},
		"leading decimal comma":     {raw: ",5 ₼", format: registry.CommaDecimal, want: "0.5"},
		"trailing separator":        {raw: "399. ₼", format: registry.DotDecimal, want: "399"},
		"empty":                     {raw: "", format: registry.DotDecimal, wantErr: normalize.ErrMalformedNumber},
		"letters only":              {raw: "Qiymət yoxdur", format: registry.DotDecimal, wantErr: normalize.ErrMalformedNumber},
		"dash inside":               {raw: "100-200", format: registry.DotDecimal, wantErr: normalize.ErrMalformedNumber},
		"lone minus":                {raw: "- ₼", format: registry.DotDecimal, wantErr: normalize.ErrMalformedNumber},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := normalize.ParseAmount(tt.raw, tt.format)

			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantErr == nil {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestUnitParsePercent(t *testing.T) {
	tests := map[string]struct {
		raw  string
		want string
	}{
		"negative with sign": {raw: "-14%", want: "14"},
		"spaced":             {raw: "-39 %", want: "39"},
		"positive":           {raw: "27.8", want: "27.8"},
		"fraction":           {raw: "-12.5%", want: "12.5"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := normalize.ParsePercent(tt.raw)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
