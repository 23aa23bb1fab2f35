package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MichalMitros/az-phone-market/internal/registry"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

var numberNoise = regexp.MustCompile(`[^0-9.,\-]`)

// ParseAmount parses price-like string such as "2.859,99 ₼" or "1,299.00 AZN".
// Thousands separators and currency marks are removed first.
func ParseAmount(raw string, format registry.NumberFormat) (decimal.Decimal, error) {
	s := numberNoise.ReplaceAllString(norm.NFKC.String(raw), "")

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimLeft(s, "-")
	s = strings.TrimRight(s, ".,")
	if strings.HasPrefix(s, ".") || strings.HasPrefix(s, ",") {
		s = "0" + s
	}

	if s == "" || strings.Contains(s, "-") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedNumber, raw)
	}

	d, err := decimal.NewFromString(canonicalSeparators(s, format))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedNumber, raw)
	}

	if negative {
		d = d.Neg()
	}

	return d, nil
}

// ParsePercent parses percentage-like string such as "-14%" into its absolute magnitude.
func ParsePercent(raw string) (decimal.Decimal, error) {
	d, err := ParseAmount(strings.ReplaceAll(raw, "%", ""), registry.DotDecimal)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Abs(), nil
}

// canonicalSeparators rewrites number to use a single '.' as decimal separator.
func canonicalSeparators(s string, format registry.NumberFormat) string {
	decimalSep, groupSep := ".", ","
	if format == registry.CommaDecimal {
		decimalSep, groupSep = ",", "."
	}

	hasDecimal := strings.Contains(s, decimalSep)
	hasGroup := strings.Contains(s, groupSep)

	switch {
	case hasDecimal && hasGroup:
		// the separator written last is the decimal one
		last := s[strings.LastIndexAny(s, ".,")]
		if string(last) == groupSep {
			decimalSep, groupSep = groupSep, decimalSep
		}
		s = strings.ReplaceAll(s, groupSep, "")
		return strings.Replace(s, decimalSep, ".", 1)
	case hasGroup:
		// "1299,50" in dot format still carries cents
		if strings.Count(s, groupSep) == 1 {
			if frac := len(s) - strings.Index(s, groupSep) - 1; frac == 1 || frac == 2 {
				return strings.Replace(s, groupSep, ".", 1)
			}
		}
		return strings.ReplaceAll(s, groupSep, "")
	case hasDecimal:
		if strings.Count(s, decimalSep) > 1 {
			return strings.ReplaceAll(s, decimalSep, "")
		}
		return strings.Replace(s, decimalSep, ".", 1)
	default:
		return s
	}
}
