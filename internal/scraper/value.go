package scraper

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// value is JSON scalar kept as written. Null is empty, strings are unquoted.
type value string

// UnmarshalJSON implements json.Unmarshaler.
func (v *value) UnmarshalJSON(data []byte) error {
	switch {
	case string(data) == "null":
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = value(s)
	default:
		*v = value(data)
	}
	return nil
}

func (v value) String() string {
	return string(v)
}

// nonZero returns v unless it is numeric zero or a "None" placeholder.
func (v value) nonZero() string {
	if v == "None" {
		return ""
	}
	if d, err := decimal.NewFromString(string(v)); err == nil && d.IsZero() {
		return ""
	}
	return string(v)
}
