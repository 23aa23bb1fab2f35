// Package brand resolves canonical brand names of listings.
package brand

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownAliasTarget is returned when alias rewrites to a brand outside the vocabulary.
var ErrUnknownAliasTarget = errors.New("alias target not in vocabulary")

// Vocabulary is immutable brand reference data.
type Vocabulary struct {
	Brands   []string
	Aliases  map[string]string
	Stoplist []string
}

// Normalizer resolves brands using fixed vocabulary.
// It is safe for concurrent use.
type Normalizer struct {
	canonical map[string]string // lower case brand -> canonical spelling
	aliases   map[string]string // lower case alias -> canonical spelling
	stoplist  map[string]struct{}
}

// NewNormalizer returns new Normalizer.
func NewNormalizer(v Vocabulary) (*Normalizer, error) {
	n := &Normalizer{
		canonical: make(map[string]string, len(v.Brands)),
		aliases:   make(map[string]string, len(v.Aliases)),
		stoplist:  make(map[string]struct{}, len(v.Stoplist)),
	}

	for _, b := range v.Brands {
		n.canonical[lower(b)] = b
	}

	for alias, target := range v.Aliases {
		canonical, ok := n.canonical[lower(target)]
		if !ok {
			return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownAliasTarget, alias, target)
		}
		n.aliases[lower(alias)] = canonical
	}

	for _, s := range v.Stoplist {
		n.stoplist[lower(s)] = struct{}{}
	}

	return n, nil
}

// Resolve returns canonical brand of a listing or nil when it can't be resolved.
// Explicit brand supplied by the retailer wins when it names a known brand. It is
// returned in its vocabulary spelling, not verbatim. Unknown or stoplisted explicit
// values fall back to the leftmost brand token of the name.
func (n *Normalizer) Resolve(explicit, name string) *string {
	if b, ok := n.lookup(lower(strings.TrimSpace(explicit))); ok {
		return &b
	}

	for _, token := range tokenize(lower(name)) {
		if b, ok := n.lookup(token); ok {
			return &b
		}
	}

	return nil
}

// IsCanonical reports whether brand belongs to the vocabulary.
func (n *Normalizer) IsCanonical(brand string) bool {
	canonical, ok := n.canonical[lower(brand)]
	return ok && canonical == brand
}

// Brands returns canonical brand names.
func (n *Normalizer) Brands() []string {
	return lo.Values(n.canonical)
}

func (n *Normalizer) lookup(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	if _, stop := n.stoplist[token]; stop {
		return "", false
	}
	if b, ok := n.canonical[token]; ok {
		return b, true
	}
	if b, ok := n.aliases[token]; ok {
		return b, true
	}
	return "", false
}

// lower lower-cases text. Caser is stateful, so a new one is used per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// tokenize splits text into whole words.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
