package registry

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var embedded []byte

// NumberFormat tells which separator a source uses for decimals.
type NumberFormat string

// Number formats.
const (
	// DotDecimal is "1,299.99".
	DotDecimal NumberFormat = "dot_decimal"
	// CommaDecimal is "1.299,99".
	CommaDecimal NumberFormat = "comma_decimal"
)

// Registry is reference data of the combine step.
type Registry struct {
	Brands      Brands            `yaml:"brands"`
	StockTokens map[string]string `yaml:"stock_tokens"`
	Defaults    []string          `yaml:"defaults"`
	Sources     []Source          `yaml:"sources"`
}

// Brands is the canonical brand vocabulary.
type Brands struct {
	Vocabulary []string          `yaml:"vocabulary"`
	Aliases    map[string]string `yaml:"aliases"`
	Stoplist   []string          `yaml:"stoplist"`
}

// Source is registration of one retailer.
type Source struct {
	Slug         string            `yaml:"slug"`
	Label        string            `yaml:"label"`
	NumberFormat NumberFormat      `yaml:"number_format"`
	BrandField   string            `yaml:"brand_field"`
	Columns      map[string]string `yaml:"columns"`
	Transformers []string          `yaml:"transformers"`
}

// Default returns registry embedded in the binary.
func Default() (*Registry, error) {
	return Load(bytes.NewReader(embedded))
}

// Load decodes and validates registry.
func Load(r io.Reader) (*Registry, error) {
	var reg Registry

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&reg); err != nil {
		return nil, fmt.Errorf("can't decode registry: %w", err)
	}

	for ix := range reg.Sources {
		if reg.Sources[ix].NumberFormat == "" {
			reg.Sources[ix].NumberFormat = DotDecimal
		}
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}

	return &reg, nil
}

// Validate checks registry consistency.
func (r *Registry) Validate() error {
	if len(r.Brands.Vocabulary) == 0 {
		return fmt.Errorf("%w: empty brand vocabulary", ErrInvalidRegistry)
	}

	vocabulary := lo.SliceToMap(r.Brands.Vocabulary, func(b string) (string, struct{}) {
		return strings.ToLower(b), struct{}{}
	})
	for alias, target := range r.Brands.Aliases {
		if _, ok := vocabulary[strings.ToLower(target)]; !ok {
			return fmt.Errorf("%w: alias %q points to unknown brand %q", ErrInvalidRegistry, alias, target)
		}
	}

	for token, state := range r.StockTokens {
		if state != "" && state != "Yes" && state != "No" {
			return fmt.Errorf("%w: stock token %q maps to %q", ErrInvalidRegistry, token, state)
		}
	}

	seen := make(map[string]struct{}, len(r.Sources))
	for _, src := range r.Sources {
		if src.Slug == "" || src.Label == "" {
			return fmt.Errorf("%w: source without slug or label", ErrInvalidRegistry)
		}
		if _, ok := seen[src.Slug]; ok {
			return fmt.Errorf("%w: duplicated source %q", ErrInvalidRegistry, src.Slug)
		}
		seen[src.Slug] = struct{}{}

		if src.NumberFormat != DotDecimal && src.NumberFormat != CommaDecimal {
			return fmt.Errorf("%w: source %q has number format %q", ErrInvalidRegistry, src.Slug, src.NumberFormat)
		}
	}

	return nil
}

// Source returns registration of the source.
func (r *Registry) Source(slug string) (Source, error) {
	src, ok := lo.Find(r.Sources, func(s Source) bool { return s.Slug == slug })
	if !ok {
		return Source{}, fmt.Errorf("%w: %q", ErrUnknownSource, slug)
	}
	return src, nil
}

// Slugs returns registered source slugs in registry order.
func (r *Registry) Slugs() []string {
	return lo.Map(r.Sources, func(s Source, _ int) string { return s.Slug })
}

// Labels returns display labels keyed by slug.
func (r *Registry) Labels() map[string]string {
	return lo.SliceToMap(r.Sources, func(s Source) (string, string) { return s.Slug, s.Label })
}

// Select returns slugs filtered to the requested ones, keeping registry order.
// Empty request selects every source.
func (r *Registry) Select(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return r.Slugs(), nil
	}

	for _, slug := range requested {
		if _, err := r.Source(slug); err != nil {
			return nil, err
		}
	}

	return lo.Filter(r.Slugs(), func(slug string, _ int) bool {
		return lo.Contains(requested, slug)
	}), nil
}
