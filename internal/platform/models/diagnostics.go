package models

import (
	"sort"

	"github.com/samber/lo"
)

// IssueKind is kind of problem found in a raw record or a source.
type IssueKind string

// Issue kinds.
const (
	IssueMissingRequiredField IssueKind = "MissingRequiredField"
	IssueUnrecognizedToken    IssueKind = "UnrecognizedToken"
	IssueMalformedNumber      IssueKind = "MalformedNumericString"
	IssueInconsistentPrice    IssueKind = "InconsistentPrice"
	IssueDiscountMismatch     IssueKind = "DiscountMismatch"
	// IssueUnknownSource drops rows of a source missing from the registry.
	IssueUnknownSource IssueKind = "UnknownSource"
)

// Issue is non-fatal problem with one field of a record.
type Issue struct {
	Kind  IssueKind
	Field string
	Value string
}

// SourceDiagnostics holds combine statistics of one source.
type SourceDiagnostics struct {
	Source   string            `json:"source"`
	Raw      int               `json:"raw"`
	Accepted int               `json:"accepted"`
	Dropped  map[IssueKind]int `json:"dropped,omitempty"`
	Warnings map[IssueKind]int `json:"warnings,omitempty"`
	// Empty is set when source delivered no raw records.
	Empty bool `json:"empty,omitempty"`
	// Unavailable holds collection error of the source.
	Unavailable string `json:"unavailable,omitempty"`
}

// DroppedTotal returns number of dropped rows.
func (d SourceDiagnostics) DroppedTotal() int {
	return lo.Sum(lo.Values(d.Dropped))
}

// WarningsTotal returns number of recorded warnings.
func (d SourceDiagnostics) WarningsTotal() int {
	return lo.Sum(lo.Values(d.Warnings))
}

// Diagnostics is combine report, one entry per source in combine order.
type Diagnostics struct {
	Sources []SourceDiagnostics `json:"sources"`
}

// Totals returns raw, accepted and dropped row counts over all sources.
func (d Diagnostics) Totals() (raw, accepted, dropped int) {
	for _, src := range d.Sources {
		raw += src.Raw
		accepted += src.Accepted
		dropped += src.DroppedTotal()
	}
	return raw, accepted, dropped
}

// Source returns diagnostics of the source.
func (d Diagnostics) Source(slug string) (SourceDiagnostics, bool) {
	return lo.Find(d.Sources, func(s SourceDiagnostics) bool { return s.Source == slug })
}

// SortedKinds returns issue kinds of the map in stable order.
func SortedKinds(counts map[IssueKind]int) []IssueKind {
	kinds := lo.Keys(counts)
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
