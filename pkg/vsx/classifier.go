package vsx

import (
	"slices"
	"time"
)

// Classifier buckets absent candidates. Its tables are fixed at construction.
type Classifier struct {
	deprecated DeprecationTable
	ineligible IneligibleSet
	licenses   LicenseSet
}

// NewClassifier creates a classifier from immutable tables.
func NewClassifier(deprecated DeprecationTable, ineligible IneligibleSet, licenses LicenseSet) *Classifier {
	return &Classifier{deprecated: deprecated, ineligible: ineligible, licenses: licenses}
}

// Classify partitions the pack's members. Every member lands in exactly one
// of Present, Deprecated, Ineligible, Licensed, or Unlicensed. Classify does
// not modify its inputs, so repeated calls give equal results.
func (c *Classifier) Classify(pack *Pack, m *Membership) *Result {
	r := &Result{
		Pack:         pack,
		Candidates:   make(map[ID]*Candidate, len(m.Absent)),
		Present:      slices.Clone(m.Present),
		Deprecated:   []ID{},
		Ineligible:   []ID{},
		Licensed:     []ID{},
		Unlicensed:   []ID{},
		Replacements: map[ID]ID{},
		Self:         m.Self,
		SelfPresent:  m.SelfPresent,
		Warnings:     m.Warnings,
	}
	if r.Present == nil {
		r.Present = []ID{}
	}

	var licensed, unlicensed []*Candidate
	for _, cand := range m.Absent {
		r.Candidates[cand.ID] = cand
		if repl, ok := c.deprecated.Lookup(cand.ID); ok {
			r.Deprecated = append(r.Deprecated, cand.ID)
			r.Replacements[cand.ID] = repl
			continue
		}
		if c.ineligible.Contains(cand.ID) {
			r.Ineligible = append(r.Ineligible, cand.ID)
			continue
		}
		if c.licenses.Valid(cand.License) {
			licensed = append(licensed, cand)
		} else {
			unlicensed = append(unlicensed, cand)
		}
	}

	r.Licensed = byLastUpdated(licensed)
	r.Unlicensed = byLastUpdated(unlicensed)
	return r
}

// Licensed reports whether the candidate's license is recognized.
func (c *Classifier) Licensed(cand *Candidate) bool {
	return cand != nil && c.licenses.Valid(cand.License)
}

func byLastUpdated(cs []*Candidate) []ID {
	sorted := slices.Clone(cs)
	slices.SortStableFunc(sorted, func(a, b *Candidate) int {
		return parseTimestamp(a.LastUpdated).Compare(parseTimestamp(b.LastUpdated))
	})
	ids := make([]ID, len(sorted))
	for i, cand := range sorted {
		ids[i] = cand.ID
	}
	return ids
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var epoch = time.Unix(0, 0).UTC()

// parseTimestamp treats empty or unparsable input as the Unix epoch.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return epoch
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return epoch
}
