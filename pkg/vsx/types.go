package vsx

import (
	"errors"

	"github.com/hashicorp/go-multierror"

	"github.com/matzehuels/vsxpack/pkg/integrations"
)

// Pack is a resolved extension pack. It is not modified after resolution.
type Pack struct {
	ID          ID                `json:"id"`
	DisplayName string            `json:"display_name,omitempty"`
	Version     string            `json:"version,omitempty"`
	LastUpdated string            `json:"last_updated,omitempty"`
	Repo        integrations.Repo `json:"repository"`
	Members     []ID              `json:"members"`
}

// Candidate is an extension missing from Open VSX. The Checker creates it;
// only the Enricher fills in the repository, license, and timestamp fields.
// Empty strings mean "unknown".
type Candidate struct {
	ID             ID     `json:"id"`
	MarketplaceURL string `json:"marketplace_url"`
	OpenVSXURL     string `json:"openvsx_url"`
	RepositoryURL  string `json:"repository_url,omitempty"`
	License        string `json:"license,omitempty"`
	LicenseURL     string `json:"license_url,omitempty"`
	LastUpdated    string `json:"last_updated,omitempty"`
	Version        string `json:"version,omitempty"`
}

// Membership is the Checker's split of a pack's members.
type Membership struct {
	Present []ID         // manifest order
	Absent  []*Candidate // manifest order

	// Self is the pack's own record when the pack is missing from Open VSX.
	// It is kept apart from Absent so the member partition stays exact.
	Self        *Candidate
	SelfPresent bool

	// Warnings aggregates failed live lookups.
	Warnings error
}

// Result is the outcome of classifying one pack.
type Result struct {
	RunID string `json:"run_id"`
	Pack  *Pack  `json:"pack"`

	Candidates map[ID]*Candidate `json:"candidates"`

	Present    []ID `json:"present"`
	Deprecated []ID `json:"deprecated"`
	Ineligible []ID `json:"ineligible"`
	Licensed   []ID `json:"licensed"`
	Unlicensed []ID `json:"unlicensed"`

	// Replacements maps each deprecated id to its successor ("" if none).
	Replacements map[ID]ID `json:"replacements,omitempty"`

	Self        *Candidate `json:"self,omitempty"`
	SelfPresent bool       `json:"self_present"`

	Warnings error `json:"-"`
}

// AllConditionsMet reports whether nothing blocks registration: no member is
// deprecated, ineligible, or missing a recognized license.
func (r *Result) AllConditionsMet() bool {
	return len(r.Deprecated) == 0 && len(r.Ineligible) == 0 && len(r.Unlicensed) == 0
}

// Eligible returns the licensed candidates in bucket order.
func (r *Result) Eligible() []*Candidate {
	out := make([]*Candidate, 0, len(r.Licensed))
	for _, id := range r.Licensed {
		out = append(out, r.Candidates[id])
	}
	return out
}

// WarningCount returns the number of degraded lookups.
func (r *Result) WarningCount() int {
	var merr *multierror.Error
	if errors.As(r.Warnings, &merr) {
		return merr.Len()
	}
	if r.Warnings != nil {
		return 1
	}
	return 0
}
