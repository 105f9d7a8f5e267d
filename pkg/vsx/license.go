package vsx

import "github.com/github/go-spdx/v2/spdxexp/spdxlicenses"

// LicenseSet is a set of recognized SPDX license identifiers. Matching is
// exact and case-sensitive: "MIT" is recognized, "mit" is not.
type LicenseSet map[string]struct{}

// SPDXLicenses returns every identifier on the SPDX license list, including
// deprecated ids such as "GPL-2.0" that GitHub still reports.
func SPDXLicenses() LicenseSet {
	ids := spdxlicenses.GetLicenses()
	deprecated := spdxlicenses.GetDeprecated()

	s := make(LicenseSet, len(ids)+len(deprecated))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	for _, id := range deprecated {
		s[id] = struct{}{}
	}
	return s
}

// NewLicenseSet builds a set from explicit identifiers.
func NewLicenseSet(ids ...string) LicenseSet {
	s := make(LicenseSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Valid reports whether id is a recognized license identifier.
func (s LicenseSet) Valid(id string) bool {
	if id == "" {
		return false
	}
	_, ok := s[id]
	return ok
}
