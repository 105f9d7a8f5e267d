package vsx

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vsxpack/pkg/cache"
	"github.com/matzehuels/vsxpack/pkg/observability"
)

// Enricher fills in repository, license, and timestamp details for
// candidates missing from Open VSX.
type Enricher struct {
	resolver    *Resolver
	repos       Repositories
	concurrency int
	logger      *log.Logger
}

// NewEnricher creates an enricher that reuses resolver's repository lookup.
func NewEnricher(resolver *Resolver, repos Repositories, concurrency int, logger *log.Logger) *Enricher {
	return &Enricher{resolver: resolver, repos: repos, concurrency: concurrency, logger: orDiscard(logger)}
}

// Enrich updates every candidate in place. Calls are never retried and a
// failure only affects its own candidate, which keeps whatever fields were
// filled before the failure. The returned error aggregates those failures.
func (e *Enricher) Enrich(ctx context.Context, candidates []*Candidate) error {
	ctx = cache.WithAttempts(ctx, 1)
	return forEach(ctx, e.concurrency, len(candidates), func(ctx context.Context, i int) error {
		c := candidates[i]
		if err := e.enrich(ctx, c); err != nil {
			observability.Audit().OnDegraded(ctx, observability.StageEnrich, string(c.ID), err)
			e.logger.Debug("enrichment failed", "id", c.ID, "err", err)
			return fmt.Errorf("enrich %s: %w", c.ID, err)
		}
		return nil
	})
}

func (e *Enricher) enrich(ctx context.Context, c *Candidate) error {
	ext, repo, err := e.resolver.locate(ctx, c.ID)
	if ext != nil {
		c.LastUpdated = ext.LastUpdated
		c.Version = ext.Version
	}
	if err != nil {
		return err
	}
	c.RepositoryURL = repo.URL

	lic, err := e.repos.FetchLicense(ctx, repo.Owner, repo.Name, false)
	if err != nil {
		return err
	}
	c.License = lic.SPDXID
	c.LicenseURL = lic.HTMLURL
	return nil
}
