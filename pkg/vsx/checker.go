package vsx

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vsxpack/pkg/cache"
	"github.com/matzehuels/vsxpack/pkg/integrations/openvsx"
	"github.com/matzehuels/vsxpack/pkg/observability"
)

// Registry performs live Open VSX lookups.
type Registry interface {
	Lookup(ctx context.Context, publisher, name string, refresh bool) (*openvsx.Extension, error)
	ItemURL(publisher, name string) string
}

// Checker decides which members of a pack are already on Open VSX.
type Checker struct {
	registry    Registry
	market      interface{ ItemURL(id string) string }
	concurrency int
	logger      *log.Logger
}

// NewChecker creates a checker issuing at most concurrency live lookups at once.
func NewChecker(registry Registry, market interface{ ItemURL(id string) string }, concurrency int, logger *log.Logger) *Checker {
	return &Checker{registry: registry, market: market, concurrency: concurrency, logger: orDiscard(logger)}
}

// Check splits the pack's members into present and absent. Index misses
// get exactly one live lookup each; a failed lookup counts as absent and is
// recorded in Membership.Warnings. The pack itself is checked alongside its
// members and reported through Membership.Self.
func (c *Checker) Check(ctx context.Context, index *Index, pack *Pack) *Membership {
	ids := make([]ID, 0, len(pack.Members)+1)
	seen := make(map[ID]bool, len(pack.Members)+1)
	for _, id := range append(append([]ID{}, pack.Members...), pack.ID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	present := make(map[ID]bool, len(ids))
	var misses []ID
	for _, id := range ids {
		if index.Contains(id) {
			present[id] = true
		} else {
			misses = append(misses, id)
		}
	}

	// One slot per miss; each lookup writes only its own.
	found := make([]bool, len(misses))
	lookupCtx := cache.WithAttempts(ctx, 1)
	warnings := forEach(lookupCtx, c.concurrency, len(misses), func(ctx context.Context, i int) error {
		id := misses[i]
		ext, err := c.registry.Lookup(ctx, id.Publisher(), id.Name(), false)
		if err != nil {
			observability.Audit().OnDegraded(ctx, observability.StageCheck, string(id), err)
			c.logger.Debug("open vsx lookup failed", "id", id, "err", err)
			return fmt.Errorf("open vsx lookup %s: %w", id, err)
		}
		found[i] = ext != nil && !ext.NotFound
		return nil
	})
	for i, id := range misses {
		if found[i] {
			present[id] = true
		}
	}

	m := &Membership{Warnings: warnings}
	for _, id := range pack.Members {
		if present[id] {
			m.Present = appendUnique(m.Present, id)
		} else if !containsCandidate(m.Absent, id) {
			m.Absent = append(m.Absent, c.candidate(id))
		}
	}
	if present[pack.ID] {
		m.SelfPresent = true
	} else {
		m.Self = c.candidate(pack.ID)
	}

	c.logger.Debug("checked membership", "pack", pack.ID, "index_hits", len(ids)-len(misses),
		"live_lookups", len(misses), "present", len(m.Present), "absent", len(m.Absent))
	return m
}

func (c *Checker) candidate(id ID) *Candidate {
	return &Candidate{
		ID:             id,
		MarketplaceURL: c.market.ItemURL(string(id)),
		OpenVSXURL:     c.registry.ItemURL(id.Publisher(), id.Name()),
	}
}

func appendUnique(ids []ID, id ID) []ID {
	for _, x := range ids {
		if x == id {
			return ids
		}
	}
	return append(ids, id)
}

func containsCandidate(cs []*Candidate, id ID) bool {
	for _, c := range cs {
		if c.ID == id {
			return true
		}
	}
	return false
}
