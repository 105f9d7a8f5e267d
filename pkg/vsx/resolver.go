package vsx

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	vsxerrors "github.com/matzehuels/vsxpack/pkg/errors"
	"github.com/matzehuels/vsxpack/pkg/integrations"
	"github.com/matzehuels/vsxpack/pkg/integrations/github"
	"github.com/matzehuels/vsxpack/pkg/integrations/marketplace"
)

// Marketplace finds extensions and their manifests.
type Marketplace interface {
	Search(ctx context.Context, id string, refresh bool) (*marketplace.Extension, error)
	FetchManifest(ctx context.Context, url string, refresh bool) (*marketplace.Manifest, error)
	ItemURL(id string) string
}

// Repositories reads source repositories.
type Repositories interface {
	FetchFile(ctx context.Context, owner, repo, path string, refresh bool) ([]byte, error)
	FetchLicense(ctx context.Context, owner, repo string, refresh bool) (*github.License, error)
}

// Resolver turns an extension identifier into a [Pack].
type Resolver struct {
	market Marketplace
	repos  Repositories
	logger *log.Logger
}

// NewResolver creates a resolver. A nil logger discards output.
func NewResolver(market Marketplace, repos Repositories, logger *log.Logger) *Resolver {
	return &Resolver{market: market, repos: repos, logger: orDiscard(logger)}
}

// ResolvePack resolves id to its repository and member list.
//
// It fails with EXTENSION_NOT_FOUND when the marketplace has no match and
// MALFORMED_MANIFEST when the manifest names no usable repository. A
// package.json that is missing or unreadable yields an empty member list.
func (r *Resolver) ResolvePack(ctx context.Context, id ID) (*Pack, error) {
	ext, repo, err := r.locate(ctx, id)
	if err != nil {
		return nil, err
	}

	pack := &Pack{
		ID:          id,
		DisplayName: ext.DisplayName,
		Version:     ext.Version,
		LastUpdated: ext.LastUpdated,
		Repo:        repo,
		Members:     r.members(ctx, repo),
	}
	r.logger.Debug("resolved pack", "id", id, "repo", repo.URL, "members", len(pack.Members))
	return pack, nil
}

// IsExtensionPack reports whether id resolves to a non-empty member list.
func (r *Resolver) IsExtensionPack(ctx context.Context, id ID) (bool, error) {
	pack, err := r.ResolvePack(ctx, id)
	if err != nil {
		return false, err
	}
	return len(pack.Members) > 0, nil
}

// locate finds id in the marketplace and resolves its repository. The
// extension is returned even when the repository step fails.
func (r *Resolver) locate(ctx context.Context, id ID) (*marketplace.Extension, integrations.Repo, error) {
	ext, err := r.market.Search(ctx, string(id), false)
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, integrations.Repo{}, vsxerrors.Wrap(vsxerrors.ErrCodeExtensionNotFound, err, "extension %s not found in the marketplace", id)
		}
		return nil, integrations.Repo{}, vsxerrors.Wrap(vsxerrors.ErrCodeNetwork, err, "search marketplace for %s", id)
	}

	if ext.ManifestURL == "" {
		return ext, integrations.Repo{}, vsxerrors.New(vsxerrors.ErrCodeMalformedManifest, "%s has no manifest asset", id)
	}
	manifest, err := r.market.FetchManifest(ctx, ext.ManifestURL, false)
	if err != nil {
		if errors.Is(err, integrations.ErrNetwork) {
			return ext, integrations.Repo{}, vsxerrors.Wrap(vsxerrors.ErrCodeNetwork, err, "fetch manifest of %s", id)
		}
		return ext, integrations.Repo{}, vsxerrors.Wrap(vsxerrors.ErrCodeMalformedManifest, err, "read manifest of %s", id)
	}

	repo, err := manifest.Repo()
	if err != nil {
		return ext, integrations.Repo{}, vsxerrors.Wrap(vsxerrors.ErrCodeMalformedManifest, err, "manifest of %s", id)
	}
	return ext, repo, nil
}

func (r *Resolver) members(ctx context.Context, repo integrations.Repo) []ID {
	data, err := r.repos.FetchFile(ctx, repo.Owner, repo.Name, "package.json", false)
	if err != nil {
		// A missing file just means "not a pack"; an unreachable host may
		// be hiding members.
		if errors.Is(err, integrations.ErrNetwork) {
			r.logger.Warn("package.json unavailable", "repo", repo.URL, "err", err)
		} else {
			r.logger.Debug("package.json unavailable", "repo", repo.URL, "err", err)
		}
		return nil
	}
	manifest, err := marketplace.ParseManifest(data)
	if err != nil {
		r.logger.Debug("package.json unparsable", "repo", repo.URL, "err", err)
		return nil
	}

	seen := make(map[ID]bool)
	var out []ID
	for _, m := range manifest.Members() {
		id := ID(m)
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
