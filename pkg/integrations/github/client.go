package github

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/matzehuels/vsxpack/pkg/cache"
	"github.com/matzehuels/vsxpack/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

var (
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	validRepo  = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// Client provides access to the GitHub API for repository licenses and file content.
// It handles HTTP requests with caching, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
func NewClient(backend cache.Cache, token string, cacheTTL time.Duration) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		Client:  integrations.NewClient(backend, "github", cacheTTL, headers),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at a different API root (GitHub Enterprise, tests).
func (c *Client) WithBaseURL(u string) *Client {
	if u != "" {
		c.baseURL = u
	}
	return c
}

// License is the license block of a repository as detected by GitHub.
type License struct {
	SPDXID  string `json:"spdx_id"`
	HTMLURL string `json:"html_url"`
}

// FetchLicense returns the detected license of owner/repo. A repository
// without a detected license yields a zero License and no error.
func (c *Client) FetchLicense(ctx context.Context, owner, repo string, refresh bool) (*License, error) {
	if err := validateRepoRef(owner, repo); err != nil {
		return nil, err
	}

	var lic License
	err := c.Cached(ctx, "license:"+owner+"/"+repo, refresh, &lic, func() error {
		var data repoResponse
		if err := c.Get(ctx, fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo), &data); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
			}
			return err
		}
		lic = License{}
		if data.License != nil {
			lic = *data.License
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &lic, nil
}

func validateRepoRef(owner, repo string) error {
	if !validOwner.MatchString(owner) {
		return fmt.Errorf("invalid github owner %q", owner)
	}
	if !validRepo.MatchString(repo) {
		return fmt.Errorf("invalid github repo %q", repo)
	}
	return nil
}

type repoResponse struct {
	FullName string   `json:"full_name"`
	License  *License `json:"license"`
}
