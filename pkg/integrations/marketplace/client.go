package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/vsxpack/pkg/cache"
	"github.com/matzehuels/vsxpack/pkg/integrations"
)

const (
	// DefaultBaseURL is the public Visual Studio Marketplace.
	DefaultBaseURL = "https://marketplace.visualstudio.com"

	// ManifestAsset is the asset type of an extension's package.json.
	ManifestAsset = "Microsoft.VisualStudio.Code.Manifest"

	filterExtensionName = 7
	queryFlags          = 914
	apiAccept           = "application/json;api-version=3.0-preview.1"
)

// Extension is the subset of a gallery entry used for auditing.
type Extension struct {
	ID          string `json:"id"`
	Publisher   string `json:"publisher"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Version     string `json:"version,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
	ManifestURL string `json:"manifest_url,omitempty"`
}

// ItemURL returns the public marketplace page of the extension.
func (c *Client) ItemURL(id string) string {
	return c.baseURL + "/items?itemName=" + id
}

// Client queries the marketplace gallery API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a marketplace client backed by the given cache.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "marketplace", cacheTTL, nil),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at a different gallery root.
func (c *Client) WithBaseURL(u string) *Client {
	if u != "" {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
	return c
}

// Search looks up an extension by identifier. It returns an error wrapping
// [integrations.ErrNotFound] when the gallery has no match.
func (c *Client) Search(ctx context.Context, id string, refresh bool) (*Extension, error) {
	id = strings.TrimSpace(id)

	var ext Extension
	err := c.Cached(ctx, "search:"+strings.ToLower(id), refresh, &ext, func() error {
		return c.search(ctx, id, &ext)
	})
	if err != nil {
		return nil, err
	}
	return &ext, nil
}

func (c *Client) search(ctx context.Context, id string, ext *Extension) error {
	body := queryRequest{
		Filters: []queryFilter{{Criteria: []criterion{{FilterType: filterExtensionName, Value: id}}}},
		Flags:   queryFlags,
	}

	var data queryResponse
	url := c.baseURL + "/_apis/public/gallery/extensionquery"
	if err := c.Post(ctx, url, body, &data, map[string]string{"Accept": apiAccept}); err != nil {
		return err
	}

	match, ok := data.match()
	if !ok {
		return fmt.Errorf("%w: marketplace extension %s", integrations.ErrNotFound, id)
	}

	*ext = Extension{
		ID:          match.Publisher.PublisherName + "." + match.ExtensionName,
		Publisher:   match.Publisher.PublisherName,
		Name:        match.ExtensionName,
		DisplayName: match.DisplayName,
		LastUpdated: match.LastUpdated,
	}
	if len(match.Versions) > 0 {
		first := match.Versions[0]
		ext.Version = first.Version
		for _, f := range first.Files {
			if f.AssetType == ManifestAsset {
				ext.ManifestURL = f.Source
				break
			}
		}
	}
	return nil
}

// FetchManifest downloads and parses the package.json asset at url.
func (c *Client) FetchManifest(ctx context.Context, url string, refresh bool) (*Manifest, error) {
	if url == "" {
		return nil, errors.New("extension has no manifest asset")
	}

	var raw string
	err := c.Cached(ctx, "manifest:"+cache.Hash([]byte(url)), refresh, &raw, func() error {
		text, err := c.GetText(ctx, url)
		raw = text
		return err
	})
	if err != nil {
		return nil, err
	}
	return ParseManifest([]byte(raw))
}

type queryRequest struct {
	Filters []queryFilter `json:"filters"`
	Flags   int           `json:"flags"`
}

type queryFilter struct {
	Criteria []criterion `json:"criteria"`
}

type criterion struct {
	FilterType int    `json:"filterType"`
	Value      string `json:"value"`
}

type queryResponse struct {
	Results []struct {
		Extensions []galleryExtension `json:"extensions"`
	} `json:"results"`
}

func (r queryResponse) match() (galleryExtension, bool) {
	if len(r.Results) == 0 {
		return galleryExtension{}, false
	}
	exts := r.Results[len(r.Results)-1].Extensions
	if len(exts) == 0 {
		return galleryExtension{}, false
	}
	return exts[len(exts)-1], true
}

type galleryExtension struct {
	Publisher struct {
		PublisherName string `json:"publisherName"`
	} `json:"publisher"`
	ExtensionName string `json:"extensionName"`
	DisplayName   string `json:"displayName"`
	LastUpdated   string `json:"lastUpdated"`
	Versions      []struct {
		Version string `json:"version"`
		Files   []struct {
			AssetType string `json:"assetType"`
			Source    string `json:"source"`
		} `json:"files"`
	} `json:"versions"`
}
