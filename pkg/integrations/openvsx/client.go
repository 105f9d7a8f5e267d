package openvsx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/vsxpack/pkg/cache"
	"github.com/matzehuels/vsxpack/pkg/integrations"
)

const (
	// DefaultBaseURL is the public Open VSX registry.
	DefaultBaseURL = "https://open-vsx.org"

	// DefaultSnapshotURL lists every extension the publish-extensions
	// pipeline pushes to Open VSX.
	DefaultSnapshotURL = "https://raw.githubusercontent.com/open-vsx/publish-extensions/master/extensions.json"
)

// Extension is the result of a live registry lookup.
type Extension struct {
	PublisherName string `json:"publisherName"`
	Name          string `json:"name"`
	Version       string `json:"version,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
	NotFound      bool   `json:"notFound,omitempty"`
}

// Client queries the Open VSX REST API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates an Open VSX client backed by the given cache.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "openvsx", cacheTTL, map[string]string{"Accept": "application/json"}),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at a different registry.
func (c *Client) WithBaseURL(u string) *Client {
	if u != "" {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
	return c
}

// ItemURL returns the registry page for an extension.
func (c *Client) ItemURL(publisher, name string) string {
	return c.baseURL + "/extension/" + publisher + "/" + name
}

// Lookup checks whether publisher.name exists in the registry. Missing
// extensions are reported through Extension.NotFound with a nil error.
// On transport failure the NotFound record is returned together with the
// error.
func (c *Client) Lookup(ctx context.Context, publisher, name string, refresh bool) (*Extension, error) {
	missing := &Extension{PublisherName: publisher, Name: name, NotFound: true}

	var ext Extension
	key := "lookup:" + strings.ToLower(publisher+"."+name)
	err := c.Cached(ctx, key, refresh, &ext, func() error {
		return c.lookup(ctx, publisher, name, &ext)
	})
	switch {
	case err == nil:
		return &ext, nil
	case errors.Is(err, integrations.ErrNotFound):
		return missing, nil
	default:
		return missing, err
	}
}

func (c *Client) lookup(ctx context.Context, publisher, name string, ext *Extension) error {
	var data lookupResponse
	url := fmt.Sprintf("%s/api/%s/%s", c.baseURL, integrations.URLEncode(publisher), integrations.URLEncode(name))
	if err := c.Get(ctx, url, &data); err != nil {
		return err
	}

	*ext = Extension{PublisherName: publisher, Name: name}
	if data.Error != "" {
		ext.NotFound = true
		return nil
	}
	if data.Namespace != "" {
		ext.PublisherName = data.Namespace
	}
	if data.Name != "" {
		ext.Name = data.Name
	}
	ext.Version = data.Version
	ext.Timestamp = data.Timestamp
	return nil
}

// FetchSnapshot downloads the registry listing at url and returns the raw
// bytes for persisting along with the identifiers it contains.
func (c *Client) FetchSnapshot(ctx context.Context, url string) ([]byte, []string, error) {
	if url == "" {
		url = DefaultSnapshotURL
	}

	var raw string
	err := cache.RetryWithBackoff(ctx, func() error {
		text, err := c.GetText(ctx, url)
		raw = text
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("fetch open vsx snapshot: %w", err)
	}

	ids, err := ParseSnapshot([]byte(raw))
	if err != nil {
		return nil, nil, err
	}
	return []byte(raw), ids, nil
}

// ParseSnapshot extracts the extension identifiers from a snapshot document
// of the form {"extensions":[{"id":"publisher.name"}, ...]}.
func ParseSnapshot(data []byte) ([]string, error) {
	var doc struct {
		Extensions []struct {
			ID string `json:"id"`
		} `json:"extensions"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse open vsx snapshot: %w", err)
	}
	ids := make([]string, 0, len(doc.Extensions))
	for _, e := range doc.Extensions {
		if e.ID != "" {
			ids = append(ids, e.ID)
		}
	}
	return ids, nil
}

type lookupResponse struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error"`
}
