package integrations

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/dnscache"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when an extension or resource doesn't exist upstream.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

var (
	resolver     = &dnscache.Resolver{}
	resolverOnce sync.Once
)

// NewHTTPClient creates an HTTP client with a standard timeout for registry
// requests. Host lookups go through a shared DNS cache refreshed every five
// minutes.
func NewHTTPClient() *http.Client {
	resolverOnce.Do(func() {
		go func() {
			t := time.NewTicker(5 * time.Minute)
			defer t.Stop()
			for range t.C {
				resolver.Refresh(true)
			}
		}()
	})

	dialer := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 16
	transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}
		ips, err := resolver.LookupHost(ctx, host)
		if err != nil {
			return nil, err
		}
		var lastErr error
		for _, ip := range ips {
			conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
			if err == nil {
				return conn, nil
			}
			lastErr = err
		}
		return nil, lastErr
	}

	return &http.Client{Timeout: httpTimeout, Transport: transport}
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
	"http://github.com/", "https://github.com/",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@, git://, and git+ prefixes, and removes .git suffixes and
// trailing slashes. Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	s = strings.TrimSuffix(s, "/")
	return strings.TrimSuffix(s, ".git")
}

var repoURLPattern = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/?#]+?)(?:\.git)?(?:[/?#]|$)`)

// Repo identifies a source repository on GitHub.
type Repo struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
	URL   string `json:"url"` // canonical https URL without a .git suffix
}

// ParseRepoURL extracts owner and repository name from any supported GitHub
// URL form. Returns ok=false for non-GitHub or unparsable URLs.
func ParseRepoURL(raw string) (Repo, bool) {
	m := repoURLPattern.FindStringSubmatch(NormalizeRepoURL(raw))
	if len(m) < 3 {
		return Repo{}, false
	}
	owner, name := m[1], strings.TrimSuffix(m[2], ".git")
	return Repo{
		Owner: owner,
		Name:  name,
		URL:   "https://github.com/" + owner + "/" + name,
	}, true
}

// URLEncode percent-encodes a string for use in URLs.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }
