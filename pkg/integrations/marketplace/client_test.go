package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/vsxpack/pkg/cache"
	"github.com/matzehuels/vsxpack/pkg/integrations"
)

const galleryResponse = `{
  "results": [
    {"extensions": [{"extensionName": "ignored", "publisher": {"publisherName": "other"}}]},
    {"extensions": [
      {"extensionName": "stale", "publisher": {"publisherName": "acme"}},
      {
        "extensionName": "pack",
        "displayName": "Acme Pack",
        "lastUpdated": "2021-01-01T00:00:00Z",
        "publisher": {"publisherName": "acme"},
        "versions": [
          {"version": "1.2.0", "files": [
            {"assetType": "Microsoft.VisualStudio.Services.Icons.Default", "source": "/icon"},
            {"assetType": "Microsoft.VisualStudio.Code.Manifest", "source": "MANIFEST"}
          ]},
          {"version": "1.1.0", "files": [
            {"assetType": "Microsoft.VisualStudio.Code.Manifest", "source": "/old"}
          ]}
        ]
      }
    ]}
  ]
}`

func TestSearch(t *testing.T) {
	var got queryRequest
	var accept string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_apis/public/gallery/extensionquery" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		accept = r.Header.Get("Accept")
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(galleryResponse))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	ext, err := c.Search(context.Background(), "acme.pack", false)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	if ext.ID != "acme.pack" {
		t.Errorf("ID = %q, want acme.pack (last extension of last result)", ext.ID)
	}
	if ext.Version != "1.2.0" {
		t.Errorf("Version = %q, want first version entry", ext.Version)
	}
	if ext.ManifestURL != "MANIFEST" {
		t.Errorf("ManifestURL = %q", ext.ManifestURL)
	}
	if ext.LastUpdated != "2021-01-01T00:00:00Z" {
		t.Errorf("LastUpdated = %q", ext.LastUpdated)
	}

	if accept != apiAccept {
		t.Errorf("Accept = %q", accept)
	}
	if got.Flags != queryFlags {
		t.Errorf("flags = %d, want %d", got.Flags, queryFlags)
	}
	if len(got.Filters) != 1 || got.Filters[0].Criteria[0].FilterType != 7 || got.Filters[0].Criteria[0].Value != "acme.pack" {
		t.Errorf("filters = %+v", got.Filters)
	}
}

func TestSearchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"extensions":[]}]}`))
	}))
	defer server.Close()

	_, err := testClient(t, server.URL).Search(context.Background(), "nobody.nothing", false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("Search() error = %v, want ErrNotFound", err)
	}
}

func TestFetchManifest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"pack","repository":{"type":"git","url":"https://github.com/acme/pack.git"}}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	m, err := c.FetchManifest(context.Background(), server.URL+"/manifest", false)
	if err != nil {
		t.Fatalf("FetchManifest() error: %v", err)
	}
	repo, err := m.Repo()
	if err != nil {
		t.Fatalf("Repo() error: %v", err)
	}
	if repo.Owner != "acme" || repo.Name != "pack" || repo.URL != "https://github.com/acme/pack" {
		t.Errorf("Repo() = %+v", repo)
	}

	if _, err := c.FetchManifest(context.Background(), "", false); err == nil {
		t.Error("expected error for empty manifest URL")
	}
}

func TestParseManifestRepository(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    string
		wantErr bool
	}{
		{"string", `{"repository":"https://github.com/a/b"}`, "https://github.com/a/b", false},
		{"object", `{"repository":{"url":"git+https://github.com/a/b.git"}}`, "https://github.com/a/b", false},
		{"ssh", `{"repository":"git@github.com:a/b.git"}`, "https://github.com/a/b", false},
		{"missing", `{"name":"x"}`, "", true},
		{"number", `{"repository":42}`, "", true},
		{"object without url", `{"repository":{"type":"git"}}`, "", true},
		{"not github", `{"repository":"https://gitlab.com/a/b"}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseManifest([]byte(tt.json))
			if err != nil {
				t.Fatalf("ParseManifest() error: %v", err)
			}
			repo, err := m.Repo()
			if tt.wantErr {
				if !errors.Is(err, ErrNoRepository) {
					t.Errorf("Repo() error = %v, want ErrNoRepository", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Repo() error: %v", err)
			}
			if repo.URL != tt.want {
				t.Errorf("Repo().URL = %q, want %q", repo.URL, tt.want)
			}
		})
	}
}

func TestManifestMembers(t *testing.T) {
	tests := []struct {
		name string
		json string
		want []string
	}{
		{"pack wins", `{"extensionPack":["A.One","b.two"],"extensionDependencies":["c.three"]}`, []string{"a.one", "b.two"}},
		{"dependencies fallback", `{"extensionDependencies":["C.Three"]}`, []string{"c.three"}},
		{"empty pack falls back", `{"extensionPack":[],"extensionDependencies":["d.four"]}`, []string{"d.four"}},
		{"none", `{}`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseManifest([]byte(tt.json))
			if err != nil {
				t.Fatal(err)
			}
			got := m.Members()
			if len(got) != len(tt.want) {
				t.Fatalf("Members() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Members()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseManifestInvalid(t *testing.T) {
	if _, err := ParseManifest([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestItemURL(t *testing.T) {
	c := NewClient(nil, time.Hour)
	if got := c.ItemURL("acme.pack"); got != DefaultBaseURL+"/items?itemName=acme.pack" {
		t.Errorf("ItemURL() = %q", got)
	}
}

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	return NewClient(cache.NewNullCache(), time.Hour).WithBaseURL(serverURL)
}
