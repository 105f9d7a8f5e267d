package marketplace

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/matzehuels/vsxpack/pkg/integrations"
)

// ErrNoRepository is returned by [Manifest.Repo] when the manifest names no
// GitHub repository.
var ErrNoRepository = errors.New("manifest has no usable repository")

// Manifest is the part of an extension package.json used for auditing.
type Manifest struct {
	Name                  string   `json:"name"`
	Publisher             string   `json:"publisher"`
	Version               string   `json:"version"`
	License               string   `json:"license"`
	Repository            string   `json:"repository"`
	ExtensionPack         []string `json:"extensionPack"`
	ExtensionDependencies []string `json:"extensionDependencies"`
}

// ParseManifest decodes a package.json, flattening the repository field,
// which may be a string or an object with a url member.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw struct {
		Name                  string          `json:"name"`
		Publisher             string          `json:"publisher"`
		Version               string          `json:"version"`
		License               string          `json:"license"`
		Repository            json.RawMessage `json:"repository"`
		ExtensionPack         []string        `json:"extensionPack"`
		ExtensionDependencies []string        `json:"extensionDependencies"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	return &Manifest{
		Name:                  raw.Name,
		Publisher:             raw.Publisher,
		Version:               raw.Version,
		License:               raw.License,
		Repository:            repositoryURL(raw.Repository),
		ExtensionPack:         raw.ExtensionPack,
		ExtensionDependencies: raw.ExtensionDependencies,
	}, nil
}

func repositoryURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		URL string `json:"url"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return strings.TrimSpace(obj.URL)
	}
	return ""
}

// Repo resolves the manifest's repository to GitHub coordinates.
func (m *Manifest) Repo() (integrations.Repo, error) {
	if m.Repository == "" {
		return integrations.Repo{}, ErrNoRepository
	}
	repo, ok := integrations.ParseRepoURL(m.Repository)
	if !ok {
		return integrations.Repo{}, ErrNoRepository
	}
	return repo, nil
}

// Members returns the lower-cased member identifiers: extensionPack when
// present, otherwise extensionDependencies.
func (m *Manifest) Members() []string {
	src := m.ExtensionPack
	if len(src) == 0 {
		src = m.ExtensionDependencies
	}
	out := make([]string, 0, len(src))
	for _, id := range src {
		if id = strings.ToLower(strings.TrimSpace(id)); id != "" {
			out = append(out, id)
		}
	}
	return out
}
