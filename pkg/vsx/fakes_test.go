package vsx

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/matzehuels/vsxpack/pkg/integrations"
	"github.com/matzehuels/vsxpack/pkg/integrations/github"
	"github.com/matzehuels/vsxpack/pkg/integrations/marketplace"
	"github.com/matzehuels/vsxpack/pkg/integrations/openvsx"
)

type fakeMarket struct {
	exts      map[string]*marketplace.Extension
	manifests map[string]string
	searchErr map[string]error
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{
		exts:      map[string]*marketplace.Extension{},
		manifests: map[string]string{},
		searchErr: map[string]error{},
	}
}

// add registers id with a manifest pointing at repoURL.
func (f *fakeMarket) add(id, repoURL, lastUpdated string) {
	url := "manifest://" + id
	f.exts[id] = &marketplace.Extension{ID: id, ManifestURL: url, LastUpdated: lastUpdated, Version: "1.0.0"}
	f.manifests[url] = fmt.Sprintf(`{"name":%q,"repository":{"type":"git","url":%q}}`, id, repoURL)
}

func (f *fakeMarket) Search(_ context.Context, id string, _ bool) (*marketplace.Extension, error) {
	if err := f.searchErr[strings.ToLower(id)]; err != nil {
		return nil, err
	}
	ext, ok := f.exts[strings.ToLower(id)]
	if !ok {
		return nil, fmt.Errorf("%w: marketplace extension %s", integrations.ErrNotFound, id)
	}
	return ext, nil
}

func (f *fakeMarket) FetchManifest(_ context.Context, url string, _ bool) (*marketplace.Manifest, error) {
	raw, ok := f.manifests[url]
	if !ok {
		return nil, integrations.ErrNotFound
	}
	return marketplace.ParseManifest([]byte(raw))
}

func (f *fakeMarket) ItemURL(id string) string { return "https://market.test/items?itemName=" + id }

type fakeRepos struct {
	files      map[string]string
	fileErr    map[string]error
	licenses   map[string]*github.License
	licenseErr map[string]error
}

func newFakeRepos() *fakeRepos {
	return &fakeRepos{
		files:      map[string]string{},
		fileErr:    map[string]error{},
		licenses:   map[string]*github.License{},
		licenseErr: map[string]error{},
	}
}

func (f *fakeRepos) FetchFile(_ context.Context, owner, repo, path string, _ bool) ([]byte, error) {
	if err := f.fileErr[owner+"/"+repo+"/"+path]; err != nil {
		return nil, err
	}
	raw, ok := f.files[owner+"/"+repo+"/"+path]
	if !ok {
		return nil, integrations.ErrNotFound
	}
	return []byte(raw), nil
}

func (f *fakeRepos) FetchLicense(_ context.Context, owner, repo string, _ bool) (*github.License, error) {
	if err := f.licenseErr[owner+"/"+repo]; err != nil {
		return nil, err
	}
	if lic, ok := f.licenses[owner+"/"+repo]; ok {
		return lic, nil
	}
	return &github.License{}, nil
}

type fakeRegistry struct {
	mu      sync.Mutex
	present map[ID]bool
	fail    map[ID]bool
	calls   map[ID]int
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{present: map[ID]bool{}, fail: map[ID]bool{}, calls: map[ID]int{}}
}

func (f *fakeRegistry) Lookup(_ context.Context, publisher, name string, _ bool) (*openvsx.Extension, error) {
	id := ID(publisher + "." + name)
	f.mu.Lock()
	f.calls[id]++
	f.mu.Unlock()

	missing := &openvsx.Extension{PublisherName: publisher, Name: name, NotFound: true}
	if f.fail[id] {
		return missing, fmt.Errorf("%w: connection refused", integrations.ErrNetwork)
	}
	if f.present[id] {
		return &openvsx.Extension{PublisherName: publisher, Name: name}, nil
	}
	return missing, nil
}

func (f *fakeRegistry) ItemURL(publisher, name string) string {
	return "https://vsx.test/extension/" + publisher + "/" + name
}

func (f *fakeRegistry) callCount(id ID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

type fakeSnapshotSource struct {
	ids   []string
	calls int
	err   error
}

func (f *fakeSnapshotSource) FetchSnapshot(_ context.Context, _ string) ([]byte, []string, error) {
	f.calls++
	if f.err != nil {
		return nil, nil, f.err
	}
	var b strings.Builder
	b.WriteString(`{"extensions":[`)
	for i, id := range f.ids {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"id":%q}`, id)
	}
	b.WriteString(`]}`)
	return []byte(b.String()), f.ids, nil
}
