package registrations

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	vsxerrors "github.com/matzehuels/vsxpack/pkg/errors"
)

// fakeCloner "clones" by writing a package.json taken from manifests.
type fakeCloner struct {
	manifests map[string]string
	cloned    []string
}

func (f *fakeCloner) Clone(_ context.Context, url, dest string) error {
	f.cloned = append(f.cloned, url)
	m, ok := f.manifests[url]
	if !ok {
		return errors.New("repository not found")
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dest, "package.json"), []byte(m), 0o644)
}

func TestLoadMissingFile(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if f.Extensions == nil || len(f.Extensions) != 0 {
		t.Errorf("Extensions = %v, want empty", f.Extensions)
	}
}

func TestLoadSavePreservesExtraKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extensions.json")
	orig := `{"extensions":[{"id":"Redhat.vscode-yaml","repository":"https://github.com/redhat-developer/vscode-yaml","prepublish":"npm run build","custom":["a"]}]}`
	if err := os.WriteFile(path, []byte(orig), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(f.Extensions) != 1 || f.Extensions[0].ID != "Redhat.vscode-yaml" {
		t.Fatalf("Extensions = %+v", f.Extensions)
	}
	if string(f.Extensions[0].Extra["prepublish"]) != `"npm run build"` {
		t.Errorf("Extra = %v", f.Extensions[0].Extra)
	}

	if err := Save(path, f); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	data, _ := os.ReadFile(path)
	text := string(data)
	if !strings.Contains(text, `"prepublish": "npm run build"`) {
		t.Errorf("extra key lost:\n%s", text)
	}
	if strings.Index(text, `"id"`) > strings.Index(text, `"custom"`) {
		t.Errorf("known keys should come first:\n%s", text)
	}
	if !strings.HasSuffix(text, "}\n") {
		t.Error("file should end with a newline")
	}
	if strings.Contains(text, `"version"`) {
		t.Error("empty version should be omitted")
	}
}

func TestLoadSavePreservesTopLevelKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extensions.json")
	orig := `{"$schema":"./schema.json","version":"2","extensions":[{"id":"A.b","repository":"https://github.com/a/b"}]}`
	if err := os.WriteFile(path, []byte(orig), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(f.Extra["version"]) != `"2"` {
		t.Errorf("Extra = %v", f.Extra)
	}
	f.Add(Entry{ID: "C.d", Repository: "https://github.com/c/d"})
	if err := Save(path, f); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, _ := os.ReadFile(path)
	var got map[string]json.RawMessage
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("saved file is not JSON: %v\n%s", err, data)
	}
	if string(got["$schema"]) != `"./schema.json"` || string(got["version"]) != `"2"` {
		t.Errorf("top-level keys lost:\n%s", data)
	}
	text := string(data)
	if strings.Index(text, `"extensions"`) > strings.Index(text, `"$schema"`) {
		t.Errorf("extensions should come first:\n%s", text)
	}

	again, err := Load(path)
	if err != nil || len(again.Extensions) != 2 {
		t.Errorf("reload = %+v, %v", again, err)
	}
}

func TestSaveEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extensions.json")
	if err := Save(path, &File{}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{\n  \"extensions\": []\n}\n" {
		t.Errorf("empty file = %q", data)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte(`{"extensions":`), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for truncated file")
	}
}

func TestFileHasAndAdd(t *testing.T) {
	f := &File{}
	if !f.Add(Entry{ID: "Acme.Ext"}) {
		t.Error("first Add() should succeed")
	}
	if f.Add(Entry{ID: "acme.ext"}) {
		t.Error("Add() must reject case-insensitive duplicates")
	}
	if !f.Has("ACME.EXT") {
		t.Error("Has() should ignore case")
	}
}

func TestRegister(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extensions.json")
	if err := os.WriteFile(path, []byte(`{"extensions":[{"id":"old.one","repository":"https://github.com/old/one"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cloner := &fakeCloner{manifests: map[string]string{
		"https://github.com/y/two":   `{"publisher":"Y","name":"two","version":"2.1.0"}`,
		"https://github.com/z/three": `{"publisher":"other","name":"thing","version":"0.1.0"}`,
	}}
	var hooked []string
	r := &Registrar{
		Path:    path,
		Git:     cloner,
		TempDir: t.TempDir(),
		OnAdded: func(e Entry) {
			f, _ := Load(path)
			if !f.Has(e.ID) {
				t.Errorf("OnAdded(%s) ran before the file was written", e.ID)
			}
			hooked = append(hooked, e.ID)
		},
	}

	added, warnings, err := r.Register(context.Background(), []Request{
		{ID: "old.one", Repository: "https://github.com/old/one"},
		{ID: "y.two", Repository: "https://github.com/y/two"},
		{ID: "z.three", Repository: "https://github.com/z/three"},
		{ID: "broken.four", Repository: "https://github.com/broken/four"},
		{ID: "norepo.five"},
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	if len(added) != 2 || added[0].ID != "Y.two" || added[0].Version != "2.1.0" || added[1].ID != "z.three" {
		t.Errorf("added = %+v", added)
	}
	if len(hooked) != 2 {
		t.Errorf("OnAdded calls = %v, want 2", hooked)
	}
	if warnings == nil || !strings.Contains(warnings.Error(), "broken.four") || !strings.Contains(warnings.Error(), "norepo.five") {
		t.Errorf("warnings = %v", warnings)
	}
	for _, url := range cloner.cloned {
		if url == "https://github.com/old/one" {
			t.Error("already registered extensions must not be cloned")
		}
	}

	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Extensions) != 3 {
		t.Errorf("file has %d entries, want 3", len(f.Extensions))
	}

	var raw map[string][]map[string]any
	data, _ := os.ReadFile(path)
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("written file is not valid JSON: %v", err)
	}
}

func TestRegisterNothingLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extensions.json")
	added, _, err := (&Registrar{Path: path, Git: &fakeCloner{}}).Register(context.Background(), nil)
	if err != nil || len(added) != 0 {
		t.Fatalf("Register(nil) = %v, %v", added, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no additions should not create the file")
	}
}

func TestRegisterUnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extensions.json")
	os.WriteFile(path, []byte("nope"), 0o644)

	_, _, err := (&Registrar{Path: path, Git: &fakeCloner{}}).Register(context.Background(), []Request{{ID: "a.b", Repository: "x"}})
	if !vsxerrors.Is(err, vsxerrors.ErrCodeFileSystem) {
		t.Errorf("Register() error = %v, want FILESYSTEM", err)
	}
}
