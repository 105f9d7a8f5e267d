package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vsxpack/pkg/cache"
)

func runRoot(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.Out = &out
	root := c.RootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestHTTPCacheDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	want := filepath.Join(dir, "vsxpack", "http")
	if got := httpCacheDir(); got != want {
		t.Errorf("httpCacheDir() = %q, want %q", got, want)
	}
	if got := strings.TrimSpace(runRoot(t, "cache", "path")); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClear(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	fc, err := cache.NewFileCache(httpCacheDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"a", "b"} {
		if err := fc.Set(ctx, key, []byte("{}"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	out := runRoot(t, "cache", "clear")
	if !strings.Contains(out, "Cleared 2 cached entries") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Directory: "+fc.Dir()) {
		t.Errorf("output missing cache directory: %q", out)
	}
	if _, ok, _ := fc.Get(ctx, "a"); ok {
		t.Error("entry survived cache clear")
	}
}

func TestCacheClearEmpty(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if out := runRoot(t, "cache", "clear"); !strings.Contains(out, "Cache is empty") {
		t.Errorf("output = %q", out)
	}
}
