package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/violin/pkg/cache"
)

func TestCachePathCommand(t *testing.T) {
	c, out := newTestCLI(t)
	dir := filepath.Join(t.TempDir(), "vm-cache")
	cfg := writeFile(t, t.TempDir(), "config.toml", fmt.Sprintf("[cache]\ndir = %q\n", dir))

	if err := runCLI(t, c, "cache", "path", "--config", cfg); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
}

func TestCachePathDefault(t *testing.T) {
	c, out := newTestCLI(t)
	if err := runCLI(t, c, "cache", "path"); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if got := strings.TrimSpace(out.String()); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := t.TempDir()
	cfg := writeFile(t, t.TempDir(), "config.toml", fmt.Sprintf("[cache]\ndir = %q\n", dir))

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"viewmodel:a", "viewmodel:b"} {
		if err := fc.Set(t.Context(), key, []byte(`{}`), cache.TTLViewModel); err != nil {
			t.Fatal(err)
		}
	}

	if err := runCLI(t, c, "cache", "clear", "--config", cfg); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	for _, key := range []string{"viewmodel:a", "viewmodel:b"} {
		if _, ok, _ := fc.Get(t.Context(), key); ok {
			t.Errorf("%s should be gone after clear", key)
		}
	}
}

func TestCacheClearMissingDir(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := filepath.Join(t.TempDir(), "never-created")
	cfg := writeFile(t, t.TempDir(), "config.toml", fmt.Sprintf("[cache]\ndir = %q\n", dir))

	if err := runCLI(t, c, "cache", "clear", "--config", cfg); err != nil {
		t.Fatalf("cache clear on a missing directory: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("clear should not create the cache directory")
	}
}

func TestRenderUsesCache(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "weights.csv", groupsCSV)
	cacheDir := filepath.Join(dir, "cache")
	cfg := writeFile(t, dir, "config.toml", fmt.Sprintf("[cache]\ndir = %q\n", cacheDir))

	if err := runCLI(t, c, "render", input, "--config", cfg); err != nil {
		t.Fatalf("render: %v", err)
	}
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		t.Fatalf("cache directory not created: %v", err)
	}
	if len(entries) == 0 {
		t.Error("render should store the view model in the cache")
	}
}
