package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/reviewlens/internal/model"
)

func TestKey(t *testing.T) {
	a := Key("svg", "fp1", "Acme", "800x400")
	b := Key("svg", "fp1", "Acme", "800x400")
	c := Key("svg", "fp2", "Acme", "800x400")

	if a != b {
		t.Error("same parts must produce the same key")
	}
	if a == c {
		t.Error("different parts must produce different keys")
	}
	if !strings.HasPrefix(a, "reviewlens-v1-svg-") {
		t.Errorf("unexpected key format: %s", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss on empty cache")
	}
	_ = c.Set("k", []byte("v"), 0)
	if got, ok := c.Get("k"); !ok || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d", c.Len())
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	if err := c.Set("fresh", []byte("svg"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, ok := c.Get("fresh"); !ok || string(got) != "svg" {
		t.Errorf("Get = %q, %v", got, ok)
	}

	if err := c.Set("stale", []byte("old"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("stale"); ok {
		t.Error("expected expired entry to miss")
	}
	if _, err := os.Stat(c.path("stale")); !os.IsNotExist(err) {
		t.Error("expected expired entry file to be removed")
	}

	if err := c.Delete("never-set"); err != nil {
		t.Errorf("Delete of missing key should succeed, got %v", err)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	first := NewLayeredCache(time.Minute, dir, time.Hour)
	if err := first.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A fresh process only has the disk layer populated
	second := NewLayeredCache(time.Minute, dir, time.Hour)
	if got, ok := second.Get("k"); !ok || string(got) != "v" {
		t.Fatalf("expected disk hit, got %q %v", got, ok)
	}
	if _, ok := second.memory.Get("k"); !ok {
		t.Error("expected disk hit to be promoted to memory")
	}

	if err := second.Delete("k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, ok := second.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestNew(t *testing.T) {
	if _, ok := New(model.CacheConfig{Enabled: false}).(NoopCache); !ok {
		t.Error("disabled cache should be a NoopCache")
	}
	if _, ok := New(model.CacheConfig{Enabled: true}).(*MemoryCache); !ok {
		t.Error("cache without dir should be memory only")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, Dir: t.TempDir()}).(*LayeredCache); !ok {
		t.Error("cache with dir should be layered")
	}
}

func TestDiskCache_StatsAndPrune(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	_ = c.Set("keep", []byte("svg"), 0)
	_ = c.Set("stale", []byte("old"), time.Nanosecond)
	if err := os.WriteFile(filepath.Join(dir, "broken.cache"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	st, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Entries != 3 || st.Expired != 2 || st.Bytes == 0 {
		t.Errorf("unexpected stats: %+v", st)
	}

	removed, err := c.Prune()
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed.Entries != 2 {
		t.Errorf("expected 2 pruned entries, got %+v", removed)
	}
	if _, ok := c.Get("keep"); !ok {
		t.Error("live entry should survive pruning")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if st, _ := c.Stats(); st.Entries != 0 {
		t.Errorf("expected empty cache after Clear, got %+v", st)
	}
}

func TestDiskCache_ClearKeepsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	data := filepath.Join(dir, "clean_reviews.csv")
	if err := os.WriteFile(data, []byte("id,sentiment,clean_review\n"), 0644); err != nil {
		t.Fatal(err)
	}
	leftover := filepath.Join(dir, ".tmp-123")
	if err := os.WriteFile(leftover, []byte("partial"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := c.Set("k", []byte("svg"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if _, err := os.Stat(data); err != nil {
		t.Errorf("Clear removed a file it does not own: %v", err)
	}
	if _, err := os.Stat(leftover); !os.IsNotExist(err) {
		t.Error("expected leftover temp file to be removed")
	}
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after Clear")
	}

	if err := NewDiskCache(filepath.Join(dir, "missing"), time.Hour).Clear(); err != nil {
		t.Errorf("Clear of a missing directory should succeed, got %v", err)
	}
}
