package storage

import (
	"io"
	"testing"
	"time"

	"rab/internal/logging"
	"rab/internal/symbols"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel, Format: logging.JSONFormat, Output: io.Discard})
	db, err := Open(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleIdentities() []symbols.Identity {
	return []symbols.Identity{
		{CrateName: "demo", ModulePath: []string{"utils"}, ItemName: "do_thing", Kind: symbols.KindFreeFunction},
		{CrateName: "demo", ModulePath: []string{"types", "Item"}, ItemName: "new", Kind: symbols.KindImpl},
	}
}

func TestSymbolCacheRoundTrip(t *testing.T) {
	cache := NewSymbolCache(testDB(t), 300)

	if _, ok, err := cache.Get("do_thing"); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	if err := cache.Put("do_thing", sampleIdentities()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := cache.Get("do_thing")
	if err != nil || !ok {
		t.Fatalf("Get after Put: ok=%v err=%v", ok, err)
	}
	if len(got) != 2 || got[0].ItemName != "do_thing" || got[1].Kind != symbols.KindImpl {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestSymbolCacheReplacesOnPut(t *testing.T) {
	cache := NewSymbolCache(testDB(t), 300)

	if err := cache.Put("q", sampleIdentities()); err != nil {
		t.Fatal(err)
	}
	if err := cache.Put("q", sampleIdentities()[:1]); err != nil {
		t.Fatal(err)
	}

	got, ok, err := cache.Get("q")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if len(got) != 1 {
		t.Errorf("second Put should replace the first, got %d entries", len(got))
	}
}

func TestSymbolCacheExpiry(t *testing.T) {
	cache := NewSymbolCache(testDB(t), 300)
	cache.ttl = -time.Second // entries are born expired

	if err := cache.Put("stale", sampleIdentities()); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := cache.Get("stale"); err != nil || ok {
		t.Errorf("expired entry should miss: ok=%v err=%v", ok, err)
	}
}

func TestSymbolCacheInvalidate(t *testing.T) {
	cache := NewSymbolCache(testDB(t), 300)

	if err := cache.Put("a", sampleIdentities()); err != nil {
		t.Fatal(err)
	}
	if err := cache.Invalidate(); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	if _, ok, _ := cache.Get("a"); ok {
		t.Error("entry should be gone after Invalidate")
	}

	stats, err := cache.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats["entries"] != 0 {
		t.Errorf("stats after invalidate: %v", stats)
	}
}
