package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type searchPayload struct {
	Query string   `json:"query"`
	Repos []string `json:"repos"`
}

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()

	c, err := New(t.TempDir(), ttl)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return c
}

func TestJSONRoundTrip(t *testing.T) {
	c := newTestCache(t, 24*time.Hour)

	stored := searchPayload{Query: "v2ray collector", Repos: []string{"a/b", "c/d"}}
	if err := c.PutJSON("v2ray collector", stored); err != nil {
		t.Fatalf("PutJSON: %v", err)
	}

	var loaded searchPayload

	hit, err := c.GetJSON("v2ray collector", &loaded)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}

	if !hit {
		t.Fatal("expected cache hit")
	}

	if loaded.Query != stored.Query || len(loaded.Repos) != 2 {
		t.Errorf("loaded = %+v, want %+v", loaded, stored)
	}
}

func TestStaleJSONIsMiss(t *testing.T) {
	c := newTestCache(t, 24*time.Hour)

	if err := c.PutJSON("query", searchPayload{Query: "query"}); err != nil {
		t.Fatalf("PutJSON: %v", err)
	}

	// An entry written 25 hours ago must miss under a 24h window.
	c.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	var loaded searchPayload

	hit, err := c.GetJSON("query", &loaded)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}

	if hit {
		t.Error("stale entry must be treated as a miss")
	}
}

func TestRawRoundTripAndStaleness(t *testing.T) {
	c := newTestCache(t, 24*time.Hour)

	if err := c.PutRaw("https://github.com/u/r", "<html>page</html>"); err != nil {
		t.Fatalf("PutRaw: %v", err)
	}

	body, hit := c.GetRaw("https://github.com/u/r")
	if !hit || body != "<html>page</html>" {
		t.Fatalf("GetRaw = (%q, %t), want hit with body", body, hit)
	}

	c.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	if _, hit := c.GetRaw("https://github.com/u/r"); hit {
		t.Error("stale raw entry must be treated as a miss")
	}
}

func TestMissingAndCorruptEntriesAreMisses(t *testing.T) {
	c := newTestCache(t, 24*time.Hour)

	var loaded searchPayload

	if hit, _ := c.GetJSON("never stored", &loaded); hit {
		t.Error("absent entry reported as hit")
	}

	// A corrupt entry is a miss, not an error.
	path := filepath.Join(c.dir, Key("corrupt")+".json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	hit, err := c.GetJSON("corrupt", &loaded)
	if err != nil {
		t.Errorf("corrupt entry returned error: %v", err)
	}

	if hit {
		t.Error("corrupt entry reported as hit")
	}
}

func TestKeyIsStableAndFilenameSafe(t *testing.T) {
	key := Key("https://github.com/u/r?tab=readme")

	if key != Key("https://github.com/u/r?tab=readme") {
		t.Error("Key not stable across calls")
	}

	if len(key) != 64 || strings.ContainsAny(key, "/\\:?") {
		t.Errorf("key %q not a filename-safe hash", key)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	c := newTestCache(t, time.Hour)

	if err := c.PutRaw("k", "body"); err != nil {
		t.Fatalf("PutRaw: %v", err)
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".tmp-") {
			t.Errorf("temp file %q left behind after publish", entry.Name())
		}
	}
}
