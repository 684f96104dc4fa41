// Package cache is a flat file cache keyed by content hash. Entries are
// either timestamped JSON payloads (search results) or raw text (fetched
// documents); anything stale or unreadable is a miss, never an error.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Cache stores one file per entry under a single directory, named by the
// sha256 of the entry key. Writes are published atomically (temp file plus
// rename), so a concurrent reader never observes a partial entry.
type Cache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

type jsonEnvelope struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Payload   json.RawMessage `json:"payload"`
}

// New creates a cache rooted at dir with the given freshness window. The
// directory is created if missing.
func New(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &Cache{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Key returns the cache filename stem for an arbitrary key string.
func Key(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) path(key, ext string) string {
	return filepath.Join(c.dir, Key(key)+ext)
}

// GetJSON reads a fresh JSON entry into v. The second return is false on
// miss: absent, stale, or undecodable.
func (c *Cache) GetJSON(key string, v any) (bool, error) {
	data, err := os.ReadFile(c.path(key, ".json"))
	if err != nil {
		return false, nil
	}

	var envelope jsonEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return false, nil
	}

	if c.now().Sub(envelope.FetchedAt) >= c.ttl {
		return false, nil
	}

	if err := json.Unmarshal(envelope.Payload, v); err != nil {
		return false, nil
	}

	return true, nil
}

// PutJSON stores v as a timestamped JSON entry.
func (c *Cache) PutJSON(key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(jsonEnvelope{
		FetchedAt: c.now(),
		Payload:   payload,
	}, "", "  ")
	if err != nil {
		return err
	}

	return c.writeAtomic(c.path(key, ".json"), data)
}

// GetRaw reads a fresh raw-text entry. Freshness is judged by file
// modification time, since raw entries carry no embedded timestamp.
func (c *Cache) GetRaw(key string) (string, bool) {
	path := c.path(key, ".txt")

	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}

	if c.now().Sub(info.ModTime()) >= c.ttl {
		return "", false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	return string(data), true
}

// PutRaw stores a raw-text entry.
func (c *Cache) PutRaw(key, body string) error {
	return c.writeAtomic(c.path(key, ".txt"), []byte(body))
}

// writeAtomic writes to a temp file in the cache dir and renames it into
// place. Rename is the publish point.
func (c *Cache) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}

	return nil
}
