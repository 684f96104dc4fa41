package hunter

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Delta-Kronecker/V2Ray-GitHunter/internal/extractor"
	"github.com/Delta-Kronecker/V2Ray-GitHunter/internal/search"
	"github.com/Delta-Kronecker/V2Ray-GitHunter/pkg/classify"
)

func TestNewRequiresToken(t *testing.T) {
	if _, err := New(Config{}, zerolog.Nop()); err == nil {
		t.Error("expected error when token is missing")
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	dir := t.TempDir()

	h, err := New(Config{
		Token:    "t",
		CacheDir: filepath.Join(dir, "cache"),
		DataDir:  filepath.Join(dir, "data"),
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if h.cfg.Workers != 8 {
		t.Errorf("Workers = %d, want default 8", h.cfg.Workers)
	}

	if h.cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want default 30s", h.cfg.Timeout)
	}

	if h.cfg.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want default 24h", h.cfg.CacheTTL)
	}
}

func TestExtractLinksSkipsEmptyAndSortsOutput(t *testing.T) {
	dir := t.TempDir()

	h := &Hunter{
		cfg:         Config{DataDir: dir},
		log:         zerolog.Nop(),
		extractor:   extractor.New(),
		categorizer: classify.NewCategorizer(classify.DefaultRules()),
	}

	sources := []fetchedSource{
		{
			repo: search.Repository{Name: "collector", Owner: "alice", FullName: "alice/collector", HTMLURL: "https://github.com/alice/collector"},
			body: `<html><body><a href="https://x/b.txt">b</a><a href="https://x/a.txt">a</a></body></html>`,
		},
		{
			repo: search.Repository{Name: "empty", Owner: "bob", FullName: "bob/empty"},
			body: "nothing to see here",
		},
	}

	withLinks := h.extractLinks(sources)

	if len(withLinks) != 1 {
		t.Fatalf("repositories with links = %d, want 1 (empty repo omitted)", len(withLinks))
	}

	links := withLinks[0].Links
	if len(links) != 2 {
		t.Fatalf("link count = %d, want 2", len(links))
	}

	if links[0] != "https://x/a.txt" || links[1] != "https://x/b.txt" {
		t.Errorf("links not sorted: %v", links)
	}
}

func TestSafeName(t *testing.T) {
	repo := search.Repository{Owner: "a/b", Name: "c\\d"}

	if got := safeName(repo); got != "a_b_c_d" {
		t.Errorf("safeName = %q, want a_b_c_d", got)
	}
}
