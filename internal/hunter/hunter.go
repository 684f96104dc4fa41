// Package hunter orchestrates the full pipeline: repository search, page
// fetch fan-out, link extraction, classification, and report generation.
// Per-unit failures are logged and skipped under one policy; only missing
// configuration and output-write failures abort a run.
package hunter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Delta-Kronecker/V2Ray-GitHunter/internal/cache"
	"github.com/Delta-Kronecker/V2Ray-GitHunter/internal/extractor"
	"github.com/Delta-Kronecker/V2Ray-GitHunter/internal/fetch"
	"github.com/Delta-Kronecker/V2Ray-GitHunter/internal/report"
	"github.com/Delta-Kronecker/V2Ray-GitHunter/internal/search"
	"github.com/Delta-Kronecker/V2Ray-GitHunter/pkg/classify"
)

// Config holds the knobs for one hunt run.
type Config struct {
	Token      string
	Keywords   []string
	MaxResults int
	Workers    int
	Timeout    time.Duration
	CacheTTL   time.Duration
	CacheDir   string
	DataDir    string
	OutputDir  string
	NoCache    bool
}

// Outcome summarizes a completed run.
type Outcome struct {
	Report            *report.Report
	OutputFiles       []string
	RepositoriesFound int
	SourcesFetched    int
	LinksExtracted    int
}

// Hunter runs the pipeline.
type Hunter struct {
	cfg         Config
	log         zerolog.Logger
	searcher    *search.Searcher
	fetcher     *fetch.Fetcher
	extractor   *extractor.Extractor
	categorizer *classify.Categorizer
}

// New creates a Hunter. The token is required; everything else has a
// default.
func New(cfg Config, log zerolog.Logger) (*Hunter, error) {
	if cfg.Token == "" {
		return nil, errors.New("missing GitHub token")
	}

	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}

	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Join("data", "cache")
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}

	var c *cache.Cache

	if !cfg.NoCache {
		var err error

		c, err = cache.New(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("init cache: %w", err)
		}
	}

	return &Hunter{
		cfg: cfg,
		log: log,
		searcher: search.New(search.Config{
			Token:      cfg.Token,
			Keywords:   cfg.Keywords,
			MaxResults: cfg.MaxResults,
		}, c, log),
		fetcher:     fetch.NewFetcher(cfg.Timeout, c, log),
		extractor:   extractor.New(),
		categorizer: classify.NewCategorizer(classify.DefaultRules()),
	}, nil
}

// Run executes search, fetch, extraction, and reporting. An empty stage
// result ends the run cleanly with a partial Outcome.
func (h *Hunter) Run(ctx context.Context) (*Outcome, error) {
	outcome := &Outcome{}

	repos := h.searcher.Search(ctx)
	outcome.RepositoriesFound = len(repos)

	if len(repos) == 0 {
		h.log.Info().Msg("no repositories found")
		return outcome, nil
	}

	fetched := h.fetchSources(ctx, repos)
	outcome.SourcesFetched = len(fetched)

	if len(fetched) == 0 {
		h.log.Info().Msg("no sources fetched")
		return outcome, nil
	}

	withLinks := h.extractLinks(fetched)
	outcome.LinksExtracted = len(withLinks)

	if len(withLinks) == 0 {
		h.log.Info().Msg("no links extracted")
		return outcome, nil
	}

	rep := report.NewBuilder(h.categorizer).Build(withLinks)
	outcome.Report = rep

	paths, err := rep.WriteAll(h.cfg.OutputDir)
	if err != nil {
		return outcome, fmt.Errorf("write outputs: %w", err)
	}

	outcome.OutputFiles = paths

	if _, err := report.WriteRunSummary(h.cfg.OutputDir, report.RunSummary{
		Timestamp:              time.Now(),
		TotalRepositoriesFound: outcome.RepositoriesFound,
		SourcesFetched:         outcome.SourcesFetched,
		LinksExtracted:         outcome.LinksExtracted,
		OutputFiles:            paths,
	}); err != nil {
		return outcome, fmt.Errorf("write run summary: %w", err)
	}

	return outcome, nil
}

// fetchedSource pairs a repository with its fetched page body.
type fetchedSource struct {
	repo search.Repository
	body string
}

// fetchSources fans page fetches out over the worker pool. Results are
// collected in completion order and re-sorted by submission index so every
// downstream artifact is reproducible for a given search result.
func (h *Hunter) fetchSources(ctx context.Context, repos []search.Repository) []fetchedSource {
	pool := fetch.NewPool(h.fetcher, h.cfg.Workers)

	urls := make([]string, len(repos))
	for i, repo := range repos {
		urls[i] = repo.HTMLURL
	}

	results := pool.FetchAll(ctx, urls)

	sort.Slice(results, func(i, j int) bool {
		return results[i].Task.Index < results[j].Task.Index
	})

	sourcesDir := filepath.Join(h.cfg.DataDir, "sources")
	if err := os.MkdirAll(sourcesDir, 0o755); err != nil {
		h.log.Warn().Err(err).Msg("cannot create sources dir, skipping source snapshots")

		sourcesDir = ""
	}

	var fetched []fetchedSource

	for _, result := range results {
		repo := repos[result.Task.Index]

		if result.Err != nil {
			h.log.Warn().Err(result.Err).Str("repo", repo.FullName).Msg("fetch failed, skipping repository")
			continue
		}

		if result.Body == "" {
			continue
		}

		if sourcesDir != "" {
			path := filepath.Join(sourcesDir, safeName(repo)+".html")
			if err := os.WriteFile(path, []byte(result.Body), 0o644); err != nil {
				h.log.Warn().Err(err).Str("repo", repo.FullName).Msg("failed to save source snapshot")
			}
		}

		fetched = append(fetched, fetchedSource{repo: repo, body: result.Body})
	}

	h.log.Info().Int("fetched", len(fetched)).Int("requested", len(repos)).Msg("sources fetched")

	return fetched
}

// extractLinks runs the extraction layer over every fetched source and
// writes the per-repository link list under the data dir. Repositories
// yielding no links are omitted downstream.
func (h *Hunter) extractLinks(sources []fetchedSource) []report.RepositoryLinks {
	linksDir := filepath.Join(h.cfg.DataDir, "links")
	if err := os.MkdirAll(linksDir, 0o755); err != nil {
		h.log.Warn().Err(err).Msg("cannot create links dir, skipping link snapshots")

		linksDir = ""
	}

	var withLinks []report.RepositoryLinks

	for _, source := range sources {
		markup := h.extractor.IsMarkup(source.body)
		linkSet := h.extractor.Extract(source.body, source.repo.HTMLURL, markup)

		if len(linkSet) == 0 {
			h.log.Debug().Str("repo", source.repo.FullName).Msg("no links extracted, skipping repository")
			continue
		}

		links := make([]string, 0, len(linkSet))
		for link := range linkSet {
			links = append(links, link)
		}

		sort.Strings(links)

		if linksDir != "" {
			path := filepath.Join(linksDir, safeName(source.repo)+"_links.txt")
			if err := os.WriteFile(path, []byte(strings.Join(links, "\n")+"\n"), 0o644); err != nil {
				h.log.Warn().Err(err).Str("repo", source.repo.FullName).Msg("failed to save link snapshot")
			}
		}

		withLinks = append(withLinks, report.RepositoryLinks{Repo: source.repo, Links: links})
	}

	h.log.Info().Int("repositories", len(withLinks)).Msg("links extracted")

	return withLinks
}

// safeName flattens owner/name into a filesystem-safe stem.
func safeName(repo search.Repository) string {
	name := repo.Owner + "_" + repo.Name

	replacer := strings.NewReplacer("/", "_", "\\", "_")

	return replacer.Replace(name)
}
