// Package search finds candidate repositories through the GitHub repository
// search API, with per-query caching and best-effort error handling: a
// failed query is logged and skipped, never fatal.
package search

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/Delta-Kronecker/V2Ray-GitHunter/internal/cache"
)

const searchEndpoint = "https://api.github.com/search/repositories"

// Searcher queries the repository search service.
type Searcher struct {
	client     *resty.Client
	cache      *cache.Cache
	log        zerolog.Logger
	endpoint   string
	keywords   []string
	maxResults int
}

// Config configures a Searcher. Keywords defaults to DefaultKeywords and
// MaxResults to 100 when zero-valued.
type Config struct {
	Token      string
	Keywords   []string
	MaxResults int
}

// New creates a Searcher. cache may be nil to disable caching.
func New(cfg Config, c *cache.Cache, log zerolog.Logger) *Searcher {
	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords()
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 100
	}

	client := resty.New().
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("Authorization", "Bearer "+cfg.Token)

	return &Searcher{
		client:     client,
		cache:      c,
		log:        log,
		endpoint:   searchEndpoint,
		keywords:   keywords,
		maxResults: maxResults,
	}
}

// queriesFor returns the query variants tried for one keyword, broadest
// scope first.
func queriesFor(keyword string) []string {
	return []string{
		fmt.Sprintf("%s in:name,description,readme", keyword),
		fmt.Sprintf("%s in:name,description", keyword),
		keyword,
	}
}

// Search runs every keyword's query variants and returns the deduplicated
// result sorted by stars descending. Individual query failures are logged
// and skipped.
func (s *Searcher) Search(ctx context.Context) []Repository {
	var repos []Repository

	seen := make(map[string]struct{})

	for _, keyword := range s.keywords {
		s.log.Debug().Str("keyword", keyword).Msg("searching repositories")

		for _, query := range queriesFor(keyword) {
			items, err := s.runQuery(ctx, query)
			if err != nil {
				s.log.Warn().Err(err).Str("query", query).Msg("search query failed, skipping")
				continue
			}

			for _, item := range items {
				if _, dup := seen[item.FullName]; dup {
					continue
				}

				seen[item.FullName] = struct{}{}
				repos = append(repos, item.toRepository(keyword))
			}
		}
	}

	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].Stars > repos[j].Stars
	})

	s.log.Info().Int("repositories", len(repos)).Msg("search complete")

	return repos
}

func (s *Searcher) runQuery(ctx context.Context, query string) ([]searchItem, error) {
	if s.cache != nil {
		var cached []searchItem
		if hit, _ := s.cache.GetJSON(query, &cached); hit {
			s.log.Debug().Str("query", query).Msg("search cache hit")
			return cached, nil
		}
	}

	perPage := s.maxResults
	if perPage > 100 {
		perPage = 100
	}

	var result searchResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        query,
			"sort":     "stars",
			"order":    "desc",
			"per_page": strconv.Itoa(perPage),
		}).
		SetResult(&result).
		Get(s.endpoint)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("search API returned %s", resp.Status())
	}

	items := result.Items
	if len(items) > s.maxResults {
		items = items[:s.maxResults]
	}

	if s.cache != nil {
		if err := s.cache.PutJSON(query, items); err != nil {
			s.log.Warn().Err(err).Str("query", query).Msg("failed to cache search results")
		}
	}

	return items, nil
}
