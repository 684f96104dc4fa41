// Package report folds classified link sets into repository-level and
// corpus-level summaries and writes them out as JSON, CSV, markdown, and a
// flat link list. It performs no classification itself.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Delta-Kronecker/V2Ray-GitHunter/internal/search"
	"github.com/Delta-Kronecker/V2Ray-GitHunter/pkg/classify"
)

// RepositoryLinks pairs a repository descriptor with the URL set extracted
// from its fetched page.
type RepositoryLinks struct {
	Repo  search.Repository
	Links []string
}

// Metadata describes one report run.
type Metadata struct {
	RunID                  string    `json:"run_id"`
	GeneratedAt            time.Time `json:"generated_at"`
	TotalRepositories      int       `json:"total_repositories"`
	TotalLinks             int       `json:"total_links"`
	ProxyProtocolLinks     int       `json:"proxy_protocol_links"`
	MergeSubscriptionLinks int       `json:"merge_subscription_links"`
	ConfigFiles            int       `json:"config_files"`
}

// RepositoryReport is the per-repository slice of the report.
type RepositoryReport struct {
	Name              string                         `json:"name"`
	FullName          string                         `json:"full_name"`
	Owner             string                         `json:"owner"`
	HTMLURL           string                         `json:"html_url"`
	Description       string                         `json:"description"`
	Stars             int                            `json:"stars"`
	Forks             int                            `json:"forks"`
	Language          string                         `json:"language"`
	UpdatedAt         *time.Time                     `json:"updated_at,omitempty"`
	SearchKeyword     string                         `json:"search_keyword"`
	LinksCount        int                            `json:"links_count"`
	CategorizedLinks  map[classify.Category][]string `json:"categorized_links"`
	HighPriorityLinks []string                       `json:"high_priority_links"`
	HighPriorityCount int                            `json:"high_priority_count"`
}

// Summary is the corpus-level slice of the report.
type Summary struct {
	ByProtocol        map[string]int `json:"by_protocol"`
	ByDomain          map[string]int `json:"by_domain"`
	HighPriorityLinks []string       `json:"high_priority_links"`
}

// Report is the complete output contract.
type Report struct {
	Metadata     Metadata           `json:"metadata"`
	Repositories []RepositoryReport `json:"repositories"`
	Summary      Summary            `json:"summary"`
}

// Builder folds repository link sets into a Report using a shared
// categorizer.
type Builder struct {
	categorizer *classify.Categorizer
	now         func() time.Time
}

// NewBuilder creates a Builder over the given categorizer.
func NewBuilder(categorizer *classify.Categorizer) *Builder {
	return &Builder{categorizer: categorizer, now: time.Now}
}

// Build produces the full report for a set of repositories. Repository
// order in the output follows input order; the corpus-wide high-priority
// list is deduplicated and sorted lexicographically for stable output.
func (b *Builder) Build(repos []RepositoryLinks) *Report {
	rep := &Report{
		Metadata: Metadata{
			RunID:             uuid.NewString(),
			GeneratedAt:       b.now(),
			TotalRepositories: len(repos),
		},
		Repositories: make([]RepositoryReport, 0, len(repos)),
		Summary: Summary{
			ByProtocol: make(map[string]int),
			ByDomain:   make(map[string]int),
		},
	}

	var allLinks []string

	highPrioritySet := make(map[string]struct{})

	for _, entry := range repos {
		buckets := b.categorizer.FilterLinks(entry.Links)
		high := b.categorizer.HighPriority(entry.Links)

		categorized := make(map[classify.Category][]string, len(classify.Categories))
		for _, cat := range classify.Categories {
			categorized[cat] = urlsOf(buckets[cat])
		}

		highURLs := urlsOf(high)

		rep.Repositories = append(rep.Repositories, RepositoryReport{
			Name:              entry.Repo.Name,
			FullName:          entry.Repo.FullName,
			Owner:             entry.Repo.Owner,
			HTMLURL:           entry.Repo.HTMLURL,
			Description:       entry.Repo.Description,
			Stars:             entry.Repo.Stars,
			Forks:             entry.Repo.Forks,
			Language:          entry.Repo.Language,
			UpdatedAt:         entry.Repo.UpdatedAt,
			SearchKeyword:     entry.Repo.SearchKeyword,
			LinksCount:        len(entry.Links),
			CategorizedLinks:  categorized,
			HighPriorityLinks: highURLs,
			HighPriorityCount: len(high),
		})

		rep.Metadata.TotalLinks += len(entry.Links)
		rep.Metadata.ProxyProtocolLinks += len(buckets[classify.CategoryProxyProtocol])
		rep.Metadata.MergeSubscriptionLinks += len(buckets[classify.CategoryMergeSubscription])
		rep.Metadata.ConfigFiles += len(buckets[classify.CategoryConfigFile])

		allLinks = append(allLinks, entry.Links...)

		for _, u := range highURLs {
			highPrioritySet[u] = struct{}{}
		}
	}

	rep.Summary.HighPriorityLinks = sortedKeys(highPrioritySet)

	corpusBuckets := b.categorizer.FilterLinks(allLinks)
	for _, link := range corpusBuckets[classify.CategoryProxyProtocol] {
		rep.Summary.ByProtocol[link.ProtocolType]++
	}

	var corpusLinks []classify.Link
	for _, u := range allLinks {
		corpusLinks = append(corpusLinks, b.categorizer.Categorize(u))
	}

	for domain, links := range classify.GroupByDomain(corpusLinks) {
		rep.Summary.ByDomain[domain] = len(links)
	}

	return rep
}

// TopRepositories returns up to limit repositories ordered by descending
// high-priority link count. The sort is stable, so equal counts keep report
// order.
func (r *Report) TopRepositories(limit int) []RepositoryReport {
	top := make([]RepositoryReport, len(r.Repositories))
	copy(top, r.Repositories)

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].HighPriorityCount > top[j].HighPriorityCount
	})

	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}

	return top
}

func urlsOf(links []classify.Link) []string {
	urls := make([]string, 0, len(links))
	for _, link := range links {
		urls = append(urls, link.URL)
	}

	return urls
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
