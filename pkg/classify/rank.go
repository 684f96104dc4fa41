package classify

import (
	"net/url"
	"sort"
	"strings"
)

// categoryRank orders categories for the high-priority sort. Categories
// missing from the map (raw_file, other, anything unknown) share the
// last rank and keep their relative input order.
var categoryRank = map[Category]int{
	CategoryProxyProtocol:     0,
	CategoryMergeSubscription: 1,
	CategoryConfigFile:        2,
}

const unrankedCategory = 99

func rankOf(c Category) int {
	if r, ok := categoryRank[c]; ok {
		return r
	}

	return unrankedCategory
}

// FilterLinks partitions a URL collection into the five named buckets.
// Every bucket is present in the result, empty or not; within a bucket the
// input iteration order is preserved. The result is rebuilt from scratch on
// every call.
func (c *Categorizer) FilterLinks(urls []string) map[Category][]Link {
	buckets := make(map[Category][]Link, len(Categories))
	for _, cat := range Categories {
		buckets[cat] = []Link{}
	}

	for _, u := range urls {
		link := c.Categorize(u)
		buckets[link.Category] = append(buckets[link.Category], link)
	}

	return buckets
}

// HighPriority selects the proxy-protocol and merge/subscription links from
// a URL collection and orders them by category priority. The sort is stable:
// links of equal rank keep their relative input order.
func (c *Categorizer) HighPriority(urls []string) []Link {
	var selected []Link

	for _, u := range urls {
		link := c.Categorize(u)
		if link.IsProxyProtocol || link.IsMergeSubscription {
			selected = append(selected, link)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return rankOf(selected[i].Category) < rankOf(selected[j].Category)
	})

	return selected
}

// Domain extracts the lowercased host component of a URL, or "" when the
// URL does not parse or has no host.
func Domain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return strings.ToLower(parsed.Host)
}

// GroupByDomain groups classification records by the lowercased host of
// their URL. Records whose URL yields no host contribute to no group.
func GroupByDomain(links []Link) map[string][]Link {
	groups := make(map[string][]Link)

	for _, link := range links {
		domain := Domain(link.URL)
		if domain == "" {
			continue
		}

		groups[domain] = append(groups[domain], link)
	}

	return groups
}
