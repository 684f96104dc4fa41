// Package classify implements the rule engine that assigns scraped URLs to
// proxy-related categories and derives the high-priority subset used by the
// report layer.
package classify

// Category names the mutually exclusive bucket a link belongs to.
type Category string

const (
	CategoryProxyProtocol     Category = "proxy_protocol"
	CategoryMergeSubscription Category = "merge_subscription"
	CategoryConfigFile        Category = "config_file"
	CategoryRawFile           Category = "raw_file"
	CategoryOther             Category = "other"
)

// Categories lists every known category in priority order.
var Categories = []Category{
	CategoryProxyProtocol,
	CategoryMergeSubscription,
	CategoryConfigFile,
	CategoryRawFile,
	CategoryOther,
}

// Link is the classification record for a single URL. The three boolean
// flags are independent of each other; Category alone is exclusive and is
// assigned by strict priority (proxy_protocol > merge_subscription >
// config_file > raw_file > other). ProtocolType is empty unless
// IsProxyProtocol is true.
type Link struct {
	URL                 string   `json:"url"`
	IsProxyProtocol     bool     `json:"is_proxy_protocol"`
	ProtocolType        string   `json:"protocol_type"`
	IsMergeSubscription bool     `json:"is_merge_subscription"`
	IsConfigFile        bool     `json:"is_config_file"`
	Category            Category `json:"category"`
}

// Categorizer classifies URLs using an immutable rule set. It is pure:
// no side effects, no network access, identical output for identical input.
type Categorizer struct {
	matcher *Matcher
}

// NewCategorizer creates a Categorizer over the given rule set.
func NewCategorizer(rules Rules) *Categorizer {
	return &Categorizer{matcher: NewMatcher(rules)}
}

// Categorize produces the classification record for a URL. Flags are set
// from each predicate independently; the category is the highest-priority
// predicate that matched, with the raw-mirror fallback catching mirror URLs
// that matched nothing else. Empty or malformed URLs fail every predicate
// and land in "other".
func (c *Categorizer) Categorize(url string) Link {
	link := Link{
		URL:      url,
		Category: CategoryOther,
	}

	if protocol, ok := c.matcher.MatchProtocol(url); ok {
		link.IsProxyProtocol = true
		link.ProtocolType = protocol
		link.Category = CategoryProxyProtocol
	}

	if c.matcher.MatchMerge(url) {
		link.IsMergeSubscription = true
		if link.Category == CategoryOther {
			link.Category = CategoryMergeSubscription
		}
	}

	if c.matcher.MatchConfigFile(url) {
		link.IsConfigFile = true
		if link.Category == CategoryOther {
			link.Category = CategoryConfigFile
		}
	}

	if link.Category == CategoryOther && c.matcher.IsRawMirror(url) {
		link.Category = CategoryRawFile
	}

	return link
}
