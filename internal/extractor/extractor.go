// Package extractor pulls candidate URLs out of fetched documents, combining
// a markup-aware pass over HTML with a regex sweep of the raw text.
package extractor

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor extracts URL strings from HTML or plain-text documents. It is
// stateless apart from its compiled pattern tables and safe for concurrent
// use.
type Extractor struct {
	patterns []*regexp.Regexp
}

// New creates an Extractor with the default pattern tables.
func New() *Extractor {
	return &Extractor{patterns: urlPatterns()}
}

// Extract returns the set of candidate URLs found in a document. When markup
// is true the document is parsed and anchor hrefs plus URL-bearing attributes
// on script/link/img/source elements are collected, with relative values
// resolved against baseURL. The regex sweep over the raw text runs either
// way and its matches are unioned in. A failed markup parse degrades to the
// regex sweep alone.
func (e *Extractor) Extract(document, baseURL string, markup bool) map[string]struct{} {
	links := make(map[string]struct{})

	if markup {
		e.extractFromMarkup(document, baseURL, links)
	}

	e.extractFromText(document, links)

	return links
}

// IsMarkup reports whether a document looks like an HTML page rather than a
// raw text file.
func (e *Extractor) IsMarkup(document string) bool {
	trimmed := strings.TrimSpace(document)

	return strings.HasPrefix(trimmed, "<!DOCTYPE") || strings.HasPrefix(trimmed, "<html")
}

func (e *Extractor) extractFromMarkup(document, baseURL string, links map[string]struct{}) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		// Parse failure is local: the regex sweep still runs.
		return
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		addCandidate(links, href, baseURL)
	})

	selector := strings.Join(attrTags, ", ")
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range attrNames {
			if value, ok := sel.Attr(attr); ok {
				addCandidate(links, strings.TrimSpace(value), baseURL)
			}
		}
	})
}

func (e *Extractor) extractFromText(document string, links map[string]struct{}) {
	for _, pattern := range e.patterns {
		for _, match := range pattern.FindAllString(document, -1) {
			cleaned := cleanMatch(match)
			if cleaned != "" {
				links[cleaned] = struct{}{}
			}
		}
	}
}

// addCandidate records an attribute value from the markup pass, resolving
// relative values against the page URL. Fragments and empty values are
// discarded.
func addCandidate(links map[string]struct{}, value, baseURL string) {
	if value == "" || strings.HasPrefix(value, "#") {
		return
	}

	if baseURL != "" && !isAbsolute(value) {
		resolved, err := resolveAgainst(baseURL, value)
		if err != nil {
			return
		}

		value = resolved
	}

	links[value] = struct{}{}
}

func isAbsolute(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

func resolveAgainst(baseURL, ref string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return "", err
	}

	return base.ResolveReference(parsed).String(), nil
}

// cleanMatch strips trailing punctuation from a regex match and upgrades
// bare www. matches to https URLs.
func cleanMatch(match string) string {
	cleaned := strings.TrimRight(match, trailingPunctuation)
	if strings.HasPrefix(cleaned, "www.") {
		cleaned = "https://" + cleaned
	}

	return cleaned
}
