package classify

import "strings"

// Matcher applies the rule set's predicates to single URLs. It holds no
// mutable state and performs no I/O.
type Matcher struct {
	rules Rules
}

// NewMatcher creates a Matcher over the given rule set.
func NewMatcher(rules Rules) *Matcher {
	return &Matcher{rules: rules}
}

// MatchProtocol reports whether the URL carries a proxy-protocol marker and,
// if so, which protocol. Rules are checked in table order; the first rule
// with a marker present wins even when markers of later rules also appear.
// Scheme markers only count at a non-alphanumeric boundary, otherwise the
// "ss://" inside every "vmess://" would shadow the vmess rule.
func (m *Matcher) MatchProtocol(url string) (protocol string, ok bool) {
	lower := strings.ToLower(url)

	for _, rule := range m.rules.Protocols {
		for _, marker := range rule.Markers {
			if markerPresent(lower, marker) {
				return rule.Name, true
			}
		}
	}

	return "", false
}

// markerPresent reports whether marker occurs in s. Scheme markers (those
// containing "://") must start the string or follow a non-alphanumeric byte;
// plain keywords match anywhere.
func markerPresent(s, marker string) bool {
	if !strings.Contains(marker, "://") {
		return strings.Contains(s, marker)
	}

	for from := 0; ; {
		idx := strings.Index(s[from:], marker)
		if idx < 0 {
			return false
		}

		idx += from
		if idx == 0 || !isAlphanumeric(s[idx-1]) {
			return true
		}

		from = idx + 1
	}
}

func isAlphanumeric(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// MatchMerge reports whether the URL looks like a merge/subscription file:
// either a merge keyword appears anywhere in the lowercased URL, or the URL
// matches one of the path-shape patterns. Keyword matching is deliberately
// loose ("subdomain" matches "sub"); recall is preferred over precision.
func (m *Matcher) MatchMerge(url string) bool {
	lower := strings.ToLower(url)

	for _, keyword := range m.rules.MergeKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	for _, pattern := range m.rules.PathPatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}

	return false
}

// MatchConfigFile reports whether the URL points at a configuration file:
// either it ends with a known config extension, or it lives on the raw
// mirror host and its filename segment contains a merge or config keyword.
func (m *Matcher) MatchConfigFile(url string) bool {
	lower := strings.ToLower(url)

	for _, ext := range m.rules.ConfigExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}

	if m.IsRawMirror(lower) {
		filename := lower
		if idx := strings.LastIndex(lower, "/"); idx >= 0 {
			filename = lower[idx+1:]
		}

		for _, keyword := range m.rules.MergeKeywords {
			if strings.Contains(filename, keyword) {
				return true
			}
		}

		for _, keyword := range m.rules.FilenameKeywords {
			if strings.Contains(filename, keyword) {
				return true
			}
		}
	}

	return false
}

// IsRawMirror reports whether the URL is hosted on the raw-content mirror.
func (m *Matcher) IsRawMirror(url string) bool {
	if m.rules.RawMirrorHost == "" {
		return false
	}

	return strings.Contains(strings.ToLower(url), m.rules.RawMirrorHost)
}
