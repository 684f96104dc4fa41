package classify

import (
	"regexp"
	"strings"
)

// configPatterns match bare proxy configuration URIs embedded in fetched
// payload text (subscription files, READMEs). A config runs from its scheme
// marker to the first whitespace, quote, backtick, or angle bracket.
var configPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ss://[^\s<>"'` + "`" + `]+`),
	regexp.MustCompile(`(?i)vmess://[^\s<>"'` + "`" + `]+`),
	regexp.MustCompile(`(?i)vless://[^\s<>"'` + "`" + `]+`),
	regexp.MustCompile(`(?i)trojan://[^\s<>"'` + "`" + `]+`),
	regexp.MustCompile(`(?i)hy2://[^\s<>"'` + "`" + `]+`),
	regexp.MustCompile(`(?i)hysteria2?://[^\s<>"'` + "`" + `]+`),
	regexp.MustCompile(`(?i)v2ray://[^\s<>"'` + "`" + `]+`),
}

// minConfigLength is the shortest string that can plausibly be a complete
// proxy configuration URI.
const minConfigLength = 10

// ExtractConfigs scans raw payload text for proxy configuration URIs and
// returns them deduplicated. Order is not significant.
func ExtractConfigs(content string) []string {
	seen := make(map[string]struct{})

	var configs []string

	for _, pattern := range configPatterns {
		for _, match := range pattern.FindAllString(content, -1) {
			if _, dup := seen[match]; dup {
				continue
			}

			seen[match] = struct{}{}
			configs = append(configs, match)
		}
	}

	return configs
}

// ValidConfig performs a structural sanity check on a proxy configuration
// URI: known scheme, reasonable length. It does not connect to anything.
func (c *Categorizer) ValidConfig(config string) bool {
	scheme, _, found := strings.Cut(config, "://")
	if !found {
		return false
	}

	scheme = strings.ToLower(scheme)

	known := false

	for _, rule := range c.matcher.rules.Protocols {
		if rule.Name == scheme {
			known = true
			break
		}
	}

	return known && len(config) >= minConfigLength
}
