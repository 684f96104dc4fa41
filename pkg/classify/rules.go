package classify

import "regexp"

// ProtocolRule maps a protocol name to the URL markers that identify it.
// Table order is significant: the first rule whose marker appears in the
// URL decides the protocol, regardless of marker position in the string.
type ProtocolRule struct {
	Name    string
	Markers []string
}

// Rules is the immutable rule set driving URL classification. Construct
// categorizers with DefaultRules for production behavior, or with a custom
// set in tests.
type Rules struct {
	Protocols        []ProtocolRule
	MergeKeywords    []string
	PathPatterns     []*regexp.Regexp
	ConfigExtensions []string
	FilenameKeywords []string
	RawMirrorHost    string
}

// DefaultRules returns the production rule set.
func DefaultRules() Rules {
	return Rules{
		Protocols: []ProtocolRule{
			{Name: "ss", Markers: []string{"ss://"}},
			{Name: "shadowsocks", Markers: []string{"ss://", "shadowsocks"}},
			{Name: "vless", Markers: []string{"vless://"}},
			{Name: "vmess", Markers: []string{"vmess://"}},
			{Name: "trojan", Markers: []string{"trojan://"}},
			{Name: "hy2", Markers: []string{"hy2://", "hysteria2://"}},
			{Name: "hysteria", Markers: []string{"hysteria://"}},
			{Name: "v2ray", Markers: []string{"v2ray://"}},
		},
		MergeKeywords: []string{
			"all", "merge", "merged", "subscription", "sub", "collection",
			"aggregate", "combined", "complete", "total", "full",
		},
		PathPatterns: compilePathPatterns(),
		ConfigExtensions: []string{
			".txt", ".sub", ".conf", ".yaml", ".yml", ".json",
		},
		FilenameKeywords: []string{"config", "proxy", "node", "list"},
		RawMirrorHost:    "raw.githubusercontent.com",
	}
}

// compilePathPatterns returns the path-shape patterns recognized as
// merge/subscription endpoints. Anchored to the full (lowercased) URL.
func compilePathPatterns() []*regexp.Regexp {
	shapes := []string{
		`^.*/sub/.*\.txt$`,
		`^.*/config.*\.txt$`,
		`^.*/v2ray.*\.txt$`,
		`^.*/ss.*\.txt$`,
		`^.*/vmess.*\.txt$`,
		`^.*/vless.*\.txt$`,
		`^.*/trojan.*\.txt$`,
		`^.*/hy2.*\.txt$`,
		`^.*/shadowsocks.*\.txt$`,
		`^.*/all.*\.txt$`,
		`^.*/merge.*\.txt$`,
		`^.*/merged.*\.txt$`,
		`^.*/subscription.*\.txt$`,
		`^.*/sub_.*\.txt$`,
		`^.*all_configs.*\.txt$`,
		`^.*sub_merge.*\.txt$`,
	}

	patterns := make([]*regexp.Regexp, 0, len(shapes))
	for _, shape := range shapes {
		patterns = append(patterns, regexp.MustCompile(shape))
	}

	return patterns
}
