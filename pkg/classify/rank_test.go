package classify

import "testing"

func TestFilterLinksPartition(t *testing.T) {
	c := NewCategorizer(DefaultRules())

	urls := []string{
		"vmess://abcd1234",
		"https://example.com/readme",
		"https://raw.githubusercontent.com/u/r/main/all_configs.txt",
		"https://example.com/clash.yaml",
		"https://raw.githubusercontent.com/u/r/main/x.png",
		"ss://cfg@host:1",
	}

	buckets := c.FilterLinks(urls)

	if len(buckets) != len(Categories) {
		t.Errorf("bucket count = %d, want %d", len(buckets), len(Categories))
	}

	for _, cat := range Categories {
		if _, ok := buckets[cat]; !ok {
			t.Errorf("missing bucket %q", cat)
		}
	}

	total := 0
	seen := make(map[string]int)

	for _, links := range buckets {
		total += len(links)
		for _, link := range links {
			seen[link.URL]++
		}
	}

	if total != len(urls) {
		t.Errorf("partition size = %d, want %d", total, len(urls))
	}

	for _, u := range urls {
		if seen[u] != 1 {
			t.Errorf("url %q appears in %d buckets, want exactly 1", u, seen[u])
		}
	}
}

func TestFilterLinksPreservesInputOrder(t *testing.T) {
	c := NewCategorizer(DefaultRules())

	urls := []string{
		"vmess://first",
		"trojan://second",
		"ss://third@h:1",
	}

	buckets := c.FilterLinks(urls)

	bucket := buckets[CategoryProxyProtocol]
	if len(bucket) != 3 {
		t.Fatalf("proxy_protocol bucket size = %d, want 3", len(bucket))
	}

	for i, u := range urls {
		if bucket[i].URL != u {
			t.Errorf("bucket[%d] = %q, want %q", i, bucket[i].URL, u)
		}
	}
}

func TestHighPriority(t *testing.T) {
	c := NewCategorizer(DefaultRules())

	urls := []string{
		"https://raw.githubusercontent.com/u/r/main/all_configs.txt",
		"https://example.com/readme",
		"vmess://abcd1234",
	}

	high := c.HighPriority(urls)

	if len(high) != 2 {
		t.Fatalf("high priority count = %d, want 2", len(high))
	}

	// Priority order: the proxy_protocol entry sorts before the
	// merge_subscription entry regardless of input order.
	if high[0].URL != "vmess://abcd1234" {
		t.Errorf("high[0] = %q, want vmess link first", high[0].URL)
	}

	if high[1].Category != CategoryMergeSubscription {
		t.Errorf("high[1].Category = %q, want merge_subscription", high[1].Category)
	}
}

func TestHighPriorityEmptyWithoutMarkers(t *testing.T) {
	c := NewCategorizer(DefaultRules())

	urls := []string{
		"https://example.com/readme",
		"https://example.org/index.html",
		"not a url at all",
	}

	if high := c.HighPriority(urls); len(high) != 0 {
		t.Errorf("high priority count = %d, want 0", len(high))
	}
}

func TestHighPrioritySortIsStable(t *testing.T) {
	c := NewCategorizer(DefaultRules())

	urls := []string{
		"https://example.com/merged-a",
		"vmess://z",
		"https://example.com/merged-b",
		"trojan://a",
	}

	high := c.HighPriority(urls)

	if len(high) != 4 {
		t.Fatalf("high priority count = %d, want 4", len(high))
	}

	want := []string{
		"vmess://z",
		"trojan://a",
		"https://example.com/merged-a",
		"https://example.com/merged-b",
	}

	for i, u := range want {
		if high[i].URL != u {
			t.Errorf("high[%d] = %q, want %q", i, high[i].URL, u)
		}
	}
}

func TestHighPriorityIsSubsetOfHighBuckets(t *testing.T) {
	c := NewCategorizer(DefaultRules())

	urls := []string{
		"vmess://a",
		"https://example.com/sub/list.txt",
		"https://example.com/clash.yaml",
		"https://raw.githubusercontent.com/u/r/x.png",
		"https://example.com/readme",
	}

	allowed := make(map[string]struct{})
	buckets := c.FilterLinks(urls)

	for _, link := range buckets[CategoryProxyProtocol] {
		allowed[link.URL] = struct{}{}
	}

	for _, link := range buckets[CategoryMergeSubscription] {
		allowed[link.URL] = struct{}{}
	}

	for _, link := range c.HighPriority(urls) {
		if _, ok := allowed[link.URL]; !ok {
			t.Errorf("high-priority link %q not in proxy/merge buckets", link.URL)
		}
	}
}

func TestGroupByDomain(t *testing.T) {
	links := []Link{
		{URL: "https://Example.COM/a.txt"},
		{URL: "https://example.com/b.txt"},
		{URL: "https://raw.githubusercontent.com/u/r/c.txt"},
		{URL: "://not-parseable"},
		{URL: "vmess://abcd"},
	}

	groups := GroupByDomain(links)

	if len(groups["example.com"]) != 2 {
		t.Errorf("example.com group size = %d, want 2", len(groups["example.com"]))
	}

	if len(groups["raw.githubusercontent.com"]) != 1 {
		t.Errorf("raw mirror group size = %d, want 1", len(groups["raw.githubusercontent.com"]))
	}

	if _, ok := groups[""]; ok {
		t.Error("unparseable URLs must contribute to no domain bucket")
	}
}

func TestExtractConfigs(t *testing.T) {
	content := "nodes:\nvmess://abc123\nVMESS://abc123\ntrojan://def456 and ss://ghi789\nplain text"

	configs := ExtractConfigs(content)

	found := make(map[string]bool)
	for _, cfg := range configs {
		found[cfg] = true
	}

	for _, want := range []string{"vmess://abc123", "VMESS://abc123", "trojan://def456", "ss://ghi789"} {
		if !found[want] {
			t.Errorf("expected config %q in %v", want, configs)
		}
	}

	// Duplicates collapse.
	seen := make(map[string]int)
	for _, cfg := range configs {
		seen[cfg]++
	}

	for cfg, n := range seen {
		if n != 1 {
			t.Errorf("config %q extracted %d times", cfg, n)
		}
	}
}

func TestValidConfig(t *testing.T) {
	c := NewCategorizer(DefaultRules())

	testCases := []struct {
		config string
		want   bool
	}{
		{"vmess://eyJhZGQiOiIxLjIuMy40In0=", true},
		{"ss://YWJjZGVm@host:8388", true},
		{"vmess://", false},     // too short
		{"no-scheme-here", false},
		{"gopher://abcdefghij", false}, // unknown scheme
	}

	for _, tc := range testCases {
		t.Run(tc.config, func(t *testing.T) {
			if got := c.ValidConfig(tc.config); got != tc.want {
				t.Errorf("ValidConfig(%q) = %t, want %t", tc.config, got, tc.want)
			}
		})
	}
}
