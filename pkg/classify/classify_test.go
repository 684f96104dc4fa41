package classify

import "testing"

func TestCategorize(t *testing.T) {
	c := NewCategorizer(DefaultRules())

	testCases := []struct {
		name         string
		url          string
		category     Category
		protocol     string
		isProxy      bool
		isMerge      bool
		isConfigFile bool
	}{
		{
			name:     "vmess link",
			url:      "vmess://abcd1234",
			category: CategoryProxyProtocol,
			protocol: "vmess",
			isProxy:  true,
		},
		{
			name:     "ss link wins first table entry",
			url:      "ss://YWVzLTI1Ni1nY206cGFzcw==@host:8388",
			category: CategoryProxyProtocol,
			protocol: "ss",
			isProxy:  true,
		},
		{
			name:     "shadowsocks keyword without scheme",
			url:      "https://example.com/shadowsocks-setup",
			category: CategoryProxyProtocol,
			protocol: "shadowsocks",
			isProxy:  true,
		},
		{
			name:         "raw mirror all_configs is merge before raw fallback",
			url:          "https://raw.githubusercontent.com/u/r/main/all_configs.txt",
			category:     CategoryMergeSubscription,
			isMerge:      true,
			isConfigFile: true,
		},
		{
			name:     "plain readme is other",
			url:      "https://example.com/readme",
			category: CategoryOther,
		},
		{
			name:         "yaml config file",
			url:          "https://example.com/clash.yaml",
			category:     CategoryConfigFile,
			isConfigFile: true,
		},
		{
			name:     "raw mirror without any predicate",
			url:      "https://raw.githubusercontent.com/u/r/main/x.png",
			category: CategoryRawFile,
		},
		{
			name:     "empty url falls to other",
			url:      "",
			category: CategoryOther,
		},
		{
			name:     "subdomain matches sub keyword",
			url:      "https://subdomain.example.com/page",
			category: CategoryMergeSubscription,
			isMerge:  true,
		},
		{
			name:         "hysteria2 scheme maps to hy2",
			url:          "hysteria2://token@host:443/?insecure=1#node.txt",
			category:     CategoryProxyProtocol,
			protocol:     "hy2",
			isProxy:      true,
			isConfigFile: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			link := c.Categorize(tc.url)

			if link.URL != tc.url {
				t.Errorf("URL = %q, want %q", link.URL, tc.url)
			}

			if link.Category != tc.category {
				t.Errorf("Category = %q, want %q", link.Category, tc.category)
			}

			if link.ProtocolType != tc.protocol {
				t.Errorf("ProtocolType = %q, want %q", link.ProtocolType, tc.protocol)
			}

			if link.IsProxyProtocol != tc.isProxy {
				t.Errorf("IsProxyProtocol = %t, want %t", link.IsProxyProtocol, tc.isProxy)
			}

			if link.IsMergeSubscription != tc.isMerge {
				t.Errorf("IsMergeSubscription = %t, want %t", link.IsMergeSubscription, tc.isMerge)
			}

			if link.IsConfigFile != tc.isConfigFile {
				t.Errorf("IsConfigFile = %t, want %t", link.IsConfigFile, tc.isConfigFile)
			}
		})
	}
}

func TestCategorizeIsPure(t *testing.T) {
	c := NewCategorizer(DefaultRules())

	url := "https://raw.githubusercontent.com/u/r/main/sub_merge.txt"

	first := c.Categorize(url)
	second := c.Categorize(url)

	if first != second {
		t.Errorf("Categorize not idempotent: %+v vs %+v", first, second)
	}
}

func TestCategorizeProtocolTableOrder(t *testing.T) {
	c := NewCategorizer(DefaultRules())

	// Both markers present: table order decides, not string position.
	link := c.Categorize("trojan://x?fallback=vmess://y")
	if link.ProtocolType != "vmess" {
		t.Errorf("ProtocolType = %q, want vmess (earlier table entry)", link.ProtocolType)
	}
}

func TestCategorizeFlagsIndependentOfCategory(t *testing.T) {
	c := NewCategorizer(DefaultRules())

	// A proxy-protocol link that is also a merge keyword hit and a config
	// file: category stays proxy_protocol, all three flags set.
	link := c.Categorize("vmess://host/sub/all.txt")

	if link.Category != CategoryProxyProtocol {
		t.Fatalf("Category = %q, want proxy_protocol", link.Category)
	}

	if !link.IsProxyProtocol || !link.IsMergeSubscription || !link.IsConfigFile {
		t.Errorf("flags = (%t, %t, %t), want all true",
			link.IsProxyProtocol, link.IsMergeSubscription, link.IsConfigFile)
	}
}

func TestCategorizeWithCustomRules(t *testing.T) {
	rules := Rules{
		Protocols:     []ProtocolRule{{Name: "wire", Markers: []string{"wire://"}}},
		MergeKeywords: []string{"bundle"},
		RawMirrorHost: "mirror.test",
	}
	c := NewCategorizer(rules)

	if link := c.Categorize("wire://abc"); link.ProtocolType != "wire" {
		t.Errorf("ProtocolType = %q, want wire", link.ProtocolType)
	}

	// Default keywords must not leak into a substituted rule set.
	if link := c.Categorize("https://example.com/sub/all.txt"); link.Category != CategoryOther {
		t.Errorf("Category = %q, want other under custom rules", link.Category)
	}
}
