package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	fileStampLayout = "20060102_150405"

	// Caps matching the original report shape.
	csvLinkLimit      = 5
	markdownRepoLimit = 20
	markdownLinkLimit = 10
)

func (r *Report) stamp() string {
	return r.Metadata.GeneratedAt.Format(fileStampLayout)
}

// WriteJSON writes the full report as an indented JSON file and returns its
// path.
func (r *Report) WriteJSON(dir string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("githunter_results_%s.json", r.stamp()))

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	return path, nil
}

// repoTable builds the one-row-per-repository table shared by the CSV
// export and the human-readable ranked output.
func (r *Report) repoTable(repos []RepositoryReport) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{
		"Repository", "Owner", "URL", "Stars", "Forks", "Language",
		"Keyword", "Total Links", "Proxy Protocol", "Merge Subscription",
		"Config Files", "High Priority Links", "High Priority Count",
	})

	for _, repo := range repos {
		sample := repo.HighPriorityLinks
		if len(sample) > csvLinkLimit {
			sample = sample[:csvLinkLimit]
		}

		t.AppendRow(table.Row{
			repo.FullName,
			repo.Owner,
			repo.HTMLURL,
			repo.Stars,
			repo.Forks,
			repo.Language,
			repo.SearchKeyword,
			repo.LinksCount,
			len(repo.CategorizedLinks["proxy_protocol"]),
			len(repo.CategorizedLinks["merge_subscription"]),
			len(repo.CategorizedLinks["config_file"]),
			strings.Join(sample, "; "),
			repo.HighPriorityCount,
		})
	}

	return t
}

// WriteCSV writes the tabular export, one row per repository in report
// order, and returns its path.
func (r *Report) WriteCSV(dir string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("githunter_results_%s.csv", r.stamp()))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	t := r.repoTable(r.Repositories)
	t.SetOutputMirror(f)
	t.RenderCSV()

	return path, nil
}

// WriteLinks writes the flat high-priority link list and returns its path.
func (r *Report) WriteLinks(dir string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("high_priority_links_%s.txt", r.stamp()))

	var b strings.Builder

	b.WriteString("# V2Ray GitHunter - High Priority Proxy Links\n")
	fmt.Fprintf(&b, "# Generated: %s\n", r.Metadata.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "# Total Links: %d\n\n", len(r.Summary.HighPriorityLinks))

	for _, link := range r.Summary.HighPriorityLinks {
		b.WriteString(link)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}

	return path, nil
}

// WriteMarkdown writes the ranked human-readable report and returns its
// path.
func (r *Report) WriteMarkdown(dir string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("githunter_report_%s.md", r.stamp()))

	var b strings.Builder

	b.WriteString("# V2Ray GitHunter Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", r.Metadata.GeneratedAt.Format("2006-01-02 15:04:05"))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Total Repositories:** %d\n", r.Metadata.TotalRepositories)
	fmt.Fprintf(&b, "- **Total Links:** %d\n", r.Metadata.TotalLinks)
	fmt.Fprintf(&b, "- **Proxy Protocol Links:** %d\n", r.Metadata.ProxyProtocolLinks)
	fmt.Fprintf(&b, "- **Merge Subscription Links:** %d\n", r.Metadata.MergeSubscriptionLinks)
	fmt.Fprintf(&b, "- **Config Files:** %d\n\n", r.Metadata.ConfigFiles)

	if len(r.Summary.ByProtocol) > 0 {
		b.WriteString("### Protocol Distribution\n\n")

		for _, protocol := range sortedCountKeys(r.Summary.ByProtocol) {
			fmt.Fprintf(&b, "- **%s:** %d\n", strings.ToUpper(protocol), r.Summary.ByProtocol[protocol])
		}

		b.WriteString("\n")
	}

	b.WriteString("## Top Repositories\n\n")

	for _, repo := range r.TopRepositories(markdownRepoLimit) {
		fmt.Fprintf(&b, "### [%s](%s)\n\n", repo.FullName, repo.HTMLURL)
		fmt.Fprintf(&b, "**Stars:** %d | **Forks:** %d | **Language:** %s\n\n",
			repo.Stars, repo.Forks, orNA(repo.Language))

		if repo.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", repo.Description)
		}

		fmt.Fprintf(&b, "**High Priority Links:** %d\n\n", repo.HighPriorityCount)

		if len(repo.HighPriorityLinks) > 0 {
			b.WriteString("**Links:**\n")

			shown := repo.HighPriorityLinks
			if len(shown) > markdownLinkLimit {
				shown = shown[:markdownLinkLimit]
			}

			for _, link := range shown {
				fmt.Fprintf(&b, "- %s\n", link)
			}

			if extra := len(repo.HighPriorityLinks) - markdownLinkLimit; extra > 0 {
				fmt.Fprintf(&b, "- ... and %d more\n", extra)
			}

			b.WriteString("\n")
		}

		b.WriteString("---\n\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}

	return path, nil
}

// RenderRanked writes the ranked repository table to w for interactive use.
func (r *Report) RenderRanked(w io.Writer, limit int) {
	t := r.repoTable(r.TopRepositories(limit))
	t.SetOutputMirror(w)
	t.Render()
}

// WriteAll writes every output format into dir and returns the paths
// created. The directory is created if missing.
func (r *Report) WriteAll(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var paths []string

	writers := []func(string) (string, error){
		r.WriteJSON,
		r.WriteCSV,
		r.WriteLinks,
		r.WriteMarkdown,
	}

	for _, write := range writers {
		path, err := write(dir)
		if err != nil {
			return paths, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

// RunSummary is the small run-level record written alongside the report
// files.
type RunSummary struct {
	Timestamp              time.Time `json:"timestamp"`
	TotalRepositoriesFound int       `json:"total_repositories_found"`
	SourcesFetched         int       `json:"sources_fetched"`
	LinksExtracted         int       `json:"links_extracted"`
	OutputFiles            []string  `json:"output_files"`
}

// WriteRunSummary writes the run summary as summary.json in dir.
func WriteRunSummary(dir string, summary RunSummary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, "summary.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	return path, nil
}

func sortedCountKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}

	// Highest count first, then name for stability.
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}

		return keys[i] < keys[j]
	})

	return keys
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}

	return s
}
