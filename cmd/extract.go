package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Delta-Kronecker/V2Ray-GitHunter/internal/extractor"
)

var (
	extractBaseURL string
	extractAsText  bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [file...]",
	Short: "Extract candidate URLs from local HTML or text documents",
	Long: `Extract runs the extraction layer over saved documents: a markup-aware
pass for HTML plus a regex sweep of the raw text. Markup is auto-detected
per file; --text forces the regex sweep only.

Examples:
  githunter extract page.html
  githunter extract --base-url https://github.com/u/r page.html
  githunter extract --text README.md -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func runExtract(_ *cobra.Command, args []string) error {
	e := extractor.New()

	all := make(map[string]struct{})

	for _, filename := range args {
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("read %s: %w", filename, err)
		}

		document := string(data)

		markup := !extractAsText && e.IsMarkup(document)
		for link := range e.Extract(document, extractBaseURL, markup) {
			all[link] = struct{}{}
		}
	}

	links := make([]string, 0, len(all))
	for link := range all {
		links = append(links, link)
	}

	sort.Strings(links)

	if output == "json" {
		return json.NewEncoder(os.Stdout).Encode(links)
	}

	for _, link := range links {
		fmt.Println(link)
	}

	if !quiet {
		fmt.Fprintf(os.Stderr, "\n%d links\n", len(links))
	}

	return nil
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractBaseURL, "base-url", "", "base URL for resolving relative links in markup")
	extractCmd.Flags().BoolVar(&extractAsText, "text", false, "treat every input as plain text (regex sweep only)")
}
