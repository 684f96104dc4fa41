package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Delta-Kronecker/V2Ray-GitHunter/pkg/classify"
)

var classifyFile string

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify [url...]",
	Short: "Classify URLs into proxy link categories",
	Long: `Classify runs the link categorizer over URLs given as arguments or read
one-per-line from a file, printing each link's category, protocol, and the
derived high-priority subset.

Examples:
  githunter classify vmess://abcd https://example.com/sub/all.txt
  githunter classify --file links.txt
  githunter classify --file links.txt -o json`,
	RunE: runClassify,
}

type classifyOutput struct {
	Links        []classify.Link `json:"links"`
	HighPriority []classify.Link `json:"high_priority"`
}

func runClassify(_ *cobra.Command, args []string) error {
	urls := args

	if classifyFile != "" {
		fileURLs, err := readURLFile(classifyFile)
		if err != nil {
			return fmt.Errorf("read %s: %w", classifyFile, err)
		}

		urls = append(urls, fileURLs...)
	}

	if len(urls) == 0 {
		return errors.New("no URLs given: pass them as arguments or via --file")
	}

	categorizer := classify.NewCategorizer(classify.DefaultRules())

	result := classifyOutput{
		Links:        make([]classify.Link, 0, len(urls)),
		HighPriority: categorizer.HighPriority(urls),
	}

	for _, u := range urls {
		result.Links = append(result.Links, categorizer.Categorize(u))
	}

	if output == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(result)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"URL", "Category", "Protocol", "Merge", "Config File"})

	for _, link := range result.Links {
		t.AppendRow(table.Row{
			link.URL,
			link.Category,
			link.ProtocolType,
			link.IsMergeSubscription,
			link.IsConfigFile,
		})
	}

	t.Render()

	fmt.Printf("\nHigh priority (%d):\n", len(result.HighPriority))

	for _, link := range result.HighPriority {
		fmt.Printf("  %s\n", link.URL)
	}

	return nil
}

// readURLFile reads URLs one per line, skipping blanks and # comments.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		urls = append(urls, line)
	}

	return urls, scanner.Err()
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVarP(&classifyFile, "file", "f", "", "file with one URL per line")
}
