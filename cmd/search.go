package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Delta-Kronecker/V2Ray-GitHunter/internal/cache"
	"github.com/Delta-Kronecker/V2Ray-GitHunter/internal/search"
)

var (
	searchMaxResults int
	searchKeywords   []string
	searchNoCache    bool
	searchCacheDir   string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search GitHub for proxy configuration collector repositories",
	Long: `Search runs the repository discovery step on its own and prints the
matched repositories sorted by stars, without fetching any pages.

Examples:
  githunter search
  githunter search --keywords "v2ray collector" --max-results 10
  githunter search -o json`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, _ []string) error {
	token := viper.GetString("GITHUB_TOKEN")
	if token == "" {
		return errors.New("GITHUB_TOKEN environment variable not set")
	}

	log := newLogger()

	var c *cache.Cache

	if !searchNoCache {
		var err error

		c, err = cache.New(searchCacheDir, 24*time.Hour)
		if err != nil {
			return fmt.Errorf("init cache: %w", err)
		}
	}

	s := search.New(search.Config{
		Token:      token,
		Keywords:   searchKeywords,
		MaxResults: searchMaxResults,
	}, c, log)

	repos := s.Search(cmd.Context())

	if output == "json" {
		return json.NewEncoder(os.Stdout).Encode(repos)
	}

	for _, repo := range repos {
		fmt.Printf("%-50s ★ %-7d %s\n", repo.FullName, repo.Stars, repo.HTMLURL)
	}

	if !quiet {
		fmt.Fprintf(os.Stderr, "\n%d repositories\n", len(repos))
	}

	return nil
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchMaxResults, "max-results", 100, "maximum results per search query")
	searchCmd.Flags().StringSliceVar(&searchKeywords, "keywords", nil, "override the built-in search keyword list")
	searchCmd.Flags().BoolVar(&searchNoCache, "no-cache", false, "bypass the on-disk cache")
	searchCmd.Flags().StringVar(&searchCacheDir, "cache-dir", "data/cache", "directory for the on-disk cache")
}
