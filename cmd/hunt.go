package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Delta-Kronecker/V2Ray-GitHunter/internal/hunter"
)

var (
	maxResultsFlag int
	workersFlag    int
	timeoutFlag    int
	cacheTTLFlag   int
	noCacheFlag    bool
	dataDirFlag    string
	outputDirFlag  string
	cacheDirFlag   string
)

// huntCmd represents the hunt command
var huntCmd = &cobra.Command{
	Use:   "hunt",
	Short: "Run the full pipeline: search, fetch, extract, classify, report",
	Long: `Hunt searches GitHub for proxy configuration collector repositories,
fetches each repository's page through a bounded worker pool, extracts and
classifies every link, and writes the full report set (JSON, CSV, markdown,
high-priority link list) into the output directory.

Examples:
  githunter hunt
  githunter hunt --max-results 50 --workers 16
  githunter hunt --no-cache --output-dir /tmp/results`,
	Args: cobra.NoArgs,
	RunE: runHunt,
}

func runHunt(cmd *cobra.Command, _ []string) error {
	token := viper.GetString("GITHUB_TOKEN")
	if token == "" {
		return errors.New("GITHUB_TOKEN environment variable not set")
	}

	log := newLogger()

	h, err := hunter.New(hunter.Config{
		Token:      token,
		Keywords:   viper.GetStringSlice("keywords"),
		MaxResults: maxResultsFlag,
		Workers:    workersFlag,
		Timeout:    time.Duration(timeoutFlag) * time.Second,
		CacheTTL:   time.Duration(cacheTTLFlag) * time.Hour,
		CacheDir:   cacheDirFlag,
		DataDir:    dataDirFlag,
		OutputDir:  outputDirFlag,
		NoCache:    noCacheFlag,
	}, log)
	if err != nil {
		return err
	}

	outcome, err := h.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("hunt failed: %w", err)
	}

	if output == "json" {
		return json.NewEncoder(os.Stdout).Encode(outcome)
	}

	if !quiet {
		fmt.Printf("Repositories found:  %d\n", outcome.RepositoriesFound)
		fmt.Printf("Sources fetched:     %d\n", outcome.SourcesFetched)
		fmt.Printf("Repos with links:    %d\n", outcome.LinksExtracted)

		if len(outcome.OutputFiles) > 0 {
			fmt.Println("\nOutput files:")

			for _, file := range outcome.OutputFiles {
				fmt.Printf("  - %s\n", file)
			}
		}

		if outcome.Report != nil {
			fmt.Println("\nTop repositories by high-priority links:")
			outcome.Report.RenderRanked(os.Stdout, 10)
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(huntCmd)

	huntCmd.Flags().IntVar(&maxResultsFlag, "max-results", 100, "maximum results per search query")
	huntCmd.Flags().IntVar(&workersFlag, "workers", 8, "number of parallel fetch workers")
	huntCmd.Flags().IntVar(&timeoutFlag, "timeout", 30, "per-fetch timeout in seconds")
	huntCmd.Flags().IntVar(&cacheTTLFlag, "cache-ttl", 24, "cache freshness window in hours")
	huntCmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "bypass the on-disk cache")
	huntCmd.Flags().StringVar(&dataDirFlag, "data-dir", "data", "directory for fetched sources and link snapshots")
	huntCmd.Flags().StringVar(&outputDirFlag, "output-dir", "output", "directory for generated reports")
	huntCmd.Flags().StringVar(&cacheDirFlag, "cache-dir", "data/cache", "directory for the on-disk cache")
}
