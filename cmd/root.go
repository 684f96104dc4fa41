package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	quiet   bool
	verbose bool
	output  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "githunter",
	Short: "Discover proxy configuration collectors on GitHub and harvest their links",
	Long: `GitHunter searches GitHub for repositories that aggregate proxy-server
configuration links (v2ray, shadowsocks, trojan, hysteria and friends),
fetches their pages, extracts every URL, classifies the links by protocol
and purpose, and writes JSON/CSV/markdown reports plus a flat list of
high-priority subscription links.

A GitHub token is required for the search API; set GITHUB_TOKEN in the
environment or in a local .env file.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.githunter.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output (errors only)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "human", "output format (human, json)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".githunter")
	}

	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err == nil && !quiet {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the pipeline logger honoring --quiet/--verbose.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel

	switch {
	case quiet:
		level = zerolog.ErrorLevel
	case verbose:
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
