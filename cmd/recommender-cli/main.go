// Command recommender-cli queries a recommender server from the terminal.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/persistorai/recommender/client"
)

// Build-time variables set via ldflags.
var (
	version   = "0.1.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:8000"

var (
	apiClient   *client.Client
	flagURL     string
	flagProfile string
	flagFmt     string
	flagTimeout time.Duration
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("recommender-cli version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("recommender-cli version %s-dev", version)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "recommender-cli",
		Short:   "Query product recommendations from a recommender server",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			apiClient = client.New(flagURL, client.WithTimeout(flagTimeout))
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "Recommender server URL (env: RECOMMENDER_URL)")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Config profile (env: RECOMMENDER_PROFILE)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Request timeout")

	initCmd := newInitCmd()
	initCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {} // skip client setup
	doctorCmd := newDoctorCmd()
	doctorCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) { resolveConfig() }

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newProductCmd())
	rootCmd.AddCommand(newPriceCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newRecommendCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig fills flagURL from the environment and then the config file
// when the flag was left at its default.
func resolveConfig() {
	if flagURL != defaultURL {
		return
	}
	if v := os.Getenv("RECOMMENDER_URL"); v != "" {
		flagURL = v
		return
	}

	profile := flagProfile
	if profile == "" {
		profile = os.Getenv("RECOMMENDER_PROFILE")
	}

	_, cfg, err := loadConfigFile()
	if err != nil {
		return
	}
	if u := cfg.profileURL(profile); u != "" {
		flagURL = u
	}
}
