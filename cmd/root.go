package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/varunkk24/portfolio/internal/config"
	"github.com/varunkk24/portfolio/internal/content"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio website",
	Long: `Serves a single-page portfolio: experience and education timelines,
expandable skill categories, a project gallery, certifications and a
contact form that opens a pre-filled email.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "portfolio.yml", "config file path")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadContent returns the override file when configured, else the embedded
// content.
func loadContent(cfg *config.Config) (*content.Store, error) {
	if cfg.ContentPath != "" {
		return content.LoadFile(cfg.ContentPath)
	}
	return content.Default()
}
