package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Inspect the portfolio content",
}

var contentValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the configured content and report record counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := loadContent(cfg)
		if err != nil {
			return err
		}

		counts := store.Counts()
		sections := make([]string, 0, len(counts))
		for s := range counts {
			sections = append(sections, s)
		}
		sort.Strings(sections)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Content OK: %s\n", store.Profile().Name)
		for _, s := range sections {
			fmt.Fprintf(out, "  %-13s %d\n", s, counts[s])
		}
		if names := store.CategoryNames(); len(names) > 0 {
			fmt.Fprintf(out, "Skill categories: %s\n", strings.Join(names, ", "))
		}
		return nil
	},
}

func init() {
	contentCmd.AddCommand(contentValidateCmd)
	rootCmd.AddCommand(contentCmd)
}
