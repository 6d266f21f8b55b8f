package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adalundhe/mentor/core/search"
)

// SearchDefaultLimit is the default number of search hits.
const SearchDefaultLimit = 10

var (
	searchData     string
	searchLimit    int
	searchTag      string
	searchCategory string
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over the content catalog",
	Long: `Search runs a full-text query against an in-memory catalog index
built from the dataset.

Examples:
  mentor search "python web" --data data.yaml
  mentor search python --data data.yaml --tag "data-*"
  mentor search painting --data data.yaml --category art --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchData, "data", "d", "", "Path to YAML dataset")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", SearchDefaultLimit, "Maximum number of hits")
	searchCmd.Flags().StringVar(&searchTag, "tag", "", "Filter hits by tag glob pattern")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Filter hits by category glob pattern")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output results as JSON")
	_ = searchCmd.MarkFlagRequired("data")
}

func runSearch(cmd *cobra.Command, args []string) error {
	engine, err := seedEngine(context.Background(), searchData)
	if err != nil {
		return err
	}

	var filters []search.Filter
	if searchTag != "" {
		filters = append(filters, search.TagPattern(searchTag))
	}
	if searchCategory != "" {
		filters = append(filters, search.CategoryPattern(searchCategory))
	}

	query := strings.Join(args, " ")
	hits, err := engine.SearchContent(query, searchLimit, filters...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if searchJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}
	if len(hits) == 0 {
		fmt.Fprintln(out, "no matches")
		return nil
	}
	for i, hit := range hits {
		fmt.Fprintf(out, "%2d. %-20s score=%.4f\n", i+1, hit.ID, hit.Score)
	}
	return nil
}
