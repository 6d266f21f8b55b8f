package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// RecommendDefaultLimit is the default number of recommendations.
const RecommendDefaultLimit = 5

var (
	recommendData  string
	recommendLimit int
	recommendJSON  bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <user-id>",
	Short: "Recommend content for a user",
	Long: `Recommend trains models from the dataset, then answers a
personalized recommendation query for one user.

Examples:
  mentor recommend user_1 --data data.yaml
  mentor recommend user_1 --data data.yaml -n 10 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVarP(&recommendData, "data", "d", "", "Path to YAML dataset")
	recommendCmd.Flags().IntVarP(&recommendLimit, "limit", "n", RecommendDefaultLimit, "Maximum number of recommendations")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Output results as JSON")
	_ = recommendCmd.MarkFlagRequired("data")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	engine, err := seedEngine(ctx, recommendData)
	if err != nil {
		return err
	}
	if err := engine.TrainAll(); err != nil {
		return err
	}

	recs := engine.Recommend(args[0], recommendLimit)

	out := cmd.OutOrStdout()
	if recommendJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}
	for i, rec := range recs {
		fmt.Fprintf(out, "%2d. %-20s score=%.4f confidence=%.2f type=%s  %s\n",
			i+1, rec.ItemID, rec.Score, rec.Confidence, rec.Type, rec.Reason)
	}
	return nil
}
