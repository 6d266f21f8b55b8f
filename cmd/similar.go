package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adalundhe/mentor/core/models"
)

// SimilarDefaultLimit is the default number of neighbors.
const SimilarDefaultLimit = 5

var (
	similarData  string
	similarLimit int
	similarJSON  bool
)

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Find similar users or content",
}

var similarUsersCmd = &cobra.Command{
	Use:   "users <user-id>",
	Short: "Find users with similar engagement patterns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := seedEngine(context.Background(), similarData)
		if err != nil {
			return err
		}
		if err := engine.TrainCollaborative(); err != nil {
			return err
		}
		return printNeighbors(cmd, engine.SimilarUsers(args[0], similarLimit))
	},
}

var similarContentCmd = &cobra.Command{
	Use:   "content <item-id>",
	Short: "Find content with similar text and tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := seedEngine(context.Background(), similarData)
		if err != nil {
			return err
		}
		if err := engine.TrainContentBased(); err != nil {
			return err
		}
		return printNeighbors(cmd, engine.SimilarContent(args[0], similarLimit))
	},
}

func init() {
	rootCmd.AddCommand(similarCmd)
	similarCmd.AddCommand(similarUsersCmd)
	similarCmd.AddCommand(similarContentCmd)

	similarCmd.PersistentFlags().StringVarP(&similarData, "data", "d", "", "Path to YAML dataset")
	similarCmd.PersistentFlags().IntVarP(&similarLimit, "limit", "n", SimilarDefaultLimit, "Maximum number of neighbors")
	similarCmd.PersistentFlags().BoolVar(&similarJSON, "json", false, "Output results as JSON")
}

func printNeighbors(cmd *cobra.Command, neighbors []models.Neighbor) error {
	out := cmd.OutOrStdout()
	if similarJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(neighbors)
	}
	if len(neighbors) == 0 {
		fmt.Fprintln(out, "no neighbors above the similarity threshold")
		return nil
	}
	for i, n := range neighbors {
		fmt.Fprintf(out, "%2d. %-20s similarity=%.4f\n", i+1, n.ID, n.Similarity)
	}
	return nil
}
