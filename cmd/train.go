package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	trainData  string
	trainModel string
	trainSave  bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train recommendation models from a dataset",
	Long: `Train fits the selected models from a YAML dataset and snapshots
them to the model directory.

Examples:
  mentor train --data data.yaml
  mentor train --data data.yaml --model content
  mentor train --data data.yaml --no-save`,
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().StringVarP(&trainData, "data", "d", "", "Path to YAML dataset")
	trainCmd.Flags().StringVarP(&trainModel, "model", "m", "all", "Model to train (content, collaborative, hybrid, all)")
	trainCmd.Flags().BoolVar(&trainSave, "save", true, "Snapshot trained models to the model directory")
	_ = trainCmd.MarkFlagRequired("data")
}

func runTrain(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	engine, err := seedEngine(ctx, trainData)
	if err != nil {
		return err
	}

	switch trainModel {
	case "content":
		err = engine.TrainContentBased()
	case "collaborative":
		err = engine.TrainCollaborative()
	case "hybrid":
		// Hybrid needs both prerequisites fitted in this process.
		if err = engine.TrainContentBased(); err != nil {
			break
		}
		if err = engine.TrainCollaborative(); err != nil {
			break
		}
		err = engine.TrainHybrid()
	case "all":
		err = engine.TrainAll()
	default:
		return fmt.Errorf("unknown model %q: want content, collaborative, hybrid, or all", trainModel)
	}
	if err != nil {
		return err
	}

	if trainSave {
		if err := engine.SaveModels(); err != nil {
			return err
		}
	}

	status := engine.Status()
	fmt.Fprintf(cmd.OutOrStdout(), "collaborative: %s\ncontent: %s\nhybrid: %s\n",
		status.CollaborativeState, status.ContentState, status.HybridState)
	return nil
}
