package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adalundhe/mentor/core/models"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the model directory and reload snapshots on change",
	Long: `Watch runs until interrupted, reloading model snapshots whenever
another process rewrites them.

Example:
  mentor watch --models ./models`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine.LoadModels()

	logger := newLogger()
	out := cmd.OutOrStdout()

	watcher, err := models.NewWatcher(cfg.Models.Dir, func() {
		engine.LoadModels()
		status := engine.Status()
		fmt.Fprintf(out, "reloaded: collaborative=%s content=%s hybrid=%s\n",
			status.CollaborativeState, status.ContentState, status.HybridState)
	}, logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	fmt.Fprintf(out, "watching %s for snapshot changes (ctrl-c to stop)\n", cfg.Models.Dir)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	return nil
}
