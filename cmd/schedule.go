package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TheCreditPros/tilores-X-sub005/internal/config"
	"github.com/TheCreditPros/tilores-X-sub005/internal/warm"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the scheduled cache pre-warmer until interrupted",
	Long:  "Refreshes the configured hot customer key list on a fixed interval. The key list comes from warm.keys_file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		keys, err := config.WarmKeysFromFile(cfg.Warm.KeysFile)
		if err != nil {
			return err
		}

		env, err := initCore(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		sched := warm.NewScheduler(env.Warmer)
		if err := sched.Start(cfg.Warm.Interval(), keys); err != nil {
			return err
		}
		defer sched.Stop()

		// Warm once up front so the first interval isn't cold.
		env.Warmer.WarmBatch(ctx, keys, true)

		<-ctx.Done()
		zap.L().Info("schedule: shutting down")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}
