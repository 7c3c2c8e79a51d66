package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TheCreditPros/tilores-X-sub005/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tilores",
	Short: "Customer profile consolidation and credit aggregation service",
	Long:  "Consolidates heterogeneous customer records into cached profiles with a temporal multi-bureau credit index and a data-quality score.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
