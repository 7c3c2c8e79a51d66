package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print cache and warming statistics",
	Long:  "Initializes the core from config and prints its statistics. Mainly useful to validate configuration and connectivity.",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initCore(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		out := map[string]any{
			"cache": env.Cache.Stats(cmd.Context()),
			"warm":  env.Warmer.Stats(),
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal stats")
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
