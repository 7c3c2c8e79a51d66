package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/TheCreditPros/tilores-X-sub005/internal/config"
)

var (
	warmParallel bool
	warmKeysFile string
)

var warmCmd = &cobra.Command{
	Use:   "warm [keys...]",
	Short: "Pre-warm the cache for a list of customer keys",
	Long:  "Fetches, aggregates, and caches the given customer identifiers. Keys come from arguments or from a YAML key-list file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := args
		if warmKeysFile != "" {
			fileKeys, err := config.WarmKeysFromFile(warmKeysFile)
			if err != nil {
				return err
			}
			keys = append(keys, fileKeys...)
		}
		if len(keys) == 0 {
			return eris.New("no keys given: pass arguments or --keys-file")
		}

		env, err := initCore(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		results := env.Warmer.WarmBatch(cmd.Context(), keys, warmParallel)

		out := struct {
			Results map[string]bool `json:"results"`
			Stats   any             `json:"stats"`
		}{results, env.Warmer.Stats()}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal warm results")
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	warmCmd.Flags().BoolVar(&warmParallel, "parallel", true, "fan out across parallel workers")
	warmCmd.Flags().StringVar(&warmKeysFile, "keys-file", "", "YAML file with a keys: list")
	rootCmd.AddCommand(warmCmd)
}
