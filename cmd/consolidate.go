package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
	"github.com/TheCreditPros/tilores-X-sub005/internal/pipeline"
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate <records.json>",
	Short: "Run the aggregation pipeline over a local record batch",
	Long:  "Reads a JSON array of raw records, consolidates them into one profile with credit index and quality score, and prints the result.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "read records file %s", args[0])
		}

		var raw []map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return eris.Wrap(err, "parse records file")
		}

		records := make([]model.RawRecord, len(raw))
		for i, r := range raw {
			records[i] = model.RawRecord(r)
		}

		view := pipeline.Build(records)

		out, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal customer view")
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(consolidateCmd)
}
