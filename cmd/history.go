// Package cmd implements the command-line interface for educast.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/educast-cli/educast/color"
	"github.com/educast-cli/educast/history"
	"github.com/educast-cli/educast/icon"
	"github.com/educast-cli/educast/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringP("query", "q", "", "Fuzzy filter history entries by title")
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON object")

	historyCmd.SetOut(os.Stdout)
}

// historyCmd lists previously watched episodes and their progress.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List watched episodes and their progress",
	Run: func(cmd *cobra.Command, args []string) {
		records, err := history.Search(lo.Must(cmd.Flags().GetString("query")))
		handleErr(err)

		sort.Slice(records, func(i, j int) bool {
			return records[i].Title < records[j].Title
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Printf("%s History is empty\n", icon.Get(icon.Warning))
			return
		}

		for _, record := range records {
			kindIcon := icon.Get(icon.Audio)
			if record.Kind == "video" {
				kindIcon = icon.Get(icon.Video)
			}

			cmd.Printf(
				"%s %s %s\n",
				kindIcon,
				style.Bold(record.Title),
				style.Fg(color.Yellow)(fmt.Sprintf("%d%%", int(record.WatchedPercentage))),
			)
		}
	},
}
