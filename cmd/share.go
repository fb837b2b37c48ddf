// Package cmd implements the command-line interface for educast.
package cmd

import (
	"fmt"

	"github.com/educast-cli/educast/catalog"
	"github.com/educast-cli/educast/icon"
	"github.com/educast-cli/educast/share"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(shareCmd)
}

// shareCmd shares an episode's link via the platform handler or the clipboard.
var shareCmd = &cobra.Command{
	Use:   "share <episode>",
	Short: "Share an episode's link",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ep, err := catalog.New().Resolve(args[0])
		handleErr(err)

		outcome, err := share.Episode(ep)
		handleErr(err)

		if outcome == share.CopiedToClipboard {
			fmt.Printf("%s Link copied to clipboard\n", icon.Get(icon.Share))
			return
		}
		fmt.Printf("%s Shared\n", icon.Get(icon.Share))
	},
}
