// Package cmd implements the command-line interface for educast.
package cmd

import (
	"github.com/educast-cli/educast/catalog"
	"github.com/educast-cli/educast/open"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().StringP("app", "a", "", "Application to open the media with")
}

// openCmd launches an episode's media with the system handler.
var openCmd = &cobra.Command{
	Use:   "open <episode>",
	Short: "Open an episode's media with the system default handler",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ep, err := catalog.New().Resolve(args[0])
		handleErr(err)

		app := lo.Must(cmd.Flags().GetString("app"))
		handleErr(open.StartWith(ep.MediaURL, app))
	},
}
