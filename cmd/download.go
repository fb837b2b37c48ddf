// Package cmd implements the command-line interface for educast.
package cmd

import (
	"fmt"

	"github.com/educast-cli/educast/catalog"
	"github.com/educast-cli/educast/icon"
	"github.com/educast-cli/educast/key"
	"github.com/educast-cli/educast/share"
	"github.com/educast-cli/educast/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringP("dir", "d", "", "Directory to save the media into")
	lo.Must0(viper.BindPFlag(key.DownloadDir, downloadCmd.Flags().Lookup("dir")))
}

// downloadCmd saves an episode's media for offline listening.
var downloadCmd = &cobra.Command{
	Use:   "download <episode>",
	Short: "Download an episode's media for offline playback",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ep, err := catalog.New().Resolve(args[0])
		handleErr(err)

		erase := util.PrintErasable(fmt.Sprintf("%s Downloading %s...", icon.Get(icon.Progress), ep.Title))
		path, err := share.Download(ep)
		erase()
		handleErr(err)

		fmt.Printf("%s Saved to %s\n", icon.Get(icon.Success), path)
	},
}
