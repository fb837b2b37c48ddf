// Package cmd implements the command-line interface for educast.
package cmd

import (
	"fmt"

	"github.com/educast-cli/educast/auth"
	"github.com/educast-cli/educast/catalog"
	"github.com/educast-cli/educast/episode"
	"github.com/educast-cli/educast/icon"
	"github.com/educast-cli/educast/key"
	"github.com/educast-cli/educast/playback"
	"github.com/educast-cli/educast/tracking"
	"github.com/educast-cli/educast/tui"
	"github.com/educast-cli/educast/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("player", "p", "", "Media player binary to use")
	lo.Must0(viper.BindPFlag(key.Player, playCmd.Flags().Lookup("player")))
}

// playCmd resolves an episode and drives it through the mini-player.
var playCmd = &cobra.Command{
	Use:   "play <episode>",
	Short: "Play an episode by catalog id, URL or local file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		erase := util.PrintErasable(fmt.Sprintf("%s Resolving episode...", icon.Get(icon.Progress)))
		ep, err := catalog.New().Resolve(args[0])
		erase()
		handleErr(err)

		handleErr(play(cmd, ep))
	},
}

func play(cmd *cobra.Command, ep *episode.Episode) error {
	viewer := auth.CurrentViewer()

	var tracker playback.Tracker
	if noTracking, _ := cmd.Flags().GetBool("no-tracking"); !noTracking {
		tracker = tracking.New()
	}

	caps := playback.AudioCapabilities()
	if ep.Kind == episode.Video {
		caps = playback.VideoCapabilities()
	}

	surface := playback.NewMPV()
	controller := playback.NewController(surface, caps, tracker, viewer)
	defer util.Ignore(controller.Close)

	if err := controller.Load(ep); err != nil {
		return err
	}

	listener, err := playback.Attach(controller, surface)
	if err != nil {
		return err
	}
	defer listener.Stop()

	return tui.Run(controller, ep, viewer)
}
