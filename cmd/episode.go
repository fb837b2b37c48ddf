// Package cmd implements the command-line interface for educast.
package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/educast-cli/educast/catalog"
	"github.com/educast-cli/educast/episode"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(episodeCmd)

	episodeCmd.Flags().BoolP("json", "j", false, "Format the episode record as a JSON object")
	episodeCmd.Flags().Bool("schema", false, "Generate the JSON schema of episode records instead of fetching one")
}

// episodeCmd inspects a catalog episode record without playing it.
var episodeCmd = &cobra.Command{
	Use:   "episode [id]",
	Short: "Inspect a catalog episode record",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			reflector := new(jsonschema.Reflector)
			reflector.Anonymous = true
			reflector.Namer = func(t reflect.Type) string {
				name := t.Name()
				switch strings.ToLower(name) {
				case "episode", "viewer", "cue":
					return filepath.Base(t.PkgPath()) + "." + name
				}
				return name
			}

			schema := reflector.Reflect(&episode.Episode{})
			handleErr(json.NewEncoder(os.Stdout).Encode(schema))
			return
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		ep, err := catalog.New().GetEpisode(args[0])
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(ep))
			return
		}

		printEpisode(cmd, ep)
	},
}

func printEpisode(cmd *cobra.Command, ep *episode.Episode) {
	cmd.Printf("%s\n", ep.Title)
	cmd.Printf("  id:       %s\n", ep.ID)
	cmd.Printf("  kind:     %s\n", ep.Kind)
	cmd.Printf("  media:    %s\n", ep.MediaURL)
	if ep.Duration > 0 {
		cmd.Printf("  duration: %.0fs\n", ep.Duration)
	}
	if ep.AuthorID != "" {
		cmd.Printf("  author:   %s\n", ep.AuthorID)
	}
	if ep.HasTranscript() {
		cmd.Println("  captions: available")
	}
	if ep.Description != "" {
		cmd.Printf("\n%s\n", ep.Description)
	}
}
