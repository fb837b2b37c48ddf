// Package cmd implements the command-line interface for educast.
package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/educast-cli/educast/auth"
	"github.com/educast-cli/educast/episode"
	"github.com/educast-cli/educast/icon"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoamiCmd)
}

// authCmd is the parent command for viewer identity management.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the viewer identity used for view and like registration",
}

// authLoginCmd prompts for credentials and stores them.
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a viewer identity and session token",
	Run: func(cmd *cobra.Command, args []string) {
		answers := struct {
			ID    string
			Name  string
			Token string
		}{}

		questions := []*survey.Question{
			{
				Name:     "id",
				Prompt:   &survey.Input{Message: "Viewer id:"},
				Validate: survey.Required,
			},
			{
				Name:   "name",
				Prompt: &survey.Input{Message: "Display name:"},
			},
			{
				Name:     "token",
				Prompt:   &survey.Password{Message: "Session token:"},
				Validate: survey.Required,
			},
		}

		handleErr(survey.Ask(questions, &answers))

		handleErr(auth.SetToken(answers.Token))
		handleErr(auth.SaveViewer(episode.Viewer{
			ID:   answers.ID,
			Name: answers.Name,
		}))

		fmt.Printf("%s Logged in as %s\n", icon.Get(icon.Success), answers.ID)
	},
}

// authLogoutCmd clears stored credentials, reverting to an anonymous identity.
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored viewer identity and session token",
	Run: func(cmd *cobra.Command, args []string) {
		_ = auth.DeleteToken()
		_ = auth.ClearViewer()

		fmt.Printf("%s Logged out\n", icon.Get(icon.Success))
	},
}

// authWhoamiCmd prints the active viewer identity.
var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Display the active viewer identity",
	Run: func(cmd *cobra.Command, args []string) {
		viewer := auth.CurrentViewer()
		if viewer.Anonymous {
			fmt.Printf("%s (anonymous)\n", viewer.ID)
			return
		}
		fmt.Println(viewer.String())
	},
}
