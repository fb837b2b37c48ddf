// Package share implements the side affordances around an episode: sharing
// its link and downloading its media. Neither touches playback state.
package share

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
	"github.com/educast-cli/educast/constant"
	"github.com/educast-cli/educast/episode"
	"github.com/educast-cli/educast/log"
)

// Outcome describes how a share request was fulfilled, for a transient
// notification to the viewer.
type Outcome string

const (
	// SharedNatively means the platform share sheet handled the link.
	SharedNatively Outcome = "shared"
	// CopiedToClipboard means the link was copied as a fallback.
	CopiedToClipboard Outcome = "copied"
)

// Episode shares the episode's link through the platform share handler when
// one exists, falling back to copying the link to the clipboard.
func Episode(e *episode.Episode) (Outcome, error) {
	link := e.MediaURL

	if runtime.GOOS == constant.Android {
		if err := exec.Command("termux-share", "-t", e.Title, "-u", link).Run(); err == nil {
			return SharedNatively, nil
		}
		log.Warn("termux-share unavailable, falling back to clipboard")
	}

	if err := clipboard.WriteAll(link); err != nil {
		return "", fmt.Errorf("copy link: %w", err)
	}
	return CopiedToClipboard, nil
}
