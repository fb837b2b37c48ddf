package history

import (
	"fmt"

	"github.com/educast-cli/educast/episode"
	"github.com/educast-cli/educast/util"
)

// SavedEpisode represents a single playback entry preserved in the user's history.
type SavedEpisode struct {
	EpisodeID         string       `json:"episode_id"`
	Title             string       `json:"title"`
	AuthorID          string       `json:"author_id"`
	Kind              episode.Kind `json:"kind"`
	MediaURL          string       `json:"media_url"`
	Duration          float64      `json:"duration"`
	WatchedPercentage float64      `json:"watched_percentage"`
}

func (s *SavedEpisode) encode() string {
	return s.EpisodeID
}

func (s *SavedEpisode) String() string {
	return fmt.Sprintf("%s : %d%% of %s", s.Title, int(s.WatchedPercentage), util.FormatDuration(s.Duration))
}

func newSavedEpisode(e *episode.Episode) *SavedEpisode {
	return &SavedEpisode{
		EpisodeID: e.ID,
		Title:     e.Title,
		AuthorID:  e.AuthorID,
		Kind:      e.Kind,
		MediaURL:  e.MediaURL,
		Duration:  e.Duration,
	}
}
