// Package catalog provides a client for the EduCast backend episode catalog.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/educast-cli/educast/episode"
	"github.com/educast-cli/educast/filesystem"
	"github.com/educast-cli/educast/key"
	"github.com/educast-cli/educast/network"
	"github.com/educast-cli/educast/util"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Client retrieves episode records from the catalog backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a catalog client targeting the configured backend.
func New() *Client {
	return NewWithBase(viper.GetString(key.APIURL))
}

// NewWithBase constructs a catalog client targeting the given base URL.
func NewWithBase(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    network.Client,
	}
}

// episodeRecord defines the internal structural mapping for catalog API responses.
type episodeRecord struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	MediaURL    string  `json:"media_url"`
	Kind        string  `json:"kind"`
	Transcript  string  `json:"transcript"`
	Duration    float64 `json:"duration"`
	AuthorID    string  `json:"author_id"`
	Thumbnail   string  `json:"thumbnail_url"`
}

// GetEpisode retrieves a single episode record by its catalog identifier.
func (c *Client) GetEpisode(id string) (*episode.Episode, error) {
	resp, err := c.http.Get(fmt.Sprintf("%s/episodes/%s", c.baseURL, url.PathEscape(id)))
	if err != nil {
		return nil, fmt.Errorf("fetch episode %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("episode %s not found", id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch episode %s: status %d", id, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read episode response: %w", err)
	}

	var record episodeRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("parse episode response: %w", err)
	}

	return record.toEpisode(), nil
}

func (r *episodeRecord) toEpisode() *episode.Episode {
	kind := episode.Kind(r.Kind)
	if !kind.Valid() {
		kind = kindOf(r.MediaURL)
	}

	e := &episode.Episode{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		MediaURL:    r.MediaURL,
		Kind:        kind,
		Transcript:  r.Transcript,
		Duration:    r.Duration,
		AuthorID:    r.AuthorID,
	}
	if r.Thumbnail != "" {
		e.Thumbnail = mo.Some(r.Thumbnail)
	}
	return e
}

// Resolve turns user input into a playable episode. Catalog identifiers are
// fetched from the backend; bare URLs and local file paths become ad-hoc
// episodes so playback works without the catalog.
func (c *Client) Resolve(input string) (*episode.Episode, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return adHocEpisode(input, input), nil
	}

	if exists, _ := filesystem.API().Exists(input); exists {
		abs, err := filepath.Abs(input)
		if err != nil {
			abs = input
		}
		return adHocEpisode(abs, abs), nil
	}

	return c.GetEpisode(input)
}

func adHocEpisode(id, target string) *episode.Episode {
	return &episode.Episode{
		ID:       id,
		Title:    util.FileStem(target),
		MediaURL: target,
		Kind:     kindOf(target),
	}
}

// audioExtensions lists the media suffixes treated as audio-only content.
var audioExtensions = map[string]bool{
	".mp3": true, ".m4a": true, ".aac": true,
	".ogg": true, ".opus": true, ".flac": true, ".wav": true,
}

func kindOf(target string) episode.Kind {
	ext := strings.ToLower(filepath.Ext(target))
	if i := strings.IndexAny(ext, "?#"); i != -1 {
		ext = ext[:i]
	}
	if audioExtensions[ext] {
		return episode.Audio
	}
	return episode.Video
}
