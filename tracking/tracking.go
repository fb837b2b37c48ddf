// Package tracking implements the fire-and-forget registration of views and
// likes with the EduCast backend, with offline queuing for failed attempts.
package tracking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/educast-cli/educast/auth"
	"github.com/educast-cli/educast/constant"
	"github.com/educast-cli/educast/episode"
	"github.com/educast-cli/educast/key"
	"github.com/educast-cli/educast/log"
	"github.com/educast-cli/educast/network"
	"github.com/spf13/viper"
)

// Client registers consumption side effects over HTTP. It satisfies the
// playback.Tracker interface.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a tracking client against the configured backend.
func New() *Client {
	return &Client{
		baseURL: strings.TrimRight(viper.GetString(key.APIURL), "/"),
		http:    network.Client,
	}
}

// NewWithBase creates a tracking client against an explicit base URL.
func NewWithBase(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    network.Client,
	}
}

// viewPayload is the JSON body for a view registration.
type viewPayload struct {
	EpisodeID string `json:"episode_id"`
	ViewerID  string `json:"viewer_id"`
	Anonymous bool   `json:"anonymous"`
}

// likePayload is the JSON body for a like toggle.
type likePayload struct {
	EpisodeID string `json:"episode_id"`
	ViewerID  string `json:"viewer_id"`
}

// RegisterView notifies the backend that a viewer began consuming an episode.
// The backend enforces its own per-viewer uniqueness; duplicate-safe failures
// are treated as success. On network failure the payload is committed to the
// offline queue for later reconciliation.
func (c *Client) RegisterView(ep *episode.Episode, viewer episode.Viewer) error {
	if !viper.GetBool(key.TrackingEnable) {
		return nil
	}

	payload := viewPayload{
		EpisodeID: ep.ID,
		ViewerID:  viewer.ID,
		Anonymous: viewer.Anonymous,
	}

	return c.post("/views", ep.ID, "RegisterView", payload)
}

// ToggleLike flips the viewer's like for an episode. Likes share the viewer
// identity context with views but are independent of playback state.
func (c *Client) ToggleLike(ep *episode.Episode, viewer episode.Viewer) error {
	if !viper.GetBool(key.TrackingEnable) {
		return nil
	}

	return c.post("/likes", ep.ID, "ToggleLike", likePayload{
		EpisodeID: ep.ID,
		ViewerID:  viewer.ID,
	})
}

func (c *Client) post(path, episodeID, action string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", action, err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", action, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)
	if token, err := auth.GetToken(); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log.Debugf("%s %s for episode %s", action, path, episodeID)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warnf("%s network failure, committing to offline queue: %v", action, err)
		c.queue(episodeID, action, string(body))
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict:
		// The backend already counted this view/like today; nothing to retry.
		log.Debugf("%s duplicate for episode %s, ignoring", action, episodeID)
		return nil
	default:
		log.Warnf("%s failed with status %d, committing to offline queue", action, resp.StatusCode)
		c.queue(episodeID, action, string(body))
		return fmt.Errorf("%s: invalid response code %d", action, resp.StatusCode)
	}
}

func (c *Client) queue(episodeID, action, payload string) {
	if !viper.GetBool(key.TrackingQueueFailures) {
		return
	}
	if err := QueueFailure(episodeID, action, payload); err != nil {
		log.Errorf("queue %s failure: %v", action, err)
	}
}

// retryClient is used by the reconciler; shorter timeout than the shared client.
var retryClient = &http.Client{Timeout: 10 * time.Second}
