package tracking

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/educast-cli/educast/auth"
	"github.com/educast-cli/educast/filesystem"
	"github.com/educast-cli/educast/key"
	"github.com/educast-cli/educast/log"
	"github.com/educast-cli/educast/util"
	"github.com/educast-cli/educast/where"
	"github.com/spf13/viper"
)

// Mutation encapsulates a single tracking operation for deferred synchronization.
type Mutation struct {
	Timestamp int64  `json:"timestamp"`
	EpisodeID string `json:"episode_id"`
	Action    string `json:"action"`
	Payload   string `json:"payload"`
}

// actionPaths maps queued actions back to their backend endpoints.
var actionPaths = map[string]string{
	"RegisterView": "/views",
	"ToggleLike":   "/likes",
}

// QueueFailure persists a failed tracking operation to a local JSON-log for deferred reconciliation.
func QueueFailure(episodeID, action, payload string) error {
	f, err := filesystem.API().OpenFile(where.TrackingQueue(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	mutation := Mutation{
		Timestamp: time.Now().Unix(),
		EpisodeID: episodeID,
		Action:    action,
		Payload:   payload,
	}

	// Stream JSON directly to the disk buffer.
	encoder := json.NewEncoder(f)
	return encoder.Encode(mutation)
}

// ReconcileFailures initializes an asynchronous background process to replay
// previously failed tracking operations against the backend.
func ReconcileFailures() {
	go reconcile()
}

// reconcileBackoff returns the delay before replaying the i-th queued
// mutation. The exponential growth is capped so long queues top out at 6.4s
// per entry instead of sleeping for hours (or overflowing the shift).
func reconcileBackoff(i int) time.Duration {
	base := time.Duration(1<<util.Min(i, 6)) * 100 * time.Millisecond
	return base + time.Duration(rand.Intn(100))*time.Millisecond
}

func reconcile() {
	path := where.TrackingQueue()
	info, err := filesystem.API().Stat(path)
	if err != nil || info.Size() == 0 {
		return
	}

	content, err := filesystem.API().ReadFile(path)
	if err != nil {
		return
	}

	var mutations []Mutation
	decoder := json.NewDecoder(bytes.NewReader(content))
	for decoder.More() {
		var m Mutation
		if err := decoder.Decode(&m); err == nil {
			mutations = append(mutations, m)
		}
	}

	if len(mutations) == 0 {
		return
	}

	baseURL := viper.GetString(key.APIURL)
	var remaining []Mutation

	for i, m := range mutations {
		endpoint, ok := actionPaths[m.Action]
		if !ok {
			continue
		}

		// Apply incremental delay with randomized jitter to manage request throttling.
		time.Sleep(reconcileBackoff(i))

		req, err := http.NewRequest(http.MethodPost, baseURL+endpoint, bytes.NewBufferString(m.Payload))
		if err != nil {
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if token, err := auth.GetToken(); err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := retryClient.Do(req)
		if err != nil {
			remaining = append(remaining, m)
			continue
		}
		resp.Body.Close()

		// Conflict means the backend already holds this registration.
		if resp.StatusCode >= 300 && resp.StatusCode != http.StatusConflict {
			remaining = append(remaining, m)
		}
	}

	if len(remaining) == 0 {
		if err := filesystem.API().Remove(path); err != nil {
			log.Warnf("remove tracking queue: %v", err)
		}
		log.Infof("reconciled %d queued tracking operations", len(mutations))
		return
	}

	// Rewrite the queue with only the still-failing mutations.
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	for _, m := range remaining {
		_ = encoder.Encode(m)
	}
	if err := filesystem.API().WriteFile(path, buf.Bytes(), 0644); err != nil {
		log.Errorf("rewrite tracking queue: %v", err)
	}
}
