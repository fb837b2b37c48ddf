package auth

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/educast-cli/educast/episode"
	"github.com/educast-cli/educast/filesystem"
	"github.com/educast-cli/educast/log"
	"github.com/educast-cli/educast/where"
)

// CurrentViewer returns the stored viewer profile, or a stable anonymous
// identity when nobody is logged in. The anonymous identifier is generated
// once and persisted so repeat views are attributable to the same device.
func CurrentViewer() episode.Viewer {
	content, err := filesystem.API().ReadFile(where.Viewer())
	if err == nil {
		var viewer episode.Viewer
		if err := json.Unmarshal(content, &viewer); err == nil && viewer.ID != "" {
			return viewer
		}
	}

	viewer := episode.Viewer{
		ID:        anonymousID(),
		Anonymous: true,
	}
	if err := SaveViewer(viewer); err != nil {
		log.Warnf("persist anonymous viewer: %v", err)
	}
	return viewer
}

// SaveViewer persists the viewer profile to the localized storage.
func SaveViewer(viewer episode.Viewer) error {
	content, err := json.Marshal(viewer)
	if err != nil {
		return fmt.Errorf("marshal viewer: %w", err)
	}
	return filesystem.API().WriteFile(where.Viewer(), content, 0600)
}

// ClearViewer removes the stored viewer profile.
func ClearViewer() error {
	return filesystem.API().Remove(where.Viewer())
}

func anonymousID() string {
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "anon-unknown"
	}
	return fmt.Sprintf("anon-%x", randomBytes)
}
