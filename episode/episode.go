// Package episode defines the domain models for EduCast playable content and viewer identity.
package episode

import (
	"fmt"
	"strings"

	"github.com/samber/mo"
)

// Kind discriminates the media type of an episode.
type Kind string

const (
	Audio Kind = "audio"
	Video Kind = "video"
)

// Valid reports whether the kind is one of the recognized media types.
func (k Kind) Valid() bool {
	return k == Audio || k == Video
}

// Episode represents one playable unit (podcast or video) published by a professor.
// The record is immutable for the lifetime of a playback session.
type Episode struct {
	// Backend identifier.
	ID string `json:"id"`
	// Display title.
	Title string `json:"title"`
	// Textual description shown alongside the player.
	Description string `json:"description"`
	// Direct URL to the media resource (audio or video).
	MediaURL string `json:"media_url"`
	// Media kind ("audio" | "video").
	Kind Kind `json:"kind"`
	// Optional transcript text, used to synthesize captions for video.
	Transcript string `json:"transcript,omitempty"`
	// Known duration in seconds; zero when the backend does not know it.
	Duration float64 `json:"duration,omitempty"`
	// Owning author (professor) identifier.
	AuthorID string `json:"author_id"`

	// Thumbnail is populated only when the backend has artwork for the episode.
	Thumbnail mo.Option[string] `json:"-"`
}

// String returns the canonical string representation of the episode.
func (e *Episode) String() string {
	return e.Title
}

// HasTranscript reports whether a caption track can be synthesized for this episode.
func (e *Episode) HasTranscript() bool {
	return strings.TrimSpace(e.Transcript) != ""
}

// Filename derives a filesystem-safe name for downloaded media, preserving the URL extension.
func (e *Episode) Filename() string {
	ext := mediaExtension(e.MediaURL)
	if ext == "" {
		if e.Kind == Video {
			ext = ".mp4"
		} else {
			ext = ".mp3"
		}
	}
	return fmt.Sprintf("%s%s", sanitizedTitle(e), ext)
}

func sanitizedTitle(e *Episode) string {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		return e.ID
	}
	return title
}

func mediaExtension(url string) string {
	// Strip query string before inspecting the path.
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	if i := strings.LastIndex(url, "."); i >= 0 && i > strings.LastIndex(url, "/") {
		return url[i:]
	}
	return ""
}

// Viewer identifies who is consuming an episode: the authenticated user or an anonymous identifier.
type Viewer struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Anonymous bool   `json:"anonymous"`
}

// String returns a display label for the viewer.
func (v Viewer) String() string {
	if v.Anonymous || v.Name == "" {
		return "anonymous"
	}
	return v.Name
}
