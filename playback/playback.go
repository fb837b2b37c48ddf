// Package playback implements the media playback controller: a transport state
// machine kept bidirectionally consistent with an underlying playback surface.
//
// The controller owns the abstract state (play/pause, position, volume, mute,
// rate, captions, fullscreen) that a rendering layer draws from, and treats
// surface-emitted events as the only channel by which the real resource pushes
// corrections back. The primary surface implementation targets mpv via its
// JSON-IPC interface.
package playback

// Media describes the resource a surface should bind to.
type Media struct {
	// Direct URL or local path of the stream/file.
	URL string
	// Window/display title.
	Title string
	// Optional WebVTT sidecar synthesized from the episode transcript.
	CaptionPath string
}

// Surface encapsulates the required capabilities of an underlying playable media resource.
// Exactly one controller owns a surface at a time.
type Surface interface {
	// Load binds the surface to a new resource, starting paused.
	Load(media Media) error

	// Play requests playback start. The request may be rejected (decode error,
	// dead engine); the controller treats a rejection as non-fatal.
	Play() error

	// Pause suspends playback.
	Pause() error

	// SeekTo transitions the playback position to an absolute timestamp in seconds.
	SeekTo(seconds float64) error

	// SetVolume applies an output volume in [0, 1].
	SetVolume(v float64) error

	// SetMuted silences or restores the output independently of the stored volume.
	SetMuted(muted bool) error

	// SetRate applies a playback speed multiplier without resetting position.
	SetRate(r float64) error

	// ShowCaptions toggles visibility of the bound caption track.
	ShowCaptions(visible bool) error

	// SetFullscreen requests entering or leaving fullscreen. An error means the
	// request was rejected and the visible state did not change.
	SetFullscreen(on bool) error

	// Close terminates the surface and releases all associated resources.
	Close() error
}

// Capabilities parameterizes the controller for the surface it drives.
// The same state machine serves the audio mini-player and the full video
// player; the flags gate the video-only axes.
type Capabilities struct {
	// Video indicates a visual surface with auto-hiding controls.
	Video bool
	// Captions indicates the surface can render a caption track.
	Captions bool
	// Fullscreen indicates the surface supports a fullscreen mode.
	Fullscreen bool
}

// AudioCapabilities describes the audio mini-player surface.
func AudioCapabilities() Capabilities {
	return Capabilities{}
}

// VideoCapabilities describes the full video player surface.
func VideoCapabilities() Capabilities {
	return Capabilities{Video: true, Captions: true, Fullscreen: true}
}
