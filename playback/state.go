package playback

// Status is the playback axis of the controller state machine.
type Status int

const (
	// Idle means no resource is bound.
	Idle Status = iota
	// Loading means a resource is bound but metadata is not yet known.
	Loading
	// Paused means playback is suspended.
	Paused
	// Playing means playback is intended to be running.
	Playing
	// Ended means the resource played to completion; re-enterable via seek or play.
	Ended
)

// String returns the lowercase identifier of the status.
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the controller's transport state,
// consumed by rendering adapters.
type State struct {
	Status Status

	// CurrentTime is the playback position in seconds, never negative.
	CurrentTime float64
	// Duration is the media length in seconds; zero until metadata is known.
	Duration float64

	// Volume is the stored output volume in [0, 1], preserved across mute.
	Volume float64
	// Muted forces silent output regardless of Volume.
	Muted bool

	// Rate is the playback speed multiplier.
	Rate float64

	CaptionsEnabled bool
	Fullscreen      bool

	// ControlsVisible applies to video surfaces only; controls auto-hide
	// during playback after an inactivity window.
	ControlsVisible bool
}

// IsPlaying reports whether the intended transport state is running.
func (s State) IsPlaying() bool {
	return s.Status == Playing
}

// Progress returns the playback completion percentage (0-100).
func (s State) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return s.CurrentTime / s.Duration * 100
}

// EffectiveVolume returns the audible output volume, honoring mute.
func (s State) EffectiveVolume() float64 {
	if s.Muted {
		return 0
	}
	return s.Volume
}
