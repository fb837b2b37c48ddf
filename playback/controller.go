package playback

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/educast-cli/educast/episode"
	"github.com/educast-cli/educast/key"
	"github.com/educast-cli/educast/log"
	"github.com/educast-cli/educast/util"
	"github.com/spf13/viper"
)

// defaultControlsHideSeconds is the inactivity window before video controls auto-hide.
const defaultControlsHideSeconds = 3

// Rates is the enumerated set of accepted playback speed multipliers.
var Rates = []float64{0.5, 0.75, 1, 1.25, 1.5, 2}

// ErrClosed is returned by commands issued after the controller was closed.
var ErrClosed = errors.New("playback: controller closed")

// ErrNoEpisode is returned by transport commands issued before a Load.
var ErrNoEpisode = errors.New("playback: no episode loaded")

// Tracker registers consumption side effects with the EduCast backend.
// Registration failures never propagate into playback state.
type Tracker interface {
	// RegisterView notifies the backend that a viewer began consuming an episode.
	RegisterView(ep *episode.Episode, viewer episode.Viewer) error
}

// Controller coordinates the abstract transport state with a single Surface.
// Commands and surface events may arrive from different goroutines; all state
// transitions are serialized by an internal mutex.
type Controller struct {
	mu sync.Mutex

	surface Surface
	caps    Capabilities
	tracker Tracker
	viewer  episode.Viewer

	ep    *episode.Episode
	state State

	// hasCaptions reflects caps.Captions narrowed to the loaded episode.
	hasCaptions bool

	// mutedByZero distinguishes mute caused by SetVolume(0) from an explicit toggle,
	// so that a later non-zero volume restores sound only in the former case.
	mutedByZero bool

	// registeredView latches the once-per-session view registration.
	registeredView bool

	hideTimer *time.Timer
	closed    bool

	onChange func(State)
	onNotice func(string)
}

// NewController creates a controller driving the given surface on behalf of a viewer.
// The tracker may be nil, in which case no view registrations are issued.
func NewController(surface Surface, caps Capabilities, tracker Tracker, viewer episode.Viewer) *Controller {
	volume := viper.GetFloat64(key.PlayerVolume)
	if volume <= 0 || volume > 1 {
		volume = 1
	}

	return &Controller{
		surface: surface,
		caps:    caps,
		tracker: tracker,
		viewer:  viewer,
		state: State{
			Status:          Idle,
			Volume:          volume,
			Rate:            1,
			ControlsVisible: true,
		},
	}
}

// OnChange registers a callback invoked with a state snapshot after every transition.
// The callback runs outside the controller lock.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// OnNotice registers a callback for transient, non-blocking user notifications.
func (c *Controller) OnNotice(fn func(string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onNotice = fn
}

// State returns a snapshot of the current transport state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Capabilities returns the feature set of the attached surface.
func (c *Controller) Capabilities() Capabilities {
	return c.caps
}

// Episode returns the currently bound episode, or nil.
func (c *Controller) Episode() *episode.Episode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ep
}

// Load binds the controller to a new episode and resets the playback session:
// position zero, duration unknown, paused, view registration re-armed.
func (c *Controller) Load(ep *episode.Episode) error {
	if ep == nil || ep.MediaURL == "" {
		return errors.New("playback: episode has no media URL")
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	c.ep = ep
	c.hasCaptions = c.caps.Captions && ep.HasTranscript()
	c.registeredView = false
	c.mutedByZero = false
	c.state.Status = Loading
	c.state.CurrentTime = 0
	c.state.Duration = 0
	c.state.Rate = 1
	c.state.CaptionsEnabled = false
	c.state.Fullscreen = false
	c.state.ControlsVisible = true
	c.stopHideTimer()

	media := Media{URL: ep.MediaURL, Title: ep.Title}
	if c.hasCaptions {
		path, err := ep.CaptionFile()
		if err != nil {
			log.Warnf("caption synthesis failed for %s: %v", ep.ID, err)
		} else {
			media.CaptionPath = path
		}
	}

	surface := c.surface
	volume, muted := c.state.Volume, c.state.Muted
	c.mu.Unlock()

	if err := surface.Load(media); err != nil {
		return fmt.Errorf("load %s: %w", ep.ID, err)
	}

	// Carry the persistent audio settings onto the fresh resource.
	if err := surface.SetVolume(volume); err != nil {
		log.Warnf("set volume on load: %v", err)
	}
	if err := surface.SetMuted(muted); err != nil {
		log.Warnf("set mute on load: %v", err)
	}

	c.emit()
	return nil
}

// TogglePlay flips the intended transport state. The start path is optimistic:
// state becomes Playing immediately and reverts if the surface rejects the
// request. A rejection is surfaced as a notice, never as an error.
func (c *Controller) TogglePlay() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.ep == nil {
		c.mu.Unlock()
		return ErrNoEpisode
	}

	if c.state.Status == Playing {
		c.state.Status = Paused
		c.state.ControlsVisible = true
		c.stopHideTimer()
		surface := c.surface
		c.mu.Unlock()

		if err := surface.Pause(); err != nil {
			log.Warnf("pause: %v", err)
		}
		c.emit()
		return nil
	}

	c.maybeRegisterViewLocked()
	c.state.Status = Playing
	c.armHideTimerLocked()
	surface := c.surface
	c.mu.Unlock()

	if err := surface.Play(); err != nil {
		// Optimistic transition failed; fall back to paused.
		log.Warnf("playback start rejected: %v", err)
		c.mu.Lock()
		if !c.closed && c.state.Status == Playing {
			c.state.Status = Paused
			c.stopHideTimer()
		}
		c.mu.Unlock()
		c.notice("Playback could not start")
	}

	c.emit()
	return nil
}

// Seek moves the playback position to an absolute timestamp, clamped to the
// valid range. Seeking out of the Ended state re-enters Paused.
func (c *Controller) Seek(seconds float64) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.ep == nil {
		c.mu.Unlock()
		return ErrNoEpisode
	}

	target := clampPosition(seconds, c.state.Duration)
	c.state.CurrentTime = target
	if c.state.Status == Ended {
		c.state.Status = Paused
	}
	surface := c.surface
	c.mu.Unlock()

	if err := surface.SeekTo(target); err != nil {
		log.Warnf("seek to %.1f: %v", target, err)
	}
	c.emit()
	return nil
}

// Skip moves the playback position by a relative number of seconds.
func (c *Controller) Skip(delta float64) error {
	c.mu.Lock()
	current := c.state.CurrentTime
	c.mu.Unlock()
	return c.Seek(current + delta)
}

// SetVolume stores a volume in [0, 1]. Setting zero engages mute; a later
// non-zero volume disengages it only if mute was engaged by that zero set.
func (c *Controller) SetVolume(v float64) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	v = util.Clamp(v, 0, 1)
	if v == 0 {
		c.state.Muted = true
		c.mutedByZero = true
	} else {
		c.state.Volume = v
		if c.state.Muted && c.mutedByZero {
			c.state.Muted = false
			c.mutedByZero = false
		}
	}

	surface := c.surface
	volume, muted := c.state.Volume, c.state.Muted
	c.mu.Unlock()

	if err := surface.SetVolume(volume); err != nil {
		log.Warnf("set volume: %v", err)
	}
	if err := surface.SetMuted(muted); err != nil {
		log.Warnf("set mute: %v", err)
	}
	c.emit()
	return nil
}

// ToggleMute flips the mute state, preserving the stored volume for restoration.
func (c *Controller) ToggleMute() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	c.state.Muted = !c.state.Muted
	c.mutedByZero = false
	surface := c.surface
	muted := c.state.Muted
	c.mu.Unlock()

	if err := surface.SetMuted(muted); err != nil {
		log.Warnf("toggle mute: %v", err)
	}
	c.emit()
	return nil
}

// SetRate applies a playback speed from the enumerated set. The position is untouched.
func (c *Controller) SetRate(r float64) error {
	if !validRate(r) {
		return fmt.Errorf("playback: unsupported rate %v", r)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.state.Rate = r
	surface := c.surface
	c.mu.Unlock()

	if err := surface.SetRate(r); err != nil {
		log.Warnf("set rate %v: %v", r, err)
	}
	c.emit()
	return nil
}

// CycleRate advances to the next enumerated playback speed, wrapping around.
func (c *Controller) CycleRate() error {
	c.mu.Lock()
	current := c.state.Rate
	c.mu.Unlock()

	for i, r := range Rates {
		if r == current {
			return c.SetRate(Rates[(i+1)%len(Rates)])
		}
	}
	return c.SetRate(1)
}

// ToggleCaptions flips caption visibility. It is a no-op when the loaded
// episode carries no caption track.
func (c *Controller) ToggleCaptions() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.hasCaptions {
		c.mu.Unlock()
		return nil
	}

	c.state.CaptionsEnabled = !c.state.CaptionsEnabled
	surface := c.surface
	visible := c.state.CaptionsEnabled
	c.mu.Unlock()

	if err := surface.ShowCaptions(visible); err != nil {
		log.Warnf("toggle captions: %v", err)
	}
	c.emit()
	return nil
}

// ToggleFullscreen requests entering or leaving fullscreen. Unlike play/pause
// the transition is confirmed-only: state flips after the surface acknowledges,
// and a rejection leaves state unchanged and is logged, not surfaced.
func (c *Controller) ToggleFullscreen() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.caps.Fullscreen {
		c.mu.Unlock()
		return nil
	}
	surface := c.surface
	target := !c.state.Fullscreen
	c.mu.Unlock()

	if err := surface.SetFullscreen(target); err != nil {
		log.Warnf("fullscreen request rejected: %v", err)
		return nil
	}

	c.mu.Lock()
	if !c.closed {
		c.state.Fullscreen = target
	}
	c.mu.Unlock()
	c.emit()
	return nil
}

// PointerActivity reports user input on the video surface, forcing controls
// visible and restarting the auto-hide window.
func (c *Controller) PointerActivity() {
	c.mu.Lock()
	if c.closed || !c.caps.Video {
		c.mu.Unlock()
		return
	}
	c.state.ControlsVisible = true
	c.armHideTimerLocked()
	c.mu.Unlock()
	c.emit()
}

// HandleTimeUpdate mirrors a position report from the surface, last-write-wins.
func (c *Controller) HandleTimeUpdate(seconds float64) {
	c.mu.Lock()
	if c.closed || c.ep == nil {
		c.mu.Unlock()
		return
	}
	if seconds < 0 {
		seconds = 0
	}
	c.state.CurrentTime = seconds
	c.mu.Unlock()
	c.emit()
}

// HandleLoadedMetadata records the resource duration and leaves the Loading
// state. A position already set by an early seek is preserved, not clobbered.
func (c *Controller) HandleLoadedMetadata(duration float64) {
	c.mu.Lock()
	if c.closed || c.ep == nil {
		c.mu.Unlock()
		return
	}
	if duration > 0 {
		c.state.Duration = duration
		c.state.CurrentTime = util.Clamp(c.state.CurrentTime, 0, duration)
	}
	if c.state.Status == Loading {
		c.state.Status = Paused
	}
	c.mu.Unlock()
	c.emit()
}

// HandleEnded processes end-of-media: playback stops, the position rewinds to
// zero, and the view registration latch is re-armed so a replay counts as a
// fresh session.
func (c *Controller) HandleEnded() {
	c.mu.Lock()
	if c.closed || c.ep == nil {
		c.mu.Unlock()
		return
	}
	c.state.Status = Ended
	c.state.CurrentTime = 0
	c.state.ControlsVisible = true
	c.registeredView = false
	c.stopHideTimer()
	surface := c.surface
	c.mu.Unlock()

	if err := surface.SeekTo(0); err != nil {
		log.Warnf("rewind after end: %v", err)
	}
	c.emit()
}

// HandlePauseChange reconciles the intended state with a pause transition the
// resource performed on its own (native player controls).
func (c *Controller) HandlePauseChange(paused bool) {
	c.mu.Lock()
	if c.closed || c.ep == nil {
		c.mu.Unlock()
		return
	}

	switch {
	case paused && c.state.Status == Playing:
		c.state.Status = Paused
		c.state.ControlsVisible = true
		c.stopHideTimer()
	case !paused && (c.state.Status == Paused || c.state.Status == Ended):
		c.maybeRegisterViewLocked()
		c.state.Status = Playing
		c.armHideTimerLocked()
	default:
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.emit()
}

// HandleFullscreenChange records a confirmed fullscreen transition reported by the surface.
func (c *Controller) HandleFullscreenChange(on bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Fullscreen = on
	c.mu.Unlock()
	c.emit()
}

// Close releases the controller: pending timers stop, the surface shuts down,
// and every subsequent command is rejected without mutating state.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.stopHideTimer()
	surface := c.surface
	c.mu.Unlock()

	return surface.Close()
}

// maybeRegisterViewLocked fires the once-per-session view registration on the
// first play transition of a fresh start (position under one second). The
// request is fire-and-forget; failure is logged and never blocks playback.
// Callers must hold c.mu.
func (c *Controller) maybeRegisterViewLocked() {
	if c.registeredView || c.tracker == nil || c.state.CurrentTime >= 1 {
		return
	}
	c.registeredView = true

	ep, viewer, tracker := c.ep, c.viewer, c.tracker
	go func() {
		if err := tracker.RegisterView(ep, viewer); err != nil {
			log.Warnf("register view for %s: %v", ep.ID, err)
		}
	}()
}

// armHideTimerLocked (re)starts the controls auto-hide countdown for video
// surfaces while playing. Callers must hold c.mu.
func (c *Controller) armHideTimerLocked() {
	if !c.caps.Video {
		return
	}
	c.stopHideTimer()

	delay := viper.GetInt(key.PlayerControlsHideSeconds)
	if delay <= 0 {
		delay = defaultControlsHideSeconds
	}

	c.hideTimer = time.AfterFunc(time.Duration(delay)*time.Second, func() {
		c.mu.Lock()
		if c.closed || c.state.Status != Playing {
			c.mu.Unlock()
			return
		}
		c.state.ControlsVisible = false
		c.mu.Unlock()
		c.emit()
	})
}

// stopHideTimer cancels the pending auto-hide countdown, if any. Callers must hold c.mu.
func (c *Controller) stopHideTimer() {
	if c.hideTimer != nil {
		c.hideTimer.Stop()
		c.hideTimer = nil
	}
}

// emit delivers a state snapshot to the change callback outside the lock.
func (c *Controller) emit() {
	c.mu.Lock()
	fn := c.onChange
	snapshot := c.state
	c.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}

// notice delivers a transient user notification outside the lock.
func (c *Controller) notice(message string) {
	c.mu.Lock()
	fn := c.onNotice
	c.mu.Unlock()

	if fn != nil {
		fn(message)
	}
}

func validRate(r float64) bool {
	for _, allowed := range Rates {
		if r == allowed {
			return true
		}
	}
	return false
}

// clampPosition constrains a seek target to [0, duration]. An unknown duration
// (zero) only clamps the lower bound; metadata arriving later re-clamps.
func clampPosition(seconds, duration float64) float64 {
	if seconds < 0 {
		return 0
	}
	if duration > 0 && seconds > duration {
		return duration
	}
	return seconds
}
