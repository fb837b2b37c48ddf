package playback

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/educast-cli/educast/episode"
	"github.com/educast-cli/educast/filesystem"
	"github.com/educast-cli/educast/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

// fakeSurface records every command the controller issues.
type fakeSurface struct {
	mu sync.Mutex

	loaded     Media
	loads      int
	playErr    error
	fullErr    error
	paused     bool
	seeks      []float64
	volume     float64
	muted      bool
	rate       float64
	captions   int
	fullscreen bool
	closed     bool
}

func (s *fakeSurface) Load(media Media) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = media
	s.loads++
	s.paused = true
	return nil
}

func (s *fakeSurface) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playErr != nil {
		return s.playErr
	}
	s.paused = false
	return nil
}

func (s *fakeSurface) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
	return nil
}

func (s *fakeSurface) SeekTo(seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeks = append(s.seeks, seconds)
	return nil
}

func (s *fakeSurface) SetVolume(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = v
	return nil
}

func (s *fakeSurface) SetMuted(muted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
	return nil
}

func (s *fakeSurface) SetRate(r float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rate = r
	return nil
}

func (s *fakeSurface) ShowCaptions(bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captions++
	return nil
}

func (s *fakeSurface) SetFullscreen(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fullErr != nil {
		return s.fullErr
	}
	s.fullscreen = on
	return nil
}

func (s *fakeSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSurface) lastSeek() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.seeks) == 0 {
		return -1
	}
	return s.seeks[len(s.seeks)-1]
}

func (s *fakeSurface) captionCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captions
}

// fakeTracker counts fire-and-forget view registrations.
type fakeTracker struct {
	mu    sync.Mutex
	views []string
	err   error
}

func (t *fakeTracker) RegisterView(ep *episode.Episode, _ episode.Viewer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.views = append(t.views, ep.ID)
	return t.err
}

func (t *fakeTracker) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.views)
}

func (t *fakeTracker) last() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.views) == 0 {
		return ""
	}
	return t.views[len(t.views)-1]
}

// waitViews polls until the tracker has seen n registrations or a timeout expires.
// Registration is asynchronous by contract, so assertions must wait it out.
func waitViews(t *fakeTracker, n int) int {
	for i := 0; i < 100; i++ {
		if t.count() >= n {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	// Grace period so over-counting would also be observed.
	time.Sleep(20 * time.Millisecond)
	return t.count()
}

func testEpisode() *episode.Episode {
	return &episode.Episode{
		ID:       "ep-42",
		Title:    "Operating Systems, Lecture 7",
		MediaURL: "https://cdn.educast.example/media/ep-42.mp4",
		Kind:     episode.Video,
		Duration: 120,
		AuthorID: "prof-1",
	}
}

func testViewer() episode.Viewer {
	return episode.Viewer{ID: "student-1", Name: "Ada"}
}

func TestViewRegistration(t *testing.T) {
	Convey("Given a loaded episode", t, func() {
		surface := &fakeSurface{}
		tracker := &fakeTracker{}
		c := NewController(surface, VideoCapabilities(), tracker, testViewer())
		So(c.Load(testEpisode()), ShouldBeNil)
		c.HandleLoadedMetadata(120)

		Convey("The first fresh play registers exactly one view", func() {
			So(c.TogglePlay(), ShouldBeNil)
			So(waitViews(tracker, 1), ShouldEqual, 1)
			So(tracker.last(), ShouldEqual, "ep-42")

			Convey("And pause/resume cycles never register again", func() {
				for i := 0; i < 5; i++ {
					So(c.TogglePlay(), ShouldBeNil)
				}
				So(waitViews(tracker, 1), ShouldEqual, 1)
			})
		})

		Convey("Resuming from a later position does not register", func() {
			c.HandleTimeUpdate(30)
			So(c.TogglePlay(), ShouldBeNil)
			So(waitViews(tracker, 0), ShouldEqual, 0)
		})

		Convey("End-of-media re-arms registration for a replay", func() {
			So(c.TogglePlay(), ShouldBeNil)
			So(waitViews(tracker, 1), ShouldEqual, 1)

			c.HandleEnded()
			So(c.State().Status, ShouldEqual, Ended)
			So(c.State().CurrentTime, ShouldEqual, 0)

			So(c.TogglePlay(), ShouldBeNil)
			So(waitViews(tracker, 2), ShouldEqual, 2)
		})

		Convey("A new Load re-arms registration", func() {
			So(c.TogglePlay(), ShouldBeNil)
			So(waitViews(tracker, 1), ShouldEqual, 1)

			other := testEpisode()
			other.ID = "ep-43"
			So(c.Load(other), ShouldBeNil)
			c.HandleLoadedMetadata(60)

			So(c.TogglePlay(), ShouldBeNil)
			So(waitViews(tracker, 2), ShouldEqual, 2)
			So(tracker.last(), ShouldEqual, "ep-43")
		})

		Convey("Registration failure never disturbs playback state", func() {
			tracker.err = errors.New("backend down")
			So(c.TogglePlay(), ShouldBeNil)
			So(waitViews(tracker, 1), ShouldEqual, 1)
			So(c.State().Status, ShouldEqual, Playing)
		})
	})
}

func TestVolumeAndMute(t *testing.T) {
	Convey("Given a controller", t, func() {
		surface := &fakeSurface{}
		c := NewController(surface, AudioCapabilities(), nil, testViewer())
		So(c.Load(testEpisode()), ShouldBeNil)

		Convey("Mute toggling restores the stored volume", func() {
			So(c.SetVolume(0.7), ShouldBeNil)
			So(c.ToggleMute(), ShouldBeNil)
			So(c.State().Muted, ShouldBeTrue)
			So(c.State().EffectiveVolume(), ShouldEqual, 0)

			So(c.ToggleMute(), ShouldBeNil)
			So(c.State().Muted, ShouldBeFalse)
			So(c.State().EffectiveVolume(), ShouldEqual, 0.7)
		})

		Convey("Setting zero volume engages mute", func() {
			So(c.SetVolume(0.8), ShouldBeNil)
			So(c.SetVolume(0), ShouldBeNil)
			So(c.State().Muted, ShouldBeTrue)

			Convey("And a later non-zero volume disengages it", func() {
				So(c.SetVolume(0.6), ShouldBeNil)
				So(c.State().Muted, ShouldBeFalse)
				So(c.State().Volume, ShouldEqual, 0.6)
			})
		})

		Convey("An explicit mute survives later volume changes", func() {
			So(c.ToggleMute(), ShouldBeNil)
			So(c.SetVolume(0.5), ShouldBeNil)
			So(c.State().Muted, ShouldBeTrue)
			So(c.State().Volume, ShouldEqual, 0.5)
		})

		Convey("Out-of-range volumes are clamped", func() {
			So(c.SetVolume(1.5), ShouldBeNil)
			So(c.State().Volume, ShouldEqual, 1)
			So(c.SetVolume(-0.5), ShouldBeNil)
			So(c.State().Muted, ShouldBeTrue)
		})
	})
}

func TestSeeking(t *testing.T) {
	Convey("Given a loaded episode with known duration", t, func() {
		surface := &fakeSurface{}
		c := NewController(surface, AudioCapabilities(), nil, testViewer())
		So(c.Load(testEpisode()), ShouldBeNil)
		c.HandleLoadedMetadata(100)

		Convey("Negative targets clamp to zero", func() {
			So(c.Seek(-10), ShouldBeNil)
			So(c.State().CurrentTime, ShouldEqual, 0)
			So(surface.lastSeek(), ShouldEqual, 0)
		})

		Convey("Targets past the end clamp to the duration", func() {
			So(c.Seek(500), ShouldBeNil)
			So(c.State().CurrentTime, ShouldEqual, 100)
		})

		Convey("Skip applies a clamped relative delta", func() {
			So(c.Seek(50), ShouldBeNil)
			So(c.Skip(30), ShouldBeNil)
			So(c.State().CurrentTime, ShouldEqual, 80)
			So(c.Skip(-200), ShouldBeNil)
			So(c.State().CurrentTime, ShouldEqual, 0)
		})
	})

	Convey("Given metadata that arrives after an early seek", t, func() {
		surface := &fakeSurface{}
		c := NewController(surface, AudioCapabilities(), nil, testViewer())
		ep := testEpisode()
		ep.Duration = 0
		So(c.Load(ep), ShouldBeNil)

		So(c.Seek(45), ShouldBeNil)
		So(c.State().CurrentTime, ShouldEqual, 45)

		Convey("The seek position survives the metadata event", func() {
			c.HandleLoadedMetadata(120)
			So(c.State().CurrentTime, ShouldEqual, 45)
			So(c.State().Duration, ShouldEqual, 120)
		})

		Convey("A too-late position is clamped once the duration is known", func() {
			So(c.Seek(500), ShouldBeNil)
			c.HandleLoadedMetadata(120)
			So(c.State().CurrentTime, ShouldEqual, 120)
		})
	})
}

func TestTogglePlay(t *testing.T) {
	Convey("Given a loaded episode", t, func() {
		surface := &fakeSurface{}
		c := NewController(surface, AudioCapabilities(), nil, testViewer())
		So(c.Load(testEpisode()), ShouldBeNil)
		c.HandleLoadedMetadata(120)

		Convey("Play and pause alternate", func() {
			So(c.TogglePlay(), ShouldBeNil)
			So(c.State().Status, ShouldEqual, Playing)
			So(c.TogglePlay(), ShouldBeNil)
			So(c.State().Status, ShouldEqual, Paused)
		})

		Convey("A rejected start reverts the optimistic transition", func() {
			surface.playErr = errors.New("decode failure")

			var notices []string
			var mu sync.Mutex
			c.OnNotice(func(msg string) {
				mu.Lock()
				notices = append(notices, msg)
				mu.Unlock()
			})

			So(c.TogglePlay(), ShouldBeNil)
			So(c.State().Status, ShouldEqual, Paused)

			mu.Lock()
			So(len(notices), ShouldEqual, 1)
			mu.Unlock()
		})

		Convey("Transport commands without a loaded episode are rejected", func() {
			fresh := NewController(&fakeSurface{}, AudioCapabilities(), nil, testViewer())
			So(fresh.TogglePlay(), ShouldEqual, ErrNoEpisode)
			So(fresh.Seek(10), ShouldEqual, ErrNoEpisode)
		})
	})
}

func TestPlaybackRate(t *testing.T) {
	Convey("Given a playing episode", t, func() {
		surface := &fakeSurface{}
		c := NewController(surface, AudioCapabilities(), nil, testViewer())
		So(c.Load(testEpisode()), ShouldBeNil)
		c.HandleLoadedMetadata(120)
		So(c.Seek(60), ShouldBeNil)

		Convey("An enumerated rate applies without resetting the position", func() {
			So(c.SetRate(1.5), ShouldBeNil)
			So(c.State().Rate, ShouldEqual, 1.5)
			So(c.State().CurrentTime, ShouldEqual, 60)
		})

		Convey("A rate outside the enumerated set is rejected", func() {
			So(c.SetRate(3), ShouldNotBeNil)
			So(c.State().Rate, ShouldEqual, 1)
		})

		Convey("CycleRate wraps through the enumerated set", func() {
			So(c.CycleRate(), ShouldBeNil)
			So(c.State().Rate, ShouldEqual, 1.25)

			So(c.SetRate(2), ShouldBeNil)
			So(c.CycleRate(), ShouldBeNil)
			So(c.State().Rate, ShouldEqual, 0.5)
		})
	})
}

func TestCaptions(t *testing.T) {
	Convey("Given a video episode with a transcript", t, func() {
		surface := &fakeSurface{}
		c := NewController(surface, VideoCapabilities(), nil, testViewer())
		ep := testEpisode()
		ep.Transcript = "Welcome. Today we cover scheduling."
		So(c.Load(ep), ShouldBeNil)

		Convey("The surface receives a caption sidecar", func() {
			So(surface.loaded.CaptionPath, ShouldNotBeEmpty)
		})

		Convey("Toggling flips caption visibility", func() {
			So(c.ToggleCaptions(), ShouldBeNil)
			So(c.State().CaptionsEnabled, ShouldBeTrue)
			So(c.ToggleCaptions(), ShouldBeNil)
			So(c.State().CaptionsEnabled, ShouldBeFalse)
			So(surface.captionCalls(), ShouldEqual, 2)
		})
	})

	Convey("Given an episode without a transcript", t, func() {
		surface := &fakeSurface{}
		c := NewController(surface, VideoCapabilities(), nil, testViewer())
		So(c.Load(testEpisode()), ShouldBeNil)

		Convey("ToggleCaptions is a no-op", func() {
			So(c.ToggleCaptions(), ShouldBeNil)
			So(c.State().CaptionsEnabled, ShouldBeFalse)
			So(surface.captionCalls(), ShouldEqual, 0)
		})
	})
}

func TestFullscreen(t *testing.T) {
	Convey("Given a video controller", t, func() {
		surface := &fakeSurface{}
		c := NewController(surface, VideoCapabilities(), nil, testViewer())
		So(c.Load(testEpisode()), ShouldBeNil)

		Convey("A confirmed request flips the state", func() {
			So(c.ToggleFullscreen(), ShouldBeNil)
			So(c.State().Fullscreen, ShouldBeTrue)
			So(c.ToggleFullscreen(), ShouldBeNil)
			So(c.State().Fullscreen, ShouldBeFalse)
		})

		Convey("A rejected request leaves the state unchanged", func() {
			surface.fullErr = errors.New("no display")
			So(c.ToggleFullscreen(), ShouldBeNil)
			So(c.State().Fullscreen, ShouldBeFalse)
		})
	})

	Convey("Given an audio controller", t, func() {
		surface := &fakeSurface{}
		c := NewController(surface, AudioCapabilities(), nil, testViewer())
		So(c.Load(testEpisode()), ShouldBeNil)

		Convey("Fullscreen is a no-op", func() {
			So(c.ToggleFullscreen(), ShouldBeNil)
			So(c.State().Fullscreen, ShouldBeFalse)
		})
	})
}

func TestControlsAutoHide(t *testing.T) {
	Convey("Given a playing video surface with a short hide window", t, func() {
		viper.Set(key.PlayerControlsHideSeconds, 1)
		defer viper.Set(key.PlayerControlsHideSeconds, 0)

		surface := &fakeSurface{}
		c := NewController(surface, VideoCapabilities(), nil, testViewer())
		So(c.Load(testEpisode()), ShouldBeNil)
		c.HandleLoadedMetadata(120)
		So(c.TogglePlay(), ShouldBeNil)

		Convey("Controls hide after the inactivity window", func() {
			So(c.State().ControlsVisible, ShouldBeTrue)
			time.Sleep(1200 * time.Millisecond)
			So(c.State().ControlsVisible, ShouldBeFalse)

			Convey("And pointer activity brings them back", func() {
				c.PointerActivity()
				So(c.State().ControlsVisible, ShouldBeTrue)
			})
		})

		Convey("Pausing cancels the countdown", func() {
			So(c.TogglePlay(), ShouldBeNil)
			time.Sleep(1200 * time.Millisecond)
			So(c.State().ControlsVisible, ShouldBeTrue)
		})
	})
}

func TestEndToEndScenario(t *testing.T) {
	Convey("Given the full play/seek/end sequence", t, func() {
		surface := &fakeSurface{}
		tracker := &fakeTracker{}
		c := NewController(surface, VideoCapabilities(), tracker, testViewer())

		ep := testEpisode()
		So(c.Load(ep), ShouldBeNil)
		c.HandleLoadedMetadata(120)

		So(c.TogglePlay(), ShouldBeNil)
		So(waitViews(tracker, 1), ShouldEqual, 1)
		So(tracker.last(), ShouldEqual, ep.ID)

		So(c.Seek(119), ShouldBeNil)
		c.HandleTimeUpdate(119)
		So(c.State().CurrentTime, ShouldEqual, 119)

		c.HandleEnded()
		So(c.State().IsPlaying(), ShouldBeFalse)
		So(c.State().CurrentTime, ShouldEqual, 0)
		So(surface.lastSeek(), ShouldEqual, 0)
	})
}

func TestClose(t *testing.T) {
	Convey("Given a closed controller", t, func() {
		surface := &fakeSurface{}
		c := NewController(surface, VideoCapabilities(), nil, testViewer())
		So(c.Load(testEpisode()), ShouldBeNil)
		So(c.Close(), ShouldBeNil)

		Convey("The surface is shut down", func() {
			So(surface.closed, ShouldBeTrue)
		})

		Convey("Commands no longer mutate state", func() {
			So(c.TogglePlay(), ShouldEqual, ErrClosed)
			So(c.Seek(10), ShouldEqual, ErrClosed)
			So(c.SetVolume(0.2), ShouldEqual, ErrClosed)
			So(c.State().Status, ShouldEqual, Loading)
		})

		Convey("Late surface events are dropped", func() {
			c.HandleTimeUpdate(50)
			c.HandleEnded()
			So(c.State().CurrentTime, ShouldEqual, 0)
		})

		Convey("A second Close is harmless", func() {
			So(c.Close(), ShouldBeNil)
		})
	})
}
