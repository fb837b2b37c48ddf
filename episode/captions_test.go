package episode

import (
	"strings"
	"testing"

	"github.com/educast-cli/educast/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCaptionCues(t *testing.T) {
	Convey("Given an episode with a transcript and known duration", t, func() {
		ep := Episode{
			ID:         "ep-1",
			Title:      "Linear Algebra, Lecture 3",
			Kind:       Video,
			Transcript: "Welcome back. Today we cover eigenvalues! Any questions?",
			Duration:   120,
		}

		Convey("Cues should cover the full duration proportionally", func() {
			cues := ep.CaptionCues()
			So(len(cues), ShouldEqual, 3)
			So(cues[0].Start, ShouldEqual, 0)
			So(cues[len(cues)-1].End, ShouldAlmostEqual, 120, 0.001)

			Convey("And each cue should follow its predecessor", func() {
				for i := 1; i < len(cues); i++ {
					So(cues[i].Start, ShouldAlmostEqual, cues[i-1].End, 0.001)
				}
			})
		})
	})

	Convey("Given an episode with unknown duration", t, func() {
		ep := Episode{Transcript: "One. Two. Three.", Kind: Video}

		Convey("Cues should fall back to a fixed length", func() {
			cues := ep.CaptionCues()
			So(len(cues), ShouldEqual, 3)
			So(cues[0].End-cues[0].Start, ShouldAlmostEqual, fallbackCueSeconds, 0.001)
		})
	})

	Convey("Given an episode without a transcript", t, func() {
		ep := Episode{Kind: Video}

		Convey("No cues should be synthesized", func() {
			So(ep.CaptionCues(), ShouldBeNil)
		})

		Convey("CaptionFile should return an empty path without error", func() {
			path, err := ep.CaptionFile()
			So(err, ShouldBeNil)
			So(path, ShouldBeEmpty)
		})
	})
}

func TestRenderVTT(t *testing.T) {
	Convey("RenderVTT", t, func() {
		cues := []Cue{
			{Index: 1, Start: 0, End: 2.5, Text: "Hello"},
			{Index: 2, Start: 2.5, End: 65, Text: "World"},
		}
		rendered := RenderVTT(cues)

		So(rendered, ShouldStartWith, "WEBVTT")
		So(rendered, ShouldContainSubstring, "00:00:00.000 --> 00:00:02.500")
		So(rendered, ShouldContainSubstring, "00:00:02.500 --> 00:01:05.000")
		So(rendered, ShouldContainSubstring, "Hello")
	})
}

func TestCaptionFile(t *testing.T) {
	Convey("Given an episode with a transcript", t, func() {
		ep := Episode{
			ID:         "ep-2",
			Title:      "Thermodynamics Intro",
			Kind:       Video,
			Transcript: "Heat flows from hot to cold. Entropy increases.",
			Duration:   60,
		}

		Convey("CaptionFile should write a WebVTT sidecar", func() {
			path, err := ep.CaptionFile()
			So(err, ShouldBeNil)
			So(path, ShouldEndWith, ".vtt")

			content, err := filesystem.API().ReadFile(path)
			So(err, ShouldBeNil)
			So(strings.HasPrefix(string(content), "WEBVTT"), ShouldBeTrue)
		})
	})
}
