package auth

import (
	"testing"

	"github.com/educast-cli/educast/episode"
	"github.com/educast-cli/educast/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCurrentViewer(t *testing.T) {
	Convey("Given no stored profile", t, func() {
		_ = ClearViewer()

		Convey("An anonymous identity is generated", func() {
			viewer := CurrentViewer()
			So(viewer.Anonymous, ShouldBeTrue)
			So(viewer.ID, ShouldStartWith, "anon-")

			Convey("And it is stable across calls", func() {
				So(CurrentViewer().ID, ShouldEqual, viewer.ID)
			})
		})
	})

	Convey("Given a stored profile", t, func() {
		So(SaveViewer(episode.Viewer{ID: "student-7", Name: "Grace"}), ShouldBeNil)

		Convey("It is returned as-is", func() {
			viewer := CurrentViewer()
			So(viewer.ID, ShouldEqual, "student-7")
			So(viewer.Anonymous, ShouldBeFalse)
		})

		Convey("And ClearViewer drops it", func() {
			So(ClearViewer(), ShouldBeNil)
			So(CurrentViewer().Anonymous, ShouldBeTrue)
		})
	})
}
