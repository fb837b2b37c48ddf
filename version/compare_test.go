package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Version comparison", t, func() {
		Convey("Equal versions compare as 0", func() {
			result, err := Compare("1.2.3", "v1.2.3")
			So(err, ShouldBeNil)
			So(result, ShouldEqual, 0)
		})

		Convey("A newer version compares as 1", func() {
			result, err := Compare("1.3.0", "1.2.9")
			So(err, ShouldBeNil)
			So(result, ShouldEqual, 1)
		})

		Convey("An older version compares as -1", func() {
			result, err := Compare("0.9.9", "1.0.0")
			So(err, ShouldBeNil)
			So(result, ShouldEqual, -1)
		})

		Convey("Malformed versions are an error", func() {
			_, err := Compare("not-a-version", "1.0.0")
			So(err, ShouldNotBeNil)
		})
	})
}
