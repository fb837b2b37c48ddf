package history

import (
	"testing"

	"github.com/educast-cli/educast/episode"
	"github.com/educast-cli/educast/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given an episode", t, func() {
		e := &episode.Episode{
			ID:       "ep-42",
			Title:    "Operating Systems, Lecture 3",
			MediaURL: "https://cdn.example/ep-42.mp4",
			Kind:     episode.Video,
			Duration: 1800,
		}

		Convey("When it is saved to the history", func() {
			err := Save(e, 10)

			Convey("It should be retrievable", func() {
				So(err, ShouldBeNil)

				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldContainKey, "ep-42")
				So(saved["ep-42"].WatchedPercentage, ShouldEqual, 10)

				Convey("Saving a higher percentage advances the record", func() {
					So(Save(e, 55), ShouldBeNil)

					saved, err := Get()
					So(err, ShouldBeNil)
					So(saved["ep-42"].WatchedPercentage, ShouldEqual, 55)
				})

				Convey("Saving a lower percentage does not regress it", func() {
					So(Save(e, 55), ShouldBeNil)
					So(Save(e, 5), ShouldBeNil)

					saved, err := Get()
					So(err, ShouldBeNil)
					So(saved["ep-42"].WatchedPercentage, ShouldEqual, 55)
				})

				Convey("And it can be removed", func() {
					saved, _ := Get()
					So(Remove(saved["ep-42"]), ShouldBeNil)

					saved, err := Get()
					So(err, ShouldBeNil)
					So(saved, ShouldNotContainKey, "ep-42")
				})
			})
		})

		Convey("When searching the history", func() {
			So(Save(e, 10), ShouldBeNil)
			So(Save(&episode.Episode{ID: "ep-43", Title: "Compilers, Lecture 1"}, 20), ShouldBeNil)

			Convey("A fuzzy query matches titles", func() {
				records, err := Search("oprting")
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 1)
				So(records[0].EpisodeID, ShouldEqual, "ep-42")
			})

			Convey("An empty query returns everything", func() {
				records, err := Search("")
				So(err, ShouldBeNil)
				So(len(records), ShouldBeGreaterThanOrEqualTo, 2)
			})
		})
	})
}
