package tracking

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/educast-cli/educast/episode"
	"github.com/educast-cli/educast/filesystem"
	"github.com/educast-cli/educast/key"
	"github.com/educast-cli/educast/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.TrackingEnable, true)
	viper.Set(key.TrackingQueueFailures, true)
}

func trackedEpisode() *episode.Episode {
	return &episode.Episode{ID: "ep-9", Title: "Databases, Lecture 1", MediaURL: "https://cdn.example/ep-9.mp3", Kind: episode.Audio}
}

func TestRegisterView(t *testing.T) {
	Convey("Given a backend accepting views", t, func() {
		var (
			mu       sync.Mutex
			requests []viewPayload
			paths    []string
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			var p viewPayload
			_ = json.Unmarshal(body, &p)
			mu.Lock()
			requests = append(requests, p)
			paths = append(paths, r.URL.Path)
			mu.Unlock()
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := NewWithBase(server.URL)

		Convey("RegisterView posts the episode and viewer identity", func() {
			err := client.RegisterView(trackedEpisode(), episode.Viewer{ID: "student-1"})
			So(err, ShouldBeNil)

			mu.Lock()
			defer mu.Unlock()
			So(len(requests), ShouldEqual, 1)
			So(paths[0], ShouldEqual, "/views")
			So(requests[0].EpisodeID, ShouldEqual, "ep-9")
			So(requests[0].ViewerID, ShouldEqual, "student-1")
		})

		Convey("Anonymous viewers are flagged as such", func() {
			err := client.RegisterView(trackedEpisode(), episode.Viewer{ID: "anon-ab12", Anonymous: true})
			So(err, ShouldBeNil)

			mu.Lock()
			defer mu.Unlock()
			So(requests[0].Anonymous, ShouldBeTrue)
		})
	})

	Convey("Given a backend reporting a duplicate", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		defer server.Close()

		Convey("The duplicate is treated as success", func() {
			err := NewWithBase(server.URL).RegisterView(trackedEpisode(), episode.Viewer{ID: "student-1"})
			So(err, ShouldBeNil)
		})
	})

	Convey("Given a failing backend", t, func() {
		_ = filesystem.API().Remove(where.TrackingQueue())
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		Convey("The failure is reported and queued for reconciliation", func() {
			err := NewWithBase(server.URL).RegisterView(trackedEpisode(), episode.Viewer{ID: "student-1"})
			So(err, ShouldNotBeNil)

			content, readErr := filesystem.API().ReadFile(where.TrackingQueue())
			So(readErr, ShouldBeNil)

			var m Mutation
			So(json.Unmarshal(content, &m), ShouldBeNil)
			So(m.EpisodeID, ShouldEqual, "ep-9")
			So(m.Action, ShouldEqual, "RegisterView")
		})
	})

	Convey("Given tracking is disabled", t, func() {
		viper.Set(key.TrackingEnable, false)
		defer viper.Set(key.TrackingEnable, true)

		Convey("No request is issued", func() {
			// A client with an unreachable base would fail if a request went out.
			err := NewWithBase("http://127.0.0.1:1").RegisterView(trackedEpisode(), episode.Viewer{ID: "x"})
			So(err, ShouldBeNil)
		})
	})
}

func TestToggleLike(t *testing.T) {
	Convey("Given a backend accepting likes", t, func() {
		var (
			mu   sync.Mutex
			path string
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			path = r.URL.Path
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		Convey("ToggleLike posts to the likes endpoint", func() {
			err := NewWithBase(server.URL).ToggleLike(trackedEpisode(), episode.Viewer{ID: "student-1"})
			So(err, ShouldBeNil)

			mu.Lock()
			defer mu.Unlock()
			So(path, ShouldEqual, "/likes")
		})
	})
}

func TestReconcileBackoff(t *testing.T) {
	Convey("Replay delays grow exponentially up to a cap", t, func() {
		first := reconcileBackoff(0)
		So(first, ShouldBeGreaterThanOrEqualTo, 100*time.Millisecond)
		So(first, ShouldBeLessThan, 200*time.Millisecond)

		third := reconcileBackoff(2)
		So(third, ShouldBeGreaterThanOrEqualTo, 400*time.Millisecond)
		So(third, ShouldBeLessThan, 500*time.Millisecond)

		// Deep queue positions must not sleep for hours or overflow the shift.
		for _, i := range []int{6, 20, 64, 1000} {
			d := reconcileBackoff(i)
			So(d, ShouldBeGreaterThanOrEqualTo, 6400*time.Millisecond)
			So(d, ShouldBeLessThan, 6500*time.Millisecond)
		}
	})
}

func TestReconcileFailures(t *testing.T) {
	Convey("Given queued failures and a recovered backend", t, func() {
		_ = filesystem.API().Remove(where.TrackingQueue())
		So(QueueFailure("ep-1", "RegisterView", `{"episode_id":"ep-1","viewer_id":"v1"}`), ShouldBeNil)
		So(QueueFailure("ep-2", "ToggleLike", `{"episode_id":"ep-2","viewer_id":"v1"}`), ShouldBeNil)

		var (
			mu    sync.Mutex
			paths []string
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			paths = append(paths, r.URL.Path)
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()
		viper.Set(key.APIURL, server.URL)

		Convey("Reconciliation replays the queue and clears it", func() {
			reconcile()

			mu.Lock()
			So(paths, ShouldResemble, []string{"/views", "/likes"})
			mu.Unlock()

			exists, _ := filesystem.API().Exists(where.TrackingQueue())
			So(exists, ShouldBeFalse)
		})
	})

	Convey("Given queued failures and a still-failing backend", t, func() {
		_ = filesystem.API().Remove(where.TrackingQueue())
		So(QueueFailure("ep-3", "RegisterView", `{"episode_id":"ep-3","viewer_id":"v1"}`), ShouldBeNil)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()
		viper.Set(key.APIURL, server.URL)

		Convey("The mutation stays queued", func() {
			reconcile()

			content, err := filesystem.API().ReadFile(where.TrackingQueue())
			So(err, ShouldBeNil)

			var m Mutation
			So(json.Unmarshal(content, &m), ShouldBeNil)
			So(m.EpisodeID, ShouldEqual, "ep-3")
		})
	})
}
