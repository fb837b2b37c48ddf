package config

import (
	"testing"

	"github.com/educast-cli/educast/filesystem"
	"github.com/educast-cli/educast/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			So(Setup(), ShouldBeNil)
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetInt(key.PlayerControlsHideSeconds), ShouldEqual, 3)
			So(viper.GetBool(key.TrackingEnable), ShouldBeTrue)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("player.controls_hide_seconds")
			So(result, ShouldEqual, "player_controls_hide_seconds")
		})
	})
}

func TestFieldEnv(t *testing.T) {
	Convey("Field environment names carry the application prefix", t, func() {
		field := Default[key.APIURL]
		So(field.Env(), ShouldEqual, "EDUCAST_API_URL")
	})
}
