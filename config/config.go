// Package config provides the registry of settings and the viper-based
// configuration engine behind them.
package config

import (
	"fmt"
	"strings"

	"github.com/educast-cli/educast/constant"
	"github.com/educast-cli/educast/filesystem"
	"github.com/educast-cli/educast/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer normalizes configuration keys into environment variable
// naming conventions ("player.volume" to "PLAYER_VOLUME").
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup wires defaults, environment bindings and the on-disk TOML file into
// the global viper state. A missing config file is not an error.
func Setup() error {
	viper.SetConfigName(constant.EduCast)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	bindEnv()
	setDefaults()

	switch err := viper.ReadInConfig(); err.(type) {
	case nil, viper.ConfigFileNotFoundError:
		return nil
	default:
		return fmt.Errorf("read config: %w", err)
	}
}

func bindEnv() {
	viper.SetEnvPrefix(constant.EduCast)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)

	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}
}

func setDefaults() {
	viper.SetTypeByDefaultValue(true)

	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}
}
