// Package config loads storyprefs runtime configuration from defaults, an
// optional YAML file and STORYPREFS_ environment variables.
package config

// Config is the validated runtime configuration.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage" validate:"required"`
	Log      LogConfig      `mapstructure:"log" validate:"required"`
	Rules    RulesConfig    `mapstructure:"rules" validate:"required"`
	Activity ActivityConfig `mapstructure:"activity"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=memory file sqlite"`
	// Path is a directory for the file backend and a database file for sqlite.
	Path string `mapstructure:"path" validate:"required_unless=Backend memory"`
	Key  string `mapstructure:"key" validate:"required"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

type RulesConfig struct {
	Engine string `mapstructure:"engine" validate:"required,oneof=expr cel js"`
}

type ActivityConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Channel string `mapstructure:"channel"`
	UserID  string `mapstructure:"user_id" validate:"omitempty,uuid"`
}
