// Package config loads stepchef settings from a YAML file, STEPCHEF_*
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hammamikhairi/stepchef/internal/logger"
)

// EnvPrefix is prepended to every environment override, e.g.
// STEPCHEF_LOG_LEVEL=verbose.
const EnvPrefix = "STEPCHEF"

// Keys understood by Load.
const (
	KeyLogLevel       = "log.level"
	KeyLogFile        = "log.file"
	KeyHistoryPath    = "history.path"
	KeyHistoryEnabled = "history.enabled"
	KeyChimeEnabled   = "chime.enabled"
	KeyChimeFile      = "chime.file"
	KeyChimeVolume    = "chime.volume"
	KeyResetVariation = "session.reset_variation"
)

// Config is the resolved application configuration.
type Config struct {
	LogLevel       logger.Level
	LogFile        string // "stderr" logs to the console
	HistoryPath    string
	HistoryEnabled bool
	ChimeEnabled   bool
	ChimeFile      string // optional WAV replacing the built-in fanfare
	ChimeVolume    float64
	ResetVariation bool

	// Source is the config file that was read, empty when none was found.
	Source string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "normal")
	v.SetDefault(KeyLogFile, filepath.Join(".stepchef", "stepchef.log"))
	v.SetDefault(KeyHistoryPath, filepath.Join("$HOME", ".local", "share", "stepchef", "history.db"))
	v.SetDefault(KeyHistoryEnabled, true)
	v.SetDefault(KeyChimeEnabled, true)
	v.SetDefault(KeyChimeFile, "")
	v.SetDefault(KeyChimeVolume, 0.4)
	v.SetDefault(KeyResetVariation, false)
}

// Load reads the configuration into v. An explicit file must exist; when
// file is empty the standard locations are searched and a missing file is
// not an error. A .env file in the working directory is loaded first so
// its variables can override file settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	_ = godotenv.Load()

	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "stepchef"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return From(v)
}

// From builds a Config from values already present in v.
func From(v *viper.Viper) (*Config, error) {
	level := logger.ParseLevel(strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))))

	vol := v.GetFloat64(KeyChimeVolume)
	if vol < 0 || vol > 1 {
		return nil, fmt.Errorf("config %s: %v is outside [0, 1]", KeyChimeVolume, vol)
	}

	return &Config{
		LogLevel:       level,
		LogFile:        v.GetString(KeyLogFile),
		HistoryPath:    ExpandPath(v.GetString(KeyHistoryPath)),
		HistoryEnabled: v.GetBool(KeyHistoryEnabled),
		ChimeEnabled:   v.GetBool(KeyChimeEnabled),
		ChimeFile:      ExpandPath(v.GetString(KeyChimeFile)),
		ChimeVolume:    vol,
		ResetVariation: v.GetBool(KeyResetVariation),
		Source:         v.ConfigFileUsed(),
	}, nil
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) string {
	if path == "" || path == ":memory:" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return os.ExpandEnv(path)
}
