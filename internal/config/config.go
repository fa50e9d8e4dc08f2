package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory
const FileName = "mymaps.cfg.json"

// StorageConfig selects and configures the persistence backend
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	File   FileConfig   `json:"file" mapstructure:"file"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// FileConfig holds single-file storage settings
type FileConfig struct {
	Path           string `json:"path" mapstructure:"path"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite storage settings
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// AnimationConfig holds pin drop timing
type AnimationConfig struct {
	Duration  time.Duration
	Tick      time.Duration
	Overshoot float64
}

// CameraConfig holds the camera fit parameters
type CameraConfig struct {
	PaddingX int
	PaddingY int
	Tilt     float64
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// SetDefaults registers every default value. Load calls it; callers that
// run without a config file call it directly.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("storage.type", "file")
	viper.SetDefault("storage.file.path", "./UserMaps.data")
	viper.SetDefault("storage.file.compressOutput", false)
	viper.SetDefault("storage.sqlite.path", "./mymaps.db")

	viper.SetDefault("animation.duration", "1500ms")
	viper.SetDefault("animation.tick", "15ms")
	viper.SetDefault("animation.overshoot", 14.0)

	viper.SetDefault("camera.paddingX", 1000)
	viper.SetDefault("camera.paddingY", 1000)
	viper.SetDefault("camera.tilt", 0.0)

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "mymaps")
	viper.SetDefault("otel.batchTimeout", "5s")
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the storage section
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		File: FileConfig{
			Path:           viper.GetString("storage.file.path"),
			CompressOutput: viper.GetBool("storage.file.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
	}
}

// GetAnimationConfig returns the animation section
func GetAnimationConfig() AnimationConfig {
	return AnimationConfig{
		Duration:  viper.GetDuration("animation.duration"),
		Tick:      viper.GetDuration("animation.tick"),
		Overshoot: viper.GetFloat64("animation.overshoot"),
	}
}

// GetCameraConfig returns the camera section
func GetCameraConfig() CameraConfig {
	return CameraConfig{
		PaddingX: viper.GetInt("camera.paddingX"),
		PaddingY: viper.GetInt("camera.paddingY"),
		Tilt:     viper.GetFloat64("camera.tilt"),
	}
}

// GetOTelConfig returns the otel section
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
	}
}
