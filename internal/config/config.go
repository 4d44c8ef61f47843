// Package config handles render configuration loading and management.
package config

// Config holds all run settings.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds renderer settings. Zero values for Width, Samples and
// MaxDepth keep the scene's own camera settings.
type RenderConfig struct {
	Workers   int    `yaml:"workers"`   // 0 = one per CPU
	TileSize  int    `yaml:"tile_size"` // Tile edge in pixels
	Seed      uint64 `yaml:"seed"`      // Sampler seed, also used for the default scene layout
	Width     int    `yaml:"width"`
	Samples   int    `yaml:"samples"`
	MaxDepth  int    `yaml:"max_depth"`
	ScenesDir string `yaml:"scenes_dir"` // Directory searched for scene files
}

// OutputConfig holds image output settings.
type OutputConfig struct {
	Dir             string `yaml:"dir"`
	Pattern         string `yaml:"pattern"` // fmt pattern for animation frames; extension picks the format
	ContinueOnError bool   `yaml:"continue_on_error"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Workers:   0,
			TileSize:  32,
			Seed:      42,
			ScenesDir: "scenes",
		},
		Output: OutputConfig{
			Dir:     "output",
			Pattern: "frame-%d.png",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
