package config

import "flag"

// Flags holds command line overrides registered on a FlagSet.
type Flags struct {
	fs *flag.FlagSet

	ConfigPath *string
	Debug      *bool
	Workers    *int
	TileSize   *int
	Seed       *uint64
	Width      *int
	Samples    *int
	MaxDepth   *int
	ScenesDir  *string
	OutputDir  *string
	Pattern    *string
	LogFile    *string
	SaveConfig *string
}

// RegisterFlags adds the render flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs:         fs,
		ConfigPath: fs.String("config", "", "Path to config file"),
		Debug:      fs.Bool("debug", false, "Enable debug logging"),
		Workers:    fs.Int("workers", 0, "Number of render workers (0 = one per CPU)"),
		TileSize:   fs.Int("tile-size", 0, "Tile edge in pixels"),
		Seed:       fs.Uint64("seed", 0, "Sampler seed"),
		Width:      fs.Int("width", 0, "Override the scene's image width"),
		Samples:    fs.Int("samples", 0, "Override the scene's samples per pixel"),
		MaxDepth:   fs.Int("max-depth", 0, "Override the scene's maximum bounce depth"),
		ScenesDir:  fs.String("scenes", "", "Directory containing scene files"),
		OutputDir:  fs.String("out", "", "Output directory"),
		Pattern:    fs.String("pattern", "", "Animation frame file pattern, e.g. frame-%04d.ppm"),
		LogFile:    fs.String("log-file", "", "Also write logs to this rotating file"),
		SaveConfig: fs.String("save-config", "", "Write the effective config to this file"),
	}
}

// applyFlags copies every flag that was set on the command line into cfg.
func (f *Flags) applyFlags(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			if *f.Debug {
				cfg.Logging.Level = "debug"
			}
		case "workers":
			cfg.Render.Workers = *f.Workers
		case "tile-size":
			cfg.Render.TileSize = *f.TileSize
		case "seed":
			cfg.Render.Seed = *f.Seed
		case "width":
			cfg.Render.Width = *f.Width
		case "samples":
			cfg.Render.Samples = *f.Samples
		case "max-depth":
			cfg.Render.MaxDepth = *f.MaxDepth
		case "scenes":
			cfg.Render.ScenesDir = *f.ScenesDir
		case "out":
			cfg.Output.Dir = *f.OutputDir
		case "pattern":
			cfg.Output.Pattern = *f.Pattern
		case "log-file":
			cfg.Logging.LogFile = *f.LogFile
		}
	})
}
