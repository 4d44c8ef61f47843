package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/df07/go-animated-raytracer/internal/config"
	"github.com/df07/go-animated-raytracer/internal/logger"
	"github.com/df07/go-animated-raytracer/pkg/loaders"
	"github.com/df07/go-animated-raytracer/pkg/output"
	"github.com/df07/go-animated-raytracer/pkg/renderer"
	"github.com/df07/go-animated-raytracer/pkg/scene"
)

const usage = `Animated Raytracer

Usage:
  raytracer [options] render <scene> frame [n]
  raytracer [options] render <scene> animation <start> <count>
  raytracer [options] scenes
  raytracer -save-config <file> [options]

<scene> is a built-in scene name, the name of a file in the scenes directory,
or a path ending in .scene.yaml. A missing .scene.yaml path is created from
the default scene.

Options:
`

// progressInterval is how often render progress is logged
const progressInterval = 2 * time.Second

// command is a parsed render command line
type command struct {
	Scene     string
	Animation bool
	Start     int
	Count     int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	logger.Sync()

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one command line. stdout receives command output, stderr receives usage.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flagSet := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.Usage = func() {
		fmt.Fprint(stderr, usage)
		flagSet.PrintDefaults()
	}
	flags := config.RegisterFlags(flagSet)
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}

	positional := flagSet.Args()
	if *flags.SaveConfig != "" {
		if err := cfg.SaveTo(*flags.SaveConfig); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		logger.Info("Saved config", zap.String("path", *flags.SaveConfig))
		if len(positional) == 0 {
			return nil
		}
	}
	if len(positional) == 0 {
		flagSet.Usage()
		return flag.ErrHelp
	}

	switch positional[0] {
	case "scenes":
		return listScenes(stdout, cfg.Render.ScenesDir)
	case "render":
		cmd, err := parseCommand(positional[1:])
		if err != nil {
			return err
		}
		return render(ctx, cmd, cfg)
	default:
		flagSet.Usage()
		return fmt.Errorf("unknown command %q", positional[0])
	}
}

// parseCommand parses the arguments following "render"
func parseCommand(args []string) (command, error) {
	if len(args) < 2 {
		return command{}, errors.New("usage: render <scene> frame [n] | render <scene> animation <start> <count>")
	}

	cmd := command{Scene: args[0], Count: 1}
	rest := args[2:]

	switch args[1] {
	case "frame":
		if len(rest) > 1 {
			return command{}, errors.New("usage: render <scene> frame [n]")
		}
		if len(rest) == 1 {
			n, err := parseNonNegative("frame", rest[0])
			if err != nil {
				return command{}, err
			}
			cmd.Start = n
		}

	case "animation":
		if len(rest) != 2 {
			return command{}, errors.New("usage: render <scene> animation <start> <count>")
		}
		start, err := parseNonNegative("start", rest[0])
		if err != nil {
			return command{}, err
		}
		count, err := parseNonNegative("count", rest[1])
		if err != nil {
			return command{}, err
		}
		if count == 0 {
			return command{}, errors.New("count must be at least 1")
		}
		cmd.Animation = true
		cmd.Start = start
		cmd.Count = count

	default:
		return command{}, fmt.Errorf("unknown render mode %q (want frame or animation)", args[1])
	}

	return cmd, nil
}

func parseNonNegative(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", name, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %d", name, n)
	}
	return n, nil
}

// createScene resolves a scene argument and applies the configured camera overrides
func createScene(name string, cfg *config.Config) (*scene.Scene, error) {
	s, err := resolveScene(name, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Render.Width > 0 {
		s.Camera.ImageWidth = cfg.Render.Width
	}
	if cfg.Render.Samples > 0 {
		s.Camera.SamplesPerPixel = cfg.Render.Samples
	}
	if cfg.Render.MaxDepth > 0 {
		s.Camera.MaxDepth = cfg.Render.MaxDepth
	}
	return s, nil
}

func resolveScene(name string, cfg *config.Config) (*scene.Scene, error) {
	if name == "" {
		return nil, errors.New("scene name is empty")
	}

	if scene.IsSceneFile(name) {
		s, err := loaders.LoadScene(name)
		if !errors.Is(err, fs.ErrNotExist) {
			return s, err
		}

		// Write an example so the user has something to edit
		s = scene.NewDefaultScene(cfg.Render.Seed)
		if err := loaders.SaveScene(name, s); err != nil {
			return nil, fmt.Errorf("failed to create example scene: %w", err)
		}
		logger.Info("Created example scene", zap.String("path", name))
		return s, nil
	}

	if name == "default" {
		return scene.NewDefaultScene(cfg.Render.Seed), nil
	}
	if s, err := scene.Builtin(name); err == nil {
		return s, nil
	}

	path := filepath.Join(cfg.Render.ScenesDir, name+scene.FileExtension)
	s, err := loaders.LoadScene(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unknown scene %q", name)
	}
	return s, err
}

// render renders a single frame or an animation into the output directory
func render(ctx context.Context, cmd command, cfg *config.Config) error {
	s, err := createScene(cmd.Scene, cfg)
	if err != nil {
		return err
	}

	rt := renderer.NewRaytracer(s, renderer.Options{
		Workers:  cfg.Render.Workers,
		TileSize: cfg.Render.TileSize,
		Seed:     cfg.Render.Seed,
		Logger:   logger.Named("renderer").With(zap.String("scene", s.Name)),
	})

	writer, err := output.NewFrameWriter(cfg.Output.Dir, cfg.Output.Pattern, logger.Named("output"))
	if err != nil {
		return err
	}
	writer.ContinueOnError = cfg.Output.ContinueOnError

	logger.Info("Rendering",
		zap.String("scene", s.Name),
		zap.Int("objects", s.GetPrimitiveCount()),
		zap.Int("width", rt.Width()),
		zap.Int("height", rt.Height()),
		zap.Int("samples", s.Camera.SamplesPerPixel),
		zap.Bool("animation", cmd.Animation))

	progressCtx, stopProgress := context.WithCancel(ctx)
	defer stopProgress()
	go reportProgress(progressCtx, rt.Progress(), progressInterval)

	start := time.Now()
	if cmd.Animation {
		err = rt.RenderAnimation(ctx, cmd.Start, cmd.Count, writer.WriteFrame)
	} else {
		frame, stats := rt.RenderFrame(cmd.Start)
		err = writer.WriteFrame(frame, stats)
	}
	stopProgress()

	if cfg.Output.ContinueOnError {
		err = multierr.Append(err, writer.Err())
	}
	if err != nil {
		return err
	}

	logger.Info("Render saved",
		zap.Strings("files", writer.Paths()),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// reportProgress logs the completed fraction of all frames started so far until ctx is done
func reportProgress(ctx context.Context, progress *renderer.Progress, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.Info("Progress",
				zap.String("percent", fmt.Sprintf("%.1f%%", 100*progress.Fraction())),
				zap.Int("pixels", progress.Completed()),
				zap.Int("total", progress.Total()))
		}
	}
}

// listScenes prints built-in and discovered scenes grouped by category
func listScenes(w io.Writer, dir string) error {
	groups, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}

	for _, group := range groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			id := info.ID
			if info.FilePath != "" {
				id = info.FilePath
			}
			if info.Description != "" {
				fmt.Fprintf(w, "  %-28s %s - %s\n", id, info.Name, info.Description)
			} else {
				fmt.Fprintf(w, "  %-28s %s\n", id, info.Name)
			}
		}
	}
	return nil
}
