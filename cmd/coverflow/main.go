// Command coverflow shows a folder of movies as a 3D cover flow.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/Carmen-Shannon/coverflow/engine"
	"github.com/Carmen-Shannon/coverflow/engine/camera"
	"github.com/Carmen-Shannon/coverflow/engine/coverflow"
	"github.com/Carmen-Shannon/coverflow/engine/renderer"
	"github.com/Carmen-Shannon/coverflow/engine/texture_cache"
	"github.com/Carmen-Shannon/coverflow/engine/window"
	"github.com/Carmen-Shannon/coverflow/library"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "coverflow [library-root]",
		Short: "Browse a movie folder as a 3D cover flow",
		Long: `Coverflow lists the "Title (Year)" folders under the library root and shows
their covers on a carousel.

Drag or use the arrow keys to move, Home and End to jump. The wheel flips the
focused cover, Ctrl+wheel zooms, Ctrl+Shift+wheel changes the field of view.
Middle-drag pans and a middle double-click resets the camera.

Every flag can also be set in the config file or as COVERFLOW_<FLAG>, for
example COVERFLOW_PREFETCH_RADIUS=40.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	bindFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "coverflow:", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg config) error {
	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	movies, err := library.Scan(cfg.Root)
	if err != nil {
		return err
	}
	logger.Info("library scanned", zap.String("root", cfg.Root), zap.Int("movies", len(movies)))

	cacheOpts := []texture_cache.TextureCacheBuilderOption{}
	if cfg.Store != "" {
		store, err := texture_cache.NewBackFaceStore(cfg.Store, logger)
		if err != nil {
			return err
		}
		cacheOpts = append(cacheOpts, texture_cache.WithBackFaceStore(store))
	}

	cam := camera.NewCamera(
		camera.WithController(camera.NewCameraController()),
		camera.WithFov(float32(cfg.Fov*math.Pi/180)),
		camera.WithAspect(float32(cfg.Width)/float32(cfg.Height)),
	)
	view, err := coverflow.NewView(
		coverflow.WithCamera(cam),
		coverflow.WithPrefetchRadius(cfg.PrefetchRadius),
		coverflow.WithTextureCacheOptions(cacheOpts...),
		coverflow.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	lib := library.NewLibrary(movies,
		library.WithFilter(cfg.Filter),
		library.WithLogger(logger),
		library.WithSelectionCallback(func(row int, m library.Movie) {
			logger.Info("selected", zap.Int("row", row), zap.String("title", m.Title), zap.String("year", m.Year))
		}),
	)
	lib.Bind(view)

	presentMode := renderer.PresentModeUncapped
	if cfg.VSync {
		presentMode = renderer.PresentModeVSync
	}
	e := engine.NewEngine(
		engine.WithView(view),
		engine.WithLogger(logger),
		engine.WithProfiling(cfg.Profile),
		engine.WithWindowOptions(
			window.WithTitle("Cover Flow - "+cfg.Root),
			window.WithSize(cfg.Width, cfg.Height),
		),
		engine.WithRendererOptions(
			renderer.WithPresentMode(presentMode),
			renderer.WithLogger(logger),
		),
	)
	return e.Run()
}
