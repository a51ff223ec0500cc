package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// config is the resolved run configuration, after flags, environment and config file are merged.
type config struct {
	Root           string
	Width          int
	Height         int
	Fov            float64
	PrefetchRadius int
	Store          string
	Filter         string
	VSync          bool
	Debug          bool
	Profile        bool
}

// bindFlags declares the command flags and their defaults.
func bindFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("config", "", "config file (default: <user config dir>/coverflow/config.{yaml,toml})")
	f.Int("width", 1280, "initial window width in pixels")
	f.Int("height", 720, "initial window height in pixels")
	f.Float64("fov", 40, "vertical field of view in degrees (20-90)")
	f.Int("prefetch-radius", 25, "items decoded ahead on each side of the focus")
	f.String("store", "", "SQLite file caching rendered back faces (memory only when empty)")
	f.String("filter", "", "initial title filter")
	f.Bool("vsync", true, "wait for vertical blank when presenting")
	f.Bool("debug", false, "development logging at debug level")
	f.Bool("profile", false, "log frame statistics")
}

// loadConfig merges flags, COVERFLOW_* environment variables and the optional config file.
// Flags set on the command line win over the environment, which wins over the file.
func loadConfig(cmd *cobra.Command, args []string) (config, error) {
	v := viper.New()
	v.SetEnvPrefix("COVERFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return config{}, fmt.Errorf("failed to bind flags: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "coverflow"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := config{
		Root:           v.GetString("root"),
		Width:          v.GetInt("width"),
		Height:         v.GetInt("height"),
		Fov:            v.GetFloat64("fov"),
		PrefetchRadius: v.GetInt("prefetch-radius"),
		Store:          v.GetString("store"),
		Filter:         v.GetString("filter"),
		VSync:          v.GetBool("vsync"),
		Debug:          v.GetBool("debug"),
		Profile:        v.GetBool("profile"),
	}
	if len(args) > 0 {
		cfg.Root = args[0]
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return config{}, fmt.Errorf("invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.PrefetchRadius < 0 {
		return config{}, fmt.Errorf("invalid prefetch radius %d", cfg.PrefetchRadius)
	}
	return cfg, nil
}
