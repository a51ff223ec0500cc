package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func newTestCommand(t *testing.T, flags ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "coverflow"}
	bindFlags(cmd)
	if err := cmd.ParseFlags(flags); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	cfg, err := loadConfig(newTestCommand(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Root != "." || cfg.Width != 1280 || cfg.Height != 720 || cfg.Fov != 40 || !cfg.VSync || cfg.PrefetchRadius != 25 {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "coverflow.yaml")
	body := "width: 800\nheight: 600\nfilter: alien\nprefetch-radius: 10\n"
	if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COVERFLOW_PREFETCH_RADIUS", "40")

	cfg, err := loadConfig(newTestCommand(t, "--config", file, "--width", "1024"), []string{"/movies"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1024 {
		t.Errorf("width = %d, want the flag value", cfg.Width)
	}
	if cfg.Height != 600 || cfg.Filter != "alien" {
		t.Errorf("height = %d, filter = %q, want file values", cfg.Height, cfg.Filter)
	}
	if cfg.PrefetchRadius != 40 {
		t.Errorf("prefetch radius = %d, want the environment value", cfg.PrefetchRadius)
	}
	if cfg.Root != "/movies" {
		t.Errorf("root = %q", cfg.Root)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	if _, err := loadConfig(newTestCommand(t, "--width", "0"), nil); err == nil {
		t.Error("zero width accepted")
	}
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := loadConfig(newTestCommand(t, "--config", missing), nil); err == nil {
		t.Error("missing explicit config file accepted")
	}
}
