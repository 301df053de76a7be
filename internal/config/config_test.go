package config

import (
	"flag"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/tileview"
)

// =============================================================================
// Load
// =============================================================================

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &Config{
		Output:      "view.png",
		Width:       1024,
		Height:      768,
		Orientation: "exif",
		Workers:     2,
		DPI:         160,
		CacheMB:     256,
		Timeout:     30 * time.Second,
		LogLevel:    "info",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("TILEVIEW_INPUT", "map.png")
	t.Setenv("TILEVIEW_WIDTH", "640")
	t.Setenv("TILEVIEW_SCALES", "0.5,1,2")
	t.Setenv("TILEVIEW_TIMEOUT", "5s")
	t.Setenv("TILEVIEW_DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Input != "map.png" || cfg.Width != 640 || cfg.Timeout != 5*time.Second || !cfg.Debug {
		t.Errorf("Load() = %+v", cfg)
	}
	if diff := cmp.Diff([]float64{0.5, 1, 2}, cfg.Scales); diff != "" {
		t.Errorf("Scales mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_BadEnvironment(t *testing.T) {
	t.Setenv("TILEVIEW_WIDTH", "wide")
	if _, err := Load(); err == nil {
		t.Error("Load() with a non-numeric width succeeded")
	}
}

// =============================================================================
// Flags
// =============================================================================

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("TILEVIEW_INPUT", "env.png")
	t.Setenv("TILEVIEW_HEIGHT", "480")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	err = fs.Parse([]string{"-in", "flag.png", "-scales", "1, 4", "-orientation", "90"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Input != "flag.png" {
		t.Errorf("Input = %q, want flag.png", cfg.Input)
	}
	if cfg.Height != 480 {
		t.Errorf("Height = %d, want 480 from the environment", cfg.Height)
	}
	if diff := cmp.Diff([]float64{1, 4}, cfg.Scales); diff != "" {
		t.Errorf("Scales mismatch (-want +got):\n%s", diff)
	}
	o, err := cfg.ParseOrientation()
	if err != nil || o != tileview.Orientation90 {
		t.Errorf("ParseOrientation() = %v, %v", o, err)
	}
}

func TestFlagsBadScale(t *testing.T) {
	cfg := &Config{}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(nopWriter{})
	cfg.RegisterFlags(fs)
	if err := fs.Parse([]string{"-scales", "1,big"}); err == nil {
		t.Error("Parse accepted a bad scale")
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// =============================================================================
// Validate
// =============================================================================

func valid() *Config {
	return &Config{
		Input:       "in.png",
		Output:      "out.png",
		Width:       100,
		Height:      100,
		Orientation: "exif",
		Workers:     1,
		Timeout:     time.Second,
		LogLevel:    "info",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"no input", func(c *Config) { c.Input = "" }, false},
		{"no output", func(c *Config) { c.Output = "" }, false},
		{"zero width", func(c *Config) { c.Width = 0 }, false},
		{"negative scale", func(c *Config) { c.Scales = []float64{1, -2} }, false},
		{"center", func(c *Config) { c.Center = "10,20" }, true},
		{"bad center", func(c *Config) { c.Center = "10" }, false},
		{"orientation 270", func(c *Config) { c.Orientation = "270" }, true},
		{"orientation 45", func(c *Config) { c.Orientation = "45" }, false},
		{"no workers", func(c *Config) { c.Workers = 0 }, false},
		{"negative cache", func(c *Config) { c.CacheMB = -1 }, false},
		{"no timeout", func(c *Config) { c.Timeout = 0 }, false},
		{"warn level", func(c *Config) { c.LogLevel = "WARN" }, true},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.modify(c)
			err := c.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestParseCenter(t *testing.T) {
	c := valid()
	if _, ok, err := c.ParseCenter(); ok || err != nil {
		t.Errorf("empty center: ok=%v err=%v", ok, err)
	}
	c.Center = " 1200.5 , 800 "
	p, ok, err := c.ParseCenter()
	if err != nil || !ok {
		t.Fatalf("ParseCenter: ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(tileview.Pt(1200.5, 800), p); diff != "" {
		t.Errorf("center mismatch (-want +got):\n%s", diff)
	}
}

func TestLevel(t *testing.T) {
	c := valid()
	c.LogLevel = "debug"
	l, err := c.Level()
	if err != nil || l != slog.LevelDebug {
		t.Errorf("Level() = %v, %v", l, err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output string
		i, n   int
		want   string
	}{
		{"view.png", 0, 1, "view.png"},
		{"view.png", 0, 3, "view-1.png"},
		{"out/view.png", 2, 3, "out/view-3.png"},
		{"out.d/view", 1, 2, "out.d/view-2"},
	}
	for _, tt := range tests {
		c := &Config{Output: tt.output}
		if got := c.OutputPath(tt.i, tt.n); got != tt.want {
			t.Errorf("OutputPath(%q, %d, %d) = %q, want %q", tt.output, tt.i, tt.n, got, tt.want)
		}
	}
}
