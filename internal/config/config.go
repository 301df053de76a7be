// Package config holds the settings of the tileview command. Values come
// from TILEVIEW_* environment variables and can be overridden by flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/gogpu/tileview"
)

// Config is the command configuration.
type Config struct {
	Input       string        `envconfig:"INPUT"`
	Output      string        `envconfig:"OUTPUT" default:"view.png"`
	Width       int           `envconfig:"WIDTH" default:"1024"`
	Height      int           `envconfig:"HEIGHT" default:"768"`
	Scales      []float64     `envconfig:"SCALES"`
	Center      string        `envconfig:"CENTER"`
	Orientation string        `envconfig:"ORIENTATION" default:"exif"`
	Workers     int           `envconfig:"WORKERS" default:"2"`
	MaxTile     int           `envconfig:"MAX_TILE"`
	DPI         float64       `envconfig:"DPI" default:"160"`
	TileDPI     float64       `envconfig:"TILE_DPI"`
	CacheMB     int           `envconfig:"CACHE_MB" default:"256"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"30s"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	Debug       bool          `envconfig:"DEBUG"`
}

// Load reads the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("tileview", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RegisterFlags adds a flag for every setting, defaulting to the value
// already loaded.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Input, "in", c.Input, "image to display")
	fs.StringVar(&c.Output, "out", c.Output, "PNG to write; numbered when several scales are given")
	fs.IntVar(&c.Width, "width", c.Width, "viewport width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "viewport height in pixels")
	fs.Func("scales", "comma separated scales to render (default: whole image)", func(s string) error {
		scales, err := parseScales(s)
		if err != nil {
			return err
		}
		c.Scales = scales
		return nil
	})
	fs.StringVar(&c.Center, "center", c.Center, "source point x,y to center on")
	fs.StringVar(&c.Orientation, "orientation", c.Orientation, "exif, 0, 90, 180 or 270")
	fs.IntVar(&c.Workers, "workers", c.Workers, "decode workers")
	fs.IntVar(&c.MaxTile, "max-tile", c.MaxTile, "maximum tile size in pixels (0: decoder limit)")
	fs.Float64Var(&c.DPI, "dpi", c.DPI, "display density")
	fs.Float64Var(&c.TileDPI, "tile-dpi", c.TileDPI, "minimum tile density (0: full)")
	fs.IntVar(&c.CacheMB, "cache-mb", c.CacheMB, "decoded image cache size in MiB (0: unlimited)")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "give up after this long")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "outline tiles in the output")
}

func parseScales(s string) ([]float64, error) {
	var out []float64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("scale %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, errors.New("no input image"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("no output file"))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("viewport %dx%d", c.Width, c.Height))
	}
	for _, s := range c.Scales {
		if !(s > 0) {
			errs = append(errs, fmt.Errorf("scale %v", s))
		}
	}
	if _, _, err := c.ParseCenter(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.ParseOrientation(); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("%d workers", c.Workers))
	}
	if c.CacheMB < 0 {
		errs = append(errs, fmt.Errorf("cache size %d MiB", c.CacheMB))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout %v", c.Timeout))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseCenter returns the requested center, and false when none was given.
func (c *Config) ParseCenter() (tileview.Point, bool, error) {
	if c.Center == "" {
		return tileview.Point{}, false, nil
	}
	xs, ys, ok := strings.Cut(c.Center, ",")
	if !ok {
		return tileview.Point{}, false, fmt.Errorf("center %q: want x,y", c.Center)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err := errors.Join(errX, errY); err != nil {
		return tileview.Point{}, false, fmt.Errorf("center %q: %w", c.Center, err)
	}
	return tileview.Pt(x, y), true, nil
}

// ParseOrientation returns the requested orientation.
func (c *Config) ParseOrientation() (tileview.Orientation, error) {
	if strings.EqualFold(c.Orientation, "exif") {
		return tileview.OrientationEXIF, nil
	}
	deg, err := strconv.Atoi(c.Orientation)
	if err != nil || !tileview.Orientation(deg).Valid() || deg < 0 {
		return 0, fmt.Errorf("orientation %q", c.Orientation)
	}
	return tileview.Orientation(deg), nil
}

// Level returns the log level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q", c.LogLevel)
	}
	return l, nil
}

// OutputPath returns the file for view i of n: Output itself for a single
// view, otherwise Output with -i inserted before the extension.
func (c *Config) OutputPath(i, n int) string {
	if n <= 1 {
		return c.Output
	}
	ext := ""
	base := c.Output
	if dot := strings.LastIndexByte(base, '.'); dot > strings.LastIndexByte(base, '/') {
		base, ext = base[:dot], base[dot:]
	}
	return fmt.Sprintf("%s-%d%s", base, i+1, ext)
}
