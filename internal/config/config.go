// Package config loads the editor settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"geoedit/internal/editor"
	"geoedit/internal/geom"
)

var ErrBadConfig = errors.New("config: invalid value")

// Config holds the editor settings. Zero fields take the defaults.
type Config struct {
	Tolerance     float64 `yaml:"tolerance"`
	ToleranceUnit string  `yaml:"tolerance_unit"`
	SnapCells     float64 `yaml:"snap_cells"`
	HitCells      float64 `yaml:"hit_cells"`
	LogFile       string  `yaml:"log_file,omitempty"`
	LogLevel      string  `yaml:"log_level"`
	Output        string  `yaml:"output"`
}

func Default() Config {
	return Config{
		Tolerance:     0.001,
		ToleranceUnit: string(geom.Meters),
		SnapCells:     1,
		HitCells:      1,
		LogLevel:      "info",
		Output:        "features.geojson",
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance %g must be positive", ErrBadConfig, c.Tolerance)
	}
	if _, err := geom.ParseUnit(c.ToleranceUnit); err != nil {
		return fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	if c.SnapCells < 0 || c.HitCells < 0 {
		return fmt.Errorf("%w: snap_cells and hit_cells must not be negative", ErrBadConfig)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	return nil
}

// EditorOptions converts the settings for editor.New. Call Validate first.
func (c Config) EditorOptions() editor.Options {
	u, _ := geom.ParseUnit(c.ToleranceUnit)
	return editor.Options{
		Tolerance:     c.Tolerance,
		ToleranceUnit: u,
		SnapCells:     c.SnapCells,
		HitCells:      c.HitCells,
	}
}

// Logger builds the application logger. The terminal belongs to the UI, so
// output goes to LogFile or nowhere. The returned closer releases the file.
func (c Config) Logger() (*logrus.Logger, io.Closer, error) {
	l := logrus.New()
	l.Formatter = &logrus.TextFormatter{DisableColors: true, FullTimestamp: true}
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	l.SetLevel(lvl)
	if c.LogFile == "" {
		l.Out = io.Discard
		return l, io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log %s: %w", c.LogFile, err)
	}
	l.Out = f
	return l, f, nil
}
