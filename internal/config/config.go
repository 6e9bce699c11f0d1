// Package config provides configuration management for subtinct.
// Defaults are overlaid by an optional YAML file, then by environment
// variables; command-line flags are applied last by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/subtinct/internal/colour"
	"github.com/jmylchreest/subtinct/internal/pipeline"
	"github.com/jmylchreest/subtinct/internal/sampler"
)

// ErrConfig wraps every invalid or unreadable configuration.
var ErrConfig = errors.New("invalid configuration")

const (
	// DefaultOutput is written when no output path is given.
	DefaultOutput = "output.srt"

	// DefaultWatermarkDuration is how long the watermark cue stays on screen.
	DefaultWatermarkDuration = 3 * time.Second

	// Environment variable names
	EnvFFmpeg = "SUBTINCT_FFMPEG"
	EnvConfig = "SUBTINCT_CONFIG"
)

// Config holds every tunable of a correction run.
type Config struct {
	// Midpoint is the neutral brightness on the 0-255 scale.
	Midpoint float64 `yaml:"midpoint"`

	// Coefficient scales the correction, in [0, 1].
	Coefficient float64 `yaml:"coefficient"`

	// DefaultColor is given to cues without a colour tag.
	DefaultColor colour.RGB `yaml:"default_color"`

	Strategy sampler.Strategy `yaml:"strategy"`
	Meter    sampler.Meter    `yaml:"meter"`
	OnError  pipeline.Policy  `yaml:"on_error"`

	// Timeout bounds each decoder invocation.
	Timeout time.Duration `yaml:"timeout"`

	// Workers is the number of decoder processes allowed to run at once.
	Workers int `yaml:"workers"`

	FFmpeg string `yaml:"ffmpeg"`

	Watermark struct {
		Text     string        `yaml:"text"`
		Duration time.Duration `yaml:"duration"`
	} `yaml:"watermark"`

	Output string `yaml:"output"`
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{
		Midpoint:     colour.DefaultMidpoint,
		Coefficient:  colour.DefaultCoefficient,
		DefaultColor: colour.Neutral,
		Strategy:     sampler.NearestKeyframe,
		Meter:        sampler.SignalStats,
		OnError:      pipeline.FailFast,
		Timeout:      sampler.DefaultTimeout,
		Workers:      1,
		FFmpeg:       sampler.DefaultFFmpegPath,
		Output:       DefaultOutput,
	}
	c.Watermark.Duration = DefaultWatermarkDuration
	return c
}

// Load returns the defaults overlaid with the YAML file at path and the
// environment. An empty path falls back to $SUBTINCT_CONFIG, and to no file
// at all when that is unset too.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 - User-specified config path, intended to be read
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read config file %s: %w", ErrConfig, path, err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfig, path, err)
		}
	}

	if ff := os.Getenv(EnvFFmpeg); ff != "" {
		cfg.FFmpeg = ff
	}

	return cfg, nil
}

// decode overlays YAML onto cfg; keys absent from data keep their current value.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// An empty file decodes to io.EOF; treat it as "no overrides".
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// Validate checks value ranges. Errors wrap ErrConfig.
func (c *Config) Validate() error {
	var errs []error

	if c.Coefficient < 0 || c.Coefficient > 1 {
		errs = append(errs, fmt.Errorf("coefficient %v must be within [0, 1]", c.Coefficient))
	}
	if c.Midpoint < 0 || c.Midpoint > float64(sampler.MaxBrightness) {
		errs = append(errs, fmt.Errorf("midpoint %v must be within [0, 255]", c.Midpoint))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.FFmpeg == "" {
		errs = append(errs, errors.New("ffmpeg path must not be empty"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output path must not be empty"))
	}
	if c.Watermark.Text != "" && c.Watermark.Duration <= 0 {
		errs = append(errs, fmt.Errorf("watermark duration must be positive, got %s", c.Watermark.Duration))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfig, errors.Join(errs...))
	}
	return nil
}

// Pipeline returns the orchestrator settings derived from c.
func (c *Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		Midpoint:          c.Midpoint,
		Coefficient:       c.Coefficient,
		DefaultColor:      c.DefaultColor,
		Policy:            c.OnError,
		Workers:           c.Workers,
		WatermarkText:     c.Watermark.Text,
		WatermarkDuration: c.Watermark.Duration,
	}
}

// SamplerOptions returns the decoder options derived from c.
func (c *Config) SamplerOptions() sampler.Options {
	return sampler.Options{
		Path:    c.FFmpeg,
		Timeout: c.Timeout,
		Meter:   c.Meter,
	}
}
