package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	yaml "gopkg.in/yaml.v3"
)

// Surface kinds the CLI can mount.
const (
	SurfaceText = "text"
	SurfacePNG  = "png"
	SurfaceSVG  = "svg"
)

// AppConfig holds viewer settings. Orientation and Coordinates apply to one-shot exports;
// the interactive shell always mounts the fixed view-only config.
type AppConfig struct {
	AnimationMS   int    `yaml:"animation_ms" envconfig:"CHESS960_ANIMATION_MS"`
	SquareSize    int    `yaml:"square_size" envconfig:"CHESS960_SQUARE_SIZE"`
	Coordinates   bool   `yaml:"coordinates" envconfig:"CHESS960_COORDINATES"`
	Orientation   string `yaml:"orientation" envconfig:"CHESS960_ORIENTATION"`
	Seed          uint64 `yaml:"seed" envconfig:"CHESS960_SEED"`
	Surface       string `yaml:"surface" envconfig:"CHESS960_SURFACE"`
	PieceDir      string `yaml:"piece_dir" envconfig:"CHESS960_PIECE_DIR"`
	MessagesDir   string `yaml:"messages_dir" envconfig:"CHESS960_MESSAGES_DIR"`
	InputMaxRunes int    `yaml:"input_max_runes" envconfig:"CHESS960_INPUT_MAX_RUNES"`
}

// Default returns the built-in settings.
func Default() *AppConfig {
	return &AppConfig{
		AnimationMS:   300,
		SquareSize:    72,
		Coordinates:   true,
		Orientation:   "white",
		Surface:       SurfaceText,
		InputMaxRunes: 6,
	}
}

// Load applies, in order: defaults, the YAML file named by CHESS960_CONFIG, environment.
func Load() (*AppConfig, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CHESS960_CONFIG")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	// fields without an env var keep their current value
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) normalize() {
	c.Orientation = strings.ToLower(strings.TrimSpace(c.Orientation))
	c.Surface = strings.ToLower(strings.TrimSpace(c.Surface))
	c.PieceDir = strings.TrimSpace(c.PieceDir)
	c.MessagesDir = strings.TrimSpace(c.MessagesDir)
}

func (c *AppConfig) Validate() error {
	if c.AnimationMS < 0 {
		return errors.New("CHESS960_ANIMATION_MS must not be negative")
	}
	if c.SquareSize < 8 || c.SquareSize > 512 {
		return fmt.Errorf("CHESS960_SQUARE_SIZE out of range: %d", c.SquareSize)
	}
	switch c.Orientation {
	case "white", "black":
	default:
		return fmt.Errorf("CHESS960_ORIENTATION must be white or black, got %q", c.Orientation)
	}
	switch c.Surface {
	case SurfaceText, SurfacePNG, SurfaceSVG:
	default:
		return fmt.Errorf("CHESS960_SURFACE must be text, png or svg, got %q", c.Surface)
	}
	if c.InputMaxRunes <= 0 {
		return errors.New("CHESS960_INPUT_MAX_RUNES must be positive")
	}
	return nil
}

func (c *AppConfig) Animation() time.Duration {
	return time.Duration(c.AnimationMS) * time.Millisecond
}
