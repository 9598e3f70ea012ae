// Package config loads and writes the overlay settings file.
//
// The file is TOML. Keys absent from the file keep their default values;
// unknown keys are rejected so typos surface at startup instead of being
// silently ignored.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/needle/clock"
	"github.com/gogpu/needle/layout"
)

var (
	// ErrConfigNotExist is returned by Load when the file is missing.
	ErrConfigNotExist = errors.New("config: file does not exist")
	// ErrConfigExists is returned by WriteDefault when the target exists
	// and force is not set.
	ErrConfigExists = errors.New("config: file already exists")
	// ErrInvalidFPSPosition means the FPS overlay is enabled but not
	// anchored to a corner.
	ErrInvalidFPSPosition = errors.New("config: fps position must be a corner")
	// ErrOverlappingPositions means the FPS and time overlays share an anchor.
	ErrOverlappingPositions = errors.New("config: fps and time positions overlap")
	// ErrInvalidValue reports an out-of-range setting.
	ErrInvalidValue = errors.New("config: invalid value")
	// ErrUnknownKey reports keys that do not map to any setting.
	ErrUnknownKey = errors.New("config: unknown key")
)

// Text is the appearance and placement of one text overlay.
type Text struct {
	Scale    float32       `toml:"scale"`
	Color    [4]uint8      `toml:"color"`
	Position layout.Anchor `toml:"position"`
}

// Rule converts the settings to a layout rule.
func (t Text) Rule() layout.Rule {
	return layout.Rule{Anchor: t.Position, Scale: t.Scale, Color: t.Color}
}

// Time configures the clock overlay.
type Time struct {
	Format clock.Format `toml:"format"`
	// Font is a font file name under the user font directory or a system
	// font name. Empty selects the built-in font.
	Font string `toml:"font"`
	Text Text   `toml:"config"`
}

// FPS configures the frame-rate overlay and the frame limiter.
type FPS struct {
	Enable bool `toml:"enable"`
	// FrameLimit caps the redraw rate in frames per second. 0 disables
	// the cap.
	FrameLimit uint `toml:"frame_limit"`
	Text       Text `toml:"config"`
}

// Notify lists notification targets as shoutrrr service URLs.
type Notify struct {
	URLs []string `toml:"urls"`
}

// Config is the complete settings file.
type Config struct {
	Background [4]float32 `toml:"background_color"`
	Time       Time       `toml:"time"`
	FPS        FPS        `toml:"fps"`
	Notify     Notify     `toml:"notify"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Background: [4]float32{0, 0, 0, 1},
		Time: Time{
			Format: clock.HourMinSec,
			Text: Text{
				Scale:    1,
				Color:    [4]uint8{255, 255, 255, 255},
				Position: layout.Center,
			},
		},
		FPS: FPS{
			FrameLimit: 30,
			Text: Text{
				Scale:    0.25,
				Color:    [4]uint8{255, 0, 0, 255},
				Position: layout.TopRight,
			},
		},
	}
}

// Load reads the file at path over the defaults and validates the result.
// An empty path selects the default location.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotExist, path)
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	cfg := Default()
	if err := cfg.Decode(string(data)); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode merges TOML data into c and validates the result.
func (c *Config) Decode(data string) error {
	md, err := toml.Decode(data, c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}
	return c.Validate()
}

// Validate checks value ranges and the relationship between the overlays.
func (c *Config) Validate() error {
	for i, v := range c.Background {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: background_color[%d] = %v, want 0.0-1.0", ErrInvalidValue, i, v)
		}
	}
	if c.Time.Text.Scale <= 0 {
		return fmt.Errorf("%w: time.config.scale = %v, want > 0", ErrInvalidValue, c.Time.Text.Scale)
	}
	if !c.FPS.Enable {
		return nil
	}
	if c.FPS.Text.Scale <= 0 {
		return fmt.Errorf("%w: fps.config.scale = %v, want > 0", ErrInvalidValue, c.FPS.Text.Scale)
	}
	if !c.FPS.Text.Position.IsCorner() {
		return fmt.Errorf("%w: got %s", ErrInvalidFPSPosition, c.FPS.Text.Position)
	}
	if c.FPS.Text.Position == c.Time.Text.Position {
		return fmt.Errorf("%w: both at %s", ErrOverlappingPositions, c.FPS.Text.Position)
	}
	return nil
}
