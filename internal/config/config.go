// Package config loads the ledstrip YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/jwulff/ledstrip-go/internal/domain"
	"github.com/jwulff/ledstrip-go/internal/driver"
	"github.com/jwulff/ledstrip-go/internal/layout"
)

// DefaultPath is used when no configuration file is given.
const DefaultPath = "ledstrip.yaml"

// Output kinds.
const (
	OutputSPI     = "spi"
	OutputPixoo   = "pixoo"
	OutputPreview = "preview"
	OutputRecord  = "record"
)

// ErrUnknownOutput is returned by Validate for an unsupported output kind.
var ErrUnknownOutput = errors.New("config: unknown output kind")

// Driver selects the LED chip and how frames are scaled.
type Driver struct {
	Chip string `yaml:"chip"`
	// Format overrides the chip's byte order when set.
	Format     *domain.Format `yaml:"format,omitempty"`
	Brightness uint8          `yaml:"brightness"`
}

// SPI output settings.
type SPI struct {
	Port string `yaml:"port"` // e.g. /dev/spidev0.0, empty for the first port
}

// Pixoo output settings.
type Pixoo struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
}

// Preview output settings.
type Preview struct {
	Addr string `yaml:"addr"`
}

// Output selects where frames go.
type Output struct {
	Kind    string  `yaml:"kind"`
	SPI     SPI     `yaml:"spi,omitempty"`
	Pixoo   Pixoo   `yaml:"pixoo,omitempty"`
	Preview Preview `yaml:"preview,omitempty"`
}

// Store configures the SQLite database.
type Store struct {
	Path string `yaml:"path"`
}

// Log configures logging.
type Log struct {
	Level string `yaml:"level"`
}

// Run configures the demo loop.
type Run struct {
	FPS        int           `yaml:"fps"`
	AlertEvery time.Duration `yaml:"alert_every"`
	AlertText  string        `yaml:"alert_text"`
}

// Config is the full configuration file.
type Config struct {
	Matrix layout.Layout `yaml:"matrix"`
	Driver Driver        `yaml:"driver"`
	Output Output        `yaml:"output"`
	Store  Store         `yaml:"store"`
	Log    Log           `yaml:"log"`
	Run    Run           `yaml:"run"`
}

// Default returns a configuration for an 8x32 WS2812 panel previewed in
// the browser.
func Default() *Config {
	return &Config{
		Matrix: layout.Layout{
			Rows:        8,
			Columns:     32,
			FirstPixel:  layout.TopLeft,
			Arrangement: layout.Columns,
			Wiring:      layout.Serpentine,
		},
		Driver: Driver{Chip: "ws2812", Brightness: 64},
		Output: Output{
			Kind:    OutputPreview,
			Pixoo:   Pixoo{Port: 80},
			Preview: Preview{Addr: ":8080"},
		},
		Store: Store{Path: "ledstrip.db"},
		Log:   Log{Level: "info"},
		Run:   Run{FPS: 30, AlertEvery: 10 * time.Second, AlertText: "ALERT"},
	}
}

// Load reads path on top of the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path.
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Matrix.Validate(); err != nil {
		return err
	}
	t, err := driver.Preset(c.Driver.Chip)
	if err != nil {
		return err
	}
	switch c.Output.Kind {
	case OutputSPI:
		if !t.SPICompatible() {
			return fmt.Errorf("config: %w: %s", driver.ErrUnsupportedTiming, t.Name)
		}
	case OutputPreview, OutputRecord:
	case OutputPixoo:
		if c.Output.Pixoo.IP == "" {
			return errors.New("config: pixoo output needs an ip")
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownOutput, c.Output.Kind)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Run.FPS <= 0 {
		return errors.New("config: fps must be positive")
	}
	return nil
}

// Timing returns the chip timing with the format override applied.
func (c *Config) Timing() driver.Timing {
	t, _ := driver.Preset(c.Driver.Chip)
	if c.Driver.Format != nil {
		t.Format = *c.Driver.Format
	}
	return t
}

// LogLevel returns the parsed log level, info if unset.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil || c.Log.Level == "" {
		return zerolog.InfoLevel
	}
	return level
}
