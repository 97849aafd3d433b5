package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/ledstrip-go/internal/domain"
	"github.com/jwulff/ledstrip-go/internal/driver"
	"github.com/jwulff/ledstrip-go/internal/layout"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, domain.GRB, c.Timing().Format)
	assert.Equal(t, zerolog.InfoLevel, c.LogLevel())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledstrip.yaml")
	data := `
matrix:
  rows: 16
  columns: 16
  first_pixel: bottom_left
  arrangement: rows
  wiring: zig_zag
driver:
  chip: sk6812
  format: RGB
  brightness: 200
output:
  kind: pixoo
  pixoo:
    ip: 192.168.1.50
log:
  level: debug
run:
  alert_every: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, layout.Layout{Rows: 16, Columns: 16, FirstPixel: layout.BottomLeft, Arrangement: layout.Rows, Wiring: layout.Serpentine}, c.Matrix)
	assert.Equal(t, uint8(200), c.Driver.Brightness)
	assert.Equal(t, domain.RGB, c.Timing().Format)
	assert.Equal(t, "SK6812", c.Timing().Name)
	assert.Equal(t, "192.168.1.50", c.Output.Pixoo.IP)
	assert.Equal(t, 80, c.Output.Pixoo.Port)
	assert.Equal(t, zerolog.DebugLevel, c.LogLevel())
	assert.Equal(t, 3*time.Second, c.Run.AlertEvery)
	assert.Equal(t, 30, c.Run.FPS)
	assert.Equal(t, "ALERT", c.Run.AlertText)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledstrip.yaml")
	c := Default()
	c.Output.Kind = OutputRecord
	require.NoError(t, Save(path, c))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty matrix", func(c *Config) { c.Matrix.Rows = 0 }},
		{"unknown chip", func(c *Config) { c.Driver.Chip = "apa102" }},
		{"unknown output", func(c *Config) { c.Output.Kind = "serial" }},
		{"spi with ws2811", func(c *Config) {
			c.Output.Kind = OutputSPI
			c.Driver.Chip = "ws2811"
		}},
		{"pixoo without ip", func(c *Config) { c.Output.Kind = OutputPixoo }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"zero fps", func(c *Config) { c.Run.FPS = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestValidateSPIChips(t *testing.T) {
	c := Default()
	c.Output.Kind = OutputSPI
	assert.NoError(t, c.Validate())

	c.Driver.Chip = "ucs1903"
	assert.ErrorIs(t, c.Validate(), driver.ErrUnsupportedTiming)

	c.Output.Kind = OutputPreview
	assert.NoError(t, c.Validate())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matrix:\n  wiring: spiral\n"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}
