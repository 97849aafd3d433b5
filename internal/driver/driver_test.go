package driver

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/jwulff/ledstrip-go/internal/domain"
	"github.com/jwulff/ledstrip-go/internal/layout"
)

func TestPresets(t *testing.T) {
	tests := []struct {
		name   string
		format domain.Format
		bit1   time.Duration
		rest   time.Duration
	}{
		{"ws2811", domain.RGB, 1200 * time.Nanosecond, 50 * time.Microsecond},
		{"WS2812", domain.GRB, 900 * time.Nanosecond, 280 * time.Microsecond},
		{"ws2815", domain.GRB, 900 * time.Nanosecond, 280 * time.Microsecond},
		{"sk6812", domain.GRB, 600 * time.Nanosecond, 80 * time.Microsecond},
		{"UCS1903", domain.RGB, 800 * time.Nanosecond, 24 * time.Microsecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timing, err := Preset(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.format, timing.Format)
			assert.Equal(t, tt.bit1, timing.Bit1High)
			assert.Equal(t, tt.rest, timing.Rest)
			assert.True(t, timing.MSBFirst)
			assert.True(t, timing.HighToLow)
		})
	}

	_, err := Preset("apa102")
	assert.Error(t, err)
	assert.Contains(t, PresetNames(), "ws2812")
}

func TestTimingRates(t *testing.T) {
	assert.Equal(t, 1200*time.Nanosecond, WS2812.BitPeriod())
	assert.Equal(t, physic.Frequency(833333333333), WS2812.BitRate())
	assert.Equal(t, 400*physic.KiloHertz, WS2811.BitRate())
	assert.Equal(t, 24*1200*time.Nanosecond+280*time.Microsecond, WS2812.FrameDuration(1))
	assert.Equal(t, physic.Frequency(0), Timing{}.BitRate())
}

func TestDimmer(t *testing.T) {
	var b Dimmer
	assert.Equal(t, uint8(255), b.Brightness())
	assert.Equal(t, uint8(255), b.SetBrightness(10))
	assert.Equal(t, uint8(10), b.Brightness())
	assert.Equal(t, uint8(10), b.SetBrightness(0))
	assert.Equal(t, uint8(0), b.Brightness())
}

func TestEncoderWireOrder(t *testing.T) {
	l := layout.Layout{Rows: 2, Columns: 2, FirstPixel: layout.TopLeft, Arrangement: layout.Rows, Wiring: layout.Serpentine}
	e := NewEncoder(l, domain.GRB)
	pixels := domain.Buffer{
		domain.FromPacked(0x010203), domain.FromPacked(0x040506),
		domain.FromPacked(0x070809), domain.FromPacked(0x0A0B0C),
	}

	// Wire order is canonical 0, 1, 3, 2.
	assert.Equal(t, []byte{
		2, 1, 3,
		5, 4, 6,
		11, 10, 12,
		8, 7, 9,
	}, e.Encode(nil, pixels))
}

func TestEncoderBrightnessAndPadding(t *testing.T) {
	e := NewEncoder(layout.Strip(3, true), domain.RGB)
	e.SetBrightness(127)

	got := e.Encode(nil, domain.Buffer{domain.White, domain.FromPacked(0x804020)})
	assert.Equal(t, []byte{
		0, 0, 0,
		0x40, 0x20, 0x10,
		0x7F, 0x7F, 0x7F,
	}, got)

	assert.Equal(t, make([]byte, 9), e.Blank(nil))
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(layout.Strip(2, false), domain.RGB)
	var shown, blanked [][]byte
	r.OnShow = func(wire []byte) { shown = append(shown, wire) }
	r.OnShutdown = func(wire []byte) { blanked = append(blanked, wire) }

	require.NoError(t, r.Show(domain.Buffer{domain.FromPacked(0x010203), domain.White}))
	require.NoError(t, r.Shutdown())

	assert.Len(t, r.Frames(), 2)
	assert.Equal(t, []byte{1, 2, 3, 255, 255, 255}, shown[0])
	assert.Equal(t, make([]byte, 6), blanked[0])
	assert.Equal(t, make([]byte, 6), r.Last())
	assert.Equal(t, 1, r.Shutdowns())

	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.Show(nil), ErrClosed)
	assert.ErrorIs(t, r.Shutdown(), ErrClosed)
}

func TestRecorderLimit(t *testing.T) {
	r := NewRecorder(layout.Strip(1, false), domain.RGB)
	r.Limit = 2

	for _, v := range []uint32{1, 2, 3} {
		require.NoError(t, r.Show(domain.Buffer{domain.FromPacked(v)}))
	}

	assert.Equal(t, [][]byte{{0, 0, 2}, {0, 0, 3}}, r.Frames())
}

func TestSPIRejectsUnsupportedEncoding(t *testing.T) {
	var buf bytes.Buffer
	timing := WS2812
	timing.MSBFirst = false
	_, err := NewSPI(spitest.NewRecordRaw(&buf), layout.Strip(4, false), timing)
	assert.ErrorIs(t, err, ErrUnsupportedEncoding)

	_, err = NewSPI(spitest.NewRecordRaw(&buf), layout.Layout{}, WS2812)
	assert.ErrorIs(t, err, layout.ErrEmpty)
}

func TestSPIShow(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewSPI(spitest.NewRecordRaw(&buf), layout.Strip(4, false), WS2812,
		WithFormat(domain.RGB), WithBrightness(200))
	require.NoError(t, err)
	assert.Equal(t, domain.RGB, s.Format())
	assert.Equal(t, uint8(200), s.Brightness())
	assert.Equal(t, "WS2812", s.Timing().Name)

	before := buf.Len()
	require.NoError(t, s.Show(layout.Strip(4, false).NewBuffer(domain.White)))
	assert.Greater(t, buf.Len(), before)

	before = buf.Len()
	require.NoError(t, s.Shutdown())
	assert.Greater(t, buf.Len(), before)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Show(nil), ErrClosed)
	assert.NoError(t, s.Close())
}

func TestSPICompatible(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"ws2811", false},
		{"ws2812", true},
		{"ws2812b", true},
		{"ws2815", true},
		{"sk6812", true},
		{"ucs1903", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timing, err := Preset(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, timing.SPICompatible())
		})
	}

	assert.False(t, Timing{}.SPICompatible())
	// Four SPI bits per data bit at the fixed port clock.
	assert.Equal(t, 4*time.Duration(int64(time.Second)*int64(physic.Hertz)/int64(spiFreq)), spiBitPeriod)
}

func TestSPIFromPresets(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			timing, err := Preset(name)
			require.NoError(t, err)

			var buf bytes.Buffer
			s, err := NewSPI(spitest.NewRecordRaw(&buf), layout.Strip(3, false), timing)
			if !timing.SPICompatible() {
				assert.ErrorIs(t, err, ErrUnsupportedTiming)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, timing.Format, s.Format())
			require.NoError(t, s.Show(layout.Strip(3, false).NewBuffer(domain.Pixel{R: 255})))
			assert.NotZero(t, buf.Len())
			require.NoError(t, s.Close())
		})
	}
}
