package driver

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/jwulff/ledstrip-go/internal/domain"
)

// Timing describes the wire protocol of an LED chip. Each data bit is a high
// stage followed by a low stage (inverted when HighToLow is false).
type Timing struct {
	Name      string
	Format    domain.Format
	HighToLow bool
	MSBFirst  bool
	Bit0High  time.Duration
	Bit0Low   time.Duration
	Bit1High  time.Duration
	Bit1Low   time.Duration
	Rest      time.Duration
}

// Chip presets.
var (
	WS2811 = Timing{
		Name: "WS2811", Format: domain.RGB, HighToLow: true, MSBFirst: true,
		Bit0High: 500 * time.Nanosecond, Bit0Low: 2000 * time.Nanosecond,
		Bit1High: 1200 * time.Nanosecond, Bit1Low: 1300 * time.Nanosecond,
		Rest: 50 * time.Microsecond,
	}
	WS2812 = Timing{
		Name: "WS2812", Format: domain.GRB, HighToLow: true, MSBFirst: true,
		Bit0High: 300 * time.Nanosecond, Bit0Low: 900 * time.Nanosecond,
		Bit1High: 900 * time.Nanosecond, Bit1Low: 300 * time.Nanosecond,
		Rest: 280 * time.Microsecond,
	}
	WS2815 = Timing{
		Name: "WS2815", Format: domain.GRB, HighToLow: true, MSBFirst: true,
		Bit0High: 300 * time.Nanosecond, Bit0Low: 900 * time.Nanosecond,
		Bit1High: 900 * time.Nanosecond, Bit1Low: 300 * time.Nanosecond,
		Rest: 280 * time.Microsecond,
	}
	SK6812 = Timing{
		Name: "SK6812", Format: domain.GRB, HighToLow: true, MSBFirst: true,
		Bit0High: 300 * time.Nanosecond, Bit0Low: 900 * time.Nanosecond,
		Bit1High: 600 * time.Nanosecond, Bit1Low: 600 * time.Nanosecond,
		Rest: 80 * time.Microsecond,
	}
	UCS1903 = Timing{
		Name: "UCS1903", Format: domain.RGB, HighToLow: true, MSBFirst: true,
		Bit0High: 500 * time.Nanosecond, Bit0Low: 800 * time.Nanosecond,
		Bit1High: 800 * time.Nanosecond, Bit1Low: 400 * time.Nanosecond,
		Rest: 24 * time.Microsecond,
	}
)

var presets = map[string]Timing{
	"ws2811":  WS2811,
	"ws2812":  WS2812,
	"ws2812b": WS2812,
	"ws2815":  WS2815,
	"sk6812":  SK6812,
	"ucs1903": UCS1903,
}

// Preset returns the timing for a chip name such as "ws2812".
func Preset(name string) (Timing, error) {
	t, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Timing{}, fmt.Errorf("unknown chip %q (known: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return t, nil
}

// PresetNames lists the accepted chip names.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// BitPeriod returns the duration of one data bit.
func (t Timing) BitPeriod() time.Duration {
	return t.Bit0High + t.Bit0Low
}

// BitRate returns the data bit frequency.
func (t Timing) BitRate() physic.Frequency {
	p := t.BitPeriod()
	if p <= 0 {
		return 0
	}
	return physic.Frequency(int64(time.Second)*int64(physic.Hertz)/int64(p))
}

// FrameDuration returns the time needed to send n pixels including the
// rest period.
func (t Timing) FrameDuration(n int) time.Duration {
	return time.Duration(n*24)*t.BitPeriod() + t.Rest
}

// The SPI output relies on nrzled, which clocks the port at a fixed 2.5 MHz
// and sends every data bit as a four bit symbol: 1000 for zero and 1110 for
// one. The chip's own stage durations never reach the wire.
const (
	spiFreq      = 2500 * physic.KiloHertz
	spiBit0High  = 400 * time.Nanosecond
	spiBit1High  = 1200 * time.Nanosecond
	spiBitPeriod = 1600 * time.Nanosecond

	// maxSPIChipPeriod limits the SPI output to 800 kHz parts.
	maxSPIChipPeriod = 1250 * time.Nanosecond
)

// SPICompatible reports whether the fixed nrzled symbol decodes correctly on
// the chip. The chip must be an 800 kHz part, and its zero/one decision point
// (halfway between the two high stages) must fall between the symbol's high
// stages.
func (t Timing) SPICompatible() bool {
	period := max(t.Bit0High+t.Bit0Low, t.Bit1High+t.Bit1Low)
	if period <= 0 || period > maxSPIChipPeriod {
		return false
	}
	threshold := (t.Bit0High + t.Bit1High) / 2
	return spiBit0High < threshold && spiBit1High > threshold
}
