// Package driver turns canonical pixel buffers into the byte stream an LED
// chain expects and hands it to an output.
package driver

import (
	"sync/atomic"

	"github.com/jwulff/ledstrip-go/internal/domain"
	"github.com/jwulff/ledstrip-go/internal/layout"
)

// Driver is an LED output. Show takes a canonical buffer; Shutdown sends an
// all-black frame.
type Driver interface {
	Show(pixels domain.Buffer) error
	Shutdown() error
	Close() error
}

// Dimmer holds a global brightness factor that can be changed while frames
// are being sent. The zero value is full brightness.
type Dimmer struct {
	dim atomic.Uint32
}

// Brightness returns the current factor, 0 to 255.
func (d *Dimmer) Brightness() uint8 {
	return 255 - uint8(d.dim.Load())
}

// SetBrightness sets the factor and returns the previous one.
func (d *Dimmer) SetBrightness(v uint8) uint8 {
	return 255 - uint8(d.dim.Swap(uint32(255-v)))
}

// Encoder serialises canonical buffers into wire order.
type Encoder struct {
	Dimmer

	layout layout.Layout
	order  []int
	format domain.Format
}

// NewEncoder creates an encoder for layout l and byte order format.
func NewEncoder(l layout.Layout, format domain.Format) *Encoder {
	return &Encoder{
		layout: l,
		order:  l.WireOrder(),
		format: format,
	}
}

// Layout returns the wiring the encoder was built for.
func (e *Encoder) Layout() layout.Layout { return e.layout }

// Format returns the byte order.
func (e *Encoder) Format() domain.Format { return e.format }

// Encode appends the wire bytes for pixels to dst. Wire position i carries
// pixels[CanonicalIndex(i)] scaled by the brightness. Missing pixels are
// black; extra pixels are ignored.
func (e *Encoder) Encode(dst []byte, pixels domain.Buffer) []byte {
	b := e.Brightness()
	for _, idx := range e.order {
		var p domain.Pixel
		if idx < len(pixels) {
			p = pixels[idx]
		}
		dst = append(dst,
			domain.Scale(p.Byte0(e.format), b),
			domain.Scale(p.Byte1(e.format), b),
			domain.Scale(p.Byte2(e.format), b))
	}
	return dst
}

// Blank appends an all-black frame to dst.
func (e *Encoder) Blank(dst []byte) []byte {
	for range e.order {
		dst = append(dst, 0, 0, 0)
	}
	return dst
}
