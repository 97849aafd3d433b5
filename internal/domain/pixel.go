// Package domain contains the pixel, buffer and matrix types shared by every
// LED output.
package domain

import (
	"fmt"
	"image/color"
	"math"
)

// Pixel is a 24-bit RGB color.
type Pixel struct {
	R, G, B uint8
}

// Common colors.
var (
	Black = Pixel{}
	White = Pixel{R: 255, G: 255, B: 255}
)

// NewPixel creates a new pixel.
func NewPixel(r, g, b uint8) Pixel {
	return Pixel{R: r, G: g, B: b}
}

// FromPacked creates a pixel from a 0xRRGGBB value. Bits above 24 are ignored.
func FromPacked(v uint32) Pixel {
	return Pixel{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Packed returns the pixel as 0xRRGGBB.
func (p Pixel) Packed() uint32 {
	return uint32(p.R)<<16 | uint32(p.G)<<8 | uint32(p.B)
}

// Equals checks if two pixels are equal.
func (p Pixel) Equals(other Pixel) bool {
	return p == other
}

// String returns the pixel in hex notation.
func (p Pixel) String() string {
	return fmt.Sprintf("#%06x", p.Packed())
}

// RGBA implements color.Color.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	r = uint32(p.R)
	r |= r << 8
	g = uint32(p.G)
	g |= g << 8
	b = uint32(p.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// PixelModel converts any color to a Pixel, dropping alpha.
var PixelModel = color.ModelFunc(func(c color.Color) color.Color {
	if p, ok := c.(Pixel); ok {
		return p
	}
	r, g, b, _ := c.RGBA()
	return Pixel{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
})

// Byte0 returns the channel transmitted first in format f.
func (p Pixel) Byte0(f Format) uint8 {
	switch f {
	case BGR, BRG:
		return p.B
	case GBR, GRB:
		return p.G
	default:
		return p.R
	}
}

// Byte1 returns the channel transmitted second in format f.
func (p Pixel) Byte1(f Format) uint8 {
	switch f {
	case RBG, GBR:
		return p.B
	case BRG, GRB:
		return p.R
	default:
		return p.G
	}
}

// Byte2 returns the channel transmitted last in format f.
func (p Pixel) Byte2(f Format) uint8 {
	switch f {
	case BRG, RBG:
		return p.G
	case GBR, BGR:
		return p.R
	default:
		return p.B
	}
}

// Bytes returns the three channels in transmission order.
func (p Pixel) Bytes(f Format) [3]byte {
	return [3]byte{p.Byte0(f), p.Byte1(f), p.Byte2(f)}
}

// Dim scales every channel by (factor+1)/256. Dim(255) is the identity and
// Dim(0) is black.
func (p Pixel) Dim(factor uint8) Pixel {
	return Pixel{R: Scale(p.R, factor), G: Scale(p.G, factor), B: Scale(p.B, factor)}
}

// Scale applies a brightness factor to a single channel.
func Scale(channel, factor uint8) uint8 {
	return uint8((uint16(channel) * (uint16(factor) + 1)) >> 8)
}

// Min returns the smallest channel value.
func (p Pixel) Min() uint8 {
	return min(p.R, p.G, p.B)
}

// Max returns the largest channel value.
func (p Pixel) Max() uint8 {
	return max(p.R, p.G, p.B)
}

// Avg returns the truncated mean of the channels.
func (p Pixel) Avg() uint8 {
	return uint8((int(p.R) + int(p.G) + int(p.B)) / 3)
}

// Luminance returns the HSL lightness, (max+min)/2.
func (p Pixel) Luminance() uint8 {
	return uint8((int(p.Max()) + int(p.Min())) / 2)
}

// Saturation returns the HSL saturation in the 0-255 range.
func (p Pixel) Saturation() uint8 {
	hi, lo := int(p.Max()), int(p.Min())
	chroma := hi - lo
	if chroma == 0 {
		return 0
	}
	if (hi+lo)/2 <= 127 {
		return uint8(chroma * 255 / (hi + lo))
	}
	return uint8(chroma * 255 / (510 - hi - lo))
}

// Hue returns the HSL hue in degrees, 0 to 359.
func (p Pixel) Hue() int {
	r, g, b := int(p.R), int(p.G), int(p.B)
	hi := int(p.Max())
	chroma := hi - int(p.Min())
	if chroma == 0 {
		return 0
	}

	var h int
	switch hi {
	case r:
		h = (600 * (g - b) / chroma) / 10
	case g:
		h = (600*(b-r)/chroma)/10 + 120
	default:
		h = (600*(r-g)/chroma)/10 + 240
	}
	h %= 360
	if h < 0 {
		h += 360
	}
	return h
}

// HSL builds a pixel from hue (degrees, [0,360)), saturation and luminance.
// It panics if hue is out of range.
func HSL(hue int, saturation, luminance uint8) Pixel {
	if hue < 0 || hue >= 360 {
		panic(fmt.Sprintf("domain: hue %d not in [0,360)", hue))
	}
	l := int(luminance)
	c := (255 - absInt(2*l-255)) * int(saturation) / 254
	xAux := math.Abs(math.Mod(float64(hue)/60.0, 2.0) - 1.0)
	x := c * (10000 - int(xAux*10000)) / 10000
	m := l - c/2

	var r, g, b int
	switch {
	case hue >= 300:
		r, g, b = c+m, m, x+m
	case hue >= 240:
		r, g, b = x+m, m, c+m
	case hue >= 180:
		r, g, b = m, x+m, c+m
	case hue >= 120:
		r, g, b = m, c+m, x+m
	case hue >= 60:
		r, g, b = x+m, c+m, m
	default:
		r, g, b = c+m, x+m, m
	}
	return Pixel{R: uint8(r), G: uint8(g), B: uint8(b)}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
