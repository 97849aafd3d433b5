package domain

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPixel(t *testing.T) {
	p := NewPixel(255, 128, 64)
	assert.Equal(t, uint8(255), p.R)
	assert.Equal(t, uint8(128), p.G)
	assert.Equal(t, uint8(64), p.B)
}

func TestPixelPacked(t *testing.T) {
	p := FromPacked(0x010203)
	assert.Equal(t, NewPixel(1, 2, 3), p)
	assert.Equal(t, uint32(0x010203), p.Packed())
	assert.Equal(t, Black, FromPacked(0))
	assert.Equal(t, NewPixel(0xAA, 0xBB, 0xCC), FromPacked(0xFFAABBCC))
}

func TestPixelString(t *testing.T) {
	assert.Equal(t, "#ff8040", NewPixel(255, 128, 64).String())
}

func TestPixelBytes(t *testing.T) {
	p := FromPacked(0x010203)
	tests := []struct {
		format Format
		want   [3]byte
	}{
		{RGB, [3]byte{1, 2, 3}},
		{RBG, [3]byte{1, 3, 2}},
		{GRB, [3]byte{2, 1, 3}},
		{GBR, [3]byte{2, 3, 1}},
		{BRG, [3]byte{3, 1, 2}},
		{BGR, [3]byte{3, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			assert.Equal(t, tt.want[0], p.Byte0(tt.format))
			assert.Equal(t, tt.want[1], p.Byte1(tt.format))
			assert.Equal(t, tt.want[2], p.Byte2(tt.format))
			assert.Equal(t, tt.want, p.Bytes(tt.format))
		})
	}
}

func TestPixelDim(t *testing.T) {
	white := FromPacked(0xFFFFFF)
	assert.Equal(t, white, white.Dim(255))
	assert.Equal(t, Black, white.Dim(0))
	assert.Equal(t, FromPacked(0x7F7F7F), white.Dim(127))
	assert.Equal(t, uint8(100), Scale(100, 255))
}

func TestPixelStatistics(t *testing.T) {
	// Every permutation of the same three channel values.
	for _, p := range []Pixel{
		{200, 50, 10}, {200, 10, 50}, {10, 200, 50},
		{50, 200, 10}, {50, 10, 200}, {10, 50, 200},
	} {
		assert.Equal(t, uint8(200), p.Max(), p.String())
		assert.Equal(t, uint8(10), p.Min(), p.String())
		assert.Equal(t, uint8(86), p.Avg(), p.String())
	}
}

func TestPixelToHSL(t *testing.T) {
	tests := []struct {
		pixel Pixel
		hue   int
		sat   uint8
		lum   uint8
	}{
		{NewPixel(0, 0, 124), 240, 255, 62},
		{NewPixel(0, 30, 0), 120, 255, 15},
		{NewPixel(110, 62, 33), 22, 137, 71},
		{NewPixel(20, 190, 62), 134, 206, 105},
		{NewPixel(0, 127, 190), 200, 255, 95},
		{NewPixel(32, 32, 32), 0, 0, 32},
	}
	for _, tt := range tests {
		t.Run(tt.pixel.String(), func(t *testing.T) {
			assert.Equal(t, tt.hue, tt.pixel.Hue())
			assert.Equal(t, tt.sat, tt.pixel.Saturation())
			assert.Equal(t, tt.lum, tt.pixel.Luminance())
		})
	}
}

func TestPixelHueRedMaxWrapsIntoRange(t *testing.T) {
	// Blue above green with red on top lands just below 360.
	assert.Equal(t, 358, NewPixel(255, 0, 10).Hue())
}

func TestHSLToPixel(t *testing.T) {
	tests := []struct {
		name string
		hue  int
		sat  uint8
		lum  uint8
		want uint32
	}{
		{"black", 0, 0, 0, 0x000000},
		{"white", 0, 0, 255, 0xFFFFFF},
		{"red", 0, 255, 127, 0xFF0000},
		{"lime", 120, 255, 127, 0x00FF00},
		{"blue", 240, 255, 127, 0x0000FF},
		{"yellow", 60, 255, 127, 0xFFFF00},
		{"cyan", 180, 255, 127, 0x00FFFF},
		{"magenta", 300, 255, 127, 0xFF00FF},
		{"silver", 0, 0, 191, 0xBFBFBF},
		{"gray", 0, 0, 128, 0x808080},
		{"maroon", 0, 255, 64, 0x800000},
		{"olive", 60, 255, 64, 0x808000},
		{"green", 120, 255, 64, 0x008000},
		{"purple", 300, 255, 64, 0x800080},
		{"teal", 180, 255, 64, 0x008080},
		{"navy", 240, 255, 64, 0x000080},
		{"random 1", 55, 64, 179, 0xC6C2A0},
		{"random 2", 325, 25, 25, 0x1B1719},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, FromPacked(tt.want), HSL(tt.hue, tt.sat, tt.lum))
		})
	}
}

func TestHSLPanicsOnInvalidHue(t *testing.T) {
	assert.Panics(t, func() { HSL(360, 255, 127) })
	assert.Panics(t, func() { HSL(-1, 255, 127) })
}

func TestPixelColorModel(t *testing.T) {
	c := PixelModel.Convert(color.RGBA{R: 10, G: 20, B: 30, A: 255})
	p, ok := c.(Pixel)
	require.True(t, ok)
	assert.Equal(t, NewPixel(10, 20, 30), p)

	r, g, b, a := NewPixel(255, 0, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(0x0101), b)
	assert.Equal(t, uint32(0xffff), a)
}

func TestFormatText(t *testing.T) {
	f, err := ParseFormat("grb")
	require.NoError(t, err)
	assert.Equal(t, GRB, f)

	text, err := BGR.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "BGR", string(text))

	var parsed Format
	require.NoError(t, parsed.UnmarshalText([]byte("RBG")))
	assert.Equal(t, RBG, parsed)

	_, err = ParseFormat("RGBW")
	assert.Error(t, err)
	assert.Equal(t, "Format(9)", Format(9).String())
}
