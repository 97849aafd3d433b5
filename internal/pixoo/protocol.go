// Package pixoo drives a Divoom Pixoo64 panel over its local HTTP API.
//
// The panel listens on port 80 at POST http://<ip>/post. A frame is a
// 64x64 row-major RGB raster, base64 encoded: 12,288 raw bytes, about 16KB
// on the wire. Row-major from the top left is also the canonical buffer
// order, so frames need no wire-order translation.
package pixoo

import (
	"encoding/base64"
	"fmt"

	"github.com/jwulff/ledstrip-go/internal/domain"
)

// Size is the edge length of a Pixoo64 panel.
const Size = 64

// PixooCommand represents a Pixoo API command.
type PixooCommand struct {
	Command string `json:"Command"`
}

// FrameCommand represents a Draw/SendHttpGif command.
type FrameCommand struct {
	Command   string `json:"Command"`
	PicNum    int    `json:"PicNum"`
	PicWidth  int    `json:"PicWidth"`
	PicOffset int    `json:"PicOffset"`
	PicID     int    `json:"PicID"`
	PicSpeed  int    `json:"PicSpeed"`
	PicData   string `json:"PicData"`
}

// BrightnessCommand represents a Channel/SetBrightness command.
type BrightnessCommand struct {
	Command    string `json:"Command"`
	Brightness int    `json:"Brightness"`
}

// FrameCommandOptions configures frame command parameters.
type FrameCommandOptions struct {
	PicID int
	Speed int
	// Brightness dims the pixels before encoding. Nil means full.
	Brightness *uint8
}

// EncodeMatrix encodes a matrix as base64 RGB, scaling every channel by
// brightness.
func EncodeMatrix(m *domain.Matrix, brightness uint8) string {
	pixels := m.Buffer()
	if brightness != 255 {
		pixels = pixels.Clone()
		for i, p := range pixels {
			pixels[i] = p.Dim(brightness)
		}
	}
	return base64.StdEncoding.EncodeToString(pixels.Packed())
}

// DecodeMatrix decodes base64 RGB data into a rows x columns matrix.
func DecodeMatrix(encoded string, rows, columns int) (*domain.Matrix, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	expectedSize := rows * columns * domain.BytesPerPixel
	if len(data) != expectedSize {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", expectedSize, len(data))
	}

	m := domain.NewMatrix(rows, columns, domain.Black)
	copy(m.Buffer(), domain.BufferFromPacked(data))
	return m, nil
}

// CreatePixooFrameCommand creates a Draw/SendHttpGif command.
func CreatePixooFrameCommand(m *domain.Matrix, opts *FrameCommandOptions) FrameCommand {
	picID := 1
	speed := 1000
	brightness := uint8(255)

	if opts != nil {
		if opts.PicID > 0 {
			picID = opts.PicID
		}
		if opts.Speed > 0 {
			speed = opts.Speed
		}
		if opts.Brightness != nil {
			brightness = *opts.Brightness
		}
	}

	return FrameCommand{
		Command:   "Draw/SendHttpGif",
		PicNum:    1,
		PicWidth:  m.Columns(),
		PicOffset: 0,
		PicID:     picID,
		PicSpeed:  speed,
		PicData:   EncodeMatrix(m, brightness),
	}
}

// CreateDeviceTimeCommand creates a Device/GetDeviceTime command.
func CreateDeviceTimeCommand() PixooCommand {
	return PixooCommand{
		Command: "Device/GetDeviceTime",
	}
}

// CreateBrightnessCommand creates a Channel/SetBrightness command. The value
// is clamped to 0-100.
func CreateBrightnessCommand(brightness int) BrightnessCommand {
	return BrightnessCommand{
		Command:    "Channel/SetBrightness",
		Brightness: min(max(brightness, 0), 100),
	}
}
