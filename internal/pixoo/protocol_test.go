package pixoo

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/ledstrip-go/internal/domain"
)

func TestEncodeMatrix(t *testing.T) {
	m := domain.NewMatrix(2, 2, domain.Black)
	m.Set(0, 0, domain.NewPixel(255, 0, 0))
	m.Set(0, 1, domain.NewPixel(0, 255, 0))
	m.Set(1, 0, domain.NewPixel(0, 0, 255))
	m.Set(1, 1, domain.NewPixel(255, 255, 0))

	decoded, err := base64.StdEncoding.DecodeString(EncodeMatrix(m, 255))
	require.NoError(t, err)
	assert.Equal(t, []byte{
		255, 0, 0,
		0, 255, 0,
		0, 0, 255,
		255, 255, 0,
	}, decoded)
}

func TestEncodeMatrixDims(t *testing.T) {
	m := domain.NewMatrix(1, 1, domain.White)

	decoded, err := base64.StdEncoding.DecodeString(EncodeMatrix(m, 127))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7F, 0x7F, 0x7F}, decoded)
	assert.Equal(t, domain.White, m.Get(0, 0), "source matrix is untouched")
}

func TestDecodeMatrix(t *testing.T) {
	pixels := []byte{
		255, 0, 0,
		0, 255, 0,
		0, 0, 255,
		255, 255, 0,
	}
	m, err := DecodeMatrix(base64.StdEncoding.EncodeToString(pixels), 2, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 2, m.Columns())
	assert.Equal(t, domain.NewPixel(255, 0, 0), m.Get(0, 0))
	assert.Equal(t, domain.NewPixel(0, 255, 0), m.Get(0, 1))
	assert.Equal(t, domain.NewPixel(255, 255, 0), m.Get(1, 1))
}

func TestDecodeMatrixErrors(t *testing.T) {
	_, err := DecodeMatrix("not-valid-base64!!!", 2, 2)
	assert.Error(t, err)

	_, err = DecodeMatrix(base64.StdEncoding.EncodeToString([]byte{255, 0, 0}), 2, 2)
	assert.ErrorContains(t, err, "size mismatch")
}

func TestCreatePixooFrameCommand(t *testing.T) {
	m := domain.NewMatrix(Size, Size, domain.Black)
	cmd := CreatePixooFrameCommand(m, nil)

	assert.Equal(t, "Draw/SendHttpGif", cmd.Command)
	assert.Equal(t, 1, cmd.PicNum)
	assert.Equal(t, Size, cmd.PicWidth)
	assert.Equal(t, 0, cmd.PicOffset)
	assert.Equal(t, 1, cmd.PicID)
	assert.Equal(t, 1000, cmd.PicSpeed)

	decoded, err := base64.StdEncoding.DecodeString(cmd.PicData)
	require.NoError(t, err)
	assert.Len(t, decoded, Size*Size*3)
}

func TestCreatePixooFrameCommandWithOptions(t *testing.T) {
	m := domain.NewMatrix(1, 1, domain.White)
	off := uint8(0)
	cmd := CreatePixooFrameCommand(m, &FrameCommandOptions{PicID: 42, Speed: 500, Brightness: &off})

	assert.Equal(t, 42, cmd.PicID)
	assert.Equal(t, 500, cmd.PicSpeed)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0, 0, 0}), cmd.PicData)
}

func TestCreateDeviceTimeCommand(t *testing.T) {
	assert.Equal(t, "Device/GetDeviceTime", CreateDeviceTimeCommand().Command)
}

func TestCreateBrightnessCommand(t *testing.T) {
	cmd := CreateBrightnessCommand(75)
	assert.Equal(t, "Channel/SetBrightness", cmd.Command)
	assert.Equal(t, 75, cmd.Brightness)

	assert.Equal(t, 0, CreateBrightnessCommand(-10).Brightness)
	assert.Equal(t, 100, CreateBrightnessCommand(150).Brightness)
}
