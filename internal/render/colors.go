package render

import "github.com/jwulff/ledstrip-go/internal/domain"

// Lerp linearly interpolates between two colors.
func Lerp(a, b domain.Pixel, t float64) domain.Pixel {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return domain.NewPixel(
		uint8(float64(a.R)+t*float64(int(b.R)-int(a.R))),
		uint8(float64(a.G)+t*float64(int(b.G)-int(a.G))),
		uint8(float64(a.B)+t*float64(int(b.B)-int(a.B))),
	)
}

// HueGradient colors each column of m with a hue, spreading the full hue
// circle over the columns.
func HueGradient(m *domain.Matrix, saturation, luminance uint8) {
	cols := m.Columns()
	for col := 0; col < cols; col++ {
		c := domain.HSL(col*360/cols, saturation, luminance)
		for row := 0; row < m.Rows(); row++ {
			m.Set(row, col, c)
		}
	}
}
