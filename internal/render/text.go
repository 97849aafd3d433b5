package render

import "github.com/jwulff/ledstrip-go/internal/domain"

// DrawText draws text with its top-left corner at (row, col). Pixels outside
// m are clipped.
func DrawText(m *domain.Matrix, text string, row, col int, color domain.Pixel) {
	for _, r := range text {
		drawGlyph(m, Glyph(r), row, col, color)
		col += GlyphWidth + GlyphSpacing
	}
}

// DrawTextCentered draws text in the middle of m.
func DrawTextCentered(m *domain.Matrix, text string, color domain.Pixel) {
	row := (m.Rows() - GlyphHeight) / 2
	col := (m.Columns() - MeasureText(text)) / 2
	DrawText(m, text, row, col, color)
}

func drawGlyph(m *domain.Matrix, g [GlyphHeight]uint8, row, col int, color domain.Pixel) {
	for y := 0; y < GlyphHeight; y++ {
		r := row + y
		if r < 0 || r >= m.Rows() {
			continue
		}
		for x := 0; x < GlyphWidth; x++ {
			c := col + x
			if c < 0 || c >= m.Columns() {
				continue
			}
			if g[y]&(1<<(GlyphWidth-1-x)) != 0 {
				m.Set(r, c, color)
			}
		}
	}
}
