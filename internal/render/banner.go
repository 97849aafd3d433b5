package render

import "github.com/jwulff/ledstrip-go/internal/domain"

// Banner scrolls a line of text from the right edge of a matrix to beyond
// its left edge, one column per step.
type Banner struct {
	strip *domain.Matrix
	pos   int
}

// NewBanner prepares text for a matrix of the given size. The text is
// centered vertically.
func NewBanner(text string, color domain.Pixel, rows, columns int) *Banner {
	strip := domain.NewMatrix(rows, MeasureText(text)+columns, domain.Black)
	DrawText(strip, text, (rows-GlyphHeight)/2, 0, color)
	return &Banner{strip: strip}
}

// Len returns the number of steps until the text has left the matrix.
func (b *Banner) Len() int { return b.strip.Columns() }

// Done reports whether every step has been taken.
func (b *Banner) Done() bool { return b.pos >= b.strip.Columns() }

// Step scrolls m one column to the left and fills the freed right column
// with the next column of the text. m must have the banner's row count.
func (b *Banner) Step(m *domain.Matrix) {
	if b.Done() || m.Columns() == 0 {
		return
	}
	m.ScrollLeft(1)
	last := m.Columns() - 1
	for row := 0; row < m.Rows() && row < b.strip.Rows(); row++ {
		m.Set(row, last, b.strip.Get(row, b.pos))
	}
	b.pos++
}
