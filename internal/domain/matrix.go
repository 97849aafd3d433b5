package domain

import (
	"fmt"
	"image"
	"image/color"
)

// Matrix is a two dimensional view over a Buffer. Cell (row, col) lives at
// index row*Columns()+col, the canonical order every output agrees on.
type Matrix struct {
	rows    int
	columns int
	pixels  Buffer
}

// NewMatrix creates a rows x columns matrix filled with color.
func NewMatrix(rows, columns int, color Pixel) *Matrix {
	if rows < 0 || columns < 0 {
		panic(fmt.Sprintf("domain: invalid matrix size %dx%d", rows, columns))
	}
	return &Matrix{
		rows:    rows,
		columns: columns,
		pixels:  NewBuffer(rows*columns, color),
	}
}

// NewMatrixFromRows creates a matrix from a list of rows. The column count is
// the length of the longest row; shorter rows are padded with black.
func NewMatrixFromRows(rows [][]Pixel) *Matrix {
	columns := 0
	for _, r := range rows {
		columns = max(columns, len(r))
	}
	m := NewMatrix(len(rows), columns, Black)
	for i, r := range rows {
		copy(m.pixels[i*columns:], r)
	}
	return m
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Columns returns the number of columns.
func (m *Matrix) Columns() int { return m.columns }

// Len returns the number of pixels.
func (m *Matrix) Len() int { return len(m.pixels) }

// Buffer returns the underlying canonical buffer. Changes to it are visible
// through the matrix.
func (m *Matrix) Buffer() Buffer { return m.pixels }

// Index returns the canonical index of (row, col). It panics if the cell is
// out of range.
func (m *Matrix) Index(row, col int) int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.columns {
		panic(fmt.Sprintf("domain: cell (%d, %d) outside %dx%d matrix", row, col, m.rows, m.columns))
	}
	return row*m.columns + col
}

// Get returns the pixel at (row, col).
func (m *Matrix) Get(row, col int) Pixel {
	return m.pixels[m.Index(row, col)]
}

// Set sets the pixel at (row, col).
func (m *Matrix) Set(row, col int, color Pixel) {
	m.pixels[m.Index(row, col)] = color
}

// Row returns a view of one row.
func (m *Matrix) Row(row int) Buffer {
	start := m.Index(row, 0)
	return m.pixels[start : start+m.columns]
}

// Fill sets every pixel to color.
func (m *Matrix) Fill(color Pixel) {
	m.pixels.Fill(color)
}

// Resize changes the matrix size. The previous contents are discarded.
func (m *Matrix) Resize(rows, columns int, color Pixel) {
	*m = *NewMatrix(rows, columns, color)
}

// Clone creates a deep copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{rows: m.rows, columns: m.columns, pixels: m.pixels.Clone()}
}

// ScrollLeft rotates every row count columns to the left. Pixels leaving the
// left edge reappear on the right.
func (m *Matrix) ScrollLeft(count int) {
	if m.rows == 0 || m.columns < 2 {
		return
	}
	count %= m.columns
	for r := 0; r < m.rows; r++ {
		start := r * m.columns
		m.pixels.Shift(start+m.columns-1, start, count)
	}
}

// ScrollRight rotates every row count columns to the right.
func (m *Matrix) ScrollRight(count int) {
	if m.rows == 0 || m.columns < 2 {
		return
	}
	count %= m.columns
	for r := 0; r < m.rows; r++ {
		start := r * m.columns
		m.pixels.Shift(start, start+m.columns-1, count)
	}
}

// ScrollUp rotates the matrix count rows up. The top rows wrap to the bottom.
func (m *Matrix) ScrollUp(count int) {
	if m.rows < 2 || m.columns == 0 {
		return
	}
	count %= m.rows
	m.pixels.Shift(len(m.pixels)-1, 0, count*m.columns)
}

// ScrollDown rotates the matrix count rows down.
func (m *Matrix) ScrollDown(count int) {
	if m.rows < 2 || m.columns == 0 {
		return
	}
	count %= m.rows
	if count < 0 {
		count += m.rows
	}
	m.ScrollUp(m.rows - count)
}

// ColorModel implements image.Image.
func (m *Matrix) ColorModel() color.Model { return PixelModel }

// Bounds implements image.Image. X is the column and Y the row.
func (m *Matrix) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.columns, m.rows)
}

// At implements image.Image. Points outside the matrix are black.
func (m *Matrix) At(x, y int) color.Color {
	if x < 0 || x >= m.columns || y < 0 || y >= m.rows {
		return Black
	}
	return m.pixels[y*m.columns+x]
}

// Draw copies img into the matrix, aligned at the top-left corner.
func (m *Matrix) Draw(img image.Image) {
	b := img.Bounds()
	for y := 0; y < m.rows && b.Min.Y+y < b.Max.Y; y++ {
		for x := 0; x < m.columns && b.Min.X+x < b.Max.X; x++ {
			m.pixels[y*m.columns+x] = PixelModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(Pixel)
		}
	}
}
