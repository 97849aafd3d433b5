// Package layout maps physical LED wire positions to matrix coordinates.
//
// A Layout describes how a strip is folded into a matrix: the corner where the
// data line enters, whether it runs along rows or columns, and whether
// consecutive runs go the same way (linear) or alternate (serpentine).
// Pixel buffers are always kept in canonical order, row-major from the top
// left. Outputs use CanonicalIndex to read them in wire order.
package layout

import (
	"errors"
	"fmt"

	"github.com/jwulff/ledstrip-go/internal/domain"
)

// Corner is the position of the first pixel on the data line.
type Corner uint8

// Corners.
const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// Arrangement tells whether the strip runs along rows or along columns.
type Arrangement uint8

// Arrangements.
const (
	Rows Arrangement = iota
	Columns
)

// Wiring tells how consecutive runs are connected.
type Wiring uint8

// Wirings.
const (
	Linear Wiring = iota
	Serpentine

	Progressive = Linear
	ZigZag      = Serpentine
)

// Errors returned by Validate.
var (
	ErrEmpty          = errors.New("layout: rows and columns must be positive")
	ErrInvalidSetting = errors.New("layout: invalid setting")
)

// Layout is the wiring description of an LED matrix.
type Layout struct {
	Rows        int         `yaml:"rows" json:"rows"`
	Columns     int         `yaml:"columns" json:"columns"`
	FirstPixel  Corner      `yaml:"first_pixel" json:"first_pixel"`
	Arrangement Arrangement `yaml:"arrangement" json:"arrangement"`
	Wiring      Wiring      `yaml:"wiring" json:"wiring"`
}

// Strip returns the layout of a plain strip of n pixels. A reversed strip is
// fed from its far end.
func Strip(n int, reversed bool) Layout {
	l := Layout{Rows: 1, Columns: n, FirstPixel: TopLeft, Arrangement: Rows, Wiring: Linear}
	if reversed {
		l.FirstPixel = TopRight
	}
	return l
}

// Size returns the number of pixels.
func (l Layout) Size() int {
	return l.Rows * l.Columns
}

// Validate checks that the layout describes a non-empty matrix with known
// settings.
func (l Layout) Validate() error {
	if l.Rows <= 0 || l.Columns <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrEmpty, l.Rows, l.Columns)
	}
	if l.FirstPixel > BottomRight || l.Arrangement > Columns || l.Wiring > Serpentine {
		return ErrInvalidSetting
	}
	return nil
}

func (l Layout) String() string {
	return fmt.Sprintf("%dx%d %s %s %s", l.Rows, l.Columns, l.FirstPixel, l.Arrangement, l.Wiring)
}

func (l Layout) right() bool {
	return l.FirstPixel == TopRight || l.FirstPixel == BottomRight
}

func (l Layout) bottom() bool {
	return l.FirstPixel == BottomLeft || l.FirstPixel == BottomRight
}

// IndexToCoordinates returns the cell lit by the pixel at wire position i.
// It panics if i is out of range.
func (l Layout) IndexToCoordinates(i int) (row, col int) {
	if i < 0 || i >= l.Size() {
		panic(fmt.Sprintf("layout: wire index %d outside %dx%d matrix", i, l.Rows, l.Columns))
	}
	if l.Arrangement == Rows {
		row, col = i/l.Columns, i%l.Columns
		reverse := row%2 == 1 && l.Wiring == Serpentine
		if l.right() != reverse {
			col = l.Columns - 1 - col
		}
		if l.bottom() {
			row = l.Rows - 1 - row
		}
		return row, col
	}

	col, row = i/l.Rows, i%l.Rows
	reverse := col%2 == 1 && l.Wiring == Serpentine
	if l.bottom() != reverse {
		row = l.Rows - 1 - row
	}
	if l.right() {
		col = l.Columns - 1 - col
	}
	return row, col
}

// CoordinatesToIndex returns the wire position of the pixel at (row, col).
// It is the inverse of IndexToCoordinates and panics on cells outside the
// matrix.
func (l Layout) CoordinatesToIndex(row, col int) int {
	if row < 0 || row >= l.Rows || col < 0 || col >= l.Columns {
		panic(fmt.Sprintf("layout: cell (%d, %d) outside %dx%d matrix", row, col, l.Rows, l.Columns))
	}
	if l.Arrangement == Rows {
		if l.bottom() {
			row = l.Rows - 1 - row
		}
		reverse := row%2 == 1 && l.Wiring == Serpentine
		if l.right() != reverse {
			col = l.Columns - 1 - col
		}
		return row*l.Columns + col
	}

	if l.right() {
		col = l.Columns - 1 - col
	}
	reverse := col%2 == 1 && l.Wiring == Serpentine
	if l.bottom() != reverse {
		row = l.Rows - 1 - row
	}
	return col*l.Rows + row
}

// CanonicalIndex returns the canonical buffer index of wire position i.
func (l Layout) CanonicalIndex(i int) int {
	row, col := l.IndexToCoordinates(i)
	return row*l.Columns + col
}

// WireOrder returns CanonicalIndex for every wire position, in wire order.
func (l Layout) WireOrder() []int {
	order := make([]int, l.Size())
	for i := range order {
		order[i] = l.CanonicalIndex(i)
	}
	return order
}

// NewMatrix allocates a canonical matrix of this layout's size.
func (l Layout) NewMatrix(color domain.Pixel) *domain.Matrix {
	return domain.NewMatrix(l.Rows, l.Columns, color)
}

// NewBuffer allocates a canonical buffer of this layout's size.
func (l Layout) NewBuffer(color domain.Pixel) domain.Buffer {
	return domain.NewBuffer(l.Size(), color)
}

// FlipVertical returns the layout of the same panel mounted upside down.
func (l Layout) FlipVertical() Layout {
	l.FirstPixel ^= 2
	return l
}

// FlipHorizontal returns the layout of the same panel mirrored left to right.
func (l Layout) FlipHorizontal() Layout {
	l.FirstPixel ^= 1
	return l
}

// Rotate90Clockwise returns the layout of the panel turned a quarter turn
// clockwise. The row and column counts are swapped.
func (l Layout) Rotate90Clockwise() Layout {
	switch l.FirstPixel {
	case TopLeft:
		l.FirstPixel = TopRight
	case TopRight:
		l.FirstPixel = BottomRight
	case BottomRight:
		l.FirstPixel = BottomLeft
	default:
		l.FirstPixel = TopLeft
	}
	if l.Arrangement == Rows {
		l.Arrangement = Columns
	} else {
		l.Arrangement = Rows
	}
	l.Rows, l.Columns = l.Columns, l.Rows
	return l
}
