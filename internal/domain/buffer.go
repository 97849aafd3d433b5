package domain

import "fmt"

// Buffer is a linear sequence of pixels.
type Buffer []Pixel

// NewBuffer creates a buffer of n pixels set to color.
func NewBuffer(n int, color Pixel) Buffer {
	b := make(Buffer, n)
	if color != Black {
		b.Fill(color)
	}
	return b
}

// Resize returns a new buffer of n pixels, never sharing storage with b.
// Existing pixels are kept and new ones are set to color.
func (b Buffer) Resize(n int, color Pixel) Buffer {
	if n < 0 {
		panic(fmt.Sprintf("domain: invalid buffer size %d", n))
	}
	out := make(Buffer, n)
	copied := copy(out, b)
	if copied < n {
		out.FillRange(color, copied, n-1)
	}
	return out
}

// Clone creates a deep copy of the buffer.
func (b Buffer) Clone() Buffer {
	out := make(Buffer, len(b))
	copy(out, b)
	return out
}

// clamp maps any index beyond the buffer (or negative) to the last element.
func (b Buffer) clamp(i int) int {
	if i < 0 || i >= len(b) {
		return len(b) - 1
	}
	return i
}

// Shift rotates the inclusive range between from and to by count positions.
// When from > to pixels move towards lower indices and the ones falling off
// the low end wrap to the high end. When from < to they move the other way.
// Out of range endpoints are clamped to the last pixel.
//
// The rotation runs in O(n) regardless of count.
func (b Buffer) Shift(from, to, count int) {
	if len(b) == 0 {
		return
	}
	from, to = b.clamp(from), b.clamp(to)
	if from == to {
		return
	}

	lo, hi := to, from
	if from < to {
		lo, hi = from, to
	}
	n := hi - lo + 1
	s := count % n
	if s < 0 {
		s += n
	}
	if from < to {
		s = (n - s) % n
	}
	if s == 0 {
		return
	}
	b.rotateDown(lo, n, s)
}

// rotateDown moves b[base+i] to b[base+(i-s) mod n] using cycle leaders.
func (b Buffer) rotateDown(base, n, s int) {
	cycles := gcd(n, s)
	for start := 0; start < cycles; start++ {
		tmp := b[base+start]
		i := start
		for {
			next := i + s
			if next >= n {
				next -= n
			}
			if next == start {
				break
			}
			b[base+i] = b[base+next]
			i = next
		}
		b[base+i] = tmp
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ShiftLeft rotates the whole buffer count positions towards index 0.
func (b Buffer) ShiftLeft(count int) {
	if len(b) > 1 {
		b.Shift(len(b)-1, 0, count)
	}
}

// ShiftRight rotates the whole buffer count positions towards the end.
func (b Buffer) ShiftRight(count int) {
	if len(b) > 1 {
		b.Shift(0, len(b)-1, count)
	}
}

// Fill sets every pixel to color.
func (b Buffer) Fill(color Pixel) {
	for i := range b {
		b[i] = color
	}
}

// FillRange sets the pixels in the inclusive range [from, to] to color.
// Endpoints are swapped if needed and indices outside the buffer are skipped.
func (b Buffer) FillRange(color Pixel, from, to int) {
	if from > to {
		from, to = to, from
	}
	from = max(from, 0)
	to = min(to, len(b)-1)
	for i := from; i <= to; i++ {
		b[i] = color
	}
}

// Packed returns the buffer as a flat [r0,g0,b0, r1,g1,b1, ...] slice.
func (b Buffer) Packed() []byte {
	out := make([]byte, 0, len(b)*BytesPerPixel)
	for _, p := range b {
		out = append(out, p.R, p.G, p.B)
	}
	return out
}

// BufferFromPacked decodes a flat RGB slice. A trailing partial pixel is
// dropped.
func BufferFromPacked(data []byte) Buffer {
	b := make(Buffer, len(data)/BytesPerPixel)
	for i := range b {
		o := i * BytesPerPixel
		b[i] = Pixel{R: data[o], G: data[o+1], B: data[o+2]}
	}
	return b
}

// BytesPerPixel is the number of bytes per packed pixel.
const BytesPerPixel = 3
