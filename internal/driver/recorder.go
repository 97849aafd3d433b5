package driver

import (
	"sync"

	"github.com/jwulff/ledstrip-go/internal/domain"
	"github.com/jwulff/ledstrip-go/internal/layout"
)

// Recorder is an in-memory output that keeps every encoded frame. It is used
// in tests and by the dry-run mode of the command.
type Recorder struct {
	*Encoder

	// OnShow and OnShutdown, if set, receive each encoded frame. Set them
	// before the recorder is shared.
	OnShow     func(wire []byte)
	OnShutdown func(wire []byte)
	// Limit caps the number of kept frames when positive. Older frames are
	// dropped first.
	Limit int

	mu        sync.Mutex
	frames    [][]byte
	shutdowns int
	closed    bool
}

// NewRecorder creates a recorder for layout l and byte order format.
func NewRecorder(l layout.Layout, format domain.Format) *Recorder {
	return &Recorder{Encoder: NewEncoder(l, format)}
}

// Show records the wire bytes of pixels.
func (r *Recorder) Show(pixels domain.Buffer) error {
	wire := r.Encode(nil, pixels)
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.keep(wire)
	r.mu.Unlock()

	if r.OnShow != nil {
		r.OnShow(wire)
	}
	return nil
}

// Shutdown records a black frame.
func (r *Recorder) Shutdown() error {
	wire := r.Blank(nil)
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.keep(wire)
	r.shutdowns++
	r.mu.Unlock()

	if r.OnShutdown != nil {
		r.OnShutdown(wire)
	}
	return nil
}

func (r *Recorder) keep(wire []byte) {
	r.frames = append(r.frames, wire)
	if r.Limit > 0 && len(r.frames) > r.Limit {
		r.frames = append(r.frames[:0], r.frames[len(r.frames)-r.Limit:]...)
	}
}

// Close stops the recorder. Later calls to Show fail.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Frames returns a copy of the recorded frames.
func (r *Recorder) Frames() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]byte, len(r.frames))
	copy(out, r.frames)
	return out
}

// Last returns the most recent frame, or nil.
func (r *Recorder) Last() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

// Shutdowns returns how many times Shutdown was called.
func (r *Recorder) Shutdowns() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shutdowns
}
