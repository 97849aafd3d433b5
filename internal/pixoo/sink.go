package pixoo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/ledstrip-go/internal/domain"
	"github.com/jwulff/ledstrip-go/internal/driver"
	"github.com/jwulff/ledstrip-go/internal/layout"
)

// Sink shows canonical buffers on a Pixoo panel. Layouts smaller than the
// panel are drawn in its top-left corner.
type Sink struct {
	driver.Dimmer

	client  *Client
	layout  layout.Layout
	timeout time.Duration
	log     zerolog.Logger

	mu    sync.Mutex
	frame *domain.Matrix
}

// NewSink creates a sink for client. The layout must fit on the panel.
func NewSink(client *Client, l layout.Layout, log zerolog.Logger) (*Sink, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if l.Rows > Size || l.Columns > Size {
		return nil, fmt.Errorf("layout %dx%d does not fit a %dx%d panel", l.Rows, l.Columns, Size, Size)
	}
	return &Sink{
		client:  client,
		layout:  l,
		timeout: DefaultTimeout,
		log:     log,
		frame:   domain.NewMatrix(Size, Size, domain.Black),
	}, nil
}

// Show sends pixels to the panel.
func (s *Sink) Show(pixels domain.Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame.Fill(domain.Black)
	for row := 0; row < s.layout.Rows; row++ {
		start := row * s.layout.Columns
		if start >= len(pixels) {
			break
		}
		end := min(start+s.layout.Columns, len(pixels))
		copy(s.frame.Row(row), pixels[start:end])
	}
	return s.send()
}

// Shutdown sends a black frame.
func (s *Sink) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame.Fill(domain.Black)
	return s.send()
}

// Close is a no-op; the HTTP client holds no connection state.
func (s *Sink) Close() error { return nil }

// send must be called with s.mu held.
func (s *Sink) send() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	b := s.Brightness()
	err := s.client.SendFrameWithOptions(ctx, s.frame, &FrameCommandOptions{Brightness: &b})
	if err != nil {
		s.log.Warn().Err(err).Str("ip", s.client.IP).Msg("pixoo frame failed")
		return err
	}
	return nil
}

var _ driver.Driver = (*Sink)(nil)
