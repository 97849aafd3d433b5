package driver

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/jwulff/ledstrip-go/internal/domain"
	"github.com/jwulff/ledstrip-go/internal/layout"
)

// Errors returned by outputs.
var (
	ErrUnsupportedEncoding = errors.New("driver: only MSB first, high to low bit encoding is supported over SPI")
	ErrUnsupportedTiming   = errors.New("driver: chip timing cannot be produced by the fixed SPI encoding")
	ErrClosed              = errors.New("driver: output closed")
)

// Option configures an SPI output.
type Option func(*SPI)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *SPI) { s.log = log }
}

// WithFormat overrides the chip's byte order.
func WithFormat(f domain.Format) Option {
	return func(s *SPI) { s.format = &f }
}

// WithBrightness sets the initial brightness.
func WithBrightness(b uint8) Option {
	return func(s *SPI) { s.brightness = b }
}

// SPI drives an NRZ LED chain from the MOSI line of an SPI port. The port
// runs at a fixed 2.5 MHz and each data bit is sent as four SPI bits, so
// every bit lasts 1.6µs whatever the chip. Only chips for which
// Timing.SPICompatible holds can be driven.
type SPI struct {
	*Encoder

	timing     Timing
	log        zerolog.Logger
	format     *domain.Format
	brightness uint8

	mu     sync.Mutex
	dev    *nrzled.Dev
	closer spi.PortCloser
	wire   []byte
	raw    []byte
	closed bool
}

// NewSPI creates an output on port for the given layout and chip timing.
func NewSPI(port spi.Port, l layout.Layout, t Timing, opts ...Option) (*SPI, error) {
	if !t.MSBFirst || !t.HighToLow {
		return nil, ErrUnsupportedEncoding
	}
	if !t.SPICompatible() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTiming, t.Name)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}

	s := &SPI{timing: t, log: zerolog.Nop(), brightness: 255}
	for _, opt := range opts {
		opt(s)
	}
	format := t.Format
	if s.format != nil {
		format = *s.format
	}
	s.Encoder = NewEncoder(l, format)
	s.SetBrightness(s.brightness)

	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: l.Size(),
		Channels:  3,
		Freq:      spiFreq,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open nrzled: %w", err)
	}
	s.dev = dev
	s.log.Info().
		Str("chip", t.Name).
		Str("format", format.String()).
		Str("layout", l.String()).
		Str("freq", spiFreq.String()).
		Msg("spi output ready")
	return s, nil
}

// OpenSPI initialises the host drivers and opens the named SPI port. An
// empty name selects the first available port.
func OpenSPI(name string, l layout.Layout, t Timing, opts ...Option) (*SPI, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise host: %w", err)
	}
	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open spi port %q: %w", name, err)
	}
	s, err := NewSPI(port, l, t, opts...)
	if err != nil {
		port.Close()
		return nil, err
	}
	s.closer = port
	return s, nil
}

// Timing returns the chip timing.
func (s *SPI) Timing() Timing { return s.timing }

// Show sends pixels in wire order and waits for the latch period.
func (s *SPI) Show(pixels domain.Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.wire = s.Encode(s.wire[:0], pixels)
	return s.write()
}

// Shutdown sends an all-black frame.
func (s *SPI) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.wire = s.Blank(s.wire[:0])
	return s.write()
}

// write must be called with s.mu held.
func (s *SPI) write() error {
	// nrzled emits each pixel as its second, first and third input byte,
	// so swap the first two to keep the configured order on the wire.
	s.raw = append(s.raw[:0], s.wire...)
	for i := 0; i+2 < len(s.raw); i += 3 {
		s.raw[i], s.raw[i+1] = s.raw[i+1], s.raw[i]
	}
	if _, err := s.dev.Write(s.raw); err != nil {
		s.log.Warn().Err(err).Msg("spi write failed")
		return fmt.Errorf("failed to write frame: %w", err)
	}
	time.Sleep(s.timing.Rest)
	return nil
}

// Close halts the device and releases the port if it was opened by OpenSPI.
func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.dev.Halt()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

var (
	_ Driver = (*SPI)(nil)
	_ Driver = (*Recorder)(nil)
)
