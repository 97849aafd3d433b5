package pixoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jwulff/ledstrip-go/internal/domain"
)

// DefaultPort is the default Pixoo HTTP API port.
const DefaultPort = 80

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 5 * time.Second

// DeviceError is returned when the panel answers a command with a non-zero
// error_code.
type DeviceError struct {
	Command string
	Code    int
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("pixoo: %s failed with error_code %d", e.Command, e.Code)
}

// response is the envelope of every reply.
type response struct {
	ErrorCode int `json:"error_code"`
}

// Client is an HTTP client for a single Pixoo device.
type Client struct {
	IP         string
	Port       int
	HTTPClient *http.Client
	testURL    string // For testing with httptest
}

// NewClient creates a client for the device at ip on the default port.
func NewClient(ip string) *Client {
	return NewClientWithPort(ip, DefaultPort)
}

// NewClientWithPort creates a client for the device at ip:port.
func NewClientWithPort(ip string, port int) *Client {
	return &Client{
		IP:         ip,
		Port:       port,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Endpoint returns the full API endpoint URL.
func (c *Client) Endpoint() string {
	if c.testURL != "" {
		return c.testURL
	}
	return fmt.Sprintf("http://%s:%d/post", c.IP, c.Port)
}

// sendCommand posts command and returns the raw reply. name is used in
// errors only.
func (c *Client) sendCommand(ctx context.Context, name string, command any) ([]byte, error) {
	data, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	// Replies that are not JSON carry no error code.
	var r response
	if json.Unmarshal(body, &r) == nil && r.ErrorCode != 0 {
		return body, &DeviceError{Command: name, Code: r.ErrorCode}
	}
	return body, nil
}

// SendFrame sends a square matrix to the Pixoo device.
func (c *Client) SendFrame(ctx context.Context, m *domain.Matrix) error {
	return c.SendFrameWithOptions(ctx, m, nil)
}

// SendFrameWithOptions sends a frame with custom options.
func (c *Client) SendFrameWithOptions(ctx context.Context, m *domain.Matrix, opts *FrameCommandOptions) error {
	if m.Rows() != m.Columns() {
		return fmt.Errorf("pixoo frames must be square, got %dx%d", m.Rows(), m.Columns())
	}
	cmd := CreatePixooFrameCommand(m, opts)
	_, err := c.sendCommand(ctx, cmd.Command, cmd)
	return err
}

// GetDeviceTime queries the device time.
func (c *Client) GetDeviceTime(ctx context.Context) ([]byte, error) {
	cmd := CreateDeviceTimeCommand()
	return c.sendCommand(ctx, cmd.Command, cmd)
}

// SetBrightness sets the display brightness (0-100).
func (c *Client) SetBrightness(ctx context.Context, brightness int) error {
	cmd := CreateBrightnessCommand(brightness)
	_, err := c.sendCommand(ctx, cmd.Command, cmd)
	return err
}

// IsReachable checks if the device is reachable.
func (c *Client) IsReachable(ctx context.Context) bool {
	_, err := c.GetDeviceTime(ctx)
	return err == nil
}
