package pixoo

import (
	"context"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The whole of 127.0.0.0/24 is loopback, but only 127.0.0.1 hosts the test
// server, so every other address refuses the connection at once.
func scanLoopback(t *testing.T, ctx context.Context, reply string) ([]DiscoveredDevice, []int, error) {
	server := replyServer(t, reply, func(body map[string]any) {
		assert.Equal(t, "Channel/GetIndex", body["Command"])
	})
	port := server.Listener.Addr().(*net.TCPAddr).Port

	var (
		mu       sync.Mutex
		progress []int
	)
	devices, err := scanSubnet(ctx, "127.0.0", port, func(current, total int) {
		assert.Equal(t, subnetHosts, total)
		mu.Lock()
		progress = append(progress, current)
		mu.Unlock()
	})
	return devices, progress, err
}

func TestScanSubnet(t *testing.T) {
	devices, progress, err := scanLoopback(t, context.Background(), `{"error_code":0}`)
	require.NoError(t, err)
	assert.Equal(t, []DiscoveredDevice{{Name: "Pixoo", IP: "127.0.0.1"}}, devices)
	assert.Len(t, progress, subnetHosts)
	assert.Contains(t, progress, subnetHosts)
}

func TestScanSubnetIgnoresDeviceErrors(t *testing.T) {
	devices, progress, err := scanLoopback(t, context.Background(), `{"error_code":1}`)
	require.NoError(t, err)
	assert.Empty(t, devices)
	assert.Len(t, progress, subnetHosts)
}

func TestScanSubnetCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	devices, progress, err := scanLoopback(t, ctx, `{"error_code":0}`)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, devices)
	assert.Empty(t, progress)
}
