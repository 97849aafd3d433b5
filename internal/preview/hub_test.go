package preview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/ledstrip-go/internal/domain"
	"github.com/jwulff/ledstrip-go/internal/driver"
	"github.com/jwulff/ledstrip-go/internal/layout"
)

func newTestHub(t *testing.T, l layout.Layout) (*Hub, *httptest.Server) {
	hub := NewHub(l, zerolog.Nop())
	server := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		_ = hub.Close()
		server.Close()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/frames"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	require.Eventually(t, func() bool { return hub.Clients() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHubBroadcastsFrames(t *testing.T) {
	hub, server := newTestHub(t, layout.Layout{Rows: 1, Columns: 3})
	conn := dial(t, server)
	waitForClients(t, hub, 1)

	require.NoError(t, hub.Show(domain.Buffer{domain.FromPacked(0xff0000), domain.FromPacked(0x00ff00)}))

	f := readFrame(t, conn)
	assert.Equal(t, uint64(1), f.Seq)
	assert.Equal(t, 1, f.Rows)
	assert.Equal(t, 3, f.Columns)
	assert.Equal(t, []string{"#ff0000", "#00ff00", "#000000"}, f.Pixels)
}

func TestHubSendsLastFrameOnConnect(t *testing.T) {
	hub, server := newTestHub(t, layout.Strip(2, false))
	hub.SetBrightness(127)
	require.NoError(t, hub.Show(domain.Buffer{domain.White, domain.White}))

	conn := dial(t, server)
	f := readFrame(t, conn)
	assert.Equal(t, []string{"#7f7f7f", "#7f7f7f"}, f.Pixels)

	require.NoError(t, hub.Shutdown())
	f = readFrame(t, conn)
	assert.Equal(t, uint64(2), f.Seq)
	assert.Equal(t, []string{"#000000", "#000000"}, f.Pixels)
}

func TestHubHealth(t *testing.T) {
	hub, server := newTestHub(t, layout.Strip(4, false))
	require.NoError(t, hub.Show(nil))

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(1), body["frames"])
	assert.Equal(t, float64(0), body["clients"])
	assert.Equal(t, "1x4 top_left rows linear", body["layout"])
}

func TestHubClose(t *testing.T) {
	hub, server := newTestHub(t, layout.Strip(1, false))
	dial(t, server)
	waitForClients(t, hub, 1)

	require.NoError(t, hub.Close())
	assert.Equal(t, 0, hub.Clients())
	assert.ErrorIs(t, hub.Show(nil), driver.ErrClosed)
}
