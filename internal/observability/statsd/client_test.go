package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newUDPListener returns a local UDP listener and a channel of received
// datagrams.
func newUDPListener(t *testing.T) (string, <-chan string) {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	lines := make(chan string, 16)
	go func() {
		buf := make([]byte, 1024)
		for {
			n, _, readErr := conn.ReadFrom(buf)
			if readErr != nil {
				return
			}
			lines <- string(buf[:n])
		}
	}()
	return conn.LocalAddr().String(), lines
}

func receiveLine(t *testing.T, lines <-chan string) string {
	t.Helper()
	select {
	case line := <-lines:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("no statsd datagram received")
		return ""
	}
}

func TestClient_Count(t *testing.T) {
	addr, lines := newUDPListener(t)
	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: "vive_avila"})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Count("portal.admission", 1, nil)
	assert.Equal(t, "vive_avila.portal.admission:1|c", receiveLine(t, lines))
}

func TestClient_CountWithTags(t *testing.T) {
	addr, lines := newUDPListener(t)
	client, err := NewClient(Config{
		Enabled:    true,
		Address:    addr,
		GlobalTags: map[string]string{"env": "test"},
	})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Count("portal.rejection", 1, map[string]string{"reason": "domain"})
	assert.Equal(t, "portal.rejection:1|c|#env:test,reason:domain", receiveLine(t, lines))
}

func TestClient_Timing(t *testing.T) {
	addr, lines := newUDPListener(t)
	client, err := NewClient(Config{Enabled: true, Address: addr})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Timing("http.request", 250*time.Millisecond, nil)
	assert.Equal(t, "http.request:250|ms", receiveLine(t, lines))
}

func TestClient_DisabledIsNoOp(t *testing.T) {
	client, err := NewClient(Config{Enabled: false, Address: "localhost:8125"})
	require.NoError(t, err)
	assert.False(t, client.Enabled())

	// must not panic or block
	client.Count("anything", 1, nil)
	require.NoError(t, client.Close())
}

func TestClient_NilIsSafe(t *testing.T) {
	var client *Client
	client.Count("anything", 1, nil)
	client.Timing("anything", time.Second, nil)
	assert.False(t, client.Enabled())
	require.NoError(t, client.Close())
}

func TestClient_MetricNameSanitized(t *testing.T) {
	addr, lines := newUDPListener(t)
	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: ".vive_avila."})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Count("view /home", 1, nil)
	assert.Equal(t, "vive_avila.view__home:1|c", receiveLine(t, lines))
}
