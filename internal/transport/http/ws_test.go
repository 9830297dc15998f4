package http

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autosync/serving/internal/domain"
)

func dialSimulation(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/simulation"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSimulationStreamsInOrder(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialSimulation(t, ts)

	source := testSource().Readings()
	for i := 0; i < len(source); i++ {
		var reading domain.Reading
		require.NoError(t, conn.ReadJSON(&reading))
		assert.Equal(t, source[i].Timestamp, reading.Timestamp, "frame %d", i)
		assert.Equal(t, source[i].RPM, reading.RPM)
	}
}

func TestSimulationAnnotatesEscalationTick(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialSimulation(t, ts)

	var first, second, third domain.Reading
	require.NoError(t, conn.ReadJSON(&first))
	require.NoError(t, conn.ReadJSON(&second))
	require.NoError(t, conn.ReadJSON(&third))

	assert.Empty(t, first.Alert)
	require.NotNil(t, second.DTC)
	assert.Equal(t, "P0217", *second.DTC)
	assert.Contains(t, second.Alert, "Service Booked:")
	assert.Empty(t, third.Alert, "annotation is one tick only")
}

func TestSimulationWrapsDataset(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialSimulation(t, ts)

	source := testSource().Readings()
	total := len(source)*2 + 1
	var alerts int
	for i := 0; i < total; i++ {
		var reading domain.Reading
		require.NoError(t, conn.ReadJSON(&reading))
		assert.Equal(t, source[i%len(source)].Timestamp, reading.Timestamp, "frame %d", i)
		if reading.Alert != "" {
			alerts++
		}
	}
	assert.Equal(t, 1, alerts, "the wrap must not re-trigger escalation")
}

func TestSimulationIndependentSessions(t *testing.T) {
	_, ts := newTestServer(t)

	// The first session claims S1; the second still escalates and books
	// the next slot, proving the latch is per-session.
	first := dialSimulation(t, ts)
	var r domain.Reading
	require.NoError(t, first.ReadJSON(&r))
	require.NoError(t, first.ReadJSON(&r))
	assert.Contains(t, r.Alert, "Service Booked:")
	firstAlert := r.Alert
	first.Close()

	second := dialSimulation(t, ts)
	require.NoError(t, second.ReadJSON(&r))
	require.NoError(t, second.ReadJSON(&r))
	assert.Contains(t, r.Alert, "Service Booked:")
	assert.NotEqual(t, firstAlert, r.Alert, "second session books a different slot")
}
