package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcavalcanti/radar/internal/analyzer"
	"github.com/mcavalcanti/radar/internal/api/handlers"
	"github.com/mcavalcanti/radar/internal/contracts"
	"github.com/mcavalcanti/radar/internal/scanner"
	"github.com/mcavalcanti/radar/internal/scoring"
	"github.com/mcavalcanti/radar/pkg/logger"
)

type stubProvider struct{}

func (stubProvider) FetchSeries(_ context.Context, symbol, _ string) (*contracts.PriceSeries, error) {
	candles := make([]contracts.Candle, 260)
	price := 50.0
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		price *= 1.0005
		candles[i] = contracts.Candle{
			Timestamp: base.AddDate(0, 0, i),
			Open:      price, High: price, Low: price, Close: price,
			Volume: 100,
		}
	}
	return &contracts.PriceSeries{Symbol: symbol, Candles: candles}, nil
}

func (stubProvider) FetchAttributes(_ context.Context, _ string) (*contracts.RawAttributes, error) {
	return &contracts.RawAttributes{}, nil
}

// slowProvider delays each fetch so a scan outlives a short-lived client
type slowProvider struct {
	stubProvider
	delay time.Duration
}

func (p slowProvider) FetchSeries(ctx context.Context, symbol, period string) (*contracts.PriceSeries, error) {
	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return p.stubProvider.FetchSeries(ctx, symbol, period)
}

func dialScanSocket(t *testing.T, socket *ScanSocket) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(socket.Serve))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestScanSocket_StreamsProgressThenResult(t *testing.T) {
	a := analyzer.New(stubProvider{}, scoring.Default(), logger.NewNop())
	socket := NewScanSocket(a, logger.NewNop(), scanner.WithConcurrency(2))

	conn, cleanup := dialScanSocket(t, socket)
	defer cleanup()

	req := handlers.ScanRequest{Symbols: []string{"AAPL", "MSFT", "GOOGL"}}
	require.NoError(t, conn.WriteJSON(req))

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	var sawProgress bool
	for {
		var frame progressFrame
		require.NoError(t, conn.ReadJSON(&frame))

		switch frame.Type {
		case "progress":
			sawProgress = true
			assert.Equal(t, 3, frame.Total)
			assert.LessOrEqual(t, frame.Completed, frame.Total)
		case "result":
			assert.True(t, sawProgress, "expected progress frames before the result")
			assert.NotNil(t, frame.Payload)
			return
		case "error":
			t.Fatalf("unexpected error frame: %s", frame.Error)
		}
	}
}

func TestScanSocket_ClientDisconnectDoesNotLeakHandler(t *testing.T) {
	a := analyzer.New(slowProvider{delay: 5 * time.Millisecond}, scoring.Default(), logger.NewNop())
	socket := NewScanSocket(a, logger.NewNop(), scanner.WithConcurrency(4))

	served := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		socket.Serve(w, r)
		close(served)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	// enough symbols to overflow the frame buffer after the writer dies
	symbols := make([]string, 80)
	for i := range symbols {
		symbols[i] = fmt.Sprintf("SYM%d", i)
	}
	require.NoError(t, conn.WriteJSON(handlers.ScanRequest{Symbols: symbols}))
	conn.Close()

	select {
	case <-served:
	case <-time.After(10 * time.Second):
		t.Fatal("handler did not return after client disconnect")
	}
}

func TestScanSocket_EmptyRequestGetsErrorFrame(t *testing.T) {
	a := analyzer.New(stubProvider{}, scoring.Default(), logger.NewNop())
	socket := NewScanSocket(a, logger.NewNop())

	conn, cleanup := dialScanSocket(t, socket)
	defer cleanup()

	require.NoError(t, conn.WriteJSON(handlers.ScanRequest{}))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var frame progressFrame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "error", frame.Type)
	assert.NotEmpty(t, frame.Error)
}
