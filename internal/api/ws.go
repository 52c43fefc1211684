package api

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mcavalcanti/radar/internal/analyzer"
	"github.com/mcavalcanti/radar/internal/api/handlers"
	"github.com/mcavalcanti/radar/internal/scanner"
	"github.com/mcavalcanti/radar/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ScanSocket streams scan progress over a websocket. The client sends one
// scan request and receives progress frames followed by a final result frame.
type ScanSocket struct {
	analyzer *analyzer.Analyzer
	opts     []scanner.Option
	logger   *logger.Logger
}

// NewScanSocket creates a websocket scan endpoint. opts configure the
// per-connection scanner (concurrency, period, fetch timeout).
func NewScanSocket(a *analyzer.Analyzer, log *logger.Logger, opts ...scanner.Option) *ScanSocket {
	return &ScanSocket{
		analyzer: a,
		opts:     opts,
		logger:   log,
	}
}

// progressFrame is one streamed progress update
type progressFrame struct {
	Type      string `json:"type"` // "progress", "result", "error"
	Completed int    `json:"completed,omitempty"`
	Total     int    `json:"total,omitempty"`
	Payload   any    `json:"payload,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Serve upgrades the connection and runs one streamed scan
// GET /api/scan/ws
func (s *ScanSocket) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	var req handlers.ScanRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.logger.WithError(err).Debug("Invalid websocket scan request")
		return
	}

	symbols := req.ResolveSymbols()
	if len(symbols) == 0 {
		conn.WriteJSON(progressFrame{Type: "error", Error: "No symbols to scan"})
		return
	}

	// a single writer goroutine serializes all frames on the connection
	frames := make(chan progressFrame, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for frame := range frames {
			if err := conn.WriteJSON(frame); err != nil {
				s.logger.WithError(err).Debug("Websocket write failed")
				return
			}
		}
	}()

	opts := append([]scanner.Option{}, s.opts...)
	opts = append(opts, scanner.WithProgress(func(completed, total int) {
		select {
		case frames <- progressFrame{Type: "progress", Completed: completed, Total: total}:
		default:
			// a slow client drops progress frames, never the result
		}
	}))

	scan := scanner.New(s.analyzer, s.logger, opts...)

	summary, err := scan.Scan(r.Context(), symbols, req.Filters)

	final := progressFrame{Type: "result", Payload: summary}
	if err != nil {
		final = progressFrame{Type: "error", Error: err.Error()}
	}

	// the writer exits on a dead connection; never block on a closed peer
	select {
	case frames <- final:
	case <-done:
	}

	close(frames)
	<-done
}
