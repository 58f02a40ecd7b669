package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"TradeCoin/internal/domain/models"
	drepo "TradeCoin/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Stream implements a SignalFeed backed by the upstream's WebSocket
// broadcast endpoint, for deployments where the generator pushes signals
// instead of being polled.
type Stream struct {
	websocketURL   string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// NewStream creates a streaming SignalFeed.
func NewStream(websocketURL string, reconnectDelay, pingInterval time.Duration) drepo.SignalFeed {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Stream{
		websocketURL:   websocketURL,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (s *Stream) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("feed stream connect: %w", err)
	}
	s.conn = conn
	s.connected = true
	log.Printf("feed stream: connected")
	return nil
}

type wsFrame struct {
	Type string             `json:"type"`
	Data []models.RawSignal `json:"data"`
}

// Read streams raw signal records and errors for one connection. The
// channels close when the connection breaks; callers re-dial via Reconnect
// and call Read again for a fresh session.
func (s *Stream) Read(ctx context.Context) (<-chan *models.RawSignal, <-chan error) {
	signals := make(chan *models.RawSignal, 256)
	errs := make(chan error, 1)

	// ping loop ends with this session, not with ctx
	readCtx, stopPing := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-readCtx.Done():
				return
			case <-ticker.C:
				if s.conn != nil {
					_ = s.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer stopPing()
		defer close(signals)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if s.conn == nil {
					errs <- fmt.Errorf("feed stream conn nil")
					return
				}
				_, b, err := s.conn.ReadMessage()
				if err != nil {
					s.connected = false
					errs <- fmt.Errorf("feed stream read: %w", err)
					return
				}
				var frame wsFrame
				if err := json.Unmarshal(b, &frame); err != nil {
					// ignore frames that are not signal batches
					continue
				}
				if frame.Type != "signals" {
					continue
				}
				for i := range frame.Data {
					select {
					case <-ctx.Done():
						return
					case signals <- &frame.Data[i]:
					}
				}
			}
		}
	}()

	return signals, errs
}

// Reconnect closes and re-dials after the configured delay.
func (s *Stream) Reconnect(ctx context.Context) error {
	s.connected = false
	if s.conn != nil {
		_ = s.conn.Close()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.reconnectDelay):
	}
	return s.Connect(ctx)
}

func (s *Stream) Close() error {
	s.connected = false
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *Stream) IsConnected() bool { return s.connected }
