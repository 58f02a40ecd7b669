package feed

import (
	"context"
	"fmt"
	"time"

	"TradeCoin/internal/domain/models"
	drepo "TradeCoin/internal/domain/repository"
	xhttp "TradeCoin/pkg/http"
)

// signalsEnvelope is the upstream response shape for GET /api/signals.
type signalsEnvelope struct {
	Success bool               `json:"success"`
	Data    []models.RawSignal `json:"data"`
}

// Poller implements a SignalFeed over the upstream's request/poll endpoint.
// It owns the poll cadence; downstream consumers only see the Read channel.
type Poller struct {
	baseURL  string
	interval time.Duration
	client   *xhttp.Client

	connected bool
	cancel    context.CancelFunc
}

// NewPoller creates a polling SignalFeed.
func NewPoller(baseURL string, interval, timeout time.Duration) drepo.SignalFeed {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{
		baseURL:  baseURL,
		interval: interval,
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// Connect verifies the upstream is reachable.
func (p *Poller) Connect(ctx context.Context) error {
	var health struct {
		Status string `json:"status"`
	}
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.baseURL + "/api/health",
	}, &health)
	if err != nil {
		return fmt.Errorf("feed connect: %w", err)
	}
	p.connected = true
	return nil
}

// Read polls the upstream on the configured interval and streams each record.
// One poll failure is reported and polling continues; closing ctx stops it.
func (p *Poller) Read(ctx context.Context) (<-chan *models.RawSignal, <-chan error) {
	signals := make(chan *models.RawSignal, 256)
	errs := make(chan error, 1)

	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	go func() {
		defer close(signals)
		defer close(errs)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		// first poll immediately rather than waiting a full interval
		p.pollOnce(pollCtx, signals, errs)
		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
				p.pollOnce(pollCtx, signals, errs)
			}
		}
	}()

	return signals, errs
}

func (p *Poller) pollOnce(ctx context.Context, signals chan<- *models.RawSignal, errs chan<- error) {
	var env signalsEnvelope
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.baseURL + "/api/signals",
	}, &env)
	if err != nil {
		select {
		case errs <- fmt.Errorf("feed poll: %w", err):
		default:
		}
		return
	}
	if !env.Success {
		select {
		case errs <- fmt.Errorf("feed poll: upstream reported failure"):
		default:
		}
		return
	}
	for i := range env.Data {
		select {
		case <-ctx.Done():
			return
		case signals <- &env.Data[i]:
		}
	}
}

// Reconnect re-verifies the upstream. Poll loops survive individual failures,
// so this is just a health re-check.
func (p *Poller) Reconnect(ctx context.Context) error {
	return p.Connect(ctx)
}

func (p *Poller) Close() error {
	if p.cancel != nil {
		p.cancel()
	}
	p.connected = false
	return nil
}

func (p *Poller) IsConnected() bool { return p.connected }
