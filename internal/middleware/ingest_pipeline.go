package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TradeCoin/internal/domain/models"
	domrepo "TradeCoin/internal/domain/repository"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, raw *models.RawSignal) error
}

// IngestPipeline sits between the signal feed and the normalizer. It does
// structural validation, per-symbol throttling, and buffers records when the
// downstream backend is unavailable. Contract validation proper (enum
// vocabularies, finite numbers) stays in the normalizer.
type IngestPipeline struct {
	proc     Proc
	metrics  domrepo.Metrics
	maxRPS   int
	bufSize  int
	bufCh    chan *models.RawSignal
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	lastSeen map[string]time.Time // per-symbol last accepted time
}

type PipelineOption func(*IngestPipeline)

// WithMaxRPS sets the max accepted records per second per symbol.
func WithMaxRPS(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewIngestPipeline creates a new pipeline.
func NewIngestPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *IngestPipeline {
	p := &IngestPipeline{
		proc:     proc,
		metrics:  metrics,
		maxRPS:   20,
		bufSize:  1000,
		bufCh:    make(chan *models.RawSignal, 1000),
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.RawSignal, p.bufSize)
	}
	return p
}

// Start launches background flushing of buffered records.
func (p *IngestPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case raw := <-p.bufCh:
				if raw == nil {
					continue
				}
				if err := p.proc.Process(ctx, raw); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- raw:
					default:
						p.metrics.RecordDrop("pipeline_buffer")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *IngestPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards a record downstream, buffering
// on downstream errors.
func (p *IngestPipeline) Process(ctx context.Context, raw *models.RawSignal) error {
	start := time.Now()
	if err := validateRaw(raw); err != nil {
		p.metrics.RecordDrop("pipeline_validate")
		return err
	}
	if !p.allow(raw.Symbol, start) {
		// throttled; record and drop silently
		p.metrics.RecordDrop("pipeline_throttle")
		return nil
	}

	if err := p.proc.Process(ctx, raw); err != nil {
		p.metrics.RecordError("pipeline_process")
		// buffer non-blocking
		select {
		case p.bufCh <- raw:
		default:
			p.metrics.RecordDrop("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateRaw(raw *models.RawSignal) error {
	if raw == nil {
		return fmt.Errorf("signal nil")
	}
	if raw.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if raw.Timestamp.IsZero() {
		return fmt.Errorf("timestamp missing")
	}
	if raw.Reason == "" {
		return fmt.Errorf("reason empty")
	}
	if raw.LeverageRecommendation <= 0 {
		return fmt.Errorf("leverage not positive")
	}
	return nil
}

func (p *IngestPipeline) allow(symbol string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	last := p.lastSeen[symbol]
	if last.IsZero() {
		p.lastSeen[symbol] = now
		return true
	}
	if now.Sub(last) < time.Second/time.Duration(p.maxRPS) {
		return false
	}
	p.lastSeen[symbol] = now
	return true
}
