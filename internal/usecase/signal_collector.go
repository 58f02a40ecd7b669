package usecase

import (
	"context"
	"sync/atomic"

	"TradeCoin/internal/domain/models"
	drepo "TradeCoin/internal/domain/repository"
	mid "TradeCoin/internal/middleware"
)

// SignalCollector reads raw records off the upstream feed and pushes them
// through the ingest pipeline into normalization and the backend.
type SignalCollector struct {
	feed    drepo.SignalFeed
	ing     *RawIngestor
	metrics drepo.Metrics
	pipe    *mid.IngestPipeline
	closed  atomic.Bool
}

// NewSignalCollector creates a new SignalCollector instance.
func NewSignalCollector(feed drepo.SignalFeed, ing *RawIngestor, metrics drepo.Metrics, pipe *mid.IngestPipeline) *SignalCollector {
	return &SignalCollector{feed: feed, ing: ing, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the upstream feed is connected.
func (c *SignalCollector) IsConnected() bool {
	return c.feed.IsConnected()
}

func (c *SignalCollector) Start(ctx context.Context) error {
	if err := c.feed.Connect(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	go c.run(ctx)
	return nil
}

// run drains one Read session at a time. A session ends when the feed closes
// its channels (stream transports do this on a broken connection); the
// collector then re-dials and opens a fresh channel pair, so ingestion
// resumes after a drop instead of selecting on dead channels.
func (c *SignalCollector) run(ctx context.Context) {
	for {
		rawCh, errCh := c.feed.Read(ctx)
		c.consume(ctx, rawCh, errCh)
		for {
			if ctx.Err() != nil || c.closed.Load() {
				return
			}
			c.metrics.RecordError("feed")
			// Reconnect paces itself with the feed's configured delay
			if err := c.feed.Reconnect(ctx); err == nil {
				break
			}
		}
	}
}

func (c *SignalCollector) consume(ctx context.Context, rawCh <-chan *models.RawSignal, errCh <-chan error) {
	for rawCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				c.metrics.RecordError("feed")
			}
		case raw, ok := <-rawCh:
			if !ok {
				rawCh = nil
				continue
			}
			if raw == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, raw)
			} else {
				_ = c.ing.Process(ctx, raw)
			}
		}
	}
}

// Ingestor returns the underlying RawIngestor for lifecycle management.
func (c *SignalCollector) Ingestor() *RawIngestor { return c.ing }

// Shutdown stops the pipeline and closes the feed.
func (c *SignalCollector) Shutdown(ctx context.Context) error {
	c.closed.Store(true)
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.feed.Close()
}
