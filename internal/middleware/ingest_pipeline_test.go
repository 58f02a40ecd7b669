package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"TradeCoin/internal/domain/models"
)

type recordingProc struct {
	seen []*models.RawSignal
	err  error
}

func (r *recordingProc) Process(ctx context.Context, raw *models.RawSignal) error {
	if r.err != nil {
		return r.err
	}
	r.seen = append(r.seen, raw)
	return nil
}

type noopMetrics struct {
	drops map[string]int
	errs  map[string]int
}

func newNoopMetrics() *noopMetrics {
	return &noopMetrics{drops: map[string]int{}, errs: map[string]int{}}
}
func (n *noopMetrics) RecordSignal(backend, symbol string)           {}
func (n *noopMetrics) RecordDrop(reason string)                      { n.drops[reason]++ }
func (n *noopMetrics) RecordError(kind string)                       { n.errs[kind]++ }
func (n *noopMetrics) RecordConfidence(symbol string, score float64) {}
func (n *noopMetrics) RecordServed(tier string, n2 int)              {}
func (n *noopMetrics) RecordLatency(op string, seconds float64)      {}

func raw(symbol string) *models.RawSignal {
	return &models.RawSignal{
		Symbol:                 symbol,
		Signal:                 "BUY",
		Reason:                 "test",
		LeverageRecommendation: 2,
		Timestamp:              time.Now(),
	}
}

func TestPipelineForwardsValidRecords(t *testing.T) {
	proc := &recordingProc{}
	p := NewIngestPipeline(proc, newNoopMetrics())

	if err := p.Process(context.Background(), raw("BTC")); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(proc.seen) != 1 {
		t.Fatalf("expected forward, got %d", len(proc.seen))
	}
}

func TestPipelineRejectsStructurallyInvalid(t *testing.T) {
	proc := &recordingProc{}
	m := newNoopMetrics()
	p := NewIngestPipeline(proc, m)

	bad := raw("BTC")
	bad.Reason = ""
	if err := p.Process(context.Background(), bad); err == nil {
		t.Fatalf("empty reason should be rejected")
	}
	if m.drops["pipeline_validate"] != 1 {
		t.Fatalf("drop not recorded: %v", m.drops)
	}
	if len(proc.seen) != 0 {
		t.Fatalf("invalid record must not reach downstream")
	}
}

func TestPipelineThrottlesPerSymbol(t *testing.T) {
	proc := &recordingProc{}
	m := newNoopMetrics()
	p := NewIngestPipeline(proc, m, WithMaxRPS(1))

	if err := p.Process(context.Background(), raw("BTC")); err != nil {
		t.Fatalf("first record: %v", err)
	}
	// immediate second record for the same symbol is over budget
	if err := p.Process(context.Background(), raw("BTC")); err != nil {
		t.Fatalf("throttled record is dropped silently: %v", err)
	}
	if len(proc.seen) != 1 {
		t.Fatalf("expected 1 forwarded, got %d", len(proc.seen))
	}
	if m.drops["pipeline_throttle"] != 1 {
		t.Fatalf("throttle drop not recorded: %v", m.drops)
	}
	// a different symbol has its own budget
	if err := p.Process(context.Background(), raw("ETH")); err != nil {
		t.Fatalf("other symbol: %v", err)
	}
	if len(proc.seen) != 2 {
		t.Fatalf("expected 2 forwarded, got %d", len(proc.seen))
	}
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	proc := &recordingProc{err: errors.New("backend down")}
	m := newNoopMetrics()
	p := NewIngestPipeline(proc, m, WithBufferSize(4))

	if err := p.Process(context.Background(), raw("BTC")); err == nil {
		t.Fatalf("downstream error should surface")
	}
	if m.errs["pipeline_process"] != 1 {
		t.Fatalf("process error not recorded: %v", m.errs)
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("record should be buffered for retry, buffered=%d", len(p.bufCh))
	}
}
