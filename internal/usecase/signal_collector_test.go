package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"TradeCoin/internal/domain/models"
)

// lockedStorage is safe for the collector goroutine to write while the test
// polls it.
type lockedStorage struct {
	mu     sync.Mutex
	stored []*models.CanonicalSignal
}

func (l *lockedStorage) Init(ctx context.Context) error { return nil }
func (l *lockedStorage) Store(ctx context.Context, s *models.CanonicalSignal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stored = append(l.stored, s)
	return nil
}
func (l *lockedStorage) StoreBatch(ctx context.Context, s []*models.CanonicalSignal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stored = append(l.stored, s...)
	return nil
}
func (l *lockedStorage) QueryLatest(ctx context.Context, symbol string, since time.Time, limit int) ([]*models.CanonicalSignal, error) {
	return nil, nil
}
func (l *lockedStorage) Health(ctx context.Context) error { return nil }
func (l *lockedStorage) Close() error { return nil }

func (l *lockedStorage) symbols() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.stored))
	for i, s := range l.stored {
		out[i] = s.CoinSymbol
	}
	return out
}

// droppingFeed scripts a stream-style transport: the first Read session
// delivers one record, reports a broken connection, and closes both
// channels; after a Reconnect the next session delivers another record and
// then stays open.
type droppingFeed struct {
	mu         sync.Mutex
	reads      int
	reconnects int
}

func (f *droppingFeed) Connect(ctx context.Context) error { return nil }
func (f *droppingFeed) Reconnect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconnects++
	return nil
}
func (f *droppingFeed) Close() error { return nil }
func (f *droppingFeed) IsConnected() bool { return true }
func (f *droppingFeed) reconnectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reconnects
}

func (f *droppingFeed) Read(ctx context.Context) (<-chan *models.RawSignal, <-chan error) {
	f.mu.Lock()
	f.reads++
	n := f.reads
	f.mu.Unlock()

	signals := make(chan *models.RawSignal, 1)
	errs := make(chan error, 1)
	switch n {
	case 1:
		r := validRaw()
		r.Symbol = "AAA"
		signals <- r
		errs <- errors.New("connection reset")
		close(signals)
		close(errs)
	case 2:
		r := validRaw()
		r.Symbol = "BBB"
		signals <- r
		close(signals)
		close(errs)
	default:
		// stay open and idle
	}
	return signals, errs
}

func TestCollectorResumesAfterFeedDrop(t *testing.T) {
	store := &lockedStorage{}
	proc := NewSignalProcessor(&fakePublisher{}, store, newFakeMetrics(), "clickhouse")
	ing := NewRawIngestor(proc, newFakeMetrics(), nil)
	feed := &droppingFeed{}
	c := NewSignalCollector(feed, ing, newFakeMetrics(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if got := store.symbols(); len(got) >= 2 {
			if got[0] != "AAA" || got[1] != "BBB" {
				t.Fatalf("unexpected ingest order %v", got)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("no record ingested after reconnect; stored=%v reconnects=%d",
				store.symbols(), feed.reconnectCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
	if feed.reconnectCount() < 1 {
		t.Fatalf("feed was never re-dialed")
	}
}
