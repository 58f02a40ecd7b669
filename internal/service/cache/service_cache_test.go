package cache

import (
	"bytes"
	"testing"
	"time"

	pkgcache "TradeCoin/pkg/cache"
)

func TestServiceCacheRoundTrip(t *testing.T) {
	mem := pkgcache.NewMemoryCache()
	defer mem.Close()
	c := NewServiceCache(mem)

	payload := []byte(`{"signals":[{"symbol":"BTC"}]}`)
	if err := c.SetBytes("signals:free:BTC:3", payload, time.Minute); err != nil {
		t.Fatalf("SetBytes: %v", err)
	}
	got, ok, err := c.GetBytes("signals:free:BTC:3")
	if err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	if !ok {
		t.Fatalf("expected a hit")
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: %s", got)
	}
}

func TestServiceCacheMissIsNotAnError(t *testing.T) {
	mem := pkgcache.NewMemoryCache()
	defer mem.Close()
	c := NewServiceCache(mem)

	_, ok, err := c.GetBytes("absent")
	if err != nil {
		t.Fatalf("miss must not surface an error: %v", err)
	}
	if ok {
		t.Fatalf("absent key reported as a hit")
	}
}
