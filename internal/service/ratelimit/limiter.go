package ratelimit

import (
	"sync"
	"time"

	"TradeCoin/internal/domain/models"
	"TradeCoin/internal/services/entitlement"
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

type Limiter struct {
	mu sync.Mutex
	m  map[string]*bucket
}

func New() *Limiter { return &Limiter{m: make(map[string]*bucket)} }

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()
	l.mu.Lock()
	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}
	// refill
	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens -= 1
		l.mu.Unlock()
		return true
	}
	l.mu.Unlock()
	return false
}

// AllowTier sizes the bucket from the tier's hourly API allowance.
// Tiers with an unlimited allowance are never throttled. An unknown tier
// is an error; callers must not be throttled as if they were free.
func (l *Limiter) AllowTier(key string, tier models.Tier) (bool, error) {
	limits, err := entitlement.Limits(tier)
	if err != nil {
		return false, err
	}
	if limits.APICallsPerHour == models.Unlimited {
		return true, nil
	}
	cap := float64(limits.APICallsPerHour)
	return l.Allow(key, cap, cap/3600), nil
}
