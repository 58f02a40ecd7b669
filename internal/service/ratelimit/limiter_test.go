package ratelimit

import (
	"errors"
	"testing"

	"TradeCoin/internal/domain/models"
	"TradeCoin/internal/services/entitlement"
)

func TestAllowConsumesCapacity(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 0) {
			t.Fatalf("request %d should pass within capacity", i)
		}
	}
	if l.Allow("k", 3, 0) {
		t.Fatalf("request over capacity should be rejected")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("first request for a should pass")
	}
	if l.Allow("a", 1, 0) {
		t.Fatalf("a is exhausted")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("b has its own bucket")
	}
}

func TestAllowTierUnlimitedNeverThrottles(t *testing.T) {
	l := New()
	for i := 0; i < 50; i++ {
		ok, err := l.AllowTier("ent", models.TierEnterprise)
		if err != nil {
			t.Fatalf("AllowTier: %v", err)
		}
		if !ok {
			t.Fatalf("enterprise call %d throttled", i)
		}
	}
}

func TestAllowTierUnknownTierErrors(t *testing.T) {
	l := New()
	ok, err := l.AllowTier("u", models.Tier("vip"))
	if err == nil {
		t.Fatalf("unknown tier must surface an error, not a default allowance")
	}
	var ute *entitlement.UnknownTierError
	if !errors.As(err, &ute) {
		t.Fatalf("expected UnknownTierError, got %v", err)
	}
	if ok {
		t.Fatalf("unknown tier must not be allowed through")
	}
}
