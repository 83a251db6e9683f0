package service_test

import (
	"testing"

	"github.com/msomdec/game-list/internal/service"
)

func TestTokenBucket_AllowsUpToCapacity(t *testing.T) {
	tb := service.NewTokenBucket(1, 3) // rate=1/s, capacity=3

	for i := 0; i < 3; i++ {
		if ok, _ := tb.Allow("test-key"); !ok {
			t.Fatalf("request %d should be allowed (bucket not yet empty)", i+1)
		}
	}

	ok, wait := tb.Allow("test-key")
	if ok {
		t.Fatal("4th request should be denied (bucket empty)")
	}
	if wait <= 0 {
		t.Fatalf("expected a positive retry delay, got %v", wait)
	}
}

func TestTokenBucket_DifferentKeysAreIndependent(t *testing.T) {
	tb := service.NewTokenBucket(1, 1)

	if ok, _ := tb.Allow("ip-a"); !ok {
		t.Fatal("ip-a first request should be allowed")
	}
	if ok, _ := tb.Allow("ip-a"); ok {
		t.Fatal("ip-a second request should be denied")
	}
	if ok, _ := tb.Allow("ip-b"); !ok {
		t.Fatal("ip-b first request should be allowed (independent bucket)")
	}
}

func TestTokenBucket_ZeroRateNeverRefills(t *testing.T) {
	tb := service.NewTokenBucket(0, 2)

	for i := 0; i < 2; i++ {
		if ok, _ := tb.Allow("k"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if ok, _ := tb.Allow("k"); ok {
		t.Fatal("third request should be denied (no refill)")
	}
}
