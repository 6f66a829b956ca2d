package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	rl := &rateLimiter{
		requests: make(map[string]*clientWindow),
		limit:    3,
		window:   time.Minute,
	}

	for i := 0; i < 3; i++ {
		if _, ok := rl.allow("1.2.3.4"); !ok {
			t.Fatalf("request %d denied inside the limit", i+1)
		}
	}
	retryAfter, ok := rl.allow("1.2.3.4")
	if ok {
		t.Fatal("request over the limit allowed")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Errorf("retry_after = %v, want within (0, 1m]", retryAfter)
	}

	// A different client has its own window.
	if _, ok := rl.allow("5.6.7.8"); !ok {
		t.Error("second client denied")
	}

	// An expired window resets the count.
	rl.requests["1.2.3.4"].resetTime = time.Now().Add(-time.Second)
	if _, ok := rl.allow("1.2.3.4"); !ok {
		t.Error("request after window expiry denied")
	}
}
