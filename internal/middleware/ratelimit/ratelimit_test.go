package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, perMinute int) (*Limiter, *time.Time) {
	t.Helper()
	rl := NewLimiter(Config{RequestsPerMinute: perMinute})
	t.Cleanup(rl.Stop)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestAllowWindow(t *testing.T) {
	rl, now := newTestLimiter(t, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("a") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("a") {
		t.Fatal("4th request should be limited")
	}
	if !rl.Allow("b") {
		t.Fatal("other clients are independent")
	}

	// Continued traffic must not keep the window open forever.
	*now = now.Add(30 * time.Second)
	if rl.Allow("a") {
		t.Fatal("still inside the window")
	}
	*now = now.Add(31 * time.Second)
	if !rl.Allow("a") {
		t.Fatal("new window should allow")
	}
}

func TestCleanupStaleEntries(t *testing.T) {
	rl, now := newTestLimiter(t, 3)
	rl.Allow("a")
	*now = now.Add(11 * time.Minute)
	rl.Allow("b")

	rl.cleanupStaleEntries()
	if got := rl.ActiveClients(); got != 1 {
		t.Errorf("ActiveClients() = %d, want 1", got)
	}
}

func TestMiddlewareOnlyLimitsMutations(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)
	limited := 0
	h := rl.Middleware(
		func(*http.Request) string { return "client" },
		func(w http.ResponseWriter, r *http.Request) {
			limited++
			w.WriteHeader(http.StatusTooManyRequests)
		},
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	do := func(method string) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, "/members", nil))
		return rec.Code
	}

	for i := 0; i < 5; i++ {
		if code := do(http.MethodGet); code != http.StatusOK {
			t.Fatalf("GET should never be limited, got %d", code)
		}
	}
	if code := do(http.MethodPost); code != http.StatusOK {
		t.Fatalf("first POST = %d", code)
	}
	if code := do(http.MethodPost); code != http.StatusTooManyRequests {
		t.Fatalf("second POST = %d, want 429", code)
	}
	if limited != 1 {
		t.Errorf("onLimit called %d times", limited)
	}
	rl.Stop()
}

func TestReserveReportsWait(t *testing.T) {
	rl, now := newTestLimiter(t, 1)

	if ok, wait := rl.Reserve("a"); !ok || wait != 0 {
		t.Fatalf("first reserve = %v, %v", ok, wait)
	}
	*now = now.Add(45 * time.Second)
	ok, wait := rl.Reserve("a")
	if ok {
		t.Fatal("second reserve should be refused")
	}
	if wait != 15*time.Second {
		t.Errorf("wait = %v, want 15s", wait)
	}

	h := rl.Middleware(func(*http.Request) string { return "a" }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/donations", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "15" {
		t.Errorf("Retry-After = %q, want 15", got)
	}
}
