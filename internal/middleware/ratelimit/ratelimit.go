// Package ratelimit throttles state-changing requests per client with a
// fixed one-minute window.
package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	window     = time.Minute
	staleAfter = 10 * time.Minute
)

type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration // how often idle clients are forgotten
}

func DefaultConfig() Config {
	return Config{RequestsPerMinute: 60, CleanupInterval: 5 * time.Minute}
}

// counter is one client's current window.
type counter struct {
	opened time.Time
	count  int
}

// Limiter counts requests per client key. Create it with NewLimiter and
// release its sweeper with Stop.
type Limiter struct {
	limit int
	now   func() time.Time

	mu       sync.Mutex
	counters map[string]*counter

	done     chan struct{}
	stopOnce sync.Once
}

func NewLimiter(cfg Config) *Limiter {
	def := DefaultConfig()
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = def.RequestsPerMinute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}
	l := &Limiter{
		limit:    cfg.RequestsPerMinute,
		now:      time.Now,
		counters: make(map[string]*counter),
		done:     make(chan struct{}),
	}
	go l.sweep(cfg.CleanupInterval)
	return l
}

// Allow reports whether another request from key fits in the current window.
func (l *Limiter) Allow(key string) bool {
	ok, _ := l.Reserve(key)
	return ok
}

// Reserve counts a request from key. A refused request also reports how
// long until the window reopens.
func (l *Limiter) Reserve(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c := l.counters[key]
	if c == nil || now.Sub(c.opened) >= window {
		l.counters[key] = &counter{opened: now, count: 1}
		return true, 0
	}
	c.count++
	if c.count > l.limit {
		return false, c.opened.Add(window).Sub(now)
	}
	return true, 0
}

func (l *Limiter) sweep(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-t.C:
			l.cleanupStaleEntries()
		}
	}
}

func (l *Limiter) cleanupStaleEntries() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-staleAfter)
	for key, c := range l.counters {
		if c.opened.Before(cutoff) {
			delete(l.counters, key)
		}
	}
}

// ActiveClients is the number of clients currently tracked.
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.counters)
}

// Stop ends the sweeper. Further calls are no-ops.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func readOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

// Middleware throttles every method but GET, HEAD and OPTIONS. A refused
// request gets a Retry-After header, then onLimit (or a plain 429) writes
// the body.
func (l *Limiter) Middleware(clientKey func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if readOnly(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			ok, wait := l.Reserve(clientKey(r))
			if ok {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			if onLimit == nil {
				http.Error(w, "too many requests, retry later", http.StatusTooManyRequests)
				return
			}
			onLimit(w, r)
		})
	}
}
