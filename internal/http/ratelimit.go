package http

import (
	"sync"
	"time"
)

const staleAfter = 10 * time.Minute

// rateLimiter caps write requests per client IP: limit requests per
// window, counted from the first request in the window.
type rateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket

	done     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	windowStart time.Time
	count       int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
	go rl.evictLoop()
	return rl
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b := rl.buckets[clientIP]
	if b == nil || now.Sub(b.windowStart) > rl.window {
		rl.buckets[clientIP] = &bucket{windowStart: now, count: 1}
		return true
	}
	b.count++
	return b.count <= rl.limit
}

// evictLoop drops buckets idle long enough that their window can no
// longer matter.
func (rl *rateLimiter) evictLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictStale(time.Now())
		case <-rl.done:
			return
		}
	}
}

func (rl *rateLimiter) evictStale(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, b := range rl.buckets {
		if now.Sub(b.windowStart) > staleAfter {
			delete(rl.buckets, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() {
		close(rl.done)
	})
}
