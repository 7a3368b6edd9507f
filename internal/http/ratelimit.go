package http

import (
	"sync"
	"time"
)

const (
	rateLimitPerWindow = 60
	rateLimitWindow    = time.Minute
)

// rateLimiter throttles mutating requests per client IP using a fixed
// window counter. Stale clients are swept in the background.
type rateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	stop     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	windowStart time.Time
	count       int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

func (rl *rateLimiter) sweepLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

// sweep drops buckets idle for more than 10 minutes.
func (rl *rateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, b := range rl.buckets {
		if b.windowStart.Before(cutoff) {
			delete(rl.buckets, ip)
		}
	}
}

func (rl *rateLimiter) shutdown() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[clientIP]
	if !ok || now.Sub(b.windowStart) > rateLimitWindow {
		rl.buckets[clientIP] = &bucket{windowStart: now, count: 1}
		return true
	}

	b.count++
	return b.count <= rateLimitPerWindow
}
