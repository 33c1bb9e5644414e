package ogengine

import (
	"sync"
	"time"
)

// RenderLimiter rate-limits on-demand renders per client IP. Rendering is
// CPU bound, so the server caps how many a single client can trigger.
type RenderLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewRenderLimiter creates a RenderLimiter that allows max renders per window.
// A non-positive window means one minute. Call Stop to release its cleanup
// goroutine.
func NewRenderLimiter(max int, window time.Duration) *RenderLimiter {
	if window <= 0 {
		window = time.Minute
	}
	l := &RenderLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		done:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *RenderLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
		}
		cutoff := time.Now().Add(-l.window)
		l.mu.Lock()
		for ip, hits := range l.attempts {
			kept := prune(hits, cutoff)
			if len(kept) == 0 {
				delete(l.attempts, ip)
			} else {
				l.attempts[ip] = kept
			}
		}
		l.mu.Unlock()
	}
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Allow reports whether ip is still under the limit and records the render.
func (l *RenderLimiter) Allow(ip string) bool {
	cutoff := time.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := prune(l.attempts[ip], cutoff)
	if len(kept) >= l.max {
		l.attempts[ip] = kept
		return false
	}
	l.attempts[ip] = append(kept, time.Now())
	return true
}

// Stop ends the cleanup goroutine.
func (l *RenderLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}
