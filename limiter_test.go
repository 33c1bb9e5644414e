package ogengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewRenderLimiter(2, 200*time.Millisecond)
	defer limiter.Stop()
	ip := "203.0.113.10"

	assert.True(t, limiter.Allow(ip), "first render")
	assert.True(t, limiter.Allow(ip), "second render")
	assert.False(t, limiter.Allow(ip), "third render should be blocked")
}

func TestRenderLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewRenderLimiter(1, 150*time.Millisecond)
	defer limiter.Stop()
	ip := "203.0.113.20"

	assert.True(t, limiter.Allow(ip))
	assert.False(t, limiter.Allow(ip))

	time.Sleep(200 * time.Millisecond)
	assert.True(t, limiter.Allow(ip), "render after window should be allowed")
}

func TestRenderLimiterIsPerIP(t *testing.T) {
	limiter := NewRenderLimiter(1, 200*time.Millisecond)
	defer limiter.Stop()

	assert.True(t, limiter.Allow("203.0.113.30"))
	assert.True(t, limiter.Allow("203.0.113.31"), "second ip is independent")
	assert.False(t, limiter.Allow("203.0.113.30"))
}

func TestRenderLimiterStopIsIdempotent(t *testing.T) {
	limiter := NewRenderLimiter(1, time.Second)
	limiter.Stop()
	limiter.Stop()
}

func TestRenderLimiterNonPositiveWindow(t *testing.T) {
	limiter := NewRenderLimiter(1, -time.Second)
	defer limiter.Stop()

	assert.Equal(t, time.Minute, limiter.window)
	assert.True(t, limiter.Allow("203.0.113.20"))
	assert.False(t, limiter.Allow("203.0.113.20"))
}
