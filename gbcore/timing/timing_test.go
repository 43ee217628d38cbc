package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTargetFPSMatchesDocumentedRate(t *testing.T) {
	// real hardware runs at ~59.7275 fps, not an even 60.
	assert.InDelta(t, 59.7275, TargetFPS(), 0.001)
}

func TestFrameDurationRoundTripsToTargetFPS(t *testing.T) {
	fps := float64(time.Second) / float64(FrameDuration())
	assert.InDelta(t, TargetFPS(), fps, 0.01)
}

func TestNoOpLimiterNeverBlocks(t *testing.T) {
	l := NewNoOpLimiter()

	start := time.Now()
	for i := 0; i < 1000; i++ {
		l.WaitForNextFrame()
	}
	assert.Less(t, time.Since(start), 10*time.Millisecond)

	l.Reset() // no-op, must not panic
}

func TestAdaptiveLimiterPacesToFrameDuration(t *testing.T) {
	l := NewAdaptiveLimiter()

	start := time.Now()
	l.WaitForNextFrame()
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 2*FrameDuration())
}

func TestAdaptiveLimiterResetClearsFrameCount(t *testing.T) {
	l := NewAdaptiveLimiter()
	for i := 0; i < 5; i++ {
		l.WaitForNextFrame()
	}

	l.Reset()
	assert.Equal(t, int64(0), l.frameCount)
}

func TestTickerLimiterDeliversAtLeastOneTick(t *testing.T) {
	l := NewTickerLimiter()
	defer l.Stop()

	done := make(chan struct{})
	go func() {
		l.WaitForNextFrame()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("TickerLimiter did not deliver a tick within 1s")
	}
}
