package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter sleeps for the bulk of a frame's slack then
// busy-waits the last stretch, correcting for accumulated scheduler
// drift every 60 frames. More accurate than TickerLimiter at the cost
// of burning a core during the busy-wait tail.
type AdaptiveLimiter struct {
	frameDuration time.Duration
	nextFrame     time.Time
	frameCount    int64
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	return &AdaptiveLimiter{
		frameDuration: FrameDuration(),
		nextFrame:     time.Now(),
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := time.Now()
	remaining := a.nextFrame.Sub(now)

	switch {
	case remaining > 2*time.Millisecond:
		time.Sleep(remaining - time.Millisecond)
		a.busyWait()
	case remaining > 0:
		a.busyWait()
	case remaining < -5*time.Millisecond:
		// fallen far behind (e.g. after a debugger pause); resync to now
		a.nextFrame = now
	}

	a.nextFrame = a.nextFrame.Add(a.frameDuration)
	a.frameCount++

	if a.frameCount%60 == 0 {
		a.correctDrift()
	}
}

func (a *AdaptiveLimiter) busyWait() {
	for time.Now().Before(a.nextFrame) {
	}
}

func (a *AdaptiveLimiter) correctDrift() {
	expected := a.nextFrame.Add(-a.frameDuration)
	drift := time.Now().Sub(expected)
	if drift.Abs() <= 10*time.Millisecond {
		return
	}
	a.nextFrame = a.nextFrame.Add(drift / 10)
	slog.Debug("timing: frame drift correction", "drift_ms", drift.Milliseconds())
}

func (a *AdaptiveLimiter) Reset() {
	a.nextFrame = time.Now()
	a.frameCount = 0
}
