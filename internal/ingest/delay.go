package ingest

import (
	"context"
	"math/rand"
	"time"
)

// DelayPolicy spaces provider calls within a batch. Later symbols wait
// longer, and a random jitter keeps concurrent batches from aligning.
type DelayPolicy struct {
	Base      time.Duration
	Step      time.Duration
	MaxJitter time.Duration
}

// For returns the delay before the symbol at position (0-based). jitter
// returns a value in [0, n).
func (p DelayPolicy) For(position int, jitter func(n int64) int64) time.Duration {
	d := p.Base + time.Duration(position)*p.Step
	if p.MaxJitter > 0 && jitter != nil {
		d += time.Duration(jitter(int64(p.MaxJitter)))
	}
	if d < 0 {
		return 0
	}
	return d
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func defaultJitter(n int64) int64 {
	if n <= 0 {
		return 0
	}
	return rand.Int63n(n)
}
