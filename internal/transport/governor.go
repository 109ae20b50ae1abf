package transport

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Governed wraps a Sink with a token-bucket limiter so a burst of
// reconnect retries or catch-up sends cannot flood a destination
// faster than one frame per nominal frame period; a send that would
// exceed the burst is dropped rather than queued (spec §5: sinks never
// stall the producer).
type Governed struct {
	inner   Sink
	limiter *rate.Limiter
}

// NewGoverned wraps inner with a limiter allowing one send per period,
// with the given burst allowance.
func NewGoverned(inner Sink, period time.Duration, burst int) *Governed {
	return &Governed{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Every(period), burst),
	}
}

func (g *Governed) Send(ctx context.Context, frame []byte) error {
	if !g.limiter.Allow() {
		return nil // best-effort: drop rather than block
	}
	return g.inner.Send(ctx, frame)
}

func (g *Governed) Close() error {
	return g.inner.Close()
}
