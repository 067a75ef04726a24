package attendance

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Gate is a counting admission limiter. At most Limit callers hold a slot
// at once. It bounds contention, not correctness: the Store's mutex is what
// serialises mutation.
type Gate struct {
	sem      *semaphore.Weighted
	limit    int64
	inFlight atomic.Int64
	peak     atomic.Int64
}

// NewGate creates a gate admitting at most limit holders. A limit below 1
// is raised to 1.
func NewGate(limit int) *Gate {
	if limit < 1 {
		limit = 1
	}
	return &Gate{
		sem:   semaphore.NewWeighted(int64(limit)),
		limit: int64(limit),
	}
}

// Enter blocks until a slot is free or ctx is done.
func (g *Gate) Enter(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	n := g.inFlight.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return nil
}

// Leave releases a slot taken by Enter.
func (g *Gate) Leave() {
	g.inFlight.Add(-1)
	g.sem.Release(1)
}

// Limit returns the maximum number of simultaneous holders.
func (g *Gate) Limit() int { return int(g.limit) }

// InFlight returns the number of current holders.
func (g *Gate) InFlight() int { return int(g.inFlight.Load()) }

// Peak returns the highest number of simultaneous holders seen so far.
func (g *Gate) Peak() int { return int(g.peak.Load()) }
