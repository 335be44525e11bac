package channels

import "context"

// ConcurrencyLimiter caps the number of outstanding acquisitions of some shared resource, such as
// store sessions.
type ConcurrencyLimiter struct {
	slotC chan struct{}
}

func NewConcurrencyLimiter(numSlots int) ConcurrencyLimiter {
	return ConcurrencyLimiter{
		slotC: make(chan struct{}, numSlots),
	}
}

func (s ConcurrencyLimiter) Acquire(ctx context.Context) bool {
	select {
	case s.slotC <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s ConcurrencyLimiter) Release() {
	<-s.slotC
}
