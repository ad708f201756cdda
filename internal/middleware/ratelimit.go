package middleware

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// maxTrackedSenders bounds the per-sender limiter table for the lifetime of
// the process; the least recently seen sender is evicted first.
const maxTrackedSenders = 8192

// SenderLimiter throttles events per platform sender. Two button taps in the
// same instant are fine (burst), a flood is not.
type SenderLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[int64, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func NewSenderLimiter(r rate.Limit, burst int) *SenderLimiter {
	cache, _ := lru.New[int64, *rate.Limiter](maxTrackedSenders) // size is a positive constant
	return &SenderLimiter{
		limiters: cache,
		rate:     r,
		burst:    burst,
	}
}

// Allow reports whether the sender may proceed right now. An evicted sender
// starts over with a full bucket, which only matters after maxTrackedSenders
// distinct senders pushed it out.
func (l *SenderLimiter) Allow(senderID int64) bool {
	l.mu.Lock()
	lim, ok := l.limiters.Get(senderID)
	if !ok {
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters.Add(senderID, lim)
	}
	l.mu.Unlock()

	return lim.Allow()
}
