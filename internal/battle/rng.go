package battle

import (
	"math/rand"
	"sync"
)

// lockedSource serializes access to an underlying random source.
// math/rand.Rand is not safe for concurrent use, and one Engine serves
// every request goroutine.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// NewLockedRand returns a seeded random source that is safe to share
// across concurrent battle sessions. Tests that pin draws keep
// injecting their own single-goroutine *rand.Rand.
func NewLockedRand(seed int64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewSource(seed).(rand.Source64)})
}
