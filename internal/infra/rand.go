// README: Seeded RNG safe to share across goroutines.
package infra

import (
	mrand "math/rand"
	"sync"
)

// NewLockedRand returns a seeded generator whose source is guarded by a
// mutex, mirroring the locking of the math/rand package globals. Plain
// rand.New sources are not goroutine-safe, and the same generator is shared
// by concurrent dispatch cycles and route analysis.
func NewLockedRand(seed int64) *mrand.Rand {
	return mrand.New(&lockedSource{src: mrand.NewSource(seed).(mrand.Source64)})
}

type lockedSource struct {
	mu  sync.Mutex
	src mrand.Source64
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
