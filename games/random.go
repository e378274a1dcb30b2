package games

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"
)

// Source picks a uniformly distributed index in [0, n).
// Tests supply a fixed sequence to assert exact draws.
type Source interface {
	Intn(n int) int
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rng.Intn(n)
}

// NewSource returns a Source seeded from crypto/rand, falling back to the
// clock if the system entropy pool cannot be read.
func NewSource() Source {
	return &lockedSource{rng: rand.New(rand.NewSource(newSeed()))}
}

// NewSeededSource returns a reproducible Source.
func NewSeededSource(seed int64) Source {
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}

	return int64(binary.LittleEndian.Uint64(b[:]))
}
