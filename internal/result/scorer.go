package result

import (
	"math/rand"
	"sync"
)

// Range диапазон точности, включительно
type Range struct {
	Min int
	Max int
}

var (
	FakeRange = Range{Min: 70, Max: 85}
	RealRange = Range{Min: 90, Max: 99}
)

// RangeFor диапазон для вердикта
func RangeFor(fake bool) Range {
	if fake {
		return FakeRange
	}
	return RealRange
}

// Contains v внутри диапазона
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Scorer выдает отображаемую точность для вердикта
type Scorer interface {
	Score(fake bool) int
}

// ScorerFunc адаптер функции к Scorer
type ScorerFunc func(fake bool) int

func (f ScorerFunc) Score(fake bool) int {
	return f(fake)
}

// RandomScorer равномерное целое из диапазона вердикта
type RandomScorer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomScorer(seed int64) *RandomScorer {
	return &RandomScorer{rnd: rand.New(rand.NewSource(seed))}
}

func (s *RandomScorer) Score(fake bool) int {
	r := RangeFor(fake)
	s.mu.Lock()
	defer s.mu.Unlock()
	return r.Min + s.rnd.Intn(r.Max-r.Min+1)
}
