package result

import "time"

// Timing параметры задержки и анимации
type Timing struct {
	RevealDelay time.Duration
	Duration    time.Duration
	Interval    time.Duration
}

// DefaultTiming 1.5с задержка, 1.5с анимация, шаг 10мс
var DefaultTiming = Timing{
	RevealDelay: 1500 * time.Millisecond,
	Duration:    1500 * time.Millisecond,
	Interval:    10 * time.Millisecond,
}

// Steps число тиков анимации, не меньше одного
func (t Timing) Steps() int {
	if t.Interval <= 0 {
		return 1
	}
	n := int(t.Duration / t.Interval)
	if n < 1 {
		return 1
	}
	return n
}

// DisplayedValue значение после elapsed времени анимации: каждый прошедший тик
// добавляет target/steps, на последнем тике значение равно target.
func DisplayedValue(elapsed time.Duration, target float64, t Timing) float64 {
	if target <= 0 {
		return 0
	}
	// без шага анимации значение сразу равно цели
	if t.Interval <= 0 {
		return target
	}
	if elapsed <= 0 {
		return 0
	}
	steps := t.Steps()
	ticks := int(elapsed / t.Interval)
	if ticks >= steps {
		return target
	}
	v := float64(ticks) * (target / float64(steps))
	if v > target {
		return target
	}
	return v
}
