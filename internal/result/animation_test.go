package result

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplayedValue(t *testing.T) {
	tm := DefaultTiming
	assert.Equal(t, 150, tm.Steps())

	testCases := []struct {
		name    string
		elapsed time.Duration
		target  float64
		want    float64
	}{
		{name: "not started", elapsed: 0, target: 90, want: 0},
		{name: "negative", elapsed: -time.Second, target: 90, want: 0},
		{name: "first tick", elapsed: 10 * time.Millisecond, target: 90, want: 0.6},
		{name: "between ticks", elapsed: 15 * time.Millisecond, target: 90, want: 0.6},
		{name: "half way", elapsed: 750 * time.Millisecond, target: 90, want: 45},
		{name: "last tick", elapsed: 1500 * time.Millisecond, target: 77, want: 77},
		{name: "after end", elapsed: time.Hour, target: 77, want: 77},
		{name: "zero target", elapsed: time.Second, target: 0, want: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, DisplayedValue(tc.elapsed, tc.target, tm), 1e-9)
		})
	}
}

func TestDisplayedValueMonotonic(t *testing.T) {
	for target := 70; target <= 99; target++ {
		prev := 0.0
		for ms := 0; ms <= 1600; ms++ {
			v := DisplayedValue(time.Duration(ms)*time.Millisecond, float64(target), DefaultTiming)
			assert.GreaterOrEqual(t, v, prev)
			assert.LessOrEqual(t, v, float64(target))
			prev = v
		}
		assert.Equal(t, float64(target), prev)
	}
}

func TestDisplayedValueNoInterval(t *testing.T) {
	tm := Timing{Duration: time.Second}
	assert.Equal(t, 1, tm.Steps())
	assert.Equal(t, 88.0, DisplayedValue(0, 88, tm))
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, BandHigh, BandFor(90.1))
	assert.Equal(t, BandMedium, BandFor(90))
	assert.Equal(t, BandMedium, BandFor(75.5))
	assert.Equal(t, BandLow, BandFor(75))
	assert.Equal(t, BandLow, BandFor(0))
	assert.Contains(t, BandHigh.Background(), "#4CAF50")
}
