package result

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SversusN/reviewcheck/internal/internalerrors"
	"github.com/SversusN/reviewcheck/internal/session"
	"github.com/SversusN/reviewcheck/internal/storage/memstorage"
	"github.com/SversusN/reviewcheck/internal/storage/storage"
	"github.com/SversusN/reviewcheck/internal/visits"
)

type fakeClock struct {
	slept []time.Duration
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.slept = append(c.slept, d)
	return nil
}

// scorer отдает нижнюю границу диапазона
var minScorer = ScorerFunc(func(fake bool) int { return RangeFor(fake).Min })

func newStores(t *testing.T, url string) (storage.Store, storage.Store) {
	t.Helper()
	sess := session.NewManager(time.Minute).Store("sid")
	if url != "" {
		require.NoError(t, sess.Set(context.Background(), session.KeyURL, url))
	}
	return sess, memstorage.NewStorage(nil, errors.New("dont need file"))
}

func newController() *Controller {
	return NewController(minScorer, &fakeClock{}, DefaultTiming, zap.NewNop())
}

func TestEvaluateMissingURL(t *testing.T) {
	ctx := context.Background()
	c := newController()

	sess, durable := newStores(t, "")
	_, err := c.Evaluate(ctx, sess, durable)
	assert.ErrorIs(t, err, internalerrors.ErrMissingURL)

	// пустая строка тоже считается отсутствием
	require.NoError(t, sess.Set(ctx, session.KeyURL, ""))
	_, err = c.Evaluate(ctx, sess, durable)
	assert.ErrorIs(t, err, internalerrors.ErrMissingURL)

	_, err = durable.Get(ctx, visits.Key)
	assert.ErrorIs(t, err, internalerrors.ErrNotFound, "visit table must not be touched")

	v := ErrorView(internalerrors.ErrMissingURL)
	assert.Equal(t, View{
		State:      StateError,
		Prediction: "❌ Please provide a URL",
		Accuracy:   AccuracyNA,
		Fill:       0,
	}, v)
}

func TestEvaluateUntrustedAlwaysFake(t *testing.T) {
	ctx := context.Background()
	c := newController()
	sess, durable := newStores(t, "https://shady-shop.example/item")

	for visit := 1; visit <= 6; visit++ {
		a, err := c.Evaluate(ctx, sess, durable)
		require.NoError(t, err)
		assert.False(t, a.Trusted)
		assert.True(t, a.Fake, "visit %d", visit)
		assert.Equal(t, visit, a.Visits)
		assert.True(t, FakeRange.Contains(a.Target))
	}
}

func TestEvaluateTrustedFlipsOnFourthVisit(t *testing.T) {
	ctx := context.Background()
	c := newController()
	sess, durable := newStores(t, "https://www.Flipkart.com/p/1")

	for visit := 1; visit <= 6; visit++ {
		a, err := c.Evaluate(ctx, sess, durable)
		require.NoError(t, err)
		assert.True(t, a.Trusted)
		assert.Equal(t, visit >= VisitThreshold, a.OverVisited)
		assert.Equal(t, visit >= VisitThreshold, a.Fake, "visit %d", visit)
	}
}

func TestEvaluateCountersIndependent(t *testing.T) {
	ctx := context.Background()
	c := newController()
	sess, durable := newStores(t, "https://www.amazon.in/a")

	for i := 0; i < 3; i++ {
		_, err := c.Evaluate(ctx, sess, durable)
		require.NoError(t, err)
	}
	require.NoError(t, sess.Set(ctx, session.KeyURL, "https://www.amazon.in/b"))
	a, err := c.Evaluate(ctx, sess, durable)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Visits)

	n, err := visits.NewCounter(durable).Count(ctx, "https://www.amazon.in/a")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestEndToEndAmazon(t *testing.T) {
	ctx := context.Background()
	c := NewController(NewRandomScorer(42), &fakeClock{}, DefaultTiming, zap.NewNop())
	sess, durable := newStores(t, "https://www.amazon.in/item")

	for visit := 1; visit <= 4; visit++ {
		a, err := c.Evaluate(ctx, sess, durable)
		require.NoError(t, err)
		assert.Equal(t, visit, a.Visits)
		if visit < 4 {
			assert.False(t, a.Fake)
			assert.True(t, RealRange.Contains(a.Target))
			assert.Equal(t, PredictionReal, a.Final().Prediction)
		} else {
			assert.True(t, a.Fake)
			assert.True(t, FakeRange.Contains(a.Target))
			assert.Equal(t, PredictionFake, a.Final().Prediction)
		}
	}
}

func TestPlay(t *testing.T) {
	clock := &fakeClock{}
	c := NewController(minScorer, clock, DefaultTiming, zap.NewNop())
	a := Analysis{URL: "https://www.amazon.in/item", Trusted: true, Visits: 1, Target: 93}

	var frames []View
	err := c.Play(context.Background(), a, DisplayFunc(func(v View) error {
		frames = append(frames, v)
		return nil
	}))
	require.NoError(t, err)

	steps := DefaultTiming.Steps()
	require.Len(t, frames, steps+2)
	assert.Equal(t, AnalyzingView(), frames[0])
	assert.Equal(t, StateRevealed, frames[1].State)
	assert.Equal(t, PredictionReal, frames[1].Prediction)
	assert.Equal(t, AccuracyCalculating, frames[1].Accuracy)

	prev := 0.0
	for _, f := range frames[2:] {
		assert.GreaterOrEqual(t, f.Fill, prev)
		assert.LessOrEqual(t, f.Fill, 93.0)
		prev = f.Fill
	}
	last := frames[len(frames)-1]
	assert.Equal(t, 93.0, last.Fill)
	assert.Equal(t, "93.0%", last.Accuracy)
	assert.Equal(t, BandHigh, last.Band)

	require.Len(t, clock.slept, steps+1)
	assert.Equal(t, DefaultTiming.RevealDelay, clock.slept[0])
	assert.Equal(t, DefaultTiming.Interval, clock.slept[1])
}

func TestPlayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := newController()
	n := 0
	err := c.Play(ctx, Analysis{Fake: true, Target: 80}, DisplayFunc(func(View) error {
		n++
		if n == 3 {
			cancel()
		}
		return nil
	}))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, n)
}

func TestPlayDisplayError(t *testing.T) {
	boom := errors.New("client gone")
	err := newController().Play(context.Background(), Analysis{Target: 95}, DisplayFunc(func(View) error {
		return boom
	}))
	assert.ErrorIs(t, err, boom)
}
