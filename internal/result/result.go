// Пакет контроллера страницы результата
package result

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SversusN/reviewcheck/internal/internalerrors"
	"github.com/SversusN/reviewcheck/internal/session"
	"github.com/SversusN/reviewcheck/internal/storage/storage"
	"github.com/SversusN/reviewcheck/internal/trust"
	"github.com/SversusN/reviewcheck/internal/visits"
)

// VisitThreshold с этого посещения URL считается подозрительным
const VisitThreshold = 4

// Analysis вычисленный вердикт одной загрузки страницы
type Analysis struct {
	URL         string `json:"url"`
	Trusted     bool   `json:"trusted"`
	Visits      int    `json:"visits"`
	OverVisited bool   `json:"over_visited"`
	Fake        bool   `json:"fake"`
	Target      int    `json:"target"`
}

// Final итоговый кадр
func (a Analysis) Final() View {
	return FrameView(a.Fake, float64(a.Target))
}

type Controller struct {
	scorer Scorer
	clock  Clock
	timing Timing
	log    *zap.Logger
}

func NewController(s Scorer, c Clock, t Timing, log *zap.Logger) *Controller {
	return &Controller{scorer: s, clock: c, timing: t, log: log}
}

// Evaluate читает URL из сессии, учитывает посещение и выносит вердикт.
// Без URL возвращает ErrMissingURL, счетчик не трогается.
func (c *Controller) Evaluate(ctx context.Context, sess storage.Store, durable storage.Store) (Analysis, error) {
	url, err := sess.Get(ctx, session.KeyURL)
	if errors.Is(err, internalerrors.ErrNotFound) || (err == nil && url == "") {
		return Analysis{}, internalerrors.ErrMissingURL
	}
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to read submission: %w", err)
	}

	a := Analysis{URL: url, Trusted: trust.IsTrusted(url)}
	a.Visits, err = visits.NewCounter(durable).Increment(ctx, url)
	if err != nil {
		return Analysis{}, err
	}
	a.OverVisited = a.Visits >= VisitThreshold
	a.Fake = !a.Trusted || a.OverVisited
	a.Target = c.scorer.Score(a.Fake)

	c.log.Debug("result evaluated",
		zap.String("url", url),
		zap.Bool("trusted", a.Trusted),
		zap.Int("visits", a.Visits),
		zap.Bool("fake", a.Fake),
		zap.Int("target", a.Target),
	)
	return a, nil
}

// Play показывает "Analyzing...", после задержки вердикт и анимирует точность до цели.
// Отмена ctx бросает анимацию.
func (c *Controller) Play(ctx context.Context, a Analysis, d Display) error {
	if err := d.Render(AnalyzingView()); err != nil {
		return err
	}
	if err := c.clock.Sleep(ctx, c.timing.RevealDelay); err != nil {
		return err
	}
	if err := d.Render(revealedView(a.Fake)); err != nil {
		return err
	}

	target := float64(a.Target)
	for tick := 1; ; tick++ {
		if err := c.clock.Sleep(ctx, c.timing.Interval); err != nil {
			return err
		}
		v := DisplayedValue(time.Duration(tick)*c.timing.Interval, target, c.timing)
		if err := d.Render(FrameView(a.Fake, v)); err != nil {
			return err
		}
		if v >= target {
			return nil
		}
	}
}
