package result

import (
	"context"
	"time"
)

// Clock ожидание с возможностью отмены
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type RealClock struct{}

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
