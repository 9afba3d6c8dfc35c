package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/SversusN/reviewcheck/internal/internalerrors"
	"github.com/SversusN/reviewcheck/internal/storage/storage"
)

// Indicator индикатор загрузки, состояние хранится в сессии
type Indicator struct {
	ctx   context.Context
	store storage.Store
	log   *zap.Logger
}

func NewIndicator(ctx context.Context, s storage.Store, log *zap.Logger) *Indicator {
	return &Indicator{ctx: ctx, store: s, log: log}
}

func (i *Indicator) Show() {
	i.set("true")
}

func (i *Indicator) Hide() {
	i.set("false")
}

func (i *Indicator) set(v string) {
	// отмена запроса не должна оставить индикатор включенным
	if err := i.store.Set(context.WithoutCancel(i.ctx), KeyLoading, v); err != nil {
		i.log.Warn("failed to update loading indicator", zap.Error(err))
	}
}

// Loading текущее состояние индикатора
func Loading(ctx context.Context, s storage.Store) (bool, error) {
	v, err := s.Get(ctx, KeyLoading)
	if errors.Is(err, internalerrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "true", nil
}
