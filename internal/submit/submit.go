// Пакет контроллера отправки формы
package submit

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/SversusN/reviewcheck/internal/internalerrors"
	"github.com/SversusN/reviewcheck/internal/session"
	"github.com/SversusN/reviewcheck/internal/storage/storage"
)

// ResultPath куда переходить после успешной отправки
const ResultPath = "/result"

// Analyzer удаленный эндпоинт анализа
type Analyzer interface {
	Analyze(ctx context.Context, url, reviewText string) error
}

// Indicator индикатор загрузки
type Indicator interface {
	Show()
	Hide()
}

type Controller struct {
	analyzer Analyzer
	log      *zap.Logger
}

func NewController(a Analyzer, log *zap.Logger) *Controller {
	return &Controller{analyzer: a, log: log}
}

// Submit проверяет поля, сохраняет их в сессию и отправляет на анализ.
// Возвращает путь для перехода или ошибку для показа в форме.
func (c *Controller) Submit(ctx context.Context, s storage.Store, ind Indicator, url, reviewText string) (string, error) {
	url = strings.TrimSpace(url)
	reviewText = strings.TrimSpace(reviewText)
	if url == "" && reviewText == "" {
		return "", internalerrors.ErrEmptySubmission
	}

	if err := s.Set(ctx, session.KeyURL, url); err != nil {
		return "", fmt.Errorf("failed to store submission: %w", err)
	}
	if err := s.Set(ctx, session.KeyReview, reviewText); err != nil {
		return "", fmt.Errorf("failed to store submission: %w", err)
	}

	ind.Show()
	defer ind.Hide()

	if err := c.analyzer.Analyze(ctx, url, reviewText); err != nil {
		c.log.Error("analyze failed", zap.String("url", url), zap.Error(err))
		return "", err
	}
	return ResultPath, nil
}
