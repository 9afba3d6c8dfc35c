// Пакет интерфейсов хранилищ ключ-значение и истории анализов
package storage

import (
	"context"
	"time"
)

// Store хранилище ключ-значение, замена sessionStorage и localStorage.
// Get возвращает internalerrors.ErrNotFound, если ключа нет.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Analysis запись истории для /analyze
type Analysis struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	ReviewText   string    `json:"review_text"`
	AnalyzedText string    `json:"analyzed_text"`
	Platform     string    `json:"platform"`
	AnalyzedAt   time.Time `json:"analyzed_at"`
}

type HistoryStorage interface {
	SaveAnalysis(ctx context.Context, a Analysis) error
	GetHistory(ctx context.Context, limit int) ([]Analysis, error)
}

// Storage полное хранилище приложения
type Storage interface {
	Store
	HistoryStorage
}

type scoped struct {
	s      Store
	prefix string
}

// Scoped ключи хранилища с префиксом клиента, у разных клиентов не пересекаются
func Scoped(s Store, prefix string) Store {
	return scoped{s: s, prefix: prefix + ":"}
}

func (sc scoped) Get(ctx context.Context, key string) (string, error) {
	return sc.s.Get(ctx, sc.prefix+key)
}

func (sc scoped) Set(ctx context.Context, key string, value string) error {
	return sc.s.Set(ctx, sc.prefix+key, value)
}
