// Пакет хранения в памяти с необязательным сохранением в файл
package memstorage

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/SversusN/reviewcheck/internal/internalerrors"
	"github.com/SversusN/reviewcheck/internal/pkg/utils"
	"github.com/SversusN/reviewcheck/internal/storage/storage"
)

type MapStorage struct {
	mu      sync.RWMutex
	data    map[string]string
	history []storage.Analysis
	fh      *utils.FileHelper
}

// NewStorage создает хранилище. Если хелпер не создан (err != nil), работаем только в памяти
func NewStorage(fh *utils.FileHelper, err error) *MapStorage {
	m := &MapStorage{data: make(map[string]string)}
	if err != nil || fh == nil {
		return m
	}
	m.fh = fh
	data, rerr := fh.ReadFile()
	m.data = data
	if rerr != nil {
		// файл не сжимаем, чтобы не потерять непрочитанный хвост
		log.Printf("file storage replay stopped early, kept %d keys: %v\n", len(data), rerr)
		return m
	}
	if cerr := fh.Compact(data); cerr != nil {
		log.Printf("file storage compaction failed: %v\n", cerr)
	}
	return m
}

func (m *MapStorage) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", internalerrors.ErrNotFound
	}
	return v, nil
}

func (m *MapStorage) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	if m.fh != nil {
		return m.fh.WriteFile(key, value)
	}
	return nil
}

func (m *MapStorage) SaveAnalysis(_ context.Context, a storage.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, a)
	return nil
}

// GetHistory последние limit записей, новые первыми
func (m *MapStorage) GetHistory(_ context.Context, limit int) ([]storage.Analysis, error) {
	m.mu.RLock()
	res := make([]storage.Analysis, len(m.history))
	copy(res, m.history)
	m.mu.RUnlock()

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].AnalyzedAt.After(res[j].AnalyzedAt)
	})
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

// Close закрывает файл, если он есть
func (m *MapStorage) Close() error {
	if m.fh != nil {
		return m.fh.Close()
	}
	return nil
}
