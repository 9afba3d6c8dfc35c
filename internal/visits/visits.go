// Пакет счетчика посещений страницы результата
package visits

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SversusN/reviewcheck/internal/internalerrors"
	"github.com/SversusN/reviewcheck/internal/storage/storage"
)

// Key ключ таблицы посещений в долговременном хранилище
const Key = "urlVisits"

// Counter таблица URL -> число посещений поверх хранилища.
// Чтение и запись не атомарны: параллельные вкладки одного клиента могут недосчитать.
type Counter struct {
	store storage.Store
}

func NewCounter(s storage.Store) *Counter {
	return &Counter{store: s}
}

func (c *Counter) load(ctx context.Context) (map[string]int, error) {
	raw, err := c.store.Get(ctx, Key)
	if errors.Is(err, internalerrors.ErrNotFound) {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", Key, err)
	}
	table := map[string]int{}
	if err = json.Unmarshal([]byte(raw), &table); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerrors.ErrCorruptVisits, err)
	}
	// "null"
	if table == nil {
		table = map[string]int{}
	}
	return table, nil
}

// Increment увеличивает счетчик URL на 1 и сразу сохраняет таблицу
func (c *Counter) Increment(ctx context.Context, url string) (int, error) {
	table, err := c.load(ctx)
	if err != nil {
		return 0, err
	}
	table[url]++
	b, err := json.Marshal(table)
	if err != nil {
		return 0, err
	}
	if err = c.store.Set(ctx, Key, string(b)); err != nil {
		return 0, fmt.Errorf("failed to save %s: %w", Key, err)
	}
	return table[url], nil
}

// Count текущее значение без изменения
func (c *Counter) Count(ctx context.Context, url string) (int, error) {
	table, err := c.load(ctx)
	if err != nil {
		return 0, err
	}
	return table[url], nil
}
