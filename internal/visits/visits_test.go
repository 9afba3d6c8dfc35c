package visits

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SversusN/reviewcheck/internal/internalerrors"
	"github.com/SversusN/reviewcheck/internal/storage/memstorage"
)

func TestIncrement(t *testing.T) {
	ctx := context.Background()
	s := memstorage.NewStorage(nil, errors.New("dont need file"))
	c := NewCounter(s)

	for want := 1; want <= 5; want++ {
		got, err := c.Increment(ctx, "https://www.amazon.in/item")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// другой URL считается отдельно, регистр важен
	got, err := c.Increment(ctx, "https://www.Amazon.in/item")
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	n, err := c.Count(ctx, "https://www.amazon.in/item")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = c.Count(ctx, "never")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	raw, err := s.Get(ctx, Key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"https://www.amazon.in/item":5,"https://www.Amazon.in/item":1}`, raw)
}

func TestCorruptTable(t *testing.T) {
	ctx := context.Background()
	s := memstorage.NewStorage(nil, errors.New("dont need file"))
	require.NoError(t, s.Set(ctx, Key, "{not json"))

	_, err := NewCounter(s).Increment(ctx, "u")
	assert.ErrorIs(t, err, internalerrors.ErrCorruptVisits)

	v, err := s.Get(ctx, Key)
	require.NoError(t, err)
	assert.Equal(t, "{not json", v)
}
