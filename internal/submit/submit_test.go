package submit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SversusN/reviewcheck/internal/internalerrors"
	"github.com/SversusN/reviewcheck/internal/session"
	"github.com/SversusN/reviewcheck/internal/storage/storage"
)

// журнал событий в порядке их возникновения
type recorder struct {
	events []string
}

type recStore struct {
	storage.Store
	r *recorder
}

func (s recStore) Set(ctx context.Context, key, value string) error {
	s.r.events = append(s.r.events, "set "+key+"="+value)
	return s.Store.Set(ctx, key, value)
}

type recIndicator struct{ r *recorder }

func (i recIndicator) Show() { i.r.events = append(i.r.events, "show") }
func (i recIndicator) Hide() { i.r.events = append(i.r.events, "hide") }

type fakeAnalyzer struct {
	r   *recorder
	err error
}

func (a *fakeAnalyzer) Analyze(_ context.Context, url, review string) error {
	a.r.events = append(a.r.events, "analyze "+url+"|"+review)
	return a.err
}

func setup(err error) (*Controller, storage.Store, Indicator, *recorder) {
	r := &recorder{}
	s := recStore{Store: session.NewManager(time.Minute).Store("sid"), r: r}
	return NewController(&fakeAnalyzer{r: r, err: err}, zap.NewNop()), s, recIndicator{r: r}, r
}

func TestSubmitEmpty(t *testing.T) {
	testCases := []struct {
		name   string
		url    string
		review string
	}{
		{name: "both empty"},
		{name: "whitespace only", url: "  \t", review: "\n "},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, s, ind, r := setup(nil)
			path, err := c.Submit(context.Background(), s, ind, tc.url, tc.review)
			assert.ErrorIs(t, err, internalerrors.ErrEmptySubmission)
			assert.Empty(t, path)
			assert.Empty(t, r.events, "no store writes, no indicator, no request")
		})
	}
}

func TestSubmitSuccess(t *testing.T) {
	testCases := []struct {
		name   string
		url    string
		review string
		want   []string
	}{
		{
			name: "url only",
			url:  "  https://www.amazon.in/item ",
			want: []string{
				"set submittedURL=https://www.amazon.in/item",
				"set submittedReview=",
				"show",
				"analyze https://www.amazon.in/item|",
				"hide",
			},
		},
		{
			name:   "review only",
			review: "Great product ",
			want: []string{
				"set submittedURL=",
				"set submittedReview=Great product",
				"show",
				"analyze |Great product",
				"hide",
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, s, ind, r := setup(nil)
			path, err := c.Submit(context.Background(), s, ind, tc.url, tc.review)
			require.NoError(t, err)
			assert.Equal(t, ResultPath, path)
			assert.Equal(t, tc.want, r.events)
		})
	}
}

func TestSubmitFailureHidesIndicator(t *testing.T) {
	for _, failure := range []error{
		internalerrors.NewTransportError(errors.New("refused")),
		internalerrors.NewServerError(http.StatusInternalServerError),
	} {
		c, s, ind, r := setup(failure)
		path, err := c.Submit(context.Background(), s, ind, "https://x.example", "")
		assert.ErrorIs(t, err, failure)
		assert.Empty(t, path)
		require.NotEmpty(t, r.events)
		assert.Equal(t, "hide", r.events[len(r.events)-1])
		assert.Equal(t, internalerrors.MsgAnalyzeFailed, internalerrors.UserMessage(err))

		// форма остается заполненной для повтора
		v, err := s.Get(context.Background(), session.KeyURL)
		require.NoError(t, err)
		assert.Equal(t, "https://x.example", v)
	}
}
