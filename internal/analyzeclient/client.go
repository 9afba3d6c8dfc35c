// Пакет клиента эндпоинта /analyze
package analyzeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SversusN/reviewcheck/internal/internalerrors"
	"github.com/SversusN/reviewcheck/internal/pkg/utils"
)

// Path путь эндпоинта анализа
const Path = "analyze"

// Request тело запроса /analyze
type Request struct {
	URL        string `json:"url"`
	ReviewText string `json:"review_text"`
}

// Client отправляет отзыв на анализ. Повторов и таймаута нет, время ограничивает ctx
type Client struct {
	endpoint string
	http     *http.Client
}

func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{endpoint: utils.GetFullURL(baseURL, Path), http: hc}
}

// Analyze POST /analyze. Тело ответа не используется
func (c *Client) Analyze(ctx context.Context, url, reviewText string) error {
	body, err := json.Marshal(Request{URL: url, ReviewText: reviewText})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return internalerrors.NewTransportError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return internalerrors.NewTransportError(err)
	}
	defer resp.Body.Close()
	if _, err = io.Copy(io.Discard, resp.Body); err != nil {
		return internalerrors.NewTransportError(fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return internalerrors.NewServerError(resp.StatusCode)
	}
	return nil
}
