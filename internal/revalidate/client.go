// Package revalidate asks the job board web app to re-render its listing after new rows land.
package revalidate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Client struct {
	url        string
	token      string
	httpClient *http.Client
	newBackOff func() backoff.BackOff
}

func NewClient(url, token string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		newBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(backoff.WithInitialInterval(time.Second)), 2)
		},
	}
}

// Response mirrors the JSON the revalidate route answers with.
type Response struct {
	Revalidated bool      `json:"revalidated"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Error       string    `json:"error,omitempty"`
}

// Trigger POSTs to the revalidate route. 5xx answers are retried; a 401 means the
// token is wrong and is returned at once.
func (c *Client) Trigger(ctx context.Context) (*Response, error) {
	b := backoff.WithContext(c.newBackOff(), ctx)
	return backoff.RetryWithData(func() (*Response, error) {
		return c.post(ctx)
	}, b)
}

func (c *Client) post(ctx context.Context) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create http request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("revalidate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var out Response
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode != http.StatusOK {
		msg := out.Error
		if decodeErr != nil || msg == "" {
			msg = string(body)
		}
		err := fmt.Errorf("revalidate returned status %d: %s", resp.StatusCode, msg)
		if resp.StatusCode >= 500 {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}
	if decodeErr != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to decode response: %w", decodeErr))
	}
	if !out.Revalidated {
		return nil, backoff.Permanent(fmt.Errorf("revalidate not applied: %s", out.Message))
	}
	return &out, nil
}
