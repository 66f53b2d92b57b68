package webclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type AttemptFunc func() (status int, body []byte, err error)

// DoWithRetry retries the attempt function on transient errors (429/5xx) or non-nil errors.
func DoWithRetry(ctx context.Context, attempts int, initialDelay time.Duration, fn AttemptFunc) (int, []byte, error) {
	if attempts <= 0 {
		attempts = 1
	}
	if initialDelay <= 0 {
		initialDelay = 2 * time.Second
	}
	delay := initialDelay
	for i := 0; i < attempts; i++ {
		status, body, err := fn()
		if err == nil && status != 429 && status < 500 {
			return status, body, nil
		}
		if i == attempts-1 {
			return status, body, err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return status, body, ctx.Err()
		case <-t.C:
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
	return 0, nil, context.DeadlineExceeded
}

// PostJSON marshals payload, POSTs it with the given headers and decodes the
// response body into out. Non-2xx statuses are returned as errors with the
// body included for upstream diagnostics.
func PostJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload, out interface{}) error {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webclient: marshal: %w", err)
	}

	_, respBody, err := DoWithRetry(ctx, 3, 2*time.Second, func() (int, []byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		SetDefaultHeaders(req)
		resp, err := client.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return resp.StatusCode, b, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(b, 256))
		}
		return resp.StatusCode, b, nil
	})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

// GetJSON performs a GET with the given headers and decodes into out.
func GetJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, out interface{}) error {
	_, respBody, err := DoWithRetry(ctx, 3, 2*time.Second, func() (int, []byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return 0, nil, err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		SetDefaultHeaders(req)
		resp, err := client.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return resp.StatusCode, b, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(b, 256))
		}
		return resp.StatusCode, b, nil
	})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
