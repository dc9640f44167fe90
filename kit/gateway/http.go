package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"
)

// HTTPClient calls the external gateway over HTTP/JSON. Every call carries a
// fixed timeout; a timed-out call surfaces as ErrTimeout so the breaker counts
// it as a failure.
type HTTPClient struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	hc      *http.Client
}

func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{baseURL: baseURL, apiKey: apiKey, timeout: timeout, hc: &http.Client{}}
}

func (c *HTTPClient) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Printf("layer=kit component=gateway method=Post path=%s err=%v", path, err)
		return nil, errors.Join(ErrClient, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		log.Printf("layer=kit component=gateway method=Post path=%s err=%v", path, err)
		return nil, errors.Join(ErrClient, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			log.Printf("layer=kit component=gateway method=Post path=%s err=timeout", path)
			return nil, ErrTimeout
		}
		log.Printf("layer=kit component=gateway method=Post path=%s err=%v", path, err)
		return nil, errors.Join(ErrServer, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		log.Printf("layer=kit component=gateway method=Post path=%s err=%v", path, err)
		return nil, errors.Join(ErrServer, err)
	}

	switch {
	case resp.StatusCode >= 500:
		log.Printf("layer=kit component=gateway method=Post path=%s status=%d", path, resp.StatusCode)
		return nil, ErrServer
	case resp.StatusCode >= 400:
		log.Printf("layer=kit component=gateway method=Post path=%s status=%d", path, resp.StatusCode)
		return nil, ErrClient
	}
	return raw, nil
}
