package providers

import (
	"context"
	"fmt"
	"time"

	xhttp "StockPulse/pkg/http"
)

// HTTPProviderBase provides a DRY foundation for upstream data-provider clients.
// It centralizes client construction and JSON GET request handling.
type HTTPProviderBase struct {
	baseURL string
	client  *xhttp.Client
}

// NewHTTPProviderBase builds an HTTP client with the given base URL and timeout.
func NewHTTPProviderBase(baseURL string, timeout time.Duration) *HTTPProviderBase {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProviderBase{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// GetJSON issues a GET against `path` under baseURL and decodes the JSON body into dest.
func (b *HTTPProviderBase) GetJSON(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("provider http client not initialized")
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         b.baseURL + path,
		QueryParams: query,
	}, dest)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

// GetJSONWithRetry issues GetJSON with up to `attempts` retries for transient errors.
func (b *HTTPProviderBase) GetJSONWithRetry(ctx context.Context, path string, query map[string][]string, dest interface{}, attempts int) error {
	if attempts <= 1 {
		return b.GetJSON(ctx, path, query, dest)
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = b.GetJSON(ctx, path, query, dest)
		if err == nil {
			return nil
		}
		// simple backoff
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
