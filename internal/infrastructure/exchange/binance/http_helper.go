package binance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"volrank/internal/domain"
)

// publicGet is the shared helper for unauthenticated REST calls.
func (c *MarketDataClient) publicGet(ctx context.Context, path string) ([]byte, error) {
	endpoint := strings.TrimRight(c.baseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request %s: %v", domain.ErrNetwork, path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", domain.ErrNetwork, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrNetwork, path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: binance api error %s: %d %s", domain.ErrDecode, path, resp.StatusCode, truncate(string(body), 256))
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
