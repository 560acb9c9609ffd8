package usage

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Adapter fetches and normalizes usage data for one provider. Implementations
// never panic past this boundary and classify every failure as a *FetchError.
type Adapter interface {
	Fetch(ctx context.Context, key string) (*Result, error)
}

const (
	defaultTimeout = 15 * time.Second
	// maxBodyExcerpt bounds how much of an upstream error body is carried
	// into an error message.
	maxBodyExcerpt = 200
)

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

// bearerGet issues an authenticated GET and returns the response. The caller
// owns the body.
func bearerGet(ctx context.Context, client *http.Client, url, key string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+key)
	return client.Do(req)
}

// bodyExcerpt reads at most maxBodyExcerpt bytes of an error body for
// inclusion in an UpstreamError message.
func bodyExcerpt(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxBodyExcerpt))
	return string(b)
}

// monthWindow returns the half-open interval [start of current month, now)
// in Unix seconds.
func monthWindow(now time.Time) (int64, int64) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start.Unix(), now.Unix()
}
