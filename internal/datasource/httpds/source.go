package httpds

import (
	"context"
	"fmt"
	"io"
)

// URL adapts the retrying Client to the datasource.Source interface, so a
// remote CSV export can feed the pipeline like a local file.
type URL struct {
	client *Client
	url    string
}

// NewURL binds a client to one URL. A nil client gets default Config.
func NewURL(client *Client, url string) *URL {
	if client == nil {
		client = NewClient(Config{})
	}
	return &URL{client: client, url: url}
}

// Open issues the GET (with the client's retry policy) and returns the
// response body. Non-2xx final statuses are errors; the body is closed
// before returning them.
func (u *URL) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := u.client.Get(ctx, u.url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u.url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", u.url, resp.Status)
	}
	return resp.Body, nil
}
