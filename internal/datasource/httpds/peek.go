package httpds

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// FetchFirstBytes retrieves up to n bytes from the given URL using HTTP
// GET. A Range header ("bytes=0-(n-1)") is sent as an optimization and a
// client-side LimitedReader caps the result even when the server ignores
// Range and answers 200 with the full body. The returned slice length is
// <= n.
func (c *Client) FetchFirstBytes(ctx context.Context, url string, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("httpds: n must be > 0")
	}

	h := make(http.Header)
	h.Set("Range", fmt.Sprintf("bytes=0-%d", n-1))

	resp, err := c.Get(ctx, url, h)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	lr := &io.LimitedReader{R: resp.Body, N: int64(n)}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(lr); err != nil && err != io.EOF {
		return nil, err
	}
	return buf.Bytes(), nil
}
