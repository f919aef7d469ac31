package nmos

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	ncerr "nmosconn/internal/errors"
)

// maxBodyBytes caps how much of any node response is buffered.  A
// larger body is an error rather than being cut short.
const maxBodyBytes = 4 << 20

// get issues a GET bounded by timeout (zero means ctx only) and returns
// the status and body.  Any status is returned without error; only
// transport failures produce one.
func get(ctx context.Context, client *http.Client, url string, timeout time.Duration) (int, []byte, error) {
	return do(ctx, client, http.MethodGet, url, nil, timeout)
}

func do(ctx context.Context, client *http.Client, method, url string, body io.Reader, timeout time.Duration) (int, []byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, application/sdp, */*")

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, ncerr.Wrap(method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return resp.StatusCode, nil, ncerr.Wrap(method, url, err)
	}
	if len(data) > maxBodyBytes {
		return resp.StatusCode, nil, ncerr.Wrap(method, url,
			fmt.Errorf("%w: more than %d bytes", ncerr.ErrBodyTooLarge, maxBodyBytes))
	}
	return resp.StatusCode, data, nil
}

func clientOrDefault(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}
