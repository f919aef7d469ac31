package transport

import (
	"context"
	"net"
	"net/http"
	"time"

	"nmosconn/internal/metrics"
)

// NewHTTPClient returns an HTTP client whose connections are opened by
// dialer.  The client sets no timeout of its own: every request carries
// a context deadline chosen by its caller.  Bytes read and written are
// recorded on m, which may be nil.
func NewHTTPClient(dialer Dialer, m *metrics.Collector) *http.Client {
	tr := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.Dial(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return &countingConn{Conn: conn, m: m}, nil
		},
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}
	return &http.Client{Transport: tr}
}

type countingConn struct {
	net.Conn
	m *metrics.Collector
}

func (c *countingConn) Read(p []byte) (int, error) {
	n, err := c.Conn.Read(p)
	c.m.BytesTransferred(int64(n))
	return n, err
}

func (c *countingConn) Write(p []byte) (int, error) {
	n, err := c.Conn.Write(p)
	c.m.BytesTransferred(int64(n))
	return n, err
}
