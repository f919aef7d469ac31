// Package transport decides how nmosconn reaches the NMOS nodes: a plain
// TCP connection or a channel through an SSH gateway.  The HTTP client
// used by every Connection API call is built on top of a Dialer.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound network connections.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer
	// (e.g. an SSH session).  Stateless dialers return nil.
	Close() error
}
