package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/pion/logging"

	"nmosconn/tunnel"
)

// SSHDialer routes connections through an SSH gateway.  The tunnel is
// connected lazily on the first Dial call and torn down on Close.
type SSHDialer struct {
	tunnel    tunnel.Tunnel
	config    *tunnel.SSHConfig
	log       logging.LeveledLogger
	mu        sync.Mutex
	connected bool
}

// NewSSHDialer creates a dialer that forwards connections through an
// SSH tunnel.  The tunnel is not connected until the first Dial.
func NewSSHDialer(cfg *tunnel.SSHConfig, lf logging.LoggerFactory) *SSHDialer {
	return newSSHDialer(tunnel.NewSSHTunnel(cfg, lf), cfg, lf)
}

func newSSHDialer(t tunnel.Tunnel, cfg *tunnel.SSHConfig, lf logging.LoggerFactory) *SSHDialer {
	return &SSHDialer{tunnel: t, config: cfg, log: lf.NewLogger("transport")}
}

func (d *SSHDialer) connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected && d.tunnel.IsAlive() {
		return nil
	}

	d.log.Debugf("establishing SSH tunnel to %s@%s", d.config.User, d.config.Addr())

	if err := d.tunnel.Connect(ctx); err != nil {
		return fmt.Errorf("tunnel: %w", err)
	}

	d.connected = true
	d.log.Debug("SSH tunnel established")
	return nil
}

// Dial connects to address through the SSH tunnel.  A tunnel that has
// dropped since the last call is re-established.
func (d *SSHDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	if err := d.connect(ctx); err != nil {
		return nil, err
	}
	return d.tunnel.Dial(ctx, network, address)
}

// Close tears down the underlying SSH tunnel.
func (d *SSHDialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		d.connected = false
		return d.tunnel.Close()
	}
	return nil
}
