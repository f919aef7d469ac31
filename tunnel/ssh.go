package tunnel

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/pion/logging"
	"golang.org/x/crypto/ssh"

	ncerr "nmosconn/internal/errors"
	"nmosconn/util"
)

// DefaultConnTimeout bounds the TCP dial and SSH handshake.
const DefaultConnTimeout = 30 * time.Second

// SSHConfig holds everything needed to dial an SSH gateway.
type SSHConfig struct {
	User          string
	Host          string
	Port          int
	KeyPath       string
	PromptPass    bool
	UseAgent      bool
	StrictHostKey bool
	KnownHosts    string
	ConnTimeout   time.Duration
}

// Addr returns the gateway address as host:port.
func (c *SSHConfig) Addr() string {
	return util.FormatAddr(c.Host, c.Port)
}

// SSHTunnel implements [Tunnel] on top of a single ssh.Client; every
// Dial opens a direct-tcpip channel on it.
type SSHTunnel struct {
	config *SSHConfig
	log    logging.LeveledLogger

	mu     sync.RWMutex
	client *ssh.Client
	alive  bool
}

// NewSSHTunnel creates a tunnel that is ready to [Connect].
func NewSSHTunnel(cfg *SSHConfig, lf logging.LoggerFactory) *SSHTunnel {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.ConnTimeout == 0 {
		cfg.ConnTimeout = DefaultConnTimeout
	}
	return &SSHTunnel{config: cfg, log: lf.NewLogger("tunnel")}
}

// Connect dials the SSH gateway and completes the handshake.
func (t *SSHTunnel) Connect(ctx context.Context) error {
	auth, err := BuildAuthMethods(t.config)
	if err != nil {
		return ncerr.WrapSSH("auth", t.config.Host, t.config.Port, err)
	}
	hostKeys, err := hostKeyCallback(t.config)
	if err != nil {
		return ncerr.WrapSSH("hostkey", t.config.Host, t.config.Port, err)
	}

	addr := t.config.Addr()
	t.log.Debugf("dialing gateway %s as %q", addr, t.config.User)

	dialer := net.Dialer{Timeout: t.config.ConnTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return ncerr.Wrap("dial", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, &ssh.ClientConfig{
		User:            t.config.User,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         t.config.ConnTimeout,
	})
	if err != nil {
		conn.Close()
		return ncerr.WrapSSH("handshake", t.config.Host, t.config.Port, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)

	t.mu.Lock()
	t.client = client
	t.alive = true
	t.mu.Unlock()

	go t.watch(client)
	t.log.Infof("gateway %s connected", addr)
	return nil
}

// Dial forwards a connection through the tunnel.  ssh.Client.Dial has
// no context parameter, so cancellation is honoured by closing the
// channel if ctx ends first.
func (t *SSHTunnel) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	t.mu.RLock()
	client, alive := t.client, t.alive
	t.mu.RUnlock()

	if !alive || client == nil {
		return nil, ncerr.ErrNotConnected
	}

	type result struct {
		conn net.Conn
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		c, err := client.Dial(network, address)
		ch <- result{c, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("tunnel dial %s: %w", address, r.err)
		}
		t.log.Tracef("channel open to %s", address)
		return r.conn, nil
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.conn != nil {
				r.conn.Close()
			}
		}()
		return nil, fmt.Errorf("tunnel dial %s: %w", address, ctx.Err())
	}
}

// Close shuts down the SSH connection.
func (t *SSHTunnel) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.alive = false
	if t.client == nil {
		return nil
	}
	err := t.client.Close()
	t.client = nil
	return err
}

// IsAlive reports whether the tunnel is still connected.
func (t *SSHTunnel) IsAlive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.alive
}

// watch blocks until the SSH connection closes and flips the alive flag.
func (t *SSHTunnel) watch(client *ssh.Client) {
	err := client.Wait()

	t.mu.Lock()
	if t.client == client {
		t.alive = false
	}
	t.mu.Unlock()

	if err != nil {
		t.log.Debugf("gateway connection closed: %v", err)
	} else {
		t.log.Debug("gateway connection closed")
	}
}
