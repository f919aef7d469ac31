// Package config defines the runtime configuration for nmosconn and
// provides helpers for parsing the SSH jump-host address.
package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	ncerr "nmosconn/internal/errors"
	"nmosconn/internal/nmos"
	"nmosconn/util"
)

// Config holds every tuneable for a single connection run.
type Config struct {
	// ── Nodes ────────────────────────────────────────────────────────
	ReceiverIP    string
	ReceiverPort  int
	ReceiverIndex int
	SenderIP      string
	SenderPort    int
	SenderIndex   int
	APIVersion    string

	// ── Connection details (nil = not supplied) ──────────────────────
	ReceiverInterfaceIP   *string
	SenderDestinationIP   *string
	SenderDestinationPort *int
	SenderSourceIP        *string
	SenderSourcePort      *int
	Overwrite             string

	// ── Documents ────────────────────────────────────────────────────
	SenderFile   string
	ReceiverFile string
	SDPFile      string

	// ── Timing ───────────────────────────────────────────────────────
	StartDelay    time.Duration
	SDPAttempts   int
	SDPTimeout    time.Duration
	SDPRetryDelay time.Duration
	Timeout       time.Duration // list and PATCH requests

	// ── SSH tunnel ───────────────────────────────────────────────────
	TunnelSpec     string // raw user@host[:port] from -T
	TunnelEnabled  bool
	TunnelUser     string
	TunnelHost     string
	TunnelPort     int
	SSHKeyPath     string
	SSHPassword    bool // true → prompt interactively
	UseSSHAgent    bool
	StrictHostKey  bool
	KnownHostsPath string

	// ── Output ───────────────────────────────────────────────────────
	Verbose     int
	Quiet       bool
	ShowMetrics bool
	DryRun      bool
}

// Default returns a Config populated from defaults.go.
func Default() *Config {
	return &Config{
		APIVersion:    nmos.DefaultAPIVersion,
		Overwrite:     DefaultOverwrite,
		SenderFile:    DefaultSenderFile,
		ReceiverFile:  DefaultReceiverFile,
		SDPFile:       DefaultSDPFile,
		StartDelay:    DefaultStartDelay,
		SDPAttempts:   nmos.DefaultSDPAttempts,
		SDPTimeout:    nmos.DefaultSDPTimeout,
		SDPRetryDelay: nmos.DefaultSDPRetryDelay,
		Timeout:       DefaultRequestTimeout,
		Verbose:       1,
	}
}

// ConnectionDetails returns the operator-supplied transport parameters.
func (c *Config) ConnectionDetails() nmos.ConnectionDetails {
	return nmos.ConnectionDetails{
		SenderSourceIP:        c.SenderSourceIP,
		SenderSourcePort:      c.SenderSourcePort,
		SenderDestinationIP:   c.SenderDestinationIP,
		SenderDestinationPort: c.SenderDestinationPort,
		ReceiverInterfaceIP:   c.ReceiverInterfaceIP,
	}
}

// Verbosity folds Quiet and Verbose into a util.Logger level.
func (c *Config) Verbosity() int {
	if c.Quiet {
		return 0
	}
	return c.Verbose
}

// ── Tunnel-spec parser ───────────────────────────────────────────────

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:@]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "ops@gateway.studio.local:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q: expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || !util.ValidPort(port) {
			return "", "", 0, fmt.Errorf("invalid tunnel port %q", m[3])
		}
	}
	return user, host, port, nil
}

// ApplyTunnelSpec parses TunnelSpec into the Tunnel* fields.  An empty
// spec disables the tunnel.
func (c *Config) ApplyTunnelSpec() error {
	if c.TunnelSpec == "" {
		c.TunnelEnabled = false
		return nil
	}
	user, host, port, err := ParseTunnelSpec(c.TunnelSpec)
	if err != nil {
		return &ncerr.ConfigError{Field: "tunnel", Value: c.TunnelSpec, Message: err.Error()}
	}
	c.TunnelEnabled = true
	c.TunnelUser = user
	c.TunnelHost = host
	c.TunnelPort = port
	return nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is complete and internally
// consistent.  The first problem found is returned as a
// *errors.ConfigError.
func (c *Config) Validate() error {
	if err := validateNode("receiver", c.ReceiverIP, c.ReceiverPort, c.ReceiverIndex); err != nil {
		return err
	}
	if err := validateNode("sender", c.SenderIP, c.SenderPort, c.SenderIndex); err != nil {
		return err
	}

	for _, f := range []struct {
		name string
		ip   *string
	}{
		{"receiver-interface-ip", c.ReceiverInterfaceIP},
		{"sender-destination-ip", c.SenderDestinationIP},
		{"sender-source-ip", c.SenderSourceIP},
	} {
		if f.ip != nil {
			if err := util.ValidateHost(*f.ip); err != nil {
				return &ncerr.ConfigError{Field: f.name, Value: *f.ip, Message: err.Error()}
			}
		}
	}
	for _, f := range []struct {
		name string
		port *int
	}{
		{"sender-destination-port", c.SenderDestinationPort},
		{"sender-source-port", c.SenderSourcePort},
	} {
		if f.port != nil && !util.ValidPort(*f.port) {
			return &ncerr.ConfigError{Field: f.name, Value: *f.port, Message: "port out of range 1-65535"}
		}
	}

	if _, err := nmos.ParseOverwritePolicy(c.Overwrite); err != nil {
		return &ncerr.ConfigError{Field: "overwrite", Value: c.Overwrite, Message: err.Error(),
			Hint: "use --overwrite=if-set to keep template values for omitted fields"}
	}

	if c.APIVersion == "" {
		return &ncerr.ConfigError{Field: "api-version", Message: "must not be empty",
			Hint: "IS-05 versions look like v1.0 or v1.1"}
	}
	if c.SenderFile == "" || c.ReceiverFile == "" || c.SDPFile == "" {
		return &ncerr.ConfigError{Field: "sender-file", Message: "document paths must not be empty"}
	}
	sender, receiver, sdp := samePath(c.SenderFile), samePath(c.ReceiverFile), samePath(c.SDPFile)
	if sender == receiver {
		return &ncerr.ConfigError{Field: "receiver-file", Value: c.ReceiverFile,
			Message: "sender and receiver documents must be different files"}
	}
	if sdp == sender || sdp == receiver {
		return &ncerr.ConfigError{Field: "sdp-file", Value: c.SDPFile,
			Message: "must be different from the sender and receiver documents",
			Hint:    "the fetched SDP would overwrite a saved document"}
	}

	if c.StartDelay < 0 {
		return &ncerr.ConfigError{Field: "start-delay", Value: c.StartDelay, Message: "must not be negative"}
	}
	if c.SDPAttempts < 1 {
		return &ncerr.ConfigError{Field: "sdp-attempts", Value: c.SDPAttempts, Message: "must be at least 1"}
	}
	if c.SDPTimeout <= 0 {
		return &ncerr.ConfigError{Field: "sdp-timeout", Value: c.SDPTimeout, Message: "must be positive"}
	}
	if c.SDPRetryDelay <= 0 {
		return &ncerr.ConfigError{Field: "sdp-retry-delay", Value: c.SDPRetryDelay, Message: "must be positive"}
	}
	if c.Timeout < 0 {
		return &ncerr.ConfigError{Field: "timeout", Value: c.Timeout, Message: "must not be negative",
			Hint: "use 0 to disable the request timeout"}
	}

	if c.TunnelEnabled && c.TunnelHost == "" {
		return &ncerr.ConfigError{Field: "tunnel", Message: "tunnel host is required"}
	}
	return nil
}

func validateNode(role, host string, port, index int) error {
	if host == "" {
		return &ncerr.ConfigError{Field: role + "-ip", Message: "is required",
			Hint: "pass the " + role + " node address, e.g. --" + role + "-ip 192.168.1.20"}
	}
	if err := util.ValidateHost(host); err != nil {
		return &ncerr.ConfigError{Field: role + "-ip", Value: host, Message: err.Error()}
	}
	if port == 0 {
		return &ncerr.ConfigError{Field: role + "-port", Message: "is required",
			Hint: "the Connection API port of the " + role + " node"}
	}
	if !util.ValidPort(port) {
		return &ncerr.ConfigError{Field: role + "-port", Value: port, Message: "port out of range 1-65535"}
	}
	if index < 0 {
		return &ncerr.ConfigError{Field: role + "-index", Value: index, Message: "must not be negative"}
	}
	return nil
}

// samePath returns the absolute, cleaned form of p so that different
// spellings of one file compare equal.
func samePath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
