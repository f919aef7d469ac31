package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the NMOSCONN_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).  Durations accept Go
// syntax ("500ms", "2s") or a bare number of seconds.

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty,
// parseable values override the existing value.  Call it BEFORE CLI flag
// parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	// Nodes
	if v := os.Getenv("NMOSCONN_RECEIVER_IP"); v != "" {
		cfg.ReceiverIP = v
	}
	if v := envInt("NMOSCONN_RECEIVER_PORT"); v > 0 {
		cfg.ReceiverPort = v
	}
	if v := envInt("NMOSCONN_RECEIVER_INDEX"); v > 0 {
		cfg.ReceiverIndex = v
	}
	if v := os.Getenv("NMOSCONN_SENDER_IP"); v != "" {
		cfg.SenderIP = v
	}
	if v := envInt("NMOSCONN_SENDER_PORT"); v > 0 {
		cfg.SenderPort = v
	}
	if v := envInt("NMOSCONN_SENDER_INDEX"); v > 0 {
		cfg.SenderIndex = v
	}
	if v := os.Getenv("NMOSCONN_API_VERSION"); v != "" {
		cfg.APIVersion = v
	}

	// Connection details
	if v := os.Getenv("NMOSCONN_RECEIVER_INTERFACE_IP"); v != "" {
		cfg.ReceiverInterfaceIP = &v
	}
	if v := os.Getenv("NMOSCONN_SENDER_DESTINATION_IP"); v != "" {
		cfg.SenderDestinationIP = &v
	}
	if v := envInt("NMOSCONN_SENDER_DESTINATION_PORT"); v > 0 {
		cfg.SenderDestinationPort = &v
	}
	if v := os.Getenv("NMOSCONN_SENDER_SOURCE_IP"); v != "" {
		cfg.SenderSourceIP = &v
	}
	if v := envInt("NMOSCONN_SENDER_SOURCE_PORT"); v > 0 {
		cfg.SenderSourcePort = &v
	}
	if v := os.Getenv("NMOSCONN_OVERWRITE"); v != "" {
		cfg.Overwrite = v
	}

	// Documents
	if v := os.Getenv("NMOSCONN_SENDER_FILE"); v != "" {
		cfg.SenderFile = v
	}
	if v := os.Getenv("NMOSCONN_RECEIVER_FILE"); v != "" {
		cfg.ReceiverFile = v
	}
	if v := os.Getenv("NMOSCONN_SDP_FILE"); v != "" {
		cfg.SDPFile = v
	}

	// Timing
	if d, ok := envDuration("NMOSCONN_START_DELAY"); ok {
		cfg.StartDelay = d
	}
	if v := envInt("NMOSCONN_SDP_ATTEMPTS"); v > 0 {
		cfg.SDPAttempts = v
	}
	if d, ok := envDuration("NMOSCONN_SDP_TIMEOUT"); ok {
		cfg.SDPTimeout = d
	}
	if d, ok := envDuration("NMOSCONN_SDP_RETRY_DELAY"); ok {
		cfg.SDPRetryDelay = d
	}
	if d, ok := envDuration("NMOSCONN_TIMEOUT"); ok {
		cfg.Timeout = d
	}

	// SSH tunnel
	if v := os.Getenv("NMOSCONN_TUNNEL"); v != "" {
		cfg.TunnelSpec = v
	}
	if v := os.Getenv("NMOSCONN_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("NMOSCONN_SSH_PASSWORD") {
		cfg.SSHPassword = true
	}
	if envBool("NMOSCONN_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envBool("NMOSCONN_STRICT_HOSTKEY") {
		cfg.StrictHostKey = true
	}
	if v := os.Getenv("NMOSCONN_KNOWN_HOSTS"); v != "" {
		cfg.KnownHostsPath = v
	}

	// Output
	if v := envInt("NMOSCONN_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
	if envBool("NMOSCONN_QUIET") {
		cfg.Quiet = true
	}
	if envBool("NMOSCONN_METRICS") {
		cfg.ShowMetrics = true
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func envDuration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d, true
	}
	if sec, err := strconv.Atoi(v); err == nil {
		return time.Duration(sec) * time.Second, true
	}
	return 0, false
}
