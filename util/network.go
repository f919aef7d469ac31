package util

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// FormatAddr returns "host:port", bracketing IPv6 literals.
func FormatAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// ValidateHost accepts an IP literal or a syntactically plausible host
// name.  No DNS lookup is performed.
func ValidateHost(host string) error {
	if host == "" {
		return fmt.Errorf("empty host")
	}
	if net.ParseIP(host) != nil {
		return nil
	}
	if strings.ContainsAny(host, " /:?#@") {
		return fmt.Errorf("invalid host %q", host)
	}
	return nil
}

// ValidPort reports whether port is in 1-65535.
func ValidPort(port int) bool {
	return port >= 1 && port <= 65535
}
