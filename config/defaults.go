package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// Defaults shared by CLI flags and environment loading.  Transport-file
// retry defaults live next to the retriever in internal/nmos.

const (
	// DefaultSenderFile is the staged document PATCHed to the sender.
	DefaultSenderFile = "sender.json"

	// DefaultReceiverFile is the staged document PATCHed to the receiver.
	DefaultReceiverFile = "receiver.json"

	// DefaultSDPFile is where the fetched transport file is kept.
	DefaultSDPFile = "fetched_sender.sdp"

	// DefaultStartDelay separates the sender and receiver workflows.
	DefaultStartDelay = 2 * time.Second

	// DefaultRequestTimeout bounds list GETs and staged PATCHes.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultOverwrite writes null for omitted connection details.
	DefaultOverwrite = "always"

	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultConnTimeout is the TCP/SSH connection timeout.
	DefaultConnTimeout = 10 * time.Second
)
