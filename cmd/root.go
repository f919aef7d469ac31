// Package cmd wires up the CLI flags and dispatches to the orchestrator.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"nmosconn/config"
	"nmosconn/internal/core"
	"nmosconn/internal/metrics"
	"nmosconn/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X nmosconn/cmd.version=1.1.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and connects the sender to the receiver.
func Execute(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg := config.Default()
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("nmosconn", flag.ContinueOnError)
	fs.SetOutput(stderr)
	// Accept the legacy --receiver_ip spelling alongside --receiver-ip.
	fs.SetNormalizeFunc(func(_ *flag.FlagSet, name string) flag.NormalizedName {
		return flag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	// ── nodes ────────────────────────────────────────────────────
	fs.StringVar(&cfg.ReceiverIP, "receiver-ip", cfg.ReceiverIP, "Receiver node address (required)")
	fs.IntVar(&cfg.ReceiverPort, "receiver-port", cfg.ReceiverPort, "Receiver node Connection API port (required)")
	fs.IntVar(&cfg.ReceiverIndex, "receiver-index", cfg.ReceiverIndex, "Index into the receiver list")
	fs.StringVar(&cfg.SenderIP, "sender-ip", cfg.SenderIP, "Sender node address (required)")
	fs.IntVar(&cfg.SenderPort, "sender-port", cfg.SenderPort, "Sender node Connection API port (required)")
	fs.IntVar(&cfg.SenderIndex, "sender-index", cfg.SenderIndex, "Index into the sender list")
	fs.StringVar(&cfg.APIVersion, "api-version", cfg.APIVersion, "IS-05 Connection API version")

	// ── connection details ───────────────────────────────────────
	var (
		rxIface, txDstIP, txSrcIP string
		txDstPort, txSrcPort      int
	)
	fs.StringVar(&rxIface, "receiver-interface-ip", "", "Receiver interface_ip")
	fs.StringVar(&txDstIP, "sender-destination-ip", "", "Sender destination_ip")
	fs.IntVar(&txDstPort, "sender-destination-port", 0, "Sender destination_port")
	fs.StringVar(&txSrcIP, "sender-source-ip", "", "Sender source_ip")
	fs.IntVar(&txSrcPort, "sender-source-port", 0, "Sender source_port")
	fs.StringVar(&cfg.Overwrite, "overwrite", cfg.Overwrite, "Omitted details: always (write null) or if-set (keep template)")

	// ── documents ────────────────────────────────────────────────
	fs.StringVar(&cfg.SenderFile, "sender-file", cfg.SenderFile, "Sender staged document")
	fs.StringVar(&cfg.ReceiverFile, "receiver-file", cfg.ReceiverFile, "Receiver staged document")
	fs.StringVar(&cfg.SDPFile, "sdp-file", cfg.SDPFile, "Where the fetched SDP is written")

	// ── timing ───────────────────────────────────────────────────
	fs.DurationVar(&cfg.StartDelay, "start-delay", cfg.StartDelay, "Delay between sender and receiver workflows")
	fs.IntVar(&cfg.SDPAttempts, "sdp-attempts", cfg.SDPAttempts, "Transport file fetch attempts")
	fs.DurationVar(&cfg.SDPTimeout, "sdp-timeout", cfg.SDPTimeout, "Timeout per transport file attempt")
	fs.DurationVar(&cfg.SDPRetryDelay, "sdp-retry-delay", cfg.SDPRetryDelay, "Pause between transport file attempts")
	fs.DurationVarP(&cfg.Timeout, "timeout", "w", cfg.Timeout, "Timeout for list and PATCH requests (0 = none)")

	// ── SSH tunnel ───────────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", cfg.TunnelSpec, "Reach the nodes via SSH gateway [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")

	// ── output ───────────────────────────────────────────────────
	var verbose int
	fs.CountVarP(&verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "Only print errors")
	fs.BoolVar(&cfg.ShowMetrics, "metrics", cfg.ShowMetrics, "Print request metrics as JSON when done")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Write the staged documents but do not PATCH")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(stderr, fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(stdout, fs)
		return nil
	}
	if showVersion {
		fmt.Fprintf(stdout, "nmosconn %s\n", version)
		return nil
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s (use --help for usage)", strings.Join(fs.Args(), " "))
	}

	cfg.Verbose += verbose
	if fs.Changed("receiver-interface-ip") {
		cfg.ReceiverInterfaceIP = &rxIface
	}
	if fs.Changed("sender-destination-ip") {
		cfg.SenderDestinationIP = &txDstIP
	}
	if fs.Changed("sender-destination-port") {
		cfg.SenderDestinationPort = &txDstPort
	}
	if fs.Changed("sender-source-ip") {
		cfg.SenderSourceIP = &txSrcIP
	}
	if fs.Changed("sender-source-port") {
		cfg.SenderSourcePort = &txSrcPort
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.ApplyTunnelSpec(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// ── build and run ────────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbosity())
	logger.SetOutput(stderr)
	m := metrics.New()

	orch, err := core.Build(cfg, logger, m)
	if err != nil {
		return err
	}
	defer orch.Close()

	_, runErr := orch.Run(ctx)

	if cfg.ShowMetrics {
		fmt.Fprintln(stdout, m.JSON())
	}
	return runErr
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, `nmosconn – NMOS IS-05 connection tool v%s

Connects one sender to one receiver by staging both ends through the
IS-05 Connection API.

Usage:
  nmosconn --sender-ip <ip> --sender-port <port> \
           --receiver-ip <ip> --receiver-port <port> [options]

Options:
`, version)
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintf(w, `
Examples:
  nmosconn --sender-ip 10.0.0.1 --sender-port 8080 --receiver-ip 10.0.0.2 --receiver-port 8080
  nmosconn ... --sender-destination-ip 239.100.1.1 --sender-destination-port 5004
  nmosconn ... --overwrite if-set --sender-file my_sender.json
  nmosconn -T ops@studio-gw ...              Reach the nodes through an SSH gateway

Most options can also be set through NMOSCONN_<OPTION> (e.g. NMOSCONN_SENDER_IP).
`)
}
