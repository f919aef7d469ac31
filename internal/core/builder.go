package core

import (
	"github.com/pion/logging"

	"nmosconn/config"
	"nmosconn/internal/metrics"
	"nmosconn/internal/nmos"
	"nmosconn/internal/transport"
	"nmosconn/tunnel"
)

// Build wires an Orchestrator from cfg.  The caller owns the result and
// must Close it to release an SSH tunnel.
func Build(cfg *config.Config, lf logging.LoggerFactory, m *metrics.Collector) (*Orchestrator, error) {
	policy, err := nmos.ParseOverwritePolicy(cfg.Overwrite)
	if err != nil {
		return nil, err
	}

	dialer := buildDialer(cfg, lf)
	client := transport.NewHTTPClient(dialer, m)

	retriever := nmos.NewRetriever(client, m, lf)
	retriever.MaxAttempts = cfg.SDPAttempts
	retriever.AttemptTimeout = cfg.SDPTimeout
	retriever.RetryDelay = cfg.SDPRetryDelay

	return &Orchestrator{
		Sender:        nmos.Node{Host: cfg.SenderIP, Port: cfg.SenderPort, APIVersion: cfg.APIVersion},
		Receiver:      nmos.Node{Host: cfg.ReceiverIP, Port: cfg.ReceiverPort, APIVersion: cfg.APIVersion},
		SenderIndex:   cfg.SenderIndex,
		ReceiverIndex: cfg.ReceiverIndex,
		Details:       cfg.ConnectionDetails(),
		Policy:        policy,
		SenderFile:    cfg.SenderFile,
		ReceiverFile:  cfg.ReceiverFile,
		SDPFile:       cfg.SDPFile,
		StartDelay:    cfg.StartDelay,
		DryRun:        cfg.DryRun,
		Locator:       nmos.NewLocator(client, cfg.Timeout, m, lf),
		Retriever:     retriever,
		Dispatcher:    nmos.NewDispatcher(client, cfg.Timeout, m, lf),
		Dialer:        dialer,
		Log:           lf.NewLogger("orchestrator"),
	}, nil
}

// buildDialer creates the right transport.Dialer for the given config.
func buildDialer(cfg *config.Config, lf logging.LoggerFactory) transport.Dialer {
	if cfg.TunnelEnabled {
		return transport.NewSSHDialer(&tunnel.SSHConfig{
			User:          cfg.TunnelUser,
			Host:          cfg.TunnelHost,
			Port:          cfg.TunnelPort,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
			ConnTimeout:   config.DefaultConnTimeout,
		}, lf)
	}
	return &transport.TCPDialer{
		Timeout:   config.DefaultConnTimeout,
		KeepAlive: config.DefaultConnTimeout,
	}
}
