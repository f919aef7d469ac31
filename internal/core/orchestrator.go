// Package core is the orchestration layer.  It composes the nmos
// building blocks into one connection run and provides a builder that
// wires them from a Config.
//
// Architecture layers (bottom → top):
//
//	transport  →  nmos  →  core  →  cmd (CLI)
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/pion/logging"
	"golang.org/x/sync/errgroup"

	ncerr "nmosconn/internal/errors"
	"nmosconn/internal/nmos"
	"nmosconn/internal/transport"
	"nmosconn/util"
)

// State is the step a workflow reached.
type State string

const (
	StatePending    State = "pending"
	StateFetchSDP   State = "fetch_sdp"
	StateBuildPatch State = "build_patch"
	StateDispatch   State = "dispatch"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// WorkflowResult is what one side of the connection reports after join.
// A rejected PATCH leaves Err nil and is visible in Dispatch.
type WorkflowResult struct {
	Role     nmos.Role
	State    State
	Dispatch nmos.DispatchResult
	Err      error
}

// Report collects the outcome of a run.
type Report struct {
	ReceiverID nmos.ResourceID
	SenderID   nmos.ResourceID
	Sender     WorkflowResult
	Receiver   WorkflowResult
}

// Err joins the workflow errors; nil when both workflows finished.
func (r *Report) Err() error {
	var errs []error
	if r.Sender.Err != nil {
		errs = append(errs, fmt.Errorf("sender workflow: %w", r.Sender.Err))
	}
	if r.Receiver.Err != nil {
		errs = append(errs, fmt.Errorf("receiver workflow: %w", r.Receiver.Err))
	}
	return ncerr.Join(errs...)
}

// Orchestrator connects one sender to one receiver.
type Orchestrator struct {
	Sender        nmos.Node
	Receiver      nmos.Node
	SenderIndex   int
	ReceiverIndex int

	Details nmos.ConnectionDetails
	Policy  nmos.OverwritePolicy

	SenderFile   string
	ReceiverFile string
	SDPFile      string

	// StartDelay separates the start of the sender workflow from the
	// receiver workflow.  It is a grace period, not a barrier.
	StartDelay time.Duration
	// DryRun builds and writes both documents without PATCHing them.
	DryRun bool

	Locator    *nmos.Locator
	Retriever  *nmos.Retriever
	Dispatcher *nmos.Dispatcher
	Dialer     transport.Dialer
	Log        logging.LeveledLogger
}

// Run validates the node addresses, resolves both resource IDs and then
// runs the sender and receiver workflows concurrently.  A failed
// workflow never cancels the other one and nothing is rolled back.
//
// Once the workflows have started the returned Report is always non-nil;
// the error is Report.Err().
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}

	rxID, err := o.Locator.Resolve(ctx, o.Receiver.ListURL(nmos.RoleReceiver), o.ReceiverIndex)
	if err != nil {
		return nil, fmt.Errorf("resolve receiver: %w", err)
	}
	txID, err := o.Locator.Resolve(ctx, o.Sender.ListURL(nmos.RoleSender), o.SenderIndex)
	if err != nil {
		return nil, fmt.Errorf("resolve sender: %w", err)
	}
	o.Log.Infof("connecting sender=%s on %s to receiver=%s on %s", txID, o.Sender, rxID, o.Receiver)

	report := &Report{
		ReceiverID: rxID,
		SenderID:   txID,
		Sender:     WorkflowResult{Role: nmos.RoleSender, State: StatePending},
		Receiver:   WorkflowResult{Role: nmos.RoleReceiver, State: StatePending},
	}

	// No derived context: one workflow failing must not cancel the other.
	var g errgroup.Group
	g.Go(func() error {
		report.Sender = o.runSender(ctx, txID, rxID)
		return report.Sender.Err
	})

	if err := sleepCtx(ctx, o.StartDelay); err != nil {
		report.Receiver.State = StateFailed
		report.Receiver.Err = fmt.Errorf("not started: %w", err)
	} else {
		g.Go(func() error {
			report.Receiver = o.runReceiver(ctx, rxID, txID)
			return report.Receiver.Err
		})
	}

	_ = g.Wait()
	o.logReport(report)
	return report, report.Err()
}

// Close releases the dialer, if any.
func (o *Orchestrator) Close() error {
	if o.Dialer == nil {
		return nil
	}
	return o.Dialer.Close()
}

func (o *Orchestrator) validate() error {
	for _, n := range []struct {
		role string
		node nmos.Node
	}{
		{"receiver", o.Receiver},
		{"sender", o.Sender},
	} {
		if err := util.ValidateHost(n.node.Host); err != nil {
			return &ncerr.ConfigError{Field: n.role + "-ip", Value: n.node.Host, Message: err.Error()}
		}
		if !util.ValidPort(n.node.Port) {
			return &ncerr.ConfigError{Field: n.role + "-port", Value: n.node.Port, Message: "port out of range 1-65535"}
		}
	}
	return nil
}

// ── workflows ────────────────────────────────────────────────────────

func (o *Orchestrator) runSender(ctx context.Context, self, receiverID nmos.ResourceID) (res WorkflowResult) {
	res = WorkflowResult{Role: nmos.RoleSender, State: StateBuildPatch}
	defer o.recoverWorkflow(&res)

	doc, err := nmos.LoadDocument(o.SenderFile, nmos.RoleSender)
	if err != nil {
		return o.fail(res, err)
	}
	doc, err = nmos.BuildSenderPatch(doc, receiverID, o.Details, o.Policy)
	if err != nil {
		return o.fail(res, err)
	}
	if err := nmos.SaveDocument(o.SenderFile, doc); err != nil {
		return o.fail(res, err)
	}
	o.Log.Debugf("role=sender wrote %s", o.SenderFile)

	return o.dispatch(ctx, res, doc, o.Sender.StagedURL(nmos.RoleSender, self))
}

func (o *Orchestrator) runReceiver(ctx context.Context, self, senderID nmos.ResourceID) (res WorkflowResult) {
	res = WorkflowResult{Role: nmos.RoleReceiver, State: StateFetchSDP}
	defer o.recoverWorkflow(&res)

	sdp, err := o.Retriever.Fetch(ctx, o.Sender.TransportFileURL(senderID))
	if err != nil {
		return o.fail(res, err)
	}
	if err := nmos.SaveSDP(o.SDPFile, sdp); err != nil {
		return o.fail(res, err)
	}
	if sum, err := nmos.InspectSDP(sdp); err != nil {
		o.Log.Warnf("role=receiver transport file is not valid SDP, embedding as-is: %v", err)
	} else {
		o.Log.Debugf("role=receiver transport file %s", sum)
	}

	res.State = StateBuildPatch
	doc, err := nmos.LoadDocument(o.ReceiverFile, nmos.RoleReceiver)
	if err != nil {
		return o.fail(res, err)
	}
	doc, err = nmos.BuildReceiverPatch(doc, senderID, sdp, o.Details, o.Policy)
	if err != nil {
		return o.fail(res, err)
	}
	if err := nmos.SaveDocument(o.ReceiverFile, doc); err != nil {
		return o.fail(res, err)
	}
	o.Log.Debugf("role=receiver wrote %s", o.ReceiverFile)

	return o.dispatch(ctx, res, doc, o.Receiver.StagedURL(nmos.RoleReceiver, self))
}

func (o *Orchestrator) dispatch(ctx context.Context, res WorkflowResult, doc nmos.Document, url string) WorkflowResult {
	res.State = StateDispatch
	if o.DryRun {
		o.Log.Infof("role=%s dry run, not sending PATCH to %s", res.Role, url)
		res.Dispatch = nmos.DispatchResult{URL: url}
	} else {
		res.Dispatch = o.Dispatcher.Dispatch(ctx, doc, url)
	}
	res.State = StateDone
	return res
}

func (o *Orchestrator) fail(res WorkflowResult, err error) WorkflowResult {
	o.Log.Errorf("role=%s state=%s: %v", res.Role, res.State, err)
	res.Err = err
	res.State = StateFailed
	return res
}

func (o *Orchestrator) recoverWorkflow(res *WorkflowResult) {
	if r := recover(); r != nil {
		*res = o.fail(*res, fmt.Errorf("panic: %v", r))
	}
}

func (o *Orchestrator) logReport(r *Report) {
	for _, w := range []WorkflowResult{r.Sender, r.Receiver} {
		switch {
		case w.Err != nil:
			o.Log.Errorf("role=%s finished state=%s", w.Role, w.State)
		case w.Dispatch.Err != nil:
			o.Log.Warnf("role=%s finished state=%s, PATCH rejected status=%d", w.Role, w.State, w.Dispatch.StatusCode)
		default:
			o.Log.Infof("role=%s finished state=%s status=%d", w.Role, w.State, w.Dispatch.StatusCode)
		}
	}
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
