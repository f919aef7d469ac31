// Package metrics provides lightweight, lock-free counters for tracking
// the requests an nmosconn run makes against the two NMOS nodes.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks request activity for a single orchestration run.
// A nil Collector is safe to use: all methods become no-ops.
type Collector struct {
	listRequests     atomic.Int64
	sdpAttempts      atomic.Int64
	sdpFailures      atomic.Int64
	dispatchOK       atomic.Int64
	dispatchFailed   atomic.Int64
	errorsTotal      atomic.Int64
	bytesTransferred atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Resource list ────────────────────────────────────────────────────

// ListRequested records one GET against a sender or receiver list.
func (c *Collector) ListRequested() {
	if c == nil {
		return
	}
	c.listRequests.Add(1)
}

// ListRequests returns the number of list GETs issued.
func (c *Collector) ListRequests() int64 {
	if c == nil {
		return 0
	}
	return c.listRequests.Load()
}

// ── Transport file ───────────────────────────────────────────────────

// SDPAttempt records one transport-file GET attempt.
func (c *Collector) SDPAttempt() {
	if c == nil {
		return
	}
	c.sdpAttempts.Add(1)
}

// SDPFailure records one failed transport-file attempt.
func (c *Collector) SDPFailure() {
	if c == nil {
		return
	}
	c.sdpFailures.Add(1)
}

// SDPAttempts returns the total number of transport-file attempts.
func (c *Collector) SDPAttempts() int64 {
	if c == nil {
		return 0
	}
	return c.sdpAttempts.Load()
}

// SDPFailures returns the number of failed transport-file attempts.
func (c *Collector) SDPFailures() int64 {
	if c == nil {
		return 0
	}
	return c.sdpFailures.Load()
}

// ── Dispatch ─────────────────────────────────────────────────────────

// DispatchSucceeded records a staged PATCH answered with a 2xx status.
func (c *Collector) DispatchSucceeded() {
	if c == nil {
		return
	}
	c.dispatchOK.Add(1)
}

// DispatchFailed records a staged PATCH that errored or was rejected.
func (c *Collector) DispatchFailed() {
	if c == nil {
		return
	}
	c.dispatchFailed.Add(1)
}

// Dispatches returns the succeeded and failed PATCH counts.
func (c *Collector) Dispatches() (ok, failed int64) {
	if c == nil {
		return 0, 0
	}
	return c.dispatchOK.Load(), c.dispatchFailed.Load()
}

// ── I/O ──────────────────────────────────────────────────────────────

// BytesTransferred records n bytes sent or received on a node connection.
func (c *Collector) BytesTransferred(n int64) {
	if c == nil {
		return
	}
	c.bytesTransferred.Add(n)
}

// TotalBytes returns the bytes sent and received so far.
func (c *Collector) TotalBytes() int64 {
	if c == nil {
		return 0
	}
	return c.bytesTransferred.Load()
}

// ── Errors ───────────────────────────────────────────────────────────

// RecordError increments the error counter and stores the message.
func (c *Collector) RecordError(msg string) {
	if c == nil {
		return
	}
	c.errorsTotal.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ErrorCount returns the total number of errors recorded.
func (c *Collector) ErrorCount() int64 {
	if c == nil {
		return 0
	}
	return c.errorsTotal.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Elapsed          string `json:"elapsed"`
	ListRequests     int64  `json:"list_requests"`
	SDPAttempts      int64  `json:"sdp_attempts"`
	SDPFailures      int64  `json:"sdp_failures"`
	DispatchOK       int64  `json:"dispatch_ok"`
	DispatchFailed   int64  `json:"dispatch_failed"`
	BytesTransferred int64  `json:"bytes_transferred"`
	ErrorsTotal      int64  `json:"errors_total"`
	LastError        string `json:"last_error,omitempty"`
	LastErrorMessage string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Elapsed:          time.Since(c.startTime).Truncate(time.Millisecond).String(),
		ListRequests:     c.listRequests.Load(),
		SDPAttempts:      c.sdpAttempts.Load(),
		SDPFailures:      c.sdpFailures.Load(),
		DispatchOK:       c.dispatchOK.Load(),
		DispatchFailed:   c.dispatchFailed.Load(),
		BytesTransferred: c.bytesTransferred.Load(),
		ErrorsTotal:      c.errorsTotal.Load(),
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
