package nmos

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pion/logging"

	ncerr "nmosconn/internal/errors"
	"nmosconn/internal/metrics"
)

// DispatchResult records the outcome of one staged PATCH.
type DispatchResult struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

// OK reports whether the node accepted the document.
func (r DispatchResult) OK() bool { return r.Err == nil }

// Dispatcher PATCHes staged documents to nodes.
type Dispatcher struct {
	client  *http.Client
	timeout time.Duration
	metrics *metrics.Collector
	log     logging.LeveledLogger
}

// NewDispatcher creates a Dispatcher.  timeout bounds each PATCH.
func NewDispatcher(client *http.Client, timeout time.Duration, m *metrics.Collector, lf logging.LoggerFactory) *Dispatcher {
	return &Dispatcher{
		client:  clientOrDefault(client),
		timeout: timeout,
		metrics: m,
		log:     lf.NewLogger("dispatch"),
	}
}

// Dispatch sends doc to url as application/json.  Failures are logged
// and recorded in the result; the caller decides whether they matter.
func (d *Dispatcher) Dispatch(ctx context.Context, doc Document, url string) DispatchResult {
	res := DispatchResult{URL: url}

	payload, err := json.Marshal(doc)
	if err != nil {
		res.Err = err
		d.fail(res)
		return res
	}

	d.log.Debugf("PATCH url=%s bytes=%d", url, len(payload))
	status, body, err := do(ctx, d.client, http.MethodPatch, url, bytes.NewReader(payload), d.timeout)
	res.StatusCode = status
	res.Body = string(body)
	if err == nil && (status < 200 || status > 299) {
		err = &ncerr.HTTPError{Method: http.MethodPatch, URL: url, StatusCode: status, Body: res.Body}
	}
	if err != nil {
		res.Err = err
		d.fail(res)
		return res
	}

	d.metrics.DispatchSucceeded()
	d.log.Infof("PATCH url=%s status=%d", url, status)
	return res
}

func (d *Dispatcher) fail(res DispatchResult) {
	d.metrics.DispatchFailed()
	d.metrics.RecordError(res.Err.Error())
	d.log.Errorf("PATCH url=%s status=%d: %v", res.URL, res.StatusCode, res.Err)
}
