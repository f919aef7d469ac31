package nmos

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pion/logging"
	"github.com/pion/sdp/v3"

	ncerr "nmosconn/internal/errors"
	"nmosconn/internal/metrics"
	"nmosconn/internal/retry"
)

// Transport file fetch defaults.
const (
	DefaultSDPAttempts   = 10
	DefaultSDPTimeout    = 5 * time.Second
	DefaultSDPRetryDelay = 500 * time.Millisecond
)

// Retriever fetches a sender's transport file, retrying while the node
// has not staged it yet.
type Retriever struct {
	// MaxAttempts is the total number of GETs before giving up.
	MaxAttempts int
	// AttemptTimeout bounds each GET.
	AttemptTimeout time.Duration
	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration

	client  *http.Client
	metrics *metrics.Collector
	log     logging.LeveledLogger
}

// NewRetriever creates a Retriever with the default retry budget.
func NewRetriever(client *http.Client, m *metrics.Collector, lf logging.LoggerFactory) *Retriever {
	return &Retriever{
		MaxAttempts:    DefaultSDPAttempts,
		AttemptTimeout: DefaultSDPTimeout,
		RetryDelay:     DefaultSDPRetryDelay,
		client:         clientOrDefault(client),
		metrics:        m,
		log:            lf.NewLogger("sdp"),
	}
}

// Fetch GETs url until it answers 200 and returns the body untouched.
// Once MaxAttempts attempts have failed the error wraps
// [ncerr.ErrFetchExhausted] and the last failure.  Cancelling ctx or an
// oversized body ends the loop at once.
func (r *Retriever) Fetch(ctx context.Context, url string) (SDP, error) {
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultSDPAttempts
	}
	b := retry.Constant(r.RetryDelay, attempts)
	b.OnRetry = func(attempt int, err error, wait time.Duration) {
		r.log.Warnf("attempt=%d/%d url=%s: %v; retrying in %v", attempt, attempts, url, err, wait)
	}

	var out SDP
	err := b.Do(ctx, func(attempt int) error {
		r.metrics.SDPAttempt()
		status, body, err := get(ctx, r.client, url, r.AttemptTimeout)
		if err == nil && status != http.StatusOK {
			err = &ncerr.HTTPError{Method: http.MethodGet, URL: url, StatusCode: status, Body: string(body)}
		}
		if err != nil {
			r.metrics.SDPFailure()
			switch {
			case ctx.Err() != nil:
				return retry.Permanent(ctx.Err())
			case ncerr.Is(err, ncerr.ErrBodyTooLarge):
				return retry.Permanent(err)
			}
			return err
		}
		out = SDP(body)
		r.log.Infof("fetched transport file attempt=%d bytes=%d", attempt, len(body))
		return nil
	})
	if err != nil {
		var ex *retry.ExhaustedError
		if ncerr.As(err, &ex) {
			r.log.Errorf("giving up on %s after %d attempts", url, ex.Attempts)
			r.metrics.RecordError(err.Error())
			return "", fmt.Errorf("%s: %w: %w", url, ncerr.ErrFetchExhausted, err)
		}
		return "", err
	}
	return out, nil
}

// ── inspection ───────────────────────────────────────────────────────

// SDPSummary is the part of a session description worth logging.
type SDPSummary struct {
	Origin      string
	SessionName string
	Media       []string
}

func (s SDPSummary) String() string {
	return fmt.Sprintf("origin=%q session=%q media=[%s]",
		s.Origin, s.SessionName, strings.Join(s.Media, ", "))
}

// InspectSDP parses s for logging.  The SDP itself is never rewritten.
func InspectSDP(s SDP) (SDPSummary, error) {
	var desc sdp.SessionDescription
	if err := desc.Unmarshal([]byte(s)); err != nil {
		return SDPSummary{}, fmt.Errorf("parse sdp: %w", err)
	}

	o := desc.Origin
	sum := SDPSummary{
		Origin:      fmt.Sprintf("%s %d %s %s", o.Username, o.SessionID, o.AddressType, o.UnicastAddress),
		SessionName: string(desc.SessionName),
	}
	for _, md := range desc.MediaDescriptions {
		mn := md.MediaName
		line := fmt.Sprintf("%s %d %s %s", mn.Media, mn.Port.Value,
			strings.Join(mn.Protos, "/"), strings.Join(mn.Formats, " "))
		if ci := md.ConnectionInformation; ci != nil && ci.Address != nil {
			line += " c=" + ci.Address.Address
		} else if ci := desc.ConnectionInformation; ci != nil && ci.Address != nil {
			line += " c=" + ci.Address.Address
		}
		sum.Media = append(sum.Media, line)
	}
	return sum, nil
}
