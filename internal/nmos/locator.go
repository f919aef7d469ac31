package nmos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pion/logging"

	ncerr "nmosconn/internal/errors"
	"nmosconn/internal/metrics"
)

// ResolveID picks element index from a Connection API list body such
// as ["/abc-123/", "/def-456/"] and strips the surrounding slashes.
// Every failure wraps [ncerr.ErrNotFound].
func ResolveID(body []byte, index int) (ResourceID, error) {
	var paths []string
	if err := json.Unmarshal(body, &paths); err != nil {
		return "", ncerr.NotFound("resource list", err)
	}
	if index < 0 || index >= len(paths) {
		return "", ncerr.NotFound(
			fmt.Sprintf("index %d of %d resources", index, len(paths)), nil)
	}
	id := strings.Trim(paths[index], "/")
	if id == "" {
		return "", ncerr.NotFound(fmt.Sprintf("resource %d has an empty path", index), nil)
	}
	return ResourceID(id), nil
}

// Locator resolves resource identifiers from a node's list endpoint.
type Locator struct {
	client  *http.Client
	timeout time.Duration
	metrics *metrics.Collector
	log     logging.LeveledLogger
}

// NewLocator creates a Locator.  timeout bounds each list request.
func NewLocator(client *http.Client, timeout time.Duration, m *metrics.Collector, lf logging.LoggerFactory) *Locator {
	return &Locator{
		client:  clientOrDefault(client),
		timeout: timeout,
		metrics: m,
		log:     lf.NewLogger("locator"),
	}
}

// Resolve GETs listURL and returns the identifier at index.
func (l *Locator) Resolve(ctx context.Context, listURL string, index int) (ResourceID, error) {
	l.metrics.ListRequested()
	l.log.Debugf("GET url=%s index=%d", listURL, index)

	status, body, err := get(ctx, l.client, listURL, l.timeout)
	if err != nil {
		l.log.Errorf("list request failed url=%s: %v", listURL, err)
		l.metrics.RecordError(err.Error())
		return "", ncerr.NotFound(listURL, err)
	}
	if status != http.StatusOK {
		herr := &ncerr.HTTPError{Method: http.MethodGet, URL: listURL, StatusCode: status, Body: string(body)}
		l.log.Errorf("list request rejected url=%s status=%d", listURL, status)
		l.metrics.RecordError(herr.Error())
		return "", ncerr.NotFound(listURL, herr)
	}

	id, err := ResolveID(body, index)
	if err != nil {
		l.log.Errorf("resolve url=%s: %v", listURL, err)
		l.metrics.RecordError(err.Error())
		return "", err
	}
	if !id.IsUUID() {
		l.log.Warnf("id=%s from %s is not a UUID", id, listURL)
	}
	l.log.Infof("resolved id=%s index=%d url=%s", id, index, listURL)
	return id, nil
}
