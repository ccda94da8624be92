// Package netbox is a minimal client for the NetBox REST API covering
// the endpoints reconciliation needs: dcim devices, interfaces, cables,
// inventory items, ipam IP addresses and VLANs, and the reference
// objects they point at. Reads follow pagination; writes are plain
// create/update/delete with token auth.
package netbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"
	"github.com/sirupsen/logrus"

	"github.com/netherd-io/netherd/pkg/util"
)

const (
	// DefaultTimeout bounds a single HTTP exchange.
	DefaultTimeout = 30 * time.Second

	// defaultAttempts is how many times a throttled or failing call is
	// tried before the error surfaces to the caller.
	defaultAttempts = 3

	retryDelay    = time.Second
	maxRetryDelay = 10 * time.Second
)

// Client talks to one NetBox instance. Safe for concurrent use; it
// holds no per-call state.
type Client struct {
	base     string
	token    string
	http     *http.Client
	clk      clock.Clock
	attempts int
	log      *logrus.Entry
}

// New builds a Client for the given instance URL and API token.
func New(baseURL, token string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("netbox url %q: %w", baseURL, util.ErrInvalidConfig)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("netbox url %q must be http(s): %w", baseURL, util.ErrInvalidConfig)
	}
	if token == "" {
		return nil, fmt.Errorf("netbox token is empty: %w", util.ErrInvalidConfig)
	}
	return &Client{
		base:     strings.TrimRight(baseURL, "/"),
		token:    token,
		http:     &http.Client{Timeout: DefaultTimeout},
		clk:      clock.WallClock,
		attempts: defaultAttempts,
		log:      util.WithField("component", "netbox"),
	}, nil
}

// APIError is a non-2xx response from NetBox.
type APIError struct {
	Method string
	Path   string
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("netbox: %s %s: %d %s: %s", e.Method, e.Path, e.Status, http.StatusText(e.Status), e.Detail)
	}
	return fmt.Sprintf("netbox: %s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// Category maps the HTTP status onto the run error taxonomy: rejected
// tokens are fatal for the run, throttling and server faults retry,
// everything else counts against the single entity being written.
func (e *APIError) Category() util.Category {
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return util.CategoryAuth
	case e.Status == http.StatusTooManyRequests || e.Status >= 500:
		return util.CategoryTransient
	default:
		return util.CategorySemantic
	}
}

// IsNotFound reports whether err is a 404 from NetBox.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// do performs one API call with bounded retry on throttling and server
// faults. path is either an API path ("/api/dcim/devices/") or the
// absolute next-page URL NetBox hands back; body is marshalled to JSON
// when non-nil; out receives the decoded response when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("netbox: encoding %s %s: %w", method, path, err)
		}
	}

	target := path
	if !strings.HasPrefix(target, "http") {
		target = c.base + target
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	err := retry.Call(retry.CallArgs{
		Func: func() error {
			return c.once(ctx, method, target, path, payload, out)
		},
		IsFatalError: func(err error) bool {
			return !retryableCall(err)
		},
		NotifyFunc: func(err error, attempt int) {
			c.log.WithField("attempt", attempt).Warnf("%s %s failed, retrying: %v", method, path, err)
		},
		Attempts:    c.attempts,
		Delay:       retryDelay,
		MaxDelay:    maxRetryDelay,
		BackoffFunc: retry.DoubleDelay,
		Clock:       c.clk,
		Stop:        ctx.Done(),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if retry.IsAttemptsExceeded(err) || retry.IsRetryStopped(err) {
			err = retry.LastError(err)
		}
		return err
	}
	return nil
}

// once is a single request/response exchange.
func (c *Client) once(ctx context.Context, method, target, path string, payload []byte, out any) error {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return fmt.Errorf("netbox: building %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &APIError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Detail: errorDetail(resp.Body),
		}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("netbox: decoding %s %s: %w", method, path, err)
	}
	return nil
}

// errorDetail pulls NetBox's "detail" message out of an error body,
// falling back to the raw text.
func errorDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var shaped struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &shaped) == nil && shaped.Detail != "" {
		return shaped.Detail
	}
	return strings.TrimSpace(string(raw))
}

// retryableCall reports whether a failed exchange is worth repeating:
// throttling, server faults, and transport-level timeouts. Client
// mistakes and rejected tokens are not.
func retryableCall(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// page is NetBox's paginated list envelope.
type page[T any] struct {
	Count   int    `json:"count"`
	Next    string `json:"next"`
	Results []T    `json:"results"`
}

// listAll fetches every page of a list endpoint, following the next
// link until it runs out. The next URL carries its own query string.
func listAll[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var out []T
	next := path
	for next != "" {
		var pg page[T]
		if err := c.do(ctx, http.MethodGet, next, query, nil, &pg); err != nil {
			return nil, err
		}
		out = append(out, pg.Results...)
		next = pg.Next
		query = nil
	}
	return out, nil
}
