package driver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	expect "github.com/google/goexpect"

	"github.com/netherd-io/netherd/pkg/util"
)

// AuthError reports a rejected login. Never retried; the device is
// marked failed for the whole run.
type AuthError struct {
	Host string
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: authentication failed: %v", e.Host, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Category() util.Category { return util.CategoryAuth }

// ConnectError reports a refused TCP connection.
type ConnectError struct {
	Host string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("%s: connection refused: %v", e.Host, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

func (e *ConnectError) Category() util.Category { return util.CategoryTransient }

// TimeoutError reports a dial, handshake, or prompt wait that ran out
// of time.
type TimeoutError struct {
	Host string
	Err  error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out: %v", e.Host, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

func (e *TimeoutError) Category() util.Category { return util.CategoryTransient }

// UnreachableError reports a host with no route or no DNS entry.
// Transport-class, but not retried within a run: a missing route does
// not come back between attempts the way a busy device does.
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("%s: unreachable: %v", e.Host, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

func (e *UnreachableError) Category() util.Category { return util.CategoryTransient }

// DriverError reports a session-layer failure after the transport came
// up: expect spawn failed, prompt never appeared, send failed.
type DriverError struct {
	Host string
	Err  error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%s: driver error: %v", e.Host, e.Err)
}

func (e *DriverError) Unwrap() error { return e.Err }

func (e *DriverError) Category() util.Category { return util.CategoryTransient }

// CommandTimeoutError reports a single command that did not return to
// the prompt in time. The session may still hold buffered output, so
// callers get whatever arrived before the timer fired.
type CommandTimeoutError struct {
	Host    string
	Command string
	Err     error
}

func (e *CommandTimeoutError) Error() string {
	return fmt.Sprintf("%s: command %q timed out: %v", e.Host, e.Command, e.Err)
}

func (e *CommandTimeoutError) Unwrap() error { return e.Err }

func (e *CommandTimeoutError) Category() util.Category { return util.CategoryTransient }

// Classify wraps a raw transport or expect error in the typed error
// matching its cause. Already-typed errors and context cancellation
// pass through unchanged.
func Classify(host string, err error) error {
	if err == nil {
		return nil
	}

	var (
		authErr     *AuthError
		connErr     *ConnectError
		timeoutErr  *TimeoutError
		unreachErr  *UnreachableError
		driverErr   *DriverError
		cmdTimedOut *CommandTimeoutError
	)
	if errors.As(err, &authErr) || errors.As(err, &connErr) || errors.As(err, &timeoutErr) ||
		errors.As(err, &unreachErr) || errors.As(err, &driverErr) || errors.As(err, &cmdTimedOut) {
		return err
	}

	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Host: host, Err: err}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unable to authenticate"),
		strings.Contains(msg, "permission denied"),
		strings.Contains(msg, "password rejected"):
		return &AuthError{Host: host, Err: err}

	case errors.Is(err, syscall.ECONNREFUSED),
		strings.Contains(msg, "connection refused"):
		return &ConnectError{Host: host, Err: err}

	case errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH),
		isDNSFailure(err),
		strings.Contains(msg, "no route to host"),
		strings.Contains(msg, "network is unreachable"):
		return &UnreachableError{Host: host, Err: err}

	case isTimeout(err):
		return &TimeoutError{Host: host, Err: err}
	}

	return &DriverError{Host: host, Err: err}
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var expTimeout expect.TimeoutError
	return errors.As(err, &expTimeout)
}

func isDNSFailure(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// retryableOpen reports whether a failed connect attempt is worth
// repeating. Refused connections and timeouts recover on their own;
// auth rejections and missing routes do not.
func retryableOpen(err error) bool {
	var (
		connErr    *ConnectError
		timeoutErr *TimeoutError
		driverErr  *DriverError
	)
	return errors.As(err, &connErr) || errors.As(err, &timeoutErr) || errors.As(err, &driverErr)
}
