package driver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"testing"
	"time"

	expect "github.com/google/goexpect"

	"github.com/netherd-io/netherd/pkg/util"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want interface{}
	}{
		{
			name: "ssh auth rejection",
			err:  errors.New("ssh: handshake failed: ssh: unable to authenticate, attempted methods [none password]"),
			want: &AuthError{},
		},
		{
			name: "permission denied",
			err:  errors.New("Permission denied (publickey,password)"),
			want: &AuthError{},
		},
		{
			name: "refused syscall",
			err:  &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED},
			want: &ConnectError{},
		},
		{
			name: "refused text",
			err:  errors.New("dial tcp 10.0.0.1:22: connect: connection refused"),
			want: &ConnectError{},
		},
		{
			name: "no route",
			err:  &net.OpError{Op: "dial", Err: syscall.EHOSTUNREACH},
			want: &UnreachableError{},
		},
		{
			name: "dns failure",
			err:  &net.DNSError{Name: "sw-missing.example.net", Err: "no such host"},
			want: &UnreachableError{},
		},
		{
			name: "deadline exceeded",
			err:  fmt.Errorf("dialing: %w", context.DeadlineExceeded),
			want: &TimeoutError{},
		},
		{
			name: "net timeout",
			err:  &net.OpError{Op: "dial", Err: &timeoutNetError{}},
			want: &TimeoutError{},
		},
		{
			name: "expect timer",
			err:  expect.TimeoutError(30 * time.Second),
			want: &TimeoutError{},
		},
		{
			name: "anything else",
			err:  errors.New("channel open failed"),
			want: &DriverError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("10.0.0.1", tt.err)
			if !matchesType(got, tt.want) {
				t.Errorf("Classify(%v) = %T, want %T", tt.err, got, tt.want)
			}
		})
	}
}

// matchesType checks the classified error against the expected typed
// error using errors.As, so wrapping depth does not matter.
func matchesType(got error, want interface{}) bool {
	switch want.(type) {
	case *AuthError:
		var e *AuthError
		return errors.As(got, &e)
	case *ConnectError:
		var e *ConnectError
		return errors.As(got, &e)
	case *TimeoutError:
		var e *TimeoutError
		return errors.As(got, &e)
	case *UnreachableError:
		var e *UnreachableError
		return errors.As(got, &e)
	case *DriverError:
		var e *DriverError
		return errors.As(got, &e)
	}
	return false
}

type timeoutNetError struct{}

func (e *timeoutNetError) Error() string   { return "i/o timeout" }
func (e *timeoutNetError) Timeout() bool   { return true }
func (e *timeoutNetError) Temporary() bool { return true }

func TestClassifyNil(t *testing.T) {
	if got := Classify("10.0.0.1", nil); got != nil {
		t.Errorf("Classify(nil) = %v, want nil", got)
	}
}

func TestClassifyPassesThroughTyped(t *testing.T) {
	orig := &AuthError{Host: "10.0.0.1", Err: errors.New("rejected")}
	if got := Classify("10.0.0.1", orig); got != error(orig) {
		t.Errorf("Classify(typed) = %v, want the original error unchanged", got)
	}

	wrapped := fmt.Errorf("attempt 2: %w", &ConnectError{Host: "10.0.0.1", Err: errors.New("refused")})
	if got := Classify("10.0.0.1", wrapped); got != wrapped {
		t.Errorf("Classify(wrapped typed) = %v, want the wrapper unchanged", got)
	}
}

func TestClassifyPassesThroughCancel(t *testing.T) {
	err := fmt.Errorf("dial tcp: %w", context.Canceled)
	got := Classify("10.0.0.1", err)
	if !errors.Is(got, context.Canceled) {
		t.Errorf("Classify(canceled) = %v, want the cancellation preserved", got)
	}
	if util.CategoryOf(got) != util.CategoryCancel {
		t.Errorf("CategoryOf = %q, want %q", util.CategoryOf(got), util.CategoryCancel)
	}
}

func TestErrorCategories(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want util.Category
	}{
		{"auth", &AuthError{Host: "h", Err: cause}, util.CategoryAuth},
		{"connect", &ConnectError{Host: "h", Err: cause}, util.CategoryTransient},
		{"timeout", &TimeoutError{Host: "h", Err: cause}, util.CategoryTransient},
		{"unreachable", &UnreachableError{Host: "h", Err: cause}, util.CategoryTransient},
		{"driver", &DriverError{Host: "h", Err: cause}, util.CategoryTransient},
		{"command timeout", &CommandTimeoutError{Host: "h", Command: "show version", Err: cause}, util.CategoryTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := util.CategoryOf(tt.err); got != tt.want {
				t.Errorf("CategoryOf(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorsCarryHostAndUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	tests := []struct {
		name string
		err  error
	}{
		{"auth", &AuthError{Host: "sw1", Err: cause}},
		{"connect", &ConnectError{Host: "sw1", Err: cause}},
		{"timeout", &TimeoutError{Host: "sw1", Err: cause}},
		{"unreachable", &UnreachableError{Host: "sw1", Err: cause}},
		{"driver", &DriverError{Host: "sw1", Err: cause}},
		{"command timeout", &CommandTimeoutError{Host: "sw1", Command: "show version", Err: cause}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, cause) {
				t.Errorf("%v does not unwrap to its cause", tt.err)
			}
			if msg := tt.err.Error(); !strings.Contains(msg, "sw1") {
				t.Errorf("Error() = %q, want the host in the message", msg)
			}
		})
	}
}

func TestRetryableOpen(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"connect refused", &ConnectError{Host: "h", Err: cause}, true},
		{"timeout", &TimeoutError{Host: "h", Err: cause}, true},
		{"driver", &DriverError{Host: "h", Err: cause}, true},
		{"auth", &AuthError{Host: "h", Err: cause}, false},
		{"unreachable", &UnreachableError{Host: "h", Err: cause}, false},
		{"cancel", context.Canceled, false},
		{"plain", cause, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryableOpen(tt.err); got != tt.want {
				t.Errorf("retryableOpen(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
