// Package driver opens interactive SSH sessions to network devices and
// runs CLI commands over them. One session serves one device; commands
// on a session are strictly sequential. Connection errors are wrapped
// in typed errors so callers can tell an auth rejection from a busy
// device.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"time"

	expect "github.com/google/goexpect"
	"github.com/sirupsen/logrus"

	"github.com/netherd-io/netherd/pkg/platform"
)

// prompts holds the prompt shape per driver flavor. Matched against the
// tail of the receive buffer, so each pattern anchors at end of line.
var prompts = map[platform.Driver]*regexp.Regexp{
	platform.DriverIOSLike:   regexp.MustCompile(`(?m)[\w.\-]+[#>]\s*$`),
	platform.DriverNXOSLike:  regexp.MustCompile(`(?m)[\w.\-]+#\s*$`),
	platform.DriverEOSLike:   regexp.MustCompile(`(?m)[\w.\-]+[#>]\s*$`),
	platform.DriverJunosLike: regexp.MustCompile(`(?m)[\w.\-]+@[\w.\-]+[%>#]\s*$`),
	platform.DriverWLCLike:   regexp.MustCompile(`(?m)\([\w.\- ]+\)\s*>\s*$`),
}

var defaultPrompt = regexp.MustCompile(`(?m)[\w.\-\[\]()]+[#>]\s*$`)

// pagerOff holds the command each flavor uses to stop output paging.
// Issued once at session start so long tables never stall on --More--.
var pagerOff = map[platform.Driver]string{
	platform.DriverIOSLike:   "terminal length 0",
	platform.DriverNXOSLike:  "terminal length 0",
	platform.DriverEOSLike:   "terminal length 0",
	platform.DriverJunosLike: "set cli screen-length 0",
	platform.DriverWLCLike:   "config paging disable",
}

func promptFor(drv platform.Driver) *regexp.Regexp {
	if re, ok := prompts[drv]; ok {
		return re
	}
	return defaultPrompt
}

// expecter is the slice of *expect.GExpect the session layer uses.
// Tests substitute a scripted implementation.
type expecter interface {
	Expect(re *regexp.Regexp, timeout time.Duration) (string, []string, error)
	Send(in string) error
	Close() error
}

// Session is an authenticated interactive CLI session on one device.
// Not safe for concurrent Run calls; the collector issues commands
// sequentially per device.
type Session struct {
	host      string
	driver    platform.Driver
	promptRE  *regexp.Regexp
	timeout   time.Duration
	exp       expecter
	transport io.Closer
	log       *logrus.Entry

	mu     sync.Mutex
	closed bool
}

// Host returns the device address the session is connected to.
func (s *Session) Host() string { return s.host }

// handshake waits for the login prompt and turns the pager off. A
// failed pager command is logged and tolerated; some restricted
// accounts reject it but still allow show commands.
func (s *Session) handshake(ctx context.Context) error {
	if _, err := s.wait(ctx); err != nil {
		return Classify(s.host, fmt.Errorf("initial prompt: %w", err))
	}
	cmd, ok := pagerOff[s.driver]
	if !ok {
		return nil
	}
	if _, err := s.Run(ctx, cmd); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		s.log.Warnf("pager disable %q failed: %v", cmd, err)
	}
	return nil
}

// Run sends one command and returns its output with the echo and
// trailing prompt stripped. On timeout the partial output collected so
// far is returned alongside a CommandTimeoutError.
func (s *Session) Run(ctx context.Context, command string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.isClosed() {
		return "", &DriverError{Host: s.host, Err: errors.New("session closed")}
	}

	s.log.Debugf("run: %s", command)
	if err := s.exp.Send(command + "\n"); err != nil {
		return "", &DriverError{Host: s.host, Err: fmt.Errorf("send %q: %w", command, err)}
	}

	raw, err := s.wait(ctx)
	out := cleanOutput(raw, command, s.promptRE)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return out, err
		}
		if isTimeout(err) {
			return out, &CommandTimeoutError{Host: s.host, Command: command, Err: err}
		}
		return out, &DriverError{Host: s.host, Err: fmt.Errorf("command %q: %w", command, err)}
	}
	return out, nil
}

// wait blocks until the prompt reappears, the expect timer fires, or
// the context is cancelled. Cancellation abandons the receive; the
// drained goroutine exits once Expect returns on its own timer.
func (s *Session) wait(ctx context.Context) (string, error) {
	type reply struct {
		out string
		err error
	}
	ch := make(chan reply, 1)
	go func() {
		out, _, err := s.exp.Expect(s.promptRE, s.timeout)
		ch <- reply{out: out, err: err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.out, r.err
	}
}

// Close releases the expect session and the SSH transport. Safe to
// call more than once and on every error path.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	var errs []error
	if s.exp != nil {
		if err := s.exp.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.transport != nil {
		if err := s.transport.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// cleanOutput strips the command echo and any prompt lines from raw
// expect output. The first line is the echo whenever the device
// reflects input; prompt lines match the session's prompt shape.
func cleanOutput(raw, command string, promptRE *regexp.Regexp) string {
	if raw == "" {
		return ""
	}
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for i, line := range lines {
		if i == 0 && strings.Contains(line, command) {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && promptRE.MatchString(trimmed) {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

var _ expecter = (*expect.GExpect)(nil)
