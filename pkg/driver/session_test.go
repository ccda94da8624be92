package driver

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	expect "github.com/google/goexpect"

	"github.com/netherd-io/netherd/pkg/platform"
	"github.com/netherd-io/netherd/pkg/util"
)

// fakeExpect replays a queue of canned Expect results and records
// every Send.
type fakeExpect struct {
	mu      sync.Mutex
	steps   []expectStep
	sent    []string
	sendErr error
	closed  int
}

type expectStep struct {
	out string
	err error
}

func (f *fakeExpect) Expect(re *regexp.Regexp, timeout time.Duration) (string, []string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.steps) == 0 {
		return "", nil, expect.TimeoutError(timeout)
	}
	st := f.steps[0]
	f.steps = f.steps[1:]
	return st.out, nil, st.err
}

func (f *fakeExpect) Send(in string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, in)
	return nil
}

func (f *fakeExpect) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeExpect) sentCommands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	copy(out, f.sent)
	return out
}

// countCloser counts Close calls on the fake transport.
type countCloser struct {
	mu     sync.Mutex
	closed int
}

func (c *countCloser) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

func newTestSession(fake *fakeExpect, transport *countCloser) *Session {
	return &Session{
		host:      "10.0.0.1",
		driver:    platform.DriverIOSLike,
		promptRE:  promptFor(platform.DriverIOSLike),
		timeout:   time.Second,
		exp:       fake,
		transport: transport,
		log:       util.WithDevice("test-sw1"),
	}
}

func TestSessionRunStripsEchoAndPrompt(t *testing.T) {
	fake := &fakeExpect{steps: []expectStep{
		{out: "show version\r\nCisco IOS Software, C2960 Software\r\nuptime is 5 weeks\r\naccess-sw1#"},
	}}
	s := newTestSession(fake, &countCloser{})

	got, err := s.Run(context.Background(), "show version")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := "Cisco IOS Software, C2960 Software\r\nuptime is 5 weeks"
	if got != want {
		t.Errorf("Run() = %q, want %q", got, want)
	}

	sent := fake.sentCommands()
	if len(sent) != 1 || sent[0] != "show version\n" {
		t.Errorf("sent = %q, want [\"show version\\n\"]", sent)
	}
}

func TestSessionRunTimeoutReturnsPartialOutput(t *testing.T) {
	fake := &fakeExpect{steps: []expectStep{
		{out: "show tech-support\npage one of output\n", err: expect.TimeoutError(time.Second)},
	}}
	s := newTestSession(fake, &countCloser{})

	got, err := s.Run(context.Background(), "show tech-support")
	if got != "page one of output" {
		t.Errorf("Run() partial output = %q, want %q", got, "page one of output")
	}
	var cmdErr *CommandTimeoutError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("Run() error = %T (%v), want *CommandTimeoutError", err, err)
	}
	if cmdErr.Host != "10.0.0.1" || cmdErr.Command != "show tech-support" {
		t.Errorf("CommandTimeoutError = %+v, want host and command filled in", cmdErr)
	}
	if util.CategoryOf(err) != util.CategoryTransient {
		t.Errorf("CategoryOf = %q, want %q", util.CategoryOf(err), util.CategoryTransient)
	}
}

func TestSessionRunSendFailure(t *testing.T) {
	fake := &fakeExpect{sendErr: errors.New("broken pipe")}
	s := newTestSession(fake, &countCloser{})

	_, err := s.Run(context.Background(), "show version")
	var drvErr *DriverError
	if !errors.As(err, &drvErr) {
		t.Fatalf("Run() error = %T (%v), want *DriverError", err, err)
	}
}

func TestSessionRunNonTimeoutExpectFailure(t *testing.T) {
	fake := &fakeExpect{steps: []expectStep{
		{out: "", err: errors.New("read: connection reset by peer")},
	}}
	s := newTestSession(fake, &countCloser{})

	_, err := s.Run(context.Background(), "show version")
	var drvErr *DriverError
	if !errors.As(err, &drvErr) {
		t.Fatalf("Run() error = %T (%v), want *DriverError", err, err)
	}
}

func TestSessionRunCanceledContext(t *testing.T) {
	fake := &fakeExpect{}
	s := newTestSession(fake, &countCloser{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, "show version")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(fake.sentCommands()) != 0 {
		t.Error("no command should be sent on a dead context")
	}
}

func TestSessionRunAfterClose(t *testing.T) {
	fake := &fakeExpect{}
	s := newTestSession(fake, &countCloser{})
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	_, err := s.Run(context.Background(), "show version")
	var drvErr *DriverError
	if !errors.As(err, &drvErr) {
		t.Fatalf("Run() after Close = %T (%v), want *DriverError", err, err)
	}
}

func TestSessionCloseIdempotent(t *testing.T) {
	fake := &fakeExpect{}
	transport := &countCloser{}
	s := newTestSession(fake, transport)

	for i := 0; i < 3; i++ {
		if err := s.Close(); err != nil {
			t.Fatalf("Close() #%d error = %v", i+1, err)
		}
	}
	if fake.closed != 1 {
		t.Errorf("expect session closed %d times, want 1", fake.closed)
	}
	if transport.closed != 1 {
		t.Errorf("transport closed %d times, want 1", transport.closed)
	}
}

func TestCleanOutput(t *testing.T) {
	promptRE := promptFor(platform.DriverIOSLike)

	tests := []struct {
		name    string
		raw     string
		command string
		want    string
	}{
		{
			name:    "echo and prompt stripped",
			raw:     "show clock\n10:04:01.123 UTC Mon Aug 24 2026\naccess-sw1#",
			command: "show clock",
			want:    "10:04:01.123 UTC Mon Aug 24 2026",
		},
		{
			name:    "echo only stripped from first line",
			raw:     "show run | include hostname\nhostname access-sw1\naccess-sw1#",
			command: "show run | include hostname",
			want:    "hostname access-sw1",
		},
		{
			name:    "mid-output blank lines preserved",
			raw:     "show version\nline one\n\nline two\naccess-sw1#",
			command: "show version",
			want:    "line one\n\nline two",
		},
		{
			name:    "no echo when device does not reflect input",
			raw:     "plain output\naccess-sw1#",
			command: "show version",
			want:    "plain output",
		},
		{
			name:    "empty",
			raw:     "",
			command: "show version",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanOutput(tt.raw, tt.command, promptRE); got != tt.want {
				t.Errorf("cleanOutput(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPromptShapes(t *testing.T) {
	tests := []struct {
		driver platform.Driver
		prompt string
	}{
		{platform.DriverIOSLike, "access-sw1#"},
		{platform.DriverIOSLike, "access-sw1>"},
		{platform.DriverNXOSLike, "nxos-leaf1# "},
		{platform.DriverEOSLike, "spine1.pod2#"},
		{platform.DriverJunosLike, "admin@mx1> "},
		{platform.DriverJunosLike, "admin@ex4300-sw# "},
		{platform.DriverWLCLike, "(Cisco Controller) >"},
	}

	for _, tt := range tests {
		t.Run(string(tt.driver)+"/"+tt.prompt, func(t *testing.T) {
			if !promptFor(tt.driver).MatchString(tt.prompt) {
				t.Errorf("prompt %q does not match the %s pattern", tt.prompt, tt.driver)
			}
		})
	}
}

func TestPromptForUnknownDriver(t *testing.T) {
	re := promptFor(platform.Driver("tty-like"))
	if re == nil {
		t.Fatal("promptFor returned nil for an unknown driver")
	}
	if !re.MatchString("something#") {
		t.Error("default prompt should match a generic hash prompt")
	}
}

func TestPagerCommands(t *testing.T) {
	tests := []struct {
		driver platform.Driver
		want   string
	}{
		{platform.DriverIOSLike, "terminal length 0"},
		{platform.DriverNXOSLike, "terminal length 0"},
		{platform.DriverEOSLike, "terminal length 0"},
		{platform.DriverJunosLike, "set cli screen-length 0"},
		{platform.DriverWLCLike, "config paging disable"},
	}

	for _, tt := range tests {
		if got := pagerOff[tt.driver]; got != tt.want {
			t.Errorf("pagerOff[%s] = %q, want %q", tt.driver, got, tt.want)
		}
	}
}
