package driver

import (
	"context"
	"io"
	"net"
	"time"

	expect "github.com/google/goexpect"
	"github.com/juju/clock"
	"github.com/juju/retry"
	"golang.org/x/crypto/ssh"

	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/platform"
	"github.com/netherd-io/netherd/pkg/util"
)

const (
	// DefaultTimeout bounds each blocking step: dial, handshake,
	// prompt wait, and every command.
	DefaultTimeout = 30 * time.Second

	// DefaultAttempts is how many times Open tries before giving up
	// on a device with a retryable failure.
	DefaultAttempts = 3

	retryDelay    = 2 * time.Second
	maxRetryDelay = 15 * time.Second
)

// spawnFunc dials a device and returns an interactive expect session
// plus the transport to close with it. Swapped in tests.
type spawnFunc func(ctx context.Context, host string, creds model.Credentials, timeout time.Duration) (expecter, io.Closer, error)

// Manager opens device sessions with a bounded retry policy. One
// Manager serves a whole run; it holds no per-device state, so it is
// safe to share across workers.
type Manager struct {
	timeout  time.Duration
	attempts int
	clk      clock.Clock
	spawn    spawnFunc
}

// NewManager returns a Manager with the given per-operation timeout.
// Zero or negative means DefaultTimeout.
func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{
		timeout:  timeout,
		attempts: DefaultAttempts,
		clk:      clock.WallClock,
		spawn:    spawnSSH,
	}
}

// SetAttempts overrides the connect attempt budget. Values below one
// are clamped to a single attempt.
func (m *Manager) SetAttempts(n int) {
	if n < 1 {
		n = 1
	}
	m.attempts = n
}

// Open dials the device, authenticates, waits for the prompt, and
// turns the pager off. Timeouts and refused connections are retried
// with doubling backoff; auth rejections and unreachable hosts fail
// immediately. The returned session must be closed by the caller.
func (m *Manager) Open(ctx context.Context, device model.Device, creds model.Credentials) (*Session, error) {
	p, err := platform.Resolve(device.Platform)
	if err != nil {
		return nil, err
	}

	log := util.WithDevice(device.DisplayName())

	var sess *Session
	err = retry.Call(retry.CallArgs{
		Func: func() error {
			s, err := m.connect(ctx, device, creds, p.Driver)
			if err != nil {
				return err
			}
			sess = s
			return nil
		},
		IsFatalError: func(err error) bool {
			return !retryableOpen(err)
		},
		NotifyFunc: func(err error, attempt int) {
			log.WithField("attempt", attempt).Warnf("connect failed, retrying: %v", err)
		},
		Attempts:    m.attempts,
		Delay:       retryDelay,
		MaxDelay:    maxRetryDelay,
		BackoffFunc: retry.DoubleDelay,
		Clock:       m.clk,
		Stop:        ctx.Done(),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if retry.IsAttemptsExceeded(err) || retry.IsRetryStopped(err) {
			err = retry.LastError(err)
		}
		return nil, err
	}

	log.Debugf("session open (%s)", p.Driver)
	return sess, nil
}

// Run issues one command on an open session.
func (m *Manager) Run(ctx context.Context, sess *Session, command string) (string, error) {
	return sess.Run(ctx, command)
}

// Close releases the session's expect process and SSH transport.
func (m *Manager) Close(sess *Session) error {
	if sess == nil {
		return nil
	}
	return sess.Close()
}

// connect performs a single dial + handshake attempt.
func (m *Manager) connect(ctx context.Context, device model.Device, creds model.Credentials, drv platform.Driver) (*Session, error) {
	exp, transport, err := m.spawn(ctx, device.Host, creds, m.timeout)
	if err != nil {
		return nil, Classify(device.Host, err)
	}

	s := &Session{
		host:      device.Host,
		driver:    drv,
		promptRE:  promptFor(drv),
		timeout:   m.timeout,
		exp:       exp,
		transport: transport,
		log:       util.WithDevice(device.DisplayName()),
	}
	if err := s.handshake(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// sshAddr appends the default SSH port unless the host already carries
// one. Bare IPv6 addresses gain brackets.
func sshAddr(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, "22")
}

// spawnSSH dials TCP with the context, runs the SSH handshake with
// password and keyboard-interactive auth, and wraps the client in a
// goexpect session. Some devices only offer keyboard-interactive, so
// both methods answer with the same password.
func spawnSSH(ctx context.Context, host string, creds model.Credentials, timeout time.Duration) (expecter, io.Closer, error) {
	cfg := &ssh.ClientConfig{
		User: creds.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(creds.Password),
			ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range questions {
					answers[i] = creds.Password
				}
				return answers, nil
			}),
		},
		Timeout: timeout,
		// Fleet gear rarely has stable host keys across RMAs and
		// reimages; verification would strand half the inventory.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	addr := sshAddr(host)
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	// NewClientConn does not honor cfg.Timeout; bound the handshake
	// with a socket deadline and clear it once the session is up.
	if timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(timeout))
	}
	sc, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	_ = conn.SetDeadline(time.Time{})
	client := ssh.NewClient(sc, chans, reqs)

	exp, _, err := expect.SpawnSSH(client, timeout,
		expect.Verbose(false),
		expect.CheckDuration(500*time.Millisecond),
	)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return exp, client, nil
}
