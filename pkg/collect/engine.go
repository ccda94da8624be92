// Package collect orchestrates command runs across a device fleet. A
// bounded worker pool opens one session per device, runs the primary
// command for the requested intent, parses and normalizes it, then
// layers on enrichment secondaries. Failures stay per-device: one dead
// switch never blocks the rest of the fleet.
package collect

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/netherd-io/netherd/pkg/driver"
	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/parse"
	"github.com/netherd-io/netherd/pkg/platform"
	"github.com/netherd-io/netherd/pkg/run"
	"github.com/netherd-io/netherd/pkg/util"
)

// DefaultParallel is the worker pool cap when Options leaves it unset.
const DefaultParallel = 10

// Protocol selection for neighbor discovery.
const (
	ProtocolLLDP = "lldp"
	ProtocolCDP  = "cdp"
	ProtocolBoth = "both"
)

// Conn is one open device session. *driver.Session satisfies it.
type Conn interface {
	Run(ctx context.Context, command string) (string, error)
	Close() error
}

// Dialer opens device sessions. Tests substitute a fake; production
// wires *driver.Manager through ManagerDialer.
type Dialer interface {
	Open(ctx context.Context, device model.Device, creds model.Credentials) (Conn, error)
}

// ManagerDialer adapts *driver.Manager to the Dialer interface.
type ManagerDialer struct {
	Manager *driver.Manager
}

func (d ManagerDialer) Open(ctx context.Context, device model.Device, creds model.Credentials) (Conn, error) {
	sess, err := d.Manager.Open(ctx, device, creds)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Options tunes one Engine. The zero value collects with enrichment
// on, LLDP only, and the default pool size.
type Options struct {
	Parallel      int
	NoEnrich      bool   // skip lag/switchport/media secondaries
	ExcludeTrunks bool   // mac: drop entries learned on trunk ports
	Protocol      string // lldp, cdp, or both; empty means lldp
	SaveRaw       bool   // write raw command output under the run dir
}

// Engine runs collections for one invocation. Safe for concurrent use;
// all mutable state lives in the run context's counters and the
// per-call aggregation.
type Engine struct {
	dialer Dialer
	parser *parse.Parser
	creds  model.Credentials
	rctx   *run.Context
	opts   Options
}

// NewEngine builds an Engine. A nil run context disables raw-output
// saving and counter updates but is otherwise fine for library use.
func NewEngine(dialer Dialer, parser *parse.Parser, creds model.Credentials, rctx *run.Context, opts Options) *Engine {
	if opts.Parallel <= 0 {
		opts.Parallel = DefaultParallel
	}
	if opts.Protocol == "" {
		opts.Protocol = ProtocolLLDP
	}
	return &Engine{
		dialer: dialer,
		parser: parser,
		creds:  creds,
		rctx:   rctx,
		opts:   opts,
	}
}

// errNoCommand marks a platform with no command for the requested
// intent. The device is skipped, not failed.
var errNoCommand = errors.New("no command for intent on this platform")

// deviceFunc collects one device over an open session, returning how
// many records it produced.
type deviceFunc func(ctx context.Context, dev model.Device, p *platform.Platform, conn Conn) (int, error)

// collect fans devices out over the worker pool and aggregates one
// DeviceResult each. Result order is sorted by device name so reports
// are stable regardless of scheduling.
func (e *Engine) collect(ctx context.Context, intent platform.Intent, devices []model.Device, fn deviceFunc) *Report {
	started := time.Now()
	report := &Report{Intent: string(intent)}

	sem := make(chan struct{}, e.opts.Parallel)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, dev := range devices {
		if !dev.Enabled {
			mu.Lock()
			report.Results = append(report.Results, DeviceResult{
				Device: dev.DisplayName(),
				Status: StatusSkipped,
			})
			mu.Unlock()
			continue
		}
		wg.Add(1)
		go func(dev model.Device) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res := e.collectOne(ctx, intent, dev, fn)
			mu.Lock()
			report.Results = append(report.Results, res)
			mu.Unlock()
		}(dev)
	}
	wg.Wait()

	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Device < report.Results[j].Device
	})
	report.Elapsed = time.Since(started)

	if e.rctx != nil {
		ok, partial, failed, skipped := report.Counts()
		e.rctx.Count(string(intent)+".ok", ok)
		e.rctx.Count(string(intent)+".partial", partial)
		e.rctx.Count(string(intent)+".failed", failed)
		e.rctx.Count(string(intent)+".skipped", skipped)
		e.rctx.Log().WithField("intent", string(intent)).Info(report.Summary())
	}
	return report
}

// collectOne opens a session for one device, runs the intent function,
// and folds the outcome into a DeviceResult.
func (e *Engine) collectOne(ctx context.Context, intent platform.Intent, dev model.Device, fn deviceFunc) DeviceResult {
	started := time.Now()
	name := dev.DisplayName()
	log := util.WithDevice(name).WithField("intent", string(intent))

	res := DeviceResult{Device: name}
	fail := func(status Status, err error) DeviceResult {
		res.Status = status
		res.Err = err
		res.Error = err.Error()
		res.Category = util.CategoryOf(err)
		res.Elapsed = time.Since(started)
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(StatusSkipped, err)
	}

	p, err := platform.Resolve(dev.Platform)
	if err != nil {
		log.Warnf("unknown platform: %v", err)
		return fail(StatusFailed, err)
	}

	conn, err := e.dialer.Open(ctx, dev, e.creds)
	if err != nil {
		if util.CategoryOf(err) == util.CategoryCancel {
			return fail(StatusSkipped, err)
		}
		log.Warnf("connect failed: %v", err)
		return fail(StatusFailed, err)
	}
	defer conn.Close()

	n, err := fn(ctx, dev, p, conn)
	res.Records = n
	res.Elapsed = time.Since(started)
	switch {
	case err == nil:
		res.Status = StatusOK
	case errors.Is(err, errNoCommand):
		res.Status = StatusSkipped
		res.Err = err
		res.Error = err.Error()
		log.Debugf("skipped: %v", err)
	case util.CategoryOf(err) == util.CategoryCancel:
		res.Status = StatusSkipped
		res.Err = err
		res.Error = err.Error()
		res.Category = util.CategoryCancel
	case n > 0, util.CategoryOf(err) == util.CategoryParse:
		res.Status = StatusPartial
		res.Err = err
		res.Error = err.Error()
		res.Category = util.CategoryOf(err)
		log.Warnf("partial result: %v", err)
	default:
		res.Status = StatusFailed
		res.Err = err
		res.Error = err.Error()
		res.Category = util.CategoryOf(err)
		log.Warnf("failed: %v", err)
	}
	return res
}

// runPrimary executes the intent's primary command and parses it. The
// caller normalizes the rows and decides whether an empty table is a
// valid result or a degraded one (a version banner always has rows; a
// MAC table on a fresh switch may not).
func (e *Engine) runPrimary(ctx context.Context, dev model.Device, p *platform.Platform, conn Conn, intent platform.Intent) ([]parse.Row, string, error) {
	cmd, ok := p.CommandFor(intent)
	if !ok {
		return nil, "", fmt.Errorf("%s %s: %w", dev.Platform, intent, errNoCommand)
	}
	raw, err := conn.Run(ctx, cmd)
	if err != nil {
		return nil, cmd, err
	}
	e.saveRaw(dev, cmd, raw)
	rows, err := e.parser.Parse(raw, dev.Platform, cmd)
	if err != nil {
		return nil, cmd, err
	}
	return rows, cmd, nil
}

// secondary runs one enrichment command. The guard order follows the
// collection contract: the command must exist for the platform, and
// any failure is logged at warn, leaving primary records untouched.
func (e *Engine) secondary(ctx context.Context, dev model.Device, p *platform.Platform, conn Conn, intent platform.Intent) ([]parse.Row, bool) {
	cmd, ok := p.CommandFor(intent)
	if !ok {
		return nil, false
	}
	log := util.WithDevice(dev.DisplayName()).WithField("secondary", string(intent))

	raw, err := conn.Run(ctx, cmd)
	if err != nil {
		log.Warnf("secondary command failed: %v", err)
		return nil, false
	}
	e.saveRaw(dev, cmd, raw)
	rows, err := e.parser.Parse(raw, dev.Platform, cmd)
	if err != nil {
		log.Warnf("secondary parse failed: %v", err)
		return nil, false
	}
	return rows, true
}

// saveRaw writes one command's raw output under <output>/raw/<device>/
// when raw saving is on. Failures are logged and swallowed; raw dumps
// are a debugging aid, never part of the result.
func (e *Engine) saveRaw(dev model.Device, command, raw string) {
	if !e.opts.SaveRaw || e.rctx == nil {
		return
	}
	base, err := e.rctx.EnsureOutputDir()
	if err != nil || base == "" {
		return
	}
	dir := filepath.Join(base, "raw", dev.DisplayName())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		util.WithDevice(dev.DisplayName()).Warnf("raw output dir: %v", err)
		return
	}
	path := filepath.Join(dir, platform.CommandSlug(command)+".txt")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		util.WithDevice(dev.DisplayName()).Warnf("raw output write: %v", err)
	}
}

// noRowsError marks a required primary that parsed to zero records.
type noRowsError struct {
	Command string
}

func (e *noRowsError) Error() string {
	return fmt.Sprintf("no rows parsed from %q", e.Command)
}

func (e *noRowsError) Category() util.Category { return util.CategoryParse }
