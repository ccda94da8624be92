package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/term"

	"github.com/netherd-io/netherd/pkg/cli"
	"github.com/netherd-io/netherd/pkg/collect"
	"github.com/netherd-io/netherd/pkg/driver"
	"github.com/netherd-io/netherd/pkg/fleet"
	"github.com/netherd-io/netherd/pkg/history"
	"github.com/netherd-io/netherd/pkg/model"
	"github.com/netherd-io/netherd/pkg/parse"
	"github.com/netherd-io/netherd/pkg/platform"
	"github.com/netherd-io/netherd/pkg/run"
	"github.com/netherd-io/netherd/pkg/util"
)

// loadFleet resolves the device set from -i or --host flags and applies
// the site/role/limit filters.
func loadFleet() ([]model.Device, error) {
	var devices []model.Device

	switch {
	case inventoryFile != "" && len(hostFlags) > 0:
		return nil, util.NewValidationError("use either --inventory or --host, not both")
	case inventoryFile != "":
		var err error
		devices, err = fleet.Load(inventoryFile)
		if err != nil {
			return nil, err
		}
	case len(hostFlags) > 0:
		if platformFlag == "" {
			return nil, util.NewValidationError("--host requires --platform")
		}
		if _, err := platform.Resolve(platformFlag); err != nil {
			return nil, err
		}
		for _, h := range hostFlags {
			devices = append(devices, model.Device{
				Host:     h,
				Platform: platformFlag,
				Site:     siteFlag,
				Role:     roleFlag,
				Enabled:  true,
			})
		}
	default:
		return nil, util.NewValidationError("no devices: pass --inventory <file> or --host <addr> --platform <tag>")
	}

	devices = fleet.Apply(devices, fleet.Filter{Site: siteFlag, Role: roleFlag, Limit: limitFlag})
	if len(devices) == 0 {
		return nil, util.NewValidationError("no devices match the site/role filters")
	}
	return devices, nil
}

// credentials resolves the SSH login: flags first, then NET_* env,
// then an interactive prompt when stdin is a terminal.
func credentials() (model.Credentials, error) {
	creds := model.Credentials{
		Username: usernameFlag,
		Password: os.Getenv("NET_PASSWORD"),
		Enable:   os.Getenv("NET_ENABLE"),
	}
	if creds.Username == "" {
		creds.Username = os.Getenv("NET_USERNAME")
	}

	if creds.Username == "" || creds.Password == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return creds, fmt.Errorf("no credentials: set NET_USERNAME/NET_PASSWORD or run interactively: %w",
				util.ErrInvalidConfig)
		}
		if creds.Username == "" {
			fmt.Fprint(os.Stderr, "Username: ")
			if _, err := fmt.Scanln(&creds.Username); err != nil {
				return creds, fmt.Errorf("reading username: %w", err)
			}
		}
		if creds.Password == "" {
			fmt.Fprintf(os.Stderr, "Password for %s: ", creds.Username)
			pw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return creds, fmt.Errorf("reading password: %w", err)
			}
			creds.Password = string(pw)
		}
	}
	return creds, nil
}

// newRunContext builds the per-run context, defaulting the output
// directory to netherd-out/<run-id>.
func newRunContext(dryRun bool) *run.Context {
	rctx := run.New(run.Options{DryRun: dryRun, OutputDir: outputDir})
	if rctx.OutputDir == "" {
		rctx.OutputDir = filepath.Join("netherd-out", rctx.ShortID())
	}
	return rctx
}

// collectOpts are the per-intent collection switches shared by the
// collection commands.
type collectOpts struct {
	noEnrich      bool
	excludeTrunks bool
	protocol      string
	saveRaw       bool
}

// newEngine assembles the collection engine: SSH manager, template
// parser (with any local override directory), and the worker pool.
func newEngine(rctx *run.Context, creds model.Credentials, opts collectOpts) (*collect.Engine, error) {
	timeout := 30 * time.Second
	if timeoutFlag > 0 {
		timeout = time.Duration(timeoutFlag) * time.Second
	}
	mgr := driver.NewManager(timeout)
	if retriesFlag > 0 {
		mgr.SetAttempts(retriesFlag)
	}

	parser, err := parse.NewParser(userSettings.TemplatesDir)
	if err != nil {
		return nil, err
	}

	return collect.NewEngine(collect.ManagerDialer{Manager: mgr}, parser, creds, rctx, collect.Options{
		Parallel:      parallelFlag,
		NoEnrich:      opts.noEnrich,
		ExcludeTrunks: opts.excludeTrunks,
		Protocol:      opts.protocol,
		SaveRaw:       opts.saveRaw,
	}), nil
}

// writeExport writes canonical records as an indented JSON file under
// the run's output directory.
func writeExport(rctx *run.Context, name string, v any) error {
	path, err := rctx.OutputPath(name + ".json")
	if err != nil || path == "" {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	util.Infof("wrote %s", path)
	return nil
}

// printReport renders the per-device outcome table and returns the
// command's final error: nil on full success, exit code 1 when any
// device failed.
func printReport(report *collect.Report) error {
	t := cli.NewTable("DEVICE", "STATUS", "RECORDS", "TIME", "ERROR")
	for _, res := range report.Results {
		t.Row(res.Device, cli.StatusCell(string(res.Status)), fmt.Sprintf("%d", res.Records),
			res.Elapsed.Round(time.Millisecond).String(), res.Error)
	}
	t.Flush()
	fmt.Println(report.Summary())

	if _, _, failed, _ := report.Counts(); failed > 0 {
		return &exitError{code: 1, msg: fmt.Sprintf("%d of %d devices failed", failed, len(report.Results))}
	}
	return nil
}

// historyStore opens the store selected in settings. A history failure
// never fails the run; callers get nil and a logged warning.
func historyStore() history.Store {
	var (
		store history.Store
		err   error
	)
	switch userSettings.GetHistoryBackend() {
	case "redis":
		addr := userSettings.RedisAddr
		if addr == "" {
			addr = "127.0.0.1:6379"
		}
		store, err = history.NewRedisStore(addr, 0, userSettings.GetHistoryLimit())
	default:
		store, err = history.NewFileStore(userSettings.GetHistoryPath(), userSettings.GetHistoryLimit())
	}
	if err != nil {
		util.Warnf("history disabled: %v", err)
		return nil
	}
	return store
}

// recordHistory appends one run record, folding the collection report
// into per-device outcomes.
func recordHistory(rctx *run.Context, command string, report *collect.Report, records int, runErr error) {
	store := historyStore()
	if store == nil {
		return
	}
	defer store.Close()

	rec := history.Record{
		RunID:     rctx.RunID,
		Command:   command,
		StartedAt: rctx.StartedAt,
		Elapsed:   rctx.Elapsed(),
		DryRun:    rctx.DryRun,
		Site:      siteFlag,
		Role:      roleFlag,
		Records:   records,
	}
	if report != nil {
		for _, res := range report.Results {
			rec.Devices = append(rec.Devices, history.DeviceOutcome{
				Device:   res.Device,
				Status:   string(res.Status),
				Records:  res.Records,
				Error:    res.Error,
				Category: string(res.Category),
			})
		}
	}
	if runErr != nil {
		rec.Error = runErr.Error()
		rec.ExitCode = exitCode(runErr)
	}
	if err := store.Append(rec); err != nil {
		util.Warnf("recording history: %v", err)
	}
}
