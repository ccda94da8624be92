package collect

import (
	"errors"
	"fmt"
	"time"

	"github.com/netherd-io/netherd/pkg/util"
)

// Status is the outcome of one device within a collection run.
type Status string

const (
	// StatusOK means the primary collection completed in full.
	StatusOK Status = "ok"

	// StatusPartial means the device was reachable but the result is
	// degraded: primary rows missing, a command timed out mid-run, or
	// a protocol leg failed while another succeeded.
	StatusPartial Status = "partial"

	// StatusFailed means nothing usable came back.
	StatusFailed Status = "failed"

	// StatusSkipped covers devices that never ran: disabled in the
	// fleet, cancelled before start, or no command for the intent.
	StatusSkipped Status = "skipped"
)

// DeviceResult is the per-device outcome of one collection run.
type DeviceResult struct {
	Device   string        `json:"device"`
	Status   Status        `json:"status"`
	Records  int           `json:"records"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
	Category util.Category `json:"category,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Report aggregates per-device results for one intent run. Built under
// the engine's mutex; read-only once the entry point returns.
type Report struct {
	Intent  string         `json:"intent"`
	Results []DeviceResult `json:"results"`
	Elapsed time.Duration  `json:"elapsed"`
}

// Counts returns how many devices landed in each status.
func (r *Report) Counts() (ok, partial, failed, skipped int) {
	for _, res := range r.Results {
		switch res.Status {
		case StatusOK:
			ok++
		case StatusPartial:
			partial++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return ok, partial, failed, skipped
}

// Records returns the total record count across all devices.
func (r *Report) Records() int {
	total := 0
	for _, res := range r.Results {
		total += res.Records
	}
	return total
}

// Failed reports whether any device failed outright. Partial results
// and skips do not count.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Err joins the errors of all failed and partial devices, or nil when
// every device came back clean.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err == nil {
			continue
		}
		if res.Status == StatusFailed || res.Status == StatusPartial {
			errs = append(errs, fmt.Errorf("%s: %w", res.Device, res.Err))
		}
	}
	return errors.Join(errs...)
}

// Result returns the entry for one device.
func (r *Report) Result(device string) (DeviceResult, bool) {
	for _, res := range r.Results {
		if res.Device == device {
			return res, true
		}
	}
	return DeviceResult{}, false
}

// Summary renders the one-line closing summary for logs and the CLI.
func (r *Report) Summary() string {
	ok, partial, failed, skipped := r.Counts()
	return fmt.Sprintf("%s: %d ok, %d partial, %d failed, %d skipped, %d records in %s",
		r.Intent, ok, partial, failed, skipped, r.Records(), r.Elapsed.Round(time.Millisecond))
}
