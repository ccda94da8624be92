// Package history keeps an append-only record of past runs: what was
// collected or synced, per-device outcomes, and per-phase diff totals.
// The default backend is a capped JSON-lines file; a Redis backend is
// available for shared operator hosts.
package history

import (
	"time"

	"github.com/netherd-io/netherd/pkg/reconcile"
)

// DefaultLimit is how many run records a store retains when the
// caller does not configure a cap.
const DefaultLimit = 50

// DeviceOutcome is the per-device result of a collection run.
type DeviceOutcome struct {
	Device   string `json:"device"`
	Status   string `json:"status"` // ok, partial, failed, skipped
	Records  int    `json:"records"`
	Error    string `json:"error,omitempty"`
	Category string `json:"category,omitempty"`
}

// Record is one completed run.
type Record struct {
	RunID     string        `json:"run_id"`
	Command   string        `json:"command"` // intent or "sync-netbox"
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
	DryRun    bool          `json:"dry_run,omitempty"`
	Site      string        `json:"site,omitempty"`
	Role      string        `json:"role,omitempty"`

	Devices  []DeviceOutcome         `json:"devices,omitempty"`
	Phases   []reconcile.PhaseResult `json:"phases,omitempty"`
	Records  int                     `json:"records,omitempty"` // canonical records produced
	Error    string                  `json:"error,omitempty"`
	ExitCode int                     `json:"exit_code"`
}

// Store is a run history backend. Append trims the store to its cap;
// List returns newest first.
type Store interface {
	Append(rec Record) error
	List(limit int) ([]Record, error)
	Get(runID string) (*Record, bool, error)
	Close() error
}

// matchRun accepts either the full run id or its short prefix.
func matchRun(rec Record, runID string) bool {
	if rec.RunID == runID {
		return true
	}
	return len(runID) >= 8 && len(rec.RunID) > len(runID) && rec.RunID[:len(runID)] == runID
}
