// Package reconcile diffs collected fleet state against NetBox and
// applies the difference in strictly ordered phases: devices,
// interfaces, IP addresses, VLANs, cables, inventory items. Diffing is
// pure; applying honors dry-run and keeps failures scoped to the
// entity that caused them.
package reconcile

import (
	"fmt"
	"strings"
)

// FieldDelta records one tracked field moving between values.
type FieldDelta struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

func (d FieldDelta) String() string {
	return fmt.Sprintf("%s: %q -> %q", d.Field, d.Old, d.New)
}

// Change is one planned mutation for the entity behind a natural key.
// Creates carry only After, deletes only Before; updates carry both
// plus the per-field deltas.
type Change[T any] struct {
	Key    string       `json:"key"`
	Before *T           `json:"before,omitempty"`
	After  *T           `json:"after,omitempty"`
	Deltas []FieldDelta `json:"deltas,omitempty"`
}

// Plan is the diff outcome for one entity kind.
type Plan[T any] struct {
	Kind   string      `json:"kind"`
	Create []Change[T] `json:"create,omitempty"`
	Update []Change[T] `json:"update,omitempty"`
	Delete []Change[T] `json:"delete,omitempty"`
}

// Empty reports whether the plan carries no changes.
func (p *Plan[T]) Empty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// Totals returns the plan's change counts.
func (p *Plan[T]) Totals() Totals {
	return Totals{Create: len(p.Create), Update: len(p.Update), Delete: len(p.Delete)}
}

// Totals are the change counts of one phase's plan.
type Totals struct {
	Create int `json:"create"`
	Update int `json:"update"`
	Delete int `json:"delete"`
}

// Empty reports whether nothing is planned.
func (t Totals) Empty() bool {
	return t.Create == 0 && t.Update == 0 && t.Delete == 0
}

func (t Totals) String() string {
	return fmt.Sprintf("%d create, %d update, %d delete", t.Create, t.Update, t.Delete)
}

// PhaseResult counts what one phase actually did. In a dry run the
// counters reflect what would have been done.
type PhaseResult struct {
	Phase   string `json:"phase"`
	Planned Totals `json:"planned"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Deleted int    `json:"deleted"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

func (r PhaseResult) String() string {
	return fmt.Sprintf("%s: %d created, %d updated, %d deleted, %d skipped, %d failed",
		r.Phase, r.Created, r.Updated, r.Deleted, r.Skipped, r.Failed)
}

// Summary is the outcome of one reconciliation run, one entry per
// phase that ran.
type Summary struct {
	DryRun bool          `json:"dry_run"`
	Phases []PhaseResult `json:"phases"`
}

// Failed sums per-entity failures across phases.
func (s *Summary) Failed() int {
	n := 0
	for _, p := range s.Phases {
		n += p.Failed
	}
	return n
}

// Changed sums applied mutations across phases.
func (s *Summary) Changed() int {
	n := 0
	for _, p := range s.Phases {
		n += p.Created + p.Updated + p.Deleted
	}
	return n
}

func (s *Summary) String() string {
	if len(s.Phases) == 0 {
		return "no phases ran"
	}
	lines := make([]string, 0, len(s.Phases))
	for _, p := range s.Phases {
		lines = append(lines, p.String())
	}
	return strings.Join(lines, "; ")
}

// deltaSummary renders a change's field deltas on one log line.
func deltaSummary(deltas []FieldDelta) string {
	parts := make([]string, len(deltas))
	for i, d := range deltas {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}
