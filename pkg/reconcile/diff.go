package reconcile

import "sort"

// DiffOptions controls delete behavior. Creates and updates are always
// computed; deletes only when Cleanup is set, and then only for
// observed keys the Deletable filter accepts. A nil filter accepts
// every key.
type DiffOptions struct {
	Cleanup   bool
	Deletable func(key string) bool
}

// Diff compares desired records against observed ones, both keyed by
// natural key, and returns the plan that would make observed equal
// desired. compare returns the tracked-field deltas between an
// observed record and the desired one; records with no deltas are
// untouched. The result is deterministic: changes appear in sorted key
// order, so the same inputs always produce the same plan.
func Diff[T any](kind string, desired, observed map[string]T, compare func(observed, desired T) []FieldDelta, opts DiffOptions) *Plan[T] {
	plan := &Plan[T]{Kind: kind}

	for _, key := range sortedKeys(desired) {
		want := desired[key]
		have, ok := observed[key]
		if !ok {
			plan.Create = append(plan.Create, Change[T]{Key: key, After: &want})
			continue
		}
		if deltas := compare(have, want); len(deltas) > 0 {
			plan.Update = append(plan.Update, Change[T]{Key: key, Before: &have, After: &want, Deltas: deltas})
		}
	}

	if opts.Cleanup {
		for _, key := range sortedKeys(observed) {
			if _, ok := desired[key]; ok {
				continue
			}
			if opts.Deletable != nil && !opts.Deletable(key) {
				continue
			}
			have := observed[key]
			plan.Delete = append(plan.Delete, Change[T]{Key: key, Before: &have})
		}
	}
	return plan
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// delta appends a FieldDelta when the values differ.
func delta(deltas []FieldDelta, field, old, now string) []FieldDelta {
	if old != now {
		deltas = append(deltas, FieldDelta{Field: field, Old: old, New: now})
	}
	return deltas
}
