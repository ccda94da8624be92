// Package run carries per-invocation state: the run id, dry-run flag,
// output directory, and thread-safe counters that workers update while
// the run progresses.
package run

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/netherd-io/netherd/pkg/util"
)

// Context is the per-run metadata handed to collectors and the
// reconciler. It is read-only after construction except for the
// counters, which are mutex-guarded.
type Context struct {
	RunID     string
	DryRun    bool
	StartedAt time.Time
	OutputDir string

	mu       sync.Mutex
	counters map[string]int
}

// Options configures a new run Context.
type Options struct {
	DryRun    bool
	OutputDir string // empty means no exports are written
}

// New creates a Context with a fresh run id.
func New(opts Options) *Context {
	return &Context{
		RunID:     uuid.NewString(),
		DryRun:    opts.DryRun,
		StartedAt: time.Now(),
		OutputDir: opts.OutputDir,
		counters:  make(map[string]int),
	}
}

// ShortID returns the first segment of the run id, enough to identify
// a run in log lines and directory names.
func (c *Context) ShortID() string {
	if len(c.RunID) > 8 {
		return c.RunID[:8]
	}
	return c.RunID
}

// Elapsed returns the time since the run started.
func (c *Context) Elapsed() time.Duration {
	return time.Since(c.StartedAt)
}

// Log returns a logger carrying the run id field.
func (c *Context) Log() *logrus.Entry {
	return util.WithRun(c.ShortID())
}

// Count adds delta to a named counter and returns the new value.
func (c *Context) Count(name string, delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name] += delta
	return c.counters[name]
}

// Counter returns the current value of a named counter.
func (c *Context) Counter(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[name]
}

// Counters returns a copy of all counters.
func (c *Context) Counters() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.counters))
	for k, v := range c.counters {
		out[k] = v
	}
	return out
}

// CounterNames returns the names of all counters, sorted.
func (c *Context) CounterNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.counters))
	for k := range c.counters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// EnsureOutputDir creates the output directory if one is configured
// and returns its path. Returns "" when no output dir is set.
func (c *Context) EnsureOutputDir() (string, error) {
	if c.OutputDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	return c.OutputDir, nil
}

// OutputPath joins name onto the output directory, creating the
// directory on first use. Returns "" when no output dir is set.
func (c *Context) OutputPath(name string) (string, error) {
	dir, err := c.EnsureOutputDir()
	if err != nil || dir == "" {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
